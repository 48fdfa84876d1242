package main

import (
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"

	"github.com/rohunvora/twitter-feedback/internal/config"
	"github.com/rohunvora/twitter-feedback/internal/fetch"
	"github.com/rohunvora/twitter-feedback/internal/store"
	"github.com/rohunvora/twitter-feedback/internal/twitter"
)

// loadConfig loads the config file, creating a default one on first run.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Default()
			if saveErr := cfg.Save(); saveErr != nil {
				log.Warnf("could not save default config: %v", saveErr)
			} else if path, pathErr := config.ConfigPath(); pathErr == nil {
				log.Infof("created default config at: %s", path)
			}
		} else {
			log.Warnf("could not load config: %v (using defaults)", err)
			cfg = config.Default()
		}
	}
	return cfg
}

// openStore opens the SQLite store at the configured path.
func openStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.Database.Path)
}

// newOrchestrator wires the API client, retry policy, and pager from config.
func newOrchestrator(cfg *config.Config, st *store.Store) *fetch.Orchestrator {
	client := twitter.New(twitter.Config{
		BearerToken: cfg.API.BearerToken,
		BaseURL:     cfg.API.BaseURL,
		PageSize:    cfg.API.PageSize,
		Timeout:     time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})

	retry := fetch.RetryPolicy{
		MaxAttempts:      cfg.Retry.MaxAttempts,
		MaxRateLimitWait: time.Duration(cfg.Retry.MaxRateLimitWaitSeconds) * time.Second,
		NewBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = time.Duration(cfg.Retry.InitialIntervalSeconds) * time.Second
			bo.MaxInterval = time.Duration(cfg.Retry.MaxIntervalSeconds) * time.Second
			return bo
		},
	}

	pager := fetch.NewPager(st, client, retry, fetch.PagerConfig{
		MaxPages:  cfg.API.MaxPages,
		PageDelay: time.Duration(cfg.API.PageDelayMS) * time.Millisecond,
	})

	return fetch.NewOrchestrator(pager)
}
