package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration. Secrets are never written to
// the config file; they come from the environment (or a .env file loaded at
// startup) and are attached after decoding.
type Config struct {
	Version   int             `toml:"version"`
	Database  DatabaseConfig  `toml:"database"`
	API       APIConfig       `toml:"api"`
	Retry     RetryConfig     `toml:"retry"`
	Analysis  AnalysisConfig  `toml:"analysis"`
	Report    ReportConfig    `toml:"report"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Watch     WatchConfig     `toml:"watch"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	PageSize       int    `toml:"page_size"`
	MaxPages       int    `toml:"max_pages"`
	PageDelayMS    int    `toml:"page_delay_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// BearerToken comes from X_BEARER_TOKEN, never from the file.
	BearerToken string `toml:"-"`
}

type RetryConfig struct {
	MaxAttempts             int `toml:"max_attempts"`
	InitialIntervalSeconds  int `toml:"initial_interval_seconds"`
	MaxIntervalSeconds      int `toml:"max_interval_seconds"`
	MaxRateLimitWaitSeconds int `toml:"max_rate_limit_wait_seconds"`
}

type AnalysisConfig struct {
	Model     string `toml:"model"`
	MaxTokens int64  `toml:"max_tokens"`

	// APIKey comes from ANTHROPIC_API_KEY, never from the file.
	APIKey string `toml:"-"`
}

type ReportConfig struct {
	OutputDir     string `toml:"output_dir"`
	MaxPerSection int    `toml:"max_per_section"`
}

type DashboardConfig struct {
	Addr  string   `toml:"addr"`
	Posts []string `toml:"posts"` // tracked source post IDs
}

type WatchConfig struct {
	IntervalMinutes int `toml:"interval_minutes"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	cfg := &Config{
		Version: 1,
		Database: DatabaseConfig{
			Path: filepath.Join("data", "feedback.db"),
		},
		API: APIConfig{
			BaseURL:        "https://api.twitter.com/2",
			PageSize:       100,
			MaxPages:       50,
			PageDelayMS:    1000,
			TimeoutSeconds: 30,
		},
		Retry: RetryConfig{
			MaxAttempts:             3,
			InitialIntervalSeconds:  5,
			MaxIntervalSeconds:      60,
			MaxRateLimitWaitSeconds: 120,
		},
		Analysis: AnalysisConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 8000,
		},
		Report: ReportConfig{
			OutputDir:     "output",
			MaxPerSection: 10,
		},
		Dashboard: DashboardConfig{
			Addr: "localhost:8765",
		},
		Watch: WatchConfig{
			IntervalMinutes: 30,
		},
	}
	cfg.applyEnv()
	return cfg
}

// applyEnv attaches secrets from the environment.
func (c *Config) applyEnv() {
	c.API.BearerToken = os.Getenv("X_BEARER_TOKEN")
	c.Analysis.APIKey = os.Getenv("ANTHROPIC_API_KEY")
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "twitter-feedback"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from an explicit path
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return &cfg, nil
}

// LoadOrDefault loads the config file, falling back to defaults on first run.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to an explicit path
func (c *Config) SaveTo(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
