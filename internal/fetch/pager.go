// Package fetch implements the incremental fetch core: a crash-safe,
// resumable pagination engine over the X API. Pages are persisted as soon as
// they arrive; watermarks are committed once, at the end of a fully successful
// pass, so an interrupted run resumes from the last known-good boundary.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rohunvora/twitter-feedback/internal/store"
	"github.com/rohunvora/twitter-feedback/internal/twitter"
)

// PageFetcher issues one paginated request. *twitter.Client implements it;
// tests inject fakes.
type PageFetcher interface {
	FetchPage(ctx context.Context, req twitter.PageRequest) (*twitter.Page, error)
}

// PagerConfig bounds a single pass.
type PagerConfig struct {
	MaxPages  int           // hard cap on pages per pass
	PageDelay time.Duration // pause between consecutive page requests
}

// DefaultPagerConfig matches the API client defaults: up to 50 pages per pass
// with a one second pause between pages.
func DefaultPagerConfig() PagerConfig {
	return PagerConfig{MaxPages: 50, PageDelay: time.Second}
}

// Pager drives one (source post, relation, mode) pass to completion.
type Pager struct {
	store *store.Store
	api   PageFetcher
	retry RetryPolicy
	cfg   PagerConfig
}

// NewPager creates a Pager over the given store and API client.
func NewPager(st *store.Store, api PageFetcher, retry RetryPolicy, cfg PagerConfig) *Pager {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultPagerConfig().MaxPages
	}
	return &Pager{store: st, api: api, retry: retry, cfg: cfg}
}

// PassResult summarizes one completed (or no-op) pass.
type PassResult struct {
	ParentID   string
	Relation   store.Relation
	Mode       Mode
	Fetched    int    // rows written across all pages
	NewestSeen string // max ID observed this pass, "" if none
	OldestSeen string // min ID observed this pass, "" if none
	NoOp       bool   // true when nothing was fetched and no watermark moved
}

// Run executes one full pass. Tweets are upserted after every page; the
// watermark for the pass's direction is committed exactly once, after all
// pages succeed, using the min/max IDs observed across the whole pass. On
// failure the watermark keeps its pre-pass value and already-persisted rows
// remain as a best-effort cache.
func (p *Pager) Run(ctx context.Context, parentID string, relation store.Relation, mode Mode) (*PassResult, error) {
	res := &PassResult{ParentID: parentID, Relation: relation, Mode: mode}

	bounds, current, ok, err := p.resolveBounds(ctx, parentID, relation, mode)
	if err != nil {
		return res, &PassError{Relation: relation, Mode: mode, Err: err}
	}
	if !ok {
		log.WithFields(log.Fields{"parent": parentID, "relation": relation}).
			Info("nothing to backfill from, skipping pass")
		res.NoOp = true
		return res, nil
	}

	logger := log.WithFields(log.Fields{
		"parent":   parentID,
		"relation": relation,
		"mode":     mode,
	})
	logger.Info("starting pass")

	token := ""
	for pageNum := 0; pageNum < p.cfg.MaxPages; pageNum++ {
		req := twitter.PageRequest{
			ParentID:  parentID,
			Relation:  relation,
			SinceID:   bounds.SinceID,
			UntilID:   bounds.UntilID,
			NextToken: token,
		}

		page, err := p.fetchWithRetry(ctx, req)
		if err != nil {
			logger.WithError(err).Warn("pass aborted, watermark left untouched")
			return res, &PassError{Relation: relation, Mode: mode, Err: err}
		}

		if len(page.Tweets) == 0 {
			break
		}

		for _, t := range page.Tweets {
			if res.NewestSeen == "" || compareIDs(t.ID, res.NewestSeen) > 0 {
				res.NewestSeen = t.ID
			}
			if res.OldestSeen == "" || compareIDs(t.ID, res.OldestSeen) < 0 {
				res.OldestSeen = t.ID
			}
		}

		// Persist immediately so a crash mid-pass loses at most one page.
		written, err := p.store.UpsertTweets(ctx, page.Tweets)
		if err != nil {
			return res, &PassError{Relation: relation, Mode: mode, Err: err}
		}
		res.Fetched += written
		logger.WithFields(log.Fields{"page": pageNum + 1, "tweets": written, "total": res.Fetched}).
			Info("page saved")

		if !ShouldContinue(page) {
			break
		}
		token = page.NextToken

		if err := sleepCtx(ctx, p.cfg.PageDelay); err != nil {
			return res, &PassError{Relation: relation, Mode: mode, Err: err}
		}
	}

	if res.Fetched == 0 {
		logger.Info("no new tweets, watermarks unchanged")
		res.NoOp = true
		return res, nil
	}

	if err := p.commit(ctx, res, current); err != nil {
		return res, &PassError{Relation: relation, Mode: mode, Err: err}
	}

	logger.WithField("fetched", res.Fetched).Info("pass complete")
	return res, nil
}

// resolveBounds reads the watermark the mode consults and derives the page
// bounds. The returned current value is the pre-pass watermark the commit
// compares against. ok is false when a backfill has no boundary to work from.
func (p *Pager) resolveBounds(ctx context.Context, parentID string, relation store.Relation, mode Mode) (Bounds, string, bool, error) {
	if mode == ModeBackfill {
		oldest, err := p.store.Watermark(ctx, parentID, relation, store.DirectionOldest)
		if err != nil {
			return Bounds{}, "", false, err
		}
		if oldest == "" {
			// No backfill watermark yet: fall back to the oldest tweet a prior
			// forward run stored for this relation.
			oldest, err = p.store.OldestTweetID(ctx, parentID, relation)
			if err != nil {
				return Bounds{}, "", false, err
			}
			if oldest == "" {
				return Bounds{}, "", false, nil
			}
		}
		return PageBounds(mode, "", oldest), oldest, true, nil
	}

	newest, err := p.store.Watermark(ctx, parentID, relation, store.DirectionNewest)
	if err != nil {
		return Bounds{}, "", false, err
	}
	return PageBounds(mode, newest, ""), newest, true, nil
}

// commit advances the watermark for the pass direction, once, monotonically.
func (p *Pager) commit(ctx context.Context, res *PassResult, current string) error {
	if res.Mode == ModeBackfill {
		if updated, changed := regressOldest(current, res.OldestSeen); changed {
			return p.store.SetWatermark(ctx, res.ParentID, res.Relation, store.DirectionOldest, updated)
		}
		return nil
	}
	if updated, changed := advanceNewest(current, res.NewestSeen); changed {
		return p.store.SetWatermark(ctx, res.ParentID, res.Relation, store.DirectionNewest, updated)
	}
	return nil
}

// fetchWithRetry fetches one page, retrying transient failures with backoff.
// Rate-limit responses wait for the server-provided reset instead of the
// schedule, unless the reset is further away than the policy tolerates.
func (p *Pager) fetchWithRetry(ctx context.Context, req twitter.PageRequest) (*twitter.Page, error) {
	bo := p.retry.NewBackOff()
	var lastErr error

	for attempt := 1; attempt <= p.retry.MaxAttempts; attempt++ {
		page, err := p.api.FetchPage(ctx, req)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !twitter.IsRetryable(err) {
			return nil, err
		}
		if attempt == p.retry.MaxAttempts {
			break
		}

		wait := bo.NextBackOff()
		var rl *twitter.RateLimitError
		if errors.As(err, &rl) {
			if rl.RetryAfter > p.retry.MaxRateLimitWait {
				return nil, fmt.Errorf("rate limit reset too far away (%s): %w", rl.RetryAfter, err)
			}
			wait = rl.RetryAfter
		}

		log.WithError(err).WithFields(log.Fields{"attempt": attempt, "wait": wait}).
			Warn("page fetch failed, retrying")
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", p.retry.MaxAttempts, lastErr)
}
