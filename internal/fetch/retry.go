package fetch

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds how a single page fetch is retried. It is injected into
// the Pager so tests can substitute zero backoff and simulate exhaustion.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries per page, including the first.
	MaxAttempts int
	// MaxRateLimitWait caps how long a rate-limit reset is worth waiting for.
	// A reset further away fails the pass instead of stalling the process.
	MaxRateLimitWait time.Duration
	// NewBackOff produces a fresh backoff schedule per page.
	NewBackOff func() backoff.BackOff
}

// DefaultRetryPolicy mirrors the API client defaults: three attempts with
// exponential backoff starting at five seconds, and rate-limit waits of up to
// two minutes honored in place of the schedule.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:      3,
		MaxRateLimitWait: 2 * time.Minute,
		NewBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 5 * time.Second
			bo.MaxInterval = 60 * time.Second
			return bo
		},
	}
}

// sleepCtx blocks for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
