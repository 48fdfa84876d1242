package twitter

import (
	"errors"
	"fmt"
	"time"
)

// ErrAuthentication indicates the bearer credential is missing or was rejected.
// Fatal for the whole run, never retried.
var ErrAuthentication = errors.New("twitter: authentication rejected")

// RateLimitError indicates the API throttled the request. RetryAfter is how
// long the API asked us to wait before the limit resets.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("twitter: rate limited, reset in %s", e.RetryAfter)
}

// APIError is a non-2xx response that is neither an auth failure nor a rate
// limit. 5xx responses are retryable, other 4xx are not.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter: HTTP %d: %s", e.StatusCode, e.Detail)
}

// IsRetryable reports whether an error from FetchPage is worth retrying with
// backoff. Transport-level failures (timeouts, resets) are retryable; rejected
// credentials and client errors are not.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrAuthentication) {
		return false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var api *APIError
	if errors.As(err, &api) {
		return api.StatusCode >= 500
	}
	return true
}
