// Package retry re-runs an operation with a quadratic backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls retry behaviour.
type Config struct {
	// MaxAttempts is the total number of calls including the first attempt.
	MaxAttempts int
	// BaseDelay is the base for the backoff. Wait = BaseDelay * attempt².
	// Zero retries immediately.
	BaseDelay time.Duration
	// Retryable decides whether a failed attempt may be retried.
	// A nil Retryable retries every error.
	Retryable func(err error) bool
	// OnRetry runs after a failed attempt and before the next one. It is
	// the place to repair whatever made the attempt fail.
	// attempt is 1-indexed (1 = first attempt just failed).
	OnRetry func(attempt int, err error)
}

// Do calls fn up to cfg.MaxAttempts times.
//
// Returns nil on first success, the first non-retryable error, or the last
// error once all attempts are used.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if cfg.Retryable != nil && !cfg.Retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}

		delay := cfg.BaseDelay * time.Duration(attempt*attempt)
		if delay <= 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("retry cancelled after attempt %d: %w", attempt, err)
			}
			continue
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled after attempt %d: %w", attempt, ctx.Err())
		}
	}
	return lastErr
}
