package service

import (
	"context"
	"time"

	"inkwell/internal/models"
)

// RetryPolicy decides whether a failed generation attempt should be tried
// again and how long to wait first. attempt is 1-based and counts the call
// that just failed.
type RetryPolicy func(attempt int, err error) (time.Duration, bool)

// NewParseRetryPolicy allows up to maxAttempts total attempts, retrying
// only parsing failures with a base*attempt backoff. Provider errors, rate
// limits and everything else propagate immediately.
func NewParseRetryPolicy(maxAttempts int, base time.Duration) RetryPolicy {
	return func(attempt int, err error) (time.Duration, bool) {
		if attempt >= maxAttempts {
			return 0, false
		}
		if !models.IsCode(err, models.CodeParsingError) {
			return 0, false
		}
		return base * time.Duration(attempt), true
	}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
