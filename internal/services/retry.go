package services

import (
	"context"
	"errors"
	"time"
)

var ErrNoAttempts = errors.New("retry policy allows no attempts")

// RetryPolicy retries an operation a bounded number of times with a fixed
// delay between attempts. There is no backoff and no jitter.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 2 * time.Second}
}

// Do runs operation until it succeeds, attempts are exhausted, or ctx ends.
// It returns the last operation error, or the context error when cancelled.
func (policy RetryPolicy) Do(ctx context.Context, operation func(ctx context.Context, attempt int) error) error {
	if policy.Attempts <= 0 {
		return ErrNoAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == policy.Attempts {
			break
		}
		if err := sleepContext(ctx, policy.Delay); err != nil {
			return err
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
