package github

import (
	"context"
	"fmt"
	"time"
)

// doWithRetry runs fn up to maxRetries+1 times, doubling the backoff between
// attempts. Only transient failures (rate limiting, 5xx, timeouts) are
// retried; terminal failures surface immediately.
func doWithRetry(ctx context.Context, maxRetries int, backoff time.Duration, fn func() error) error {
	if backoff <= 0 {
		backoff = DefaultInitialBackoff
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry canceled: %w", err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries || !isRetryableError(lastErr) {
			break
		}
		if err := sleepContext(ctx, backoff); err != nil {
			return fmt.Errorf("sleep before retry: %w", err)
		}
		backoff *= 2
	}

	return lastErr
}

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
