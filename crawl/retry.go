package crawl

import (
	"context"
	"time"
)

// RateLimitDelays returns the backoff schedule applied to rate-limited
// (429/503) API requests: 500ms, 1s.
func RateLimitDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 1 * time.Second}
}

// Retryable is the signature for an operation passed to RetryWithBackoff.
// Returning retry=true schedules another attempt; err is only surfaced
// after the schedule is exhausted or when retry is false.
type Retryable func(ctx context.Context) (retry bool, err error)

// RetryWithBackoff runs op up to len(delays)+1 times, sleeping the
// scheduled delay between attempts. It is decoupled from any HTTP client
// so it can be exercised with an empty or shortened schedule in tests.
func RetryWithBackoff(ctx context.Context, delays []time.Duration, op Retryable) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		retry, err := op(ctx)
		if !retry {
			return err
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
