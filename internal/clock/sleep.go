// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NowMillis returns the current UTC time truncated to millisecond precision,
// the finest precision every ledger store keeps.
func NowMillis() time.Time {
	return Millis(time.Now())
}

// Millis converts t to UTC and drops sub-millisecond precision.
func Millis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Backoff returns the delay before retry attempt n (starting at 1), doubling base up to limit.
func Backoff(base, limit time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	if d > limit {
		return limit
	}
	return d
}
