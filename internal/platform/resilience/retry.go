package resilience

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

var errTransient = errors.New("transient failure")

// MarkTransient flags err as worth retrying.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errTransient)
}

func IsTransient(err error) bool {
	return err != nil && errors.Is(err, errTransient)
}

// Retry calls fn up to maxRetries+1 times while it fails transiently,
// waiting backoff(attempt) between attempts.
func Retry(ctx context.Context, maxRetries int, backoff func(attempt int) time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff == nil {
		backoff = LinearBackoff(time.Second)
	}

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) || attempt == maxRetries {
			return err
		}

		timer := time.NewTimer(backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// LinearBackoff waits (attempt+1)*step.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt+1) * step
	}
}
