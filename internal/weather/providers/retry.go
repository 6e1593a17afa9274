package providers

import (
	"context"
	"errors"
	"time"
)

// transientError marks a transport-level failure (connection error, timeout,
// non-2xx status) as eligible for retry. Anything not wrapped this way, such
// as a payload parse failure, propagates on the first attempt.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// transient wraps err as retryable.
func transient(err error) error {
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// retry runs fn up to attempts times, sleeping with exponential backoff
// between attempts (initial delay doubling up to cap). Only transient errors
// are retried; the last transient error is returned once attempts are
// exhausted. Rate-limit and circuit-open conditions never reach this loop,
// they are raised before it is entered. Fewer than one attempt is treated
// as one.
func retry(ctx context.Context, attempts int, initial, cap time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := initial
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if attempt >= attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > cap {
			delay = cap
		}
	}
}
