package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetwork marks failures talking to a remote backend.
	ErrNetwork = errors.New("network error")

	// ErrBackend is returned for an unrecognized cache target.
	ErrBackend = errors.New("unsupported cache backend")
)

// retryAttempts bounds RetryWithBackoff.
const retryAttempts = 3

// initialBackoff is the first retry delay. Tests shorten it.
var initialBackoff = 100 * time.Millisecond

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// unavailable reports a failed backend call as a retryable network error.
func unavailable(backend, op string, err error) error {
	return Retryable(fmt.Errorf("%w: %s %s: %v", ErrNetwork, backend, op, err))
}

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or has failed retryAttempts times. The delay starts at
// initialBackoff and doubles after each failure.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := initialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
			delay *= 2
		}
	}
}
