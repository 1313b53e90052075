package storage

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Retry calls fn up to attempts times, doubling delay between tries. Only
// retryable errors trigger another attempt.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// WithRetry wraps repo so that reads failing with a retryable error are
// retried with backoff. Writes are passed through unchanged.
func WithRetry(repo Repository) Repository {
	return &retrying{Repository: repo, attempts: 3, delay: time.Second}
}

type retrying struct {
	Repository
	attempts int
	delay    time.Duration
}

func (r *retrying) Get(ctx context.Context, workspaceID string) ([]byte, error) {
	var data []byte
	err := Retry(ctx, r.attempts, r.delay, func() error {
		var err error
		data, err = r.Repository.Get(ctx, workspaceID)
		return err
	})
	return data, err
}
