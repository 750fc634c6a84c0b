package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when a remote cache backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// A redis that is still starting gets pingAttempts tries, pingDelay apart
// at first and doubling after each failure.
var (
	pingAttempts = 3
	pingDelay    = 200 * time.Millisecond
)

// retryable reports whether a failed redis call can succeed when repeated.
// A server reply such as NOAUTH or WRONGPASS will not change, and neither
// will an ended context.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var reply redis.Error
	return !errors.As(err, &reply)
}

// withRetry calls fn until it succeeds, fails with an error that is not
// retryable, or has failed pingAttempts times.
func withRetry(ctx context.Context, fn func() error) error {
	delay := pingDelay
	var err error
	for i := range pingAttempts {
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
		if i == pingAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
