// Package retry runs an operation a bounded number of times with a pluggable
// backoff, stopping early on context cancellation or a non-retryable error.
package retry

import (
	"context"
	"errors"
	"time"
)

// Func defines a retryable function. It must respect the provided context.
type Func func(ctx context.Context) error

// RetryIf reports whether err should trigger another attempt.
type RetryIf func(error) bool

// OnRetry is called after a failed attempt that will be retried.
// attempt starts from 1.
type OnRetry func(attempt int, err error)

// Backoff defines how long to wait before the next attempt.
// attempt starts from 0 (the wait after the first failure).
type Backoff interface {
	Next(attempt int) time.Duration
}

type fixedBackoff struct {
	interval time.Duration
}

func (b fixedBackoff) Next(int) time.Duration {
	return b.interval
}

// Fixed waits the same interval between every attempt.
func Fixed(interval time.Duration) Backoff {
	return fixedBackoff{interval: interval}
}

type linearBackoff struct {
	step time.Duration
	max  time.Duration
}

func (b linearBackoff) Next(attempt int) time.Duration {
	d := b.step * time.Duration(attempt+1)
	if b.max > 0 && d > b.max {
		return b.max
	}
	return d
}

// Linear waits step, 2*step, 3*step ... optionally capped by max.
func Linear(step time.Duration, max ...time.Duration) Backoff {
	var m time.Duration
	if len(max) > 0 {
		m = max[0]
	}
	return linearBackoff{step: step, max: m}
}

type config struct {
	maxAttempts int
	backoff     Backoff
	retryIf     RetryIf
	onRetry     OnRetry
}

func defaultConfig() *config {
	return &config{
		maxAttempts: 3,
		backoff:     Linear(500 * time.Millisecond),
		retryIf:     IsRetryableError,
	}
}

// Option configures retry behavior.
type Option func(*config)

// WithMaxAttempts sets the maximum number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the backoff strategy.
func WithBackoff(b Backoff) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

// WithRetryIf sets the retry condition.
func WithRetryIf(fn RetryIf) Option {
	return func(c *config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// WithOnRetry registers a hook fired before each wait.
func WithOnRetry(fn OnRetry) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}

// Do executes fn until it succeeds, the attempts are exhausted, retryIf
// rejects the error, or ctx is done. The last error is returned.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !cfg.retryIf(err) || attempt == cfg.maxAttempts-1 {
			break
		}

		if cfg.onRetry != nil {
			cfg.onRetry(attempt+1, err)
		}

		if wait := cfg.backoff.Next(attempt); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			}
		}
	}

	return lastErr
}

// Permanent wraps err so that IsRetryableError rejects it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// IsRetryableError is the default retry condition: everything except context
// errors and errors marked Permanent.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var p *permanentError
	if errors.As(err, &p) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
