package retryx

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/avdatabase/x/errorx"
)

const (
	DefaultInterval       = 500 * time.Millisecond
	DefaultMaxInterval    = 2 * time.Second
	DefaultMaxElapsedTime = 5 * time.Second
	DefaultMaxRetries     = 3
)

// ConstantRetry executes the provided function `fn` with a constant retry interval.
// This function is designed for simple retry scenarios where the interval between retries
// and the maximum number of retries are the only customizable options.
//
// The retry interval defaults to `DefaultInterval` unless overridden by the `WithInterval`
// option. If more advanced control over the retry behavior is required, consider using the
// `backoff` package directly.
func ConstantRetry(fn func() error, opts ...RetryOption) error {
	return ConstantRetryContext(context.Background(), fn, opts...)
}

// ConstantRetryContext is ConstantRetry which also stops waiting once ctx is done.
func ConstantRetryContext(ctx context.Context, fn func() error, opts ...RetryOption) error {
	rOpts := newRetryOptions(opts)

	duration := DefaultInterval
	if rOpts.initialInterval > 0 {
		duration = rOpts.initialInterval
	}

	bc := backoff.NewConstantBackOff(duration)
	bc.Reset()

	return retry(ctx, fn, bc, rOpts)
}

// ExponentialRetry executes the provided function `fn` with an exponential backoff retry strategy.
// This function is suitable for scenarios where the retry interval increases exponentially
// with each attempt, up to a maximum interval and elapsed time.
//
// The retry interval starts at `DefaultInterval` unless overridden by the `WithInterval` option.
// The maximum interval between retries starts at `DefaultMaxInterval` unless overridden by the `WithMaxInterval` option.
// The maximum elapsed time defaults to `DefaultMaxElapsedTime` unless overridden by the `WithMaxElapsedTime`option.
// If more advanced control over the retry behavior is required, consider using the `backoff` package directly.
func ExponentialRetry(fn func() error, opts ...RetryOption) error {
	return ExponentialRetryContext(context.Background(), fn, opts...)
}

// ExponentialRetryContext is ExponentialRetry which also stops waiting once ctx is done.
func ExponentialRetryContext(ctx context.Context, fn func() error, opts ...RetryOption) error {
	rOpts := newRetryOptions(opts)

	duration := DefaultInterval
	maxInterval := DefaultMaxInterval
	maxElapsedTime := DefaultMaxElapsedTime
	if rOpts.initialInterval > 0 {
		duration = rOpts.initialInterval
	}
	if rOpts.maxInterval > 0 {
		maxInterval = rOpts.maxInterval
	}
	if rOpts.maxElapsedTime > 0 {
		maxElapsedTime = rOpts.maxElapsedTime
	}

	bc := backoff.NewExponentialBackOff()
	bc.InitialInterval = duration
	bc.MaxInterval = maxInterval
	bc.MaxElapsedTime = maxElapsedTime
	bc.Reset()

	return retry(ctx, fn, bc, rOpts)
}

func newRetryOptions(opts []RetryOption) *retryOptions {
	rOpts := &retryOptions{}
	for _, opt := range opts {
		opt(rOpts)
	}
	return rOpts
}

func retry(ctx context.Context, fn func() error, bo backoff.BackOff, rOpts *retryOptions) error {
	maxRetryCount := DefaultMaxRetries
	if rOpts.retryCount > 0 {
		maxRetryCount = rOpts.retryCount
	}

	retries := 0
	return backoff.RetryNotify(func() error {
		err := fn()
		if err == nil {
			return nil
		}

		if rOpts.onlyRetryable {
			if _, ok := errorx.IsRetryableError(err); !ok {
				return backoff.Permanent(err)
			}
		}

		retries++
		if retries >= maxRetryCount {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(bo, ctx), rOpts.notify)
}
