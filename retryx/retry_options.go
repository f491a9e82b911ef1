package retryx

import "time"

type retryOptions struct {
	retryCount      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	onlyRetryable   bool
	notify          func(err error, next time.Duration)
}

type RetryOption func(*retryOptions)

// WithRetryCount sets the maximum number of attempts, the first one included.
func WithRetryCount(count int) RetryOption {
	return func(ro *retryOptions) {
		ro.retryCount = count
	}
}

func WithInterval(interval time.Duration) RetryOption {
	return func(ro *retryOptions) {
		ro.initialInterval = interval
	}
}

func WithMaxInterval(interval time.Duration) RetryOption {
	return func(ro *retryOptions) {
		ro.maxInterval = interval
	}
}

func WithMaxElapsedTime(d time.Duration) RetryOption {
	return func(ro *retryOptions) {
		ro.maxElapsedTime = d
	}
}

// OnlyRetryable stops at the first error which is not wrapped in an errorx.RetryableError.
func OnlyRetryable() RetryOption {
	return func(ro *retryOptions) {
		ro.onlyRetryable = true
	}
}

// WithNotify is called after every failed attempt which will be retried.
func WithNotify(fn func(err error, next time.Duration)) RetryOption {
	return func(ro *retryOptions) {
		ro.notify = fn
	}
}
