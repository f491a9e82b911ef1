package httpx

import (
	"time"

	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/retryx"
)

// Option is a named func that will help set custom options to the HTTP Client
type Option func(*Client)

// WithTimeout sets a customizable timeout to the http client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithSkipTLSVerification() Option {
	return func(c *Client) {
		c.transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
	}
}

// WithBoundary replaces the multipart boundary used by Send. The default is formx.DefaultBoundary.
func WithBoundary(boundary string) Option {
	return func(c *Client) {
		c.boundary = boundary
		c.randomBoundary = false
	}
}

// WithRandomBoundary makes Send draw a fresh boundary for every call.
func WithRandomBoundary() Option {
	return func(c *Client) {
		c.randomBoundary = true
	}
}

// WithBoundaryCheck makes Send refuse fields containing the boundary instead of sending a corrupt body.
func WithBoundaryCheck() Option {
	return func(c *Client) {
		c.checkBoundary = true
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithLogger(l *logrusx.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer starts a client span per request and propagates its context in the request headers.
func WithTracer(t *otelx.Tracer) Option {
	return func(c *Client) {
		if t.IsLoaded() {
			c.tracer = t
		}
	}
}

// WithRetry makes Send retry transport errors with an exponential backoff.
// Responses carrying an HTTP status are never retried.
func WithRetry(opts ...retryx.RetryOption) Option {
	return func(c *Client) {
		c.retry = true
		c.retryOpts = opts
	}
}
