package httpx

import (
	"crypto/tls"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/avdatabase/x/formx"
	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/retryx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Client struct {
	httpClient *http.Client
	transport  *http.Transport

	boundary       string
	randomBoundary bool
	checkBoundary  bool
	userAgent      string
	logger         *logrusx.Logger
	tracer         *otelx.Tracer
	retry          bool
	retryOpts      []retryx.RetryOption
}

// GetDefaultHTTPClient returns an HTTP client with basic settings
func GetDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: httpClientDefaultTimeout,
	}
}

// newTransport returns a transport which opens a new connection for every request.
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   &tls.Config{},
		DisableKeepAlives: true,
	}
}

// NewHTTPClient returns a default HTTP client with default options
func NewHTTPClient() *Client {
	return NewClientWithOptions()
}

// NewClientWithOptions creates a configurable HTTP Client
func NewClientWithOptions(options ...Option) *Client {
	client := &Client{
		transport: newTransport(),
		boundary:  formx.DefaultBoundary,
		logger:    logrusx.New("avdatabase/httpx", ""),
		tracer:    otelx.NewNoopTracer("avdatabase/httpx"),
	}

	client.httpClient = GetDefaultHTTPClient()

	for _, opt := range options {
		opt(client)
	}

	client.httpClient.Transport = client.transport

	return client
}
