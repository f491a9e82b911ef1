package httpx

import (
	"net/http"
	"net/url"
	"time"
)

const httpClientDefaultTimeout = 60 * time.Second

// StatusTransportError is the status of a Response for which no HTTP status was received:
// name resolution, connection, TLS or timeout failures. It is never a valid HTTP status code.
const StatusTransportError = -1

// Request is the input parameters that will need to be sent with an HTTP request
type Request struct {
	Method          string `validate:"required"`
	URL             string `validate:"required,url"`
	Body            any
	Headers         http.Header
	QueryParameters url.Values
}

// Validate validates if the struct contains the required entities or not
func (r *Request) Validate() error {
	return validate.Struct(r)
}

// Response struct will contain the entities returned with the HTTP response
type Response struct {
	StatusCode int `validate:"required"`
	Body       []byte
	Headers    http.Header
	Duration   time.Duration
}

// Validate validates if the struct contains the required entities or not
func (r *Response) Validate() error {
	return validate.Struct(r)
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// IsTransportError reports whether the exchange failed before an HTTP status was received.
func (r *Response) IsTransportError() bool {
	return r == nil || r.StatusCode == StatusTransportError
}
