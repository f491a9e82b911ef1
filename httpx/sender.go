package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/formx"
	"github.com/avdatabase/x/retryx"
)

// Sender submits form data to a URL.
type Sender interface {
	// Send POSTs fields as multipart/form-data to url and blocks until the whole response is read.
	Send(ctx context.Context, url string, fields *formx.FormData) (*Response, error)
}

var _ Sender = (*Client)(nil)

// Send POSTs fields to url as multipart/form-data.
//
// The returned Response is never nil. When no HTTP status could be obtained its
// StatusCode is StatusTransportError and the error is UNAVAILABLE (or INVALID_ARGUMENT
// when the request could not be built). Any HTTP status, 200 or not, is returned with a
// nil error: interpreting it is up to the caller.
func (c *Client) Send(ctx context.Context, url string, fields *formx.FormData) (*Response, error) {
	boundary := c.boundary
	if c.randomBoundary {
		boundary = formx.NewBoundary()
	}

	if c.checkBoundary {
		if err := formx.CheckBoundary(boundary, fields); err != nil {
			return &Response{StatusCode: StatusTransportError}, err
		}
	}

	body := formx.Encode(boundary, fields)
	if !c.retry {
		return c.send(ctx, url, boundary, body)
	}

	var res *Response
	err := retryx.ExponentialRetryContext(ctx, func() error {
		var err error
		res, err = c.send(ctx, url, boundary, body)
		if err != nil && errorx.IsUnavailableError(err) {
			return errorx.NewRetryableError(err)
		}
		return err
	}, append([]retryx.RetryOption{retryx.OnlyRetryable(), retryx.WithNotify(func(err error, next time.Duration) {
		c.logger.WithContext(ctx).WithError(err).Debugf("Retrying form submission to %s in %s", url, next)
	})}, c.retryOpts...)...)
	if re, ok := errorx.IsRetryableError(err); ok {
		err = re.Unwrap()
	}
	return res, err
}

func (c *Client) send(ctx context.Context, url, boundary string, body []byte) (*Response, error) {
	ctx, span := c.tracer.Tracer().Start(ctx, "httpx.Client.Send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(http.MethodPost),
			attribute.Int("http.request.body.size", len(body)),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		err := errorx.InvalidArgumentErrorf("unable to build a request for %q: %s", url, err).WithOriginalError(err)
		span.SetStatus(codes.Error, err.Error())
		return &Response{StatusCode: StatusTransportError}, err
	}

	_ = SetFormHeaders(req, boundary)
	if c.userAgent != "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}
	c.tracer.Inject(ctx, propagation.HeaderCarrier(req.Header))

	l := c.logger.WithContext(ctx).
		WithRequest(req).
		WithField("submission_id", ksuid.New().String()).
		WithField("body_size", bytesize.New(float64(len(body))).String())
	l.Debugf("Sending form")

	startTime := time.Now()

	httpResponse, err := c.httpClient.Do(req)
	if err != nil {
		res := &Response{StatusCode: StatusTransportError, Duration: time.Since(startTime)}
		err := errorx.UnavailableErrorf("unable to send form: %s", err).WithOriginalError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.WithError(err).Debugf("Form was not delivered")
		return res, err
	}

	defer httpResponse.Body.Close()

	respBody, err := io.ReadAll(httpResponse.Body)
	duration := time.Since(startTime)
	if err != nil {
		res := &Response{StatusCode: StatusTransportError, Body: respBody, Headers: httpResponse.Header, Duration: duration}
		err := errorx.UnavailableErrorf("unable to read response: %s", err).WithOriginalError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	span.SetAttributes(semconv.HTTPResponseStatusCode(httpResponse.StatusCode))
	if httpResponse.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(httpResponse.StatusCode))
	}

	l.WithField("status", httpResponse.StatusCode).
		WithField("duration", duration.String()).
		Debugf("Form delivered")

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Body:       respBody,
		Headers:    httpResponse.Header,
		Duration:   duration,
	}, nil
}
