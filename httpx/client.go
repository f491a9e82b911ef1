package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/propagation"

	"github.com/avdatabase/x/errorx"
)

// MakeHTTPRequest sends a request with a JSON encoded body and reads the whole response.
// Unlike Send, a transport failure returns a nil Response.
func (c *Client) MakeHTTPRequest(ctx context.Context, input *Request) (*Response, error) {
	if err := input.Validate(); err != nil {
		return nil, errorx.InvalidArgumentErrorf("invalid request: %s", err).WithOriginalError(err)
	}

	var (
		httpRequest *http.Request
		err         error
	)

	if input.Body != nil {
		requestBodyBytes, err := json.Marshal(input.Body)
		if err != nil {
			return nil, errorx.InvalidArgumentErrorf("unable to encode request body: %s", err).WithOriginalError(err)
		}

		httpRequest, err = http.NewRequestWithContext(ctx, input.Method, input.URL, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			return nil, errorx.InvalidArgumentErrorf("unable to build request: %s", err).WithOriginalError(err)
		}
	} else {
		httpRequest, err = http.NewRequestWithContext(ctx, input.Method, input.URL, nil)
		if err != nil {
			return nil, errorx.InvalidArgumentErrorf("unable to build request: %s", err).WithOriginalError(err)
		}
	}

	buildQueryParams(httpRequest, input.QueryParameters)

	httpRequest.Header = input.Headers.Clone()
	if httpRequest.Header == nil {
		httpRequest.Header = http.Header{}
	}
	if input.Body != nil && httpRequest.Header.Get(HeaderContentType) == "" {
		httpRequest.Header.Set(HeaderContentType, "application/json")
	}
	if c.userAgent != "" {
		httpRequest.Header.Set(HeaderUserAgent, c.userAgent)
	}
	c.tracer.Inject(ctx, propagation.HeaderCarrier(httpRequest.Header))

	c.logger.WithContext(ctx).WithRequest(httpRequest).Debugf("Sending request")

	startTime := time.Now()

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, errorx.UnavailableErrorf("unable to send request: %s", err).WithOriginalError(err)
	}

	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, errorx.UnavailableErrorf("unable to read response: %s", err).WithOriginalError(err)
	}

	endTime := time.Since(startTime)

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Body:       body,
		Headers:    httpResponse.Header,
		Duration:   endTime,
	}, nil
}

func buildQueryParams(httpRequest *http.Request, params url.Values) {
	if len(params) > 0 {
		requestQueryParams := httpRequest.URL.Query()

		for queryParamKey, queryParamValues := range params {
			for _, queryParamValue := range queryParamValues {
				requestQueryParams.Add(queryParamKey, queryParamValue)
			}
		}

		httpRequest.URL.RawQuery = requestQueryParams.Encode()
	}
}
