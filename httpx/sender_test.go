package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/formx"
	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/retryx"
	"github.com/avdatabase/x/testx"
)

func projectFields() *formx.FormData {
	return formx.NewFormData(
		formx.Field{Name: "current_location", Value: "Shelf 4"},
		formx.Field{Name: "project_code", Value: "SPR-001"},
		formx.Field{Name: "specs", Value: "1:24000"},
		formx.Field{Name: "status", Value: "draft"},
		formx.Field{Name: "title", Value: "Map of Springfield"},
	)
}

// unreachableURL returns the URL of a server which is already closed.
func unreachableURL(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	u := ts.URL
	ts.Close()
	return u + "/api/project/"
}

func TestClientSend(t *testing.T) {
	ctx := context.Background()

	t.Run("should post the encoded form with the wire headers", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		c := NewHTTPClient()

		res, err := c.Send(ctx, fs.URL+"/api/project/", projectFields())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `{"id":1,"url":"/api/project/1"}`, res.Text())

		sub := fs.LastSubmission()
		assert.Equal(t, http.MethodPost, sub.Method)
		assert.Equal(t, "/api/project/", sub.Path)
		assert.Equal(t, "no-cache", sub.Header.Get("Cache-Control"))
		assert.Equal(t, "multipart/form-data; boundary="+formx.DefaultBoundary, sub.Header.Get("Content-Type"))
		assert.Empty(t, sub.Header.Get("Traceparent"))
		assert.Equal(t, formx.Encode(formx.DefaultBoundary, projectFields()), sub.Body)
		assert.Equal(t, projectFields().Fields(), sub.Fields)
	})

	t.Run("should return the status and body of a failed submission", func(t *testing.T) {
		fs := testx.NewFormServer(t).RespondWith(http.StatusNotFound, "not found")

		res, err := NewHTTPClient().Send(ctx, fs.URL+"/api/project/", projectFields())
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, "not found", res.Text())
		assert.False(t, res.IsTransportError())
	})

	t.Run("should return the transport sentinel for an unreachable host", func(t *testing.T) {
		res, err := NewHTTPClient().Send(ctx, unreachableURL(t), projectFields())
		require.Error(t, err)
		assert.True(t, errorx.IsUnavailableError(err))
		require.NotNil(t, res)
		assert.Equal(t, StatusTransportError, res.StatusCode)
		assert.True(t, res.IsTransportError())
		assert.Empty(t, res.Body)
	})

	t.Run("should return the transport sentinel for a malformed url", func(t *testing.T) {
		res, err := NewHTTPClient().Send(ctx, "http://[::1:namedport", projectFields())
		assert.True(t, errorx.IsInvalidArgumentError(err))
		assert.True(t, res.IsTransportError())
	})

	t.Run("should time out", func(t *testing.T) {
		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer ts.Close()
		defer close(release)

		res, err := NewClientWithOptions(WithTimeout(50*time.Millisecond)).Send(ctx, ts.URL, projectFields())
		assert.True(t, errorx.IsUnavailableError(err))
		assert.True(t, res.IsTransportError())
	})

	t.Run("should send the empty form as a closing delimiter only", func(t *testing.T) {
		bodies := make(chan []byte, 1)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			bodies <- b
		}))
		defer ts.Close()

		res, err := NewClientWithOptions(WithBoundary("B1")).Send(ctx, ts.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "--B1--", string(<-bodies))
	})

	t.Run("should use a fresh boundary per call", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		c := NewClientWithOptions(WithRandomBoundary())

		for i := 0; i < 2; i++ {
			_, err := c.Send(ctx, fs.URL+"/api/project/", projectFields())
			require.NoError(t, err)
		}

		subs := fs.Submissions()
		require.Len(t, subs, 2)
		assert.NotEqual(t, subs[0].Boundary, subs[1].Boundary)
		assert.NotEqual(t, formx.DefaultBoundary, subs[0].Boundary)
		assert.Equal(t, projectFields().Fields(), subs[1].Fields)
	})

	t.Run("should send a colliding value unless checked", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		fields := formx.NewFormData(
			formx.Field{Name: "title", Value: "a\r\n--B1\r\nContent-Disposition: form-data; name=\"specs\"\r\n\r\ninjected"},
		)

		_, err := NewClientWithOptions(WithBoundary("B1")).Send(ctx, fs.URL+"/api/project/", fields)
		require.NoError(t, err)
		assert.NotEqual(t, fields.Fields(), fs.LastSubmission().Fields)

		res, err := NewClientWithOptions(WithBoundary("B1"), WithBoundaryCheck()).Send(ctx, fs.URL+"/api/project/", fields)
		assert.True(t, errorx.IsInvalidArgumentError(err))
		assert.True(t, res.IsTransportError())
		assert.Len(t, fs.Submissions(), 1)
	})

	t.Run("should inject trace context with a real tracer", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		tr, err := otelx.New(logrusx.New("test", ""), &otelx.TracerConfig{
			Name:      "test",
			Provider:  "stdout",
			Providers: otelx.TracerProvidersConfig{Stdout: otelx.StdoutConfig{Writer: io.Discard}},
		})
		require.NoError(t, err)

		_, err = NewClientWithOptions(WithTracer(tr)).Send(ctx, fs.URL+"/api/project/", projectFields())
		require.NoError(t, err)
		assert.NotEmpty(t, fs.LastSubmission().Header.Get("Traceparent"))
	})

	t.Run("should log outgoing requests with redacted headers", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		buf := testx.NewConcurrentBuffer(t)
		l := logrusx.New("test", "", logrusx.ForceLevel(logrus.DebugLevel), logrusx.WithOutput(buf))

		_, err := NewClientWithOptions(WithLogger(l), WithUserAgent("project-adder/1")).Send(ctx, fs.URL+"/api/project/", projectFields())
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Sending form")
		assert.Contains(t, out, "Form delivered")
		assert.Contains(t, out, "submission_id=")
		assert.Contains(t, out, "project-adder/1")
		assert.Equal(t, "project-adder/1", fs.LastSubmission().Header.Get("User-Agent"))
	})

	t.Run("should handle concurrent calls independently", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		c := NewHTTPClient()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := c.Send(ctx, fs.URL+"/api/project/", projectFields())
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, res.StatusCode)
			}()
		}
		wg.Wait()

		assert.Len(t, fs.Submissions(), 8)
	})
}

func TestClientSendRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("should not retry by default", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		res, err := NewHTTPClient().Send(ctx, ts.URL, projectFields())
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("should not retry http statuses", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		res, err := NewClientWithOptions(WithRetry(retryx.WithInterval(time.Millisecond))).Send(ctx, ts.URL, projectFields())
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("should retry transport errors and keep the sentinel", func(t *testing.T) {
		var notified int32
		c := NewClientWithOptions(WithRetry(
			retryx.WithInterval(time.Millisecond),
			retryx.WithRetryCount(3),
			retryx.WithNotify(func(error, time.Duration) { atomic.AddInt32(&notified, 1) }),
		))

		res, err := c.Send(ctx, unreachableURL(t), projectFields())
		assert.True(t, errorx.IsUnavailableError(err))
		assert.Equal(t, int32(2), atomic.LoadInt32(&notified))
		_, retryable := errorx.IsRetryableError(err)
		assert.False(t, retryable)
		assert.True(t, res.IsTransportError())
	})

	t.Run("should recover once the server answers", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				if hj, ok := w.(http.Hijacker); ok {
					if conn, _, err := hj.Hijack(); err == nil {
						_ = conn.Close()
					}
				}
				return
			}
			_, _ = io.WriteString(w, "ok")
		}))
		defer ts.Close()

		res, err := NewClientWithOptions(WithRetry(retryx.WithInterval(time.Millisecond))).Send(ctx, ts.URL, projectFields())
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Text())
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})
}

func TestClientSendDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 1024))
	}))
	defer ts.Close()

	c := NewHTTPClient()
	for i := 0; i < 3; i++ {
		res, err := c.Send(context.Background(), ts.URL, projectFields())
		require.NoError(t, err)
		assert.Len(t, res.Body, 1024)
	}
}
