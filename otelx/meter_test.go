package otelx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/avdatabase/x/logrusx"
)

func TestMeter(t *testing.T) {
	l := logrusx.New("avdatabase/x", "1")

	t.Run("case=empty provider yields noop meter", func(t *testing.T) {
		m, err := NewMeter(l, &MeterConfig{Name: "X"})
		require.NoError(t, err)
		assert.True(t, m.IsLoaded())
		assert.Nil(t, m.Gatherer())
		assert.NoError(t, m.Shutdown(context.Background()))
	})

	t.Run("case=unknown provider", func(t *testing.T) {
		_, err := NewMeter(l, &MeterConfig{Provider: "statsd"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"statsd"`)
	})

	t.Run("case=nil meter is not loaded", func(t *testing.T) {
		var m *Meter
		assert.False(t, m.IsLoaded())
		assert.NoError(t, m.Shutdown(context.Background()))
	})

	t.Run("case=provider returns the same meter", func(t *testing.T) {
		m := NewNoopMeter()
		assert.Equal(t, m.Meter(), m.Provider().Meter("anything"))
	})

	t.Run("case=stdout prints measurements on shutdown", func(t *testing.T) {
		var out bytes.Buffer
		m, err := NewMeter(l, &MeterConfig{
			ServiceName: "project-adder",
			Name:        "X",
			Provider:    "stdout",
			Providers:   MeterProvidersConfig{Stdout: StdoutConfig{Writer: &out}},
		})
		require.NoError(t, err)

		c, err := m.Meter().Int64Counter("submissions")
		require.NoError(t, err)
		c.Add(context.Background(), 1)

		require.NoError(t, m.Shutdown(context.Background()))
		assert.Contains(t, out.String(), `"Name":"submissions"`)
	})

	t.Run("case=prometheus gathers measurements", func(t *testing.T) {
		m, err := NewMeter(l, &MeterConfig{
			ServiceName: "project-adder",
			Name:        "X",
			Provider:    "prometheus",
		})
		require.NoError(t, err)
		require.NotNil(t, m.Gatherer())

		c, err := m.Meter().Int64Counter("submissions")
		require.NoError(t, err)
		c.Add(context.Background(), 2, metric.WithAttributes(attribute.String("outcome", "success")))

		families, err := m.Gatherer().Gather()
		require.NoError(t, err)

		var found bool
		for _, f := range families {
			if strings.HasPrefix(f.GetName(), "submissions") {
				found = true
				require.NotEmpty(t, f.GetMetric())
				assert.Equal(t, float64(2), f.GetMetric()[0].GetCounter().GetValue())
			}
		}
		assert.True(t, found, "submissions metric must be gathered")
		assert.NoError(t, m.Shutdown(context.Background()))
	})

	t.Run("case=prometheus pushes on shutdown", func(t *testing.T) {
		var (
			mu     sync.Mutex
			method string
			path   string
			body   []byte
		)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			mu.Lock()
			method, path, body = r.Method, r.URL.Path, b
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		m, err := NewMeter(l, &MeterConfig{
			ServiceName: "project-adder",
			Name:        "X",
			Provider:    "prometheus",
			Providers: MeterProvidersConfig{
				Prometheus: PrometheusConfig{PushgatewayURL: ts.URL, Job: "adder"},
			},
			ResourceAttributes: []attribute.KeyValue{attribute.String("deployment.env", "test")},
		})
		require.NoError(t, err)

		c, err := m.Meter().Int64Counter("submissions")
		require.NoError(t, err)
		c.Add(context.Background(), 1)

		require.NoError(t, m.Shutdown(context.Background()))

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "/metrics/job/adder/deployment__env/test", path)
		assert.NotEmpty(t, body)
	})

	t.Run("case=push failure is reported", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		m, err := NewMeter(l, &MeterConfig{
			Name:     "X",
			Provider: "prometheus",
			Providers: MeterProvidersConfig{
				Prometheus: PrometheusConfig{PushgatewayURL: ts.URL},
			},
		})
		require.NoError(t, err)

		assert.Error(t, m.Shutdown(context.Background()))
	})
}
