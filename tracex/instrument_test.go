package tracex

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/testx"
)

func TestComponentName(t *testing.T) {
	t.Run("should return component name", func(t *testing.T) {
		assert.Equal(t, "testComponent.testStructName", ComponentName("testComponent", "testStructName"))
	})
}

func TestInstrument(t *testing.T) {
	buf := testx.NewConcurrentBuffer(t)
	l := logrusx.New("test", "", logrusx.ForceFormat("json"), logrusx.WithOutput(buf))
	lp := func(ctx context.Context) *logrusx.Logger {
		return l
	}

	t.Run("should return instrumentation outputs", func(t *testing.T) {
		ot := otelx.NewNoopTracer("test")
		tp := func(ctx context.Context) *otelx.Tracer {
			return ot
		}

		ctx, span, logger := Instrument(context.Background(), lp, tp, "testComponent.testStruct", "testInstrument", trace.WithAttributes(attribute.Bool("test", true)))
		assert.Equal(t, span, trace.SpanFromContext(ctx))
		assert.NotSame(t, l, logger)

		logger.Info("test message")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(buf.String()), &logEntry))

		assert.Equal(t, "test message", logEntry["msg"])
		assert.Equal(t, true, logEntry["test"])
		assert.Equal(t, "testComponent.testStruct.testInstrument", logEntry["component"])
	})

	t.Run("should start a recording span with a real tracer", func(t *testing.T) {
		ot, err := otelx.New(l, &otelx.TracerConfig{
			Name:      "test",
			Provider:  "stdout",
			Providers: otelx.TracerProvidersConfig{Stdout: otelx.StdoutConfig{Writer: io.Discard}},
		})
		require.NoError(t, err)
		tp := func(ctx context.Context) *otelx.Tracer {
			return ot
		}

		_, span, _ := Instrument(context.Background(), lp, tp, "testComponent", "testInstrument")
		defer span.End()
		assert.True(t, span.SpanContext().IsValid())
		assert.True(t, span.IsRecording())
	})
}
