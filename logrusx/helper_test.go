package logrusx

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avdatabase/x/errorx"
)

func TestErrorCtx(t *testing.T) {
	t.Run("should return error when no details", func(t *testing.T) {
		err := errorx.InvalidArgumentErrorf("invalid content")
		assert.Equal(t, map[string]interface{}{"message": "[INVALID_ARGUMENT] invalid content"}, errorCtx(err))
	})

	t.Run("should return error with details", func(t *testing.T) {
		err := errorx.InvalidArgumentErrorf("invalid form")
		err = err.WithDetails(errorx.InvalidArgumentErrorf("field 'title' contains the boundary"))
		assert.Equal(t, map[string]any{
			"message": "[INVALID_ARGUMENT] invalid form",
			"details": []map[string]any{
				{
					"message": "[INVALID_ARGUMENT] field 'title' contains the boundary",
				},
			},
		}, errorCtx(err))
	})

	t.Run("should return error with nested details", func(t *testing.T) {
		nested := errorx.InvalidArgumentErrorf("invalid field 'specs'")
		nested = nested.WithDetails(errorx.InvalidArgumentErrorf("missing value"))
		err := errorx.FailedPreconditionErrorf("submission rejected").WithDetails(nested)

		assert.Equal(t, map[string]interface{}{
			"message": "[FAILED_PRECONDITION] submission rejected",
			"details": []map[string]interface{}{
				{
					"message": "[INVALID_ARGUMENT] invalid field 'specs'",
					"details": []map[string]interface{}{
						{
							"message": "[INVALID_ARGUMENT] missing value",
						},
					},
				},
			},
		}, errorCtx(err))
	})
}

func TestWithError(t *testing.T) {
	t.Run("should keep logger on nil error", func(t *testing.T) {
		l := New("test", "")
		assert.Same(t, l, l.WithError(nil))
	})

	t.Run("should add stack trace at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("test", "", ForceLevel(logrus.DebugLevel), ForceFormat("json"), WithOutput(&buf))
		l.WithError(errorx.InternalErrorf("boom")).Error("failed")
		assert.Contains(t, buf.String(), "stack_trace")
		assert.Contains(t, buf.String(), "[INTERNAL] boom")
	})
}

func TestWithRequest(t *testing.T) {
	t.Run("should describe an outgoing request", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("test", "", ForceFormat("json"), WithOutput(&buf))

		req, err := http.NewRequest(http.MethodPost, "https://avdatabase.example.com:8000/api/project/", nil)
		require.NoError(t, err)
		req.Header.Set("Cache-Control", "no-cache")

		l.WithRequest(req).Info("sending")
		out := buf.String()
		assert.Contains(t, out, `"scheme":"https"`)
		assert.Contains(t, out, `"host":"avdatabase.example.com:8000"`)
		assert.Contains(t, out, `"path":"/api/project/"`)
		assert.Contains(t, out, `"cache-control":"no-cache"`)
	})
}

func TestWithSpanStartOptions(t *testing.T) {
	l := New("test", "")
	ll := l.WithSpanStartOptions(trace.WithAttributes(attribute.String("project.code", "P-1")))
	assert.Equal(t, "P-1", ll.Data["project__code"])

	assert.Same(t, l, l.WithSpanStartOptions())
}
