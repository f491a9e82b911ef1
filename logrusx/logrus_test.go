package logrusx

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func newSubmissionRequest(t *testing.T, secret string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "http://localhost:5000/api/project/?token="+secret, nil)
	require.NoError(t, err)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", secret)
	req.Header.Set("Authorization", secret)
	req.Header.Set("Cookie", secret)
	return req
}

func TestSensitiveValues(t *testing.T) {
	const (
		redacted = "REDACTED"
		secret   = "sensitive-value"
	)

	t.Run("should leak sensitive values when explicitly set", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("project-adder", "dev", LeakSensitive(), WithSensitiveHeaders("x-api-key"), RedactionText(redacted), WithOutput(&buf))
		assert.True(t, l.LeakSensitiveData())

		l.WithRequest(newSubmissionRequest(t, secret)).Info("sending")
		output := buf.String()
		assert.Equal(t, 4, strings.Count(output, secret), "three headers and the query are shown")
		assert.NotContains(t, output, redacted)
	})

	t.Run("should redact sensitive values by default", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("project-adder", "dev", WithSensitiveHeaders("x-api-key"), RedactionText(redacted), WithOutput(&buf))
		assert.False(t, l.LeakSensitiveData())

		req := newSubmissionRequest(t, secret)
		l.WithRequest(req).Info("sending")
		output := buf.String()
		assert.Equal(t, 4, strings.Count(output, redacted))
		assert.NotContains(t, output, secret)
		assert.Contains(t, output, "no-cache", "other headers are kept")

		req.Header.Set("X-Project-Token", secret)
		buf.Reset()
		l.WithRequest(req).Info("sending")
		assert.Equal(t, 1, strings.Count(buf.String(), secret))

		buf.Reset()
		l.WithSensitiveHeaders("x-project-token").WithRequest(req).Info("sending")
		assert.Equal(t, 5, strings.Count(buf.String(), redacted))
		assert.NotContains(t, buf.String(), secret)
	})
}

func TestNew(t *testing.T) {
	t.Run("should attach service fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("project-adder", "1.2.3", ForceFormat("json"), WithOutput(&buf))
		l.Info("hello")

		assert.Contains(t, buf.String(), `"service_name":"project-adder"`)
		assert.Contains(t, buf.String(), `"service_version":"1.2.3"`)
		assert.Contains(t, buf.String(), `"audience":"application"`)
	})

	t.Run("should omit an empty version", func(t *testing.T) {
		var buf bytes.Buffer
		New("project-adder", "", ForceFormat("json"), WithOutput(&buf)).Info("hello")
		assert.NotContains(t, buf.String(), "service_version")
	})

	t.Run("should honor the level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New("project-adder", "", ForceLevel(logrus.WarnLevel), WithOutput(&buf))
		l.Infof("hidden")
		l.Warnf("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("should use the exit func", func(t *testing.T) {
		var code int
		l := New("project-adder", "", WithOutput(&bytes.Buffer{}), WithExitFunc(func(c int) { code = c }))
		l.Fatalf("stop")
		assert.Equal(t, 1, code)
	})
}

func TestNewLogFields(t *testing.T) {
	f := NewLogFields(
		attribute.String("project.outcome", "success"),
		attribute.Int("http.status_code", 200),
	)
	assert.Equal(t, logrus.Fields{"project__outcome": "success", "http__status_code": int64(200)}, f)
}
