package projectx

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/formx"
	"github.com/avdatabase/x/httpx"
	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/testx"
)

type recorder struct {
	successes int32
	failures  int32
	texts     []string
}

func (r *recorder) adder(url string) *Adder {
	return &Adder{
		URL:       url,
		Route:     DefaultRoute,
		Project:   springfield,
		OnSuccess: func() { atomic.AddInt32(&r.successes, 1) },
		OnFailure: func(text string) {
			atomic.AddInt32(&r.failures, 1)
			r.texts = append(r.texts, text)
		},
		Logger: logrusx.New("test", "", logrusx.WithOutput(io.Discard)),
	}
}

type senderFunc func(ctx context.Context, url string, fields *formx.FormData) (*httpx.Response, error)

func (f senderFunc) Send(ctx context.Context, url string, fields *formx.FormData) (*httpx.Response, error) {
	return f(ctx, url, fields)
}

func TestAdderSend(t *testing.T) {
	ctx := context.Background()

	t.Run("should raise success on 200", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		r := &recorder{}

		outcome, err := r.adder(fs.URL + "/ignored?keep=1").Send(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
		assert.Equal(t, int32(1), r.successes)
		assert.Equal(t, int32(0), r.failures)

		sub := fs.LastSubmission()
		assert.Equal(t, "/api/project/", sub.Path)
		assert.Equal(t, []formx.Field{
			{Name: "current_location", Value: "Shelf 4"},
			{Name: "project_code", Value: "SPR-001"},
			{Name: "specs", Value: "1:24000"},
			{Name: "status", Value: "draft"},
			{Name: "title", Value: "Map of Springfield"},
		}, sub.Fields)
	})

	t.Run("should raise failure with the body on 404", func(t *testing.T) {
		fs := testx.NewFormServer(t).RespondWith(http.StatusNotFound, "not found")
		r := &recorder{}

		outcome, err := r.adder(fs.URL).Send(ctx)
		assert.Equal(t, OutcomeFailure, outcome)
		assert.True(t, errorx.IsFailedPreconditionError(err))
		assert.Equal(t, int32(0), r.successes)
		assert.Equal(t, int32(1), r.failures)
		assert.Equal(t, []string{"not found"}, r.texts)
	})

	t.Run("should treat other 2xx as failure", func(t *testing.T) {
		fs := testx.NewFormServer(t).RespondWith(http.StatusCreated, `{"id": 1}`)
		r := &recorder{}

		outcome, _ := r.adder(fs.URL).Send(ctx)
		assert.Equal(t, OutcomeFailure, outcome)
		assert.Equal(t, []string{`{"id": 1}`}, r.texts)
	})

	t.Run("should raise failure with the error on an unreachable host", func(t *testing.T) {
		r := &recorder{}
		a := r.adder("http://127.0.0.1:1")

		outcome, err := a.Send(ctx)
		assert.Equal(t, OutcomeFailure, outcome)
		assert.True(t, errorx.IsUnavailableError(err))
		assert.Equal(t, int32(1), r.failures)
		require.Len(t, r.texts, 1)
		assert.Contains(t, r.texts[0], "UNAVAILABLE")

		res := a.Submit(ctx)
		assert.Equal(t, httpx.StatusTransportError, res.StatusCode)
		assert.Equal(t, int32(1), r.failures, "Submit must not raise callbacks")
	})

	t.Run("should raise failure on an invalid url without sending", func(t *testing.T) {
		var calls int32
		r := &recorder{}
		a := r.adder("not a url")
		a.Sender = senderFunc(func(context.Context, string, *formx.FormData) (*httpx.Response, error) {
			atomic.AddInt32(&calls, 1)
			return &httpx.Response{StatusCode: http.StatusOK}, nil
		})

		outcome, err := a.Send(ctx)
		assert.Equal(t, OutcomeFailure, outcome)
		assert.True(t, errorx.IsInvalidArgumentError(err))
		assert.Equal(t, int32(0), calls)
		assert.Equal(t, int32(1), r.failures)
	})

	t.Run("should fail when the sender returns nothing", func(t *testing.T) {
		r := &recorder{}
		a := r.adder("http://localhost:5000")
		a.Sender = senderFunc(func(context.Context, string, *formx.FormData) (*httpx.Response, error) {
			return nil, nil
		})

		outcome, err := a.Send(ctx)
		assert.Equal(t, OutcomeFailure, outcome)
		assert.True(t, errorx.IsInternalError(err))
	})

	t.Run("should work without callbacks", func(t *testing.T) {
		fs := testx.NewFormServer(t)

		outcome, err := (&Adder{URL: fs.URL, Project: springfield}).Send(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
	})

	t.Run("should share one adder between goroutines", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		var successes int32
		a := &Adder{URL: fs.URL, Project: springfield, OnSuccess: func() { atomic.AddInt32(&successes, 1) }}

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := a.Send(ctx)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 8, atomic.LoadInt32(&successes))
		assert.Len(t, fs.Submissions(), 8)
		assert.Nil(t, a.Sender)
		assert.Nil(t, a.Logger)
		assert.Nil(t, a.Tracer)
	})

	t.Run("should return the created record", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		r := &recorder{}

		res := r.adder(fs.URL).Submit(ctx)
		require.NoError(t, res.Err)
		require.NotNil(t, res.Created)
		assert.Equal(t, "1", res.Created.ID)
		assert.Equal(t, "/api/project/1", res.Created.URL)
	})

	t.Run("should log the failure at warn level", func(t *testing.T) {
		fs := testx.NewFormServer(t).RespondWith(http.StatusInternalServerError, "database is locked")
		buf := testx.NewConcurrentBuffer(t)
		r := &recorder{}
		a := r.adder(fs.URL)
		a.Logger = logrusx.New("test", "", logrusx.WithOutput(buf), logrusx.ForceLevel(logrus.WarnLevel))

		_, _ = a.Send(ctx)

		out := buf.String()
		assert.Contains(t, out, "level=warning")
		assert.Contains(t, out, "database is locked")
		assert.Contains(t, out, "project_code=SPR-001")
	})

	t.Run("should record metrics", func(t *testing.T) {
		fs := testx.NewFormServer(t)
		m, err := otelx.NewMeter(logrusx.New("test", ""), &otelx.MeterConfig{Name: "test", Provider: "prometheus"})
		require.NoError(t, err)
		metrics, err := NewMetrics(m.Meter())
		require.NoError(t, err)

		r := &recorder{}
		a := r.adder(fs.URL)
		a.Metrics = metrics
		_, err = a.Send(ctx)
		require.NoError(t, err)

		families, err := m.Gatherer().Gather()
		require.NoError(t, err)

		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		joined := strings.Join(names, ",")
		assert.Contains(t, joined, "project_submissions")
		assert.Contains(t, joined, "project_submission_duration")
	})
}
