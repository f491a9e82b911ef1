package projectx

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/avdatabase/x/errorx"
)

// Metrics records submission counts and latencies. A nil *Metrics records nothing.
type Metrics struct {
	submissions metric.Int64Counter
	duration    metric.Float64Histogram
}

func NewMetrics(m metric.Meter) (*Metrics, error) {
	submissions, err := m.Int64Counter("project.submissions",
		metric.WithDescription("Number of project submissions by outcome."),
	)
	if err != nil {
		return nil, errorx.InternalErrorf("unable to create submissions counter: %s", err).WithOriginalError(err)
	}

	duration, err := m.Float64Histogram("project.submission.duration",
		metric.WithDescription("Duration of project submissions."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errorx.InternalErrorf("unable to create duration histogram: %s", err).WithOriginalError(err)
	}

	return &Metrics{submissions: submissions, duration: duration}, nil
}

func (m *Metrics) record(ctx context.Context, o Outcome, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", o.String()))
	m.submissions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}
