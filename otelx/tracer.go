// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/stringsx"
)

type Tracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	shutdown   func(context.Context) error
}

// New creates a tracer for the configured provider. An empty provider yields a no-op tracer.
func New(l *logrusx.Logger, c *TracerConfig) (*Tracer, error) {
	t := &Tracer{}

	if err := t.setup(l, c); err != nil {
		return nil, err
	}

	return t, nil
}

// NewNoopTracer creates a tracer which records nothing and propagates nothing.
func NewNoopTracer(name string) *Tracer {
	return &Tracer{
		tracer:     noop.NewTracerProvider().Tracer(name),
		propagator: propagation.NewCompositeTextMapPropagator(),
	}
}

// setup constructs the tracer based on the given configuration.
func (t *Tracer) setup(l *logrusx.Logger, c *TracerConfig) error {
	var (
		tp  *sdktrace.TracerProvider
		err error
	)

	switch f := stringsx.SwitchExact(c.Provider); {
	case f.AddCase("otel"):
		tp, err = SetupOTLPTracer(c)
		if err != nil {
			return err
		}
		l.Infof("OTLP tracer configured! Sending spans to %s", c.Providers.OTLP.ServerURL)
	case f.AddCase("stdout"):
		tp, err = SetupStdoutTracer(c)
		if err != nil {
			return err
		}
		l.Infof("Stdout tracer configured! Sending spans to stdout")
	case f.AddCase(""):
		l.Debugf("Missing provider in config - skipping tracing setup")
		*t = *NewNoopTracer(c.Name)
		return nil
	default:
		return f.ToUnknownCaseErr()
	}

	t.tracer = tp.Tracer(c.Name)
	t.propagator = propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	t.shutdown = tp.Shutdown
	return nil
}

func newResource(serviceName string, extra []attribute.KeyValue) *resource.Resource {
	atts := append([]attribute.KeyValue{}, semconv.ServiceName(serviceName))
	atts = append(atts, extra...)
	return resource.NewWithAttributes(semconv.SchemaURL, atts...)
}

// IsLoaded returns true if the tracer has been loaded.
func (t *Tracer) IsLoaded() bool {
	if t == nil || t.tracer == nil {
		return false
	}
	return true
}

// Tracer returns the underlying OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// Provider returns a TracerProvider which in turn yieds this tracer unmodified.
func (t *Tracer) Provider() trace.TracerProvider {
	return tracerProvider{t: t.Tracer()}
}

type tracerProvider struct {
	noop.TracerProvider
	t trace.Tracer
}

var _ trace.TracerProvider = tracerProvider{}

// Tracer implements trace.TracerProvider.
func (tp tracerProvider) Tracer(name string, options ...trace.TracerOption) trace.Tracer {
	return tp.t
}

// TextMapPropagator returns the underlying OpenTelemetry textMapPropagator.
func (t *Tracer) TextMapPropagator() propagation.TextMapPropagator {
	return t.propagator
}

// Inject set tracecontext from the Context into the carrier.
func (t *Tracer) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	t.propagator.Inject(ctx, carrier)
}

// Shutdown flushes pending spans. It is a no-op for the no-op tracer.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}
