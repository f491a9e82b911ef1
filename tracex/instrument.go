package tracex

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
)

type (
	loggerProvider func(ctx context.Context) *logrusx.Logger
	tracerProvider func(ctx context.Context) *otelx.Tracer
)

const ComponentNameSeparator = "."

func ComponentName(packageName, structName string) string {
	return packageName + ComponentNameSeparator + structName
}

/*
Instrument starts a span named after the component and returns a logger carrying the span attributes.
`span.End()` must be called at the end of using the span.

	const myComponentName = "projectx.Adder"

	func (a *Adder) instrument(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span, *logrusx.Logger) {
	    return tracex.Instrument(ctx, a.logger, a.tracer, myComponentName, name, opts...)
	}

	func (a *Adder) Send(ctx context.Context) error {
		ctx, span, l := a.instrument(ctx, "Send")
		defer span.End()
	}
*/
func Instrument(ctx context.Context, lp loggerProvider, tp tracerProvider, componentName string, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span, *logrusx.Logger) {
	fullComponentName := ComponentName(componentName, name)
	ctx, span := tp(ctx).Tracer().Start(ctx, fullComponentName, opts...)
	l := lp(ctx).
		WithContext(ctx).
		WithSpanStartOptions(opts...).
		WithField("component", fullComponentName)
	return ctx, span, l
}
