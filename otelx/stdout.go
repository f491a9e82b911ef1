package otelx

import (
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func SetupStdoutTracer(c *TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []stdouttrace.Option{}

	if c.Providers.Stdout.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	if c.Providers.Stdout.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(c.Providers.Stdout.Writer))
	}

	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(newResource(c.ServiceName, c.ResourceAttributes)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
