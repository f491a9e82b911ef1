package otelx

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func SetupOTLPMeterProvider(c *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(c.Providers.OTLP.ServerURL),
	}
	if c.Providers.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exp, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(newResource(c.ServiceName, c.ResourceAttributes)),
	), nil
}

// SetupStdoutMeterProvider prints the collected measurements when the provider is flushed or shut down.
func SetupStdoutMeterProvider(c *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []stdoutmetric.Option{}
	if c.Providers.Stdout.Pretty {
		opts = append(opts, stdoutmetric.WithPrettyPrint())
	}
	if c.Providers.Stdout.Writer != nil {
		opts = append(opts, stdoutmetric.WithWriter(c.Providers.Stdout.Writer))
	}

	exp, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(newResource(c.ServiceName, c.ResourceAttributes)),
	), nil
}
