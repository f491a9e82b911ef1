// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func SetupOTLPTracer(c *TracerConfig) (*sdktrace.TracerProvider, error) {
	exp, err := getExporter(c)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(newResource(c.ServiceName, c.ResourceAttributes)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(
			c.Providers.OTLP.Sampling.SamplingRatio,
		))),
	), nil
}

func getExporter(c *TracerConfig) (*otlptrace.Exporter, error) {
	ctx := context.Background()

	switch c.Providers.OTLP.Protocol {
	case "http", "":
		clientOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(c.Providers.OTLP.ServerURL),
		}

		if c.Providers.OTLP.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}

		return otlptrace.New(ctx, otlptracehttp.NewClient(clientOpts...))
	case "grpc":
		clientOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(c.Providers.OTLP.ServerURL),
		}

		if c.Providers.OTLP.Insecure {
			clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
		}

		exp, err := otlptracegrpc.New(ctx, clientOpts...)
		if err != nil {
			return nil, errors.Errorf("failed to create trace exporter: %s", err)
		}
		return exp, nil
	}

	return nil, errors.Errorf("unknown protocol: %s", c.Providers.OTLP.Protocol)
}
