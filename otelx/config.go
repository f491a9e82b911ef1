// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"bytes"
	_ "embed"
	"io"

	"go.opentelemetry.io/otel/attribute"
)

type OTLPConfig struct {
	Protocol  string       `json:"protocol"`
	ServerURL string       `json:"server_url"`
	Insecure  bool         `json:"insecure"`
	Sampling  OTLPSampling `json:"sampling"`
}

type OTLPSampling struct {
	SamplingRatio float64 `json:"sampling_ratio"`
}

type StdoutConfig struct {
	Pretty bool `json:"pretty"`

	// Writer replaces os.Stdout, mostly for tests.
	Writer io.Writer `json:"-"`
}

type TracerProvidersConfig struct {
	OTLP   OTLPConfig   `json:"otlp"`
	Stdout StdoutConfig `json:"stdout"`
}

type TracerConfig struct {
	ServiceName        string                `json:"service_name"`
	Name               string                `json:"name"`
	Provider           string                `json:"provider"`
	Providers          TracerProvidersConfig `json:"providers"`
	ResourceAttributes []attribute.KeyValue  `json:"-"`
}

type OTLPMeterConfig struct {
	Protocol  string `json:"protocol"`
	ServerURL string `json:"server_url"`
	Insecure  bool   `json:"insecure"`
}

type PrometheusConfig struct {
	// PushgatewayURL receives the collected metrics when the meter shuts down.
	// Leave empty to keep the metrics in process.
	PushgatewayURL string `json:"pushgateway_url"`
	Job            string `json:"job"`
}

type MeterProvidersConfig struct {
	OTLP       OTLPMeterConfig  `json:"otlp"`
	Stdout     StdoutConfig     `json:"stdout"`
	Prometheus PrometheusConfig `json:"prometheus"`
}

type MeterConfig struct {
	ServiceName        string               `json:"service_name"`
	Name               string               `json:"name"`
	Provider           string               `json:"provider"`
	Providers          MeterProvidersConfig `json:"providers"`
	ResourceAttributes []attribute.KeyValue `json:"-"`
}

//go:embed tracer.schema.json
var TracerConfigSchema string

const TracerConfigSchemaID = "avdatabase://tracer-config"

//go:embed meter.schema.json
var MeterConfigSchema string

const MeterConfigSchemaID = "avdatabase://meter-config"

// AddTracerConfigSchema adds the tracer schema to the compiler.
// The interface is specified instead of `jsonschema.Compiler` to allow the use of any jsonschema library fork or version.
func AddTracerConfigSchema(c interface {
	AddResource(url string, r io.Reader) error
}) error {
	return c.AddResource(TracerConfigSchemaID, bytes.NewBufferString(TracerConfigSchema))
}

// AddMeterConfigSchema adds the meter schema to the compiler.
func AddMeterConfigSchema(c interface {
	AddResource(url string, r io.Reader) error
}) error {
	return c.AddResource(MeterConfigSchemaID, bytes.NewBufferString(MeterConfigSchema))
}
