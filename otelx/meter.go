// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package otelx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/embedded"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/stringsx"
)

type Meter struct {
	meter    metric.Meter
	gatherer prometheus.Gatherer
	shutdown func(context.Context) error
}

// NewMeter creates a meter for the configured provider. An empty provider yields a no-op meter.
func NewMeter(l *logrusx.Logger, c *MeterConfig) (*Meter, error) {
	m := &Meter{}

	if err := m.setup(l, c); err != nil {
		return nil, err
	}

	return m, nil
}

// setup constructs the meter based on the given configuration.
func (m *Meter) setup(l *logrusx.Logger, c *MeterConfig) error {
	var (
		mp  *sdkmetric.MeterProvider
		err error
	)

	switch f := stringsx.SwitchExact(c.Provider); {
	case f.AddCase("otel"):
		mp, err = SetupOTLPMeterProvider(c)
		if err != nil {
			return err
		}
		l.Infof("OTLP meter configured! Sending measurements to %s", c.Providers.OTLP.ServerURL)
	case f.AddCase("stdout"):
		mp, err = SetupStdoutMeterProvider(c)
		if err != nil {
			return err
		}
		l.Infof("Stdout meter configured! Printing measurements on shutdown")
	case f.AddCase("prometheus"):
		reg := prometheus.NewRegistry()
		mp, err = SetupPrometheusMeterProvider(c, reg)
		if err != nil {
			return err
		}
		m.gatherer = reg
		m.meter = mp.Meter(c.Name)
		m.shutdown = pushOnShutdown(l, c, reg, mp)
		l.Infof("Prometheus meter configured!")
		return nil
	case f.AddCase(""):
		l.Debugf("Missing provider in config - skipping metrics setup")
		*m = *NewNoopMeter()
		return nil
	default:
		return f.ToUnknownCaseErr()
	}

	m.meter = mp.Meter(c.Name)
	m.shutdown = mp.Shutdown
	return nil
}

func NewNoopMeter() *Meter {
	return &Meter{
		meter: noop.NewMeterProvider().Meter("NoopMeter"),
	}
}

// IsLoaded returns true if the meter has been loaded.
func (m *Meter) IsLoaded() bool {
	if m == nil || m.meter == nil {
		return false
	}
	return true
}

// Meter returns the underlying OpenTelemetry meter.
func (m *Meter) Meter() metric.Meter {
	return m.meter
}

// Gatherer returns the registry backing the prometheus provider, or nil for any other provider.
func (m *Meter) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Provider returns a MeterProvder which in turn yieds this meter unmodified.
func (m *Meter) Provider() metric.MeterProvider {
	return meterProvider{m: m.Meter()}
}

// Shutdown flushes pending measurements. It is a no-op for the no-op meter.
func (m *Meter) Shutdown(ctx context.Context) error {
	if m == nil || m.shutdown == nil {
		return nil
	}
	return m.shutdown(ctx)
}

type meterProvider struct {
	embedded.MeterProvider
	m metric.Meter
}

var _ metric.MeterProvider = meterProvider{}

// Meter implements metric.MeterProvder.
func (mp meterProvider) Meter(name string, options ...metric.MeterOption) metric.Meter {
	return mp.m
}
