package otelx

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/avdatabase/x/logrusx"
)

const defaultPushJob = "projectadder"

func SetupPrometheusMeterProvider(c *MeterConfig, reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	// The exporter embeds a default OpenTelemetry Reader and implements prometheus.Collector
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(c.ServiceName, c.ResourceAttributes)),
	), nil
}

// pushOnShutdown sends the gathered metrics to the configured pushgateway before shutting the provider down.
// Short-lived commands have nothing left to scrape once they exit.
// Resource attributes become grouping labels.
func pushOnShutdown(l *logrusx.Logger, mc *MeterConfig, g prometheus.Gatherer, mp *sdkmetric.MeterProvider) func(context.Context) error {
	c := mc.Providers.Prometheus
	return func(ctx context.Context) error {
		if c.PushgatewayURL != "" {
			job := c.Job
			if job == "" {
				job = defaultPushJob
			}
			p := push.New(c.PushgatewayURL, job).Gatherer(g)
			for k, v := range NewPrometheusLabels(mc.ResourceAttributes...) {
				p = p.Grouping(k, v)
			}
			if err := p.PushContext(ctx); err != nil {
				l.WithError(err).Warnf("Unable to push metrics to %s", c.PushgatewayURL)
				_ = mp.Shutdown(ctx)
				return errors.WithStack(err)
			}
			l.Debugf("Pushed metrics to %s", c.PushgatewayURL)
		}
		return mp.Shutdown(ctx)
	}
}
