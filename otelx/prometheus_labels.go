package otelx

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// NewPrometheusLabels turns resource attributes into pushgateway grouping labels.
// Prometheus label names cannot contain dots, so "deployment.env" becomes "deployment__env".
// Values are rendered with Emit, so non-string attributes are kept.
func NewPrometheusLabels(kvs ...attribute.KeyValue) prometheus.Labels {
	labels := make(prometheus.Labels, len(kvs))
	for _, kv := range kvs {
		labels[strings.ReplaceAll(string(kv.Key), ".", "__")] = kv.Value.Emit()
	}

	return labels
}
