package logrusx

import (
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// NewLogFields converts span attributes into log fields. Dots in keys become "__" so that
// JSON log processors do not expand them into nested objects.
func NewLogFields(kvs ...attribute.KeyValue) logrus.Fields {
	f := make(logrus.Fields, len(kvs))
	for _, kv := range kvs {
		f[fieldKey(kv.Key)] = kv.Value.AsInterface()
	}
	return f
}

func fieldKey(k attribute.Key) string {
	return strings.ReplaceAll(string(k), ".", "__")
}
