package tracing

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
)

const maxErrorLength = 256

var allowedSpanKeys = map[attribute.Key]struct{}{
	"http.method":             {},
	"http.route":              {},
	"http.status_code":        {},
	"http.server_duration_ms": {},
	"request_id":              {},
	"order_id":                {},
	"member_id":               {},
	"endpoint":                {},
	"outcome":                 {},
	"tier":                    {},
}

// SafeAttributes strips span attributes outside the allowlist so raw paths,
// query strings, and credentials never reach the trace backend.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedSpanKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError truncates error messages before they are recorded on a span.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if len(msg) <= maxErrorLength {
		return err
	}
	return errors.New(msg[:maxErrorLength])
}
