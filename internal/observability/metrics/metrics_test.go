package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "granted"),
		attribute.String("member_id", "123456789"),
		attribute.String("tier", "Club ACE"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "member_id" {
			t.Fatalf("expected member_id to be dropped")
		}
	}
}
