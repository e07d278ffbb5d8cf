package logger

import (
	"context"
	"testing"

	obscontext "github.com/academiace/rolesync/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextSkipsEmptyFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("resolving order")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Empty(t, entries[0].Context)
}

func TestWithContextAddsKnownFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithMemberID(ctx, "m-1")
	WithContext(ctx, base).Info("handling claim")

	entries := logs.All()
	assert.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "m-1", fields["member_id"])
	assert.NotContains(t, fields, "trace_id")
	assert.NotContains(t, fields, "span_id")
}
