package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_InfoCarriesBaseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rc := NewRequestContextWithID(logger, "trace-1", "group-9", "ann@example.com")
	rc.Info("constraint saved", slog.String(LogFieldAppointmentID, "appt-1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-1", entry[LogFieldTraceID])
	assert.Equal(t, "group-9", entry[LogFieldGroupID])
	assert.Equal(t, "ann@example.com", entry[LogFieldActor])
	assert.Equal(t, "appt-1", entry[LogFieldAppointmentID])
}

func TestNewRequestContext_GeneratesTraceID(t *testing.T) {
	rc := NewRequestContext(nil, "g", "a")
	assert.Len(t, rc.TraceID, 36)
	assert.NotNil(t, rc.Logger)
}

func TestContextRoundTrip(t *testing.T) {
	rc := NewRequestContextWithID(nil, "trace-2", "g", "a")
	ctx := WithRequestContext(context.Background(), rc)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, rc, got)
	assert.Equal(t, "trace-2", TraceIDFromContext(ctx))
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
	assert.NotNil(t, LoggerFromContext(context.Background()))
}
