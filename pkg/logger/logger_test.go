package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogger_AddsServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "purchases-service", false)

	log.Info("hello", "buyer_id", 42)

	line := decode(t, &buf)
	assert.Equal(t, "purchases-service", line["service"])
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, float64(42), line["buyer_id"])
	assert.NotContains(t, line, "trace_id")
}

func TestLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "svc", false)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.With("component", "test").InfoContext(ctx, "traced")

	line := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
	assert.Equal(t, "test", line["component"])
}

func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "svc", false).Debug("hidden")
	assert.Zero(t, buf.Len())

	NewWithWriter(&buf, "svc", true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
