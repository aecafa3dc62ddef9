package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
)

func TestInit_NoEndpointIsNoop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &buf

	providers, err := observability.Init(context.Background(), cfg)
	require.NoError(t, err)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	providers.Logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "service=importsweep")

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestNewLogger_RespectsLevelAndJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := observability.NewLogger(observability.Config{
		Mode:      observability.ModeLSP,
		LogLevel:  slog.LevelWarn,
		LogJSON:   true,
		LogWriter: &buf,
	})

	logger.Info("dropped")
	logger.Warn("kept", "n", 1)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "importsweep", record["service"])
	assert.Equal(t, "lsp", record["mode"])
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "svc", observability.ModeCLI))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.WithGroup("scan").InfoContext(ctx, "message", "files", 3)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["scan"].(map[string]any)["trace_id"])
	assert.Equal(t, "svc", record["service"])
	assert.Equal(t, "cli", record["mode"])
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(nil))
	assert.Nil(t, observability.ParseOTLPHeaders([]string{"novalue", "=x"}))
	assert.Equal(t,
		map[string]string{"authorization": "Bearer t", "x-team": "web", "a": "1"},
		observability.ParseOTLPHeaders([]string{"authorization=Bearer t", " x-team = web ,a=1"}),
	)
}
