package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "debug", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestFromContext_RequestAndRunID(t *testing.T) {
	buf := captureDefault(t)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = WithRunID(ctx, "run-1")
	FromContext(ctx).Info("hello")

	entry := decodeLine(t, buf)
	require.Equal(t, "req-1", entry["request_id"])
	require.Equal(t, "run-1", entry["run_id"])
	require.Equal(t, "hello", entry["msg"])
}

func TestFromContext_Bare(t *testing.T) {
	buf := captureDefault(t)

	FromContext(context.Background()).Info("plain")

	entry := decodeLine(t, buf)
	require.NotContains(t, entry, "request_id")
	require.NotContains(t, entry, "run_id")
}

func TestWithFields(t *testing.T) {
	buf := captureDefault(t)

	WithFields(WithRunID(context.Background(), "r"), "file", "ventas.xlsx").Warn("odd")

	entry := decodeLine(t, buf)
	require.Equal(t, "ventas.xlsx", entry["file"])
	require.Equal(t, "r", entry["run_id"])
	require.Equal(t, "WARN", entry["level"])
}

func TestRunID(t *testing.T) {
	require.Empty(t, RunID(context.Background()))
	require.Equal(t, "abc", RunID(WithRunID(context.Background(), "abc")))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, parseLevel(tt.in), "parseLevel(%q)", tt.in)
	}
}

func TestNew_TextFormatFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "msg=kept")
}
