package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busdelay.org/internal/appconf"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("snapshot loaded",
			slog.String("component", "data_manager"),
			slog.Int("records", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"snapshot loaded"`)
		assert.Contains(t, output, `"component":"data_manager"`)
		assert.Contains(t, output, `"records":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("production logs JSON with the environment", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, appconf.Production, slog.LevelInfo)
		logger.Info("ready")

		assert.Contains(t, buf.String(), `"msg":"ready"`)
		assert.Contains(t, buf.String(), `"env":"production"`)
	})

	t.Run("development logs text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, appconf.Development, slog.LevelDebug)
		logger.Debug("ready", slog.Int("port", 4000))

		output := buf.String()
		assert.Contains(t, output, "ready")
		assert.Contains(t, output, "port")
		assert.NotContains(t, output, `"msg":`)
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to fetch observations", assert.AnError,
			slog.String("source", "http://example.com/data.csv"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to fetch observations"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"source":"http://example.com/data.csv"`)
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "data_reloaded",
			slog.Int("records", 150),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"data_reloaded"`)
		assert.Contains(t, output, `"records":150`)
		assert.NotContains(t, output, `"duration"`)

		buf.Reset()
		LogOperation(logger, "data_reloaded", slog.Duration("duration", time.Second))
		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("LogHTTPRequest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/api/stop-schedule", 200, 1.5,
			slog.String("request_id", "abc"))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"path":"/api/stop-schedule"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":1.5`)
		assert.Contains(t, output, `"request_id":"abc"`)

		buf.Reset()
		LogHTTPRequest(logger, "GET", "/api/predict", 503, 0.2)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		LogError(nil, "ignored", assert.AnError)
		LogOperation(nil, "ignored")
		LogHTTPRequest(nil, "GET", "/", 200, 0)
	})
}

func TestContextValues(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		retrieved := FromContext(ctx)
		require.NotNil(t, retrieved)
		retrieved.Info("test from context")

		assert.Contains(t, buf.String(), "test from context")
	})

	t.Run("returns default logger when not in context", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("request id", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(context.Background()))
		ctx := WithRequestID(context.Background(), "req-1")
		assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	})
}
