package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/texdrill-api/internal/config"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter_Levels(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true},
		{name: "info", level: "info", wantDebug: false, wantInfo: true},
		{name: "error", level: "error", wantDebug: false, wantInfo: false},
		{name: "uppercase", level: "WARN", wantDebug: false, wantInfo: false},
		{name: "invalid falls back to info", level: "chatty", wantDebug: false, wantInfo: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, &buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")

			assert.Equal(t, tc.wantDebug, strings.Contains(buf.String(), "debug message"))
			assert.Equal(t, tc.wantInfo, strings.Contains(buf.String(), "info message"))
		})
	}
}

func TestSetupWithWriter_JSONByDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, &buf)
	require.NoError(t, err)

	l.Info("hello", slog.String("component", "test"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "texdrill-api", entry["service"])
	assert.Same(t, l, slog.Default())
}

func TestSetupWithWriter_Text(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info", LogFormat: "text"}, &buf)
	require.NoError(t, err)

	l.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	captured, buf := logger.NewCapture()

	t.Run("stored logger wins", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), captured)
		assert.Same(t, captured, logger.FromContext(ctx))
	})

	t.Run("fallback without logger", func(t *testing.T) {
		fallback, _ := logger.NewCapture()
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("request id attached", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), captured)
		ctx = logger.WithRequestID(ctx, "req-42")
		assert.Equal(t, "req-42", logger.RequestIDFromContext(ctx))

		logger.FromContext(ctx).Info("with id")

		entries, err := buf.Entries()
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "req-42", entries[len(entries)-1]["request_id"])
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, ok := logger.ParseLevel("fatal")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelError, level)

	level, ok = logger.ParseLevel("")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}
