package logger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/magicshop-api/internal/config"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name      string
		cfg       config.ServerConfig
		wantDebug bool
		wantJSON  bool
	}{
		{"debug json", config.ServerConfig{LogLevel: "debug", LogFormat: "json"}, true, true},
		{"info text", config.ServerConfig{LogLevel: "INFO", LogFormat: "text"}, false, false},
		{"invalid level falls back to info", config.ServerConfig{LogLevel: "loud", LogFormat: "json"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(tt.cfg, buf)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Same(t, l, slog.Default())

			l.Debug("debug message")
			l.Info("info message", slog.String("component", "test"))

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug message"))
			assert.Contains(t, out, "info message")
			assert.Equal(t, tt.wantJSON, strings.HasPrefix(out, "{"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("Warn")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = logger.ParseLevel("fatal")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestContextLogger(t *testing.T) {
	base, buf := logger.NewTestLogger(t)
	fallback := slog.New(slog.NewJSONHandler(&logger.TestLogBuffer{}, nil))

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))

	ctx := logger.WithLogger(context.Background(), base)
	assert.Same(t, base, logger.FromContextOrDefault(ctx, fallback))

	ctx = logger.WithTraceID(context.Background(), base, "abc-123")
	logger.FromContext(ctx).Info("traced")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc-123", entries[0][logger.TraceIDKey])
}
