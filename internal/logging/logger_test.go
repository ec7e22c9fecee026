package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Production_JSONHandler(t *testing.T) {
	logger := NewLogger("production", "")
	require.NotNil(t, logger)

	handler := logger.Handler()
	_, ok := handler.(*slog.JSONHandler)
	assert.True(t, ok, "production logger should use JSONHandler, got %T", handler)
}

func TestNewLogger_Development_TextHandler(t *testing.T) {
	for _, env := range []string{"development", "", "staging"} {
		logger := NewLogger(env, "")
		require.NotNil(t, logger)

		_, ok := logger.Handler().(*slog.TextHandler)
		assert.True(t, ok, "env %q should use TextHandler, got %T", env, logger.Handler())
	}
}

func TestNewLogger_Production_InfoLevel(t *testing.T) {
	logger := NewLogger("production", "")
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_Development_DebugLevel(t *testing.T) {
	logger := NewLogger("development", "")
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_LevelOverride(t *testing.T) {
	tests := []struct {
		env, level string
		enabled    slog.Level
		disabled   slog.Level
	}{
		{"production", "debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"development", "warn", slog.LevelWarn, slog.LevelInfo},
		{"production", "ERROR", slog.LevelError, slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			logger := NewLogger(tt.env, tt.level)
			assert.True(t, logger.Handler().Enabled(context.Background(), tt.enabled))
			assert.False(t, logger.Handler().Enabled(context.Background(), tt.disabled))
		})
	}
}

func TestNewLogger_UnknownLevelKeepsDefault(t *testing.T) {
	logger := NewLogger("production", "chatty")
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_WritesJSONRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "")
	logger.Info("sync: pushed", slog.Int("updated", 2))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sync: pushed", rec["msg"])
	assert.Equal(t, float64(2), rec["updated"])
}
