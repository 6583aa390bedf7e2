package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name        string
		level       string
		wantDebug   bool
		wantInfo    bool
		environment string
	}{
		{name: "debug level", level: "debug", wantDebug: true, wantInfo: true, environment: config.EnvDevelopment},
		{name: "info level", level: "info", wantDebug: false, wantInfo: true, environment: config.EnvProduction},
		{name: "error level", level: "ERROR", wantDebug: false, wantInfo: false, environment: config.EnvProduction},
		{name: "invalid level falls back to info", level: "loud", wantDebug: false, wantInfo: true, environment: config.EnvTest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(config.ServerConfig{
				LogLevel:    tt.level,
				Environment: tt.environment,
			}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")

			entries := buf.Entries()
			var msgs []string
			for _, e := range entries {
				msgs = append(msgs, e["msg"].(string))
				assert.Equal(t, tt.environment, e["environment"])
			}
			assert.Equal(t, tt.wantDebug, contains(msgs, "debug message"))
			assert.Equal(t, tt.wantInfo, contains(msgs, "info message"))
			assert.Same(t, l, slog.Default())
		})
	}
}

func TestContextLogger(t *testing.T) {
	l, buf := logger.NewTestLogger()

	_, ok := logger.FromContext(context.Background())
	assert.False(t, ok)
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background()))

	ctx := logger.WithLogger(context.Background(), l.With(slog.String("trace_id", "abc")))
	got, ok := logger.FromContext(ctx)
	require.True(t, ok)

	got.Info("hello")
	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])

	assert.Equal(t, ctx, logger.WithLogger(ctx, nil), "nil logger leaves context unchanged")
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
