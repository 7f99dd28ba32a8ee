package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/banking/customer-service/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestFromAppConfig(t *testing.T) {
	t.Run("keeps the configured format outside production", func(t *testing.T) {
		cfg := FromAppConfig(
			config.AppConfig{Name: "customer-service", Env: "development"},
			config.LogConfig{Level: "debug", Format: "console", Output: "stderr"},
		)

		assert.Equal(t, Config{
			Level:   "debug",
			Format:  "console",
			Output:  "stderr",
			Service: "customer-service",
			Env:     "development",
		}, cfg)
	})

	t.Run("forces json in production", func(t *testing.T) {
		cfg := FromAppConfig(
			config.AppConfig{Name: "customer-service", Env: "production"},
			config.LogConfig{Format: "console"},
		)

		assert.Equal(t, "json", cfg.Format)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("stdout and stderr", func(t *testing.T) {
		for _, output := range []string{"stdout", "stderr", ""} {
			l, err := New(Config{Level: "info", Format: "console", Output: output})
			require.NoError(t, err, output)
			assert.NotNil(t, l)
		}
	})

	t.Run("writes json with service fields to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "service.log")
		l, err := New(Config{Level: "info", Format: "json", Output: path, Service: "customer-service", Env: "test"})
		require.NoError(t, err)

		l.Debug("hidden")
		l.Info("customer created")
		require.NoError(t, l.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(data, &entry), "expected exactly one json line, got %q", data)
		assert.Equal(t, "customer created", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "customer-service", entry["service"])
		assert.Equal(t, "test", entry["env"])
	})

	t.Run("unwritable output is an error", func(t *testing.T) {
		_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "service.log")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open log output")
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", "test"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.Equal(t, env == "production", !l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}
