package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-archive-app/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log, err := New(config.LoggingConfig{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log.Warn("bucket listing slow")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"bucket listing slow"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_DefaultsToInfo(t *testing.T) {
	log, err := New(config.LoggingConfig{OutputPath: filepath.Join(t.TempDir(), "out.log")})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewNop_DiscardsEverything(t *testing.T) {
	log := NewNop()

	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
	log.Error("dropped")
	assert.NoError(t, log.Sync())
}
