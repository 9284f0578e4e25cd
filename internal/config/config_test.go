package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func clearStorageEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GCS_BUCKET_NAME", "")
	t.Setenv("WDP_STORAGE_BUCKET", "")
	t.Setenv("PORT", "")
	t.Setenv("WDP_SERVER_PORT", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	clearStorageEnv(t)

	path := writeConfig(t, `
server:
  port: 9090
weather:
  daily:
    - temperature_2m_max
  timezone: Europe/Berlin
storage:
  backend: memory
  bucket: archive-bucket
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"temperature_2m_max"}, cfg.Weather.Daily)
	assert.Equal(t, "Europe/Berlin", cfg.Weather.Timezone)
	assert.Equal(t, "https://archive-api.open-meteo.com/v1/archive", cfg.Weather.BaseURL)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "archive-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_BucketFromLegacyEnv(t *testing.T) {
	clearStorageEnv(t)
	t.Setenv("GCS_BUCKET_NAME", "legacy-bucket")
	t.Setenv("PORT", "8181")

	cfg, err := Load(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "legacy-bucket", cfg.Storage.Bucket)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, BackendGCS, cfg.Storage.Backend)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	clearStorageEnv(t)
	t.Setenv("GCS_BUCKET_NAME", "legacy-bucket")
	t.Setenv("WDP_STORAGE_BUCKET", "primary-bucket")

	cfg, err := Load(writeConfig(t, "storage:\n  bucket: file-bucket\n"))
	require.NoError(t, err)

	assert.Equal(t, "primary-bucket", cfg.Storage.Bucket)
}

func TestLoad_MissingBucket(t *testing.T) {
	clearStorageEnv(t)

	_, err := Load(writeConfig(t, "environment: test\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearStorageEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: true},
		{name: "filesystem without dir", mutate: func(c *Config) {
			c.Storage.Backend = BackendFilesystem
			c.Storage.BaseDir = ""
		}, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.Weather.BaseURL = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Storage.Bucket = "bucket"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetGetConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}

func TestSetDefaultsFromStructRecursive(t *testing.T) {
	vp := viper.New()
	SetDefaultsFromStructRecursive(reflect.ValueOf(NewDefaultConfig()), "", vp)

	assert.Equal(t, 8080, vp.GetInt("server.port"))
	assert.Equal(t, "https://archive-api.open-meteo.com/v1/archive", vp.GetString("weather.base_url"))
	assert.Len(t, vp.GetStringSlice("weather.daily"), 6)
	assert.Equal(t, BackendGCS, vp.GetString("storage.backend"))
	assert.Equal(t, "weather_archive", vp.GetString("metrics.namespace"))
}
