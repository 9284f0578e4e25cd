package config

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

// SetConfig is called once at startup. The stored config is never mutated afterwards.
func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

const (
	BackendGCS        = "gcs"
	BackendFilesystem = "filesystem"
	BackendMemory     = "memory"
)

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// WeatherConfig describes the upstream historical weather provider.
type WeatherConfig struct {
	BaseURL  string   `mapstructure:"base_url"`
	Timeout  int      `mapstructure:"timeout"`
	Daily    []string `mapstructure:"daily"`
	Timezone string   `mapstructure:"timezone"`
}

type StorageConfig struct {
	Backend         string `mapstructure:"backend"`
	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Anonymous       bool   `mapstructure:"anonymous"`
	BaseDir         string `mapstructure:"base_dir"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			BaseURL: "https://archive-api.open-meteo.com/v1/archive",
			Timeout: 30,
			Daily: []string{
				"temperature_2m_max",
				"temperature_2m_min",
				"temperature_2m_mean",
				"apparent_temperature_max",
				"apparent_temperature_min",
				"apparent_temperature_mean",
			},
			Timezone: "auto",
		},
		Storage: StorageConfig{
			Backend: BackendGCS,
			BaseDir: "./data",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-archive",
		},
		Metrics: MetricsConfig{
			Namespace: "weather_archive",
		},
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return errors.New("storage bucket is required (set GCS_BUCKET_NAME or storage.bucket)")
	}

	switch c.Storage.Backend {
	case BackendGCS, BackendMemory:
	case BackendFilesystem:
		if c.Storage.BaseDir == "" {
			return errors.New("storage.base_dir is required for the filesystem backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Weather.BaseURL == "" {
		return errors.New("weather.base_url is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}
