package logger

import (
	"fmt"

	"github.com/vzahanych/weather-archive-app/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

// New builds a zap logger from the logging section of the config.
// Format "console" switches to the development encoder; anything else logs JSON.
func New(cfg config.LoggingConfig) (*Logger, error) {
	level := zap.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.OutputPath != "" {
		zcfg.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger}, nil
}

// NewNop returns a logger that discards everything, for use before configuration is loaded.
func NewNop() *Logger {
	return &Logger{zap.NewNop()}
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
