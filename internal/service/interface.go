package service

import (
	"context"
	"time"

	"github.com/vzahanych/weather-archive-app/internal/models"
)

// WeatherService fetches historical daily weather for a point and date range.
type WeatherService interface {
	FetchHistorical(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error)
	Name() string
}

// MetricsRecorder interface for recording provider call metrics
type MetricsRecorder interface {
	RecordUpstreamRequest(provider string, err error, duration time.Duration)
}
