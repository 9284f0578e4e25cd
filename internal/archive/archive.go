package archive

import (
	"context"
	"time"

	"github.com/vzahanych/weather-archive-app/internal/models"
	"github.com/vzahanych/weather-archive-app/internal/service"
	"github.com/vzahanych/weather-archive-app/internal/storage"
	"github.com/vzahanych/weather-archive-app/pkg/logger"
	"github.com/vzahanych/weather-archive-app/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Archiver fetches historical weather and keeps the raw responses in an object store.
// It holds no per-request state and is safe for concurrent use.
type Archiver struct {
	weather service.WeatherService
	store   storage.ObjectStore
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	now     func() time.Time
}

func NewArchiver(weather service.WeatherService, store storage.ObjectStore, logger *zap.Logger, tele *telemetry.Telemetry) *Archiver {
	return &Archiver{
		weather: weather,
		store:   store,
		logger:  logger,
		tele:    tele,
		now:     time.Now,
	}
}

// Store fetches the query's weather and writes it under a new file name, which it returns.
// The work is detached from ctx cancellation: once started it completes or fails on its own.
func (a *Archiver) Store(ctx context.Context, query models.WeatherQuery) (string, error) {
	ctx = context.WithoutCancel(ctx)

	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "archive.Store")
	defer span.End()

	reqLogger := logger.ForContext(ctx, a.logger)

	if err := ValidateQuery(query); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return "", err
	}

	span.SetAttributes(
		attribute.Float64("lat", query.Latitude.Value),
		attribute.Float64("lon", query.Longitude.Value),
		attribute.String("start_date", query.StartDate),
		attribute.String("end_date", query.EndDate),
		attribute.String("provider", a.weather.Name()),
	)

	record, err := a.weather.FetchHistorical(ctx, query)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		reqLogger.Error("Failed to fetch historical weather",
			zap.String("provider", a.weather.Name()),
			zap.Error(err))
		return "", err
	}

	fileName := FileName(query, a.now())
	span.SetAttributes(attribute.String("file_name", fileName))

	if err := a.store.Put(ctx, fileName, record); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		reqLogger.Error("Failed to store weather data",
			zap.String("file_name", fileName),
			zap.String("bucket", a.store.Bucket()),
			zap.Error(err))
		return "", err
	}

	span.SetAttributes(attribute.Bool("success", true))
	reqLogger.Info("Weather data stored",
		zap.String("file_name", fileName),
		zap.String("bucket", a.store.Bucket()),
		zap.Int("content_bytes", len(record)))

	return fileName, nil
}

// List returns the stored file names in the order the store reports them.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	ctx = context.WithoutCancel(ctx)

	ctx, span := a.tele.GetTracer().Start(ctx, "archive.List")
	defer span.End()

	names, err := a.store.List(ctx)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		logger.ForContext(ctx, a.logger).Error("Failed to list weather files",
			zap.String("bucket", a.store.Bucket()),
			zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("files_count", len(names)),
	)
	return names, nil
}

// Read returns the content stored under fileName. A missing file yields an
// error matching storage.ErrNotFound.
func (a *Archiver) Read(ctx context.Context, fileName string) (models.StoredFile, error) {
	ctx = context.WithoutCancel(ctx)

	ctx, span := a.tele.GetTracer().Start(ctx, "archive.Read")
	defer span.End()
	span.SetAttributes(attribute.String("file_name", fileName))

	record, err := a.store.Get(ctx, fileName)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return models.StoredFile{}, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return models.StoredFile{FileName: fileName, Content: record}, nil
}

// Ready reports whether the object store can be reached.
func (a *Archiver) Ready(ctx context.Context) error {
	return a.store.Ping(ctx)
}

func (a *Archiver) Bucket() string {
	return a.store.Bucket()
}
