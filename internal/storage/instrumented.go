package storage

import (
	"context"
	"errors"
	"time"

	"github.com/vzahanych/weather-archive-app/internal/models"
	"github.com/vzahanych/weather-archive-app/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MetricsRecorder interface for recording object store metrics
type MetricsRecorder interface {
	RecordStorageOperation(operation string, err error, duration time.Duration)
}

// InstrumentedStore wraps an ObjectStore with tracing spans, logging and metrics.
type InstrumentedStore struct {
	next    ObjectStore
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func NewInstrumentedStore(next ObjectStore, logger *zap.Logger, tele *telemetry.Telemetry, metrics MetricsRecorder) *InstrumentedStore {
	return &InstrumentedStore{
		next:    next,
		logger:  logger.With(zap.String("bucket", next.Bucket())),
		tele:    tele,
		metrics: metrics,
	}
}

func (s *InstrumentedStore) Bucket() string {
	return s.next.Bucket()
}

func (s *InstrumentedStore) Put(ctx context.Context, name string, content models.WeatherRecord) error {
	ctx, span := s.tele.GetTracer().Start(ctx, "storage.Put")
	defer span.End()
	span.SetAttributes(
		attribute.String("bucket", s.next.Bucket()),
		attribute.String("file_name", name),
		attribute.Int("content_bytes", len(content)),
	)

	start := time.Now()
	err := s.next.Put(ctx, name, content)
	s.observe(ctx, "put", name, err, time.Since(start))
	return err
}

func (s *InstrumentedStore) List(ctx context.Context) ([]string, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "storage.List")
	defer span.End()
	span.SetAttributes(attribute.String("bucket", s.next.Bucket()))

	start := time.Now()
	names, err := s.next.List(ctx)
	s.observe(ctx, "list", "", err, time.Since(start))
	if err == nil {
		span.SetAttributes(attribute.Int("files_count", len(names)))
	}
	return names, err
}

func (s *InstrumentedStore) Get(ctx context.Context, name string) (models.WeatherRecord, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "storage.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("bucket", s.next.Bucket()),
		attribute.String("file_name", name),
	)

	start := time.Now()
	record, err := s.next.Get(ctx, name)
	s.observe(ctx, "get", name, err, time.Since(start))
	return record, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe(ctx, "ping", "", err, time.Since(start))
	return err
}

func (s *InstrumentedStore) observe(ctx context.Context, op, name string, err error, elapsed time.Duration) {
	// A missing object is an answer, not a storage failure.
	failed := err != nil && !errors.Is(err, ErrNotFound)

	if s.metrics != nil {
		var recorded error
		if failed {
			recorded = err
		}
		s.metrics.RecordStorageOperation(op, recorded, elapsed)
	}

	fields := []zap.Field{
		zap.String("operation", op),
		zap.Duration("latency", elapsed),
	}
	if name != "" {
		fields = append(fields, zap.String("file_name", name))
	}

	switch {
	case failed:
		s.tele.RecordError(ctx, err, map[string]string{"storage.operation": op})
		s.logger.Error("Object store operation failed", append(fields, zap.Error(err))...)
	case err != nil:
		s.logger.Debug("Object not found", fields...)
	default:
		s.logger.Debug("Object store operation completed", fields...)
	}
}
