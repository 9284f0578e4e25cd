package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/vzahanych/weather-archive-app/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type Telemetry struct {
	enabled  bool
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	conn     *grpc.ClientConn
}

func New(ctx context.Context, cfg config.TelemetryConfig, version string) (*Telemetry, error) {
	t := &Telemetry{
		enabled: cfg.Enabled,
	}

	if !cfg.Enabled {
		return t, nil
	}

	if err := t.initTracer(ctx, cfg, version); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	return t, nil
}

// NewDisabled returns telemetry that hands out no-op tracers.
func NewDisabled() *Telemetry {
	return &Telemetry{}
}

func (t *Telemetry) initTracer(ctx context.Context, cfg config.TelemetryConfig, version string) error {
	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create resource: %w", err)
	}

	t.conn = conn
	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.tracer = otel.Tracer(cfg.ServiceName)

	return nil
}

func (t *Telemetry) IsEnabled() bool {
	if t == nil {
		return false
	}
	return t.enabled
}

func (t *Telemetry) GetTracer() trace.Tracer {
	if t == nil || !t.enabled || t.tracer == nil {
		return noop.NewTracerProvider().Tracer("noop")
	}
	return t.tracer
}

// TracerProvider is what instrumented HTTP clients should report to.
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	if t == nil || t.provider == nil {
		return noop.NewTracerProvider()
	}
	return t.provider
}

// RecordError marks the span in ctx as failed and attaches the given attributes.
func (t *Telemetry) RecordError(ctx context.Context, err error, contextData map[string]string) {
	if !t.IsEnabled() || err == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	for k, v := range contextData {
		span.SetAttributes(attribute.String(k, v))
	}
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if !t.IsEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if t.provider != nil {
		if err := t.provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
	}

	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			return fmt.Errorf("failed to close OTLP connection: %w", err)
		}
	}

	return nil
}
