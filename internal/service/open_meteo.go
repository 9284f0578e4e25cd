package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vzahanych/weather-archive-app/internal/config"
	"github.com/vzahanych/weather-archive-app/internal/models"
	"github.com/vzahanych/weather-archive-app/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const OpenMeteoName = "open-meteo"

// OpenMeteoService queries the Open-Meteo historical archive API.
type OpenMeteoService struct {
	baseURL  string
	client   *http.Client
	daily    []string
	timezone string
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
}

func NewOpenMeteoServiceWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoService {
	return &OpenMeteoService{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(tele.TracerProvider()),
			),
		},
		daily:    cfg.Daily,
		timezone: cfg.Timezone,
		logger:   logger.With(zap.String("service", OpenMeteoName)),
		tele:     tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for provider calls
func (s *OpenMeteoService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

func (s *OpenMeteoService) Name() string {
	return OpenMeteoName
}

func (s *OpenMeteoService) FetchHistorical(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "open-meteo.FetchHistorical")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", query.Latitude.Value),
		attribute.Float64("lon", query.Longitude.Value),
		attribute.String("start_date", query.StartDate),
		attribute.String("end_date", query.EndDate),
	)

	start := time.Now()
	record, err := s.fetch(ctx, query)
	if s.metrics != nil {
		s.metrics.RecordUpstreamRequest(OpenMeteoName, err, time.Since(start))
	}

	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		s.tele.RecordError(ctx, err, map[string]string{"provider": OpenMeteoName})
		s.logger.Warn("Historical weather request failed",
			zap.String("lat", query.Latitude.String()),
			zap.String("lon", query.Longitude.String()),
			zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("response_bytes", len(record)),
	)

	s.logger.Debug("Historical weather fetched",
		zap.String("lat", query.Latitude.String()),
		zap.String("lon", query.Longitude.String()),
		zap.String("start_date", query.StartDate),
		zap.String("end_date", query.EndDate),
		zap.Int("response_bytes", len(record)))

	return record, nil
}

func (s *OpenMeteoService) fetch(ctx context.Context, query models.WeatherQuery) (models.WeatherRecord, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, s.upstreamError(0, "invalid provider URL", err)
	}

	q := u.Query()
	q.Set("latitude", query.Latitude.String())
	q.Set("longitude", query.Longitude.String())
	q.Set("start_date", query.StartDate)
	q.Set("end_date", query.EndDate)
	if len(s.daily) > 0 {
		q.Set("daily", strings.Join(s.daily, ","))
	}
	if s.timezone != "" {
		q.Set("timezone", s.timezone)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, s.upstreamError(0, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.upstreamError(0, err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.upstreamError(resp.StatusCode, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, s.upstreamError(resp.StatusCode, providerReason(resp, body), nil)
	}

	if !json.Valid(body) {
		return nil, s.upstreamError(resp.StatusCode, "response body is not valid JSON", nil)
	}

	return models.WeatherRecord(body), nil
}

func (s *OpenMeteoService) upstreamError(status int, message string, err error) *UpstreamFetchError {
	return &UpstreamFetchError{
		Provider:   OpenMeteoName,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// providerReason extracts Open-Meteo's {"error": true, "reason": "..."} message,
// falling back to the HTTP status text.
func providerReason(resp *http.Response, body []byte) string {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Reason != "" {
		return payload.Reason
	}
	return resp.Status
}
