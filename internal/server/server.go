package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-archive-app/internal/archive"
	"github.com/vzahanych/weather-archive-app/internal/config"
	"github.com/vzahanych/weather-archive-app/internal/server/handlers"
	"github.com/vzahanych/weather-archive-app/internal/server/middlewares"
	"github.com/vzahanych/weather-archive-app/pkg/metrics"
	"github.com/vzahanych/weather-archive-app/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	cfg       config.ServerConfig
	engine    *gin.Engine
	server    *http.Server
	archiver  *archive.Archiver
	collector *metrics.Collector
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

func NewServer(cfg config.ServerConfig, archiver *archive.Archiver, collector *metrics.Collector, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(middlewares.MetricsMiddleware(collector))

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		archiver:  archiver,
		collector: collector,
		logger:    logger,
		tele:      tele,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	weather := handlers.NewWeatherHandler(s.archiver, s.logger)
	health := handlers.NewHealthHandler(s.archiver, s.logger)

	// Business endpoints
	s.engine.GET("/", handlers.Index)
	s.engine.POST("/store-weather-data", weather.StoreWeatherData)
	s.engine.GET("/list-weather-files", weather.ListWeatherFiles)
	s.engine.GET("/weather-file-content/:file_name", weather.GetWeatherFileContent)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", gin.WrapH(s.collector.Handler()))
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  seconds(s.cfg.ReadTimeout),
		WriteTimeout: seconds(s.cfg.WriteTimeout),
		IdleTimeout:  seconds(s.cfg.IdleTimeout),
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
