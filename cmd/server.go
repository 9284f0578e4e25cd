package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-archive-app/internal/archive"
	"github.com/vzahanych/weather-archive-app/internal/config"
	"github.com/vzahanych/weather-archive-app/internal/server"
	"github.com/vzahanych/weather-archive-app/internal/service"
	"github.com/vzahanych/weather-archive-app/internal/storage"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the weather archive server",
	Long:  `Start the HTTP server that stores, lists and serves archived historical weather data.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	ctx := cmd.Context()

	log.Info("Starting weather archive server",
		zap.String("config_path", configPath),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	weather := service.NewOpenMeteoServiceWithConfig(cfg.Weather, log.Logger, tele)
	weather.SetMetricsRecorder(collector)

	backend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Error("Failed to initialize storage", zap.Error(err))
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	store := storage.NewInstrumentedStore(backend, log.Logger, tele, collector)

	archiver := archive.NewArchiver(weather, store, log.Logger, tele)
	srv := server.NewServer(cfg.Server, archiver, collector, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		cleanup()
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			cleanup()
			return err
		}

		log.Info("Server shutdown complete")
		cleanup()
		return nil
	}
}

func cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tele.Shutdown(ctx); err != nil {
		log.Warn("Failed to shut down telemetry", zap.Error(err))
	}
	_ = log.Sync()
}
