package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-archive-app/internal/config"
	"github.com/vzahanych/weather-archive-app/pkg/logger"
	"github.com/vzahanych/weather-archive-app/pkg/metrics"
	"github.com/vzahanych/weather-archive-app/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        = logger.NewNop()
	tele       = telemetry.NewDisabled()
	collector  *metrics.Collector
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather-archive",
		Short: "Historical weather archive service",
		Long:  `An HTTP service that fetches historical daily weather from Open-Meteo and archives the raw responses in an object store bucket.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")
	cmd.AddCommand(serverCmd)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Set config
	config.SetConfig(cfg)

	// 3. Initialize logger
	configured, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = configured

	// 4. Telemetry is optional; fall back to a disabled tracer
	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele = telemetry.NewDisabled()
	}

	collector = metrics.NewCollector(cfg.Metrics.Namespace)

	return nil
}
