package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"genai-hq/inference/pkg/cli"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/ledger"
	"genai-hq/inference/pkg/ledger/retention"
	"genai-hq/inference/pkg/ledger/storage"
	"genai-hq/inference/pkg/server"
)

var (
	serveListen   string
	serveLogLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inference HTTP server",
	Long: `Start the HTTP server exposing POST /generate, GET /health, GET / and
GET /metrics.

The server runs until SIGINT or SIGTERM and then drains in-flight requests
within server.shutdown_timeout.

Examples:
  # Start with defaults and environment overrides
  inference serve

  # Start with a config file on a custom address
  inference serve --config config.yaml --listen 127.0.0.1:9000

  # Debug logging
  inference serve --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides server.listen_address)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if serveListen != "" {
			cfg.Server.ListenAddress = serveListen
		}
		if serveLogLevel != "" {
			cfg.Telemetry.Logging.Level = serveLogLevel
		}
	})
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			slog.Warn("shutdown cleanup failed", "error", err)
		}
	}()

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	opts := []server.Option{
		server.WithMetrics(a.metrics),
		server.WithVersion(Version),
	}

	if cfg.Ledger.Enabled {
		recorder, closeLedger, err := startLedger(ctx, cfg, a)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer closeLedger()
		opts = append(opts, server.WithLedger(recorder))
	}

	srv := server.NewServer(cfg, a.orchestrator, a.health, opts...)

	slog.Info("starting inference server",
		"listen_address", cfg.Server.ListenAddress,
		"version", Version,
		"ledger_enabled", cfg.Ledger.Enabled,
		"metrics_enabled", cfg.Telemetry.Metrics.Enabled,
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	slog.Info("inference server stopped")
	return nil
}

// startLedger opens the ledger store, starts the asynchronous recorder and,
// when retention is enabled, the prune scheduler. The returned func stops
// them in reverse order.
func startLedger(ctx context.Context, cfg *config.Config, a *app) (*ledger.Recorder, func(), error) {
	store, err := storage.Open(cfg.Ledger)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}

	recorder := ledger.NewRecorder(store, ledger.Config{BufferSize: cfg.Ledger.BufferSize},
		ledger.WithDropCounter(a.metrics),
	)

	var scheduler *retention.Scheduler
	if cfg.Ledger.Retention.Enabled {
		pruner := retention.NewPruner(store, retention.Config{
			RetentionDays: cfg.Ledger.Retention.Days,
			PruneSchedule: cfg.Ledger.Retention.Schedule,
		})
		scheduler = retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			recorder.Close()
			store.Close()
			return nil, nil, fmt.Errorf("start ledger retention: %w", err)
		}
	}

	slog.Info("generation ledger enabled",
		"backend", cfg.Ledger.Backend,
		"buffer_size", cfg.Ledger.BufferSize,
		"retention_enabled", cfg.Ledger.Retention.Enabled,
	)

	return recorder, func() {
		if scheduler != nil {
			scheduler.Stop()
		}
		recorder.Close()
		if err := store.Close(); err != nil {
			slog.Warn("failed to close ledger store", "error", err)
		}
	}, nil
}
