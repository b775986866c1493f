package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/backends/registry"
	"genai-hq/inference/pkg/cli"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/health"
	"genai-hq/inference/pkg/orchestrator"
	"genai-hq/inference/pkg/telemetry/logging"
	"genai-hq/inference/pkg/telemetry/metrics"
	"genai-hq/inference/pkg/telemetry/tracing"
)

// tracerShutdownTimeout bounds the final span flush.
const tracerShutdownTimeout = 5 * time.Second

// app holds the components shared by serve, generate and health.
type app struct {
	cfg          *config.Config
	client       *backends.Client
	orchestrator *orchestrator.Orchestrator
	health       *health.Aggregator
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
}

// loadConfig loads --config with environment overrides, lets override
// adjust the result (flags) and validates it once more.
func loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", "failed to load config", err)
	}

	if override != nil {
		override(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("", "invalid flag override", err)
		}
	}

	return cfg, nil
}

// newApp wires logging, tracing, metrics, the shared HTTP client, the
// backends, the orchestrator and the health aggregator. The caller must call
// close.
func newApp(cfg *config.Config) (*app, error) {
	if _, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging)); err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error(), err)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error(), err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	client := backends.NewClient(backends.ClientConfig{
		MaxIdleConns:        cfg.HTTPClient.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.HTTPClient.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.HTTPClient.IdleConnTimeout,
	})

	a := &app{cfg: cfg, client: client, metrics: collector, tracer: tracer}

	built, err := registry.Build(client, cfg.Backends)
	if err != nil {
		a.close()
		return nil, cli.NewConfigError("backends", err.Error(), err)
	}

	orchCfg := orchestratorConfig(cfg, built)
	a.orchestrator, err = orchestrator.New(orchCfg, orchestrator.WithObserver(collector))
	if err != nil {
		a.close()
		return nil, cli.NewConfigError("backends", err.Error(), err)
	}

	a.health = health.NewFromBackends(a.orchestrator.Backends(), cfg.Health.ProbeTimeout,
		health.WithRecorder(collector),
	)

	slog.Info("inference router initialized",
		"version", Version,
		"backends", len(orchCfg.Entries),
		"deadline", orchCfg.Deadline,
		"fallback_enabled", cfg.Generation.FallbackEnabled,
		"default_model", cfg.Generation.DefaultModel,
		"tracing_enabled", tracer.Enabled(),
	)

	return a, nil
}

// orchestratorConfig orders the built backends and bounds a whole generation
// by server.request_timeout, so CLI runs share the server's limit.
func orchestratorConfig(cfg *config.Config, built []registry.Entry) orchestrator.Config {
	entries := make([]orchestrator.Entry, 0, len(built))
	for _, e := range built {
		entries = append(entries, orchestrator.Entry{
			Backend: e.Backend,
			Enabled: e.Config.Enabled(),
			Timeout: e.Config.Timeout,
		})
	}
	return orchestrator.Config{
		Entries:         entries,
		FallbackEnabled: cfg.Generation.FallbackEnabled,
		Deadline:        cfg.Server.RequestTimeout,
	}
}

// close releases the shared client and flushes spans.
func (a *app) close() error {
	var errs []error
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close http client: %w", err))
		}
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}
	return errors.Join(errs...)
}
