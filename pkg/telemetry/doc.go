// Package telemetry groups the observability packages of the inference router.
//
// # Components
//
//   - logging: log/slog setup, request-scoped attributes and PII redaction
//   - metrics: Prometheus request, attempt, health and ledger metrics
//   - tracing: OpenTelemetry spans with optional OTLP/gRPC export
//
// Backend liveness is reported by package health, which publishes every
// probe result to the metrics collector.
//
// # Usage
//
//	logger, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging))
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(ctx)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("ollama", "llama3", metrics.StatusSuccess, time.Second, 42)
package telemetry
