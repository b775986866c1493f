// Package metrics provides Prometheus metrics for the inference router.
//
// # Metrics
//
// With the default "inference" namespace:
//
//	inference_requests_total{source,status}
//	inference_request_duration_seconds{status}
//	inference_tokens_generated_total{source,model}
//	inference_backend_attempts_total{backend,result,error_kind}
//	inference_backend_attempt_duration_seconds{backend}
//	inference_backend_health{backend}
//	inference_ledger_dropped_total
//
// The Go runtime and process collectors are registered alongside.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	orch, _ := orchestrator.New(orchCfg, orchestrator.WithObserver(collector))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Collector implements orchestrator.Observer, so every backend attempt is
// counted without the orchestrator knowing about Prometheus.
//
// # Cardinality
//
// Model names come from callers. Once the limiter has seen 1,000 distinct
// (source, model) pairs, new models are recorded as "other".
package metrics
