package metrics

import (
	"time"

	"genai-hq/inference/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// BackendMetrics tracks individual backend calls and probe results.
//
// Metrics:
//   - inference_backend_attempts_total: attempts by backend, result and error kind
//   - inference_backend_attempt_duration_seconds: attempt latency by backend
//   - inference_backend_health: last probe result (1=healthy, 0=unhealthy)
type BackendMetrics struct {
	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	health          *prometheus.GaugeVec
}

// NewBackendMetrics creates and registers backend metrics with registry.
func NewBackendMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *BackendMetrics {
	bm := &BackendMetrics{
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_attempts_total",
				Help:      "Total number of backend generation attempts",
			},
			[]string{"backend", "result", "error_kind"},
		),

		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_attempt_duration_seconds",
				Help:      "Duration of backend generation attempts in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"backend"},
		),

		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_health",
				Help:      "Result of the last backend probe (1=healthy, 0=unhealthy)",
			},
			[]string{"backend"},
		),
	}

	registry.MustRegister(
		bm.attemptsTotal,
		bm.attemptDuration,
		bm.health,
	)

	return bm
}

// RecordAttempt records one backend call. errorKind is empty on success.
func (bm *BackendMetrics) RecordAttempt(backend, result, errorKind string, elapsed time.Duration) {
	bm.attemptsTotal.WithLabelValues(backend, result, errorKind).Inc()
	bm.attemptDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// UpdateHealth sets the health gauge for backend.
func (bm *BackendMetrics) UpdateHealth(backend string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	bm.health.WithLabelValues(backend).Set(value)
}
