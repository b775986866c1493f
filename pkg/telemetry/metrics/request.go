package metrics

import (
	"time"

	"genai-hq/inference/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Request status label values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

// RequestMetrics tracks end-to-end generation requests.
//
// Metrics:
//   - inference_requests_total: requests by serving source and status
//   - inference_request_duration_seconds: end-to-end latency by status
//   - inference_tokens_generated_total: tokens reported by backends
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokensTotal     *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of generation requests handled",
			},
			[]string{"source", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end duration of generation requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"status"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_generated_total",
				Help:      "Total number of tokens reported by backends",
			},
			[]string{"source", "model"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.tokensTotal,
	)

	return rm
}

// RecordRequest records one finished request. source is empty for requests
// that no backend served.
func (rm *RequestMetrics) RecordRequest(source, model, status string, duration time.Duration, tokens int) {
	if source == "" {
		source = "none"
	}
	rm.requestsTotal.WithLabelValues(source, status).Inc()
	rm.requestDuration.WithLabelValues(status).Observe(duration.Seconds())

	if tokens > 0 {
		rm.tokensTotal.WithLabelValues(source, model).Add(float64(tokens))
	}
}
