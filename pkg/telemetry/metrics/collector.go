package metrics

import (
	"sync"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/orchestrator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultMaxCardinality bounds the distinct (source, model) pairs recorded
// before new models are folded into "other".
const DefaultMaxCardinality = 1000

// defaultDurationBuckets cover a fast local fallback (~100ms) up to a slow
// model load (~30s).
var defaultDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

// Collector owns the Prometheus registry and every router metric. A disabled
// collector accepts all calls and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics *RequestMetrics
	backendMetrics *BackendMetrics
	ledgerDropped  prometheus.Counter

	cardinalityLimiter *CardinalityLimiter
}

var _ orchestrator.Observer = (*Collector)(nil)

// NewCollector creates a collector. If registry is nil a fresh registry is
// created; the Go runtime and process collectors are registered on it.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = defaultDurationBuckets
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(DefaultMaxCardinality),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.backendMetrics = NewBackendMetrics(cfg, registry)
	c.ledgerDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "ledger_dropped_total",
		Help:      "Total number of ledger records dropped because the buffer was full",
	})
	registry.MustRegister(c.ledgerDropped)

	return c
}

// RecordRequest records a finished /generate request.
//
// Example:
//
//	collector.RecordRequest("ollama", "llama3", metrics.StatusSuccess, 850*time.Millisecond, 42)
func (c *Collector) RecordRequest(source, model, status string, duration time.Duration, tokens int) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(source + ":" + model) {
		model = "other"
	}

	c.requestMetrics.RecordRequest(source, model, status, duration, tokens)
}

// AttemptFinished implements orchestrator.Observer.
func (c *Collector) AttemptFinished(backend string, outcome orchestrator.Outcome, elapsed time.Duration) {
	if !c.config.Enabled {
		return
	}

	if outcome.OK() {
		c.backendMetrics.RecordAttempt(backend, ResultSuccess, "", elapsed)
		return
	}
	kind := backends.KindOther
	if outcome.Err != nil {
		kind = backends.Classify(outcome.Err)
	}
	c.backendMetrics.RecordAttempt(backend, ResultFailure, kind, elapsed)
}

// UpdateBackendHealth records the result of a backend probe.
func (c *Collector) UpdateBackendHealth(backend string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.backendMetrics.UpdateHealth(backend, healthy)
}

// RecordLedgerDropped counts a ledger record lost to a full buffer.
func (c *Collector) RecordLedgerDropped() {
	if !c.config.Enabled {
		return
	}

	c.ledgerDropped.Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label sets recorded.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter that admits at most maxCardinality
// distinct label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already known or there is still room
// for it.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	_, exists := cl.current[labelSet]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the number of admitted label sets.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
