package health

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Status values reported per backend and for the router itself.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// DefaultProbeTimeout bounds each probe when no timeout is configured.
const DefaultProbeTimeout = 5 * time.Second

// ErrCheckTimeout is reported for a probe that did not return before its
// deadline.
var ErrCheckTimeout = errors.New("health check timeout")

// CheckFunc probes one component. It returns nil when the component is
// healthy.
type CheckFunc func(ctx context.Context) error

// Recorder receives every probe result. The metrics collector implements it.
type Recorder interface {
	UpdateBackendHealth(backend string, healthy bool)
}

// Report is the body of GET /health.
type Report struct {
	// Status is always "healthy": the router answers whether or not its
	// backends do.
	Status string `json:"status"`

	// Timestamp is when the report was produced, in Unix seconds.
	Timestamp float64 `json:"timestamp"`

	// Services maps backend name to "healthy" or "unhealthy: <detail>".
	Services map[string]string `json:"services"`
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithRecorder publishes every probe result to r.
func WithRecorder(r Recorder) Option {
	return func(a *Aggregator) {
		a.recorder = r
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// Aggregator probes backends independently and reports their status.
// Results are recomputed on every call.
type Aggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	probeTimeout time.Duration
	recorder     Recorder
	logger       *slog.Logger
}

// New creates an aggregator. A zero probeTimeout means DefaultProbeTimeout.
func New(probeTimeout time.Duration, opts ...Option) *Aggregator {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}

	a := &Aggregator{
		checks:       make(map[string]CheckFunc),
		probeTimeout: probeTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromBackends creates an aggregator with a check for every backend that
// implements backends.Prober. Backends without a probe are not reported.
func NewFromBackends(bs []backends.Backend, probeTimeout time.Duration, opts ...Option) *Aggregator {
	a := New(probeTimeout, opts...)
	for _, b := range bs {
		if p, ok := b.(backends.Prober); ok {
			a.RegisterCheck(b.Name(), p.Probe)
		}
	}
	return a
}

// RegisterCheck adds or replaces the check for name.
func (a *Aggregator) RegisterCheck(name string, check CheckFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.checks[name] = check
}

// Names returns the registered check names in sorted order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.checks))
	for name := range a.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs every probe concurrently and returns name -> status. It never
// fails: a probe error becomes "unhealthy: <error>". One slow probe does not
// delay the others past its own deadline.
func (a *Aggregator) Check(ctx context.Context) map[string]string {
	a.mu.RLock()
	checks := make(map[string]CheckFunc, len(a.checks))
	for name, check := range a.checks {
		checks[name] = check
	}
	a.mu.RUnlock()

	ctx, span := tracing.Start(ctx, "health.check")
	defer span.End()

	results := make(map[string]string, len(checks))
	var mu sync.Mutex

	// Goroutines always return nil; probe failures are data.
	var g errgroup.Group
	for name, check := range checks {
		name, check := name, check
		g.Go(func() error {
			status := a.runCheck(ctx, name, check)

			mu.Lock()
			results[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Report runs Check and wraps the result.
func (a *Aggregator) Report(ctx context.Context) Report {
	services := a.Check(ctx)
	return Report{
		Status:    StatusHealthy,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Services:  services,
	}
}

// runCheck executes one probe with its own deadline. A probe that ignores
// its context is abandoned when the deadline passes; its goroutine exits
// whenever the probe eventually returns.
func (a *Aggregator) runCheck(ctx context.Context, name string, check CheckFunc) string {
	checkCtx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()

	checkCtx, span := tracing.Start(checkCtx, "health.probe",
		trace.WithAttributes(attribute.String(tracing.AttrBackend, name)),
	)
	defer span.End()

	start := time.Now()
	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- &backends.PanicError{Value: r}
			}
		}()
		errCh <- check(checkCtx)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-checkCtx.Done():
		err = ErrCheckTimeout
	}

	healthy := err == nil
	if a.recorder != nil {
		a.recorder.UpdateBackendHealth(name, healthy)
	}
	span.SetAttributes(attribute.Bool(tracing.AttrHealth, healthy))

	if healthy {
		tracing.SetOK(span)
		return StatusHealthy
	}

	tracing.SetError(span, err, backends.Classify(err))
	a.logger.Warn("backend probe failed",
		"backend", name,
		"duration", time.Since(start),
		"error", err,
	)
	return StatusUnhealthy + ": " + err.Error()
}
