package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Entry is one backend in priority order.
type Entry struct {
	Backend backends.Backend

	// Enabled gates fallback entries. The first entry is always attempted.
	Enabled bool

	// Timeout bounds a single call to Backend. Zero means no extra bound.
	Timeout time.Duration
}

// Config is the immutable orchestrator configuration.
type Config struct {
	// Entries lists the backends, primary first.
	Entries []Entry

	// FallbackEnabled allows entries after the first to be attempted.
	FallbackEnabled bool

	// Deadline bounds a whole Generate call across all attempts. Zero means
	// only the caller's context applies.
	Deadline time.Duration
}

// Outcome is the result of a single attempt: exactly one of Result and Err
// is set.
type Outcome struct {
	Result *backends.Result
	Err    *backends.BackendError
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// Observer is notified after every attempt.
type Observer interface {
	AttemptFinished(backend string, outcome Outcome, elapsed time.Duration)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers an attempt observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator runs generation requests against backends in priority order
// with fallthrough on failure. It is safe for concurrent use; it holds no
// per-request state.
type Orchestrator struct {
	entries  []Entry
	fallback bool
	deadline time.Duration
	observer Observer
	logger   *slog.Logger
}

// New creates an orchestrator. It rejects an empty backend list, nil
// backends and duplicate names.
func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	if len(cfg.Entries) == 0 {
		return nil, errors.New("orchestrator: at least one backend is required")
	}

	seen := make(map[string]bool, len(cfg.Entries))
	for i, e := range cfg.Entries {
		if e.Backend == nil {
			return nil, fmt.Errorf("orchestrator: backend %d is nil", i)
		}
		name := e.Backend.Name()
		if seen[name] {
			return nil, fmt.Errorf("orchestrator: duplicate backend name %q", name)
		}
		seen[name] = true
	}

	o := &Orchestrator{
		entries:  append([]Entry(nil), cfg.Entries...),
		fallback: cfg.FallbackEnabled,
		deadline: cfg.Deadline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Backends returns the configured backends in priority order.
func (o *Orchestrator) Backends() []backends.Backend {
	out := make([]backends.Backend, len(o.entries))
	for i, e := range o.entries {
		out[i] = e.Backend
	}
	return out
}

// FallbackEnabled reports whether fallback backends may be attempted.
func (o *Orchestrator) FallbackEnabled() bool {
	return o.fallback
}

// Generate returns the first successful result in priority order. The
// primary is always attempted; later backends only when fallback is enabled
// and the backend is enabled. Attempts never overlap. If every attempt fails,
// or ctx ends after a failure, the error is an *AllBackendsFailedError
// listing each attempt in order.
func (o *Orchestrator) Generate(ctx context.Context, req backends.Request) (*backends.Result, error) {
	if o.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.deadline)
		defer cancel()
	}

	ctx, span := tracing.Start(ctx, "orchestrator.generate",
		trace.WithAttributes(
			attribute.String(tracing.AttrModel, req.Model),
			attribute.Bool(tracing.AttrFallback, o.fallback),
		),
	)
	defer span.End()

	var attempts []Attempt

	for i, entry := range o.entries {
		name := entry.Backend.Name()

		if i > 0 {
			if !o.fallback {
				break
			}
			if !entry.Enabled {
				o.logger.Debug("skipping disabled fallback backend", "backend", name)
				continue
			}
			if ctx.Err() != nil {
				o.logger.Info("request ended, not falling back",
					"backend", name,
					"error", ctx.Err(),
				)
				break
			}
			o.logger.Info("falling back to next backend",
				"backend", name,
				"previous", attempts[len(attempts)-1].Backend,
			)
		}

		start := time.Now()
		outcome := o.attempt(ctx, i, entry, req)
		elapsed := time.Since(start)

		if o.observer != nil {
			o.observer.AttemptFinished(name, outcome, elapsed)
		}

		if outcome.OK() {
			tracing.SetResultAttributes(span, outcome.Result.Source, outcome.Result.TokensUsed)
			tracing.SetOK(span)
			return outcome.Result, nil
		}

		o.logger.Warn("backend attempt failed",
			"backend", name,
			"model", req.Model,
			"attempt", i+1,
			"duration", elapsed,
			"error", outcome.Err.Cause,
		)
		attempts = append(attempts, Attempt{Backend: name, Cause: outcome.Err.Cause})
	}

	err := &AllBackendsFailedError{Attempts: attempts, FallbackEnabled: o.fallback}
	tracing.SetError(span, err, "all_failed")
	return nil, err
}

// attempt makes one bounded call and turns whatever the adapter did into an
// Outcome. A panic, a nil result or a result claiming another source all
// become failures.
func (o *Orchestrator) attempt(ctx context.Context, index int, entry Entry, req backends.Request) Outcome {
	name := entry.Backend.Name()

	if entry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, entry.Timeout)
		defer cancel()
	}

	ctx, span := tracing.Start(ctx, "orchestrator.attempt",
		trace.WithAttributes(attribute.Int(tracing.AttrAttempt, index+1)),
	)
	defer span.End()
	tracing.SetBackendAttributes(span, name, req.Model)

	res, err := safeGenerate(ctx, entry.Backend, req)
	switch {
	case err != nil:
		// keep the adapter's cause, whatever wrapper it used
	case res == nil:
		err = errors.New("backend returned no result")
	case res.Source != name:
		err = fmt.Errorf("result source %q does not match backend %q", res.Source, name)
	}

	if err != nil {
		be := backends.NewBackendError(name, err)
		tracing.SetError(span, be, backends.Classify(be))
		return Outcome{Err: be}
	}

	tracing.SetResultAttributes(span, res.Source, res.TokensUsed)
	tracing.SetOK(span)
	return Outcome{Result: res}
}

func safeGenerate(ctx context.Context, b backends.Backend, req backends.Request) (res *backends.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &backends.PanicError{Value: r}
		}
	}()
	return b.Generate(ctx, req)
}
