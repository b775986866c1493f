// Package tracing provides OpenTelemetry tracing for the inference router.
//
// # Spans
//
// A generation produces one "orchestrator.generate" span with a child
// "orchestrator.attempt" span per backend tried. Health checks produce one
// "health.check" span with a child per probe. Attributes use the
// "inference.*" namespace (backend, model, attempt, source, tokens_used).
//
// # Trace Context Propagation
//
// HTTPMiddleware extracts W3C Trace Context from incoming requests:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// and outbound backend calls carry it forward via Inject.
//
// # Sampling Strategies
//
//   - always: Sample all traces
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace ID
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracing.Start(ctx, "orchestrator.generate")
//	defer span.End()
//
// With tracing disabled Start returns no-op spans from the default global
// provider.
package tracing
