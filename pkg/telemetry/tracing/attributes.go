package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on inference spans.
const (
	AttrBackend   = "inference.backend"
	AttrModel     = "inference.model"
	AttrRequestID = "inference.request_id"
	AttrAttempt   = "inference.attempt"
	AttrSource    = "inference.source"
	AttrTokens    = "inference.tokens_used"
	AttrFallback  = "inference.fallback_enabled"
	AttrOutcome   = "inference.outcome"
	AttrErrorKind = "inference.error.kind"
	AttrHealth    = "inference.health"
)

// SetBackendAttributes sets backend and model attributes on a span.
func SetBackendAttributes(span trace.Span, backend, model string) {
	span.SetAttributes(
		attribute.String(AttrBackend, backend),
		attribute.String(AttrModel, model),
	)
}

// SetResultAttributes records which backend served a request and how many
// tokens it produced.
func SetResultAttributes(span trace.Span, source string, tokens int) {
	span.SetAttributes(
		attribute.String(AttrSource, source),
		attribute.Int(AttrTokens, tokens),
	)
}

// SetRequestID sets the request ID attribute when id is not empty.
func SetRequestID(span trace.Span, id string) {
	if id != "" {
		span.SetAttributes(attribute.String(AttrRequestID, id))
	}
}
