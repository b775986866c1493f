package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"genai-hq/inference/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useInMemoryTracer installs a recording tracer and restores the previous
// global provider on cleanup.
func useInMemoryTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	origTP := otel.GetTracerProvider()
	origProp := otel.GetTextMapPropagator()

	exp := tracetest.NewInMemoryExporter()
	cfg := &config.TracingConfig{Enabled: true, Sampler: SamplerAlways, ServiceName: "test"}
	tracer, err := NewWithExporter(cfg, "test", exp)
	if err != nil {
		t.Fatalf("failed to create tracer: %v", err)
	}

	t.Cleanup(func() {
		_ = tracer.Shutdown(context.Background())
		otel.SetTracerProvider(origTP)
		otel.SetTextMapPropagator(origProp)
	})
	return exp
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "disabled", cfg: &config.TracingConfig{Enabled: false}},
		{
			name:        "enabled without exporter",
			cfg:         &config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: 0.5, Exporter: "none"},
			wantEnabled: true,
		},
		{
			name:    "unknown exporter",
			cfg:     &config.TracingConfig{Enabled: true, Exporter: "zipkin"},
			wantErr: true,
		},
		{
			name:    "bad sampler",
			cfg:     &config.TracingConfig{Enabled: true, Sampler: "sometimes", Exporter: "none"},
			wantErr: true,
		},
	}

	origTP := otel.GetTracerProvider()
	origProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(origTP)
		otel.SetTextMapPropagator(origProp)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.cfg, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestStart_RecordsSpan(t *testing.T) {
	exp := useInMemoryTracer(t)

	ctx, span := Start(context.Background(), "orchestrator.generate")
	SetBackendAttributes(span, "ollama", "llama3")
	if TraceID(ctx) == "" {
		t.Error("expected a trace ID in the span context")
	}
	SetError(span, errors.New("boom"), "status")
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "orchestrator.generate" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}

	found := false
	for _, attr := range spans[0].Attributes {
		if string(attr.Key) == AttrBackend && attr.Value.AsString() == "ollama" {
			found = true
		}
	}
	if !found {
		t.Error("expected backend attribute on span")
	}
}

func TestTraceID_Empty(t *testing.T) {
	if id := TraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace ID, got %q", id)
	}
}

func TestHTTPMiddleware_PropagatesTraceparent(t *testing.T) {
	useInMemoryTracer(t)

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	var innerTraceID string
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		innerTraceID = TraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if innerTraceID != traceID {
		t.Errorf("expected handler to see trace %s, got %q", traceID, innerTraceID)
	}
	if got := rec.Header().Get("X-Trace-ID"); got != traceID {
		t.Errorf("expected X-Trace-ID %s, got %q", traceID, got)
	}
}

func TestInject(t *testing.T) {
	useInMemoryTracer(t)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx, span := Start(context.Background(), "outbound")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)

	if headers.Get("traceparent") == "" {
		t.Error("expected traceparent header to be injected")
	}
}
