package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/ledger"
	"genai-hq/inference/pkg/proxy"
	"genai-hq/inference/pkg/proxy/middleware"
	"genai-hq/inference/pkg/proxy/types"
	"genai-hq/inference/pkg/telemetry/logging"
	"genai-hq/inference/pkg/telemetry/metrics"
)

// GenerateHandler serves POST /generate.
type GenerateHandler struct {
	generator    Generator
	defaults     config.GenerationConfig
	maxBodyBytes int64
	metrics      RequestRecorder
	ledger       LedgerRecorder
}

// GenerateOption configures a GenerateHandler.
type GenerateOption func(*GenerateHandler)

// WithRequestRecorder records every request's outcome in m.
func WithRequestRecorder(m RequestRecorder) GenerateOption {
	return func(h *GenerateHandler) {
		h.metrics = m
	}
}

// WithLedger sends a ledger record for every request that reached the
// orchestrator.
func WithLedger(l LedgerRecorder) GenerateOption {
	return func(h *GenerateHandler) {
		h.ledger = l
	}
}

// WithMaxBodyBytes limits the request body size. Zero or negative means
// proxy.DefaultMaxRequestBodySize.
func WithMaxBodyBytes(n int64) GenerateOption {
	return func(h *GenerateHandler) {
		h.maxBodyBytes = n
	}
}

// NewGenerateHandler creates the /generate handler. defaults fills fields
// omitted from the request body.
func NewGenerateHandler(g Generator, defaults config.GenerationConfig, opts ...GenerateOption) *GenerateHandler {
	h := &GenerateHandler{
		generator: g,
		defaults:  defaults,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	ctx := r.Context()
	start := time.Now()

	req, err := proxy.ParseGenerateRequest(r, h.defaults, h.maxBodyBytes)
	if err != nil {
		slog.WarnContext(ctx, "invalid generate request", "error", err)
		h.recordMetrics("", h.defaults.DefaultModel, metrics.StatusInvalid, time.Since(start), 0)
		h.writeError(w, r, err)
		return
	}

	ctx = logging.WithModel(ctx, req.Model)
	slog.DebugContext(ctx, "processing generate request",
		"max_tokens", req.MaxTokens,
		"temperature", req.Temperature,
		"prompt_chars", len(req.Prompt),
	)

	res, err := h.generator.Generate(ctx, req)
	h.recordLedger(r, req, res, err)

	if err != nil {
		slog.ErrorContext(ctx, "generation failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		h.recordMetrics("", req.Model, metrics.StatusFailed, time.Since(start), 0)
		h.writeError(w, r, err)
		return
	}

	slog.InfoContext(ctx, "generation successful",
		"source", res.Source,
		"tokens_used", res.TokensUsed,
		"backend_latency_ms", res.LatencyMS,
		"total_latency_ms", time.Since(start).Milliseconds(),
	)
	h.recordMetrics(res.Source, res.Model, metrics.StatusSuccess, time.Since(start), res.TokensUsed)

	if err := proxy.WriteJSONResponse(w, http.StatusOK, types.NewGenerateResponse(res)); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func (h *GenerateHandler) recordMetrics(source, model, status string, d time.Duration, tokens int) {
	if h.metrics != nil {
		h.metrics.RecordRequest(source, model, status, d, tokens)
	}
}

func (h *GenerateHandler) recordLedger(r *http.Request, req backends.Request, res *backends.Result, err error) {
	if h.ledger == nil {
		return
	}

	rec := ledger.NewRecord(middleware.GetRequestID(r.Context()), req, res, err)
	if lerr := h.ledger.Record(rec); lerr != nil && !errors.Is(lerr, ledger.ErrRecorderClosed) {
		slog.WarnContext(r.Context(), "failed to record ledger entry", "error", lerr)
	}
}

func (h *GenerateHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if werr := proxy.WriteError(w, err); werr != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	if err := proxy.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method Not Allowed"); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", "error", err)
	}
}
