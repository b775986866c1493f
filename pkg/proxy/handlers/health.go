package handlers

import (
	"log/slog"
	"net/http"

	"genai-hq/inference/pkg/proxy"
)

// HealthHandler serves GET /health. The response is always 200: backend
// failures appear in the services map, not in the status code.
type HealthHandler struct {
	reporter HealthReporter
}

// NewHealthHandler creates the /health handler.
func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	report := h.reporter.Report(r.Context())

	if err := proxy.WriteJSONResponse(w, http.StatusOK, report); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}
