package handlers

import (
	"log/slog"
	"net/http"

	"genai-hq/inference/pkg/proxy"
	"genai-hq/inference/pkg/proxy/types"
)

// ServiceName is reported by GET /.
const ServiceName = "GenAI Inference API"

// RootHandler serves GET / with the service name, version and endpoint
// paths. Any other path under / is a 404.
type RootHandler struct {
	info types.ServiceInfo
}

// NewRootHandler creates the / handler. metricsPath is omitted from the
// endpoint list when empty.
func NewRootHandler(version, metricsPath string) *RootHandler {
	endpoints := map[string]string{
		"generate": "/generate",
		"health":   "/health",
	}
	if metricsPath != "" {
		endpoints["metrics"] = metricsPath
	}

	return &RootHandler{
		info: types.ServiceInfo{
			Service:   ServiceName,
			Version:   version,
			Endpoints: endpoints,
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		if err := proxy.WriteErrorResponse(w, http.StatusNotFound, "Not Found"); err != nil {
			slog.ErrorContext(r.Context(), "failed to write error response", "error", err)
		}
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, h.info); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}
