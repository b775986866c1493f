package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"genai-hq/inference/pkg/proxy/types"
)

// WriteJSONResponse writes data as a JSON body with statusCode.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes {"detail": detail} with statusCode.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, detail string) error {
	return WriteJSONResponse(w, statusCode, types.NewErrorResponse(detail))
}

// WriteError maps err with HandleError and writes the result.
func WriteError(w http.ResponseWriter, err error) error {
	status, resp := HandleError(err)
	return WriteJSONResponse(w, status, resp)
}
