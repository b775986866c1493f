package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/proxy/types"
)

// DefaultMaxRequestBodySize is used when no body limit is configured (1MB).
const DefaultMaxRequestBodySize = 1 << 20

// RequestError is a request that could not be parsed or failed validation.
type RequestError struct {
	Message string
	Param   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ParseGenerateRequest decodes a /generate body and applies the configured
// defaults. maxBytes <= 0 means DefaultMaxRequestBodySize.
//
// Example usage:
//
//	req, err := ParseGenerateRequest(r, cfg.Generation, cfg.Server.MaxBodyBytes)
//	if err != nil {
//	    // 400
//	}
func ParseGenerateRequest(r *http.Request, defaults config.GenerationConfig, maxBytes int64) (backends.Request, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBodySize
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return backends.Request{}, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return backends.Request{}, &RequestError{
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
			Param:   "body",
		}
	}

	var wire types.GenerateRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		return backends.Request{}, &RequestError{
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Param:   "body",
		}
	}

	req := toBackendRequest(wire, defaults)
	if err := req.Validate(); err != nil {
		var valErr *backends.ValidationError
		if errors.As(err, &valErr) {
			return backends.Request{}, &RequestError{Message: valErr.Message, Param: valErr.Field}
		}
		return backends.Request{}, err
	}

	return req, nil
}

func toBackendRequest(wire types.GenerateRequest, defaults config.GenerationConfig) backends.Request {
	req := backends.Request{
		Model:       wire.Model,
		MaxTokens:   defaults.DefaultMaxTokens,
		Temperature: defaults.DefaultTemperature,
		Stream:      wire.Stream,
	}
	if wire.Prompt != nil {
		req.Prompt = *wire.Prompt
	}
	if req.Model == "" {
		req.Model = defaults.DefaultModel
	}
	if wire.MaxTokens != nil {
		req.MaxTokens = *wire.MaxTokens
	}
	if wire.Temperature != nil {
		req.Temperature = *wire.Temperature
	}
	return req
}
