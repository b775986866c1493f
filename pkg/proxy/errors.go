package proxy

import (
	"context"
	"errors"
	"net/http"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/orchestrator"
	"genai-hq/inference/pkg/proxy/types"
)

// HandleError maps an error to an HTTP status and body.
//
//   - *RequestError, *backends.ValidationError: 400 with the validation message
//   - *orchestrator.AllBackendsFailedError: 500 enumerating every attempt
//   - context.DeadlineExceeded: 504
//   - anything else: 500 with a generic message
func HandleError(err error) (int, *types.ErrorResponse) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, types.NewErrorResponse(reqErr.Message)
	}

	var valErr *backends.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, types.NewErrorResponse(valErr.Message)
	}

	var allFailed *orchestrator.AllBackendsFailedError
	if errors.As(err, &allFailed) {
		return http.StatusInternalServerError, types.NewErrorResponse(allFailed.Detail())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, types.NewErrorResponse("Request timeout: the request took too long to complete")
	}

	return http.StatusInternalServerError, types.NewErrorResponse("An internal error occurred. Please try again later.")
}
