package types

// ErrorResponse is the body of every non-2xx response:
//
//	{"detail": "prompt is required"}
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewErrorResponse creates an error body.
func NewErrorResponse(detail string) *ErrorResponse {
	return &ErrorResponse{Detail: detail}
}
