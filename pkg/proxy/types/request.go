package types

// GenerateRequest is the body of POST /generate. Optional numeric fields are
// pointers so an omitted field can be told apart from an explicit zero.
type GenerateRequest struct {
	// Prompt is the input text (required).
	Prompt *string `json:"prompt"`

	// Model defaults to the configured default model.
	Model string `json:"model,omitempty"`

	// MaxTokens defaults to the configured default (100).
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature defaults to the configured default (0.7).
	Temperature *float64 `json:"temperature,omitempty"`

	// Stream is accepted and has no effect.
	Stream bool `json:"stream,omitempty"`
}
