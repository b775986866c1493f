package backends

import "strings"

// Request defaults applied by WithDefaults.
const (
	DefaultMaxTokens   = 100
	DefaultTemperature = 0.7
)

// Request is a provider-agnostic generation request.
// Adapters receive it by value and must not modify it.
type Request struct {
	// Prompt is the input text. It must not be empty.
	Prompt string `json:"prompt"`

	// Model is the model identifier passed to the backend (e.g., "llama3").
	Model string `json:"model"`

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens"`

	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature"`

	// Stream is accepted for API compatibility. Adapters always request a
	// complete, non-incremental response.
	Stream bool `json:"stream"`
}

// NewRequest builds a validated request with the package defaults applied.
func NewRequest(prompt, model string) (Request, error) {
	req := Request{
		Prompt:      prompt,
		Temperature: DefaultTemperature,
	}.WithDefaults(model)
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// WithDefaults returns a copy of r with zero-valued optional fields set.
// defaultModel is used when r.Model is empty.
func (r Request) WithDefaults(defaultModel string) Request {
	if r.Model == "" {
		r.Model = defaultModel
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if r.Model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	if r.MaxTokens <= 0 {
		return &ValidationError{Field: "max_tokens", Message: "max_tokens must be positive"}
	}
	if r.Temperature < 0 {
		return &ValidationError{Field: "temperature", Message: "temperature must not be negative"}
	}
	return nil
}

// Result is the normalized outcome of a successful generation call.
// It is created once per call and never mutated afterwards.
type Result struct {
	// Text is the generated text.
	Text string `json:"text"`

	// Model is the model identifier that actually served the request.
	Model string `json:"model"`

	// TokensUsed is the number of generated tokens.
	TokensUsed int `json:"tokens_used"`

	// LatencyMS is the wall time of the serving call in milliseconds.
	LatencyMS float64 `json:"latency_ms"`

	// Source is the name of the backend that produced Text.
	Source string `json:"source"`
}
