package types

import "genai-hq/inference/pkg/backends"

// GenerateResponse is the 200 body of POST /generate.
type GenerateResponse struct {
	Text       string  `json:"text"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokens_used"`
	LatencyMS  float64 `json:"latency_ms"`
	Source     string  `json:"source"`
}

// NewGenerateResponse copies a backend result into its wire form.
func NewGenerateResponse(res *backends.Result) *GenerateResponse {
	return &GenerateResponse{
		Text:       res.Text,
		Model:      res.Model,
		TokensUsed: res.TokensUsed,
		LatencyMS:  res.LatencyMS,
		Source:     res.Source,
	}
}

// ServiceInfo is the body of GET /.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
