package ollama

import "genai-hq/inference/pkg/backends"

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

// generateResponse is the subset of the non-streaming /api/generate response
// that the adapter reads.
type generateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	EvalCount int    `json:"eval_count"`
}

func toGenerateRequest(req backends.Request) generateRequest {
	return generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  req.MaxTokens,
			Temperature: req.Temperature,
		},
	}
}

// tokensUsed prefers the server-reported eval count and falls back to a
// whitespace word count of the generated text.
func (r generateResponse) tokensUsed() int {
	if r.EvalCount > 0 {
		return r.EvalCount
	}
	return backends.CountTokens(r.Response)
}
