package ollama

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"genai-hq/inference/pkg/backends"
)

const (
	// DefaultName is the backend name used when Config.Name is empty.
	DefaultName = "ollama"

	// DefaultTimeout bounds a single generation call.
	DefaultTimeout = 30 * time.Second
)

// Config configures the Ollama adapter.
type Config struct {
	// Name is reported as Result.Source. Defaults to "ollama".
	Name string

	// BaseURL is the Ollama server root, e.g. "http://ollama-runner:11434".
	BaseURL string

	// Timeout bounds each Generate call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client is the primary backend adapter. It talks to a local Ollama server
// through the shared backends.Client.
type Client struct {
	name    string
	baseURL string
	timeout time.Duration
	http    *backends.Client
}

// New creates an Ollama adapter.
func New(client *backends.Client, cfg Config) (*Client, error) {
	if client == nil {
		return nil, errors.New("ollama: http client is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("ollama: base URL is required")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    client,
	}, nil
}

// Name returns the backend name.
func (c *Client) Name() string {
	return c.name
}

// Generate sends a non-streaming generation request. Every failure is
// returned as a *backends.BackendError.
func (c *Client) Generate(ctx context.Context, req backends.Request) (*backends.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	var resp generateResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/api/generate", toGenerateRequest(req), &resp)
	if err != nil {
		slog.Debug("ollama generate failed",
			"backend", c.name,
			"model", req.Model,
			"error", err,
		)
		return nil, backends.NewBackendError(c.name, err)
	}

	return &backends.Result{
		Text:       resp.Response,
		Model:      req.Model,
		TokensUsed: resp.tokensUsed(),
		LatencyMS:  float64(time.Since(start).Microseconds()) / 1000,
		Source:     c.name,
	}, nil
}

// Probe reports whether the server answers GET /api/tags with 200.
func (c *Client) Probe(ctx context.Context) error {
	return c.http.Get(ctx, c.baseURL+"/api/tags")
}
