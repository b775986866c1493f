// Package bedrock implements the fallback backend adapter.
//
// The adapter is a placeholder for a managed cloud model: it makes no network
// call, waits a bounded simulated latency and returns a deterministic echo of
// the prompt. It never panics out to the caller and has no liveness probe, so
// it does not appear in health reports.
package bedrock

import (
	"context"
	"fmt"
	"time"

	"genai-hq/inference/pkg/backends"
)

const (
	// DefaultName is the backend name used when Config.Name is empty.
	DefaultName = "bedrock"

	// DefaultModel is reported as Result.Model when Config.Model is empty.
	DefaultModel = "bedrock-claude"

	// DefaultLatency is the simulated service latency.
	DefaultLatency = 100 * time.Millisecond

	responsePrefix = "[BEDROCK FALLBACK] Response to: "
)

// Config configures the fallback adapter.
type Config struct {
	Name    string
	Model   string
	Latency time.Duration
}

// Client is the fallback backend adapter.
type Client struct {
	name    string
	model   string
	latency time.Duration
}

// New creates a fallback adapter. A negative latency disables the wait.
func New(cfg Config) *Client {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Latency == 0 {
		cfg.Latency = DefaultLatency
	}
	if cfg.Latency < 0 {
		cfg.Latency = 0
	}
	return &Client{name: cfg.Name, model: cfg.Model, latency: cfg.Latency}
}

// Name returns the backend name.
func (c *Client) Name() string {
	return c.name
}

// Generate waits the simulated latency and echoes the prompt. It returns a
// *backends.BackendError only when ctx ends first.
func (c *Client) Generate(ctx context.Context, req backends.Request) (res *backends.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = backends.NewBackendError(c.name, &backends.PanicError{Value: r})
		}
	}()

	start := time.Now()

	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, backends.NewBackendError(c.name, ctx.Err())
		case <-timer.C:
		}
	}

	text := responsePrefix + req.Prompt
	return &backends.Result{
		Text:       text,
		Model:      c.model,
		TokensUsed: backends.CountTokens(text),
		LatencyMS:  float64(time.Since(start).Microseconds()) / 1000,
		Source:     c.name,
	}, nil
}

// String describes the adapter for logs.
func (c *Client) String() string {
	return fmt.Sprintf("bedrock(name=%s, model=%s, latency=%s)", c.name, c.model, c.latency)
}
