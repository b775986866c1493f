package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"genai-hq/inference/pkg/telemetry/tracing"
)

// maxErrorBody bounds how much of a non-2xx body is kept in a StatusError.
const maxErrorBody = 4096

// ClientConfig configures the shared outbound connection pool.
type ClientConfig struct {
	// MaxIdleConns is the maximum number of idle connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection is kept in the pool.
	IdleConnTimeout time.Duration
}

// Client is the outbound HTTP client shared by every network adapter.
// It is created once at startup and closed once at shutdown. Client is safe
// for concurrent use.
//
// Client has no overall timeout. Callers bound each call with the context.
type Client struct {
	http   *http.Client
	closed atomic.Bool
}

// NewClient creates a pooled client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		http: &http.Client{Transport: transport},
	}
}

// Do sends req and returns the response for any status. The caller must close
// the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.http.Do(req)
}

// Get issues a GET request and discards the body. Any non-200 status is
// returned as a *StatusError.
func (c *Client) Get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	tracing.Inject(ctx, req.Header)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// DoJSON marshals body (when non-nil), sends it and decodes a 2xx response
// into out (when non-nil). Non-2xx statuses are returned as *StatusError and
// undecodable bodies as *ParseError.
func (c *Client) DoJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	tracing.Inject(ctx, req.Header)

	slog.Debug("sending backend request", "method", method, "url", url)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{RawResponse: string(raw), Cause: err}
	}
	return nil
}

// Close releases idle connections. Every later call fails with
// ErrClientClosed. Close is idempotent.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.http.CloseIdleConnections()
	slog.Debug("backend client closed")
	return nil
}
