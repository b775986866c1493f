package backends

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_DoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json content type, got %q", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{})
	defer client.Close()

	var out map[string]string
	err := client.DoJSON(context.Background(), http.MethodPost, server.URL, map[string]string{"msg": "ping"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["echo"] != "ping" {
		t.Errorf("expected echo ping, got %q", out["echo"])
	}
}

func TestClient_DoJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model loading"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{})
	defer client.Close()

	err := client.DoJSON(context.Background(), http.MethodPost, server.URL, map[string]string{}, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T (%v)", err, err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "model loading" {
		t.Errorf("expected raw body to be kept, got %q", statusErr.Body)
	}
}

func TestClient_DoJSON_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{})
	defer client.Close()

	var out map[string]any
	err := client.DoJSON(context.Background(), http.MethodGet, server.URL, nil, &out)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if parseErr.RawResponse != "{not json" {
		t.Errorf("unexpected raw response %q", parseErr.RawResponse)
	}
}

func TestClient_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(ClientConfig{})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Get(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if kind := Classify(err); kind != KindTimeout {
		t.Errorf("expected kind %q, got %q", KindTimeout, kind)
	}
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "no content is not ok", status: http.StatusNoContent, wantStatus: true},
		{name: "server error", status: http.StatusInternalServerError, wantStatus: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(ClientConfig{})
			defer client.Close()

			err := client.Get(context.Background(), server.URL)
			var statusErr *StatusError
			if got := errors.As(err, &statusErr); got != tt.wantStatus {
				t.Fatalf("expected status error %v, got %v", tt.wantStatus, err)
			}
		})
	}
}

func TestClient_Close(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := NewClient(ClientConfig{})
	if err := client.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("unexpected error before close: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	if err := client.Get(context.Background(), server.URL); !errors.Is(err, ErrClientClosed) {
		t.Errorf("expected ErrClientClosed from Get, got %v", err)
	}
	if err := client.DoJSON(context.Background(), http.MethodPost, server.URL, nil, nil); !errors.Is(err, ErrClientClosed) {
		t.Errorf("expected ErrClientClosed from DoJSON, got %v", err)
	}
}
