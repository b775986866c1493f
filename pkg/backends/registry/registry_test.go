package registry

import (
	"errors"
	"testing"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/backends/bedrock"
	"genai-hq/inference/pkg/backends/ollama"
	"genai-hq/inference/pkg/config"
)

func TestBuild_Defaults(t *testing.T) {
	client := backends.NewClient(backends.ClientConfig{})
	defer client.Close()

	entries, err := Build(client, config.DefaultBackends())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if _, ok := entries[0].Backend.(*ollama.Client); !ok {
		t.Errorf("expected ollama adapter first, got %T", entries[0].Backend)
	}
	if _, ok := entries[1].Backend.(*bedrock.Client); !ok {
		t.Errorf("expected bedrock adapter second, got %T", entries[1].Backend)
	}
	for i, e := range entries {
		if e.Backend.Name() != e.Config.Name {
			t.Errorf("entry %d: adapter name %q does not match config %q", i, e.Backend.Name(), e.Config.Name)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	client := backends.NewClient(backends.ClientConfig{})
	defer client.Close()

	tests := []struct {
		name      string
		cfg       config.BackendConfig
		wantField string
	}{
		{
			name:      "unknown type",
			cfg:       config.BackendConfig{Name: "x", Type: "vertex"},
			wantField: "type",
		},
		{
			name:      "ollama without url",
			cfg:       config.BackendConfig{Name: "o", Type: config.BackendTypeOllama},
			wantField: "base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(client, []config.BackendConfig{tt.cfg})

			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, cerr.Field)
			}
		})
	}
}
