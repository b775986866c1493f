package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/backends/registry"
	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/ledger"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(buf.String(), "GenAI Inference API "+Version+"\n") {
		t.Errorf("unexpected version output %q", buf.String())
	}
}

func TestUnhealthy(t *testing.T) {
	got := unhealthy(map[string]string{
		"ollama":  "unhealthy: connection refused",
		"bedrock": "healthy",
		"backup":  "unhealthy: timeout",
	})
	want := []string{"backup", "ollama"}
	if !slices.Equal(got, want) {
		t.Errorf("unhealthy() = %v, want %v", got, want)
	}

	if got := unhealthy(map[string]string{"ollama": "healthy"}); len(got) != 0 {
		t.Errorf("unhealthy() = %v, want none", got)
	}
}

func TestWriteRecords(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeRecords(&buf, nil); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "No records\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("table", func(t *testing.T) {
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		records := []*ledger.Record{
			{RequestID: "req-1", Model: "llama3", Source: "ollama", Status: ledger.StatusSuccess, TokensUsed: 3, LatencyMS: 12.5, CreatedAt: created},
			{RequestID: "req-2", Model: "llama3", Status: ledger.StatusFailure, CreatedAt: created},
		}

		var buf bytes.Buffer
		if err := writeRecords(&buf, records); err != nil {
			t.Fatal(err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "CREATED") {
			t.Errorf("missing header: %q", lines[0])
		}
		for _, want := range []string{"2026-01-02T03:04:05Z", "req-1", "ollama", "success", "12.5"} {
			if !strings.Contains(lines[1], want) {
				t.Errorf("row %q missing %q", lines[1], want)
			}
		}
		if !strings.Contains(lines[2], " - ") || !strings.Contains(lines[2], "failure") {
			t.Errorf("failure row %q should show '-' source", lines[2])
		}
	})
}

func TestOrchestratorConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RequestTimeout = 7 * time.Second
	cfg.Backends[1].Disabled = true

	client := backends.NewClient(backends.ClientConfig{})
	defer client.Close()

	built, err := registry.Build(client, cfg.Backends)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got := orchestratorConfig(cfg, built)

	if got.Deadline != 7*time.Second {
		t.Errorf("Deadline = %v, want request timeout 7s", got.Deadline)
	}
	if got.FallbackEnabled != cfg.Generation.FallbackEnabled {
		t.Errorf("FallbackEnabled = %v", got.FallbackEnabled)
	}
	if len(got.Entries) != len(cfg.Backends) {
		t.Fatalf("got %d entries, want %d", len(got.Entries), len(cfg.Backends))
	}
	for i, e := range got.Entries {
		if e.Backend.Name() != cfg.Backends[i].Name {
			t.Errorf("entry %d = %q, want %q", i, e.Backend.Name(), cfg.Backends[i].Name)
		}
		if e.Timeout != cfg.Backends[i].Timeout {
			t.Errorf("entry %d timeout = %v, want %v", i, e.Timeout, cfg.Backends[i].Timeout)
		}
	}
	if !got.Entries[0].Enabled || got.Entries[1].Enabled {
		t.Errorf("enabled flags = %v, %v; want true, false", got.Entries[0].Enabled, got.Entries[1].Enabled)
	}
}
