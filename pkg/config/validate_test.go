package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantFields []string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:       "empty listen address",
			modify:     func(c *Config) { c.Server.ListenAddress = "" },
			wantFields: []string{"server.listen_address"},
		},
		{
			name:       "negative request timeout",
			modify:     func(c *Config) { c.Server.RequestTimeout = -1 },
			wantFields: []string{"server.request_timeout"},
		},
		{
			name:       "no backends",
			modify:     func(c *Config) { c.Backends = nil },
			wantFields: []string{"backends"},
		},
		{
			name: "duplicate names",
			modify: func(c *Config) {
				c.Backends[1].Name = c.Backends[0].Name
			},
			wantFields: []string{"backends[1].name"},
		},
		{
			name:       "unknown type",
			modify:     func(c *Config) { c.Backends[1].Type = "vertex" },
			wantFields: []string{"backends[1].type"},
		},
		{
			name:       "relative ollama url",
			modify:     func(c *Config) { c.Backends[0].BaseURL = "/api" },
			wantFields: []string{"backends[0].base_url"},
		},
		{
			name:       "primary disabled",
			modify:     func(c *Config) { c.Backends[0].Disabled = true },
			wantFields: []string{"backends[0].disabled"},
		},
		{
			name:       "fallback disabled is fine",
			modify:     func(c *Config) { c.Backends[1].Disabled = true },
			wantFields: nil,
		},
		{
			name:       "bad log level",
			modify:     func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			wantFields: []string{"telemetry.logging.level"},
		},
		{
			name: "ledger with bad backend",
			modify: func(c *Config) {
				c.Ledger.Enabled = true
				c.Ledger.Backend = "postgres"
			},
			wantFields: []string{"ledger.backend"},
		},
		{
			name: "ledger retention with bad cron",
			modify: func(c *Config) {
				c.Ledger.Enabled = true
				c.Ledger.Retention.Enabled = true
				c.Ledger.Retention.Schedule = "every day"
			},
			wantFields: []string{"ledger.retention.schedule"},
		},
		{
			name: "disabled ledger is not checked",
			modify: func(c *Config) {
				c.Ledger.Backend = "postgres"
			},
		},
		{
			name: "errors aggregate",
			modify: func(c *Config) {
				c.Server.ListenAddress = ""
				c.Generation.DefaultModel = ""
				c.Telemetry.Logging.Format = "xml"
			},
			wantFields: []string{"server.listen_address", "generation.default_model", "telemetry.logging.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Errors) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.wantFields), len(verr.Errors), verr.Errors)
			}
			for i, field := range tt.wantFields {
				if verr.Errors[i].Field != field {
					t.Errorf("error %d: expected field %q, got %q", i, field, verr.Errors[i].Field)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if single.Error() != "configuration validation failed: a: bad" {
		t.Errorf("unexpected single message %q", single.Error())
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	msg := multi.Error()
	if !strings.Contains(msg, "2 errors") || !strings.Contains(msg, "  - b: worse") {
		t.Errorf("unexpected multi message %q", msg)
	}
}
