// Package logging configures log/slog for the inference router.
//
// # Usage
//
//	logger, err := logging.Setup(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithRequestID(ctx, "4f1c...")
//	slog.InfoContext(ctx, "request completed", "status", 200)
//
// Records logged with a context carry request_id, backend, model and
// trace_id when present, so handlers and the orchestrator do not repeat them.
//
// # PII Redaction
//
// With RedactPII enabled every string field passes through a Redactor:
//
//   - API keys: sk-abc123xyz → sk-***
//   - Emails: user@example.com → ***@example.com
//   - Bearer tokens: Bearer eyJhb... → Bearer ***
//   - Fields named like secrets (token, password, authorization) keep only a
//     four-character prefix
package logging
