package handlers

import (
	"context"
	"time"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/health"
	"genai-hq/inference/pkg/ledger"
)

// Generator produces text for a request. *orchestrator.Orchestrator
// implements it.
type Generator interface {
	Generate(ctx context.Context, req backends.Request) (*backends.Result, error)
}

// HealthReporter reports backend liveness. *health.Aggregator implements it.
type HealthReporter interface {
	Report(ctx context.Context) health.Report
}

// RequestRecorder records finished generation requests.
// *metrics.Collector implements it.
type RequestRecorder interface {
	RecordRequest(source, model, status string, duration time.Duration, tokens int)
}

// LedgerRecorder accepts ledger records. *ledger.Recorder implements it.
type LedgerRecorder interface {
	Record(rec *ledger.Record) error
}
