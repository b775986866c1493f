package ledger

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/orchestrator"
)

// Record statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// maxErrorLength bounds stored error text.
const maxErrorLength = 500

// Record is the ledger entry for one generation request.
type Record struct {
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // X-Request-ID of the HTTP request, if any

	Model      string  `json:"model"`  // requested model
	Source     string  `json:"source"` // backend that served the request, empty on failure
	Status     string  `json:"status"` // "success" or "failure"
	TokensUsed int     `json:"tokens_used"`
	LatencyMS  float64 `json:"latency_ms"`

	// Attempts lists the failed backend attempts of a request that ended
	// with no result.
	Attempts []AttemptRecord `json:"attempts,omitempty"`

	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AttemptRecord is one failed backend attempt.
type AttemptRecord struct {
	Backend string `json:"backend"`
	Kind    string `json:"kind"` // backends.Classify of the cause
	Error   string `json:"error"`
}

// NewRecord builds a record from the outcome of Orchestrator.Generate.
// Exactly one of res and err is expected to be non-nil.
func NewRecord(requestID string, req backends.Request, res *backends.Result, err error) *Record {
	rec := &Record{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Model:     req.Model,
		CreatedAt: time.Now().UTC(),
	}

	if err == nil && res != nil {
		rec.Status = StatusSuccess
		rec.Source = res.Source
		rec.TokensUsed = res.TokensUsed
		rec.LatencyMS = res.LatencyMS
		return rec
	}

	rec.Status = StatusFailure
	if err != nil {
		rec.Error = truncate(err.Error(), maxErrorLength)
	}

	var allFailed *orchestrator.AllBackendsFailedError
	if errors.As(err, &allFailed) {
		rec.Attempts = make([]AttemptRecord, 0, len(allFailed.Attempts))
		for _, a := range allFailed.Attempts {
			rec.Attempts = append(rec.Attempts, AttemptRecord{
				Backend: a.Backend,
				Kind:    backends.Classify(a.Cause),
				Error:   truncate(causeText(a.Cause), maxErrorLength),
			})
		}
	}

	return rec
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
