package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store persists ledger records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save persists a record.
	Save(ctx context.Context, rec *Record) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// List returns up to limit records, newest first. A limit <= 0 returns
	// every record.
	List(ctx context.Context, limit int) ([]*Record, error)

	// DeleteOlderThan removes records created before cutoff and returns how
	// many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources held by the store.
	Close() error
}

// ErrRecorderClosed is returned by Recorder.Record after Close.
var ErrRecorderClosed = errors.New("ledger recorder closed")

// StorageError reports a failed store operation.
type StorageError struct {
	Backend   string // "sqlite" or "memory"
	Operation string // "save", "list", "delete", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
