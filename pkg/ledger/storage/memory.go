package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"genai-hq/inference/pkg/ledger"
)

// MemoryStore implements ledger.Store in process memory. Records are lost on
// restart.
type MemoryStore struct {
	records map[string]*ledger.Record
	mu      sync.RWMutex
}

var _ ledger.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*ledger.Record),
	}
}

// Save stores a copy of rec.
func (s *MemoryStore) Save(ctx context.Context, rec *ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	cp.Attempts = slices.Clone(rec.Attempts)
	s.records[rec.ID] = &cp
	return nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// List returns up to limit records, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*ledger.Record, error) {
	s.mu.RLock()
	results := make([]*ledger.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		results = append(results, &cp)
	}
	s.mu.RUnlock()

	slices.SortFunc(results, func(a, b *ledger.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteOlderThan removes records created before cutoff.
func (s *MemoryStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, rec := range s.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
