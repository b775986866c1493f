package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"genai-hq/inference/pkg/ledger"
	"genai-hq/inference/pkg/ledger/storage"
)

func seed(t *testing.T, store ledger.Store, ages ...time.Duration) {
	t.Helper()
	for i, age := range ages {
		rec := &ledger.Record{
			ID:        string(rune('a' + i)),
			Model:     "llama3",
			Status:    ledger.StatusSuccess,
			CreatedAt: time.Now().Add(-age),
		}
		if err := store.Save(context.Background(), rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
}

func TestPruner_Prune(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name        string
		days        int
		wantDeleted int64
		wantLeft    int64
	}{
		{name: "30 day retention", days: 30, wantDeleted: 2, wantLeft: 2},
		{name: "7 day retention", days: 7, wantDeleted: 3, wantLeft: 1},
		{name: "zero keeps everything", days: 0, wantDeleted: 0, wantLeft: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			seed(t, store, time.Hour, 10*day, 40*day, 90*day)

			deleted, err := NewPruner(store, Config{RetentionDays: tt.days}).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}
			if n, _ := store.Count(context.Background()); n != tt.wantLeft {
				t.Errorf("remaining = %d, want %d", n, tt.wantLeft)
			}
		})
	}
}

type failingDeleter struct{}

func (failingDeleter) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, errors.New("database is locked")
}

func TestPruner_StoreError(t *testing.T) {
	_, err := NewPruner(failingDeleter{}, Config{RetentionDays: 1}).Prune(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPruner_UsesClock(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, 0)

	p := NewPruner(store, Config{RetentionDays: 1})
	p.now = func() time.Time { return time.Now().Add(72 * time.Hour) }

	deleted, err := p.Prune(context.Background())
	if err != nil || deleted != 1 {
		t.Errorf("Prune() = %d, %v; want 1, nil", deleted, err)
	}
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "valid daily schedule", schedule: "0 3 * * *", wantRunning: true},
		{name: "valid hourly schedule", schedule: "0 * * * *", wantRunning: true},
		{name: "empty schedule", schedule: "", wantRunning: false},
		{name: "invalid schedule", schedule: "invalid cron", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruner := NewPruner(storage.NewMemoryStore(), Config{RetentionDays: 30, PruneSchedule: tt.schedule})
			scheduler := NewScheduler(pruner)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			defer scheduler.Stop()

			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := scheduler.NextRun()
				if next == nil || !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	scheduler := NewScheduler(NewPruner(storage.NewMemoryStore(), Config{RetentionDays: 1, PruneSchedule: "0 3 * * *"}))

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancel")
	}
}

func TestScheduler_StopIdempotent(t *testing.T) {
	scheduler := NewScheduler(NewPruner(storage.NewMemoryStore(), Config{PruneSchedule: "0 3 * * *"}))
	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	scheduler.Stop()
	scheduler.Stop()

	if scheduler.IsRunning() {
		t.Error("scheduler should be stopped")
	}
}
