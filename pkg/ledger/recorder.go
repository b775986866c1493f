package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder defaults.
const (
	DefaultBufferSize   = 1000
	DefaultWriteTimeout = 5 * time.Second
)

// DropCounter is notified when a record is dropped because the buffer is
// full. *metrics.Collector implements it.
type DropCounter interface {
	RecordLedgerDropped()
}

// Config contains configuration for the recorder.
type Config struct {
	// BufferSize is the capacity of the async record queue.
	// Default: 1000
	BufferSize int

	// WriteTimeout bounds a single store write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithDropCounter reports dropped records to dc.
func WithDropCounter(dc DropCounter) Option {
	return func(r *Recorder) {
		r.drops = dc
	}
}

// WithLogger sets the recorder's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Recorder writes records to a Store from a background goroutine so that
// request handling never waits on storage. When the queue is full, records
// are dropped rather than blocking the caller.
type Recorder struct {
	store  Store
	config Config
	drops  DropCounter
	logger *slog.Logger

	recordCh chan *Record
	done     chan struct{}
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewRecorder creates a recorder and starts its writer goroutine. Call
// Close to drain the queue and stop it.
func NewRecorder(store Store, cfg Config, opts ...Option) *Recorder {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	r := &Recorder{
		store:    store,
		config:   cfg,
		logger:   slog.Default().With("component", "ledger.recorder"),
		recordCh: make(chan *Record, cfg.BufferSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("ledger recorder initialized",
		"buffer_size", cfg.BufferSize,
		"write_timeout", cfg.WriteTimeout,
	)

	return r
}

// Record enqueues rec for writing. It never blocks. A full queue drops the
// record and returns nil; a closed recorder returns ErrRecorderClosed.
func (r *Recorder) Record(rec *Record) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrRecorderClosed
	}

	select {
	case r.recordCh <- rec:
	default:
		r.logger.Warn("ledger buffer full, dropping record",
			"record_id", rec.ID,
			"request_id", rec.RequestID,
			"buffer_size", r.config.BufferSize,
		)
		if r.drops != nil {
			r.drops.RecordLedgerDropped()
		}
	}
	return nil
}

// Close stops accepting records, writes everything still queued and waits
// for the writer to exit. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.done)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Info("ledger recorder stopped")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.recordCh:
			r.write(rec)

		case <-r.done:
			for {
				select {
				case rec := <-r.recordCh:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.store.Save(ctx, rec); err != nil {
		r.logger.Error("failed to store ledger record",
			"record_id", rec.ID,
			"request_id", rec.RequestID,
			"error", err,
		)
		return
	}

	if d := time.Since(start); d > r.config.WriteTimeout/2 {
		r.logger.Warn("slow ledger write",
			"record_id", rec.ID,
			"duration_ms", d.Milliseconds(),
		)
	}
}
