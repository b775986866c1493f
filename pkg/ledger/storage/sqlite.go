package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "modernc.org/sqlite"

	"genai-hq/inference/pkg/ledger"
)

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for concurrent readers.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/ledger.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements ledger.Store on SQLite through the pure-Go
// modernc.org/sqlite driver.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

var _ ledger.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database, applies pragmas and creates the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "ledger.storage.sqlite")

	db, err := sql.Open("sqlite", sqliteDSN(config))
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "open", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite ledger initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// sqliteDSN carries the connection pragmas in the DSN so the driver applies
// them to every pooled connection, not only the first one.
func sqliteDSN(config *SQLiteConfig) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", config.BusyTimeout.Milliseconds()))
	if config.WALMode {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return config.Path + "?" + q.Encode()
}

func (s *SQLiteStore) initialize() error {
	if err := s.db.Ping(); err != nil {
		return ledger.NewStorageError("sqlite", "open", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return ledger.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return ledger.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return ledger.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return ledger.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Save inserts rec.
func (s *SQLiteStore) Save(ctx context.Context, rec *ledger.Record) error {
	var attempts any
	if len(rec.Attempts) > 0 {
		b, err := json.Marshal(rec.Attempts)
		if err != nil {
			return ledger.NewStorageError("sqlite", "save", err)
		}
		attempts = string(b)
	}

	_, err := s.db.ExecContext(ctx, insertRecord,
		rec.ID, nullString(rec.RequestID), rec.Model, nullString(rec.Source), rec.Status,
		rec.TokensUsed, rec.LatencyMS, attempts, nullString(rec.Error),
		rec.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return ledger.NewStorageError("sqlite", "save", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations").Scan(&n); err != nil {
		return 0, ledger.NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*ledger.Record, error) {
	query := selectRecords
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var records []*ledger.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, ledger.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.NewStorageError("sqlite", "list", err)
	}

	return records, nil
}

// DeleteOlderThan removes records created before cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM generations WHERE created_at < ?", cutoff.UTC().UnixNano())
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "delete", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "delete", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return ledger.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite ledger closed")
	return nil
}

func scanRecord(rows *sql.Rows) (*ledger.Record, error) {
	var (
		rec                            ledger.Record
		requestID, source, attempts, e sql.NullString
		createdAt                      int64
	)

	if err := rows.Scan(
		&rec.ID, &requestID, &rec.Model, &source, &rec.Status,
		&rec.TokensUsed, &rec.LatencyMS, &attempts, &e, &createdAt,
	); err != nil {
		return nil, err
	}

	rec.RequestID = requestID.String
	rec.Source = source.String
	rec.Error = e.String
	rec.CreatedAt = time.Unix(0, createdAt).UTC()

	if attempts.Valid && attempts.String != "" {
		if err := json.Unmarshal([]byte(attempts.String), &rec.Attempts); err != nil {
			return nil, fmt.Errorf("decode attempts: %w", err)
		}
	}

	return &rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
