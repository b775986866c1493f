package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/ledger"
)

// Open builds the store selected by cfg.Backend. For sqlite the parent
// directory of the database file is created if needed.
func Open(cfg config.LedgerConfig) (ledger.Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite":
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, ledger.NewStorageError("sqlite", "mkdir", err)
			}
		}
		return NewSQLiteStore(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})

	default:
		return nil, fmt.Errorf("unsupported ledger backend %q", cfg.Backend)
	}
}
