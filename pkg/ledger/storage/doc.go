// Package storage provides ledger.Store implementations.
//
//   - SQLite: durable, single-node. Uses the pure-Go modernc.org/sqlite
//     driver with WAL mode, a busy timeout and a schema_version table.
//   - Memory: process-local, for tests and ephemeral deployments.
//
// Open selects one from configuration:
//
//	store, err := storage.Open(cfg.Ledger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
