package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the ledger tables. created_at is Unix nanoseconds (UTC)
// so that range deletes compare integers.
const Schema = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    request_id TEXT,
    model TEXT NOT NULL,
    source TEXT,
    status TEXT NOT NULL,
    tokens_used INTEGER NOT NULL DEFAULT 0,
    latency_ms REAL NOT NULL DEFAULT 0,
    attempts TEXT,
    error TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
CREATE INDEX IF NOT EXISTS idx_generations_request_id ON generations(request_id);
CREATE INDEX IF NOT EXISTS idx_generations_source ON generations(source);
`

// InsertSchemaVersion records the schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion returns the newest applied schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO generations (
    id, request_id, model, source, status, tokens_used, latency_ms, attempts, error, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectRecords = `
SELECT id, request_id, model, source, status, tokens_used, latency_ms, attempts, error, created_at
FROM generations
ORDER BY created_at DESC
`
