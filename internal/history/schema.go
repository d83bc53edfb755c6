package history

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates the run-history tables and indexes if they are
// missing. All statements run in one transaction so a half-created schema
// never persists.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"run_checks", createRunChecksTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range schemaIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Table DDL constants

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,                  -- UUID assigned when the run starts
    input_path TEXT NOT NULL,
    started_at TEXT NOT NULL,                 -- ISO 8601 UTC
    duration_ms INTEGER NOT NULL,
    entity_count INTEGER NOT NULL,
    total_defects INTEGER NOT NULL,
    warning_count INTEGER NOT NULL DEFAULT 0  -- extraction warnings
)
`

const createRunChecksTable = `
CREATE TABLE IF NOT EXISTS run_checks (
    run_id TEXT NOT NULL,
    check_kind TEXT NOT NULL,                 -- too_long, duplicate_vertices, ...
    position INTEGER NOT NULL DEFAULT 0,      -- order the check ran within the run
    defect_count INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    failure TEXT NOT NULL DEFAULT '',         -- non-empty when the check crashed
    PRIMARY KEY (run_id, check_kind),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)",
	"CREATE INDEX IF NOT EXISTS idx_runs_input_path ON runs(input_path)",
}
