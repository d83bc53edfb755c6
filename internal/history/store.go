// Package history persists checker runs to a local SQLite database so past
// results can be listed, compared and pruned.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/logging"
	"github.com/checkmateLL/dxf-checker/internal/report"
)

// Run is one recorded checker run.
type Run struct {
	ID           string
	Input        string
	StartedAt    time.Time
	Duration     time.Duration
	EntityCount  int
	TotalDefects int
	WarningCount int
	Checks       []CheckRecord
}

// CheckRecord is one check outcome within a recorded run.
type CheckRecord struct {
	Kind        checks.Kind
	DefectCount int
	Duration    time.Duration
	Failure     string
}

// Store keeps one row per checker run in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating the file, its parent
// directory and the schema as needed. Foreign keys are enabled through the
// DSN so cascade deletes hold on every pooled connection.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one finished run and its per-check outcomes atomically.
func (s *Store) Record(trace *report.RunTrace) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = sq.Insert("runs").
		Columns(
			"run_id", "input_path", "started_at",
			"duration_ms", "entity_count", "total_defects", "warning_count",
		).
		Values(
			trace.RunID, trace.Input, trace.StartedAt.UTC().Format(time.RFC3339),
			trace.Duration.Milliseconds(), trace.EntityCount, trace.TotalDefects, trace.WarningCount(),
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("insert run %s: %w", trace.RunID, err)
	}

	for i, c := range trace.Checks {
		_, err := sq.Insert("run_checks").
			Columns("run_id", "check_kind", "position", "defect_count", "duration_ms", "failure").
			Values(trace.RunID, string(c.Kind), i, c.Defects, c.Duration.Milliseconds(), c.Failure).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("insert run check %s/%s: %w", trace.RunID, c.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logging.L().Debug("run recorded", "run_id", trace.RunID, "defects", trace.TotalDefects)
	return nil
}

// Recent returns up to limit runs, newest first, each with its check
// outcomes in the order they ran. A non-positive limit defaults to 10.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := sq.Select(
		"run_id", "input_path", "started_at",
		"duration_ms", "entity_count", "total_defects", "warning_count",
	).
		From("runs").
		OrderBy("started_at DESC", "run_id").
		Limit(uint64(limit)).
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.Input, &startedAt, &durationMS, &r.EntityCount, &r.TotalDefects, &r.WarningCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", startedAt, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	for i := range runs {
		recs, err := s.checksFor(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Checks = recs
	}
	return runs, nil
}

// checksFor loads the check outcomes of one run in run order.
func (s *Store) checksFor(runID string) ([]CheckRecord, error) {
	rows, err := sq.Select("check_kind", "defect_count", "duration_ms", "failure").
		From("run_checks").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query checks for run %s: %w", runID, err)
	}
	defer rows.Close()

	var recs []CheckRecord
	for rows.Next() {
		var (
			rec        CheckRecord
			kind       string
			durationMS int64
		)
		if err := rows.Scan(&kind, &rec.DefectCount, &durationMS, &rec.Failure); err != nil {
			return nil, fmt.Errorf("failed to scan check for run %s: %w", runID, err)
		}
		rec.Kind = checks.Kind(kind)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Prune deletes runs that started more than olderThan ago and returns how
// many were removed. Check rows go with their run via cascade.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC().Format(time.RFC3339)
	res, err := sq.Delete("runs").
		Where(sq.Lt{"started_at": cutoff}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	logging.L().Debug("history pruned", "removed", n, "cutoff", cutoff)
	return n, nil
}

// PruneAll empties the store and returns how many runs were removed.
func (s *Store) PruneAll() (int64, error) {
	res, err := sq.Delete("runs").RunWith(s.db).Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared runs: %w", err)
	}
	return n, nil
}

// DefaultPath is the history database location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dxf-checker", "history.db"), nil
}
