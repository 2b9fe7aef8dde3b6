// Package history persists a journal of capture runs in SQLite so prior
// captures can be inspected from the CLI. History is advisory: failures
// here never fail a capture.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses recorded in the journal.
const (
	StatusCaptured = "captured"
	StatusRefused  = "refused"
	StatusAborted  = "aborted"
	StatusFailed   = "failed"
)

// Run is one capture-run record.
type Run struct {
	ID         string
	ScraperID  string
	URL        string
	Languages  []string
	Entries    int
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store manages capture-run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS capture_runs (
    id          TEXT PRIMARY KEY,
    scraper_id  TEXT NOT NULL,
    url         TEXT NOT NULL,
    languages   TEXT NOT NULL DEFAULT '',
    entries     INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_capture_runs_started ON capture_runs(started_at DESC);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts one run record. A missing ID is assigned.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO capture_runs (id, scraper_id, url, languages, entries, status, error, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.ScraperID,
		run.URL,
		strings.Join(run.Languages, ","),
		run.Entries,
		run.Status,
		run.Error,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record capture run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, scraper_id, url, languages, entries, status, error, started_at, finished_at
FROM capture_runs
ORDER BY started_at DESC, id
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list capture runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			languages string
			started   string
			finished  string
		)
		if err := rows.Scan(&run.ID, &run.ScraperID, &run.URL, &languages, &run.Entries,
			&run.Status, &run.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan capture run: %w", err)
		}
		if languages != "" {
			run.Languages = strings.Split(languages, ",")
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate capture runs: %w", err)
	}
	return runs, nil
}
