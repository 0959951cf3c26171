package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cleave/internal/services"
)

const journalFileName = "journal.db"

// Store records execution runs and per-segment attempts in SQLite so
// repeated executions against the same output directory stay auditable.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded execution of a plan.
type Run struct {
	ID            string
	SourcePath    string
	StartedAt     time.Time
	FinishedAt    time.Time
	TotalSegments int
	Succeeded     int
	Failed        int
	Status        string
}

// Attempt is one segment cut outcome within a run.
type Attempt struct {
	SegmentIndex int
	OutputPath   string
	StartSec     float64
	DurationSec  float64
	SizeBytes    int64
	Success      bool
	Error        string
	AttemptedAt  time.Time
}

// Open initializes or connects to the journal database under dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, journalFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "journal", "open", dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, services.Wrap(services.ErrStorage, "journal", "apply pragma", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			total_segments INTEGER NOT NULL,
			succeeded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'running'
		)`,
		`CREATE TABLE IF NOT EXISTS segment_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			segment_index INTEGER NOT NULL,
			output_path TEXT NOT NULL,
			start_seconds REAL NOT NULL,
			duration_seconds REAL NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL,
			error TEXT,
			attempted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_segment_attempts_run ON segment_attempts(run_id)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return services.Wrap(services.ErrStorage, "journal", "init schema", "", err)
		}
	}
	return nil
}

// BeginRun records the start of an execution.
func (s *Store) BeginRun(ctx context.Context, runID, sourcePath string, totalSegments int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_path, started_at, total_segments) VALUES (?, ?, ?, ?)`,
		runID, sourcePath, time.Now().UTC().Format(time.RFC3339), totalSegments)
	if err != nil {
		return services.Wrap(services.ErrStorage, "journal", "begin run", runID, err)
	}
	return nil
}

// RecordAttempt stores one segment outcome.
func (s *Store) RecordAttempt(ctx context.Context, runID string, attempt Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO segment_attempts
			(run_id, segment_index, output_path, start_seconds, duration_seconds, size_bytes, success, error, attempted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, attempt.SegmentIndex, attempt.OutputPath, attempt.StartSec, attempt.DurationSec,
		attempt.SizeBytes, boolToInt(attempt.Success), attempt.Error,
		attempt.AttemptedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return services.Wrap(services.ErrStorage, "journal", "record attempt", runID, err)
	}
	return nil
}

// FinishRun closes out a run with its final tallies.
func (s *Store) FinishRun(ctx context.Context, runID string, succeeded, failed int, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, succeeded = ?, failed = ?, status = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), succeeded, failed, status, runID)
	if err != nil {
		return services.Wrap(services.ErrStorage, "journal", "finish run", runID, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, started_at, COALESCE(finished_at, ''), total_segments, succeeded, failed, status
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "journal", "list runs", "", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.SourcePath, &started, &finished,
			&run.TotalSegments, &run.Succeeded, &run.Failed, &run.Status); err != nil {
			return nil, services.Wrap(services.ErrStorage, "journal", "scan run", "", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "journal", "list runs", "", err)
	}
	return runs, nil
}

// Attempts returns the segment outcomes of one run in segment order.
func (s *Store) Attempts(ctx context.Context, runID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT segment_index, output_path, start_seconds, duration_seconds, size_bytes, success, COALESCE(error, ''), attempted_at
		 FROM segment_attempts WHERE run_id = ? ORDER BY segment_index`, runID)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "journal", "list attempts", runID, err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var attempt Attempt
		var success int
		var attemptedAt string
		if err := rows.Scan(&attempt.SegmentIndex, &attempt.OutputPath, &attempt.StartSec,
			&attempt.DurationSec, &attempt.SizeBytes, &success, &attempt.Error, &attemptedAt); err != nil {
			return nil, services.Wrap(services.ErrStorage, "journal", "scan attempt", runID, err)
		}
		attempt.Success = success != 0
		attempt.AttemptedAt = parseTimestamp(attemptedAt)
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "journal", "list attempts", runID, err)
	}
	return attempts, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
