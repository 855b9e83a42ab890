package ingest

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users delete the tracking database to adopt the new schema.
const schemaVersion = 1

// listJobsLimit bounds how many jobs ListJobs returns.
const listJobsLimit = 100

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Job is one tracked import job.
type Job struct {
	JobID       string
	JobName     string
	SourceKey   string
	ImportKey   string
	Status      string
	Message     string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Store persists import job records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the job tracking database inside
// stateDir.
func OpenStore(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, "jobs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordJob inserts a freshly submitted job.
func (s *Store) RecordJob(ctx context.Context, job Job) error {
	now := time.Now().UTC()
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = now
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_jobs (job_id, job_name, source_key, import_key, status, message, submitted_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.JobID, job.JobName, job.SourceKey, job.ImportKey, job.Status, job.Message,
		job.SubmittedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record job %s: %w", job.JobID, err)
	}
	return nil
}

// UpdateStatus records the latest observed status for a job.
func (s *Store) UpdateStatus(ctx context.Context, jobID, status, message string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE import_jobs SET status = ?, message = ?, updated_at = ? WHERE job_id = ?",
		status, message, time.Now().UTC().Format(time.RFC3339), jobID)
	if err != nil {
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	return nil
}

// GetJob returns a tracked job, or nil when the job is unknown.
func (s *Store) GetJob(ctx context.Context, jobID string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT job_id, job_name, source_key, import_key, status, message, submitted_at, updated_at
		 FROM import_jobs WHERE job_id = ?`, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

// ListJobs returns the most recently submitted jobs, newest first.
func (s *Store) ListJobs(ctx context.Context) ([]Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, job_name, source_key, import_key, status, message, submitted_at, updated_at
		 FROM import_jobs ORDER BY submitted_at DESC, job_id LIMIT ?`, listJobsLimit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var submitted, updated string
	if err := row.Scan(&job.JobID, &job.JobName, &job.SourceKey, &job.ImportKey,
		&job.Status, &job.Message, &submitted, &updated); err != nil {
		return nil, err
	}
	if ts, err := time.Parse(time.RFC3339, submitted); err == nil {
		job.SubmittedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, updated); err == nil {
		job.UpdatedAt = ts
	}
	return &job, nil
}
