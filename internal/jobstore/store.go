// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobstore persists jobs and their stage artifacts in SQLite.
// Each job owns one row in jobs plus one artifacts row per completed
// stage; stage preconditions are checked against the typed status column
// and artifact presence, never by globbing files.
package jobstore

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// Store manages the reviewer-engine job database.
type Store struct {
	db *sql.DB

	// now is the clock used for job ids and timestamps. Tests override it.
	now func() time.Time
}

// Open opens or creates the job store database at cfg.Path and creates
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "reviewer-engine.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening job store: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			job_id TEXT NOT NULL REFERENCES jobs(id),
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (job_id, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_job_id ON artifacts(job_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateJob allocates a new job id, inserts the job with status created,
// and returns it.
func (s *Store) CreateJob(ctx context.Context) (types.Job, error) {
	now := s.now().UTC()
	job := types.Job{
		ID:        newJobID(now),
		CreatedAt: now,
		Status:    types.StageCreated,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, created_at, status) VALUES (?, ?, ?)`,
		job.ID, job.CreatedAt.Format(time.RFC3339), string(job.Status),
	)
	if err != nil {
		return types.Job{}, fmt.Errorf("inserting job: %w", err)
	}
	return job, nil
}

// newJobID builds an id of the form job_20260827_1430_a3f9c1: a creation
// timestamp plus a 6-hex-digit random suffix.
func newJobID(now time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("job_%s_%s", now.Format("20060102_1504"), hex.EncodeToString(u[:3]))
}

// GetJob returns the job record for id.
func (s *Store) GetJob(ctx context.Context, id string) (types.Job, error) {
	var (
		createdAt string
		status    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, status FROM jobs WHERE id = ?`, id,
	).Scan(&createdAt, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Job{}, &JobNotFoundError{JobID: id}
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("querying job %s: %w", id, err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return types.Job{}, fmt.Errorf("parsing created_at for job %s: %w", id, err)
	}
	return types.Job{ID: id, CreatedAt: t, Status: types.StageStatus(status)}, nil
}

// ListJobs returns all jobs ordered by creation time, oldest first.
func (s *Store) ListJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, status FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var (
			id        string
			createdAt string
			status    string
		)
		if err := rows.Scan(&id, &createdAt, &status); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for job %s: %w", id, err)
		}
		jobs = append(jobs, types.Job{ID: id, CreatedAt: t, Status: types.StageStatus(status)})
	}
	return jobs, rows.Err()
}

// Advance moves the job to status. Re-running a completed stage keeps the
// furthest status reached; skipping ahead past the next stage is refused.
func (s *Store) Advance(ctx context.Context, jobID string, status types.StageStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown stage status %q", status)
	}

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	if job.Status.AtLeast(status) {
		return nil // re-run of an earlier stage
	}
	if !nextStage(job.Status).AtLeast(status) {
		return &TransitionError{JobID: jobID, From: job.Status, To: status}
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ? WHERE id = ?`, string(status), jobID)
	if err != nil {
		return fmt.Errorf("updating status for job %s: %w", jobID, err)
	}
	return nil
}

// nextStage returns the status that follows s in the pipeline.
func nextStage(s types.StageStatus) types.StageStatus {
	order := []types.StageStatus{
		types.StageCreated,
		types.StageMetadataExtracted,
		types.StageKeywordsEnhanced,
		types.StageSearched,
		types.StageValidated,
	}
	for i, st := range order[:len(order)-1] {
		if st == s {
			return order[i+1]
		}
	}
	return s
}

// PutArtifact stores v as the job's artifact of the given kind, replacing
// any previous payload. The job must exist.
func (s *Store) PutArtifact(ctx context.Context, jobID string, kind types.ArtifactKind, v any) error {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s artifact: %w", kind, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO artifacts (job_id, kind, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(job_id, kind) DO UPDATE SET
			payload=excluded.payload, updated_at=excluded.updated_at`,
		jobID, string(kind), string(payload), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing %s artifact for job %s: %w", kind, jobID, err)
	}
	return nil
}

// GetArtifact loads the job's artifact of the given kind into out. A job
// that has not produced the artifact yet yields a MissingArtifactError;
// callers use this as the stage precondition check.
func (s *Store) GetArtifact(ctx context.Context, jobID string, kind types.ArtifactKind, out any) error {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM artifacts WHERE job_id = ? AND kind = ?`,
		jobID, string(kind),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return &MissingArtifactError{JobID: jobID, Kind: kind}
	}
	if err != nil {
		return fmt.Errorf("querying %s artifact for job %s: %w", kind, jobID, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("parsing %s artifact for job %s: %w", kind, jobID, err)
	}
	return nil
}

// HasArtifact reports whether the job has produced the given artifact.
func (s *Store) HasArtifact(ctx context.Context, jobID string, kind types.ArtifactKind) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM artifacts WHERE job_id = ? AND kind = ?`,
		jobID, string(kind),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking %s artifact for job %s: %w", kind, jobID, err)
	}
	return n > 0, nil
}
