package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

// CreateRun creates a new running run record.
func (s *SQLiteStore) CreateRun(operation, environment string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &core.Run{
		ID:          generateID(),
		Operation:   operation,
		Environment: environment,
		Status:      core.RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}

	s.logger.Debug("creating run", "id", run.ID, "operation", operation, "environment", environment)

	_, err := s.db.Exec(
		`INSERT INTO runs (id, operation, environment, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Operation, run.Environment, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// CompleteRun marks a run finished with the given status.
func (s *SQLiteStore) CompleteRun(id string, status core.RunStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), now, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, operation, environment, status, started_at, completed_at, error FROM runs WHERE id = ?`,
		id,
	)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetRecentRuns returns the most recent runs, newest first.
func (s *SQLiteStore) GetRecentRuns(limit int) ([]*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, operation, environment, status, started_at, completed_at, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// RecordArtifactRun records one per-artifact outcome.
func (s *SQLiteStore) RecordArtifactRun(ar *core.ArtifactRun) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if ar.ID == "" {
		ar.ID = generateID()
	}
	if ar.CreatedAt.IsZero() {
		ar.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO artifact_runs (id, run_id, artifact_path, view_name, status, error, execution_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ar.ID, ar.RunID, ar.ArtifactPath, ar.ViewName, string(ar.Status), ar.Error, ar.ExecutionMS, ar.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record artifact run: %w", err)
	}
	return nil
}

// GetArtifactRunsForRun returns the artifact outcomes for a run, in
// insertion order.
func (s *SQLiteStore) GetArtifactRunsForRun(runID string) ([]*core.ArtifactRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, artifact_path, view_name, status, error, execution_ms, created_at
		 FROM artifact_runs WHERE run_id = ? ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifact runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*core.ArtifactRun
	for rows.Next() {
		var ar core.ArtifactRun
		var status string
		if err := rows.Scan(&ar.ID, &ar.RunID, &ar.ArtifactPath, &ar.ViewName, &status, &ar.Error, &ar.ExecutionMS, &ar.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact run: %w", err)
		}
		ar.Status = core.ArtifactRunStatus(status)
		results = append(results, &ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artifact runs: %w", err)
	}

	return results, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*core.Run, error) {
	var run core.Run
	var status string
	var completedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.Operation, &run.Environment, &status, &run.StartedAt, &completedAt, &run.Error); err != nil {
		return nil, err
	}
	run.Status = core.RunStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

// Ensure SQLiteStore implements core.Store
var _ core.Store = (*SQLiteStore)(nil)
