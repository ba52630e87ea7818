package core

import "time"

// Operation names recorded on runs.
const (
	OperationGenerate = "generate"
	OperationDrop     = "drop"
)

// RunStatus represents the status of a run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents one invocation of generate-all or drop-all.
type Run struct {
	ID          string
	Operation   string
	Environment string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// ArtifactRunStatus represents the per-artifact outcome within a run.
type ArtifactRunStatus string

// Artifact run status constants.
const (
	ArtifactRunStatusSuccess ArtifactRunStatus = "success"
	ArtifactRunStatusSkipped ArtifactRunStatus = "skipped"
	ArtifactRunStatusFailed  ArtifactRunStatus = "failed"
)

// ArtifactRun records the outcome of processing one artifact in a run.
// Every artifact transitions through resolve -> generate -> emit exactly
// once per invocation; this row captures where it ended up.
type ArtifactRun struct {
	ID           string
	RunID        string
	ArtifactPath string
	ViewName     string
	Status       ArtifactRunStatus
	Error        string
	ExecutionMS  int64
	CreatedAt    time.Time
}

// Store persists runs and per-artifact outcomes.
type Store interface {
	// Open opens the store at the given path (":memory:" for ephemeral).
	Open(path string) error
	// Close releases store resources.
	Close() error
	// Migrate applies pending schema migrations.
	Migrate() error

	// CreateRun records a new running run.
	CreateRun(operation, environment string) (*Run, error)
	// CompleteRun marks a run finished with the given status.
	CompleteRun(id string, status RunStatus, errMsg string) error
	// GetRun retrieves a run by ID.
	GetRun(id string) (*Run, error)
	// GetRecentRuns returns the most recent runs, newest first.
	GetRecentRuns(limit int) ([]*Run, error)

	// RecordArtifactRun records one per-artifact outcome.
	RecordArtifactRun(ar *ArtifactRun) error
	// GetArtifactRunsForRun returns the artifact outcomes for a run.
	GetArtifactRunsForRun(runID string) ([]*ArtifactRun, error)
}
