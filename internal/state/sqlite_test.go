package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteStore_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	require.NoError(t, store.Close())

	// Reopening an existing store must not fail migrations
	store = NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	require.NoError(t, store.Close())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun(core.OperationGenerate, "dev")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, core.RunStatusRunning, run.Status)

	require.NoError(t, store.CompleteRun(run.ID, core.RunStatusFailed, "2 artifact(s) failed"))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusFailed, got.Status)
	assert.Equal(t, "2 artifact(s) failed", got.Error)
	assert.Equal(t, core.OperationGenerate, got.Operation)
	require.NotNil(t, got.CompletedAt)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteStore_ArtifactRuns(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun(core.OperationGenerate, "dev")
	require.NoError(t, err)

	require.NoError(t, store.RecordArtifactRun(&core.ArtifactRun{
		RunID:        run.ID,
		ArtifactPath: "marts.orders",
		ViewName:     "mv_orders",
		Status:       core.ArtifactRunStatusSuccess,
		ExecutionMS:  12,
	}))
	require.NoError(t, store.RecordArtifactRun(&core.ArtifactRun{
		RunID:        run.ID,
		ArtifactPath: "marts.customers",
		Status:       core.ArtifactRunStatusFailed,
		Error:        "permission denied",
	}))
	require.NoError(t, store.RecordArtifactRun(&core.ArtifactRun{
		RunID:        run.ID,
		ArtifactPath: "staging.events",
		Status:       core.ArtifactRunStatusSkipped,
	}))

	results, err := store.GetArtifactRunsForRun(run.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byPath := make(map[string]*core.ArtifactRun)
	for _, ar := range results {
		byPath[ar.ArtifactPath] = ar
	}

	assert.Equal(t, core.ArtifactRunStatusSuccess, byPath["marts.orders"].Status)
	assert.Equal(t, "mv_orders", byPath["marts.orders"].ViewName)
	assert.Equal(t, core.ArtifactRunStatusFailed, byPath["marts.customers"].Status)
	assert.Equal(t, "permission denied", byPath["marts.customers"].Error)
	assert.Equal(t, core.ArtifactRunStatusSkipped, byPath["staging.events"].Status)
}

func TestSQLiteStore_GetRecentRuns(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.CreateRun(core.OperationDrop, "dev")
		require.NoError(t, err)
	}

	runs, err := store.GetRecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.GetRecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
