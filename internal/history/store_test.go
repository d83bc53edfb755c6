package history

// Test Plan for history:
// 1. Open creates the parent directory, database file and schema.
// 2. Record/Recent round-trips a run with its check outcomes in run order.
// 3. Recent returns newest-first and honors the limit.
// 4. Prune removes only runs older than the window; PruneAll empties the
//    store. Check rows cascade with their run.
// 5. DefaultPath points at the per-user history location.

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// sampleTrace builds a finished two-check trace started at the given time.
func sampleTrace(input string, started time.Time) *report.RunTrace {
	trace := report.NewRunTrace(input, nil, 42)
	trace.StartedAt = started
	trace.AddResults([]checks.Result{
		{Kind: checks.TooLong, Defects: make([]checks.Defect, 3), Duration: 120 * time.Millisecond},
		{Kind: checks.DuplicateVertices, Duration: 40 * time.Millisecond, Failure: "check crashed: boom"},
	})
	trace.Duration = 175 * time.Millisecond
	return trace
}

func TestOpenCreatesSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deep", "dir", "history.db")
	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	// Expect: a fresh store lists nothing.
	runs, err := st.Recent(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	trace := sampleTrace("site.dxf", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC))
	require.NoError(t, st.Record(trace))

	runs, err := st.Recent(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, trace.RunID, run.ID)
	assert.Equal(t, "site.dxf", run.Input)
	assert.Equal(t, 42, run.EntityCount)
	assert.Equal(t, 3, run.TotalDefects)
	assert.Equal(t, 0, run.WarningCount)
	assert.True(t, run.StartedAt.Equal(trace.StartedAt))
	assert.Equal(t, 175*time.Millisecond, run.Duration)

	// Expect: check outcomes in run order, not alphabetical.
	require.Len(t, run.Checks, 2)
	assert.Equal(t, checks.TooLong, run.Checks[0].Kind)
	assert.Equal(t, 3, run.Checks[0].DefectCount)
	assert.Equal(t, 120*time.Millisecond, run.Checks[0].Duration)
	assert.Empty(t, run.Checks[0].Failure)
	assert.Equal(t, checks.DuplicateVertices, run.Checks[1].Kind)
	assert.Equal(t, 0, run.Checks[1].DefectCount)
	assert.Equal(t, "check crashed: boom", run.Checks[1].Failure)
}

func TestRecentNewestFirst(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	first := sampleTrace("a.dxf", base)
	second := sampleTrace("b.dxf", base.Add(time.Hour))
	third := sampleTrace("c.dxf", base.Add(2*time.Hour))
	for _, tr := range []*report.RunTrace{first, second, third} {
		require.NoError(t, st.Record(tr))
	}

	runs, err := st.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, third.RunID, runs[0].ID)
	assert.Equal(t, second.RunID, runs[1].ID)
}

func TestPrune(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	old := sampleTrace("old.dxf", time.Now().Add(-10*24*time.Hour))
	fresh := sampleTrace("fresh.dxf", time.Now())
	require.NoError(t, st.Record(old))
	require.NoError(t, st.Record(fresh))

	removed, err := st.Prune(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	runs, err := st.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, fresh.RunID, runs[0].ID)
	assert.Len(t, runs[0].Checks, 2, "surviving run keeps its check rows")

	removed, err = st.PruneAll()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	runs, err = st.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".dxf-checker")
	assert.Equal(t, "history.db", filepath.Base(path))
}
