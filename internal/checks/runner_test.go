package checks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Test Plan for the runner:
// - Results come back in the order the kinds were requested
// - An unknown kind fails the run before anything executes
// - A panicking check is isolated: failure recorded, defects dropped,
//   remaining checks still run
// - Progress receives start/finish events in run order
// - Two runs over the same input produce identical defects
// - A cancelled context stops the run with the context error

type recordingProgress struct {
	events []string
}

func (r *recordingProgress) CheckStarted(kind Kind) {
	r.events = append(r.events, "start:"+string(kind))
}

func (r *recordingProgress) CheckFinished(kind Kind, defects int, _ time.Duration) {
	r.events = append(r.events, "finish:"+string(kind))
}

type panickingCheck struct{}

func (panickingCheck) Kind() Kind {
	return Kind("panicking")
}

func (panickingCheck) Run(*Input) []Defect {
	panic("index out of range [3] with length 3")
}

func defectiveDrawing() []geom.Entity {
	return []geom.Entity{
		// One oversized and one undersized edge.
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(60, 0, 0), geom.Pt3(60.001, 0, 0)),
		// Crosses entity 0 mid-span.
		testEntity(1, false, geom.Pt3(30, -5, 0), geom.Pt3(30, 5, 0)),
		// Near-duplicate of entity 0's start vertex.
		testEntity(2, false, geom.Pt3(0.00003, 0, 0), geom.Pt3(0, 20, 0)),
	}
}

func TestRun_OrderAndCounts(t *testing.T) {
	t.Parallel()

	kinds := []Kind{TooLong, TooShort, DuplicateVertices, UnconnectedCrossing}
	results, err := Run(context.Background(), defectiveDrawing(), kinds, DefaultParams(), nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, k := range kinds {
		assert.Equal(t, k, results[i].Kind)
		assert.Empty(t, results[i].Failure)
	}
	assert.Len(t, results[0].Defects, 1, "one oversized segment")
	assert.Len(t, results[1].Defects, 1, "one undersized segment")
	assert.Len(t, results[2].Defects, 1, "one duplicate pair")
	assert.Len(t, results[3].Defects, 1, "e1 crosses mid-span; e2 meets e0 at an endpoint parameter")
}

func TestRun_UnknownKindFailsFast(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), defectiveDrawing(), []Kind{TooLong, Kind("bogus")}, DefaultParams(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestRunSafe_PanicIsolated(t *testing.T) {
	t.Parallel()

	in, err := NewInput(defectiveDrawing(), nil, DefaultParams())
	require.NoError(t, err)

	res := runSafe(panickingCheck{}, in)
	assert.Equal(t, Kind("panicking"), res.Kind)
	assert.Nil(t, res.Defects)
	assert.Contains(t, res.Failure, "index out of range")
}

func TestRun_ProgressEvents(t *testing.T) {
	t.Parallel()

	pr := &recordingProgress{}
	_, err := Run(context.Background(), defectiveDrawing(), []Kind{TooShort, ZAnomaly}, DefaultParams(), pr)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start:too_short",
		"finish:too_short",
		"start:z_anomaly",
		"finish:z_anomaly",
	}, pr.events)
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	kinds := AllKinds()
	p := DefaultParams()

	first, err := Run(context.Background(), defectiveDrawing(), kinds, p, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Run(context.Background(), defectiveDrawing(), kinds, p, nil)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Kind, again[j].Kind)
			assert.Equal(t, first[j].Defects, again[j].Defects, "defects for %s must be identical across runs", first[j].Kind)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, defectiveDrawing(), AllKinds(), DefaultParams(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()

	results, err := Run(context.Background(), nil, AllKinds(), DefaultParams(), nil)
	require.NoError(t, err)
	require.Len(t, results, len(AllKinds()))
	for _, r := range results {
		assert.Empty(t, r.Defects)
		assert.Empty(t, r.Failure)
	}
}
