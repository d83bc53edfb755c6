package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Test Plan for SegmentGrid:
// - Crossing segments always appear as a candidate pair
// - Segments in distant cells are pruned
// - Each unordered pair is emitted exactly once even when boxes share
//   several cells
// - Pair enumeration order is deterministic across runs
// - Segments longer than a cell are bucketed into every cell they span

func seg(entity, index int, ax, ay, bx, by float64) geom.Segment {
	return geom.Segment{
		Entity: entity,
		Index:  index,
		A:      geom.Vertex{Point3: geom.Pt3(ax, ay, 0), Entity: entity, Ordinal: index},
		B:      geom.Vertex{Point3: geom.Pt3(bx, by, 0), Entity: entity, Ordinal: index + 1},
	}
}

func collectPairs(g *SegmentGrid) [][2]int {
	var pairs [][2]int
	g.CandidatePairs(func(a, b geom.Segment) {
		pairs = append(pairs, [2]int{a.Entity, b.Entity})
	})
	return pairs
}

func TestSegmentGrid_CrossingPairSurvivesPruning(t *testing.T) {
	t.Parallel()

	g := NewSegmentGrid(1.0)
	g.Add(seg(0, 0, 0, 5, 10, 5))
	g.Add(seg(1, 0, 5, 0, 5, 10))
	g.Add(seg(2, 0, 100, 100, 101, 100))

	pairs := collectPairs(g)

	// Expect: the crossing pair survives, the far segment pairs with nobody
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]int{0, 1}, pairs[0])
}

func TestSegmentGrid_PairEmittedOnce(t *testing.T) {
	t.Parallel()

	// Two long parallel segments share many cells; the pair must still be
	// emitted exactly once.
	g := NewSegmentGrid(1.0)
	g.Add(seg(0, 0, 0, 0, 50, 0))
	g.Add(seg(1, 0, 0, 0.5, 50, 0.5))

	pairs := collectPairs(g)
	assert.Len(t, pairs, 1)
}

func TestSegmentGrid_DeterministicOrder(t *testing.T) {
	t.Parallel()

	build := func() [][2]int {
		g := NewSegmentGrid(2.0)
		g.Add(seg(0, 0, 0, 0, 4, 4))
		g.Add(seg(1, 0, 0, 4, 4, 0))
		g.Add(seg(2, 0, 1, 1, 3, 3))
		g.Add(seg(3, 0, 2, 0, 2, 4))
		return collectPairs(g)
	}

	first := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build(), "candidate enumeration must not depend on map iteration order")
	}
}

func TestSegmentGrid_LongSegmentSpansCells(t *testing.T) {
	t.Parallel()

	// A 100-unit segment with cell size 1 must meet a short segment at its
	// far end.
	g := NewSegmentGrid(1.0)
	g.Add(seg(0, 0, 0, 0, 100, 0))
	g.Add(seg(1, 0, 99.5, -1, 99.5, 1))

	pairs := collectPairs(g)
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]int{0, 1}, pairs[0])
}

func TestSegmentGrid_BuildFromEntities(t *testing.T) {
	t.Parallel()

	square := geom.Entity{ID: 0, Closed: true}
	for i, p := range []geom.Point3{geom.Pt3(0, 0, 0), geom.Pt3(10, 0, 0), geom.Pt3(10, 10, 0), geom.Pt3(0, 10, 0)} {
		square.Vertices = append(square.Vertices, geom.Vertex{Point3: p, Entity: 0, Ordinal: i})
	}

	g := BuildSegmentGrid([]geom.Entity{square})
	assert.Equal(t, 4, g.Len(), "closed square contributes its wrap edge")
}

func TestSegmentGrid_EmptyAndDegenerate(t *testing.T) {
	t.Parallel()

	g := BuildSegmentGrid(nil)
	assert.Equal(t, 0, g.Len())
	g.CandidatePairs(func(a, b geom.Segment) {
		t.Fatal("no pairs expected from an empty grid")
	})

	// Zero-length segment sits in exactly one cell and pairs with overlap
	g2 := NewSegmentGrid(1.0)
	g2.Add(seg(0, 0, 0.5, 0.5, 0.5, 0.5))
	g2.Add(seg(1, 0, 0.4, 0.4, 0.6, 0.6))
	assert.Len(t, collectPairs(g2), 1)
}
