package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Test Plan for crossingCheck:
// - Two perpendicular segments crossing mid-span report one defect at the
//   intersection, with Z averaged from the four endpoints
// - A crossing within tolerance of any endpoint counts as connected
// - An endpoint touching the middle of another segment is a contact, not a
//   crossing
// - Parallel and collinear overlaps are skipped (no single crossing point)
// - Self-intersections within one entity are out of scope
// - Plan-view crossings report even when the segments are far apart in Z

func TestCrossing_PerpendicularMidspan(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(-5, 0, 0), geom.Pt3(5, 0, 0)),
		testEntity(1, false, geom.Pt3(0, -5, 4), geom.Pt3(0, 5, 4)),
	}
	defects := runOne(t, UnconnectedCrossing, p, entities)

	require.Len(t, defects, 1)
	d := defects[0]
	assert.Equal(t, UnconnectedCrossing, d.Kind)
	assert.InDelta(t, 0, d.Location.X, 1e-12)
	assert.InDelta(t, 0, d.Location.Y, 1e-12)
	assert.InDelta(t, 2, d.Location.Z, 1e-12, "no Z exists at a plan crossing; endpoints average")
	assert.Contains(t, d.Description, "e0")
	assert.Contains(t, d.Description, "e1")
}

func TestCrossing_NearEndpointIsConnected(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.CrossingTolerance = 0.01

	// The vertical segment crosses 0.005 from the horizontal one's start.
	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(10, 0, 0)),
		testEntity(1, false, geom.Pt3(0.005, -1, 0), geom.Pt3(0.005, 1, 0)),
	}
	assert.Empty(t, runOne(t, UnconnectedCrossing, p, entities))
}

func TestCrossing_EndpointTouchPasses(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	// T junction: e1 ends exactly on e0. The intersection parameter sits on
	// the boundary, not strictly inside.
	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(10, 0, 0)),
		testEntity(1, false, geom.Pt3(5, 5, 0), geom.Pt3(5, 0, 0)),
	}
	assert.Empty(t, runOne(t, UnconnectedCrossing, p, entities))
}

func TestCrossing_CollinearOverlapSkipped(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	// Overlapping collinear segments share infinitely many points and no
	// single crossing; the check stays silent on them.
	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(10, 0, 0)),
		testEntity(1, false, geom.Pt3(2, 0, 0), geom.Pt3(8, 0, 0)),
	}
	assert.Empty(t, runOne(t, UnconnectedCrossing, p, entities))
}

func TestCrossing_SameEntitySkipped(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	// A self-crossing polyline: segment 0 and segment 2 intersect at (5,0).
	entities := []geom.Entity{
		testEntity(0, false,
			geom.Pt3(0, 0, 0),
			geom.Pt3(10, 0, 0),
			geom.Pt3(5, 5, 0),
			geom.Pt3(5, -5, 0),
		),
	}
	assert.Empty(t, runOne(t, UnconnectedCrossing, p, entities))
}

func TestCrossing_MultipleCrossings(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	// One long horizontal line crossed by two verticals.
	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(100, 0, 0)),
		testEntity(1, false, geom.Pt3(25, -5, 0), geom.Pt3(25, 5, 0)),
		testEntity(2, false, geom.Pt3(75, -5, 0), geom.Pt3(75, 5, 0)),
	}
	defects := runOne(t, UnconnectedCrossing, p, entities)

	require.Len(t, defects, 2)
	assert.InDelta(t, 25, defects[0].Location.X, 1e-9)
	assert.InDelta(t, 75, defects[1].Location.X, 1e-9)
}
