package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Test Plan for tooLongCheck:
// - Segments longer than the maximum are flagged at their midpoint with the
//   length as measurement
// - A segment exactly at the maximum passes
// - The wrap edge of a closed entity is measured too
// - Lengths are 3D by default and planar when PlanarLengths is set

func TestTooLong_FlagsOversizedSegment(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MaxDist = 50

	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(62, 0, 0), geom.Pt3(72, 0, 0)),
	}
	defects := runOne(t, TooLong, p, entities)

	require.Len(t, defects, 1)
	d := defects[0]
	assert.Equal(t, TooLong, d.Kind)
	assert.Equal(t, geom.Pt3(31, 0, 0), d.Location, "marker goes to the segment midpoint")
	require.NotNil(t, d.Measurement)
	assert.InDelta(t, 62.0, *d.Measurement, 1e-9)
	assert.Equal(t, "e0", d.SourceEntity)
}

func TestTooLong_BoundaryPasses(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MaxDist = 10

	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(10, 0, 0)),
	}
	assert.Empty(t, runOne(t, TooLong, p, entities))
}

func TestTooLong_ClosedWrapEdge(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MaxDist = 9

	// 10x10 closed square: all four edges, including the wrap edge, are 10.
	entities := []geom.Entity{
		testEntity(0, true, geom.Pt3(0, 0, 0), geom.Pt3(10, 0, 0), geom.Pt3(10, 10, 0), geom.Pt3(0, 10, 0)),
	}
	defects := runOne(t, TooLong, p, entities)
	assert.Len(t, defects, 4)
}

func TestTooLong_PlanarLengths(t *testing.T) {
	t.Parallel()

	// A near-vertical segment: 100 long in 3D, 3 long in plan view.
	entities := []geom.Entity{
		testEntity(0, false, geom.Pt3(0, 0, 0), geom.Pt3(3, 0, 99.954)),
	}

	p := DefaultParams()
	p.MaxDist = 50
	assert.Len(t, runOne(t, TooLong, p, entities), 1, "3D length exceeds the maximum")

	p.PlanarLengths = true
	assert.Empty(t, runOne(t, TooLong, p, entities), "planar length stays under the maximum")
}
