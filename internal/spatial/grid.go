package spatial

import (
	"math"
	"sort"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// gridDivisions controls the automatic cell size: the longer extent of the
// drawing is split into this many cells.
const gridDivisions = 64

type cellKey struct {
	X, Y int
}

// SegmentGrid buckets segments into uniform cells by their XY bounding box.
// Two segments whose boxes overlap always share at least one cell, so pairs
// the grid never co-buckets cannot intersect. A shared cell proves nothing:
// callers run the exact intersection test on every candidate pair.
type SegmentGrid struct {
	cell  float64
	cells map[cellKey][]int
	segs  []geom.Segment
}

// NewSegmentGrid creates an empty grid with the given cell size. Sizes that
// are not positive fall back to 1 drawing unit.
func NewSegmentGrid(cellSize float64) *SegmentGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SegmentGrid{
		cell:  cellSize,
		cells: make(map[cellKey][]int),
	}
}

// BuildSegmentGrid sizes a grid to the extent of the given entities and
// inserts every derived segment in entity order.
func BuildSegmentGrid(entities []geom.Entity) *SegmentGrid {
	g := NewSegmentGrid(autoCellSize(entities))
	for i := range entities {
		for _, s := range entities[i].Segments() {
			g.Add(s)
		}
	}
	return g
}

// autoCellSize derives a cell size from the drawing extent. Degenerate
// extents (single point, empty input) fall back to 1 drawing unit.
func autoCellSize(entities []geom.Entity) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range entities {
		for j := range entities[i].Vertices {
			v := entities[i].Vertices[j]
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
	}
	extent := math.Max(maxX-minX, maxY-minY)
	if math.IsInf(extent, 0) || extent <= 0 {
		return 1
	}
	return extent / gridDivisions
}

// Add inserts a segment into every cell its XY bounding box touches.
func (g *SegmentGrid) Add(s geom.Segment) {
	id := len(g.segs)
	g.segs = append(g.segs, s)
	x0, y0, x1, y1 := g.cellRange(s)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			key := cellKey{cx, cy}
			g.cells[key] = append(g.cells[key], id)
		}
	}
}

// Len returns the number of inserted segments.
func (g *SegmentGrid) Len() int {
	return len(g.segs)
}

func (g *SegmentGrid) cellRange(s geom.Segment) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(math.Min(s.A.X, s.B.X) / g.cell))
	x1 = int(math.Floor(math.Max(s.A.X, s.B.X) / g.cell))
	y0 = int(math.Floor(math.Min(s.A.Y, s.B.Y) / g.cell))
	y1 = int(math.Floor(math.Max(s.A.Y, s.B.Y) / g.cell))
	return x0, y0, x1, y1
}

// CandidatePairs invokes fn once per unordered pair of segments that share
// at least one grid cell. Pairs are emitted in insertion order of their
// lower segment, then of their higher one, so the enumeration is
// deterministic for a fixed build sequence regardless of map layout.
func (g *SegmentGrid) CandidatePairs(fn func(a, b geom.Segment)) {
	partners := make(map[int]struct{})
	for i := range g.segs {
		clear(partners)
		x0, y0, x1, y1 := g.cellRange(g.segs[i])
		for cx := x0; cx <= x1; cx++ {
			for cy := y0; cy <= y1; cy++ {
				for _, j := range g.cells[cellKey{cx, cy}] {
					if j > i {
						partners[j] = struct{}{}
					}
				}
			}
		}
		if len(partners) == 0 {
			continue
		}
		ids := make([]int, 0, len(partners))
		for j := range partners {
			ids = append(ids, j)
		}
		sort.Ints(ids)
		for _, j := range ids {
			fn(g.segs[i], g.segs[j])
		}
	}
}
