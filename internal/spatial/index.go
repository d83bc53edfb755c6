// Package spatial provides the proximity structures the checks query:
// a quadtree over vertices and a uniform grid over segment bounding boxes.
// Both are conservative filters. They may return candidates that fail the
// exact geometric test, never the other way around, so callers always
// re-verify real distances on what they get back.
package spatial

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// vertexPointer adapts a vertex for quadtree storage, which indexes by 2D
// location only.
type vertexPointer struct {
	v *geom.Vertex
}

func (p vertexPointer) Point() orb.Point {
	return orb.Point{p.v.X, p.v.Y}
}

// VertexIndex answers radius queries over every vertex of the extracted
// entity set. It is built once after extraction and read-only afterwards.
type VertexIndex struct {
	tree *quadtree.Quadtree
	size int
}

// BuildVertexIndex indexes all vertices of the given entities.
func BuildVertexIndex(entities []geom.Entity) (*VertexIndex, error) {
	var bound orb.Bound
	empty := true
	for i := range entities {
		for j := range entities[i].Vertices {
			p := orb.Point{entities[i].Vertices[j].X, entities[i].Vertices[j].Y}
			if empty {
				bound = orb.Bound{Min: p, Max: p}
				empty = false
				continue
			}
			bound = bound.Extend(p)
		}
	}
	if empty {
		return &VertexIndex{}, nil
	}

	// Pad so points sitting exactly on the hull stay strictly inside the
	// tree bound.
	ix := &VertexIndex{tree: quadtree.New(bound.Pad(1.0))}
	for i := range entities {
		e := &entities[i]
		for j := range e.Vertices {
			if err := ix.tree.Add(vertexPointer{&e.Vertices[j]}); err != nil {
				return nil, fmt.Errorf("index vertex %d of entity %d: %w", j, e.ID, err)
			}
			ix.size++
		}
	}
	return ix, nil
}

// Size returns the number of indexed vertices.
func (ix *VertexIndex) Size() int {
	return ix.size
}

// Near returns every vertex inside the XY square of half-width r centered
// on p. The square contains all vertices within true 3D distance r of p,
// plus extras the caller must filter out with an exact distance test.
func (ix *VertexIndex) Near(p geom.Point3, r float64) []*geom.Vertex {
	if ix.tree == nil {
		return nil
	}
	box := orb.Bound{
		Min: orb.Point{p.X - r, p.Y - r},
		Max: orb.Point{p.X + r, p.Y + r},
	}
	found := ix.tree.InBound(nil, box)
	out := make([]*geom.Vertex, 0, len(found))
	for _, f := range found {
		out = append(out, f.(vertexPointer).v)
	}
	return out
}
