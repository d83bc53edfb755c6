package checks

import (
	"fmt"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// duplicateVerticesCheck finds pairs of vertices lying within tolerance of
// each other in 3D, across the whole drawing. The index query is planar and
// conservative, so every candidate is re-verified with the exact 3D
// distance before it reports. Each unordered pair reports exactly once, no
// matter how many times the traversal encounters it.
//
// Consecutive vertices of one entity span a literal drawn edge; when that
// edge has any length it belongs to the short segment check and is not a
// duplicate pair. Coincident consecutive vertices span no edge at all and
// stay here, as does the closing vertex of a ring landing near the first:
// the wrap connection is implied topology, not a drawn edge.
type duplicateVerticesCheck struct {
	p Params
}

func (c *duplicateVerticesCheck) Kind() Kind {
	return DuplicateVertices
}

func (c *duplicateVerticesCheck) Run(in *Input) []Defect {
	tol := c.p.DuplicateTolerance
	var defects []Defect
	for i := range in.Entities {
		e := &in.Entities[i]
		for j := range e.Vertices {
			v := &e.Vertices[j]
			candidates := in.Vertices.Near(v.Point3, tol)
			sortVertexRefs(candidates)
			for _, other := range candidates {
				// Visit each pair from its lower (entity, ordinal) end only.
				// This also drops the vertex matching itself.
				if other.Entity < v.Entity || (other.Entity == v.Entity && other.Ordinal <= v.Ordinal) {
					continue
				}
				d := v.Distance(other.Point3)
				if d >= tol {
					continue
				}
				if other.Entity == v.Entity && other.Ordinal == v.Ordinal+1 && d > 0 {
					continue
				}
				defects = append(defects, Defect{
					Kind:        DuplicateVertices,
					Location:    geom.Mid(v.Point3, other.Point3),
					Measurement: measured(d),
					Description: fmt.Sprintf("vertex %d of %s and vertex %d of %s are %.6f apart",
						v.Ordinal, e.Source, other.Ordinal, in.Entities[other.Entity].Source, d),
					SourceEntity: e.Source,
				})
			}
		}
	}
	return defects
}
