package geom

// Vertex is a single point of an entity's vertex sequence, carrying a
// back-reference to its owner so a defect can always be traced to the
// drawing object it came from.
type Vertex struct {
	Point3

	// Entity is the index of the owning entity in the extracted set.
	Entity int
	// Ordinal is the position of the vertex within the owning entity.
	Ordinal int
	// FromArc marks vertices synthesized by sampling a curved boundary
	// edge rather than read directly from the drawing.
	FromArc bool
}

// Entity is one checkable geometric object after extraction: every input
// shape, whether drawn directly or instanced through a block, flattens into
// this single form.
type Entity struct {
	// ID is the dense index of the entity in the extracted set.
	ID int
	// Source identifies the originating drawing object (handle when the
	// input carries one, a synthesized tag otherwise). Diagnostics only.
	Source string
	// Kind is the raw entity kind tag, e.g. "LINE" or "HATCH_BOUNDARY".
	Kind string
	// Layer is the drawing layer the source object lived on.
	Layer string
	// ViaBlock is true when the entity was instanced through a block
	// reference rather than drawn directly in the model space.
	ViaBlock bool
	// Closed marks ring topology: the last vertex connects back to the
	// first through an implicit wrap segment.
	Closed bool

	Vertices []Vertex
}

// Segment is a derived view of the edge between two consecutive vertices of
// one entity. Segments are never stored; entities own the vertex sequence
// and segments are produced on demand.
type Segment struct {
	// Entity is the index of the owning entity.
	Entity int
	// Index is the edge ordinal: edge i connects vertex i to vertex i+1,
	// except the wrap edge of a closed entity which connects the last
	// vertex back to vertex 0.
	Index int

	A, B Vertex
}

// Length returns the 3D length of the segment.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B.Point3)
}

// LengthXY returns the segment length projected onto the XY plane.
func (s Segment) LengthXY() float64 {
	return s.A.DistanceXY(s.B.Point3)
}

// Mid returns the segment midpoint.
func (s Segment) Mid() Point3 {
	return Mid(s.A.Point3, s.B.Point3)
}

// SegmentCount returns the number of edges the entity contributes.
// A closed entity with three or more vertices includes the wrap edge;
// with two vertices the wrap would only repeat the single edge reversed.
func (e *Entity) SegmentCount() int {
	n := len(e.Vertices)
	if n < 2 {
		return 0
	}
	if e.Closed && n >= 3 {
		return n
	}
	return n - 1
}

// Segments returns the derived edge views in vertex order. The wrap edge of
// a closed entity comes last.
func (e *Entity) Segments() []Segment {
	count := e.SegmentCount()
	if count == 0 {
		return nil
	}
	segs := make([]Segment, 0, count)
	for i := 0; i+1 < len(e.Vertices); i++ {
		segs = append(segs, Segment{Entity: e.ID, Index: i, A: e.Vertices[i], B: e.Vertices[i+1]})
	}
	if count == len(e.Vertices) {
		last := len(e.Vertices) - 1
		segs = append(segs, Segment{Entity: e.ID, Index: last, A: e.Vertices[last], B: e.Vertices[0]})
	}
	return segs
}

// Neighbors returns the ordinals of the vertices adjacent to vertex i,
// honoring wrap adjacency on closed entities. A missing neighbor is -1.
func (e *Entity) Neighbors(i int) (prev, next int) {
	n := len(e.Vertices)
	prev, next = i-1, i+1
	if next >= n {
		next = -1
		if e.Closed && n >= 3 {
			next = 0
		}
	}
	if prev < 0 {
		prev = -1
		if e.Closed && n >= 3 {
			prev = n - 1
		}
	}
	return prev, next
}
