// Package drawing defines the raw vector-drawing document model the checker
// consumes: entities as they appear in the source file, before block
// flattening and unit scaling. Input adapters (native DXF, the JSON
// interchange format) all produce this model.
package drawing

import "github.com/checkmateLL/dxf-checker/internal/geom"

// Kind identifies the raw entity type of a drawing object.
type Kind string

const (
	KindLine       Kind = "LINE"
	KindPolyline   Kind = "POLYLINE"
	KindLWPolyline Kind = "LWPOLYLINE"
	KindSpline     Kind = "SPLINE"
	KindPoint      Kind = "POINT"
	KindHatch      Kind = "HATCH"
	KindInsert     Kind = "INSERT"
)

// EdgeKind identifies the shape of a hatch boundary edge.
type EdgeKind string

const (
	EdgeLine EdgeKind = "line"
	EdgeArc  EdgeKind = "arc"
)

// BlockRef is the placement data of an INSERT entity: which block to
// instance and where to put it.
type BlockRef struct {
	Name string `json:"name"`
	// At is the insertion point in the coordinates of the containing space.
	At geom.Point3 `json:"at"`
	// RotationDeg is the rotation around Z in degrees, as stored in DXF.
	RotationDeg float64 `json:"rotation_deg,omitempty"`
	// Scale holds per-axis scale factors. A zero component means
	// unspecified and defaults to 1.
	Scale geom.Point3 `json:"scale,omitempty"`
}

// BoundaryEdge is a single edge of a hatch boundary edge path. Line edges
// use Start/End; arc edges use Center, Radius, the angle range in degrees
// and the winding direction.
type BoundaryEdge struct {
	Kind EdgeKind `json:"type"`

	Start geom.Point3 `json:"start,omitempty"`
	End   geom.Point3 `json:"end,omitempty"`

	Center        geom.Point3 `json:"center,omitempty"`
	Radius        float64     `json:"radius,omitempty"`
	StartAngleDeg float64     `json:"start_angle_deg,omitempty"`
	EndAngleDeg   float64     `json:"end_angle_deg,omitempty"`
	CCW           bool        `json:"ccw,omitempty"`
}

// BoundaryPath is one loop of a hatch boundary. Polyline paths carry their
// vertices directly; edge paths carry a list of line and arc edges.
type BoundaryPath struct {
	Closed bool           `json:"closed,omitempty"`
	Points []geom.Point3  `json:"points,omitempty"`
	Edges  []BoundaryEdge `json:"edges,omitempty"`
}

// RawEntity is one drawing object exactly as the source recorded it.
// Which fields are meaningful depends on Kind:
//
//	LINE                  Points holds the two endpoints
//	POLYLINE, LWPOLYLINE  Points holds the vertex run, Closed marks rings
//	SPLINE                Points holds the control polygon
//	POINT                 Points holds the single location
//	HATCH                 Paths holds the boundary loops
//	INSERT                Insert holds the block placement
type RawEntity struct {
	Kind   Kind   `json:"kind"`
	Handle string `json:"handle,omitempty"`
	Layer  string `json:"layer,omitempty"`
	Closed bool   `json:"closed,omitempty"`

	Points []geom.Point3  `json:"points,omitempty"`
	Paths  []BoundaryPath `json:"paths,omitempty"`
	Insert *BlockRef      `json:"insert,omitempty"`
}

// Document is a parsed drawing: the model-space entities plus the block
// definitions that INSERT entities reference. Block bodies may themselves
// contain INSERT entities (nested blocks).
type Document struct {
	Entities []RawEntity            `json:"entities"`
	Blocks   map[string][]RawEntity `json:"blocks,omitempty"`
}

// normalize fills in defaults the interchange format allows callers to
// omit, so downstream code never sees a zero scale component.
func (d *Document) normalize() {
	for i := range d.Entities {
		normalizeEntity(&d.Entities[i])
	}
	for _, body := range d.Blocks {
		for i := range body {
			normalizeEntity(&body[i])
		}
	}
}

func normalizeEntity(e *RawEntity) {
	if e.Insert == nil {
		return
	}
	if e.Insert.Scale.X == 0 {
		e.Insert.Scale.X = 1
	}
	if e.Insert.Scale.Y == 0 {
		e.Insert.Scale.Y = 1
	}
	if e.Insert.Scale.Z == 0 {
		e.Insert.Scale.Z = 1
	}
}
