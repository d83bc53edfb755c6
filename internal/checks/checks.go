// Package checks implements the geometric defect checks that run against an
// extracted entity set: oversized and undersized segments, duplicate
// vertices, unconnected crossings and elevation anomalies. Checks are
// independent of each other, never mutate their input, and report findings
// as data; rendering and persistence belong to the reporter.
package checks

import (
	"fmt"
	"sort"

	"github.com/checkmateLL/dxf-checker/internal/geom"
	"github.com/checkmateLL/dxf-checker/internal/spatial"
)

// Kind identifies one defect check.
type Kind string

const (
	TooLong             Kind = "too_long"
	TooShort            Kind = "too_short"
	DuplicateVertices   Kind = "duplicate_vertices"
	UnconnectedCrossing Kind = "unconnected_crossing"
	ZAnomaly            Kind = "z_anomaly"
	ZeroElevation       Kind = "zero_elevation"
)

// AllKinds returns every known check kind in canonical execution order.
func AllKinds() []Kind {
	return []Kind{TooLong, TooShort, DuplicateVertices, UnconnectedCrossing, ZAnomaly, ZeroElevation}
}

// ParseKind validates a user-supplied check name.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown check %q, valid checks: %v", s, AllKinds())
}

// Tag returns the short uppercase tag used in defect ids and marker layers.
func (k Kind) Tag() string {
	switch k {
	case TooLong:
		return "3D_LONG"
	case TooShort:
		return "3D_SHORT"
	case DuplicateVertices:
		return "DUP_VERT"
	case UnconnectedCrossing:
		return "XING"
	case ZAnomaly:
		return "Z_ANOM"
	case ZeroElevation:
		return "Z_ZERO"
	}
	return "UNKNOWN"
}

// Params carries every threshold the checks read. All distances are in
// meters, measured in world coordinates after unit scaling.
type Params struct {
	// MaxDist is the longest acceptable segment.
	MaxDist float64
	// MinDist is the shortest acceptable segment.
	MinDist float64
	// DuplicateTolerance is the 3D distance under which two vertices count
	// as duplicates.
	DuplicateTolerance float64
	// CrossingTolerance is the plan-view distance from a segment endpoint
	// within which a crossing counts as connected.
	CrossingTolerance float64
	// ZTolerance is the allowed deviation from the elevation trend of a
	// vertex's neighbors.
	ZTolerance float64
	// ZeroElevationTolerance is the band around zero treated as "no
	// elevation data".
	ZeroElevationTolerance float64
	// PlanarLengths measures segment lengths in XY projection instead of 3D.
	PlanarLengths bool
}

// DefaultParams returns the thresholds used when a drawing does not bring
// its own configuration.
func DefaultParams() Params {
	return Params{
		MaxDist:                50.0,
		MinDist:                0.01,
		DuplicateTolerance:     0.0001,
		CrossingTolerance:      0.01,
		ZTolerance:             0.04,
		ZeroElevationTolerance: 1e-6,
	}
}

// Defect is one finding: where it is, what produced it and how bad it is.
type Defect struct {
	Kind Kind
	// Location is the world-coordinate point a marker should be placed at.
	Location geom.Point3
	// Measurement is the natural magnitude of the defect (a length, a
	// deviation, a count) when the check has one; nil otherwise.
	Measurement *float64
	Description string
	// SourceEntity identifies the drawing object the defect belongs to.
	SourceEntity string
}

func measured(v float64) *float64 {
	return &v
}

// Input bundles the read-only data every check runs against. The spatial
// structures are built once per run and shared by all checks.
type Input struct {
	Entities []geom.Entity
	Vertices *spatial.VertexIndex
	// Segments is only populated when the run includes the crossing check.
	Segments *spatial.SegmentGrid
	Params   Params
}

// NewInput indexes the entity set for the given checks.
func NewInput(entities []geom.Entity, kinds []Kind, p Params) (*Input, error) {
	ix, err := spatial.BuildVertexIndex(entities)
	if err != nil {
		return nil, fmt.Errorf("building vertex index: %w", err)
	}
	in := &Input{Entities: entities, Vertices: ix, Params: p}
	for _, k := range kinds {
		if k == UnconnectedCrossing {
			in.Segments = spatial.BuildSegmentGrid(entities)
			break
		}
	}
	return in, nil
}

// Check is one defect detector. Implementations hold only their parameters
// and treat the input as immutable.
type Check interface {
	Kind() Kind
	Run(in *Input) []Defect
}

// New constructs the check for kind.
func New(kind Kind, p Params) (Check, error) {
	switch kind {
	case TooLong:
		return &tooLongCheck{p: p}, nil
	case TooShort:
		return &tooShortCheck{p: p}, nil
	case DuplicateVertices:
		return &duplicateVerticesCheck{p: p}, nil
	case UnconnectedCrossing:
		return &crossingCheck{p: p}, nil
	case ZAnomaly:
		return &zAnomalyCheck{p: p}, nil
	case ZeroElevation:
		return &zeroElevationCheck{p: p}, nil
	}
	return nil, fmt.Errorf("unknown check kind %q", kind)
}

// segmentLength measures a segment according to the configured mode.
func segmentLength(s geom.Segment, p Params) float64 {
	if p.PlanarLengths {
		return s.LengthXY()
	}
	return s.Length()
}

// sortVertexRefs orders candidate vertices by (entity, ordinal) so reports
// do not depend on index traversal order.
func sortVertexRefs(vs []*geom.Vertex) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].Entity != vs[j].Entity {
			return vs[i].Entity < vs[j].Entity
		}
		return vs[i].Ordinal < vs[j].Ordinal
	})
}
