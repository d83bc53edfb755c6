package checks

import (
	"fmt"
	"math"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// denomEps guards the intersection denominator: below it the segments are
// parallel or collinear and have no single crossing point to report.
const denomEps = 1e-12

// crossingCheck finds pairs of segments from different entities that
// intersect in plan view without the drawing recording a shared vertex near
// the intersection. Such crossings are usually missing junction points.
// Candidate pairs come pre-pruned by the segment grid; the exact parametric
// test decides.
type crossingCheck struct {
	p Params
}

func (c *crossingCheck) Kind() Kind {
	return UnconnectedCrossing
}

func (c *crossingCheck) Run(in *Input) []Defect {
	tol := c.p.CrossingTolerance
	var defects []Defect
	in.Segments.CandidatePairs(func(a, b geom.Segment) {
		if a.Entity == b.Entity {
			return
		}
		p, ok := intersect2D(a, b)
		if !ok {
			return
		}
		// A crossing close to any endpoint is treated as connected there.
		for _, end := range [4]geom.Point3{a.A.Point3, a.B.Point3, b.A.Point3, b.B.Point3} {
			if p.DistanceXY(end) <= tol {
				return
			}
		}
		// No Z is defined at a plan-view crossing; average the endpoints.
		p.Z = (a.A.Z + a.B.Z + b.A.Z + b.B.Z) / 4
		srcA := in.Entities[a.Entity].Source
		srcB := in.Entities[b.Entity].Source
		defects = append(defects, Defect{
			Kind:         UnconnectedCrossing,
			Location:     p,
			Description:  fmt.Sprintf("segments of %s and %s cross without a shared vertex", srcA, srcB),
			SourceEntity: srcA,
		})
	})
	return defects
}

// intersect2D returns the XY intersection of two segments when it falls
// strictly inside both parametric ranges. Endpoint touches (t or u exactly
// 0 or 1) are contacts, not crossings.
func intersect2D(a, b geom.Segment) (geom.Point3, bool) {
	rx := a.B.X - a.A.X
	ry := a.B.Y - a.A.Y
	sx := b.B.X - b.A.X
	sy := b.B.Y - b.A.Y

	denom := rx*sy - ry*sx
	if math.Abs(denom) < denomEps {
		return geom.Point3{}, false
	}

	qpx := b.A.X - a.A.X
	qpy := b.A.Y - a.A.Y
	t := (qpx*sy - qpy*sx) / denom
	u := (qpx*ry - qpy*rx) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return geom.Point3{}, false
	}
	return geom.Point3{X: a.A.X + t*rx, Y: a.A.Y + t*ry}, true
}
