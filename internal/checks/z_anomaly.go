package checks

import (
	"fmt"
	"math"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// xyDegenerateEps is the squared plan-view distance under which a vertex's
// neighbors count as stacked, making trend interpolation meaningless.
const xyDegenerateEps = 1e-10

// zAnomalyCheck flags vertices whose elevation breaks the trend of their
// neighbors. All flagged vertices of one entity consolidate into a single
// defect at their centroid, so a noisy polyline produces one marker instead
// of dozens.
type zAnomalyCheck struct {
	p Params
}

func (c *zAnomalyCheck) Kind() Kind {
	return ZAnomaly
}

func (c *zAnomalyCheck) Run(in *Input) []Defect {
	var defects []Defect
	for i := range in.Entities {
		e := &in.Entities[i]
		if len(e.Vertices) < 3 {
			continue
		}

		var flagged []geom.Point3
		var worst float64
		sampled := 0
		for j := range e.Vertices {
			prev, next := e.Neighbors(j)
			if prev < 0 || next < 0 {
				continue
			}
			v := &e.Vertices[j]
			expected := expectedZ(e.Vertices[prev].Point3, e.Vertices[next].Point3, v.Point3)
			dev := math.Abs(v.Z - expected)
			if dev <= c.p.ZTolerance {
				continue
			}
			flagged = append(flagged, v.Point3)
			if v.FromArc {
				sampled++
			}
			if dev > worst {
				worst = dev
			}
		}
		if len(flagged) == 0 {
			continue
		}

		desc := fmt.Sprintf("%d vertices deviate from the elevation trend (worst %.3f)", len(flagged), worst)
		if sampled > 0 {
			desc = fmt.Sprintf("%s, %d of them from sampled arc edges", desc, sampled)
		}
		defects = append(defects, Defect{
			Kind:         ZAnomaly,
			Location:     geom.Centroid(flagged),
			Measurement:  measured(worst),
			Description:  desc,
			SourceEntity: e.Source,
		})
	}
	return defects
}

// expectedZ interpolates the elevation the vertex would have if it followed
// the straight trend between its neighbors, using the XY projection to
// place it between them. The parameter is clamped to the neighbor span so a
// vertex outside it compares against the nearer neighbor's elevation.
// Stacked neighbors fall back to their plain average.
func expectedZ(prev, next, at geom.Point3) float64 {
	dx := next.X - prev.X
	dy := next.Y - prev.Y
	d2 := dx*dx + dy*dy
	if d2 < xyDegenerateEps {
		return (prev.Z + next.Z) / 2
	}
	t := ((at.X-prev.X)*dx + (at.Y-prev.Y)*dy) / d2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return prev.Z + (next.Z-prev.Z)*t
}
