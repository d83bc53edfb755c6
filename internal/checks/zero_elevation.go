package checks

import (
	"fmt"
	"math"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// zeroElevationCheck flags vertices sitting at zero elevation. In survey
// drawings a Z of exactly zero almost always means lost height data rather
// than a real point at datum height. Flagged vertices consolidate per
// entity, like the elevation trend check.
type zeroElevationCheck struct {
	p Params
}

func (c *zeroElevationCheck) Kind() Kind {
	return ZeroElevation
}

func (c *zeroElevationCheck) Run(in *Input) []Defect {
	tol := c.p.ZeroElevationTolerance
	var defects []Defect
	for i := range in.Entities {
		e := &in.Entities[i]
		var flagged []geom.Point3
		for j := range e.Vertices {
			if math.Abs(e.Vertices[j].Z) <= tol {
				flagged = append(flagged, e.Vertices[j].Point3)
			}
		}
		if len(flagged) == 0 {
			continue
		}
		defects = append(defects, Defect{
			Kind:         ZeroElevation,
			Location:     geom.Centroid(flagged),
			Measurement:  measured(float64(len(flagged))),
			Description:  fmt.Sprintf("%d of %d vertices have no elevation", len(flagged), len(e.Vertices)),
			SourceEntity: e.Source,
		})
	}
	return defects
}
