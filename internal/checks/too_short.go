package checks

import "fmt"

// tooShortCheck flags segments shorter than the minimum expected distance.
// Zero-length edges are left to the duplicate vertices check so identical
// points are not reported as both defects.
type tooShortCheck struct {
	p Params
}

func (c *tooShortCheck) Kind() Kind {
	return TooShort
}

func (c *tooShortCheck) Run(in *Input) []Defect {
	var defects []Defect
	for i := range in.Entities {
		e := &in.Entities[i]
		for _, s := range e.Segments() {
			length := segmentLength(s, c.p)
			if length <= 0 || length >= c.p.MinDist {
				continue
			}
			defects = append(defects, Defect{
				Kind:         TooShort,
				Location:     s.Mid(),
				Measurement:  measured(length),
				Description:  fmt.Sprintf("segment length %.4f below minimum %.4f", length, c.p.MinDist),
				SourceEntity: e.Source,
			})
		}
	}
	return defects
}
