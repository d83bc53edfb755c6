package checks

import "fmt"

// tooLongCheck flags segments longer than the maximum expected distance.
// Oversized edges usually mean a stray vertex or geometry imported with the
// wrong unit scale.
type tooLongCheck struct {
	p Params
}

func (c *tooLongCheck) Kind() Kind {
	return TooLong
}

func (c *tooLongCheck) Run(in *Input) []Defect {
	var defects []Defect
	for i := range in.Entities {
		e := &in.Entities[i]
		for _, s := range e.Segments() {
			length := segmentLength(s, c.p)
			if length <= c.p.MaxDist {
				continue
			}
			defects = append(defects, Defect{
				Kind:         TooLong,
				Location:     s.Mid(),
				Measurement:  measured(length),
				Description:  fmt.Sprintf("segment length %.3f exceeds maximum %.3f", length, c.p.MaxDist),
				SourceEntity: e.Source,
			})
		}
	}
	return defects
}
