package alignment

import (
	"math"
	"sort"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Constraints bounds how far a drawn alignment may stray from design
// geometry.
type Constraints struct {
	HorizontalTol float64 // m
	ElevationTol  float64 // m

	// Smoothing blends each interior vertex toward its neighbors' mean:
	// 0 keeps the drawn line, 1 replaces it.
	Smoothing float64

	RoadClass      string // highway, arterial, collector, local
	Context        string // urban, rural
	DesignSpeedKPH float64

	MaxSuperelevation float64
	MaxGrade          float64

	// MinHorizontalRadius is the fallback when RoadClass has no table row,
	// and the segment-length bound used when idealizing.
	MinHorizontalRadius float64
}

// DefaultConstraints returns conservative urban-arterial defaults.
func DefaultConstraints() Constraints {
	return Constraints{
		HorizontalTol:       0.05,
		ElevationTol:        0.03,
		Smoothing:           0.3,
		RoadClass:           "arterial",
		Context:             "urban",
		DesignSpeedKPH:      60,
		MaxSuperelevation:   0.08,
		MaxGrade:            0.08,
		MinHorizontalRadius: 30,
	}
}

// radiusTable maps road class to design speed (kph) → minimum horizontal
// radius (m). Rule-of-thumb values, deliberately on the conservative side.
var radiusTable = map[string]map[float64]float64{
	"highway":   {50: 120, 60: 180, 80: 360, 100: 600, 120: 900},
	"arterial":  {40: 80, 50: 120, 60: 180, 80: 300},
	"collector": {30: 50, 40: 80, 50: 120, 60: 160},
	"local":     {20: 20, 30: 40, 40: 70},
}

// MinRadiusForDesign picks the radius of the tabulated design speed
// nearest DesignSpeedKPH; ties resolve to the lower speed. Unknown road
// classes fall back to MinHorizontalRadius, floored at 30 m.
func (c Constraints) MinRadiusForDesign() float64 {
	speeds, ok := radiusTable[c.RoadClass]
	if !ok || len(speeds) == 0 {
		return math.Max(c.MinHorizontalRadius, 30)
	}
	keys := make([]float64, 0, len(speeds))
	for k := range speeds {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if math.Abs(k-c.DesignSpeedKPH) < math.Abs(best-c.DesignSpeedKPH) {
			best = k
		}
	}
	return speeds[best]
}

// Idealize returns the design-conforming version of a line: segments
// longer than the radius bound are split, then one moving-average pass
// pulls each interior vertex toward the midpoint of its neighbors. Lines
// with fewer than three vertices only get the split.
func (c Constraints) Idealize(l Line) Line {
	split := l.SplitByMaxLength(c.MinHorizontalRadius)
	v := split.Vertices
	if len(v) < 3 {
		return split
	}

	alpha := c.Smoothing
	smoothed := make([]geom.Point3, 0, len(v))
	smoothed = append(smoothed, v[0])
	for i := 1; i+1 < len(v); i++ {
		mid := geom.Mid(v[i-1], v[i+1])
		smoothed = append(smoothed, geom.Pt3(
			(1-alpha)*v[i].X+alpha*mid.X,
			(1-alpha)*v[i].Y+alpha*mid.Y,
			(1-alpha)*v[i].Z+alpha*mid.Z,
		))
	}
	smoothed = append(smoothed, v[len(v)-1])

	return Line{Vertices: smoothed, Source: l.Source, Layer: l.Layer}
}
