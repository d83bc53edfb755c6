// Package alignment validates road alignments: it idealizes drawn
// centerlines against design constraints and measures how far each drawn
// vertex strays from the idealized geometry.
package alignment

import (
	"math"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Line is one road alignment: the vertex run of a line-like entity plus
// where it came from. Lines are treated as immutable; operations return
// new ones.
type Line struct {
	Vertices []geom.Point3
	Source   string
	Layer    string
}

// FromEntity converts an extracted drawing entity to an alignment line.
func FromEntity(e geom.Entity) Line {
	pts := make([]geom.Point3, len(e.Vertices))
	for i, v := range e.Vertices {
		pts[i] = v.Point3
	}
	return Line{Vertices: pts, Source: e.Source, Layer: e.Layer}
}

// Length is the 3D length of the whole alignment.
func (l Line) Length() float64 {
	var sum float64
	for i := 0; i+1 < len(l.Vertices); i++ {
		sum += l.Vertices[i].Distance(l.Vertices[i+1])
	}
	return sum
}

// SegmentLengths returns the 3D length of every segment in order.
func (l Line) SegmentLengths() []float64 {
	if len(l.Vertices) < 2 {
		return nil
	}
	out := make([]float64, len(l.Vertices)-1)
	for i := range out {
		out[i] = l.Vertices[i].Distance(l.Vertices[i+1])
	}
	return out
}

// BearingAt is the horizontal bearing in radians of segment i → i+1.
func (l Line) BearingAt(i int) float64 {
	a, b := l.Vertices[i], l.Vertices[i+1]
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// SplitByMaxLength returns the line with extra vertices interpolated into
// every segment longer than maxLen, so no resulting segment exceeds it.
// Non-positive bounds leave the line unchanged.
func (l Line) SplitByMaxLength(maxLen float64) Line {
	if maxLen <= 0 || len(l.Vertices) < 2 {
		return l
	}
	pts := make([]geom.Point3, 0, len(l.Vertices))
	pts = append(pts, l.Vertices[0])
	for i := 0; i+1 < len(l.Vertices); i++ {
		a, b := l.Vertices[i], l.Vertices[i+1]
		if d := a.Distance(b); d > maxLen {
			n := int(math.Ceil(d / maxLen))
			for k := 1; k < n; k++ {
				pts = append(pts, a.Lerp(b, float64(k)/float64(n)))
			}
		}
		pts = append(pts, b)
	}
	return Line{Vertices: pts, Source: l.Source, Layer: l.Layer}
}
