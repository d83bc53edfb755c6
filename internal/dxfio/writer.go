package dxfio

import (
	"path/filepath"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/checkmateLL/dxf-checker/internal/report"
)

// WriteMarkers renders defect markers into a fresh DXF overlay drawing.
// Each marker becomes a POINT on its ERROR_* layer, colored per the layer
// table; a positive halo radius adds a circle around the point so markers
// stay visible when zoomed out. The overlay is meant to be xref'd or
// pasted over the original drawing.
func WriteMarkers(path string, markers []report.Marker, halo float64) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	layers := make(map[string]bool)
	for i := range markers {
		m := &markers[i]
		if !layers[m.Layer] {
			d.AddLayer(m.Layer, color.ColorNumber(m.Color), dxf.DefaultLineType, true)
			layers[m.Layer] = true
		}
		d.ChangeLayer(m.Layer)
		d.Point(m.Location.X, m.Location.Y, m.Location.Z)
		if halo > 0 {
			d.Circle(m.Location.X, m.Location.Y, m.Location.Z, halo)
		}
	}
	return d.SaveAs(path)
}

// DefaultMarkerPath places the marker overlay next to the input drawing,
// with the extension swapped for an _errors.dxf suffix.
func DefaultMarkerPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_errors.dxf"
}
