package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON exports markers as a GeoJSON FeatureCollection of points.
// Geometry is the plan-view location; elevation and the defect attributes
// ride along as properties, one feature per marker.
func WriteGeoJSON(w io.Writer, markers []Marker) error {
	fc := geojson.NewFeatureCollection()
	for _, m := range markers {
		f := geojson.NewFeature(orb.Point{m.Location.X, m.Location.Y})
		f.Properties["id"] = m.ID
		f.Properties["check"] = string(m.Kind)
		f.Properties["layer"] = m.Layer
		f.Properties["color"] = m.Color
		f.Properties["z"] = m.Location.Z
		f.Properties["description"] = m.Description
		f.Properties["source_entity"] = m.SourceEntity
		if m.Measurement != nil {
			f.Properties["measurement"] = *m.Measurement
		}
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteGeoJSONFile writes the GeoJSON export to path.
func WriteGeoJSONFile(path string, markers []Marker) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating geojson file: %w", err)
	}
	defer f.Close()

	if err := WriteGeoJSON(f, markers); err != nil {
		return err
	}
	return f.Close()
}
