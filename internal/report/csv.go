package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{"id", "check", "layer", "x", "y", "z", "measurement", "description", "source_entity"}

// WriteCSV exports markers as flat rows for spreadsheet review. Markers
// without a measurement leave the column empty.
func WriteCSV(w io.Writer, markers []Marker) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, m := range markers {
		measurement := ""
		if m.Measurement != nil {
			measurement = formatCoord(*m.Measurement)
		}
		rec := []string{
			m.ID,
			string(m.Kind),
			m.Layer,
			formatCoord(m.Location.X),
			formatCoord(m.Location.Y),
			formatCoord(m.Location.Z),
			measurement,
			m.Description,
			m.SourceEntity,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row %s: %w", m.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV export to path.
func WriteCSVFile(path string, markers []Marker) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, markers); err != nil {
		return err
	}
	return f.Close()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
