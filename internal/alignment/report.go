package alignment

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Deviation is the per-vertex error between the drawn and idealized
// geometry.
type Deviation struct {
	Index           int
	Original        geom.Point3
	Ideal           geom.Point3
	HorizontalError float64
	ElevationError  float64
}

// Report pairs a drawn line with its idealized form and the per-vertex
// deviations between them.
type Report struct {
	Original   Line
	Ideal      Line
	Deviations []Deviation
}

// Summary collapses a report to its worst errors.
type Summary struct {
	MaxHorizontal float64
	MaxElevation  float64
	Count         int
}

// Compare measures how far each drawn vertex sits from its idealized
// counterpart, pairing vertices index by index up to the shorter line.
func Compare(original, ideal Line) Report {
	n := len(original.Vertices)
	if len(ideal.Vertices) < n {
		n = len(ideal.Vertices)
	}

	devs := make([]Deviation, 0, n)
	for i := 0; i < n; i++ {
		o, d := original.Vertices[i], ideal.Vertices[i]
		devs = append(devs, Deviation{
			Index:           i,
			Original:        o,
			Ideal:           d,
			HorizontalError: o.DistanceXY(d),
			ElevationError:  math.Abs(o.Z - d.Z),
		})
	}
	return Report{Original: original, Ideal: ideal, Deviations: devs}
}

// Validate idealizes one line under the constraints and compares the
// drawn geometry against it.
func Validate(l Line, c Constraints) Report {
	return Compare(l, c.Idealize(l))
}

// Summary returns the worst horizontal and elevation errors.
func (r Report) Summary() Summary {
	s := Summary{Count: len(r.Deviations)}
	for _, d := range r.Deviations {
		s.MaxHorizontal = math.Max(s.MaxHorizontal, d.HorizontalError)
		s.MaxElevation = math.Max(s.MaxElevation, d.ElevationError)
	}
	return s
}

// Violations counts deviations beyond each constraint tolerance.
func (r Report) Violations(c Constraints) (horizontal, elevation int) {
	for _, d := range r.Deviations {
		if d.HorizontalError > c.HorizontalTol {
			horizontal++
		}
		if d.ElevationError > c.ElevationTol {
			elevation++
		}
	}
	return horizontal, elevation
}

// Exceeds reports whether any deviation breaks a tolerance.
func (r Report) Exceeds(c Constraints) bool {
	h, e := r.Violations(c)
	return h > 0 || e > 0
}

var csvHeader = []string{
	"source", "index",
	"orig_x", "orig_y", "orig_z",
	"ideal_x", "ideal_y", "ideal_z",
	"horizontal_error", "elevation_error",
}

// WriteCSV writes the deviation rows of all reports to w, each row tagged
// with its source entity.
func WriteCSV(w io.Writer, reports []Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing deviation header: %w", err)
	}
	for _, r := range reports {
		for _, d := range r.Deviations {
			row := []string{
				r.Original.Source,
				strconv.Itoa(d.Index),
				formatFloat(d.Original.X), formatFloat(d.Original.Y), formatFloat(d.Original.Z),
				formatFloat(d.Ideal.X), formatFloat(d.Ideal.Y), formatFloat(d.Ideal.Z),
				formatFloat(d.HorizontalError), formatFloat(d.ElevationError),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing deviation row %s/%d: %w", r.Original.Source, d.Index, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the deviation rows of all reports to path.
func WriteCSVFile(path string, reports []Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating deviation csv: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, reports); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
