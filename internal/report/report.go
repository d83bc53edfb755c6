// Package report turns check results into deliverables: placed markers for
// the error-layer DXF, GeoJSON and CSV exports for GIS tooling, and the run
// trace that feeds logging and history. It renders nothing itself; output
// backends consume what it builds.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/extract"
	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Marker is one placed defect marker, ready for any output backend.
type Marker struct {
	// ID is stable across runs on identical input: per-kind sequence
	// numbers in run order.
	ID    string
	Layer string
	// Color is an AutoCAD color index.
	Color        int
	Kind         checks.Kind
	Location     geom.Point3
	Description  string
	Measurement  *float64
	SourceEntity string
}

// LayerFor returns the marker layer name and AutoCAD color index for a
// check kind. Every kind owns a fixed layer so reviewers can toggle defect
// classes independently in their CAD viewer.
func LayerFor(kind checks.Kind) (string, int) {
	switch kind {
	case checks.TooLong:
		return "ERROR_TOO_LONG", 1
	case checks.TooShort:
		return "ERROR_SHORT_SEGMENTS", 2
	case checks.DuplicateVertices:
		return "ERROR_DUPLICATE_VERTS", 3
	case checks.UnconnectedCrossing:
		return "ERROR_UNCONNECTED_CROSSINGS", 5
	case checks.ZAnomaly:
		return "ERROR_Z_ANOMALY", 6
	case checks.ZeroElevation:
		return "ERROR_ZERO_ELEVATION", 30
	}
	return "ERROR_UNKNOWN", 7
}

// BuildMarkers flattens check results into markers with per-kind sequential
// ids (ERR_<TAG>_0001, ...). Results keep their run order, so ids are
// reproducible for identical inputs.
func BuildMarkers(results []checks.Result) []Marker {
	var markers []Marker
	seq := make(map[checks.Kind]int)
	for _, res := range results {
		for _, d := range res.Defects {
			seq[d.Kind]++
			layer, color := LayerFor(d.Kind)
			markers = append(markers, Marker{
				ID:           fmt.Sprintf("ERR_%s_%04d", d.Kind.Tag(), seq[d.Kind]),
				Layer:        layer,
				Color:        color,
				Kind:         d.Kind,
				Location:     d.Location,
				Description:  d.Description,
				Measurement:  d.Measurement,
				SourceEntity: d.SourceEntity,
			})
		}
	}
	return markers
}

// CheckTrace is the per-check slice of a run trace.
type CheckTrace struct {
	Kind     checks.Kind
	Defects  int
	Duration time.Duration
	Failure  string
}

// RunTrace captures what one run did, as data: input, extraction stats,
// per-check outcomes and totals. The CLI logs it, history persists it.
type RunTrace struct {
	RunID     string
	Input     string
	StartedAt time.Time
	Duration  time.Duration

	EntityCount int
	Extract     *extract.Stats

	Checks       []CheckTrace
	TotalDefects int
}

// NewRunTrace starts a trace for one input file.
func NewRunTrace(input string, stats *extract.Stats, entityCount int) *RunTrace {
	return &RunTrace{
		RunID:       uuid.New().String(),
		Input:       input,
		StartedAt:   time.Now(),
		EntityCount: entityCount,
		Extract:     stats,
	}
}

// AddResults folds check results into the trace.
func (tr *RunTrace) AddResults(results []checks.Result) {
	for _, res := range results {
		tr.Checks = append(tr.Checks, CheckTrace{
			Kind:     res.Kind,
			Defects:  len(res.Defects),
			Duration: res.Duration,
			Failure:  res.Failure,
		})
		tr.TotalDefects += len(res.Defects)
	}
}

// Finish stamps the total duration.
func (tr *RunTrace) Finish() {
	tr.Duration = time.Since(tr.StartedAt)
}

// FailedChecks returns the traces of checks that crashed.
func (tr *RunTrace) FailedChecks() []CheckTrace {
	var failed []CheckTrace
	for _, c := range tr.Checks {
		if c.Failure != "" {
			failed = append(failed, c)
		}
	}
	return failed
}

// WarningCount is the number of extraction warnings carried by the trace.
func (tr *RunTrace) WarningCount() int {
	if tr.Extract == nil {
		return 0
	}
	return len(tr.Extract.Warnings)
}
