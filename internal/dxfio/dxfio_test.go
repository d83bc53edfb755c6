package dxfio

// Test Plan for dxfio:
// 1. WriteMarkers emits a POINT per marker on its ERROR_* layer, plus a
//    halo CIRCLE when a radius is given.
// 2. A zero halo radius writes points only.
// 3. An empty marker set still produces a valid, layerless overlay.
// 4. DefaultMarkerPath swaps any extension for _errors.dxf.
// 5. ReadFile wraps missing-file failures in ErrInputRead.
//
// Reading real DXF streams is covered indirectly through the CLI; the
// parser's own corpus exercises the format edge cases.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/drawing"
	"github.com/checkmateLL/dxf-checker/internal/geom"
	"github.com/checkmateLL/dxf-checker/internal/report"
)

func TestWriteMarkers(t *testing.T) {
	t.Parallel()

	long := 62.5
	markers := []report.Marker{
		{ID: "ERR_3D_LONG_0001", Layer: "ERROR_TOO_LONG", Color: 1, Kind: checks.TooLong, Location: geom.Pt3(10, 20, 3), Measurement: &long},
		{ID: "ERR_3D_LONG_0002", Layer: "ERROR_TOO_LONG", Color: 1, Kind: checks.TooLong, Location: geom.Pt3(40, 50, 0)},
		{ID: "ERR_XING_0001", Layer: "ERROR_UNCONNECTED_CROSSINGS", Color: 5, Kind: checks.UnconnectedCrossing, Location: geom.Pt3(-7, 8, 1)},
	}

	path := filepath.Join(t.TempDir(), "site_errors.dxf")
	require.NoError(t, WriteMarkers(path, markers, 0.5))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	// Expect: both defect layers declared, one POINT per marker, one halo
	// CIRCLE per marker.
	assert.Contains(t, text, "ERROR_TOO_LONG")
	assert.Contains(t, text, "ERROR_UNCONNECTED_CROSSINGS")
	assert.Equal(t, 3, strings.Count(text, "POINT"))
	assert.Equal(t, 3, strings.Count(text, "CIRCLE"))
}

func TestWriteMarkersNoHalo(t *testing.T) {
	t.Parallel()

	markers := []report.Marker{
		{ID: "ERR_DUP_VERT_0001", Layer: "ERROR_DUPLICATE_VERTS", Color: 3, Kind: checks.DuplicateVertices, Location: geom.Pt3(1, 2, 0)},
	}

	path := filepath.Join(t.TempDir(), "out.dxf")
	require.NoError(t, WriteMarkers(path, markers, 0))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.Equal(t, 1, strings.Count(text, "POINT"))
	assert.Equal(t, 0, strings.Count(text, "CIRCLE"))
}

func TestWriteMarkersEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clean.dxf")
	require.NoError(t, WriteMarkers(path, nil, 0.5))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Expect: a valid drawing skeleton with no defect layers.
	assert.NotEmpty(t, raw)
	assert.NotContains(t, string(raw), "ERROR_")
}

func TestDefaultMarkerPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
	}{
		{"site.dxf", "site_errors.dxf"},
		{"plans/survey.DXF", "plans/survey_errors.dxf"},
		{"drawing.json", "drawing_errors.dxf"},
		{"noext", "noext_errors.dxf"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DefaultMarkerPath(tc.input), tc.input)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, _, err := ReadFile(filepath.Join(t.TempDir(), "absent.dxf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, drawing.ErrInputRead))
}
