// Package dxfio reads native DXF drawings into the neutral document model
// and writes defect markers back out as a DXF overlay.
package dxfio

import (
	"fmt"
	"io"
	"os"

	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"

	"github.com/checkmateLL/dxf-checker/internal/drawing"
	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// ReadWarning describes drawing content the DXF parser could not carry
// into the document model.
type ReadWarning struct {
	Source string
	Reason string
}

// Read parses a DXF stream into a Document. Polylines map with their full
// 3D vertices; lwpolylines are planar and read with Z = 0. Entity kinds
// the parser does not expose, and block definitions (which the parser
// reports without INSERT placements), come back as warnings so callers
// can tell the user what the file lost.
func Read(r io.Reader) (*drawing.Document, []ReadWarning, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", drawing.ErrInputRead, err)
	}

	out := &drawing.Document{}
	var warns []ReadWarning
	for i, ent := range doc.Entities.Entities {
		switch e := ent.(type) {
		case *entities.Polyline:
			raw := drawing.RawEntity{
				Kind:  drawing.KindPolyline,
				Layer: e.LayerName,
			}
			for _, v := range e.Vertices {
				raw.Points = append(raw.Points, geom.Pt3(v.Location.X, v.Location.Y, v.Location.Z))
			}
			out.Entities = append(out.Entities, raw)
		case *entities.LWPolyline:
			raw := drawing.RawEntity{
				Kind:   drawing.KindLWPolyline,
				Layer:  e.LayerName,
				Closed: e.Closed,
			}
			for _, p := range e.Points {
				raw.Points = append(raw.Points, geom.Pt3(p.Point.X, p.Point.Y, 0))
			}
			out.Entities = append(out.Entities, raw)
		default:
			warns = append(warns, ReadWarning{
				Source: fmt.Sprintf("entity %d", i),
				Reason: fmt.Sprintf("entity type %T not supported by the DXF reader", ent),
			})
		}
	}

	if n := len(doc.Blocks); n > 0 {
		warns = append(warns, ReadWarning{
			Source: "blocks",
			Reason: fmt.Sprintf("%d block definitions present; the DXF reader does not instance them", n),
		})
	}
	return out, warns, nil
}

// ReadFile opens and parses a DXF drawing from disk.
func ReadFile(path string) (*drawing.Document, []ReadWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", drawing.ErrInputRead, err)
	}
	defer f.Close()
	return Read(f)
}
