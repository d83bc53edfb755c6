// Package extract flattens a raw drawing document into the uniform entity
// set the checks consume. Block references are instanced with their full
// transform chain, hatch boundaries become vertex runs (sampling arc edges),
// and every coordinate is normalized into world units before anything
// downstream sees it.
package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/gobwas/glob"

	"github.com/checkmateLL/dxf-checker/internal/drawing"
	"github.com/checkmateLL/dxf-checker/internal/geom"
	"github.com/checkmateLL/dxf-checker/internal/logging"
)

// maxBlockDepth bounds block nesting so malformed documents with
// self-referencing blocks cannot loop the worklist forever.
const maxBlockDepth = 32

// closureEps is the distance under which an explicit closing vertex is
// folded into ring topology. It sits far below any duplicate tolerance a
// drawing would use, so real near-duplicates are never swallowed.
const closureEps = 1e-9

// Options controls extraction.
type Options struct {
	// Scale converts drawing units into meters. Applied to every world
	// coordinate, including Z. Zero means 1.
	Scale float64
	// ArcStepDeg is the maximum angular step when sampling hatch arc
	// edges into vertices. Zero means 15 degrees.
	ArcStepDeg float64
	// Layers restricts extraction to entities whose layer matches at
	// least one pattern. Empty means no filtering.
	Layers []glob.Glob
}

// Warning records a drawing object the extractor had to skip or truncate,
// with enough context to find it in the source file.
type Warning struct {
	Source string
	Reason string
}

// Stats summarizes one extraction for the run trace.
type Stats struct {
	// Produced is the number of entities handed to the checks.
	Produced int
	// Direct counts source entities taken straight from model space,
	// Instanced those reached through block references, both by raw kind.
	Direct    map[drawing.Kind]int
	Instanced map[drawing.Kind]int
	// Unsupported counts skipped entities by raw kind.
	Unsupported map[drawing.Kind]int
	// ArcSamples is the number of vertices synthesized from arc edges.
	ArcSamples int
	// SkippedLayer counts entities excluded by the layer filters.
	SkippedLayer int

	Warnings []Warning
}

type workItem struct {
	raw      *drawing.RawEntity
	tf       geom.Transform
	viaBlock bool
	depth    int
}

// rawPt is a pre-transform vertex candidate.
type rawPt struct {
	p   geom.Point3
	arc bool
}

type extractor struct {
	doc      *drawing.Document
	opts     Options
	stats    *Stats
	entities []geom.Entity
}

// Flatten walks the document with an explicit worklist and returns the
// checkable entity set in document order, block contents inlined at their
// INSERT position. It never fails: anything it cannot use becomes a warning
// in the returned stats.
func Flatten(doc *drawing.Document, opts Options) ([]geom.Entity, *Stats) {
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.ArcStepDeg <= 0 {
		opts.ArcStepDeg = 15
	}

	x := &extractor{
		doc:  doc,
		opts: opts,
		stats: &Stats{
			Direct:      make(map[drawing.Kind]int),
			Instanced:   make(map[drawing.Kind]int),
			Unsupported: make(map[drawing.Kind]int),
		},
	}
	if doc == nil {
		return nil, x.stats
	}

	stack := make([]workItem, 0, len(doc.Entities))
	for i := len(doc.Entities) - 1; i >= 0; i-- {
		stack = append(stack, workItem{raw: &doc.Entities[i], tf: geom.Identity()})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.raw.Kind == drawing.KindInsert {
			stack = x.pushBlock(stack, item)
			continue
		}
		x.entity(item)
	}

	x.stats.Produced = len(x.entities)
	logging.L().Debug("drawing flattened",
		"entities", x.stats.Produced,
		"arc_samples", x.stats.ArcSamples,
		"skipped_layer", x.stats.SkippedLayer,
		"warnings", len(x.stats.Warnings))
	return x.entities, x.stats
}

// pushBlock resolves an INSERT and pushes the block body onto the worklist
// with the composed placement transform. The body is pushed in reverse so
// popping preserves its internal order.
func (x *extractor) pushBlock(stack []workItem, item workItem) []workItem {
	ref := item.raw.Insert
	if ref == nil {
		x.warn(item.raw, 0, "INSERT without placement data")
		return stack
	}
	body, ok := x.doc.Blocks[ref.Name]
	if !ok {
		x.warn(item.raw, 0, fmt.Sprintf("references unknown block %q", ref.Name))
		return stack
	}
	if item.depth+1 > maxBlockDepth {
		x.warn(item.raw, 0, fmt.Sprintf("block nesting deeper than %d, possible reference cycle", maxBlockDepth))
		return stack
	}

	scale := ref.Scale
	if scale.X == 0 {
		scale.X = 1
	}
	if scale.Y == 0 {
		scale.Y = 1
	}
	if scale.Z == 0 {
		scale.Z = 1
	}

	// Placement applies scale first, then rotation, then translation, and
	// only afterwards the transform of the containing space.
	placement := geom.Translate(ref.At.X, ref.At.Y, ref.At.Z).
		Multiply(geom.RotateZ(ref.RotationDeg * math.Pi / 180)).
		Multiply(geom.Scale(scale.X, scale.Y, scale.Z))
	tf := item.tf.Multiply(placement)

	x.count(item.viaBlock, drawing.KindInsert)
	for i := len(body) - 1; i >= 0; i-- {
		stack = append(stack, workItem{raw: &body[i], tf: tf, viaBlock: true, depth: item.depth + 1})
	}
	return stack
}

// entity converts one geometric raw entity into checkable entities.
func (x *extractor) entity(item workItem) {
	raw := item.raw
	if !x.layerMatches(raw.Layer) {
		x.stats.SkippedLayer++
		return
	}

	switch raw.Kind {
	case drawing.KindLine:
		if len(raw.Points) < 2 {
			x.warn(raw, 0, "LINE with fewer than two points")
			return
		}
		x.emit(item, string(raw.Kind), 0, toRawPts(raw.Points), false)

	case drawing.KindPolyline, drawing.KindLWPolyline, drawing.KindSpline:
		if len(raw.Points) == 0 {
			x.warn(raw, 0, fmt.Sprintf("%s without vertices", raw.Kind))
			return
		}
		x.emit(item, string(raw.Kind), 0, toRawPts(raw.Points), raw.Closed)

	case drawing.KindPoint:
		if len(raw.Points) == 0 {
			x.warn(raw, 0, "POINT without a location")
			return
		}
		x.emit(item, string(raw.Kind), 0, toRawPts(raw.Points[:1]), false)

	case drawing.KindHatch:
		if len(raw.Paths) == 0 {
			x.warn(raw, 0, "HATCH without boundary paths")
			return
		}
		for i := range raw.Paths {
			pts, ok := x.boundary(raw, i)
			if !ok {
				continue
			}
			x.emit(item, "HATCH_BOUNDARY", i, pts, raw.Paths[i].Closed)
		}

	default:
		x.stats.Unsupported[raw.Kind]++
		x.warn(raw, 0, fmt.Sprintf("unsupported entity kind %q", raw.Kind))
		return
	}
	x.count(item.viaBlock, raw.Kind)
}

// boundary converts one hatch boundary path into a vertex run.
func (x *extractor) boundary(raw *drawing.RawEntity, pathIdx int) ([]rawPt, bool) {
	path := &raw.Paths[pathIdx]

	if len(path.Points) > 0 {
		return toRawPts(path.Points), true
	}
	if len(path.Edges) == 0 {
		x.warn(raw, pathIdx, "hatch boundary path without points or edges")
		return nil, false
	}

	var pts []rawPt
	appendPt := func(p geom.Point3, arc bool) {
		if len(pts) > 0 && pts[len(pts)-1].p.Near(p, closureEps) {
			return
		}
		pts = append(pts, rawPt{p: p, arc: arc})
	}

	for i := range path.Edges {
		edge := &path.Edges[i]
		switch edge.Kind {
		case drawing.EdgeLine:
			appendPt(edge.Start, false)
			appendPt(edge.End, false)
		case drawing.EdgeArc:
			before := len(pts)
			for _, p := range sampleArc(edge, x.opts.ArcStepDeg) {
				appendPt(p, true)
			}
			x.stats.ArcSamples += len(pts) - before
		default:
			x.warn(raw, pathIdx, fmt.Sprintf("unsupported boundary edge type %q", edge.Kind))
		}
	}
	if len(pts) == 0 {
		x.warn(raw, pathIdx, "hatch boundary path produced no vertices")
		return nil, false
	}
	return pts, true
}

// sampleArc converts an arc edge into points dense enough to preserve
// curvature: at most stepDeg of sweep between consecutive samples, start
// and end always included.
func sampleArc(edge *drawing.BoundaryEdge, stepDeg float64) []geom.Point3 {
	start := edge.StartAngleDeg
	end := edge.EndAngleDeg
	if edge.CCW {
		for end <= start {
			end += 360
		}
	} else {
		for end >= start {
			end -= 360
		}
	}
	sweep := end - start

	steps := int(math.Ceil(math.Abs(sweep) / stepDeg))
	if steps < 1 {
		steps = 1
	}
	pts := make([]geom.Point3, 0, steps+1)
	for k := 0; k <= steps; k++ {
		ang := (start + sweep*float64(k)/float64(steps)) * math.Pi / 180
		pts = append(pts, geom.Point3{
			X: edge.Center.X + edge.Radius*math.Cos(ang),
			Y: edge.Center.Y + edge.Radius*math.Sin(ang),
			Z: edge.Center.Z,
		})
	}
	return pts
}

// emit transforms, scales and records one entity. An explicit closing
// vertex that lands on the first vertex is folded into the Closed flag so
// ring topology is represented exactly one way.
func (x *extractor) emit(item workItem, kind string, pathIdx int, pts []rawPt, closed bool) {
	if len(pts) >= 3 && pts[0].p.Near(pts[len(pts)-1].p, closureEps) {
		pts = pts[:len(pts)-1]
		closed = true
	}

	id := len(x.entities)
	e := geom.Entity{
		ID:       id,
		Source:   x.source(item.raw, kind, pathIdx, id),
		Kind:     kind,
		Layer:    item.raw.Layer,
		ViaBlock: item.viaBlock,
		Closed:   closed,
	}
	e.Vertices = make([]geom.Vertex, 0, len(pts))
	for i, rp := range pts {
		world := item.tf.Apply(rp.p).Mul(x.opts.Scale)
		e.Vertices = append(e.Vertices, geom.Vertex{
			Point3:  world,
			Entity:  id,
			Ordinal: i,
			FromArc: rp.arc,
		})
	}
	x.entities = append(x.entities, e)
}

func (x *extractor) source(raw *drawing.RawEntity, kind string, pathIdx, id int) string {
	s := raw.Handle
	if s == "" {
		s = fmt.Sprintf("%s-%d", strings.ToLower(kind), id)
	}
	if kind == "HATCH_BOUNDARY" {
		s = fmt.Sprintf("%s/%d", s, pathIdx)
	}
	return s
}

func (x *extractor) layerMatches(layer string) bool {
	if len(x.opts.Layers) == 0 {
		return true
	}
	for _, g := range x.opts.Layers {
		if g.Match(layer) {
			return true
		}
	}
	return false
}

func (x *extractor) count(viaBlock bool, kind drawing.Kind) {
	if viaBlock {
		x.stats.Instanced[kind]++
		return
	}
	x.stats.Direct[kind]++
}

func (x *extractor) warn(raw *drawing.RawEntity, pathIdx int, reason string) {
	source := raw.Handle
	if source == "" {
		source = strings.ToLower(string(raw.Kind))
	}
	if raw.Kind == drawing.KindHatch && len(raw.Paths) > 0 {
		source = fmt.Sprintf("%s/%d", source, pathIdx)
	}
	logging.L().Debug("entity skipped", "source", source, "reason", reason)
	x.stats.Warnings = append(x.stats.Warnings, Warning{Source: source, Reason: reason})
}

func toRawPts(points []geom.Point3) []rawPt {
	pts := make([]rawPt, 0, len(points))
	for _, p := range points {
		pts = append(pts, rawPt{p: p})
	}
	return pts
}
