// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/pop-os/iced"
)

// PathVerb represents a path construction command.
type PathVerb uint8

// Path verb constants.
const (
	// VerbMoveTo moves the current point without drawing.
	VerbMoveTo PathVerb = iota
	// VerbLineTo draws a line to the specified point.
	VerbLineTo
	// VerbQuadTo draws a quadratic Bezier curve.
	VerbQuadTo
	// VerbCubicTo draws a cubic Bezier curve.
	VerbCubicTo
	// VerbClose closes the current subpath.
	VerbClose
)

// String returns a human-readable name for the verb.
func (v PathVerb) String() string {
	switch v {
	case VerbMoveTo:
		return "MoveTo"
	case VerbLineTo:
		return "LineTo"
	case VerbQuadTo:
		return "QuadTo"
	case VerbCubicTo:
		return "CubicTo"
	case VerbClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// PointCount returns the number of coordinates this verb consumes.
func (v PathVerb) PointCount() int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 2 // x, y
	case VerbQuadTo:
		return 4 // cx, cy, x, y
	case VerbCubicTo:
		return 6 // c1x, c1y, c2x, c2y, x, y
	default:
		return 0
	}
}

// pathID is the source of unique path identities.
var pathID atomic.Uint64

// Path is a vector path built from move/line/curve verbs.
// It stores commands (verbs) and coordinate data separately for
// efficient iteration during flattening and tessellation.
//
// Every path carries a process-unique identity and a geometry version.
// The version is bumped on each mutation; tessellation results are
// memoized by (identity, version), so reusing a Path value across
// frames without mutating it makes its triangulation cache-stable.
type Path struct {
	id      uint64
	version uint64

	verbs  []PathVerb
	points []float32
	bounds iced.Rectangle
	start  [2]float32 // start of current subpath, for Close
	cursor [2]float32 // current position
	empty  bool
}

// NewPath creates a new empty path with a fresh identity.
func NewPath() *Path {
	return &Path{
		id:     pathID.Add(1),
		verbs:  make([]PathVerb, 0, 16),
		points: make([]float32, 0, 64),
		empty:  true,
	}
}

// ID returns the process-unique identity of the path.
func (p *Path) ID() uint64 { return p.id }

// Version returns the geometry version, incremented on every mutation.
func (p *Path) Version() uint64 { return p.version }

// IsEmpty reports whether the path has no drawing commands.
func (p *Path) IsEmpty() bool { return len(p.verbs) == 0 }

// Bounds returns the bounding box of the path's control points.
func (p *Path) Bounds() iced.Rectangle { return p.bounds }

// Verbs returns the path's verb sequence. The slice is owned by the
// path and must not be mutated.
func (p *Path) Verbs() []PathVerb { return p.verbs }

// Points returns the path's coordinate data, laid out per verb.
// The slice is owned by the path and must not be mutated.
func (p *Path) Points() []float32 { return p.points }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float32) {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.points = append(p.points, x, y)
	p.start = [2]float32{x, y}
	p.cursor = p.start
	p.grow(x, y)
	p.version++
}

// LineTo draws a line from the current point to (x, y).
func (p *Path) LineTo(x, y float32) {
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, x, y)
	p.cursor = [2]float32{x, y}
	p.grow(x, y)
	p.version++
}

// QuadTo draws a quadratic Bezier curve to (x, y) with control point
// (cx, cy).
func (p *Path) QuadTo(cx, cy, x, y float32) {
	p.verbs = append(p.verbs, VerbQuadTo)
	p.points = append(p.points, cx, cy, x, y)
	p.cursor = [2]float32{x, y}
	p.grow(cx, cy)
	p.grow(x, y)
	p.version++
}

// CubicTo draws a cubic Bezier curve to (x, y) with control points
// (c1x, c1y) and (c2x, c2y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	p.verbs = append(p.verbs, VerbCubicTo)
	p.points = append(p.points, c1x, c1y, c2x, c2y, x, y)
	p.cursor = [2]float32{x, y}
	p.grow(c1x, c1y)
	p.grow(c2x, c2y)
	p.grow(x, y)
	p.version++
}

// Close closes the current subpath with a line back to its start.
func (p *Path) Close() {
	p.verbs = append(p.verbs, VerbClose)
	p.cursor = p.start
	p.version++
}

// Rectangle appends an axis-aligned rectangle as a closed subpath.
func (p *Path) Rectangle(r iced.Rectangle) {
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.X+r.Width, r.Y)
	p.LineTo(r.X+r.Width, r.Y+r.Height)
	p.LineTo(r.X, r.Y+r.Height)
	p.Close()
}

// Circle appends a circle as a closed subpath of four cubic arcs.
func (p *Path) Circle(center iced.Point, radius float32) {
	// Magic constant for approximating a quarter circle with a cubic.
	const k = 0.5522847498
	cx, cy, r := center.X, center.Y, radius
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+k*r, cx+k*r, cy+r, cx, cy+r)
	p.CubicTo(cx-k*r, cy+r, cx-r, cy+k*r, cx-r, cy)
	p.CubicTo(cx-r, cy-k*r, cx-k*r, cy-r, cx, cy-r)
	p.CubicTo(cx+k*r, cy-r, cx+r, cy-k*r, cx+r, cy)
	p.Close()
}

func (p *Path) grow(x, y float32) {
	if p.empty {
		p.bounds = iced.Rect(x, y, 0, 0)
		p.empty = false
		return
	}
	x0 := math32.Min(p.bounds.X, x)
	y0 := math32.Min(p.bounds.Y, y)
	x1 := math32.Max(p.bounds.X+p.bounds.Width, x)
	y1 := math32.Max(p.bounds.Y+p.bounds.Height, y)
	p.bounds = iced.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
