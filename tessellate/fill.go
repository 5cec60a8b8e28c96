// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build !nocanvas

package tessellate

import (
	"sort"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/scene"
)

// fillEdge is a non-horizontal segment prepared for the sweep.
// Winding is +1 for edges pointing down in screen space, -1 for edges
// pointing up.
type fillEdge struct {
	yMin, yMax float32
	// x and slope give the intersection x = x + slope*(y - yMin).
	x, slope float32
	winding  int
}

func (e fillEdge) xAt(y float32) float32 {
	return e.x + e.slope*(y-e.yMin)
}

// buildEdges collects sweep edges from closed contours.
func buildEdges(contours []contour) []fillEdge {
	var edges []fillEdge
	for _, c := range contours {
		n := len(c)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			a := c[i]
			b := c[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			w := 1
			if a.Y > b.Y {
				a, b = b, a
				w = -1
			}
			edges = append(edges, fillEdge{
				yMin:    a.Y,
				yMax:    b.Y,
				x:       a.X,
				slope:   (b.X - a.X) / (b.Y - a.Y),
				winding: w,
			})
		}
	}
	return edges
}

// fillContours sweeps the edge list top to bottom, slicing the plane
// into horizontal slabs at every edge endpoint. Within a slab the set
// of active edges is constant, so interior spans become trapezoids.
func fillContours(contours []contour, rule scene.FillRule) *Mesh {
	edges := buildEdges(contours)
	if len(edges) == 0 {
		return &Mesh{}
	}

	// Slab boundaries are the sorted distinct edge endpoint ys, plus
	// every y where two edges cross. Edges crossing mid-slab would
	// swap their left-right order there, so crossings must start a new
	// slab for the winding scan to stay correct on self-intersecting
	// contours.
	ys := make([]float32, 0, len(edges)*2)
	for _, e := range edges {
		ys = append(ys, e.yMin, e.yMax)
	}
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if y, ok := crossingY(edges[i], edges[j]); ok {
				ys = append(ys, y)
			}
		}
	}
	sort.Slice(ys, func(i, j int) bool { return ys[i] < ys[j] })
	ys = dedupFloats(ys)

	mesh := &Mesh{}
	active := make([]fillEdge, 0, len(edges))

	for i := 0; i+1 < len(ys); i++ {
		top, bottom := ys[i], ys[i+1]
		if bottom-top < 1e-6 {
			continue
		}
		mid := (top + bottom) / 2

		active = active[:0]
		for _, e := range edges {
			if e.yMin <= mid && mid < e.yMax {
				active = append(active, e)
			}
		}
		if len(active) < 2 {
			continue
		}
		// Order by x at the slab midline; slope breaks ties at shared
		// vertices so the order is total and deterministic.
		sort.Slice(active, func(a, b int) bool {
			xa, xb := active[a].xAt(mid), active[b].xAt(mid)
			if xa != xb {
				return xa < xb
			}
			return active[a].slope < active[b].slope
		})

		winding := 0
		for j := 0; j+1 < len(active); j++ {
			winding += active[j].winding
			if !inside(winding, rule) {
				continue
			}
			l, r := active[j], active[j+1]
			emitTrapezoid(mesh,
				iced.Point{X: l.xAt(top), Y: top},
				iced.Point{X: r.xAt(top), Y: top},
				iced.Point{X: r.xAt(bottom), Y: bottom},
				iced.Point{X: l.xAt(bottom), Y: bottom},
			)
		}
	}
	return mesh
}

// crossingY returns the y at which two edges intersect, if that y lies
// strictly inside both edges' y-ranges. Crossings at shared endpoints
// are already slab boundaries and are not reported.
func crossingY(a, b fillEdge) (float32, bool) {
	if a.slope == b.slope {
		return 0, false
	}
	y := (b.x - a.x + a.slope*a.yMin - b.slope*b.yMin) / (a.slope - b.slope)
	lo := max(a.yMin, b.yMin)
	hi := min(a.yMax, b.yMax)
	if y <= lo || y >= hi {
		return 0, false
	}
	return y, true
}

func inside(winding int, rule scene.FillRule) bool {
	if rule == scene.EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// emitTrapezoid appends a trapezoid as two triangles, degenerating to
// one triangle when an edge pair meets at a shared vertex.
func emitTrapezoid(m *Mesh, tl, tr, br, bl iced.Point) {
	topDegenerate := tl.X >= tr.X
	bottomDegenerate := bl.X >= br.X
	if topDegenerate && bottomDegenerate {
		return
	}

	base := uint32(len(m.Vertices))
	switch {
	case topDegenerate:
		m.Vertices = append(m.Vertices,
			Vertex{tl.X, tl.Y}, Vertex{br.X, br.Y}, Vertex{bl.X, bl.Y})
		m.Indices = append(m.Indices, base, base+1, base+2)
	case bottomDegenerate:
		m.Vertices = append(m.Vertices,
			Vertex{tl.X, tl.Y}, Vertex{tr.X, tr.Y}, Vertex{bl.X, bl.Y})
		m.Indices = append(m.Indices, base, base+1, base+2)
	default:
		m.Vertices = append(m.Vertices,
			Vertex{tl.X, tl.Y}, Vertex{tr.X, tr.Y},
			Vertex{br.X, br.Y}, Vertex{bl.X, bl.Y})
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base, base+2, base+3)
	}
}

func dedupFloats(ys []float32) []float32 {
	out := ys[:0]
	for i, y := range ys {
		if i == 0 || y != out[len(out)-1] {
			out = append(out, y)
		}
	}
	return out
}
