// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package batch

import "github.com/pop-os/iced"

// sampleGradient evaluates a linear gradient at a point and returns
// the packed premultiplied color. The gradient's endpoints are given
// in the same coordinate space as the point; the projection of the
// point onto the start-end segment is clamped to [0, 1], so geometry
// outside the segment takes the nearest end color.
func sampleGradient(g *iced.Gradient, p iced.Point) [4]float32 {
	if len(g.Stops) == 0 {
		return [4]float32{}
	}
	d := g.End.Sub(g.Start)
	len2 := d.Dot(d)
	t := float32(0)
	if len2 > 0 {
		t = p.Sub(g.Start).Dot(d) / len2
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color.Pack()
	}
	last := g.Stops[len(g.Stops)-1]
	if t >= last.Offset {
		return last.Color.Pack()
	}
	for i := 1; i < len(g.Stops); i++ {
		hi := g.Stops[i]
		if t > hi.Offset {
			continue
		}
		lo := g.Stops[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color.Pack()
		}
		return lerpColor(lo.Color, hi.Color, (t-lo.Offset)/span).Pack()
	}
	return last.Color.Pack()
}

// transformGradient maps the gradient's endpoints through a
// transform, leaving the stops untouched.
func transformGradient(g *iced.Gradient, xf iced.Transformation) iced.Gradient {
	return iced.Gradient{
		Start: xf.Apply(g.Start),
		End:   xf.Apply(g.End),
		Stops: g.Stops,
	}
}

func lerpColor(a, b iced.Color, t float32) iced.Color {
	return iced.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
