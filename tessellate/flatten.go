// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package tessellate

import (
	"github.com/pop-os/iced"
	"github.com/pop-os/iced/scene"
)

// Tolerance is the maximum distance, in pixels, between a curve and
// its flattened approximation. Fixed so flattening is deterministic.
const Tolerance = 0.25

// contour is one flattened subpath. Fill treats every contour as
// closed.
type contour []iced.Point

// flatten converts a path into line-segment contours, applying the
// transform to every point before flattening so the tolerance holds in
// device space.
func flatten(path *scene.Path, transform iced.Transformation) []contour {
	verbs := path.Verbs()
	points := path.Points()
	identity := transform.IsIdentity()

	pt := func(i int) iced.Point {
		p := iced.Point{X: points[i], Y: points[i+1]}
		if identity {
			return p
		}
		return transform.Apply(p)
	}

	var out []contour
	var cur contour
	var start iced.Point
	idx := 0

	flush := func() {
		if len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
	}

	for _, verb := range verbs {
		switch verb {
		case scene.VerbMoveTo:
			flush()
			start = pt(idx)
			cur = append(cur, start)
		case scene.VerbLineTo:
			cur = append(cur, pt(idx))
		case scene.VerbQuadTo:
			if len(cur) > 0 {
				cur = flattenQuad(cur, cur[len(cur)-1], pt(idx), pt(idx+2))
			}
		case scene.VerbCubicTo:
			if len(cur) > 0 {
				cur = flattenCubic(cur, cur[len(cur)-1], pt(idx), pt(idx+2), pt(idx+4))
			}
		case scene.VerbClose:
			if len(cur) > 0 {
				cur = append(cur, start)
			}
		}
		idx += verb.PointCount()
	}
	flush()
	return out
}

func flattenQuad(dst contour, p0, c, p1 iced.Point) contour {
	if distanceToSegment(c, p0, p1) <= Tolerance {
		return append(dst, p1)
	}
	q0 := lerp(p0, c, 0.5)
	q1 := lerp(c, p1, 0.5)
	mid := lerp(q0, q1, 0.5)
	dst = flattenQuad(dst, p0, q0, mid)
	return flattenQuad(dst, mid, q1, p1)
}

func flattenCubic(dst contour, p0, c1, c2, p1 iced.Point) contour {
	d1 := distanceToSegment(c1, p0, p1)
	d2 := distanceToSegment(c2, p0, p1)
	if max(d1, d2) <= Tolerance {
		return append(dst, p1)
	}
	// de Casteljau subdivision at t = 0.5.
	q0 := lerp(p0, c1, 0.5)
	q1 := lerp(c1, c2, 0.5)
	q2 := lerp(c2, p1, 0.5)
	r0 := lerp(q0, q1, 0.5)
	r1 := lerp(q1, q2, 0.5)
	mid := lerp(r0, r1, 0.5)
	dst = flattenCubic(dst, p0, q0, r0, mid)
	return flattenCubic(dst, mid, r1, q2, p1)
}

func lerp(a, b iced.Point, t float32) iced.Point {
	return iced.Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// distanceToSegment returns the distance from p to the segment ab.
func distanceToSegment(p, a, b iced.Point) float32 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-12 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
