// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build !nocanvas

package tessellate

import (
	"github.com/chewxy/math32"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/scene"
)

// expandStroke converts stroked contours into closed fill outlines.
// Each contour gets an offset path on both sides of its spine: the
// forward side runs with the contour, the backward side is reversed,
// and caps or joins connect them. Filling the result with the nonzero
// rule yields the stroked shape; overlaps at inner joins cancel out.
func expandStroke(contours []contour, style scene.StrokeStyle) []contour {
	radius := style.Width / 2
	if radius <= 0 {
		return nil
	}
	var out []contour
	for _, c := range contours {
		c = dropRepeats(c)
		if len(c) < 2 {
			continue
		}
		closed := c[0] == c[len(c)-1]
		if closed {
			c = c[:len(c)-1]
			if len(c) < 2 {
				continue
			}
		}
		e := strokeExpander{style: style, radius: radius}
		out = append(out, e.expand(c, closed)...)
	}
	return out
}

type strokeExpander struct {
	style  scene.StrokeStyle
	radius float32

	forward  contour
	backward contour
}

func (e *strokeExpander) expand(spine contour, closed bool) []contour {
	n := len(spine)
	segTan := func(i int) iced.Point {
		return spine[(i+1)%n].Sub(spine[i])
	}
	segCount := n - 1
	if closed {
		segCount = n
	}

	// Walk the spine once, building both offset sides.
	for i := 0; i < segCount; i++ {
		tan := segTan(i)
		norm := normal(tan, e.radius)
		a, b := spine[i], spine[(i+1)%n]

		if i == 0 {
			e.forward = append(e.forward, a.Sub(norm))
			e.backward = append(e.backward, a.Add(norm))
		} else {
			e.join(a, segTan(i-1), tan)
		}
		e.forward = append(e.forward, b.Sub(norm))
		e.backward = append(e.backward, b.Add(norm))
	}

	if closed {
		// The seam between last and first segment needs its join too.
		e.join(spine[0], segTan(segCount-1), segTan(0))
		fwd := append(contour{}, e.forward...)
		bwd := reverse(e.backward)
		return []contour{closeContour(fwd), closeContour(bwd)}
	}

	lastTan := segTan(segCount - 1)
	firstTan := segTan(0)

	// One outline: forward side, end cap, reversed backward side,
	// start cap.
	outline := append(contour{}, e.forward...)
	outline = e.cap(outline, spine[n-1],
		normal(lastTan, e.radius).Mul(-1), scaleTo(lastTan, e.radius))
	outline = append(outline, reverse(e.backward)...)
	outline = e.cap(outline, spine[0],
		normal(firstTan, e.radius), scaleTo(firstTan, -e.radius))
	return []contour{closeContour(outline)}
}

// cap closes off one end of an open stroke. The outline has arrived at
// center+norm and must reach center-norm; out points past the spine
// end, away from the stroke, scaled to the radius.
func (e *strokeExpander) cap(dst contour, center, norm, out iced.Point) contour {
	switch e.style.Cap {
	case scene.CapRound:
		// Two quarter arcs through the extension point keep the bulge
		// on the outside.
		dst = appendArc(dst, center, norm, out)
		return appendArc(dst, center, out, norm.Mul(-1))
	case scene.CapSquare:
		dst = append(dst, center.Add(norm).Add(out))
		return append(dst, center.Sub(norm).Add(out))
	default:
		return dst
	}
}

// scaleTo returns v scaled to the given length.
func scaleTo(v iced.Point, length float32) iced.Point {
	l := v.Length()
	if l < 1e-12 {
		return iced.Point{}
	}
	return v.Mul(length / l)
}

// join connects both offset sides at an interior spine point. The
// outer side gets the configured join geometry; the inner side simply
// connects, leaving a small overlap the nonzero fill cancels.
func (e *strokeExpander) join(p iced.Point, tanIn, tanOut iced.Point) {
	normIn := normal(tanIn, e.radius)
	normOut := normal(tanOut, e.radius)
	cross := tanIn.Cross(tanOut)
	dot := tanIn.Dot(tanOut)

	// Near-straight continuation.
	if dot > 0 && math32.Abs(cross) < 1e-6*math32.Hypot(cross, dot) {
		e.forward = append(e.forward, p.Sub(normOut))
		e.backward = append(e.backward, p.Add(normOut))
		return
	}

	switch e.style.Join {
	case scene.JoinMiter:
		e.miterJoin(p, normIn, normOut, cross, dot)
	case scene.JoinRound:
		e.roundJoin(p, normIn, normOut, cross)
	default:
		e.forward = append(e.forward, p.Sub(normOut))
		e.backward = append(e.backward, p.Add(normOut))
	}
}

func (e *strokeExpander) miterJoin(p, normIn, normOut iced.Point, cross, dot float32) {
	hypot := math32.Hypot(cross, dot)
	limitSq := e.style.MiterLimit * e.style.MiterLimit
	if 2*hypot < (hypot+dot)*limitSq {
		// Miter length within the limit: extend to the intersection
		// of the two outer offset lines.
		bisector := normIn.Add(normOut)
		lenSq := bisector.Dot(bisector)
		if lenSq > 1e-12 {
			scale := 2 * e.radius * e.radius / lenSq
			miter := bisector.Mul(scale)
			if cross > 0 {
				e.forward = append(e.forward, p.Sub(miter))
			} else {
				e.backward = append(e.backward, p.Add(miter))
			}
		}
	}
	e.forward = append(e.forward, p.Sub(normOut))
	e.backward = append(e.backward, p.Add(normOut))
}

func (e *strokeExpander) roundJoin(p, normIn, normOut iced.Point, cross float32) {
	if cross > 0 {
		e.forward = appendArc(e.forward, p, normIn.Mul(-1), normOut.Mul(-1))
		e.backward = append(e.backward, p.Add(normOut))
	} else {
		e.forward = append(e.forward, p.Sub(normOut))
		e.backward = appendArc(e.backward, p, normIn, normOut)
	}
}

// appendArc adds points along the circular arc around center from
// offset from to offset to, taking the short way round. The step
// count follows the flattening tolerance.
func appendArc(dst contour, center, from, to iced.Point) contour {
	r := from.Length()
	if r < 1e-6 {
		return append(dst, center.Add(to))
	}
	a0 := math32.Atan2(from.Y, from.X)
	a1 := math32.Atan2(to.Y, to.X)
	sweep := a1 - a0
	for sweep > math32.Pi {
		sweep -= 2 * math32.Pi
	}
	for sweep < -math32.Pi {
		sweep += 2 * math32.Pi
	}

	maxStep := 2 * math32.Acos(1-min(Tolerance/r, 1))
	steps := int(math32.Ceil(math32.Abs(sweep) / max(maxStep, 0.1)))
	steps = max(steps, 1)

	for i := 1; i <= steps; i++ {
		a := a0 + sweep*float32(i)/float32(steps)
		dst = append(dst, iced.Point{
			X: center.X + r*math32.Cos(a),
			Y: center.Y + r*math32.Sin(a),
		})
	}
	return dst
}

// normal returns the left-hand normal of tan scaled to radius.
func normal(tan iced.Point, radius float32) iced.Point {
	l := tan.Length()
	if l < 1e-12 {
		return iced.Point{}
	}
	s := radius / l
	return iced.Point{X: -tan.Y * s, Y: tan.X * s}
}

func reverse(c contour) contour {
	out := make(contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

func closeContour(c contour) contour {
	if len(c) > 0 && c[0] != c[len(c)-1] {
		c = append(c, c[0])
	}
	return c
}

func dropRepeats(c contour) contour {
	out := c[:0:0]
	for i, p := range c {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
