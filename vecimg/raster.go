// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build !nosvg

package vecimg

import (
	"image"
	"image/draw"
	"log/slog"

	"golang.org/x/image/vector"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/scene"
)

// Enabled reports whether vector image support is compiled in.
const Enabled = true

// renderDocument rasterizes every fill of the document in paint order
// into a premultiplied RGBA image of the target size. Invalid
// documents render as the placeholder pattern.
func renderDocument(h *scene.VectorHandle, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if h.ViewBox.Width <= 0 || h.ViewBox.Height <= 0 || len(h.Fills) == 0 {
		iced.Logger().Warn("vector image has no renderable content",
			slog.Uint64("id", h.ID))
		drawPlaceholder(dst)
		return dst
	}

	sx := float32(width) / h.ViewBox.Width
	sy := float32(height) / h.ViewBox.Height

	var ras vector.Rasterizer
	cov := make([]float32, width*height)
	tmp := image.NewAlpha(image.Rect(0, 0, width, height))

	for _, fill := range h.Fills {
		if fill.Path == nil || fill.Path.IsEmpty() {
			continue
		}
		coverage(&ras, tmp, cov, fill, sx, sy)
		compositeOver(dst, cov, fill.Color)
	}
	return dst
}

// coverage fills cov with the path's coverage in [0, 1].
//
// The rasterizer accumulates nonzero winding. Even-odd documents are
// handled by rasterizing each subpath separately and combining with
// coverage parity, which matches even-odd for the usual case of
// non-self-intersecting nested contours.
func coverage(ras *vector.Rasterizer, tmp *image.Alpha, cov []float32, fill scene.VectorFill, sx, sy float32) {
	clear(cov)

	verbs := fill.Path.Verbs()
	points := fill.Path.Points()

	if fill.Rule == scene.EvenOdd {
		start := 0
		idx := 0
		pointIdx := 0
		for i, v := range verbs {
			if v == scene.VerbMoveTo && i > start {
				renderSubpath(ras, tmp, verbs[start:i], points[idx:], sx, sy)
				accumulateParity(cov, tmp)
				start = i
				idx = pointIdx
			}
			pointIdx += v.PointCount()
		}
		renderSubpath(ras, tmp, verbs[start:], points[idx:], sx, sy)
		accumulateParity(cov, tmp)
		return
	}

	renderSubpath(ras, tmp, verbs, points, sx, sy)
	for i := range cov {
		cov[i] = float32(tmp.Pix[i]) / 255
	}
}

// renderSubpath rasterizes one run of verbs into tmp.
func renderSubpath(ras *vector.Rasterizer, tmp *image.Alpha, verbs []scene.PathVerb, points []float32, sx, sy float32) {
	b := tmp.Bounds()
	ras.Reset(b.Dx(), b.Dy())
	ras.DrawOp = draw.Src

	idx := 0
	px := func(i int) (float32, float32) {
		return points[i] * sx, points[i+1] * sy
	}
	for _, v := range verbs {
		switch v {
		case scene.VerbMoveTo:
			x, y := px(idx)
			ras.MoveTo(x, y)
		case scene.VerbLineTo:
			x, y := px(idx)
			ras.LineTo(x, y)
		case scene.VerbQuadTo:
			cx, cy := px(idx)
			x, y := px(idx + 2)
			ras.QuadTo(cx, cy, x, y)
		case scene.VerbCubicTo:
			c1x, c1y := px(idx)
			c2x, c2y := px(idx + 2)
			x, y := px(idx + 4)
			ras.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case scene.VerbClose:
			ras.ClosePath()
		}
		idx += v.PointCount()
	}
	ras.ClosePath()

	for i := range tmp.Pix {
		tmp.Pix[i] = 0
	}
	ras.Draw(tmp, b, image.Opaque, image.Point{})
}

// accumulateParity combines subpath coverage into cov with the parity
// rule: covered once stays covered, covered twice cancels.
func accumulateParity(cov []float32, tmp *image.Alpha) {
	for i := range cov {
		c := float32(tmp.Pix[i]) / 255
		cov[i] = cov[i]*(1-c) + c*(1-cov[i])
	}
}

// compositeOver blends a straight-alpha color into the premultiplied
// destination using the coverage mask.
func compositeOver(dst *image.RGBA, cov []float32, c iced.Color) {
	for i, f := range cov {
		a := f * c.A
		if a <= 0 {
			continue
		}
		o := i * 4
		inv := 1 - a
		dst.Pix[o+0] = clamp8(c.R*a*255 + float32(dst.Pix[o+0])*inv)
		dst.Pix[o+1] = clamp8(c.G*a*255 + float32(dst.Pix[o+1])*inv)
		dst.Pix[o+2] = clamp8(c.B*a*255 + float32(dst.Pix[o+2])*inv)
		dst.Pix[o+3] = clamp8(a*255 + float32(dst.Pix[o+3])*inv)
	}
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// drawPlaceholder fills the image with the opaque magenta used for
// documents that cannot be rendered.
func drawPlaceholder(dst *image.RGBA) {
	for o := 0; o < len(dst.Pix); o += 4 {
		dst.Pix[o+0] = 255
		dst.Pix[o+1] = 0
		dst.Pix[o+2] = 255
		dst.Pix[o+3] = 255
	}
}
