// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package iced

import "github.com/chewxy/math32"

// Color is a straight-alpha sRGB color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGBA creates a color from sRGB components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB creates an opaque color from sRGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA(0, 0, 0, 0)
)

// srgbToLinear converts one sRGB channel to linear light.
func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

// Pack converts the color to the component layout expected by the
// shaders: premultiplied alpha, and linear light unless the webcolors
// build tag selects web-compatible nonlinear blending.
func (c Color) Pack() [4]float32 {
	r, g, b := c.R, c.G, c.B
	if gammaCorrection {
		r = srgbToLinear(r)
		g = srgbToLinear(g)
		b = srgbToLinear(b)
	}
	return [4]float32{r * c.A, g * c.A, b * c.A, c.A}
}

// Gradient is a linear gradient between two points.
// Stops must be sorted by offset; offsets are in [0, 1] along the
// segment from Start to End.
type Gradient struct {
	Start, End Point
	Stops      []GradientStop
}

// GradientStop is a single color stop of a gradient.
type GradientStop struct {
	Offset float32
	Color  Color
}
