// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package iced

import "github.com/chewxy/math32"

// Point is a 2D point or vector in logical coordinates.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float32 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float32 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of the vector.
func (p Point) Length() float32 {
	return math32.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float32 {
	return p.Sub(q).Length()
}

// Size holds a width and a height.
type Size struct {
	Width, Height float32
}

// Sz is a convenience function to create a Size.
func Sz(w, h float32) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty reports whether the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rectangle is an axis-aligned rectangle defined by its top-left corner
// and its size.
type Rectangle struct {
	X, Y          float32
	Width, Height float32
}

// Rect is a convenience function to create a Rectangle.
func Rect(x, y, w, h float32) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// Position returns the top-left corner of the rectangle.
func (r Rectangle) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the size of the rectangle.
func (r Rectangle) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside the rectangle.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersection returns the overlap of two rectangles.
// The result is empty if they do not overlap.
func (r Rectangle) Intersection(o Rectangle) Rectangle {
	x0 := math32.Max(r.X, o.X)
	y0 := math32.Max(r.Y, o.Y)
	x1 := math32.Min(r.X+r.Width, o.X+o.Width)
	y1 := math32.Min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rectangle{}
	}
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rectangle) Union(o Rectangle) Rectangle {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0 := math32.Min(r.X, o.X)
	y0 := math32.Min(r.Y, o.Y)
	x1 := math32.Max(r.X+r.Width, o.X+o.Width)
	y1 := math32.Max(r.Y+r.Height, o.Y+o.Height)
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Scale returns the rectangle with position and size scaled by s.
func (r Rectangle) Scale(s float32) Rectangle {
	return Rectangle{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// Snap rounds the rectangle outward to integer device pixels.
// Clip rectangles are snapped this way to avoid visible seams between
// adjacent clipped regions.
func (r Rectangle) Snap() Rectangle {
	x0 := math32.Floor(r.X)
	y0 := math32.Floor(r.Y)
	x1 := math32.Ceil(r.X + r.Width)
	y1 := math32.Ceil(r.Y + r.Height)
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Transformation is a 2D affine transformation, stored as a 2x3 matrix
// in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// It maps a point (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Transformation struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation.
func Identity() Transformation {
	return Transformation{A: 1, E: 1}
}

// Translation returns a transformation that translates by (x, y).
func Translation(x, y float32) Transformation {
	return Transformation{A: 1, C: x, E: 1, F: y}
}

// Scaling returns a transformation that scales by (x, y).
func Scaling(x, y float32) Transformation {
	return Transformation{A: x, E: y}
}

// Rotation returns a transformation that rotates by angle radians.
func Rotation(angle float32) Transformation {
	sin, cos := math32.Sincos(angle)
	return Transformation{A: cos, B: -sin, D: sin, E: cos}
}

// Multiply composes two transformations: the result applies o first,
// then t.
func (t Transformation) Multiply(o Transformation) Transformation {
	return Transformation{
		A: t.A*o.A + t.B*o.D,
		B: t.A*o.B + t.B*o.E,
		C: t.A*o.C + t.B*o.F + t.C,
		D: t.D*o.A + t.E*o.D,
		E: t.D*o.B + t.E*o.E,
		F: t.D*o.C + t.E*o.F + t.F,
	}
}

// Apply transforms a point.
func (t Transformation) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// ApplyRect transforms a rectangle and returns its axis-aligned
// bounding box.
func (t Transformation) ApplyRect(r Rectangle) Rectangle {
	p0 := t.Apply(Point{X: r.X, Y: r.Y})
	p1 := t.Apply(Point{X: r.X + r.Width, Y: r.Y})
	p2 := t.Apply(Point{X: r.X, Y: r.Y + r.Height})
	p3 := t.Apply(Point{X: r.X + r.Width, Y: r.Y + r.Height})
	x0 := math32.Min(math32.Min(p0.X, p1.X), math32.Min(p2.X, p3.X))
	y0 := math32.Min(math32.Min(p0.Y, p1.Y), math32.Min(p2.Y, p3.Y))
	x1 := math32.Max(math32.Max(p0.X, p1.X), math32.Max(p2.X, p3.X))
	y1 := math32.Max(math32.Max(p0.Y, p1.Y), math32.Max(p2.Y, p3.Y))
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// IsIdentity reports whether the transformation is the identity.
func (t Transformation) IsIdentity() bool {
	return t == Identity()
}

// IsTranslation reports whether the transformation only translates.
func (t Transformation) IsTranslation() bool {
	return t.A == 1 && t.B == 0 && t.D == 0 && t.E == 1
}

// HasUniformScale reports whether the transformation scales X and Y by
// the same factor with no shear. Stroke widths survive such transforms
// unchanged up to the scale factor, which matters for tessellation
// cache keys.
func (t Transformation) HasUniformScale() bool {
	if t.B != 0 || t.D != 0 {
		return false
	}
	return math32.Abs(t.A) == math32.Abs(t.E)
}
