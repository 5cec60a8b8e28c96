// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package scene

import "github.com/pop-os/iced"

// Primitive is one drawing operation in a layer.
//
// The set of primitives is closed: Quad, Mesh, Text, Image,
// VectorImage and Group. Consumers branch with an exhaustive type
// switch; a primitive kind outside this set is a programming error.
type Primitive interface {
	isPrimitive()
}

// Quad is a styled rectangle: background fill, rounded corners and an
// optional border. The most common primitive by far; widget chrome is
// almost entirely quads.
type Quad struct {
	// Bounds is the quad's rectangle in logical coordinates.
	Bounds iced.Rectangle

	// Background fills the quad. Ignored when Gradient is set.
	Background iced.Color

	// Gradient optionally fills the quad with a linear gradient.
	Gradient *iced.Gradient

	// BorderRadius holds the corner radii in clockwise order starting
	// at the top-left corner.
	BorderRadius [4]float32

	// BorderWidth is the border stroke width; zero means no border.
	BorderWidth float32

	// BorderColor is the border color.
	BorderColor iced.Color
}

// FillRule determines how self-intersecting paths are filled.
type FillRule uint8

// Fill rule constants.
const (
	// NonZero fills regions with a nonzero winding number.
	NonZero FillRule = iota
	// EvenOdd fills regions crossed an odd number of times.
	EvenOdd
)

// LineCap specifies the shape of stroked line endpoints.
type LineCap uint8

// Line cap constants.
const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin specifies the shape of stroked segment joins.
type LineJoin uint8

// Line join constants.
const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// StrokeStyle describes how a path outline is stroked.
type StrokeStyle struct {
	Width      float32
	Cap        LineCap
	Join       LineJoin
	MiterLimit float32
}

// DefaultStrokeStyle returns a 1px butt/miter stroke.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{Width: 1, Cap: CapButt, Join: JoinMiter, MiterLimit: 4}
}

// Mesh is a vector path realized as a triangle mesh. The path is
// tessellated (and the result cached) when the primitive is resolved;
// the mesh is filled with a solid color or a gradient.
type Mesh struct {
	// Path is the source geometry, identified by (ID, Version) for
	// tessellation caching.
	Path *Path

	// Rule is the fill rule. Ignored when Stroke is set.
	Rule FillRule

	// Stroke, when non-nil, strokes the path outline instead of
	// filling its interior.
	Stroke *StrokeStyle

	// Color fills the mesh. Ignored when Gradient is set.
	Color iced.Color

	// Gradient optionally shades the mesh with a linear gradient.
	Gradient *iced.Gradient
}

// FontID identifies a registered font. Fonts are registered with the
// text subsystem which hands out identities; the scene only carries
// the index.
type FontID uint32

// Text is a shaped text run. Content, font and size fully determine
// the positioned glyphs; any change to them invalidates the shaping
// cache entry for the run.
type Text struct {
	// Content is the exact string span to shape and draw.
	Content string

	// Bounds positions the run: the top-left corner is the layout
	// origin. The size is advisory layout information; glyphs are not
	// clipped to it. Wrap the run in a Group with a Clip to cut off
	// overflowing text.
	Bounds iced.Rectangle

	// Color is the text color.
	Color iced.Color

	// Font selects the registered font.
	Font FontID

	// Size is the font size in logical pixels.
	Size float32
}

// ImageHandle references a decoded raster image owned upstream.
// Pixels are straight-alpha RGBA, row-major, 4 bytes per pixel.
type ImageHandle struct {
	// ID is a process-unique identity used as the atlas cache key.
	ID uint64

	// Width and Height are the pixel dimensions.
	Width, Height int

	// Pixels is the RGBA data, len = Width*Height*4.
	Pixels []byte
}

// Image draws a raster image into the given bounds.
type Image struct {
	Handle *ImageHandle
	Bounds iced.Rectangle
}

// VectorFill is one filled path of a vector image document.
type VectorFill struct {
	Path  *Path
	Color iced.Color
	Rule  FillRule
}

// VectorHandle references a parsed vector image document owned
// upstream. The document is resolution independent; the renderer
// rasterizes it at whatever pixel size the frame requires.
type VectorHandle struct {
	// ID is a process-unique identity used as the raster cache key
	// together with the target pixel size.
	ID uint64

	// ViewBox is the document's intrinsic coordinate space.
	ViewBox iced.Size

	// Fills are the document's filled paths in paint order.
	Fills []VectorFill
}

// VectorImage draws a vector image scaled into the given bounds.
type VectorImage struct {
	Handle *VectorHandle
	Bounds iced.Rectangle
}

// Group nests primitives under an optional clip rectangle and affine
// transform. The transform applies to all contained geometry before
// tessellation and atlas lookups; the clip intersects the enclosing
// scissor rectangle.
type Group struct {
	Primitives []Primitive

	// Clip, when non-nil, restricts drawing to the rectangle in the
	// group's local coordinates.
	Clip *iced.Rectangle

	// Transform maps group-local coordinates outward. The zero value
	// is not valid; use iced.Identity() for no transform.
	Transform iced.Transformation
}

func (Quad) isPrimitive()        {}
func (Mesh) isPrimitive()        {}
func (Text) isPrimitive()        {}
func (Image) isPrimitive()       {}
func (VectorImage) isPrimitive() {}
func (Group) isPrimitive()       {}
