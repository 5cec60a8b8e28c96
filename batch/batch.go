// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"github.com/chewxy/math32"

	"github.com/pop-os/iced"
)

// Pipeline selects the render pipeline that draws a batch.
type Pipeline uint8

// Pipeline kinds.
const (
	// PipelineQuad draws styled rectangles as SDF-shaded instances.
	PipelineQuad Pipeline = iota
	// PipelineMesh draws solid and gradient triangle meshes.
	PipelineMesh
	// PipelineText draws glyph quads sampling the mask atlas.
	PipelineText
	// PipelineImage draws textured quads sampling the color atlas.
	PipelineImage
)

func (p Pipeline) String() string {
	switch p {
	case PipelineQuad:
		return "quad"
	case PipelineMesh:
		return "mesh"
	case PipelineText:
		return "text"
	case PipelineImage:
		return "image"
	}
	return "unknown"
}

// NoTexture marks batches whose pipeline binds no atlas page.
const NoTexture = -1

// ScissorRect is a clip rectangle in device pixels.
type ScissorRect struct {
	X, Y          int
	Width, Height int
}

// IsEmpty reports whether the scissor clips everything away.
func (s ScissorRect) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Intersect returns the overlap of two scissors.
func (s ScissorRect) Intersect(o ScissorRect) ScissorRect {
	x0 := max(s.X, o.X)
	y0 := max(s.Y, o.Y)
	x1 := min(s.X+s.Width, o.X+o.Width)
	y1 := min(s.Y+s.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return ScissorRect{}
	}
	return ScissorRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// deviceScissor maps a logical rectangle through a device transform
// and rounds it outward to whole pixels. Outward rounding keeps
// adjacent clipped regions from leaving seams.
func deviceScissor(r iced.Rectangle, xf iced.Transformation) ScissorRect {
	d := xf.ApplyRect(r)
	x0 := math32.Floor(d.X)
	y0 := math32.Floor(d.Y)
	x1 := math32.Ceil(d.X + d.Width)
	y1 := math32.Ceil(d.Y + d.Height)
	return ScissorRect{
		X:     int(x0),
		Y:     int(y0),
		Width: int(x1 - x0), Height: int(y1 - y0),
	}
}

// QuadInstance is one styled rectangle for the instanced quad
// pipeline. Positions and sizes are in device pixels; colors are
// premultiplied.
type QuadInstance struct {
	// Pos is the top-left corner.
	Pos [2]float32

	// Size is the rectangle extent.
	Size [2]float32

	// Colors holds the fill color at each corner in clockwise order
	// starting at the top-left. Solid fills repeat one color; gradient
	// fills sample the gradient at each corner and let the GPU
	// interpolate.
	Colors [4][4]float32

	// BorderColor is the premultiplied border color.
	BorderColor [4]float32

	// BorderRadius holds the corner radii in clockwise order starting
	// at the top-left corner, in device pixels.
	BorderRadius [4]float32

	// BorderWidth is the border stroke width in device pixels.
	BorderWidth float32
}

// ColorVertex is one mesh vertex: device-pixel position and a
// premultiplied color.
type ColorVertex struct {
	Pos   [2]float32
	Color [4]float32
}

// TexVertex is one textured vertex: device-pixel position, atlas UV
// and a premultiplied tint color.
type TexVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// Batch is one draw call: a contiguous range of one of the frame's
// geometry streams with the state needed to draw it.
//
// Start and Count index the stream the pipeline consumes: quad
// instances for PipelineQuad, mesh indices for PipelineMesh, textured
// vertices for PipelineText and PipelineImage.
type Batch struct {
	Pipeline Pipeline

	// Texture is the atlas page index bound by text and image batches,
	// or NoTexture. Text batches index the mask atlas, image batches
	// the color atlas.
	Texture int

	Scissor ScissorRect

	Start, Count uint32
}

// Frame is one frame's worth of resolved draw data. All geometry is
// in device pixels; the renderer uploads the streams verbatim and
// encodes the batches in order.
type Frame struct {
	// Size is the logical viewport size.
	Size iced.Size

	// Scale is the device pixel scale factor.
	Scale float32

	// Background is the clear color behind the first batch.
	Background iced.Color

	Batches []Batch

	Quads        []QuadInstance
	MeshVertices []ColorVertex
	MeshIndices  []uint32
	TexVertices  []TexVertex
}

// push extends the open batch when the new range continues it under
// identical state, and opens a new batch otherwise.
func (f *Frame) push(p Pipeline, texture int, scissor ScissorRect, start, count uint32) {
	if count == 0 {
		return
	}
	if n := len(f.Batches); n > 0 {
		b := &f.Batches[n-1]
		if b.Pipeline == p && b.Texture == texture && b.Scissor == scissor &&
			b.Start+b.Count == start {
			b.Count += count
			return
		}
	}
	f.Batches = append(f.Batches, Batch{
		Pipeline: p,
		Texture:  texture,
		Scissor:  scissor,
		Start:    start,
		Count:    count,
	})
}
