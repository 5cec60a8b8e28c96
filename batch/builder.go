// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/atlas"
	"github.com/pop-os/iced/internal/parallel"
	"github.com/pop-os/iced/scene"
	"github.com/pop-os/iced/tessellate"
	"github.com/pop-os/iced/text"
	"github.com/pop-os/iced/vecimg"
)

// Deps wires the builder to the caches it resolves primitives
// through. Tessellator, Vectors and Pool may be nil; primitives
// needing a missing subsystem are dropped with a logged warning.
type Deps struct {
	Tessellator *tessellate.Tessellator
	Shaper      *text.Shaper
	Glyphs      *text.GlyphCache
	Vectors     *vecimg.Rasterizer
	Images      *ImageCache

	// Pool, when non-nil, fans independent tessellation work out
	// before batch emission.
	Pool *parallel.Pool
}

// Builder resolves scene layers into frames of draw batches.
//
// Builder is owned by the render thread and not safe for concurrent
// use. The layer slice passed to Build is treated as an immutable
// snapshot for the duration of the call.
type Builder struct {
	deps Deps
}

// NewBuilder creates a builder over the given caches.
func NewBuilder(deps Deps) *Builder {
	return &Builder{deps: deps}
}

// Build walks the layers in order and emits one frame of batches.
// Primitive paint order is preserved exactly; consecutive primitives
// merge into one batch only when they share pipeline, texture and
// scissor.
//
// Primitives that cannot be resolved (atlas full, shaping failure,
// subsystem compiled out) are dropped with a warning; Build itself
// never fails.
func (b *Builder) Build(layers []scene.Layer, size iced.Size, scale float32, background iced.Color) *Frame {
	f := &Frame{Size: size, Scale: scale, Background: background}
	viewport := ScissorRect{
		Width:  int(math32.Ceil(size.Width * scale)),
		Height: int(math32.Ceil(size.Height * scale)),
	}
	device := iced.Scaling(scale, scale)

	if b.deps.Pool != nil && b.deps.Tessellator != nil {
		b.prepare(layers, device)
	}

	for i := range layers {
		l := &layers[i]
		xf := device.Multiply(l.Transform)
		scissor := viewport
		if !l.Bounds.IsEmpty() {
			scissor = viewport.Intersect(deviceScissor(l.Bounds, xf))
		}
		if scissor.IsEmpty() {
			continue
		}
		b.emit(f, l.Primitives, xf, scissor)
	}

	iced.Logger().Debug("frame built",
		"layers", len(layers),
		"batches", len(f.Batches),
		"quads", len(f.Quads),
		"mesh_indices", len(f.MeshIndices),
		"tex_vertices", len(f.TexVertices))
	return f
}

// EndFrame trims every cache and advances each atlas frame counter
// exactly once, including atlases shared between caches. Call once
// after the frame's GPU work has been submitted.
func (b *Builder) EndFrame() {
	if b.deps.Glyphs != nil {
		b.deps.Glyphs.Maintain()
	}
	if b.deps.Shaper != nil {
		b.deps.Shaper.Trim()
	}
	if b.deps.Tessellator != nil {
		b.deps.Tessellator.Trim()
	}
	if b.deps.Vectors != nil {
		b.deps.Vectors.Trim()
	}
	if b.deps.Images != nil {
		b.deps.Images.Maintain()
	}

	seen := make(map[*atlas.Atlas]bool, 3)
	advance := func(a *atlas.Atlas) {
		if a != nil && !seen[a] {
			seen[a] = true
			a.NextFrame()
		}
	}
	if b.deps.Glyphs != nil {
		advance(b.deps.Glyphs.Atlas())
	}
	if b.deps.Vectors != nil {
		advance(b.deps.Vectors.Atlas())
	}
	if b.deps.Images != nil {
		advance(b.deps.Images.Atlas())
	}
}

func (b *Builder) emit(f *Frame, prims []scene.Primitive, xf iced.Transformation, scissor ScissorRect) {
	for _, p := range prims {
		switch p := p.(type) {
		case scene.Quad:
			b.emitQuad(f, p, xf, scissor)
		case scene.Mesh:
			b.emitMesh(f, p, xf, scissor)
		case scene.Text:
			b.emitText(f, p, xf, scissor)
		case scene.Image:
			b.emitImage(f, p, xf, scissor)
		case scene.VectorImage:
			b.emitVectorImage(f, p, xf, scissor)
		case scene.Group:
			inner := xf.Multiply(p.Transform)
			clipped := scissor
			if p.Clip != nil {
				clipped = scissor.Intersect(deviceScissor(*p.Clip, inner))
				if clipped.IsEmpty() {
					continue
				}
			}
			b.emit(f, p.Primitives, inner, clipped)
		default:
			panic(fmt.Sprintf("batch: unhandled primitive %T", p))
		}
	}
}

func (b *Builder) emitQuad(f *Frame, q scene.Quad, xf iced.Transformation, scissor ScissorRect) {
	r := xf.ApplyRect(q.Bounds)
	if r.IsEmpty() {
		return
	}
	k := uniformScale(xf)

	var inst QuadInstance
	inst.Pos = [2]float32{r.X, r.Y}
	inst.Size = [2]float32{r.Width, r.Height}
	if q.Gradient != nil {
		g := transformGradient(q.Gradient, xf)
		inst.Colors = [4][4]float32{
			sampleGradient(&g, iced.Pt(r.X, r.Y)),
			sampleGradient(&g, iced.Pt(r.X+r.Width, r.Y)),
			sampleGradient(&g, iced.Pt(r.X+r.Width, r.Y+r.Height)),
			sampleGradient(&g, iced.Pt(r.X, r.Y+r.Height)),
		}
	} else {
		c := q.Background.Pack()
		inst.Colors = [4][4]float32{c, c, c, c}
	}
	maxRadius := math32.Min(r.Width, r.Height) / 2
	for i, radius := range q.BorderRadius {
		inst.BorderRadius[i] = math32.Min(radius*k, maxRadius)
	}
	inst.BorderWidth = q.BorderWidth * k
	inst.BorderColor = q.BorderColor.Pack()

	start := uint32(len(f.Quads))
	f.Quads = append(f.Quads, inst)
	f.push(PipelineQuad, NoTexture, scissor, start, 1)
}

func (b *Builder) emitMesh(f *Frame, m scene.Mesh, xf iced.Transformation, scissor ScissorRect) {
	if b.deps.Tessellator == nil {
		iced.Logger().Warn("mesh dropped", "reason", "no tessellator")
		return
	}
	var (
		mesh *tessellate.Mesh
		err  error
	)
	if m.Stroke != nil {
		mesh, err = b.deps.Tessellator.Stroke(m.Path, *m.Stroke, xf)
	} else {
		mesh, err = b.deps.Tessellator.Fill(m.Path, m.Rule, xf)
	}
	if err != nil {
		iced.Logger().Warn("mesh dropped", "error", err)
		return
	}
	if mesh.IsEmpty() {
		return
	}

	base := uint32(len(f.MeshVertices))
	if m.Gradient != nil {
		g := transformGradient(m.Gradient, xf)
		for _, v := range mesh.Vertices {
			f.MeshVertices = append(f.MeshVertices, ColorVertex{
				Pos:   [2]float32{v.X, v.Y},
				Color: sampleGradient(&g, iced.Pt(v.X, v.Y)),
			})
		}
	} else {
		c := m.Color.Pack()
		for _, v := range mesh.Vertices {
			f.MeshVertices = append(f.MeshVertices, ColorVertex{
				Pos:   [2]float32{v.X, v.Y},
				Color: c,
			})
		}
	}
	start := uint32(len(f.MeshIndices))
	for _, idx := range mesh.Indices {
		f.MeshIndices = append(f.MeshIndices, base+idx)
	}
	f.push(PipelineMesh, NoTexture, scissor, start, uint32(len(mesh.Indices)))
}

func (b *Builder) emitText(f *Frame, t scene.Text, xf iced.Transformation, scissor ScissorRect) {
	run, err := b.deps.Shaper.Shape(t.Content, t.Font, t.Size)
	if err != nil {
		iced.Logger().Warn("text dropped", "error", err)
		return
	}
	k := uniformScale(xf)
	if k <= 0 {
		return
	}
	pageSize := b.deps.Glyphs.Atlas().Config().PageSize
	color := t.Color.Pack()

	for _, g := range run.Glyphs {
		pen := xf.Apply(iced.Pt(t.Bounds.X+g.X, t.Bounds.Y+run.Ascent+g.Y))
		key := text.NewKey(g.Font, g.ID, t.Size*k, pen.X)
		rg, err := b.deps.Glyphs.Resolve(key)
		if err != nil {
			iced.Logger().Warn("glyph dropped", "glyph", g.ID, "error", err)
			continue
		}
		if rg.Empty {
			continue
		}
		x := math32.Floor(pen.X) + float32(rg.Left)
		y := math32.Round(pen.Y) + float32(rg.Top)
		quad := iced.Rect(x, y, float32(rg.Entry.Width), float32(rg.Entry.Height))
		start := appendTexQuad(f, quad, rg.Entry.UV(pageSize), color)
		f.push(PipelineText, rg.Entry.Page, scissor, start, 6)
	}
}

func (b *Builder) emitImage(f *Frame, img scene.Image, xf iced.Transformation, scissor ScissorRect) {
	r := xf.ApplyRect(img.Bounds)
	if r.IsEmpty() {
		return
	}
	e, err := b.deps.Images.Resolve(img.Handle)
	if err != nil {
		iced.Logger().Warn("image dropped", "error", err)
		return
	}
	pageSize := b.deps.Images.Atlas().Config().PageSize
	start := appendTexQuad(f, r, e.UV(pageSize), iced.White.Pack())
	f.push(PipelineImage, e.Page, scissor, start, 6)
}

func (b *Builder) emitVectorImage(f *Frame, v scene.VectorImage, xf iced.Transformation, scissor ScissorRect) {
	if b.deps.Vectors == nil {
		iced.Logger().Warn("vector image dropped", "reason", "no rasterizer")
		return
	}
	r := xf.ApplyRect(v.Bounds)
	w := int(math32.Round(r.Width))
	h := int(math32.Round(r.Height))
	if w <= 0 || h <= 0 {
		return
	}
	e, err := b.deps.Vectors.Rasterize(v.Handle, w, h)
	if err != nil {
		iced.Logger().Warn("vector image dropped", "error", err)
		return
	}
	pageSize := b.deps.Vectors.Atlas().Config().PageSize
	start := appendTexQuad(f, r, e.UV(pageSize), iced.White.Pack())
	f.push(PipelineImage, e.Page, scissor, start, 6)
}

// appendTexQuad emits two triangles covering the rectangle and
// returns the start index of the six vertices.
func appendTexQuad(f *Frame, r, uv iced.Rectangle, color [4]float32) uint32 {
	start := uint32(len(f.TexVertices))
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	u0, v0 := uv.X, uv.Y
	u1, v1 := uv.X+uv.Width, uv.Y+uv.Height
	f.TexVertices = append(f.TexVertices,
		TexVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Color: color},
		TexVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{u1, v0}, Color: color},
		TexVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Color: color},
		TexVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Color: color},
		TexVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Color: color},
		TexVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{u0, v1}, Color: color},
	)
	return start
}

// uniformScale returns the area-preserving scale factor of a
// transform, the factor stroke widths and glyph sizes grow by under
// it.
func uniformScale(xf iced.Transformation) float32 {
	return math32.Sqrt(math32.Abs(xf.A*xf.E - xf.B*xf.D))
}
