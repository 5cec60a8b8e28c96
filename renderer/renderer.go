// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/atlas"
	"github.com/pop-os/iced/batch"
	"github.com/pop-os/iced/scene"
)

// ErrNoFrame is returned when Submit or Present is called outside a
// BeginFrame/Present pair.
var ErrNoFrame = errors.New("renderer: no frame in progress")

// Config holds configuration for Renderer.
type Config struct {
	// MaskAtlas is the glyph atlas; its pages become R8 textures.
	MaskAtlas *atlas.Atlas

	// ColorAtlas is the image and vector-image atlas; its pages become
	// RGBA textures.
	ColorAtlas *atlas.Atlas
}

// atlasPage is the GPU side of one atlas page.
type atlasPage struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	bind    *wgpu.BindGroup
}

// frameState tracks one frame between BeginFrame and Present.
type frameState struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView

	width, height int
	submitted     bool
}

// Renderer uploads batch data and encodes one command sequence per
// frame. It owns the buffer ring and the GPU textures behind the
// atlases; the CPU-side caches stay with the batch builder.
//
// Renderer is owned by the render thread and not safe for concurrent
// use.
type Renderer struct {
	ctx     *Context
	surface *Surface
	cfg     Config

	pipes   *pipelines
	ring    *bufferRing
	sampler *wgpu.Sampler

	maskPages  []*atlasPage
	colorPages []*atlasPage

	frame *frameState

	// scratch holds premultiplied pixels for raster image uploads.
	scratch []byte
}

// New creates a renderer for an already configured surface.
func New(ctx *Context, surface *Surface, cfg Config) (*Renderer, error) {
	pipes, err := buildPipelines(ctx.device, surface.Format())
	if err != nil {
		return nil, err
	}
	sampler, err := ctx.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "atlas sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		pipes.release()
		return nil, fmt.Errorf("renderer: sampler: %w", err)
	}

	r := &Renderer{
		ctx:     ctx,
		surface: surface,
		cfg:     cfg,
		pipes:   pipes,
		sampler: sampler,
	}
	r.ring = newBufferRing(func(size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
		return ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
			Size:  size,
			Usage: usage,
		})
	})
	if cfg.MaskAtlas != nil {
		cfg.MaskAtlas.OnPageFree(func(i int) { r.freePage(r.maskPages, i) })
	}
	if cfg.ColorAtlas != nil {
		cfg.ColorAtlas.OnPageFree(func(i int) { r.freePage(r.colorPages, i) })
	}
	return r, nil
}

// BeginFrame starts a frame at the given device pixel size,
// reconfiguring the surface if the size changed. A frame already in
// progress is abandoned; its batches are never submitted.
func (r *Renderer) BeginFrame(width, height int) error {
	if r.frame != nil {
		r.Abandon()
	}
	if w, h := r.surface.Size(); w != width || h != height {
		r.surface.Configure(width, height)
	}

	texture, view, err := r.surface.acquire()
	if err != nil {
		return err
	}
	r.frame = &frameState{
		texture: texture,
		view:    view,
		width:   width,
		height:  height,
	}
	return nil
}

// Submit uploads the frame's geometry and encodes its batches in
// order, one draw call per batch, then submits to the GPU queue.
// Execution order on the GPU matches batch order.
func (r *Renderer) Submit(f *batch.Frame) error {
	if r.frame == nil {
		return ErrNoFrame
	}
	if r.frame.submitted {
		return errors.New("renderer: frame already submitted")
	}

	slot := r.ring.next()
	if err := r.upload(slot, f); err != nil {
		return err
	}

	encoder, err := r.ctx.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("renderer: command encoder: %w", err)
	}
	defer encoder.Release()

	bg := f.Background.Pack()
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    r.frame.view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(bg[0]),
				G: float64(bg[1]),
				B: float64(bg[2]),
				A: float64(bg[3]),
			},
		}},
	})

	pass.SetBindGroup(0, slot.globalsBind, nil)
	for _, b := range f.Batches {
		r.encodeBatch(pass, slot, b)
	}
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("renderer: encode: %w", err)
	}
	r.ctx.queue.Submit(cmd)
	cmd.Release()
	r.frame.submitted = true

	iced.Logger().Debug("frame submitted", "batches", len(f.Batches))
	return nil
}

// encodeBatch sets pipeline, scissor and buffers for one batch and
// issues its draw. Reports whether the batch was drawn.
func (r *Renderer) encodeBatch(pass *wgpu.RenderPassEncoder, slot *ringSlot, b batch.Batch) bool {
	scissor, ok := clampScissor(b.Scissor, r.frame.width, r.frame.height)
	if !ok {
		return false
	}
	pass.SetScissorRect(
		uint32(scissor.X), uint32(scissor.Y),
		uint32(scissor.Width), uint32(scissor.Height),
	)

	switch b.Pipeline {
	case batch.PipelineQuad:
		pass.SetPipeline(r.pipes.quad)
		pass.SetVertexBuffer(0, slot.quads, 0, wgpu.WholeSize)
		pass.Draw(4, b.Count, 0, b.Start)
	case batch.PipelineMesh:
		pass.SetPipeline(r.pipes.mesh)
		pass.SetVertexBuffer(0, slot.meshVertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(slot.meshIndices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(b.Count, 1, b.Start, 0, 0)
	case batch.PipelineText:
		page := r.page(r.maskPages, b.Texture)
		if page == nil {
			return false
		}
		pass.SetPipeline(r.pipes.text)
		pass.SetBindGroup(1, page.bind, nil)
		pass.SetVertexBuffer(0, slot.texVertices, 0, wgpu.WholeSize)
		pass.Draw(b.Count, 1, b.Start, 0)
	case batch.PipelineImage:
		page := r.page(r.colorPages, b.Texture)
		if page == nil {
			return false
		}
		pass.SetPipeline(r.pipes.image)
		pass.SetBindGroup(1, page.bind, nil)
		pass.SetVertexBuffer(0, slot.texVertices, 0, wgpu.WholeSize)
		pass.Draw(b.Count, 1, b.Start, 0)
	}
	return true
}

// Present shows the submitted frame and releases the swapchain
// texture. Present after an abandoned or failed frame is a no-op.
func (r *Renderer) Present() {
	if r.frame == nil {
		return
	}
	if r.frame.submitted {
		r.surface.Present()
	}
	r.releaseFrame()
}

// Abandon discards the frame in progress without submitting anything.
// Used when the surface was resized mid-build.
func (r *Renderer) Abandon() {
	if r.frame == nil {
		return
	}
	iced.Logger().Debug("frame abandoned")
	r.releaseFrame()
}

func (r *Renderer) releaseFrame() {
	if r.frame.view != nil {
		r.frame.view.Release()
	}
	if r.frame.texture != nil {
		r.frame.texture.Release()
	}
	r.frame = nil
}

// upload writes the frame's geometry streams and uniforms into the
// slot's buffers, growing them as needed.
func (r *Renderer) upload(slot *ringSlot, f *batch.Frame) error {
	type stream struct {
		buf      **wgpu.Buffer
		capacity *uint64
		data     []byte
		usage    wgpu.BufferUsage
	}
	streams := []stream{
		{&slot.quads, &slot.quadCap, wgpu.ToBytes(f.Quads), wgpu.BufferUsageVertex},
		{&slot.meshVertices, &slot.meshVertexCap, wgpu.ToBytes(f.MeshVertices), wgpu.BufferUsageVertex},
		{&slot.meshIndices, &slot.meshIndexCap, wgpu.ToBytes(f.MeshIndices), wgpu.BufferUsageIndex},
		{&slot.texVertices, &slot.texVertexCap, wgpu.ToBytes(f.TexVertices), wgpu.BufferUsageVertex},
	}
	for _, s := range streams {
		if _, err := r.ring.ensure(s.buf, s.capacity, uint64(len(s.data)), s.usage); err != nil {
			return fmt.Errorf("renderer: grow buffer: %w", err)
		}
		if len(s.data) > 0 {
			r.ctx.queue.WriteBuffer(*s.buf, 0, s.data)
		}
	}

	if slot.globals == nil {
		buf, err := r.ring.create(globalsSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return fmt.Errorf("renderer: globals buffer: %w", err)
		}
		slot.globals = buf
		bind, err := r.ctx.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "globals",
			Layout: r.pipes.globalsLayout,
			Entries: []wgpu.BindGroupEntry{{
				Binding: 0,
				Buffer:  slot.globals,
				Size:    wgpu.WholeSize,
			}},
		})
		if err != nil {
			return fmt.Errorf("renderer: globals bind group: %w", err)
		}
		slot.globalsBind = bind
	}
	globals := [4]float32{float32(r.frame.width), float32(r.frame.height), 0, 0}
	r.ctx.queue.WriteBuffer(slot.globals, 0, wgpu.ToBytes(globals[:]))
	return nil
}

// UploadMask copies a glyph mask into the mask atlas texture. Wire it
// to the glyph cache's OnUpload callback.
func (r *Renderer) UploadMask(e atlas.Entry, mask *image.Alpha) {
	page := r.ensurePage(&r.maskPages, e, r.cfg.MaskAtlas, wgpu.TextureFormatR8Unorm)
	if page == nil {
		return
	}
	r.writeTexture(page.texture, e, mask.Pix, mask.Stride)
}

// UploadColor copies premultiplied RGBA pixels into the color atlas
// texture. Wire it to the vector rasterizer's OnUpload callback.
func (r *Renderer) UploadColor(e atlas.Entry, img *image.RGBA) {
	page := r.ensurePage(&r.colorPages, e, r.cfg.ColorAtlas, wgpu.TextureFormatRGBA8UnormSrgb)
	if page == nil {
		return
	}
	r.writeTexture(page.texture, e, img.Pix, img.Stride)
}

// UploadImage premultiplies a raster image's straight-alpha pixels
// and copies them into the color atlas texture. Wire it to the image
// cache's OnUpload callback.
func (r *Renderer) UploadImage(e atlas.Entry, h *scene.ImageHandle) {
	page := r.ensurePage(&r.colorPages, e, r.cfg.ColorAtlas, wgpu.TextureFormatRGBA8UnormSrgb)
	if page == nil {
		return
	}
	n := h.Width * h.Height * 4
	if cap(r.scratch) < n {
		r.scratch = make([]byte, n)
	}
	premultiply(r.scratch[:n], h.Pixels[:n])
	r.writeTexture(page.texture, e, r.scratch[:n], h.Width*4)
}

func (r *Renderer) writeTexture(texture *wgpu.Texture, e atlas.Entry, pix []byte, stride int) {
	x, y := uint32(e.X), uint32(e.Y)
	if e.Oversized {
		x, y = 0, 0
	}
	r.ctx.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture: texture,
			Origin:  wgpu.Origin3D{X: x, Y: y},
			Aspect:  wgpu.TextureAspectAll,
		},
		pix,
		&wgpu.TextureDataLayout{
			BytesPerRow:  uint32(stride),
			RowsPerImage: uint32(e.Height),
		},
		&wgpu.Extent3D{
			Width:              uint32(e.Width),
			Height:             uint32(e.Height),
			DepthOrArrayLayers: 1,
		},
	)
}

// freePage releases the GPU resources behind a page the atlas dropped.
// The slot stays nil until an upload to a reused index recreates it.
func (r *Renderer) freePage(pages []*atlasPage, index int) {
	if index < 0 || index >= len(pages) || pages[index] == nil {
		return
	}
	p := pages[index]
	p.bind.Release()
	p.view.Release()
	p.texture.Release()
	pages[index] = nil
	iced.Logger().Debug("atlas page released", "page", index)
}

// page returns the GPU page at the index, or nil when no upload has
// created it yet.
func (r *Renderer) page(pages []*atlasPage, index int) *atlasPage {
	if index < 0 || index >= len(pages) || pages[index] == nil {
		return nil
	}
	return pages[index]
}

// ensurePage creates the GPU texture for an entry's page on first
// use. Regular pages are page-sized; dedicated pages for oversized
// entries match the entry.
func (r *Renderer) ensurePage(pages *[]*atlasPage, e atlas.Entry, a *atlas.Atlas, format wgpu.TextureFormat) *atlasPage {
	for len(*pages) <= e.Page {
		*pages = append(*pages, nil)
	}
	if p := (*pages)[e.Page]; p != nil {
		return p
	}

	w, h := a.Config().PageSize, a.Config().PageSize
	if e.Oversized {
		w, h = e.Width, e.Height
	}
	texture, err := r.ctx.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "atlas page",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		iced.Logger().Warn("atlas page texture failed", "error", err)
		return nil
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		iced.Logger().Warn("atlas page view failed", "error", err)
		return nil
	}
	bind, err := r.ctx.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "atlas page",
		Layout: r.pipes.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: r.sampler},
		},
	})
	if err != nil {
		view.Release()
		texture.Release()
		iced.Logger().Warn("atlas page bind group failed", "error", err)
		return nil
	}

	p := &atlasPage{texture: texture, view: view, bind: bind}
	(*pages)[e.Page] = p
	iced.Logger().Debug("atlas page created", "page", e.Page, "width", w, "height", h)
	return p
}

// Release frees all GPU resources. The renderer is unusable
// afterwards.
func (r *Renderer) Release() {
	if r.frame != nil {
		r.Abandon()
	}
	r.ring.release()
	for _, pages := range [][]*atlasPage{r.maskPages, r.colorPages} {
		for _, p := range pages {
			if p == nil {
				continue
			}
			p.bind.Release()
			p.view.Release()
			p.texture.Release()
		}
	}
	r.maskPages = nil
	r.colorPages = nil
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.pipes != nil {
		r.pipes.release()
		r.pipes = nil
	}
}

// clampScissor restricts a scissor to the frame bounds. Reports false
// when nothing remains.
func clampScissor(s batch.ScissorRect, width, height int) (batch.ScissorRect, bool) {
	clamped := s.Intersect(batch.ScissorRect{Width: width, Height: height})
	return clamped, !clamped.IsEmpty()
}

// premultiply converts straight-alpha RGBA bytes to premultiplied.
func premultiply(dst, src []byte) {
	for i := 0; i < len(src); i += 4 {
		a := uint32(src[i+3])
		dst[i+0] = uint8(uint32(src[i+0]) * a / 255)
		dst[i+1] = uint8(uint32(src[i+1]) * a / 255)
		dst[i+2] = uint8(uint32(src[i+2]) * a / 255)
		dst[i+3] = uint8(a)
	}
}
