// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pop-os/iced"
)

// ErrSurfaceLost is returned when the platform surface became invalid
// (device reset, window destroyed, stale swapchain). The current frame
// is unrecoverable; reconfigure the surface and render the next frame
// from scratch.
var ErrSurfaceLost = errors.New("renderer: surface lost")

// Surface wraps a platform presentation surface. It chooses the
// texture format and alpha mode from the surface's capabilities and
// reconfigures on resize.
type Surface struct {
	ctx *Context
	raw *wgpu.Surface

	format    wgpu.TextureFormat
	alphaMode wgpu.CompositeAlphaMode

	width, height int
}

// NewSurface wraps a surface created from the context's instance. The
// surface is unconfigured until the first Configure call.
func NewSurface(ctx *Context, raw *wgpu.Surface) *Surface {
	return &Surface{ctx: ctx, raw: raw}
}

// Configure sizes the surface in device pixels, picking the preferred
// texture format and the alpha mode closest to premultiplied
// compositing. Call again on every resize.
func (s *Surface) Configure(width, height int) {
	caps := s.raw.GetCapabilities(s.ctx.adapter)
	s.format = caps.Formats[0]
	s.alphaMode = pickAlphaMode(caps.AlphaModes)

	s.raw.Configure(s.ctx.adapter, s.ctx.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   s.alphaMode,
	})
	s.width = width
	s.height = height

	iced.Logger().Info("surface configured",
		"width", width,
		"height", height,
		"format", s.format)
}

// Format returns the configured texture format.
func (s *Surface) Format() wgpu.TextureFormat { return s.format }

// Size returns the configured size in device pixels.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// acquire obtains the next presentable texture. Acquisition failures
// surface as ErrSurfaceLost; the caller reconfigures and retries next
// frame.
func (s *Surface) acquire() (*wgpu.Texture, *wgpu.TextureView, error) {
	texture, err := s.raw.GetCurrentTexture()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	}
	return texture, view, nil
}

// Present shows the most recently submitted frame. This is the one
// blocking call in the frame loop; it waits for a free presentation
// slot under Fifo backpressure.
func (s *Surface) Present() {
	s.raw.Present()
}

// Release drops the surface.
func (s *Surface) Release() {
	if s.raw != nil {
		s.raw.Release()
		s.raw = nil
	}
}

// pickAlphaMode prefers premultiplied compositing, matching the blend
// state of every pipeline, then unpremultiplied, then whatever the
// platform lists first.
func pickAlphaMode(modes []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	for _, m := range modes {
		if m == wgpu.CompositeAlphaModePremultiplied {
			return m
		}
	}
	for _, m := range modes {
		if m == wgpu.CompositeAlphaModeUnpremultiplied {
			return m
		}
	}
	if len(modes) > 0 {
		return modes[0]
	}
	return wgpu.CompositeAlphaModeAuto
}
