// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package vecimg

import (
	"errors"
	"image"

	"github.com/pop-os/iced/atlas"
	"github.com/pop-os/iced/cache"
	"github.com/pop-os/iced/scene"
)

// ErrDisabled is returned when vector image support was compiled out
// with the nosvg build tag.
var ErrDisabled = errors.New("vecimg: disabled in this build")

// ErrBadSize is returned for non-positive target dimensions.
var ErrBadSize = errors.New("vecimg: non-positive target size")

// Config holds configuration for Rasterizer.
type Config struct {
	// CacheSize is the maximum number of cached rasterizations.
	// Default: 128
	CacheSize int

	// CacheLifetime is the number of frames a rasterization survives
	// without use. Default: 64
	CacheLifetime int
}

// DefaultConfig returns the default rasterizer configuration.
func DefaultConfig() Config {
	return Config{
		CacheSize:     128,
		CacheLifetime: 64,
	}
}

type rasterKey struct {
	id   uint64
	w, h int
}

// Rasterizer renders vector image documents into atlas-backed RGBA
// bitmaps, one per (document, pixel size) pair.
//
// Rasterizer is owned by the render thread and not safe for
// concurrent use.
type Rasterizer struct {
	atlas  *atlas.Atlas
	cfg    Config
	cache  *cache.Cache[rasterKey, atlas.Entry]
	upload func(atlas.Entry, *image.RGBA)
}

// New creates a rasterizer backed by the given atlas. Zero config
// fields fall back to their defaults.
func New(a *atlas.Atlas, cfg Config) *Rasterizer {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 128
	}
	if cfg.CacheLifetime <= 0 {
		cfg.CacheLifetime = 64
	}
	r := &Rasterizer{
		atlas: a,
		cfg:   cfg,
		cache: cache.New[rasterKey, atlas.Entry](cfg.CacheSize),
	}
	r.cache.OnEvict(func(_ rasterKey, e atlas.Entry) {
		a.Free(e)
	})
	return r
}

// OnUpload registers the callback that copies rasterized pixels into
// the GPU texture behind an atlas entry. Pixels are premultiplied
// RGBA.
func (r *Rasterizer) OnUpload(fn func(atlas.Entry, *image.RGBA)) {
	r.upload = fn
}

// Atlas returns the color atlas backing this rasterizer.
func (r *Rasterizer) Atlas() *atlas.Atlas { return r.atlas }

// Rasterize renders the document at the given pixel size, reusing the
// cached result when the same document was already rendered at that
// size. Distinct sizes are distinct atlas entries. Broken documents
// render as the placeholder pattern instead of failing the frame.
func (r *Rasterizer) Rasterize(h *scene.VectorHandle, width, height int) (atlas.Entry, error) {
	if !Enabled {
		return atlas.Entry{}, ErrDisabled
	}
	if width <= 0 || height <= 0 {
		return atlas.Entry{}, ErrBadSize
	}
	if h == nil {
		return atlas.Entry{}, errors.New("vecimg: nil handle")
	}

	key := rasterKey{id: h.ID, w: width, h: height}
	if e, ok := r.cache.Get(key); ok && r.atlas.Valid(e) {
		r.atlas.Touch(e)
		return e, nil
	}

	img := renderDocument(h, width, height)
	entry, err := r.atlas.Allocate(width, height)
	if err != nil {
		return atlas.Entry{}, err
	}
	if r.upload != nil {
		r.upload(entry, img)
	}
	r.cache.Set(key, entry)
	return entry, nil
}

// Trim advances the cache one frame, dropping rasterizations unused
// for the configured lifetime and entries whose atlas space was
// evicted. Call once per rendered frame.
func (r *Rasterizer) Trim() {
	r.cache.RemoveIf(func(_ rasterKey, e atlas.Entry) bool {
		return !r.atlas.Valid(e)
	})
	r.cache.Maintain(uint64(r.cfg.CacheLifetime))
}

// CacheLen returns the number of cached rasterizations.
func (r *Rasterizer) CacheLen() int { return r.cache.Len() }
