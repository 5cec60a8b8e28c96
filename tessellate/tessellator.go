// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package tessellate

import (
	"errors"
	"math"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/cache"
	"github.com/pop-os/iced/scene"
)

// ErrDisabled is returned when path tessellation was compiled out with
// the nocanvas build tag.
var ErrDisabled = errors.New("tessellate: disabled in this build")

// Config holds configuration for Tessellator.
type Config struct {
	// CacheSize is the maximum number of cached meshes.
	// Default: 256
	CacheSize int

	// CacheLifetime is the number of frames a cached mesh survives
	// without use. Default: 64
	CacheLifetime int
}

// DefaultConfig returns the default tessellator configuration.
func DefaultConfig() Config {
	return Config{
		CacheSize:     256,
		CacheLifetime: 64,
	}
}

// transformKey captures the geometry-affecting part of a transform in
// a comparable form.
type transformKey struct {
	a, b, c, d, e, f uint32
}

func newTransformKey(t iced.Transformation) transformKey {
	return transformKey{
		a: math.Float32bits(t.A), b: math.Float32bits(t.B),
		c: math.Float32bits(t.C), d: math.Float32bits(t.D),
		e: math.Float32bits(t.E), f: math.Float32bits(t.F),
	}
}

type fillKey struct {
	path    uint64
	version uint64
	rule    scene.FillRule
	xf      transformKey
}

type strokeKey struct {
	path      uint64
	version   uint64
	widthBits uint32
	cap       scene.LineCap
	join      scene.LineJoin
	miterBits uint32
	xf        transformKey
}

// Tessellator converts paths into cached triangle meshes.
//
// Meshes are memoized by path identity, geometry version, fill or
// stroke parameters, and the transform. Mutating a path bumps its
// version, so stale meshes simply stop being referenced and age out.
// Call Trim once per frame.
//
// Tessellator is owned by the render thread and not safe for
// concurrent use.
type Tessellator struct {
	cfg     Config
	fills   *cache.Cache[fillKey, *Mesh]
	strokes *cache.Cache[strokeKey, *Mesh]
}

// New creates a tessellator. Zero config fields fall back to their
// defaults.
func New(cfg Config) *Tessellator {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.CacheLifetime <= 0 {
		cfg.CacheLifetime = 64
	}
	return &Tessellator{
		cfg:     cfg,
		fills:   cache.New[fillKey, *Mesh](cfg.CacheSize),
		strokes: cache.New[strokeKey, *Mesh](cfg.CacheSize),
	}
}

// Fill tessellates the interior of a path under the given fill rule.
// The transform is applied before flattening so curves stay smooth
// under magnification.
func (t *Tessellator) Fill(path *scene.Path, rule scene.FillRule, transform iced.Transformation) (*Mesh, error) {
	if !Enabled {
		return nil, ErrDisabled
	}
	if path == nil || path.IsEmpty() {
		return &Mesh{}, nil
	}
	key := fillKey{
		path:    path.ID(),
		version: path.Version(),
		rule:    rule,
		xf:      newTransformKey(transform),
	}
	return t.fills.GetOrCreate(key, func() (*Mesh, error) {
		return fillContours(flatten(path, transform), rule), nil
	})
}

// Stroke tessellates the outline of a path under the given stroke
// style.
func (t *Tessellator) Stroke(path *scene.Path, style scene.StrokeStyle, transform iced.Transformation) (*Mesh, error) {
	if !Enabled {
		return nil, ErrDisabled
	}
	if path == nil || path.IsEmpty() || style.Width <= 0 {
		return &Mesh{}, nil
	}
	key := strokeKey{
		path:      path.ID(),
		version:   path.Version(),
		widthBits: math.Float32bits(style.Width),
		cap:       style.Cap,
		join:      style.Join,
		miterBits: math.Float32bits(style.MiterLimit),
		xf:        newTransformKey(transform),
	}
	return t.strokes.GetOrCreate(key, func() (*Mesh, error) {
		outline := expandStroke(flatten(path, transform), style)
		return fillContours(outline, scene.NonZero), nil
	})
}

// Trim advances the mesh caches one frame and drops meshes unused for
// the configured lifetime. Call once per rendered frame.
func (t *Tessellator) Trim() {
	t.fills.Maintain(uint64(t.cfg.CacheLifetime))
	t.strokes.Maintain(uint64(t.cfg.CacheLifetime))
}

// CacheLen returns the total number of cached meshes.
func (t *Tessellator) CacheLen() int {
	return t.fills.Len() + t.strokes.Len()
}
