// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package text

import (
	"image"
	"image/draw"
	"log/slog"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/atlas"
	"github.com/pop-os/iced/scene"
)

// SubpixelBuckets is the number of horizontal subpixel positions a
// glyph is rasterized at. Four buckets of a quarter pixel each.
const SubpixelBuckets = 4

// Key identifies one rasterized glyph in the cache.
type Key struct {
	Font     scene.FontID
	Glyph    GID
	SizeBits uint32

	// Subpixel is the quarter-pixel horizontal offset bucket, 0 to 3.
	Subpixel uint8
}

// NewKey builds a cache key for a glyph at a pixel size and horizontal
// pen position. The fractional pen position selects the subpixel
// bucket.
func NewKey(fontID scene.FontID, glyph GID, size, penX float32) Key {
	return Key{
		Font:     fontID,
		Glyph:    glyph,
		SizeBits: math.Float32bits(size),
		Subpixel: SubpixelBucket(penX),
	}
}

// SubpixelBucket quantizes a horizontal position into one of the
// quarter-pixel buckets.
func SubpixelBucket(x float32) uint8 {
	frac := x - float32(math.Floor(float64(x)))
	b := uint8(frac * SubpixelBuckets)
	if b >= SubpixelBuckets {
		b = SubpixelBuckets - 1
	}
	return b
}

// Size recovers the pixel size encoded in the key.
func (k Key) Size() float32 { return math.Float32frombits(k.SizeBits) }

// RasterGlyph locates a rasterized glyph in the atlas.
type RasterGlyph struct {
	Entry atlas.Entry

	// Left and Top offset the mask's top-left corner from the glyph
	// origin on the baseline, in pixels. Top is negative for glyphs
	// extending above the baseline.
	Left, Top int

	// Empty marks glyphs with no coverage, like spaces. Empty glyphs
	// occupy no atlas space.
	Empty bool
}

// GlyphCacheConfig holds configuration for GlyphCache.
type GlyphCacheConfig struct {
	// Padding is the number of transparent texels around each mask in
	// the atlas, keeping bilinear sampling from bleeding neighbors.
	// Default: 1
	Padding int
}

// DefaultGlyphCacheConfig returns the default cache configuration.
func DefaultGlyphCacheConfig() GlyphCacheConfig {
	return GlyphCacheConfig{Padding: 1}
}

// GlyphCache rasterizes glyph outlines on demand and stores the masks
// in the texture atlas.
//
// Atlas eviction is handled by re-validation: Resolve checks the
// cached entry against the atlas each time and rasterizes again when
// the entry went stale. Call Maintain once per frame to drop stale map
// entries in bulk.
//
// GlyphCache is owned by the render thread and not safe for
// concurrent use.
type GlyphCache struct {
	store  *Store
	atlas  *atlas.Atlas
	cfg    GlyphCacheConfig
	glyphs map[Key]RasterGlyph
	upload func(atlas.Entry, *image.Alpha)

	buf sfnt.Buffer
	ras vector.Rasterizer
}

// NewGlyphCache creates a glyph cache backed by the given store and
// atlas. Zero config fields fall back to their defaults.
func NewGlyphCache(store *Store, a *atlas.Atlas, cfg GlyphCacheConfig) *GlyphCache {
	if cfg.Padding < 0 {
		cfg.Padding = 1
	}
	return &GlyphCache{
		store:  store,
		atlas:  a,
		cfg:    cfg,
		glyphs: make(map[Key]RasterGlyph),
	}
}

// OnUpload registers the callback that copies a freshly rasterized
// mask into the GPU texture behind an atlas entry.
func (c *GlyphCache) OnUpload(fn func(atlas.Entry, *image.Alpha)) {
	c.upload = fn
}

// Atlas returns the mask atlas backing this cache.
func (c *GlyphCache) Atlas() *atlas.Atlas { return c.atlas }

// Resolve returns the atlas location of a glyph, rasterizing it on a
// miss or after its atlas entry was evicted. Resolving the same key
// twice in a frame returns the same entry.
func (c *GlyphCache) Resolve(key Key) (RasterGlyph, error) {
	if g, ok := c.glyphs[key]; ok {
		if g.Empty {
			return g, nil
		}
		if c.atlas.Valid(g.Entry) {
			c.atlas.Touch(g.Entry)
			return g, nil
		}
		delete(c.glyphs, key)
	}

	mask, left, top := c.rasterize(key)
	if mask == nil {
		g := RasterGlyph{Empty: true}
		c.glyphs[key] = g
		return g, nil
	}

	entry, err := c.atlas.Allocate(mask.Rect.Dx(), mask.Rect.Dy())
	if err != nil {
		return RasterGlyph{}, err
	}
	if c.upload != nil {
		c.upload(entry, mask)
	}
	g := RasterGlyph{Entry: entry, Left: left, Top: top}
	c.glyphs[key] = g
	return g, nil
}

// Maintain drops cache entries whose atlas space was evicted. Call
// once per frame after atlas maintenance.
func (c *GlyphCache) Maintain() {
	for k, g := range c.glyphs {
		if !g.Empty && !c.atlas.Valid(g.Entry) {
			delete(c.glyphs, k)
		}
	}
}

// Len returns the number of cached glyphs.
func (c *GlyphCache) Len() int { return len(c.glyphs) }

// rasterize renders the glyph outline into a padded alpha mask.
// Returns nil for glyphs with no coverage. Load failures produce the
// missing-glyph box instead of an error so one broken glyph never
// aborts a frame.
func (c *GlyphCache) rasterize(key Key) (*image.Alpha, int, int) {
	size := key.Size()
	entry, err := c.store.entry(key.Font)
	if err != nil {
		iced.Logger().Warn("glyph rasterization with unknown font",
			slog.Uint64("font", uint64(key.Font)))
		return c.missingGlyph(size, key.Subpixel)
	}

	ppem := fixed.Int26_6(size * 64)
	segs, err := entry.sfnt.LoadGlyph(&c.buf, sfnt.GlyphIndex(key.Glyph), ppem, nil)
	if err != nil {
		iced.Logger().Warn("glyph load failed",
			slog.Uint64("font", uint64(key.Font)),
			slog.Uint64("glyph", uint64(key.Glyph)),
			slog.String("error", err.Error()))
		return c.missingGlyph(size, key.Subpixel)
	}
	if len(segs) == 0 {
		return nil, 0, 0
	}

	dx := float32(key.Subpixel) / SubpixelBuckets

	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	visit := func(p fixed.Point26_6) {
		x := float32(p.X)/64 + dx
		y := float32(p.Y) / 64
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	for _, seg := range segs {
		for i := 0; i < segPoints(seg.Op); i++ {
			visit(seg.Args[i])
		}
	}

	pad := c.cfg.Padding
	left := int(math.Floor(float64(minX))) - pad
	top := int(math.Floor(float64(minY))) - pad
	w := int(math.Ceil(float64(maxX))) - left + pad
	h := int(math.Ceil(float64(maxY))) - top + pad
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}

	c.ras.Reset(w, h)
	c.ras.DrawOp = draw.Src
	ox, oy := float32(-left)+dx, float32(-top)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + ox, float32(p.Y)/64 + oy
	}
	started := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			// sfnt contours carry no explicit close op.
			if started {
				c.ras.ClosePath()
			}
			started = true
			x, y := pt(seg.Args[0])
			c.ras.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			c.ras.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			c.ras.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dxp, dyp := pt(seg.Args[2])
			c.ras.CubeTo(bx, by, cx, cy, dxp, dyp)
		}
	}
	c.ras.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	c.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, left, top
}

// missingGlyph rasterizes the .notdef box: a hollow rectangle sized to
// the font size.
func (c *GlyphCache) missingGlyph(size float32, subpixel uint8) (*image.Alpha, int, int) {
	boxW := size * 0.55
	boxH := size * 0.7
	stroke := max(size/14, 1)
	dx := float32(subpixel) / SubpixelBuckets

	pad := c.cfg.Padding
	w := int(math.Ceil(float64(boxW+dx))) + 2*pad
	h := int(math.Ceil(float64(boxH))) + 2*pad

	c.ras.Reset(w, h)
	c.ras.DrawOp = draw.Src
	fp := float32(pad)

	// Outer contour clockwise, inner counter-clockwise: the winding
	// cancels and leaves a hollow frame.
	c.ras.MoveTo(fp+dx, fp)
	c.ras.LineTo(fp+dx+boxW, fp)
	c.ras.LineTo(fp+dx+boxW, fp+boxH)
	c.ras.LineTo(fp+dx, fp+boxH)
	c.ras.ClosePath()
	c.ras.MoveTo(fp+dx+stroke, fp+stroke)
	c.ras.LineTo(fp+dx+stroke, fp+boxH-stroke)
	c.ras.LineTo(fp+dx+boxW-stroke, fp+boxH-stroke)
	c.ras.LineTo(fp+dx+boxW-stroke, fp+stroke)
	c.ras.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	c.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	// The box hangs from the baseline like an uppercase glyph.
	return mask, 0, -int(math.Ceil(float64(boxH))) - pad
}

func segPoints(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}
