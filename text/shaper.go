// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package text

import (
	"log/slog"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/cache"
	"github.com/pop-os/iced/scene"
)

// Glyph is a positioned glyph produced by shaping. X and Y are offsets
// from the run origin in pixels; the origin sits on the baseline.
type Glyph struct {
	ID      GID
	Font    scene.FontID
	X, Y    float32
	Advance float32

	// Cluster is the rune index in the source text this glyph maps to.
	Cluster int
}

// Run is the result of shaping one string at one font and size.
type Run struct {
	Glyphs  []Glyph
	Width   float32
	Ascent  float32
	Descent float32
}

// ShaperConfig holds configuration for Shaper.
type ShaperConfig struct {
	// RunCacheSize is the maximum number of cached shaped runs.
	// Default: 512
	RunCacheSize int

	// RunLifetime is the number of frames a cached run survives
	// without use. Default: 2
	RunLifetime int
}

// DefaultShaperConfig returns the default shaper configuration.
func DefaultShaperConfig() ShaperConfig {
	return ShaperConfig{
		RunCacheSize: 512,
		RunLifetime:  2,
	}
}

type runKey struct {
	content  string
	font     scene.FontID
	sizeBits uint32
}

// Shaper turns strings into positioned glyph runs via HarfBuzz.
// Mixed-direction text is split into bidirectional runs before shaping
// so right-to-left spans reorder correctly.
//
// Shaping is deterministic: the same content, font and size always
// produce the same run. Results are cached; call Trim once per frame
// to drop runs the frame did not use.
//
// Shaper is owned by the render thread and not safe for concurrent
// use, except that the underlying HarfBuzz shapers are pooled so
// worker goroutines may call shapeUncached through Shape on their own
// Shaper instances.
type Shaper struct {
	store *Store
	cfg   ShaperConfig
	runs  *cache.Cache[runKey, Run]

	// pool holds shaping.HarfbuzzShaper instances; they carry internal
	// buffers and are not safe for concurrent use.
	pool sync.Pool
}

// NewShaper creates a shaper over the given font store. Zero config
// fields fall back to their defaults.
func NewShaper(store *Store, cfg ShaperConfig) *Shaper {
	if cfg.RunCacheSize <= 0 {
		cfg.RunCacheSize = 512
	}
	if cfg.RunLifetime <= 0 {
		cfg.RunLifetime = 2
	}
	return &Shaper{
		store: store,
		cfg:   cfg,
		runs:  cache.New[runKey, Run](cfg.RunCacheSize),
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// Shape lays out content at the given font and size. The empty string
// shapes to an empty run with font metrics applied.
func (s *Shaper) Shape(content string, fontID scene.FontID, size float32) (Run, error) {
	key := runKey{content: content, font: fontID, sizeBits: math.Float32bits(size)}
	return s.runs.GetOrCreate(key, func() (Run, error) {
		return s.shapeUncached(content, fontID, size)
	})
}

// Measure returns the pixel extent of content at the given font and
// size, without touching the atlas.
func (s *Shaper) Measure(content string, fontID scene.FontID, size float32) (iced.Size, error) {
	run, err := s.Shape(content, fontID, size)
	if err != nil {
		return iced.Size{}, err
	}
	return iced.Size{Width: run.Width, Height: run.Ascent + run.Descent}, nil
}

// Trim advances the run cache frame and drops runs unused for the
// configured lifetime. Call once per rendered frame.
func (s *Shaper) Trim() {
	s.runs.Maintain(uint64(s.cfg.RunLifetime))
}

// CacheLen returns the number of cached shaped runs.
func (s *Shaper) CacheLen() int { return s.runs.Len() }

func (s *Shaper) shapeUncached(content string, fontID scene.FontID, size float32) (Run, error) {
	entry, err := s.store.entry(fontID)
	if err != nil {
		return Run{}, err
	}

	m, err := s.store.Metrics(fontID, size)
	if err != nil {
		return Run{}, err
	}
	run := Run{Ascent: m.Ascent, Descent: m.Descent}
	if content == "" {
		return run, nil
	}

	// font.Face carries per-face glyph caches and is not safe for
	// concurrent use; one per shaping call.
	face := font.NewFace(entry.typo)

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	defer s.pool.Put(hb)

	runes := []rune(content)
	var penX float32
	for _, seg := range splitBidi(content) {
		input := shaping.Input{
			Text:      runes,
			RunStart:  seg.start,
			RunEnd:    seg.end,
			Direction: seg.dir,
			Face:      face,
			Size:      fixed.Int26_6(size * 64),
			Script:    detectScript(runes[seg.start:seg.end]),
			Language:  language.NewLanguage("und"),
		}
		out := hb.Shape(input)
		for _, g := range out.Glyphs {
			adv := fixedToFloat(g.Advance)
			run.Glyphs = append(run.Glyphs, Glyph{
				ID:      GID(g.GlyphID),
				Font:    fontID,
				X:       penX + fixedToFloat(g.XOffset),
				Y:       -fixedToFloat(g.YOffset),
				Advance: adv,
				Cluster: g.TextIndex(),
			})
			penX += adv
		}
	}
	run.Width = penX

	if len(run.Glyphs) == 0 && len(runes) > 0 {
		iced.Logger().Warn("shaping produced no glyphs", slog.Int("runes", len(runes)))
	}
	return run, nil
}

// bidiSegment is a maximal span of content with one resolved direction.
type bidiSegment struct {
	start, end int // rune indices
	dir        di.Direction
}

// splitBidi resolves the bidirectional order of content and returns
// its directional runs in visual order.
func splitBidi(content string) []bidiSegment {
	runes := []rune(content)
	var p bidi.Paragraph
	if _, err := p.SetString(content); err != nil {
		return []bidiSegment{{start: 0, end: len(runes), dir: di.DirectionLTR}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []bidiSegment{{start: 0, end: len(runes), dir: di.DirectionLTR}}
	}

	segs := make([]bidiSegment, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		start, end := r.Pos()
		dir := di.DirectionLTR
		if r.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		segs = append(segs, bidiSegment{start: start, end: end + 1, dir: dir})
	}
	if len(segs) == 0 {
		segs = append(segs, bidiSegment{start: 0, end: len(runes), dir: di.DirectionLTR})
	}
	return segs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
