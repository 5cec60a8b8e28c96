// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package text shapes and rasterizes text for atlas-backed GPU drawing.
//
// Shaping goes through HarfBuzz (go-text/typesetting) and is split into
// bidirectional runs first, so mixed-direction content lays out
// correctly. Shaped runs are cached per frame. Individual glyphs are
// rasterized from their font outlines into alpha masks and packed into
// the texture atlas; a stale atlas entry is detected on lookup and the
// glyph is rasterized again.
package text
