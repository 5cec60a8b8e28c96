// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package iced provides the GPU-backed rendering core of a retained-mode
// GUI toolkit.
//
// The packages in this module turn a per-frame scene description (an
// ordered list of layers holding drawing primitives) into a minimal set
// of GPU draw calls and present the result to a window surface:
//
//   - scene: the closed set of drawing primitives and the Layer type
//   - atlas: a shared texture atlas with bounded memory and LRU eviction
//   - text: run shaping and a glyph cache backed by the atlas
//   - tessellate: fill and stroke tessellation of vector paths, memoized
//   - vecimg: resolution-keyed rasterization of vector images
//   - batch: grouping of primitives into pipeline-specific draw batches
//   - renderer: GPU buffers, pipelines, command submission and presentation
//
// Widget layout, hit testing, the event loop, window creation and
// application state live upstream; they produce the scene snapshot this
// module consumes and never participate in rendering directly.
//
// # Coordinate System
//
// Logical coordinates have the origin at the top left, X increasing
// right and Y increasing down. Device pixel coordinates are logical
// coordinates scaled by the viewport's scale factor.
package iced
