// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package batch turns scene layers into an ordered list of draw
// batches ready for GPU submission.
//
// The builder walks layers and primitives in paint order, resolves
// each primitive to geometry and atlas coordinates through the
// tessellation, glyph, image and vector-image caches, and emits
// batches that the renderer encodes one draw call each. Consecutive
// primitives sharing a pipeline, texture and scissor rectangle fold
// into a single batch; paint order is never reordered across a batch
// boundary.
package batch
