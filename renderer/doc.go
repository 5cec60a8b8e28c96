// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package renderer drives the GPU: it owns the device, the surface,
// the ring of frame buffers and the atlas textures, and turns built
// batch frames into submitted command buffers.
//
// The frame loop is BeginFrame, Submit, Present. One command encoder
// is recorded per frame and batches execute in submission order.
// Present is the only blocking call. A frame may be abandoned before
// submission, for example when the window was resized mid-build; no
// partial GPU work is submitted for an abandoned frame.
package renderer
