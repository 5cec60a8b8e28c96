// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package vecimg rasterizes vector image documents into the texture
// atlas at the exact pixel size a frame needs.
//
// A document is a list of filled paths in a view box; scaling happens
// at rasterization time, so every distinct target size is rendered
// fresh and cached separately. Pixels are premultiplied RGBA, matching
// the surface blend mode.
//
// The subsystem can be compiled out with the nosvg build tag, leaving
// stubs that report ErrDisabled.
package vecimg
