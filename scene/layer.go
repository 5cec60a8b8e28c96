// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package scene

import "github.com/pop-os/iced"

// Layer is an ordered run of primitives sharing a clip bound and a
// transform. Layers themselves are ordered; the renderer draws them
// back to front and never reorders primitives across layers.
type Layer struct {
	// Bounds clips the layer's content, in logical coordinates.
	// An empty rectangle means the layer fills the whole viewport.
	Bounds iced.Rectangle

	// Transform maps the layer's coordinates to viewport coordinates.
	Transform iced.Transformation

	// Primitives are drawn in order within the layer.
	Primitives []Primitive
}

// NewLayer creates an unclipped, untransformed layer.
func NewLayer() *Layer {
	return &Layer{Transform: iced.Identity()}
}

// Push appends primitives to the layer, preserving order.
func (l *Layer) Push(ps ...Primitive) {
	l.Primitives = append(l.Primitives, ps...)
}
