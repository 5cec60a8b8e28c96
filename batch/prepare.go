// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"github.com/pop-os/iced"
	"github.com/pop-os/iced/scene"
	"github.com/pop-os/iced/tessellate"
)

// prepare fans the frame's tessellation work out to the worker pool
// before emission, so emitMesh runs against a warm cache. Independent
// paths tessellate in parallel; correctness does not depend on this
// pass.
func (b *Builder) prepare(layers []scene.Layer, device iced.Transformation) {
	var (
		fills   []tessellate.FillRequest
		strokes []tessellate.StrokeRequest
	)
	var collect func(prims []scene.Primitive, xf iced.Transformation)
	collect = func(prims []scene.Primitive, xf iced.Transformation) {
		for _, p := range prims {
			switch p := p.(type) {
			case scene.Mesh:
				if p.Stroke != nil {
					strokes = append(strokes, tessellate.StrokeRequest{
						Path:      p.Path,
						Style:     *p.Stroke,
						Transform: xf,
					})
				} else {
					fills = append(fills, tessellate.FillRequest{
						Path:      p.Path,
						Rule:      p.Rule,
						Transform: xf,
					})
				}
			case scene.Group:
				collect(p.Primitives, xf.Multiply(p.Transform))
			}
		}
	}
	for i := range layers {
		collect(layers[i].Primitives, device.Multiply(layers[i].Transform))
	}
	if len(fills) == 0 && len(strokes) == 0 {
		return
	}
	b.deps.Tessellator.Prepare(b.deps.Pool, fills, strokes)
}
