// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package tessellate

import (
	"math"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/internal/parallel"
	"github.com/pop-os/iced/scene"
)

// FillRequest names one fill tessellation wanted for the coming frame.
type FillRequest struct {
	Path      *scene.Path
	Rule      scene.FillRule
	Transform iced.Transformation
}

// StrokeRequest names one stroke tessellation wanted for the coming
// frame.
type StrokeRequest struct {
	Path      *scene.Path
	Style     scene.StrokeStyle
	Transform iced.Transformation
}

// Prepare tessellates the requests that are not already cached, fanning
// the work across the pool, then primes the cache with the results.
// Afterwards Fill and Stroke calls for the same requests are cache
// hits. Tessellation itself is pure; only the final cache insertion
// touches shared state, and it runs on the calling goroutine.
func (t *Tessellator) Prepare(pool *parallel.Pool, fills []FillRequest, strokes []StrokeRequest) {
	if !Enabled {
		return
	}

	type fillJob struct {
		key  fillKey
		req  FillRequest
		mesh *Mesh
	}
	type strokeJob struct {
		key  strokeKey
		req  StrokeRequest
		mesh *Mesh
	}

	var fj []*fillJob
	seenFills := make(map[fillKey]bool)
	for _, req := range fills {
		if req.Path == nil || req.Path.IsEmpty() {
			continue
		}
		key := fillKey{
			path:    req.Path.ID(),
			version: req.Path.Version(),
			rule:    req.Rule,
			xf:      newTransformKey(req.Transform),
		}
		if seenFills[key] {
			continue
		}
		seenFills[key] = true
		if _, ok := t.fills.Get(key); !ok {
			fj = append(fj, &fillJob{key: key, req: req})
		}
	}

	var sj []*strokeJob
	seenStrokes := make(map[strokeKey]bool)
	for _, req := range strokes {
		if req.Path == nil || req.Path.IsEmpty() || req.Style.Width <= 0 {
			continue
		}
		key := strokeKey{
			path:      req.Path.ID(),
			version:   req.Path.Version(),
			widthBits: math.Float32bits(req.Style.Width),
			cap:       req.Style.Cap,
			join:      req.Style.Join,
			miterBits: math.Float32bits(req.Style.MiterLimit),
			xf:        newTransformKey(req.Transform),
		}
		if seenStrokes[key] {
			continue
		}
		seenStrokes[key] = true
		if _, ok := t.strokes.Get(key); !ok {
			sj = append(sj, &strokeJob{key: key, req: req})
		}
	}

	work := make([]func(), 0, len(fj)+len(sj))
	for _, j := range fj {
		j := j
		work = append(work, func() {
			j.mesh = fillContours(flatten(j.req.Path, j.req.Transform), j.req.Rule)
		})
	}
	for _, j := range sj {
		j := j
		work = append(work, func() {
			outline := expandStroke(flatten(j.req.Path, j.req.Transform), j.req.Style)
			j.mesh = fillContours(outline, scene.NonZero)
		})
	}
	if pool != nil {
		pool.Run(work)
	} else {
		for _, fn := range work {
			fn()
		}
	}

	for _, j := range fj {
		t.fills.Set(j.key, j.mesh)
	}
	for _, j := range sj {
		t.strokes.Set(j.key, j.mesh)
	}
}
