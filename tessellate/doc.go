// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package tessellate converts vector paths into triangle meshes.
//
// Curves are flattened to line segments at a fixed tolerance, then a
// scanline sweep over the resulting edges produces trapezoids honoring
// the path's fill rule, and each trapezoid is split into two
// triangles. Strokes are expanded into a fill outline first: an offset
// path on each side of the spine, connected by the configured joins
// and caps, filled with the nonzero rule.
//
// Tessellation is deterministic. The same path, style and transform
// always produce byte-identical vertex and index slices, so meshes can
// be cached and compared across frames.
//
// The whole subsystem can be compiled out with the nocanvas build tag,
// leaving stubs that report ErrDisabled.
package tessellate
