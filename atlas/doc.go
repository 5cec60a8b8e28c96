// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package atlas packs small rectangles into large fixed-size pages so
// glyphs and images can share a handful of GPU textures.
//
// The atlas performs only CPU bookkeeping. Callers create a texture
// per page through the OnGrow callback, upload pixels into the regions
// handed out by Allocate, and drop texture regions invalidated through
// OnEvict. Placement inside a page uses a guillotine partition with
// best-area-fit selection; eviction is least-recently-used with a
// protection window so rectangles referenced by in-flight frames are
// never reclaimed.
package atlas
