// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package scene defines the drawing primitives the rendering core
// consumes.
//
// A frame is described by an ordered list of [Layer] values, each
// holding an ordered list of [Primitive] values. Ordering follows the
// painter's algorithm: later layers and later primitives draw over
// earlier ones, and the renderer preserves that order exactly.
//
// The primitive set is closed: [Quad], [Mesh], [Text], [Image],
// [VectorImage] and [Group]. Consumers resolve primitives with an
// exhaustive type switch rather than dynamic dispatch, keeping the
// per-primitive hot path free of virtual calls.
//
// The upstream layout layer builds the scene; this module only reads
// it. A scene passed to the renderer is treated as an immutable
// snapshot for the duration of the frame.
package scene
