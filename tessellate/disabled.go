// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build nocanvas

package tessellate

import "github.com/pop-os/iced/scene"

// Enabled reports whether path tessellation is compiled in.
const Enabled = false

func fillContours(contours []contour, rule scene.FillRule) *Mesh { return &Mesh{} }

func expandStroke(contours []contour, style scene.StrokeStyle) []contour { return nil }
