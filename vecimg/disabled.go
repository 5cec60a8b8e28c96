// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build nosvg

package vecimg

import (
	"image"

	"github.com/pop-os/iced/scene"
)

// Enabled reports whether vector image support is compiled in.
const Enabled = false

func renderDocument(h *scene.VectorHandle, width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}
