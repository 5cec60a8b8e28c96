// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build !webcolors

package iced

// gammaCorrection selects accurate blending in linear light.
// Build with the webcolors tag for nonlinear, web-compatible blending
// that matches how browsers composite sRGB values directly.
const gammaCorrection = true
