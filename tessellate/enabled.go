// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build !nocanvas

package tessellate

// Enabled reports whether path tessellation is compiled in.
const Enabled = true
