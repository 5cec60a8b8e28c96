// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

//go:build webcolors

package iced

// gammaCorrection is disabled under the webcolors tag: colors blend in
// nonlinear sRGB space, matching web browsers at the cost of accuracy.
const gammaCorrection = false
