// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package iced

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestPackPremultipliesAlpha(t *testing.T) {
	got := RGBA(1, 1, 1, 0.5).Pack()
	// Color channels are scaled by alpha regardless of the gamma mode;
	// white stays white in both linear and sRGB space.
	for i := 0; i < 3; i++ {
		if !approxEq(got[i], 0.5) {
			t.Errorf("channel %d = %v, want 0.5", i, got[i])
		}
	}
	if got[3] != 0.5 {
		t.Errorf("alpha = %v, want 0.5", got[3])
	}
}

func TestPackTransparentIsZero(t *testing.T) {
	got := RGBA(1, 0.5, 0.25, 0).Pack()
	if got != [4]float32{} {
		t.Errorf("Pack of transparent = %v, want all zeros", got)
	}
}

func TestPackOpaqueExtremes(t *testing.T) {
	// Black and white are fixed points of the sRGB transfer function,
	// so these hold under both build modes.
	if got := Black.Pack(); got != [4]float32{0, 0, 0, 1} {
		t.Errorf("Black = %v", got)
	}
	if got := White.Pack(); got != [4]float32{1, 1, 1, 1} {
		t.Errorf("White = %v", got)
	}
}

func TestSrgbToLinear(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"below knee", 0.04, 0.04 / 12.92},
		{"mid gray", 0.5, 0.21404114},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := srgbToLinear(tt.in)
			if math32.Abs(got-tt.want) > 1e-5 {
				t.Errorf("srgbToLinear(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSrgbToLinearMonotonic(t *testing.T) {
	prev := float32(-1)
	for c := float32(0); c <= 1.0001; c += 0.01 {
		got := srgbToLinear(c)
		if got <= prev {
			t.Fatalf("not monotonic at %v: %v <= %v", c, got, prev)
		}
		prev = got
	}
}
