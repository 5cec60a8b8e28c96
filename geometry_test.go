// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package iced

import (
	"testing"

	"github.com/chewxy/math32"
)

const geomEps = 1e-5

func approxEq(a, b float32) bool {
	return math32.Abs(a-b) <= geomEps
}

func rectApproxEq(a, b Rectangle) bool {
	return approxEq(a.X, b.X) && approxEq(a.Y, b.Y) &&
		approxEq(a.Width, b.Width) && approxEq(a.Height, b.Height)
}

func TestRectangleIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Rectangle
		want Rectangle
	}{
		{"overlapping", Rect(0, 0, 10, 10), Rect(5, 5, 10, 10), Rect(5, 5, 5, 5)},
		{"contained", Rect(0, 0, 10, 10), Rect(2, 2, 4, 4), Rect(2, 2, 4, 4)},
		{"disjoint", Rect(0, 0, 10, 10), Rect(20, 20, 5, 5), Rectangle{}},
		{"touching edges", Rect(0, 0, 10, 10), Rect(10, 0, 5, 5), Rectangle{}},
		{"identical", Rect(1, 2, 3, 4), Rect(1, 2, 3, 4), Rect(1, 2, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersection(tt.b)
			if !rectApproxEq(got, tt.want) {
				t.Errorf("Intersection = %+v, want %+v", got, tt.want)
			}
			// Intersection is commutative.
			if rev := tt.b.Intersection(tt.a); !rectApproxEq(rev, got) {
				t.Errorf("Intersection not commutative: %+v vs %+v", got, rev)
			}
		})
	}
}

func TestRectangleUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rectangle
		want Rectangle
	}{
		{"disjoint", Rect(0, 0, 2, 2), Rect(8, 8, 2, 2), Rect(0, 0, 10, 10)},
		{"contained", Rect(0, 0, 10, 10), Rect(2, 2, 4, 4), Rect(0, 0, 10, 10)},
		{"empty left", Rectangle{}, Rect(3, 4, 5, 6), Rect(3, 4, 5, 6)},
		{"empty right", Rect(3, 4, 5, 6), Rectangle{}, Rect(3, 4, 5, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Union(tt.b)
			if !rectApproxEq(got, tt.want) {
				t.Errorf("Union = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectangleSnap(t *testing.T) {
	got := Rect(10.2, 10.7, 50.5, 49.1).Snap()
	want := Rect(10, 10, 51, 50)
	if !rectApproxEq(got, want) {
		t.Errorf("Snap = %+v, want %+v", got, want)
	}
	// Snapping an already integral rectangle is a no-op.
	r := Rect(3, 4, 5, 6)
	if got := r.Snap(); !rectApproxEq(got, r) {
		t.Errorf("Snap changed integral rect: %+v", got)
	}
}

func TestRectangleContains(t *testing.T) {
	r := Rect(0, 0, 10, 10)
	if !r.Contains(Pt(0, 0)) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(Pt(10, 10)) {
		t.Error("bottom-right corner should be outside")
	}
	if r.Contains(Pt(-1, 5)) {
		t.Error("point left of rect should be outside")
	}
}

func TestTransformationApply(t *testing.T) {
	tests := []struct {
		name string
		xf   Transformation
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translation(10, -5), Pt(3, 4), Pt(13, -1)},
		{"scale", Scaling(2, 3), Pt(3, 4), Pt(6, 12)},
		{"rotate quarter", Rotation(math32.Pi / 2), Pt(1, 0), Pt(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.xf.Apply(tt.in)
			if !approxEq(got.X, tt.want.X) || !approxEq(got.Y, tt.want.Y) {
				t.Errorf("Apply(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformationMultiplyOrder(t *testing.T) {
	// Multiply applies the right operand first: scale then translate
	// differs from translate then scale.
	scaleThenTranslate := Translation(10, 0).Multiply(Scaling(2, 2))
	got := scaleThenTranslate.Apply(Pt(1, 1))
	if !approxEq(got.X, 12) || !approxEq(got.Y, 2) {
		t.Errorf("scale-then-translate = %+v, want (12, 2)", got)
	}

	translateThenScale := Scaling(2, 2).Multiply(Translation(10, 0))
	got = translateThenScale.Apply(Pt(1, 1))
	if !approxEq(got.X, 22) || !approxEq(got.Y, 2) {
		t.Errorf("translate-then-scale = %+v, want (22, 2)", got)
	}
}

func TestTransformationApplyRect(t *testing.T) {
	// A rotated rectangle's bounding box covers all four corners.
	xf := Rotation(math32.Pi / 2)
	got := xf.ApplyRect(Rect(0, 0, 10, 4))
	want := Rect(-4, 0, 4, 10)
	if !rectApproxEq(got, want) {
		t.Errorf("ApplyRect = %+v, want %+v", got, want)
	}
}

func TestTransformationPredicates(t *testing.T) {
	tests := []struct {
		name        string
		xf          Transformation
		identity    bool
		translation bool
		uniform     bool
	}{
		{"identity", Identity(), true, true, true},
		{"translation", Translation(5, 7), false, true, true},
		{"uniform scale", Scaling(2, 2), false, false, true},
		{"non-uniform scale", Scaling(2, 3), false, false, false},
		{"shear", Transformation{A: 1, B: 0.5, E: 1}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.xf.IsIdentity(); got != tt.identity {
				t.Errorf("IsIdentity = %v, want %v", got, tt.identity)
			}
			if got := tt.xf.IsTranslation(); got != tt.translation {
				t.Errorf("IsTranslation = %v, want %v", got, tt.translation)
			}
			if got := tt.xf.HasUniformScale(); got != tt.uniform {
				t.Errorf("HasUniformScale = %v, want %v", got, tt.uniform)
			}
		})
	}
}

func TestPointVectorOps(t *testing.T) {
	p := Pt(3, 4)
	if got := p.Length(); !approxEq(got, 5) {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := p.Distance(Pt(0, 0)); !approxEq(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := p.Dot(Pt(2, 1)); !approxEq(got, 10) {
		t.Errorf("Dot = %v, want 10", got)
	}
	if got := p.Cross(Pt(1, 0)); !approxEq(got, -4) {
		t.Errorf("Cross = %v, want -4", got)
	}
}
