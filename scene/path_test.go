// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"testing"

	"github.com/pop-os/iced"
)

func TestPathIdentityIsUnique(t *testing.T) {
	a := NewPath()
	b := NewPath()
	if a.ID() == b.ID() {
		t.Fatalf("two paths share identity %d", a.ID())
	}
}

func TestPathVersionBumpsOnMutation(t *testing.T) {
	p := NewPath()
	v0 := p.Version()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.Close()
	if p.Version() != v0+3 {
		t.Errorf("version = %d, want %d", p.Version(), v0+3)
	}
}

func TestPathVerbsAndPoints(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.QuadTo(3, 4, 5, 6)
	p.CubicTo(7, 8, 9, 10, 11, 12)
	p.Close()

	wantVerbs := []PathVerb{VerbMoveTo, VerbQuadTo, VerbCubicTo, VerbClose}
	gotVerbs := p.Verbs()
	if len(gotVerbs) != len(wantVerbs) {
		t.Fatalf("verbs = %v, want %v", gotVerbs, wantVerbs)
	}
	for i, v := range wantVerbs {
		if gotVerbs[i] != v {
			t.Errorf("verb %d = %v, want %v", i, gotVerbs[i], v)
		}
	}

	// Coordinate data is laid out per verb with no gaps.
	var wantLen int
	for _, v := range wantVerbs {
		wantLen += v.PointCount()
	}
	if len(p.Points()) != wantLen {
		t.Errorf("points length = %d, want %d", len(p.Points()), wantLen)
	}
}

func TestPathBounds(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, 20)
	p.LineTo(30, 5)
	p.LineTo(-5, 40)

	want := iced.Rect(-5, 5, 35, 35)
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestPathRectangle(t *testing.T) {
	p := NewPath()
	p.Rectangle(iced.Rect(2, 3, 10, 20))

	if p.IsEmpty() {
		t.Fatal("path should not be empty")
	}
	if got := p.Bounds(); got != iced.Rect(2, 3, 10, 20) {
		t.Errorf("Bounds = %+v", got)
	}
	verbs := p.Verbs()
	if verbs[0] != VerbMoveTo || verbs[len(verbs)-1] != VerbClose {
		t.Errorf("rectangle should start with MoveTo and end with Close: %v", verbs)
	}
}

func TestPathCircleBounds(t *testing.T) {
	p := NewPath()
	p.Circle(iced.Pt(50, 50), 10)

	// Control points of the cubic arcs stay within the circle's box.
	want := iced.Rect(40, 40, 20, 20)
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestPathIsEmpty(t *testing.T) {
	p := NewPath()
	if !p.IsEmpty() {
		t.Error("new path should be empty")
	}
	p.MoveTo(0, 0)
	if p.IsEmpty() {
		t.Error("path with MoveTo should not be empty")
	}
}

func TestLayerPushPreservesOrder(t *testing.T) {
	l := NewLayer()
	if !l.Transform.IsIdentity() {
		t.Error("new layer should carry the identity transform")
	}

	a := Quad{Bounds: iced.Rect(0, 0, 1, 1)}
	b := Quad{Bounds: iced.Rect(1, 0, 1, 1)}
	l.Push(a)
	l.Push(b)

	if len(l.Primitives) != 2 {
		t.Fatalf("primitive count = %d, want 2", len(l.Primitives))
	}
	if l.Primitives[0].(Quad).Bounds != a.Bounds || l.Primitives[1].(Quad).Bounds != b.Bounds {
		t.Errorf("primitives out of order: %v", l.Primitives)
	}
}
