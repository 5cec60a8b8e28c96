// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"reflect"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/pop-os/iced"
	"github.com/pop-os/iced/atlas"
	"github.com/pop-os/iced/internal/parallel"
	"github.com/pop-os/iced/scene"
	"github.com/pop-os/iced/tessellate"
	"github.com/pop-os/iced/text"
	"github.com/pop-os/iced/vecimg"
)

func testBuilder(t *testing.T) (*Builder, *ImageCache) {
	t.Helper()
	colorAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	maskAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	store := text.NewStore()
	images := NewImageCache(colorAtlas)
	b := NewBuilder(Deps{
		Tessellator: tessellate.New(tessellate.Config{}),
		Shaper:      text.NewShaper(store, text.ShaperConfig{}),
		Glyphs:      text.NewGlyphCache(store, maskAtlas, text.GlyphCacheConfig{}),
		Vectors:     vecimg.New(colorAtlas, vecimg.Config{}),
		Images:      images,
	})
	return b, images
}

func quadPrim(bounds iced.Rectangle, c iced.Color) scene.Quad {
	return scene.Quad{Bounds: bounds, Background: c}
}

func oneLayer(prims ...scene.Primitive) []scene.Layer {
	l := scene.NewLayer()
	l.Push(prims...)
	return []scene.Layer{*l}
}

func TestPaintOrderPreserved(t *testing.T) {
	b, _ := testBuilder(t)
	red := iced.RGB(1, 0, 0)
	blue := iced.RGB(0, 0, 1)
	f := b.Build(oneLayer(
		quadPrim(iced.Rect(0, 0, 10, 10), red),
		quadPrim(iced.Rect(0, 0, 10, 10), blue),
	), iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) != 1 {
		t.Fatalf("got %d batches, want 1 merged quad batch", len(f.Batches))
	}
	batch := f.Batches[0]
	if batch.Pipeline != PipelineQuad || batch.Start != 0 || batch.Count != 2 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	if f.Quads[0].Colors[0] != red.Pack() {
		t.Errorf("first instance is not the red quad")
	}
	if f.Quads[1].Colors[0] != blue.Pack() {
		t.Errorf("second instance is not the blue quad")
	}
}

func TestPipelineChangeBreaksMerge(t *testing.T) {
	b, _ := testBuilder(t)
	path := scene.NewPath()
	path.Rectangle(iced.Rect(0, 0, 10, 10))
	f := b.Build(oneLayer(
		quadPrim(iced.Rect(0, 0, 10, 10), iced.White),
		scene.Mesh{Path: path, Color: iced.White},
		quadPrim(iced.Rect(20, 0, 10, 10), iced.White),
	), iced.Sz(100, 100), 1, iced.Black)

	want := []Pipeline{PipelineQuad, PipelineMesh, PipelineQuad}
	if len(f.Batches) != len(want) {
		t.Fatalf("got %d batches, want %d", len(f.Batches), len(want))
	}
	for i, p := range want {
		if f.Batches[i].Pipeline != p {
			t.Errorf("batch %d pipeline = %v, want %v", i, f.Batches[i].Pipeline, p)
		}
	}
}

func TestScissorBreaksMerge(t *testing.T) {
	b, _ := testBuilder(t)
	clipA := iced.Rect(0, 0, 50, 50)
	clipB := iced.Rect(50, 0, 50, 50)
	f := b.Build(oneLayer(
		scene.Group{
			Primitives: []scene.Primitive{quadPrim(iced.Rect(0, 0, 10, 10), iced.White)},
			Clip:       &clipA,
			Transform:  iced.Identity(),
		},
		scene.Group{
			Primitives: []scene.Primitive{quadPrim(iced.Rect(50, 0, 10, 10), iced.White)},
			Clip:       &clipB,
			Transform:  iced.Identity(),
		},
	), iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(f.Batches))
	}
	if f.Batches[0].Scissor == f.Batches[1].Scissor {
		t.Errorf("batches share a scissor, clips were not applied")
	}
}

func TestGroupClipRoundsOutward(t *testing.T) {
	b, _ := testBuilder(t)
	clip := iced.Rect(10.2, 10.2, 50.5, 50.5)
	f := b.Build(oneLayer(scene.Group{
		Primitives: []scene.Primitive{quadPrim(iced.Rect(20, 20, 5, 5), iced.White)},
		Clip:       &clip,
		Transform:  iced.Identity(),
	}), iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(f.Batches))
	}
	want := ScissorRect{X: 10, Y: 10, Width: 51, Height: 51}
	if f.Batches[0].Scissor != want {
		t.Errorf("scissor = %+v, want %+v", f.Batches[0].Scissor, want)
	}
}

func TestClipOutsideViewportDropsContent(t *testing.T) {
	b, _ := testBuilder(t)
	clip := iced.Rect(200, 200, 50, 50)
	f := b.Build(oneLayer(scene.Group{
		Primitives: []scene.Primitive{quadPrim(iced.Rect(210, 210, 5, 5), iced.White)},
		Clip:       &clip,
		Transform:  iced.Identity(),
	}), iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) != 0 {
		t.Fatalf("got %d batches, want none", len(f.Batches))
	}
}

func TestGroupTransformComposesWithScale(t *testing.T) {
	b, _ := testBuilder(t)
	f := b.Build(oneLayer(scene.Group{
		Primitives: []scene.Primitive{quadPrim(iced.Rect(0, 0, 10, 10), iced.White)},
		Transform:  iced.Translation(10, 0),
	}), iced.Sz(100, 100), 2, iced.Black)

	if len(f.Quads) != 1 {
		t.Fatalf("got %d quads, want 1", len(f.Quads))
	}
	q := f.Quads[0]
	if q.Pos != [2]float32{20, 0} || q.Size != [2]float32{20, 20} {
		t.Errorf("quad pos %v size %v, want pos [20 0] size [20 20]", q.Pos, q.Size)
	}
}

func TestViewportScissorUsesDevicePixels(t *testing.T) {
	b, _ := testBuilder(t)
	f := b.Build(oneLayer(quadPrim(iced.Rect(0, 0, 10, 10), iced.White)),
		iced.Sz(100, 100), 2, iced.Black)

	want := ScissorRect{Width: 200, Height: 200}
	if f.Batches[0].Scissor != want {
		t.Errorf("scissor = %+v, want %+v", f.Batches[0].Scissor, want)
	}
}

func TestGradientQuadCorners(t *testing.T) {
	b, _ := testBuilder(t)
	g := &iced.Gradient{
		Start: iced.Pt(0, 0),
		End:   iced.Pt(10, 0),
		Stops: []iced.GradientStop{
			{Offset: 0, Color: iced.Black},
			{Offset: 1, Color: iced.White},
		},
	}
	f := b.Build(oneLayer(scene.Quad{Bounds: iced.Rect(0, 0, 10, 10), Gradient: g}),
		iced.Sz(100, 100), 1, iced.Black)

	q := f.Quads[0]
	if q.Colors[0] != iced.Black.Pack() {
		t.Errorf("top-left corner = %v, want black", q.Colors[0])
	}
	if q.Colors[1] != iced.White.Pack() {
		t.Errorf("top-right corner = %v, want white", q.Colors[1])
	}
	if q.Colors[3] != iced.Black.Pack() {
		t.Errorf("bottom-left corner = %v, want black", q.Colors[3])
	}
}

func TestMeshEmission(t *testing.T) {
	b, _ := testBuilder(t)
	path := scene.NewPath()
	path.Rectangle(iced.Rect(0, 0, 10, 10))
	f := b.Build(oneLayer(scene.Mesh{Path: path, Color: iced.RGB(0, 1, 0)}),
		iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) != 1 || f.Batches[0].Pipeline != PipelineMesh {
		t.Fatalf("expected one mesh batch, got %+v", f.Batches)
	}
	if int(f.Batches[0].Count) != len(f.MeshIndices) {
		t.Errorf("batch count %d does not cover the %d emitted indices",
			f.Batches[0].Count, len(f.MeshIndices))
	}
	if len(f.MeshIndices)%3 != 0 || len(f.MeshIndices) == 0 {
		t.Errorf("index count %d is not a triangle list", len(f.MeshIndices))
	}
	want := iced.RGB(0, 1, 0).Pack()
	for i, v := range f.MeshVertices {
		if v.Color != want {
			t.Fatalf("vertex %d color = %v, want %v", i, v.Color, want)
		}
	}
}

func TestImageBatchAndCache(t *testing.T) {
	b, images := testBuilder(t)
	uploads := 0
	images.OnUpload(func(atlas.Entry, *scene.ImageHandle) { uploads++ })

	handle := &scene.ImageHandle{ID: 7, Width: 4, Height: 4, Pixels: make([]byte, 4*4*4)}
	layers := oneLayer(scene.Image{Handle: handle, Bounds: iced.Rect(0, 0, 8, 8)})

	f := b.Build(layers, iced.Sz(100, 100), 1, iced.Black)
	if len(f.Batches) != 1 || f.Batches[0].Pipeline != PipelineImage {
		t.Fatalf("expected one image batch, got %+v", f.Batches)
	}
	if f.Batches[0].Count != 6 {
		t.Errorf("batch count = %d, want 6 vertices", f.Batches[0].Count)
	}
	if uploads != 1 {
		t.Fatalf("got %d uploads, want 1", uploads)
	}

	b.Build(layers, iced.Sz(100, 100), 1, iced.Black)
	if uploads != 1 {
		t.Errorf("second build re-uploaded the image, got %d uploads", uploads)
	}
}

func TestImageCacheRejectsBadHandles(t *testing.T) {
	images := NewImageCache(atlas.New(atlas.DefaultConfig()))
	bad := []*scene.ImageHandle{
		nil,
		{ID: 1, Width: 0, Height: 4, Pixels: make([]byte, 16)},
		{ID: 2, Width: 4, Height: 4, Pixels: make([]byte, 8)},
	}
	for i, h := range bad {
		if _, err := images.Resolve(h); err == nil {
			t.Errorf("handle %d: expected error", i)
		}
	}
}

func TestVectorImageBatch(t *testing.T) {
	if !vecimg.Enabled {
		t.Skip("vector rasterizer disabled")
	}
	b, _ := testBuilder(t)
	path := scene.NewPath()
	path.Rectangle(iced.Rect(2, 2, 6, 6))
	handle := &scene.VectorHandle{
		ID:      11,
		ViewBox: iced.Sz(10, 10),
		Fills:   []scene.VectorFill{{Path: path, Color: iced.RGB(0, 0, 1)}},
	}
	f := b.Build(oneLayer(scene.VectorImage{Handle: handle, Bounds: iced.Rect(0, 0, 20, 20)}),
		iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) != 1 || f.Batches[0].Pipeline != PipelineImage {
		t.Fatalf("expected one image batch, got %+v", f.Batches)
	}
}

func TestTextBatch(t *testing.T) {
	colorAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	maskAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	store := text.NewStore()
	font, err := store.Register("regular", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(Deps{
		Shaper: text.NewShaper(store, text.ShaperConfig{}),
		Glyphs: text.NewGlyphCache(store, maskAtlas, text.GlyphCacheConfig{}),
		Images: NewImageCache(colorAtlas),
	})

	f := b.Build(oneLayer(scene.Text{
		Content: "Hi",
		Bounds:  iced.Rect(10, 10, 80, 20),
		Color:   iced.White,
		Font:    font,
		Size:    16,
	}), iced.Sz(100, 100), 1, iced.Black)

	if len(f.Batches) == 0 {
		t.Fatal("no batches emitted for text")
	}
	for _, batch := range f.Batches {
		if batch.Pipeline != PipelineText {
			t.Errorf("unexpected pipeline %v", batch.Pipeline)
		}
	}
	if len(f.TexVertices) != 12 {
		t.Errorf("got %d textured vertices, want 12 for two glyphs", len(f.TexVertices))
	}
}

func TestParallelPrepareMatchesSerial(t *testing.T) {
	path := scene.NewPath()
	path.Circle(iced.Pt(50, 50), 30)
	stroke := scene.DefaultStrokeStyle()
	layers := oneLayer(
		scene.Mesh{Path: path, Color: iced.White},
		scene.Mesh{Path: path, Stroke: &stroke, Color: iced.White},
		quadPrim(iced.Rect(0, 0, 10, 10), iced.White),
	)

	serial, _ := testBuilder(t)
	got := serial.Build(layers, iced.Sz(100, 100), 1, iced.Black)

	pool := parallel.NewPool(4)
	defer pool.Close()
	par, _ := testBuilder(t)
	par.deps.Pool = pool
	want := par.Build(layers, iced.Sz(100, 100), 1, iced.Black)

	if !reflect.DeepEqual(got.Batches, want.Batches) {
		t.Errorf("batches differ between serial and parallel builds")
	}
	if !reflect.DeepEqual(got.MeshVertices, want.MeshVertices) ||
		!reflect.DeepEqual(got.MeshIndices, want.MeshIndices) {
		t.Errorf("mesh streams differ between serial and parallel builds")
	}
}

func TestEndFrameAdvancesEachAtlasOnce(t *testing.T) {
	colorAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	maskAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	store := text.NewStore()

	// Images and Vectors share the color atlas; it must advance once
	// per frame, not once per cache.
	b := NewBuilder(Deps{
		Glyphs:  text.NewGlyphCache(store, maskAtlas, text.GlyphCacheConfig{}),
		Vectors: vecimg.New(colorAtlas, vecimg.Config{}),
		Images:  NewImageCache(colorAtlas),
	})
	b.EndFrame()
	if colorAtlas.Frame() != 1 {
		t.Fatalf("shared color atlas frame = %d, want 1", colorAtlas.Frame())
	}
	if maskAtlas.Frame() != 1 {
		t.Fatalf("mask atlas frame = %d, want 1", maskAtlas.Frame())
	}

	// Vectors wired without Images still ages its atlas.
	vectorAtlas := atlas.New(atlas.Config{PageSize: 512, MaxPages: 2, ProtectedFrames: 1})
	b = NewBuilder(Deps{Vectors: vecimg.New(vectorAtlas, vecimg.Config{})})
	b.EndFrame()
	if vectorAtlas.Frame() != 1 {
		t.Fatalf("vector atlas frame = %d, want 1", vectorAtlas.Frame())
	}
}

func TestScissorIntersect(t *testing.T) {
	a := ScissorRect{X: 0, Y: 0, Width: 100, Height: 100}
	b := ScissorRect{X: 50, Y: 50, Width: 100, Height: 100}
	got := a.Intersect(b)
	want := ScissorRect{X: 50, Y: 50, Width: 50, Height: 50}
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
	if !a.Intersect(ScissorRect{X: 200, Y: 0, Width: 10, Height: 10}).IsEmpty() {
		t.Errorf("disjoint intersection is not empty")
	}
}

func TestSampleGradient(t *testing.T) {
	g := &iced.Gradient{
		Start: iced.Pt(0, 0),
		End:   iced.Pt(10, 0),
		Stops: []iced.GradientStop{
			{Offset: 0, Color: iced.Black},
			{Offset: 1, Color: iced.White},
		},
	}
	if got := sampleGradient(g, iced.Pt(-5, 0)); got != iced.Black.Pack() {
		t.Errorf("before start = %v, want clamped to black", got)
	}
	if got := sampleGradient(g, iced.Pt(15, 0)); got != iced.White.Pack() {
		t.Errorf("past end = %v, want clamped to white", got)
	}
	mid := sampleGradient(g, iced.Pt(5, 0))
	if mid[3] != 1 || mid[0] <= 0 || mid[0] >= 1 {
		t.Errorf("midpoint = %v, want a mid gray", mid)
	}
}
