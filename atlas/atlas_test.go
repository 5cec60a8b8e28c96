// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"errors"
	"testing"
)

func testConfig() Config {
	return Config{PageSize: 256, MaxPages: 1, ProtectedFrames: 2}
}

func TestAllocateBasic(t *testing.T) {
	a := New(testConfig())
	e, err := a.Allocate(64, 64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if e.Width != 64 || e.Height != 64 {
		t.Fatalf("got %dx%d, want 64x64", e.Width, e.Height)
	}
	if !a.Valid(e) {
		t.Fatal("fresh entry should be valid")
	}
	if a.PageCount() != 1 {
		t.Fatalf("PageCount = %d, want 1", a.PageCount())
	}
}

func TestAllocateRejectsBadSize(t *testing.T) {
	a := New(testConfig())
	if _, err := a.Allocate(0, 10); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := a.Allocate(10, -1); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestPageFillAndEvict(t *testing.T) {
	// A 256x256 page fits exactly 16 64x64 icons. Filling it, aging
	// the entries past the protection window, and allocating one more
	// must evict the least recently used icon.
	a := New(testConfig())

	entries := make([]Entry, 0, 16)
	for i := 0; i < 16; i++ {
		e, err := a.Allocate(64, 64)
		if err != nil {
			t.Fatalf("Allocate %d: %v", i, err)
		}
		entries = append(entries, e)
	}

	// The page is full and every entry was used this frame.
	if _, err := a.Allocate(64, 64); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull while protected, got %v", err)
	}

	// Age everything out of the protection window.
	a.NextFrame()
	a.NextFrame()

	e, err := a.Allocate(64, 64)
	if err != nil {
		t.Fatalf("Allocate after aging: %v", err)
	}
	if !a.Valid(e) {
		t.Fatal("new entry should be valid")
	}

	// Exactly one old entry was displaced.
	evicted := 0
	for _, old := range entries {
		if !a.Valid(old) {
			evicted++
		}
	}
	if evicted != 1 {
		t.Fatalf("evicted %d entries, want 1", evicted)
	}
	// The first allocation is the least recently used.
	if a.Valid(entries[0]) {
		t.Fatal("LRU entry should have been evicted first")
	}
}

func TestTouchRefreshesLRU(t *testing.T) {
	a := New(testConfig())

	first, _ := a.Allocate(64, 64)
	for i := 0; i < 15; i++ {
		if _, err := a.Allocate(64, 64); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
	}

	a.NextFrame()
	a.NextFrame()
	a.Touch(first)

	// first was touched this frame, so it is protected and no longer
	// the LRU candidate.
	if _, err := a.Allocate(64, 64); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !a.Valid(first) {
		t.Fatal("touched entry must survive eviction")
	}
}

func TestProtectionWindowBlocksEviction(t *testing.T) {
	a := New(testConfig())
	for i := 0; i < 16; i++ {
		if _, err := a.Allocate(64, 64); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
	}
	a.NextFrame()
	if _, err := a.Allocate(64, 64); !errors.Is(err, ErrFull) {
		t.Fatalf("entries one frame old must still be protected, got %v", err)
	}
}

func TestOnEvictCallback(t *testing.T) {
	a := New(testConfig())
	var evicted []Entry
	a.OnEvict(func(e Entry) { evicted = append(evicted, e) })

	for i := 0; i < 16; i++ {
		a.Allocate(64, 64)
	}
	a.NextFrame()
	a.NextFrame()
	if _, err := a.Allocate(64, 64); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(evicted) != 1 {
		t.Fatalf("OnEvict fired %d times, want 1", len(evicted))
	}
}

func TestFreeAndReuse(t *testing.T) {
	a := New(testConfig())
	e, _ := a.Allocate(128, 128)
	a.Free(e)
	if a.Valid(e) {
		t.Fatal("freed entry must be invalid")
	}
	// Freed space merges back; a full-page allocation must now fit.
	if _, err := a.Allocate(256, 256); err != nil {
		t.Fatalf("free space did not merge: %v", err)
	}
}

func TestFreeRectMerge(t *testing.T) {
	a := New(testConfig())
	// Fill the page with four quadrants, free them all, then allocate
	// the whole page in one piece.
	var es []Entry
	for i := 0; i < 4; i++ {
		e, err := a.Allocate(128, 128)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		es = append(es, e)
	}
	for _, e := range es {
		a.Free(e)
	}
	if _, err := a.Allocate(256, 256); err != nil {
		t.Fatalf("quadrants did not merge back into the full page: %v", err)
	}
}

func TestOversizedDedicatedPage(t *testing.T) {
	a := New(testConfig())
	e, err := a.Allocate(300, 100)
	if err != nil {
		t.Fatalf("Allocate oversized: %v", err)
	}
	if !e.Oversized {
		t.Fatal("entry wider than a page must be marked oversized")
	}
	if e.X != 0 || e.Y != 0 || e.Width != 300 || e.Height != 100 {
		t.Fatalf("oversized entry has unexpected placement: %+v", e)
	}
	// Dedicated pages do not consume the regular page budget.
	if _, err := a.Allocate(64, 64); err != nil {
		t.Fatalf("regular allocation after oversized: %v", err)
	}
}

func TestOversizedPageReclaimed(t *testing.T) {
	a := New(testConfig())
	var freed []int

	a.OnPageFree(func(idx int) { freed = append(freed, idx) })

	// Repeated allocate and free of an oversized entry must reuse one
	// page slot, not accrete pages.
	for i := 0; i < 10; i++ {
		e, err := a.Allocate(300, 300)
		if err != nil {
			t.Fatalf("Allocate oversized: %v", err)
		}
		if a.PageCount() != 1 {
			t.Fatalf("PageCount = %d during cycle %d, want 1", a.PageCount(), i)
		}
		a.Free(e)
		if a.PageCount() != 0 {
			t.Fatalf("PageCount = %d after free %d, want 0", a.PageCount(), i)
		}
	}
	if len(freed) != 10 {
		t.Fatalf("OnPageFree fired %d times, want 10", len(freed))
	}
	for _, idx := range freed {
		if idx != 0 {
			t.Fatalf("dedicated page index %d not reused, want 0", idx)
		}
	}
}

func TestOversizedEntryEvictable(t *testing.T) {
	a := New(Config{PageSize: 128, MaxPages: 1, ProtectedFrames: 1})
	big, err := a.Allocate(300, 300)
	if err != nil {
		t.Fatalf("Allocate oversized: %v", err)
	}

	// Fill the single regular page, then age everything out of the
	// protection window and demand more space. The unprotected
	// oversized entry is fair game for the LRU sweep.
	if _, err := a.Allocate(128, 128); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	a.NextFrame()
	a.NextFrame()
	if _, err := a.Allocate(128, 128); err != nil {
		t.Fatalf("Allocate after aging: %v", err)
	}
	if a.Valid(big) {
		t.Fatal("oversized entry survived as most stale LRU victim")
	}
}

func TestOnGrowCallback(t *testing.T) {
	a := New(Config{PageSize: 128, MaxPages: 2, ProtectedFrames: 2})
	var grows []int
	a.OnGrow(func(idx, w, h int) { grows = append(grows, idx) })

	a.Allocate(128, 128)
	a.Allocate(128, 128)
	if len(grows) != 2 {
		t.Fatalf("OnGrow fired %d times, want 2", len(grows))
	}
}

func TestStaleEntryDetection(t *testing.T) {
	a := New(testConfig())
	e, _ := a.Allocate(64, 64)
	a.Free(e)

	// Reusing the space creates a new generation; the stale entry must
	// not validate, touch, or free the new occupant.
	e2, _ := a.Allocate(64, 64)
	if a.Valid(e) {
		t.Fatal("stale entry validated")
	}
	a.Touch(e)
	a.Free(e)
	if !a.Valid(e2) {
		t.Fatal("stale operations disturbed the live entry")
	}
}

func TestClear(t *testing.T) {
	a := New(testConfig())
	e, _ := a.Allocate(64, 64)
	evicted := 0
	a.OnEvict(func(Entry) { evicted++ })
	a.Clear()
	if a.Valid(e) {
		t.Fatal("entry survived Clear")
	}
	if a.PageCount() != 0 {
		t.Fatalf("PageCount = %d after Clear, want 0", a.PageCount())
	}
	if evicted != 1 {
		t.Fatalf("OnEvict fired %d times during Clear, want 1", evicted)
	}
}

func TestDefaultsFill(t *testing.T) {
	a := New(Config{})
	cfg := a.Config()
	if cfg.PageSize != DefaultPageSize || cfg.MaxPages != DefaultMaxPages || cfg.ProtectedFrames != DefaultProtectedFrames {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
