// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"errors"

	"github.com/pop-os/iced"
)

// ErrFull is returned when no space can be found for an allocation
// and every resident entry is protected from eviction.
var ErrFull = errors.New("atlas: full")

// DefaultPageSize is the side length of a regular atlas page in texels.
const DefaultPageSize = 2048

// DefaultMaxPages bounds the number of regular pages an atlas creates.
const DefaultMaxPages = 8

// DefaultProtectedFrames is how many frames an entry stays protected
// from eviction after its last use.
const DefaultProtectedFrames = 2

// Config controls atlas sizing and eviction behavior.
type Config struct {
	// PageSize is the side length of each square page in texels.
	PageSize int

	// MaxPages caps the number of regular pages. Oversized entries get
	// dedicated pages that do not count against this limit.
	MaxPages int

	// ProtectedFrames is the number of frames after last use during
	// which an entry cannot be evicted.
	ProtectedFrames int
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:        DefaultPageSize,
		MaxPages:        DefaultMaxPages,
		ProtectedFrames: DefaultProtectedFrames,
	}
}

// Entry locates an allocated rectangle inside the atlas. Entries are
// values; after eviction a stale copy is detected through Valid, which
// compares the embedded generation against the atlas slot table.
type Entry struct {
	// Page indexes the atlas page holding the rectangle. Oversized
	// entries live alone on a dedicated page.
	Page int

	// X, Y, Width, Height locate the rectangle on the page, in texels.
	X, Y, Width, Height int

	// Oversized marks entries larger than a page dimension; they are
	// stored on a dedicated page exactly their size.
	Oversized bool

	id         uint64
	generation uint64
}

// ID returns the atlas-assigned identity of the entry.
func (e Entry) ID() uint64 { return e.id }

// UV returns the entry rectangle in normalized page coordinates.
func (e Entry) UV(pageSize int) iced.Rectangle {
	if e.Oversized {
		return iced.Rectangle{Width: 1, Height: 1}
	}
	s := float32(pageSize)
	return iced.Rectangle{
		X:      float32(e.X) / s,
		Y:      float32(e.Y) / s,
		Width:  float32(e.Width) / s,
		Height: float32(e.Height) / s,
	}
}

type slot struct {
	entry      Entry
	rect       region
	lastFrame  uint64
	generation uint64

	prev, next *slot
}

type page struct {
	alloc     *allocator
	dedicated bool // holds a single oversized entry
	width     int
	height    int
}

// Atlas manages rectangle placement across a set of fixed-size pages
// with LRU eviction. It does only CPU bookkeeping; callers own the GPU
// textures mirroring each page and perform uploads themselves.
//
// The atlas is not safe for concurrent use. The render loop owns it.
type Atlas struct {
	cfg   Config
	pages []*page
	slots map[uint64]*slot

	// LRU list, most recently used at head.
	head, tail *slot

	frame      uint64
	generation uint64
	nextID     uint64

	onEvict    func(Entry)
	onGrow     func(pageIndex, width, height int)
	onPageFree func(pageIndex int)
}

// New creates an atlas. Zero or negative config fields fall back to
// their defaults.
func New(cfg Config) *Atlas {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.ProtectedFrames <= 0 {
		cfg.ProtectedFrames = DefaultProtectedFrames
	}
	return &Atlas{
		cfg:   cfg,
		slots: make(map[uint64]*slot),
	}
}

// Config returns the effective configuration.
func (a *Atlas) Config() Config { return a.cfg }

// OnEvict registers a callback invoked for every evicted entry.
// Dependent caches use it to drop references to freed rectangles.
func (a *Atlas) OnEvict(fn func(Entry)) { a.onEvict = fn }

// OnGrow registers a callback invoked when a page is created. Callers
// allocate the matching GPU texture there.
func (a *Atlas) OnGrow(fn func(pageIndex, width, height int)) { a.onGrow = fn }

// OnPageFree registers a callback invoked when a dedicated page is
// released because its sole entry was freed or evicted. Callers drop
// the matching GPU texture there; the page index is reused by later
// allocations.
func (a *Atlas) OnPageFree(fn func(pageIndex int)) { a.onPageFree = fn }

// PageCount returns the number of live pages, dedicated ones included.
func (a *Atlas) PageCount() int {
	n := 0
	for _, p := range a.pages {
		if p != nil {
			n++
		}
	}
	return n
}

// Frame returns the current frame counter.
func (a *Atlas) Frame() uint64 { return a.frame }

// NextFrame advances the frame counter. Call once per rendered frame;
// the eviction protection window is measured in these frames.
func (a *Atlas) NextFrame() { a.frame++ }

// Allocate finds space for a w by h rectangle, evicting stale entries
// if needed. Entries wider or taller than the page size get a
// dedicated page. Returns ErrFull when no space can be reclaimed
// because every resident entry was used within the protection window.
func (a *Atlas) Allocate(w, h int) (Entry, error) {
	if w <= 0 || h <= 0 {
		return Entry{}, errors.New("atlas: non-positive allocation size")
	}

	if w > a.cfg.PageSize || h > a.cfg.PageSize {
		return a.allocateDedicated(w, h), nil
	}

	for {
		if e, ok := a.tryAllocate(w, h); ok {
			return e, nil
		}
		if a.regularPages() < a.cfg.MaxPages {
			a.addPage()
			continue
		}
		if !a.evictOne() {
			return Entry{}, ErrFull
		}
	}
}

// Touch marks an entry as used this frame, refreshing its LRU position
// and protection window. Touching a stale entry is a no-op.
func (a *Atlas) Touch(e Entry) {
	s, ok := a.slots[e.id]
	if !ok || s.generation != e.generation {
		return
	}
	s.lastFrame = a.frame
	a.moveToFront(s)
}

// Valid reports whether the entry still refers to live atlas space.
// Callers re-validate cached entries each frame before using their
// coordinates.
func (a *Atlas) Valid(e Entry) bool {
	s, ok := a.slots[e.id]
	return ok && s.generation == e.generation
}

// Free releases an entry explicitly. Stale entries are ignored.
func (a *Atlas) Free(e Entry) {
	s, ok := a.slots[e.id]
	if !ok || s.generation != e.generation {
		return
	}
	a.release(s, false)
}

// Clear evicts every entry and drops all pages.
func (a *Atlas) Clear() {
	for _, s := range a.slots {
		if a.onEvict != nil {
			a.onEvict(s.entry)
		}
	}
	if a.onPageFree != nil {
		for i, p := range a.pages {
			if p != nil {
				a.onPageFree(i)
			}
		}
	}
	a.slots = make(map[uint64]*slot)
	a.head, a.tail = nil, nil
	a.pages = nil
}

func (a *Atlas) regularPages() int {
	n := 0
	for _, p := range a.pages {
		if p != nil && !p.dedicated {
			n++
		}
	}
	return n
}

// freeIndex returns a reusable page slot, preferring indices vacated
// by released dedicated pages.
func (a *Atlas) freeIndex() int {
	for i, p := range a.pages {
		if p == nil {
			return i
		}
	}
	a.pages = append(a.pages, nil)
	return len(a.pages) - 1
}

func (a *Atlas) addPage() int {
	idx := a.freeIndex()
	a.pages[idx] = &page{
		alloc:  newAllocator(a.cfg.PageSize),
		width:  a.cfg.PageSize,
		height: a.cfg.PageSize,
	}
	if a.onGrow != nil {
		a.onGrow(idx, a.cfg.PageSize, a.cfg.PageSize)
	}
	return idx
}

func (a *Atlas) tryAllocate(w, h int) (Entry, bool) {
	// First page with room wins; within a page the allocator picks
	// the best-area-fit free region.
	for i, p := range a.pages {
		if p == nil || p.dedicated {
			continue
		}
		r, ok := p.alloc.allocate(w, h)
		if !ok {
			continue
		}
		return a.install(i, r, false), true
	}
	return Entry{}, false
}

func (a *Atlas) allocateDedicated(w, h int) Entry {
	idx := a.freeIndex()
	a.pages[idx] = &page{
		dedicated: true,
		width:     w,
		height:    h,
	}
	if a.onGrow != nil {
		a.onGrow(idx, w, h)
	}
	e := a.install(idx, region{x: 0, y: 0, w: w, h: h}, true)
	return e
}

func (a *Atlas) install(pageIdx int, r region, oversized bool) Entry {
	a.nextID++
	a.generation++
	e := Entry{
		Page:       pageIdx,
		X:          r.x,
		Y:          r.y,
		Width:      r.w,
		Height:     r.h,
		Oversized:  oversized,
		id:         a.nextID,
		generation: a.generation,
	}
	s := &slot{
		entry:      e,
		rect:       r,
		lastFrame:  a.frame,
		generation: a.generation,
	}
	a.slots[e.id] = s
	a.pushFront(s)
	return e
}

// evictOne removes the least recently used unprotected entry.
// Oversized entries are eligible too; evicting one releases its whole
// dedicated page.
func (a *Atlas) evictOne() bool {
	s := a.tail
	if s == nil {
		return false
	}
	// The list is LRU ordered, so if the tail is protected every
	// other entry is at least as recently used.
	if a.frame-s.lastFrame < uint64(a.cfg.ProtectedFrames) {
		return false
	}
	a.release(s, true)
	return true
}

func (a *Atlas) release(s *slot, evicted bool) {
	delete(a.slots, s.entry.id)
	a.unlink(s)
	p := a.pages[s.entry.Page]
	if p.dedicated {
		// The sole entry is gone; drop the page and let later
		// allocations reuse its index.
		a.pages[s.entry.Page] = nil
		if a.onPageFree != nil {
			a.onPageFree(s.entry.Page)
		}
	} else {
		p.alloc.deallocate(s.rect)
	}
	if evicted && a.onEvict != nil {
		a.onEvict(s.entry)
	}
}

func (a *Atlas) pushFront(s *slot) {
	s.prev = nil
	s.next = a.head
	if a.head != nil {
		a.head.prev = s
	}
	a.head = s
	if a.tail == nil {
		a.tail = s
	}
}

func (a *Atlas) moveToFront(s *slot) {
	if a.head == s {
		return
	}
	a.unlink(s)
	a.pushFront(s)
}

func (a *Atlas) unlink(s *slot) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		a.head = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		a.tail = s.prev
	}
	s.prev, s.next = nil, nil
}
