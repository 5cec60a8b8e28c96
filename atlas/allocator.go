// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package atlas

// region is a rectangle inside a page, in texel coordinates.
type region struct {
	x, y, w, h int
}

func (r region) area() int { return r.w * r.h }

func (r region) fits(w, h int) bool { return w <= r.w && h <= r.h }

// allocator packs rectangles into a single square page using a
// guillotine binary space partition: every allocation carves its
// rectangle out of the smallest free region that fits (best-area-fit)
// and returns the remainder as at most two new free regions. Freed
// regions are merged with adjacent free regions opportunistically to
// keep fragmentation down.
type allocator struct {
	size int
	free []region
	used int // total allocated area
}

func newAllocator(size int) *allocator {
	return &allocator{
		size: size,
		free: []region{{x: 0, y: 0, w: size, h: size}},
	}
}

// allocate finds space for a w by h rectangle.
// It returns the placed region and whether space was found.
func (a *allocator) allocate(w, h int) (region, bool) {
	if w <= 0 || h <= 0 || w > a.size || h > a.size {
		return region{}, false
	}

	// Best-area-fit: smallest free region that still fits.
	best := -1
	for i, f := range a.free {
		if !f.fits(w, h) {
			continue
		}
		if best < 0 || f.area() < a.free[best].area() {
			best = i
		}
	}
	if best < 0 {
		return region{}, false
	}

	f := a.free[best]
	a.free = append(a.free[:best], a.free[best+1:]...)

	placed := region{x: f.x, y: f.y, w: w, h: h}

	// Guillotine split: cut the remainder along the axis that leaves
	// the larger leftover piece intact, producing at most two new
	// free regions.
	rightW := f.w - w
	bottomH := f.h - h
	if rightW > 0 || bottomH > 0 {
		if rightW*f.h >= bottomH*f.w {
			// Split vertically: tall right piece, short bottom piece.
			if rightW > 0 {
				a.insertFree(region{x: f.x + w, y: f.y, w: rightW, h: f.h})
			}
			if bottomH > 0 {
				a.insertFree(region{x: f.x, y: f.y + h, w: w, h: bottomH})
			}
		} else {
			// Split horizontally: wide bottom piece, short right piece.
			if bottomH > 0 {
				a.insertFree(region{x: f.x, y: f.y + h, w: f.w, h: bottomH})
			}
			if rightW > 0 {
				a.insertFree(region{x: f.x + w, y: f.y, w: rightW, h: h})
			}
		}
	}

	a.used += placed.area()
	return placed, true
}

// deallocate returns a region to the free list.
func (a *allocator) deallocate(r region) {
	a.used -= r.area()
	a.insertFree(r)
}

// insertFree adds a free region, merging it with exact-edge neighbors
// until no merge applies.
func (a *allocator) insertFree(r region) {
	for {
		merged := false
		for i, f := range a.free {
			if m, ok := merge(r, f); ok {
				a.free = append(a.free[:i], a.free[i+1:]...)
				r = m
				merged = true
				break
			}
		}
		if !merged {
			break
		}
	}
	a.free = append(a.free, r)
}

// merge combines two regions sharing a full edge.
func merge(a, b region) (region, bool) {
	// Same row span, horizontally adjacent.
	if a.y == b.y && a.h == b.h {
		if a.x+a.w == b.x {
			return region{x: a.x, y: a.y, w: a.w + b.w, h: a.h}, true
		}
		if b.x+b.w == a.x {
			return region{x: b.x, y: a.y, w: a.w + b.w, h: a.h}, true
		}
	}
	// Same column span, vertically adjacent.
	if a.x == b.x && a.w == b.w {
		if a.y+a.h == b.y {
			return region{x: a.x, y: a.y, w: a.w, h: a.h + b.h}, true
		}
		if b.y+b.h == a.y {
			return region{x: a.x, y: b.y, w: a.w, h: a.h + b.h}, true
		}
	}
	return region{}, false
}

// isEmpty reports whether nothing is allocated on the page.
func (a *allocator) isEmpty() bool { return a.used == 0 }
