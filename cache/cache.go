// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

// Package cache provides the LRU cache underlying the renderer's
// memoization layers: tessellated meshes, shaped text runs and
// rasterized vector images all sit on a Cache instance.
//
// Eviction happens two ways: capacity eviction on insert (least
// recently used first), and frame-based eviction during Maintain,
// which drops entries unused for a configurable number of frames.
// Caches are owned and mutated by the render thread only; the
// implementation is deliberately unsynchronized.
package cache

// Cache is an LRU cache with frame-based expiry.
//
// Cache is not safe for concurrent use. The rendering model gives
// exclusive ownership of all caches to the render thread, so locking
// would only add contention-free overhead on the per-primitive path.
type Cache[K comparable, V any] struct {
	entries  map[K]*entry[K, V]
	head     *entry[K, V] // most recently used
	tail     *entry[K, V] // least recently used
	capacity int
	frame    uint64

	// onEvict, when set, observes every eviction and removal.
	onEvict func(K, V)

	hits, misses, evictions uint64
}

// entry is a map value and LRU list node in one.
type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]

	// lastFrame is the frame counter value at last access,
	// consulted by Maintain for frame-based expiry.
	lastFrame uint64
}

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// New creates a cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V], capacity),
		capacity: capacity,
	}
}

// OnEvict registers a callback invoked for every entry leaving the
// cache, whether evicted by capacity, expired by Maintain, or removed
// explicitly. Used to release dependent resources such as atlas slots.
func (c *Cache[K, V]) OnEvict(fn func(K, V)) {
	c.onEvict = fn
}

// Get retrieves a cached value and marks it used this frame.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	e.lastFrame = c.frame
	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Set stores a value, evicting the least recently used entries if the
// cache is over capacity.
func (c *Cache[K, V]) Set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.lastFrame = c.frame
		c.moveToFront(e)
		return
	}
	for len(c.entries) >= c.capacity && c.tail != nil {
		c.evict(c.tail)
	}
	e := &entry[K, V]{key: key, value: value, lastFrame: c.frame}
	c.entries[key] = e
	c.pushFront(e)
}

// GetOrCreate returns the cached value for key, calling create on a
// miss and storing its result. A create error is returned without
// caching anything.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Remove deletes an entry. It reports whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.evict(e)
	return true
}

// RemoveIf deletes every entry for which pred returns true.
// Used for bulk invalidation, e.g. dropping all entries that reference
// an evicted atlas slot.
func (c *Cache[K, V]) RemoveIf(pred func(K, V) bool) {
	for _, e := range c.entries {
		if pred(e.key, e.value) {
			c.evict(e)
		}
	}
}

// Maintain advances the frame counter and expires entries unused for
// more than lifetime frames. Call once per frame.
func (c *Cache[K, V]) Maintain(lifetime uint64) {
	c.frame++
	if c.frame < lifetime {
		return
	}
	threshold := c.frame - lifetime
	for e := c.tail; e != nil; {
		prev := e.prev
		if e.lastFrame < threshold {
			c.evict(e)
		}
		e = prev
	}
}

// Clear removes all entries without invoking the eviction callback.
func (c *Cache[K, V]) Clear() {
	c.entries = make(map[K]*entry[K, V], c.capacity)
	c.head = nil
	c.tail = nil
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return len(c.entries) }

// Frame returns the current frame counter value.
func (c *Cache[K, V]) Frame() uint64 { return c.frame }

// Stats holds cache counters since creation.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Cache[K, V]) evict(e *entry[K, V]) {
	c.unlink(e)
	delete(c.entries, e.key)
	c.evictions++
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}

func (c *Cache[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}
