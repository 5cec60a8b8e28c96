// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"errors"

	"github.com/pop-os/iced/atlas"
	"github.com/pop-os/iced/scene"
)

// ErrBadImage is returned for image handles with no pixel data or
// non-positive dimensions.
var ErrBadImage = errors.New("batch: invalid image handle")

// ImageCache places decoded raster images in the color atlas, one
// entry per image identity. Entries whose atlas slot was evicted are
// re-uploaded on the next resolve.
//
// ImageCache is owned by the render thread and not safe for
// concurrent use.
type ImageCache struct {
	atlas   *atlas.Atlas
	entries map[uint64]atlas.Entry
	upload  func(atlas.Entry, *scene.ImageHandle)
}

// NewImageCache creates an image cache backed by the given atlas.
func NewImageCache(a *atlas.Atlas) *ImageCache {
	return &ImageCache{
		atlas:   a,
		entries: make(map[uint64]atlas.Entry),
	}
}

// OnUpload registers the callback that copies an image's pixels into
// the GPU texture behind an atlas entry.
func (c *ImageCache) OnUpload(fn func(atlas.Entry, *scene.ImageHandle)) {
	c.upload = fn
}

// Atlas returns the color atlas backing this cache.
func (c *ImageCache) Atlas() *atlas.Atlas { return c.atlas }

// Resolve returns the atlas location of an image, allocating and
// uploading it on a miss.
func (c *ImageCache) Resolve(h *scene.ImageHandle) (atlas.Entry, error) {
	if h == nil || h.Width <= 0 || h.Height <= 0 || len(h.Pixels) < h.Width*h.Height*4 {
		return atlas.Entry{}, ErrBadImage
	}
	if e, ok := c.entries[h.ID]; ok {
		if c.atlas.Valid(e) {
			c.atlas.Touch(e)
			return e, nil
		}
		delete(c.entries, h.ID)
	}
	e, err := c.atlas.Allocate(h.Width, h.Height)
	if err != nil {
		return atlas.Entry{}, err
	}
	if c.upload != nil {
		c.upload(e, h)
	}
	c.entries[h.ID] = e
	return e, nil
}

// Maintain drops entries whose atlas slots were evicted. Call once
// per frame.
func (c *ImageCache) Maintain() {
	for id, e := range c.entries {
		if !c.atlas.Valid(e) {
			delete(c.entries, id)
		}
	}
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int { return len(c.entries) }
