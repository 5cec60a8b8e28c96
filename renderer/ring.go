// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pop-os/iced"
)

// FramesInFlight is the depth of the buffer ring. With Present
// blocking on the display's cadence, a region written this frame is
// not read by the GPU again until the ring wraps, so CPU writes never
// overlap in-flight GPU reads.
const FramesInFlight = 3

// globalsSize is the byte size of the per-frame uniform block.
const globalsSize = 16

// createBufferFunc allocates a GPU buffer. Split out so the ring's
// bookkeeping is testable without a device.
type createBufferFunc func(size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

// ringSlot holds one frame-in-flight's buffers. Capacities only grow;
// on growth the old buffer is released and replaced wholesale.
type ringSlot struct {
	quads        *wgpu.Buffer
	meshVertices *wgpu.Buffer
	meshIndices  *wgpu.Buffer
	texVertices  *wgpu.Buffer
	globals      *wgpu.Buffer

	quadCap       uint64
	meshVertexCap uint64
	meshIndexCap  uint64
	texVertexCap  uint64

	// globalsBind binds the slot's uniform buffer; rebuilt when the
	// buffer is replaced.
	globalsBind *wgpu.BindGroup
}

type bufferRing struct {
	slots  [FramesInFlight]ringSlot
	index  int
	create createBufferFunc
}

func newBufferRing(create createBufferFunc) *bufferRing {
	return &bufferRing{index: -1, create: create}
}

// next rotates to the following slot and returns it.
func (r *bufferRing) next() *ringSlot {
	r.index = (r.index + 1) % FramesInFlight
	return &r.slots[r.index]
}

// ensure guarantees the buffer holds at least needed bytes, replacing
// it with a larger one when it does not. Reports whether the buffer
// was replaced.
func (r *bufferRing) ensure(buf **wgpu.Buffer, capacity *uint64, needed uint64, usage wgpu.BufferUsage) (bool, error) {
	if needed == 0 || needed <= *capacity {
		return false, nil
	}
	grown := roundUpPow2(needed)
	if *buf != nil {
		(*buf).Release()
	}
	b, err := r.create(grown, usage|wgpu.BufferUsageCopyDst)
	if err != nil {
		*buf = nil
		*capacity = 0
		return false, err
	}
	iced.Logger().Debug("buffer grown", "from", *capacity, "to", grown)
	*buf = b
	*capacity = grown
	return true, nil
}

func roundUpPow2(v uint64) uint64 {
	n := uint64(4096)
	for n < v {
		n <<= 1
	}
	return n
}

func (r *bufferRing) release() {
	for i := range r.slots {
		s := &r.slots[i]
		for _, b := range []*wgpu.Buffer{s.quads, s.meshVertices, s.meshIndices, s.texVertices, s.globals} {
			if b != nil {
				b.Release()
			}
		}
		if s.globalsBind != nil {
			s.globalsBind.Release()
		}
		*s = ringSlot{}
	}
}
