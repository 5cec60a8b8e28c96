// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package parallel

import (
	"sync/atomic"
	"testing"
)

func TestRunExecutesAll(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var n atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { n.Add(1) }
	}
	p.Run(work)
	if n.Load() != 100 {
		t.Fatalf("ran %d items, want 100", n.Load())
	}
}

func TestRunOnClosedPool(t *testing.T) {
	p := NewPool(2)
	p.Close()

	var n atomic.Int64
	p.Run([]func(){func() { n.Add(1) }, func() { n.Add(1) }})
	if n.Load() != 2 {
		t.Fatal("closed pool dropped work")
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	if p.Workers() < 1 {
		t.Fatalf("Workers = %d", p.Workers())
	}
}

func TestCloseTwice(t *testing.T) {
	p := NewPool(1)
	p.Close()
	p.Close()
}
