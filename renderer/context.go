// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pop-os/iced"
)

// ContextConfig holds configuration for Context.
type ContextConfig struct {
	// PowerPreference biases adapter selection.
	PowerPreference wgpu.PowerPreference

	// ForceFallbackAdapter requests a software adapter, for headless
	// or CI use.
	ForceFallbackAdapter bool
}

// Context owns the GPU instance, adapter, device and queue. It is
// constructed explicitly and passed by reference into the renderer;
// there is no ambient global state.
type Context struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// NewContext initializes the GPU stack. The compatible surface may be
// nil for headless contexts.
func NewContext(cfg ContextConfig, compatible *wgpu.Surface) (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, errors.New("renderer: no WebGPU instance available")
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      cfg.PowerPreference,
		ForceFallbackAdapter: cfg.ForceFallbackAdapter,
		CompatibleSurface:    compatible,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("renderer: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "iced device",
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}

	iced.Logger().Info("GPU adapter selected",
		"fallback", cfg.ForceFallbackAdapter)

	return &Context{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// Device returns the GPU device.
func (c *Context) Device() *wgpu.Device { return c.device }

// Queue returns the GPU queue.
func (c *Context) Queue() *wgpu.Queue { return c.queue }

// Instance returns the WebGPU instance, used to create surfaces.
func (c *Context) Instance() *wgpu.Instance { return c.instance }

// Release tears the GPU stack down in reverse construction order.
func (c *Context) Release() {
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
	c.queue = nil
}
