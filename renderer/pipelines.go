// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// pipelines holds the four render pipelines and their shared bind
// group layouts, built once per surface format.
type pipelines struct {
	globalsLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout

	quad  *wgpu.RenderPipeline
	mesh  *wgpu.RenderPipeline
	text  *wgpu.RenderPipeline
	image *wgpu.RenderPipeline
}

// premultipliedBlend composites source-over with premultiplied alpha.
var premultipliedBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

var quadVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 116,
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 4},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 5},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 6},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 96, ShaderLocation: 7},
		{Format: wgpu.VertexFormatFloat32, Offset: 112, ShaderLocation: 8},
	},
}

var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 24,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
	},
}

var texVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 32,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
	},
}

func buildPipelines(device *wgpu.Device, format wgpu.TextureFormat) (*pipelines, error) {
	globalsLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "globals layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: globalsSize,
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: globals layout: %w", err)
	}

	textureLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "atlas texture layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		globalsLayout.Release()
		return nil, fmt.Errorf("renderer: texture layout: %w", err)
	}

	p := &pipelines{
		globalsLayout: globalsLayout,
		textureLayout: textureLayout,
	}

	type spec struct {
		name     string
		source   string
		layouts  []*wgpu.BindGroupLayout
		vertex   wgpu.VertexBufferLayout
		topology wgpu.PrimitiveTopology
		out      **wgpu.RenderPipeline
	}
	specs := []spec{
		{"quad", quadWGSL, []*wgpu.BindGroupLayout{globalsLayout}, quadVertexLayout, wgpu.PrimitiveTopologyTriangleStrip, &p.quad},
		{"mesh", meshWGSL, []*wgpu.BindGroupLayout{globalsLayout}, meshVertexLayout, wgpu.PrimitiveTopologyTriangleList, &p.mesh},
		{"text", textWGSL, []*wgpu.BindGroupLayout{globalsLayout, textureLayout}, texVertexLayout, wgpu.PrimitiveTopologyTriangleList, &p.text},
		{"image", imageWGSL, []*wgpu.BindGroupLayout{globalsLayout, textureLayout}, texVertexLayout, wgpu.PrimitiveTopologyTriangleList, &p.image},
	}
	for _, s := range specs {
		pipe, err := buildPipeline(device, format, s.name, s.source, s.layouts, s.vertex, s.topology)
		if err != nil {
			p.release()
			return nil, err
		}
		*s.out = pipe
	}
	return p, nil
}

func buildPipeline(
	device *wgpu.Device,
	format wgpu.TextureFormat,
	name, source string,
	layouts []*wgpu.BindGroupLayout,
	vertex wgpu.VertexBufferLayout,
	topology wgpu.PrimitiveTopology,
) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %s shader: %w", name, err)
	}
	defer module.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            name,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %s pipeline layout: %w", name, err)
	}
	defer layout.Release()

	blend := premultipliedBlend
	pipe, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  name,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertex},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     &blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %s pipeline: %w", name, err)
	}
	return pipe, nil
}

func (p *pipelines) release() {
	for _, pipe := range []*wgpu.RenderPipeline{p.quad, p.mesh, p.text, p.image} {
		if pipe != nil {
			pipe.Release()
		}
	}
	if p.globalsLayout != nil {
		p.globalsLayout.Release()
	}
	if p.textureLayout != nil {
		p.textureLayout.Release()
	}
	*p = pipelines{}
}
