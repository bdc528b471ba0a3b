//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/videoview/render"
)

// videoPipeline holds the GPU objects shared by every draw: the shader, the
// bind group layout, a sampler, the uniform buffer and one render pipeline
// per target format. Everything is created lazily and rebuilt after destroy.
type videoPipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	uniforms   hal.Buffer

	pipelines map[gputypes.TextureFormat]hal.RenderPipeline
}

func newVideoPipeline(device hal.Device) *videoPipeline {
	return &videoPipeline{
		device:    device,
		pipelines: make(map[gputypes.TextureFormat]hal.RenderPipeline),
	}
}

// ensureBase creates the format-independent objects.
func (p *videoPipeline) ensureBase() error {
	if p.shader != nil {
		return nil
	}
	if videoShaderSource == "" {
		return fmt.Errorf("video shader source is empty")
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "video_shader",
		Source: hal.ShaderSource{WGSL: videoShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile video shader: %w", err)
	}
	p.shader = shader

	planeEntry := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		}
	}
	layout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "video_bind_group_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			planeEntry(1),
			planeEntry(2),
			planeEntry(3),
			{
				Binding:    4,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create video bind group layout: %w", err)
	}
	p.layout = layout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "video_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.layout},
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create video pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "video_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create video sampler: %w", err)
	}
	p.sampler = sampler

	uniforms, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "video_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create video uniform buffer: %w", err)
	}
	p.uniforms = uniforms

	slogger().Debug("native: video pipeline base created")
	return nil
}

// pipelineFor returns the render pipeline drawing into format.
func (p *videoPipeline) pipelineFor(format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if err := p.ensureBase(); err != nil {
		return nil, err
	}
	if rp, ok := p.pipelines[format]; ok {
		return rp, nil
	}

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "video_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vertexEntry,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create video pipeline for %v: %w", format, err)
	}
	p.pipelines[format] = pipeline
	slogger().Debug("native: video pipeline created", "format", format)
	return pipeline, nil
}

// ready reports whether the base objects exist.
func (p *videoPipeline) ready() bool {
	return p.shader != nil && p.uniforms != nil
}

// destroy releases everything. The pipeline can be rebuilt afterwards.
func (p *videoPipeline) destroy() {
	for f, rp := range p.pipelines {
		p.device.DestroyRenderPipeline(rp)
		delete(p.pipelines, f)
	}
	if p.uniforms != nil {
		p.device.DestroyBuffer(p.uniforms)
		p.uniforms = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.layout != nil {
		p.device.DestroyBindGroupLayout(p.layout)
		p.layout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// uvs are the texture coordinates of the frame corners in the order of
// layout.Matrix.Corners.
var uvs = [4][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// encodeUniforms lays out the Uniforms struct of video.wgsl. Corners are
// mapped from frame pixels to the target's clip space.
func encodeUniforms(cmd *render.DrawCommand, target render.Target) []byte {
	m := cmd.TargetMatrix(target)
	corners := m.Corners(float64(cmd.FrameWidth), float64(cmd.FrameHeight))
	w, h := float64(target.Width()), float64(target.Height())

	buf := make([]byte, uniformSize)
	for i, c := range corners {
		off := i * 16
		putFloat(buf[off:], float32(c.X/w*2-1))
		putFloat(buf[off+4:], float32(1-c.Y/h*2))
		putFloat(buf[off+8:], uvs[i][0])
		putFloat(buf[off+12:], uvs[i][1])
	}
	var mode float32
	if cmd.Sampling == render.SampleYUV {
		mode = 1
	}
	putFloat(buf[64:], mode)
	return buf
}

func putFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
