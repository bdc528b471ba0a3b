//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/videoview/render"
)

// fenceTimeout bounds every wait for submitted work.
const fenceTimeout = 5 * time.Second

// Device implements render.Device on a borrowed hal.Device.
//
// The hal device and queue belong to the host and are never destroyed here.
// Close releases only what this Device created.
//
// Not safe for concurrent use; drive it from the render goroutine.
type Device struct {
	device        hal.Device
	queue         hal.Queue
	surfaceFormat gputypes.TextureFormat

	pipe     *videoPipeline
	textures map[*texture]struct{}
	closed   bool
}

// texture is one plane with its sampling view.
type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	w, h   int
	format gputypes.TextureFormat
}

func (t *texture) Width() int                     { return t.w }
func (t *texture) Height() int                    { return t.h }
func (t *texture) Format() gputypes.TextureFormat { return t.format }

// New creates a device over the host's HAL device and queue. surfaceFormat
// is the format of the surfaces the host will pass as targets; undefined
// means BGRA8Unorm.
func New(device hal.Device, queue hal.Queue, surfaceFormat gputypes.TextureFormat) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilHALDevice
	}
	if surfaceFormat == gputypes.TextureFormatUndefined {
		surfaceFormat = gputypes.TextureFormatBGRA8Unorm
	}
	slogger().Info("native: device attached", "surface_format", surfaceFormat)
	return &Device{
		device:        device,
		queue:         queue,
		surfaceFormat: surfaceFormat,
		pipe:          newVideoPipeline(device),
		textures:      make(map[*texture]struct{}),
	}, nil
}

// NewFromProvider shares the GPU device of a host such as gogpu. The
// provider must also implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return New(device, queue, provider.SurfaceFormat())
}

// SetLogger sets the logger for the native backend.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// SurfaceFormat returns the format used for targets that leave theirs
// undefined.
func (d *Device) SurfaceFormat() gputypes.TextureFormat {
	return d.surfaceFormat
}

// CreateTexture allocates a sampled plane texture and its view.
func (d *Device) CreateTexture(desc *render.TextureDescriptor) (render.Texture, error) {
	if d.closed {
		return nil, render.ErrClosed
	}
	if render.BytesPerTexel(desc.Format) == 0 {
		return nil, fmt.Errorf("native: unsupported texture format %v", desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("native: invalid texture size %dx%d", desc.Width, desc.Height)
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // checked positive above
			Height:             uint32(desc.Height), //nolint:gosec // checked positive above
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w: %w", desc.Label, render.ErrOutOfMemory, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w: %w", desc.Label, render.ErrOutOfMemory, err)
	}

	t := &texture{tex: tex, view: view, w: desc.Width, h: desc.Height, format: desc.Format}
	d.textures[t] = struct{}{}
	return t, nil
}

// WriteTexture uploads the full texture through the queue.
func (d *Device) WriteTexture(tex render.Texture, data []byte, bytesPerRow int) error {
	if d.closed {
		return render.ErrClosed
	}
	t, err := d.lookup(tex)
	if err != nil {
		return err
	}
	row := t.w * render.BytesPerTexel(t.format)
	if bytesPerRow < row {
		return fmt.Errorf("native: bytes per row %d < %d", bytesPerRow, row)
	}
	if need := bytesPerRow*(t.h-1) + row; len(data) < need {
		return fmt.Errorf("native: texture data %d bytes, need %d", len(data), need)
	}

	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(bytesPerRow), //nolint:gosec // bounded by len(data)
			RowsPerImage: uint32(t.h),         //nolint:gosec // positive texture height
		},
		&hal.Extent3D{
			Width:              uint32(t.w), //nolint:gosec // positive texture width
			Height:             uint32(t.h), //nolint:gosec // positive texture height
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// DestroyTexture releases a texture and its view.
func (d *Device) DestroyTexture(tex render.Texture) {
	t, ok := tex.(*texture)
	if !ok || t == nil {
		return
	}
	if _, live := d.textures[t]; !live {
		return
	}
	delete(d.textures, t)
	d.release(t)
}

func (d *Device) release(t *texture) {
	if t.view != nil {
		d.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		d.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Draw clears the surface to the background and draws the frame quad.
func (d *Device) Draw(target render.Target, cmd *render.DrawCommand) error {
	if d.closed {
		return render.ErrClosed
	}
	st, err := d.surface(target)
	if err != nil {
		return err
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	planes := make([]*texture, len(cmd.Planes))
	for i, p := range cmd.Planes {
		if planes[i], err = d.lookup(p); err != nil {
			return err
		}
	}

	pipeline, err := d.pipe.pipelineFor(d.targetFormat(st))
	if err != nil {
		return fmt.Errorf("%w: %w", render.ErrDeviceLost, err)
	}
	d.queue.WriteBuffer(d.pipe.uniforms, 0, encodeUniforms(cmd, st))

	views := [3]hal.TextureView{planes[0].view, planes[0].view, planes[0].view}
	if cmd.Sampling == render.SampleYUV {
		views = [3]hal.TextureView{planes[0].view, planes[1].view, planes[2].view}
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "video_bind_group",
		Layout: d.pipe.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.pipe.uniforms.NativeHandle(),
				Offset: 0,
				Size:   uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: views[0].NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: views[1].NativeHandle()}},
			{Binding: 3, Resource: gputypes.TextureViewBinding{TextureView: views[2].NativeHandle()}},
			{Binding: 4, Resource: gputypes.SamplerBinding{Sampler: d.pipe.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create video bind group: %w", render.ErrDeviceLost, err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	return d.submit("video_draw", st.View(), cmd.Background, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(pipeline)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.Draw(6, 1, 0, 0)
	})
}

// Clear fills the surface with c.
func (d *Device) Clear(target render.Target, c gputypes.Color) error {
	if d.closed {
		return render.ErrClosed
	}
	st, err := d.surface(target)
	if err != nil {
		return err
	}
	return d.submit("video_clear", st.View(), c, nil)
}

// submit records one render pass into view, cleared to clear, and waits for
// it to finish.
func (d *Device) submit(label string, view hal.TextureView, clear gputypes.Color, record func(hal.RenderPassEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %w", render.ErrDeviceLost, err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("%w: begin encoding: %w", render.ErrDeviceLost, err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	if record != nil {
		record(rp)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("%w: end encoding: %w", render.ErrDeviceLost, err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("%w: create fence: %w", render.ErrDeviceLost, err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("%w: submit: %w", render.ErrDeviceLost, err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("%w: wait for GPU: ok=%v err=%v", render.ErrDeviceLost, fenceOK, err)
	}
	return nil
}

// Reset drops the pipeline objects; the next draw recreates them.
func (d *Device) Reset() error {
	if d.closed {
		return render.ErrClosed
	}
	d.pipe.destroy()
	slogger().Info("native: pipeline reset", "live_textures", len(d.textures))
	return nil
}

// Close releases every texture and pipeline object this device created.
// The host's hal.Device is left alone.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	for t := range d.textures {
		d.release(t)
	}
	clear(d.textures)
	d.pipe.destroy()
	return nil
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int {
	return len(d.textures)
}

func (d *Device) surface(target render.Target) (*SurfaceTarget, error) {
	st, ok := target.(*SurfaceTarget)
	if !ok || st == nil || st.View() == nil {
		return nil, fmt.Errorf("%w: native device needs *SurfaceTarget with a view, got %T", render.ErrInvalidTarget, target)
	}
	return st, nil
}

func (d *Device) targetFormat(st *SurfaceTarget) gputypes.TextureFormat {
	if st.Format() == gputypes.TextureFormatUndefined {
		return d.surfaceFormat
	}
	return st.Format()
}

func (d *Device) lookup(tex render.Texture) (*texture, error) {
	t, ok := tex.(*texture)
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %w: %T", render.ErrInvalidTexture, ErrForeignTexture, tex)
	}
	if _, live := d.textures[t]; !live {
		return nil, fmt.Errorf("%w: destroyed", render.ErrInvalidTexture)
	}
	return t, nil
}

var _ render.Device = (*Device)(nil)
