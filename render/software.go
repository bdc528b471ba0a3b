// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// SoftwareDevice is a CPU device that composites frames into a
// [*PixmapTarget] with golang.org/x/image/draw.
//
// Four-channel textures are stored in RGBA order with alpha forced opaque,
// so BGRA and RGBA frames look the same once uploaded. YUV planes are
// combined into an *image.YCbCr and converted by the image package.
//
// Example:
//
//	dev := render.NewSoftwareDevice()
//	target := render.NewPixmapTarget(640, 360)
//	view, _ := videoview.New(videoview.WithDevice(dev))
//	view.Tick(target)
type SoftwareDevice struct {
	textures map[*softTexture]struct{}
	scaler   draw.Transformer
	closed   bool
	stats    SoftwareStats
}

// SoftwareStats counts the work a [SoftwareDevice] has done.
type SoftwareStats struct {
	// Textures is the number of live textures.
	Textures int

	Writes int
	Draws  int
	Clears int
	Resets int
}

// SoftwareOption configures a [SoftwareDevice].
type SoftwareOption func(*SoftwareDevice)

// WithInterpolator sets the sampling kernel used to scale frames. The
// default is draw.BiLinear; draw.NearestNeighbor gives exact texel copies.
func WithInterpolator(t draw.Transformer) SoftwareOption {
	return func(d *SoftwareDevice) {
		if t != nil {
			d.scaler = t
		}
	}
}

// NewSoftwareDevice creates a CPU device.
func NewSoftwareDevice(opts ...SoftwareOption) *SoftwareDevice {
	d := &SoftwareDevice{
		textures: make(map[*softTexture]struct{}),
		scaler:   draw.BiLinear,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type softTexture struct {
	w, h   int
	format gputypes.TextureFormat
	pix    []byte
}

func (t *softTexture) Width() int                     { return t.w }
func (t *softTexture) Height() int                    { return t.h }
func (t *softTexture) Format() gputypes.TextureFormat { return t.format }

// CreateTexture allocates a zeroed texture.
func (d *SoftwareDevice) CreateTexture(desc *TextureDescriptor) (Texture, error) {
	if d.closed {
		return nil, ErrClosed
	}
	bpt := BytesPerTexel(desc.Format)
	if bpt == 0 {
		return nil, fmt.Errorf("render: unsupported texture format %v", desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("render: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	t := &softTexture{
		w:      desc.Width,
		h:      desc.Height,
		format: desc.Format,
		pix:    make([]byte, desc.Width*desc.Height*bpt),
	}
	d.textures[t] = struct{}{}
	d.stats.Textures = len(d.textures)
	return t, nil
}

// WriteTexture copies data into tex, dropping row padding.
func (d *SoftwareDevice) WriteTexture(tex Texture, data []byte, bytesPerRow int) error {
	if d.closed {
		return ErrClosed
	}
	t, err := d.lookup(tex)
	if err != nil {
		return err
	}
	bpt := BytesPerTexel(t.format)
	row := t.w * bpt
	if bytesPerRow < row {
		return fmt.Errorf("render: bytes per row %d < %d", bytesPerRow, row)
	}
	if need := bytesPerRow*(t.h-1) + row; len(data) < need {
		return fmt.Errorf("render: texture data %d bytes, need %d", len(data), need)
	}

	for y := 0; y < t.h; y++ {
		dst := t.pix[y*row : (y+1)*row]
		copy(dst, data[y*bytesPerRow:y*bytesPerRow+row])
		if bpt != 4 {
			continue
		}
		for i := 0; i < len(dst); i += 4 {
			if t.format == gputypes.TextureFormatBGRA8Unorm {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
			dst[i+3] = 0xFF
		}
	}
	d.stats.Writes++
	return nil
}

// DestroyTexture releases tex.
func (d *SoftwareDevice) DestroyTexture(tex Texture) {
	t, ok := tex.(*softTexture)
	if !ok || t == nil {
		return
	}
	if _, live := d.textures[t]; !live {
		return
	}
	delete(d.textures, t)
	t.pix = nil
	d.stats.Textures = len(d.textures)
}

// Draw fills target with the background and composites the frame quad.
func (d *SoftwareDevice) Draw(target Target, cmd *DrawCommand) error {
	if d.closed {
		return ErrClosed
	}
	pt, ok := target.(*PixmapTarget)
	if !ok || pt == nil {
		return fmt.Errorf("%w: software device needs *PixmapTarget, got %T", ErrInvalidTarget, target)
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	src, err := d.source(cmd)
	if err != nil {
		return err
	}

	pt.Fill(cmd.Background)
	m := cmd.TargetMatrix(pt)
	s2d := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	d.scaler.Transform(pt.Image(), s2d, src, src.Bounds(), draw.Src, nil)
	d.stats.Draws++
	return nil
}

// source builds an image over the command's planes without copying.
func (d *SoftwareDevice) source(cmd *DrawCommand) (image.Image, error) {
	planes := make([]*softTexture, len(cmd.Planes))
	for i, p := range cmd.Planes {
		t, err := d.lookup(p)
		if err != nil {
			return nil, err
		}
		planes[i] = t
	}

	if cmd.Sampling == SampleRGBA {
		t := planes[0]
		if BytesPerTexel(t.format) != 4 {
			return nil, fmt.Errorf("render: rgba sampling of %v texture", t.format)
		}
		return &image.RGBA{Pix: t.pix, Stride: t.w * 4, Rect: image.Rect(0, 0, t.w, t.h)}, nil
	}

	y, u, v := planes[0], planes[1], planes[2]
	for _, t := range planes {
		if t.format != gputypes.TextureFormatR8Unorm {
			return nil, fmt.Errorf("render: yuv sampling of %v texture", t.format)
		}
	}
	cw, ch := (y.w+1)/2, (y.h+1)/2
	if u.w < cw || u.h < ch || v.w != u.w || v.h != u.h {
		return nil, fmt.Errorf("render: chroma planes %dx%d/%dx%d do not match luma %dx%d",
			u.w, u.h, v.w, v.h, y.w, y.h)
	}
	return &image.YCbCr{
		Y:              y.pix,
		Cb:             u.pix,
		Cr:             v.pix,
		YStride:        y.w,
		CStride:        u.w,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, y.w, y.h),
	}, nil
}

// Clear fills target with c.
func (d *SoftwareDevice) Clear(target Target, c gputypes.Color) error {
	if d.closed {
		return ErrClosed
	}
	pt, ok := target.(*PixmapTarget)
	if !ok || pt == nil {
		return fmt.Errorf("%w: software device needs *PixmapTarget, got %T", ErrInvalidTarget, target)
	}
	pt.Fill(c)
	d.stats.Clears++
	return nil
}

// Reset has no caches to drop; it only counts the call.
func (d *SoftwareDevice) Reset() error {
	if d.closed {
		return ErrClosed
	}
	d.stats.Resets++
	return nil
}

// Close releases all textures. Subsequent calls fail with ErrClosed.
func (d *SoftwareDevice) Close() error {
	if d.closed {
		return nil
	}
	for t := range d.textures {
		t.pix = nil
	}
	clear(d.textures)
	d.stats.Textures = 0
	d.closed = true
	return nil
}

// Stats returns the device counters.
func (d *SoftwareDevice) Stats() SoftwareStats {
	return d.stats
}

func (d *SoftwareDevice) lookup(tex Texture) (*softTexture, error) {
	t, ok := tex.(*softTexture)
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidTexture, tex)
	}
	if _, live := d.textures[t]; !live {
		return nil, fmt.Errorf("%w: destroyed", ErrInvalidTexture)
	}
	return t, nil
}

var _ Device = (*SoftwareDevice)(nil)
