// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// Target defines where a tick's output goes.
//
// Implementations:
//   - PixmapTarget: CPU-backed *image.RGBA for the software device
//   - native.SurfaceTarget: the host's current surface texture view
//
// A device rejects targets it cannot draw into with [ErrInvalidTarget].
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	view.Tick(target)
//	png.Encode(w, target.Image())
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Fill sets every pixel of the target to c.
func (t *PixmapTarget) Fill(c gputypes.Color) {
	draw.Draw(t.img, t.img.Bounds(), image.NewUniform(ToRGBA(c)), image.Point{}, draw.Src)
}

// At returns the color at the given coordinates.
func (t *PixmapTarget) At(x, y int) color.RGBA {
	return t.img.RGBAAt(x, y)
}

// Resize replaces the backing image. The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// ToRGBA converts a normalized color to 8-bit RGBA, clamping each channel.
func ToRGBA(c gputypes.Color) color.RGBA {
	return color.RGBA{R: unorm8(c.R), G: unorm8(c.G), B: unorm8(c.B), A: unorm8(c.A)}
}

func unorm8(v float64) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

var _ Target = (*PixmapTarget)(nil)
