// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/videoview/layout"
)

// Resource failure kinds. Devices wrap them with detail.
var (
	// ErrDeviceLost is returned when the device can no longer execute work.
	// Callers should skip the frame and reinitialize after repeated failures.
	ErrDeviceLost = errors.New("render: device lost")

	// ErrOutOfMemory is returned when a texture cannot be allocated.
	ErrOutOfMemory = errors.New("render: out of memory")

	// ErrInvalidTexture is returned for a texture that belongs to another
	// device or has been destroyed.
	ErrInvalidTexture = errors.New("render: invalid texture")

	// ErrInvalidTarget is returned when a target cannot be drawn into by the
	// device.
	ErrInvalidTarget = errors.New("render: invalid target")

	// ErrClosed is returned by a device after Close.
	ErrClosed = errors.New("render: device closed")
)

// IsDeviceLost reports whether err indicates a lost device. A closed device
// counts as lost.
func IsDeviceLost(err error) bool {
	return errors.Is(err, ErrDeviceLost) || errors.Is(err, ErrClosed)
}

// Device is the drawing surface the presenter talks to.
//
// A device is used from the render goroutine only.
type Device interface {
	// CreateTexture allocates a texture usable as a sampled plane.
	CreateTexture(desc *TextureDescriptor) (Texture, error)

	// WriteTexture replaces the full contents of tex. data holds
	// tex.Height() rows of bytesPerRow bytes each.
	WriteTexture(tex Texture, data []byte, bytesPerRow int) error

	// DestroyTexture releases tex. Destroying nil or an already destroyed
	// texture is a no-op.
	DestroyTexture(tex Texture)

	// Draw clears target to cmd.Background and draws the planes as one
	// transformed quad.
	Draw(target Target, cmd *DrawCommand) error

	// Clear fills target with c.
	Clear(target Target, c gputypes.Color) error

	// Reset drops device-side caches and pipelines so the next call rebuilds
	// them. It is called once after repeated device-loss failures.
	Reset() error

	// Close releases every resource the device owns.
	Close() error
}

// TextureDescriptor describes a plane texture.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width and Height are the texture size in texels.
	Width, Height int

	// Format is one of R8Unorm, RGBA8Unorm or BGRA8Unorm.
	Format gputypes.TextureFormat
}

// Texture is one plane of a frame on a device.
type Texture interface {
	// Width returns the texture width in texels.
	Width() int

	// Height returns the texture height in texels.
	Height() int

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat
}

// BytesPerTexel returns the texel size of the plane formats devices accept,
// or 0 for any other format.
func BytesPerTexel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

// Sampling selects how the draw interprets its planes.
type Sampling uint8

const (
	// SampleRGBA draws a single four-channel texture.
	SampleRGBA Sampling = iota

	// SampleYUV draws three single-channel planes (Y, U, V) with 2x2
	// chroma subsampling, converted with BT.601 coefficients.
	SampleYUV
)

// String returns the sampling name.
func (s Sampling) String() string {
	switch s {
	case SampleRGBA:
		return "rgba"
	case SampleYUV:
		return "yuv"
	default:
		return "unknown"
	}
}

// PlaneCount returns the number of textures a draw with s expects.
func (s Sampling) PlaneCount() int {
	if s == SampleYUV {
		return 3
	}
	return 1
}

// DrawCommand is a single textured quad.
type DrawCommand struct {
	// Planes holds one texture for SampleRGBA, or Y, U and V for SampleYUV.
	Planes []Texture

	Sampling Sampling

	// FrameWidth and FrameHeight are the stored frame size in pixels.
	FrameWidth, FrameHeight int

	// Transform maps frame pixels to view units.
	Transform layout.Matrix

	// ViewWidth and ViewHeight are the view size in logical units. The
	// device stretches view units over the whole target.
	ViewWidth, ViewHeight float64

	// Background fills the target outside the quad.
	Background gputypes.Color
}

// Validate checks that cmd carries the planes its sampling mode needs.
func (c *DrawCommand) Validate() error {
	if c == nil {
		return errors.New("render: nil draw command")
	}
	if len(c.Planes) != c.Sampling.PlaneCount() {
		return errors.New("render: plane count does not match sampling")
	}
	for _, p := range c.Planes {
		if p == nil {
			return ErrInvalidTexture
		}
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 || c.ViewWidth <= 0 || c.ViewHeight <= 0 {
		return errors.New("render: empty draw geometry")
	}
	return nil
}

// TargetMatrix returns the transform from frame pixels to target pixels.
// View units are scaled per axis onto the target, so a HiDPI backing store
// with twice the view size receives twice the pixels.
func (c *DrawCommand) TargetMatrix(t Target) layout.Matrix {
	sx := float64(t.Width()) / c.ViewWidth
	sy := float64(t.Height()) / c.ViewHeight
	return layout.Scale(sx, sy).Multiply(c.Transform)
}
