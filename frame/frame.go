// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxDimension is the largest accepted frame width or height. It keeps every
// plane extent representable as a texture size and every row size far from
// int overflow.
const MaxDimension = 1 << 16

// ErrInvalidFrame is returned by [Frame.Validate] for frames that cannot be
// displayed: non-positive dimensions, missing or short plane storage, or an
// unknown pixel format.
var ErrInvalidFrame = errors.New("frame: invalid frame")

// Plane is one plane of pixel storage.
//
// Data is shared with the producer and MUST NOT be modified after the frame
// is pushed. Stride is the distance in bytes between the starts of two
// consecutive rows and may exceed the packed row size.
type Plane struct {
	Data   []byte
	Stride int
}

// Frame is one decoded image. It is immutable once constructed: all state is
// unexported and only reachable through accessors.
//
// A Frame references pixel storage owned by the producer. The storage must
// stay untouched until the frame is superseded or consumed by the renderer.
type Frame struct {
	width     int
	height    int
	format    PixelFormat
	rotation  Rotation
	timestamp time.Duration
	planes    []Plane
}

// Option configures optional frame metadata.
type Option func(*Frame)

// WithRotation sets the intrinsic rotation reported by the decoder.
func WithRotation(r Rotation) Option {
	return func(f *Frame) {
		f.rotation = r
	}
}

// WithTimestamp sets the presentation timestamp relative to stream start.
func WithTimestamp(ts time.Duration) Option {
	return func(f *Frame) {
		f.timestamp = ts
	}
}

// New creates a frame from explicit planes. The planes slice is copied; the
// plane data is not. New does not validate its input; call [Frame.Validate].
func New(format PixelFormat, width, height int, planes []Plane, opts ...Option) *Frame {
	f := &Frame{
		width:  width,
		height: height,
		format: format,
		planes: append([]Plane(nil), planes...),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewPacked creates a single-plane BGRA or RGBA frame.
func NewPacked(format PixelFormat, width, height int, data []byte, stride int, opts ...Option) *Frame {
	return New(format, width, height, []Plane{{Data: data, Stride: stride}}, opts...)
}

// NewI420 creates a planar YUV 4:2:0 frame from separate Y, U and V planes.
func NewI420(width, height int, y, u, v []byte, strideY, strideU, strideV int, opts ...Option) *Frame {
	return New(FormatI420, width, height, []Plane{
		{Data: y, Stride: strideY},
		{Data: u, Stride: strideU},
		{Data: v, Stride: strideV},
	}, opts...)
}

// NewNV12 creates a semi-planar YUV 4:2:0 frame from a Y plane and an
// interleaved UV plane.
func NewNV12(width, height int, y, uv []byte, strideY, strideUV int, opts ...Option) *Frame {
	return New(FormatNV12, width, height, []Plane{
		{Data: y, Stride: strideY},
		{Data: uv, Stride: strideUV},
	}, opts...)
}

// Width returns the stored image width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the stored image height in pixels.
func (f *Frame) Height() int { return f.height }

// Format returns the pixel format.
func (f *Frame) Format() PixelFormat { return f.format }

// Rotation returns the intrinsic rotation.
func (f *Frame) Rotation() Rotation { return f.rotation }

// Timestamp returns the presentation timestamp.
func (f *Frame) Timestamp() time.Duration { return f.timestamp }

// PlaneCount returns the number of planes the frame carries.
func (f *Frame) PlaneCount() int { return len(f.planes) }

// Plane returns plane i. It panics if i is out of range.
func (f *Frame) Plane(i int) Plane { return f.planes[i] }

// Validate reports whether the frame can be displayed. The returned error
// wraps [ErrInvalidFrame]. Validate only inspects lengths and headers, so it
// is cheap enough to run on the producer goroutine.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.width <= 0 || f.height <= 0 || f.width > MaxDimension || f.height > MaxDimension {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, f.width, f.height)
	}
	if !f.format.Known() {
		return fmt.Errorf("%w: format %s", ErrInvalidFrame, f.format)
	}
	if !f.rotation.Valid() {
		return fmt.Errorf("%w: rotation %s", ErrInvalidFrame, f.rotation)
	}
	if len(f.planes) != f.format.PlaneCount() {
		return fmt.Errorf("%w: %s needs %d planes, got %d",
			ErrInvalidFrame, f.format, f.format.PlaneCount(), len(f.planes))
	}
	for i, p := range f.planes {
		rowBytes := f.format.PlaneRowBytes(i, f.width)
		_, rows := f.format.PlaneSize(i, f.width, f.height)
		if len(p.Data) == 0 {
			return fmt.Errorf("%w: plane %d is empty", ErrInvalidFrame, i)
		}
		if p.Stride < rowBytes {
			return fmt.Errorf("%w: plane %d stride %d < row size %d", ErrInvalidFrame, i, p.Stride, rowBytes)
		}
		if rows > 1 && p.Stride > (math.MaxInt-rowBytes)/(rows-1) {
			return fmt.Errorf("%w: plane %d stride %d overflows", ErrInvalidFrame, i, p.Stride)
		}
		if need := p.Stride*(rows-1) + rowBytes; len(p.Data) < need {
			return fmt.Errorf("%w: plane %d has %d bytes, need %d", ErrInvalidFrame, i, len(p.Data), need)
		}
	}
	return nil
}

// String returns a short description such as "I420 1920x1080 90°".
func (f *Frame) String() string {
	if f == nil {
		return "<nil frame>"
	}
	return fmt.Sprintf("%s %dx%d %s", f.format, f.width, f.height, f.rotation)
}
