// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "fmt"

// PixelFormat identifies the memory layout of a frame's pixel data.
//
// The set of formats is closed: every format has a row in formatTable, and
// every consumer that switches over PixelFormat is expected to handle all of
// them. Adding a format means adding a constant, a table row, and a case in
// each conversion switch (tests iterate [Formats] to catch omissions).
type PixelFormat uint8

const (
	// FormatUnknown is the zero value. Frames carrying it are invalid.
	FormatUnknown PixelFormat = iota

	// FormatBGRA is packed 8-bit B, G, R, A (one plane, 4 bytes per pixel).
	FormatBGRA

	// FormatRGBA is packed 8-bit R, G, B, A (one plane, 4 bytes per pixel).
	FormatRGBA

	// FormatI420 is planar YUV 4:2:0: a full-resolution Y plane followed by
	// quarter-resolution U and V planes.
	FormatI420

	// FormatNV12 is semi-planar YUV 4:2:0: a full-resolution Y plane and a
	// quarter-resolution plane of interleaved U, V pairs.
	FormatNV12
)

// planeShape describes one plane of a format relative to the frame size.
type planeShape struct {
	// subX and subY are the horizontal and vertical subsampling divisors.
	subX, subY int

	// bytesPerPixel is the number of bytes per plane sample.
	bytesPerPixel int
}

// formatInfo is a row of the format table.
type formatInfo struct {
	name   string
	planar bool
	planes []planeShape
}

var formatTable = map[PixelFormat]formatInfo{
	FormatBGRA: {name: "BGRA", planes: []planeShape{{1, 1, 4}}},
	FormatRGBA: {name: "RGBA", planes: []planeShape{{1, 1, 4}}},
	FormatI420: {name: "I420", planar: true, planes: []planeShape{{1, 1, 1}, {2, 2, 1}, {2, 2, 1}}},
	FormatNV12: {name: "NV12", planar: true, planes: []planeShape{{1, 1, 1}, {2, 2, 2}}},
}

// Formats returns every supported pixel format.
func Formats() []PixelFormat {
	return []PixelFormat{FormatBGRA, FormatRGBA, FormatI420, FormatNV12}
}

// Known reports whether f is a supported format.
func (f PixelFormat) Known() bool {
	_, ok := formatTable[f]
	return ok
}

// Planar reports whether f stores luma and chroma in separate planes.
func (f PixelFormat) Planar() bool {
	return formatTable[f].planar
}

// PlaneCount returns the number of planes for f, or 0 for unknown formats.
func (f PixelFormat) PlaneCount() int {
	return len(formatTable[f].planes)
}

// PlaneSize returns the width and height in samples of plane i for a frame of
// the given size. Subsampled dimensions are rounded up, so odd-sized frames
// keep their last chroma column and row.
func (f PixelFormat) PlaneSize(i, width, height int) (w, h int) {
	info, ok := formatTable[f]
	if !ok || i < 0 || i >= len(info.planes) {
		return 0, 0
	}
	p := info.planes[i]
	return ceilDiv(width, p.subX), ceilDiv(height, p.subY)
}

// PlaneRowBytes returns the minimum number of bytes in one row of plane i.
func (f PixelFormat) PlaneRowBytes(i, width int) int {
	info, ok := formatTable[f]
	if !ok || i < 0 || i >= len(info.planes) {
		return 0
	}
	p := info.planes[i]
	return ceilDiv(width, p.subX) * p.bytesPerPixel
}

// String returns a human-readable name for the format.
func (f PixelFormat) String() string {
	if info, ok := formatTable[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(f))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
