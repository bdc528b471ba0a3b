// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i420(w, h int) *Frame {
	cw, ch := (w+1)/2, (h+1)/2
	return NewI420(w, h, make([]byte, w*h), make([]byte, cw*ch), make([]byte, cw*ch), w, cw, cw)
}

func TestFormatTableCoversAllFormats(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			assert.True(t, f.Known())
			assert.Positive(t, f.PlaneCount())
			assert.NotContains(t, f.String(), "Unknown")
		})
	}
	assert.False(t, FormatUnknown.Known())
	assert.False(t, PixelFormat(200).Known())
	assert.Equal(t, "Unknown(200)", PixelFormat(200).String())
}

func TestPlaneGeometry(t *testing.T) {
	tests := []struct {
		format   PixelFormat
		plane    int
		w, h     int
		wantW    int
		wantH    int
		wantRowB int
	}{
		{FormatBGRA, 0, 640, 480, 640, 480, 2560},
		{FormatI420, 0, 640, 480, 640, 480, 640},
		{FormatI420, 1, 640, 480, 320, 240, 320},
		{FormatI420, 2, 641, 481, 321, 241, 321},
		{FormatNV12, 1, 640, 480, 320, 240, 640},
		{FormatNV12, 2, 640, 480, 0, 0, 0},
		{FormatUnknown, 0, 640, 480, 0, 0, 0},
	}
	for _, tt := range tests {
		w, h := tt.format.PlaneSize(tt.plane, tt.w, tt.h)
		assert.Equal(t, tt.wantW, w, "%s plane %d width", tt.format, tt.plane)
		assert.Equal(t, tt.wantH, h, "%s plane %d height", tt.format, tt.plane)
		assert.Equal(t, tt.wantRowB, tt.format.PlaneRowBytes(tt.plane, tt.w), "%s plane %d row bytes", tt.format, tt.plane)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		frame   *Frame
		wantErr bool
	}{
		{"valid I420", i420(16, 8), false},
		{"valid odd I420", i420(15, 9), false},
		{"valid BGRA", NewPacked(FormatBGRA, 4, 4, make([]byte, 64), 16), false},
		{"padded stride", NewPacked(FormatRGBA, 4, 2, make([]byte, 32+16), 32), false},
		{"valid NV12", NewNV12(4, 4, make([]byte, 16), make([]byte, 8), 4, 4), false},
		{"nil", nil, true},
		{"zero width", NewPacked(FormatBGRA, 0, 4, make([]byte, 64), 16), true},
		{"negative height", NewPacked(FormatBGRA, 4, -1, make([]byte, 64), 16), true},
		{"unknown format", New(FormatUnknown, 4, 4, []Plane{{make([]byte, 64), 16}}), true},
		{"empty storage", NewPacked(FormatBGRA, 4, 4, nil, 16), true},
		{"short storage", NewPacked(FormatBGRA, 4, 4, make([]byte, 63), 16), true},
		{"short stride", NewPacked(FormatBGRA, 4, 4, make([]byte, 64), 8), true},
		{"missing plane", New(FormatI420, 4, 4, []Plane{{make([]byte, 16), 4}}), true},
		{"width overflows row size", NewPacked(FormatRGBA, math.MaxInt/2, 1, []byte{0}, 0), true},
		{"width above limit", NewPacked(FormatBGRA, MaxDimension+1, 1, make([]byte, 4*(MaxDimension+1)), 4*(MaxDimension+1)), true},
		{"height above limit", NewPacked(FormatBGRA, 1, MaxDimension+1, []byte{0, 0, 0, 0}, 4), true},
		{"stride overflows plane size", NewPacked(FormatBGRA, 1, 3, []byte{0, 0, 0, 0}, math.MaxInt/2+1), true},
		{"largest accepted", NewPacked(FormatBGRA, MaxDimension, 1, make([]byte, 4*MaxDimension), 4*MaxDimension), false},
		{"bad rotation", NewPacked(FormatBGRA, 4, 4, make([]byte, 64), 16, WithRotation(45)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFrame)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewCopiesPlaneSlice(t *testing.T) {
	planes := []Plane{{Data: make([]byte, 64), Stride: 16}}
	f := New(FormatRGBA, 4, 4, planes, WithTimestamp(40*time.Millisecond), WithRotation(Rotation270))
	planes[0] = Plane{}

	assert.Equal(t, 16, f.Plane(0).Stride)
	assert.Equal(t, 40*time.Millisecond, f.Timestamp())
	assert.Equal(t, Rotation270, f.Rotation())
	assert.Equal(t, "RGBA 4x4 270°", f.String())
}

func TestResolve(t *testing.T) {
	f := i420(4, 4)

	got, clear := Resolve(f)
	assert.Same(t, f, got)
	assert.False(t, clear)

	for name, c := range map[string]Content{
		"nil":       nil,
		"nil frame": (*Frame)(nil),
		"clear":     Clear{},
	} {
		got, clear := Resolve(c)
		assert.Nil(t, got, name)
		assert.True(t, clear, name)
	}
}

func TestRotation(t *testing.T) {
	assert.True(t, Rotation90.SwapsAxes())
	assert.True(t, Rotation270.SwapsAxes())
	assert.False(t, Rotation180.SwapsAxes())
	assert.False(t, Rotation(45).Valid())
	assert.Equal(t, "Rotation(45)", Rotation(45).String())
}
