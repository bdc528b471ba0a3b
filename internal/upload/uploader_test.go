// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"fmt"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/videoview/frame"
	"github.com/gogpu/videoview/render"
	"github.com/gogpu/videoview/render/rendertest"
)

func rgbaFrame(w, h int, ts time.Duration) *frame.Frame {
	return frame.NewPacked(frame.FormatRGBA, w, h, make([]byte, w*h*4), w*4, frame.WithTimestamp(ts))
}

func TestLayoutsCoverAllFormats(t *testing.T) {
	for _, f := range frame.Formats() {
		t.Run(f.String(), func(t *testing.T) {
			l, err := layoutFor(f)
			require.NoError(t, err)
			assert.Len(t, l.planes, l.sampling.PlaneCount())
			for _, p := range l.planes {
				assert.Less(t, p.source, f.PlaneCount())
				assert.Positive(t, render.BytesPerTexel(p.format))
			}
		})
	}
	_, err := layoutFor(frame.FormatUnknown)
	assert.ErrorIs(t, err, frame.ErrInvalidFrame)
}

func TestPackTightPlaneIsNotCopied(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	f := frame.NewI420(3, 2, data, []byte{7, 8}, []byte{9, 10}, 3, 2, 2)
	var scratch []byte

	out, bpr := pack(f, planeLayout{source: 0, format: r8, step: 1}, 3, 2, &scratch)
	assert.Equal(t, 3, bpr)
	assert.Equal(t, data, out)
	assert.Same(t, &data[0], &out[0])
	assert.Nil(t, scratch)
}

func TestPackRepacksPaddedRows(t *testing.T) {
	y := []byte{
		1, 2, 0xEE, 0xEE,
		3, 4, 0xEE, 0xEE,
	}
	f := frame.NewI420(2, 2, y, []byte{5}, []byte{6}, 4, 1, 1)
	var scratch []byte

	out, bpr := pack(f, planeLayout{source: 0, format: r8, step: 1}, 2, 2, &scratch)
	assert.Equal(t, 2, bpr)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
}

func TestPackDeinterleavesNV12(t *testing.T) {
	uv := []byte{
		10, 20, 11, 21, 0xEE,
		12, 22, 13, 23, 0xEE,
	}
	f := frame.NewNV12(4, 4, make([]byte, 16), uv, 4, 5)
	l, err := layoutFor(frame.FormatNV12)
	require.NoError(t, err)

	var scratch []byte
	u, _ := pack(f, l.planes[1], 2, 2, &scratch)
	assert.Equal(t, []byte{10, 11, 12, 13}, append([]byte(nil), u...))
	v, _ := pack(f, l.planes[2], 2, 2, &scratch)
	assert.Equal(t, []byte{20, 21, 22, 23}, v)
}

func TestUploadFormats(t *testing.T) {
	tests := []struct {
		name    string
		frame   *frame.Frame
		formats []gputypes.TextureFormat
		sizes   [][2]int
	}{
		{
			name:    "BGRA",
			frame:   frame.NewPacked(frame.FormatBGRA, 3, 2, make([]byte, 24), 12),
			formats: []gputypes.TextureFormat{bgra},
			sizes:   [][2]int{{3, 2}},
		},
		{
			name:    "RGBA",
			frame:   rgbaFrame(3, 2, 0),
			formats: []gputypes.TextureFormat{rgba},
			sizes:   [][2]int{{3, 2}},
		},
		{
			name:    "I420 odd size",
			frame:   frame.NewI420(5, 3, make([]byte, 15), make([]byte, 6), make([]byte, 6), 5, 3, 3),
			formats: []gputypes.TextureFormat{r8, r8, r8},
			sizes:   [][2]int{{5, 3}, {3, 2}, {3, 2}},
		},
		{
			name:    "NV12",
			frame:   frame.NewNV12(4, 2, make([]byte, 8), make([]byte, 4), 4, 4),
			formats: []gputypes.TextureFormat{r8, r8, r8},
			sizes:   [][2]int{{4, 2}, {2, 1}, {2, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(render.NewSoftwareDevice(), Options{})
			set, err := u.Upload(tt.frame)
			require.NoError(t, err)
			require.Len(t, set.Planes, len(tt.formats))
			for i, p := range set.Planes {
				assert.Equal(t, tt.formats[i], p.Format(), "plane %d", i)
				assert.Equal(t, tt.sizes[i], [2]int{p.Width(), p.Height()}, "plane %d", i)
			}
			assert.Same(t, set, u.Front())
		})
	}
}

func TestUploadDoubleBuffers(t *testing.T) {
	dev := render.NewSoftwareDevice()
	u := New(dev, Options{})

	first, err := u.Upload(rgbaFrame(4, 4, 1))
	require.NoError(t, err)
	second, err := u.Upload(rgbaFrame(4, 4, 2))
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, time.Duration(2), second.Timestamp)

	third, err := u.Upload(rgbaFrame(4, 4, 3))
	require.NoError(t, err)
	assert.Same(t, first, third, "sets alternate")
	assert.Equal(t, uint64(2), u.Stats().Allocations)
	assert.Equal(t, 2, dev.Stats().Textures)
}

func TestUploadReallocatesOnGeometryChange(t *testing.T) {
	dev := render.NewSoftwareDevice()
	u := New(dev, Options{})

	for _, size := range []int{4, 4, 8, 8} {
		_, err := u.Upload(rgbaFrame(size, size, 0))
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(4), u.Stats().Allocations)
	assert.Equal(t, 2, dev.Stats().Textures, "replaced sets are destroyed")
}

func TestUploadFailureKeepsFront(t *testing.T) {
	rec := rendertest.New(nil)
	u := New(rec, Options{})

	front, err := u.Upload(rgbaFrame(4, 4, 1))
	require.NoError(t, err)

	rec.Fail(rendertest.OpWrite, fmt.Errorf("queue: %w", render.ErrOutOfMemory))
	_, err = u.Upload(rgbaFrame(4, 4, 2))
	require.ErrorIs(t, err, render.ErrOutOfMemory)
	assert.Same(t, front, u.Front())
	assert.Equal(t, time.Duration(1), u.Front().Timestamp)
	assert.Equal(t, uint64(1), u.Stats().Failures)
	assert.False(t, u.ReinitPending())

	rec.Fail(rendertest.OpCreate, render.ErrOutOfMemory)
	_, err = u.Upload(rgbaFrame(8, 8, 3))
	require.Error(t, err)
	assert.Same(t, front, u.Front())
}

func TestUploadRejectsInvalidFrame(t *testing.T) {
	rec := rendertest.New(nil)
	u := New(rec, Options{})

	_, err := u.Upload(frame.NewPacked(frame.FormatRGBA, 4, 4, make([]byte, 3), 16))
	assert.ErrorIs(t, err, frame.ErrInvalidFrame)
	_, err = u.Upload(frame.New(frame.FormatUnknown, 4, 4, nil))
	assert.ErrorIs(t, err, frame.ErrInvalidFrame)
	assert.Zero(t, rec.Calls[rendertest.OpCreate])
	assert.Zero(t, u.Stats().Failures)
}

func TestReinitAfterConsecutiveDeviceLoss(t *testing.T) {
	rec := rendertest.New(nil)
	u := New(rec, Options{ReinitThreshold: 2})

	_, err := u.Upload(rgbaFrame(4, 4, 1))
	require.NoError(t, err)

	rec.Fail(rendertest.OpWrite, render.ErrDeviceLost)
	_, err = u.Upload(rgbaFrame(4, 4, 2))
	require.Error(t, err)
	assert.False(t, u.ReinitPending())

	rec.Fail(rendertest.OpWrite, render.ErrDeviceLost)
	_, err = u.Upload(rgbaFrame(4, 4, 3))
	require.Error(t, err)
	assert.True(t, u.ReinitPending())
	assert.Zero(t, rec.Calls[rendertest.OpReset])

	set, err := u.Upload(rgbaFrame(4, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Calls[rendertest.OpReset], "reset exactly once")
	assert.False(t, u.ReinitPending())
	assert.Equal(t, uint64(1), u.Stats().Reinits)
	assert.Equal(t, time.Duration(4), set.Timestamp)

	_, err = u.Upload(rgbaFrame(4, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Calls[rendertest.OpReset])
}

func TestSuccessResetsLossStreak(t *testing.T) {
	rec := rendertest.New(nil)
	u := New(rec, Options{ReinitThreshold: 2})

	for i := 0; i < 3; i++ {
		rec.Fail(rendertest.OpWrite, render.ErrDeviceLost)
		_, err := u.Upload(rgbaFrame(4, 4, 0))
		require.Error(t, err)
		_, err = u.Upload(rgbaFrame(4, 4, 0))
		require.NoError(t, err)
	}
	assert.False(t, u.ReinitPending())
	assert.Equal(t, uint64(3), u.Stats().DeviceLost)
}

func TestCloseDestroysSets(t *testing.T) {
	dev := render.NewSoftwareDevice()
	u := New(dev, Options{})
	for i := 0; i < 2; i++ {
		_, err := u.Upload(rgbaFrame(4, 4, 0))
		require.NoError(t, err)
	}
	require.NoError(t, u.Close())
	assert.Nil(t, u.Front())
	assert.Zero(t, dev.Stats().Textures)
}
