// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/gogpu/videoview/layout"
)

var black = gputypes.Color{A: 1}

func newTexture(t *testing.T, d *SoftwareDevice, w, h int, f gputypes.TextureFormat, data []byte, bpr int) Texture {
	t.Helper()
	tex, err := d.CreateTexture(&TextureDescriptor{Width: w, Height: h, Format: f})
	require.NoError(t, err)
	require.NoError(t, d.WriteTexture(tex, data, bpr))
	return tex
}

func rgbaCommand(tex Texture, fw, fh int, m layout.Matrix, vw, vh float64) *DrawCommand {
	return &DrawCommand{
		Planes:      []Texture{tex},
		Sampling:    SampleRGBA,
		FrameWidth:  fw,
		FrameHeight: fh,
		Transform:   m,
		ViewWidth:   vw,
		ViewHeight:  vh,
		Background:  black,
	}
}

func TestSoftwareDrawIdentity(t *testing.T) {
	d := NewSoftwareDevice(WithInterpolator(draw.NearestNeighbor))
	data := []byte{
		255, 0, 0, 0, 0, 255, 0, 0,
		0, 0, 255, 0, 255, 255, 255, 0,
	}
	tex := newTexture(t, d, 2, 2, gputypes.TextureFormatRGBA8Unorm, data, 8)
	target := NewPixmapTarget(2, 2)

	require.NoError(t, d.Draw(target, rgbaCommand(tex, 2, 2, layout.Identity(), 2, 2)))

	assert.Equal(t, color.RGBA{R: 255, A: 255}, target.At(0, 0), "alpha forced opaque")
	assert.Equal(t, color.RGBA{G: 255, A: 255}, target.At(1, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, target.At(0, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, target.At(1, 1))
	assert.Equal(t, 1, d.Stats().Draws)
}

func TestSoftwareBGRASwizzleAndPadding(t *testing.T) {
	d := NewSoftwareDevice(WithInterpolator(draw.NearestNeighbor))
	// One BGRA pixel per row, 4 bytes of padding.
	data := []byte{
		10, 20, 30, 40, 0xEE, 0xEE, 0xEE, 0xEE,
		50, 60, 70, 80,
	}
	tex := newTexture(t, d, 1, 2, gputypes.TextureFormatBGRA8Unorm, data, 8)
	target := NewPixmapTarget(1, 2)

	require.NoError(t, d.Draw(target, rgbaCommand(tex, 1, 2, layout.Identity(), 1, 2)))

	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 255}, target.At(0, 0))
	assert.Equal(t, color.RGBA{R: 70, G: 60, B: 50, A: 255}, target.At(0, 1))
}

func TestSoftwareDrawLetterbox(t *testing.T) {
	d := NewSoftwareDevice(WithInterpolator(draw.NearestNeighbor))
	white := []byte{255, 255, 255, 255, 255, 255, 255, 255}
	tex := newTexture(t, d, 2, 1, gputypes.TextureFormatRGBA8Unorm, white, 8)

	tr := layout.Compute(layout.Input{FrameWidth: 2, FrameHeight: 1, ViewWidth: 4, ViewHeight: 4})
	require.False(t, tr.Skip)

	// The target is twice the view size: a 2x backing scale.
	target := NewPixmapTarget(8, 8)
	require.NoError(t, d.Draw(target, rgbaCommand(tex, 2, 1, tr.Matrix, 4, 4)))

	bg := color.RGBA{A: 255}
	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < 8; y++ {
		want := bg
		if y >= 2 && y < 6 {
			want = fg
		}
		for x := 0; x < 8; x++ {
			assert.Equal(t, want, target.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestSoftwareDrawYUV(t *testing.T) {
	d := NewSoftwareDevice(WithInterpolator(draw.NearestNeighbor))
	y := newTexture(t, d, 4, 2, gputypes.TextureFormatR8Unorm, []byte{200, 200, 200, 200, 200, 200, 200, 200}, 4)
	u := newTexture(t, d, 2, 1, gputypes.TextureFormatR8Unorm, []byte{128, 128}, 2)
	v := newTexture(t, d, 2, 1, gputypes.TextureFormatR8Unorm, []byte{128, 128}, 2)

	target := NewPixmapTarget(4, 2)
	cmd := &DrawCommand{
		Planes:      []Texture{y, u, v},
		Sampling:    SampleYUV,
		FrameWidth:  4,
		FrameHeight: 2,
		Transform:   layout.Identity(),
		ViewWidth:   4,
		ViewHeight:  2,
	}
	require.NoError(t, d.Draw(target, cmd))

	got := target.At(2, 1)
	assert.InDelta(t, 200, int(got.R), 1)
	assert.InDelta(t, 200, int(got.G), 1)
	assert.InDelta(t, 200, int(got.B), 1)
	assert.Equal(t, uint8(255), got.A)
}

func TestSoftwareYUVRejectsMismatchedPlanes(t *testing.T) {
	d := NewSoftwareDevice()
	y := newTexture(t, d, 4, 4, gputypes.TextureFormatR8Unorm, make([]byte, 16), 4)
	u := newTexture(t, d, 1, 1, gputypes.TextureFormatR8Unorm, []byte{128}, 1)
	v := newTexture(t, d, 1, 1, gputypes.TextureFormatR8Unorm, []byte{128}, 1)
	cmd := &DrawCommand{
		Planes: []Texture{y, u, v}, Sampling: SampleYUV,
		FrameWidth: 4, FrameHeight: 4, Transform: layout.Identity(), ViewWidth: 4, ViewHeight: 4,
	}
	assert.Error(t, d.Draw(NewPixmapTarget(4, 4), cmd))
}

func TestSoftwareWriteValidation(t *testing.T) {
	d := NewSoftwareDevice()
	tex, err := d.CreateTexture(&TextureDescriptor{Width: 2, Height: 2, Format: gputypes.TextureFormatR8Unorm})
	require.NoError(t, err)

	assert.Error(t, d.WriteTexture(tex, make([]byte, 4), 1), "row shorter than texture")
	assert.Error(t, d.WriteTexture(tex, make([]byte, 3), 2), "short data")
	assert.NoError(t, d.WriteTexture(tex, make([]byte, 4), 2))

	_, err = d.CreateTexture(&TextureDescriptor{Width: 0, Height: 2, Format: gputypes.TextureFormatR8Unorm})
	assert.Error(t, err)
	_, err = d.CreateTexture(&TextureDescriptor{Width: 2, Height: 2, Format: gputypes.TextureFormatDepth24PlusStencil8})
	assert.Error(t, err)
}

func TestSoftwareDestroyTexture(t *testing.T) {
	d := NewSoftwareDevice()
	tex, err := d.CreateTexture(&TextureDescriptor{Width: 1, Height: 1, Format: gputypes.TextureFormatR8Unorm})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Stats().Textures)

	d.DestroyTexture(tex)
	d.DestroyTexture(tex)
	d.DestroyTexture(nil)
	assert.Equal(t, 0, d.Stats().Textures)
	assert.ErrorIs(t, d.WriteTexture(tex, []byte{0}, 1), ErrInvalidTexture)
}

func TestSoftwareRejectsForeignTarget(t *testing.T) {
	d := NewSoftwareDevice()
	assert.ErrorIs(t, d.Clear(foreignTarget{}, black), ErrInvalidTarget)
}

func TestSoftwareClearAndClose(t *testing.T) {
	d := NewSoftwareDevice()
	target := NewPixmapTarget(2, 2)
	require.NoError(t, d.Clear(target, gputypes.Color{B: 1, A: 1}))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, target.At(1, 1))
	assert.Equal(t, 1, d.Stats().Clears)

	_, err := d.CreateTexture(&TextureDescriptor{Width: 1, Height: 1, Format: gputypes.TextureFormatR8Unorm})
	require.NoError(t, err)
	require.NoError(t, d.Reset())

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.Equal(t, 0, d.Stats().Textures)
	assert.ErrorIs(t, d.Clear(target, black), ErrClosed)
	assert.True(t, IsDeviceLost(d.Reset()))
}

type foreignTarget struct{}

func (foreignTarget) Width() int                     { return 1 }
func (foreignTarget) Height() int                    { return 1 }
func (foreignTarget) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
