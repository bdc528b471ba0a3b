// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"

	"github.com/gogpu/videoview/layout"
)

func TestBytesPerTexel(t *testing.T) {
	assert.Equal(t, 1, BytesPerTexel(gputypes.TextureFormatR8Unorm))
	assert.Equal(t, 4, BytesPerTexel(gputypes.TextureFormatRGBA8Unorm))
	assert.Equal(t, 4, BytesPerTexel(gputypes.TextureFormatBGRA8Unorm))
	assert.Equal(t, 0, BytesPerTexel(gputypes.TextureFormatDepth24PlusStencil8))
}

func TestIsDeviceLost(t *testing.T) {
	assert.True(t, IsDeviceLost(ErrDeviceLost))
	assert.True(t, IsDeviceLost(fmt.Errorf("submit: %w", ErrDeviceLost)))
	assert.True(t, IsDeviceLost(ErrClosed))
	assert.False(t, IsDeviceLost(ErrOutOfMemory))
	assert.False(t, IsDeviceLost(errors.New("other")))
	assert.False(t, IsDeviceLost(nil))
}

func TestSamplingPlaneCount(t *testing.T) {
	assert.Equal(t, 1, SampleRGBA.PlaneCount())
	assert.Equal(t, 3, SampleYUV.PlaneCount())
	assert.Equal(t, "yuv", SampleYUV.String())
}

func TestDrawCommandValidate(t *testing.T) {
	tex := &softTexture{w: 2, h: 2, format: gputypes.TextureFormatRGBA8Unorm}
	valid := func() *DrawCommand {
		return &DrawCommand{
			Planes:      []Texture{tex},
			Sampling:    SampleRGBA,
			FrameWidth:  2,
			FrameHeight: 2,
			Transform:   layout.Identity(),
			ViewWidth:   2,
			ViewHeight:  2,
		}
	}

	assert.NoError(t, valid().Validate())

	var nilCmd *DrawCommand
	assert.Error(t, nilCmd.Validate())

	c := valid()
	c.Sampling = SampleYUV
	assert.Error(t, c.Validate(), "plane count")

	c = valid()
	c.Planes = []Texture{nil}
	assert.ErrorIs(t, c.Validate(), ErrInvalidTexture)

	c = valid()
	c.ViewHeight = 0
	assert.Error(t, c.Validate())
}

func TestTargetMatrixScalesViewUnits(t *testing.T) {
	cmd := &DrawCommand{
		Transform:  layout.Translate(5, 0),
		ViewWidth:  100,
		ViewHeight: 50,
	}
	m := cmd.TargetMatrix(NewPixmapTarget(200, 100))
	p := m.TransformPoint(layout.Point{X: 10, Y: 10})
	assert.InDelta(t, 30, p.X, 1e-9)
	assert.InDelta(t, 20, p.Y, 1e-9)
}
