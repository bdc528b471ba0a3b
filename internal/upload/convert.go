// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package upload

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/videoview/frame"
	"github.com/gogpu/videoview/render"
)

// planeLayout maps one frame plane (or one component of it) to a texture.
type planeLayout struct {
	// source is the frame plane index.
	source int

	// format is the texture format; its texel size is the number of bytes
	// taken per sample.
	format gputypes.TextureFormat

	// step is the distance in bytes between samples in the source row.
	step int

	// component is the byte offset of the sample within step. Used when
	// step is larger than the texel, to split interleaved planes.
	component int
}

// formatLayout is a row of the conversion table.
type formatLayout struct {
	sampling render.Sampling
	planes   []planeLayout
}

var (
	r8   = gputypes.TextureFormatR8Unorm
	rgba = gputypes.TextureFormatRGBA8Unorm
	bgra = gputypes.TextureFormatBGRA8Unorm
)

// layouts covers every frame.PixelFormat.
var layouts = map[frame.PixelFormat]formatLayout{
	frame.FormatBGRA: {
		sampling: render.SampleRGBA,
		planes:   []planeLayout{{source: 0, format: bgra, step: 4}},
	},
	frame.FormatRGBA: {
		sampling: render.SampleRGBA,
		planes:   []planeLayout{{source: 0, format: rgba, step: 4}},
	},
	frame.FormatI420: {
		sampling: render.SampleYUV,
		planes: []planeLayout{
			{source: 0, format: r8, step: 1},
			{source: 1, format: r8, step: 1},
			{source: 2, format: r8, step: 1},
		},
	},
	frame.FormatNV12: {
		sampling: render.SampleYUV,
		planes: []planeLayout{
			{source: 0, format: r8, step: 1},
			{source: 1, format: r8, step: 2, component: 0},
			{source: 1, format: r8, step: 2, component: 1},
		},
	},
}

func layoutFor(f frame.PixelFormat) (formatLayout, error) {
	l, ok := layouts[f]
	if !ok {
		return formatLayout{}, fmt.Errorf("%w: no texture layout for %v", frame.ErrInvalidFrame, f)
	}
	return l, nil
}

// pack returns the bytes of one texture of w x h texels and their row pitch.
// Tightly packed source planes are returned without copying; padded or
// interleaved planes are repacked into scratch, which is grown as needed.
func pack(f *frame.Frame, p planeLayout, w, h int, scratch *[]byte) ([]byte, int) {
	src := f.Plane(p.source)
	bpt := render.BytesPerTexel(p.format)
	row := w * bpt

	if p.step == bpt && src.Stride == row {
		return src.Data[:row*h], row
	}

	if cap(*scratch) < row*h {
		*scratch = make([]byte, row*h)
	}
	dst := (*scratch)[:row*h]

	for y := 0; y < h; y++ {
		in := src.Data[y*src.Stride:]
		out := dst[y*row : (y+1)*row]
		if p.step == bpt {
			copy(out, in[:row])
			continue
		}
		for x := 0; x < w; x++ {
			out[x] = in[x*p.step+p.component]
		}
	}
	return dst, row
}
