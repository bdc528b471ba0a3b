// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"math"

	"github.com/gogpu/videoview/frame"
)

// Input is the geometry the transform is computed from.
type Input struct {
	// FrameWidth and FrameHeight are the stored (unrotated) frame size in pixels.
	FrameWidth, FrameHeight int

	// Rotation is the effective rotation, see [Effective].
	Rotation frame.Rotation

	// ViewWidth and ViewHeight are the view size in logical units.
	ViewWidth, ViewHeight float64

	Mode ContentMode
}

// Transform places a frame in view space.
type Transform struct {
	// Matrix maps stored frame pixels to view units: rotation first, then
	// scale, then offset.
	Matrix Matrix

	// Rotation is the rotation baked into Matrix.
	Rotation frame.Rotation

	// ScaleX and ScaleY scale the rotated frame into view units.
	ScaleX, ScaleY float64

	// Dest is the rotated and scaled frame's rectangle in view units. It may
	// extend past the view bounds for AspectFill.
	Dest Rect

	// Skip is set for degenerate input. Matrix is then the identity and
	// nothing must be drawn.
	Skip bool
}

// Compute maps frame geometry into the view according to the content mode.
// It never produces NaN or infinite geometry: degenerate input (a
// non-positive, NaN or infinite dimension, or an invalid rotation) yields an
// identity transform with Skip set.
func Compute(in Input) Transform {
	if in.FrameWidth <= 0 || in.FrameHeight <= 0 || !positiveFinite(in.ViewWidth) ||
		!positiveFinite(in.ViewHeight) || !in.Rotation.Valid() {
		return Transform{Matrix: Identity(), Skip: true}
	}

	fw, fh := float64(in.FrameWidth), float64(in.FrameHeight)
	ew, eh := fw, fh
	if in.Rotation.SwapsAxes() {
		ew, eh = fh, fw
	}

	sx := in.ViewWidth / ew
	sy := in.ViewHeight / eh
	switch in.Mode {
	case AspectFill:
		s := math.Max(sx, sy)
		sx, sy = s, s
	case Stretch:
	default:
		s := math.Min(sx, sy)
		sx, sy = s, s
	}

	dw, dh := ew*sx, eh*sy
	ox := (in.ViewWidth - dw) / 2
	oy := (in.ViewHeight - dh) / 2

	m := Translate(ox, oy).Multiply(Scale(sx, sy)).Multiply(rotationMatrix(in.Rotation, fw, fh))
	return Transform{
		Matrix:   m,
		Rotation: in.Rotation,
		ScaleX:   sx,
		ScaleY:   sy,
		Dest:     Rect{X: ox, Y: oy, Width: dw, Height: dh},
	}
}

// rotationMatrix rotates a fw x fh image clockwise by r about its origin and
// moves the result back into the positive quadrant, so the rotated image
// occupies (0,0)-(ew,eh).
func rotationMatrix(r frame.Rotation, fw, fh float64) Matrix {
	switch r {
	case frame.Rotation90:
		// (x, y) -> (fh - y, x)
		return Matrix{A: 0, B: -1, C: fh, D: 1, E: 0, F: 0}
	case frame.Rotation180:
		// (x, y) -> (fw - x, fh - y)
		return Matrix{A: -1, B: 0, C: fw, D: 0, E: -1, F: fh}
	case frame.Rotation270:
		// (x, y) -> (y, fw - x)
		return Matrix{A: 0, B: 1, C: 0, D: -1, E: 0, F: fw}
	default:
		return Identity()
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
