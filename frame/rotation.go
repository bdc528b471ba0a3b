// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "fmt"

// Rotation is the clockwise rotation, in degrees, that must be applied to a
// frame's stored pixels to display it upright.
type Rotation uint16

// Supported rotations.
const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Valid reports whether r is one of the four supported quarter turns.
func (r Rotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	default:
		return false
	}
}

// SwapsAxes reports whether r exchanges the displayed width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotation90 || r == Rotation270
}

// String returns the rotation in degrees, e.g. "90°".
func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", uint16(r))
	}
	return fmt.Sprintf("%d°", uint16(r))
}
