// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layout computes where a video frame lands inside a view.
//
// [Compute] is a pure function of the frame size, the effective rotation,
// the view size and the [ContentMode]. Rotation is applied before the aspect
// computation, so a 90 or 270 degree rotation swaps the frame's effective
// width and height.
package layout
