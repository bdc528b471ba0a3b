// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"fmt"

	"github.com/gogpu/videoview/frame"
)

// ContentMode controls how a frame's aspect ratio is mapped into the view.
type ContentMode uint8

const (
	// AspectFit scales the frame to fit entirely inside the view, preserving
	// its aspect ratio. Uncovered areas are letterboxed.
	AspectFit ContentMode = iota

	// AspectFill scales the frame to cover the whole view, preserving its
	// aspect ratio. Overflowing parts are cropped.
	AspectFill

	// Stretch scales each axis independently to exactly fill the view.
	Stretch
)

// String returns the mode name as accepted by [ParseContentMode].
func (m ContentMode) String() string {
	switch m {
	case AspectFit:
		return "fit"
	case AspectFill:
		return "fill"
	case Stretch:
		return "stretch"
	default:
		return fmt.Sprintf("ContentMode(%d)", uint8(m))
	}
}

// ParseContentMode accepts the mode names ("fit", "fill", "stretch") and the
// layer gravity names used by desktop hosts ("resizeAspect",
// "resizeAspectFill", "resize").
func ParseContentMode(s string) (ContentMode, error) {
	switch s {
	case "fit", "aspect-fit", "resizeAspect":
		return AspectFit, nil
	case "fill", "aspect-fill", "resizeAspectFill":
		return AspectFill, nil
	case "stretch", "resize":
		return Stretch, nil
	default:
		return AspectFit, fmt.Errorf("layout: unknown content mode %q", s)
	}
}

// RotationOverride is an optional rotation that, when Set, replaces the
// frame's intrinsic rotation. The zero value means "no override".
type RotationOverride struct {
	Rotation frame.Rotation
	Set      bool
}

// NoOverride returns an empty override.
func NoOverride() RotationOverride {
	return RotationOverride{}
}

// Override returns an override forcing r.
func Override(r frame.Rotation) RotationOverride {
	return RotationOverride{Rotation: r, Set: true}
}

// Effective returns the rotation to display a frame with: the override when
// set and valid, otherwise the intrinsic rotation.
func Effective(intrinsic frame.Rotation, o RotationOverride) frame.Rotation {
	if o.Set && o.Rotation.Valid() {
		return o.Rotation
	}
	return intrinsic
}

// String returns "none" or the forced rotation.
func (o RotationOverride) String() string {
	if !o.Set {
		return "none"
	}
	return o.Rotation.String()
}
