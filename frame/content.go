// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

// Content is what a producer hands to the renderer: either a [*Frame] to show
// or [Clear] to blank the surface. The set of implementations is sealed.
//
// A nil Content, or a nil *Frame, means the same as Clear.
type Content interface {
	content()
}

// Clear asks the renderer to blank the surface on its next tick.
type Clear struct{}

func (Clear) content()  {}
func (*Frame) content() {}

// Resolve normalizes c into either a non-nil frame or a clear request.
// It returns (f, false) for a frame and (nil, true) for a clear.
func Resolve(c Content) (f *Frame, clear bool) {
	switch v := c.(type) {
	case *Frame:
		if v == nil {
			return nil, true
		}
		return v, false
	default:
		// nil and Clear
		return nil, true
	}
}
