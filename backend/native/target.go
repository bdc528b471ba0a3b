//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/videoview/render"
)

// SurfaceTarget wraps the texture view of the host's current surface frame.
//
// The host acquires the view each frame, ticks the view with a SurfaceTarget
// around it and presents afterwards. The device does not retain the target
// past the tick.
type SurfaceTarget struct {
	view   hal.TextureView
	width  int
	height int
	format gputypes.TextureFormat
}

// NewSurfaceTarget creates a target for view. An undefined format selects
// the device's surface format.
func NewSurfaceTarget(view hal.TextureView, width, height int, format gputypes.TextureFormat) *SurfaceTarget {
	return &SurfaceTarget{view: view, width: width, height: height, format: format}
}

// Width returns the surface width in pixels.
func (t *SurfaceTarget) Width() int { return t.width }

// Height returns the surface height in pixels.
func (t *SurfaceTarget) Height() int { return t.height }

// Format returns the surface pixel format.
func (t *SurfaceTarget) Format() gputypes.TextureFormat { return t.format }

// View returns the color attachment.
func (t *SurfaceTarget) View() hal.TextureView { return t.view }

var _ render.Target = (*SurfaceTarget)(nil)
