// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videoview

import (
	"github.com/gogpu/videoview/internal/present"
	"github.com/gogpu/videoview/layout"
)

// Content modes, re-exported from layout for convenience.
const (
	AspectFit  = layout.AspectFit
	AspectFill = layout.AspectFill
	Stretch    = layout.Stretch
)

// State is the host-controlled view configuration.
type State struct {
	// Width and Height are the view size in logical units.
	Width, Height float64

	Mode    layout.ContentMode
	Enabled bool

	// Rotation replaces the frames' intrinsic rotation when set.
	Rotation layout.RotationOverride
}

func (s State) present() present.State {
	return present.State{
		Width:    s.Width,
		Height:   s.Height,
		Mode:     s.Mode,
		Enabled:  s.Enabled,
		Rotation: s.Rotation,
	}
}

// Result tells the host what a tick did.
type Result = present.Result

// Tick results.
const (
	ResultIdle      = present.ResultIdle
	ResultDisabled  = present.ResultDisabled
	ResultCleared   = present.ResultCleared
	ResultDropped   = present.ResultDropped
	ResultPresented = present.ResultPresented
	ResultSkipped   = present.ResultSkipped
	ResultRedrawn   = present.ResultRedrawn
)
