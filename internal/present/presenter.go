// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present drives one host refresh: it takes the pending slot
// content, uploads it and draws it with the current view transform.
package present

import (
	"errors"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/videoview/frame"
	"github.com/gogpu/videoview/internal/slot"
	"github.com/gogpu/videoview/internal/upload"
	"github.com/gogpu/videoview/layout"
	"github.com/gogpu/videoview/render"
)

// State is the host-controlled view state a tick is rendered with.
type State struct {
	// Width and Height are the view size in logical units.
	Width, Height float64

	Mode     layout.ContentMode
	Enabled  bool
	Rotation layout.RotationOverride
}

// Result tells the host what a tick did.
type Result uint8

const (
	// ResultIdle means nothing was pending and nothing changed.
	ResultIdle Result = iota

	// ResultDisabled means the view is disabled; nothing was submitted and
	// the slot was left alone.
	ResultDisabled

	// ResultCleared means the surface was blanked.
	ResultCleared

	// ResultDropped means a frame or clear could not be uploaded or drawn.
	// The previous image stays on screen.
	ResultDropped

	// ResultPresented means a new frame was drawn.
	ResultPresented

	// ResultSkipped means the geometry was degenerate and nothing was drawn.
	ResultSkipped

	// ResultRedrawn means the current image was drawn again for a new view
	// state.
	ResultRedrawn
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultIdle:
		return "idle"
	case ResultDisabled:
		return "disabled"
	case ResultCleared:
		return "cleared"
	case ResultDropped:
		return "dropped"
	case ResultPresented:
		return "presented"
	case ResultSkipped:
		return "skipped"
	case ResultRedrawn:
		return "redrawn"
	default:
		return "unknown"
	}
}

// Submitted reports whether the tick sent work to the device successfully.
func (r Result) Submitted() bool {
	return r == ResultCleared || r == ResultPresented || r == ResultRedrawn
}

// Options configures a [Presenter].
type Options struct {
	// ClearColor fills the surface on clear and outside the frame.
	ClearColor gputypes.Color

	// ReinitThreshold is passed to the uploader.
	ReinitThreshold int

	// Logger overrides the package loggers of the presenter and its
	// uploader.
	Logger *slog.Logger
}

// Stats counts tick outcomes.
type Stats struct {
	Ticks     uint64
	Presented uint64
	Redrawn   uint64
	Cleared   uint64
	Dropped   uint64
	Skipped   uint64
	Disabled  uint64

	// TransformComputes counts transform recomputations. The transform is
	// cached while frame and view geometry stay the same.
	TransformComputes uint64

	Upload upload.Stats
}

// blankTransform is reported while no frame is on screen.
func blankTransform() layout.Transform {
	return layout.Transform{Matrix: layout.Identity(), Skip: true}
}

// transformKey is everything a transform depends on.
type transformKey struct {
	frameW, frameH int
	rotation       frame.Rotation
	viewW, viewH   float64
	mode           layout.ContentMode
}

// drawnState is what the visible image was drawn with.
type drawnState struct {
	state          State
	targetW, targetH int
}

// Presenter is the per-tick driver. It owns the uploader and is used from
// the render goroutine only.
type Presenter struct {
	device   render.Device
	slot     *slot.Slot
	uploader *upload.Uploader
	clear    gputypes.Color
	logger   *slog.Logger

	shown        bool
	clearPending bool
	drawn        drawnState

	key       transformKey
	transform layout.Transform
	haveKey   bool

	stats Stats
}

// New creates a presenter that consumes s and draws with device.
func New(device render.Device, s *slot.Slot, opts Options) *Presenter {
	return &Presenter{
		device:   device,
		slot:     s,
		uploader: upload.New(device, upload.Options{
			ReinitThreshold: opts.ReinitThreshold,
			Logger:          opts.Logger,
		}),
		clear:     opts.ClearColor,
		logger:    opts.Logger,
		transform: blankTransform(),
	}
}

func (p *Presenter) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slogger()
}

// Tick runs one refresh against target.
func (p *Presenter) Tick(target render.Target, st State) Result {
	p.stats.Ticks++
	r := p.tick(target, st)
	switch r {
	case ResultPresented:
		p.stats.Presented++
	case ResultRedrawn:
		p.stats.Redrawn++
	case ResultCleared:
		p.stats.Cleared++
	case ResultDropped:
		p.stats.Dropped++
	case ResultSkipped:
		p.stats.Skipped++
	case ResultDisabled:
		p.stats.Disabled++
	}
	return r
}

func (p *Presenter) tick(target render.Target, st State) Result {
	if !st.Enabled {
		return ResultDisabled
	}
	if target == nil || target.Width() <= 0 || target.Height() <= 0 {
		return ResultSkipped
	}

	if f, ok := p.slot.Take(); ok {
		if f == nil {
			return p.clearTarget(target)
		}
		return p.present(target, f, st)
	}

	if p.clearPending {
		return p.clearTarget(target)
	}
	if p.shown && p.uploader.Front() != nil && p.changed(target, st) {
		return p.draw(target, p.uploader.Front(), st, ResultRedrawn)
	}
	return ResultIdle
}

func (p *Presenter) clearTarget(target render.Target) Result {
	p.shown = false
	p.transform = blankTransform()
	p.haveKey = false
	if err := p.device.Clear(target, p.clear); err != nil {
		p.clearPending = true
		p.uploader.ReportFailure(err)
		return ResultDropped
	}
	p.clearPending = false
	p.uploader.ReportSuccess()
	return ResultCleared
}

func (p *Presenter) present(target render.Target, f *frame.Frame, st State) Result {
	set, err := p.uploader.Upload(f)
	if err != nil {
		if errors.Is(err, frame.ErrInvalidFrame) {
			p.log().Warn("present: invalid frame dropped", "frame", f, "err", err)
		}
		return ResultDropped
	}
	p.clearPending = false
	return p.draw(target, set, st, ResultPresented)
}

func (p *Presenter) draw(target render.Target, set *upload.TextureSet, st State, ok Result) Result {
	p.shown = true
	tr := p.transformFor(set, st)
	p.drawn = drawnState{state: st, targetW: target.Width(), targetH: target.Height()}
	if tr.Skip {
		return ResultSkipped
	}

	err := p.device.Draw(target, &render.DrawCommand{
		Planes:      set.Planes,
		Sampling:    set.Sampling,
		FrameWidth:  set.Width,
		FrameHeight: set.Height,
		Transform:   tr.Matrix,
		ViewWidth:   st.Width,
		ViewHeight:  st.Height,
		Background:  p.clear,
	})
	if err != nil {
		// Redraw on the next tick once the device recovers.
		p.drawn = drawnState{}
		p.uploader.ReportFailure(err)
		return ResultDropped
	}
	p.uploader.ReportSuccess()
	return ok
}

func (p *Presenter) transformFor(set *upload.TextureSet, st State) layout.Transform {
	key := transformKey{
		frameW:   set.Width,
		frameH:   set.Height,
		rotation: layout.Effective(set.Rotation, st.Rotation),
		viewW:    st.Width,
		viewH:    st.Height,
		mode:     st.Mode,
	}
	if p.haveKey && key == p.key {
		return p.transform
	}
	p.key = key
	p.haveKey = true
	p.transform = layout.Compute(layout.Input{
		FrameWidth:  key.frameW,
		FrameHeight: key.frameH,
		Rotation:    key.rotation,
		ViewWidth:   key.viewW,
		ViewHeight:  key.viewH,
		Mode:        key.mode,
	})
	p.stats.TransformComputes++
	return p.transform
}

// changed reports whether the visible image was drawn with a different view
// state or target size.
func (p *Presenter) changed(target render.Target, st State) bool {
	return p.drawn != drawnState{state: st, targetW: target.Width(), targetH: target.Height()}
}

// Transform returns the transform of the image on screen. After a clear, and
// before the first frame, it is the identity with Skip set.
func (p *Presenter) Transform() layout.Transform {
	return p.transform
}

// Shown reports whether an image is currently on screen.
func (p *Presenter) Shown() bool {
	return p.shown && p.uploader.Front() != nil
}

// Stats returns tick counters.
func (p *Presenter) Stats() Stats {
	s := p.stats
	s.Upload = p.uploader.Stats()
	return s
}

// Close releases the uploader's textures.
func (p *Presenter) Close() error {
	p.shown = false
	return p.uploader.Close()
}
