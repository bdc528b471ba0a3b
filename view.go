// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videoview

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/gogpu/videoview/internal/present"
	"github.com/gogpu/videoview/internal/slot"
	"github.com/gogpu/videoview/layout"
	"github.com/gogpu/videoview/render"
)

// ErrNoDevice is returned by New when no device was configured.
var ErrNoDevice = errors.New("videoview: no device, use WithDevice")

// View is the host side of a video surface.
//
// All View methods except Sink and Wake must be called from the host's
// render goroutine. They are not safe for concurrent use.
type View struct {
	device    render.Device
	slot      *slot.Slot
	sink      *Sink
	presenter *present.Presenter
	logger    *slog.Logger

	state  State
	closed bool
}

// New creates a view drawing with the device given by [WithDevice].
func New(opts ...Option) (*View, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil {
		return nil, ErrNoDevice
	}

	v := &View{
		device: o.device,
		slot:   slot.New(),
		logger: o.logger,
		state:  o.state,
	}
	v.sink = newSink(v.slot, v.log)
	v.presenter = present.New(o.device, v.slot, present.Options{
		ClearColor:      o.clearColor,
		ReinitThreshold: o.reinitThreshold,
		Logger:          o.logger,
	})
	propagateLogger(o.device, v.log())

	v.log().Debug("videoview: view created",
		"device", fmt.Sprintf("%T", o.device), "mode", o.state.Mode)
	return v, nil
}

// log returns the view's logger, falling back to the package logger.
func (v *View) log() *slog.Logger {
	if v.logger != nil {
		return v.logger
	}
	return Logger()
}

// Sink returns the producer handle. It is safe to hand to another
// goroutine.
func (v *View) Sink() *Sink {
	return v.sink
}

// Wake returns a channel that receives after a push. Pushes between two
// receives coalesce into one signal. Hosts that redraw on demand select on
// it to schedule a tick.
func (v *View) Wake() <-chan struct{} {
	return v.slot.Wake()
}

// SetSize sets the view size in logical units.
func (v *View) SetSize(w, h float64) {
	v.state.Width, v.state.Height = w, h
}

// SetEnabled turns presentation on or off. While disabled, ticks submit
// nothing and the last presented image stays on the surface.
func (v *View) SetEnabled(enabled bool) {
	v.state.Enabled = enabled
}

// SetRotationOverride forces a rotation for all frames, or restores their
// intrinsic rotation with layout.NoOverride().
func (v *View) SetRotationOverride(o layout.RotationOverride) {
	v.state.Rotation = o
}

// SetContentMode sets how frames are fitted into the view.
func (v *View) SetContentMode(m layout.ContentMode) {
	v.state.Mode = m
}

// State returns the current view state.
func (v *View) State() State {
	return v.state
}

// Tick presents the pending content on target. Hosts call it once per
// display refresh. After Close it does nothing and returns ResultDisabled.
func (v *View) Tick(target render.Target) Result {
	if v.closed {
		return ResultDisabled
	}
	return v.presenter.Tick(target, v.state.present())
}

// Transform returns the transform of the frame on screen. Once the view has
// been cleared, and before the first frame, it is the identity with Skip set.
func (v *View) Transform() layout.Transform {
	return v.presenter.Transform()
}

// Stats returns the view counters.
func (v *View) Stats() Stats {
	ss := v.slot.Stats()
	ps := v.presenter.Stats()
	return Stats{
		Pushed:            ss.Puts,
		Dropped:           ss.Superseded,
		Invalid:           v.sink.invalid.Load(),
		Revoked:           v.sink.revoked.Load(),
		Ticks:             ps.Ticks,
		Presented:         ps.Presented,
		Redrawn:           ps.Redrawn,
		Cleared:           ps.Cleared,
		Skipped:           ps.Skipped,
		Disabled:          ps.Disabled,
		Failed:            ps.Dropped,
		TransformComputes: ps.TransformComputes,
		Uploads:           ps.Upload.Uploads,
		Allocations:       ps.Upload.Allocations,
		DeviceLost:        ps.Upload.DeviceLost,
		Reinits:           ps.Upload.Reinits,
	}
}

// Close detaches the sink, then releases textures and the device. Pushes
// racing with Close land in a slot nobody reads. Close is idempotent.
func (v *View) Close() error {
	if !v.sink.revoke() {
		return nil
	}
	v.closed = true

	var result *multierror.Error
	if err := v.presenter.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("release textures: %w", err))
	}
	if err := v.device.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close device: %w", err))
	}
	if err := result.ErrorOrNil(); err != nil {
		v.log().Warn("videoview: close", "err", err)
		return err
	}
	v.log().Debug("videoview: view closed")
	return nil
}
