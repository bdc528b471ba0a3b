// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package rendertest provides a [render.Device] wrapper that records calls
// and injects failures, for testing code that drives a device.
package rendertest

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/videoview/render"
)

// Op names a device call.
type Op uint8

// Device calls a Recorder can fail.
const (
	OpCreate Op = iota
	OpWrite
	OpDraw
	OpClear
	OpReset
)

// Recorder forwards to an inner device, counting calls and failing the ones
// scheduled with Fail or FailAlways.
//
// Not safe for concurrent use, like the devices it wraps.
type Recorder struct {
	inner render.Device

	// Calls counts forwarded and failed calls per operation.
	Calls map[Op]int

	// Destroyed counts DestroyTexture calls with a non-nil texture.
	Destroyed int

	// LastDraw is a copy of the most recent draw command.
	LastDraw *render.DrawCommand

	// LastClear is the color of the most recent clear.
	LastClear gputypes.Color

	fail   map[Op][]error
	always map[Op]error
}

// New wraps inner. A nil inner uses a fresh [render.SoftwareDevice].
func New(inner render.Device) *Recorder {
	if inner == nil {
		inner = render.NewSoftwareDevice()
	}
	return &Recorder{
		inner:  inner,
		Calls:  make(map[Op]int),
		fail:   make(map[Op][]error),
		always: make(map[Op]error),
	}
}

// Fail makes the next len(errs) calls of op return errs in order.
func (r *Recorder) Fail(op Op, errs ...error) {
	r.fail[op] = append(r.fail[op], errs...)
}

// FailAlways makes every call of op return err until err is nil.
func (r *Recorder) FailAlways(op Op, err error) {
	if err == nil {
		delete(r.always, op)
		return
	}
	r.always[op] = err
}

// Submissions returns the number of draw and clear calls, failed or not.
func (r *Recorder) Submissions() int {
	return r.Calls[OpDraw] + r.Calls[OpClear]
}

func (r *Recorder) injected(op Op) error {
	r.Calls[op]++
	if q := r.fail[op]; len(q) > 0 {
		r.fail[op] = q[1:]
		return q[0]
	}
	return r.always[op]
}

// CreateTexture implements render.Device.
func (r *Recorder) CreateTexture(desc *render.TextureDescriptor) (render.Texture, error) {
	if err := r.injected(OpCreate); err != nil {
		return nil, err
	}
	return r.inner.CreateTexture(desc)
}

// WriteTexture implements render.Device.
func (r *Recorder) WriteTexture(tex render.Texture, data []byte, bytesPerRow int) error {
	if err := r.injected(OpWrite); err != nil {
		return err
	}
	return r.inner.WriteTexture(tex, data, bytesPerRow)
}

// DestroyTexture implements render.Device.
func (r *Recorder) DestroyTexture(tex render.Texture) {
	if tex != nil {
		r.Destroyed++
	}
	r.inner.DestroyTexture(tex)
}

// Draw implements render.Device.
func (r *Recorder) Draw(target render.Target, cmd *render.DrawCommand) error {
	if cmd != nil {
		c := *cmd
		r.LastDraw = &c
	}
	if err := r.injected(OpDraw); err != nil {
		return err
	}
	return r.inner.Draw(target, cmd)
}

// Clear implements render.Device.
func (r *Recorder) Clear(target render.Target, c gputypes.Color) error {
	r.LastClear = c
	if err := r.injected(OpClear); err != nil {
		return err
	}
	return r.inner.Clear(target, c)
}

// Reset implements render.Device.
func (r *Recorder) Reset() error {
	if err := r.injected(OpReset); err != nil {
		return err
	}
	return r.inner.Reset()
}

// Close implements render.Device.
func (r *Recorder) Close() error {
	return r.inner.Close()
}

var _ render.Device = (*Recorder)(nil)
