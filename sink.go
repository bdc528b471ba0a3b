// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videoview

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/videoview/frame"
	"github.com/gogpu/videoview/internal/slot"
)

// Sink is the producer side of a View.
//
// Push and RenderFrame may be called from any goroutine. They never block
// and never return an error: a frame is either stored for the next tick,
// replacing whatever was pending, or dropped and counted.
type Sink struct {
	// slot is nil once the view is closed.
	slot   atomic.Pointer[slot.Slot]
	logger func() *slog.Logger

	invalid atomic.Uint64
	revoked atomic.Uint64
}

func newSink(s *slot.Slot, logger func() *slog.Logger) *Sink {
	sk := &Sink{logger: logger}
	sk.slot.Store(s)
	return sk
}

// Push hands c to the view. A *frame.Frame is shown on the next tick
// unless a later Push supersedes it; frame.Clear, a nil Content or a nil
// *frame.Frame blank the surface.
//
// Malformed frames are dropped without touching the pending content.
// After the view is closed Push does nothing.
func (s *Sink) Push(c frame.Content) {
	sl := s.slot.Load()
	if sl == nil {
		s.revoked.Add(1)
		return
	}
	f, clear := frame.Resolve(c)
	if !clear {
		if err := f.Validate(); err != nil {
			s.invalid.Add(1)
			s.logger().Warn("videoview: invalid frame dropped", "err", err)
			return
		}
	}
	sl.Put(f)
}

// RenderFrame shows f, or clears the surface when f is nil.
func (s *Sink) RenderFrame(f *frame.Frame) {
	if f == nil {
		s.Push(frame.Clear{})
		return
	}
	s.Push(f)
}

// revoke detaches the sink from its slot. It reports whether this call did
// the detaching.
func (s *Sink) revoke() bool {
	return s.slot.Swap(nil) != nil
}

// Revoked reports whether the view behind the sink has been closed.
func (s *Sink) Revoked() bool {
	return s.slot.Load() == nil
}
