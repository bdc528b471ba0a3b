// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package slot implements the latest-wins hand-off between the producer and
// the render goroutine.
package slot

import (
	"sync/atomic"

	"github.com/gogpu/videoview/frame"
)

// item is one pending slot entry. A nil frame means "clear".
type item struct {
	frame *frame.Frame
}

// Slot is a depth-1 mailbox with overwrite semantics: a Put always replaces
// an unconsumed item and never queues.
//
// Thread-safety:
//   - Put: any goroutine, lock-free (one atomic swap plus a non-blocking send)
//   - Take, Wake: the single consumer goroutine
//
// Slot retains at most one frame no matter how many Puts happen between two
// Takes.
type Slot struct {
	pending atomic.Pointer[item]
	wake    chan struct{}

	puts       atomic.Uint64
	superseded atomic.Uint64
	taken      atomic.Uint64
	clears     atomic.Uint64
}

// New creates an empty slot.
func New() *Slot {
	return &Slot{wake: make(chan struct{}, 1)}
}

// Put stores f (nil = clear) and reports whether it superseded an unconsumed
// item. It never blocks.
func (s *Slot) Put(f *frame.Frame) (superseded bool) {
	s.puts.Add(1)
	if f == nil {
		s.clears.Add(1)
	}
	if old := s.pending.Swap(&item{frame: f}); old != nil {
		s.superseded.Add(1)
		superseded = true
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return superseded
}

// Take removes the pending item. ok is false when the slot was empty;
// otherwise f is the frame, or nil for a clear request.
func (s *Slot) Take() (f *frame.Frame, ok bool) {
	it := s.pending.Swap(nil)
	if it == nil {
		return nil, false
	}
	s.taken.Add(1)
	return it.frame, true
}

// Peek reports whether an item is waiting.
func (s *Slot) Peek() bool {
	return s.pending.Load() != nil
}

// Wake returns a channel that receives after Puts. Several Puts between two
// receives coalesce into one signal.
func (s *Slot) Wake() <-chan struct{} {
	return s.wake
}

// Stats is a snapshot of slot counters.
type Stats struct {
	// Puts counts every stored item, frames and clears.
	Puts uint64

	// Superseded counts items overwritten before the consumer took them.
	Superseded uint64

	// Taken counts items handed to the consumer.
	Taken uint64

	// Clears counts stored clear requests.
	Clears uint64
}

// Stats returns current counters. Individual fields are read atomically but
// the snapshot as a whole is not.
func (s *Slot) Stats() Stats {
	return Stats{
		Puts:       s.puts.Load(),
		Superseded: s.superseded.Load(),
		Taken:      s.taken.Load(),
		Clears:     s.clears.Load(),
	}
}
