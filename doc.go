// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package videoview shows a live video stream on a host-composited surface.
//
// # Overview
//
// A media pipeline pushes decoded frames from its own goroutine; the host
// application ticks the view once per display refresh. Between the two sits
// a single-frame slot with latest-wins semantics: a frame that is not
// presented before the next one arrives is dropped, never queued.
//
// # Quick Start
//
//	import "github.com/gogpu/videoview"
//
//	view, err := videoview.New(videoview.WithDevice(render.NewSoftwareDevice()))
//	if err != nil {
//	    return err
//	}
//	defer view.Close()
//	view.SetSize(640, 360)
//
//	// Producer goroutine
//	sink := view.Sink()
//	sink.Push(frame.NewI420(w, h, y, u, v, w, w/2, w/2))
//
//	// Host render loop
//	target := render.NewPixmapTarget(1280, 720) // 2x backing scale
//	view.Tick(target)
//
// # Goroutine Affinity
//
//   - Sink.Push, Sink.RenderFrame: any goroutine, never block
//   - View setters, Tick, Stats, Close: the host's render goroutine
//
// # Architecture
//
//   - frame: immutable frames, pixel formats, the Content sum type
//   - layout: content modes, rotation and the frame-to-view transform
//   - render: the device abstraction and the CPU device
//   - backend/native: the gogpu/wgpu device
//   - internal/slot, internal/upload, internal/present: the tick pipeline
//
// # Coordinate System
//
// View geometry is in logical units with the origin at the top-left. The
// device scales logical units onto the target's pixels. Rotations are
// clockwise.
package videoview

// Version is the current version of the library.
const Version = "0.1.0"
