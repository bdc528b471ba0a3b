// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame defines the decoded video frame handed from a media pipeline
// to the renderer.
//
// A [Frame] is immutable and references producer-owned pixel storage. Its
// [PixelFormat] is a closed tagged variant (packed BGRA/RGBA, planar I420,
// semi-planar NV12) described by a single format table, and its [Rotation]
// is the clockwise quarter turn needed to display it upright.
//
// Producers push a [Content], which is either a *Frame or [Clear]:
//
//	sink.Push(frame.NewI420(w, h, y, u, v, w, w/2, w/2, frame.WithRotation(frame.Rotation90)))
//	sink.Push(frame.Clear{}) // blank the surface
package frame
