// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videoview

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/videoview/internal/upload"
	"github.com/gogpu/videoview/render"
)

// Option configures a View during creation.
//
// Example:
//
//	view, err := videoview.New(
//	    videoview.WithDevice(dev),
//	    videoview.WithClearColor(gputypes.Color{A: 1}),
//	)
type Option func(*options)

// options holds configuration for View creation.
type options struct {
	device          render.Device
	logger          *slog.Logger
	clearColor      gputypes.Color
	reinitThreshold int
	state           State
}

// defaultOptions returns the default view options: opaque black, an
// enabled aspect-fit view of zero size.
func defaultOptions() options {
	return options{
		clearColor:      gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		reinitThreshold: upload.DefaultReinitThreshold,
		state:           State{Mode: AspectFit, Enabled: true},
	}
}

// WithDevice sets the device frames are drawn with. Required.
// The view takes ownership and closes the device in Close.
func WithDevice(d render.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithLogger sets a logger for this view: its sink, presenter, uploader and
// device. Without it the package logger from [SetLogger] is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClearColor sets the color used for clears and letterbox bars.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithReinitThreshold sets how many consecutive device-loss failures
// trigger a device reinitialization. Values below 1 keep the default of 2.
func WithReinitThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.reinitThreshold = n
		}
	}
}

// WithInitialState sets the view state before the first tick.
func WithInitialState(s State) Option {
	return func(o *options) {
		o.state = s
	}
}
