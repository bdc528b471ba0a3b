// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package upload copies frames into device textures.
package upload

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/videoview/frame"
	"github.com/gogpu/videoview/render"
)

// DefaultReinitThreshold is the number of consecutive device-loss failures
// after which the uploader reinitializes.
const DefaultReinitThreshold = 2

// Options configures an [Uploader].
type Options struct {
	// ReinitThreshold is the number of consecutive device-loss failures
	// that trigger a reinitialization. Zero or negative selects
	// DefaultReinitThreshold.
	ReinitThreshold int

	// Logger overrides the package logger for this uploader.
	Logger *slog.Logger
}

// TextureSet is one uploaded frame: a texture per plane plus the metadata
// needed to draw it.
type TextureSet struct {
	Planes   []render.Texture
	Sampling render.Sampling

	Format        frame.PixelFormat
	Width, Height int
	Rotation      frame.Rotation
	Timestamp     time.Duration
}

// matches reports whether s can hold a frame of format f and size w x h.
func (s *TextureSet) matches(f frame.PixelFormat, w, h int) bool {
	return s != nil && s.Format == f && s.Width == w && s.Height == h
}

// Stats counts uploader activity.
type Stats struct {
	Uploads     uint64
	Failures    uint64
	DeviceLost  uint64
	Reinits     uint64
	Allocations uint64
}

// Uploader owns two texture sets. Frames are written into the back set,
// which becomes the front set on success. A failed upload leaves the front
// set as it was, so the last good image stays drawable.
//
// Device-loss failures are counted; after ReinitThreshold consecutive ones
// the next Upload first destroys both sets and resets the device, once.
//
// An Uploader is used from the render goroutine only.
type Uploader struct {
	device    render.Device
	threshold int
	logger    *slog.Logger

	front, back *TextureSet

	lossStreak    int
	reinitPending bool
	scratch       []byte
	stats         Stats
}

// New creates an uploader for device.
func New(device render.Device, opts Options) *Uploader {
	th := opts.ReinitThreshold
	if th <= 0 {
		th = DefaultReinitThreshold
	}
	return &Uploader{device: device, threshold: th, logger: opts.Logger}
}

func (u *Uploader) log() *slog.Logger {
	if u.logger != nil {
		return u.logger
	}
	return slogger()
}

// Upload copies f into the back set and swaps it to the front. It returns
// the new front set. On error the front set is unchanged.
func (u *Uploader) Upload(f *frame.Frame) (*TextureSet, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	fl, err := layoutFor(f.Format())
	if err != nil {
		return nil, err
	}

	if u.reinitPending {
		u.reinit()
	}

	if err := u.write(f, fl); err != nil {
		u.ReportFailure(err)
		return nil, err
	}

	u.ReportSuccess()
	u.stats.Uploads++
	u.back.Rotation = f.Rotation()
	u.back.Timestamp = f.Timestamp()
	u.front, u.back = u.back, u.front
	return u.front, nil
}

func (u *Uploader) write(f *frame.Frame, fl formatLayout) error {
	w, h := f.Width(), f.Height()
	if !u.back.matches(f.Format(), w, h) {
		u.destroy(u.back)
		set, err := u.allocate(f.Format(), w, h, fl)
		if err != nil {
			u.back = nil
			return err
		}
		u.back = set
	}

	for i, p := range fl.planes {
		pw, ph := f.Format().PlaneSize(p.source, w, h)
		data, bpr := pack(f, p, pw, ph, &u.scratch)
		if err := u.device.WriteTexture(u.back.Planes[i], data, bpr); err != nil {
			return fmt.Errorf("upload: write plane %d of %v: %w", i, f, err)
		}
	}
	return nil
}

func (u *Uploader) allocate(pf frame.PixelFormat, w, h int, fl formatLayout) (*TextureSet, error) {
	set := &TextureSet{
		Sampling: fl.sampling,
		Format:   pf,
		Width:    w,
		Height:   h,
	}
	for i, p := range fl.planes {
		pw, ph := pf.PlaneSize(p.source, w, h)
		tex, err := u.device.CreateTexture(&render.TextureDescriptor{
			Label:  fmt.Sprintf("videoview_%v_plane%d", pf, i),
			Width:  pw,
			Height: ph,
			Format: p.format,
		})
		if err != nil {
			u.destroy(set)
			return nil, fmt.Errorf("upload: create plane %d (%dx%d %v): %w", i, pw, ph, p.format, err)
		}
		set.Planes = append(set.Planes, tex)
	}
	u.stats.Allocations++
	u.log().Debug("upload: texture set allocated",
		"format", pf, "width", w, "height", h, "planes", len(set.Planes))
	return set, nil
}

func (u *Uploader) destroy(set *TextureSet) {
	if set == nil {
		return
	}
	for _, t := range set.Planes {
		u.device.DestroyTexture(t)
	}
	set.Planes = nil
}

// ReportFailure records a failed upload or draw. Device-loss failures extend
// the streak that triggers reinitialization; other failures end it.
func (u *Uploader) ReportFailure(err error) {
	u.stats.Failures++
	if !render.IsDeviceLost(err) {
		u.lossStreak = 0
		u.log().Warn("upload: gpu operation failed", "err", err)
		return
	}
	u.stats.DeviceLost++
	u.lossStreak++
	u.log().Warn("upload: device lost", "err", err, "streak", u.lossStreak)
	if u.lossStreak >= u.threshold && !u.reinitPending {
		u.reinitPending = true
		u.log().Debug("upload: reinitialization scheduled", "threshold", u.threshold)
	}
}

// ReportSuccess ends a failure streak.
func (u *Uploader) ReportSuccess() {
	u.lossStreak = 0
}

// ReinitPending reports whether the next Upload will reinitialize.
func (u *Uploader) ReinitPending() bool {
	return u.reinitPending
}

func (u *Uploader) reinit() {
	u.reinitPending = false
	u.lossStreak = 0
	u.stats.Reinits++

	u.destroy(u.front)
	u.destroy(u.back)
	u.front, u.back = nil, nil

	if err := u.device.Reset(); err != nil {
		u.log().Warn("upload: device reset failed", "err", err)
		return
	}
	u.log().Debug("upload: device reinitialized")
}

// Front returns the last successfully uploaded set, or nil.
func (u *Uploader) Front() *TextureSet {
	return u.front
}

// Stats returns uploader counters.
func (u *Uploader) Stats() Stats {
	return u.stats
}

// Close destroys both texture sets. The device itself is not closed.
func (u *Uploader) Close() error {
	u.destroy(u.front)
	u.destroy(u.back)
	u.front, u.back = nil, nil
	u.scratch = nil
	return nil
}
