// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command videoviewdemo pushes synthetic frames through a view backed by the
// software device and writes the last presented image as PNG.
package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/videoview"
	"github.com/gogpu/videoview/frame"
	"github.com/gogpu/videoview/layout"
	"github.com/gogpu/videoview/render"
)

type config struct {
	viewWidth, viewHeight   float64
	scale                   float64
	frameWidth, frameHeight int
	format                  string
	mode                    string
	rotation                int
	override                int
	frames                  int
	output                  string
	verbose                 bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:   "videoviewdemo",
		Short: "Render synthetic video frames into a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.Float64Var(&cfg.viewWidth, "view-width", 640, "view width in logical units")
	f.Float64Var(&cfg.viewHeight, "view-height", 360, "view height in logical units")
	f.Float64Var(&cfg.scale, "scale", 1, "backing scale factor of the output image")
	f.IntVar(&cfg.frameWidth, "frame-width", 320, "frame width in pixels")
	f.IntVar(&cfg.frameHeight, "frame-height", 240, "frame height in pixels")
	f.StringVar(&cfg.format, "format", "I420", "pixel format: "+formatNames())
	f.StringVar(&cfg.mode, "mode", "aspect-fit", "content mode: aspect-fit, aspect-fill or stretch")
	f.IntVar(&cfg.rotation, "rotation", 0, "intrinsic frame rotation in degrees")
	f.IntVar(&cfg.override, "override", -1, "rotation override in degrees, -1 for none")
	f.IntVar(&cfg.frames, "frames", 30, "number of frames the producer pushes")
	f.StringVarP(&cfg.output, "output", "o", "videoview.png", "output PNG file")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level")
	return cmd
}

func run(ctx context.Context, cfg config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	videoview.SetLogger(logger)

	format, err := parseFormat(cfg.format)
	if err != nil {
		return err
	}
	mode, err := layout.ParseContentMode(cfg.mode)
	if err != nil {
		return err
	}
	rotation := frame.Rotation(cfg.rotation) //nolint:gosec // validated below
	if cfg.rotation < 0 || !rotation.Valid() {
		return fmt.Errorf("invalid rotation %d", cfg.rotation)
	}
	override := layout.NoOverride()
	if cfg.override >= 0 {
		r := frame.Rotation(cfg.override) //nolint:gosec // validated below
		if !r.Valid() {
			return fmt.Errorf("invalid rotation override %d", cfg.override)
		}
		override = layout.Override(r)
	}
	if cfg.scale <= 0 {
		return fmt.Errorf("invalid scale %v", cfg.scale)
	}

	view, err := videoview.New(
		videoview.WithDevice(render.NewSoftwareDevice()),
		videoview.WithLogger(logger),
		videoview.WithInitialState(videoview.State{
			Width:    cfg.viewWidth,
			Height:   cfg.viewHeight,
			Mode:     mode,
			Enabled:  true,
			Rotation: override,
		}),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := view.Close(); err != nil {
			logger.Error("close view", "err", err)
		}
	}()

	target := render.NewPixmapTarget(int(cfg.viewWidth*cfg.scale), int(cfg.viewHeight*cfg.scale))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		produce(ctx, view.Sink(), format, cfg.frameWidth, cfg.frameHeight, rotation, cfg.frames)
	}()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			logger.Debug("tick", "result", view.Tick(target))
		case <-done:
			break loop
		}
	}
	// Present whatever the producer pushed last.
	view.Tick(target)

	st := view.Stats()
	logger.Info("demo finished",
		"pushed", st.Pushed, "dropped", st.Dropped, "presented", st.Presented,
		"uploads", st.Uploads, "allocations", st.Allocations)
	tr := view.Transform()
	logger.Info("last transform",
		"rotation", tr.Rotation, "scale_x", tr.ScaleX, "scale_y", tr.ScaleY, "dest", tr.Dest)

	return writePNG(cfg.output, target)
}

// produce pushes n moving gradient frames at roughly 30 fps.
func produce(ctx context.Context, sink *videoview.Sink, format frame.PixelFormat, w, h int, r frame.Rotation, n int) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second / 30):
		}
		ts := time.Duration(i) * time.Second / 30
		sink.RenderFrame(syntheticFrame(format, w, h, i, frame.WithRotation(r), frame.WithTimestamp(ts)))
	}
}

// syntheticFrame draws a diagonal gradient shifted by phase.
func syntheticFrame(format frame.PixelFormat, w, h, phase int, opts ...frame.Option) *frame.Frame {
	luma := func(x, y int) byte { return byte((x + y + phase*4) * 255 / (w + h)) }

	switch format {
	case frame.FormatI420, frame.FormatNV12:
		cw, ch := format.PlaneSize(1, w, h)
		y := make([]byte, w*h)
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				y[row*w+col] = luma(col, row)
			}
		}
		u := make([]byte, cw*ch)
		v := make([]byte, cw*ch)
		for row := 0; row < ch; row++ {
			for col := 0; col < cw; col++ {
				u[row*cw+col] = byte(col * 255 / cw)
				v[row*cw+col] = byte(row * 255 / ch)
			}
		}
		if format == frame.FormatI420 {
			return frame.NewI420(w, h, y, u, v, w, cw, cw, opts...)
		}
		uv := make([]byte, 2*cw*ch)
		for i := range u {
			uv[2*i], uv[2*i+1] = u[i], v[i]
		}
		return frame.NewNV12(w, h, y, uv, w, 2*cw, opts...)
	default:
		data := make([]byte, w*h*4)
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				p := data[(row*w+col)*4:]
				p[0], p[1], p[2], p[3] = luma(col, row), byte(col*255/w), byte(row*255/h), 255
			}
		}
		return frame.NewPacked(format, w, h, data, w*4, opts...)
	}
}

func parseFormat(s string) (frame.PixelFormat, error) {
	for _, f := range frame.Formats() {
		if strings.EqualFold(f.String(), s) {
			return f, nil
		}
	}
	return frame.FormatUnknown, fmt.Errorf("unknown pixel format %q, want one of %s", s, formatNames())
}

func formatNames() string {
	names := make([]string, 0, len(frame.Formats()))
	for _, f := range frame.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func writePNG(path string, target *render.PixmapTarget) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, target.Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
