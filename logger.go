// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videoview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/videoview/internal/present"
	"github.com/gogpu/videoview/internal/upload"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for videoview and its internal packages.
// By default, videoview produces no log output. Call SetLogger to enable
// logging. The logger reaches the upload and present internals at once.
// Devices receive the logger in [New], so a device that is already part of
// a View keeps the logger it got then; call its own SetLogger (for example
// native.Device.SetLogger) to change it.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by videoview:
//   - [slog.LevelDebug]: texture allocation, reinitialization details
//   - [slog.LevelInfo]: backend initialization
//   - [slog.LevelWarn]: invalid frames, GPU failures, release errors
//
// Example:
//
//	videoview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	upload.SetLogger(l)
	present.SetLogger(l)
}

// Logger returns the current logger used by videoview.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes l to d if the device supports logging.
func propagateLogger(d any, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
