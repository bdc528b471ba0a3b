//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNilHALDevice is returned when a device or queue is missing.
	ErrNilHALDevice = errors.New("native: nil hal device or queue")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL types.
	ErrNoHALProvider = errors.New("native: provider does not expose HAL types")

	// ErrForeignTexture is returned for textures created by another device.
	ErrForeignTexture = errors.New("native: texture belongs to another device")
)
