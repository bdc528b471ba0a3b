// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render defines the device abstraction video frames are drawn
// through.
//
// # Key Principle
//
// The view RECEIVES a device from the host application, it does NOT create
// its own GPU context. A host that already renders with gogpu hands its
// device to [github.com/gogpu/videoview/backend/native]; headless hosts and
// tests use the CPU [SoftwareDevice].
//
// # Core Interfaces
//
//   - Device: texture allocation, plane upload, textured quad draw, clear
//   - Texture: one plane of a frame on the device
//   - Target: where a tick's output goes (a pixmap or a host surface)
//   - DrawCommand: planes, sampling mode and frame-to-view transform
//
// # Device Implementations
//
//   - SoftwareDevice: CPU compositing with golang.org/x/image/draw
//   - native.Device: gogpu/wgpu HAL, WGSL pipeline (backend/native)
//
// # Errors
//
// Devices report resource failures wrapped around [ErrDeviceLost] or
// [ErrOutOfMemory]. Callers classify them with [IsDeviceLost] and
// [errors.Is].
//
// # Thread Safety
//
// Devices are driven from a single render goroutine and are not safe for
// concurrent use.
package render
