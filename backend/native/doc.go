//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native implements render.Device on gogpu/wgpu's HAL.
//
// The device does not create a GPU context. It borrows the host's hal.Device
// and hal.Queue, either directly with [New] or through a
// gpucontext.DeviceProvider with [NewFromProvider], and draws into the
// texture view of the host's current surface frame ([SurfaceTarget]).
//
// Each plane is an R8Unorm, RGBA8Unorm or BGRA8Unorm texture. A single WGSL
// pipeline draws the frame as one quad: RGBA frames are sampled directly,
// YUV frames are converted with BT.601 coefficients in the fragment shader.
//
// Every submission waits on a fence for at most five seconds. A failed
// submission or an expired wait is reported as render.ErrDeviceLost.
//
// Build with -tags nogpu to exclude this package.
package native
