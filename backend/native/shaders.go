//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import _ "embed"

//go:embed shaders/video.wgsl
var videoShaderSource string

// uniformSize is the byte size of the Uniforms struct in video.wgsl:
// four vec4 corners plus one vec4 of parameters.
const uniformSize = 5 * 16

// Shader entry points.
const (
	vertexEntry   = "vs_main"
	fragmentEntry = "fs_main"
)

// VideoShaderSource returns the WGSL source of the video quad shader.
func VideoShaderSource() string {
	return videoShaderSource
}
