// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PartVertexShader is the vertex shader for model part rendering.
//
//go:embed part.vert
var PartVertexShader string

// PartFragmentShader is the fragment shader for model part rendering.
//
//go:embed part.frag
var PartFragmentShader string
