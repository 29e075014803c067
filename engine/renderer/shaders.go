package renderer

import (
	_ "embed"

	"github.com/prism3d/prism/engine/scenebuffer"
)

// rayTraceSource is the ray tracing pass: fullscreen triangle vertex stage
// plus the per-pixel trace and shade fragment stage. The record layout
// constants it references are generated and prepended by ShaderSource.
//
//go:embed assets/raytrace.wgsl
var rayTraceSource string

// ShaderSource returns the complete WGSL source of the ray tracing pass: the
// generated record layout header followed by the embedded shader body.
//
// Returns:
//   - string: the compilable WGSL source
func ShaderSource() string {
	return scenebuffer.RecordLayoutWGSL() + "\n" + rayTraceSource
}
