package engine

import (
	"time"

	"github.com/prism3d/prism/engine/pose"
	"github.com/prism3d/prism/engine/skeleton"
)

// EngineBuilderOption is a functional option applied to an engine during construction via NewEngine.
type EngineBuilderOption func(*engine)

// WithPoseReceiver wires a websocket landmark receiver into the frame loop so
// the skeleton overlay follows incoming pose frames.
//
// Parameters:
//   - r: the receiver to poll each frame
//
// Returns:
//   - EngineBuilderOption: a function that applies the pose receiver option to an engine
func WithPoseReceiver(r pose.Receiver) EngineBuilderOption {
	return func(e *engine) {
		e.poses = r
	}
}

// WithRig replaces the default skeleton rig used to place overlay parts from
// landmark frames.
//
// Parameters:
//   - r: the rig to build skeleton regions with
//
// Returns:
//   - EngineBuilderOption: a function that applies the rig option to an engine
func WithRig(r skeleton.Rig) EngineBuilderOption {
	return func(e *engine) {
		e.rig = r
	}
}

// WithOrbitSpeed sets the camera rotation applied per pixel of mouse drag,
// in radians.
//
// Parameters:
//   - radiansPerPixel: orbit speed (default 0.01)
//
// Returns:
//   - EngineBuilderOption: a function that applies the orbit speed option to an engine
func WithOrbitSpeed(radiansPerPixel float32) EngineBuilderOption {
	return func(e *engine) {
		e.orbitSpeed = radiansPerPixel
	}
}

// WithZoomStep sets the distance multiplier applied per scroll notch toward
// the target. Values closer to 1 zoom more gently.
//
// Parameters:
//   - step: zoom factor per notch in (0, 1) (default 0.9)
//
// Returns:
//   - EngineBuilderOption: a function that applies the zoom step option to an engine
func WithZoomStep(step float32) EngineBuilderOption {
	return func(e *engine) {
		if step > 0 && step < 1 {
			e.zoomStep = step
		}
	}
}

// WithFrameLimit caps the render loop at the given frame rate from startup.
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: a function that applies the frame limit option to an engine
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps > 0 {
			e.frameLimit = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithTextureEdge sets the square size scene asset textures are rescaled to
// before upload.
//
// Parameters:
//   - edge: the layer size in pixels (default 256)
//
// Returns:
//   - EngineBuilderOption: a function that applies the texture edge option to an engine
func WithTextureEdge(edge int) EngineBuilderOption {
	return func(e *engine) {
		if edge > 0 {
			e.textureEdge = edge
		}
	}
}

// WithScreenshotPath enables the screenshot key: pressing P renders the
// current scene with the CPU tracer and writes it to the given PNG path.
//
// Parameters:
//   - path: destination file path
//
// Returns:
//   - EngineBuilderOption: a function that applies the screenshot option to an engine
func WithScreenshotPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.screenshotPath = path
	}
}

// WithProfiling enables frame statistics logging from startup.
//
// Returns:
//   - EngineBuilderOption: a function that applies the profiling option to an engine
func WithProfiling() EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = true
	}
}
