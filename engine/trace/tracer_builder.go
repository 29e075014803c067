package trace

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/camera"
	"github.com/prism3d/prism/engine/light"
	"github.com/prism3d/prism/engine/scenebuffer"
)

// TracerBuilderOption is a function that configures a Tracer instance during construction.
type TracerBuilderOption func(*tracerImpl)

type tracerConfig struct {
	workers   int
	queueSize int
}

// NewTracer creates a CPU tracer with a default camera, no scene, and a
// worker pool sized to the machine's logical CPUs. Workers are reused across
// frames; a per-frame WaitGroup provides the completion barrier.
//
// Parameters:
//   - opts: optional configuration applied in order
//
// Returns:
//   - Tracer: the constructed tracer
func NewTracer(opts ...TracerBuilderOption) Tracer {
	t := &tracerImpl{
		cam:          camera.NewCamera(),
		ambient:      common.V3(1, 1, 1),
		diffuseGain:  1,
		specularGain: 1,
	}
	cfg := &tracerConfig{
		workers:   runtime.NumCPU(),
		queueSize: 1024,
	}
	t.cfg = cfg
	for _, opt := range opts {
		opt(t)
	}
	if cfg.workers < 1 {
		panic("trace: worker count must be at least 1")
	}
	t.pool = worker.NewDynamicWorkerPool(cfg.workers, cfg.queueSize, 1*time.Second)
	return t
}

// WithCamera is an option builder that sets the camera rays are generated from.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - TracerBuilderOption: a function that applies the camera option to a tracer
func WithCamera(cam camera.Camera) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.cam = cam
	}
}

// WithScene is an option builder that sets the initial scene buffer.
//
// Parameters:
//   - buf: the scene buffer to trace
//
// Returns:
//   - TracerBuilderOption: a function that applies the scene option to a tracer
func WithScene(buf *scenebuffer.Buffer) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.SetScene(buf)
	}
}

// WithLights is an option builder that sets the initial light set.
//
// Parameters:
//   - lights: the lights
//
// Returns:
//   - TracerBuilderOption: a function that applies the lights option to a tracer
func WithLights(lights []light.Light) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.SetLights(lights)
	}
}

// WithAmbient is an option builder that sets the scene ambient light color.
//
// Parameters:
//   - r, g, b: the ambient color components
//
// Returns:
//   - TracerBuilderOption: a function that applies the ambient option to a tracer
func WithAmbient(r, g, b float32) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.ambient = common.V3(r, g, b)
	}
}

// WithCoefficients is an option builder that sets the scene-global diffuse
// and specular gains.
//
// Parameters:
//   - diffuse: the global diffuse gain
//   - specular: the global specular gain
//
// Returns:
//   - TracerBuilderOption: a function that applies the coefficient option to a tracer
func WithCoefficients(diffuse, specular float32) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.diffuseGain = diffuse
		t.specularGain = specular
	}
}

// WithTextures is an option builder that sets the staged asset textures
// sampled by textured materials.
//
// Parameters:
//   - textures: the staged texture layers, indexed by material texture index
//
// Returns:
//   - TracerBuilderOption: a function that applies the textures option to a tracer
func WithTextures(textures []common.TextureStagingData) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.textures = textures
	}
}

// WithWorkers is an option builder that sets the worker pool size and queue
// depth used to parallelize frame rows.
//
// Parameters:
//   - workers: the number of pool workers
//   - queueSize: the pending-task queue depth
//
// Returns:
//   - TracerBuilderOption: a function that applies the worker option to a tracer
func WithWorkers(workers, queueSize int) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.cfg.workers = workers
		t.cfg.queueSize = queueSize
	}
}
