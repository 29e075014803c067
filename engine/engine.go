// Package engine hosts the render loop: it owns the window, the GPU
// renderer, the camera, the encoded scene, and the live pose overlay, and
// coordinates their per-frame order. Uploads always complete before the draw
// that consumes them, on the same goroutine.
package engine

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"sync"
	"time"

	"github.com/prism3d/prism/engine/camera"
	"github.com/prism3d/prism/engine/light"
	"github.com/prism3d/prism/engine/pose"
	"github.com/prism3d/prism/engine/profiler"
	"github.com/prism3d/prism/engine/renderer"
	"github.com/prism3d/prism/engine/scenebuffer"
	"github.com/prism3d/prism/engine/scenedesc"
	"github.com/prism3d/prism/engine/skeleton"
	"github.com/prism3d/prism/engine/trace"
	"github.com/prism3d/prism/engine/window"
)

// screenshotKey triggers an offline CPU-traced capture of the current view.
const screenshotKey = 'P'

// engine implements the Engine interface.
type engine struct {
	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once

	win  window.Window
	rend renderer.Renderer
	rig  skeleton.Rig

	poses pose.Receiver

	profiler         *profiler.Profiler
	profilingEnabled bool

	// Scene state, guarded by sceneMu. Replaced atomically by LoadScene so a
	// failed load keeps the previous scene rendering.
	sceneMu      sync.Mutex
	cam          camera.Camera
	buffer       *scenebuffer.Buffer
	tracer       trace.Tracer
	diffuseGain  float32
	specularGain float32

	resizeMu      sync.Mutex
	pendingWidth  int
	pendingHeight int
	resizePending bool

	lastPoseSeq uint64

	orbitSpeed     float32
	zoomStep       float32
	frameLimit     time.Duration
	textureEdge    int
	screenshotPath string
	screenshotMu   sync.Mutex
}

// Engine is the main entry point: it wires the window, renderer, camera, and
// pose receiver together and runs the frame loop until the window closes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the GPU renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Camera returns the active scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera, nil before the first LoadScene
	Camera() camera.Camera

	// PoseReceiver returns the websocket landmark receiver feeding the
	// skeleton overlay.
	//
	// Returns:
	//   - pose.Receiver: the receiver, nil when no overlay source is wired
	PoseReceiver() pose.Receiver

	// LoadScene encodes a parsed scene description and uploads it whole:
	// objects, lights, camera, and asset textures. On error the previously
	// loaded scene keeps rendering untouched.
	//
	// Parameters:
	//   - desc: the parsed scene description
	//
	// Returns:
	//   - error: error if encoding or GPU upload fails
	LoadScene(desc *scenedesc.SceneDesc) error

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetFrameLimit caps the render loop at the given frame rate.
	// Pass 0 to uncap (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// Run starts the render loop and blocks processing window events until
	// the window closes or Quit is called.
	Run()

	// Quit signals the render loop to stop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine around an initialized window and renderer and
// wires the window's input callbacks to camera orbit, zoom, and resize
// handling.
//
// Parameters:
//   - win: the window providing the surface and input events
//   - rend: the renderer drawing into that window
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(win window.Window, rend renderer.Renderer, options ...EngineBuilderOption) Engine {
	if win == nil || rend == nil {
		panic("engine: window and renderer are required")
	}

	e := &engine{
		quitChannel: make(chan struct{}),
		win:         win,
		rend:        rend,
		rig:         skeleton.NewRig(),
		profiler:    profiler.NewProfiler(),
		orbitSpeed:  0.01,
		zoomStep:    0.9,
		textureEdge: 256,
	}

	for _, opt := range options {
		opt(e)
	}

	win.SetResizeCallback(func(width, height int) {
		e.resizeMu.Lock()
		e.pendingWidth, e.pendingHeight = width, height
		e.resizePending = true
		e.resizeMu.Unlock()
	})
	win.SetDragCallback(func(dx, dy float32) {
		if c := e.Camera(); c != nil {
			c.Orbit(dx*e.orbitSpeed, dy*e.orbitSpeed)
		}
	})
	win.SetScrollCallback(func(delta float32) {
		if c := e.Camera(); c != nil {
			if delta > 0 {
				c.Zoom(e.zoomStep)
			} else if delta < 0 {
				c.Zoom(1 / e.zoomStep)
			}
		}
	})
	win.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == screenshotKey && e.screenshotPath != "" {
			go e.captureScreenshot()
		}
	})

	return e
}

func (e *engine) Window() window.Window {
	return e.win
}

func (e *engine) Renderer() renderer.Renderer {
	return e.rend
}

func (e *engine) Camera() camera.Camera {
	e.sceneMu.Lock()
	defer e.sceneMu.Unlock()
	return e.cam
}

func (e *engine) PoseReceiver() pose.Receiver {
	return e.poses
}

func (e *engine) LoadScene(desc *scenedesc.SceneDesc) error {
	objects := desc.BuildObjects()
	buf, err := scenebuffer.Encode(objects)
	if err != nil {
		return fmt.Errorf("engine: scene encode failed: %w", err)
	}

	textures, err := desc.LoadTextures(e.textureEdge)
	if err != nil {
		return fmt.Errorf("engine: texture load failed: %w", err)
	}

	aspect := float32(e.win.Width()) / float32(e.win.Height())
	cam := desc.BuildCamera(aspect)
	lights := desc.BuildLights()

	if len(textures) > 0 {
		if err := e.rend.UploadAssetTextures(textures, e.textureEdge); err != nil {
			return fmt.Errorf("engine: texture upload failed: %w", err)
		}
	}
	if err := e.rend.UploadScene(buf); err != nil {
		return fmt.Errorf("engine: scene upload failed: %w", err)
	}
	e.rend.UploadLights(light.MarshalLightBuffer(desc.Ambient, lights))

	tracer := trace.NewTracer(
		trace.WithCamera(cam),
		trace.WithScene(buf),
		trace.WithLights(lights),
		trace.WithAmbient(desc.Ambient[0], desc.Ambient[1], desc.Ambient[2]),
		trace.WithCoefficients(desc.Diffuse, desc.Specular),
		trace.WithTextures(textures),
	)

	e.sceneMu.Lock()
	e.cam = cam
	e.buffer = buf
	e.tracer = tracer
	e.diffuseGain = desc.Diffuse
	e.specularGain = desc.Specular
	e.lastPoseSeq = 0
	e.sceneMu.Unlock()

	log.Printf("engine: loaded scene with %d objects, %d lights, %d textures",
		buf.StaticCount(), len(lights), len(textures))
	return nil
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() {
	e.wg.Add(1)
	go e.handleRender()

loop:
	for e.win.IsRunning() {
		e.win.ProcessMessages()
		select {
		case <-e.quitChannel:
			break loop
		default:
		}
	}
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleRender runs the frame loop in its own goroutine. Frame order is
// fixed: apply pending resize, refresh the skeleton region if a newer pose
// frame arrived, upload frame uniforms, then draw. Recovers from panics so a
// GPU fault cannot take down the host process.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()
			e.renderOnce()

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}
			if e.frameLimit > 0 {
				if remaining := e.frameLimit - time.Since(frameStart); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderOnce draws a single frame.
func (e *engine) renderOnce() {
	e.applyPendingResize()

	e.sceneMu.Lock()
	cam := e.cam
	buf := e.buffer
	tracer := e.tracer
	kd, ks := e.diffuseGain, e.specularGain
	e.sceneMu.Unlock()
	if cam == nil || buf == nil {
		return
	}

	e.refreshSkeleton(buf, tracer)

	e.rend.UploadFrameUniforms(renderer.FrameUniforms{
		Camera:       cam.ToGPU(),
		Resolution:   [2]float32{float32(e.win.Width()), float32(e.win.Height())},
		DiffuseGain:  kd,
		SpecularGain: ks,
	})

	if err := e.rend.RenderFrame(); err != nil {
		log.Printf("engine: frame render failed: %v", err)
	}
}

func (e *engine) applyPendingResize() {
	e.resizeMu.Lock()
	pending := e.resizePending
	width, height := e.pendingWidth, e.pendingHeight
	e.resizePending = false
	e.resizeMu.Unlock()

	if !pending || width < 1 || height < 1 {
		return
	}
	e.rend.Resize(width, height)
	if c := e.Camera(); c != nil {
		c.SetAspect(float32(width) / float32(height))
	}
}

// refreshSkeleton rebuilds and uploads the skeleton region when the pose
// receiver holds a frame newer than the last one consumed. The write lands
// before this frame's draw; a stale or absent frame leaves the previous
// overlay in place.
func (e *engine) refreshSkeleton(buf *scenebuffer.Buffer, tracer trace.Tracer) {
	if e.poses == nil {
		return
	}
	frame, seq, ok := e.poses.Latest()
	if !ok || seq == e.lastPoseSeq {
		return
	}
	e.lastPoseSeq = seq

	rows := e.rig.BuildRegion(frame)
	if err := buf.UpdateRegion(buf.SkeletonStart(), rows); err != nil {
		log.Printf("engine: skeleton region update rejected: %v", err)
		return
	}
	e.rend.UploadSkeleton(buf.SkeletonStart(), rows)
	if tracer != nil {
		tracer.SetScene(buf)
	}
}

// captureScreenshot renders the current scene with the CPU tracer and writes
// it as PNG. Runs off the render goroutine; overlapping captures are dropped.
func (e *engine) captureScreenshot() {
	if !e.screenshotMu.TryLock() {
		log.Printf("engine: screenshot already in progress, skipping")
		return
	}
	defer e.screenshotMu.Unlock()

	e.sceneMu.Lock()
	tracer := e.tracer
	e.sceneMu.Unlock()
	if tracer == nil {
		return
	}

	width, height := e.win.Width(), e.win.Height()
	img, err := tracer.Render(context.Background(), width, height)
	if err != nil {
		log.Printf("engine: screenshot trace failed: %v", err)
		return
	}

	f, err := os.Create(e.screenshotPath)
	if err != nil {
		log.Printf("engine: screenshot create failed: %v", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Printf("engine: screenshot encode failed: %v", err)
		return
	}
	log.Printf("engine: wrote %dx%d screenshot to %s", width, height, e.screenshotPath)
}
