package renderer

import (
	"fmt"
	"sync"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/scenebuffer"
	"github.com/prism3d/prism/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	objectCount   int
	skeletonStart int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	assetLayers          []common.TextureStagingData
	assetEdge            int
}

// Renderer is the high-level API over the GPU ray tracing pass. It owns the
// scene data texture, the uniform buffers, and the fullscreen pipeline, and
// exposes upload and draw operations in terms of scene buffers rather than
// GPU objects.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect at the next
	// Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// UploadScene sizes the scene data texture for the buffer and uploads
	// every row. Subsequent frames only need UploadSkeleton for the live
	// region.
	//
	// Parameters:
	//   - buf: the encoded scene buffer
	//
	// Returns:
	//   - error: error if the scene texture cannot be created
	UploadScene(buf *scenebuffer.Buffer) error

	// UploadSkeleton overwrites whole rows of the scene texture starting at
	// the given row, leaving the rest of the scene untouched.
	//
	// Parameters:
	//   - startRow: the first row to overwrite
	//   - rows: flat record data, a whole number of rows
	UploadSkeleton(startRow int, rows []float32)

	// UploadAssetTextures replaces the asset texture array with a scene's
	// staged layers. Call before or alongside UploadScene when the scene
	// declares textures.
	//
	// Parameters:
	//   - layers: the decoded texture layers in scene index order
	//   - edge: the shared square layer size in pixels
	//
	// Returns:
	//   - error: error if texture creation fails
	UploadAssetTextures(layers []common.TextureStagingData, edge int) error

	// UploadLights uploads the marshaled light uniform buffer.
	//
	// Parameters:
	//   - data: the marshaled light buffer bytes
	UploadLights(data []byte)

	// UploadFrameUniforms marshals and uploads the per-frame uniform block.
	// The ObjectCount and RowTexels fields are filled in from the last
	// uploaded scene.
	//
	// Parameters:
	//   - frame: the per-frame uniforms; camera and resolution must be set
	UploadFrameUniforms(frame FrameUniforms)

	// RenderFrame draws one ray traced frame and presents it.
	//
	// Returns:
	//   - error: error if the surface texture cannot be acquired
	RenderFrame() error

	// ObjectCount returns the row count of the last uploaded scene.
	//
	// Returns:
	//   - int: the object count, 0 before the first UploadScene
	ObjectCount() int

	// SkeletonStart returns the first skeleton row of the last uploaded
	// scene.
	//
	// Returns:
	//   - int: the skeleton region start row
	SkeletonStart() int

	// Backend returns the underlying RendererBackend for direct GPU access.
	//
	// Returns:
	//   - RendererBackend: the backend instance
	Backend() RendererBackend
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer bound to the given window: it initializes
// the GPU backend for the requested type, configures the surface to the
// window's current framebuffer size, uploads the asset textures, and compiles
// the ray tracing pipeline.
//
// Parameters:
//   - backendType: the RendererBackendType selecting the GPU API
//   - win: the Window providing the rendering surface
//   - opts: optional RendererBuilderOption functions
//
// Returns:
//   - Renderer: the initialized Renderer
//   - error: error if backend or pipeline initialization fails
func NewRenderer(backendType RendererBackendType, win window.Window, opts ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		assetEdge:   1,
	}
	for _, opt := range opts {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		sd := win.SurfaceDescriptor()
		if sd == nil {
			return nil, fmt.Errorf("window does not provide a surface descriptor")
		}
		r.backend = newWGPURendererBackend(sd, r.forceFallbackAdapter)
	default:
		return nil, fmt.Errorf("unsupported renderer backend type: %d", backendType)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(win.Width(), win.Height())

	if err := r.backend.InitAssetTextures(r.assetLayers, r.assetEdge); err != nil {
		return nil, err
	}
	if err := r.backend.InitPipeline(ShaderSource()); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *renderer) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) UploadScene(buf *scenebuffer.Buffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rowCount := buf.RowCount()
	if err := r.backend.InitSceneTexture(rowCount); err != nil {
		return err
	}
	r.backend.WriteSceneRows(0, buf.Data())
	r.objectCount = rowCount
	r.skeletonStart = buf.SkeletonStart()
	return nil
}

func (r *renderer) UploadSkeleton(startRow int, rows []float32) {
	r.backend.WriteSceneRows(startRow, rows)
}

func (r *renderer) UploadAssetTextures(layers []common.TextureStagingData, edge int) error {
	return r.backend.InitAssetTextures(layers, edge)
}

func (r *renderer) UploadLights(data []byte) {
	r.backend.WriteLights(data)
}

func (r *renderer) UploadFrameUniforms(frame FrameUniforms) {
	r.mu.Lock()
	frame.ObjectCount = uint32(r.objectCount)
	frame.RowTexels = uint32(scenebuffer.TexelsPerRow)
	r.mu.Unlock()

	r.backend.WriteFrameUniforms(frame.Marshal())
}

func (r *renderer) RenderFrame() error {
	return r.backend.RenderFrame()
}

func (r *renderer) ObjectCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objectCount
}

func (r *renderer) SkeletonStart() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skeletonStart
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}
