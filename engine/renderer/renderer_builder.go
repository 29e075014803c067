package renderer

import (
	"github.com/prism3d/prism/common"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithAssetTextures provides the decoded texture layers uploaded into the
// shader's texture array at construction. All layers must be square with the
// given edge length; at most AssetTextureLayers are accepted.
//
// Parameters:
//   - layers: the decoded texture layers in scene index order
//   - edge: the shared square layer size in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the asset texture option to a renderer
func WithAssetTextures(layers []common.TextureStagingData, edge int) RendererBuilderOption {
	return func(r *renderer) {
		r.assetLayers = layers
		r.assetEdge = edge
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Useful for running on machines without a GPU.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
