package renderer

import "github.com/Carmen-Shannon/oxy-stage/engine/renderer/pipeline"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// RendererBackend is the GPU side of the Renderer. A backend owns the device, the
// swapchain surface, the background pipeline and the scene pipelines drawn over it.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain for a new surface size.
	ConfigureSurface(width, height int)

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// InitBackground compiles the background shader and creates its uniform buffer
	// and bind group. ConfigureSurface must have been called first.
	//
	// Parameters:
	//   - source: the WGSL source with vs_main and fs_main entry points
	//
	// Returns:
	//   - error: an error if shader, layout or pipeline creation fails
	InitBackground(source string) error

	// InitPipeline compiles a scene pipeline and registers it under its key. The
	// camera and texture bind group layouts are created on first use.
	//
	// Parameters:
	//   - p: the pipeline to compile
	//
	// Returns:
	//   - error: an error if the pipeline is invalid or creation fails
	InitPipeline(p pipeline.Pipeline) error

	// DrawFrame uploads the packed frame, clears the surface, draws the background
	// triangle and then every registered scene layer that has data, and presents.
	//
	// Parameters:
	//   - d: the packed frame
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired or an upload fails
	DrawFrame(d DrawList) error

	// Release frees every GPU object held by the backend.
	Release()
}
