// Package renderer draws the stage with WebGPU: a render pass cleared to the mood
// color, a full-screen background triangle driven by the background uniforms, and
// the scene layers over it (textured screens, laser lines and glowing sprites).
package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed background.wgsl
var backgroundShader string

var errReleased = errors.New("renderer released")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	shaderSource         string
	pipelines            []pipeline.Pipeline

	width, height int
	frames        uint64
	drawErrors    uint64
	released      bool
}

// Renderer defines the interface for the rendering system.
//
// The Renderer hides the GPU backend behind a single Render call per frame. When the
// background shader cannot be built the renderer keeps working as a plain
// clear-color pass; a scene layer whose pipeline fails is skipped the same way.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// Non-positive sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Render draws one frame.
	//
	// Parameters:
	//   - f: the frame to draw
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired or the renderer is released
	Render(f Frame) error

	// Frames returns the number of frames presented.
	Frames() uint64

	// Release frees the GPU backend. Render fails afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given surface.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the window
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: builder options
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:           &sync.Mutex{},
		backendType:  BackendTypeWGPU,
		presentMode:  PresentModeVSync,
		shaderSource: backgroundShader,
		pipelines:    scenePipelines(),
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch r.backendType {
		case BackendTypeWGPU:
			if surfaceDescriptor == nil {
				return nil, errors.New("nil surface descriptor")
			}
			b, err := newWGPURendererBackend(surfaceDescriptor, r.forceFallbackAdapter)
			if err != nil {
				return nil, err
			}
			r.backend = b
		default:
			return nil, fmt.Errorf("unknown backend type %d", r.backendType)
		}
	}

	r.backend.SetPresentMode(r.presentMode)
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)

	if err := r.backend.InitBackground(r.shaderSource); err != nil {
		log.Printf("[Renderer] background shader unavailable, using clear color only: %v", err)
	}
	for _, p := range r.pipelines {
		if err := r.backend.InitPipeline(p); err != nil {
			log.Printf("[Renderer] %s layer unavailable: %v", p.PipelineKey(), err)
		}
	}
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released || (width == r.width && height == r.height) {
		return
	}
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Render(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return errReleased
	}
	if f.Aspect <= 0 && r.height > 0 {
		f.Aspect = float32(r.width) / float32(r.height)
	}
	if err := r.backend.DrawFrame(f.DrawList()); err != nil {
		r.drawErrors++
		if r.drawErrors == 1 || r.drawErrors%600 == 0 {
			log.Printf("[Renderer] frame dropped (%d total): %v", r.drawErrors, err)
		}
		return err
	}
	r.frames++
	return nil
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
}
