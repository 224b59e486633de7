package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/Carmen-Shannon/oxy-stage/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stage/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose resize, pointer and scroll events feed the engine.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithDriver sets the animation driver stepped once per render frame.
//
// Parameters:
//   - d: the driver with its subsystems registered
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDriver(d driver.Driver) EngineBuilderOption {
	return func(e *engine) {
		e.driver = d
	}
}

// WithRenderer sets the renderer that draws each frame. Without one the engine runs headless.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithBackdrop sets the subsystems the renderer reads its clear color, shader uniforms
// and strobe flash from. Any of them may be nil.
//
// Parameters:
//   - bg: the background subsystem
//   - strobe: the strobe subsystem
//   - lights: the light rig subsystem
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackdrop(bg *effects.Background, strobe *effects.Strobe, lights *effects.Lights) EngineBuilderOption {
	return func(e *engine) {
		e.background = bg
		e.strobe = strobe
		e.lights = lights
	}
}

// WithScene sets the stage parts drawn over the backdrop: screens, laser beams
// and the penlight, heart and firework sprites.
//
// Parameters:
//   - s: the scene sources
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = &s
	}
}

// WithScrollStep sets how much scroll progress one wheel notch moves.
func WithScrollStep(step float32) EngineBuilderOption {
	return func(e *engine) {
		if step > 0 {
			e.scrollStep = step
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
