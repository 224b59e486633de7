package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/Carmen-Shannon/oxy-stage/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stage/engine/window"
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	mu      *sync.Mutex
	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	driver   driver.Driver
	renderer renderer.Renderer

	background *effects.Background
	strobe     *effects.Strobe
	lights     *effects.Lights
	scene      *Scene

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scroll     float32
	scrollStep float32

	start            time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the stage.
// It runs the logic tick loop and the render loop, and feeds window input into the driver.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Driver returns the animation driver stepped by the render loop.
	Driver() driver.Driver

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for playback housekeeping such as photo rotation.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each render frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Scroll returns the accumulated scroll progress in [0, 1].
	Scroll() float32

	// Run starts the engine loops and blocks until the window closes or Quit is called.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Without a driver an empty one is created; without a profiler one is created that
// reports the driver's failure counts.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		mu:              &sync.Mutex{},
		engineTickRate:  time.Second / 60,
		scrollStep:      0.05,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.driver == nil {
		e.driver = driver.NewDriver()
	}
	if e.profiler == nil {
		opts := []profiler.ProfilerBuilderOption{profiler.WithFailures(driverFailures{e.driver})}
		e.profiler = profiler.NewProfiler(opts...)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
			e.driver.Invalidate()
		})
		e.window.SetPointerCallback(e.driver.SetPointer)
		e.window.SetScrollCallback(e.addScroll)
		// The window may only be closed from the thread that pumps its messages.
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				if e.window.IsRunning() {
					_ = e.window.Close()
				}
			default:
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Driver() driver.Driver {
	return e.driver
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.start = time.Now()
	e.mu.Unlock()

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()

	if e.renderer != nil {
		e.renderer.Release()
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// The window is closed by the message loop on its next pass.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if cb := e.callbacks(true); cb != nil {
				cb(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame(now.Sub(e.start))

			if cb := e.callbacks(false); cb != nil {
				cb(dt)
			}

			e.mu.Lock()
			profiling := e.profilingEnabled
			limit := e.renderFrameLimit
			e.mu.Unlock()
			if profiling {
				e.profiler.Tick()
			}

			if limit > 0 {
				if remaining := limit - time.Since(lastRender); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame steps the driver and hands the resulting frame to the renderer.
func (e *engine) renderFrame(elapsed time.Duration) renderer.Frame {
	f := e.driver.Step(elapsed)
	rf := e.compose(f)
	if e.renderer != nil {
		// Failed frames are counted and logged by the renderer.
		_ = e.renderer.Render(rf)
	}
	return rf
}

// compose gathers the renderer inputs from the backdrop subsystems and the scene.
func (e *engine) compose(f driver.Frame) renderer.Frame {
	var rf renderer.Frame
	if f.Height > 0 {
		rf.Aspect = float32(f.Width) / float32(f.Height)
	}
	if e.background != nil {
		rf.Background = e.background.Uniforms()
		rf.Clear = e.background.ClearColor()
	}
	if e.lights != nil {
		rf.Ambient = e.lights.Rig().Ambient()
	}
	if e.strobe != nil {
		rf.Flash, rf.FlashColor = e.strobe.Flash()
	}
	if e.scene != nil {
		e.scene.fill(&rf)
	}
	return rf
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

func (e *engine) callbacks(tick bool) func(float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tick {
		return e.tickCallback
	}
	return e.renderCallback
}

// addScroll accumulates wheel notches into the scroll progress. Scrolling up
// moves toward the top of the page.
func (e *engine) addScroll(delta float32) {
	e.mu.Lock()
	e.scroll = min(1, max(0, e.scroll-delta*e.scrollStep))
	progress := e.scroll
	e.mu.Unlock()
	e.driver.SetScroll(progress)
}

func (e *engine) Scroll() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scroll
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

// DriverFailures adapts a driver's per-kind failure counts for the profiler.
func DriverFailures(d driver.Driver) profiler.FailureSource {
	return driverFailures{d}
}

// driverFailures exposes the driver's per-kind failure counts to the profiler.
type driverFailures struct {
	d driver.Driver
}

func (f driverFailures) FailureCounts() map[string]uint64 {
	counts := f.d.Failures()
	if len(counts) == 0 {
		return nil
	}
	out := make(map[string]uint64, len(counts))
	for k, n := range counts {
		out[k.String()] = n
	}
	return out
}
