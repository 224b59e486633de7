package driver

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// Subsystem is one visual system the driver fans the frame out to.
type Subsystem interface {
	Kind() Kind
	Update(f *Frame) error
}

// BeatSource publishes the current beat value.
type BeatSource interface {
	Beat() float64
}

// PlaybackState exposes what is loaded and whether it plays.
type PlaybackState interface {
	Theme() *theme.Theme
	IsPlaying() bool
}

// Viewport reports the drawable size in pixels.
type Viewport interface {
	Width() int
	Height() int
}

type driverImpl struct {
	mu *sync.Mutex

	subsystems []Subsystem

	beat     BeatSource
	playback PlaybackState
	viewport Viewport
	clock    func() time.Time

	frame       uint64
	lastElapsed time.Duration

	pointerTarget common.Vec2
	pointer       common.Vec2
	rawPointer    common.Vec2
	scroll        float32
	smoothing     float32

	projectEvery uint64
	forceScreen  bool

	failures    [kindCount]uint64
	lastLogged  [kindCount]time.Time
	logInterval time.Duration
}

// Driver builds one Frame per render tick and runs every registered subsystem
// against it. A failing subsystem is logged, counted and skipped; the frame
// always completes.
type Driver interface {
	// Register adds a subsystem. CameraRig subsystems always run first and
	// Screen subsystems last, the rest in registration order.
	//
	// Parameters:
	//   - s: the subsystem
	//
	// Returns:
	//   - error: error if the subsystem reports an unknown kind
	Register(s Subsystem) error

	// Step builds the next frame and runs the subsystems.
	//
	// Parameters:
	//   - elapsed: time since the stage started
	//
	// Returns:
	//   - Frame: the frame that was dispatched
	Step(elapsed time.Duration) Frame

	// SetPointer sets the pointer target in normalized [-1, 1] coordinates with
	// +y up. The frame pointer eases toward it.
	//
	// Parameters:
	//   - x, y: the pointer target
	SetPointer(x, y float32)

	// SetScroll sets the scroll progress, clamped to [0, 1].
	//
	// Parameters:
	//   - progress: the scroll progress
	SetScroll(progress float32)

	// Invalidate forces Screen subsystems to run on the next frame.
	Invalidate()

	// Failures returns the number of failed updates per kind.
	//
	// Returns:
	//   - map[Kind]uint64: failure counts for kinds that failed at least once
	Failures() map[Kind]uint64

	// Frames returns how many frames have been stepped.
	Frames() uint64
}

var _ Driver = &driverImpl{}

// NewDriver creates a Driver. Without a beat source the beat is 0 and without
// playback state nothing is playing.
//
// Parameters:
//   - options: functional options to configure the driver
//
// Returns:
//   - Driver: the newly created driver
func NewDriver(options ...DriverBuilderOption) Driver {
	d := &driverImpl{
		mu:           &sync.Mutex{},
		clock:        time.Now,
		smoothing:    0.06,
		projectEvery: 3,
		logInterval:  time.Second,
	}
	for _, option := range options {
		option(d)
	}
	if d.projectEvery == 0 {
		d.projectEvery = 1
	}
	return d
}

func (d *driverImpl) Register(s Subsystem) error {
	if !s.Kind().Valid() {
		return fmt.Errorf("driver: unknown subsystem kind %d", s.Kind())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subsystems = append(d.subsystems, s)
	return nil
}

func (d *driverImpl) SetPointer(x, y float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pointerTarget = common.Vec2{X: clampUnit(x), Y: clampUnit(y)}
	d.rawPointer = common.Vec2{X: (d.pointerTarget.X + 1) / 2, Y: (d.pointerTarget.Y + 1) / 2}
}

func (d *driverImpl) SetScroll(progress float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scroll = float32(common.Clamp01(float64(progress)))
}

func (d *driverImpl) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forceScreen = true
}

func (d *driverImpl) Failures() map[Kind]uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[Kind]uint64)
	for k, n := range d.failures {
		if n > 0 {
			out[Kind(k)] = n
		}
	}
	return out
}

func (d *driverImpl) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *driverImpl) Step(elapsed time.Duration) Frame {
	f, ordered := d.buildFrame(elapsed)
	for _, s := range ordered {
		d.run(s, f)
	}
	return f
}

// buildFrame snapshots every input once and picks the subsystems for this frame.
func (d *driverImpl) buildFrame(elapsed time.Duration) (Frame, []Subsystem) {
	beat := 0.0
	if d.beat != nil {
		beat = d.beat.Beat()
	}
	var current *theme.Theme
	playing := false
	if d.playback != nil {
		current = d.playback.Theme()
		playing = d.playback.IsPlaying()
	}
	w, h := 0, 0
	if d.viewport != nil {
		w, h = d.viewport.Width(), d.viewport.Height()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pointer.X += (d.pointerTarget.X - d.pointer.X) * d.smoothing
	d.pointer.Y += (d.pointerTarget.Y - d.pointer.Y) * d.smoothing

	f := Frame{
		Index:      d.frame,
		Elapsed:    elapsed,
		Delta:      max(elapsed-d.lastElapsed, 0),
		Beat:       common.Clamp01(beat),
		Theme:      theme.DefaultTheme,
		Playing:    playing,
		Scroll:     d.scroll,
		Pointer:    d.pointer,
		RawPointer: d.rawPointer,
		Width:      w,
		Height:     h,
	}
	if d.frame == 0 {
		f.Delta = 0
	}
	if current != nil {
		f.Theme = *current
		f.HasTheme = true
	}
	if playing {
		f.LiveBoost = f.Theme.Intensity
	}

	screen := d.forceScreen || d.frame%d.projectEvery == 0
	d.forceScreen = false
	d.frame++
	d.lastElapsed = elapsed

	ordered := make([]Subsystem, 0, len(d.subsystems))
	for _, s := range d.subsystems {
		if s.Kind() == KindCameraRig {
			ordered = append(ordered, s)
		}
	}
	for _, s := range d.subsystems {
		if k := s.Kind(); k != KindCameraRig && k != KindScreen {
			ordered = append(ordered, s)
		}
	}
	if screen {
		for _, s := range d.subsystems {
			if s.Kind() == KindScreen {
				ordered = append(ordered, s)
			}
		}
	}
	return f, ordered
}

// run updates one subsystem against its own copy of the frame and isolates
// errors and panics.
func (d *driverImpl) run(s Subsystem, f Frame) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
			}
		}()
		err = s.Update(&f)
	}()
	if err != nil {
		d.fail(s.Kind(), err)
	}
}

func (d *driverImpl) fail(k Kind, err error) {
	now := d.clock()
	d.mu.Lock()
	d.failures[k]++
	count := d.failures[k]
	shouldLog := d.lastLogged[k].IsZero() || now.Sub(d.lastLogged[k]) >= d.logInterval
	if shouldLog {
		d.lastLogged[k] = now
	}
	d.mu.Unlock()

	if shouldLog {
		log.Printf("[Driver] %s update failed (%d total): %v", k, count, err)
	}
}

func clampUnit(v float32) float32 {
	return max(-1, min(1, v))
}
