package camera

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// Mode selects how the stage camera is driven.
type Mode int

const (
	// ModeFixed follows the pointer and scroll around the home view and shakes with the beat.
	ModeFixed Mode = iota
	// ModeExplore hands the camera to the orbit controller.
	ModeExplore
)

func (m Mode) String() string {
	if m == ModeExplore {
		return "explore"
	}
	return "fixed"
}

// RigInput is the per-frame input the fixed camera rig reacts to.
type RigInput struct {
	// Pointer is the smoothed pointer position, normalized to [-1, 1] with +y up.
	Pointer common.Vec2
	// Scroll is the page scroll progress in [0, 1].
	Scroll float32
	// Shake is the beat shake offset for x and y.
	Shake [2]float32
}

type transition struct {
	fromPos, fromTarget [3]float32
	toPos, toTarget     [3]float32
	elapsed, duration   time.Duration
}

// stageControllerImpl is the implementation of the StageController interface.
type stageControllerImpl struct {
	mu *sync.Mutex

	mode     Mode
	position [3]float32
	target   [3]float32

	orbit      OrbitController
	transition *transition
	duration   time.Duration

	modeHooks []func(Mode)
}

// StageController switches the camera between the fixed audience view and free
// exploration, and eases between viewpoints.
type StageController interface {
	Controller

	// Mode returns the current camera mode.
	//
	// Returns:
	//   - Mode: ModeFixed or ModeExplore
	Mode() Mode

	// SetMode switches modes. Entering Explore eases to the "front" preset and leaving
	// it eases back to the home view. Mode change hooks run after the switch.
	//
	// Parameters:
	//   - m: the new mode
	SetMode(m Mode)

	// ToggleMode flips between Fixed and Explore.
	//
	// Returns:
	//   - Mode: the new mode
	ToggleMode() Mode

	// GoTo eases to a named preset, entering Explore mode first if necessary.
	//
	// Parameters:
	//   - name: the preset name
	//
	// Returns:
	//   - error: ErrUnknownPreset if no preset has that name
	GoTo(name string) error

	// Transitioning reports whether an eased move is in progress.
	//
	// Returns:
	//   - bool: true while easing
	Transitioning() bool

	// Orbit returns the orbit controller used in Explore mode.
	//
	// Returns:
	//   - OrbitController: the orbit controller
	Orbit() OrbitController

	// Advance steps the controller by one frame.
	//
	// Parameters:
	//   - dt: time since the previous frame
	//   - in: pointer, scroll and shake for the fixed rig
	Advance(dt time.Duration, in RigInput)

	// OnModeChange registers a hook that runs after every mode switch.
	//
	// Parameters:
	//   - fn: the hook
	OnModeChange(fn func(Mode))
}

var _ StageController = &stageControllerImpl{}

// NewStageController creates a controller in Fixed mode at the home view.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - StageController: the newly created controller
func NewStageController(options ...StageControllerOption) StageController {
	sc := &stageControllerImpl{
		mu:       &sync.Mutex{},
		mode:     ModeFixed,
		position: homeView.Position,
		target:   homeView.Target,
		duration: 1200 * time.Millisecond,
	}
	for _, option := range options {
		option(sc)
	}
	if sc.orbit == nil {
		sc.orbit = NewOrbitController()
	}
	return sc
}

func (sc *stageControllerImpl) Position() [3]float32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.position
}

func (sc *stageControllerImpl) Target() [3]float32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.target
}

func (sc *stageControllerImpl) Mode() Mode {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.mode
}

func (sc *stageControllerImpl) SetMode(m Mode) {
	sc.mu.Lock()
	if sc.mode == m {
		sc.mu.Unlock()
		return
	}
	sc.switchMode(m)
	hooks := sc.modeHooks
	sc.mu.Unlock()

	for _, fn := range hooks {
		fn(m)
	}
}

func (sc *stageControllerImpl) ToggleMode() Mode {
	next := ModeExplore
	if sc.Mode() == ModeExplore {
		next = ModeFixed
	}
	sc.SetMode(next)
	return next
}

func (sc *stageControllerImpl) GoTo(name string) error {
	p, ok := LookupPreset(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	sc.SetMode(ModeExplore)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.startTransition(p)
	return nil
}

func (sc *stageControllerImpl) Transitioning() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.transition != nil
}

func (sc *stageControllerImpl) Orbit() OrbitController {
	return sc.orbit
}

func (sc *stageControllerImpl) Advance(dt time.Duration, in RigInput) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if tr := sc.transition; tr != nil {
		tr.elapsed += dt
		t := 1.0
		if tr.duration > 0 {
			t = min(1, float64(tr.elapsed)/float64(tr.duration))
		}
		e := float32(common.EaseOutCubic(t))
		for i := range 3 {
			sc.position[i] = common.Lerp(tr.fromPos[i], tr.toPos[i], e)
			sc.target[i] = common.Lerp(tr.fromTarget[i], tr.toTarget[i], e)
		}
		if sc.mode == ModeExplore {
			sc.orbit.LookFrom(sc.position, sc.target)
		}
		if t >= 1 {
			sc.transition = nil
		}
	} else if sc.mode == ModeExplore {
		sc.position = sc.orbit.Position()
		sc.target = sc.orbit.Target()
	}

	if sc.mode == ModeFixed {
		sc.position[0] = in.Pointer.X*0.5 + in.Shake[0]
		sc.position[1] = in.Pointer.Y*0.3 - in.Scroll*0.5 + in.Shake[1]
		sc.target[0] = in.Shake[0] * 0.3
		sc.target[1] = -in.Scroll*0.5 + in.Shake[1]*0.3
	}
}

func (sc *stageControllerImpl) OnModeChange(fn func(Mode)) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.modeHooks = append(sc.modeHooks, fn)
}

// switchMode changes mode and starts the matching transition. Caller must hold the mutex.
func (sc *stageControllerImpl) switchMode(m Mode) {
	sc.mode = m
	if m == ModeExplore {
		sc.startTransition(presets[0])
		return
	}
	sc.startTransition(homeView)
}

// startTransition eases from the current pose to p. Caller must hold the mutex.
func (sc *stageControllerImpl) startTransition(p Preset) {
	sc.transition = &transition{
		fromPos:    sc.position,
		fromTarget: sc.target,
		toPos:      p.Position,
		toTarget:   p.Target,
		duration:   sc.duration,
	}
}
