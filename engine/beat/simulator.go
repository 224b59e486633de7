package beat

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// State is the simulator lifecycle state.
type State int

const (
	// Stopped means no ticker is scheduled and the beat is 0.
	Stopped State = iota
	// Running recomputes the beat from the theme on every tick.
	Running
	// Decaying lowers the beat by a fixed step per tick until it reaches 0.
	Decaying
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Decaying:
		return "decaying"
	}
	return "unknown"
}

const (
	defaultTickInterval = 30 * time.Millisecond
	defaultDecayStep    = 0.08
	defaultStartBoost   = 0.8
)

// simulatorImpl is the implementation of the Simulator interface.
type simulatorImpl struct {
	mu *sync.Mutex

	state     State
	th        theme.Theme
	start     time.Time
	lastPhase float64
	beats     int

	// beat holds math.Float64bits of the published value.
	beat atomic.Uint64

	interval   time.Duration
	decayStep  float64
	startBoost float64
	clock      func() time.Time
	rng        Rand
	manual     bool
	onBeat     func(n int)

	ticking bool
	stopCh  chan struct{}
	tickers atomic.Int32
	wg      sync.WaitGroup
}

// Simulator synthesizes a beat signal in [0, 1] from a theme's BPM and intensity.
// The published value is written only by the simulator and may be read from any goroutine.
type Simulator interface {
	// Start enters Running with the given theme and publishes the start boost.
	// Calling Start while Running restarts the phase timing on the same ticker;
	// calling it while Decaying resumes on the live ticker.
	//
	// Parameters:
	//   - th: the theme whose BPM, intensity and strobe chance shape the pulse
	Start(th theme.Theme)

	// Resume enters Running like Start but keeps the current beat instead of
	// publishing the start boost.
	//
	// Parameters:
	//   - th: the theme to resume with
	Resume(th theme.Theme)

	// Stop enters Decaying. Once the beat reaches 0 the simulator becomes Stopped
	// and its ticker is released.
	Stop()

	// Tick advances the simulator by one step. The internal ticker calls this;
	// with WithManualTicks the caller drives it instead.
	Tick()

	// Beat returns the latest published beat value.
	//
	// Returns:
	//   - float64: the beat in [0, 1]
	Beat() float64

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: Stopped, Running or Decaying
	State() State

	// Active reports whether a tick is currently scheduled.
	//
	// Returns:
	//   - bool: true between Start and the end of the decay
	Active() bool

	// Tickers returns the number of live ticker goroutines. At most one of them
	// is allowed to advance the simulator.
	//
	// Returns:
	//   - int: live ticker count
	Tickers() int

	// Beats returns the number of beat onsets since the last Start.
	//
	// Returns:
	//   - int: onset count
	Beats() int

	// OnBeat registers a hook called with the onset count at every beat onset.
	// The hook runs on the ticker goroutine outside the simulator lock.
	//
	// Parameters:
	//   - fn: the hook, or nil to clear it
	OnBeat(fn func(n int))

	// Close stops immediately, zeroes the beat and waits for the ticker to exit.
	Close()
}

var _ Simulator = &simulatorImpl{}

// NewSimulator creates a stopped Simulator.
//
// Parameters:
//   - options: functional options to configure the simulator
//
// Returns:
//   - Simulator: the newly created simulator
func NewSimulator(options ...SimulatorBuilderOption) Simulator {
	s := &simulatorImpl{
		mu:         &sync.Mutex{},
		state:      Stopped,
		th:         theme.DefaultTheme,
		interval:   defaultTickInterval,
		decayStep:  defaultDecayStep,
		startBoost: defaultStartBoost,
		clock:      time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *simulatorImpl) Start(th theme.Theme) {
	s.run(th, true)
}

func (s *simulatorImpl) Resume(th theme.Theme) {
	s.run(th, false)
}

func (s *simulatorImpl) run(th theme.Theme, boost bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.th = th
	s.start = s.clock()
	s.lastPhase = 1
	s.beats = 0
	s.state = Running
	if boost {
		s.publish(math.Max(s.Beat(), common.Clamp01(s.startBoost)))
	}
	s.schedule()
}

func (s *simulatorImpl) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return
	}
	if s.Beat() > 0 {
		s.state = Decaying
		return
	}
	s.state = Stopped
	s.release()
}

func (s *simulatorImpl) Tick() {
	s.tick(nil)
}

// tick advances one step. A non-nil owner is the stop channel of the calling
// ticker goroutine; ticks from a released ticker are dropped.
func (s *simulatorImpl) tick(owner chan struct{}) {
	s.mu.Lock()
	if owner != nil && owner != s.stopCh {
		s.mu.Unlock()
		return
	}
	onset := 0
	switch s.state {
	case Running:
		elapsedMs := float64(s.clock().Sub(s.start)) / float64(time.Millisecond)
		phase := Phase(elapsedMs, s.th.BPM)
		if phase < s.lastPhase {
			s.beats++
			onset = s.beats
		}
		s.lastPhase = phase
		s.publish(Sample(elapsedMs, s.th, s.rng))
	case Decaying:
		v := s.Beat() - s.decayStep
		if v <= 0 {
			v = 0
			s.state = Stopped
			s.release()
		}
		s.publish(v)
	}
	hook := s.onBeat
	s.mu.Unlock()

	if onset > 0 && hook != nil {
		hook(onset)
	}
}

func (s *simulatorImpl) Beat() float64 {
	return math.Float64frombits(s.beat.Load())
}

func (s *simulatorImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *simulatorImpl) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticking
}

func (s *simulatorImpl) Tickers() int {
	return int(s.tickers.Load())
}

func (s *simulatorImpl) Beats() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beats
}

func (s *simulatorImpl) OnBeat(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onBeat = fn
}

func (s *simulatorImpl) Close() {
	s.mu.Lock()
	s.state = Stopped
	s.publish(0)
	s.release()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *simulatorImpl) publish(v float64) {
	s.beat.Store(math.Float64bits(v))
}

// schedule starts the ticker if none is running. Caller holds mu.
func (s *simulatorImpl) schedule() {
	if s.ticking {
		return
	}
	s.ticking = true
	if s.manual {
		return
	}
	s.stopCh = make(chan struct{})
	s.tickers.Add(1)
	s.wg.Add(1)
	go s.loop(s.stopCh)
}

// release cancels the ticker. Caller holds mu.
func (s *simulatorImpl) release() {
	if !s.ticking {
		return
	}
	s.ticking = false
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

func (s *simulatorImpl) loop(stop chan struct{}) {
	defer s.wg.Done()
	defer s.tickers.Add(-1)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick(stop)
		}
	}
}
