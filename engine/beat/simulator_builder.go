package beat

import (
	"math/rand"
	"time"
)

// SimulatorBuilderOption is a functional option for configuring a Simulator during construction.
type SimulatorBuilderOption func(*simulatorImpl)

// WithClock replaces the time source used to measure elapsed time.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - SimulatorBuilderOption: functional option that sets the clock
func WithClock(clock func() time.Time) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.clock = clock
	}
}

// WithRand replaces the random source for the accent and drop terms.
//
// Parameters:
//   - rng: the random source; it is only used while the simulator lock is held
//
// Returns:
//   - SimulatorBuilderOption: functional option that sets the random source
func WithRand(rng Rand) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.rng = rng
	}
}

// WithSeed seeds the default random source for reproducible runs.
//
// Parameters:
//   - seed: the seed value
//
// Returns:
//   - SimulatorBuilderOption: functional option that seeds the random source
func WithSeed(seed int64) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithManualTicks disables the internal ticker goroutine; the caller drives Tick.
//
// Returns:
//   - SimulatorBuilderOption: functional option that enables manual ticking
func WithManualTicks() SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.manual = true
	}
}

// WithTickInterval sets the ticker period. Values <= 0 are ignored.
//
// Parameters:
//   - d: the tick period (default 30ms)
//
// Returns:
//   - SimulatorBuilderOption: functional option that sets the tick period
func WithTickInterval(d time.Duration) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithDecayStep sets how much the beat drops per tick while Decaying. Values <= 0 are ignored.
//
// Parameters:
//   - step: the decay step (default 0.08)
//
// Returns:
//   - SimulatorBuilderOption: functional option that sets the decay step
func WithDecayStep(step float64) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		if step > 0 {
			s.decayStep = step
		}
	}
}

// WithStartBoost sets the value published immediately on Start.
//
// Parameters:
//   - boost: the start value in [0, 1] (default 0.8)
//
// Returns:
//   - SimulatorBuilderOption: functional option that sets the start boost
func WithStartBoost(boost float64) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.startBoost = boost
	}
}
