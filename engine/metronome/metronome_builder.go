package metronome

import "math"

// MetronomeBuilderOption is a functional option for configuring a Metronome.
type MetronomeBuilderOption func(*Metronome)

// WithOutput replaces the audio device with fn, which receives each click's
// samples and gain.
//
// Parameters:
//   - fn: the output
//
// Returns:
//   - MetronomeBuilderOption: a function that applies the output
func WithOutput(fn func(samples []byte, volume float64)) MetronomeBuilderOption {
	return func(m *Metronome) {
		m.out = fn
	}
}

// WithVolume sets the initial gain (default 0.4).
func WithVolume(v float64) MetronomeBuilderOption {
	return func(m *Metronome) {
		m.volume.Store(math.Float64bits(math.Max(0, math.Min(1, v))))
	}
}

// WithEnabled sets whether clicks start audible.
func WithEnabled(on bool) MetronomeBuilderOption {
	return func(m *Metronome) {
		m.enabled.Store(on)
	}
}
