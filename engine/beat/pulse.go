package beat

import (
	"math"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// Rand is the random source consumed by the accent and drop terms.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Phase returns the position within the current beat, in [0, 1).
//
// Parameters:
//   - elapsedMs: milliseconds since the simulator started
//   - bpm: beats per minute; non-positive values yield 0
//
// Returns:
//   - float64: the beat phase
func Phase(elapsedMs, bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	interval := 60000 / bpm
	p := math.Mod(elapsedMs, interval) / interval
	if p < 0 {
		p += 1
	}
	if p >= 1 {
		p = 0
	}
	return p
}

// MainPulse is the sharp spike right after each beat onset: max(0, 1-3p)².
func MainPulse(phase float64) float64 {
	v := math.Max(0, 1-phase*3)
	return v * v
}

// SubPulse is the smaller spike at the half beat: max(0, 1-6|p-0.5|)² · 0.4.
func SubPulse(phase float64) float64 {
	v := math.Max(0, 1-math.Abs(phase-0.5)*6)
	return v * v * 0.4
}

// Baseline is the slow idle shimmer, scaled to tempo.
func Baseline(elapsedMs, bpm float64) float64 {
	return math.Sin(elapsedMs*0.003*bpm/130)*0.15 + 0.2
}

// Accent returns an occasional random emphasis in [0, 0.3). Higher strobe
// chances make accents more frequent.
//
// Parameters:
//   - rng: the random source
//   - strobeChance: the theme's strobe chance in [0, 1]
//
// Returns:
//   - float64: the accent term
func Accent(rng Rand, strobeChance float64) float64 {
	if rng.Float64() > 1-strobeChance*0.3 {
		return rng.Float64() * 0.3
	}
	return 0
}

// Drop returns 0.5 roughly three percent of the time and 0 otherwise.
func Drop(rng Rand) float64 {
	if rng.Float64() > 0.97 {
		return 0.5
	}
	return 0
}

// Sample computes one beat value for the given elapsed time and theme.
// The phase-derived terms are deterministic; accent and drop draw from rng.
//
// Parameters:
//   - elapsedMs: milliseconds since the simulator started
//   - th: the active theme
//   - rng: the random source
//
// Returns:
//   - float64: the beat value clamped to [0, 1]
func Sample(elapsedMs float64, th theme.Theme, rng Rand) float64 {
	phase := Phase(elapsedMs, th.BPM)
	sum := MainPulse(phase) + SubPulse(phase) + Baseline(elapsedMs, th.BPM) +
		Accent(rng, th.StrobeChance) + Drop(rng)
	return common.Clamp01(sum * th.Intensity)
}
