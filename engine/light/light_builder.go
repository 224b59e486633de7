package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// LightBuilderOption is a functional option for configuring a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - LightBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection sets the initial cone axis. The direction is normalized.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: functional option to set the direction
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize3([3]float32{x, y, z})
	}
}

// WithColor sets the initial color.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: functional option to set the color
func WithColor(c common.Color3) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c.Clamped()
	}
}

// WithIntensity sets the initial intensity.
//
// Parameters:
//   - intensity: the intensity multiplier
//
// Returns:
//   - LightBuilderOption: functional option to set the intensity
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the attenuation distance.
//
// Parameters:
//   - lightRange: the range
//
// Returns:
//   - LightBuilderOption: functional option to set the range
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotCone sets the cone half-angles in degrees.
//
// Parameters:
//   - innerDeg: inner cone half-angle in degrees
//   - outerDeg: outer cone half-angle in degrees
//
// Returns:
//   - LightBuilderOption: functional option to set the cone
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCone = cosDeg(innerDeg)
		l.outerCone = cosDeg(outerDeg)
	}
}

// WithPhase sets the animation phase offset.
//
// Parameters:
//   - phase: phase in radians
//
// Returns:
//   - LightBuilderOption: functional option to set the phase
func WithPhase(phase float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.phase = phase
	}
}

// WithSide marks the light as left (-1) or right (+1) of center.
//
// Parameters:
//   - side: negative for left, otherwise right
//
// Returns:
//   - LightBuilderOption: functional option to set the side
func WithSide(side float32) LightBuilderOption {
	return func(l *lightImpl) {
		if side < 0 {
			l.side = -1
		} else {
			l.side = 1
		}
	}
}

// WithEnabled sets whether the light starts enabled.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - LightBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180.0))
}
