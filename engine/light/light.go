package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// LightType identifies the kind of stage light.
type LightType int

const (
	// LightTypePoint emits in all directions from a position, like the glow behind a torii arch.
	LightTypePoint LightType = iota

	// LightTypeSpot emits in a cone along a direction, like the swinging follow spots.
	LightTypeSpot

	// LightTypeMoving is a spot mounted on the truss whose color and brightness follow the beat.
	LightTypeMoving
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	lightType  LightType
	position   [3]float32
	direction  [3]float32
	color      common.Color3
	intensity  float32
	lightRange float32
	innerCone  float32 // stored as cos(angle in radians)
	outerCone  float32 // stored as cos(angle in radians)
	phase      float32
	side       float32
	enabled    bool
}

// Light defines the interface for a stage light.
//
// Lights carry only state; the stage effects write color and intensity each frame
// and the renderer reads them when composing the background.
type Light interface {
	// Type returns the kind of light.
	//
	// Returns:
	//   - LightType: point, spot or moving
	Type() LightType

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized cone axis for spot and moving lights.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Color3: the color
	Color() common.Color3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Cone returns the cosines of the inner and outer cone half-angles.
	//
	// Returns:
	//   - inner, outer: cone cosines
	Cone() (inner, outer float32)

	// Phase returns the light's animation phase offset in radians.
	//
	// Returns:
	//   - float32: the phase
	Phase() float32

	// Side returns -1 for lights left of center and +1 otherwise. Tower lights pick
	// the primary or secondary theme color from it.
	//
	// Returns:
	//   - float32: -1 or +1
	Side() float32

	// Enabled returns whether this light is active.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the color, clamped to [0, 1].
	//
	// Parameters:
	//   - c: the color
	SetColor(c common.Color3)

	// SetIntensity sets the scalar intensity multiplier. Negative values clamp to 0.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetSpotCone sets the inner and outer cone half-angles. Angles are specified in
	// degrees and stored internally as cosines.
	//
	// Parameters:
	//   - innerDeg: inner cone half-angle in degrees
	//   - outerDeg: outer cone half-angle in degrees
	SetSpotCone(innerDeg, outerDeg float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:         &sync.Mutex{},
		lightType:  lightType,
		direction:  [3]float32{0, -1, 0},
		color:      common.Color3{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		innerCone:  0.9063, // cos(25°)
		outerCone:  0.8192, // cos(35°)
		side:       1,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() common.Color3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightRange
}

func (l *lightImpl) Cone() (float32, float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.innerCone, l.outerCone
}

func (l *lightImpl) Phase() float32 {
	return l.phase
}

func (l *lightImpl) Side() float32 {
	return l.side
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = common.Normalize3([3]float32{x, y, z})
}

func (l *lightImpl) SetColor(c common.Color3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c.Clamped()
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetSpotCone(innerDeg, outerDeg float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.innerCone = cosDeg(innerDeg)
	l.outerCone = cosDeg(outerDeg)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}
