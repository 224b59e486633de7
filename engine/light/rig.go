package light

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// Rig is an ordered set of stage lights.
type Rig struct {
	mu     sync.RWMutex
	lights []Light
}

// NewRig creates a rig holding lights in order.
//
// Parameters:
//   - lights: the initial lights
//
// Returns:
//   - *Rig: the new rig
func NewRig(lights ...Light) *Rig {
	return &Rig{lights: append([]Light(nil), lights...)}
}

// DefaultRig builds the stage's truss: moving lights spread across the back,
// tower lights on both wings and follow spots over the front edge.
//
// Returns:
//   - *Rig: the populated rig
func DefaultRig() *Rig {
	var lights []Light
	for i := range 8 {
		x := float32(i-4)*3 + 1.5
		lights = append(lights, NewLight(LightTypeMoving,
			WithPosition(x, 8, -14),
			WithDirection(0, -1, 0.3),
			WithPhase(float32(i)*0.8),
			WithSide(x),
			WithRange(30),
		))
	}
	for i := range 6 {
		side := float32(-1)
		if i%2 == 1 {
			side = 1
		}
		lights = append(lights, NewLight(LightTypePoint,
			WithPosition(side*14, float32(i/2)*3-2, -12),
			WithPhase(float32(i)*math.Pi/3),
			WithSide(side),
			WithRange(12),
		))
	}
	for i := range 5 {
		lights = append(lights, NewLight(LightTypeSpot,
			WithPosition(float32(i)*4-10, 8, -6),
			WithDirection(0, -1, 0),
			WithSpotCone(8, 14),
			WithPhase(float32(i)*2*math.Pi/5),
			WithRange(25),
		))
	}
	return NewRig(lights...)
}

// Add appends a light.
//
// Parameters:
//   - l: the light to add
func (r *Rig) Add(l Light) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lights = append(r.lights, l)
}

// Lights returns a snapshot of the rig's lights.
//
// Returns:
//   - []Light: the lights in order
func (r *Rig) Lights() []Light {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Light(nil), r.lights...)
}

// OfType returns the lights of one type, in order.
//
// Parameters:
//   - t: the light type
//
// Returns:
//   - []Light: the matching lights
func (r *Rig) OfType(t LightType) []Light {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Light
	for _, l := range r.lights {
		if l.Type() == t {
			out = append(out, l)
		}
	}
	return out
}

// Ambient returns the intensity-weighted average color of the enabled lights,
// which the renderer blends into the background.
//
// Returns:
//   - common.Color3: the average contribution, clamped to [0, 1]
func (r *Rig) Ambient() common.Color3 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum common.Color3
	n := 0
	for _, l := range r.lights {
		if !l.Enabled() {
			continue
		}
		c := l.Color().Scale(l.Intensity())
		sum = common.Color3{sum[0] + c[0], sum[1] + c[1], sum[2] + c[2]}
		n++
	}
	if n == 0 {
		return common.Color3{}
	}
	return sum.Scale(1 / float32(n)).Clamped()
}
