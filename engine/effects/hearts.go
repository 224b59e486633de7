package effects

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// DefaultHeartCount is the number of floating hearts.
const DefaultHeartCount = 15

// Heart is one floating heart.
type Heart struct {
	Position [3]float32
	Rotation [3]float32
	Scale    float32
	Opacity  float32
	Color    common.Color3

	origin     [3]float32
	rotSpeed   [3]float32
	floatSpeed float32
	amplitude  float32
	drift      float32
	restScale  float32
	restOp     float32
}

// Hearts bobs translucent hearts around the stage and pumps them on the beat.
type Hearts struct {
	mu     sync.Mutex
	hearts []Heart
}

var _ driver.Subsystem = &Hearts{}

// NewHearts scatters count hearts in front of the stage, colored round the
// penlight palette.
func NewHearts(count int, rng beat.Rand) *Hearts {
	rng = defaultRand(rng)
	f := func(lo, hi float64) float32 { return float32(lo + rng.Float64()*(hi-lo)) }
	palette := theme.PenlightPalette()
	h := &Hearts{hearts: make([]Heart, count)}
	for i := range h.hearts {
		origin := [3]float32{f(-12, 12), f(-2, 8), f(-14, -2)}
		scale := f(0.15, 0.85)
		op := f(0.02, 0.12)
		h.hearts[i] = Heart{
			Position:   origin,
			Scale:      scale,
			Opacity:    op,
			Color:      palette[i%len(palette)],
			origin:     origin,
			rotSpeed:   [3]float32{f(-0.01, 0.01), f(-0.01, 0.01), f(-0.005, 0.005)},
			floatSpeed: f(0.2, 0.8),
			amplitude:  f(0.4, 1.4),
			drift:      f(0.05, 0.3),
			restScale:  scale,
			restOp:     op,
		}
	}
	return h
}

func (h *Hearts) Kind() driver.Kind {
	return driver.KindHearts
}

func (h *Hearts) Update(f *driver.Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := f.Seconds()
	b := float32(f.Beat)
	boost := float32(f.LiveBoost)
	beatMul := 1 + b*3*boost

	for i := range h.hearts {
		hr := &h.hearts[i]
		for k := range 3 {
			hr.Rotation[k] += hr.rotSpeed[k] * beatMul
		}
		phase := float64(i)
		hr.Position[1] = hr.origin[1] + sinf(t*float64(hr.floatSpeed)+phase)*hr.amplitude
		hr.Position[0] = hr.origin[0] + cosf(t*float64(hr.drift)+phase)*hr.amplitude*0.5

		target := hr.restScale * (1 + b*0.5*boost)
		hr.Scale += (target - hr.Scale) * 0.2
		hr.Opacity = min(0.3, hr.restOp+b*0.01)
	}
	return nil
}

// Hearts returns a copy of the heart states.
func (h *Hearts) Hearts() []Heart {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Heart(nil), h.hearts...)
}
