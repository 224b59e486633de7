package effects

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/light"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

var (
	towerLeft  = common.Color3{1, 0.2, 0.6}
	towerRight = common.Color3{0.2, 0.6, 1}
)

// Cone is the visible shaft under a follow spot.
type Cone struct {
	X       float32
	Opacity float32
	Color   common.Color3
}

// Lights animates the truss: moving heads, wing towers and the follow spot cones.
type Lights struct {
	mu      sync.Mutex
	rig     *light.Rig
	palette []common.Color3
	cones   []Cone
}

var _ driver.Subsystem = &Lights{}

// NewLights drives the lights of rig. A nil rig uses light.DefaultRig.
func NewLights(rig *light.Rig) *Lights {
	if rig == nil {
		rig = light.DefaultRig()
	}
	return &Lights{
		rig:     rig,
		palette: theme.PenlightPalette(),
		cones:   make([]Cone, len(rig.OfType(light.LightTypeSpot))),
	}
}

func (l *Lights) Kind() driver.Kind {
	return driver.KindLights
}

// Rig returns the driven rig.
func (l *Lights) Rig() *light.Rig {
	return l.rig
}

func (l *Lights) Update(f *driver.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := f.Seconds()
	b := float32(f.Beat)
	boost := float32(f.LiveBoost)
	live := f.Playing && f.HasTheme
	th := f.Theme

	for _, ml := range l.rig.OfType(light.LightTypeMoving) {
		phase := float64(ml.Phase())
		base := float32(0.12)
		if f.Playing {
			base = 0.5 + b*0.5
		}
		ml.SetIntensity(base * (0.6 + sinf(t*4+phase)*0.4))
		if live {
			mix := sinf(t*float64(2.5+b*5)+phase)*0.5 + 0.5
			ml.SetColor(th.Primary.Mix(th.Accent, mix))
		} else {
			ml.SetColor(common.HSL(float32(math.Mod(t*0.05+phase*0.16, 1)), 1, 0.65))
		}
	}

	for _, tl := range l.rig.OfType(light.LightTypePoint) {
		phase := float64(tl.Phase())
		flash := 0.5 + sinf(t*3+phase)*0.5
		base := float32(0.12)
		if f.Playing {
			base = 0.4 + b*0.6
		}
		tl.SetIntensity(base * flash)

		tc := towerRight
		if tl.Side() < 0 {
			tc = towerLeft
		}
		if live {
			tc = th.Secondary
			if tl.Side() < 0 {
				tc = th.Primary
			}
		}
		accent := th.Accent.Scale(0.3 * flash)
		c := tc.Scale(0.7)
		tl.SetColor(common.Color3{c[0] + accent[0], c[1] + accent[1], c[2] + accent[2]})
	}

	spots := l.rig.OfType(light.LightTypeSpot)
	if len(l.cones) != len(spots) {
		l.cones = make([]Cone, len(spots))
	}
	half := float32(len(spots)-1) / 2
	for i, sp := range spots {
		phase := float64(sp.Phase())
		reach := float32(2)
		if f.Playing {
			reach += b * 4 * boost
		}
		x := (float32(i)-half)*4 + sinf(t*0.4*float64(1+boost)+phase)*reach
		pos := sp.Position()
		sp.SetPosition(x, pos[1], pos[2])

		cone := &l.cones[i]
		cone.X = x
		cone.Opacity = 0.02 + sinf(t*0.5+phase)*0.01 + b*0.15*boost
		if live {
			switch i % 3 {
			case 0:
				cone.Color = th.Primary
			case 1:
				cone.Color = th.Secondary
			default:
				cone.Color = th.Accent
			}
		} else {
			idx := int(math.Mod(t*0.2+phase, float64(len(l.palette))))
			cone.Color = l.palette[idx]
		}
		sp.SetColor(cone.Color)
		sp.SetIntensity(cone.Opacity * 4)
	}
	return nil
}

// Cones returns a copy of the spot cone states.
func (l *Lights) Cones() []Cone {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Cone(nil), l.cones...)
}
