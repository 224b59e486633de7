package effects

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
)

const (
	// DefaultLaserCount is the number of beams fanned out from the stage.
	DefaultLaserCount = 12
	// LaserLength is the length of one beam in world units.
	LaserLength = 25
)

// Beam is the state of a single laser.
type Beam struct {
	// Origin is the beam's midpoint.
	Origin    [3]float32
	BaseAngle float32
	Speed     float32
	Hue       float32
	Rotation  [2]float32 // x, z
	Opacity   float32
	Color     common.Color3
}

// Segment returns the end points of the beam: LaserLength along the tilted up
// axis, centered on Origin.
func (b Beam) Segment() (from, to [3]float32) {
	var m [16]float32
	common.BuildModelMatrix(m[:], 0, 0, 0, b.Rotation[0], 0, b.Rotation[1], 1, 1, 1)
	d := common.TransformDirection(m[:], 0, LaserLength/2, 0)
	o := b.Origin
	return [3]float32{o[0] - d[0], o[1] - d[1], o[2] - d[2]}, [3]float32{o[0] + d[0], o[1] + d[1], o[2] + d[2]}
}

// Lasers sweeps a fan of beams whose amplitude and brightness follow the beat.
type Lasers struct {
	mu    sync.Mutex
	beams []Beam
}

var _ driver.Subsystem = &Lasers{}

// NewLasers creates count beams evenly spread around the circle with random
// sweep speeds.
func NewLasers(count int, rng beat.Rand) *Lasers {
	rng = defaultRand(rng)
	l := &Lasers{beams: make([]Beam, count)}
	for i := range l.beams {
		l.beams[i] = Beam{
			Origin:    [3]float32{(float32(i) - float32(count)/2) * 1.5, 3, -6},
			BaseAngle: float32(i) / float32(count) * 2 * math.Pi,
			Speed:     0.3 + float32(rng.Float64()),
			Hue:       float32(i) / float32(count),
		}
	}
	return l
}

func (l *Lasers) Kind() driver.Kind {
	return driver.KindLasers
}

func (l *Lasers) Update(f *driver.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := f.Seconds()
	b := float32(f.Beat)
	boost := float32(f.LiveBoost)
	laserSpeed := float32(1)
	if f.HasTheme {
		laserSpeed = float32(f.Theme.LaserSpeed)
	}
	live := f.Playing && f.HasTheme

	for i := range l.beams {
		bm := &l.beams[i]
		base := float64(bm.BaseAngle)
		sweep := t * float64(bm.Speed*laserSpeed)

		bm.Rotation[1] = sinf(sweep+base) * (1 + b*1.5)
		bm.Rotation[0] = cosf(sweep*0.5+base) * (0.4 + b*0.8)

		bm.Opacity = 0.04 + sinf(t*0.3+base)*0.02
		if f.Playing {
			bm.Opacity += b * 0.9 * boost
		}

		if live {
			mix := sinf(t*0.5+float64(i)*0.8)*0.5 + 0.5
			bm.Color = f.Theme.Primary.Mix(f.Theme.Accent, mix).Scale(0.6 + b*0.8)
		} else {
			hue := float32(math.Mod(float64(bm.Hue)+t*0.05, 1))
			bm.Color = common.HSL(hue, 1, 0.4+b*0.4)
		}
	}
	return nil
}

// Beams returns a copy of the beam states.
func (l *Lasers) Beams() []Beam {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Beam(nil), l.beams...)
}
