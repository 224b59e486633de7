package effects

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
)

const (
	fireworkParticles = 40
	fireworkGravity   = -0.001
)

var fireworkColors = []common.Color3{
	hex(0xff1493), hex(0x00bfff), hex(0xffd700), hex(0xff4500), hex(0x00ff7f), hex(0xff69b4),
}

func hex(v uint32) common.Color3 {
	return common.Color3{float32(v>>16&0xff) / 255, float32(v>>8&0xff) / 255, float32(v&0xff) / 255}
}

// Burst is one firework explosion.
type Burst struct {
	Color     common.Color3
	Positions [][3]float32
	Opacity   float32

	velocities [][3]float32
	life       float32
	decay      float32
}

// Fireworks launches bursts over the stage on strong beats.
type Fireworks struct {
	mu     sync.Mutex
	rng    beat.Rand
	bursts []*Burst
}

var _ driver.Subsystem = &Fireworks{}

// NewFireworks creates an empty sky.
func NewFireworks(rng beat.Rand) *Fireworks {
	return &Fireworks{rng: defaultRand(rng)}
}

func (fw *Fireworks) Kind() driver.Kind {
	return driver.KindFireworks
}

func (fw *Fireworks) Update(f *driver.Frame) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if f.Playing && f.Beat > 0.7 && fw.rng.Float64() > 0.92 {
		fw.spawn()
	}

	alive := fw.bursts[:0]
	for _, b := range fw.bursts {
		for i := range b.Positions {
			v := &b.velocities[i]
			v[1] += fireworkGravity
			b.Positions[i] = [3]float32{b.Positions[i][0] + v[0], b.Positions[i][1] + v[1], b.Positions[i][2] + v[2]}
		}
		b.life -= b.decay
		b.Opacity = max(0, b.life)
		if b.life > 0 {
			alive = append(alive, b)
		}
	}
	clear(fw.bursts[len(alive):])
	fw.bursts = alive
	return nil
}

func (fw *Fireworks) spawn() {
	r := fw.rng
	origin := [3]float32{
		float32((r.Float64() - 0.5) * 20),
		float32(6 + r.Float64()*4),
		float32(-10 - r.Float64()*5),
	}
	b := &Burst{
		Color:      fireworkColors[int(r.Float64()*float64(len(fireworkColors)))%len(fireworkColors)],
		Positions:  make([][3]float32, fireworkParticles),
		velocities: make([][3]float32, fireworkParticles),
		Opacity:    1,
		life:       1,
		decay:      float32(0.015 + r.Float64()*0.01),
	}
	for i := range b.Positions {
		b.Positions[i] = origin
		theta := r.Float64() * 2 * math.Pi
		phi := math.Acos(2*r.Float64() - 1)
		speed := 0.04 + r.Float64()*0.08
		b.velocities[i] = [3]float32{
			float32(math.Sin(phi) * math.Cos(theta) * speed),
			float32(math.Sin(phi) * math.Sin(theta) * speed),
			float32(math.Cos(phi) * speed),
		}
	}
	fw.bursts = append(fw.bursts, b)
}

// Bursts returns copies of the live bursts.
func (fw *Fireworks) Bursts() []Burst {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	out := make([]Burst, len(fw.bursts))
	for i, b := range fw.bursts {
		out[i] = Burst{
			Color:     b.Color,
			Positions: append([][3]float32(nil), b.Positions...),
			Opacity:   b.Opacity,
		}
	}
	return out
}
