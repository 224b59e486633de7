package effects

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// DefaultPenlightCount is the size of the crowd's penlight sea.
const DefaultPenlightCount = 1500

// WaveMode is the crowd choreography while penlight mode is on.
type WaveMode int

const (
	// WaveOff is regular swinging.
	WaveOff WaveMode = iota
	// WaveWave ripples left to right.
	WaveWave
	// WaveJump bounces everyone together on the beat.
	WaveJump
	// WaveSync swings everyone side to side in unison.
	WaveSync
)

const (
	penlightBaseSize    = 0.025
	penlightBaseOpacity = 0.5
)

// Penlights animates the crowd's penlight particles.
type Penlights struct {
	mu sync.Mutex

	positions [][3]float32
	colors    []common.Color3
	phases    []float32

	size, opacity float32
	rotation      [2]float32
	mode          WaveMode
	autoColor     bool
}

var _ driver.Subsystem = &Penlights{}

// NewPenlights scatters count penlights over an arena-shaped fan in front of the
// stage, denser toward the front, each holding a member color.
//
// Parameters:
//   - count: number of particles
//   - rng: random source, nil for a seeded default
//
// Returns:
//   - *Penlights: the crowd
func NewPenlights(count int, rng beat.Rand) *Penlights {
	rng = defaultRand(rng)
	palette := theme.PenlightPalette()
	p := &Penlights{
		positions: make([][3]float32, count),
		colors:    make([]common.Color3, count),
		phases:    make([]float32, count),
		size:      penlightBaseSize,
		opacity:   penlightBaseOpacity,
		autoColor: true,
	}
	for i := range count {
		angle := (rng.Float64() - 0.5) * math.Pi * 0.8
		dist := rng.Float64()*10 + 4
		p.positions[i] = [3]float32{
			float32(math.Sin(angle) * dist),
			float32((rng.Float64()-0.5)*3 - 4),
			float32(-math.Cos(angle)*dist - 2),
		}
		p.colors[i] = palette[int(rng.Float64()*float64(len(palette)))%len(palette)]
		p.phases[i] = float32(rng.Float64() * 2 * math.Pi)
	}
	return p
}

func (p *Penlights) Kind() driver.Kind {
	return driver.KindPenlights
}

// SetWaveMode switches the choreography.
func (p *Penlights) SetWaveMode(m WaveMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
}

// SetAutoColor enables recoloring the crowd with the song's colors.
func (p *Penlights) SetAutoColor(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoColor = on
}

func (p *Penlights) Update(f *driver.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := f.Seconds()
	b := float32(f.Beat)
	bpmFactor := 1.0
	if f.HasTheme {
		bpmFactor = f.Theme.BPM / 120
	}
	swing := b * float32(f.LiveBoost)
	recolor := p.autoColor && f.HasTheme && f.Playing

	for i := range p.positions {
		pos := &p.positions[i]
		x := float64(pos[0])
		phase := float64(p.phases[i])

		pos[1] += sinf(t*1.8+x*0.5+phase) * 0.001
		pos[0] += cosf(t*0.3+float64(i)*0.002) * 0.0003

		if b > 0.1 {
			switch p.mode {
			case WaveWave:
				delay := x * 0.4
				pos[1] += sinf(t*4*bpmFactor+delay) * swing * 0.015
				pos[0] += cosf(t*2*bpmFactor+delay) * swing * 0.006
			case WaveJump:
				jump := sinf(t * math.Pi * bpmFactor * 2)
				pos[1] += max(0, jump) * swing * 0.02
				pos[0] += cosf(t*6+phase) * swing * 0.003
			case WaveSync:
				pos[0] += sinf(t*math.Pi*bpmFactor*2) * swing * 0.012
				pos[1] += float32(math.Abs(math.Cos(t*math.Pi*bpmFactor*2))) * swing * 0.005
			default:
				pos[1] += sinf(t*6+phase) * swing * 0.008
				pos[0] += cosf(t*4+phase*2) * swing * 0.004
			}
		}

		if recolor {
			mix := (sinf(t*0.5+phase*0.3) + 1) * 0.5
			p.colors[i] = f.Theme.Secondary.Mix(f.Theme.Primary, mix)
		}
	}

	p.size, p.opacity = penlightBaseSize, penlightBaseOpacity
	if p.mode != WaveOff {
		p.size = 0.1 + sinf(t*4)*0.03 + b*0.08
		p.opacity = 0.9 + sinf(t*2)*0.1
	}
	if f.Playing {
		p.size = max(p.size, 0.04+b*0.1)
		p.opacity = max(p.opacity, 0.6+b*0.3)
	}

	scrollFactor := f.Scroll * 0.3
	p.rotation[0] = f.Pointer.Y*0.08 + scrollFactor*0.15
	p.rotation[1] = float32(t*0.012) + f.Pointer.X*0.15 + scrollFactor
	return nil
}

// Count returns the number of particles.
func (p *Penlights) Count() int {
	return len(p.positions)
}

// Positions returns a copy of the particle positions.
func (p *Penlights) Positions() [][3]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][3]float32(nil), p.positions...)
}

// Colors returns a copy of the particle colors.
func (p *Penlights) Colors() []common.Color3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]common.Color3(nil), p.colors...)
}

// Material returns the point size and opacity shared by all particles.
func (p *Penlights) Material() (size, opacity float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size, p.opacity
}

// Rotation returns the group rotation around x and y.
func (p *Penlights) Rotation() [2]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotation
}
