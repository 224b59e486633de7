package effects

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
)

const (
	// DefaultBarCount is the number of visualizer bars.
	DefaultBarCount = 32
	vizRefresh      = 80 * time.Millisecond
)

// VizBars is the fake spectrum strip under the screen. Heights refresh on a
// fixed cadence rather than every frame.
type VizBars struct {
	mu      sync.Mutex
	rng     beat.Rand
	heights []float32
	last    time.Duration
	primed  bool
}

var _ driver.Subsystem = &VizBars{}

// NewVizBars creates count flat bars.
func NewVizBars(count int, rng beat.Rand) *VizBars {
	return &VizBars{rng: defaultRand(rng), heights: make([]float32, count)}
}

func (v *VizBars) Kind() driver.Kind {
	return driver.KindVizBars
}

func (v *VizBars) Update(f *driver.Frame) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.primed && f.Elapsed-v.last < vizRefresh {
		return nil
	}
	v.primed = true
	v.last = f.Elapsed

	ms := float64(f.Elapsed.Milliseconds())
	b := float32(f.Beat)
	for i := range v.heights {
		if f.Playing {
			wave := sinf(ms*0.005+float64(i)*0.8)*0.5 + 0.5
			v.heights[i] = 5 + wave*25*b + float32(v.rng.Float64())*5
		} else {
			v.heights[i] = float32(v.rng.Float64())*8 + 3
		}
	}
	return nil
}

// Heights returns the bar heights in percent of the strip.
func (v *VizBars) Heights() []float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]float32(nil), v.heights...)
}
