package effects

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
)

// Strobe flashes the whole stage on strong beats.
type Strobe struct {
	mu        sync.Mutex
	rng       beat.Rand
	intensity float32
	color     common.Color3
}

var _ driver.Subsystem = &Strobe{}

// NewStrobe creates a dark strobe.
func NewStrobe(rng beat.Rand) *Strobe {
	return &Strobe{rng: defaultRand(rng), color: common.Color3{1, 1, 1}}
}

func (s *Strobe) Kind() driver.Kind {
	return driver.KindStrobe
}

func (s *Strobe) Update(f *driver.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := float32(f.Beat)
	if f.Playing && b > 0.5 {
		s.intensity = 0
		if s.rng.Float64() > 1-f.Theme.StrobeChance {
			s.intensity = 0.5 + b*0.5
			s.color = f.Theme.Accent
		}
		return nil
	}
	s.intensity *= 0.9
	return nil
}

// Flash returns the current strobe intensity and color.
func (s *Strobe) Flash() (float32, common.Color3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intensity, s.color
}
