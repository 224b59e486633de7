package effects

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// BackgroundUniforms are the values the background shader reads each frame.
type BackgroundUniforms struct {
	Time          float32
	Mouse         common.Vec2
	Scroll        float32
	Beat          float32
	SongTint      common.Color3
	LiveIntensity float32
}

// Background drives the full-screen shader behind the stage.
type Background struct {
	mu   sync.Mutex
	u    BackgroundUniforms
	base common.Color3
}

var _ driver.Subsystem = &Background{}

// NewBackground creates the background with the default tint and no live intensity.
func NewBackground() *Background {
	return &Background{
		u:    BackgroundUniforms{SongTint: theme.DefaultTheme.ShaderTint},
		base: common.Color3{0.03, 0.01, 0.06},
	}
}

func (b *Background) Kind() driver.Kind {
	return driver.KindBackground
}

func (b *Background) Update(f *driver.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.u.Time = float32(f.Seconds())
	b.u.Mouse = f.RawPointer
	b.u.Scroll = f.Scroll
	b.u.Beat = float32(f.Beat)
	if f.HasTheme {
		b.u.SongTint = f.Theme.ShaderTint
		b.u.LiveIntensity += (1 - b.u.LiveIntensity) * 0.05
	} else {
		b.u.LiveIntensity *= 0.95
	}
	return nil
}

// Uniforms returns the values computed by the last update.
func (b *Background) Uniforms() BackgroundUniforms {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.u
}

// ClearColor is the flat color the renderer clears to: a dark base lifted by the
// song tint in proportion to the live intensity and the beat.
func (b *Background) ClearColor() common.Color3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	lift := b.u.LiveIntensity * (0.12 + b.u.Beat*0.3)
	t := b.u.SongTint.Clamped().Scale(lift)
	return common.Color3{b.base[0] + t[0], b.base[1] + t[1], b.base[2] + t[2]}.Clamped()
}
