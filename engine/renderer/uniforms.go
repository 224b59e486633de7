package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/cogentcore/webgpu/wgpu"
)

// uniformSize is the byte size of the WGSL Uniforms struct, padded to 16.
const uniformSize = 48

// Frame is everything the renderer needs to draw one frame.
type Frame struct {
	Background effects.BackgroundUniforms
	// Clear is the flat color behind the background pass.
	Clear common.Color3
	// Ambient is the summed ambient light of the rig; it lifts the clear color.
	Ambient common.Color3
	// Flash is the strobe intensity in [0, 1] and FlashColor its tint.
	Flash      float32
	FlashColor common.Color3
	// Aspect is width / height of the surface.
	Aspect float32

	// Camera projects the scene layers drawn over the background.
	Camera  Camera
	Sprites []Sprite
	Lines   []Line
	Screens []Screen
}

// ClearValue blends the clear color, a fraction of the ambient light and the
// strobe flash into the render pass clear color.
func (f Frame) ClearValue() wgpu.Color {
	c := common.Color3{
		f.Clear[0] + f.Ambient[0]*0.1,
		f.Clear[1] + f.Ambient[1]*0.1,
		f.Clear[2] + f.Ambient[2]*0.1,
	}
	c = c.Mix(f.FlashColor, float32(common.Clamp01(float64(f.Flash)))).Clamped()
	return wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1}
}

// Uniforms packs the frame into the std140-like layout of background.wgsl.
func (f Frame) Uniforms() []byte {
	u := f.Background
	aspect := f.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	fields := [uniformSize / 4]float32{
		u.Time, u.Scroll, u.Mouse.X, u.Mouse.Y,
		u.SongTint[0], u.SongTint[1], u.SongTint[2], u.Beat,
		u.LiveIntensity, float32(common.Clamp01(float64(f.Flash))), aspect, 0,
	}
	out := make([]byte, uniformSize)
	for i, v := range fields {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
