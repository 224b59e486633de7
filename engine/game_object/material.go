package game_object

import (
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

type materialImpl struct {
	mu *sync.Mutex

	opacity  float32
	color    common.Color3
	emissive float32
	texture  image.Image
	revision uint64
}

// Material holds the per-object surface state the stage effects mutate every frame.
type Material interface {
	// Opacity returns the material opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetOpacity sets the opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Color returns the base color.
	//
	// Returns:
	//   - common.Color3: the color
	Color() common.Color3

	// SetColor sets the base color, clamped to [0, 1].
	//
	// Parameters:
	//   - c: the new color
	SetColor(c common.Color3)

	// Emissive returns the emissive intensity.
	//
	// Returns:
	//   - float32: emissive intensity
	Emissive() float32

	// SetEmissive sets the emissive intensity. Negative values clamp to 0.
	//
	// Parameters:
	//   - e: the new intensity
	SetEmissive(e float32)

	// Texture returns the current texture image, or nil.
	//
	// Returns:
	//   - image.Image: the texture or nil
	Texture() image.Image

	// SetTexture replaces the texture and bumps the revision.
	//
	// Parameters:
	//   - img: the new texture, or nil for none
	SetTexture(img image.Image)

	// Revision counts texture replacements so uploaders can detect changes.
	//
	// Returns:
	//   - uint64: the revision
	Revision() uint64
}

var _ Material = &materialImpl{}

// NewMaterial creates an opaque white material.
//
// Returns:
//   - Material: the new material
func NewMaterial() Material {
	return &materialImpl{
		mu:      &sync.Mutex{},
		opacity: 1,
		color:   common.Color3{1, 1, 1},
	}
}

func (m *materialImpl) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *materialImpl) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = float32(common.Clamp01(float64(opacity)))
}

func (m *materialImpl) Color() common.Color3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *materialImpl) SetColor(c common.Color3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = c.Clamped()
}

func (m *materialImpl) Emissive() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emissive
}

func (m *materialImpl) SetEmissive(e float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissive = max(e, 0)
}

func (m *materialImpl) Texture() image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texture
}

func (m *materialImpl) SetTexture(img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texture = img
	m.revision++
}

func (m *materialImpl) Revision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision
}
