package effects

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
)

type frameViewport struct {
	w, h int
}

func (v frameViewport) Width() int  { return v.w }
func (v frameViewport) Height() int { return v.h }

// Screen keeps the video overlay on the back screen anchor.
type Screen struct {
	proj      projector.Projector
	anchor    game_object.GameObject
	cam       camera.Camera
	onOverlay func(projector.Overlay)
}

var _ driver.Subsystem = &Screen{}

// NewScreen projects anchor through cam. onOverlay, when non-nil, receives every
// resulting overlay.
func NewScreen(p projector.Projector, anchor game_object.GameObject, cam camera.Camera, onOverlay func(projector.Overlay)) *Screen {
	return &Screen{proj: p, anchor: anchor, cam: cam, onOverlay: onOverlay}
}

func (s *Screen) Kind() driver.Kind {
	return driver.KindScreen
}

// Update runs the projector. Projection failures are an expected outcome that
// fall back to the centered overlay, so only other errors are reported.
func (s *Screen) Update(f *driver.Frame) error {
	if s.anchor == nil {
		return nil
	}
	ov, err := s.proj.Update(s.anchor, s.cam, frameViewport{f.Width, f.Height})
	if s.onOverlay != nil {
		s.onOverlay(ov)
	}
	if err != nil && !errors.Is(err, projector.ErrInvalid) {
		return err
	}
	return nil
}
