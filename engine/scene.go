package engine

import (
	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer"
)

// fireworkSize is the spark diameter in world units.
const fireworkSize = 0.08

// Scene lists the stage parts drawn over the backdrop. Nil fields are skipped.
type Scene struct {
	Camera camera.Camera
	// Group is the stage group the fireworks burst in.
	Group     game_object.GameObject
	Penlights *effects.Penlights
	Lasers    *effects.Lasers
	Hearts    *effects.Hearts
	Fireworks *effects.Fireworks
	// Screens are drawn with their material texture and opacity.
	Screens []game_object.GameObject
}

// fill adds the scene layers to rf.
func (s *Scene) fill(rf *renderer.Frame) {
	if s.Camera != nil {
		rf.Camera = renderer.CameraFromView(s.Camera.ViewMatrix(), s.Camera.ViewProjectionMatrix())
	}
	rf.Screens = s.screens()
	rf.Lines = s.lines()
	rf.Sprites = s.sprites()
}

func (s *Scene) screens() []renderer.Screen {
	out := make([]renderer.Screen, 0, len(s.Screens))
	for _, obj := range s.Screens {
		if obj == nil || !obj.Enabled() {
			continue
		}
		m := obj.Material()
		w := obj.WorldMatrix()
		scr := renderer.Screen{
			ID:       obj.ID(),
			Image:    m.Texture(),
			Revision: m.Revision(),
			Opacity:  m.Opacity(),
		}
		for i, c := range obj.Corners() {
			p := common.TransformPoint4(w[:], c[0], c[1], c[2])
			scr.Corners[i] = [3]float32{p[0], p[1], p[2]}
		}
		out = append(out, scr)
	}
	return out
}

func (s *Scene) lines() []renderer.Line {
	if s.Lasers == nil {
		return nil
	}
	beams := s.Lasers.Beams()
	out := make([]renderer.Line, len(beams))
	for i, b := range beams {
		from, to := b.Segment()
		out[i] = renderer.Line{From: from, To: to, Color: b.Color, Alpha: b.Opacity}
	}
	return out
}

func (s *Scene) sprites() []renderer.Sprite {
	var out []renderer.Sprite

	if s.Penlights != nil {
		positions := s.Penlights.Positions()
		colors := s.Penlights.Colors()
		size, opacity := s.Penlights.Material()
		rot := s.Penlights.Rotation()
		var m [16]float32
		common.BuildModelMatrix(m[:], 0, 0, 0, rot[0], rot[1], 0, 1, 1, 1)
		for i, p := range positions {
			wp := common.TransformPoint4(m[:], p[0], p[1], p[2])
			out = append(out, renderer.Sprite{
				Position: [3]float32{wp[0], wp[1], wp[2]},
				Size:     size,
				Color:    colors[i],
				Alpha:    opacity,
			})
		}
	}

	if s.Hearts != nil {
		for _, h := range s.Hearts.Hearts() {
			out = append(out, renderer.Sprite{Position: h.Position, Size: h.Scale, Color: h.Color, Alpha: h.Opacity})
		}
	}

	if s.Fireworks != nil {
		var m [16]float32
		common.Identity(m[:])
		if s.Group != nil {
			m = s.Group.WorldMatrix()
		}
		for _, b := range s.Fireworks.Bursts() {
			for _, p := range b.Positions {
				wp := common.TransformPoint4(m[:], p[0], p[1], p[2])
				out = append(out, renderer.Sprite{
					Position: [3]float32{wp[0], wp[1], wp[2]},
					Size:     fireworkSize,
					Color:    b.Color,
					Alpha:    b.Opacity,
				})
			}
		}
	}
	return out
}
