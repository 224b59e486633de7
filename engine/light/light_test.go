package light

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

func TestLightClampsAndNormalizes(t *testing.T) {
	l := NewLight(LightTypeSpot, WithDirection(0, -2, 0))
	if l.Direction() != [3]float32{0, -1, 0} {
		t.Errorf("direction = %v", l.Direction())
	}
	l.SetIntensity(-3)
	if l.Intensity() != 0 {
		t.Errorf("intensity = %v", l.Intensity())
	}
	l.SetColor(common.Color3{2, 0.5, -1})
	if l.Color() != (common.Color3{1, 0.5, 0}) {
		t.Errorf("color = %v", l.Color())
	}
	l.SetSpotCone(60, 90)
	inner, outer := l.Cone()
	if math.Abs(float64(inner-0.5)) > 1e-6 || math.Abs(float64(outer)) > 1e-6 {
		t.Errorf("cone = %v, %v", inner, outer)
	}
}

func TestDefaultRig(t *testing.T) {
	r := DefaultRig()
	if n := len(r.OfType(LightTypeMoving)); n != 8 {
		t.Errorf("moving lights = %d", n)
	}
	if n := len(r.OfType(LightTypePoint)); n != 6 {
		t.Errorf("tower lights = %d", n)
	}
	left, right := 0, 0
	for _, l := range r.OfType(LightTypePoint) {
		if l.Side() < 0 {
			left++
		} else {
			right++
		}
	}
	if left != 3 || right != 3 {
		t.Errorf("tower sides = %d left, %d right", left, right)
	}
}

func TestRigAmbient(t *testing.T) {
	a := NewLight(LightTypePoint, WithColor(common.Color3{1, 0, 0}), WithIntensity(1))
	b := NewLight(LightTypePoint, WithColor(common.Color3{0, 0, 1}), WithIntensity(0.5))
	off := NewLight(LightTypePoint, WithColor(common.Color3{0, 1, 0}), WithEnabled(false))
	r := NewRig(a, b, off)

	got := r.Ambient()
	if got != (common.Color3{0.5, 0, 0.25}) {
		t.Errorf("ambient = %v", got)
	}
	if NewRig().Ambient() != (common.Color3{}) {
		t.Error("empty rig should be dark")
	}
}
