package common

import (
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], 1, 2, 3, 0.1, 0.2, 0.3, 1, 2, 3)
	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Errorf("I*M != M: %v vs %v", out, m)
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out, id [16]float32
	BuildModelMatrix(m[:], 4, -2, 7, 0.3, 1.1, -0.4, 2, 2, 2)
	if !Invert4(inv[:], m[:]) {
		t.Fatal("expected matrix to be invertible")
	}
	Mul4(out[:], m[:], inv[:])
	Identity(id[:])
	for i := range out {
		if !approx(out[i], id[i], 1e-4) {
			t.Fatalf("M*inv(M)[%d] = %f, want %f", i, out[i], id[i])
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	var m, out [16]float32
	if Invert4(out[:], m[:]) {
		t.Error("zero matrix should not invert")
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], float32(math.Pi/2), 1, 0.1, 100)

	near := TransformPoint4(proj[:], 0, 0, -0.1)
	if !approx(near[2]/near[3], 0, 1e-5) {
		t.Errorf("near plane depth = %f, want 0", near[2]/near[3])
	}
	far := TransformPoint4(proj[:], 0, 0, -100)
	if !approx(far[2]/far[3], 1, 1e-4) {
		t.Errorf("far plane depth = %f, want 1", far[2]/far[3])
	}
	behind := TransformPoint4(proj[:], 0, 0, 5)
	if behind[3] >= 0 {
		t.Errorf("point behind the eye should have w < 0, got %f", behind[3])
	}
}

func TestComposeTRSMatchesEuler(t *testing.T) {
	// 90 degrees about Y.
	s := float32(math.Sin(math.Pi / 4))
	c := float32(math.Cos(math.Pi / 4))
	var trs, euler [16]float32
	ComposeTRS(trs[:], [3]float32{1, 2, 3}, [4]float32{0, s, 0, c}, [3]float32{1, 1, 1})
	BuildModelMatrix(euler[:], 1, 2, 3, 0, math.Pi/2, 0, 1, 1, 1)
	for i := range trs {
		if !approx(trs[i], euler[i], 1e-5) {
			t.Fatalf("element %d: trs=%f euler=%f", i, trs[i], euler[i])
		}
	}
}

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.875},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseOutCubic(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp01NaN(t *testing.T) {
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Clamp01(NaN) = %v, want 0", got)
	}
	if got := Clamp01(math.Inf(1)); got != 1 {
		t.Errorf("Clamp01(+Inf) = %v, want 1", got)
	}
}

func TestFrustumContainsSphere(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], float32(75*math.Pi/180), 16.0/9.0, 0.1, 1000)
	Mul4(vp[:], proj[:], view[:])
	f := ExtractFrustumFromMatrix(vp[:])

	if !f.ContainsSphere([3]float32{0, 0, 0}, 1) {
		t.Error("sphere at the look target should be inside")
	}
	if f.ContainsSphere([3]float32{0, 0, 20}, 1) {
		t.Error("sphere behind the camera should be outside")
	}
	if f.ContainsSphere([3]float32{500, 0, 0}, 1) {
		t.Error("sphere far to the right should be outside")
	}
}

func TestColor3Clamped(t *testing.T) {
	c := Color3{-0.5, 0.5, 3}.Clamped()
	if c != (Color3{0, 0.5, 1}) {
		t.Errorf("Clamped = %v", c)
	}
	if got := (Color3{1, 0, 0}).RGBA(); got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("RGBA = %v", got)
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float32
		want    Color3
	}{
		{0, 1, 0.5, Color3{1, 0, 0}},
		{1.0 / 3, 1, 0.5, Color3{0, 1, 0}},
		{2.0 / 3, 1, 0.5, Color3{0, 0, 1}},
		{1.5, 0, 0.25, Color3{0.25, 0.25, 0.25}},
		{-1, 1, 0.5, Color3{1, 0, 0}},
	}
	for _, tt := range tests {
		got := HSL(tt.h, tt.s, tt.l)
		for i := range got {
			if math.Abs(float64(got[i]-tt.want[i])) > 1e-5 {
				t.Errorf("HSL(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
				break
			}
		}
	}
}
