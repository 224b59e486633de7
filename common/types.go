// package common contains plain value types and math helpers shared across the stage engine.
// They are not interface-wrapped structs, just plain structs that express commonly used data-types.
package common

import (
	"image/color"
	"math"
)

// Color3 is a linear RGB triple with components nominally in [0, 1].
type Color3 [3]float32

// Clamped returns a copy of c with each component clamped into [0, 1].
func (c Color3) Clamped() Color3 {
	for i := range c {
		c[i] = float32(Clamp01(float64(c[i])))
	}
	return c
}

// Scale multiplies every component by s.
func (c Color3) Scale(s float32) Color3 {
	return Color3{c[0] * s, c[1] * s, c[2] * s}
}

// Mix blends c toward o by t.
//
// Parameters:
//   - o: the target color
//   - t: blend factor, 0 keeps c and 1 yields o
//
// Returns:
//   - Color3: the blended color
func (c Color3) Mix(o Color3, t float32) Color3 {
	return Color3{Lerp(c[0], o[0], t), Lerp(c[1], o[1], t), Lerp(c[2], o[2], t)}
}

// RGBA converts the clamped color to an 8-bit color.RGBA with full alpha.
func (c Color3) RGBA() color.RGBA {
	cl := c.Clamped()
	return color.RGBA{
		R: uint8(cl[0]*255 + 0.5),
		G: uint8(cl[1]*255 + 0.5),
		B: uint8(cl[2]*255 + 0.5),
		A: 255,
	}
}

// Color3FromColor converts any color.Color into a Color3, discarding alpha.
func Color3FromColor(c color.Color) Color3 {
	r, g, b, _ := c.RGBA()
	return Color3{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff}
}

// Vec2 is a 2D vector, used for normalized pointer and viewport coordinates.
type Vec2 struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle in viewport pixels with the origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Area returns W*H, or 0 for a degenerate rectangle.
func (r Rect) Area() float32 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Intersects reports whether r overlaps the rectangle (0, 0, w, h).
func (r Rect) Intersects(w, h float32) bool {
	return r.X < w && r.Y < h && r.X+r.W > 0 && r.Y+r.H > 0
}

// HSL converts hue, saturation and lightness in [0, 1] to a Color3. Hue wraps.
func HSL(h, s, l float32) Color3 {
	h = h - float32(math.Floor(float64(h)))
	if s <= 0 {
		return Color3{l, l, l}
	}
	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return Color3{hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)}
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
