package effects

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/light"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// constRand always returns v.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func liveFrame(beatValue float64) *driver.Frame {
	th := theme.Lookup("_cf4UTe1qrY")
	return &driver.Frame{
		Elapsed:   2 * time.Second,
		Delta:     16 * time.Millisecond,
		Beat:      beatValue,
		Theme:     th,
		HasTheme:  true,
		Playing:   true,
		LiveBoost: th.Intensity,
		Width:     1600,
		Height:    900,
	}
}

func idleFrame() *driver.Frame {
	return &driver.Frame{Elapsed: 2 * time.Second, Theme: theme.DefaultTheme, Width: 1600, Height: 900}
}

func TestBackgroundLiveIntensity(t *testing.T) {
	bg := NewBackground()
	f := liveFrame(0.5)
	f.RawPointer = common.Vec2{X: 0.25, Y: 0.75}
	for range 10 {
		_ = bg.Update(f)
	}
	u := bg.Uniforms()
	want := float32(1 - math.Pow(0.95, 10))
	if !approx(u.LiveIntensity, want, 1e-4) {
		t.Errorf("live intensity = %v, want %v", u.LiveIntensity, want)
	}
	if u.Mouse != f.RawPointer || u.SongTint != f.Theme.ShaderTint || u.Beat != 0.5 {
		t.Errorf("uniforms = %+v", u)
	}

	idle := idleFrame()
	_ = bg.Update(idle)
	if got := bg.Uniforms().LiveIntensity; !approx(got, want*0.95, 1e-4) {
		t.Errorf("idle decay = %v, want %v", got, want*0.95)
	}
}

func TestBackgroundClearColorIsDarkWhenIdle(t *testing.T) {
	bg := NewBackground()
	_ = bg.Update(idleFrame())
	c := bg.ClearColor()
	if c != (common.Color3{0.03, 0.01, 0.06}) {
		t.Errorf("idle clear color = %v", c)
	}
}

func TestPenlightsRecolorWhilePlaying(t *testing.T) {
	p := NewPenlights(50, constRand(0.3))
	f := liveFrame(0.8)
	if err := p.Update(f); err != nil {
		t.Fatal(err)
	}
	lo, hi := f.Theme.Secondary, f.Theme.Primary
	for i, c := range p.Colors() {
		for k := range 3 {
			a, b := min(lo[k], hi[k]), max(lo[k], hi[k])
			if c[k] < a-1e-5 || c[k] > b+1e-5 {
				t.Fatalf("color %d = %v not between %v and %v", i, c, lo, hi)
			}
		}
	}
	size, op := p.Material()
	if !approx(size, 0.04+0.8*0.1, 1e-5) || !approx(op, 0.6+0.8*0.3, 1e-5) {
		t.Errorf("material = %v, %v", size, op)
	}
}

func TestPenlightsIdleKeepsPalette(t *testing.T) {
	p := NewPenlights(20, constRand(0))
	before := p.Colors()
	_ = p.Update(idleFrame())
	after := p.Colors()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("color %d changed while idle", i)
		}
	}
	size, op := p.Material()
	if size != penlightBaseSize || op != penlightBaseOpacity {
		t.Errorf("idle material = %v, %v", size, op)
	}
}

func TestPenlightsMaterialDoesNotRatchet(t *testing.T) {
	p := NewPenlights(5, constRand(0.5))
	_ = p.Update(liveFrame(1))
	_ = p.Update(liveFrame(0))
	size, _ := p.Material()
	if !approx(size, 0.04, 1e-5) {
		t.Errorf("size after a quiet beat = %v, want 0.04", size)
	}
}

func TestPenlightsRotationFollowsPointer(t *testing.T) {
	p := NewPenlights(1, constRand(0.5))
	f := idleFrame()
	f.Elapsed = 0
	f.Pointer = common.Vec2{X: 1, Y: -1}
	f.Scroll = 1
	_ = p.Update(f)
	rot := p.Rotation()
	if !approx(rot[1], 0.15+0.3, 1e-5) || !approx(rot[0], -0.08+0.3*0.15, 1e-5) {
		t.Errorf("rotation = %v", rot)
	}
}

func TestLasersIdleUseRainbow(t *testing.T) {
	l := NewLasers(DefaultLaserCount, constRand(0.2))
	f := idleFrame()
	f.Elapsed = 0
	_ = l.Update(f)
	beams := l.Beams()
	if len(beams) != 12 {
		t.Fatalf("beams = %d", len(beams))
	}
	if beams[0].Color != common.HSL(0, 1, 0.4) {
		t.Errorf("beam 0 color = %v", beams[0].Color)
	}
	for i, b := range beams {
		if b.Opacity < 0.02-1e-6 || b.Opacity > 0.06+1e-6 {
			t.Errorf("idle beam %d opacity %v", i, b.Opacity)
		}
	}
}

func TestLasersBrightenOnBeat(t *testing.T) {
	l := NewLasers(4, constRand(0.2))
	_ = l.Update(liveFrame(0))
	quiet := l.Beams()
	_ = l.Update(liveFrame(1))
	loud := l.Beams()
	for i := range loud {
		if loud[i].Opacity <= quiet[i].Opacity {
			t.Errorf("beam %d opacity %v not above %v", i, loud[i].Opacity, quiet[i].Opacity)
		}
	}
}

func TestBeamSegment(t *testing.T) {
	l := NewLasers(4, constRand(0.2))
	beams := l.Beams()
	if beams[0].Origin != [3]float32{-3, 3, -6} || beams[3].Origin != [3]float32{1.5, 3, -6} {
		t.Fatalf("origins = %v, %v", beams[0].Origin, beams[3].Origin)
	}

	tests := []struct {
		name     string
		rotation [2]float32
		from, to [3]float32
	}{
		{"upright", [2]float32{0, 0}, [3]float32{-3, -9.5, -6}, [3]float32{-3, 15.5, -6}},
		{"tipped forward", [2]float32{math.Pi / 2, 0}, [3]float32{-3, 3, -18.5}, [3]float32{-3, 3, 6.5}},
		{"rolled", [2]float32{0, math.Pi / 2}, [3]float32{9.5, 3, -6}, [3]float32{-15.5, 3, -6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := beams[0]
			b.Rotation = tt.rotation
			from, to := b.Segment()
			for k := range 3 {
				if !approx(from[k], tt.from[k], 1e-4) || !approx(to[k], tt.to[k], 1e-4) {
					t.Fatalf("segment = %v -> %v, want %v -> %v", from, to, tt.from, tt.to)
				}
			}
		})
	}
}

func TestHeartsCyclePalette(t *testing.T) {
	palette := theme.PenlightPalette()
	h := NewHearts(len(palette)+1, constRand(0.5))
	hs := h.Hearts()
	for i, hr := range hs {
		if hr.Color != palette[i%len(palette)] {
			t.Errorf("heart %d color %v, want %v", i, hr.Color, palette[i%len(palette)])
		}
	}
}

func TestLightsIdleAndPlaying(t *testing.T) {
	rig := light.DefaultRig()
	lt := NewLights(rig)

	_ = lt.Update(idleFrame())
	for _, ml := range rig.OfType(light.LightTypeMoving) {
		if ml.Intensity() > 0.12*1.0+1e-5 {
			t.Errorf("idle moving intensity %v above 0.12", ml.Intensity())
		}
	}

	f := liveFrame(1)
	_ = lt.Update(f)
	cones := lt.Cones()
	if len(cones) != 5 {
		t.Fatalf("cones = %d, want 5", len(cones))
	}
	if cones[0].Color != f.Theme.Primary || cones[1].Color != f.Theme.Secondary || cones[2].Color != f.Theme.Accent {
		t.Errorf("cone colors = %v", cones)
	}
	for _, ml := range rig.OfType(light.LightTypeMoving) {
		if ml.Intensity() < 0.2-1e-5 {
			t.Errorf("playing moving intensity %v below floor", ml.Intensity())
		}
	}
}

func TestStrobe(t *testing.T) {
	s := NewStrobe(constRand(0.99))
	f := liveFrame(0.8)
	f.Theme.StrobeChance = 0.5
	_ = s.Update(f)
	in, c := s.Flash()
	if !approx(in, 0.9, 1e-6) || c != f.Theme.Accent {
		t.Errorf("flash = %v %v", in, c)
	}

	_ = s.Update(idleFrame())
	if in, _ := s.Flash(); !approx(in, 0.81, 1e-6) {
		t.Errorf("decayed = %v, want 0.81", in)
	}

	quiet := NewStrobe(constRand(0.1))
	_ = quiet.Update(f)
	if in, _ := quiet.Flash(); in != 0 {
		t.Errorf("unlucky roll should not flash, got %v", in)
	}
}

func TestFireworksLifecycle(t *testing.T) {
	fw := NewFireworks(constRand(0.95))
	_ = fw.Update(liveFrame(0.9))
	bursts := fw.Bursts()
	if len(bursts) != 1 || len(bursts[0].Positions) != fireworkParticles {
		t.Fatalf("bursts = %d", len(bursts))
	}

	for range 200 {
		_ = fw.Update(idleFrame())
	}
	if n := len(fw.Bursts()); n != 0 {
		t.Errorf("%d bursts still alive", n)
	}
	if fw.Kind() != driver.KindFireworks {
		t.Errorf("kind = %v", fw.Kind())
	}
}

func TestHeartsPumpAndCapOpacity(t *testing.T) {
	h := NewHearts(DefaultHeartCount, constRand(0.5))
	rest := h.Hearts()[0].Scale
	for range 60 {
		_ = h.Update(liveFrame(1))
	}
	for _, hr := range h.Hearts() {
		if hr.Opacity > 0.3 {
			t.Errorf("opacity %v above cap", hr.Opacity)
		}
	}
	want := rest * (1 + 0.5*1.3)
	if got := h.Hearts()[0].Scale; !approx(got, want, 1e-3) {
		t.Errorf("scale = %v, want %v", got, want)
	}
}

func TestVizBarsRefreshCadence(t *testing.T) {
	v := NewVizBars(8, constRand(0.5))
	f := idleFrame()
	_ = v.Update(f)
	for _, h := range v.Heights() {
		if h != 7 {
			t.Fatalf("idle height = %v, want 7", h)
		}
	}

	live := liveFrame(1)
	live.Elapsed = f.Elapsed + 40*time.Millisecond
	_ = v.Update(live)
	if v.Heights()[0] != 7 {
		t.Errorf("bars refreshed before the cadence elapsed")
	}
	live.Elapsed = f.Elapsed + 80*time.Millisecond
	_ = v.Update(live)
	if v.Heights()[0] < 5 {
		t.Errorf("live height = %v", v.Heights()[0])
	}
}

func TestCameraRigShakesOnlyWhilePlaying(t *testing.T) {
	ctrl := camera.NewStageController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	stage := game_object.NewGameObject()
	rig := NewCameraRig(cam, ctrl, stage)

	f := idleFrame()
	f.Scroll = 1
	_ = rig.Update(f)
	if rig.Shake() != ([2]float32{}) {
		t.Errorf("idle shake = %v", rig.Shake())
	}
	if pos := stage.Position(); pos != ([3]float32{0, -2, -8}) {
		t.Errorf("stage position = %v", pos)
	}
	if !approx(cam.Aspect(), 1600.0/900, 1e-5) {
		t.Errorf("aspect = %v", cam.Aspect())
	}

	_ = rig.Update(liveFrame(1))
	if rig.Shake() == ([2]float32{}) {
		t.Error("playing frame did not shake")
	}
}

func TestScreenSwallowsProjectionFallback(t *testing.T) {
	ctrl := camera.NewStageController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	cam.Update()
	// Anchor behind the home view.
	anchor := game_object.NewGameObject(game_object.WithPosition(0, 0, 20), game_object.WithHalfExtents(2, 1))
	p := projector.NewProjector()
	p.SetSource("_cf4UTe1qrY")

	var got projector.Overlay
	s := NewScreen(p, anchor, cam, func(o projector.Overlay) { got = o })
	if err := s.Update(idleFrame()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.Fallback || got.Source != "_cf4UTe1qrY" {
		t.Errorf("overlay = %+v", got)
	}
}

func TestSubsystemKinds(t *testing.T) {
	subs := []driver.Subsystem{
		NewBackground(), NewPenlights(1, nil), NewLasers(1, nil), NewLights(nil),
		NewStrobe(nil), NewFireworks(nil), NewHearts(1, nil), NewVizBars(1, nil),
	}
	want := []driver.Kind{
		driver.KindBackground, driver.KindPenlights, driver.KindLasers, driver.KindLights,
		driver.KindStrobe, driver.KindFireworks, driver.KindHearts, driver.KindVizBars,
	}
	d := driver.NewDriver()
	for i, s := range subs {
		if s.Kind() != want[i] {
			t.Errorf("%T kind = %v, want %v", s, s.Kind(), want[i])
		}
		if err := d.Register(s); err != nil {
			t.Fatal(err)
		}
	}
	d.Step(time.Second)
	if n := len(d.Failures()); n != 0 {
		t.Errorf("failures = %v", d.Failures())
	}
}
