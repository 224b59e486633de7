package driver

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

type recorder struct {
	kind  Kind
	calls *[]Kind
	err   error
	panic bool
	seen  []Frame
}

func (r *recorder) Kind() Kind { return r.kind }

func (r *recorder) Update(f *Frame) error {
	*r.calls = append(*r.calls, r.kind)
	r.seen = append(r.seen, *f)
	if r.panic {
		panic("boom")
	}
	f.Beat = -1
	return r.err
}

type constBeat float64

func (b constBeat) Beat() float64 { return float64(b) }

type fakePlayback struct {
	th      *theme.Theme
	playing bool
}

func (p fakePlayback) Theme() *theme.Theme { return p.th }
func (p fakePlayback) IsPlaying() bool     { return p.playing }

func TestUpdateOrder(t *testing.T) {
	var calls []Kind
	d := NewDriver()
	for _, k := range []Kind{KindScreen, KindLasers, KindCameraRig, KindBackground} {
		if err := d.Register(&recorder{kind: k, calls: &calls}); err != nil {
			t.Fatal(err)
		}
	}
	d.Step(0)

	want := []Kind{KindCameraRig, KindLasers, KindBackground, KindScreen}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestScreenThrottleAndInvalidate(t *testing.T) {
	var calls []Kind
	d := NewDriver()
	screen := &recorder{kind: KindScreen, calls: &calls}
	_ = d.Register(screen)

	for i := 0; i < 7; i++ {
		d.Step(time.Duration(i) * 16 * time.Millisecond)
	}
	if got := len(screen.seen); got != 3 {
		t.Fatalf("screen ran %d times in 7 frames, want 3", got)
	}
	for i, f := range screen.seen {
		if f.Index%3 != 0 {
			t.Errorf("run %d on frame %d", i, f.Index)
		}
	}

	// Frame 7 would be skipped; Invalidate forces it.
	d.Invalidate()
	d.Step(200 * time.Millisecond)
	if got := len(screen.seen); got != 4 || screen.seen[3].Index != 7 {
		t.Errorf("forced run missing: %d runs", got)
	}
	d.Step(216 * time.Millisecond)
	if got := len(screen.seen); got != 4 {
		t.Errorf("force should last one frame, runs = %d", got)
	}
}

func TestFailuresAreIsolated(t *testing.T) {
	var calls []Kind
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	now := time.Unix(0, 0)
	d := NewDriver(WithClock(func() time.Time { return now }))
	_ = d.Register(&recorder{kind: KindLasers, calls: &calls, err: errors.New("bad laser")})
	_ = d.Register(&recorder{kind: KindStrobe, calls: &calls, panic: true})
	last := &recorder{kind: KindHearts, calls: &calls}
	_ = d.Register(last)

	for i := 0; i < 5; i++ {
		d.Step(time.Duration(i) * time.Millisecond)
	}
	if len(last.seen) != 5 {
		t.Errorf("later subsystem ran %d times, want 5", len(last.seen))
	}

	f := d.Failures()
	if f[KindLasers] != 5 || f[KindStrobe] != 5 {
		t.Errorf("failures = %v", f)
	}
	if _, ok := f[KindHearts]; ok {
		t.Error("healthy subsystem should not be counted")
	}
	if n := strings.Count(buf.String(), "lasers update failed"); n != 1 {
		t.Errorf("lasers logged %d times within one second, want 1", n)
	}

	now = now.Add(time.Second)
	d.Step(10 * time.Millisecond)
	if n := strings.Count(buf.String(), "lasers update failed"); n != 2 {
		t.Errorf("lasers logged %d times after a second, want 2", n)
	}
}

func TestFireworksCountedApartFromStrobe(t *testing.T) {
	var calls []Kind
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	d := NewDriver()
	_ = d.Register(&recorder{kind: KindStrobe, calls: &calls})
	_ = d.Register(&recorder{kind: KindFireworks, calls: &calls, err: errors.New("no sky")})
	d.Step(0)

	f := d.Failures()
	if f[KindFireworks] != 1 {
		t.Errorf("fireworks failures = %d, want 1", f[KindFireworks])
	}
	if _, ok := f[KindStrobe]; ok {
		t.Errorf("strobe charged with a fireworks failure: %v", f)
	}
	if KindFireworks.String() != "fireworks" {
		t.Errorf("name = %q", KindFireworks.String())
	}
}

func TestFrameSnapshot(t *testing.T) {
	th := theme.Lookup("17NBPoc78oM")
	var calls []Kind
	a := &recorder{kind: KindLasers, calls: &calls}
	b := &recorder{kind: KindStrobe, calls: &calls}

	d := NewDriver(
		WithBeatSource(constBeat(0.6)),
		WithPlayback(fakePlayback{th: &th, playing: true}),
	)
	_ = d.Register(a)
	_ = d.Register(b)
	d.SetScroll(2)
	d.Step(100 * time.Millisecond)
	f := d.Step(150 * time.Millisecond)

	if f.Beat != 0.6 || !f.Playing || !f.HasTheme || f.LiveBoost != th.Intensity {
		t.Errorf("frame = %+v", f)
	}
	if f.Theme.Name != "zettai" || f.Scroll != 1 {
		t.Errorf("theme = %s, scroll = %v", f.Theme.Name, f.Scroll)
	}
	if f.Delta != 50*time.Millisecond || f.Index != 1 {
		t.Errorf("delta = %v, index = %d", f.Delta, f.Index)
	}
	if b.seen[1].Beat != 0.6 {
		t.Error("a subsystem's writes leaked into the next subsystem's frame")
	}
}

func TestFrameDefaultsWhenIdle(t *testing.T) {
	d := NewDriver(WithPlayback(fakePlayback{}))
	f := d.Step(0)
	if f.HasTheme || f.Playing || f.LiveBoost != 0 || f.Theme != theme.DefaultTheme {
		t.Errorf("idle frame = %+v", f)
	}
}

func TestPointerSmoothing(t *testing.T) {
	d := NewDriver()
	d.SetPointer(1, -1)
	f := d.Step(0)
	if f.Pointer.X != 0.06 || f.Pointer.Y != -0.06 {
		t.Errorf("pointer after one frame = %+v", f.Pointer)
	}
	for i := 1; i < 200; i++ {
		f = d.Step(time.Duration(i) * time.Millisecond)
	}
	if f.Pointer.X < 0.99 {
		t.Errorf("pointer should converge, got %+v", f.Pointer)
	}
	if f.RawPointer.X != 1 || f.RawPointer.Y != 0 {
		t.Errorf("raw pointer = %+v", f.RawPointer)
	}
}

func TestRegisterRejectsUnknownKind(t *testing.T) {
	var calls []Kind
	if err := NewDriver().Register(&recorder{kind: Kind(42), calls: &calls}); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
