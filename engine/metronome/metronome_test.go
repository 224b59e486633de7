package metronome

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

type fakeBeats struct {
	hooks []func(int)
}

func (f *fakeBeats) OnBeat(fn func(n int)) { f.hooks = append(f.hooks, fn) }

func (f *fakeBeats) fire(n int) {
	for _, h := range f.hooks {
		h(n)
	}
}

func TestClickShape(t *testing.T) {
	buf := Click(1000, 10*time.Millisecond)
	frames := int(0.01 * SampleRate)
	if len(buf) != frames*8 {
		t.Fatalf("len = %d, want %d", len(buf), frames*8)
	}
	var peak float64
	for i := range frames {
		l := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*8:]))
		r := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*8+4:]))
		if l != r {
			t.Fatalf("frame %d: channels differ", i)
		}
		peak = math.Max(peak, math.Abs(float64(l)))
	}
	if peak > 1 || peak < 0.5 {
		t.Errorf("peak = %v", peak)
	}
}

func TestAccentOnBarStart(t *testing.T) {
	var got [][]byte
	var vols []float64
	m, err := New(WithOutput(func(s []byte, v float64) {
		got = append(got, s)
		vols = append(vols, v)
	}), WithVolume(0.7))
	if err != nil {
		t.Fatal(err)
	}
	src := &fakeBeats{}
	m.Attach(src)
	for n := range 5 {
		src.fire(n)
	}

	if len(got) != 5 || m.Clicks() != 5 {
		t.Fatalf("clicks = %d", len(got))
	}
	if &got[0][0] != &m.accent[0] || &got[4][0] != &m.accent[0] {
		t.Error("beats 0 and 4 should be accented")
	}
	if &got[1][0] != &m.click[0] {
		t.Error("beat 1 should be a plain click")
	}
	if vols[0] != 0.7 {
		t.Errorf("volume = %v", vols[0])
	}
}

func TestMute(t *testing.T) {
	calls := 0
	m, _ := New(WithOutput(func([]byte, float64) { calls++ }), WithEnabled(false))
	src := &fakeBeats{}
	m.Attach(src)
	src.fire(1)
	if calls != 0 {
		t.Error("muted metronome clicked")
	}
	if !m.Toggle() {
		t.Error("toggle should enable")
	}
	src.fire(2)
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
}

func TestVolumeClamp(t *testing.T) {
	var last float64
	m, _ := New(WithOutput(func(_ []byte, v float64) { last = v }))
	src := &fakeBeats{}
	m.Attach(src)
	m.SetVolume(3)
	src.fire(1)
	if last != 1 {
		t.Errorf("volume = %v, want 1", last)
	}
}
