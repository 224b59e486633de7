package profiler

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

type failures map[string]uint64

func (f failures) FailureCounts() map[string]uint64 { return f }

func TestTickLogsOnInterval(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	now := time.Unix(0, 0)
	p := NewProfiler(
		WithClock(func() time.Time { return now }),
		WithHostSampler(
			func() (float64, error) { return 12.5, nil },
			func() (float64, error) { return 0, errors.New("no meminfo") },
		),
		WithBeat(func() float64 { return 0.75 }),
		WithFailures(failures{"lasers": 3, "background": 1}),
	)

	for range 59 {
		now = now.Add(10 * time.Millisecond)
		if p.Tick() {
			t.Fatal("logged before the interval elapsed")
		}
	}
	now = now.Add(410 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("expected a sample")
	}

	s := p.Last()
	if s.FPS != 60 {
		t.Errorf("fps = %v, want 60", s.FPS)
	}
	if s.CPUPercent != 12.5 || s.MemPercent != 0 || s.Beat != 0.75 {
		t.Errorf("sample = %+v", s)
	}
	out := buf.String()
	if !strings.Contains(out, "[Profiler]") || !strings.Contains(out, "Failures: background=1 lasers=3") {
		t.Errorf("log = %q", out)
	}
}

func TestStatsStringWithoutFailures(t *testing.T) {
	if s := (Stats{FPS: 30}).String(); strings.Contains(s, "Failures") {
		t.Errorf("unexpected failures section: %s", s)
	}
}
