package video

import (
	"errors"
	"testing"
	"time"
)

func TestURL(t *testing.T) {
	e := NewEmbed()
	if e.URL() != "" {
		t.Errorf("empty embed URL = %q", e.URL())
	}
	if err := e.Load("_cf4UTe1qrY"); err != nil {
		t.Fatal(err)
	}
	want := "https://www.youtube.com/embed/_cf4UTe1qrY?autoplay=1&rel=0&modestbranding=1&enablejsapi=1&controls=1&playsinline=1"
	if got := e.URL(); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestStateMachine(t *testing.T) {
	e := NewEmbed()
	if err := e.Play(); !errors.Is(err, ErrNoTrack) {
		t.Errorf("Play on empty = %v", err)
	}
	if err := e.Load(""); !errors.Is(err, ErrNoTrack) {
		t.Errorf("Load empty = %v", err)
	}

	_ = e.Load("a")
	steps := []struct {
		do   func()
		want State
	}{
		{func() { _ = e.Play() }, StatePlaying},
		{e.Pause, StatePaused},
		{func() { _ = e.Play() }, StatePlaying},
		{e.End, StateEnded},
		{e.Pause, StateEnded},
		{e.Stop, StateEmpty},
	}
	for i, s := range steps {
		s.do()
		if got := e.State(); got != s.want {
			t.Fatalf("step %d: state = %v, want %v", i, got, s.want)
		}
	}
	if e.TrackID() != "" {
		t.Errorf("stop should unload, id = %q", e.TrackID())
	}
}

func TestEndedFiresOnlyWhilePlaying(t *testing.T) {
	e := NewEmbed()
	var got []string
	e.OnEnded(func(id string) { got = append(got, id) })

	_ = e.Load("a")
	e.End()
	_ = e.Play()
	e.Pause()
	e.End()
	_ = e.Play()
	e.End()
	e.End()

	if len(got) != 1 || got[0] != "a" {
		t.Errorf("ended callbacks = %v, want [a]", got)
	}
}

func TestTrackLengthTimer(t *testing.T) {
	e := NewEmbed(WithTrackLength(30 * time.Millisecond))
	ended := make(chan string, 1)
	e.OnEnded(func(id string) { ended <- id })

	_ = e.Load("b")
	_ = e.Play()
	select {
	case id := <-ended:
		if id != "b" {
			t.Errorf("ended id = %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestReloadDisarmsTimer(t *testing.T) {
	e := NewEmbed(WithTrackLength(20 * time.Millisecond))
	ended := make(chan string, 4)
	e.OnEnded(func(id string) { ended <- id })

	_ = e.Load("old")
	_ = e.Play()
	_ = e.Load("new")

	select {
	case id := <-ended:
		t.Fatalf("replaced track %q reported ended", id)
	case <-time.After(80 * time.Millisecond):
	}
	if e.State() != StateLoaded {
		t.Errorf("state = %v", e.State())
	}
}
