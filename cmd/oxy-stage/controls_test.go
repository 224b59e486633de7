package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/collection"
	"github.com/Carmen-Shannon/oxy-stage/engine/playback"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

func TestPrevious(t *testing.T) {
	list := []string{"a", "b", "c"}
	tests := []struct{ id, want string }{
		{"b", "a"},
		{"a", "c"},
		{"", "c"},
		{"zzz", "c"},
	}
	for _, tt := range tests {
		if got := previous(list, tt.id); got != tt.want {
			t.Errorf("previous(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
	if previous(nil, "a") != "" {
		t.Error("empty playlist should yield no track")
	}
}

func newTestControls(t *testing.T) *controls {
	t.Helper()
	pb := playback.NewController(
		playback.WithSimulator(beat.NewSimulator(beat.WithManualTicks())),
		playback.WithPlaylist([]string{"_cf4UTe1qrY", "17NBPoc78oM", "F3P8vcZkIh4"}),
	)
	t.Cleanup(pb.Close)
	return &controls{
		ctx:      context.Background(),
		playback: pb,
		stage:    camera.NewStageController(),
		autoplay: true,
	}
}

func TestSpaceStartsThenPausesAndResumes(t *testing.T) {
	c := newTestControls(t)

	c.handle(common.KeySpace)
	if c.playback.TrackID() != "_cf4UTe1qrY" || !c.playback.IsPlaying() {
		t.Fatalf("space should start the playlist, got %q playing=%v", c.playback.TrackID(), c.playback.IsPlaying())
	}
	c.handle(common.KeySpace)
	if c.playback.IsPlaying() {
		t.Error("second space should pause")
	}
	c.handle(common.KeySpace)
	if !c.playback.IsPlaying() {
		t.Error("third space should resume")
	}
}

func TestTrackNavigation(t *testing.T) {
	c := newTestControls(t)
	c.play("_cf4UTe1qrY")

	c.handle(common.KeyN)
	if got := c.playback.TrackID(); got != "17NBPoc78oM" {
		t.Errorf("after next = %q", got)
	}
	c.handle(common.KeyP)
	c.handle(common.KeyP)
	if got := c.playback.TrackID(); got != "F3P8vcZkIh4" {
		t.Errorf("previous should wrap to the end, got %q", got)
	}
	c.handle(common.KeyS)
	if c.playback.TrackID() != "" {
		t.Error("stop should unload the track")
	}
}

func TestCameraKeys(t *testing.T) {
	c := newTestControls(t)

	c.handle(common.KeyE)
	if c.stage.Mode() != camera.ModeExplore {
		t.Error("E should enter explore mode")
	}
	c.handle(common.KeyE)
	if c.stage.Mode() != camera.ModeFixed {
		t.Error("E should return to fixed mode")
	}

	c.handle(common.Key4)
	if c.stage.Mode() != camera.ModeExplore || !c.stage.Transitioning() {
		t.Error("preset key should start a transition in explore mode")
	}

	before := c.stage.Orbit().Azimuth()
	c.handle(common.KeyLeft)
	if c.stage.Orbit().Azimuth() == before {
		t.Error("left arrow should orbit")
	}
}

func TestCollectNextFollowsStageOrder(t *testing.T) {
	c := newTestControls(t)
	col, err := collection.Open(filepath.Join(t.TempDir(), "collection.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	c.collection = col

	members := theme.Members()
	c.handle(common.KeyK)
	c.handle(common.KeyK)
	if got := col.Names(); len(got) != 2 || got[0] != members[0].Name || got[1] != members[1].Name {
		t.Errorf("collected %v", got)
	}

	for range members {
		c.handle(common.KeyK)
	}
	if !col.Complete() {
		t.Errorf("collection incomplete: %d/%d", col.Len(), col.Total())
	}
}

func TestCopyLinkNeedsTrack(t *testing.T) {
	c := newTestControls(t)
	var copied []string
	c.copyText = func(s string) { copied = append(copied, s) }

	c.handle(common.KeyC)
	c.play("17NBPoc78oM")
	c.handle(common.KeyC)
	if len(copied) != 1 || copied[0] != playback.WatchURL("17NBPoc78oM") {
		t.Errorf("copied = %v", copied)
	}
}

func TestAutoplayToggle(t *testing.T) {
	c := newTestControls(t)
	c.handle(common.KeyA)
	if c.autoplay {
		t.Error("A should disable autoplay")
	}
	// Keys without a collaborator are ignored.
	c.handle(common.KeyM)
	c.handle(common.KeyW)
}
