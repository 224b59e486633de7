package driver

import (
	"time"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// Kind identifies a visual subsystem. The set is closed.
type Kind int

const (
	KindBackground Kind = iota
	KindPenlights
	KindLasers
	KindLights
	KindStrobe
	KindFireworks
	KindHearts
	KindVizBars
	KindCameraRig
	KindScreen
	kindCount
)

var kindNames = [kindCount]string{
	"background", "penlights", "lasers", "lights", "strobe", "fireworks", "hearts", "viz_bars", "camera_rig", "screen",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Frame is the per-frame snapshot every subsystem reads. Subsystems receive
// their own copy, so writes to it are never seen by anyone else.
type Frame struct {
	// Index counts frames from 0.
	Index uint64
	// Elapsed is the time since the driver started.
	Elapsed time.Duration
	// Delta is the time since the previous frame.
	Delta time.Duration
	// Beat is the simulator's published value in [0, 1], read once per frame.
	Beat float64
	// Theme is the current track's theme, or the default theme when nothing is loaded.
	Theme theme.Theme
	// HasTheme is true when a track is loaded.
	HasTheme bool
	// Playing is true while playback runs.
	Playing bool
	// LiveBoost is the theme intensity while playing and 0 otherwise.
	LiveBoost float64
	// Scroll is the page scroll progress in [0, 1].
	Scroll float32
	// Pointer is the smoothed pointer in [-1, 1], +y up.
	Pointer common.Vec2
	// RawPointer is the unsmoothed pointer in [0, 1] viewport space, +y up.
	RawPointer common.Vec2
	// Width and Height are the viewport size in pixels.
	Width, Height int
}

// Seconds returns Elapsed in seconds, the time base of every animation curve.
func (f *Frame) Seconds() float64 {
	return f.Elapsed.Seconds()
}
