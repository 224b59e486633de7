// Package video tracks the state of the external video player that sits in the
// projector's overlay rect.
package video

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"
)

// EmbedBaseURL is the embed endpoint the track id is appended to.
const EmbedBaseURL = "https://www.youtube.com/embed/"

// ErrNoTrack is returned by Play when nothing is loaded.
var ErrNoTrack = errors.New("no track loaded")

// State is the player state.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "empty"
	}
}

type embedImpl struct {
	mu *sync.Mutex

	id    string
	state State

	length    time.Duration
	remaining time.Duration
	startedAt time.Time
	timer     *time.Timer
	gen       uint64

	ended []func(id string)
}

// Embed is the video player state machine. The player itself is external; the
// embed builds its URL and reports when a track ends.
type Embed interface {
	// Load cues a track and leaves it stopped. The previous track is discarded.
	//
	// Parameters:
	//   - id: the track id
	//
	// Returns:
	//   - error: error if id is empty
	Load(id string) error

	// Play starts or resumes the loaded track.
	//
	// Returns:
	//   - error: ErrNoTrack when nothing is loaded
	Play() error

	// Pause holds the track at its current position.
	Pause()

	// Stop unloads the track.
	Stop()

	// End reports that the external player reached the end of the track.
	// Ended callbacks fire only if the track was playing.
	End()

	// OnEnded registers a callback for the end of a track. Callbacks run on the
	// goroutine that detected the end and must not call back into the embed
	// synchronously.
	//
	// Parameters:
	//   - fn: receives the id of the track that ended
	OnEnded(fn func(id string))

	// URL returns the embed URL of the loaded track, or "" when empty.
	URL() string

	// TrackID returns the loaded track id.
	TrackID() string

	// State returns the current state.
	State() State
}

var _ Embed = &embedImpl{}

// NewEmbed creates an empty embed.
//
// Parameters:
//   - options: functional options to configure the embed
//
// Returns:
//   - Embed: the newly created embed
func NewEmbed(options ...EmbedBuilderOption) Embed {
	e := &embedImpl{mu: &sync.Mutex{}}
	for _, option := range options {
		option(e)
	}
	return e
}

// URLFor builds the embed URL with autoplay, no related videos and the JS API enabled.
//
// Parameters:
//   - id: the track id
//
// Returns:
//   - string: the URL
func URLFor(id string) string {
	return EmbedBaseURL + url.PathEscape(id) +
		"?autoplay=1&rel=0&modestbranding=1&enablejsapi=1&controls=1&playsinline=1"
}

func (e *embedImpl) Load(id string) error {
	if id == "" {
		return fmt.Errorf("video: %w", ErrNoTrack)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimer()
	e.id = id
	e.state = StateLoaded
	e.remaining = e.length
	log.Printf("[Video] loaded %s", id)
	return nil
}

func (e *embedImpl) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateEmpty:
		return ErrNoTrack
	case StatePlaying:
		return nil
	case StateEnded:
		e.remaining = e.length
	}
	e.state = StatePlaying
	e.startTimer()
	return nil
}

func (e *embedImpl) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying {
		return
	}
	if e.timer != nil {
		e.remaining -= time.Since(e.startedAt)
		e.stopTimer()
	}
	e.state = StatePaused
}

func (e *embedImpl) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimer()
	e.id = ""
	e.state = StateEmpty
}

func (e *embedImpl) End() {
	e.finish(e.currentGen())
}

func (e *embedImpl) OnEnded(fn func(id string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ended = append(e.ended, fn)
}

func (e *embedImpl) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.id == "" {
		return ""
	}
	return URLFor(e.id)
}

func (e *embedImpl) TrackID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *embedImpl) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *embedImpl) currentGen() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// finish moves a playing track to Ended and fires the callbacks. gen guards
// against a timer that fired for a track which has since been replaced.
func (e *embedImpl) finish(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.state != StatePlaying {
		e.mu.Unlock()
		return
	}
	e.stopTimer()
	e.state = StateEnded
	id := e.id
	hooks := append([]func(string){}, e.ended...)
	e.mu.Unlock()

	log.Printf("[Video] %s ended", id)
	for _, fn := range hooks {
		fn(id)
	}
}

// startTimer arms the end-of-track timer when a track length is configured.
// Caller must hold the mutex.
func (e *embedImpl) startTimer() {
	if e.length <= 0 {
		return
	}
	e.stopTimer()
	e.startedAt = time.Now()
	gen := e.gen
	e.timer = time.AfterFunc(max(0, e.remaining), func() { e.finish(gen) })
}

// stopTimer disarms the timer and bumps the generation. Caller must hold the mutex.
func (e *embedImpl) stopTimer() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
