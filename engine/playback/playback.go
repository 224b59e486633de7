// Package playback owns the current track. It is the single writer of the
// track id, theme and playing flag, and fans every change out to the beat
// simulator, the video embed, the projector and the screen textures.
package playback

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
	"github.com/Carmen-Shannon/oxy-stage/engine/texture"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
	"github.com/Carmen-Shannon/oxy-stage/engine/video"
)

// ErrEmptyTrack is returned by Play for an empty id.
var ErrEmptyTrack = errors.New("empty track id")

type controllerImpl struct {
	// op serializes Play, Stop, Pause, Resume, Next and Close across their
	// collaborator calls. mu guards the fields and is never held while
	// waiting for op.
	op *sync.Mutex
	mu *sync.Mutex

	id      string
	th      *theme.Theme
	playing bool
	gen     uint64

	sim    beat.Simulator
	embed  video.Embed
	proj   projector.Projector
	loader texture.Loader
	themes theme.Table

	anchor     game_object.GameObject
	subScreens []game_object.GameObject
	shareCode  game_object.GameObject

	playlist      []string
	autoplay      bool
	advanceDelay  time.Duration
	advance       *time.Timer
	photoInterval time.Duration
	photoIndex    int
	lastPhoto     time.Duration
	photoPrimed   bool

	textureHooks []func(id string, ok bool)
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

// Controller handles play, stop, pause and resume, and advances through the
// playlist when a track ends.
type Controller interface {
	// Play switches to a track. Anything already loaded is torn down first.
	// Textures refresh asynchronously and are only applied while the track is
	// still current.
	//
	// Parameters:
	//   - ctx: bounds the texture fetch
	//   - id: the track id
	//
	// Returns:
	//   - error: ErrEmptyTrack, or the embed's load error
	Play(ctx context.Context, id string) error

	// Stop unloads the track, lets the beat decay and hides the overlay.
	Stop()

	// Pause holds the track and lets the beat decay. The track stays loaded.
	Pause()

	// Resume restarts a paused track.
	Resume()

	// Next plays the playlist entry after the current track, wrapping around.
	//
	// Parameters:
	//   - ctx: bounds the texture fetch
	//
	// Returns:
	//   - error: error if the playlist is empty or Play fails
	Next(ctx context.Context) error

	// TrackID returns the loaded track id, or "".
	TrackID() string

	// Theme returns a copy of the loaded track's theme, or nil.
	Theme() *theme.Theme

	// IsPlaying reports whether the loaded track is playing.
	IsPlaying() bool

	// Playlist returns a copy of the playlist.
	Playlist() []string

	// SetAutoplay enables advancing to the next track when one ends.
	SetAutoplay(on bool)

	// RotatePhoto steps the back screen photo through the playlist while no
	// track is loaded. Call it from the tick loop.
	//
	// Parameters:
	//   - elapsed: time since the stage started
	RotatePhoto(elapsed time.Duration)

	// OnTexture registers a callback run after every texture refresh attempt.
	//
	// Parameters:
	//   - fn: receives the track id and whether a texture was applied
	OnTexture(fn func(id string, ok bool))

	// Close stops the simulator and the embed and waits for pending texture work.
	Close()
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller. Missing collaborators get defaults: a
// ticking simulator, a plain embed, a fresh projector and the built-in themes.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		op:            &sync.Mutex{},
		mu:            &sync.Mutex{},
		playlist:      append([]string(nil), DefaultPlaylist...),
		autoplay:      true,
		advanceDelay:  1500 * time.Millisecond,
		photoInterval: 8 * time.Second,
	}
	for _, option := range options {
		option(c)
	}
	if c.sim == nil {
		c.sim = beat.NewSimulator()
	}
	if c.embed == nil {
		c.embed = video.NewEmbed()
	}
	if c.proj == nil {
		c.proj = projector.NewProjector()
	}
	if c.themes == nil {
		c.themes = theme.Builtin()
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.embed.OnEnded(c.onEnded)
	return c
}

func (c *controllerImpl) Play(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyTrack
	}

	c.op.Lock()
	defer c.op.Unlock()
	return c.play(ctx, id)
}

// play switches tracks. Caller holds op.
func (c *controllerImpl) play(ctx context.Context, id string) error {
	c.mu.Lock()
	teardown := c.id != ""
	c.cancelAdvance()
	th := c.themes.Lookup(id)
	c.id = id
	c.th = &th
	c.playing = true
	c.gen++
	gen := c.gen
	if idx := indexOf(c.playlist, id); idx >= 0 {
		c.photoIndex = idx
	}
	c.mu.Unlock()

	if teardown {
		c.embed.Stop()
	}
	log.Printf("[Playback] playing %s (%s, %.0f bpm)", id, th.Name, th.BPM)
	c.sim.Start(th)
	c.proj.SetSource(id)
	c.proj.Invalidate()
	if err := c.embed.Load(id); err != nil {
		return err
	}
	if err := c.embed.Play(); err != nil {
		return err
	}
	c.refresh(ctx, id, gen, true)
	return nil
}

func (c *controllerImpl) Stop() {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	c.cancelAdvance()
	c.id = ""
	c.th = nil
	c.playing = false
	c.gen++
	c.mu.Unlock()

	c.sim.Stop()
	c.embed.Stop()
	c.proj.SetSource("")
	c.proj.Invalidate()
}

func (c *controllerImpl) Pause() {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if !c.playing || c.id == "" {
		c.mu.Unlock()
		return
	}
	c.playing = false
	c.mu.Unlock()

	c.sim.Stop()
	c.embed.Pause()
}

func (c *controllerImpl) Resume() {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if c.playing || c.th == nil {
		c.mu.Unlock()
		return
	}
	c.playing = true
	th := *c.th
	c.mu.Unlock()

	c.sim.Resume(th)
	if err := c.embed.Play(); err != nil {
		log.Printf("[Playback] resume failed: %v", err)
	}
}

func (c *controllerImpl) Next(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()
	return c.next(ctx)
}

// next plays the entry after the current track. Caller holds op.
func (c *controllerImpl) next(ctx context.Context) error {
	c.mu.Lock()
	next := nextAfter(c.playlist, c.id)
	c.mu.Unlock()
	if next == "" {
		return errors.New("playback: empty playlist")
	}
	return c.play(ctx, next)
}

func (c *controllerImpl) TrackID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *controllerImpl) Theme() *theme.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.th == nil {
		return nil
	}
	th := *c.th
	return &th
}

func (c *controllerImpl) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *controllerImpl) Playlist() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.playlist...)
}

func (c *controllerImpl) SetAutoplay(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoplay = on
	if !on {
		c.cancelAdvance()
	}
}

func (c *controllerImpl) RotatePhoto(elapsed time.Duration) {
	c.mu.Lock()
	if c.id != "" || len(c.playlist) == 0 || c.photoInterval <= 0 {
		c.mu.Unlock()
		return
	}
	if c.photoPrimed && elapsed-c.lastPhoto <= c.photoInterval {
		c.mu.Unlock()
		return
	}
	if c.photoPrimed {
		c.photoIndex = (c.photoIndex + 1) % len(c.playlist)
	}
	c.photoPrimed = true
	c.lastPhoto = elapsed
	id := c.playlist[c.photoIndex]
	gen := c.gen
	c.mu.Unlock()

	c.refresh(c.ctx, id, gen, false)
}

func (c *controllerImpl) OnTexture(fn func(id string, ok bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textureHooks = append(c.textureHooks, fn)
}

func (c *controllerImpl) Close() {
	c.mu.Lock()
	c.cancelAdvance()
	c.gen++
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.op.Lock()
	defer c.op.Unlock()
	c.embed.Stop()
	c.sim.Close()
}

// onEnded schedules the next track when the current one ends while playing.
func (c *controllerImpl) onEnded(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.autoplay || !c.playing || id != c.id {
		return
	}
	c.cancelAdvance()
	gen := c.gen
	c.advance = time.AfterFunc(c.advanceDelay, func() {
		c.op.Lock()
		defer c.op.Unlock()

		c.mu.Lock()
		stale := gen != c.gen
		c.mu.Unlock()
		if stale {
			return
		}
		if err := c.next(c.ctx); err != nil {
			log.Printf("[Playback] auto-advance failed: %v", err)
		}
	})
}

// cancelAdvance disarms the auto-advance timer. Caller must hold the mutex.
func (c *controllerImpl) cancelAdvance() {
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
}

// refresh loads the thumbnail for id and, for played tracks, a share code,
// applying each only while gen is still current.
func (c *controllerImpl) refresh(ctx context.Context, id string, gen uint64, withShare bool) {
	if c.loader == nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)

	thumb := c.loader.Load(ctx, id)
	var share *texture.Future
	if withShare && c.shareCode != nil {
		share = c.loader.ShareCode(WatchURL(id))
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		defer stop()
		tex, ok := thumb.Wait(ctx)
		applied := ok && c.apply(gen, func() {
			c.setTexture(c.anchor, tex.Image)
			for _, s := range c.subScreens {
				c.setTexture(s, tex.Image)
			}
		})
		if !ok {
			log.Printf("[Playback] thumbnail for %s unavailable, keeping previous texture", id)
		}
		if share != nil {
			if qr, ok := share.Wait(ctx); ok {
				c.apply(gen, func() { c.setTexture(c.shareCode, qr.Image) })
			}
		}

		c.mu.Lock()
		hooks := append([]func(string, bool){}, c.textureHooks...)
		c.mu.Unlock()
		for _, fn := range hooks {
			fn(id, applied)
		}
	}()
}

// apply runs fn if gen is still the current generation.
func (c *controllerImpl) apply(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	fn()
	return true
}

func (c *controllerImpl) setTexture(obj game_object.GameObject, img image.Image) {
	if obj == nil {
		return
	}
	obj.Material().SetTexture(img)
}
