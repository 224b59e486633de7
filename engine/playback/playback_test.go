package playback

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
	"github.com/Carmen-Shannon/oxy-stage/engine/texture"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
	"github.com/Carmen-Shannon/oxy-stage/engine/video"
)

type fakeSim struct {
	mu      sync.Mutex
	started []string
	resumed []string
	stops   int
	closed  bool
}

func (s *fakeSim) Start(th theme.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, th.Name)
}

func (s *fakeSim) Resume(th theme.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumed = append(s.resumed, th.Name)
}

func (s *fakeSim) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

func (s *fakeSim) Tick()                 {}
func (s *fakeSim) Beat() float64         { return 0 }
func (s *fakeSim) State() beat.State     { return beat.Stopped }
func (s *fakeSim) Active() bool          { return false }
func (s *fakeSim) Tickers() int          { return 0 }
func (s *fakeSim) Beats() int            { return 0 }
func (s *fakeSim) OnBeat(fn func(n int)) {}
func (s *fakeSim) Close()                { s.closed = true }

func (s *fakeSim) snapshot() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.started...), s.stops
}

func newTestController(t *testing.T, options ...ControllerBuilderOption) (*controllerImpl, *fakeSim, video.Embed, projector.Projector) {
	t.Helper()
	sim := &fakeSim{}
	embed := video.NewEmbed()
	proj := projector.NewProjector()
	c := NewController(append([]ControllerBuilderOption{
		WithSimulator(sim), WithEmbed(embed), WithProjector(proj),
	}, options...)...).(*controllerImpl)
	t.Cleanup(c.Close)
	return c, sim, embed, proj
}

func TestPlaySetsState(t *testing.T) {
	c, sim, embed, proj := newTestController(t)

	if err := c.Play(context.Background(), ""); !errors.Is(err, ErrEmptyTrack) {
		t.Errorf("Play(\"\") = %v", err)
	}
	if c.Theme() != nil || c.IsPlaying() {
		t.Fatal("fresh controller should be idle")
	}

	if err := c.Play(context.Background(), "_cf4UTe1qrY"); err != nil {
		t.Fatal(err)
	}
	if c.TrackID() != "_cf4UTe1qrY" || !c.IsPlaying() {
		t.Errorf("id = %q playing = %v", c.TrackID(), c.IsPlaying())
	}
	if th := c.Theme(); th == nil || th.Name != "lovesong" {
		t.Errorf("theme = %+v", th)
	}
	if started, _ := sim.snapshot(); len(started) != 1 || started[0] != "lovesong" {
		t.Errorf("simulator starts = %v", started)
	}
	if embed.State() != video.StatePlaying || embed.TrackID() != "_cf4UTe1qrY" {
		t.Errorf("embed = %v %q", embed.State(), embed.TrackID())
	}
	if proj.Overlay().Source != "_cf4UTe1qrY" {
		t.Errorf("overlay source = %q", proj.Overlay().Source)
	}
}

func TestUnknownTrackUsesDefaultTheme(t *testing.T) {
	c, _, _, _ := newTestController(t)
	_ = c.Play(context.Background(), "not-listed")
	if th := c.Theme(); th == nil || *th != theme.DefaultTheme {
		t.Errorf("theme = %+v", th)
	}
}

func TestThemeReturnsCopy(t *testing.T) {
	c, _, _, _ := newTestController(t)
	_ = c.Play(context.Background(), "17NBPoc78oM")
	c.Theme().BPM = 1
	if c.Theme().BPM != 178 {
		t.Error("Theme leaked internal state")
	}
}

func TestStopPauseResume(t *testing.T) {
	c, sim, embed, proj := newTestController(t)
	_ = c.Play(context.Background(), "F3P8vcZkIh4")

	c.Pause()
	if c.IsPlaying() || c.TrackID() != "F3P8vcZkIh4" || c.Theme() == nil {
		t.Error("pause should keep the track loaded")
	}
	if embed.State() != video.StatePaused {
		t.Errorf("embed = %v", embed.State())
	}
	c.Pause()
	if _, stops := sim.snapshot(); stops != 1 {
		t.Errorf("stops = %d, double pause should be a no-op", stops)
	}

	c.Resume()
	if !c.IsPlaying() || embed.State() != video.StatePlaying {
		t.Error("resume failed")
	}
	sim.mu.Lock()
	resumed := append([]string(nil), sim.resumed...)
	sim.mu.Unlock()
	if started, _ := sim.snapshot(); len(started) != 1 || len(resumed) != 1 || resumed[0] != "tokubetsu" {
		t.Errorf("starts = %v resumes = %v, resume must not restart with the boost", started, resumed)
	}

	c.Stop()
	if c.TrackID() != "" || c.Theme() != nil || c.IsPlaying() {
		t.Error("stop should clear the track")
	}
	if embed.State() != video.StateEmpty || proj.Overlay().Source != "" {
		t.Error("stop should unload the embed and clear the overlay source")
	}

	c.Resume()
	if c.IsPlaying() {
		t.Error("resume without a track should do nothing")
	}
}

func TestNextWraps(t *testing.T) {
	c, _, _, _ := newTestController(t, WithPlaylist([]string{"a", "b", "c"}))
	ctx := context.Background()

	_ = c.Next(ctx)
	if c.TrackID() != "a" {
		t.Errorf("Next from idle = %q, want a", c.TrackID())
	}
	_ = c.Play(ctx, "c")
	_ = c.Next(ctx)
	if c.TrackID() != "a" {
		t.Errorf("Next from last = %q, want a", c.TrackID())
	}
}

func TestAutoAdvance(t *testing.T) {
	c, _, embed, _ := newTestController(t,
		WithPlaylist([]string{"a", "b"}), WithAdvanceDelay(10*time.Millisecond))
	_ = c.Play(context.Background(), "b")
	embed.End()

	deadline := time.After(2 * time.Second)
	for c.TrackID() != "a" {
		select {
		case <-deadline:
			t.Fatalf("track = %q, want auto-advance to a", c.TrackID())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopCancelsAutoAdvance(t *testing.T) {
	c, _, embed, _ := newTestController(t,
		WithPlaylist([]string{"a", "b"}), WithAdvanceDelay(30*time.Millisecond))
	_ = c.Play(context.Background(), "a")
	embed.End()
	c.Stop()

	time.Sleep(100 * time.Millisecond)
	if c.TrackID() != "" {
		t.Errorf("stopped controller advanced to %q", c.TrackID())
	}
}

func TestAutoplayDisabled(t *testing.T) {
	c, _, embed, _ := newTestController(t,
		WithPlaylist([]string{"a", "b"}), WithAdvanceDelay(time.Millisecond), WithAutoplay(false))
	_ = c.Play(context.Background(), "a")
	embed.End()
	time.Sleep(50 * time.Millisecond)
	if c.TrackID() != "a" {
		t.Errorf("track = %q", c.TrackID())
	}
}

// slowEmbed widens the window between the controller's state change and the
// embed call that follows it.
type slowEmbed struct {
	video.Embed
}

func (e slowEmbed) Load(id string) error {
	time.Sleep(time.Millisecond)
	return e.Embed.Load(id)
}

func (e slowEmbed) Stop() {
	time.Sleep(time.Millisecond)
	e.Embed.Stop()
}

func TestStopDuringNextLeavesEmbedUnloaded(t *testing.T) {
	for i := 0; i < 50; i++ {
		embed := slowEmbed{video.NewEmbed()}
		c, sim, _, _ := newTestController(t, WithEmbed(embed), WithPlaylist([]string{"_cf4UTe1qrY", "17NBPoc78oM"}))
		ctx := context.Background()
		if err := c.Play(ctx, "_cf4UTe1qrY"); err != nil {
			t.Fatal(err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Next(ctx)
		}()
		go func() {
			defer wg.Done()
			time.Sleep(200 * time.Microsecond)
			c.Stop()
		}()
		wg.Wait()

		// Either order is fine as long as controller and embed agree.
		idle := c.TrackID() == ""
		unloaded := embed.State() == video.StateEmpty
		if idle != unloaded {
			t.Fatalf("run %d: controller idle = %v, embed state = %v", i, idle, embed.State())
		}
		started, stops := sim.snapshot()
		if idle && stops == 0 {
			t.Fatalf("run %d: idle controller never stopped the simulator (starts %v)", i, started)
		}
	}
}

func thumbServer(t *testing.T, slow map[string]chan struct{}) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	body := buf.Bytes()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/")
		if id == "broken" {
			http.NotFound(w, r)
			return
		}
		if ch, ok := slow[id]; ok {
			<-ch
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTexturesAppliedToScreens(t *testing.T) {
	srv := thumbServer(t, nil)
	loader := texture.NewLoader(texture.WithURLTemplate(srv.URL + "/{id}"))
	defer loader.Close()

	anchor := game_object.NewGameObject()
	sub := game_object.NewGameObject()
	share := game_object.NewGameObject()
	done := make(chan bool, 4)

	c, _, _, _ := newTestController(t,
		WithTextureLoader(loader), WithScreens(anchor, sub), WithShareScreen(share))
	c.OnTexture(func(id string, ok bool) { done <- ok })

	_ = c.Play(context.Background(), "a")
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("texture not applied")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("texture refresh never finished")
	}
	if anchor.Material().Texture() == nil || sub.Material().Texture() == nil {
		t.Error("screens missing thumbnail")
	}
	if share.Material().Texture() == nil {
		t.Error("share screen missing QR code")
	}
}

func TestFailedTextureKeepsPrevious(t *testing.T) {
	srv := thumbServer(t, nil)
	loader := texture.NewLoader(texture.WithURLTemplate(srv.URL + "/{id}"))
	defer loader.Close()

	anchor := game_object.NewGameObject()
	done := make(chan bool, 4)
	c, _, _, _ := newTestController(t, WithTextureLoader(loader), WithScreens(anchor))
	c.OnTexture(func(id string, ok bool) { done <- ok })

	_ = c.Play(context.Background(), "a")
	<-done
	before := anchor.Material().Texture()

	_ = c.Play(context.Background(), "broken")
	if ok := <-done; ok {
		t.Error("broken thumbnail reported as applied")
	}
	if anchor.Material().Texture() != before {
		t.Error("failed load replaced the texture")
	}
}

func TestStaleTextureDiscarded(t *testing.T) {
	gate := make(chan struct{})
	srv := thumbServer(t, map[string]chan struct{}{"slow": gate})
	loader := texture.NewLoader(texture.WithURLTemplate(srv.URL + "/{id}"))
	defer loader.Close()

	anchor := game_object.NewGameObject()
	results := make(chan string, 4)
	c, _, _, _ := newTestController(t, WithTextureLoader(loader), WithScreens(anchor))
	c.OnTexture(func(id string, ok bool) {
		if ok {
			results <- id
		} else {
			results <- "stale:" + id
		}
	})

	_ = c.Play(context.Background(), "slow")
	_ = c.Play(context.Background(), "fast")
	if got := <-results; got != "fast" {
		t.Errorf("first result = %q, want fast", got)
	}
	close(gate)
	if got := <-results; got != "stale:slow" {
		t.Errorf("late result = %q, want it discarded", got)
	}
}

func TestRotatePhotoWhileIdle(t *testing.T) {
	srv := thumbServer(t, nil)
	loader := texture.NewLoader(texture.WithURLTemplate(srv.URL + "/{id}"))
	defer loader.Close()

	ids := make(chan string, 8)
	c, _, _, _ := newTestController(t, WithTextureLoader(loader),
		WithScreens(game_object.NewGameObject()), WithPlaylist([]string{"a", "b"}))
	c.OnTexture(func(id string, ok bool) { ids <- id })

	c.RotatePhoto(0)
	first := <-ids
	c.RotatePhoto(time.Second)
	c.RotatePhoto(9 * time.Second)
	if second := <-ids; first != "a" || second != "b" {
		t.Errorf("rotation = %s, %s", first, second)
	}

	_ = c.Play(context.Background(), "a")
	<-ids
	c.RotatePhoto(30 * time.Second)
	select {
	case id := <-ids:
		t.Errorf("rotated to %s while a track was loaded", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSwitchTracksKeepsOneTicker(t *testing.T) {
	sim := beat.NewSimulator(beat.WithTickInterval(time.Millisecond), beat.WithSeed(1))
	c := NewController(WithSimulator(sim), WithEmbed(video.NewEmbed()), WithProjector(projector.NewProjector()))
	defer c.Close()

	ctx := context.Background()
	if err := c.Play(ctx, "_cf4UTe1qrY"); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(ctx, "17NBPoc78oM"); err != nil {
		t.Fatal(err)
	}
	if n := sim.Tickers(); n != 1 {
		t.Errorf("tickers = %d, want 1", n)
	}
	if th := c.Theme(); th == nil || *th != theme.Lookup("17NBPoc78oM") {
		t.Errorf("theme = %+v, want the second track's theme", th)
	}
}
