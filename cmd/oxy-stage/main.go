// Command oxy-stage runs the music-reactive concert stage in a window.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine"
	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/collection"
	"github.com/Carmen-Shannon/oxy-stage/engine/config"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/metronome"
	"github.com/Carmen-Shannon/oxy-stage/engine/playback"
	"github.com/Carmen-Shannon/oxy-stage/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stage/engine/texture"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
	"github.com/Carmen-Shannon/oxy-stage/engine/video"
	"github.com/Carmen-Shannon/oxy-stage/engine/window"
	"golang.design/x/clipboard"
)

func main() {
	configPath := flag.String("config", "stage.yaml", "Stage config file; a missing file uses the defaults")
	themesPath := flag.String("themes", "", "Theme YAML file (overrides themes_file)")
	modelPath := flag.String("model", "", "Stage glTF/GLB model (overrides stage_model)")
	track := flag.String("track", "", "Track id to start playing")
	profile := flag.Bool("profile", false, "Log profiler stats every second")
	software := flag.Bool("software", false, "Force the software GPU adapter")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Stage] %v", err)
	}
	if *themesPath != "" {
		cfg.ThemesFile = *themesPath
	}
	if *modelPath != "" {
		cfg.StageModel = *modelPath
	}
	if *profile {
		cfg.Profiling = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Beat.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	tl := texture.NewLoader(
		texture.WithURLTemplate(cfg.ThumbnailURL),
		texture.WithWorkers(cfg.TextureWorkers),
	)
	defer tl.Close()

	playlist := cfg.Playlist
	if len(playlist) == 0 {
		playlist = playback.DefaultPlaylist
	}
	first := *track
	if first == "" {
		first = playlist[0]
	}

	a, err := preload(ctx, cfg, tl, first)
	if err != nil {
		log.Fatalf("[Stage] preload: %v", err)
	}
	if cfg.WatchThemes && cfg.ThemesFile != "" {
		w, err := theme.Watch(cfg.ThemesFile, a.themes)
		if err != nil {
			log.Printf("[Stage] theme watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		log.Fatalf("[Stage] %v", err)
	}

	sim := beat.NewSimulator(
		beat.WithTickInterval(cfg.TickInterval()),
		beat.WithDecayStep(cfg.Beat.DecayStep),
		beat.WithSeed(seed),
	)

	ctrl := camera.NewStageController()
	cam := camera.NewCamera(
		camera.WithController(ctrl),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
	)

	proj := projector.NewProjector(
		projector.WithMinSize(cfg.Projector.MinSize),
		projector.WithMaxCoverage(cfg.Projector.MaxCoverage),
		projector.WithFacingThresholds(cfg.Projector.FixedFacing, cfg.Projector.ExploreFacing),
	)

	group := game_object.NewGameObject(game_object.WithName("Stage"))
	scr := buildScreens(a.stage, cfg.ScreenNode, group)

	pb := playback.NewController(
		playback.WithSimulator(sim),
		playback.WithEmbed(video.NewEmbed(video.WithTrackLength(time.Duration(cfg.TrackSeconds)*time.Second))),
		playback.WithProjector(proj),
		playback.WithTextureLoader(tl),
		playback.WithThemes(a.themes),
		playback.WithScreens(scr.anchor, scr.subs...),
		playback.WithShareScreen(scr.share),
		playback.WithPlaylist(playlist),
		playback.WithAutoplay(cfg.Autoplay),
	)
	defer pb.Close()
	pb.OnTexture(func(id string, ok bool) {
		if !ok {
			log.Printf("[Stage] no thumbnail for %s", id)
		}
	})

	drv := driver.NewDriver(
		driver.WithBeatSource(sim),
		driver.WithPlayback(pb),
		driver.WithViewport(win),
		driver.WithProjectEvery(uint64(cfg.Projector.Every)),
	)
	ctrl.OnModeChange(modeChange(proj, drv))

	rng := rand.New(rand.NewSource(seed))
	bg := effects.NewBackground()
	penlights := effects.NewPenlights(effects.DefaultPenlightCount, rng)
	lights := effects.NewLights(nil)
	strobe := effects.NewStrobe(rng)
	lasers := effects.NewLasers(effects.DefaultLaserCount, rng)
	fireworks := effects.NewFireworks(rng)
	hearts := effects.NewHearts(effects.DefaultHeartCount, rng)
	overlayVisible := false
	subsystems := []driver.Subsystem{
		effects.NewCameraRig(cam, ctrl, group),
		bg,
		penlights,
		lasers,
		lights,
		strobe,
		fireworks,
		hearts,
		effects.NewVizBars(effects.DefaultBarCount, rng),
		effects.NewScreen(proj, scr.anchor, cam, func(o projector.Overlay) {
			if o.Visible != overlayVisible {
				overlayVisible = o.Visible
				log.Printf("[Stage] player overlay visible=%v fallback=%v rect=%+v", o.Visible, o.Fallback, o.Rect)
			}
		}),
	}
	for _, s := range subsystems {
		if err := drv.Register(s); err != nil {
			log.Fatalf("[Stage] %v", err)
		}
	}

	r, err := renderer.NewRenderer(win.SurfaceDescriptor(), win.Width(), win.Height(),
		renderer.WithForceSoftwareRenderer(*software),
	)
	if err != nil {
		log.Fatalf("[Stage] renderer: %v", err)
	}

	met, err := metronome.New(metronome.WithEnabled(cfg.Metronome))
	if err != nil {
		log.Printf("[Stage] metronome disabled: %v", err)
	} else {
		met.Attach(sim)
	}

	col, err := collection.Open(cfg.CollectionFile)
	if err != nil {
		log.Printf("[Stage] collection disabled: %v", err)
		col = nil
	}

	var copyText func(string)
	if err := clipboard.Init(); err != nil {
		log.Printf("[Stage] clipboard unavailable: %v", err)
	} else {
		copyText = func(text string) {
			clipboard.Write(clipboard.FmtText, []byte(text))
			log.Printf("[Stage] copied %s", text)
		}
	}

	prof := profiler.NewProfiler(
		profiler.WithFailures(engine.DriverFailures(drv)),
		profiler.WithBeat(sim.Beat),
	)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithDriver(drv),
		engine.WithRenderer(r),
		engine.WithBackdrop(bg, strobe, lights),
		engine.WithScene(engine.Scene{
			Camera:    cam,
			Group:     group,
			Penlights: penlights,
			Lasers:    lasers,
			Hearts:    hearts,
			Fireworks: fireworks,
			Screens:   append([]game_object.GameObject{scr.anchor, scr.share}, scr.subs...),
		}),
		engine.WithProfiler(prof),
		engine.WithProfiling(cfg.Profiling),
		engine.WithTickRate(float64(cfg.TickRate)),
		engine.WithRenderFrameLimit(float64(cfg.FrameLimit)),
	)

	keys := &controls{
		ctx:        ctx,
		playback:   pb,
		stage:      ctrl,
		penlights:  penlights,
		metronome:  met,
		collection: col,
		copyText:   copyText,
		autoplay:   cfg.Autoplay,
	}
	win.SetKeyDownCallback(keys.handle)
	win.SetDragCallback(func(dx, dy float32) {
		if ctrl.Mode() == camera.ModeExplore {
			ctrl.Orbit().Rotate(dx, dy)
		}
	})

	start := time.Now()
	e.SetTickCallback(func(float32) {
		pb.RotatePhoto(time.Since(start))
	})

	go func() {
		<-ctx.Done()
		e.Quit()
	}()

	if *track != "" {
		keys.play(*track)
	}

	log.Printf("[Stage] %d themes, %d tracks, screen %q", a.themes.Len(), len(playlist), cfg.ScreenNode)
	e.Run()
}
