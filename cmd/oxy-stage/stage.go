package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/config"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/loader"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
	"github.com/Carmen-Shannon/oxy-stage/engine/texture"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
	"golang.org/x/sync/errgroup"
)

// assets are the inputs loaded before the window opens.
type assets struct {
	themes theme.Table
	// stage is nil when no model is configured.
	stage loader.Stage
}

// preload reads the theme file and the stage model concurrently and warms the
// thumbnail cache for the first track. Thumbnail failures are not fatal.
func preload(ctx context.Context, cfg config.Config, tl texture.Loader, firstID string) (assets, error) {
	var a assets
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if cfg.ThemesFile == "" {
			a.themes = theme.Builtin()
			return nil
		}
		t, err := theme.LoadFile(cfg.ThemesFile)
		if err != nil {
			return fmt.Errorf("themes: %w", err)
		}
		a.themes = t
		return nil
	})
	g.Go(func() error {
		if cfg.StageModel == "" {
			return nil
		}
		s, err := loader.NewLoader(loader.BackendTypeGLTF).Load(cfg.StageModel)
		if err != nil {
			return fmt.Errorf("stage model: %w", err)
		}
		a.stage = s
		return nil
	})
	g.Go(func() error {
		if firstID == "" {
			return nil
		}
		if _, ok := tl.Load(gctx, firstID).Wait(gctx); !ok {
			log.Printf("[Stage] thumbnail warmup for %s failed", firstID)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return assets{}, err
	}
	return a, nil
}

// screens are the video surfaces of the stage, all parented to the stage group.
type screens struct {
	anchor game_object.GameObject
	subs   []game_object.GameObject
	share  game_object.GameObject
}

// buildScreens places the back screen from the model node when there is one,
// otherwise at the default spot behind the stage.
func buildScreens(stage loader.Stage, node string, group game_object.GameObject) screens {
	var s screens
	if stage != nil {
		anchor, err := stage.Anchor(node, game_object.WithParent(group))
		if err != nil {
			log.Printf("[Stage] %v, using the default back screen", err)
		} else {
			s.anchor = anchor
		}
	}
	if s.anchor == nil {
		s.anchor = game_object.NewGameObject(
			game_object.WithName(node),
			game_object.WithParent(group),
			game_object.WithPosition(0, 1.5, -12),
			game_object.WithHalfExtents(4.8, 2.7),
		)
	}

	for _, side := range []float32{-1, 1} {
		s.subs = append(s.subs, game_object.NewGameObject(
			game_object.WithName(fmt.Sprintf("SideScreen%+d", int(side))),
			game_object.WithParent(group),
			game_object.WithPosition(side*8, 1, -10),
			game_object.WithRotation(0, -side*0.35, 0),
			game_object.WithHalfExtents(2.4, 1.35),
		))
	}
	s.share = game_object.NewGameObject(
		game_object.WithName("ShareCode"),
		game_object.WithParent(group),
		game_object.WithPosition(5.5, -2.2, -9),
		game_object.WithHalfExtents(0.7, 0.7),
	)
	return s
}

// modeChange re-projects the overlay on the very next frame after a camera
// mode switch.
func modeChange(proj projector.Projector, drv driver.Driver) func(camera.Mode) {
	return func(m camera.Mode) {
		proj.SetMode(m)
		drv.Invalidate()
	}
}
