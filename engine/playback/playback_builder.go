package playback

import (
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
	"github.com/Carmen-Shannon/oxy-stage/engine/projector"
	"github.com/Carmen-Shannon/oxy-stage/engine/texture"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
	"github.com/Carmen-Shannon/oxy-stage/engine/video"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controllerImpl)

// WithSimulator sets the beat simulator the controller starts and stops.
//
// Parameters:
//   - s: the simulator
//
// Returns:
//   - ControllerBuilderOption: a function that applies the simulator
func WithSimulator(s beat.Simulator) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.sim = s
	}
}

// WithEmbed sets the video embed.
//
// Parameters:
//   - e: the embed
//
// Returns:
//   - ControllerBuilderOption: a function that applies the embed
func WithEmbed(e video.Embed) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.embed = e
	}
}

// WithProjector sets the projector whose overlay source follows the track.
func WithProjector(p projector.Projector) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.proj = p
	}
}

// WithTextureLoader enables screen texture refreshes.
func WithTextureLoader(l texture.Loader) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.loader = l
	}
}

// WithThemes sets the table tracks are resolved against.
func WithThemes(t theme.Table) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.themes = t
	}
}

// WithScreens sets the back screen anchor and the sub screens that show the
// track thumbnail.
//
// Parameters:
//   - anchor: the back screen anchor
//   - subs: the side screens
//
// Returns:
//   - ControllerBuilderOption: a function that applies the screens
func WithScreens(anchor game_object.GameObject, subs ...game_object.GameObject) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.anchor = anchor
		c.subScreens = append([]game_object.GameObject(nil), subs...)
	}
}

// WithShareScreen sets the object that shows the share QR code of the playing track.
func WithShareScreen(obj game_object.GameObject) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.shareCode = obj
	}
}

// WithPlaylist replaces DefaultPlaylist.
func WithPlaylist(ids []string) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if len(ids) > 0 {
			c.playlist = append([]string(nil), ids...)
		}
	}
}

// WithAutoplay enables or disables auto-advance (default on).
func WithAutoplay(on bool) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.autoplay = on
	}
}

// WithAdvanceDelay sets the pause between a track ending and the next starting (default 1.5s).
func WithAdvanceDelay(d time.Duration) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.advanceDelay = d
	}
}

// WithPhotoInterval sets the idle photo rotation period (default 8s); 0 disables it.
func WithPhotoInterval(d time.Duration) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.photoInterval = d
	}
}
