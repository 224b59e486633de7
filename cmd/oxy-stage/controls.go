package main

import (
	"context"
	"log"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/collection"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/Carmen-Shannon/oxy-stage/engine/metronome"
	"github.com/Carmen-Shannon/oxy-stage/engine/playback"
	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
)

// presetKeys maps the number row onto the explore presets in order.
var presetKeys = map[uint32]int{
	common.Key1: 0, common.Key2: 1, common.Key3: 2,
	common.Key4: 3, common.Key5: 4, common.Key6: 5,
}

// controls turns key presses into playback, camera and crowd actions.
// Any collaborator except playback and stage may be nil.
type controls struct {
	ctx        context.Context
	playback   playback.Controller
	stage      camera.StageController
	penlights  *effects.Penlights
	metronome  *metronome.Metronome
	collection collection.Collection
	copyText   func(text string)

	autoplay bool
	wave     effects.WaveMode
}

func (c *controls) handle(key uint32) {
	switch key {
	case common.KeySpace:
		c.togglePlay()
	case common.KeyN:
		if err := c.playback.Next(c.ctx); err != nil {
			log.Printf("[Stage] next: %v", err)
		}
	case common.KeyP:
		c.play(previous(c.playback.Playlist(), c.playback.TrackID()))
	case common.KeyS:
		c.playback.Stop()
	case common.KeyA:
		c.autoplay = !c.autoplay
		c.playback.SetAutoplay(c.autoplay)
		log.Printf("[Stage] autoplay %v", c.autoplay)
	case common.KeyE:
		log.Printf("[Stage] camera mode %s", c.stage.ToggleMode())
	case common.KeyLeft:
		c.stage.Orbit().OrbitLeft()
	case common.KeyRight:
		c.stage.Orbit().OrbitRight()
	case common.KeyUp:
		c.stage.Orbit().OrbitUp()
	case common.KeyDown:
		c.stage.Orbit().OrbitDown()
	case common.KeyW:
		if c.penlights != nil {
			c.wave = (c.wave + 1) % (effects.WaveSync + 1)
			c.penlights.SetWaveMode(c.wave)
		}
	case common.KeyM:
		if c.metronome != nil {
			log.Printf("[Stage] metronome %v", c.metronome.Toggle())
		}
	case common.KeyK:
		c.collectNext()
	case common.KeyC:
		if id := c.playback.TrackID(); id != "" && c.copyText != nil {
			c.copyText(playback.WatchURL(id))
		}
	default:
		if i, ok := presetKeys[key]; ok {
			presets := camera.Presets()
			if i < len(presets) {
				if err := c.stage.GoTo(presets[i].Name); err != nil {
					log.Printf("[Stage] %v", err)
				}
			}
		}
	}
}

// togglePlay starts the playlist when idle, otherwise pauses or resumes.
func (c *controls) togglePlay() {
	switch {
	case c.playback.TrackID() == "":
		if list := c.playback.Playlist(); len(list) > 0 {
			c.play(list[0])
		}
	case c.playback.IsPlaying():
		c.playback.Pause()
	default:
		c.playback.Resume()
	}
}

func (c *controls) play(id string) {
	if err := c.playback.Play(c.ctx, id); err != nil {
		log.Printf("[Stage] play %q: %v", id, err)
	}
}

// collectNext collects the first member card not yet owned, in stage order.
func (c *controls) collectNext() {
	if c.collection == nil {
		return
	}
	for _, m := range theme.Members() {
		if c.collection.Has(m.Name) {
			continue
		}
		_, n := c.collection.Collect(m.Name)
		log.Printf("[Stage] collected %s (%d/%d)", m.Name, n, c.collection.Total())
		return
	}
	log.Printf("[Stage] collection complete")
}

// previous returns the entry before id, wrapping at the start. Unknown ids
// resolve to the last entry.
func previous(list []string, id string) string {
	if len(list) == 0 {
		return ""
	}
	for i, v := range list {
		if v == id {
			return list[(i-1+len(list))%len(list)]
		}
	}
	return list[len(list)-1]
}
