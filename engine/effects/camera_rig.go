package effects

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/driver"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
)

// CameraRig moves the camera ahead of every other subsystem: beat shake, the
// stage controller and the scroll-driven stage group.
type CameraRig struct {
	mu    sync.Mutex
	cam   camera.Camera
	ctrl  camera.StageController
	stage game_object.GameObject
	shake [2]float32
}

var _ driver.Subsystem = &CameraRig{}

// NewCameraRig drives cam through ctrl. stage, when non-nil, is the group the
// scroll pushes back and down.
func NewCameraRig(cam camera.Camera, ctrl camera.StageController, stage game_object.GameObject) *CameraRig {
	return &CameraRig{cam: cam, ctrl: ctrl, stage: stage}
}

func (r *CameraRig) Kind() driver.Kind {
	return driver.KindCameraRig
}

func (r *CameraRig) Update(f *driver.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var amt float32
	if f.Playing {
		amt = float32(f.Theme.CameraShake * f.Beat)
	}
	t := f.Seconds()
	r.shake = [2]float32{sinf(t*15.7) * amt, cosf(t*13.3) * amt}

	r.ctrl.Advance(f.Delta, camera.RigInput{Pointer: f.Pointer, Scroll: f.Scroll, Shake: r.shake})
	if f.Width > 0 && f.Height > 0 {
		r.cam.SetAspect(float32(f.Width) / float32(f.Height))
	}
	r.cam.Update()

	if r.stage != nil {
		off := StageOffset(f.Scroll)
		r.stage.SetPosition(off[0], off[1], off[2])
	}
	return nil
}

// Shake returns the offset applied on the last frame.
func (r *CameraRig) Shake() [2]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shake
}

// StageOffset returns where the stage group sits for a scroll progress.
func StageOffset(scroll float32) [3]float32 {
	s := float32(common.Clamp01(float64(scroll)))
	return [3]float32{0, -s * 2, -3 - s*5}
}
