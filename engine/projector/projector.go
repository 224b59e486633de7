package projector

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/camera"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
)

// ErrInvalid is the root of every projection failure; match with errors.Is.
var ErrInvalid = errors.New("projection invalid")

var (
	// ErrBehindCamera means a corner landed behind the eye or past the far plane.
	ErrBehindCamera = fmt.Errorf("%w: behind camera", ErrInvalid)
	// ErrTooSmall means the projected rect is narrower or shorter than the minimum size.
	ErrTooSmall = fmt.Errorf("%w: too small", ErrInvalid)
	// ErrOffscreen means the anchor does not overlap the viewport at all.
	ErrOffscreen = fmt.Errorf("%w: offscreen", ErrInvalid)
	// ErrTooLarge means the rect covers more of the viewport than the overlay may.
	ErrTooLarge = fmt.Errorf("%w: too large", ErrInvalid)
	// ErrEdgeOn means the screen faces away from the camera beyond the mode's threshold.
	ErrEdgeOn = fmt.Errorf("%w: edge on", ErrInvalid)
)

// Viewport reports the current drawable size in pixels. It is read fresh on every call.
type Viewport interface {
	Width() int
	Height() int
}

// Overlay is where the external video surface should be drawn this frame.
type Overlay struct {
	// Visible is false when the overlay should be hidden.
	Visible bool
	// Source is the track id the overlay plays, or "" when nothing is loaded.
	Source string
	// Rect is the overlay rectangle in viewport pixels, origin top-left.
	Rect common.Rect
	// Fallback is true when Rect is the centered fallback rather than a projection.
	Fallback bool
}

// cacheKey captures every input of a projection.
type cacheKey struct {
	viewProj [16]float32
	world    [16]float32
	corners  [4][3]float32
	width    int
	height   int
	mode     camera.Mode
	source   string
	anchor   uint64
}

type projectorImpl struct {
	mu *sync.Mutex

	mode    camera.Mode
	overlay Overlay

	key     cacheKey
	valid   bool
	lastErr error

	minSize          float32
	maxCoverage      float32
	fixedFacing      float32
	exploreFacing    float32
	dimmedOpacity    float32
	restoredOpacity  float32
	fallbackVisible  bool
	fallbackFraction float32
}

// Projector keeps an HTML-style video overlay glued to the stage's back screen.
// Each Update projects the anchor's four corners through the camera, applies the
// validity gates and dims the anchor's own texture while the overlay covers it.
type Projector interface {
	// Project computes the screen-space rectangle of an anchor without
	// touching any state.
	//
	// Parameters:
	//   - anchor: the screen anchor
	//   - cam: a camera whose Update already ran this frame
	//   - vp: the viewport
	//
	// Returns:
	//   - common.Rect: the bounding rect of the projected corners
	//   - error: one of the ErrInvalid family
	Project(anchor game_object.GameObject, cam camera.Camera, vp Viewport) (common.Rect, error)

	// Update projects the anchor and applies the result. On success the overlay is
	// shown over the rect and the anchor is dimmed; on failure the overlay falls back
	// to a centered rect and the anchor is restored. Inputs identical to the last
	// update reuse the cached result until Invalidate.
	//
	// Parameters:
	//   - anchor: the screen anchor
	//   - cam: a camera whose Update already ran this frame
	//   - vp: the viewport
	//
	// Returns:
	//   - Overlay: the resulting overlay
	//   - error: the projection failure, or nil
	Update(anchor game_object.GameObject, cam camera.Camera, vp Viewport) (Overlay, error)

	// Overlay returns the overlay computed by the last Update.
	Overlay() Overlay

	// SetSource sets the track the overlay plays; "" hides it on the next Update.
	//
	// Parameters:
	//   - id: the track id
	SetSource(id string)

	// SetMode selects the facing threshold and invalidates the cache.
	//
	// Parameters:
	//   - m: the camera mode
	SetMode(m camera.Mode)

	// Invalidate forces the next Update to recompute.
	Invalidate()
}

var _ Projector = &projectorImpl{}

// NewProjector creates a Projector in Fixed mode.
//
// Parameters:
//   - options: functional options to configure the projector
//
// Returns:
//   - Projector: the newly created projector
func NewProjector(options ...ProjectorBuilderOption) Projector {
	p := &projectorImpl{
		mu:               &sync.Mutex{},
		mode:             camera.ModeFixed,
		minSize:          10,
		maxCoverage:      0.7,
		fixedFacing:      0.55,
		exploreFacing:    0.85,
		dimmedOpacity:    0.15,
		restoredOpacity:  1.0,
		fallbackFraction: 0.5,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *projectorImpl) Project(anchor game_object.GameObject, cam camera.Camera, vp Viewport) (common.Rect, error) {
	p.mu.Lock()
	mode := p.mode
	p.mu.Unlock()
	world := anchor.WorldMatrix()
	return p.project(anchor.Corners(), world, anchor.Normal(), cam, vp, mode)
}

func (p *projectorImpl) Update(anchor game_object.GameObject, cam camera.Camera, vp Viewport) (Overlay, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, h := vp.Width(), vp.Height()
	key := cacheKey{
		viewProj: cam.ViewProjectionMatrix(),
		world:    anchor.WorldMatrix(),
		corners:  anchor.Corners(),
		width:    w,
		height:   h,
		mode:     p.mode,
		source:   p.overlay.Source,
		anchor:   anchor.ID(),
	}
	if p.valid && key == p.key {
		return p.overlay, p.lastErr
	}
	p.key = key
	p.valid = true
	p.lastErr = nil

	if p.overlay.Source == "" {
		p.overlay.Visible = false
		p.overlay.Fallback = true
		p.overlay.Rect = fallbackRect(float32(w), float32(h), p.fallbackFraction)
		anchor.Material().SetOpacity(p.restoredOpacity)
		return p.overlay, nil
	}

	rect, err := p.project(key.corners, key.world, anchor.Normal(), cam, vp, p.mode)
	if err != nil {
		p.overlay.Visible = p.fallbackVisible
		p.overlay.Fallback = true
		p.overlay.Rect = fallbackRect(float32(w), float32(h), p.fallbackFraction)
		anchor.Material().SetOpacity(p.restoredOpacity)
		p.lastErr = err
		return p.overlay, err
	}

	p.overlay.Visible = true
	p.overlay.Fallback = false
	p.overlay.Rect = rect
	anchor.Material().SetOpacity(p.dimmedOpacity)
	return p.overlay, nil
}

func (p *projectorImpl) Overlay() Overlay {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overlay
}

func (p *projectorImpl) SetSource(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay.Source = id
	p.valid = false
}

func (p *projectorImpl) SetMode(m camera.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
	p.valid = false
}

func (p *projectorImpl) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.valid = false
}

func (p *projectorImpl) project(corners [4][3]float32, world [16]float32, normal [3]float32, cam camera.Camera, vp Viewport, mode camera.Mode) (common.Rect, error) {
	w, h := float32(vp.Width()), float32(vp.Height())
	if w <= 0 || h <= 0 {
		return common.Rect{}, fmt.Errorf("%w: empty viewport", ErrOffscreen)
	}

	// Bounding sphere early out.
	var center [3]float32
	var worldCorners [4][3]float32
	for i, c := range corners {
		wc := common.TransformPoint4(world[:], c[0], c[1], c[2])
		worldCorners[i] = [3]float32{wc[0], wc[1], wc[2]}
		for k := 0; k < 3; k++ {
			center[k] += wc[k] / 4
		}
	}
	var radius float32
	for _, wc := range worldCorners {
		d := [3]float32{wc[0] - center[0], wc[1] - center[1], wc[2] - center[2]}
		radius = max(radius, float32(math.Sqrt(float64(common.Dot3(d, d)))))
	}
	frustum := cam.Frustum()
	near := frustum.Planes[common.FrustumNear]
	if common.Dot3(near.Normal, center)+near.Distance < -radius {
		return common.Rect{}, ErrBehindCamera
	}
	if !frustum.ContainsSphere(center, radius) {
		return common.Rect{}, ErrOffscreen
	}

	forward := cam.Forward()
	threshold := p.fixedFacing
	if mode == camera.ModeExplore {
		threshold = p.exploreFacing
	}
	facing := common.Dot3(normal, [3]float32{-forward[0], -forward[1], -forward[2]})
	if facing < threshold {
		return common.Rect{}, fmt.Errorf("%w (%.2f < %.2f)", ErrEdgeOn, facing, threshold)
	}

	viewProj := cam.ViewProjectionMatrix()
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, wc := range worldCorners {
		clip := common.TransformPoint4(viewProj[:], wc[0], wc[1], wc[2])
		if clip[3] <= 0 || clip[2]/clip[3] > 1 {
			return common.Rect{}, ErrBehindCamera
		}
		ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
		px := (ndcX*0.5 + 0.5) * w
		py := (1 - (ndcY*0.5 + 0.5)) * h
		minX, maxX = min(minX, px), max(maxX, px)
		minY, maxY = min(minY, py), max(maxY, py)
	}

	rect := common.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	switch {
	case rect.W < p.minSize || rect.H < p.minSize:
		return rect, ErrTooSmall
	case !rect.Intersects(w, h):
		return rect, ErrOffscreen
	case rect.Area()/(w*h) > p.maxCoverage:
		return rect, ErrTooLarge
	}
	return rect, nil
}

// fallbackRect centers a 16:9 rect of the given width fraction, shrunk to fit
// when the viewport is too short.
func fallbackRect(w, h, fraction float32) common.Rect {
	fw := w * fraction
	fh := fw * 9 / 16
	if fh > h {
		fh = h
		fw = fh * 16 / 9
	}
	return common.Rect{X: (w - fw) / 2, Y: (h - fh) / 2, W: fw, H: fh}
}
