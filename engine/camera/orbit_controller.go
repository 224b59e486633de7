package camera

import (
	"math"
	"sync"
)

// orbitControllerImpl is the implementation of OrbitController.
type orbitControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an orbit controller with the stage defaults: pivot at
// (0, -1, -8), radius 2 to 35, and a lowest view of 0.85π from straight up.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) OrbitController {
	oc := &orbitControllerImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, -1, -8},

		radius:    13.0,
		azimuth:   0.0,
		elevation: 0.077,

		minRadius:    2.0,
		maxRadius:    35.0,
		minElevation: float32(math.Pi/2 - math.Pi*0.85),
		maxElevation: float32(math.Pi/2 - 0.01),

		orbitSpeed:       0.03,
		mouseSensitivity: 0.0025,
		zoomSpeed:        0.8,
	}

	for _, option := range options {
		option(oc)
	}

	oc.clamp()
	oc.updatePosition()
	return oc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(oc.elevation)))
	sinElev := float32(math.Sin(float64(oc.elevation)))
	cosAzim := float32(math.Cos(float64(oc.azimuth)))
	sinAzim := float32(math.Sin(float64(oc.azimuth)))

	oc.position[0] = oc.target[0] + oc.radius*cosElev*sinAzim
	oc.position[1] = oc.target[1] + oc.radius*sinElev
	oc.position[2] = oc.target[2] + oc.radius*cosElev*cosAzim
}

// clamp keeps radius and elevation inside their bounds. Caller must hold the mutex.
func (oc *orbitControllerImpl) clamp() {
	oc.radius = min(max(oc.radius, oc.minRadius), oc.maxRadius)
	oc.elevation = min(max(oc.elevation, oc.minElevation), oc.maxElevation)
}

func (oc *orbitControllerImpl) Position() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position
}

func (oc *orbitControllerImpl) Target() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitControllerImpl) SetTarget(target [3]float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = target
	oc.updatePosition()
}

func (oc *orbitControllerImpl) LookFrom(position, target [3]float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	oc.target = target
	dx := position[0] - target[0]
	dy := position[1] - target[1]
	dz := position[2] - target[2]
	r := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	if r > 1e-6 {
		oc.radius = r
		oc.elevation = float32(math.Asin(float64(dy / r)))
		oc.azimuth = float32(math.Atan2(float64(dx), float64(dz)))
	}
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Rotate(dx, dy float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth -= dx * oc.mouseSensitivity
	oc.elevation += dy * oc.mouseSensitivity
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) OrbitLeft() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth -= oc.orbitSpeed
	oc.updatePosition()
}

func (oc *orbitControllerImpl) OrbitRight() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth += oc.orbitSpeed
	oc.updatePosition()
}

func (oc *orbitControllerImpl) OrbitUp() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.elevation += oc.orbitSpeed
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) OrbitDown() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.elevation -= oc.orbitSpeed
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius -= delta * oc.zoomSpeed
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

func (oc *orbitControllerImpl) RadiusBounds() (float32, float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.minRadius, oc.maxRadius
}

func (oc *orbitControllerImpl) Azimuth() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.azimuth
}

func (oc *orbitControllerImpl) Elevation() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.elevation
}

func (oc *orbitControllerImpl) ElevationBounds() (float32, float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.minElevation, oc.maxElevation
}
