package camera

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitControllerImpl)

// WithTarget sets the pivot point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - OrbitControllerOption: functional option to set the target
func WithTarget(x, y, z float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.target = [3]float32{x, y, z}
	}
}

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance from target
//
// Returns:
//   - OrbitControllerOption: functional option to set the radius
func WithRadius(radius float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.radius = radius
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: closest allowed distance
//   - max: farthest allowed distance
//
// Returns:
//   - OrbitControllerOption: functional option to set the radius bounds
func WithRadiusBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minRadius = min
		oc.maxRadius = max
	}
}

// WithMaxPolarAngle limits how far below the horizon the camera can orbit, measured
// from straight up like a polar angle.
//
// Parameters:
//   - polar: the largest polar angle in radians
//
// Returns:
//   - OrbitControllerOption: functional option to set the lower elevation bound
func WithMaxPolarAngle(polar float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minElevation = 1.5707964 - polar
	}
}

func WithOrbitSpeed(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.orbitSpeed = speed
	}
}

func WithMouseSensitivity(sensitivity float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.mouseSensitivity = sensitivity
	}
}

func WithZoomSpeed(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.zoomSpeed = speed
	}
}
