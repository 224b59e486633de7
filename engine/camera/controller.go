package camera

// Controller supplies the eye position and look-at target the Camera reads on Update.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space camera position
	Position() [3]float32

	// Target returns the look-at point.
	//
	// Returns:
	//   - [3]float32: world-space target position
	Target() [3]float32
}

// OrbitController provides free-look orbit controls using spherical coordinates
// (radius, azimuth, elevation) relative to a target/pivot point. The stage uses it
// in Explore mode.
type OrbitController interface {
	Controller

	// SetTarget sets the pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space pivot
	SetTarget(target [3]float32)

	// LookFrom places the camera at position looking at target, deriving the spherical
	// coordinates from the offset. Radius and elevation are clamped to their bounds.
	//
	// Parameters:
	//   - position: world-space eye position
	//   - target: world-space pivot
	LookFrom(position, target [3]float32)

	// Rotate applies a pointer drag in pixels, scaled by the mouse sensitivity.
	//
	// Parameters:
	//   - dx: horizontal drag, positive to the right
	//   - dy: vertical drag, positive downward
	Rotate(dx, dy float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Zoom adjusts the distance to the target. Positive delta moves closer.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Radius returns the current distance from the target.
	//
	// Returns:
	//   - float32: orbit radius
	Radius() float32

	// RadiusBounds returns the allowed orbit radius range.
	//
	// Returns:
	//   - min, max: the radius bounds
	RadiusBounds() (min, max float32)

	// Azimuth returns the horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// ElevationBounds returns the allowed elevation range.
	//
	// Returns:
	//   - min, max: the elevation bounds in radians
	ElevationBounds() (min, max float32)
}
