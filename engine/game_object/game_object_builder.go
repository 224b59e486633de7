package game_object

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject. IDs are assigned sequentially otherwise.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithParent attaches the GameObject under a parent.
//
// Parameters:
//   - parent: the parent object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the parent
func WithParent(parent GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parent = parent
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the initial local Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - sx, sy, sz: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithLocalMatrix sets an explicit local matrix that overrides TRS.
//
// Parameters:
//   - m: column-major matrix
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the matrix
func WithLocalMatrix(m [16]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.world = m
		obj.hasWorld = true
	}
}

// WithHalfExtents sets the local plane half width and half height.
//
// Parameters:
//   - halfW, halfH: half extents
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the plane size
func WithHalfExtents(halfW, halfH float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.halfExtents = [2]float32{halfW, halfH}
	}
}

// WithCorners sets explicit local plane corners.
//
// Parameters:
//   - corners: four local-space corners
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the corners
func WithCorners(corners [4][3]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.corners = corners
		obj.hasCorners = true
	}
}

// WithMaterial sets the object's material.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the material
func WithMaterial(m Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.material = m
	}
}
