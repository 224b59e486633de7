package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// DefaultHalfExtents are the half width and half height of the stage's back screen plane.
var DefaultHalfExtents = [2]float32{12, 5}

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	name    string
	enabled atomic.Bool
	parent  GameObject

	position [3]float32
	rotation [3]float32
	scale    [3]float32

	// world overrides the TRS transform when set (objects resolved from a glTF node).
	world    [16]float32
	hasWorld bool

	halfExtents [2]float32
	corners     [4][3]float32
	hasCorners  bool

	material Material
}

// GameObject defines the interface for a stage entity: a transform, optional parent,
// local plane geometry and a material whose opacity, color and texture the effects drive.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name, e.g. the glTF node it was resolved from.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Parent returns the parent object, or nil.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// SetParent attaches the object under parent; its world matrix becomes parent · local.
	//
	// Parameters:
	//   - parent: the parent object, or nil to detach
	SetParent(parent GameObject)

	// Position returns the local position.
	//
	// Returns:
	//   - [3]float32: position components
	Position() [3]float32

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Rotation returns the local Euler rotation in radians, composed as Ry · Rx · Rz.
	//
	// Returns:
	//   - [3]float32: rotation angles
	Rotation() [3]float32

	// SetRotation sets the local Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// Scale returns the local scale.
	//
	// Returns:
	//   - [3]float32: scale factors
	Scale() [3]float32

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// SetLocalMatrix replaces the TRS transform with an explicit column-major matrix.
	//
	// Parameters:
	//   - m: the local matrix
	SetLocalMatrix(m [16]float32)

	// LocalMatrix returns the explicit matrix if one was set, otherwise the matrix composed from TRS.
	//
	// Returns:
	//   - [16]float32: the local matrix
	LocalMatrix() [16]float32

	// WorldMatrix rebuilds and returns the world matrix, walking up the parent chain.
	//
	// Returns:
	//   - [16]float32: the world matrix
	WorldMatrix() [16]float32

	// HalfExtents returns the half width and half height of the object's local plane.
	//
	// Returns:
	//   - [2]float32: half extents
	HalfExtents() [2]float32

	// SetHalfExtents sets the local plane size.
	//
	// Parameters:
	//   - halfW, halfH: half width and half height
	SetHalfExtents(halfW, halfH float32)

	// Corners returns the four local-space corners of the plane, counter-clockwise from
	// bottom-left. Explicit corners win over half extents.
	//
	// Returns:
	//   - [4][3]float32: local corners
	Corners() [4][3]float32

	// SetCorners sets explicit local corners, e.g. from a mesh bounding box.
	//
	// Parameters:
	//   - corners: the four local-space corners
	SetCorners(corners [4][3]float32)

	// Normal returns the world-space unit normal of the plane (local +Z).
	//
	// Returns:
	//   - [3]float32: the normal
	Normal() [3]float32

	// Material returns the object's material.
	//
	// Returns:
	//   - Material: the material
	Material() Material
}

var _ GameObject = &gameObject{}

var nextID atomic.Uint64

// NewGameObject creates a new enabled GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:          &sync.Mutex{},
		id:          nextID.Add(1),
		scale:       [3]float32{1, 1, 1},
		halfExtents: DefaultHalfExtents,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.material == nil {
		obj.material = NewMaterial()
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Parent() GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parent
}

func (g *gameObject) SetParent(parent GameObject) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.parent = parent
}

func (g *gameObject) Position() [3]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) Rotation() [3]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = [3]float32{rx, ry, rz}
}

func (g *gameObject) Scale() [3]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = [3]float32{sx, sy, sz}
}

func (g *gameObject) SetLocalMatrix(m [16]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.world = m
	g.hasWorld = true
}

func (g *gameObject) LocalMatrix() [16]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.localMatrix()
}

func (g *gameObject) WorldMatrix() [16]float32 {
	g.mu.Lock()
	local := g.localMatrix()
	parent := g.parent
	g.mu.Unlock()

	if parent == nil {
		return local
	}
	pw := parent.WorldMatrix()
	var out [16]float32
	common.Mul4(out[:], pw[:], local[:])
	return out
}

func (g *gameObject) HalfExtents() [2]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.halfExtents
}

func (g *gameObject) SetHalfExtents(halfW, halfH float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.halfExtents = [2]float32{halfW, halfH}
	g.hasCorners = false
}

func (g *gameObject) Corners() [4][3]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hasCorners {
		return g.corners
	}
	hw, hh := g.halfExtents[0], g.halfExtents[1]
	return [4][3]float32{
		{-hw, -hh, 0},
		{hw, -hh, 0},
		{hw, hh, 0},
		{-hw, hh, 0},
	}
}

func (g *gameObject) SetCorners(corners [4][3]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.corners = corners
	g.hasCorners = true
}

func (g *gameObject) Normal() [3]float32 {
	w := g.WorldMatrix()
	return common.Normalize3(common.TransformDirection(w[:], 0, 0, 1))
}

func (g *gameObject) Material() Material {
	return g.material
}

// localMatrix returns the explicit matrix or composes one from TRS. Caller must hold the mutex.
func (g *gameObject) localMatrix() [16]float32 {
	if g.hasWorld {
		return g.world
	}
	var m [16]float32
	common.BuildModelMatrix(m[:],
		g.position[0], g.position[1], g.position[2],
		g.rotation[0], g.rotation[1], g.rotation[2],
		g.scale[0], g.scale[1], g.scale[2],
	)
	return m
}
