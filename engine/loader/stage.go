package loader

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/game_object"
)

var (
	// ErrNodeNotFound is returned when a stage has no node with the requested name.
	ErrNodeNotFound = errors.New("stage node not found")
	// ErrNodeHasNoMesh is returned when an anchor is requested for a transform-only node.
	ErrNodeHasNoMesh = errors.New("stage node has no mesh")
)

// stageNode is the flattened view of one named glTF node.
type stageNode struct {
	name    string
	world   [16]float32
	hasMesh bool
	min     [3]float32
	max     [3]float32
}

type stageImpl struct {
	name  string
	order []string
	nodes map[string]stageNode
}

// Stage is a parsed stage model reduced to its named nodes.
// It is immutable once loaded and safe for concurrent use.
type Stage interface {
	// Name returns the cache key the stage was loaded under.
	Name() string

	// Nodes lists the named nodes in document order.
	Nodes() []string

	// WorldMatrix returns the composed model-space transform of a node.
	//
	// Parameters:
	//   - node: the node name
	//
	// Returns:
	//   - [16]float32: column-major world matrix
	//   - error: ErrNodeNotFound
	WorldMatrix(node string) ([16]float32, error)

	// Bounds returns the node's mesh bounding box in the node's own space.
	//
	// Parameters:
	//   - node: the node name
	//
	// Returns:
	//   - [3]float32: minimum corner
	//   - [3]float32: maximum corner
	//   - error: ErrNodeNotFound or ErrNodeHasNoMesh
	Bounds(node string) ([3]float32, [3]float32, error)

	// Anchor builds a screen anchor for a flat mesh node. The thinnest axis of
	// the mesh bounds is treated as the screen normal and the anchor's local
	// +Z is rotated onto it, so the four corners always lie in local Z = const.
	//
	// Parameters:
	//   - node: the node name
	//   - options: extra game object options, applied after the geometry
	//
	// Returns:
	//   - game_object.GameObject: the anchor
	//   - error: ErrNodeNotFound or ErrNodeHasNoMesh
	Anchor(node string, options ...game_object.GameObjectBuilderOption) (game_object.GameObject, error)
}

var _ Stage = &stageImpl{}

func (s *stageImpl) Name() string {
	return s.name
}

func (s *stageImpl) Nodes() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *stageImpl) WorldMatrix(node string) ([16]float32, error) {
	n, ok := s.nodes[node]
	if !ok {
		return [16]float32{}, fmt.Errorf("%w: %q", ErrNodeNotFound, node)
	}
	return n.world, nil
}

func (s *stageImpl) Bounds(node string) ([3]float32, [3]float32, error) {
	n, ok := s.nodes[node]
	if !ok {
		return [3]float32{}, [3]float32{}, fmt.Errorf("%w: %q", ErrNodeNotFound, node)
	}
	if !n.hasMesh {
		return [3]float32{}, [3]float32{}, fmt.Errorf("%w: %q", ErrNodeHasNoMesh, node)
	}
	return n.min, n.max, nil
}

func (s *stageImpl) Anchor(node string, options ...game_object.GameObjectBuilderOption) (game_object.GameObject, error) {
	lo, hi, err := s.Bounds(node)
	if err != nil {
		return nil, err
	}

	basis, corners := planeFromBounds(lo, hi)
	world := s.nodes[node].world
	var local [16]float32
	common.Mul4(local[:], world[:], basis[:])

	opts := append([]game_object.GameObjectBuilderOption{
		game_object.WithName(node),
		game_object.WithLocalMatrix(local),
		game_object.WithCorners(corners),
	}, options...)
	return game_object.NewGameObject(opts...), nil
}

// planeFromBounds picks the thinnest axis of a bounding box as the plane
// normal. It returns the rotation taking local +Z onto that axis and the
// rectangle corners in the rotated frame, counter-clockwise from bottom-left.
func planeFromBounds(lo, hi [3]float32) ([16]float32, [4][3]float32) {
	ext := [3]float32{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
	mid := [3]float32{(hi[0] + lo[0]) / 2, (hi[1] + lo[1]) / 2, (hi[2] + lo[2]) / 2}

	var basis [16]float32
	switch {
	case ext[2] <= ext[0] && ext[2] <= ext[1]:
		common.Identity(basis[:])
		return basis, [4][3]float32{
			{lo[0], lo[1], mid[2]},
			{hi[0], lo[1], mid[2]},
			{hi[0], hi[1], mid[2]},
			{lo[0], hi[1], mid[2]},
		}
	case ext[1] <= ext[0]:
		// Floor-like plane: local (a, b, d) maps to (a, d, -b).
		common.BuildModelMatrix(basis[:], 0, 0, 0, -math.Pi/2, 0, 0, 1, 1, 1)
		return basis, [4][3]float32{
			{lo[0], -hi[2], mid[1]},
			{hi[0], -hi[2], mid[1]},
			{hi[0], -lo[2], mid[1]},
			{lo[0], -lo[2], mid[1]},
		}
	default:
		// Side wall: local (a, b, d) maps to (d, b, -a).
		common.BuildModelMatrix(basis[:], 0, 0, 0, 0, math.Pi/2, 0, 1, 1, 1)
		return basis, [4][3]float32{
			{-hi[2], lo[1], mid[0]},
			{-lo[2], lo[1], mid[0]},
			{-lo[2], hi[1], mid[0]},
			{-hi[2], hi[1], mid[0]},
		}
	}
}
