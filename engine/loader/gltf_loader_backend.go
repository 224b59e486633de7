package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

type gltfLoaderBackendImpl struct{}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) ([]stageNode, error) {
	p := newGLTFParser()
	if err := p.Parse(path); err != nil {
		return nil, err
	}
	return flattenNodes(p)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool) ([]stageNode, error) {
	p := newGLTFParser()
	if err := p.ParseReader(r, isGLB); err != nil {
		return nil, err
	}
	return flattenNodes(p)
}

// flattenNodes walks the default scene (or every root node when the document
// has no scenes) and records the world transform and mesh bounds of each
// named node.
func flattenNodes(p gltfParser) ([]stageNode, error) {
	doc := p.Document()

	var roots []int
	switch {
	case len(doc.Scenes) > 0:
		scene := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			scene = *doc.Scene
		}
		roots = doc.Scenes[scene].Nodes
	default:
		isChild := make([]bool, len(doc.Nodes))
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				if c >= 0 && c < len(isChild) {
					isChild[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !isChild[i] {
				roots = append(roots, i)
			}
		}
	}

	var identity [16]float32
	common.Identity(identity[:])

	var out []stageNode
	visited := make([]bool, len(doc.Nodes))
	var walk func(idx int, parent [16]float32) error
	walk = func(idx int, parent [16]float32) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", idx)
		}
		if visited[idx] {
			return fmt.Errorf("node %d appears twice in the hierarchy", idx)
		}
		visited[idx] = true

		node := &doc.Nodes[idx]
		local := nodeLocalMatrix(node)
		var world [16]float32
		common.Mul4(world[:], parent[:], local[:])

		if node.Name != "" {
			sn := stageNode{name: node.Name, world: world}
			if node.Mesh != nil {
				lo, hi, err := p.PositionBounds(*node.Mesh)
				if err != nil {
					return fmt.Errorf("node %q: %w", node.Name, err)
				}
				sn.hasMesh = true
				sn.min, sn.max = lo, hi
			}
			out = append(out, sn)
		}

		for _, c := range node.Children {
			if err := walk(c, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := walk(r, identity); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func nodeLocalMatrix(n *gltfNode) [16]float32 {
	var m [16]float32
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := [3]float32{}
	q := [4]float32{0, 0, 0, 1}
	s := [3]float32{1, 1, 1}
	if n.Translation != nil {
		t = *n.Translation
	}
	if n.Rotation != nil {
		q = *n.Rotation
	}
	if n.Scale != nil {
		s = *n.Scale
	}
	common.ComposeTRS(m[:], t, q, s)
	return m
}
