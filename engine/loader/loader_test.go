package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// buildGLB packs a document and a single binary buffer into a GLB container.
func buildGLB(t *testing.T, doc map[string]any, bin []byte) []byte {
	t.Helper()
	js, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBHeader{gltfGLBMagic, gltfGLBVersion, uint32(total)})
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{uint32(len(js)), gltfGLBChunkJSON})
	out.Write(js)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{uint32(len(bin)), gltfGLBChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

func positionsBuffer(pts [][3]float32) []byte {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, pts)
	return b.Bytes()
}

// stageDocument describes a stage root with a back screen child and a floor.
// The screen accessor has no min/max so its bounds come from the vertices.
func stageDocument(screenBytes, floorBytes int) map[string]any {
	return map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes": []any{
			map[string]any{"name": "StageRoot", "translation": []float32{0, 0, -3}, "children": []int{1, 2}},
			map[string]any{"name": "BackScreen", "translation": []float32{0, 1.5, -15.5}, "mesh": 0},
			map[string]any{"name": "Floor", "mesh": 1},
		},
		"meshes": []any{
			map[string]any{"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 0}}}},
			map[string]any{"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": 1}}}},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": 4, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentTypeFloat, "count": 4, "type": "VEC3",
				"min": []float32{-2, 0, -1}, "max": []float32{2, 0, 1}},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": screenBytes},
			map[string]any{"buffer": 0, "byteOffset": screenBytes, "byteLength": floorBytes},
		},
		"buffers": []any{map[string]any{"byteLength": screenBytes + floorBytes}},
	}
}

func stageGLB(t *testing.T) []byte {
	screen := positionsBuffer([][3]float32{{-12, -5, 0}, {12, -5, 0}, {12, 5, 0}, {-12, 5, 0}})
	floor := positionsBuffer([][3]float32{{-2, 0, -1}, {2, 0, -1}, {2, 0, 1}, {-2, 0, 1}})
	return buildGLB(t, stageDocument(len(screen), len(floor)), append(screen, floor...))
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b [3]float32) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestLoadReaderFlattensHierarchy(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	s, err := l.LoadReader("stage", bytes.NewReader(stageGLB(t)), true)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	if got := s.Nodes(); len(got) != 3 || got[0] != "StageRoot" || got[1] != "BackScreen" {
		t.Errorf("Nodes = %v", got)
	}

	w, err := s.WorldMatrix("BackScreen")
	if err != nil {
		t.Fatal(err)
	}
	if !nearVec([3]float32{w[12], w[13], w[14]}, [3]float32{0, 1.5, -18.5}) {
		t.Errorf("world translation = %v", w[12:15])
	}

	lo, hi, err := s.Bounds("BackScreen")
	if err != nil {
		t.Fatal(err)
	}
	if lo != [3]float32{-12, -5, 0} || hi != [3]float32{12, 5, 0} {
		t.Errorf("bounds = %v %v", lo, hi)
	}

	if l.Get("stage") != s {
		t.Error("stage was not cached")
	}
}

func TestAnchorFromScreenNode(t *testing.T) {
	s, err := NewLoader(BackendTypeGLTF).LoadReader("stage", bytes.NewReader(stageGLB(t)), true)
	if err != nil {
		t.Fatal(err)
	}

	anchor, err := s.Anchor("BackScreen")
	if err != nil {
		t.Fatalf("Anchor: %v", err)
	}
	if anchor.Name() != "BackScreen" {
		t.Errorf("name = %q", anchor.Name())
	}
	want := [4][3]float32{{-12, -5, 0}, {12, -5, 0}, {12, 5, 0}, {-12, 5, 0}}
	if got := anchor.Corners(); got != want {
		t.Errorf("corners = %v", got)
	}
	if n := anchor.Normal(); !nearVec(n, [3]float32{0, 0, 1}) {
		t.Errorf("normal = %v", n)
	}
}

func TestAnchorFromFloorNodeFacesUp(t *testing.T) {
	s, err := NewLoader(BackendTypeGLTF).LoadReader("stage", bytes.NewReader(stageGLB(t)), true)
	if err != nil {
		t.Fatal(err)
	}
	anchor, err := s.Anchor("Floor")
	if err != nil {
		t.Fatal(err)
	}
	if n := anchor.Normal(); !nearVec(n, [3]float32{0, 1, 0}) {
		t.Errorf("normal = %v, want +Y", n)
	}

	w := anchor.WorldMatrix()
	c := anchor.Corners()
	p := common.TransformPoint4(w[:], c[0][0], c[0][1], c[0][2])
	if !nearVec([3]float32{p[0], p[1], p[2]}, [3]float32{-2, 0, -2}) {
		t.Errorf("first corner in world = %v", p)
	}
}

func TestAnchorErrors(t *testing.T) {
	s, err := NewLoader(BackendTypeGLTF).LoadReader("stage", bytes.NewReader(stageGLB(t)), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Anchor("Nope"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("err = %v, want ErrNodeNotFound", err)
	}
	if _, err := s.Anchor("StageRoot"); !errors.Is(err, ErrNodeHasNoMesh) {
		t.Errorf("err = %v, want ErrNodeHasNoMesh", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.glb")
	if err := os.WriteFile(path, stageGLB(t), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(BackendTypeGLTF)
	first, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := l.Load(path)
	if err != nil || second != first {
		t.Errorf("second load should hit the cache: %v", err)
	}
	if len(l.Stages()) != 1 {
		t.Errorf("cache size = %d", len(l.Stages()))
	}

	if _, err := l.Load(filepath.Join(dir, "stage.obj")); err == nil {
		t.Error("expected an unsupported format error")
	}
}

func TestParseRejectsBadContainers(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", append([]byte("nope"), make([]byte, 8)...), errInvalidGLBMagic},
		{"bad version", func() []byte {
			var b bytes.Buffer
			_ = binary.Write(&b, binary.LittleEndian, gltfGLBHeader{gltfGLBMagic, 1, 12})
			return b.Bytes()
		}(), errInvalidGLBVersion},
		{"no json chunk", func() []byte {
			var b bytes.Buffer
			_ = binary.Write(&b, binary.LittleEndian, gltfGLBHeader{gltfGLBMagic, gltfGLBVersion, 12})
			return b.Bytes()
		}(), errMissingJSONChunk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newGLTFParser().ParseReader(bytes.NewReader(tt.data), true)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseGLTFVersion(t *testing.T) {
	err := newGLTFParser().ParseReader(bytes.NewReader([]byte(`{"asset":{"version":"1.0"}}`)), false)
	if !errors.Is(err, errInvalidGLTFVersion) {
		t.Errorf("err = %v", err)
	}
}
