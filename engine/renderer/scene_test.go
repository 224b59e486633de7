package renderer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer/pipeline"
)

func floats(t *testing.T, buf []byte) []float32 {
	t.Helper()
	if len(buf)%4 != 0 {
		t.Fatalf("buffer of %d bytes is not float aligned", len(buf))
	}
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = readFloat(t, buf, i)
	}
	return out
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewRendererBuildsScenePipelines(t *testing.T) {
	b := &fakeBackend{pipelineErr: map[string]error{PipelineLines: errors.New("no line support")}}
	r, err := NewRenderer(nil, 800, 600, WithBackend(b))
	if err != nil {
		t.Fatalf("a failing layer should not be fatal: %v", err)
	}
	defer r.Release()

	want := []string{PipelineScreens, PipelineSprites}
	if len(b.pipelines) != len(want) {
		t.Fatalf("pipelines = %v, want %v", b.pipelines, want)
	}
	for i := range want {
		if b.pipelines[i] != want[i] {
			t.Errorf("pipeline %d = %q, want %q", i, b.pipelines[i], want[i])
		}
	}
}

func TestWithPipelinesReplacesDefaults(t *testing.T) {
	b := &fakeBackend{}
	custom := pipeline.NewPipeline("custom", pipeline.WithSource("@vertex fn vs_main() {}"))
	empty := pipeline.NewPipeline("empty")
	if _, err := NewRenderer(nil, 800, 600, WithBackend(b), WithPipelines(custom, empty)); err != nil {
		t.Fatal(err)
	}
	if len(b.pipelines) != 1 || b.pipelines[0] != "custom" {
		t.Errorf("pipelines = %v", b.pipelines)
	}
}

func TestScenePipelineLayouts(t *testing.T) {
	tests := []struct {
		key      string
		stride   uint64
		bindings int
		additive bool
	}{
		{PipelineScreens, screenVertexStride, 2, false},
		{PipelineLines, lineVertexStride, 1, true},
		{PipelineSprites, spriteStride, 1, true},
	}
	ps := scenePipelines()
	if len(ps) != len(tests) {
		t.Fatalf("%d scene pipelines", len(ps))
	}
	for i, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p := ps[i]
			if p.PipelineKey() != tt.key {
				t.Fatalf("key = %q", p.PipelineKey())
			}
			if err := p.Validate(); err != nil {
				t.Fatal(err)
			}
			layouts := p.VertexLayouts()
			if len(layouts) != 1 || layouts[0].ArrayStride != tt.stride {
				t.Errorf("layouts = %+v, want stride %d", layouts, tt.stride)
			}
			if len(p.Bindings()) != tt.bindings {
				t.Errorf("bindings = %v", p.Bindings())
			}
			bs := p.BlendState()
			if bs == nil {
				t.Fatal("scene layers must blend")
			}
			if got := bs.Color.DstFactor == pipeline.AdditiveBlend().Color.DstFactor; got != tt.additive {
				t.Errorf("additive = %v, want %v", got, tt.additive)
			}
		})
	}
}

func TestDrawListPacksSprites(t *testing.T) {
	f := Frame{Sprites: []Sprite{
		{Position: [3]float32{1, 2, 3}, Size: 0.5, Color: common.Color3{1, 0, 0.5}, Alpha: 0.8},
		{Position: [3]float32{9, 9, 9}, Size: 1, Alpha: 0},
		{Position: [3]float32{4, 5, 6}, Size: 0.1, Color: common.Color3{0, 1, 0}, Alpha: 1},
	}}
	d := f.DrawList()
	if d.SpriteCount != 2 || len(d.Sprites) != 2*spriteStride {
		t.Fatalf("count = %d, bytes = %d", d.SpriteCount, len(d.Sprites))
	}
	want := []float32{
		1, 2, 3, 0.5, 1, 0, 0.5, 0.8,
		4, 5, 6, 0.1, 0, 1, 0, 1,
	}
	if got := floats(t, d.Sprites); !equalFloats(got, want) {
		t.Errorf("sprites = %v, want %v", got, want)
	}
}

func TestDrawListPacksLines(t *testing.T) {
	f := Frame{Lines: []Line{
		{From: [3]float32{0, -1, 0}, To: [3]float32{0, 1, 0}, Color: common.Color3{0.2, 0.4, 0.6}, Alpha: 0.5},
		{From: [3]float32{1, 1, 1}, To: [3]float32{2, 2, 2}, Alpha: -1},
	}}
	d := f.DrawList()
	if d.LineVertices != 2 || len(d.Lines) != 2*lineVertexStride {
		t.Fatalf("vertices = %d, bytes = %d", d.LineVertices, len(d.Lines))
	}
	want := []float32{
		0, -1, 0, 0.2, 0.4, 0.6, 0.5,
		0, 1, 0, 0.2, 0.4, 0.6, 0.5,
	}
	if got := floats(t, d.Lines); !equalFloats(got, want) {
		t.Errorf("lines = %v, want %v", got, want)
	}
}

func TestDrawListScreensCarryOpacityAndTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	corners := [4][3]float32{{-1, -1, -5}, {1, -1, -5}, {1, 1, -5}, {-1, 1, -5}}
	f := Frame{Screens: []Screen{
		{ID: 7, Corners: corners, Image: img, Revision: 3, Opacity: 0.4},
		{ID: 8, Corners: corners, Image: nil, Opacity: 1},
		{ID: 9, Corners: corners, Image: img, Opacity: 0},
		{ID: 10, Corners: corners, Image: img, Opacity: 3},
	}}
	d := f.DrawList()
	if len(d.Screens) != 2 {
		t.Fatalf("screens = %d, want 2", len(d.Screens))
	}

	s := d.Screens[0]
	if s.ID != 7 || s.Revision != 3 || s.Image != image.Image(img) {
		t.Errorf("screen = %+v", s)
	}
	want := []float32{
		-1, -1, -5, 0, 1, 0.4,
		1, -1, -5, 1, 1, 0.4,
		1, 1, -5, 1, 0, 0.4,
		-1, 1, -5, 0, 0, 0.4,
	}
	if got := floats(t, s.Vertices); !equalFloats(got, want) {
		t.Errorf("vertices = %v, want %v", got, want)
	}

	if op := floats(t, d.Screens[1].Vertices)[5]; op != 1 {
		t.Errorf("opacity %v not clamped to 1", op)
	}
}

func TestCameraFromView(t *testing.T) {
	var view, vp [16]float32
	common.Identity(view[:])
	common.Identity(vp[:])
	vp[14] = 2

	c := CameraFromView(view, vp)
	if c.Right != [3]float32{1, 0, 0} || c.Up != [3]float32{0, 1, 0} {
		t.Errorf("right = %v, up = %v", c.Right, c.Up)
	}

	buf := Frame{Camera: c}.DrawList().Camera
	if len(buf) != cameraSize {
		t.Fatalf("camera block is %d bytes", len(buf))
	}
	got := floats(t, buf)
	if got[14] != 2 || got[16] != 1 || got[21] != 1 {
		t.Errorf("camera = %v", got)
	}
}

func TestRGBAPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.Set(10, 10, color.NRGBA{R: 255, A: 255})
	src.Set(11, 10, color.NRGBA{B: 255, A: 255})

	pix, w, h := rgbaPixels(src)
	if w != 2 || h != 1 || len(pix) != 8 {
		t.Fatalf("w = %d, h = %d, %d bytes", w, h, len(pix))
	}
	if pix[0] != 255 || pix[6] != 255 {
		t.Errorf("pixels = %v", pix)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 3, 3))
	if got, _, _ := rgbaPixels(rgba); &got[0] != &rgba.Pix[0] {
		t.Error("packed RGBA images should be passed through")
	}
	if _, w, _ := rgbaPixels(nil); w != 0 {
		t.Error("nil image should be empty")
	}
}
