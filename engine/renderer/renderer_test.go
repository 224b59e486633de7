package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/effects"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer/pipeline"
)

type fakeBackend struct {
	configured  [][2]int
	present     PresentMode
	shader      string
	initErr     error
	pipelineErr map[string]error
	pipelines   []string
	drawErr     error
	lists       []DrawList
	released    int
}

func (b *fakeBackend) ConfigureSurface(w, h int)       { b.configured = append(b.configured, [2]int{w, h}) }
func (b *fakeBackend) SetPresentMode(mode PresentMode) { b.present = mode }
func (b *fakeBackend) InitBackground(src string) error {
	b.shader = src
	return b.initErr
}
func (b *fakeBackend) InitPipeline(p pipeline.Pipeline) error {
	if err := b.pipelineErr[p.PipelineKey()]; err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	b.pipelines = append(b.pipelines, p.PipelineKey())
	return nil
}
func (b *fakeBackend) DrawFrame(d DrawList) error {
	if b.drawErr != nil {
		return b.drawErr
	}
	b.lists = append(b.lists, d)
	return nil
}
func (b *fakeBackend) Release() { b.released++ }

func readFloat(t *testing.T, buf []byte, index int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[index*4:]))
}

func TestNewRendererConfiguresBackend(t *testing.T) {
	b := &fakeBackend{}
	r, err := NewRenderer(nil, 800, 600, WithBackend(b), WithPresentMode(PresentModeUncapped))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	defer r.Release()

	if len(b.configured) != 1 || b.configured[0] != [2]int{800, 600} {
		t.Errorf("configured = %v", b.configured)
	}
	if b.present != PresentModeUncapped {
		t.Errorf("present mode = %v", b.present)
	}
	if b.shader != backgroundShader || b.shader == "" {
		t.Error("embedded background shader not passed to the backend")
	}
}

func TestNewRendererWithoutSurface(t *testing.T) {
	if _, err := NewRenderer(nil, 800, 600); err == nil {
		t.Error("expected an error for a nil surface descriptor")
	}
}

func TestShaderFailureFallsBackToClear(t *testing.T) {
	b := &fakeBackend{initErr: errors.New("bad wgsl")}
	r, err := NewRenderer(nil, 800, 600, WithBackend(b), WithShaderSource("nope"))
	if err != nil {
		t.Fatalf("shader failure should not be fatal: %v", err)
	}
	if err := r.Render(Frame{Clear: common.Color3{0.2, 0.1, 0}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b.shader != "nope" || r.Frames() != 1 {
		t.Errorf("shader = %q, frames = %d", b.shader, r.Frames())
	}
}

func TestRenderPacksFrame(t *testing.T) {
	b := &fakeBackend{}
	r, _ := NewRenderer(nil, 1600, 800, WithBackend(b))

	f := Frame{
		Background: effects.BackgroundUniforms{
			Time:          2,
			Mouse:         common.Vec2{X: 0.5, Y: -0.5},
			Scroll:        0.25,
			Beat:          0.75,
			SongTint:      common.Color3{1, 0.5, 0.25},
			LiveIntensity: 0.8,
		},
		Clear: common.Color3{0.1, 0.1, 0.1},
		Flash: 2,
	}
	if err := r.Render(f); err != nil {
		t.Fatal(err)
	}

	u := b.lists[0].Background
	if len(u) != uniformSize {
		t.Fatalf("uniform block is %d bytes", len(u))
	}
	want := []float32{2, 0.25, 0.5, -0.5, 1, 0.5, 0.25, 0.75, 0.8, 1, 2, 0}
	for i, w := range want {
		if got := readFloat(t, u, i); got != w {
			t.Errorf("uniform[%d] = %v, want %v", i, got, w)
		}
	}

	// Flash saturates to the flash color, which defaults to black.
	if c := b.lists[0].Clear; c.R != 0 || c.G != 0 || c.B != 0 || c.A != 1 {
		t.Errorf("clear = %+v", c)
	}
}

func TestClearValueBlendsAmbientAndFlash(t *testing.T) {
	f := Frame{
		Clear:      common.Color3{0.1, 0.2, 0.3},
		Ambient:    common.Color3{1, 1, 1},
		Flash:      0.5,
		FlashColor: common.Color3{1, 1, 1},
	}
	c := f.ClearValue()
	const eps = 1e-6
	for i, want := range []float64{0.6, 0.65, 0.7} {
		got := []float64{c.R, c.G, c.B}[i]
		if math.Abs(got-want) > eps {
			t.Errorf("channel %d = %v, want %v", i, got, want)
		}
	}
}

func TestResizeAndRelease(t *testing.T) {
	b := &fakeBackend{}
	r, _ := NewRenderer(nil, 800, 600, WithBackend(b))

	r.Resize(0, 0)
	r.Resize(800, 600)
	r.Resize(1024, 768)
	if len(b.configured) != 2 || b.configured[1] != [2]int{1024, 768} {
		t.Errorf("configured = %v", b.configured)
	}

	r.Release()
	r.Release()
	if b.released != 1 {
		t.Errorf("released %d times", b.released)
	}
	if err := r.Render(Frame{}); !errors.Is(err, errReleased) {
		t.Errorf("Render after Release = %v", err)
	}
}

func TestDrawErrorIsNotCounted(t *testing.T) {
	b := &fakeBackend{drawErr: errors.New("outdated surface")}
	r, _ := NewRenderer(nil, 800, 600, WithBackend(b))
	if err := r.Render(Frame{}); err == nil {
		t.Fatal("expected draw error")
	}
	if r.Frames() != 0 {
		t.Errorf("frames = %d", r.Frames())
	}
}
