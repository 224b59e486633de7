package pipeline

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("plain", WithSource("src"))

	if p.PipelineKey() != "plain" || p.Source() != "src" {
		t.Errorf("key = %q, source = %q", p.PipelineKey(), p.Source())
	}
	if vs, fs := p.EntryPoints(); vs != "vs_main" || fs != "fs_main" {
		t.Errorf("entry points = %q, %q", vs, fs)
	}
	if b := p.Bindings(); len(b) != 1 || b[0] != BindingCamera {
		t.Errorf("bindings = %v", b)
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList || p.CullMode() != wgpu.CullModeNone || p.FrontFace() != wgpu.FrontFaceCCW {
		t.Error("unexpected primitive defaults")
	}
	if p.BlendEnabled() || p.BlendState() != nil {
		t.Error("blending should be off by default")
	}
	target := p.ColorTarget(wgpu.TextureFormatBGRA8Unorm)
	if target.Format != wgpu.TextureFormatBGRA8Unorm || target.WriteMask != wgpu.ColorWriteMaskAll || target.Blend != nil {
		t.Errorf("target = %+v", target)
	}
	if p.RenderPipeline() != nil {
		t.Error("pipeline compiled before the backend built it")
	}
}

func TestBlendOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []PipelineBuilderOption
		enabled bool
		dst     wgpu.BlendFactor
	}{
		{"alpha state", []PipelineBuilderOption{WithBlendState(AlphaBlend())}, true, wgpu.BlendFactorOneMinusSrcAlpha},
		{"additive state", []PipelineBuilderOption{WithBlendState(AdditiveBlend())}, true, wgpu.BlendFactorOne},
		{"enabled keeps alpha default", []PipelineBuilderOption{WithBlendEnabled(true)}, true, wgpu.BlendFactorOneMinusSrcAlpha},
		{"disabled after state", []PipelineBuilderOption{WithBlendState(AdditiveBlend()), WithBlendEnabled(false)}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline("p", tt.opts...)
			if p.BlendEnabled() != tt.enabled {
				t.Fatalf("enabled = %v", p.BlendEnabled())
			}
			bs := p.ColorTarget(wgpu.TextureFormatRGBA8Unorm).Blend
			if !tt.enabled {
				if bs != nil {
					t.Errorf("blend = %+v, want nil", bs)
				}
				return
			}
			if bs == nil || bs.Color.DstFactor != tt.dst {
				t.Errorf("blend = %+v, want dst %v", bs, tt.dst)
			}
		})
	}
}

func TestWithVertexAttributes(t *testing.T) {
	p := NewPipeline("instanced",
		WithVertexAttributes(wgpu.VertexStepModeVertex, wgpu.VertexFormatFloat32x2),
		WithVertexAttributes(wgpu.VertexStepModeInstance,
			wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32, wgpu.VertexFormatFloat32x4),
	)

	layouts := p.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("%d layouts", len(layouts))
	}
	if layouts[0].ArrayStride != 8 || layouts[0].StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("layout 0 = %+v", layouts[0])
	}

	inst := layouts[1]
	if inst.ArrayStride != 32 || inst.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("layout 1 stride = %d, step = %v", inst.ArrayStride, inst.StepMode)
	}
	wantOffsets := []uint64{0, 12, 16}
	for i, a := range inst.Attributes {
		if a.Offset != wantOffsets[i] || a.ShaderLocation != uint32(i+1) {
			t.Errorf("attribute %d = %+v", i, a)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := NewPipeline("empty").Validate(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Validate = %v, want ErrNoSource", err)
	}
	p := NewPipeline("textured", WithSource("src"), WithBindings(BindingCamera, BindingTexture), WithEntryPoints("v", "f"))
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if vs, fs := p.EntryPoints(); vs != "v" || fs != "f" {
		t.Errorf("entry points = %q, %q", vs, fs)
	}
	if b := p.Bindings(); len(b) != 2 || b[1] != BindingTexture {
		t.Errorf("bindings = %v", b)
	}
	p.Release()
}
