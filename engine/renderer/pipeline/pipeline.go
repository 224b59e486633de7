// Package pipeline describes the render pipelines the stage renderer draws its
// scene layers with. A Pipeline carries the WGSL source and the fixed-function
// state; the backend compiles it and stores the resulting GPU object back on it.
package pipeline

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// Binding identifies the bind groups a pipeline layout is built from.
type Binding int

const (
	// BindingCamera is group 0: the camera uniform block, visible to the vertex stage.
	BindingCamera Binding = iota

	// BindingTexture is group 1: a 2D texture and its filtering sampler, visible to the fragment stage.
	BindingTexture
)

// ErrNoSource is returned by Validate for a pipeline without shader source.
var ErrNoSource = errors.New("pipeline has no shader source")

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for lookups by the backend
	pipelineKey string

	source        string
	vertexEntry   string
	fragmentEntry string
	bindings      []Binding
	vertexLayouts []wgpu.VertexBufferLayout

	renderPipeline *wgpu.RenderPipeline

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline of the scene pass. It holds all
// configuration state required for pipeline creation: shader source and entry points,
// bind groups, vertex layouts, blend, cull and topology settings.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Source returns the WGSL source compiled for both stages.
	//
	// Returns:
	//   - string: the shader source
	Source() string

	// EntryPoints returns the vertex and fragment entry point names.
	//
	// Returns:
	//   - string: the vertex entry point
	//   - string: the fragment entry point
	EntryPoints() (vertex, fragment string)

	// Bindings returns the bind groups of the pipeline layout, in group order.
	//
	// Returns:
	//   - []Binding: the bind groups
	Bindings() []Binding

	// VertexLayouts returns the vertex buffer layouts, in slot order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// RenderPipeline returns the compiled GPU pipeline, or nil before the backend built it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is not enabled
	BlendState() *wgpu.BlendState

	// ColorTarget returns the color target state for a surface format.
	//
	// Parameters:
	//   - format: the surface texture format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the target with this pipeline's write mask and blend
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState

	// Validate reports whether the pipeline can be compiled.
	//
	// Returns:
	//   - error: ErrNoSource when no shader source was set
	Validate() error

	// SetRenderPipeline sets the compiled render pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the compiled GPU pipeline, if any.
	Release()
}

var _ Pipeline = &pipeline{}

// AlphaBlend is the default straight-alpha blend state.
func AlphaBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// AdditiveBlend adds the alpha-weighted source onto the target, the way glowing
// particles and beams accumulate.
func AdditiveBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorZero,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// NewPipeline is the entry point to create a new Pipeline. Without options the pipeline
// draws an unblended triangle list bound to the camera group.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:   pipelineKey,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		bindings:      []Binding{BindingCamera},
		blendEnabled:  false,
		cullMode:      wgpu.CullModeNone,
		topology:      wgpu.PrimitiveTopologyTriangleList,
		frontFace:     wgpu.FrontFaceCCW,
		writeMask:     wgpu.ColorWriteMaskAll,
		blendState:    AlphaBlend(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) EntryPoints() (string, string) {
	return p.vertexEntry, p.fragmentEntry
}

func (p *pipeline) Bindings() []Binding {
	return p.bindings
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	return wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
		Blend:     p.BlendState(),
	}
}

func (p *pipeline) Validate() error {
	if p.source == "" {
		return ErrNoSource
	}
	return nil
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
