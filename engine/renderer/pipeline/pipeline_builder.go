package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithSource sets the WGSL source for both shader stages.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader source for this pipeline
func WithSource(source string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.source = source
	}
}

// WithEntryPoints overrides the default vs_main / fs_main entry points.
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithBindings sets the bind groups of the pipeline layout, in group order.
//
// Parameters:
//   - bindings: the bind groups
//
// Returns:
//   - PipelineBuilderOption: a function that sets the bind groups for this pipeline
func WithBindings(bindings ...Binding) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindings = bindings
	}
}

// WithVertexAttributes appends a tightly packed float vertex buffer layout. Shader
// locations continue from the previously added layouts.
//
// Parameters:
//   - stepMode: per-vertex or per-instance stepping
//   - formats: the attribute formats in location order
//
// Returns:
//   - PipelineBuilderOption: a function that appends the layout to this pipeline
func WithVertexAttributes(stepMode wgpu.VertexStepMode, formats ...wgpu.VertexFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		location := uint32(0)
		for _, l := range p.vertexLayouts {
			location += uint32(len(l.Attributes))
		}
		attrs := make([]wgpu.VertexAttribute, len(formats))
		var offset uint64
		for i, f := range formats {
			attrs[i] = wgpu.VertexAttribute{
				Format:         f,
				Offset:         offset,
				ShaderLocation: location + uint32(i),
			}
			offset += FormatSize(f)
		}
		p.vertexLayouts = append(p.vertexLayouts, wgpu.VertexBufferLayout{
			ArrayStride: offset,
			StepMode:    stepMode,
			Attributes:  attrs,
		})
	}
}

// FormatSize returns the byte size of a float vertex format.
func FormatSize(f wgpu.VertexFormat) uint64 {
	switch f {
	case wgpu.VertexFormatFloat32:
		return 4
	case wgpu.VertexFormatFloat32x2:
		return 8
	case wgpu.VertexFormatFloat32x3:
		return 12
	case wgpu.VertexFormatFloat32x4:
		return 16
	default:
		panic(fmt.Sprintf("pipeline: unsupported vertex format %v", f))
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState sets the blend state and enables blending.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline, e.g. AlphaBlend() or AdditiveBlend()
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
		p.blendEnabled = blendState != nil
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyLineList, wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
