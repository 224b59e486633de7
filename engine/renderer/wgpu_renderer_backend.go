package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	errNotConfigured = errors.New("surface not configured")
	errEmptyImage    = errors.New("empty screen image")
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode

	pipeline      *wgpu.RenderPipeline
	layout        *wgpu.BindGroupLayout
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup

	scene         map[string]pipeline.Pipeline
	cameraLayout  *wgpu.BindGroupLayout
	cameraBuffer  *wgpu.Buffer
	cameraGroup   *wgpu.BindGroup
	textureLayout *wgpu.BindGroupLayout
	sampler       *wgpu.Sampler
	quadIndices   *wgpu.Buffer

	sprites dynamicBuffer
	lines   dynamicBuffer
	screens map[uint64]*screenResources
}

// dynamicBuffer is a vertex buffer that grows to fit the largest upload so far.
type dynamicBuffer struct {
	buf      *wgpu.Buffer
	capacity uint64
}

func (d *dynamicBuffer) release() {
	if d.buf != nil {
		d.buf.Release()
	}
	d.buf, d.capacity = nil, 0
}

// screenResources are the GPU objects of one screen quad.
type screenResources struct {
	uploaded bool
	revision uint64
	texture  *wgpu.Texture
	view     *wgpu.TextureView
	group    *wgpu.BindGroup
	vertices *wgpu.Buffer
}

func (r *screenResources) releaseTexture() {
	if r.group != nil {
		r.group.Release()
	}
	if r.view != nil {
		r.view.Release()
	}
	if r.texture != nil {
		r.texture.Release()
	}
	r.group, r.view, r.texture = nil, nil, nil
	r.uploaded = false
}

func (r *screenResources) release() {
	r.releaseTexture()
	if r.vertices != nil {
		r.vertices.Release()
		r.vertices = nil
	}
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		scene:       make(map[string]pipeline.Pipeline),
		screens:     make(map[uint64]*screenResources),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Stage Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) InitBackground(source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errNotConfigured
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Background Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}
	defer module.Release()

	b.layout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Background Uniforms Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Background",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.layout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Background Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}

	b.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Background Uniforms Buffer",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}

	b.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Background Bind Group",
		Layout: b.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.uniformBuffer,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	return nil
}

// initShared creates the camera and texture bind group layouts, the camera uniform
// buffer, the screen sampler and the quad index buffer. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) initShared() error {
	if b.cameraGroup != nil {
		return nil
	}

	var err error
	b.cameraLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("camera layout: %w", err)
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Screen Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("texture layout: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Screen Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	indices := indexBytes(screenIndices)
	b.quadIndices, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Screen Index Buffer",
		Size:  uint64(len(indices)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("index buffer: %w", err)
	}
	b.queue.WriteBuffer(b.quadIndices, 0, indices)

	b.cameraBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniforms Buffer",
		Size:  cameraSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("camera buffer: %w", err)
	}

	b.cameraGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: b.cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.cameraBuffer,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) InitPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errNotConfigured
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := b.initShared(); err != nil {
		return err
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("%s shader module: %w", p.PipelineKey(), err)
	}
	defer module.Release()

	groups := make([]*wgpu.BindGroupLayout, 0, len(p.Bindings()))
	for _, binding := range p.Bindings() {
		switch binding {
		case pipeline.BindingCamera:
			groups = append(groups, b.cameraLayout)
		case pipeline.BindingTexture:
			groups = append(groups, b.textureLayout)
		default:
			return fmt.Errorf("%s: unknown binding %d", p.PipelineKey(), binding)
		}
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: groups,
	})
	if err != nil {
		return fmt.Errorf("%s pipeline layout: %w", p.PipelineKey(), err)
	}
	defer pipelineLayout.Release()

	vs, fs := p.EntryPoints()
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: vs,
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fs,
			Targets:    []wgpu.ColorTargetState{p.ColorTarget(*b.surfaceFormat)},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("%s render pipeline: %w", p.PipelineKey(), err)
	}

	if old, ok := b.scene[p.PipelineKey()]; ok && old != p {
		old.Release()
	}
	p.SetRenderPipeline(created)
	b.scene[p.PipelineKey()] = p
	return nil
}

// upload writes data into d, growing the buffer to the next power of two when it
// does not fit. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) upload(d *dynamicBuffer, label string, data []byte) error {
	size := uint64(len(data))
	if size > d.capacity {
		capacity := uint64(1024)
		for capacity < size {
			capacity *= 2
		}
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label,
			Size:  capacity,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		d.release()
		d.buf, d.capacity = buf, capacity
	}
	b.queue.WriteBuffer(d.buf, 0, data)
	return nil
}

// prepareScreen uploads the screen's texture when its revision changed and writes
// its corners. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) prepareScreen(sd ScreenDraw) (*screenResources, error) {
	res := b.screens[sd.ID]
	if res == nil {
		vertices, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Screen Vertex Buffer",
			Size:  4 * screenVertexStride,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("screen vertices: %w", err)
		}
		res = &screenResources{vertices: vertices}
		b.screens[sd.ID] = res
	}

	if !res.uploaded || res.revision != sd.Revision {
		res.releaseTexture()
		pixels, w, h := rgbaPixels(sd.Image)
		if w == 0 || h == 0 {
			return nil, errEmptyImage
		}
		size := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "Screen Texture",
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension:     wgpu.TextureDimension2D,
			Size:          size,
			Format:        wgpu.TextureFormatRGBA8UnormSrgb,
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if err != nil {
			return nil, fmt.Errorf("screen texture: %w", err)
		}
		res.texture = tex

		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  w * 4,
				RowsPerImage: h,
			},
			&size,
		)

		res.view, err = tex.CreateView(nil)
		if err != nil {
			return nil, fmt.Errorf("screen texture view: %w", err)
		}

		res.group, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Screen Bind Group",
			Layout: b.textureLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: res.view},
				{Binding: 1, Sampler: b.sampler},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("screen bind group: %w", err)
		}
		res.revision = sd.Revision
		res.uploaded = true
	}

	b.queue.WriteBuffer(res.vertices, 0, sd.Vertices)
	return res, nil
}

func (b *wgpuRendererBackendImpl) DrawFrame(d DrawList) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errNotConfigured
	}

	if b.pipeline != nil {
		b.queue.WriteBuffer(b.uniformBuffer, 0, d.Background)
	}

	screens := b.scene[PipelineScreens]
	lines := b.scene[PipelineLines]
	sprites := b.scene[PipelineSprites]

	var ready []*screenResources
	if b.cameraGroup != nil {
		b.queue.WriteBuffer(b.cameraBuffer, 0, d.Camera)

		if screens != nil {
			for _, sd := range d.Screens {
				res, err := b.prepareScreen(sd)
				if err != nil {
					return err
				}
				ready = append(ready, res)
			}
		}
		if lines != nil && d.LineVertices > 0 {
			if err := b.upload(&b.lines, "Line Vertex Buffer", d.Lines); err != nil {
				return err
			}
		}
		if sprites != nil && d.SpriteCount > 0 {
			if err := b.upload(&b.sprites, "Sprite Instance Buffer", d.Sprites); err != nil {
				return err
			}
		}
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: d.Clear,
			},
		},
	})
	if b.pipeline != nil {
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, b.bindGroup, nil)
		pass.Draw(3, 1, 0, 0)
	}

	if len(ready) > 0 {
		pass.SetPipeline(screens.RenderPipeline())
		pass.SetBindGroup(0, b.cameraGroup, nil)
		pass.SetIndexBuffer(b.quadIndices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		for _, res := range ready {
			pass.SetBindGroup(1, res.group, nil)
			pass.SetVertexBuffer(0, res.vertices, 0, wgpu.WholeSize)
			pass.DrawIndexed(uint32(len(screenIndices)), 1, 0, 0, 0)
		}
	}
	if b.lines.buf != nil && lines != nil && d.LineVertices > 0 {
		pass.SetPipeline(lines.RenderPipeline())
		pass.SetBindGroup(0, b.cameraGroup, nil)
		pass.SetVertexBuffer(0, b.lines.buf, 0, uint64(len(d.Lines)))
		pass.Draw(d.LineVertices, 1, 0, 0)
	}
	if b.sprites.buf != nil && sprites != nil && d.SpriteCount > 0 {
		pass.SetPipeline(sprites.RenderPipeline())
		pass.SetBindGroup(0, b.cameraGroup, nil)
		pass.SetVertexBuffer(0, b.sprites.buf, 0, uint64(len(d.Sprites)))
		pass.Draw(6, d.SpriteCount, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, res := range b.screens {
		res.release()
		delete(b.screens, id)
	}
	b.sprites.release()
	b.lines.release()
	for key, p := range b.scene {
		p.Release()
		delete(b.scene, key)
	}
	if b.cameraGroup != nil {
		b.cameraGroup.Release()
		b.cameraGroup = nil
	}
	if b.cameraBuffer != nil {
		b.cameraBuffer.Release()
		b.cameraBuffer = nil
	}
	if b.quadIndices != nil {
		b.quadIndices.Release()
		b.quadIndices = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.textureLayout != nil {
		b.textureLayout.Release()
		b.textureLayout = nil
	}
	if b.cameraLayout != nil {
		b.cameraLayout.Release()
		b.cameraLayout = nil
	}
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.layout != nil {
		b.layout.Release()
		b.layout = nil
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.queue, b.device, b.adapter, b.surface, b.instance = nil, nil, nil, nil, nil
}
