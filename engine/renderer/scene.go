package renderer

import (
	_ "embed"
	"encoding/binary"
	"image"
	"image/draw"
	"math"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed sprites.wgsl
var spriteShader string

//go:embed lines.wgsl
var lineShader string

//go:embed screen.wgsl
var screenShader string

// Keys of the scene pipelines, drawn in this order after the background.
const (
	PipelineScreens = "screens"
	PipelineLines   = "lines"
	PipelineSprites = "sprites"
)

// Byte sizes of the packed scene data.
const (
	cameraSize         = 96
	spriteStride       = 32
	lineVertexStride   = 28
	screenVertexStride = 24
)

// Camera is the view the scene layers are projected with.
type Camera struct {
	ViewProj [16]float32
	// Right and Up are the world-space camera axes sprites are billboarded along.
	Right, Up [3]float32
}

// CameraFromView builds a Camera from column-major view and view-projection matrices.
func CameraFromView(view, viewProj [16]float32) Camera {
	return Camera{
		ViewProj: viewProj,
		Right:    [3]float32{view[0], view[4], view[8]},
		Up:       [3]float32{view[1], view[5], view[9]},
	}
}

// Sprite is a camera-facing glowing disc, e.g. one penlight or one firework spark.
type Sprite struct {
	Position [3]float32
	// Size is the diameter in world units.
	Size  float32
	Color common.Color3
	Alpha float32
}

// Line is a straight beam between two world points.
type Line struct {
	From, To [3]float32
	Color    common.Color3
	Alpha    float32
}

// Screen is a textured quad, e.g. a video screen showing the track thumbnail.
type Screen struct {
	// ID keys the uploaded texture across frames.
	ID uint64
	// Corners are in world space, counter-clockwise from bottom-left.
	Corners [4][3]float32
	Image   image.Image
	// Revision changes whenever Image is replaced.
	Revision uint64
	Opacity  float32
}

// DrawList is a Frame packed for the backend.
type DrawList struct {
	Clear      wgpu.Color
	Background []byte
	Camera     []byte

	// Sprites holds one instance per spriteStride bytes.
	Sprites     []byte
	SpriteCount uint32

	// Lines holds two vertices per line, lineVertexStride bytes each.
	Lines        []byte
	LineVertices uint32

	Screens []ScreenDraw
}

// ScreenDraw is one packed screen quad.
type ScreenDraw struct {
	ID       uint64
	Vertices []byte
	Image    image.Image
	Revision uint64
}

// scenePipelines returns the pipelines of the scene layers.
func scenePipelines() []pipeline.Pipeline {
	return []pipeline.Pipeline{
		pipeline.NewPipeline(PipelineScreens,
			pipeline.WithSource(screenShader),
			pipeline.WithBindings(pipeline.BindingCamera, pipeline.BindingTexture),
			pipeline.WithVertexAttributes(wgpu.VertexStepModeVertex,
				wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32),
			pipeline.WithBlendState(pipeline.AlphaBlend()),
		),
		pipeline.NewPipeline(PipelineLines,
			pipeline.WithSource(lineShader),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithVertexAttributes(wgpu.VertexStepModeVertex,
				wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32),
			pipeline.WithBlendState(pipeline.AdditiveBlend()),
		),
		pipeline.NewPipeline(PipelineSprites,
			pipeline.WithSource(spriteShader),
			pipeline.WithVertexAttributes(wgpu.VertexStepModeInstance,
				wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32,
				wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32),
			pipeline.WithBlendState(pipeline.AdditiveBlend()),
		),
	}
}

// DrawList packs the frame. Invisible sprites, lines and screens are dropped, and
// so are screens without an image.
func (f Frame) DrawList() DrawList {
	d := DrawList{
		Clear:      f.ClearValue(),
		Background: f.Uniforms(),
		Camera:     f.Camera.pack(),
	}

	w := floatWriter{}
	for _, s := range f.Sprites {
		if s.Alpha <= 0 || s.Size <= 0 {
			continue
		}
		w.vec3(s.Position)
		w.put(s.Size)
		w.vec3(s.Color)
		w.put(s.Alpha)
		d.SpriteCount++
	}
	d.Sprites = w.buf

	w = floatWriter{}
	for _, l := range f.Lines {
		if l.Alpha <= 0 {
			continue
		}
		for _, p := range [2][3]float32{l.From, l.To} {
			w.vec3(p)
			w.vec3(l.Color)
			w.put(l.Alpha)
		}
		d.LineVertices += 2
	}
	d.Lines = w.buf

	for _, s := range f.Screens {
		if s.Image == nil || s.Opacity <= 0 {
			continue
		}
		d.Screens = append(d.Screens, ScreenDraw{
			ID:       s.ID,
			Vertices: s.pack(),
			Image:    s.Image,
			Revision: s.Revision,
		})
	}
	return d
}

// screenUV maps the corners to texture space, image top at v = 0.
var screenUV = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// screenIndices are the two counter-clockwise triangles of a screen quad.
var screenIndices = []uint32{0, 1, 2, 0, 2, 3}

func (s Screen) pack() []byte {
	w := floatWriter{buf: make([]byte, 0, 4*screenVertexStride)}
	op := float32(common.Clamp01(float64(s.Opacity)))
	for i, c := range s.Corners {
		w.vec3(c)
		w.put(screenUV[i][0], screenUV[i][1])
		w.put(op)
	}
	return w.buf
}

func (c Camera) pack() []byte {
	w := floatWriter{buf: make([]byte, 0, cameraSize)}
	w.put(c.ViewProj[:]...)
	w.vec3(c.Right)
	w.put(0)
	w.vec3(c.Up)
	w.put(0)
	return w.buf
}

type floatWriter struct {
	buf []byte
}

func (w *floatWriter) put(vs ...float32) {
	for _, v := range vs {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
	}
}

func (w *floatWriter) vec3(v [3]float32) {
	w.put(v[0], v[1], v[2])
}

// rgbaPixels returns the image as tightly packed RGBA rows.
func rgbaPixels(img image.Image) ([]byte, uint32, uint32) {
	if img == nil {
		return nil, 0, 0
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == w*4 && len(rgba.Pix) == w*h*4 {
		return rgba.Pix, uint32(w), uint32(h)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba.Pix, uint32(w), uint32(h)
}

func indexBytes(indices []uint32) []byte {
	out := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		out = binary.LittleEndian.AppendUint32(out, i)
	}
	return out
}
