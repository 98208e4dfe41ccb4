package renderable

import (
	"errors"
	"fmt"

	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyGeometry is returned when initializing an object without vertices
// or indices.
var ErrEmptyGeometry = errors.New("renderable: empty geometry")

// Geometry is the CPU copy of an object's vertex and index data.
type Geometry struct {
	Vertices  []gpu.SimpleVertex
	Indices   []uint16
	Meshes    []Mesh
	Materials []Material
}

// Object is an indexed mesh moved by a Motion.
type Object struct {
	geometry Geometry
	motion   Motion
	world    mgl32.Mat4

	vertexShader *shader.VertexShader
	pixelShader  *shader.PixelShader

	state       DrawState
	initialized bool
}

// NewObject returns an object drawn in color. A nil motion keeps the identity
// world matrix.
func NewObject(geometry Geometry, color mgl32.Vec4, motion Motion) *Object {
	o := &Object{}
	o.init(geometry, color, motion)
	return o
}

func (o *Object) init(geometry Geometry, color mgl32.Vec4, motion Motion) {
	if motion == nil {
		motion = Static{World: mgl32.Ident4()}
	}
	o.geometry = geometry
	o.motion = motion
	o.world = mgl32.Ident4()
	if s, ok := motion.(Static); ok {
		o.world = s.World
	}
	o.state = DrawState{
		OutputColor: color,
		Meshes:      geometry.Meshes,
		Materials:   geometry.Materials,
	}
}

func (o *Object) Geometry() Geometry { return o.geometry }

func (o *Object) Motion() Motion { return o.motion }

func (o *Object) WorldMatrix() mgl32.Mat4 { return o.world }

func (o *Object) SetOutputColor(color mgl32.Vec4) { o.state.OutputColor = color }

func (o *Object) DrawState() *DrawState { return &o.state }

func (o *Object) SetVertexShader(vs *shader.VertexShader) { o.vertexShader = vs }

func (o *Object) SetPixelShader(ps *shader.PixelShader) { o.pixelShader = ps }

func (o *Object) VertexShader() *shader.VertexShader { return o.vertexShader }

func (o *Object) PixelShader() *shader.PixelShader { return o.pixelShader }

// Update advances the motion. It never touches GPU resources.
func (o *Object) Update(deltaTime float32) {
	o.world = o.motion.Advance(deltaTime)
}

// Initialize creates the vertex, index and constant buffers and every
// material texture. Calling it again after success does nothing.
func (o *Object) Initialize(dev gpu.Device, ctx gpu.Context) error {
	if o.initialized {
		return nil
	}
	if len(o.geometry.Vertices) == 0 || len(o.geometry.Indices) == 0 {
		return ErrEmptyGeometry
	}

	if o.state.VertexBuffer == nil {
		vb, err := dev.CreateBuffer(gpu.BufferDesc{
			ByteWidth: uint32(len(o.geometry.Vertices) * gpu.SimpleVertexSize),
			Usage:     gpu.UsageImmutable,
			BindFlags: gpu.BindVertexBuffer,
		}, gpu.VertexBytes(o.geometry.Vertices))
		if err != nil {
			return fmt.Errorf("create vertex buffer: %w", err)
		}
		o.state.VertexBuffer = vb
		o.state.VertexStride = gpu.SimpleVertexSize
	}

	if o.state.IndexBuffer == nil {
		ib, err := dev.CreateBuffer(gpu.BufferDesc{
			ByteWidth: uint32(len(o.geometry.Indices) * 2),
			Usage:     gpu.UsageImmutable,
			BindFlags: gpu.BindIndexBuffer,
		}, gpu.IndexBytes(o.geometry.Indices))
		if err != nil {
			return fmt.Errorf("create index buffer: %w", err)
		}
		o.state.IndexBuffer = ib
		o.state.IndexCount = uint32(len(o.geometry.Indices))
	}

	if o.state.ConstantBuffer == nil {
		initial := gpu.ObjectConstants{World: o.world, OutputColor: o.state.OutputColor}
		cb, err := dev.CreateBuffer(gpu.BufferDesc{
			ByteWidth: gpu.ObjectConstantsSize,
			Usage:     gpu.UsageDefault,
			BindFlags: gpu.BindConstantBuffer,
		}, initial.Bytes())
		if err != nil {
			return fmt.Errorf("create constant buffer: %w", err)
		}
		o.state.ConstantBuffer = cb
	}

	for _, m := range o.state.Materials {
		if m.Diffuse == nil {
			continue
		}
		if err := m.Diffuse.Initialize(dev); err != nil {
			return fmt.Errorf("material %q: %w", m.Name, err)
		}
	}

	o.initialized = true
	return nil
}

// Release frees every GPU resource the object created. It is safe after a
// failed Initialize.
func (o *Object) Release() {
	gpu.Release(o.state.ConstantBuffer, o.state.IndexBuffer, o.state.VertexBuffer)
	o.state.ConstantBuffer, o.state.IndexBuffer, o.state.VertexBuffer = nil, nil, nil
	for _, m := range o.state.Materials {
		if m.Diffuse != nil {
			m.Diffuse.Release()
		}
	}
	o.initialized = false
}
