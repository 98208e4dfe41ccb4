// Package renderable defines what the renderer draws: indexed geometry with a
// world matrix, an output color, optional textured meshes, optional instance
// data, and the shaders it is drawn with.
package renderable

import (
	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderable is a drawable object. Update only changes CPU-side state; GPU
// resources are created by Initialize and freed by Release.
type Renderable interface {
	Initialize(dev gpu.Device, ctx gpu.Context) error
	Update(deltaTime float32)
	WorldMatrix() mgl32.Mat4
	DrawState() *DrawState

	SetVertexShader(vs *shader.VertexShader)
	SetPixelShader(ps *shader.PixelShader)
	VertexShader() *shader.VertexShader
	PixelShader() *shader.PixelShader

	Release()
}

// DrawState is everything the renderer binds to draw a renderable.
type DrawState struct {
	VertexBuffer gpu.Buffer
	VertexStride uint32
	IndexBuffer  gpu.Buffer
	IndexCount   uint32

	// ConstantBuffer holds gpu.ObjectConstants.
	ConstantBuffer gpu.Buffer
	OutputColor    mgl32.Vec4

	Meshes    []Mesh
	Materials []Material

	// Instance data, set only for instanced renderables.
	InstanceBuffer gpu.Buffer
	InstanceStride uint32
	InstanceCount  uint32
}

// Instanced reports whether the state carries instance data.
func (s *DrawState) Instanced() bool { return s.InstanceBuffer != nil }

// Mesh is a sub-range of the index buffer drawn with one material.
type Mesh struct {
	IndexCount    uint32
	BaseIndex     uint32
	BaseVertex    int32
	MaterialIndex int
}

// Material is the diffuse texture a mesh samples. Diffuse may be nil.
type Material struct {
	Name    string
	Diffuse *Texture
}

// Valid reports whether r can be registered for drawing. A nil interface and
// a nil *Object or *Instanced are not valid.
func Valid(r Renderable) bool {
	switch v := r.(type) {
	case nil:
		return false
	case *Object:
		return v != nil
	case *Instanced:
		return v != nil
	}
	return true
}
