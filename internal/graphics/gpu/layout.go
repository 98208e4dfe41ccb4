package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Constant buffer slots shared by every shader and the renderer.
const (
	SlotCamera    = 0
	SlotResize    = 1
	SlotPerObject = 2
	SlotLights    = 3

	// SlotDiffuse is the texture and sampler slot for pixel-stage resources.
	SlotDiffuse = 0
)

// SlotBlockNames maps each constant buffer slot to the block name declared in
// the shaders.
var SlotBlockNames = [...]string{
	SlotCamera:    "cbChangeOnCameraMovement",
	SlotResize:    "cbChangeOnResize",
	SlotPerObject: "cbChangesEveryFrame",
	SlotLights:    "cbLights",
}

// NumLights is the fixed capacity of the point light array.
const NumLights = 2

// CameraConstants is the layout of the camera constant buffer.
type CameraConstants struct {
	View           mgl32.Mat4
	CameraPosition mgl32.Vec4
}

// ResizeConstants is the layout of the projection constant buffer.
type ResizeConstants struct {
	Projection mgl32.Mat4
}

// ObjectConstants is the layout of the per-object constant buffer.
type ObjectConstants struct {
	World       mgl32.Mat4
	OutputColor mgl32.Vec4
}

// LightConstants is the layout of the lights constant buffer.
type LightConstants struct {
	LightPositions [NumLights]mgl32.Vec4
	LightColors    [NumLights]mgl32.Vec4
}

const (
	CameraConstantsSize = 64 + 16
	ResizeConstantsSize = 64
	ObjectConstantsSize = 64 + 16
	LightConstantsSize  = NumLights*16 + NumLights*16
)

func putFloats(buf []byte, fs ...float32) []byte {
	for _, f := range fs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

// Bytes encodes c for upload.
func (c CameraConstants) Bytes() []byte {
	buf := make([]byte, 0, CameraConstantsSize)
	buf = putFloats(buf, c.View[:]...)
	return putFloats(buf, c.CameraPosition[:]...)
}

// Bytes encodes c for upload.
func (c ResizeConstants) Bytes() []byte {
	return putFloats(make([]byte, 0, ResizeConstantsSize), c.Projection[:]...)
}

// Bytes encodes c for upload.
func (c ObjectConstants) Bytes() []byte {
	buf := make([]byte, 0, ObjectConstantsSize)
	buf = putFloats(buf, c.World[:]...)
	return putFloats(buf, c.OutputColor[:]...)
}

// Bytes encodes c for upload. Positions come first, then colors.
func (c LightConstants) Bytes() []byte {
	buf := make([]byte, 0, LightConstantsSize)
	for _, p := range c.LightPositions {
		buf = putFloats(buf, p[:]...)
	}
	for _, col := range c.LightColors {
		buf = putFloats(buf, col[:]...)
	}
	return buf
}

// SimpleVertex is the vertex format of every renderable.
type SimpleVertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

const SimpleVertexSize = 4 * (3 + 2 + 3)

// InstanceData is the per-instance payload of instanced renderables.
type InstanceData struct {
	Offset mgl32.Vec3
}

const InstanceDataSize = 4 * 3

// SimpleVertexLayout describes SimpleVertex at input slot 0.
var SimpleVertexLayout = []InputElement{
	{SemanticName: "POSITION", Format: FormatR32G32B32Float, InputSlot: 0, ByteOffset: 0, Class: PerVertexData},
	{SemanticName: "TEXCOORD", Format: FormatR32G32Float, InputSlot: 0, ByteOffset: 12, Class: PerVertexData},
	{SemanticName: "NORMAL", Format: FormatR32G32B32Float, InputSlot: 0, ByteOffset: 20, Class: PerVertexData},
}

// InstancedVertexLayout extends SimpleVertexLayout with per-instance offsets at
// input slot 1.
var InstancedVertexLayout = append(append([]InputElement(nil), SimpleVertexLayout...),
	InputElement{SemanticName: "INSTANCE_OFFSET", Format: FormatR32G32B32Float, InputSlot: 1, ByteOffset: 0, Class: PerInstanceData, StepRate: 1},
)

// VertexBytes encodes vertices for a vertex buffer.
func VertexBytes(vertices []SimpleVertex) []byte {
	buf := make([]byte, 0, len(vertices)*SimpleVertexSize)
	for _, v := range vertices {
		buf = putFloats(buf, v.Position[:]...)
		buf = putFloats(buf, v.TexCoord[:]...)
		buf = putFloats(buf, v.Normal[:]...)
	}
	return buf
}

// IndexBytes encodes 16-bit indices for an index buffer.
func IndexBytes(indices []uint16) []byte {
	buf := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}
	return buf
}

// InstanceBytes encodes instance data for an instance buffer.
func InstanceBytes(instances []InstanceData) []byte {
	buf := make([]byte, 0, len(instances)*InstanceDataSize)
	for _, in := range instances {
		buf = putFloats(buf, in.Offset[:]...)
	}
	return buf
}
