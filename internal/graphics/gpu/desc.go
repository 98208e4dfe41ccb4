package gpu

// BindFlag says how a resource is bound to the pipeline.
type BindFlag uint32

const (
	BindVertexBuffer BindFlag = 1 << iota
	BindIndexBuffer
	BindConstantBuffer
	BindShaderResource
	BindRenderTarget
	BindDepthStencil
)

// Usage mirrors the expected update frequency of a resource.
type Usage int

const (
	UsageDefault Usage = iota
	UsageImmutable
	UsageDynamic
)

type BufferDesc struct {
	ByteWidth uint32
	Usage     Usage
	BindFlags BindFlag
}

type Format int

const (
	FormatUnknown Format = iota
	FormatR8G8B8A8Unorm
	FormatD24UnormS8Uint
	FormatR32G32Float
	FormatR32G32B32Float
	FormatR32G32B32A32Float
)

type TextureDesc struct {
	Width, Height int
	MipLevels     int
	Format        Format
	BindFlags     BindFlag
}

type Filter int

const (
	FilterMinMagMipLinear Filter = iota
	FilterMinMagMipPoint
)

type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
)

type SamplerDesc struct {
	Filter   Filter
	AddressU AddressMode
	AddressV AddressMode
	MinLOD   float32
	MaxLOD   float32
}

// DefaultSampler is the linear wrapping sampler used for diffuse textures.
var DefaultSampler = SamplerDesc{
	Filter:   FilterMinMagMipLinear,
	AddressU: AddressWrap,
	AddressV: AddressWrap,
	MinLOD:   0,
	MaxLOD:   1000,
}

type Viewport struct {
	TopLeftX, TopLeftY float32
	Width, Height      float32
	MinDepth, MaxDepth float32
}

type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyLineList
)

type IndexFormat int

const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// InputClass tells whether an element advances per vertex or per instance.
type InputClass int

const (
	PerVertexData InputClass = iota
	PerInstanceData
)

// InputElement describes one vertex attribute.
type InputElement struct {
	SemanticName  string
	SemanticIndex int
	Format        Format
	InputSlot     int
	ByteOffset    uint32
	Class         InputClass
	StepRate      int
}

// Components returns the number of float components in the element format.
func (e InputElement) Components() int32 {
	switch e.Format {
	case FormatR32G32Float:
		return 2
	case FormatR32G32B32Float:
		return 3
	case FormatR32G32B32A32Float:
		return 4
	}
	return 0
}
