// Package gpu describes the graphics device the renderer drives.
//
// The interfaces mirror an immediate-mode pipeline: a Device creates resources,
// a Context binds them and issues draws, and a SwapChain presents the frame.
// Concrete implementations live in subpackages.
package gpu

// DriverType selects the kind of device a Backend should create.
type DriverType int

const (
	DriverHardware DriverType = iota
	DriverWarp
	DriverReference
)

func (d DriverType) String() string {
	switch d {
	case DriverHardware:
		return "hardware"
	case DriverWarp:
		return "warp"
	case DriverReference:
		return "reference"
	}
	return "unknown"
}

// DriverPreference is the order in which device creation is attempted.
var DriverPreference = []DriverType{DriverHardware, DriverWarp, DriverReference}

// Surface is the window the swap chain presents into.
type Surface interface {
	ClientSize() (width, height int)
}

// Backend creates devices and swap chains.
type Backend interface {
	CreateDevice(driver DriverType) (Device, error)
	CreateSwapChain(dev Device, surface Surface, width, height int) (SwapChain, error)
}

// Resource is anything that holds device memory.
type Resource interface {
	Release()
}

type Buffer interface {
	Resource
	Desc() BufferDesc
}

type Texture interface {
	Resource
	Desc() TextureDesc
}

type RenderTargetView interface{ Resource }

type DepthStencilView interface{ Resource }

type VertexShader interface{ Resource }

type PixelShader interface{ Resource }

type InputLayout interface {
	Resource
	Elements() []InputElement
}

type Sampler interface{ Resource }

// Device creates resources. Creation calls may fail; binding calls on the
// Context do not report errors.
type Device interface {
	Context() Context
	CreateBuffer(desc BufferDesc, initial []byte) (Buffer, error)
	CreateTexture2D(desc TextureDesc, pixels []byte) (Texture, error)
	CreateRenderTargetView(tex Texture) (RenderTargetView, error)
	CreateDepthStencilView(tex Texture) (DepthStencilView, error)
	CreateVertexShader(source []byte, layout []InputElement) (VertexShader, InputLayout, error)
	CreatePixelShader(source []byte) (PixelShader, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	Release()
}

// Context is the immediate context. Slots are zero based.
type Context interface {
	ClearRenderTargetView(rtv RenderTargetView, color [4]float32)
	ClearDepthStencilView(dsv DepthStencilView, depth float32, stencil uint8)
	SetRenderTargets(rtv RenderTargetView, dsv DepthStencilView)
	SetViewport(vp Viewport)
	SetPrimitiveTopology(t Topology)

	SetVertexBuffers(slot int, buffers []Buffer, strides, offsets []uint32)
	SetIndexBuffer(buf Buffer, format IndexFormat, offset uint32)
	SetInputLayout(layout InputLayout)
	UpdateSubresource(buf Buffer, data []byte)

	VSSetShader(vs VertexShader)
	PSSetShader(ps PixelShader)
	VSSetConstantBuffers(slot int, buffers ...Buffer)
	PSSetConstantBuffers(slot int, buffers ...Buffer)
	PSSetShaderResources(slot int, textures ...Texture)
	PSSetSamplers(slot int, samplers ...Sampler)

	DrawIndexed(indexCount, startIndex uint32, baseVertex int32)
	DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32)
}

type SwapChain interface {
	BackBuffer() (Texture, error)
	Present()
	Release()
}

// Release releases every non-nil resource in order.
func Release(resources ...Resource) {
	for _, r := range resources {
		if r != nil {
			r.Release()
		}
	}
}
