// Package gputest provides a recording gpu backend for tests.
//
// Every resource is an in-memory object and every context call is appended to
// Context.Calls, so tests can assert on binding order and uploaded bytes.
package gputest

import (
	"fmt"

	"mini-render/internal/graphics/gpu"
)

// Call is one recorded context call.
type Call struct {
	Op   string
	Slot int
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s[%d]", c.Op, c.Slot)
}

// Resource is the common part of every recorded resource.
type Resource struct {
	ID       int
	Kind     string
	Released bool
}

func (r *Resource) Release() { r.Released = true }

type Buffer struct {
	Resource
	desc gpu.BufferDesc
	// Data holds the initial contents, replaced by every UpdateSubresource.
	Data []byte
}

func (b *Buffer) Desc() gpu.BufferDesc { return b.desc }

type Texture struct {
	Resource
	desc   gpu.TextureDesc
	Pixels []byte
}

func (t *Texture) Desc() gpu.TextureDesc { return t.desc }

type View struct {
	Resource
	Target *Texture
}

type Shader struct {
	Resource
	Source []byte
}

type InputLayout struct {
	Resource
	elements []gpu.InputElement
}

func (l *InputLayout) Elements() []gpu.InputElement { return l.elements }

type Sampler struct {
	Resource
	desc gpu.SamplerDesc
}

// Backend records device and swap chain creation.
type Backend struct {
	// FailDrivers makes CreateDevice fail for the given driver types.
	FailDrivers map[gpu.DriverType]error
	// FailSwapChain makes CreateSwapChain fail.
	FailSwapChain error

	Attempts  []gpu.DriverType
	Device    *Device
	SwapChain *SwapChain
}

// NewBackend returns a backend on which every driver type succeeds.
func NewBackend() *Backend {
	return &Backend{FailDrivers: make(map[gpu.DriverType]error)}
}

func (b *Backend) CreateDevice(driver gpu.DriverType) (gpu.Device, error) {
	b.Attempts = append(b.Attempts, driver)
	if err := b.FailDrivers[driver]; err != nil {
		return nil, err
	}
	if b.Device == nil {
		b.Device = NewDevice()
	}
	b.Device.Driver = driver
	b.Device.Created = append(b.Device.Created, "CreateDevice")
	return b.Device, nil
}

func (b *Backend) CreateSwapChain(dev gpu.Device, surface gpu.Surface, width, height int) (gpu.SwapChain, error) {
	if b.FailSwapChain != nil {
		return nil, b.FailSwapChain
	}
	d := dev.(*Device)
	d.Created = append(d.Created, "CreateSwapChain")
	b.SwapChain = &SwapChain{
		Width:  width,
		Height: height,
		back:   d.newTexture(gpu.TextureDesc{Width: width, Height: height, Format: gpu.FormatR8G8B8A8Unorm, BindFlags: gpu.BindRenderTarget}, nil),
		device: d,
	}
	return b.SwapChain, nil
}

// Device records created resources. Set Fail[op] to make the named creation
// method ("CreateBuffer", "CreateVertexShader", ...) return an error.
type Device struct {
	Driver gpu.DriverType
	Fail   map[string]error

	Ctx *Context

	// Created lists every successful creation call in order, by method name.
	// The owning backend adds "CreateDevice" and "CreateSwapChain".
	Created []string

	Buffers       []*Buffer
	Textures      []*Texture
	Views         []*View
	VertexShaders []*Shader
	PixelShaders  []*Shader
	Layouts       []*InputLayout
	Samplers      []*Sampler

	Released bool
	nextID   int
}

// NewDevice returns a standalone device for tests that skip the backend.
func NewDevice() *Device {
	return &Device{Fail: make(map[string]error), Ctx: &Context{}}
}

func (d *Device) id(kind string) Resource {
	d.nextID++
	return Resource{ID: d.nextID, Kind: kind}
}

func (d *Device) failure(op string) error {
	if err := d.Fail[op]; err != nil {
		return fmt.Errorf("gputest: %s: %w", op, err)
	}
	return nil
}

func (d *Device) newTexture(desc gpu.TextureDesc, pixels []byte) *Texture {
	t := &Texture{Resource: d.id("texture"), desc: desc, Pixels: pixels}
	d.Textures = append(d.Textures, t)
	return t
}

func (d *Device) Context() gpu.Context { return d.Ctx }

func (d *Device) CreateBuffer(desc gpu.BufferDesc, initial []byte) (gpu.Buffer, error) {
	if err := d.failure("CreateBuffer"); err != nil {
		return nil, err
	}
	d.Created = append(d.Created, "CreateBuffer")
	data := make([]byte, desc.ByteWidth)
	copy(data, initial)
	b := &Buffer{Resource: d.id("buffer"), desc: desc, Data: data}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateTexture2D(desc gpu.TextureDesc, pixels []byte) (gpu.Texture, error) {
	if err := d.failure("CreateTexture2D"); err != nil {
		return nil, err
	}
	d.Created = append(d.Created, "CreateTexture2D")
	return d.newTexture(desc, pixels), nil
}

func (d *Device) CreateRenderTargetView(tex gpu.Texture) (gpu.RenderTargetView, error) {
	if err := d.failure("CreateRenderTargetView"); err != nil {
		return nil, err
	}
	d.Created = append(d.Created, "CreateRenderTargetView")
	v := &View{Resource: d.id("rtv"), Target: tex.(*Texture)}
	d.Views = append(d.Views, v)
	return v, nil
}

func (d *Device) CreateDepthStencilView(tex gpu.Texture) (gpu.DepthStencilView, error) {
	if err := d.failure("CreateDepthStencilView"); err != nil {
		return nil, err
	}
	d.Created = append(d.Created, "CreateDepthStencilView")
	v := &View{Resource: d.id("dsv"), Target: tex.(*Texture)}
	d.Views = append(d.Views, v)
	return v, nil
}

func (d *Device) CreateVertexShader(source []byte, layout []gpu.InputElement) (gpu.VertexShader, gpu.InputLayout, error) {
	if err := d.failure("CreateVertexShader"); err != nil {
		return nil, nil, err
	}
	d.Created = append(d.Created, "CreateVertexShader")
	vs := &Shader{Resource: d.id("vs"), Source: source}
	il := &InputLayout{Resource: d.id("layout"), elements: layout}
	d.VertexShaders = append(d.VertexShaders, vs)
	d.Layouts = append(d.Layouts, il)
	return vs, il, nil
}

func (d *Device) CreatePixelShader(source []byte) (gpu.PixelShader, error) {
	if err := d.failure("CreatePixelShader"); err != nil {
		return nil, err
	}
	d.Created = append(d.Created, "CreatePixelShader")
	ps := &Shader{Resource: d.id("ps"), Source: source}
	d.PixelShaders = append(d.PixelShaders, ps)
	return ps, nil
}

func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	if err := d.failure("CreateSampler"); err != nil {
		return nil, err
	}
	d.Created = append(d.Created, "CreateSampler")
	s := &Sampler{Resource: d.id("sampler"), desc: desc}
	d.Samplers = append(d.Samplers, s)
	return s, nil
}

func (d *Device) Release() { d.Released = true }

// SwapChain counts presents.
type SwapChain struct {
	Width, Height int
	Presents      int
	Released      bool

	back   *Texture
	device *Device
}

func (s *SwapChain) BackBuffer() (gpu.Texture, error) {
	if err := s.device.failure("BackBuffer"); err != nil {
		return nil, err
	}
	return s.back, nil
}

func (s *SwapChain) Present() {
	s.Presents++
	s.device.Ctx.record("Present", 0)
}

func (s *SwapChain) Release() { s.Released = true }

// Surface is a fixed-size window.
type Surface struct {
	Width, Height int
}

func (s Surface) ClientSize() (int, int) { return s.Width, s.Height }
