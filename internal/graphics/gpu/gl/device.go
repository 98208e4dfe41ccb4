package glgpu

import (
	"errors"
	"fmt"

	"mini-render/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type Buffer struct {
	id     uint32
	target uint32
	desc   gpu.BufferDesc
}

func (b *Buffer) Desc() gpu.BufferDesc { return b.desc }

func (b *Buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// Texture is either a GL texture object, or a stand-in for the default
// framebuffer's color or depth attachment (id 0).
type Texture struct {
	id   uint32
	desc gpu.TextureDesc
}

func (t *Texture) Desc() gpu.TextureDesc { return t.desc }

func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

type view struct{ tex *Texture }

func (v *view) Release() {}

type VertexShader struct{ id uint32 }

func (s *VertexShader) Release() {
	if s.id != 0 {
		gl.DeleteShader(s.id)
		s.id = 0
	}
}

type PixelShader struct{ id uint32 }

func (s *PixelShader) Release() {
	if s.id != 0 {
		gl.DeleteShader(s.id)
		s.id = 0
	}
}

type InputLayout struct{ elements []gpu.InputElement }

func (l *InputLayout) Elements() []gpu.InputElement { return l.elements }

func (l *InputLayout) Release() {}

type Sampler struct{ id uint32 }

func (s *Sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

type programKey struct {
	vs, ps uint32
}

// Device owns the linked program cache and the immediate context.
type Device struct {
	ctx      *Context
	programs map[programKey]*program
}

func (d *Device) Context() gpu.Context { return d.ctx }

func bufferTarget(flags gpu.BindFlag) uint32 {
	switch {
	case flags&gpu.BindConstantBuffer != 0:
		return gl.UNIFORM_BUFFER
	case flags&gpu.BindIndexBuffer != 0:
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferUsage(desc gpu.BufferDesc) uint32 {
	if desc.Usage == gpu.UsageDynamic || desc.BindFlags&gpu.BindConstantBuffer != 0 {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func (d *Device) CreateBuffer(desc gpu.BufferDesc, initial []byte) (gpu.Buffer, error) {
	if desc.ByteWidth == 0 {
		return nil, errors.New("glgpu: buffer with zero size")
	}
	b := &Buffer{target: bufferTarget(desc.BindFlags), desc: desc}
	gl.GenBuffers(1, &b.id)

	// Element array bindings are VAO state, so keep the device VAO bound.
	gl.BindVertexArray(d.ctx.vao)
	gl.BindBuffer(b.target, b.id)

	data := make([]byte, desc.ByteWidth)
	copy(data, initial)
	gl.BufferData(b.target, len(data), gl.Ptr(data), bufferUsage(desc))
	gl.BindBuffer(b.target, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		b.Release()
		return nil, fmt.Errorf("glgpu: CreateBuffer failed with 0x%x", e)
	}
	return b, nil
}

func (d *Device) CreateTexture2D(desc gpu.TextureDesc, pixels []byte) (gpu.Texture, error) {
	// Depth and render targets map onto the default framebuffer.
	if desc.BindFlags&(gpu.BindDepthStencil|gpu.BindRenderTarget) != 0 {
		return &Texture{desc: desc}, nil
	}
	if desc.Format != gpu.FormatR8G8B8A8Unorm {
		return nil, fmt.Errorf("glgpu: unsupported texture format %d", desc.Format)
	}
	if len(pixels) != desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("glgpu: texture expects %d bytes, got %d", desc.Width*desc.Height*4, len(pixels))
	}

	t := &Texture{desc: desc}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(desc.Width),
		int32(desc.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pixels),
	)
	if desc.MipLevels != 1 {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		t.Release()
		return nil, fmt.Errorf("glgpu: CreateTexture2D failed with 0x%x", e)
	}
	return t, nil
}

func (d *Device) CreateRenderTargetView(tex gpu.Texture) (gpu.RenderTargetView, error) {
	t, ok := tex.(*Texture)
	if !ok || t.id != 0 {
		return nil, errors.New("glgpu: render targets other than the back buffer are not supported")
	}
	return &view{tex: t}, nil
}

func (d *Device) CreateDepthStencilView(tex gpu.Texture) (gpu.DepthStencilView, error) {
	t, ok := tex.(*Texture)
	if !ok || t.desc.BindFlags&gpu.BindDepthStencil == 0 {
		return nil, errors.New("glgpu: depth stencil view needs a depth texture")
	}
	return &view{tex: t}, nil
}

func (d *Device) CreateVertexShader(source []byte, layout []gpu.InputElement) (gpu.VertexShader, gpu.InputLayout, error) {
	id, err := compileShader(string(source), gl.VERTEX_SHADER)
	if err != nil {
		return nil, nil, err
	}
	return &VertexShader{id: id}, &InputLayout{elements: layout}, nil
}

func (d *Device) CreatePixelShader(source []byte) (gpu.PixelShader, error) {
	id, err := compileShader(string(source), gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	return &PixelShader{id: id}, nil
}

func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	s := &Sampler{}
	gl.GenSamplers(1, &s.id)

	minFilter, magFilter := int32(gl.LINEAR_MIPMAP_LINEAR), int32(gl.LINEAR)
	if desc.Filter == gpu.FilterMinMagMipPoint {
		minFilter, magFilter = gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, addressMode(desc.AddressU))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, addressMode(desc.AddressV))
	gl.SamplerParameterf(s.id, gl.TEXTURE_MIN_LOD, desc.MinLOD)
	gl.SamplerParameterf(s.id, gl.TEXTURE_MAX_LOD, desc.MaxLOD)
	return s, nil
}

func addressMode(m gpu.AddressMode) int32 {
	if m == gpu.AddressClamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func (d *Device) Release() {
	for k, p := range d.programs {
		if p != nil {
			gl.DeleteProgram(p.id)
		}
		delete(d.programs, k)
	}
	if d.ctx.vao != 0 {
		gl.DeleteVertexArrays(1, &d.ctx.vao)
		d.ctx.vao = 0
	}
}
