package glgpu

import (
	"log/slog"

	"mini-render/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const maxVertexSlots = 2

type vertexBinding struct {
	buffer *Buffer
	stride uint32
	offset uint32
}

// Context keeps the pipeline state set by the renderer and applies it to GL
// at draw time.
type Context struct {
	device *Device
	vao    uint32

	topology    uint32
	vertex      [maxVertexSlots]vertexBinding
	index       *Buffer
	indexOffset uint32
	layout      *InputLayout
	vs          *VertexShader
	ps          *PixelShader

	enabledAttribs int
}

func (c *Context) ClearRenderTargetView(rtv gpu.RenderTargetView, color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *Context) ClearDepthStencilView(dsv gpu.DepthStencilView, depth float32, stencil uint8) {
	gl.DepthMask(true)
	gl.ClearDepth(float64(depth))
	gl.ClearStencil(int32(stencil))
	gl.Clear(gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (c *Context) SetRenderTargets(rtv gpu.RenderTargetView, dsv gpu.DepthStencilView) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if dsv != nil {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (c *Context) SetViewport(vp gpu.Viewport) {
	gl.Viewport(int32(vp.TopLeftX), int32(vp.TopLeftY), int32(vp.Width), int32(vp.Height))
	gl.DepthRange(float64(vp.MinDepth), float64(vp.MaxDepth))
}

func (c *Context) SetPrimitiveTopology(t gpu.Topology) {
	switch t {
	case gpu.TopologyLineList:
		c.topology = gl.LINES
	default:
		c.topology = gl.TRIANGLES
	}
}

func (c *Context) SetVertexBuffers(slot int, buffers []gpu.Buffer, strides, offsets []uint32) {
	for i, b := range buffers {
		s := slot + i
		if s >= maxVertexSlots {
			return
		}
		vb := vertexBinding{stride: strides[i]}
		if len(offsets) > i {
			vb.offset = offsets[i]
		}
		vb.buffer, _ = b.(*Buffer)
		c.vertex[s] = vb
	}
}

func (c *Context) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat, offset uint32) {
	c.index, _ = buf.(*Buffer)
	c.indexOffset = offset
}

func (c *Context) SetInputLayout(layout gpu.InputLayout) {
	c.layout, _ = layout.(*InputLayout)
}

func (c *Context) UpdateSubresource(buf gpu.Buffer, data []byte) {
	b, ok := buf.(*Buffer)
	if !ok || b.id == 0 || len(data) == 0 {
		return
	}
	n := len(data)
	if n > int(b.desc.ByteWidth) {
		n = int(b.desc.ByteWidth)
	}
	gl.BindBuffer(b.target, b.id)
	gl.BufferSubData(b.target, 0, n, gl.Ptr(data))
	gl.BindBuffer(b.target, 0)
}

func (c *Context) VSSetShader(vs gpu.VertexShader) {
	c.vs, _ = vs.(*VertexShader)
}

func (c *Context) PSSetShader(ps gpu.PixelShader) {
	c.ps, _ = ps.(*PixelShader)
}

// Uniform buffer binding points are shared by every stage.
func (c *Context) bindConstantBuffers(slot int, buffers []gpu.Buffer) {
	for i, b := range buffers {
		if buf, ok := b.(*Buffer); ok && buf.id != 0 {
			gl.BindBufferBase(gl.UNIFORM_BUFFER, uint32(slot+i), buf.id)
		}
	}
}

func (c *Context) VSSetConstantBuffers(slot int, buffers ...gpu.Buffer) {
	c.bindConstantBuffers(slot, buffers)
}

func (c *Context) PSSetConstantBuffers(slot int, buffers ...gpu.Buffer) {
	c.bindConstantBuffers(slot, buffers)
}

func (c *Context) PSSetShaderResources(slot int, textures ...gpu.Texture) {
	for i, t := range textures {
		tex, ok := t.(*Texture)
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot+i))
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
	}
}

func (c *Context) PSSetSamplers(slot int, samplers ...gpu.Sampler) {
	for i, s := range samplers {
		if smp, ok := s.(*Sampler); ok {
			gl.BindSampler(uint32(slot+i), smp.id)
		}
	}
}

// flush applies program, vertex layout and index buffer. It reports false when
// the draw has to be skipped.
func (c *Context) flush() bool {
	if c.vs == nil || c.ps == nil || c.layout == nil || c.index == nil {
		return false
	}
	p, err := c.device.program(c.vs, c.ps)
	if err != nil {
		slog.Error("shader program link failed", "error", err)
		return false
	}
	if p == nil {
		return false
	}
	gl.UseProgram(p.id)
	gl.BindVertexArray(c.vao)

	for i, e := range c.layout.elements {
		if e.InputSlot >= maxVertexSlots {
			return false
		}
		vb := c.vertex[e.InputSlot]
		if vb.buffer == nil {
			return false
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, vb.buffer.id)
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), e.Components(), gl.FLOAT, false,
			int32(vb.stride), uintptr(vb.offset+e.ByteOffset))
		divisor := uint32(0)
		if e.Class == gpu.PerInstanceData {
			divisor = uint32(e.StepRate)
		}
		gl.VertexAttribDivisor(uint32(i), divisor)
	}
	for i := len(c.layout.elements); i < c.enabledAttribs; i++ {
		gl.DisableVertexAttribArray(uint32(i))
	}
	c.enabledAttribs = len(c.layout.elements)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.index.id)
	return true
}

func (c *Context) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) {
	if !c.flush() {
		return
	}
	gl.DrawElementsBaseVertex(c.topology, int32(indexCount), gl.UNSIGNED_SHORT,
		gl.PtrOffset(int(c.indexOffset+startIndex*2)), baseVertex)
}

func (c *Context) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) {
	if !c.flush() {
		return
	}
	// GL 4.1 has no base instance; instance data always starts at the
	// bound offset.
	gl.DrawElementsInstancedBaseVertex(c.topology, int32(indexCountPerInstance), gl.UNSIGNED_SHORT,
		gl.PtrOffset(int(c.indexOffset+startIndex*2)), int32(instanceCount), baseVertex)
}
