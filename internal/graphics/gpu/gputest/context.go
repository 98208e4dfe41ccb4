package gputest

import (
	"slices"

	"mini-render/internal/graphics/gpu"
)

// Context records every call made on it.
type Context struct {
	Calls []Call
}

func (c *Context) record(op string, slot int, args ...any) {
	c.Calls = append(c.Calls, Call{Op: op, Slot: slot, Args: args})
}

// Reset drops the recorded calls.
func (c *Context) Reset() { c.Calls = nil }

// Ops returns the recorded operation names in order.
func (c *Context) Ops() []string {
	ops := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		ops[i] = call.Op
	}
	return ops
}

// Filter returns the calls whose op is one of ops.
func (c *Context) Filter(ops ...string) []Call {
	var out []Call
	for _, call := range c.Calls {
		if slices.Contains(ops, call.Op) {
			out = append(out, call)
		}
	}
	return out
}

func (c *Context) ClearRenderTargetView(rtv gpu.RenderTargetView, color [4]float32) {
	c.record("ClearRenderTargetView", 0, rtv, color)
}

func (c *Context) ClearDepthStencilView(dsv gpu.DepthStencilView, depth float32, stencil uint8) {
	c.record("ClearDepthStencilView", 0, dsv, depth, stencil)
}

func (c *Context) SetRenderTargets(rtv gpu.RenderTargetView, dsv gpu.DepthStencilView) {
	c.record("SetRenderTargets", 0, rtv, dsv)
}

func (c *Context) SetViewport(vp gpu.Viewport) {
	c.record("SetViewport", 0, vp)
}

func (c *Context) SetPrimitiveTopology(t gpu.Topology) {
	c.record("SetPrimitiveTopology", 0, t)
}

func (c *Context) SetVertexBuffers(slot int, buffers []gpu.Buffer, strides, offsets []uint32) {
	c.record("SetVertexBuffers", slot, buffers, strides, offsets)
}

func (c *Context) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat, offset uint32) {
	c.record("SetIndexBuffer", 0, buf, format, offset)
}

func (c *Context) SetInputLayout(layout gpu.InputLayout) {
	c.record("SetInputLayout", 0, layout)
}

func (c *Context) UpdateSubresource(buf gpu.Buffer, data []byte) {
	if b, ok := buf.(*Buffer); ok {
		b.Data = append(b.Data[:0], data...)
	}
	c.record("UpdateSubresource", 0, buf, append([]byte(nil), data...))
}

func (c *Context) VSSetShader(vs gpu.VertexShader) {
	c.record("VSSetShader", 0, vs)
}

func (c *Context) PSSetShader(ps gpu.PixelShader) {
	c.record("PSSetShader", 0, ps)
}

func (c *Context) VSSetConstantBuffers(slot int, buffers ...gpu.Buffer) {
	c.record("VSSetConstantBuffers", slot, buffers)
}

func (c *Context) PSSetConstantBuffers(slot int, buffers ...gpu.Buffer) {
	c.record("PSSetConstantBuffers", slot, buffers)
}

func (c *Context) PSSetShaderResources(slot int, textures ...gpu.Texture) {
	c.record("PSSetShaderResources", slot, textures)
}

func (c *Context) PSSetSamplers(slot int, samplers ...gpu.Sampler) {
	c.record("PSSetSamplers", slot, samplers)
}

func (c *Context) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) {
	c.record("DrawIndexed", 0, indexCount, startIndex, baseVertex)
}

func (c *Context) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) {
	c.record("DrawIndexedInstanced", 0, indexCountPerInstance, instanceCount, startIndex, baseVertex, startInstance)
}
