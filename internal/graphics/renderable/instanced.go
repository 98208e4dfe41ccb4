package renderable

import (
	"errors"
	"fmt"

	"mini-render/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoInstances is returned when an instanced object is initialized without
// instance data.
var ErrNoInstances = errors.New("renderable: no instances")

// Instanced draws one geometry many times, offset by per-instance data.
type Instanced struct {
	Object

	instances []gpu.InstanceData
	capacity  int
	ctx       gpu.Context
}

func NewInstanced(geometry Geometry, color mgl32.Vec4, motion Motion, instances []gpu.InstanceData) *Instanced {
	in := &Instanced{instances: instances}
	in.init(geometry, color, motion)
	return in
}

func (in *Instanced) Instances() []gpu.InstanceData { return in.instances }

// SetInstanceData replaces the instance list. After Initialize the new list
// is uploaded and may not outgrow the list the buffer was created with.
func (in *Instanced) SetInstanceData(instances []gpu.InstanceData) error {
	if in.state.InstanceBuffer == nil {
		in.instances = instances
		return nil
	}
	if len(instances) > in.capacity {
		return fmt.Errorf("renderable: %d instances exceed buffer capacity %d", len(instances), in.capacity)
	}
	in.instances = instances
	if len(instances) > 0 {
		in.ctx.UpdateSubresource(in.state.InstanceBuffer, gpu.InstanceBytes(instances))
	}
	in.state.InstanceCount = uint32(len(instances))
	return nil
}

// Initialize creates the object resources and the instance buffer.
func (in *Instanced) Initialize(dev gpu.Device, ctx gpu.Context) error {
	if in.state.InstanceBuffer != nil {
		return nil
	}
	if len(in.instances) == 0 {
		return ErrNoInstances
	}
	if err := in.Object.Initialize(dev, ctx); err != nil {
		return err
	}

	buf, err := dev.CreateBuffer(gpu.BufferDesc{
		ByteWidth: uint32(len(in.instances) * gpu.InstanceDataSize),
		Usage:     gpu.UsageDefault,
		BindFlags: gpu.BindVertexBuffer,
	}, gpu.InstanceBytes(in.instances))
	if err != nil {
		return fmt.Errorf("create instance buffer: %w", err)
	}
	in.state.InstanceBuffer = buf
	in.state.InstanceStride = gpu.InstanceDataSize
	in.state.InstanceCount = uint32(len(in.instances))
	in.capacity = len(in.instances)
	in.ctx = ctx
	return nil
}

func (in *Instanced) Release() {
	gpu.Release(in.state.InstanceBuffer)
	in.state.InstanceBuffer = nil
	in.state.InstanceCount = 0
	in.Object.Release()
}
