// Package camera implements the first-person fly camera that owns the view
// constant buffer.
package camera

import (
	"fmt"

	"mini-render/internal/graphics/gpu"
	"mini-render/internal/input"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultTravelSpeed = 10.0
	DefaultSensitivity = 0.1

	maxPitch = 89.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera moves in its own horizontal frame and looks along yaw/pitch.
type Camera struct {
	eye        mgl32.Vec3
	yaw, pitch float32 // degrees
	move       mgl32.Vec3
	view       mgl32.Mat4

	TravelSpeed float32
	Sensitivity float32

	constantBuffer gpu.Buffer
}

// New returns a camera at eye looking down +Z.
func New(eye mgl32.Vec3) *Camera {
	c := &Camera{
		eye:         eye,
		yaw:         90,
		TravelSpeed: DefaultTravelSpeed,
		Sensitivity: DefaultSensitivity,
	}
	c.view = c.lookAt()
	return c
}

// NewDefault returns a camera at (0, 1, -5) looking down +Z.
func NewDefault() *Camera {
	return New(mgl32.Vec3{0, 1, -5})
}

func (c *Camera) Eye() mgl32.Vec3 { return c.eye }

func (c *Camera) View() mgl32.Mat4 { return c.view }

// Yaw and Pitch are in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

func (c *Camera) Pitch() float32 { return c.pitch }

// Front returns the unit look direction.
func (c *Camera) Front() mgl32.Vec3 {
	y := mgl32.DegToRad(c.yaw)
	p := mgl32.DegToRad(c.pitch)
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}.Normalize()
}

// HandleInput turns the camera by the mouse delta and queues a move for the
// held directions. Nothing moves until Update.
func (c *Camera) HandleInput(dirs input.Directions, mouse input.MouseMovement, deltaTime float32) {
	c.yaw += mouse.X * c.Sensitivity
	c.pitch = mgl32.Clamp(c.pitch+mouse.Y*c.Sensitivity, -maxPitch, maxPitch)

	y := mgl32.DegToRad(c.yaw)
	forward := mgl32.Vec3{math32.Cos(y), 0, math32.Sin(y)}
	right := forward.Cross(worldUp).Normalize()

	var move mgl32.Vec3
	if dirs.Front {
		move = move.Add(forward)
	}
	if dirs.Back {
		move = move.Sub(forward)
	}
	if dirs.Right {
		move = move.Add(right)
	}
	if dirs.Left {
		move = move.Sub(right)
	}
	if dirs.Up {
		move = move.Add(worldUp)
	}
	if dirs.Down {
		move = move.Sub(worldUp)
	}
	c.move = c.move.Add(move.Mul(c.TravelSpeed * deltaTime))
}

// Update applies the queued move and recomputes the view matrix.
func (c *Camera) Update(deltaTime float32) {
	c.eye = c.eye.Add(c.move)
	c.move = mgl32.Vec3{}
	c.view = c.lookAt()
}

func (c *Camera) lookAt() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, c.eye.Add(c.Front()), worldUp)
}

// Constants returns the camera constant buffer contents.
func (c *Camera) Constants() gpu.CameraConstants {
	return gpu.CameraConstants{View: c.view, CameraPosition: c.eye.Vec4(1)}
}

// Initialize creates the camera constant buffer.
func (c *Camera) Initialize(dev gpu.Device) error {
	if c.constantBuffer != nil {
		return nil
	}
	cb, err := dev.CreateBuffer(gpu.BufferDesc{
		ByteWidth: gpu.CameraConstantsSize,
		Usage:     gpu.UsageDefault,
		BindFlags: gpu.BindConstantBuffer,
	}, c.Constants().Bytes())
	if err != nil {
		return fmt.Errorf("camera constant buffer: %w", err)
	}
	c.constantBuffer = cb
	return nil
}

// ConstantBuffer returns the buffer created by Initialize.
func (c *Camera) ConstantBuffer() gpu.Buffer { return c.constantBuffer }

func (c *Camera) Release() {
	if c.constantBuffer != nil {
		c.constantBuffer.Release()
		c.constantBuffer = nil
	}
}
