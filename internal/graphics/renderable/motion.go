package renderable

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Motion produces a world matrix from accumulated time.
type Motion interface {
	Advance(deltaTime float32) mgl32.Mat4
}

// wrap keeps an angle accumulator below 360 by a single subtraction.
func wrap(angle float32) float32 {
	if angle >= 360 {
		angle -= 360
	}
	return angle
}

// Spin rotates about the X axis while revolving above the origin.
type Spin struct {
	angle float32
}

// Angle returns the accumulated angle in degrees.
func (s *Spin) Angle() float32 { return s.angle }

func (s *Spin) Advance(deltaTime float32) mgl32.Mat4 {
	s.angle = wrap(s.angle + deltaTime)
	return SpinMatrix(s.angle)
}

// SpinMatrix scales by 0.5, rotates about Y by -angle/2, lifts by 3 and then
// rotates about X by 3*angle. Angles are in degrees.
func SpinMatrix(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(angle * 3)).
		Mul4(mgl32.Translate3D(0, 3, 0)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-angle * 0.5))).
		Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
}

// Orbit circles the Y axis at radius 4 while rolling about Z.
type Orbit struct {
	angle float32
}

func (o *Orbit) Angle() float32 { return o.angle }

func (o *Orbit) Advance(deltaTime float32) mgl32.Mat4 {
	o.angle = wrap(o.angle + deltaTime)
	return OrbitMatrix(o.angle)
}

// OrbitMatrix scales by 0.3, rotates about Z by -angle, moves to x=-4 and
// then rotates about Y by -2*angle. Angles are in degrees.
func OrbitMatrix(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(-angle * 2)).
		Mul4(mgl32.Translate3D(-4, 0, 0)).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(-angle))).
		Mul4(mgl32.Scale3D(0.3, 0.3, 0.3))
}

// Bob floats up and down at x=4 while turning about Y. Time is never
// wrapped and is in radians.
type Bob struct {
	totalTime float32
}

func (b *Bob) TotalTime() float32 { return b.totalTime }

func (b *Bob) Advance(deltaTime float32) mgl32.Mat4 {
	b.totalTime += deltaTime
	return BobMatrix(b.totalTime)
}

func BobMatrix(t float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(t).Mul4(mgl32.Translate3D(4, math32.Sin(t), 0))
}

// Static keeps a fixed world matrix.
type Static struct {
	World mgl32.Mat4
}

func (s Static) Advance(float32) mgl32.Mat4 { return s.World }
