// Package light provides the point lights the renderer uploads every frame.
package light

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PointLight is a light source occupying one slot of the lights buffer.
type PointLight interface {
	Update(deltaTime float32)
	Position() mgl32.Vec4
	Color() mgl32.Vec4
}

// Point is a light that never moves.
type Point struct {
	position mgl32.Vec4
	color    mgl32.Vec4
}

func NewPoint(position mgl32.Vec4, color mgl32.Vec4) *Point {
	return &Point{position: position, color: color}
}

func (p *Point) Update(float32) {}

func (p *Point) Position() mgl32.Vec4 { return p.position }

func (p *Point) Color() mgl32.Vec4 { return p.color }

// Rotating circles the Y axis, turning by deltaTime radians per update.
type Rotating struct {
	initial mgl32.Vec4
	color   mgl32.Vec4
	angle   float32
}

func NewRotating(position mgl32.Vec4, color mgl32.Vec4) *Rotating {
	return &Rotating{initial: position, color: color}
}

func (r *Rotating) Update(deltaTime float32) {
	r.angle = math32.Mod(r.angle+deltaTime, 2*math32.Pi)
}

func (r *Rotating) Angle() float32 { return r.angle }

func (r *Rotating) Position() mgl32.Vec4 {
	return mgl32.HomogRotate3DY(r.angle).Mul4x1(r.initial)
}

func (r *Rotating) Color() mgl32.Vec4 { return r.color }

// Valid reports whether l can be stored in a light slot. A nil interface and
// a nil *Point or *Rotating are not valid.
func Valid(l PointLight) bool {
	switch v := l.(type) {
	case nil:
		return false
	case *Point:
		return v != nil
	case *Rotating:
		return v != nil
	}
	return true
}
