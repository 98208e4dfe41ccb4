package modelfile

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrTooManyVertices is returned when a model does not fit 16-bit indices.
var ErrTooManyVertices = errors.New("modelfile: too many vertices for 16-bit indices")

// FaceOrder is the order faces are emitted in within an element.
var FaceOrder = [...]string{"down", "up", "north", "south", "west", "east"}

var faceNormals = map[string]mgl32.Vec3{
	"down":  {0, -1, 0},
	"up":    {0, 1, 0},
	"north": {0, 0, -1},
	"south": {0, 0, 1},
	"west":  {-1, 0, 0},
	"east":  {1, 0, 0},
}

// corners returns the face corners as seen from outside: top-left,
// top-right, bottom-right, bottom-left.
func corners(face string, lo, hi mgl32.Vec3) [4]mgl32.Vec3 {
	x0, y0, z0 := lo[0], lo[1], lo[2]
	x1, y1, z1 := hi[0], hi[1], hi[2]
	switch face {
	case "down":
		return [4]mgl32.Vec3{{x0, y0, z1}, {x1, y0, z1}, {x1, y0, z0}, {x0, y0, z0}}
	case "up":
		return [4]mgl32.Vec3{{x0, y1, z0}, {x1, y1, z0}, {x1, y1, z1}, {x0, y1, z1}}
	case "north":
		return [4]mgl32.Vec3{{x1, y1, z0}, {x0, y1, z0}, {x0, y0, z0}, {x1, y0, z0}}
	case "south":
		return [4]mgl32.Vec3{{x0, y1, z1}, {x1, y1, z1}, {x1, y0, z1}, {x0, y0, z1}}
	case "west":
		return [4]mgl32.Vec3{{x0, y1, z0}, {x0, y1, z1}, {x0, y0, z1}, {x0, y0, z0}}
	default: // east
		return [4]mgl32.Vec3{{x1, y1, z1}, {x1, y1, z0}, {x1, y0, z0}, {x1, y0, z1}}
	}
}

// Counter-clockwise triangles over the corners above.
var quadIndices = [6]uint16{0, 3, 2, 0, 2, 1}

type quad struct {
	vertices [4]Vertex
}

// Geometry flattens m into indexed triangles grouped by texture. Meshes are
// ordered by the first face using each texture.
func (l *Loader) Geometry(m *Model) (*Geometry, error) {
	var order []string
	groups := make(map[string][]quad)

	for i, el := range m.Elements {
		rot, err := elementRotation(el.Rotation)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		lo := unit(el.From)
		hi := unit(el.To)
		for _, name := range FaceOrder {
			face, ok := el.Faces[name]
			if !ok {
				continue
			}
			if strings.HasPrefix(face.Texture, "#") || face.Texture == "" {
				return nil, fmt.Errorf("element %d face %s: unresolved texture %q", i, name, face.Texture)
			}
			if _, ok := groups[face.Texture]; !ok {
				order = append(order, face.Texture)
			}
			groups[face.Texture] = append(groups[face.Texture], buildQuad(name, face, lo, hi, rot))
		}
	}

	total := 0
	for _, qs := range groups {
		total += 4 * len(qs)
	}
	if total > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyVertices, total)
	}

	g := &Geometry{
		Vertices: make([]Vertex, 0, total),
		Indices:  make([]uint16, 0, total/4*6),
	}
	for _, tex := range order {
		mesh := Mesh{
			Texture:    tex,
			BaseIndex:  uint32(len(g.Indices)),
			BaseVertex: int32(len(g.Vertices)),
		}
		for qi, q := range groups[tex] {
			g.Vertices = append(g.Vertices, q.vertices[:]...)
			for _, idx := range quadIndices {
				g.Indices = append(g.Indices, uint16(qi*4)+idx)
			}
		}
		mesh.IndexCount = uint32(len(g.Indices)) - mesh.BaseIndex
		g.Meshes = append(g.Meshes, mesh)
	}
	return g, nil
}

// unit maps 0-16 model units to a unit cube centered on the origin.
func unit(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0]/16 - 0.5, v[1]/16 - 0.5, v[2]/16 - 0.5}
}

func elementRotation(r *Rotation) (mgl32.Mat4, error) {
	if r == nil || r.Angle == 0 {
		return mgl32.Ident4(), nil
	}
	angle := mgl32.DegToRad(r.Angle)
	var rot mgl32.Mat4
	switch r.Axis {
	case "x":
		rot = mgl32.HomogRotate3DX(angle)
	case "y":
		rot = mgl32.HomogRotate3DY(angle)
	case "z":
		rot = mgl32.HomogRotate3DZ(angle)
	default:
		return mgl32.Mat4{}, fmt.Errorf("unknown rotation axis %q", r.Axis)
	}
	o := unit(r.Origin)
	return mgl32.Translate3D(o[0], o[1], o[2]).Mul4(rot).Mul4(mgl32.Translate3D(-o[0], -o[1], -o[2])), nil
}

func buildQuad(name string, face Face, lo, hi mgl32.Vec3, rot mgl32.Mat4) quad {
	uv := face.UV
	if uv == ([4]float32{}) {
		uv = [4]float32{0, 0, 16, 16}
	}
	u0, v0, u1, v1 := uv[0]/16, uv[1]/16, uv[2]/16, uv[3]/16
	uvs := [4]mgl32.Vec2{{u0, v0}, {u1, v0}, {u1, v1}, {u0, v1}}

	normal := rot.Mul4x1(faceNormals[name].Vec4(0)).Vec3().Normalize()
	var q quad
	for i, c := range corners(name, lo, hi) {
		q.vertices[i] = Vertex{
			Position: rot.Mul4x1(c.Vec4(1)).Vec3(),
			UV:       uvs[i],
			Normal:   normal,
		}
	}
	return q
}
