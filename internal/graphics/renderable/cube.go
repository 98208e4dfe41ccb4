package renderable

import (
	"fmt"

	"mini-render/internal/graphics/gpu"
	"mini-render/pkg/modelfile"

	"github.com/go-gl/mathgl/mgl32"
)

type cubeFace struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}

// Faces of the cube spanning -1..1. Texture coordinates are the same for
// every face.
var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {-1, 1, 1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, 1}, {-1, -1, -1}, {-1, 1, -1}, {-1, 1, 1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
}

var cubeTexCoords = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

var cubeIndices = [36]uint16{
	3, 1, 0, 2, 1, 3,
	6, 4, 5, 7, 4, 6,
	11, 9, 8, 10, 9, 11,
	14, 12, 13, 15, 12, 14,
	19, 17, 16, 18, 17, 19,
	22, 20, 21, 23, 20, 22,
}

// CubeGeometry returns the 24-vertex, 36-index cube spanning -1..1.
func CubeGeometry() Geometry {
	vertices := make([]gpu.SimpleVertex, 0, 24)
	for _, f := range cubeFaces {
		for i, c := range f.corners {
			vertices = append(vertices, gpu.SimpleVertex{Position: c, TexCoord: cubeTexCoords[i], Normal: f.normal})
		}
	}
	indices := make([]uint16, len(cubeIndices))
	copy(indices, cubeIndices[:])
	return Geometry{Vertices: vertices, Indices: indices}
}

// NewCube returns a static cube at the origin.
func NewCube(color mgl32.Vec4) *Object {
	return NewObject(CubeGeometry(), color, nil)
}

// NewSpinCube returns a cube moved by Spin.
func NewSpinCube(color mgl32.Vec4) *Object {
	return NewObject(CubeGeometry(), color, &Spin{})
}

// NewOrbitCube returns a cube moved by Orbit.
func NewOrbitCube(color mgl32.Vec4) *Object {
	return NewObject(CubeGeometry(), color, &Orbit{})
}

// NewCenterCube returns the static cube at the origin.
func NewCenterCube(color mgl32.Vec4) *Object {
	return NewCube(color)
}

// NewTexturedCube returns a cube moved by Bob, drawn as a single mesh with the
// texture at path.
func NewTexturedCube(path string, cache *TextureCache) *Object {
	g := CubeGeometry()
	g.Meshes = []Mesh{{IndexCount: uint32(len(g.Indices))}}
	g.Materials = []Material{{Name: path, Diffuse: NewTexture(path, cache)}}
	return NewObject(g, mgl32.Vec4{1, 1, 1, 1}, &Bob{})
}

// NewInstancedCube returns a static cube drawn once per offset.
func NewInstancedCube(color mgl32.Vec4, offsets []mgl32.Vec3) *Instanced {
	return NewInstanced(CubeGeometry(), color, nil, InstanceOffsets(offsets))
}

func InstanceOffsets(offsets []mgl32.Vec3) []gpu.InstanceData {
	out := make([]gpu.InstanceData, len(offsets))
	for i, o := range offsets {
		out[i] = gpu.InstanceData{Offset: o}
	}
	return out
}

// ModelGeometry loads a model file through loader and converts it, one
// material per distinct texture.
func ModelGeometry(name string, loader *modelfile.Loader, cache *TextureCache) (Geometry, error) {
	m, err := loader.Load(name)
	if err != nil {
		return Geometry{}, err
	}
	mg, err := loader.Geometry(m)
	if err != nil {
		return Geometry{}, fmt.Errorf("model %q: %w", name, err)
	}

	g := Geometry{
		Vertices: make([]gpu.SimpleVertex, len(mg.Vertices)),
		Indices:  mg.Indices,
	}
	for i, v := range mg.Vertices {
		g.Vertices[i] = gpu.SimpleVertex{Position: v.Position, TexCoord: v.UV, Normal: v.Normal}
	}
	for i, mesh := range mg.Meshes {
		g.Meshes = append(g.Meshes, Mesh{
			IndexCount:    mesh.IndexCount,
			BaseIndex:     mesh.BaseIndex,
			BaseVertex:    mesh.BaseVertex,
			MaterialIndex: i,
		})
		g.Materials = append(g.Materials, Material{
			Name:    mesh.Texture,
			Diffuse: NewTexture(loader.TexturePath(mesh.Texture), cache),
		})
	}
	return g, nil
}

// TexturePaths returns the files the materials of g read from.
func (g Geometry) TexturePaths() []string {
	var paths []string
	for _, m := range g.Materials {
		if m.Diffuse != nil && m.Diffuse.image == nil {
			paths = append(paths, m.Diffuse.Path())
		}
	}
	return paths
}

// NewModel returns a static textured object built from a model file.
func NewModel(name string, loader *modelfile.Loader, cache *TextureCache) (*Object, error) {
	g, err := ModelGeometry(name, loader, cache)
	if err != nil {
		return nil, err
	}
	return NewObject(g, mgl32.Vec4{1, 1, 1, 1}, nil), nil
}
