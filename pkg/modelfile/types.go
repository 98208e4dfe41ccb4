package modelfile

import "github.com/go-gl/mathgl/mgl32"

// Model is a JSON model made of cuboid elements.
type Model struct {
	Parent   string            `json:"parent"`
	Textures map[string]string `json:"textures"`
	Elements []Element         `json:"elements"`
}

// Element is a cuboid between From and To, in 0-16 units.
type Element struct {
	From     [3]float32      `json:"from"`
	To       [3]float32      `json:"to"`
	Rotation *Rotation       `json:"rotation"`
	Faces    map[string]Face `json:"faces"`
}

type Rotation struct {
	Origin [3]float32 `json:"origin"`
	Angle  float32    `json:"angle"`
	Axis   string     `json:"axis"`
}

// Face is one side of an element. UV is [u0, v0, u1, v1] in 0-16 units; a
// zero UV covers the whole texture.
type Face struct {
	UV      [4]float32 `json:"uv"`
	Texture string     `json:"texture"`
}

// Vertex is one corner of a face, centered on the origin in unit space.
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	Normal   mgl32.Vec3
}

// Mesh is a run of indices sharing one texture. Indices are relative to
// BaseVertex.
type Mesh struct {
	Texture    string
	BaseIndex  uint32
	IndexCount uint32
	BaseVertex int32
}

// Geometry is a model flattened into indexed triangles.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint16
	Meshes   []Mesh
}
