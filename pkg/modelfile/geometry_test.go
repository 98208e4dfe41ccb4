package modelfile

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func fullCube(texture string) Element {
	faces := make(map[string]Face)
	for _, name := range FaceOrder {
		faces[name] = Face{Texture: texture}
	}
	return Element{From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16}, Faces: faces}
}

func TestGeometryWindingMatchesNormals(t *testing.T) {
	g, err := NewLoader(testRoot).Geometry(&Model{Elements: []Element{fullCube("block/stone")}})
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if len(g.Vertices) != 24 || len(g.Indices) != 36 {
		t.Fatalf("Expected 24 vertices and 36 indices, got %d and %d", len(g.Vertices), len(g.Indices))
	}
	if len(g.Meshes) != 1 {
		t.Fatalf("Expected one mesh, got %d", len(g.Meshes))
	}

	for tri := 0; tri < len(g.Indices); tri += 3 {
		a := g.Vertices[g.Indices[tri]]
		b := g.Vertices[g.Indices[tri+1]]
		c := g.Vertices[g.Indices[tri+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
		if !n.ApproxEqual(a.Normal) {
			t.Errorf("triangle %d: winding normal %v, vertex normal %v", tri/3, n, a.Normal)
		}
		// Faces sit on the surface of the unit cube.
		if a.Position.Dot(a.Normal) != 0.5 {
			t.Errorf("triangle %d: face not on the cube surface: %v", tri/3, a.Position)
		}
	}
}

func TestGeometryGroupsByTexture(t *testing.T) {
	l := NewLoader(testRoot)
	m, err := l.Load("block/two_textures")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g, err := l.Geometry(m)
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if len(g.Meshes) != 2 {
		t.Fatalf("Expected 2 meshes, got %d", len(g.Meshes))
	}

	top, side := g.Meshes[0], g.Meshes[1]
	if top.Texture != "block/log_top" || side.Texture != "block/log_side" {
		t.Errorf("Unexpected mesh order: %s, %s", top.Texture, side.Texture)
	}
	if top.IndexCount != 12 || side.IndexCount != 24 {
		t.Errorf("Unexpected index counts: %d, %d", top.IndexCount, side.IndexCount)
	}
	if side.BaseIndex != 12 || side.BaseVertex != 8 {
		t.Errorf("Unexpected side offsets: index %d, vertex %d", side.BaseIndex, side.BaseVertex)
	}
	for _, idx := range g.Indices[side.BaseIndex:] {
		if int(idx) >= 16 {
			t.Errorf("Index %d is not relative to the mesh base vertex", idx)
		}
	}

	// The east face maps half the texture.
	east := g.Vertices[len(g.Vertices)-4:]
	if east[2].UV != (mgl32.Vec2{0.5, 0.5}) {
		t.Errorf("Expected custom uv corner (0.5, 0.5), got %v", east[2].UV)
	}
}

func TestGeometryElementRotation(t *testing.T) {
	el := fullCube("block/stone")
	el.Rotation = &Rotation{Origin: [3]float32{8, 8, 8}, Angle: 90, Axis: "y"}
	g, err := NewLoader(testRoot).Geometry(&Model{Elements: []Element{el}})
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	// Down and up come first; north follows and now faces west or east.
	north := g.Vertices[8]
	if !north.Normal.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("Expected rotated north normal (-1,0,0), got %v", north.Normal)
	}

	el.Rotation.Axis = "w"
	if _, err := NewLoader(testRoot).Geometry(&Model{Elements: []Element{el}}); err == nil {
		t.Errorf("Expected an error for an unknown axis")
	}
}

func TestGeometryRejectsUnresolvedTexture(t *testing.T) {
	_, err := NewLoader(testRoot).Geometry(&Model{Elements: []Element{fullCube("#missing")}})
	if err == nil {
		t.Fatalf("Expected an unresolved texture error")
	}
}

func TestGeometryTooManyVertices(t *testing.T) {
	one := Element{To: [3]float32{16, 16, 16}, Faces: map[string]Face{"up": {Texture: "block/stone"}}}
	elements := make([]Element, 16384)
	for i := range elements {
		elements[i] = one
	}
	_, err := NewLoader(testRoot).Geometry(&Model{Elements: elements})
	if !errors.Is(err, ErrTooManyVertices) {
		t.Fatalf("Expected ErrTooManyVertices, got %v", err)
	}
}
