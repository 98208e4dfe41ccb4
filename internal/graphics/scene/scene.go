// Package scene loads voxel scenes: named groups of instanced geometry read
// from a JSON file.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/renderable"
	"mini-render/internal/graphics/shader"
	"mini-render/pkg/modelfile"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyVoxel is returned for a voxel entry without instances.
var ErrEmptyVoxel = errors.New("scene: voxel has no instances")

type file struct {
	Voxels []voxelEntry `json:"voxels"`
}

type voxelEntry struct {
	Name      string       `json:"name"`
	Color     *[4]float32  `json:"color"`
	Model     string       `json:"model"`
	Instances [][3]float32 `json:"instances"`
}

// Scene is an ordered list of instanced voxels.
type Scene struct {
	name   string
	voxels []*renderable.Instanced
	names  []string
}

// New returns a scene holding voxels in the given order.
func New(name string, voxels ...*renderable.Instanced) *Scene {
	s := &Scene{name: name, voxels: voxels}
	for i := range voxels {
		s.names = append(s.names, fmt.Sprintf("voxel%d", i))
	}
	return s
}

// Load reads the scene file at path. Voxels with a model are built through
// models, and their textures are decoded into cache before Load returns. On
// any error no scene is returned.
func Load(path string, models *modelfile.Loader, cache *renderable.TextureCache) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}

	s := &Scene{name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	var textures []string
	seen := make(map[string]bool)
	for i, v := range f.Voxels {
		name := v.Name
		if name == "" {
			name = fmt.Sprintf("voxel%d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("scene %s: duplicate voxel %q", path, name)
		}
		seen[name] = true

		voxel, err := buildVoxel(v, models, cache)
		if err != nil {
			return nil, fmt.Errorf("scene %s: voxel %q: %w", path, name, err)
		}
		textures = append(textures, voxel.Geometry().TexturePaths()...)
		s.voxels = append(s.voxels, voxel)
		s.names = append(s.names, name)
	}

	if len(textures) > 0 {
		if cache == nil {
			cache = renderable.DefaultTextureCache
		}
		if err := cache.Preload(textures...); err != nil {
			return nil, fmt.Errorf("scene %s: %w", path, err)
		}
	}
	return s, nil
}

func buildVoxel(v voxelEntry, models *modelfile.Loader, cache *renderable.TextureCache) (*renderable.Instanced, error) {
	if len(v.Instances) == 0 {
		return nil, ErrEmptyVoxel
	}
	offsets := make([]mgl32.Vec3, len(v.Instances))
	for i, in := range v.Instances {
		offsets[i] = mgl32.Vec3(in)
	}

	color := mgl32.Vec4{1, 1, 1, 1}
	if v.Color != nil {
		color = mgl32.Vec4(*v.Color)
	}

	geometry := renderable.CubeGeometry()
	if v.Model != "" {
		if models == nil {
			return nil, fmt.Errorf("model %q without a model loader", v.Model)
		}
		g, err := renderable.ModelGeometry(v.Model, models, cache)
		if err != nil {
			return nil, err
		}
		geometry = g
	}
	return renderable.NewInstanced(geometry, color, nil, renderable.InstanceOffsets(offsets)), nil
}

func (s *Scene) Name() string { return s.name }

// Voxels returns the voxels in file order.
func (s *Scene) Voxels() []renderable.Renderable {
	out := make([]renderable.Renderable, len(s.voxels))
	for i, v := range s.voxels {
		out[i] = v
	}
	return out
}

// VoxelNames returns the voxel names in file order.
func (s *Scene) VoxelNames() []string { return s.names }

// SetVertexShader assigns vs to every voxel.
func (s *Scene) SetVertexShader(vs *shader.VertexShader) {
	for _, v := range s.voxels {
		v.SetVertexShader(vs)
	}
}

// SetPixelShader assigns ps to every voxel.
func (s *Scene) SetPixelShader(ps *shader.PixelShader) {
	for _, v := range s.voxels {
		v.SetPixelShader(ps)
	}
}

// Initialize creates every voxel's GPU resources, stopping at the first
// failure.
func (s *Scene) Initialize(dev gpu.Device, ctx gpu.Context) error {
	for i, v := range s.voxels {
		if err := v.Initialize(dev, ctx); err != nil {
			return fmt.Errorf("scene %s: voxel %q: %w", s.name, s.names[i], err)
		}
	}
	return nil
}

func (s *Scene) Update(deltaTime float32) {
	for _, v := range s.voxels {
		v.Update(deltaTime)
	}
}

func (s *Scene) Release() {
	for _, v := range s.voxels {
		v.Release()
	}
}
