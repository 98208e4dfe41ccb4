package shader

import (
	"embed"
	"strings"

	"mini-render/internal/graphics/gpu"
)

//go:embed assets/*.glsl assets/*.vert assets/*.frag
var assets embed.FS

const glslVersion = "#version 410 core\n"

// Names of the built-in shaders.
const (
	MainShader    = "main"
	TextureShader = "texture"
	LightShader   = "light"
	VoxelShader   = "voxel"
)

// compose prefixes an embedded stage body with the version line and the
// shared constant buffer blocks.
func compose(file string) []byte {
	blocks, err := assets.ReadFile("assets/blocks.glsl")
	if err != nil {
		panic(err)
	}
	body, err := assets.ReadFile("assets/" + file)
	if err != nil {
		panic(err)
	}
	var sb strings.Builder
	sb.WriteString(glslVersion)
	sb.Write(blocks)
	sb.WriteByte('\n')
	sb.Write(body)
	return []byte(sb.String())
}

// DefaultVertexShaders returns fresh handles for the built-in vertex shaders,
// keyed by name.
func DefaultVertexShaders() map[string]*VertexShader {
	return map[string]*VertexShader{
		MainShader:  NewVertexShaderFromSource(MainShader, compose("main.vert"), gpu.SimpleVertexLayout),
		VoxelShader: NewVertexShaderFromSource(VoxelShader, compose("voxel.vert"), gpu.InstancedVertexLayout),
	}
}

// DefaultPixelShaders returns fresh handles for the built-in pixel shaders,
// keyed by name.
func DefaultPixelShaders() map[string]*PixelShader {
	return map[string]*PixelShader{
		MainShader:    NewPixelShaderFromSource(MainShader, compose("main.frag")),
		TextureShader: NewPixelShaderFromSource(TextureShader, compose("texture.frag")),
		LightShader:   NewPixelShaderFromSource(LightShader, compose("light.frag")),
	}
}
