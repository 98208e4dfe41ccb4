// Package shader holds named vertex and pixel shader handles.
//
// A handle is created with a source path (or inline source) and becomes
// usable after Initialize creates the device object. Renderables keep
// non-owning pointers to handles; whoever registered the handle releases it.
package shader

import (
	"errors"
	"fmt"
	"os"

	"mini-render/internal/graphics/gpu"
)

// VertexShader is a vertex shader handle together with its input layout.
type VertexShader struct {
	name   string
	path   string
	source []byte
	layout []gpu.InputElement

	shader      gpu.VertexShader
	inputLayout gpu.InputLayout
}

// NewVertexShader returns a handle whose source is read from path on
// Initialize.
func NewVertexShader(name, path string, layout []gpu.InputElement) *VertexShader {
	return &VertexShader{name: name, path: path, layout: layout}
}

// NewVertexShaderFromSource returns a handle with inline source.
func NewVertexShaderFromSource(name string, source []byte, layout []gpu.InputElement) *VertexShader {
	return &VertexShader{name: name, source: source, layout: layout}
}

func (vs *VertexShader) Name() string { return vs.name }

func (vs *VertexShader) Path() string { return vs.path }

func (vs *VertexShader) Layout() []gpu.InputElement { return vs.layout }

// Shader returns the device object, nil before Initialize.
func (vs *VertexShader) Shader() gpu.VertexShader { return vs.shader }

// InputLayout returns the device input layout, nil before Initialize.
func (vs *VertexShader) InputLayout() gpu.InputLayout { return vs.inputLayout }

// Initialize compiles the shader and creates its input layout.
func (vs *VertexShader) Initialize(dev gpu.Device) error {
	if vs.shader != nil {
		return nil
	}
	src, err := readSource(vs.path, vs.source)
	if err != nil {
		return fmt.Errorf("vertex shader %q: %w", vs.name, err)
	}
	s, layout, err := dev.CreateVertexShader(src, vs.layout)
	if err != nil {
		return fmt.Errorf("vertex shader %q: %w", vs.name, err)
	}
	vs.shader, vs.inputLayout = s, layout
	return nil
}

func (vs *VertexShader) Release() {
	gpu.Release(vs.inputLayout, vs.shader)
	vs.shader, vs.inputLayout = nil, nil
}

// PixelShader is a pixel (fragment) shader handle.
type PixelShader struct {
	name   string
	path   string
	source []byte

	shader gpu.PixelShader
}

// NewPixelShader returns a handle whose source is read from path on
// Initialize.
func NewPixelShader(name, path string) *PixelShader {
	return &PixelShader{name: name, path: path}
}

// NewPixelShaderFromSource returns a handle with inline source.
func NewPixelShaderFromSource(name string, source []byte) *PixelShader {
	return &PixelShader{name: name, source: source}
}

func (ps *PixelShader) Name() string { return ps.name }

func (ps *PixelShader) Path() string { return ps.path }

// Shader returns the device object, nil before Initialize.
func (ps *PixelShader) Shader() gpu.PixelShader { return ps.shader }

func (ps *PixelShader) Initialize(dev gpu.Device) error {
	if ps.shader != nil {
		return nil
	}
	src, err := readSource(ps.path, ps.source)
	if err != nil {
		return fmt.Errorf("pixel shader %q: %w", ps.name, err)
	}
	s, err := dev.CreatePixelShader(src)
	if err != nil {
		return fmt.Errorf("pixel shader %q: %w", ps.name, err)
	}
	ps.shader = s
	return nil
}

func (ps *PixelShader) Release() {
	if ps.shader != nil {
		ps.shader.Release()
		ps.shader = nil
	}
}

func readSource(path string, inline []byte) ([]byte, error) {
	if inline != nil {
		return inline, nil
	}
	if path == "" {
		return nil, errors.New("no source")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return src, nil
}
