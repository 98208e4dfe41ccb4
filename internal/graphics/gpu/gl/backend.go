// Package glgpu implements the gpu interfaces on OpenGL 4.1 core.
//
// Constant buffers become uniform buffers bound at the slot number, vertex and
// pixel shaders become GLSL vertex and fragment shader objects, and programs
// are linked lazily for every vertex/pixel pair that is drawn with.
package glgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"mini-render/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrDriverUnavailable is returned for driver types this backend cannot create.
var ErrDriverUnavailable = errors.New("glgpu: driver type not available")

// Backend creates devices on the GL context current on the calling thread.
type Backend struct {
	window *glfw.Window
	vsync  bool
}

// NewBackend returns a backend presenting into window. The window's context
// must be current on the calling thread.
func NewBackend(window *glfw.Window, vsync bool) *Backend {
	return &Backend{window: window, vsync: vsync}
}

func (b *Backend) CreateDevice(driver gpu.DriverType) (gpu.Device, error) {
	if driver != gpu.DriverHardware {
		return nil, fmt.Errorf("%w: %s", ErrDriverUnavailable, driver)
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize OpenGL: %v", err)
	}
	slog.Debug("opengl device created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	d := &Device{programs: make(map[programKey]*program)}
	d.ctx = &Context{device: d, topology: gl.TRIANGLES}
	gl.GenVertexArrays(1, &d.ctx.vao)
	return d, nil
}

func (b *Backend) CreateSwapChain(dev gpu.Device, surface gpu.Surface, width, height int) (gpu.SwapChain, error) {
	if b.window == nil {
		return nil, errors.New("glgpu: no window to present into")
	}
	if b.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return &SwapChain{
		window: b.window,
		back: &Texture{desc: gpu.TextureDesc{
			Width: width, Height: height,
			Format:    gpu.FormatR8G8B8A8Unorm,
			BindFlags: gpu.BindRenderTarget,
		}},
	}, nil
}

// SwapChain presents by swapping the window's buffers. Its back buffer is the
// default framebuffer.
type SwapChain struct {
	window *glfw.Window
	back   *Texture
}

func (s *SwapChain) BackBuffer() (gpu.Texture, error) { return s.back, nil }

func (s *SwapChain) Present() { s.window.SwapBuffers() }

func (s *SwapChain) Release() {}
