package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"mini-render/internal/graphics/camera"
	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/light"
	"mini-render/internal/graphics/renderable"
	"mini-render/internal/graphics/scene"
	"mini-render/internal/graphics/shader"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDuplicateName is returned when a name is already registered in
	// the same collection.
	ErrDuplicateName = errors.New("renderer: name already registered")
	// ErrLightIndex is returned for a light slot outside [0, gpu.NumLights).
	ErrLightIndex = errors.New("renderer: light index out of range")
	// ErrNilLight is returned when registering a nil light.
	ErrNilLight = errors.New("renderer: nil light")
	// ErrNilRenderable is returned when registering a nil renderable.
	ErrNilRenderable = errors.New("renderer: nil renderable")
	// ErrNilShader is returned when registering a nil shader.
	ErrNilShader = errors.New("renderer: nil shader")
	// ErrNotInitialized is reported when rendering before Initialize.
	ErrNotInitialized = errors.New("renderer: not initialized")
)

// AddRenderable registers r under name. Registering after Initialize
// initializes r immediately; on failure it is not registered.
func (r *Renderer) AddRenderable(name string, rd renderable.Renderable) error {
	if !renderable.Valid(rd) {
		return fmt.Errorf("%w: %q", ErrNilRenderable, name)
	}
	if err := r.renderables.Add(name, rd); err != nil {
		return fmt.Errorf("%w: renderable: %v", ErrDuplicateName, err)
	}
	if r.initialized {
		if err := rd.Initialize(r.device, r.ctx); err != nil {
			r.renderables.DeleteByKey(name)
			rd.Release()
			return fmt.Errorf("renderable %q: %w", name, err)
		}
	}
	slog.Debug("renderable added", "name", name)
	return nil
}

// AddVertexShader registers vs under name.
func (r *Renderer) AddVertexShader(name string, vs *shader.VertexShader) error {
	if vs == nil {
		return fmt.Errorf("%w: vertex shader %q", ErrNilShader, name)
	}
	if err := r.vertexShaders.Add(name, vs); err != nil {
		return fmt.Errorf("%w: vertex shader: %v", ErrDuplicateName, err)
	}
	if r.initialized {
		if err := vs.Initialize(r.device); err != nil {
			r.vertexShaders.DeleteByKey(name)
			vs.Release()
			return err
		}
	}
	slog.Debug("vertex shader added", "name", name)
	return nil
}

// AddPixelShader registers ps under name.
func (r *Renderer) AddPixelShader(name string, ps *shader.PixelShader) error {
	if ps == nil {
		return fmt.Errorf("%w: pixel shader %q", ErrNilShader, name)
	}
	if err := r.pixelShaders.Add(name, ps); err != nil {
		return fmt.Errorf("%w: pixel shader: %v", ErrDuplicateName, err)
	}
	if r.initialized {
		if err := ps.Initialize(r.device); err != nil {
			r.pixelShaders.DeleteByKey(name)
			ps.Release()
			return err
		}
	}
	slog.Debug("pixel shader added", "name", name)
	return nil
}

// AddPointLight places l in slot index, replacing any light already there.
func (r *Renderer) AddPointLight(index int, l light.PointLight) error {
	if index < 0 || index >= gpu.NumLights {
		return fmt.Errorf("%w: %d", ErrLightIndex, index)
	}
	if !light.Valid(l) {
		return ErrNilLight
	}
	r.lights[index] = l
	slog.Debug("point light added", "index", index)
	return nil
}

// AddScene loads the scene file at path and registers it under name. The
// name is checked before the file is read.
func (r *Renderer) AddScene(name, path string) error {
	if _, ok := r.scenes.AtTry(name); ok {
		return fmt.Errorf("%w: scene %q", ErrDuplicateName, name)
	}
	s, err := scene.Load(path, r.models, r.textures)
	if err != nil {
		return err
	}
	if err := r.scenes.Add(name, s); err != nil {
		return fmt.Errorf("%w: scene: %v", ErrDuplicateName, err)
	}
	if r.initialized {
		if err := s.Initialize(r.device, r.ctx); err != nil {
			r.scenes.DeleteByKey(name)
			s.Release()
			return err
		}
	}
	slog.Debug("scene added", "name", name, "path", path, "voxels", len(s.Voxels()))
	return nil
}

// SetMainScene selects the scene that is updated and drawn. A name that is
// not registered draws no scene.
func (r *Renderer) SetMainScene(name string) {
	r.mainScene = name
}

// SetVertexShaderOfRenderable assigns a registered vertex shader to a
// registered renderable. Unknown names leave everything unchanged.
func (r *Renderer) SetVertexShaderOfRenderable(renderableName, vertexShaderName string) error {
	rd, ok := r.renderables.AtTry(renderableName)
	if !ok {
		return nil
	}
	vs, ok := r.vertexShaders.AtTry(vertexShaderName)
	if !ok {
		return nil
	}
	rd.SetVertexShader(vs)
	return nil
}

// SetPixelShaderOfRenderable assigns a registered pixel shader to a
// registered renderable. Unknown names leave everything unchanged.
func (r *Renderer) SetPixelShaderOfRenderable(renderableName, pixelShaderName string) error {
	rd, ok := r.renderables.AtTry(renderableName)
	if !ok {
		return nil
	}
	ps, ok := r.pixelShaders.AtTry(pixelShaderName)
	if !ok {
		return nil
	}
	rd.SetPixelShader(ps)
	return nil
}

// SetVertexShaderOfScene assigns a registered vertex shader to every voxel
// of a registered scene. Unknown names leave everything unchanged.
func (r *Renderer) SetVertexShaderOfScene(sceneName, vertexShaderName string) error {
	s, ok := r.scenes.AtTry(sceneName)
	if !ok {
		return nil
	}
	vs, ok := r.vertexShaders.AtTry(vertexShaderName)
	if !ok {
		return nil
	}
	s.SetVertexShader(vs)
	return nil
}

// SetPixelShaderOfScene assigns a registered pixel shader to every voxel of
// a registered scene. Unknown names leave everything unchanged.
func (r *Renderer) SetPixelShaderOfScene(sceneName, pixelShaderName string) error {
	s, ok := r.scenes.AtTry(sceneName)
	if !ok {
		return nil
	}
	ps, ok := r.pixelShaders.AtTry(pixelShaderName)
	if !ok {
		return nil
	}
	s.SetPixelShader(ps)
	return nil
}

func (r *Renderer) Renderable(name string) (renderable.Renderable, bool) {
	return r.renderables.AtTry(name)
}

// RenderableNames returns the registered renderable names in draw order.
func (r *Renderer) RenderableNames() []string { return r.renderables.Keys }

func (r *Renderer) VertexShader(name string) (*shader.VertexShader, bool) {
	return r.vertexShaders.AtTry(name)
}

func (r *Renderer) PixelShader(name string) (*shader.PixelShader, bool) {
	return r.pixelShaders.AtTry(name)
}

func (r *Renderer) Scene(name string) (*scene.Scene, bool) {
	return r.scenes.AtTry(name)
}

// PointLight returns the light in slot index, nil if the slot is empty or
// out of range.
func (r *Renderer) PointLight(index int) light.PointLight {
	if index < 0 || index >= gpu.NumLights {
		return nil
	}
	return r.lights[index]
}

func (r *Renderer) NumRenderables() int { return r.renderables.Len() }

func (r *Renderer) NumVertexShaders() int { return r.vertexShaders.Len() }

func (r *Renderer) NumPixelShaders() int { return r.pixelShaders.Len() }

func (r *Renderer) NumScenes() int { return r.scenes.Len() }

func (r *Renderer) MainScene() string { return r.mainScene }

func (r *Renderer) Camera() *camera.Camera { return r.camera }

func (r *Renderer) Projection() mgl32.Mat4 { return r.projection }

// Driver returns the driver type the device was created with.
func (r *Renderer) Driver() gpu.DriverType { return r.driver }

func (r *Renderer) Initialized() bool { return r.initialized }

// LightConstants returns the light data uploaded by the last Render.
func (r *Renderer) LightConstants() gpu.LightConstants { return r.lightConstants }
