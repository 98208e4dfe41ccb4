// Package renderer owns the graphics device and draws every registered
// renderable, the main scene's voxels and the point lights each frame.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"mini-render/internal/graphics/camera"
	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/light"
	"mini-render/internal/graphics/renderable"
	"mini-render/internal/graphics/scene"
	"mini-render/internal/graphics/shader"
	"mini-render/internal/input"
	"mini-render/pkg/modelfile"

	"cogentcore.org/core/base/keylist"
	"github.com/go-gl/mathgl/mgl32"
)

// MidnightBlue is the clear color.
var MidnightBlue = [4]float32{0.098039225, 0.098039225, 0.439215720, 1}

const (
	fovY  = math.Pi / 2
	nearZ = 0.01
	farZ  = 100.0
)

// Renderer orchestrates device setup, per-frame updates and drawing.
// It is not safe for concurrent use.
type Renderer struct {
	backend gpu.Backend

	driver           gpu.DriverType
	device           gpu.Device
	ctx              gpu.Context
	swapChain        gpu.SwapChain
	renderTarget     gpu.RenderTargetView
	depthStencil     gpu.Texture
	depthStencilView gpu.DepthStencilView

	renderables   keylist.List[string, renderable.Renderable]
	vertexShaders keylist.List[string, *shader.VertexShader]
	pixelShaders  keylist.List[string, *shader.PixelShader]
	scenes        keylist.List[string, *scene.Scene]
	lights        [gpu.NumLights]light.PointLight
	mainScene     string

	camera     *camera.Camera
	projection mgl32.Mat4

	resizeBuffer gpu.Buffer
	lightsBuffer gpu.Buffer
	// lightConstants is the last uploaded light data. Slots without a
	// light keep whatever was last written to them.
	lightConstants gpu.LightConstants

	models   *modelfile.Loader
	textures *renderable.TextureCache

	width, height  int
	initialized    bool
	loggedNotReady bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCamera replaces the default camera.
func WithCamera(c *camera.Camera) Option {
	return func(r *Renderer) { r.camera = c }
}

// WithModelLoader sets the loader scene files resolve models through.
func WithModelLoader(l *modelfile.Loader) Option {
	return func(r *Renderer) { r.models = l }
}

// WithTextureCache sets the cache scene textures are decoded into.
func WithTextureCache(c *renderable.TextureCache) Option {
	return func(r *Renderer) { r.textures = c }
}

// New returns a renderer that creates its device through backend.
func New(backend gpu.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend:    backend,
		camera:     camera.NewDefault(),
		projection: mgl32.Ident4(),
		textures:   renderable.DefaultTextureCache,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// initStep wraps an Initialize failure with the step it happened in.
func initStep(step string, err error) error {
	return fmt.Errorf("renderer: initialize: %s: %w", step, err)
}

// Initialize creates the device and every registered resource. The first
// failure is returned; resources created before it are kept and freed by
// Release or by the next Initialize.
func (r *Renderer) Initialize(surface gpu.Surface) error {
	if r.initialized {
		return nil
	}
	if r.device != nil || r.swapChain != nil {
		r.Release()
	}

	// 1. Device and swap chain.
	w, h := surface.ClientSize()
	r.width, r.height = max(w, 1), max(h, 1)
	if err := r.createDevice(); err != nil {
		return initStep("create device", err)
	}
	sc, err := r.backend.CreateSwapChain(r.device, surface, r.width, r.height)
	if err != nil {
		return initStep("create swap chain", err)
	}
	r.swapChain = sc

	// 2. Render target and depth stencil.
	if err := r.createTargets(); err != nil {
		return initStep("create render targets", err)
	}
	r.ctx.SetRenderTargets(r.renderTarget, r.depthStencilView)

	// 3. Viewport and topology.
	r.ctx.SetViewport(gpu.Viewport{
		Width:    float32(r.width),
		Height:   float32(r.height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	r.ctx.SetPrimitiveTopology(gpu.TopologyTriangleList)

	// 4. Projection.
	r.projection = mgl32.Perspective(fovY, float32(r.width)/float32(r.height), nearZ, farZ)

	// 5. Shaders.
	for i, vs := range r.vertexShaders.Values {
		if err := vs.Initialize(r.device); err != nil {
			return initStep("vertex shader "+r.vertexShaders.Keys[i], err)
		}
	}
	for i, ps := range r.pixelShaders.Values {
		if err := ps.Initialize(r.device); err != nil {
			return initStep("pixel shader "+r.pixelShaders.Keys[i], err)
		}
	}

	// 6. Camera.
	if err := r.camera.Initialize(r.device); err != nil {
		return initStep("camera", err)
	}

	// 7. Shared constant buffers.
	if err := r.createSharedBuffers(); err != nil {
		return initStep("constant buffers", err)
	}

	// 8. Renderables, then scenes.
	for i, rd := range r.renderables.Values {
		if err := rd.Initialize(r.device, r.ctx); err != nil {
			return initStep("renderable "+r.renderables.Keys[i], err)
		}
	}
	for i, s := range r.scenes.Values {
		if err := s.Initialize(r.device, r.ctx); err != nil {
			return initStep("scene "+r.scenes.Keys[i], err)
		}
	}

	// 9. Initial camera and projection upload.
	r.ctx.UpdateSubresource(r.camera.ConstantBuffer(), r.camera.Constants().Bytes())
	r.ctx.UpdateSubresource(r.resizeBuffer, gpu.ResizeConstants{Projection: r.projection}.Bytes())

	r.initialized = true
	slog.Debug("renderer initialized",
		"driver", r.driver,
		"width", r.width,
		"height", r.height,
		"renderables", r.renderables.Len(),
		"scenes", r.scenes.Len())
	return nil
}

// createDevice walks gpu.DriverPreference and keeps the first device created.
func (r *Renderer) createDevice() error {
	var errs []error
	for _, driver := range gpu.DriverPreference {
		dev, err := r.backend.CreateDevice(driver)
		if err != nil {
			slog.Debug("device creation failed", "driver", driver, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", driver, err))
			continue
		}
		r.driver, r.device, r.ctx = driver, dev, dev.Context()
		return nil
	}
	return errors.Join(errs...)
}

func (r *Renderer) createTargets() error {
	back, err := r.swapChain.BackBuffer()
	if err != nil {
		return fmt.Errorf("back buffer: %w", err)
	}
	rtv, err := r.device.CreateRenderTargetView(back)
	if err != nil {
		return fmt.Errorf("render target view: %w", err)
	}
	r.renderTarget = rtv

	depth, err := r.device.CreateTexture2D(gpu.TextureDesc{
		Width:     r.width,
		Height:    r.height,
		MipLevels: 1,
		Format:    gpu.FormatD24UnormS8Uint,
		BindFlags: gpu.BindDepthStencil,
	}, nil)
	if err != nil {
		return fmt.Errorf("depth stencil texture: %w", err)
	}
	r.depthStencil = depth

	dsv, err := r.device.CreateDepthStencilView(depth)
	if err != nil {
		return fmt.Errorf("depth stencil view: %w", err)
	}
	r.depthStencilView = dsv
	return nil
}

func (r *Renderer) createSharedBuffers() error {
	resize, err := r.device.CreateBuffer(gpu.BufferDesc{
		ByteWidth: gpu.ResizeConstantsSize,
		Usage:     gpu.UsageDefault,
		BindFlags: gpu.BindConstantBuffer,
	}, gpu.ResizeConstants{Projection: r.projection}.Bytes())
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	r.resizeBuffer = resize

	lights, err := r.device.CreateBuffer(gpu.BufferDesc{
		ByteWidth: gpu.LightConstantsSize,
		Usage:     gpu.UsageDefault,
		BindFlags: gpu.BindConstantBuffer,
	}, r.lightConstants.Bytes())
	if err != nil {
		return fmt.Errorf("lights: %w", err)
	}
	r.lightsBuffer = lights
	return nil
}

// HandleInput forwards the frame's input to the camera.
func (r *Renderer) HandleInput(dirs input.Directions, mouse input.MouseMovement, deltaTime float32) {
	r.camera.HandleInput(dirs, mouse, deltaTime)
}

// Update advances renderables, the main scene, lights and the camera, in
// that order. It only changes CPU-side state.
func (r *Renderer) Update(deltaTime float32) {
	for _, rd := range r.renderables.Values {
		rd.Update(deltaTime)
	}
	if s, ok := r.scenes.AtTry(r.mainScene); ok {
		s.Update(deltaTime)
	}
	for _, l := range r.lights {
		if l != nil {
			l.Update(deltaTime)
		}
	}
	r.camera.Update(deltaTime)
}

// Render draws one frame and presents it. Before a successful Initialize it
// does nothing.
func (r *Renderer) Render() {
	if !r.initialized {
		if !r.loggedNotReady {
			slog.Debug("render skipped", "error", ErrNotInitialized)
			r.loggedNotReady = true
		}
		return
	}

	r.ctx.ClearRenderTargetView(r.renderTarget, MidnightBlue)
	r.ctx.ClearDepthStencilView(r.depthStencilView, 1, 0)

	r.ctx.UpdateSubresource(r.camera.ConstantBuffer(), r.camera.Constants().Bytes())

	for i, l := range r.lights {
		if l == nil {
			continue
		}
		r.lightConstants.LightPositions[i] = l.Position()
		r.lightConstants.LightColors[i] = l.Color()
	}
	r.ctx.UpdateSubresource(r.lightsBuffer, r.lightConstants.Bytes())

	for i, rd := range r.renderables.Values {
		r.draw(r.renderables.Keys[i], rd)
	}
	if s, ok := r.scenes.AtTry(r.mainScene); ok {
		names := s.VoxelNames()
		for i, v := range s.Voxels() {
			r.draw(r.mainScene+"/"+names[i], v)
		}
	}

	r.swapChain.Present()
	r.ctx.SetRenderTargets(r.renderTarget, r.depthStencilView)
}

// draw binds and draws one renderable.
func (r *Renderer) draw(name string, rd renderable.Renderable) {
	vs, ps := rd.VertexShader(), rd.PixelShader()
	if vs == nil || ps == nil || vs.Shader() == nil || ps.Shader() == nil {
		slog.Debug("renderable has no shaders", "name", name)
		return
	}
	s := rd.DrawState()
	if s.VertexBuffer == nil || s.IndexBuffer == nil || s.ConstantBuffer == nil {
		slog.Debug("renderable not initialized", "name", name)
		return
	}

	ctx := r.ctx
	if s.Instanced() {
		ctx.SetVertexBuffers(0,
			[]gpu.Buffer{s.VertexBuffer, s.InstanceBuffer},
			[]uint32{s.VertexStride, s.InstanceStride},
			[]uint32{0, 0})
	} else {
		ctx.SetVertexBuffers(0, []gpu.Buffer{s.VertexBuffer}, []uint32{s.VertexStride}, []uint32{0})
	}
	ctx.SetIndexBuffer(s.IndexBuffer, gpu.IndexUint16, 0)
	ctx.SetInputLayout(vs.InputLayout())

	ctx.UpdateSubresource(s.ConstantBuffer, gpu.ObjectConstants{
		World:       rd.WorldMatrix(),
		OutputColor: s.OutputColor,
	}.Bytes())

	cameraBuffer := r.camera.ConstantBuffer()
	ctx.VSSetShader(vs.Shader())
	ctx.VSSetConstantBuffers(gpu.SlotCamera, cameraBuffer)
	ctx.VSSetConstantBuffers(gpu.SlotResize, r.resizeBuffer)
	ctx.VSSetConstantBuffers(gpu.SlotPerObject, s.ConstantBuffer)
	ctx.VSSetConstantBuffers(gpu.SlotLights, r.lightsBuffer)
	ctx.PSSetShader(ps.Shader())
	ctx.PSSetConstantBuffers(gpu.SlotCamera, cameraBuffer)
	ctx.PSSetConstantBuffers(gpu.SlotResize, r.resizeBuffer)
	ctx.PSSetConstantBuffers(gpu.SlotPerObject, s.ConstantBuffer)
	ctx.PSSetConstantBuffers(gpu.SlotLights, r.lightsBuffer)

	if len(s.Meshes) == 0 {
		r.drawRange(s, s.IndexCount, 0, 0)
		return
	}
	for _, m := range s.Meshes {
		if m.MaterialIndex >= 0 && m.MaterialIndex < len(s.Materials) {
			if tex := s.Materials[m.MaterialIndex].Diffuse; tex != nil && tex.Resource() != nil {
				ctx.PSSetShaderResources(gpu.SlotDiffuse, tex.Resource())
				ctx.PSSetSamplers(gpu.SlotDiffuse, tex.Sampler())
			}
		}
		r.drawRange(s, m.IndexCount, m.BaseIndex, m.BaseVertex)
	}
}

func (r *Renderer) drawRange(s *renderable.DrawState, indexCount, startIndex uint32, baseVertex int32) {
	if s.Instanced() {
		r.ctx.DrawIndexedInstanced(indexCount, s.InstanceCount, startIndex, baseVertex, 0)
		return
	}
	r.ctx.DrawIndexed(indexCount, startIndex, baseVertex)
}

// Release frees everything the renderer and its registered objects hold. It
// is safe after a partial Initialize and may be called more than once.
func (r *Renderer) Release() {
	for _, rd := range r.renderables.Values {
		rd.Release()
	}
	for _, s := range r.scenes.Values {
		s.Release()
	}
	for _, vs := range r.vertexShaders.Values {
		vs.Release()
	}
	for _, ps := range r.pixelShaders.Values {
		ps.Release()
	}
	r.camera.Release()

	gpu.Release(r.lightsBuffer, r.resizeBuffer, r.depthStencilView, r.depthStencil, r.renderTarget)
	r.lightsBuffer, r.resizeBuffer = nil, nil
	r.depthStencilView, r.depthStencil, r.renderTarget = nil, nil, nil

	if r.swapChain != nil {
		r.swapChain.Release()
		r.swapChain = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device, r.ctx = nil, nil
	}
	r.initialized = false
}
