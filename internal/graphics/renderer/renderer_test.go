package renderer

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"mini-render/internal/graphics/gpu"
	"mini-render/internal/graphics/gpu/gputest"
	"mini-render/internal/graphics/light"
	"mini-render/internal/graphics/renderable"
	"mini-render/internal/graphics/shader"
	"mini-render/internal/input"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var surface = gputest.Surface{Width: 800, Height: 600}

func newShaders(t *testing.T, r *Renderer) {
	t.Helper()
	require.NoError(t, r.AddVertexShader("vs", shader.NewVertexShaderFromSource("vs", []byte("v"), gpu.SimpleVertexLayout)))
	require.NoError(t, r.AddVertexShader("voxel", shader.NewVertexShaderFromSource("voxel", []byte("i"), gpu.InstancedVertexLayout)))
	require.NoError(t, r.AddPixelShader("ps", shader.NewPixelShaderFromSource("ps", []byte("p"))))
}

// initialized returns a renderer with shaders registered and fn applied
// before Initialize.
func initialized(t *testing.T, fn func(r *Renderer)) (*Renderer, *gputest.Backend) {
	t.Helper()
	b := gputest.NewBackend()
	r := New(b)
	newShaders(t, r)
	if fn != nil {
		fn(r)
	}
	require.NoError(t, r.Initialize(surface))
	t.Cleanup(r.Release)
	return r, b
}

func TestAddDuplicateLeavesCollectionUnchanged(t *testing.T) {
	r := New(gputest.NewBackend())
	first := renderable.NewCube(mgl32.Vec4{1, 0, 0, 1})
	require.NoError(t, r.AddRenderable("cube", first))

	err := r.AddRenderable("cube", renderable.NewCube(mgl32.Vec4{0, 1, 0, 1}))
	assert.ErrorIs(t, err, ErrDuplicateName)
	got, ok := r.Renderable("cube")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, []string{"cube"}, r.RenderableNames())

	vs := shader.NewVertexShaderFromSource("vs", nil, gpu.SimpleVertexLayout)
	require.NoError(t, r.AddVertexShader("vs", vs))
	assert.ErrorIs(t, r.AddVertexShader("vs", shader.NewVertexShaderFromSource("other", nil, nil)), ErrDuplicateName)
	gotVS, _ := r.VertexShader("vs")
	assert.Same(t, vs, gotVS)

	require.NoError(t, r.AddPixelShader("ps", shader.NewPixelShaderFromSource("ps", nil)))
	assert.ErrorIs(t, r.AddPixelShader("ps", shader.NewPixelShaderFromSource("ps", nil)), ErrDuplicateName)

	assert.Equal(t, 1, r.NumRenderables())
	assert.Equal(t, 1, r.NumVertexShaders())
	assert.Equal(t, 1, r.NumPixelShaders())
	assert.Equal(t, 0, r.NumScenes())
}

func TestAddPointLight(t *testing.T) {
	r := New(gputest.NewBackend())
	l := light.NewPoint(mgl32.Vec4{1, 2, 3, 1}, mgl32.Vec4{1, 1, 1, 1})

	assert.ErrorIs(t, r.AddPointLight(-1, l), ErrLightIndex)
	assert.ErrorIs(t, r.AddPointLight(gpu.NumLights, l), ErrLightIndex)
	assert.ErrorIs(t, r.AddPointLight(0, nil), ErrNilLight)
	assert.ErrorIs(t, r.AddPointLight(0, (*light.Point)(nil)), ErrNilLight)
	assert.ErrorIs(t, r.AddPointLight(0, (*light.Rotating)(nil)), ErrNilLight)
	assert.Nil(t, r.PointLight(0))

	require.NoError(t, r.AddPointLight(1, l))
	assert.Same(t, l, r.PointLight(1))
	assert.Nil(t, r.PointLight(5))
}

func TestAddNilIsRejected(t *testing.T) {
	r := New(gputest.NewBackend())

	assert.ErrorIs(t, r.AddRenderable("cube", nil), ErrNilRenderable)
	assert.ErrorIs(t, r.AddRenderable("cube", (*renderable.Object)(nil)), ErrNilRenderable)
	assert.ErrorIs(t, r.AddRenderable("row", (*renderable.Instanced)(nil)), ErrNilRenderable)
	assert.ErrorIs(t, r.AddVertexShader("vs", nil), ErrNilShader)
	assert.ErrorIs(t, r.AddPixelShader("ps", nil), ErrNilShader)

	assert.Zero(t, r.NumRenderables())
	assert.Zero(t, r.NumVertexShaders())
	assert.Zero(t, r.NumPixelShaders())

	// The rejected names stay free.
	require.NoError(t, r.AddRenderable("cube", renderable.NewCube(mgl32.Vec4{})))
}

func TestSetShaderUnknownNamesAreIgnored(t *testing.T) {
	r := New(gputest.NewBackend())
	newShaders(t, r)
	cube := renderable.NewCube(mgl32.Vec4{})
	require.NoError(t, r.AddRenderable("cube", cube))

	assert.NoError(t, r.SetVertexShaderOfRenderable("missing", "vs"))
	assert.NoError(t, r.SetVertexShaderOfRenderable("cube", "missing"))
	assert.NoError(t, r.SetPixelShaderOfRenderable("cube", "missing"))
	assert.NoError(t, r.SetVertexShaderOfScene("missing", "vs"))
	assert.NoError(t, r.SetPixelShaderOfScene("missing", "ps"))
	assert.Nil(t, cube.VertexShader())
	assert.Nil(t, cube.PixelShader())

	require.NoError(t, r.SetVertexShaderOfRenderable("cube", "vs"))
	require.NoError(t, r.SetPixelShaderOfRenderable("cube", "ps"))
	vs, _ := r.VertexShader("vs")
	ps, _ := r.PixelShader("ps")
	assert.Same(t, vs, cube.VertexShader())
	assert.Same(t, ps, cube.PixelShader())
}

func TestInitializeFallsBackToNextDriver(t *testing.T) {
	b := gputest.NewBackend()
	b.FailDrivers[gpu.DriverHardware] = errors.New("no adapter")
	r := New(b)
	require.NoError(t, r.Initialize(surface))
	defer r.Release()

	assert.Equal(t, []gpu.DriverType{gpu.DriverHardware, gpu.DriverWarp}, b.Attempts)
	assert.Equal(t, gpu.DriverWarp, r.Driver())
	assert.True(t, r.Initialized())
}

func TestInitializeFailsWhenNoDriverWorks(t *testing.T) {
	b := gputest.NewBackend()
	errs := make(map[gpu.DriverType]error)
	for _, d := range gpu.DriverPreference {
		errs[d] = errors.New(d.String() + " unavailable")
		b.FailDrivers[d] = errs[d]
	}
	r := New(b)
	err := r.Initialize(surface)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create device")
	for _, e := range errs {
		assert.ErrorIs(t, err, e)
	}
	assert.False(t, r.Initialized())
	assert.Equal(t, gpu.DriverPreference, b.Attempts)

	r.Release()
	r.Render()
}

func TestInitializeNamesFailingStep(t *testing.T) {
	b := gputest.NewBackend()
	b.Device = gputest.NewDevice()
	boom := errors.New("compile failed")
	b.Device.Fail["CreateVertexShader"] = boom

	r := New(b)
	newShaders(t, r)
	err := r.Initialize(surface)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "vertex shader vs")
	assert.False(t, r.Initialized())

	// Resources from earlier steps are freed by Release.
	r.Release()
	assert.True(t, b.SwapChain.Released)
	assert.True(t, b.Device.Released)
	for _, v := range b.Device.Views {
		assert.True(t, v.Released, v.Kind)
	}
}

func TestInitializeOrder(t *testing.T) {
	b := gputest.NewBackend()
	r := New(b)
	newShaders(t, r)
	require.NoError(t, r.AddPixelShader("ps2", shader.NewPixelShaderFromSource("ps2", []byte("q"))))
	cube := renderable.NewCube(mgl32.Vec4{})
	require.NoError(t, r.AddRenderable("cube", cube))
	require.NoError(t, r.Initialize(surface))
	t.Cleanup(r.Release)

	assert.Equal(t, []string{
		"CreateDevice",
		"CreateSwapChain",
		"CreateRenderTargetView",
		"CreateTexture2D",
		"CreateDepthStencilView",
		"CreateVertexShader",
		"CreateVertexShader",
		"CreatePixelShader",
		"CreatePixelShader",
		"CreateBuffer", // camera
		"CreateBuffer", // resize
		"CreateBuffer", // lights
		"CreateBuffer", // cube vertices
		"CreateBuffer", // cube indices
		"CreateBuffer", // cube constants
	}, b.Device.Created)

	require.Len(t, b.Device.Buffers, 6)
	assert.Same(t, b.Device.Buffers[0], r.camera.ConstantBuffer())
	assert.Same(t, b.Device.Buffers[1], r.resizeBuffer)
	assert.Same(t, b.Device.Buffers[2], r.lightsBuffer)
	assert.Same(t, b.Device.Buffers[3], cube.DrawState().VertexBuffer)
	assert.Same(t, b.Device.Buffers[4], cube.DrawState().IndexBuffer)
	assert.Same(t, b.Device.Buffers[5], cube.DrawState().ConstantBuffer)

	assert.Equal(t, []string{
		"SetRenderTargets",
		"SetViewport",
		"SetPrimitiveTopology",
		"UpdateSubresource",
		"UpdateSubresource",
	}, b.Device.Ctx.Ops())
}

func TestInitializeAgainAfterFailure(t *testing.T) {
	b := gputest.NewBackend()
	b.Device = gputest.NewDevice()
	b.Device.Fail["CreateVertexShader"] = errors.New("compile failed")

	r := New(b)
	newShaders(t, r)
	require.Error(t, r.Initialize(surface))
	first := b.SwapChain
	firstViews := append([]*gputest.View(nil), b.Device.Views...)
	require.NotEmpty(t, firstViews)

	delete(b.Device.Fail, "CreateVertexShader")
	require.NoError(t, r.Initialize(surface))
	t.Cleanup(r.Release)

	assert.True(t, r.Initialized())
	assert.True(t, first.Released)
	assert.NotSame(t, first, b.SwapChain)
	assert.False(t, b.SwapChain.Released)
	for _, v := range firstViews {
		assert.True(t, v.Released, v.Kind)
	}
}

func TestInitializeSetsViewportAndProjection(t *testing.T) {
	r, b := initialized(t, nil)
	ctx := b.Device.Ctx

	vp := ctx.Filter("SetViewport")
	require.Len(t, vp, 1)
	assert.Equal(t, gpu.Viewport{Width: 800, Height: 600, MaxDepth: 1}, vp[0].Args[0])
	topo := ctx.Filter("SetPrimitiveTopology")
	require.Len(t, topo, 1)
	assert.Equal(t, gpu.TopologyTriangleList, topo[0].Args[0])

	want := mgl32.Perspective(fovY, 800.0/600.0, nearZ, farZ)
	assert.Equal(t, want, r.Projection())
	assert.Equal(t, gpu.ResizeConstants{Projection: want}.Bytes(), r.resizeBuffer.(*gputest.Buffer).Data)

	depth := b.Device.Textures[len(b.Device.Textures)-1]
	assert.Equal(t, gpu.FormatD24UnormS8Uint, depth.Desc().Format)
}

func TestZeroClientSizeIsClamped(t *testing.T) {
	b := gputest.NewBackend()
	r := New(b)
	require.NoError(t, r.Initialize(gputest.Surface{}))
	defer r.Release()
	assert.Equal(t, 1, b.SwapChain.Width)
	assert.Equal(t, 1, b.SwapChain.Height)
}

func TestRenderBeforeInitializeDoesNothing(t *testing.T) {
	b := gputest.NewBackend()
	r := New(b)
	require.NoError(t, r.AddRenderable("cube", renderable.NewCube(mgl32.Vec4{})))
	r.Render()
	r.Render()
	assert.Nil(t, b.Device)
	assert.True(t, r.loggedNotReady)
}

func TestRenderBindingSequence(t *testing.T) {
	r, b := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddRenderable("cube", renderable.NewCube(mgl32.Vec4{1, 0, 0, 1})))
		require.NoError(t, r.SetVertexShaderOfRenderable("cube", "vs"))
		require.NoError(t, r.SetPixelShaderOfRenderable("cube", "ps"))
	})
	ctx := b.Device.Ctx
	ctx.Reset()
	r.Render()

	assert.Equal(t, []string{
		"ClearRenderTargetView",
		"ClearDepthStencilView",
		"UpdateSubresource",
		"UpdateSubresource",
		"SetVertexBuffers",
		"SetIndexBuffer",
		"SetInputLayout",
		"UpdateSubresource",
		"VSSetShader",
		"VSSetConstantBuffers",
		"VSSetConstantBuffers",
		"VSSetConstantBuffers",
		"VSSetConstantBuffers",
		"PSSetShader",
		"PSSetConstantBuffers",
		"PSSetConstantBuffers",
		"PSSetConstantBuffers",
		"PSSetConstantBuffers",
		"DrawIndexed",
		"Present",
		"SetRenderTargets",
	}, ctx.Ops())

	assert.Equal(t, MidnightBlue, ctx.Calls[0].Args[1])

	cube, _ := r.Renderable("cube")
	want := []gpu.Buffer{r.camera.ConstantBuffer(), r.resizeBuffer, cube.DrawState().ConstantBuffer, r.lightsBuffer}
	for _, op := range []string{"VSSetConstantBuffers", "PSSetConstantBuffers"} {
		calls := ctx.Filter(op)
		require.Len(t, calls, 4)
		for i, c := range calls {
			assert.Equal(t, i, c.Slot, op)
			assert.Equal(t, []gpu.Buffer{want[i]}, c.Args[0], op)
		}
	}

	draw := ctx.Filter("DrawIndexed")[0]
	assert.Equal(t, []any{uint32(36), uint32(0), int32(0)}, draw.Args)
	assert.Equal(t, 1, b.SwapChain.Presents)
	assert.Equal(t, gpu.IndexUint16, ctx.Filter("SetIndexBuffer")[0].Args[1])
}

func TestRenderUploadsObjectConstants(t *testing.T) {
	color := mgl32.Vec4{0, 0.5, 1, 1}
	spin := renderable.NewSpinCube(color)
	r, _ := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddRenderable("spin", spin))
		require.NoError(t, r.SetVertexShaderOfRenderable("spin", "vs"))
		require.NoError(t, r.SetPixelShaderOfRenderable("spin", "ps"))
	})
	r.Update(0.5)
	r.Render()

	cb := spin.DrawState().ConstantBuffer.(*gputest.Buffer)
	assert.Equal(t, gpu.ObjectConstants{World: spin.WorldMatrix(), OutputColor: color}.Bytes(), cb.Data)
	assert.Equal(t, r.camera.Constants().Bytes(), r.camera.ConstantBuffer().(*gputest.Buffer).Data)
}

func TestRenderSkipsRenderableWithoutShaders(t *testing.T) {
	r, b := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddRenderable("bare", renderable.NewCube(mgl32.Vec4{})))
	})
	ctx := b.Device.Ctx
	ctx.Reset()
	r.Render()
	assert.Empty(t, ctx.Filter("DrawIndexed", "DrawIndexedInstanced", "SetVertexBuffers"))
	assert.Len(t, ctx.Filter("Present"), 1)
}

func TestRenderLightsBuffer(t *testing.T) {
	first := light.NewPoint(mgl32.Vec4{1, 2, 3, 1}, mgl32.Vec4{1, 0, 0, 1})
	r, _ := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddPointLight(0, first))
	})
	r.Render()

	lc := r.LightConstants()
	assert.Equal(t, first.Position(), lc.LightPositions[0])
	assert.Equal(t, first.Color(), lc.LightColors[0])
	assert.Equal(t, mgl32.Vec4{}, lc.LightPositions[1])
	assert.Equal(t, lc.Bytes(), r.lightsBuffer.(*gputest.Buffer).Data)

	// A replaced light overwrites its slot on the next frame.
	second := light.NewPoint(mgl32.Vec4{-4, 0, 0, 1}, mgl32.Vec4{0, 0, 1, 1})
	require.NoError(t, r.AddPointLight(0, second))
	rot := light.NewRotating(mgl32.Vec4{0, 0, -5, 1}, mgl32.Vec4{0, 1, 0, 1})
	require.NoError(t, r.AddPointLight(1, rot))
	r.Update(1)
	r.Render()

	lc = r.LightConstants()
	assert.Equal(t, second.Position(), lc.LightPositions[0])
	assert.Equal(t, rot.Position(), lc.LightPositions[1])
	assert.Equal(t, rot.Color(), lc.LightColors[1])
}

func TestRenderInstanced(t *testing.T) {
	offsets := []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {4, 0, 0}}
	cube := renderable.NewInstancedCube(mgl32.Vec4{1, 1, 1, 1}, offsets)
	r, b := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddRenderable("row", cube))
		require.NoError(t, r.SetVertexShaderOfRenderable("row", "voxel"))
		require.NoError(t, r.SetPixelShaderOfRenderable("row", "ps"))
	})
	ctx := b.Device.Ctx
	ctx.Reset()
	r.Render()

	s := cube.DrawState()
	vb := ctx.Filter("SetVertexBuffers")
	require.Len(t, vb, 1)
	assert.Equal(t, []gpu.Buffer{s.VertexBuffer, s.InstanceBuffer}, vb[0].Args[0])
	assert.Equal(t, []uint32{gpu.SimpleVertexSize, gpu.InstanceDataSize}, vb[0].Args[1])

	draws := ctx.Filter("DrawIndexedInstanced")
	require.Len(t, draws, 1)
	assert.Equal(t, []any{uint32(36), uint32(3), uint32(0), int32(0), uint32(0)}, draws[0].Args)
	assert.Empty(t, ctx.Filter("DrawIndexed"))
}

func TestRenderTexturedMeshBindsDiffuse(t *testing.T) {
	cache := renderable.NewTextureCache()
	cache.Put("grass.png", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	g := renderable.CubeGeometry()
	g.Meshes = []renderable.Mesh{
		{IndexCount: 18, MaterialIndex: 0},
		{IndexCount: 18, BaseIndex: 18, MaterialIndex: 1},
	}
	tex := renderable.NewTexture("grass.png", cache)
	g.Materials = []renderable.Material{{Name: "grass", Diffuse: tex}, {Name: "none"}}
	obj := renderable.NewObject(g, mgl32.Vec4{1, 1, 1, 1}, nil)

	r, b := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddRenderable("textured", obj))
		require.NoError(t, r.SetVertexShaderOfRenderable("textured", "vs"))
		require.NoError(t, r.SetPixelShaderOfRenderable("textured", "ps"))
	})
	ctx := b.Device.Ctx
	ctx.Reset()
	r.Render()

	res := ctx.Filter("PSSetShaderResources")
	require.Len(t, res, 1)
	assert.Equal(t, gpu.SlotDiffuse, res[0].Slot)
	assert.Equal(t, []gpu.Texture{tex.Resource()}, res[0].Args[0])
	smp := ctx.Filter("PSSetSamplers")
	require.Len(t, smp, 1)
	assert.Equal(t, []gpu.Sampler{tex.Sampler()}, smp[0].Args[0])

	draws := ctx.Filter("DrawIndexed")
	require.Len(t, draws, 2)
	assert.Equal(t, []any{uint32(18), uint32(0), int32(0)}, draws[0].Args)
	assert.Equal(t, []any{uint32(18), uint32(18), int32(0)}, draws[1].Args)
}

func TestMainSceneDrawnAfterRenderables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"voxels":[
		{"name":"floor","instances":[[0,0,0],[2,0,0]]}
	]}`), 0o644))

	r, b := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddRenderable("cube", renderable.NewCube(mgl32.Vec4{})))
		require.NoError(t, r.SetVertexShaderOfRenderable("cube", "vs"))
		require.NoError(t, r.SetPixelShaderOfRenderable("cube", "ps"))
		require.NoError(t, r.AddScene("demo", path))
		require.NoError(t, r.SetVertexShaderOfScene("demo", "voxel"))
		require.NoError(t, r.SetPixelShaderOfScene("demo", "ps"))
	})
	ctx := b.Device.Ctx

	// Not drawn until selected.
	ctx.Reset()
	r.Render()
	assert.Empty(t, ctx.Filter("DrawIndexedInstanced"))

	r.SetMainScene("demo")
	assert.Equal(t, "demo", r.MainScene())
	ctx.Reset()
	r.Render()
	draws := ctx.Filter("DrawIndexed", "DrawIndexedInstanced")
	require.Len(t, draws, 2)
	assert.Equal(t, "DrawIndexed", draws[0].Op)
	assert.Equal(t, "DrawIndexedInstanced", draws[1].Op)
	assert.Equal(t, uint32(2), draws[1].Args[1])

	assert.ErrorIs(t, r.AddScene("demo", path), ErrDuplicateName)
}

func TestAddSceneMissingFile(t *testing.T) {
	r := New(gputest.NewBackend())
	err := r.AddScene("gone", filepath.Join(t.TempDir(), "gone.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, ok := r.Scene("gone")
	assert.False(t, ok)
}

type recorder struct {
	renderable.Renderable
	name string
	log  *[]string
}

func (r *recorder) Update(float32) { *r.log = append(*r.log, r.name) }

type recordingLight struct {
	light.Point
	log      *[]string
	onUpdate func()
}

func (l *recordingLight) Update(float32) {
	*l.log = append(*l.log, "light")
	if l.onUpdate != nil {
		l.onUpdate()
	}
}

func TestUpdateOrder(t *testing.T) {
	var log []string
	r := New(gputest.NewBackend())
	require.NoError(t, r.AddRenderable("a", &recorder{Renderable: renderable.NewCube(mgl32.Vec4{}), name: "a", log: &log}))
	require.NoError(t, r.AddRenderable("b", &recorder{Renderable: renderable.NewCube(mgl32.Vec4{}), name: "b", log: &log}))
	var eyeAtLight mgl32.Vec3
	require.NoError(t, r.AddPointLight(1, &recordingLight{log: &log, onUpdate: func() {
		eyeAtLight = r.Camera().Eye()
	}}))

	eye := r.Camera().Eye()
	r.HandleInput(input.Directions{Front: true}, input.MouseMovement{}, 1)
	r.Update(1)

	assert.Equal(t, []string{"a", "b", "light"}, log)
	// The camera moves after the lights.
	assert.Equal(t, eye, eyeAtLight)
	assert.NotEqual(t, eye, r.Camera().Eye())
}

func TestAddAfterInitialize(t *testing.T) {
	r, b := initialized(t, nil)
	before := len(b.Device.Buffers)

	cube := renderable.NewCube(mgl32.Vec4{})
	require.NoError(t, r.AddRenderable("late", cube))
	assert.NotNil(t, cube.DrawState().VertexBuffer)
	assert.Len(t, b.Device.Buffers, before+3)

	ps := shader.NewPixelShaderFromSource("late", []byte("p"))
	require.NoError(t, r.AddPixelShader("late", ps))
	assert.NotNil(t, ps.Shader())

	b.Device.Fail["CreateBuffer"] = errors.New("out of memory")
	err := r.AddRenderable("broken", renderable.NewCube(mgl32.Vec4{}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateName)
	_, ok := r.Renderable("broken")
	assert.False(t, ok)

	b.Device.Fail["CreateVertexShader"] = errors.New("compile failed")
	require.Error(t, r.AddVertexShader("late", shader.NewVertexShaderFromSource("late", []byte("v"), gpu.SimpleVertexLayout)))
	_, ok = r.VertexShader("late")
	assert.False(t, ok)

	// A failed add leaves the name free.
	delete(b.Device.Fail, "CreateBuffer")
	delete(b.Device.Fail, "CreateVertexShader")
	require.NoError(t, r.AddRenderable("broken", renderable.NewCube(mgl32.Vec4{})))
	require.NoError(t, r.AddVertexShader("late", shader.NewVertexShaderFromSource("late", []byte("v"), gpu.SimpleVertexLayout)))
	assert.Equal(t, []string{"late", "broken"}, r.RenderableNames())
}

func TestSceneDrawsLogRegisteredName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"voxels":[{"name":"floor","instances":[[0,0,0]]}]}`), 0o644))

	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })

	r, _ := initialized(t, func(r *Renderer) {
		require.NoError(t, r.AddScene("main", path))
	})
	r.SetMainScene("main")
	r.Render()

	assert.Contains(t, buf.String(), "name=main/floor")
	assert.NotContains(t, buf.String(), "name=demo/floor")
}

func TestReleaseFreesEverything(t *testing.T) {
	b := gputest.NewBackend()
	r := New(b)
	newShaders(t, r)
	cube := renderable.NewCube(mgl32.Vec4{})
	require.NoError(t, r.AddRenderable("cube", cube))
	require.NoError(t, r.Initialize(surface))

	r.Release()
	for _, buf := range b.Device.Buffers {
		assert.True(t, buf.Released, "buffer %d", buf.ID)
	}
	for _, s := range b.Device.VertexShaders {
		assert.True(t, s.Released)
	}
	for _, s := range b.Device.PixelShaders {
		assert.True(t, s.Released)
	}
	assert.True(t, b.SwapChain.Released)
	assert.True(t, b.Device.Released)
	assert.False(t, r.Initialized())

	// Second release is harmless.
	r.Release()
}
