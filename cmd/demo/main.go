package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"mini-render/internal/config"
	"mini-render/internal/game"
	"mini-render/internal/graphics/camera"
	glgpu "mini-render/internal/graphics/gpu/gl"
	"mini-render/internal/graphics/light"
	"mini-render/internal/graphics/renderable"
	"mini-render/internal/graphics/renderer"
	"mini-render/internal/graphics/shader"
	"mini-render/internal/input"
	"mini-render/internal/window"
	"mini-render/pkg/modelfile"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/pflag"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := pflag.StringP("config", "c", "", "TOML or YAML config file")
	logLevel := pflag.String("log-level", "", "overrides render.log_level")
	fpsLimit := pflag.Int("fps", -1, "overrides render.fps_limit (0 = uncapped)")
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("load config", "error", err)
			closer.Exit(1)
		}
	}
	if *logLevel != "" {
		cfg.Render.LogLevel = *logLevel
	}
	if *fpsLimit >= 0 {
		cfg.Render.FPSLimit = *fpsLimit
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		closer.Exit(1)
	}
	level, _ := cfg.LogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	config.SetFPSLimit(cfg.Render.FPSLimit)

	if err := run(cfg); err != nil {
		slog.Error("demo failed", "error", err)
		closer.Exit(1)
	}
	closer.Close()
}

func run(cfg config.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	closer.Bind(glfw.Terminate)

	im := input.NewManager()
	win, err := window.New(cfg.Window, im)
	if err != nil {
		return err
	}
	closer.Bind(win.Destroy)

	cam := camera.NewDefault()
	cam.TravelSpeed = cfg.Camera.TravelSpeed
	cam.Sensitivity = cfg.Camera.MouseSensitivity

	r := renderer.New(glgpu.NewBackend(win.GLFW(), cfg.Window.VSync),
		renderer.WithCamera(cam),
		renderer.WithModelLoader(modelfile.NewLoader(cfg.Assets.ModelDir)))
	closer.Bind(r.Release)

	if err := populate(r, cfg); err != nil {
		return err
	}
	if err := r.Initialize(win); err != nil {
		return err
	}

	game.NewApp(win, r, im).Run()
	return nil
}

// populate registers the shaders, cubes, lights and scene the demo draws.
func populate(r *renderer.Renderer, cfg config.Config) error {
	for name, vs := range shader.DefaultVertexShaders() {
		if path, ok := shaderOverride(cfg.Assets.ShaderDir, name+".vert"); ok {
			vs = shader.NewVertexShader(name, path, vs.Layout())
		}
		if err := r.AddVertexShader(name, vs); err != nil {
			return err
		}
	}
	for name, ps := range shader.DefaultPixelShaders() {
		if path, ok := shaderOverride(cfg.Assets.ShaderDir, name+".frag"); ok {
			ps = shader.NewPixelShader(name, path)
		}
		if err := r.AddPixelShader(name, ps); err != nil {
			return err
		}
	}

	type entry struct {
		name   string
		obj    renderable.Renderable
		vs, ps string
	}
	entries := []entry{
		{"spin", renderable.NewSpinCube(mgl32.Vec4{0.9, 0.3, 0.3, 1}), shader.MainShader, shader.LightShader},
		{"orbit", renderable.NewOrbitCube(mgl32.Vec4{0.3, 0.9, 0.3, 1}), shader.MainShader, shader.LightShader},
		{"center", renderable.NewCenterCube(mgl32.Vec4{1, 1, 0.6, 1}), shader.MainShader, shader.MainShader},
		{"row", renderable.NewInstancedCube(mgl32.Vec4{0.4, 0.4, 0.9, 1}, []mgl32.Vec3{
			{-6, 0, 10}, {-3, 0, 10}, {0, 0, 10}, {3, 0, 10}, {6, 0, 10},
		}), shader.VoxelShader, shader.LightShader},
	}
	if _, err := os.Stat(cfg.Assets.CubeTexture); err == nil {
		entries = append(entries, entry{"textured", renderable.NewTexturedCube(cfg.Assets.CubeTexture, nil), shader.MainShader, shader.TextureShader})
	} else {
		slog.Warn("cube texture not found, skipping textured cube", "path", cfg.Assets.CubeTexture)
	}
	for _, e := range entries {
		if err := r.AddRenderable(e.name, e.obj); err != nil {
			return err
		}
		if err := r.SetVertexShaderOfRenderable(e.name, e.vs); err != nil {
			return err
		}
		if err := r.SetPixelShaderOfRenderable(e.name, e.ps); err != nil {
			return err
		}
	}

	if err := r.AddPointLight(0, light.NewPoint(mgl32.Vec4{-5, 5, -5, 1}, mgl32.Vec4{1, 1, 1, 1})); err != nil {
		return err
	}
	if err := r.AddPointLight(1, light.NewRotating(mgl32.Vec4{0, 2, -8, 1}, mgl32.Vec4{0.6, 0.6, 1, 1})); err != nil {
		return err
	}

	if cfg.Assets.Scene == "" {
		return nil
	}
	const sceneName = "demo"
	if err := r.AddScene(sceneName, cfg.Assets.Scene); err != nil {
		return err
	}
	if err := r.SetVertexShaderOfScene(sceneName, shader.VoxelShader); err != nil {
		return err
	}
	if err := r.SetPixelShaderOfScene(sceneName, shader.LightShader); err != nil {
		return err
	}
	r.SetMainScene(sceneName)
	return nil
}

// shaderOverride returns dir/file when it exists.
func shaderOverride(dir, file string) (string, bool) {
	if dir == "" {
		return "", false
	}
	path := filepath.Join(dir, file)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
