// Package game runs the demo's frame loop.
package game

import (
	"log/slog"
	"time"

	"mini-render/internal/input"
	"mini-render/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SlowFrame is the frame time above which a frame is logged with its top
// profiling entries.
const SlowFrame = 16 * time.Millisecond

// Window is the part of the window the loop needs.
type Window interface {
	ShouldClose() bool
	Close()
}

// Renderer is the per-frame surface of renderer.Renderer.
type Renderer interface {
	HandleInput(dirs input.Directions, mouse input.MouseMovement, deltaTime float32)
	Update(deltaTime float32)
	Render()
}

type App struct {
	window   Window
	renderer Renderer
	input    *input.Manager

	fpsLimiter *FPSLimiter
	lastTime   time.Time

	frames           int
	lastFPSCheckTime time.Time

	// Replaced in tests.
	pollEvents func()
	now        func() time.Time
}

func NewApp(window Window, r Renderer, im *input.Manager) *App {
	return &App{
		window:     window,
		renderer:   r,
		input:      im,
		fpsLimiter: NewFPSLimiter(),
		pollEvents: glfw.PollEvents,
		now:        time.Now,
	}
}

// Run ticks until the window should close.
func (a *App) Run() {
	a.lastTime = a.now()
	a.lastFPSCheckTime = a.lastTime
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := a.now()
	dt := float32(start.Sub(a.lastTime).Seconds())
	a.lastTime = start

	a.pollEvents()
	if a.input.IsActive(input.ActionQuit) {
		a.window.Close()
	}

	func() {
		defer profiling.Track("renderer.HandleInput")()
		a.renderer.HandleInput(a.input.Directions(), a.input.MouseMovement(), dt)
	}()
	a.input.ResetMouseMovement()

	func() {
		defer profiling.Track("renderer.Update")()
		a.renderer.Update(dt)
	}()
	func() {
		defer profiling.Track("renderer.Render")()
		a.renderer.Render()
	}()

	end := a.now()
	if d := end.Sub(start); d > SlowFrame {
		slog.Warn("slow frame", "duration", d, "top", profiling.TopN(5))
	}

	a.frames++
	if elapsed := end.Sub(a.lastFPSCheckTime); elapsed >= time.Second {
		slog.Debug("frame rate", "fps", float64(a.frames)/elapsed.Seconds())
		a.frames = 0
		a.lastFPSCheckTime = end
	}

	a.fpsLimiter.Wait()
}
