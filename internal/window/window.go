// Package window owns the GLFW window the demo renders into.
package window

import (
	"fmt"

	"mini-render/internal/config"
	"mini-render/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GL 4.1 core window with a captured cursor. It implements
// gpu.Surface.
type Window struct {
	win *glfw.Window
}

// New creates the window and makes its context current. glfw.Init must have
// been called on this thread. Key and cursor events go to im.
func New(cfg config.WindowConfig, im *input.Manager) (*Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()

	// Hidden, unbounded cursor for relative mouse look.
	win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		win.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
	if im != nil {
		im.SetCallbacks(win)
	}
	return &Window{win: win}, nil
}

// ClientSize returns the framebuffer size in pixels.
func (w *Window) ClientSize() (int, int) { return w.win.GetFramebufferSize() }

// GLFW returns the underlying window.
func (w *Window) GLFW() *glfw.Window { return w.win }

func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// Close asks the frame loop to stop.
func (w *Window) Close() { w.win.SetShouldClose(true) }

func (w *Window) Destroy() { w.win.Destroy() }
