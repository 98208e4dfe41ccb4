// Package input turns GLFW key and cursor events into per-frame movement
// state.
package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// Directions is the set of movement keys held this frame.
type Directions struct {
	Front, Back, Left, Right, Up, Down bool
}

// Any reports whether any direction is held.
func (d Directions) Any() bool {
	return d.Front || d.Back || d.Left || d.Right || d.Up || d.Down
}

// MouseMovement is the cursor delta accumulated since the last reset. Y grows
// upwards.
type MouseMovement struct {
	X, Y float32
}

// Manager maps physical keys to actions and accumulates mouse movement.
// GLFW callbacks and the frame loop may touch it from different goroutines.
type Manager struct {
	mu sync.RWMutex

	// One key can map to multiple actions
	keyToActions map[glfw.Key][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool

	firstCursor  bool
	lastX, lastY float64
	mouse        MouseMovement
}

// NewManager creates a Manager with WASD, Space/LeftShift and Escape bound.
func NewManager() *Manager {
	m := &Manager{
		keyToActions: make(map[glfw.Key][]Action),
		firstCursor:  true,
	}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionMoveUp)
	m.BindKey(glfw.KeyLeftShift, ActionMoveDown)
	m.BindKey(glfw.KeyEscape, ActionQuit)

	return m
}

// BindKey binds a physical key to a logical action
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keyToActions, key)
}

// HandleKeyEvent sets the bound actions on press and repeat and clears them
// on release.
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, exists := m.keyToActions[key]
	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range actions {
		if isPressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		m.currentState[act] = isPressed
	}
}

// HandleCursorPos accumulates the delta from the previous cursor position.
// The first sample only records the position.
func (m *Manager) HandleCursorPos(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.firstCursor {
		m.lastX, m.lastY = x, y
		m.firstCursor = false
		return
	}

	m.mouse.X += float32(x - m.lastX)
	m.mouse.Y += float32(m.lastY - y)
	m.lastX, m.lastY = x, y
}

// SetCallbacks routes the window's key and cursor events to m.
func (m *Manager) SetCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		m.HandleCursorPos(xpos, ypos)
	})
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed since the last
// ResetMouseMovement.
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

// Directions returns the movement keys currently held.
func (m *Manager) Directions() Directions {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Directions{
		Front: m.currentState[ActionMoveForward],
		Back:  m.currentState[ActionMoveBackward],
		Left:  m.currentState[ActionMoveLeft],
		Right: m.currentState[ActionMoveRight],
		Up:    m.currentState[ActionMoveUp],
		Down:  m.currentState[ActionMoveDown],
	}
}

// MouseMovement returns the accumulated cursor delta.
func (m *Manager) MouseMovement() MouseMovement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mouse
}

// ResetMouseMovement ends the frame: the mouse delta and the just-pressed
// flags are cleared. Held keys stay held.
func (m *Manager) ResetMouseMovement() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mouse = MouseMovement{}
	for i := range ActionCount {
		m.justPressed[i] = false
	}
}
