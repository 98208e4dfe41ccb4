package config

import "sync"

// RenderSettings holds the settings the frame loop reads while running.
type RenderSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 means uncapped
}

// MaxFPSLimit is the highest accepted frame cap.
const MaxFPSLimit = 1000

var globalRenderSettings = &RenderSettings{
	fpsLimit: 0,
}

// GetFPSLimit returns the current frame cap, 0 when uncapped.
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values mean uncapped.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > MaxFPSLimit {
		limit = MaxFPSLimit
	}

	globalRenderSettings.fpsLimit = limit
}
