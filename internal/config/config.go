package config

import "sync"

// RenderSettings holds viewer configuration that may change while running.
type RenderSettings struct {
	mu          sync.RWMutex
	fov         float32 // vertical, degrees
	fpsLimit    int
	cloudsShown bool
	wireframe   bool
}

var globalRenderSettings = &RenderSettings{
	fov:         70,
	fpsLimit:    120,
	cloudsShown: true,
}

// GetFOV returns the vertical field of view in degrees
func GetFOV() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fov
}

// SetFOV sets the vertical field of view in degrees
func SetFOV(fov float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if fov < 30 {
		fov = 30
	}
	if fov > 110 {
		fov = 110
	}

	globalRenderSettings.fov = fov
}

// GetFPSLimit returns the frame cap; 0 means uncapped
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values disable the cap.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetCloudsShown reports whether the cloud layer is drawn
func GetCloudsShown() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.cloudsShown
}

// ToggleClouds flips cloud drawing and returns the new state
func ToggleClouds() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.cloudsShown = !globalRenderSettings.cloudsShown
	return globalRenderSettings.cloudsShown
}

// GetWireframe reports whether chunks are drawn as lines
func GetWireframe() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframe
}

// ToggleWireframe flips wireframe mode and returns the new state
func ToggleWireframe() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = !globalRenderSettings.wireframe
	return globalRenderSettings.wireframe
}
