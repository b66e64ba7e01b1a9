package viewer

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"mini-isle/internal/config"
)

const mouseSensitivity = 0.1

func SetupInputHandlers(app *App) {
	window := app.window
	im := app.inputManager

	// Mouse look while the cursor is captured
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !app.captured {
			return
		}
		if app.firstMouse {
			app.lastX, app.lastY = xpos, ypos
			app.firstMouse = false
			return
		}
		dx := float32(xpos - app.lastX)
		dy := float32(app.lastY - ypos)
		app.lastX, app.lastY = xpos, ypos
		app.session.Camera.Rotate(dx*mouseSensitivity, dy*mouseSensitivity)
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})

	// Scroll zooms by narrowing the field of view
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		config.SetFOV(config.GetFOV() - float32(yoff)*2)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		app.resize(fbWidth, fbHeight)
	})

	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		app.focused = focused
		if !focused {
			app.setCaptured(false)
		}
	})

	window.SetRefreshCallback(func(w *glfw.Window) {
		app.render()
		app.window.SwapBuffers()
	})
}
