// Package viewer is the interactive fly-through window over a built
// session.
package viewer

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"mini-isle/internal/config"
	"mini-isle/internal/game"
	"mini-isle/internal/graphics"
	"mini-isle/internal/graphics/atlas"
	"mini-isle/internal/input"
	"mini-isle/internal/profiling"
)

const (
	flySpeed      = 30.0 // voxels per second
	boostFactor   = 4.0
	slowFrame     = 16 * time.Millisecond
	overlayPixels = 14
)

// Options configures the viewer window.
type Options struct {
	Width, Height int
	TextureDir    string // optional per-material PNG overrides
}

type App struct {
	window       *glfw.Window
	inputManager *input.InputManager
	session      *game.Session
	renderer     *graphics.Renderer

	fpsLimiter *game.FPSLimiter
	lastTime   time.Time

	captured    bool
	firstMouse  bool
	focused     bool
	lastX       float64
	lastY       float64
	showOverlay bool

	stats      graphics.FrameStats
	frames     int
	fps        int
	fpsChecked time.Time
}

// NewApp uploads the session to the GPU. The window's context must be
// current on the calling goroutine.
func NewApp(window *glfw.Window, s *game.Session, opts Options) (*App, error) {
	materials, err := atlas.Load(opts.TextureDir, atlas.DefaultTileSize)
	if err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}
	glyphs, err := atlas.DefaultGlyphs(overlayPixels)
	if err != nil {
		return nil, fmt.Errorf("bake glyphs: %w", err)
	}

	width, height := window.GetFramebufferSize()
	r, err := graphics.NewRenderer(s.World, s.CloudMesh, materials, glyphs, width, height)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	s.Camera.SetViewport(width, height)

	app := &App{
		window:       window,
		inputManager: input.NewInputManager(),
		session:      s,
		renderer:     r,
		fpsLimiter:   game.NewFPSLimiter(),
		lastTime:     time.Now(),
		captured:     true,
		firstMouse:   true,
		focused:      true,
		showOverlay:  true,
		fpsChecked:   time.Now(),
	}
	SetupInputHandlers(app)
	return app, nil
}

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

// Dispose releases GPU resources. The session stays usable.
func (a *App) Dispose() {
	a.renderer.Dispose()
}

func (a *App) tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	dt := startTick.Sub(a.lastTime).Seconds()
	a.lastTime = startTick

	glfw.PollEvents()
	a.update(dt)
	a.render()
	a.window.SwapBuffers()

	if processing := time.Since(startTick); processing > slowFrame {
		log.Printf("Slow frame: %v. Top tasks: %s", processing, profiling.TopN(5))
	}

	a.inputManager.PostUpdate()
	a.fpsLimiter.Wait(!a.focused)
}

func (a *App) update(dt float64) {
	im := a.inputManager
	cam := a.session.Camera

	if im.JustPressed(input.ActionReleaseCursor) {
		a.setCaptured(false)
	}
	if im.JustPressed(input.ActionMouseLeft) && !a.captured {
		a.setCaptured(true)
	}
	if im.JustPressed(input.ActionResetCamera) {
		a.session.ResetCamera()
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		config.ToggleWireframe()
	}
	if im.JustPressed(input.ActionToggleClouds) {
		config.ToggleClouds()
	}
	if im.JustPressed(input.ActionToggleOverlay) {
		a.showOverlay = !a.showOverlay
	}

	speed := float32(flySpeed * dt)
	if im.IsActive(input.ActionBoost) {
		speed *= boostFactor
	}
	var forward, right, up float32
	if im.IsActive(input.ActionMoveForward) {
		forward += speed
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward -= speed
	}
	if im.IsActive(input.ActionMoveRight) {
		right += speed
	}
	if im.IsActive(input.ActionMoveLeft) {
		right -= speed
	}
	if im.IsActive(input.ActionMoveUp) {
		up += speed
	}
	if im.IsActive(input.ActionMoveDown) {
		up -= speed
	}
	cam.Move(forward, right, up)
	cam.FOV = config.GetFOV()

	if n := a.session.Rebuild(); n > 0 {
		log.Printf("rebuilt %d chunk meshes", n)
	}
}

func (a *App) render() {
	a.stats = a.renderer.Render(a.session.Camera)

	a.frames++
	if time.Since(a.fpsChecked) >= time.Second {
		a.fps = a.frames
		a.frames = 0
		a.fpsChecked = time.Now()
	}

	if a.showOverlay {
		p := a.session.Camera.Position
		a.renderer.RenderOverlay([]string{
			fmt.Sprintf("%d fps", a.fps),
			fmt.Sprintf("pos %.1f %.1f %.1f", p.X(), p.Y(), p.Z()),
			fmt.Sprintf("chunks %d drawn, %d culled", a.stats.Visible, a.stats.Culled),
			fmt.Sprintf("vertices %d", a.stats.Vertices),
			fmt.Sprintf("chunks %.1fms", float64(profiling.SumWithPrefix("render.chunks").Microseconds())/1000),
		})
	}
}

func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.renderer.SetViewport(width, height)
	a.session.Camera.SetViewport(width, height)
}

func (a *App) setCaptured(captured bool) {
	a.captured = captured
	if captured {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		a.firstMouse = true
	} else {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}
