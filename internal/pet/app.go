// Package pet implements the desktop pet application: a borderless
// always-on-top window running the animation engine, draggable with
// the mouse and playing spontaneous motions on a timer.
package pet

import (
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/config"
	"github.com/kurisu-dev/parapet/internal/engine"
	"github.com/kurisu-dev/parapet/internal/engine/audio"
	"github.com/kurisu-dev/parapet/internal/engine/debug"
	"github.com/kurisu-dev/parapet/internal/engine/input"
	"github.com/kurisu-dev/parapet/internal/engine/texture"
	"github.com/kurisu-dev/parapet/internal/engine/window"
	"github.com/kurisu-dev/parapet/internal/logger"
)

// Animation advances at a fixed 30 Hz while rendering runs at the
// display rate.
const updateInterval = float32(1.0 / 30.0)

// App is the main pet instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	input    *input.Input
	engine   *engine.Engine
	audio    *audio.Manager
	interact *interaction
	shots    *debug.Capture

	dragging    bool
	dragOffX    int
	dragOffY    int
	captureShot bool
}

// New creates the pet window with its GL context and an engine ready
// to load a model.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing pet",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("model", cfg.Model.Path),
	)

	a := &App{
		cfg: cfg,
	}

	// Create window (this also creates the OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:       "Parapet",
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Borderless:  cfg.Window.Borderless,
		AlwaysOnTop: cfg.Window.AlwaysOnTop,
		Opacity:     cfg.Window.Opacity,
		X:           cfg.Window.PositionX,
		Y:           cfg.Window.PositionY,
		VSync:       cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.engine = engine.New()
	width, height := a.window.GetSize()
	if err := a.engine.InitGL(width, height); err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	a.engine.SetRenderQuality(texture.Quality(cfg.Render.Quality))
	if cfg.Model.Scale > 0 {
		a.engine.Camera().Zoom *= cfg.Model.Scale
	}

	if cfg.Sound.Enabled {
		a.audio = audio.New()
		a.audio.SetVolume(cfg.Sound.Volume)
		if err := a.audio.Init(); err != nil {
			logger.Warn("audio unavailable", zap.Error(err))
			a.audio = nil
		}
	}

	a.input = input.New()
	a.interact = newInteraction(cfg.Interaction)
	a.shots = debug.NewCapture("screenshots", "parapet")

	logger.Info("pet initialized")
	return a, nil
}

// Run loads the model and drives the main loop until quit.
func (a *App) Run() error {
	if err := a.loadModel(); err != nil {
		return err
	}

	a.running = true
	lastTime := time.Now()
	var updateAccum float32
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting pet loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Spontaneous motions
		if a.interact.Tick(dt) {
			group := a.interact.Choose(a.engine.MotionGroups())
			if group != "" && !a.engine.PlayGroup(group) {
				logger.Debug("no motions in group", zap.String("group", group))
			}
		}

		// 3. Advance animation at a fixed rate
		updateAccum += dt
		if updateAccum >= updateInterval {
			a.engine.Update(updateAccum)
			updateAccum = 0
		}

		// 4. Render and present
		a.engine.Render()
		if a.captureShot {
			// Read before the swap; the back buffer is
			// undefined afterwards.
			a.captureShot = false
			a.saveScreenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// loadModel resolves the configured model, falling back to a file
// picker, and surfaces failures in a native dialog.
func (a *App) loadModel() error {
	path := a.cfg.Model.Path
	if path == "" {
		chosen, err := dialog.File().
			Filter("Model definitions", "json").
			Title("Choose a model").
			Load()
		if err != nil {
			return fmt.Errorf("no model selected: %w", err)
		}
		path = chosen
		a.cfg.Model.Path = chosen
	}

	if err := a.engine.LoadModel(path); err != nil {
		dialog.Message("Could not load model %s:\n%v", path, err).
			Title("Model load failed").
			Error()
		return fmt.Errorf("loading model %s: %w", path, err)
	}
	return nil
}

// handleEvents dispatches the frame's input events.
func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.engine.Resize(event.Width, event.Height)

		case input.EventKeyDown:
			// ESC to quit
			if event.Key == 41 { // SDL_SCANCODE_ESCAPE
				a.running = false
			}
			if event.Key == 69 { // SDL_SCANCODE_F12
				a.captureShot = true
			}

		case input.EventMouseDown:
			if event.Button == input.ButtonLeft {
				a.beginDrag()
				a.engine.PlayGroup(a.interact.tapGroup)
				a.playTapSound()
			}

		case input.EventMouseMove:
			if a.dragging {
				gx, gy := input.GlobalMousePosition()
				a.window.SetPosition(gx-a.dragOffX, gy-a.dragOffY)
			}

		case input.EventMouseUp:
			if event.Button == input.ButtonLeft && a.dragging {
				a.endDrag()
				a.engine.PlayGroup(a.interact.idleGroup)
			}

		case input.EventMouseWheel:
			a.engine.Camera().HandleZoom(float32(event.WheelY))
		}
	}
}

// beginDrag records where inside the window the cursor grabbed it.
func (a *App) beginDrag() {
	gx, gy := input.GlobalMousePosition()
	wx, wy := a.window.GetPosition()
	a.dragOffX = gx - wx
	a.dragOffY = gy - wy
	a.dragging = true
	a.interact.BeginDrag()
}

func (a *App) endDrag() {
	a.dragging = false
	a.interact.EndDrag()
}

func (a *App) playTapSound() {
	if a.audio == nil || a.cfg.Sound.TapSound == "" {
		return
	}
	if err := a.audio.PlayFile(a.cfg.Sound.TapSound); err != nil {
		logger.Debug("tap sound failed", zap.Error(err))
	}
}

func (a *App) saveScreenshot() {
	pixels, width, height := a.engine.FramePixels()
	if pixels == nil {
		return
	}
	path, err := a.shots.SavePixels(pixels, width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close persists the window position and releases everything.
func (a *App) Close() {
	logger.Info("closing pet")

	if a.window != nil {
		x, y := a.window.GetPosition()
		a.cfg.Window.PositionX = x
		a.cfg.Window.PositionY = y
		if err := a.cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		}
	}

	if a.audio != nil {
		a.audio.Close()
	}
	if a.engine != nil {
		a.engine.Cleanup()
	}
	if a.window != nil {
		a.window.Close()
	}
}
