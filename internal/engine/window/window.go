// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title       string
	Width       int
	Height      int
	Borderless  bool
	AlwaysOnTop bool
	Opacity     float32
	// X, Y place the window; negative values pick the bottom-right
	// corner of the usable screen area.
	X     int
	Y     int
	VSync bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	// Initialize SDL2
	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	// Double buffering
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	// Alpha channel so the compositor can see through the clear color
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	flags := uint32(sdl.WINDOW_OPENGL)
	if cfg.Borderless {
		flags |= sdl.WINDOW_BORDERLESS
	}
	if cfg.AlwaysOnTop {
		flags |= sdl.WINDOW_ALWAYS_ON_TOP
	}

	x := int32(sdl.WINDOWPOS_CENTERED)
	y := int32(sdl.WINDOWPOS_CENTERED)
	if cfg.X >= 0 && cfg.Y >= 0 {
		x = int32(cfg.X)
		y = int32(cfg.Y)
	} else if bounds, err := sdl.GetDisplayUsableBounds(0); err == nil {
		// Unset position puts the pet in the bottom-right corner.
		x = bounds.X + bounds.W - int32(cfg.Width) - 50
		y = bounds.Y + bounds.H - int32(cfg.Height) - 50
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		x,
		y,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	if cfg.Opacity > 0 && cfg.Opacity < 1 {
		if err := w.sdlWindow.SetWindowOpacity(cfg.Opacity); err != nil {
			logger.Warn("failed to set window opacity", zap.Error(err))
		}
	}

	// Create OpenGL context
	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	// Enable VSync
	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			logger.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("borderless", cfg.Borderless),
		zap.Bool("alwaysOnTop", cfg.AlwaysOnTop),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// GetPosition returns the window's screen position.
func (w *Window) GetPosition() (int, int) {
	x, y := w.sdlWindow.GetPosition()
	return int(x), int(y)
}

// SetPosition moves the window on screen.
func (w *Window) SetPosition(x, y int) {
	w.sdlWindow.SetPosition(int32(x), int32(y))
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
