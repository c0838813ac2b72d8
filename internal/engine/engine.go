// Package engine ties the animation core together: parameter store,
// motion playback, physics, and the part renderer, behind one facade
// the host app drives.
package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/assets"
	"github.com/kurisu-dev/parapet/internal/engine/camera"
	"github.com/kurisu-dev/parapet/internal/engine/motion"
	"github.com/kurisu-dev/parapet/internal/engine/param"
	"github.com/kurisu-dev/parapet/internal/engine/physics"
	"github.com/kurisu-dev/parapet/internal/engine/renderer"
	"github.com/kurisu-dev/parapet/internal/engine/scene"
	"github.com/kurisu-dev/parapet/internal/engine/texture"
	"github.com/kurisu-dev/parapet/internal/logger"
)

// IdleGroup is the motion group played after a model loads, matched
// case-insensitively against the model's group names.
const IdleGroup = "Idle"

// Engine owns one model's complete animation state. Not safe for
// concurrent use; every method belongs to the GL thread.
type Engine struct {
	store   *param.Store
	motions *motion.Loader
	player  *motion.Player
	physics *physics.System
	parts   *scene.PartRenderer
	camera  *camera.Camera
	assets  *assets.Loader

	rend *renderer.Renderer
}

// New creates an engine with no model loaded. InitGL must run on the
// GL thread before LoadModel or Render.
func New() *Engine {
	store := param.NewStore()
	motions := motion.NewLoader()
	parts := scene.NewPartRenderer(store)

	player := motion.NewPlayer(store, motions)
	player.SetPartTarget(parts)

	return &Engine{
		store:   store,
		motions: motions,
		player:  player,
		physics: physics.NewSystem(store),
		parts:   parts,
		camera:  camera.New(1, 1),
		assets:  assets.NewLoader(),
	}
}

// InitGL loads OpenGL and prepares the renderer for the given
// drawable size. Requires a current GL context.
func (e *Engine) InitGL(width, height int) error {
	rend, err := renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		return err
	}
	if err := e.parts.Init(); err != nil {
		rend.Close()
		return fmt.Errorf("initializing part renderer: %w", err)
	}
	e.rend = rend
	e.camera.SetViewport(width, height)
	return nil
}

// Resize updates the viewport and camera after a window resize.
func (e *Engine) Resize(width, height int) {
	if e.rend != nil {
		e.rend.Resize(width, height)
	}
	e.camera.SetViewport(width, height)
}

// Camera returns the view transform for host-side adjustments.
func (e *Engine) Camera() *camera.Camera {
	return e.camera
}

// LoadModel finds and loads a model definition, its motions and its
// physics, then starts the idle motion. Any previous model's state
// is dropped first.
func (e *Engine) LoadModel(path string) error {
	model, err := e.assets.Load(path)
	if err != nil {
		return err
	}

	e.player.Reset()
	e.motions.Clear()
	e.physics.Clear()
	e.store.Reset()

	e.store.LoadDefinitions(model.Parameters)
	e.motions.LoadModel(model)

	if model.FileReferences.Physics != "" {
		def, err := e.assets.LoadPhysics(model.FileReferences.Physics)
		if err == nil {
			e.physics.LoadDefinition(def)
		} else {
			logger.Warn("Physics file unusable, using default chain",
				zap.String("file", model.FileReferences.Physics),
				zap.Error(err))
			e.physics.AddChain(physics.DefaultHairChain())
		}
	} else {
		e.physics.AddChain(physics.DefaultHairChain())
	}

	e.parts.LoadModel(model)
	e.playIdle()
	return nil
}

// playIdle starts the first motion of the idle group, or the first
// loaded motion when the model has no such group.
func (e *Engine) playIdle() {
	if e.motions.Count() == 0 {
		return
	}
	for _, group := range e.motions.Groups() {
		if !strings.EqualFold(group, IdleGroup) {
			continue
		}
		if ids := e.motions.Group(group); len(ids) > 0 {
			e.player.Play(ids[0])
			return
		}
	}
	e.player.Play(e.motions.IDs()[0])
}

// Update advances motion playback, then physics, writing both into
// the parameter store.
func (e *Engine) Update(dt float32) {
	e.player.Update(dt)
	e.physics.Update(dt)
}

// Render draws the current frame with the camera transform.
func (e *Engine) Render() {
	if e.rend == nil {
		logger.Warn("Render before InitGL")
		return
	}
	e.rend.Begin()
	e.parts.Render(e.camera.ViewMatrix())
	e.rend.End()
}

// FramePixels reads back the last rendered frame as RGBA bytes,
// bottom row first. Returns nil before InitGL.
func (e *Engine) FramePixels() ([]byte, int, int) {
	if e.rend == nil {
		return nil, 0, 0
	}
	return e.rend.ReadPixels()
}

// PlayMotion starts a motion by id with the motion's own loop and
// fade settings. Returns false for unknown ids.
func (e *Engine) PlayMotion(id string) bool {
	return e.player.Play(id)
}

// PlayMotionWith starts a motion overriding its loop flag and
// fade-in time.
func (e *Engine) PlayMotionWith(id string, loop bool, fadeIn float32) bool {
	return e.player.PlayWith(id, loop, fadeIn)
}

// PlayGroup starts a random motion from a model group. Returns false
// when the group is empty or unknown.
func (e *Engine) PlayGroup(group string) bool {
	ids := e.motions.Group(group)
	if len(ids) == 0 {
		return false
	}
	return e.player.Play(ids[rand.Intn(len(ids))])
}

// PlayingMotion reports the active motion id, if any.
func (e *Engine) PlayingMotion() (string, bool) {
	return e.player.Playing()
}

// Motions returns every loaded motion id.
func (e *Engine) Motions() []string {
	return e.motions.IDs()
}

// MotionGroups returns every motion group name.
func (e *Engine) MotionGroups() []string {
	return e.motions.Groups()
}

// SetParameter writes a parameter value, clamped to its range.
func (e *Engine) SetParameter(id string, value float32) {
	e.store.Set(id, value)
}

// Parameter reads a parameter value, 0 when unknown.
func (e *Engine) Parameter(id string) float32 {
	return e.store.Get(id, 0)
}

// Parameters returns a snapshot of every parameter value.
func (e *Engine) Parameters() map[string]float32 {
	return e.store.All()
}

// ResetParameters restores every parameter to its default.
func (e *Engine) ResetParameters() {
	e.store.Reset()
}

// SetRenderQuality switches texture quality for later loads.
func (e *Engine) SetRenderQuality(q texture.Quality) {
	e.parts.SetQuality(q)
}

// Cleanup releases all GL resources. The engine needs InitGL again
// before rendering.
func (e *Engine) Cleanup() {
	e.player.Stop()
	e.parts.Cleanup()
	if e.rend != nil {
		e.rend.Close()
		e.rend = nil
	}
}
