// Package assets locates model definitions on disk and loads them
// with their resource paths resolved.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/pkg/formats"
)

// ErrModelNotFound is returned when no definition file can be located
// for a requested path.
var ErrModelNotFound = errors.New("model definition not found")

// Loader resolves model paths to parsed definitions. Results are
// cached by the requested path, so repeated loads of the same model
// return the same definition.
type Loader struct {
	cache map[string]*formats.Model
	mu    sync.RWMutex
}

// NewLoader creates a new model loader.
func NewLoader() *Loader {
	return &Loader{
		cache: make(map[string]*formats.Model),
	}
}

// Load accepts a definition file path, a model directory, or a path
// to any file inside a model directory, and returns the parsed
// definition with every relative resource reference resolved against
// the definition file's directory.
func (l *Loader) Load(path string) (*formats.Model, error) {
	l.mu.RLock()
	cached, ok := l.cache[path]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	file, dir, err := locateDefinition(path)
	if err != nil {
		return nil, err
	}

	model, err := formats.ParseModelFile(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	resolvePaths(model, dir)

	l.mu.Lock()
	l.cache[path] = model
	l.mu.Unlock()

	logger.Info("Loaded model definition",
		zap.String("file", file),
		zap.Int("parts", len(model.Parts)),
		zap.Int("parameters", len(model.Parameters)))
	return model, nil
}

// LoadPhysics loads the physics definition referenced by a model.
func (l *Loader) LoadPhysics(path string) (*formats.Physics, error) {
	return formats.ParsePhysicsFile(path)
}

// locateDefinition maps a requested path to the definition file and
// the model directory. Directories are searched for model3.json
// first, then for a file named after the directory itself.
func locateDefinition(path string) (file, dir string, err error) {
	switch {
	case strings.HasSuffix(path, formats.ModelSuffix):
		file = path
		dir = filepath.Dir(path)
	case isDir(path):
		dir = path
		file = filepath.Join(dir, "model3.json")
	default:
		dir = filepath.Dir(path)
		file = filepath.Join(dir, "model3.json")
	}

	if !fileExists(file) {
		file = filepath.Join(dir, filepath.Base(dir)+formats.ModelSuffix)
	}
	if !fileExists(file) {
		return "", "", fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}
	return file, dir, nil
}

// resolvePaths rewrites relative resource references to absolute
// paths under the model directory.
func resolvePaths(model *formats.Model, dir string) {
	refs := &model.FileReferences
	refs.Moc = resolve(dir, refs.Moc)
	for i, texture := range refs.Textures {
		refs.Textures[i] = resolve(dir, texture)
	}
	refs.Physics = resolve(dir, refs.Physics)
	for _, motions := range refs.Motions {
		for i := range motions {
			motions[i].File = resolve(dir, motions[i].File)
		}
	}
	for i := range model.Parts {
		model.Parts[i].TexturePath = resolve(dir, model.Parts[i].TexturePath)
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
