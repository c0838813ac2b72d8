// Package motion loads motion documents and plays them back into the
// parameter store, cross-fading when one motion replaces another.
package motion

import (
	"sort"

	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/pkg/formats"
)

// Loader keeps the parsed motions of the current model, indexed by
// motion id and by the group names from the model definition.
type Loader struct {
	motions map[string]*formats.Motion
	groups  map[string][]string
}

// NewLoader creates an empty motion loader.
func NewLoader() *Loader {
	return &Loader{
		motions: make(map[string]*formats.Motion),
		groups:  make(map[string][]string),
	}
}

// Add registers an already parsed motion under its id.
func (l *Loader) Add(m *formats.Motion) {
	l.motions[m.ID] = m
}

// LoadFile parses one motion file and registers it.
func (l *Loader) LoadFile(path string) (*formats.Motion, error) {
	m, err := formats.ParseMotionFile(path)
	if err != nil {
		return nil, err
	}
	l.Add(m)
	return m, nil
}

// LoadModel loads every motion referenced by a model definition and
// returns how many loaded. Files that are missing or malformed are
// skipped so one bad motion does not take the model down.
func (l *Loader) LoadModel(model *formats.Model) int {
	loaded := 0
	for group, refs := range model.FileReferences.Motions {
		for _, ref := range refs {
			m, err := formats.ParseMotionFile(ref.File)
			if err != nil {
				logger.Warn("Skipping motion",
					zap.String("group", group),
					zap.String("file", ref.File),
					zap.Error(err))
				continue
			}
			l.Add(m)
			l.groups[group] = append(l.groups[group], m.ID)
			loaded++
		}
	}
	logger.Info("Loaded motions",
		zap.Int("count", loaded),
		zap.Int("groups", len(l.groups)))
	return loaded
}

// Get returns the motion registered under id.
func (l *Loader) Get(id string) (*formats.Motion, bool) {
	m, ok := l.motions[id]
	return m, ok
}

// Group returns the motion ids loaded under a model group name.
func (l *Loader) Group(name string) []string {
	return l.groups[name]
}

// Groups returns every group name with at least one loaded motion,
// sorted.
func (l *Loader) Groups() []string {
	names := make([]string, 0, len(l.groups))
	for name := range l.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IDs returns every loaded motion id in sorted order.
func (l *Loader) IDs() []string {
	ids := make([]string, 0, len(l.motions))
	for id := range l.motions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of loaded motions.
func (l *Loader) Count() int {
	return len(l.motions)
}

// Clear drops every loaded motion, for model teardown.
func (l *Loader) Clear() {
	l.motions = make(map[string]*formats.Motion)
	l.groups = make(map[string][]string)
}
