// Package param holds the parameter store that motion, physics and
// rendering communicate through.
package param

import (
	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/pkg/formats"
	"github.com/kurisu-dev/parapet/pkg/math"
)

// Bounds applied to parameters that are set before being registered.
const (
	DefaultMin   float32 = -100
	DefaultMax   float32 = 100
	DefaultValue float32 = 0
)

type definition struct {
	initial, min, max float32
}

// Store maps parameter ids to values and keeps each parameter's
// registered range. Writes clamp to that range. The store belongs to
// the update loop and does no locking.
type Store struct {
	values map[string]float32
	defs   map[string]definition
}

// NewStore creates an empty parameter store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]float32),
		defs:   make(map[string]definition),
	}
}

// Register declares a parameter with its default value and range and
// resets its current value to the default.
func (s *Store) Register(id string, initial, min, max float32) {
	s.defs[id] = definition{initial: initial, min: min, max: max}
	s.values[id] = math.Clamp(initial, min, max)
}

// Set stores a value, clamped to the parameter's range. Unknown ids
// are registered on the fly with the default range.
func (s *Store) Set(id string, value float32) {
	def, ok := s.defs[id]
	if !ok {
		def = definition{initial: DefaultValue, min: DefaultMin, max: DefaultMax}
		s.defs[id] = def
		logger.Debug("Auto-registered parameter", zap.String("id", id))
	}
	s.values[id] = math.Clamp(value, def.min, def.max)
}

// Get returns the current value, or fallback when the id is unknown.
func (s *Store) Get(id string, fallback float32) float32 {
	if value, ok := s.values[id]; ok {
		return value
	}
	return fallback
}

// All returns a snapshot of every parameter value.
func (s *Store) All() map[string]float32 {
	snapshot := make(map[string]float32, len(s.values))
	for id, value := range s.values {
		snapshot[id] = value
	}
	return snapshot
}

// Reset restores every registered parameter to its default value.
func (s *Store) Reset() {
	for id, def := range s.defs {
		s.values[id] = math.Clamp(def.initial, def.min, def.max)
	}
}

// LoadDefinitions registers every parameter declared by a model.
func (s *Store) LoadDefinitions(defs []formats.ParameterDef) {
	for _, def := range defs {
		s.Register(def.ID, def.Default, def.Min, def.Max)
	}
	logger.Debug("Registered model parameters", zap.Int("count", len(defs)))
}
