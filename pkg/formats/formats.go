// Package formats provides parsers for the model, motion and physics
// definition documents.
package formats

// Definition file suffixes.
const (
	ModelSuffix   = ".model3.json"
	MotionSuffix  = ".motion3.json"
	PhysicsSuffix = ".physics3.json"
)
