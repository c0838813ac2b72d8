package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Model format errors.
var (
	ErrInvalidModelDocument = errors.New("invalid model document")
	ErrNoParts              = errors.New("model has no parts")
	ErrMissingPartID        = errors.New("model part missing id")
)

// Model is a parsed model definition document. It names the texture,
// physics and motion files belonging to the model and carries the
// drawable parts and parameter ranges.
type Model struct {
	Version        int
	FileReferences FileReferences
	Parameters     []ParameterDef
	Parts          []Part
}

// FileReferences lists the companion files of a model. Paths are as
// written in the document, relative to the model directory.
type FileReferences struct {
	Moc      string               `json:"Moc"`
	Textures []string             `json:"Textures"`
	Physics  string               `json:"Physics"`
	Motions  map[string][]MotionRef `json:"Motions"`
}

// MotionRef points at a motion file within a motion group. Documents
// write either a bare path string or an object with a File key.
type MotionRef struct {
	File string `json:"File"`
}

func (m *MotionRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.File = s
		return nil
	}
	type alias MotionRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = MotionRef(a)
	return nil
}

// ParameterDef declares a parameter with its valid range and default
// value. Range bounds fall back to [-100, 100] and the default to 0
// when the document omits them.
type ParameterDef struct {
	ID      string  `json:"Id"`
	Default float32 `json:"Default"`
	Min     float32 `json:"Min"`
	Max     float32 `json:"Max"`
}

func (p *ParameterDef) UnmarshalJSON(data []byte) error {
	type alias ParameterDef
	a := alias{Min: -100, Max: 100}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = ParameterDef(a)
	return nil
}

// Part is one drawable element of a model. Vertices are interleaved
// x, y, z, u, v records; an empty slice means the renderer supplies a
// unit quad. Opacity defaults to 1 and Visible to true.
type Part struct {
	ID          string     `json:"Id"`
	Name        string     `json:"Name"`
	TexturePath string     `json:"TexturePath"`
	Depth       int        `json:"Depth"`
	Opacity     float32    `json:"Opacity"`
	Visible     bool       `json:"Visible"`
	Vertices    []float32  `json:"Vertices"`
	Indices     []uint32   `json:"Indices"`
	Deformers   []Deformer `json:"Deformers"`
}

func (p *Part) UnmarshalJSON(data []byte) error {
	type alias Part
	a := alias{Opacity: 1, Visible: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Part(a)
	return nil
}

// Deformer binds a part property to a parameter. Unlike the rest of
// the document its keys are lowercase.
type Deformer struct {
	Parameter string  `json:"parameter"`
	Kind      string  `json:"type"`
	Scale     float32 `json:"scale"`
}

// Deformer kinds.
const (
	DeformKindOpacity = "opacity"
)

// ParseModel parses a model definition document. The Parameters block
// may be a bare list or wrapped in an object under a Parameters key;
// both forms yield the same result. A missing Version reads as 3.
func ParseModel(data []byte) (*Model, error) {
	var doc struct {
		Version        int             `json:"Version"`
		FileReferences FileReferences  `json:"FileReferences"`
		Parameters     json.RawMessage `json:"Parameters"`
		Parts          []Part          `json:"Parts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelDocument, err)
	}

	model := &Model{
		Version:        doc.Version,
		FileReferences: doc.FileReferences,
		Parts:          doc.Parts,
	}
	if model.Version == 0 {
		model.Version = 3
	}

	params, err := parseParameterBlock(doc.Parameters)
	if err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrInvalidModelDocument, err)
	}
	model.Parameters = params

	if len(model.Parts) == 0 {
		return nil, ErrNoParts
	}
	for i, part := range model.Parts {
		if part.ID == "" {
			return nil, fmt.Errorf("%w: part %d", ErrMissingPartID, i)
		}
	}

	return model, nil
}

// parseParameterBlock accepts either a list of parameter definitions
// or an object wrapping the list under a Parameters key.
func parseParameterBlock(raw json.RawMessage) ([]ParameterDef, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []ParameterDef
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Parameters []ParameterDef `json:"Parameters"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Parameters, nil
}

// ParseModelFile reads and parses a model definition from disk.
func ParseModelFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return ParseModel(data)
}
