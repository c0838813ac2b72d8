package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Physics format errors.
var (
	ErrInvalidPhysicsDocument = errors.New("invalid physics document")
	ErrBadSpringIndex         = errors.New("spring references missing point")
)

// Physics is a parsed physics definition document.
type Physics struct {
	Version  int              `json:"Version"`
	Settings []PhysicsSetting `json:"Settings"`
}

// PhysicsSetting describes one simulated chain: the parameter it
// reads, the parameter it drives, and its points and springs.
type PhysicsSetting struct {
	ID      string          `json:"Id"`
	Input   string          `json:"Input"`
	Output  string          `json:"Output"`
	Points  []PhysicsPoint  `json:"Points"`
	Springs []PhysicsSpring `json:"Springs"`
}

// PhysicsPoint is one mass point of a chain. Mass defaults to 1.
type PhysicsPoint struct {
	Position [2]float32 `json:"Position"`
	Mass     float32    `json:"Mass"`
	Fixed    bool       `json:"Fixed"`
}

func (p *PhysicsPoint) UnmarshalJSON(data []byte) error {
	type alias PhysicsPoint
	a := alias{Mass: 1}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PhysicsPoint(a)
	return nil
}

// PhysicsSpring connects points A and B by index. A Length of 0 means
// the rest length is taken from the initial point distance. Stiffness
// defaults to 1.
type PhysicsSpring struct {
	A         int     `json:"A"`
	B         int     `json:"B"`
	Length    float32 `json:"Length"`
	Stiffness float32 `json:"Stiffness"`
}

func (s *PhysicsSpring) UnmarshalJSON(data []byte) error {
	type alias PhysicsSpring
	a := alias{Stiffness: 1}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = PhysicsSpring(a)
	return nil
}

// ParsePhysics parses a physics definition document and checks that
// every spring references points that exist.
func ParsePhysics(data []byte) (*Physics, error) {
	var doc Physics
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhysicsDocument, err)
	}
	for i, setting := range doc.Settings {
		for j, spring := range setting.Springs {
			if spring.A < 0 || spring.A >= len(setting.Points) ||
				spring.B < 0 || spring.B >= len(setting.Points) {
				return nil, fmt.Errorf("%w: setting %d (%s) spring %d", ErrBadSpringIndex, i, setting.ID, j)
			}
		}
	}
	return &doc, nil
}

// ParsePhysicsFile reads and parses a physics definition from disk.
func ParsePhysicsFile(path string) (*Physics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading physics file: %w", err)
	}
	return ParsePhysics(data)
}
