// Package physics simulates mass-spring chains that read one
// parameter and feed their displacement back into another, for
// secondary animation like hair sway.
package physics

import (
	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/engine/param"
	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/pkg/formats"
	"github.com/kurisu-dev/parapet/pkg/math"
)

// Simulation constants.
const (
	AirResistance        float32 = 0.01
	InputForceScale      float32 = 0.1
	OutputScale          float32 = 5.0
	ConstraintIterations         = 3
	MaxTimeStep          float32 = 1.0 / 30

	minSpringSpan float32 = 1e-4
)

// Gravity pulls non-fixed points down, in model units.
var Gravity = math.Vec2{X: 0, Y: -9.8}

// Parameter bindings of the built-in hair chain.
const (
	DefaultInputParameter  = "PARAM_ANGLE_X"
	DefaultOutputParameter = "PARAM_HAIR_FRONT"
)

// Point is one simulated mass.
type Point struct {
	Position     math.Vec2
	PrevPosition math.Vec2
	Velocity     math.Vec2
	Mass         float32
	Fixed        bool
}

// Spring links two points of a chain by index.
type Spring struct {
	A, B       int
	RestLength float32
	Stiffness  float32
}

// Chain is an independent mass-spring group. Each tick it reads its
// input parameter, integrates, and writes its output parameter.
type Chain struct {
	ID      string
	Input   string
	Output  string
	Points  []Point
	Springs []Spring
}

// NewChain creates an empty chain bound to the given parameters.
func NewChain(id, input, output string) *Chain {
	return &Chain{ID: id, Input: input, Output: output}
}

// AddPoint appends a mass point at rest and returns its index.
func (c *Chain) AddPoint(x, y, mass float32, fixed bool) int {
	pos := math.Vec2{X: x, Y: y}
	c.Points = append(c.Points, Point{
		Position:     pos,
		PrevPosition: pos,
		Mass:         mass,
		Fixed:        fixed,
	})
	return len(c.Points) - 1
}

// AddSpring links two points. A rest length of zero or less takes the
// current distance between them.
func (c *Chain) AddSpring(a, b int, restLength, stiffness float32) {
	if restLength <= 0 && a >= 0 && a < len(c.Points) && b >= 0 && b < len(c.Points) {
		restLength = c.Points[a].Position.Distance(c.Points[b].Position)
	}
	c.Springs = append(c.Springs, Spring{A: a, B: b, RestLength: restLength, Stiffness: stiffness})
}

func (c *Chain) applyForces(input, dt float32) {
	inputForce := math.Vec2{X: input * InputForceScale}.Scale(dt)
	for i := range c.Points {
		p := &c.Points[i]
		if p.Fixed {
			continue
		}
		p.Velocity = p.Velocity.Add(Gravity.Scale(p.Mass * dt)).Add(inputForce)
		p.Velocity = p.Velocity.Scale(1 - AirResistance)
	}
}

func (c *Chain) integrate(dt float32) {
	for i := range c.Points {
		p := &c.Points[i]
		if p.Fixed {
			continue
		}
		current := p.Position
		next := p.Position.Scale(2).Sub(p.PrevPosition).Add(p.Velocity.Scale(dt))
		p.PrevPosition = current
		p.Position = next
		p.Velocity = next.Sub(current).Scale(1 / dt)
	}
}

func (c *Chain) relax() {
	for iter := 0; iter < ConstraintIterations; iter++ {
		for _, s := range c.Springs {
			if s.A < 0 || s.A >= len(c.Points) || s.B < 0 || s.B >= len(c.Points) {
				continue
			}
			a := &c.Points[s.A]
			b := &c.Points[s.B]

			delta := b.Position.Sub(a.Position)
			length := delta.Length()
			if length < minSpringSpan {
				continue
			}
			correction := delta.Scale((s.RestLength - length) / length * 0.5 * s.Stiffness)
			if !a.Fixed {
				a.Position = a.Position.Sub(correction)
			}
			if !b.Fixed {
				b.Position = b.Position.Add(correction)
			}
		}
	}
}

// result maps the horizontal displacement of the chain's end point
// relative to its anchor into parameter space.
func (c *Chain) result() float32 {
	if len(c.Points) == 0 {
		return 0
	}
	return (c.Points[len(c.Points)-1].Position.X - c.Points[0].Position.X) * OutputScale
}

// System steps every chain once per tick against one parameter store.
type System struct {
	store  *param.Store
	chains []*Chain
}

// NewSystem creates a physics system writing into store.
func NewSystem(store *param.Store) *System {
	return &System{store: store}
}

// AddChain registers a chain for simulation.
func (s *System) AddChain(chain *Chain) {
	s.chains = append(s.chains, chain)
}

// Chains returns the registered chains.
func (s *System) Chains() []*Chain {
	return s.chains
}

// Clear drops every chain, for model teardown.
func (s *System) Clear() {
	s.chains = nil
}

// LoadDefinition builds chains from a parsed physics document and
// returns how many were added. Settings without an output parameter
// are skipped.
func (s *System) LoadDefinition(def *formats.Physics) int {
	added := 0
	for _, setting := range def.Settings {
		if setting.Output == "" {
			logger.Warn("Skipping physics setting without output parameter",
				zap.String("id", setting.ID))
			continue
		}
		input := setting.Input
		if input == "" {
			input = DefaultInputParameter
		}

		chain := NewChain(setting.ID, input, setting.Output)
		for _, pt := range setting.Points {
			chain.AddPoint(pt.Position[0], pt.Position[1], pt.Mass, pt.Fixed)
		}
		for _, sp := range setting.Springs {
			chain.AddSpring(sp.A, sp.B, sp.Length, sp.Stiffness)
		}
		s.AddChain(chain)
		added++
	}
	logger.Info("Loaded physics definition", zap.Int("chains", added))
	return added
}

// DefaultHairChain builds the fallback chain used when a model ships
// no physics definition: a three point strand anchored at the top.
func DefaultHairChain() *Chain {
	chain := NewChain("hair", DefaultInputParameter, DefaultOutputParameter)
	chain.AddPoint(0, 0, 1, true)
	chain.AddPoint(0, -5, 1, false)
	chain.AddPoint(0, -10, 1, false)
	chain.AddSpring(0, 1, 0, 0.8)
	chain.AddSpring(1, 2, 0, 0.7)
	return chain
}

// Update advances every chain by dt seconds. The step is clamped to
// MaxTimeStep so frame-rate spikes cannot blow up the integration.
func (s *System) Update(dt float32) {
	if dt > MaxTimeStep {
		dt = MaxTimeStep
	}
	if dt <= 0 {
		return
	}
	for _, chain := range s.chains {
		input := s.store.Get(chain.Input, 0)
		chain.applyForces(input, dt)
		chain.integrate(dt)
		chain.relax()
		s.store.Set(chain.Output, chain.result())
	}
}
