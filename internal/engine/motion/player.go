package motion

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/engine/curve"
	"github.com/kurisu-dev/parapet/internal/engine/param"
	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/pkg/formats"
	"github.com/kurisu-dev/parapet/pkg/math"
)

// PartOpacitySetter receives part opacity curve values. The scene
// renderer implements it.
type PartOpacitySetter interface {
	SetPartOpacity(id string, opacity float32)
}

// PlaybackState tracks the motion currently playing.
type PlaybackState struct {
	Motion  *formats.Motion
	Elapsed float32
	Loop    bool
	FadeIn  float32
}

// FadeOutState snapshots a replaced motion while it fades out. Its
// curves keep evaluating from where the motion was interrupted.
type FadeOutState struct {
	Motion       *formats.Motion
	StartElapsed float32
	FadeElapsed  float32
	FadeOut      float32
	Loop         bool
}

// Player advances motion playback each tick and writes the blended
// curve values into the parameter store.
type Player struct {
	store  *param.Store
	loader *Loader
	eval   *curve.Evaluator
	parts  PartOpacitySetter

	active  *PlaybackState
	fadeOut *FadeOutState

	paramAcc *accumulator
	partAcc  *accumulator
	segKeys  map[*formats.Curve][]string
}

// NewPlayer creates a player writing into store, playing motions
// registered with loader.
func NewPlayer(store *param.Store, loader *Loader) *Player {
	return &Player{
		store:    store,
		loader:   loader,
		eval:     curve.NewEvaluator(),
		paramAcc: newAccumulator(),
		partAcc:  newAccumulator(),
		segKeys:  make(map[*formats.Curve][]string),
	}
}

// SetPartTarget sets the receiver for part opacity curves. A nil
// target drops those curves.
func (p *Player) SetPartTarget(parts PartOpacitySetter) {
	p.parts = parts
}

// Play starts a motion with its own loop and fade-in defaults. It
// returns false for an unknown id, leaving playback unchanged.
func (p *Player) Play(id string) bool {
	m, ok := p.loader.Get(id)
	if !ok {
		logger.Warn("Unknown motion", zap.String("id", id))
		return false
	}
	p.play(m, m.Loop, m.FadeIn)
	return true
}

// PlayWith starts a motion overriding its loop flag and fade-in time.
func (p *Player) PlayWith(id string, loop bool, fadeIn float32) bool {
	m, ok := p.loader.Get(id)
	if !ok {
		logger.Warn("Unknown motion", zap.String("id", id))
		return false
	}
	p.play(m, loop, fadeIn)
	return true
}

func (p *Player) play(m *formats.Motion, loop bool, fadeIn float32) {
	if p.active != nil {
		p.fadeOut = &FadeOutState{
			Motion:       p.active.Motion,
			StartElapsed: p.active.Elapsed,
			FadeOut:      p.active.Motion.FadeOut,
			Loop:         p.active.Loop,
		}
	}
	p.active = &PlaybackState{
		Motion: m,
		Loop:   loop,
		FadeIn: fadeIn,
	}
	logger.Info("Playing motion",
		zap.String("id", m.ID),
		zap.Bool("loop", loop),
		zap.Float32("fadeIn", fadeIn))
}

// Playing returns the id of the active motion.
func (p *Player) Playing() (string, bool) {
	if p.active == nil {
		return "", false
	}
	return p.active.Motion.ID, true
}

// Stop ends playback immediately, dropping any fade-out in flight.
// Parameters keep their last written values.
func (p *Player) Stop() {
	p.active = nil
	p.fadeOut = nil
}

// Reset stops playback and drops the cached curve samples, slots and
// segment keys, for when the model is replaced.
func (p *Player) Reset() {
	p.Stop()
	p.eval.Reset()
	p.paramAcc.clear()
	p.partAcc.clear()
	p.segKeys = make(map[*formats.Curve][]string)
}

// blend holds one target's weighted contributions for a single update.
type blend struct {
	weighted float32
	weight   float32
}

// accumulator maps target ids to stable slots so the per-frame blend
// works over arrays instead of rebuilt hash maps. Slots grow the
// first time an id contributes and stay fixed until the model is
// replaced.
type accumulator struct {
	slots map[string]int
	ids   []string
	vals  []blend
}

func newAccumulator() *accumulator {
	return &accumulator{slots: make(map[string]int)}
}

func (a *accumulator) reset() {
	for i := range a.vals {
		a.vals[i] = blend{}
	}
}

func (a *accumulator) add(id string, value, weight float32) {
	slot, ok := a.slots[id]
	if !ok {
		slot = len(a.vals)
		a.slots[id] = slot
		a.ids = append(a.ids, id)
		a.vals = append(a.vals, blend{})
	}
	a.vals[slot].weighted += value * weight
	a.vals[slot].weight += weight
}

func (a *accumulator) clear() {
	a.slots = make(map[string]int)
	a.ids = a.ids[:0]
	a.vals = a.vals[:0]
}

// Update advances the motion clocks by dt and writes the blended
// curve values. When a fade-out is in flight both motions contribute,
// weighted by their fade factors, so shared parameters cross-fade
// instead of popping.
func (p *Player) Update(dt float32) {
	if p.active == nil && p.fadeOut == nil {
		return
	}

	p.paramAcc.reset()
	p.partAcc.reset()

	if p.active != nil {
		s := p.active
		s.Elapsed += dt
		if s.Loop && s.Motion.Duration > 0 && s.Elapsed > s.Motion.Duration {
			s.Elapsed = mod(s.Elapsed, s.Motion.Duration)
		}

		weight := float32(1)
		if s.FadeIn > 0 {
			weight = math.Clamp01(s.Elapsed / s.FadeIn)
		}
		p.accumulate(s.Motion, p.evalTime(s.Motion, s.Elapsed, s.Loop), weight)
	}

	if p.fadeOut != nil {
		f := p.fadeOut
		f.FadeElapsed += dt

		weight := float32(0)
		if f.FadeOut > 0 {
			weight = 1 - math.Clamp01(f.FadeElapsed/f.FadeOut)
		}
		if weight <= 0 {
			p.fadeOut = nil
		} else {
			p.accumulate(f.Motion, p.evalTime(f.Motion, f.StartElapsed+f.FadeElapsed, f.Loop), weight)
		}
	}

	for i, id := range p.paramAcc.ids {
		if b := p.paramAcc.vals[i]; b.weight > 0 {
			p.store.Set(id, b.weighted/b.weight)
		}
	}
	if p.parts != nil {
		for i, id := range p.partAcc.ids {
			if b := p.partAcc.vals[i]; b.weight > 0 {
				p.parts.SetPartOpacity(id, b.weighted/b.weight)
			}
		}
	}
}

// evalTime maps an elapsed clock onto the motion's timeline: looping
// motions wrap, finished non-looping motions hold their last frame.
func (p *Player) evalTime(m *formats.Motion, elapsed float32, loop bool) float32 {
	if m.Duration <= 0 {
		return elapsed
	}
	if loop {
		if elapsed > m.Duration {
			return mod(elapsed, m.Duration)
		}
		return elapsed
	}
	if elapsed > m.Duration {
		return m.Duration
	}
	return elapsed
}

func (p *Player) accumulate(m *formats.Motion, time, weight float32) {
	for ci := range m.Curves {
		c := &m.Curves[ci]

		var target *accumulator
		switch c.Target {
		case formats.TargetParameter:
			target = p.paramAcc
		case formats.TargetPartOpacity:
			if p.parts == nil {
				continue
			}
			target = p.partAcc
		default:
			continue
		}

		target.add(c.ID, p.evaluateCurve(m, c, ci, time), weight)
	}
}

// evaluateCurve returns the value of the first segment that applies
// at the given time, or 0 when none does.
func (p *Player) evaluateCurve(m *formats.Motion, c *formats.Curve, curveIndex int, time float32) float32 {
	keys := p.segmentKeys(m, c, curveIndex)
	for si, seg := range c.Segments {
		if value, ok := p.eval.EvaluateSegment(seg, time, keys[si]); ok {
			return value
		}
	}
	return 0
}

// segmentKeys returns the cache keys for a curve's segments, built
// once per curve. The curve pointer stays stable for the life of its
// parsed motion.
func (p *Player) segmentKeys(m *formats.Motion, c *formats.Curve, curveIndex int) []string {
	if keys, ok := p.segKeys[c]; ok {
		return keys
	}
	keys := make([]string, len(c.Segments))
	for si := range keys {
		keys[si] = fmt.Sprintf("%s/%d/%d", m.ID, curveIndex, si)
	}
	p.segKeys[c] = keys
	return keys
}

func mod(x, y float32) float32 {
	return float32(gomath.Mod(float64(x), float64(y)))
}
