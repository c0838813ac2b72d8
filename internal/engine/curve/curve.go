// Package curve evaluates motion curve segments, sampling cubic
// beziers through a per-segment lookup cache.
package curve

import (
	"github.com/kurisu-dev/parapet/pkg/formats"
	"github.com/kurisu-dev/parapet/pkg/math"
)

// Precision is the number of sample intervals per cached bezier.
const Precision = 200

// Bezier evaluates a cubic bezier through the Bernstein blend at
// t in [0, 1].
func Bezier(p0, p1, p2, p3, t float32) float32 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

type sample struct {
	t, value float32
}

// Cache holds precomputed bezier samples keyed by segment id. Motion
// evaluation hits the same segments every frame, so each bezier is
// sampled once and then looked up by binary search.
type Cache struct {
	curves map[string][]sample
}

// NewCache creates an empty bezier sample cache.
func NewCache() *Cache {
	return &Cache{
		curves: make(map[string][]sample),
	}
}

// Add samples the cubic with control points p0..p3 and stores the
// table under id, replacing any previous table.
func (c *Cache) Add(id string, p0, p1, p2, p3 float32) {
	samples := make([]sample, Precision+1)
	for i := 0; i <= Precision; i++ {
		t := float32(i) / Precision
		samples[i] = sample{t: t, value: Bezier(p0, p1, p2, p3, t)}
	}
	c.curves[id] = samples
}

// Contains reports whether a table is cached under id.
func (c *Cache) Contains(id string) bool {
	_, ok := c.curves[id]
	return ok
}

// Evaluate looks up the cached table for id and returns the value at
// t. Values of t outside [0, 1] clamp to the boundary samples. The
// second return is false when no table exists for id.
func (c *Cache) Evaluate(id string, t float32) (float32, bool) {
	samples, ok := c.curves[id]
	if !ok {
		return 0, false
	}
	if t <= samples[0].t {
		return samples[0].value, true
	}
	if t >= samples[len(samples)-1].t {
		return samples[len(samples)-1].value, true
	}

	lo, hi := 0, len(samples)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case samples[mid].t < t:
			lo = mid + 1
		case samples[mid].t > t:
			hi = mid - 1
		default:
			return samples[mid].value, true
		}
	}

	// lo now indexes the first sample past t.
	a, b := samples[lo-1], samples[lo]
	span := b.t - a.t
	if span <= 0 {
		return a.value, true
	}
	return math.Lerp(a.value, b.value, (t-a.t)/span), true
}

// Clear drops every cached table.
func (c *Cache) Clear() {
	c.curves = make(map[string][]sample)
}

// Evaluator evaluates decoded curve segments against a motion clock.
// It owns its bezier cache, so evaluators for different models never
// share state.
type Evaluator struct {
	cache *Cache
}

// NewEvaluator creates an evaluator with a fresh cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{cache: NewCache()}
}

// EvaluateSegment returns the segment's value at the given time. The
// second return is false when the segment does not apply at that
// time: a linear segment holds its value for times up to T0, a bezier
// segment covers [T0, T3]. Bezier segments are sampled into the cache
// under segmentID on first use.
func (e *Evaluator) EvaluateSegment(seg formats.Segment, time float32, segmentID string) (float32, bool) {
	switch seg.Kind {
	case formats.SegmentLinear:
		if time <= seg.T0 {
			return seg.V0, true
		}
		return 0, false
	case formats.SegmentBezier:
		if time < seg.T0 || time > seg.T3 {
			return 0, false
		}
		span := seg.T3 - seg.T0
		var t float32
		if span > 0 {
			t = (time - seg.T0) / span
		}
		if !e.cache.Contains(segmentID) {
			e.cache.Add(segmentID, seg.V0, seg.V1, seg.V2, seg.V3)
		}
		return e.cache.Evaluate(segmentID, t)
	}
	return 0, false
}

// Reset drops all cached bezier tables, for when a model is replaced.
func (e *Evaluator) Reset() {
	e.cache.Clear()
}
