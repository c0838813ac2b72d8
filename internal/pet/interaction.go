package pet

import (
	"math/rand"
	"strings"

	"github.com/kurisu-dev/parapet/internal/config"
)

// interaction schedules the pet's spontaneous motions. Each period
// it asks for a motion group to play, jittering the period by ±30%
// so the pet does not feel mechanical.
type interaction struct {
	enabled   bool
	base      float32
	tapGroup  string
	idleGroup string

	dragging bool
	elapsed  float32
	next     float32
}

func newInteraction(cfg config.InteractionConfig) *interaction {
	im := &interaction{
		enabled:   cfg.Enabled,
		base:      float32(cfg.Frequency),
		tapGroup:  cfg.TapGroup,
		idleGroup: cfg.IdleGroup,
	}
	im.next = im.randomDelay()
	return im
}

// randomDelay picks the next waiting period, uniform in ±30% of the
// configured base.
func (im *interaction) randomDelay() float32 {
	if im.base <= 0 {
		return 0
	}
	variation := im.base * 0.3
	return im.base - variation + rand.Float32()*2*variation
}

// Tick advances the timer and reports whether a spontaneous motion
// is due. The timer keeps running during a drag, so a held-back
// interaction fires right after the drag ends.
func (im *interaction) Tick(dt float32) bool {
	if !im.enabled || im.base <= 0 {
		return false
	}
	im.elapsed += dt
	if im.dragging || im.elapsed < im.next {
		return false
	}
	im.elapsed = 0
	im.next = im.randomDelay()
	return true
}

// Choose picks the group for a spontaneous motion: usually the idle
// group, sometimes any other group the model offers.
func (im *interaction) Choose(groups []string) string {
	others := make([]string, 0, len(groups))
	for _, g := range groups {
		if !strings.EqualFold(g, im.idleGroup) {
			others = append(others, g)
		}
	}
	if len(others) > 0 && rand.Float32() < 0.3 {
		return others[rand.Intn(len(others))]
	}
	return im.idleGroup
}

func (im *interaction) BeginDrag() {
	im.dragging = true
}

func (im *interaction) EndDrag() {
	im.dragging = false
}
