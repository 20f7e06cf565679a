package system

import (
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
)

// BarkSystem expires bark lines.
type BarkSystem struct {
	dt float64
}

func NewBarkSystem(dt float64) *BarkSystem {
	return &BarkSystem{dt: dt}
}

func (s *BarkSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.BarkComponent.Kind(), func(e ecs.Entity, b *component.Bark) {
		b.Remaining -= s.dt
		if b.Remaining <= 0 {
			_ = ecs.Remove(w, e, component.BarkComponent.Kind())
		}
	})
}
