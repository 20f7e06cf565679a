package system

import (
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
)

// NavigationSystem advances grid agents and mirrors their positions into
// transforms.
type NavigationSystem struct {
	dt float64
}

func NewNavigationSystem(dt float64) *NavigationSystem {
	return &NavigationSystem{dt: dt}
}

func (s *NavigationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.NavAgent, t *component.Transform) {
		if nav.Agent == nil || ecs.Has(w, e, component.HiddenComponent.Kind()) {
			return
		}
		nav.Agent.Advance(s.dt)
		t.Position = nav.Agent.Position()
	})
}
