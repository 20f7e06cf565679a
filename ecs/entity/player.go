package entity

import (
	"fmt"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/prefabs"
)

func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: spec.Start,
		Radius:   playerRadius,
	}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	if len(spec.Route) > 0 {
		route := &component.PlayerRoute{
			Waypoints: append(spec.Route[:0:0], spec.Route...),
			Speed:     spec.Speed,
			Loop:      spec.Loop,
		}
		for _, d := range spec.Drops {
			if d.Waypoint >= len(spec.Route) {
				return 0, fmt.Errorf("player: drop at waypoint %d of %d", d.Waypoint, len(spec.Route))
			}
			if route.Drops == nil {
				route.Drops = make(map[int]string, len(spec.Drops))
			}
			route.Drops[d.Waypoint] = d.Item
		}
		if err := ecs.Add(w, entity, component.PlayerRouteComponent.Kind(), route); err != nil {
			return 0, fmt.Errorf("player: add route: %w", err)
		}
	}

	return entity, nil
}
