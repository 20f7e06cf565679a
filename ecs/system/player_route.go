package system

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/common"
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/logging"
)

// DropDistance is how far behind the player a scripted drop lands, outside
// pickup reach so the item is not collected again straight away.
const DropDistance = 3.0

// Blocker pauses the player while it reports Active, e.g. during dialogue.
type Blocker interface {
	Active() bool
}

// ItemDropper discards an item from the player inventory into the world.
// *inventory.Inventory implements it.
type ItemDropper interface {
	DropItem(id string, at cp.Vector) bool
}

// PlayerRouteSystem walks the scripted player along its waypoints.
type PlayerRouteSystem struct {
	dt      float64
	blocker Blocker
	dropper ItemDropper
	logger  *zap.Logger
}

func NewPlayerRouteSystem(dt float64, blocker Blocker, dropper ItemDropper, logger *zap.Logger) *PlayerRouteSystem {
	return &PlayerRouteSystem{dt: dt, blocker: blocker, dropper: dropper, logger: logging.OrNop(logger)}
}

func (s *PlayerRouteSystem) Update(w *ecs.World) {
	if s.blocker != nil && s.blocker.Active() {
		return
	}
	ecs.ForEach2(w, component.PlayerRouteComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, route *component.PlayerRoute, t *component.Transform) {
		if route.Done || len(route.Waypoints) == 0 || route.Speed <= 0 {
			return
		}

		budget := route.Speed * s.dt
		for budget > 0 && !route.Done {
			target := route.Waypoints[route.Next]
			dist := t.Position.Distance(target)
			dir, _ := common.Direction(t.Position, target)
			if dist > budget {
				t.Position = t.Position.Add(dir.Mult(budget))
				return
			}
			t.Position = target
			budget -= dist
			s.drop(route, route.Next, target.Sub(dir.Mult(DropDistance)))
			route.Next++
			if route.Next >= len(route.Waypoints) {
				route.Next = 0
				route.Done = !route.Loop
			}
			if dist < common.Epsilon && route.Next == 0 {
				// A single-point loop would spin forever.
				return
			}
		}
	})
}

func (s *PlayerRouteSystem) drop(route *component.PlayerRoute, waypoint int, at cp.Vector) {
	item, ok := route.Drops[waypoint]
	if !ok || s.dropper == nil {
		return
	}
	if !s.dropper.DropItem(item, at) {
		s.logger.Debug("nothing to drop", zap.String("item", item), zap.Int("waypoint", waypoint))
		return
	}
	s.logger.Info("player dropped item", zap.String("item", item), zap.Float64("x", at.X), zap.Float64("y", at.Y))
}
