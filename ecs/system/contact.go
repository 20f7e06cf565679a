package system

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/logging"
)

// ContactSystem reports player overlaps to NPCs. Contact is reported every
// tick the two overlap, so a touch that began during the fast run phase
// still catches the NPC once it tires.
type ContactSystem struct {
	logger *zap.Logger
}

func NewContactSystem(logger *zap.Logger) *ContactSystem {
	logger = logging.OrNop(logger)
	return &ContactSystem{logger: logger}
}

func (s *ContactSystem) Update(w *ecs.World) {
	player, ok := playerPosition(w)
	if !ok {
		return
	}
	playerBB := bounds(player)

	ecs.ForEach2(w, component.NPCComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, n *component.NPC, t *component.Transform) {
		if n.Machine == nil || ecs.Has(w, e, component.HiddenComponent.Kind()) {
			return
		}
		touching := overlaps(playerBB, player, t)
		if touching && !n.Touching {
			s.logger.Debug("player touched npc", zap.String("npc", n.Machine.Name()))
		}
		n.Touching = touching
		if !touching {
			return
		}
		if n.Machine.PlayerContact() {
			w.Events().Push(ecs.Event{Type: ecs.EventCapture, Entity: e, Data: n.Machine.Name()})
		}
	})
}

func bounds(t *component.Transform) cp.BB {
	return cp.NewBBForCircle(t.Position, t.Radius)
}

// overlaps is a cheap box test followed by the exact circle test.
func overlaps(aBB cp.BB, a, b *component.Transform) bool {
	if !aBB.Intersects(bounds(b)) {
		return false
	}
	r := a.Radius + b.Radius
	return a.Position.DistanceSq(b.Position) <= r*r
}
