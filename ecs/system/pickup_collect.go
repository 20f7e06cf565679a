package system

import (
	"errors"

	"go.uber.org/zap"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/inventory"
	"github.com/milk9111/hideseek/logging"
)

// PickupCollectSystem moves overlapped pickups into the player's
// inventory. A full inventory leaves the pickup where it lies.
type PickupCollectSystem struct {
	inv    *inventory.Inventory
	sounds *WorldPorts
	logger *zap.Logger
}

func NewPickupCollectSystem(inv *inventory.Inventory, sounds *WorldPorts, logger *zap.Logger) *PickupCollectSystem {
	logger = logging.OrNop(logger)
	return &PickupCollectSystem{inv: inv, sounds: sounds, logger: logger}
}

func (s *PickupCollectSystem) Update(w *ecs.World) {
	if s.inv == nil {
		return
	}
	player, ok := playerPosition(w)
	if !ok {
		return
	}
	playerBB := bounds(player)

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, t *component.Transform) {
		if !overlaps(playerBB, player, t) {
			return
		}
		slot, err := s.inv.Add(pickup.Item)
		if err != nil {
			if !errors.Is(err, inventory.ErrFull) {
				s.logger.Warn("pickup rejected", zap.String("prefab", pickup.Prefab), zap.Error(err))
			}
			return
		}
		s.logger.Info("item collected",
			zap.String("item", pickup.Item.ID),
			zap.String("slot", slot))
		if s.sounds != nil {
			s.sounds.Play("Pickup")
		}
		w.Events().Push(ecs.Event{Type: ecs.EventPickup, Entity: e, Data: pickup.Item.ID})
		ecs.DestroyEntity(w, e)
	})
}
