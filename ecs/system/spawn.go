package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/logging"
)

// PickupRadius is the contact radius of spawned pickups.
const PickupRadius = 1.5

// SpawnSystem turns spawn requests into pickups.
type SpawnSystem struct {
	items  ItemCatalog
	logger *zap.Logger
}

func NewSpawnSystem(items ItemCatalog, logger *zap.Logger) *SpawnSystem {
	logger = logging.OrNop(logger)
	return &SpawnSystem{items: items, logger: logger}
}

func (s *SpawnSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.SpawnRequestComponent.Kind(), func(e ecs.Entity, req *component.SpawnRequest) {
		ecs.DestroyEntity(w, e)
		if s.items == nil {
			s.logger.Warn("no item catalog, spawn dropped", zap.String("prefab", req.Prefab))
			return
		}
		item, ok := s.items.ItemForPrefab(req.Prefab)
		if !ok {
			s.logger.Warn("unknown pickup prefab", zap.String("prefab", req.Prefab))
			return
		}
		pickup := ecs.CreateEntity(w)
		_ = ecs.Add(w, pickup, component.TransformComponent.Kind(), &component.Transform{Position: req.Position, Radius: PickupRadius})
		_ = ecs.Add(w, pickup, component.PickupComponent.Kind(), &component.Pickup{Prefab: req.Prefab, Item: item})
		s.logger.Debug("pickup spawned",
			zap.String("prefab", req.Prefab),
			zap.Float64("x", req.Position.X),
			zap.Float64("y", req.Position.Y))
	})
}
