package system

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/inventory"
	"github.com/milk9111/hideseek/logging"
)

// ItemCatalog maps pickup prefabs to the items they grant and back.
// *prefabs.ItemsSpec implements it.
type ItemCatalog interface {
	ItemForPrefab(prefab string) (inventory.Item, bool)
	PrefabForItem(id string) (string, bool)
}

// WorldPorts turns NPC, quest and inventory side effects into request
// entities. The spawn and audio systems consume them on their next update.
type WorldPorts struct {
	w      *ecs.World
	items  ItemCatalog
	logger *zap.Logger
}

func NewWorldPorts(w *ecs.World, items ItemCatalog, logger *zap.Logger) *WorldPorts {
	logger = logging.OrNop(logger)
	return &WorldPorts{w: w, items: items, logger: logger}
}

// SpawnReward queues a pickup prefab at at.
func (p *WorldPorts) SpawnReward(prefab string, at cp.Vector) {
	e := ecs.CreateEntity(p.w)
	_ = ecs.Add(p.w, e, component.SpawnRequestComponent.Kind(), &component.SpawnRequest{Prefab: prefab, Position: at})
	p.w.Events().Push(ecs.Event{Type: ecs.EventReward, Entity: e, Data: prefab})
}

// SpawnItem queues the pickup prefab that grants item, for items dropped
// from the inventory.
func (p *WorldPorts) SpawnItem(item inventory.Item, at cp.Vector) {
	if p.items == nil {
		p.logger.Warn("no item catalog, dropped item lost", zap.String("item", item.ID))
		return
	}
	prefab, ok := p.items.PrefabForItem(item.ID)
	if !ok {
		p.logger.Warn("item has no pickup prefab", zap.String("item", item.ID))
		return
	}
	e := ecs.CreateEntity(p.w)
	_ = ecs.Add(p.w, e, component.SpawnRequestComponent.Kind(), &component.SpawnRequest{Prefab: prefab, Position: at})
}

func (p *WorldPorts) Play(name string) {
	e := ecs.CreateEntity(p.w)
	_ = ecs.Add(p.w, e, component.SoundRequestComponent.Kind(), &component.SoundRequest{Name: name})
}

// Despawn hides the NPC called name, or schedules it for destruction when
// permanent.
func (p *WorldPorts) Despawn(name string, permanent bool) {
	var found bool
	ecs.ForEach(p.w, component.NPCComponent.Kind(), func(e ecs.Entity, n *component.NPC) {
		if found || n.Machine == nil || n.Machine.Name() != name {
			return
		}
		found = true
		if permanent {
			_ = ecs.Add(p.w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 1})
		} else {
			_ = ecs.Add(p.w, e, component.HiddenComponent.Kind(), &component.Hidden{})
		}
		_ = ecs.Remove(p.w, e, component.BarkComponent.Kind())
		p.w.Events().Push(ecs.Event{Type: ecs.EventDespawn, Entity: e, Data: permanent})
	})
	if !found {
		p.logger.Warn("despawn for unknown npc", zap.String("npc", name))
	}
}

// BarkBoard shows one NPC's barks as a Bark component on its entity.
type BarkBoard struct {
	w *ecs.World
	e ecs.Entity
}

func NewBarkBoard(w *ecs.World, e ecs.Entity) *BarkBoard {
	return &BarkBoard{w: w, e: e}
}

func (b *BarkBoard) Show(speaker, line string, duration float64) {
	if err := ecs.Add(b.w, b.e, component.BarkComponent.Kind(), &component.Bark{
		Speaker:   speaker,
		Line:      line,
		Remaining: duration,
	}); err != nil {
		return
	}
	b.w.Events().Push(ecs.Event{Type: ecs.EventBark, Entity: b.e, Data: line})
}

func (b *BarkBoard) HideImmediate() {
	_ = ecs.Remove(b.w, b.e, component.BarkComponent.Kind())
}
