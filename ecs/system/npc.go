package system

import (
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/npc"
)

// Transition is the payload of ecs.EventTransition.
type Transition struct {
	NPC      string
	From, To npc.State
}

// NPCSystem ticks every NPC machine against the player's position.
type NPCSystem struct {
	dt float64
}

func NewNPCSystem(dt float64) *NPCSystem {
	return &NPCSystem{dt: dt}
}

func (s *NPCSystem) Update(w *ecs.World) {
	player, ok := playerPosition(w)
	if !ok {
		return
	}
	ecs.ForEach(w, component.NPCComponent.Kind(), func(e ecs.Entity, n *component.NPC) {
		if n.Machine == nil || ecs.Has(w, e, component.HiddenComponent.Kind()) {
			return
		}
		n.Machine.Tick(s.dt, player.Position)
		if st := n.Machine.State(); st != n.LastState {
			w.Events().Push(ecs.Event{
				Type:   ecs.EventTransition,
				Entity: e,
				Data:   Transition{NPC: n.Machine.Name(), From: n.LastState, To: st},
			})
			n.LastState = st
		}
	})
}

func playerPosition(w *ecs.World) (*component.Transform, bool) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, player, component.TransformComponent.Kind())
}
