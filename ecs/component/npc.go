package component

import "github.com/milk9111/hideseek/npc"

// NPC binds a hide and seek machine to an entity.
type NPC struct {
	Machine *npc.Machine

	// Spec is the prefab file the machine was configured from, matched
	// against hot reload events.
	Spec string

	// Touching is true while the player overlapped the NPC last tick.
	Touching  bool
	LastState npc.State
}

var NPCComponent = NewComponent[NPC]()
