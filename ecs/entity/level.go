package entity

import (
	"fmt"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/prefabs"
)

// LoadLevelToWorld spawns the player, the NPCs and the speakers of lvl.
// env.Grid must already be built from the same level.
func LoadLevelToWorld(w *ecs.World, env *Env, lvl *prefabs.LevelSpec) (ecs.Entity, error) {
	if env == nil || env.Grid == nil {
		return 0, fmt.Errorf("level %s: no navigation grid", lvl.Name)
	}

	player, err := NewPlayer(w, lvl.Player)
	if err != nil {
		return 0, fmt.Errorf("level %s: %w", lvl.Name, err)
	}
	for _, placement := range lvl.NPCs {
		if _, err := NewNPC(w, env, placement); err != nil {
			return 0, fmt.Errorf("level %s: %w", lvl.Name, err)
		}
	}
	for _, placement := range lvl.Speakers {
		if _, err := NewSpeaker(w, env, placement); err != nil {
			return 0, fmt.Errorf("level %s: %w", lvl.Name, err)
		}
	}
	return player, nil
}
