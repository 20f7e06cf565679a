package entity

import (
	"fmt"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/prefabs"
)

// NewSpeaker spawns a stationary quest giver.
func NewSpeaker(w *ecs.World, env *Env, placement prefabs.SpeakerPlacement) (ecs.Entity, error) {
	asset, err := prefabs.LoadDialogue(placement.Dialogue, env.Quests)
	if err != nil {
		return 0, fmt.Errorf("speaker %s: %w", placement.Name, err)
	}

	radius := placement.Radius
	if radius <= 0 {
		radius = speakerRadius
	}

	entity := ecs.CreateEntity(w)
	if err := ecs.Add(w, entity, component.SpeakerComponent.Kind(), &component.Speaker{
		Speaker: env.speaker(placement.Name, asset),
	}); err != nil {
		return 0, fmt.Errorf("speaker: add speaker: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: placement.At,
		Radius:   radius,
	}); err != nil {
		return 0, fmt.Errorf("speaker: add transform: %w", err)
	}
	return entity, nil
}
