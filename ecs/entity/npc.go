package entity

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/ecs/system"
	"github.com/milk9111/hideseek/nav"
	"github.com/milk9111/hideseek/npc"
	"github.com/milk9111/hideseek/prefabs"
)

// NewNPC loads the NPC prefab named by placement and spawns it with a grid
// agent, its dialogue and a bark board.
func NewNPC(w *ecs.World, env *Env, placement prefabs.NPCPlacement) (ecs.Entity, error) {
	spec, err := prefabs.LoadNPCSpec(placement.Spec)
	if err != nil {
		return 0, fmt.Errorf("npc: load spec: %w", err)
	}

	var asset *dialogue.Asset
	if spec.Dialogue != "" {
		asset, err = prefabs.LoadDialogue(spec.Dialogue, env.Quests)
		if err != nil {
			return 0, fmt.Errorf("npc %s: %w", spec.Name, err)
		}
	}

	entity := ecs.CreateEntity(w)
	agent := nav.NewGridAgent(env.Grid, placement.At)

	deps := npc.Deps{
		Mesh:   env.Grid,
		Agent:  agent,
		Barks:  system.NewBarkBoard(w, entity),
		Logger: env.logger(),
		Rand:   env.Rand,
	}
	if env.Session != nil {
		deps.Session = env.Session
	}
	if env.Ports != nil {
		deps.Rewards = env.Ports
		deps.Sounds = env.Ports
		deps.Despawner = env.Ports
	}
	if asset != nil {
		deps.Dialogue = asset
		deps.Speaker = env.speaker(spec.Speaker, asset)
	}

	var opts []npc.Option
	if placement.Base != nil {
		opts = append(opts, npc.WithBase(*placement.Base))
	}
	machine, err := npc.New(spec.Name, spec.Behavior, deps, opts...)
	if err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, err
	}

	if err := ecs.Add(w, entity, component.NPCComponent.Kind(), &component.NPC{
		Machine:   machine,
		Spec:      placement.Spec,
		LastState: machine.State(),
	}); err != nil {
		return 0, fmt.Errorf("npc: add npc: %w", err)
	}
	if err := ecs.Add(w, entity, component.NavAgentComponent.Kind(), &component.NavAgent{Agent: agent}); err != nil {
		return 0, fmt.Errorf("npc: add nav agent: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: agent.Position(),
		Radius:   npcRadius,
	}); err != nil {
		return 0, fmt.Errorf("npc: add transform: %w", err)
	}

	env.logger().Info("npc spawned",
		zap.String("npc", spec.Name),
		zap.Stringer("state", machine.State()),
		zap.Bool("dialogue", asset != nil))
	return entity, nil
}
