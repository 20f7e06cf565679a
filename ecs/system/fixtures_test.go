package system

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/nav"
	"github.com/milk9111/hideseek/npc"
	"github.com/milk9111/hideseek/prefabs"
)

const dt = 0.1

var openRoom = []string{
	"##########",
	"#........#",
	"#........#",
	"#........#",
	"#........#",
	"#........#",
	"#........#",
	"#........#",
	"#........#",
	"##########",
}

func catalog() *prefabs.ItemsSpec {
	return &prefabs.ItemsSpec{
		Items: []prefabs.ItemSpec{
			{ID: "amulet", Name: "Amulet"},
			{ID: "gem", Name: "Gem"},
		},
		Pickups: map[string]string{
			"amulet_pickup": "amulet",
			"gem_pickup":    "gem",
		},
	}
}

type fixture struct {
	w      *ecs.World
	grid   *nav.Grid
	ports  *WorldPorts
	player ecs.Entity
}

func newFixture(t *testing.T, playerAt cp.Vector) *fixture {
	t.Helper()
	grid, err := nav.ParseGrid(openRoom, 1)
	require.NoError(t, err)

	w := ecs.NewWorld()
	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{Position: playerAt, Radius: 0.6}))

	return &fixture{w: w, grid: grid, ports: NewWorldPorts(w, catalog(), nil), player: player}
}

func (f *fixture) playerPos(t *testing.T) cp.Vector {
	t.Helper()
	tr, ok := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	require.True(t, ok)
	return tr.Position
}

// addNPC spawns a machine without dialogue. cfg tweaks the defaults.
func (f *fixture) addNPC(t *testing.T, name string, at cp.Vector, cfg func(*npc.Config), opts ...npc.Option) (ecs.Entity, *npc.Machine) {
	t.Helper()
	c := npc.DefaultConfig()
	c.Base.Enabled = false
	c.Reward.Prefab = "gem_pickup"
	if cfg != nil {
		cfg(&c)
	}

	e := ecs.CreateEntity(f.w)
	agent := nav.NewGridAgent(f.grid, at)
	m, err := npc.New(name, c, npc.Deps{
		Mesh:      f.grid,
		Agent:     agent,
		Rewards:   f.ports,
		Sounds:    f.ports,
		Despawner: f.ports,
		Barks:     NewBarkBoard(f.w, e),
		Rand:      rand.New(rand.NewSource(1)),
	}, opts...)
	require.NoError(t, err)

	require.NoError(t, ecs.Add(f.w, e, component.NPCComponent.Kind(), &component.NPC{Machine: m, LastState: m.State()}))
	require.NoError(t, ecs.Add(f.w, e, component.NavAgentComponent.Kind(), &component.NavAgent{Agent: agent}))
	require.NoError(t, ecs.Add(f.w, e, component.TransformComponent.Kind(), &component.Transform{Position: at, Radius: 0.5}))
	return e, m
}

func eventsOf(events []ecs.Event, typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
