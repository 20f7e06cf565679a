package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/ecs/entity"
	"github.com/milk9111/hideseek/ecs/system"
	"github.com/milk9111/hideseek/inventory"
	"github.com/milk9111/hideseek/prefabs"
	"github.com/milk9111/hideseek/quest"
)

type options struct {
	level         string
	ticks         int
	tps           int
	seed          int64
	realtime      bool
	watch         bool
	capacity      int
	policy        string
	dialogueDelay int
}

type sandbox struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	audio     *system.AudioSystem
	inv       *inventory.Inventory
	ledger    *quest.Ledger
	player    ecs.Entity
	logger    *zap.Logger

	captures int
	rewards  int
	escaped  int
}

func newSandbox(opts options, logger *zap.Logger) (*sandbox, error) {
	if opts.tps <= 0 {
		return nil, fmt.Errorf("sandbox: tps must be positive, got %d", opts.tps)
	}
	policy, err := quest.ParsePolicy(opts.policy)
	if err != nil {
		return nil, err
	}
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	lvl, err := prefabs.LoadLevelSpec(prefabs.LevelPath(opts.level))
	if err != nil {
		return nil, err
	}
	grid, err := prefabs.BuildGrid(*lvl)
	if err != nil {
		return nil, err
	}
	items, err := prefabs.LoadItemsSpec()
	if err != nil {
		return nil, err
	}
	quests, err := prefabs.LoadQuests()
	if err != nil {
		return nil, err
	}

	s := &sandbox{world: ecs.NewWorld(), logger: logger}
	ports := system.NewWorldPorts(s.world, items, logger)

	s.inv = inventory.New(opts.capacity,
		inventory.WithDropper(ports),
		inventory.WithSounds(ports),
		inventory.WithLogger(logger))
	s.ledger = quest.NewLedger(s.inv,
		quest.WithRewards(ports),
		quest.WithSounds(ports),
		quest.WithPolicy(policy),
		quest.WithAnchor(s.playerPosition),
		quest.WithLogger(logger))
	manager := dialogue.NewManager(s.ledger,
		dialogue.WithLogger(logger),
		dialogue.WithConditions(dialogue.NewConditions(s.inv, s.ledger, logger)))

	env := &entity.Env{
		Grid:    grid,
		Session: manager,
		Ledger:  s.ledger,
		Quests:  quests,
		Ports:   ports,
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(seed)),
	}
	if s.player, err = entity.LoadLevelToWorld(s.world, env, lvl); err != nil {
		return nil, err
	}

	dt := 1 / float64(opts.tps)
	s.audio = system.NewAudioSystem(logger)
	s.scheduler = ecs.NewScheduler(
		system.NewPlayerRouteSystem(dt, manager, s.inv, logger),
		system.NewNPCSystem(dt),
		system.NewNavigationSystem(dt),
		system.NewContactSystem(logger),
		system.NewDialogueSystem(manager, opts.dialogueDelay, logger),
		system.NewSpawnSystem(items, logger),
		system.NewPickupCollectSystem(s.inv, ports, logger),
		s.audio,
		system.NewBarkSystem(dt),
		system.NewTTLSystem(),
	)
	logger.Info("level loaded",
		zap.String("level", lvl.Name),
		zap.Int("entities", len(ecs.Entities(s.world))),
		zap.Int64("seed", seed),
		zap.Stringer("policy", policy))
	return s, nil
}

func (s *sandbox) playerPosition() cp.Vector {
	t, ok := ecs.Get(s.world, s.player, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}
	}
	return t.Position
}

func (s *sandbox) step() {
	s.scheduler.Update(s.world)
	for _, evt := range s.world.Events().Drain() {
		s.record(evt)
	}
}

func (s *sandbox) record(evt ecs.Event) {
	tick := zap.Uint64("tick", s.scheduler.Ticks())
	switch evt.Type {
	case ecs.EventCapture:
		s.captures++
		s.logger.Info("npc captured", tick, zap.Any("npc", evt.Data))
	case ecs.EventReward:
		s.rewards++
	case ecs.EventDespawn:
		s.escaped++
	case ecs.EventTransition:
		tr := evt.Data.(system.Transition)
		s.logger.Debug("npc transition", tick,
			zap.String("npc", tr.NPC),
			zap.Stringer("from", tr.From),
			zap.Stringer("to", tr.To))
	case ecs.EventBark:
		s.logger.Debug("bark", tick, zap.Any("line", evt.Data))
	}
}

// reload applies an edited NPC prefab to every NPC spawned from it.
func (s *sandbox) reload(change prefabs.Change) {
	name := change.Name()
	if change.Kind != prefabs.KindNPC {
		s.logger.Info("prefab changed, restart to apply", zap.String("file", name), zap.String("kind", string(change.Kind)))
		return
	}
	data, err := os.ReadFile(change.Path)
	if err != nil {
		s.logger.Warn("reload read failed", zap.String("file", name), zap.Error(err))
		return
	}
	spec, err := prefabs.DecodeNPCSpec(name, data)
	if err != nil {
		s.logger.Warn("reload rejected", zap.String("file", name), zap.Error(err))
		return
	}
	var applied int
	ecs.ForEach(s.world, component.NPCComponent.Kind(), func(_ ecs.Entity, n *component.NPC) {
		if n.Spec != name || n.Machine == nil {
			return
		}
		if err := n.Machine.Reconfigure(spec.Behavior); err != nil {
			s.logger.Warn("reconfigure failed", zap.String("npc", n.Machine.Name()), zap.Error(err))
			return
		}
		applied++
	})
	s.logger.Info("prefab reloaded", zap.String("file", name), zap.Int("npcs", applied))
}

func (s *sandbox) summary() {
	fields := []zap.Field{
		zap.Uint64("ticks", s.scheduler.Ticks()),
		zap.Int("captures", s.captures),
		zap.Int("rewards", s.rewards),
		zap.Int("escaped", s.escaped),
		zap.Int("items", s.inv.Len()),
		zap.Int("drops", s.audio.Played("Drop")),
	}
	if q := s.ledger.Current(); q != nil {
		fields = append(fields, zap.String("active_quest", q.ID))
	}
	s.logger.Info("simulation finished", fields...)
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	logger = logger.With(zap.String("run", uuid.NewString()))
	s, err := newSandbox(opts, logger)
	if err != nil {
		return err
	}
	defer s.summary()

	var changes <-chan prefabs.Change
	if opts.watch {
		w, err := watchPrefabs()
		if err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
			changes = w.Events
			go func() {
				for err := range w.Errors {
					logger.Warn("prefab watcher", zap.Error(err))
				}
			}()
		}
	}

	var pace <-chan time.Time
	if opts.realtime {
		ticker := time.NewTicker(time.Second / time.Duration(opts.tps))
		defer ticker.Stop()
		pace = ticker.C
	}

	for i := 0; opts.ticks <= 0 || i < opts.ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return nil
		}

	drain:
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					changes = nil
					break drain
				}
				s.reload(change)
			default:
				break drain
			}
		}

		s.step()
	}
	return nil
}

func watchPrefabs() (*prefabs.Watcher, error) {
	dirs := []string{"npcs", "dialogues", "quests", "levels"}
	paths := make([]string, 0, len(dirs)+1)
	paths = append(paths, "prefabs")
	for _, d := range dirs {
		paths = append(paths, filepath.Join("prefabs", d))
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			return nil, errors.New("sandbox: no prefabs directory under the working directory")
		}
	}
	return prefabs.NewWatcher(paths...)
}
