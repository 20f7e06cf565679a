// Package quest tracks the single active quest and its completion.
package quest

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

var (
	ErrNilQuest    = errors.New("quest: nil quest")
	ErrQuestActive = errors.New("quest: another quest is active")
)

// Reward describes what finishing a quest spawns.
type Reward struct {
	Prefab string
	Offset cp.Vector
}

// Quest is authored data. Ledgers compare quests by pointer identity.
type Quest struct {
	ID          string
	Name        string
	Description string
	Icon        string
	ItemID      string
	Reward      Reward
}

// Inventory is the part of the player inventory the ledger needs.
type Inventory interface {
	HasItem(id string) bool
	RemoveItemWithoutDrop(id string) bool
}

// Spawner creates reward pickups in the world.
type Spawner interface {
	SpawnReward(prefab string, at cp.Vector)
}

type SoundPlayer interface {
	Play(name string)
}

// Policy decides what happens when a quest is activated while another is
// already current.
type Policy uint8

const (
	// PolicyReplace drops the current quest in favour of the new one.
	PolicyReplace Policy = iota
	// PolicyReject refuses the activation and keeps the current quest.
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "replace":
		return PolicyReplace, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyReplace, fmt.Errorf("quest: unknown policy %q", s)
	}
}

type Option func(*Ledger)

func WithRewards(s Spawner) Option {
	return func(l *Ledger) { l.rewards = s }
}

func WithSounds(s SoundPlayer) Option {
	return func(l *Ledger) { l.sounds = s }
}

func WithPolicy(p Policy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithAnchor sets where rewards are spawned, usually the player position.
func WithAnchor(fn func() cp.Vector) Option {
	return func(l *Ledger) { l.anchor = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Ledger is the single authority on the active quest.
type Ledger struct {
	inv     Inventory
	rewards Spawner
	sounds  SoundPlayer
	anchor  func() cp.Vector
	policy  Policy
	logger  *zap.Logger

	current      *Quest
	goalAchieved bool
	completed    map[string]bool
}

func NewLedger(inv Inventory, opts ...Option) *Ledger {
	l := &Ledger{
		inv:       inv,
		logger:    zap.NewNop(),
		completed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Activate makes q the current quest, subject to the ledger policy.
func (l *Ledger) Activate(q *Quest) error {
	if q == nil {
		return ErrNilQuest
	}
	if l.current != nil && l.current != q && l.policy == PolicyReject {
		l.logger.Info("quest activation rejected",
			zap.String("quest", q.ID),
			zap.String("current", l.current.ID))
		return fmt.Errorf("quest: activate %s: %w", q.ID, ErrQuestActive)
	}
	if l.current != nil && l.current != q {
		l.logger.Info("quest replaced", zap.String("old", l.current.ID), zap.String("new", q.ID))
	}
	l.current = q
	l.goalAchieved = false
	l.logger.Info("quest activated", zap.String("quest", q.ID), zap.String("name", q.Name))
	return nil
}

func (l *Ledger) Current() *Quest {
	return l.current
}

// GoalAchieved returns the result cached by the last CheckGoal.
func (l *Ledger) GoalAchieved() bool {
	return l.goalAchieved
}

// Completed reports whether a quest with this ID was finished earlier.
func (l *Ledger) Completed(id string) bool {
	return l.completed[id]
}

// CheckGoal recomputes whether the player holds the current quest's item.
func (l *Ledger) CheckGoal() bool {
	if l.current == nil || l.inv == nil {
		l.goalAchieved = false
		return false
	}
	l.goalAchieved = l.inv.HasItem(l.current.ItemID)
	return l.goalAchieved
}

// Finish completes the current quest if its goal is achieved: the quest item
// is consumed, the reward spawned, and the ledger cleared. It is a no-op
// returning false otherwise.
func (l *Ledger) Finish() bool {
	if l.current == nil {
		l.logger.Warn("no active quest to finish")
		return false
	}
	if !l.CheckGoal() {
		l.logger.Info("quest cannot be finished, goal not achieved", zap.String("quest", l.current.ID))
		return false
	}

	q := l.current
	removed := l.inv.RemoveItemWithoutDrop(q.ItemID)
	l.logger.Info("finishing quest", zap.String("quest", q.ID), zap.Bool("item_removed", removed))

	if q.Reward.Prefab == "" {
		l.logger.Warn("no reward prefab set for quest", zap.String("quest", q.ID))
	} else {
		at := q.Reward.Offset
		if l.anchor != nil {
			at = l.anchor().Add(q.Reward.Offset)
		}
		if l.rewards != nil {
			l.rewards.SpawnReward(q.Reward.Prefab, at)
		}
		if l.sounds != nil {
			l.sounds.Play("Reward")
		}
	}

	l.completed[q.ID] = true
	l.current = nil
	l.goalAchieved = false
	return true
}
