// Package inventory implements the player's capacity-bounded item slots.
package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

var (
	ErrFull        = errors.New("inventory: full")
	ErrInvalidItem = errors.New("inventory: item has no id")
)

// Item is an item definition. Two slots may hold the same item.
type Item struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// Dropper places an item back into the world.
type Dropper interface {
	SpawnItem(item Item, at cp.Vector)
}

// SoundPlayer plays a named one-shot sound.
type SoundPlayer interface {
	Play(name string)
}

type Option func(*Inventory)

func WithDropper(d Dropper) Option {
	return func(inv *Inventory) { inv.dropper = d }
}

func WithSounds(s SoundPlayer) Option {
	return func(inv *Inventory) { inv.sounds = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(inv *Inventory) {
		if l != nil {
			inv.logger = l
		}
	}
}

// Inventory maps generated slot IDs to items. The number of occupied slots
// never exceeds the capacity.
type Inventory struct {
	capacity int
	slots    map[string]Item

	dropper Dropper
	sounds  SoundPlayer
	logger  *zap.Logger
}

func New(capacity int, opts ...Option) *Inventory {
	if capacity < 0 {
		capacity = 0
	}
	inv := &Inventory{
		capacity: capacity,
		slots:    make(map[string]Item, capacity),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Add stores item in a fresh slot and returns the slot ID.
func (inv *Inventory) Add(item Item) (string, error) {
	if item.ID == "" {
		return "", ErrInvalidItem
	}
	if !inv.HasEmptySlot() {
		inv.logger.Info("inventory full, item rejected", zap.String("item", item.ID))
		return "", fmt.Errorf("inventory: add %s: %w", item.ID, ErrFull)
	}
	slot := uuid.NewString()
	inv.slots[slot] = item
	inv.logger.Debug("item added", zap.String("item", item.ID), zap.String("slot", slot))
	return slot, nil
}

func (inv *Inventory) HasItem(id string) bool {
	return inv.findSlot(id) != ""
}

// Count returns how many slots hold an item with the given ID.
func (inv *Inventory) Count(id string) int {
	n := 0
	for _, it := range inv.slots {
		if it.ID == id {
			n++
		}
	}
	return n
}

func (inv *Inventory) Get(slot string) (Item, bool) {
	it, ok := inv.slots[slot]
	return it, ok
}

// RemoveItemWithoutDrop deletes one slot holding id without spawning
// anything in the world.
func (inv *Inventory) RemoveItemWithoutDrop(id string) bool {
	slot := inv.findSlot(id)
	if slot == "" {
		return false
	}
	delete(inv.slots, slot)
	inv.logger.Debug("item removed", zap.String("item", id), zap.String("slot", slot))
	return true
}

// DropItem drops the lowest slot holding id.
func (inv *Inventory) DropItem(id string, at cp.Vector) bool {
	slot := inv.findSlot(id)
	if slot == "" {
		return false
	}
	return inv.Drop(slot, at)
}

// Drop removes a slot and spawns its item at the given position.
func (inv *Inventory) Drop(slot string, at cp.Vector) bool {
	it, ok := inv.slots[slot]
	if !ok {
		return false
	}
	delete(inv.slots, slot)
	if inv.dropper != nil {
		inv.dropper.SpawnItem(it, at)
	}
	if inv.sounds != nil {
		inv.sounds.Play("Drop")
	}
	return true
}

func (inv *Inventory) Len() int {
	return len(inv.slots)
}

func (inv *Inventory) Capacity() int {
	return inv.capacity
}

func (inv *Inventory) HasEmptySlot() bool {
	return len(inv.slots) < inv.capacity
}

// Items returns a copy of the slot mapping.
func (inv *Inventory) Items() map[string]Item {
	out := make(map[string]Item, len(inv.slots))
	for k, v := range inv.slots {
		out[k] = v
	}
	return out
}

// findSlot returns the lowest slot ID holding id so removal order does not
// depend on map iteration.
func (inv *Inventory) findSlot(id string) string {
	var matches []string
	for slot, it := range inv.slots {
		if it.ID == id {
			matches = append(matches, slot)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}
