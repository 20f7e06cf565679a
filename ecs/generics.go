package ecs

import (
	"fmt"

	"github.com/milk9111/hideseek/ecs/component"
)

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	s := &sparseSet[T]{}
	w.stores[kind.ID()] = s
	return s
}

// Add attaches value to e, replacing any component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("%w: %s", component.ErrNilComponent, kind.Name())
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	storeFor(w, kind, true).set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return storeFor(w, kind, false).remove(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return storeFor(w, kind, false).has(e.id())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	return storeFor(w, kind, false).get(e.id())
}

// First returns the first live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeFor(w, kind, false)
	if s == nil {
		return 0, false
	}
	for _, id := range s.dense {
		if e, ok := w.entities.entity(id); ok {
			return e, true
		}
	}
	return 0, false
}

// Count returns how many entities carry kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	return storeFor(w, kind, false).size()
}

// ForEach visits every entity carrying kind. fn may add, remove or destroy
// entities; entities removed during the walk are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil {
		return
	}
	for _, id := range s.ids() {
		e, ok := w.entities.entity(id)
		if !ok {
			continue
		}
		v, ok := s.get(id)
		if !ok {
			continue
		}
		fn(e, v)
	}
}
