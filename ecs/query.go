package ecs

import "github.com/milk9111/hideseek/ecs/component"

// smallest returns the ids of the smallest store; intersections walk it and
// probe the others.
func smallest(stores ...store) []entityID {
	var best store
	for _, s := range stores {
		if s.size() == 0 {
			return nil
		}
		if best == nil || s.size() < best.size() {
			best = s
		}
	}
	if best == nil {
		return nil
	}
	return best.ids()
}

// ForEach2 visits entities carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, id := range smallest(sa, sb) {
		e, ok := w.entities.entity(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits entities carrying all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	sc := storeFor(w, kc, false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, id := range smallest(sa, sb, sc) {
		e, ok := w.entities.entity(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
