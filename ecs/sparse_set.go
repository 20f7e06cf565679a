package ecs

// store is the type-erased view of a sparseSet the world needs to clean up
// destroyed entities.
type store interface {
	has(id entityID) bool
	remove(id entityID) bool
	size() int
	ids() []entityID
}

// sparseSet stores one component type densely, indexed by entity id.
type sparseSet[T any] struct {
	dense  []entityID
	values []*T
	sparse []int
}

func (s *sparseSet[T]) has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == id
}

func (s *sparseSet[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

// set inserts or replaces the component for id.
func (s *sparseSet[T]) set(id entityID, v *T) {
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

// remove swaps the last dense entry into the removed slot.
func (s *sparseSet[T]) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	lastID := s.dense[last]

	s.dense[idx] = lastID
	s.values[idx] = s.values[last]
	s.sparse[lastID-1] = idx

	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet[T]) size() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// ids returns a snapshot of the dense ids, safe to iterate while the set
// changes.
func (s *sparseSet[T]) ids() []entityID {
	if s == nil {
		return nil
	}
	return append([]entityID(nil), s.dense...)
}
