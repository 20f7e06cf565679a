package ecs

// System advances the world by one fixed tick.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in insertion order, once per tick.
type Scheduler struct {
	systems []System
	ticks   uint64
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
	s.ticks++
}

// Ticks reports how many times Update has run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
