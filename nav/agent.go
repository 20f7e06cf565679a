package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

const DefaultStoppingDistance = 0.5

// GridAgent follows A* paths on a Grid. Paths are planned lazily on the next
// Advance, so PathPending is true for one step after SetDestination.
type GridAgent struct {
	grid *Grid

	pos      cp.Vector
	vel      cp.Vector
	facing   cp.Vector
	dest     cp.Vector
	path     []cp.Vector
	pending  bool
	speed    float64
	stopped  bool
	stopping float64
}

var _ Agent = (*GridAgent)(nil)

func NewGridAgent(grid *Grid, pos cp.Vector) *GridAgent {
	return &GridAgent{
		grid:     grid,
		pos:      pos,
		dest:     pos,
		facing:   cp.Vector{X: 0, Y: 1},
		stopping: DefaultStoppingDistance,
	}
}

func (a *GridAgent) Position() cp.Vector { return a.pos }
func (a *GridAgent) Velocity() cp.Vector { return a.vel }
func (a *GridAgent) Destination() cp.Vector { return a.dest }
func (a *GridAgent) PathPending() bool { return a.pending }
func (a *GridAgent) StoppingDistance() float64 { return a.stopping }
func (a *GridAgent) SetStoppingDistance(d float64) { a.stopping = d }
func (a *GridAgent) Speed() float64 { return a.speed }
func (a *GridAgent) SetSpeed(speed float64) { a.speed = speed }
func (a *GridAgent) Stopped() bool { return a.stopped }
func (a *GridAgent) Facing() cp.Vector { return a.facing }

func (a *GridAgent) SetStopped(stopped bool) {
	a.stopped = stopped
	if stopped {
		a.vel = cp.Vector{}
	}
}

func (a *GridAgent) SetFacing(dir cp.Vector) {
	if dir.Length() > 0 {
		a.facing = dir.Normalize()
	}
}

// Warp teleports the agent and drops its path.
func (a *GridAgent) Warp(p cp.Vector) {
	a.pos = p
	a.dest = p
	a.path = nil
	a.pending = false
	a.vel = cp.Vector{}
}

func (a *GridAgent) SetDestination(p cp.Vector) bool {
	if a.grid != nil && !a.grid.Walkable(p) {
		return false
	}
	a.dest = p
	a.path = nil
	a.pending = true
	return true
}

// RemainingDistance is the length of the rest of the path. It is infinite
// while a path is pending.
func (a *GridAgent) RemainingDistance() float64 {
	if a.pending {
		return math.Inf(1)
	}
	total := 0.0
	prev := a.pos
	for _, p := range a.path {
		total += prev.Distance(p)
		prev = p
	}
	return total
}

func (a *GridAgent) Nudge(offset cp.Vector) {
	next := a.pos.Add(offset)
	if a.grid != nil && !a.grid.Walkable(next) {
		return
	}
	a.pos = next
}

// Advance plans any pending path and moves along it for dt seconds.
func (a *GridAgent) Advance(dt float64) {
	if a.pending {
		a.plan()
	}
	if a.stopped || dt <= 0 {
		a.vel = cp.Vector{}
		return
	}

	start := a.pos
	step := a.speed * dt
	for step > 0 && len(a.path) > 0 {
		next := a.path[0]
		d := a.pos.Distance(next)
		if d <= step {
			a.pos = next
			step -= d
			a.path = a.path[1:]
			continue
		}
		a.pos = a.pos.Add(next.Sub(a.pos).Mult(step / d))
		step = 0
	}

	moved := a.pos.Sub(start)
	a.vel = moved.Mult(1 / dt)
	if moved.Length() > 0 {
		a.facing = moved.Normalize()
	}
}

func (a *GridAgent) plan() {
	a.pending = false
	if a.grid == nil {
		a.path = []cp.Vector{a.dest}
		return
	}
	a.path = a.grid.Path(a.pos, a.dest)
	if a.path == nil {
		a.dest = a.pos
	}
}
