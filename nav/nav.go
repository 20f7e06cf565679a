// Package nav defines the navigation port consumed by NPC behaviors and a
// grid-based implementation of it.
package nav

import "github.com/jakecoffman/cp"

// Mesh answers walkable-surface queries.
type Mesh interface {
	// SampleWalkable returns the walkable point closest to point within radius.
	SampleWalkable(point cp.Vector, radius float64) (cp.Vector, bool)
}

// Agent is a moving pathfinding handle. Position and velocity are owned by
// the navigation implementation; callers only read them and request paths.
type Agent interface {
	Position() cp.Vector
	Velocity() cp.Vector

	// SetDestination requests a path. It returns false if the destination
	// cannot be reached at all.
	SetDestination(p cp.Vector) bool
	Destination() cp.Vector
	RemainingDistance() float64
	PathPending() bool
	StoppingDistance() float64

	Speed() float64
	SetSpeed(speed float64)
	Stopped() bool
	SetStopped(stopped bool)

	// Nudge displaces the agent directly, outside of path following.
	Nudge(offset cp.Vector)
	Facing() cp.Vector
	SetFacing(dir cp.Vector)
}

// Arrived reports whether the agent has exhausted its current path.
func Arrived(a Agent, slack float64) bool {
	if a == nil {
		return false
	}
	return !a.PathPending() && a.RemainingDistance() <= a.StoppingDistance()+slack
}
