package component

import "github.com/jakecoffman/cp"

// PlayerRoute drives the scripted seeker along waypoints.
type PlayerRoute struct {
	Waypoints []cp.Vector
	Speed     float64
	Loop      bool
	Next      int
	Done      bool

	// Drops maps a waypoint index to the item discarded on reaching it.
	Drops map[int]string
}

var PlayerRouteComponent = NewComponent[PlayerRoute]()
