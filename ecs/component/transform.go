package component

import "github.com/jakecoffman/cp"

// Transform is a position on the ground plane.
type Transform struct {
	Position cp.Vector

	// Radius is the contact circle used for overlap checks.
	Radius float64
}

var TransformComponent = NewComponent[Transform]()
