package component

import "github.com/jakecoffman/cp"

// SpawnRequest asks the spawn system to place a pickup prefab.
type SpawnRequest struct {
	Prefab   string
	Position cp.Vector
}

var SpawnRequestComponent = NewComponent[SpawnRequest]()
