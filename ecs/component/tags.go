package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Hidden marks an entity that left the level without being destroyed.
type Hidden struct{}

var HiddenComponent = NewComponent[Hidden]()
