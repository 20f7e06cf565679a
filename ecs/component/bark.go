package component

// Bark is the line currently shown above an NPC.
type Bark struct {
	Speaker   string
	Line      string
	Remaining float64
}

var BarkComponent = NewComponent[Bark]()
