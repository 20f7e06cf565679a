package component

import "github.com/jakecoffman/cp"

// SoundRequest asks the audio system to play a one-shot sound.
type SoundRequest struct {
	Name     string
	Position cp.Vector
}

var SoundRequestComponent = NewComponent[SoundRequest]()
