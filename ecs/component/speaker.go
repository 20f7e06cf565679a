package component

import "github.com/milk9111/hideseek/dialogue"

// Speaker is a stationary dialogue giver the player talks to on approach.
type Speaker struct {
	Speaker  *dialogue.Speaker
	Touching bool
}

var SpeakerComponent = NewComponent[Speaker]()
