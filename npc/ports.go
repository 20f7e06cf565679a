package npc

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/nav"
)

// DialogueSession is the modal dialogue flow an NPC hands itself to on
// capture. *dialogue.Manager implements it.
type DialogueSession interface {
	Start(speaker string, root *dialogue.Node, opts ...dialogue.StartOption) (dialogue.SessionID, error)
	Active() bool
	OnEnded(fn func(dialogue.SessionID)) (cancel func())
	ForceEnd()
}

type RewardSpawner interface {
	SpawnReward(prefab string, at cp.Vector)
}

type SoundPlayer interface {
	Play(name string)
}

// Despawner hides or removes an NPC once it has escaped.
type Despawner interface {
	Despawn(name string, permanent bool)
}

// BarkSink shows short speech lines above an NPC.
type BarkSink interface {
	Show(speaker, line string, duration float64)
	HideImmediate()
}

// Deps are the collaborators of a Machine. Any of them may be nil; the
// machine degrades instead of failing.
type Deps struct {
	Mesh      nav.Mesh
	Agent     nav.Agent
	Session   DialogueSession
	Dialogue  *dialogue.Asset
	Speaker   *dialogue.Speaker
	Rewards   RewardSpawner
	Sounds    SoundPlayer
	Despawner Despawner
	Barks     BarkSink
	Logger    *zap.Logger
	Rand      *rand.Rand
}
