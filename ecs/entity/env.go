package entity

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/ecs/system"
	"github.com/milk9111/hideseek/logging"
	"github.com/milk9111/hideseek/nav"
	"github.com/milk9111/hideseek/quest"
)

const (
	playerRadius  = 0.6
	npcRadius     = 0.5
	speakerRadius = 1.5
)

// Env is shared by the entity builders: the level's navigation grid, the
// dialogue session, quest state and the world side-effect ports.
type Env struct {
	Grid    *nav.Grid
	Session *dialogue.Manager
	Ledger  *quest.Ledger
	Quests  map[string]*quest.Quest
	Ports   *system.WorldPorts
	Logger  *zap.Logger
	Rand    *rand.Rand
}

func (env *Env) logger() *zap.Logger {
	return logging.OrNop(env.Logger)
}

// speaker wraps asset in a speaker bound to the env's session and ledger.
func (env *Env) speaker(name string, asset *dialogue.Asset) *dialogue.Speaker {
	var session dialogue.Starter
	if env.Session != nil {
		session = env.Session
	}
	var quests dialogue.QuestState
	if env.Ledger != nil {
		quests = env.Ledger
	}
	return dialogue.NewSpeaker(name, asset, session, quests,
		dialogue.WithSpeakerLogger(env.logger()))
}
