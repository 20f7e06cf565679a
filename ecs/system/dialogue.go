package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/logging"
)

// DialogueLine is the payload of ecs.EventDialogue: the node shown and the
// option picked for it.
type DialogueLine struct {
	Speaker string
	Text    string
	Choice  string
}

// DialogueSystem stands in for the dialogue UI. The player talks to a
// speaker on approach; an active session picks its first option after
// delay ticks.
type DialogueSystem struct {
	manager *dialogue.Manager
	delay   int
	waited  int
	logger  *zap.Logger
}

func NewDialogueSystem(manager *dialogue.Manager, delay int, logger *zap.Logger) *DialogueSystem {
	logger = logging.OrNop(logger)
	if delay < 1 {
		delay = 1
	}
	return &DialogueSystem{manager: manager, delay: delay, logger: logger}
}

func (s *DialogueSystem) Update(w *ecs.World) {
	if s.manager == nil {
		return
	}
	if s.manager.Active() {
		s.advance(w)
		return
	}
	s.waited = 0

	player, ok := playerPosition(w)
	if !ok {
		return
	}
	playerBB := bounds(player)
	ecs.ForEach2(w, component.SpeakerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sp *component.Speaker, t *component.Transform) {
		touching := overlaps(playerBB, player, t)
		started := touching && !sp.Touching
		sp.Touching = touching
		if !started || sp.Speaker == nil || s.manager.Active() {
			return
		}
		if _, err := sp.Speaker.SpeakTo(); err != nil {
			s.logger.Debug("speaker declined", zap.String("speaker", sp.Speaker.Name), zap.Error(err))
		}
	})
}

func (s *DialogueSystem) advance(w *ecs.World) {
	s.waited++
	if s.waited < s.delay {
		return
	}
	s.waited = 0

	node := s.manager.Current()
	opts := s.manager.Options()
	if node == nil || len(opts) == 0 {
		s.manager.ForceEnd()
		return
	}
	line := DialogueLine{Speaker: s.manager.Speaker(), Text: node.Text, Choice: opts[0].Text}
	s.logger.Info("dialogue",
		zap.String("speaker", line.Speaker),
		zap.String("text", line.Text),
		zap.String("choice", line.Choice))
	w.Events().Push(ecs.Event{Type: ecs.EventDialogue, Data: line})
	if err := s.manager.Select(0); err != nil {
		s.logger.Warn("dialogue select failed", zap.Error(err))
		s.manager.ForceEnd()
	}
}
