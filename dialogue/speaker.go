package dialogue

import (
	"fmt"

	"go.uber.org/zap"
)

// Starter opens dialogue sessions. *Manager implements it.
type Starter interface {
	Start(speaker string, root *Node, opts ...StartOption) (SessionID, error)
}

type SpeakerOption func(*Speaker)

func WithSpeakerLogger(l *zap.Logger) SpeakerOption {
	return func(s *Speaker) {
		if l != nil {
			s.logger = l
		}
	}
}

// Speaker is the conversational side of one NPC.
type Speaker struct {
	Name  string
	Asset *Asset

	session   Starter
	quests    QuestState
	logger    *zap.Logger
	repeating *Node
	disabled  bool
}

func NewSpeaker(name string, asset *Asset, session Starter, quests QuestState, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		Name:    name,
		Asset:   asset,
		session: session,
		quests:  quests,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SpeakTo starts a session at the entry node chosen by Entry.
func (s *Speaker) SpeakTo() (SessionID, error) {
	if s.disabled {
		return 0, fmt.Errorf("dialogue: speak to %q: %w", s.Name, ErrSpeakerDisabled)
	}
	entry := s.Entry()
	if entry == nil || s.session == nil {
		s.logger.Warn("speaker has no dialogue", zap.String("speaker", s.Name))
		return 0, fmt.Errorf("dialogue: speak to %q: %w", s.Name, ErrNoDialogue)
	}
	return s.session.Start(s.Name, entry, WithNodeObserver(s.Observe))
}

// Entry picks the node a conversation starts at: a remembered repeating node,
// then the quest success or reminder branch while the asset's quest is
// current, then the completed node once that quest has been finished, and
// finally the root.
func (s *Speaker) Entry() *Node {
	if s.repeating != nil {
		return s.repeating
	}
	a := s.Asset
	if a == nil {
		return nil
	}
	if a.Quest != nil && s.quests != nil {
		if cur := s.quests.Current(); cur == a.Quest {
			if s.quests.CheckGoal() {
				if a.QuestSuccess != nil {
					return a.QuestSuccess
				}
			} else if a.QuestReminder != nil {
				return a.QuestReminder
			}
		} else if a.Completed != nil && s.quests.Completed(a.Quest.ID) {
			return a.Completed
		}
	}
	return a.Root
}

// Repeating returns the remembered repeating node, if any.
func (s *Speaker) Repeating() *Node {
	return s.repeating
}

func (s *Speaker) Disable() {
	s.disabled = true
}

func (s *Speaker) Enabled() bool {
	return !s.disabled
}

// Observe remembers the first repeating node shown by any session this
// speaker takes part in.
func (s *Speaker) Observe(n *Node) {
	if n == nil || !n.Repeating || s.repeating != nil {
		return
	}
	s.repeating = n
	s.logger.Debug("repeating node remembered", zap.String("speaker", s.Name), zap.String("node", n.ID))
}
