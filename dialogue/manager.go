package dialogue

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/hideseek/quest"
)

var (
	ErrNilNode         = errors.New("dialogue: nil node")
	ErrNoSession       = errors.New("dialogue: no active session")
	ErrInvalidOption   = errors.New("dialogue: invalid option")
	ErrSpeakerDisabled = errors.New("dialogue: speaker disabled")
	ErrNoDialogue      = errors.New("dialogue: speaker has no dialogue")
)

const DefaultContinueText = "Continue"

// SessionID identifies one run of the dialogue UI. IDs are never reused by
// a Manager.
type SessionID uint64

// QuestLedger receives the quest triggers carried by responses.
type QuestLedger interface {
	Activate(q *quest.Quest) error
	Finish() bool
}

// Option is a selectable choice on the current node. A nil Response is the
// synthesized continue/close option.
type Option struct {
	Text     string
	Response *Response
}

type StartOption func(*startConfig)

type startConfig struct {
	observers []func(*Node)
}

// WithNodeObserver is notified of every node entered during the session.
func WithNodeObserver(fn func(*Node)) StartOption {
	return func(c *startConfig) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

type ManagerOption func(*Manager)

func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithConditions(c *Conditions) ManagerOption {
	return func(m *Manager) { m.conds = c }
}

func WithContinueText(text string) ManagerOption {
	return func(m *Manager) {
		if text != "" {
			m.continueText = text
		}
	}
}

type listener struct {
	id int
	fn func(SessionID)
}

// Manager is the single modal dialogue session. Starting a session while
// another is active ends the previous one first.
type Manager struct {
	ledger       QuestLedger
	conds        *Conditions
	logger       *zap.Logger
	continueText string

	lastID    SessionID
	active    bool
	speaker   string
	current   *Node
	options   []Option
	observers []func(*Node)

	started    []listener
	ended      []listener
	nextListen int
}

func NewManager(ledger QuestLedger, opts ...ManagerOption) *Manager {
	m := &Manager{
		ledger:       ledger,
		logger:       zap.NewNop(),
		continueText: DefaultContinueText,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a session at root on behalf of speaker.
func (m *Manager) Start(speaker string, root *Node, opts ...StartOption) (SessionID, error) {
	if root == nil {
		m.logger.Warn("dialogue start with nil node", zap.String("speaker", speaker))
		return 0, fmt.Errorf("dialogue: start %q: %w", speaker, ErrNilNode)
	}
	if m.active {
		m.logger.Debug("dialogue preempted", zap.Uint64("session", uint64(m.lastID)), zap.String("by", speaker))
		m.end()
	}

	var cfg startConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m.lastID++
	m.active = true
	m.speaker = speaker
	m.observers = cfg.observers
	id := m.lastID

	m.logger.Debug("dialogue started", zap.Uint64("session", uint64(id)), zap.String("speaker", speaker))
	fire(m.started, id)
	if m.active && m.lastID == id {
		m.enter(root)
	}
	return id, nil
}

// Active reports whether a session is open.
func (m *Manager) Active() bool {
	return m.active
}

// ID returns the current session ID, or 0 when idle.
func (m *Manager) ID() SessionID {
	if !m.active {
		return 0
	}
	return m.lastID
}

func (m *Manager) Speaker() string {
	return m.speaker
}

// Current returns the node on screen, or nil when idle.
func (m *Manager) Current() *Node {
	return m.current
}

// Options returns the choices for the current node.
func (m *Manager) Options() []Option {
	return append([]Option(nil), m.options...)
}

// Select applies option index of the current node: quest activation, quest
// finish, then either the next node or the end of the session.
func (m *Manager) Select(index int) error {
	if !m.active {
		return ErrNoSession
	}
	if index < 0 || index >= len(m.options) {
		return fmt.Errorf("dialogue: select %d of %d: %w", index, len(m.options), ErrInvalidOption)
	}

	r := m.options[index].Response
	if r == nil {
		m.end()
		return nil
	}

	if r.ActivateQuest != nil && m.ledger != nil {
		if err := m.ledger.Activate(r.ActivateQuest); err != nil {
			m.logger.Warn("quest activation failed", zap.String("quest", r.ActivateQuest.ID), zap.Error(err))
		}
	}
	if r.FinishQuest && m.ledger != nil {
		m.ledger.Finish()
	}

	if r.Next != nil {
		m.enter(r.Next)
	} else {
		m.end()
	}
	return nil
}

// ForceEnd closes the session, e.g. when the player walks away. It is a
// no-op when idle.
func (m *Manager) ForceEnd() {
	if !m.active {
		return
	}
	m.logger.Debug("dialogue force ended", zap.Uint64("session", uint64(m.lastID)))
	m.end()
}

// OnStarted registers fn for session starts. The returned func unregisters it.
func (m *Manager) OnStarted(fn func(SessionID)) (cancel func()) {
	return m.subscribe(&m.started, fn)
}

// OnEnded registers fn for session ends. Each session ends at most once.
func (m *Manager) OnEnded(fn func(SessionID)) (cancel func()) {
	return m.subscribe(&m.ended, fn)
}

func (m *Manager) subscribe(list *[]listener, fn func(SessionID)) func() {
	if fn == nil {
		return func() {}
	}
	m.nextListen++
	id := m.nextListen
	*list = append(*list, listener{id: id, fn: fn})
	return func() {
		for i, l := range *list {
			if l.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) enter(n *Node) {
	m.current = n
	m.options = m.options[:0]
	for _, r := range n.Responses {
		if r == nil || !m.conds.Visible(r) {
			continue
		}
		m.options = append(m.options, Option{Text: r.Text, Response: r})
	}
	if len(m.options) == 0 {
		m.options = append(m.options, Option{Text: m.continueText})
	}
	for _, obs := range m.observers {
		obs(n)
	}
}

func (m *Manager) end() {
	id := m.lastID
	m.active = false
	m.current = nil
	m.options = nil
	m.observers = nil
	m.logger.Debug("dialogue ended", zap.Uint64("session", uint64(id)))
	fire(m.ended, id)
}

func fire(list []listener, id SessionID) {
	for _, l := range append([]listener(nil), list...) {
		l.fn(id)
	}
}
