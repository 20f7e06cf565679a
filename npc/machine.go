// Package npc implements the hide and seek NPC: a behavior state machine
// driven by a fixed-tick loop, the capture gate that hands a caught NPC to a
// dialogue session, and the one-time reward it leaves behind.
package npc

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/common"
	"github.com/milk9111/hideseek/dialogue"
	"github.com/milk9111/hideseek/nav"
)

// TransitionHook observes state changes.
type TransitionHook func(from, to State)

type Option func(*Machine)

// WithBase anchors the NPC at p instead of its starting position.
func WithBase(p cp.Vector) Option {
	return func(m *Machine) {
		m.base = p
		m.baseSet = true
	}
}

func WithInitialState(s State) Option {
	return func(m *Machine) {
		m.initial = s
		m.initialSet = true
	}
}

func WithTransitionHook(fn TransitionHook) Option {
	return func(m *Machine) { m.hooks = append(m.hooks, fn) }
}

// Machine is one NPC. It is driven by Tick and PlayerContact from a single
// goroutine.
type Machine struct {
	name string
	cfg  Config
	deps Deps

	logger *zap.Logger
	rng    *rand.Rand
	hooks  []TransitionHook
	warned map[string]bool

	initial    State
	initialSet bool
	timeout    State
	final      State

	state     State
	stateTime float64
	player    cp.Vector
	hasBase   bool
	baseSet   bool
	base      cp.Vector
	wobble    Wobble

	sinceContact   float64
	runTimer       float64
	sprinting      bool
	captureEnabled bool
	retry          float64
	hold           float64
	barkTimer      float64

	inDialogue     bool
	starting       bool
	endedEarly     []dialogue.SessionID
	session        dialogue.SessionID
	cancelEnded    func()
	hasGivenReward bool

	active  bool
	removed bool
}

// New builds an NPC named name. Only an invalid config is an error; missing
// dependencies are logged and worked around.
func New(name string, cfg Config, deps Deps, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("npc: new %s: %w", name, err)
	}

	m := &Machine{
		name:   name,
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger,
		rng:    deps.Rand,
		warned: make(map[string]bool),
		active: true,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	m.logger = m.logger.With(zap.String("npc", name))
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m.timeout, _ = cfg.idleTimeoutState()
	m.final, _ = cfg.finalState()

	for _, opt := range opts {
		opt(m)
	}

	if deps.Agent == nil {
		m.warnOnce("agent", "npc has no navigation agent")
	} else {
		m.applyStoppingDistance()
		if !m.baseSet {
			m.base = deps.Agent.Position()
			m.baseSet = true
		}
	}
	m.hasBase = cfg.Base.Enabled && m.baseSet
	if m.dialogueAsset() == nil {
		m.warnOnce("dialogue", "npc has no dialogue, capture rewards immediately")
	}

	m.wobble.Phase = m.rng.Float64() * 2 * math.Pi

	start := m.initial
	if !m.initialSet {
		start = StateIdle
		if m.hasBase {
			start = StateBase
		}
	}
	if start == StateWaitingForDialogue {
		return nil, fmt.Errorf("npc: new %s: %w: cannot start in %s", name, ErrInvalidConfig, start)
	}
	m.state = start
	if m.deps.Agent != nil {
		m.enter(start)
	}
	return m, nil
}

func (m *Machine) Name() string {
	return m.name
}

func (m *Machine) State() State {
	return m.state
}

// InDialogue reports whether the NPC is suspended waiting for a dialogue
// session to end.
func (m *Machine) InDialogue() bool {
	return m.inDialogue
}

func (m *Machine) CaptureEnabled() bool {
	return m.captureEnabled
}

// Sprinting reports whether a Run is still in its fast, uncatchable phase.
func (m *Machine) Sprinting() bool {
	return m.state == StateRun && m.sprinting
}

func (m *Machine) HasGivenReward() bool {
	return m.hasGivenReward
}

// Active is false once the NPC has escaped and been despawned.
func (m *Machine) Active() bool {
	return m.active
}

// Removed reports a permanent despawn.
func (m *Machine) Removed() bool {
	return m.removed
}

func (m *Machine) TimeInState() float64 {
	return m.stateTime
}

func (m *Machine) Base() (cp.Vector, bool) {
	return m.base, m.hasBase
}

func (m *Machine) Config() Config {
	return m.cfg
}

// Reconfigure swaps tuning values without touching state, timers or the
// reward flag.
func (m *Machine) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("npc: reconfigure %s: %w", m.name, err)
	}
	m.cfg = cfg
	m.timeout, _ = cfg.idleTimeoutState()
	m.final, _ = cfg.finalState()
	m.hasBase = cfg.Base.Enabled && m.baseSet
	if m.deps.Agent != nil {
		m.applyStoppingDistance()
	}
	m.logger.Info("npc reconfigured")
	return nil
}

// Tick advances the NPC by dt seconds. It does nothing while the NPC is in
// dialogue, despawned, or has no agent.
func (m *Machine) Tick(dt float64, player cp.Vector) {
	if !m.active || m.inDialogue || m.deps.Agent == nil {
		return
	}
	m.player = player
	m.sinceContact += dt
	m.stateTime += dt
	m.wobble.Advance(dt)
	if m.retry > 0 {
		m.retry = math.Max(0, m.retry-dt)
	}
	if m.hold > 0 {
		m.hold -= dt
		if m.hold > 0 {
			return
		}
		m.hold = 0
		m.deps.Agent.SetStopped(false)
	}

	m.update(dt)
	if !m.active {
		return
	}
	m.evaluate()
	m.bark(dt)
}

func (m *Machine) update(dt float64) {
	switch m.state {
	case StateBase:
		m.updateBase(dt)
	case StateIdle:
		m.updateIdle(dt)
	case StateFind:
		m.updateFind()
	case StateRun:
		m.updateRun(dt)
	case StateTaunt:
		m.updateTaunt(dt)
	case StateDie, StateDisappear:
		m.updateEscape(dt)
	}
}

// evaluate checks transitions in priority order: forced base return, the
// proximity run trigger, then the current state's own predicates.
func (m *Machine) evaluate() {
	pos := m.deps.Agent.Position()
	distPlayer := pos.Distance(m.player)

	switch m.state {
	case StateBase, StateDie, StateDisappear, StateWaitingForDialogue:
	default:
		if m.hasBase {
			distBase := pos.Distance(m.base)
			if distBase > m.cfg.Base.ReturnDistance || distPlayer > m.cfg.Base.PlayerDistanceCheck {
				m.logger.Debug("npc strayed, returning to base",
					zap.Float64("dist_base", distBase),
					zap.Float64("dist_player", distPlayer))
				m.transition(StateBase)
				return
			}
		}
	}

	switch m.state {
	case StateRun, StateDie, StateDisappear, StateWaitingForDialogue:
	default:
		if distPlayer < m.cfg.RunTriggerDistance {
			m.transition(StateRun)
			return
		}
	}

	switch m.state {
	case StateBase:
		distBase := pos.Distance(m.base)
		if distPlayer < m.cfg.DetectionRange*2 && distBase < m.cfg.Base.ReturnDistance*0.7 {
			m.transition(StateIdle)
		}
	case StateIdle:
		if distPlayer < m.cfg.DetectionRange {
			m.transition(StateRun)
		} else if m.sinceContact > m.cfg.FindDelay {
			m.transition(m.timeout)
		}
	case StateRun:
		if distPlayer > m.cfg.SafeDistance {
			m.transition(StateIdle)
		}
	case StateTaunt:
		if distPlayer < m.cfg.DetectionRange/2 {
			m.transition(StateRun)
		}
	}
}

// transition replaces the current state. Final states are never left.
func (m *Machine) transition(to State) {
	from := m.state
	if from.Final() || from == to {
		return
	}
	m.state = to
	m.stateTime = 0
	m.logger.Debug("npc state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	if m.deps.Agent != nil {
		m.enter(to)
	}
	for _, hook := range m.hooks {
		hook(from, to)
	}
}

func (m *Machine) enter(s State) {
	agent := m.deps.Agent
	m.retry = 0
	m.barkTimer = 0

	switch s {
	case StateBase:
		m.sinceContact = 0
		agent.SetSpeed(m.cfg.WanderSpeed)
		if m.hasBase {
			agent.SetStopped(false)
			agent.SetDestination(m.base)
		} else {
			agent.SetStopped(true)
		}
	case StateIdle:
		m.sinceContact = 0
		m.captureEnabled = true
		agent.SetStopped(false)
		agent.SetSpeed(m.cfg.WanderSpeed)
	case StateFind:
		m.sinceContact = 0
		m.captureEnabled = false
		agent.SetStopped(false)
		agent.SetSpeed(m.cfg.ApproachSpeed)
	case StateRun:
		m.sinceContact = 0
		m.runTimer = 0
		m.sprinting = true
		m.captureEnabled = false
		agent.SetStopped(false)
		agent.SetSpeed(m.cfg.RunSpeed)
		m.flee()
	case StateTaunt:
		m.sinceContact = 0
		m.captureEnabled = false
		agent.SetStopped(false)
		agent.SetSpeed(m.cfg.TauntSpeed)
		agent.SetDestination(m.player)
	case StateDie:
		m.captureEnabled = true
		agent.SetStopped(false)
		agent.SetSpeed(m.cfg.DieSpeed)
		if m.deps.Speaker != nil {
			m.deps.Speaker.Disable()
		}
		m.escape()
	case StateDisappear:
		m.captureEnabled = false
		agent.SetStopped(false)
		agent.SetSpeed(m.cfg.DisappearSpeed)
		m.escape()
	case StateWaitingForDialogue:
		m.captureEnabled = false
		agent.SetStopped(true)
	}
}

// sample resolves a navigation target, scheduling a retry when no walkable
// point is in range.
func (m *Machine) sample(point cp.Vector, radius float64) (cp.Vector, bool) {
	if m.retry > 0 {
		return cp.Vector{}, false
	}
	if m.deps.Mesh == nil {
		m.warnOnce("mesh", "npc has no navigation mesh, using raw targets")
		return point, true
	}
	p, ok := m.deps.Mesh.SampleWalkable(point, radius)
	if !ok {
		m.retry = m.cfg.NavRetryDelay
		m.logger.Debug("no walkable point, retrying",
			zap.Float64("x", point.X),
			zap.Float64("y", point.Y),
			zap.Float64("retry", m.retry))
		return cp.Vector{}, false
	}
	return p, true
}

func (m *Machine) applyStoppingDistance() {
	if a, ok := m.deps.Agent.(interface{ SetStoppingDistance(float64) }); ok {
		a.SetStoppingDistance(m.cfg.StoppingDistance)
	}
}

func (m *Machine) dialogueAsset() *dialogue.Asset {
	if m.deps.Dialogue != nil {
		return m.deps.Dialogue
	}
	if m.deps.Speaker != nil {
		return m.deps.Speaker.Asset
	}
	return nil
}

func (m *Machine) speakerName() string {
	if m.deps.Speaker != nil && m.deps.Speaker.Name != "" {
		return m.deps.Speaker.Name
	}
	return m.name
}

func (m *Machine) warnOnce(key, msg string) {
	if m.warned[key] {
		return
	}
	m.warned[key] = true
	m.logger.Warn(msg)
}

func arrived(a nav.Agent) bool {
	return nav.Arrived(a, 0.5)
}

// towards returns the unit vector from pos to target, falling back to the
// agent facing.
func (m *Machine) towards(pos, target cp.Vector) cp.Vector {
	if dir, ok := common.Direction(pos, target); ok {
		return dir
	}
	return m.deps.Agent.Facing()
}
