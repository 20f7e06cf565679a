package npc

import (
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/common"
)

const (
	// findRetarget is how far the approach point may drift before the path
	// is re-requested.
	findRetarget = 0.5
	// tauntMinSpeed is the speed below which taunt wobble is suppressed.
	tauntMinSpeed = 0.1
)

func (m *Machine) updateBase(dt float64) {
	agent := m.deps.Agent
	pos := agent.Position()
	if !m.hasBase {
		agent.SetStopped(true)
		return
	}

	if pos.Distance(m.base) > m.cfg.Base.ArriveRadius {
		agent.SetSpeed(m.cfg.WanderSpeed)
		agent.SetStopped(false)
		if agent.Destination().Distance(m.base) > common.Epsilon || arrived(agent) {
			agent.SetDestination(m.base)
		}
		return
	}

	agent.SetStopped(true)
	agent.Nudge(m.wobble.Offset(m.cfg.Base.Wobble, dt))
	if pos.Distance(m.player) < m.cfg.DetectionRange*2 {
		if dir, ok := common.Direction(pos, m.player); ok {
			agent.SetFacing(dir)
		}
	}
}

func (m *Machine) updateIdle(dt float64) {
	agent := m.deps.Agent
	agent.SetSpeed(m.cfg.WanderSpeed)
	agent.SetStopped(false)
	m.captureEnabled = true

	agent.Nudge(m.wobble.Offset(m.cfg.WobbleAmount, dt))

	if !arrived(agent) {
		return
	}
	target := agent.Position().Add(common.RandomInCircle(m.rng, m.cfg.WanderRadius))
	if p, ok := m.sample(target, m.cfg.WanderRadius); ok {
		agent.SetDestination(p)
	}
}

// updateFind sneaks up to exactly the run trigger distance from the player.
func (m *Machine) updateFind() {
	agent := m.deps.Agent
	m.captureEnabled = false
	agent.SetSpeed(m.cfg.ApproachSpeed)

	pos := agent.Position()
	if pos.Distance(m.player) < m.cfg.RunTriggerDistance {
		return
	}
	toPlayer := m.towards(pos, m.player)
	target := m.player.Sub(toPlayer.Mult(m.cfg.RunTriggerDistance))
	if agent.Destination().Distance(target) > findRetarget || arrived(agent) {
		agent.SetDestination(target)
	}
}

// updateRun flees the player, fast and uncatchable at first, then slower
// and catchable once the fast phase has lasted RunFastDuration.
func (m *Machine) updateRun(dt float64) {
	agent := m.deps.Agent
	if m.sprinting {
		m.runTimer += dt
		if m.runTimer >= m.cfg.RunFastDuration {
			m.sprinting = false
			m.logger.Debug("npc tired", zap.Float64("run_timer", m.runTimer))
		}
	}

	if m.sprinting {
		agent.SetSpeed(m.cfg.RunSpeed)
		m.captureEnabled = false
	} else {
		agent.SetSpeed(m.cfg.RunSpeed * m.cfg.RunSlowFactor)
		m.captureEnabled = true
	}

	if arrived(agent) {
		m.flee()
	}
}

func (m *Machine) flee() {
	agent := m.deps.Agent
	pos := agent.Position()
	dir := common.AwayFrom(pos, m.player, agent.Facing())
	if p, ok := m.sample(pos.Add(dir.Mult(m.cfg.FleeDistance)), m.cfg.FleeDistance); ok {
		agent.SetDestination(p)
	}
}

func (m *Machine) updateTaunt(dt float64) {
	agent := m.deps.Agent
	agent.SetSpeed(m.cfg.TauntSpeed)
	if agent.Velocity().Length() > tauntMinSpeed {
		agent.Nudge(m.wobble.Offset(m.cfg.TauntWobble, dt))
	}
	if !agent.PathPending() && agent.RemainingDistance() <= m.cfg.TauntStopDistance*2 {
		agent.SetDestination(m.player)
	}
}

// updateEscape runs Die and Disappear: wander off far from the player and
// despawn once out of range.
func (m *Machine) updateEscape(dt float64) {
	agent := m.deps.Agent
	if m.state == StateDie {
		agent.SetSpeed(m.cfg.DieSpeed)
		m.captureEnabled = true
		agent.Nudge(m.wobble.Erratic(m.cfg.WobbleAmount, dt))
	} else {
		agent.SetSpeed(m.cfg.DisappearSpeed)
	}

	if arrived(agent) {
		m.escape()
	}

	if agent.Position().Distance(m.player) > m.cfg.DespawnDistance {
		m.despawn()
	}
}

func (m *Machine) escape() {
	agent := m.deps.Agent
	dir := common.RandomUnit(m.rng)
	target := agent.Position().Add(dir.Mult(m.cfg.EscapeRadius))
	if p, ok := m.sample(target, m.cfg.EscapeRadius); ok {
		agent.SetDestination(p)
	}
}

func (m *Machine) despawn() {
	m.active = false
	m.removed = m.cfg.RemovePermanently
	m.deps.Agent.SetStopped(true)
	m.logger.Info("npc escaped",
		zap.Stringer("state", m.state),
		zap.Bool("permanent", m.removed))
	if m.deps.Despawner != nil {
		m.deps.Despawner.Despawn(m.name, m.removed)
	}
}
