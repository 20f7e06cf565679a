package npc

import (
	"slices"

	"go.uber.org/zap"

	"github.com/milk9111/hideseek/dialogue"
)

// PlayerContact is called when the player touches the NPC. It reports
// whether the touch caught the NPC: only a tired NPC in the slow phase of
// Run, with capture enabled and its reward still pending, can be caught.
func (m *Machine) PlayerContact() bool {
	if !m.active || m.inDialogue {
		return false
	}
	m.sinceContact = 0
	if m.state != StateRun || m.sprinting || !m.captureEnabled || m.hasGivenReward {
		return false
	}
	m.capture()
	return true
}

func (m *Machine) capture() {
	m.logger.Info("npc caught")
	if m.deps.Barks != nil {
		m.deps.Barks.HideImmediate()
	}
	if m.deps.Agent != nil {
		m.deps.Agent.SetStopped(true)
	}

	asset := m.dialogueAsset()
	if asset == nil || asset.Root == nil || m.deps.Session == nil {
		m.finishWithoutDialogue()
		return
	}

	m.inDialogue = true
	m.transition(StateWaitingForDialogue)

	// Subscribe before starting: a session pre-empted by this start ends
	// with its own ID, which onSessionEnded ignores. Ends seen while Start
	// is still running are matched against the returned ID afterwards.
	m.session = 0
	m.starting = true
	m.endedEarly = m.endedEarly[:0]
	cancel := m.deps.Session.OnEnded(m.onSessionEnded)
	var opts []dialogue.StartOption
	if m.deps.Speaker != nil {
		opts = append(opts, dialogue.WithNodeObserver(m.deps.Speaker.Observe))
	}
	id, err := m.deps.Session.Start(m.speakerName(), asset.Root, opts...)
	m.starting = false
	if err != nil {
		cancel()
		m.inDialogue = false
		m.logger.Warn("dialogue refused to start", zap.Error(err))
		m.finishWithoutDialogue()
		return
	}
	m.session = id
	m.cancelEnded = cancel
	if slices.Contains(m.endedEarly, id) {
		m.onSessionEnded(id)
	}
}

// onSessionEnded consumes the end of this NPC's session exactly once.
func (m *Machine) onSessionEnded(id dialogue.SessionID) {
	if m.starting {
		m.endedEarly = append(m.endedEarly, id)
		return
	}
	if m.cancelEnded == nil || id != m.session {
		return
	}
	m.cancelEnded()
	m.cancelEnded = nil
	m.inDialogue = false
	m.logger.Debug("dialogue ended", zap.Uint64("session", uint64(id)))
	m.giveReward()
	m.transition(m.final)
}

// finishWithoutDialogue rewards immediately and holds navigation briefly
// before the final state starts moving.
func (m *Machine) finishWithoutDialogue() {
	m.giveReward()
	m.transition(m.final)
	m.hold = m.cfg.RewardHold
	if m.hold > 0 && m.deps.Agent != nil {
		m.deps.Agent.SetStopped(true)
	}
}

func (m *Machine) giveReward() {
	if m.hasGivenReward {
		return
	}
	m.hasGivenReward = true

	prefab := m.cfg.Reward.Prefab
	if prefab == "" {
		m.logger.Warn("npc has no reward prefab")
		return
	}
	at := m.player.Add(m.cfg.Reward.Offset)
	if m.deps.Rewards != nil {
		m.deps.Rewards.SpawnReward(prefab, at)
	}
	if m.deps.Sounds != nil {
		m.deps.Sounds.Play("Drop")
	}
	m.logger.Info("npc reward issued",
		zap.String("prefab", prefab),
		zap.Float64("x", at.X),
		zap.Float64("y", at.Y))
}
