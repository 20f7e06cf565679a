package npc

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hideseek/dialogue"
)

var chasePos = cp.Vector{X: 10}

func TestCaptureWithoutDialogue(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{}, WithInitialState(StateRun))
	h.tire(t, chasePos)

	require.True(t, h.m.PlayerContact())
	assert.True(t, h.m.HasGivenReward())
	assert.False(t, h.m.InDialogue())
	assert.Equal(t, StateDie, h.m.State())
	assert.Equal(t, []spawn{{prefab: "amulet_pickup", at: cp.Vector{X: 10, Y: -2}}}, h.rec.spawns)
	assert.Equal(t, []string{"Drop"}, h.rec.sounds)
	assert.True(t, h.agent.stopped, "navigation is held after the reward")

	h.m.Tick(0.5, chasePos)
	assert.True(t, h.agent.stopped)
	h.m.Tick(0.6, chasePos)
	assert.False(t, h.agent.stopped)

	assert.False(t, h.m.PlayerContact())
	h.tick(10, 0.5, chasePos)
	assert.Len(t, h.rec.spawns, 1)
}

func TestCaptureGate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness)
	}{
		{name: "idle", setup: func(t *testing.T, h *harness) {
			h.m.transition(StateIdle)
		}},
		{name: "sprinting", setup: func(t *testing.T, h *harness) {
			h.tick(2, 0.5, chasePos)
		}},
		{name: "reward given", setup: func(t *testing.T, h *harness) {
			h.tire(t, chasePos)
			h.m.hasGivenReward = true
		}},
		{name: "despawned", setup: func(t *testing.T, h *harness) {
			h.tire(t, chasePos)
			h.m.active = false
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig(), Deps{}, WithInitialState(StateRun))
			tt.setup(t, h)
			assert.False(t, h.m.PlayerContact())
			assert.Empty(t, h.rec.spawns)
		})
	}
}

func TestCaptureWaitsForDialogue(t *testing.T) {
	session := dialogue.NewManager(nil)
	asset := leafAsset()
	speaker := dialogue.NewSpeaker("Pip the Keeper", asset, session, nil)
	h := newHarness(t, testConfig(), Deps{Session: session, Speaker: speaker}, WithInitialState(StateRun))
	h.tire(t, chasePos)

	require.True(t, h.m.PlayerContact())
	assert.True(t, h.m.InDialogue())
	assert.Equal(t, StateWaitingForDialogue, h.m.State())
	assert.True(t, session.Active())
	assert.Equal(t, "Pip the Keeper", session.Speaker())
	assert.Same(t, asset.Root, session.Current())
	assert.False(t, h.m.HasGivenReward())
	assert.Equal(t, 1, h.rec.hides)

	before := h.agent.commands
	h.tick(10, 0.5, chasePos)
	assert.Equal(t, before, h.agent.commands, "no navigation while in dialogue")
	assert.Equal(t, StateWaitingForDialogue, h.m.State())
	assert.Equal(t, 0.0, h.m.TimeInState())
	assert.False(t, h.m.PlayerContact())

	require.NoError(t, session.Select(0))
	assert.False(t, h.m.InDialogue())
	assert.True(t, h.m.HasGivenReward())
	assert.Equal(t, StateDie, h.m.State())
	assert.Len(t, h.rec.spawns, 1)
	assert.False(t, speaker.Enabled(), "dying NPCs stop talking")
}

func TestForceEndIssuesOneReward(t *testing.T) {
	session := dialogue.NewManager(nil)
	cfg := testConfig()
	cfg.FinalState = "disappear"
	h := newHarness(t, cfg, Deps{Session: session, Dialogue: leafAsset()}, WithInitialState(StateRun))
	h.tire(t, chasePos)
	require.True(t, h.m.PlayerContact())

	session.ForceEnd()
	session.ForceEnd()
	assert.Equal(t, StateDisappear, h.m.State())
	assert.Len(t, h.rec.spawns, 1)

	_, err := session.Start("Other", &dialogue.Node{ID: "x"})
	require.NoError(t, err)
	session.ForceEnd()
	assert.Len(t, h.rec.spawns, 1, "later sessions are not ours")
}

func TestPreemptedSessionCompletesCapture(t *testing.T) {
	session := dialogue.NewManager(nil)
	first := newHarness(t, testConfig(), Deps{Session: session, Dialogue: leafAsset()}, WithInitialState(StateRun))
	second := newHarness(t, testConfig(), Deps{Session: session, Dialogue: leafAsset()}, WithInitialState(StateRun))
	first.tire(t, chasePos)
	second.tire(t, chasePos)

	require.True(t, first.m.PlayerContact())
	require.True(t, second.m.PlayerContact())

	assert.False(t, first.m.InDialogue())
	assert.Equal(t, StateDie, first.m.State())
	assert.Len(t, first.rec.spawns, 1)

	assert.True(t, second.m.InDialogue())
	assert.Empty(t, second.rec.spawns)

	require.NoError(t, session.Select(0))
	assert.Equal(t, StateDie, second.m.State())
	assert.Len(t, second.rec.spawns, 1)
	assert.Len(t, first.rec.spawns, 1)
}

func TestSessionEndedDuringStartCompletesCapture(t *testing.T) {
	session := dialogue.NewManager(nil)
	// The player walked off before the first line was shown.
	session.OnStarted(func(dialogue.SessionID) { session.ForceEnd() })
	h := newHarness(t, testConfig(), Deps{Session: session, Dialogue: leafAsset()}, WithInitialState(StateRun))
	h.tire(t, chasePos)

	require.True(t, h.m.PlayerContact())
	assert.False(t, session.Active())
	assert.False(t, h.m.InDialogue())
	assert.True(t, h.m.HasGivenReward())
	assert.Equal(t, StateDie, h.m.State())

	h.tick(100, 0.5, chasePos)
	assert.False(t, h.m.InDialogue())
	assert.Len(t, h.rec.spawns, 1)
}

func TestCaptureRemembersRepeatingNode(t *testing.T) {
	session := dialogue.NewManager(nil)
	root := &dialogue.Node{ID: "caught", Text: "You again?", Repeating: true}
	speaker := dialogue.NewSpeaker("Pip", &dialogue.Asset{Root: root}, session, nil)
	h := newHarness(t, testConfig(), Deps{Session: session, Speaker: speaker}, WithInitialState(StateRun))
	h.tire(t, chasePos)

	require.True(t, h.m.PlayerContact())
	assert.Same(t, root, speaker.Repeating())
}

func TestRefusedSessionFallsBack(t *testing.T) {
	session := &refusingSession{}
	h := newHarness(t, testConfig(), Deps{Session: session, Dialogue: leafAsset()}, WithInitialState(StateRun))
	h.tire(t, chasePos)

	require.True(t, h.m.PlayerContact())
	assert.False(t, h.m.InDialogue())
	assert.Equal(t, StateDie, h.m.State())
	assert.Len(t, h.rec.spawns, 1)
	assert.Equal(t, 1, session.subscribed)
	assert.Equal(t, 1, session.cancelled)
}

func TestCaptureWithoutRewardPrefab(t *testing.T) {
	cfg := testConfig()
	cfg.Reward.Prefab = ""
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateRun))
	h.tire(t, chasePos)

	require.True(t, h.m.PlayerContact())
	assert.True(t, h.m.HasGivenReward())
	assert.Empty(t, h.rec.spawns)
	assert.Empty(t, h.rec.sounds)
}
