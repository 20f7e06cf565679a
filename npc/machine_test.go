package npc

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsAtBase(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	assert.Equal(t, StateBase, h.m.State())
	base, ok := h.m.Base()
	assert.True(t, ok)
	assert.Equal(t, cp.Vector{}, base)
	assert.Equal(t, 0.5, h.agent.stopping)

	cfg := testConfig()
	cfg.Base.Enabled = false
	h = newHarness(t, cfg, Deps{})
	assert.Equal(t, StateIdle, h.m.State())
	_, ok = h.m.Base()
	assert.False(t, ok)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RunSlowFactor = 0
	_, err := New("pip", cfg, Deps{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New("pip", testConfig(), Deps{}, WithInitialState(StateWaitingForDialogue))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewWithoutAgentDegrades(t *testing.T) {
	m, err := New("pip", testConfig(), Deps{})
	require.NoError(t, err)
	m.Tick(1, cp.Vector{X: 1})
	assert.Equal(t, 0.0, m.TimeInState())
	assert.False(t, m.PlayerContact())
}

func TestIdleSeesPlayerAndRuns(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateIdle))
	require.True(t, h.m.CaptureEnabled(), "idle NPCs are catchable")

	h.m.Tick(0.1, cp.Vector{X: cfg.DetectionRange - 0.01})

	assert.Equal(t, StateRun, h.m.State())
	assert.False(t, h.m.CaptureEnabled())
	assert.True(t, h.m.Sprinting())
	assert.Equal(t, cfg.RunSpeed, h.agent.speed)
	require.NotEmpty(t, h.agent.destinations)
	assert.Less(t, h.agent.dest.X, 0.0, "flees away from the player")
}

func TestRunFastPhase(t *testing.T) {
	cfg := testConfig()
	player := cp.Vector{X: 10}
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateRun))

	h.tick(7, 0.5, player)
	assert.True(t, h.m.Sprinting())
	assert.False(t, h.m.CaptureEnabled())
	assert.Equal(t, cfg.RunSpeed, h.agent.speed)
	assert.False(t, h.m.PlayerContact(), "sprinting NPCs cannot be caught")

	h.m.Tick(0.51, player)
	assert.False(t, h.m.Sprinting())
	assert.True(t, h.m.CaptureEnabled())
	assert.InDelta(t, cfg.RunSpeed*0.6, h.agent.speed, 1e-9)

	h.tick(20, 0.5, player)
	assert.Equal(t, StateRun, h.m.State())
	assert.True(t, h.m.CaptureEnabled(), "stays catchable until the state changes")
}

func TestRunToIdleWhenSafe(t *testing.T) {
	cfg := testConfig()
	cfg.Base.Enabled = false
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateRun))

	h.m.Tick(0.1, cp.Vector{X: cfg.SafeDistance + 1})
	assert.Equal(t, StateIdle, h.m.State())
}

func TestIdleTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    State
	}{
		{name: "find", timeout: "find", want: StateFind},
		{name: "taunt", timeout: "taunt", want: StateTaunt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.IdleTimeoutState = tt.timeout
			player := cp.Vector{X: 15}
			h := newHarness(t, cfg, Deps{}, WithInitialState(StateIdle))

			h.tick(6, 0.5, player)
			assert.Equal(t, StateIdle, h.m.State())

			h.m.Tick(0.5, player)
			assert.Equal(t, tt.want, h.m.State())
			assert.Equal(t, 0.0, h.m.TimeInState())
		})
	}
}

func TestContactResetsIdleTimeout(t *testing.T) {
	player := cp.Vector{X: 15}
	h := newHarness(t, testConfig(), Deps{}, WithInitialState(StateIdle))

	h.tick(5, 0.5, player)
	assert.False(t, h.m.PlayerContact(), "idle contact is not a capture")
	h.tick(5, 0.5, player)
	assert.Equal(t, StateIdle, h.m.State())
}

func TestFindApproachesToTriggerDistance(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateFind))
	assert.False(t, h.m.CaptureEnabled())

	h.m.Tick(0.1, cp.Vector{X: 10})
	assert.Equal(t, StateFind, h.m.State())
	assert.Equal(t, cfg.ApproachSpeed, h.agent.speed)
	assert.InDelta(t, 5.0, h.agent.dest.X, 1e-9)
	assert.InDelta(t, 0.0, h.agent.dest.Y, 1e-9)

	h.m.Tick(0.1, cp.Vector{X: cfg.RunTriggerDistance - 0.5})
	assert.Equal(t, StateRun, h.m.State())
}

func TestBaseReturnPreemption(t *testing.T) {
	far := cp.Vector{X: 25}
	tests := []struct {
		name  string
		start State
		want  State
	}{
		{name: "idle", start: StateIdle, want: StateBase},
		{name: "find", start: StateFind, want: StateBase},
		{name: "run", start: StateRun, want: StateBase},
		{name: "taunt", start: StateTaunt, want: StateBase},
		{name: "die", start: StateDie, want: StateDie},
		{name: "disappear", start: StateDisappear, want: StateDisappear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig(), Deps{}, WithInitialState(tt.start))
			h.m.Tick(0.1, far)
			assert.Equal(t, tt.want, h.m.State())
		})
	}
}

func TestBaseReturnWhenFarFromBase(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{}, WithBase(cp.Vector{}), WithInitialState(StateIdle))
	h.agent.pos = cp.Vector{X: 31}

	h.m.Tick(0.1, cp.Vector{X: 31, Y: 12})
	assert.Equal(t, StateBase, h.m.State())
	assert.Equal(t, cp.Vector{}, h.agent.dest)
	assert.False(t, h.agent.stopped)
}

func TestBaseBehavior(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, Deps{})

	h.m.Tick(0.1, cp.Vector{X: 40})
	assert.Equal(t, StateBase, h.m.State())
	assert.True(t, h.agent.stopped, "holds position at base")
	assert.NotEmpty(t, h.agent.nudges)

	h.m.Tick(0.1, cp.Vector{Y: 15})
	assert.Equal(t, StateIdle, h.m.State())
}

func TestBaseFacesNearbyPlayer(t *testing.T) {
	cfg := testConfig()
	cfg.Base.ReturnDistance = 1
	h := newHarness(t, cfg, Deps{}, WithBase(cp.Vector{X: 0.8}))

	h.m.Tick(0.1, cp.Vector{Y: 12})
	assert.Equal(t, StateBase, h.m.State(), "NPC is outside 70% of the return radius")
	assert.InDelta(t, 1.0, h.agent.facing.Length(), 1e-9)
	assert.Greater(t, h.agent.facing.Y, 0.9)
}

func TestRunTriggerFromBase(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	h.m.Tick(0.1, cp.Vector{X: 3})
	assert.Equal(t, StateRun, h.m.State())
}

func TestTauntFlipsToRun(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateTaunt))
	assert.Equal(t, cfg.TauntSpeed, h.agent.speed)

	h.m.Tick(0.1, cp.Vector{X: 6})
	assert.Equal(t, StateTaunt, h.m.State())
	assert.Equal(t, cp.Vector{X: 6}, h.agent.dest)

	h.m.Tick(0.1, cp.Vector{X: cfg.DetectionRange/2 - 0.1})
	assert.Equal(t, StateRun, h.m.State())
}

func TestEscapeDespawns(t *testing.T) {
	tests := []struct {
		name      string
		final     State
		permanent bool
	}{
		{name: "die hides", final: StateDie},
		{name: "disappear removes", final: StateDisappear, permanent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RemovePermanently = tt.permanent
			h := newHarness(t, cfg, Deps{}, WithInitialState(tt.final))

			h.m.Tick(0.1, cp.Vector{X: 40})
			assert.True(t, h.m.Active())

			h.m.Tick(0.1, cp.Vector{X: 51})
			assert.False(t, h.m.Active())
			assert.Equal(t, tt.permanent, h.m.Removed())
			assert.Equal(t, []despawn{{name: "pip", permanent: tt.permanent}}, h.rec.despawns)

			h.m.Tick(0.1, cp.Vector{X: 1})
			assert.Equal(t, tt.final, h.m.State())
			assert.Len(t, h.rec.despawns, 1)
		})
	}
}

func TestNavSampleRetry(t *testing.T) {
	cfg := testConfig()
	cfg.NavRetryDelay = 0.25
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateIdle))
	h.mesh.fail = true
	player := cp.Vector{X: 15}

	h.m.Tick(0.125, player)
	assert.Equal(t, 1, h.mesh.samples)

	h.m.Tick(0.125, player)
	assert.Equal(t, 1, h.mesh.samples, "waits out the retry delay")

	h.m.Tick(0.125, player)
	assert.Equal(t, 2, h.mesh.samples)

	h.mesh.fail = false
	h.tick(2, 0.125, player)
	assert.Equal(t, 3, h.mesh.samples)
	assert.NotEmpty(t, h.agent.destinations)
}

func TestIdleRepicksOnlyOnArrival(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{}, WithInitialState(StateIdle))
	player := cp.Vector{X: 15}

	h.agent.remaining = 5
	h.tick(3, 0.1, player)
	assert.Empty(t, h.agent.destinations)

	h.agent.remaining = 0.9
	h.m.Tick(0.1, player)
	assert.Len(t, h.agent.destinations, 1)
	assert.LessOrEqual(t, h.agent.dest.Length(), 18.0)
}

func TestTransitionHook(t *testing.T) {
	type change struct{ from, to State }
	var changes []change
	h := newHarness(t, testConfig(), Deps{}, WithInitialState(StateIdle),
		WithTransitionHook(func(from, to State) { changes = append(changes, change{from, to}) }))

	h.m.Tick(0.1, cp.Vector{X: 7})
	assert.Equal(t, []change{{StateIdle, StateRun}}, changes)
}

func TestReconfigureKeepsRuntimeState(t *testing.T) {
	cfg := testConfig()
	player := cp.Vector{X: 10}
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateRun))
	h.tick(4, 0.5, player)

	next := cfg
	next.RunSpeed = 12
	next.StoppingDistance = 1
	require.NoError(t, h.m.Reconfigure(next))
	assert.Equal(t, StateRun, h.m.State())
	assert.True(t, h.m.Sprinting())
	assert.Equal(t, 1.0, h.agent.stopping)

	h.m.Tick(0.5, player)
	assert.Equal(t, 12.0, h.agent.speed)

	h.tick(3, 0.5, player)
	assert.False(t, h.m.Sprinting(), "run timer carried over")

	bad := cfg
	bad.FinalState = "explode"
	assert.ErrorIs(t, h.m.Reconfigure(bad), ErrInvalidConfig)
	assert.Equal(t, 12.0, h.m.Config().RunSpeed)
}

func TestBarks(t *testing.T) {
	cfg := testConfig()
	cfg.Barks.Idle = []string{"Can't find me!"}
	cfg.Barks.Run = []string{"Eek!"}
	cfg.FindDelay = 100
	h := newHarness(t, cfg, Deps{}, WithInitialState(StateIdle))
	player := cp.Vector{X: 15}

	h.tick(4, 1, player)
	require.Len(t, h.rec.barks, 2, "shown on entry and again after the interval")
	assert.Equal(t, bark{speaker: "pip", line: "Can't find me!"}, h.rec.barks[0])

	h.m.Tick(0.1, cp.Vector{X: 7})
	require.Equal(t, StateRun, h.m.State())
	require.Len(t, h.rec.barks, 3)
	assert.Equal(t, "Eek!", h.rec.barks[2].line)
}

func TestWobble(t *testing.T) {
	w := Wobble{}
	assert.Equal(t, cp.Vector{X: 0, Y: 0.5}, w.Offset(1, 0.5))

	w.Advance(0.25)
	assert.Equal(t, 0.5, w.Phase)
	e := w.Erratic(2, 1)
	assert.InDelta(t, 0.997494986604, e.X, 1e-9)
	assert.InDelta(t, 0.540302305868, e.Y, 1e-9)
}
