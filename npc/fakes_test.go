package npc

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hideseek/dialogue"
)

// fakeAgent never moves on its own; tests place it explicitly.
type fakeAgent struct {
	pos       cp.Vector
	vel       cp.Vector
	dest      cp.Vector
	facing    cp.Vector
	remaining float64
	pending   bool
	stopping  float64
	speed     float64
	stopped   bool

	destinations []cp.Vector
	nudges       []cp.Vector
	commands     int
}

func (a *fakeAgent) Position() cp.Vector { return a.pos }
func (a *fakeAgent) Velocity() cp.Vector { return a.vel }
func (a *fakeAgent) Destination() cp.Vector { return a.dest }
func (a *fakeAgent) RemainingDistance() float64 { return a.remaining }
func (a *fakeAgent) PathPending() bool { return a.pending }
func (a *fakeAgent) StoppingDistance() float64 { return a.stopping }
func (a *fakeAgent) Speed() float64 { return a.speed }
func (a *fakeAgent) Stopped() bool { return a.stopped }
func (a *fakeAgent) Facing() cp.Vector { return a.facing }

func (a *fakeAgent) SetStoppingDistance(d float64) { a.stopping = d }

func (a *fakeAgent) SetDestination(p cp.Vector) bool {
	a.commands++
	a.dest = p
	a.destinations = append(a.destinations, p)
	return true
}

func (a *fakeAgent) SetSpeed(speed float64) {
	a.commands++
	a.speed = speed
}

func (a *fakeAgent) SetStopped(stopped bool) {
	a.commands++
	a.stopped = stopped
}

func (a *fakeAgent) Nudge(offset cp.Vector) {
	a.commands++
	a.nudges = append(a.nudges, offset)
}

func (a *fakeAgent) SetFacing(dir cp.Vector) {
	a.commands++
	a.facing = dir
}

type fakeMesh struct {
	fail    bool
	samples int
}

func (m *fakeMesh) SampleWalkable(point cp.Vector, radius float64) (cp.Vector, bool) {
	m.samples++
	if m.fail {
		return cp.Vector{}, false
	}
	return point, true
}

type spawn struct {
	prefab string
	at     cp.Vector
}

type despawn struct {
	name      string
	permanent bool
}

type bark struct {
	speaker string
	line    string
}

// recorder implements every fire-and-forget port.
type recorder struct {
	spawns   []spawn
	sounds   []string
	despawns []despawn
	barks    []bark
	hides    int
}

func (r *recorder) SpawnReward(prefab string, at cp.Vector) {
	r.spawns = append(r.spawns, spawn{prefab: prefab, at: at})
}

func (r *recorder) Play(name string) { r.sounds = append(r.sounds, name) }

func (r *recorder) Despawn(name string, permanent bool) {
	r.despawns = append(r.despawns, despawn{name: name, permanent: permanent})
}

func (r *recorder) Show(speaker, line string, duration float64) {
	r.barks = append(r.barks, bark{speaker: speaker, line: line})
}

func (r *recorder) HideImmediate() { r.hides++ }

type refusingSession struct {
	subscribed int
	cancelled  int
}

func (s *refusingSession) Start(string, *dialogue.Node, ...dialogue.StartOption) (dialogue.SessionID, error) {
	return 0, dialogue.ErrNilNode
}

func (s *refusingSession) Active() bool { return false }

func (s *refusingSession) OnEnded(func(dialogue.SessionID)) func() {
	s.subscribed++
	return func() { s.cancelled++ }
}

func (s *refusingSession) ForceEnd() {}

type harness struct {
	m     *Machine
	agent *fakeAgent
	mesh  *fakeMesh
	rec   *recorder
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Reward.Prefab = "amulet_pickup"
	return cfg
}

func newHarness(t *testing.T, cfg Config, deps Deps, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		agent: &fakeAgent{},
		mesh:  &fakeMesh{},
		rec:   &recorder{},
	}
	if deps.Agent == nil {
		deps.Agent = h.agent
	}
	if deps.Mesh == nil {
		deps.Mesh = h.mesh
	}
	deps.Rewards = h.rec
	deps.Sounds = h.rec
	deps.Despawner = h.rec
	if deps.Barks == nil {
		deps.Barks = h.rec
	}
	deps.Rand = rand.New(rand.NewSource(1))

	m, err := New("pip", cfg, deps, opts...)
	require.NoError(t, err)
	h.m = m
	return h
}

// tick advances n ticks of dt with the player at p.
func (h *harness) tick(n int, dt float64, p cp.Vector) {
	for i := 0; i < n; i++ {
		h.m.Tick(dt, p)
	}
}

// tire puts the NPC in the slow, catchable phase of Run.
func (h *harness) tire(t *testing.T, player cp.Vector) {
	t.Helper()
	require.Equal(t, StateRun, h.m.State())
	h.tick(8, 0.5, player)
	require.False(t, h.m.Sprinting())
	require.True(t, h.m.CaptureEnabled())
}

func leafAsset() *dialogue.Asset {
	return &dialogue.Asset{Root: &dialogue.Node{ID: "caught", Text: "You got me!"}}
}
