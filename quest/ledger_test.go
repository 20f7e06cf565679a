package quest

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hideseek/inventory"
)

type spawnRecord struct {
	prefab string
	at     cp.Vector
}

type world struct {
	spawns []spawnRecord
	sounds []string
}

func (w *world) SpawnReward(prefab string, at cp.Vector) {
	w.spawns = append(w.spawns, spawnRecord{prefab: prefab, at: at})
}

func (w *world) Play(name string) { w.sounds = append(w.sounds, name) }

func newQuest(id, item string) *Quest {
	return &Quest{ID: id, Name: id, ItemID: item, Reward: Reward{Prefab: "reward_" + id, Offset: cp.Vector{X: 0, Y: 2}}}
}

func setup(t *testing.T, opts ...Option) (*Ledger, *inventory.Inventory, *world) {
	t.Helper()
	inv := inventory.New(8)
	w := &world{}
	base := []Option{
		WithRewards(w),
		WithSounds(w),
		WithAnchor(func() cp.Vector { return cp.Vector{X: 10, Y: 10} }),
	}
	return NewLedger(inv, append(base, opts...)...), inv, w
}

func TestCheckGoal(t *testing.T) {
	l, inv, _ := setup(t)
	assert.False(t, l.CheckGoal(), "no active quest")

	require.NoError(t, l.Activate(newQuest("lost_amulet", "amulet")))
	assert.False(t, l.CheckGoal())
	assert.False(t, l.GoalAchieved())

	_, err := inv.Add(inventory.Item{ID: "amulet"})
	require.NoError(t, err)
	assert.True(t, l.CheckGoal())
	assert.True(t, l.GoalAchieved())
}

func TestFinishWithoutGoalIsNoop(t *testing.T) {
	l, _, w := setup(t)
	q := newQuest("lost_amulet", "amulet")
	require.NoError(t, l.Activate(q))

	assert.False(t, l.Finish())
	assert.Same(t, q, l.Current())
	assert.Empty(t, w.spawns)
	assert.False(t, l.Completed(q.ID))
}

func TestFinishTwiceConsumesOneItem(t *testing.T) {
	l, inv, w := setup(t)
	q := newQuest("lost_amulet", "amulet")
	require.NoError(t, l.Activate(q))
	_, _ = inv.Add(inventory.Item{ID: "amulet"})
	_, _ = inv.Add(inventory.Item{ID: "amulet"})

	assert.True(t, l.Finish())
	assert.False(t, l.Finish())

	assert.Equal(t, 1, inv.Count("amulet"))
	assert.Nil(t, l.Current())
	assert.False(t, l.GoalAchieved())
	assert.True(t, l.Completed(q.ID))
	require.Len(t, w.spawns, 1)
	assert.Equal(t, "reward_lost_amulet", w.spawns[0].prefab)
	assert.Equal(t, cp.Vector{X: 10, Y: 12}, w.spawns[0].at)
	assert.Equal(t, []string{"Reward"}, w.sounds)
}

func TestFinishWithoutRewardPrefab(t *testing.T) {
	l, inv, w := setup(t)
	q := &Quest{ID: "errand", ItemID: "letter"}
	require.NoError(t, l.Activate(q))
	_, _ = inv.Add(inventory.Item{ID: "letter"})

	assert.True(t, l.Finish())
	assert.Empty(t, w.spawns)
	assert.False(t, inv.HasItem("letter"))
}

func TestActivatePolicies(t *testing.T) {
	first := newQuest("first", "a")
	second := newQuest("second", "b")

	t.Run("replace", func(t *testing.T) {
		l, _, _ := setup(t)
		require.NoError(t, l.Activate(first))
		require.NoError(t, l.Activate(second))
		assert.Same(t, second, l.Current())
	})

	t.Run("reject", func(t *testing.T) {
		l, _, _ := setup(t, WithPolicy(PolicyReject))
		require.NoError(t, l.Activate(first))
		assert.ErrorIs(t, l.Activate(second), ErrQuestActive)
		assert.Same(t, first, l.Current())
		assert.NoError(t, l.Activate(first), "re-activating the same quest is allowed")
	})

	t.Run("nil", func(t *testing.T) {
		l, _, _ := setup(t)
		assert.ErrorIs(t, l.Activate(nil), ErrNilQuest)
	})
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, p)
	assert.Equal(t, "reject", p.String())

	_, err = ParsePolicy("queue")
	assert.Error(t, err)
}
