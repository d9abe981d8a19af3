package mission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

func TestKillEverybody(t *testing.T) {
	m := &mission.Mission{Kind: mission.KillEverybody}
	assert.False(t, m.UpdateState(mission.Snapshot{Foes: []string{"a"}}))
	assert.True(t, m.UpdateState(mission.Snapshot{}))
	assert.True(t, m.UpdateState(mission.Snapshot{Foes: []string{"late"}}), "ended stays ended")
}

func TestKillTargets(t *testing.T) {
	m := &mission.Mission{Kind: mission.KillTargets, Targets: []string{"boss"}}
	assert.False(t, m.UpdateState(mission.Snapshot{Foes: []string{"boss", "grunt"}}))
	assert.True(t, m.UpdateState(mission.Snapshot{Foes: []string{"grunt"}}))
}

func TestPosition_NeedsMinChars(t *testing.T) {
	goal := grid.Pos{X: 4, Y: 4}
	m := &mission.Mission{Kind: mission.Position, Positions: grid.NewSet(goal), MinChars: 2}
	assert.False(t, m.UpdateState(mission.Snapshot{Actor: "p1", ActorPos: grid.Pos{X: 1}}))
	assert.False(t, m.UpdateState(mission.Snapshot{Actor: "p1", ActorPos: goal}))
	assert.True(t, m.HasSucceeded("p1"))
	assert.False(t, m.UpdateState(mission.Snapshot{Actor: "p1", ActorPos: goal}), "same player counts once")
	assert.True(t, m.UpdateState(mission.Snapshot{Actor: "p2", ActorPos: goal}))
	assert.True(t, m.RemovesPlayer())
}

func TestTouchPosition_OnePlayerSuffices(t *testing.T) {
	goal := grid.Pos{X: 1, Y: 1}
	m := &mission.Mission{Kind: mission.TouchPosition, Positions: grid.NewSet(goal), MinChars: 3}
	assert.True(t, m.UpdateState(mission.Snapshot{Actor: "p1", ActorPos: goal}))
	assert.False(t, m.RemovesPlayer())
}

func TestTurnLimit_FailsAfterLimit(t *testing.T) {
	m := &mission.Mission{Kind: mission.TurnLimit, Limit: 3}
	assert.False(t, m.UpdateState(mission.Snapshot{Turn: 3}))
	assert.True(t, m.UpdateState(mission.Snapshot{Turn: 4}))
	assert.True(t, m.Failed)
	assert.False(t, m.Achieved())
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&mission.Mission{Kind: "escort"}).Validate())
	assert.Error(t, (&mission.Mission{Kind: mission.KillTargets}).Validate())
	assert.Error(t, (&mission.Mission{Kind: mission.Position}).Validate())
	assert.Error(t, (&mission.Mission{Kind: mission.TurnLimit}).Validate())
	assert.NoError(t, (&mission.Mission{Kind: mission.KillEverybody}).Validate())
}

func TestTracker_RequiresMain(t *testing.T) {
	_, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody}})
	assert.ErrorIs(t, err, mission.ErrNoMainMission)
}

func TestTracker_Status(t *testing.T) {
	goal := grid.Pos{X: 2}
	main := &mission.Mission{Kind: mission.Position, Main: true, Positions: grid.NewSet(goal), MinChars: 2}
	tr, err := mission.NewTracker([]*mission.Mission{main, {Kind: mission.KillEverybody}})
	require.NoError(t, err)

	assert.Equal(t, mission.Ongoing, tr.Status(2))
	assert.Equal(t, mission.Defeat, tr.Status(0))

	tr.Update(mission.Snapshot{Foes: []string{"f"}, Actor: "p1", ActorPos: goal})
	assert.Equal(t, mission.Victory, tr.Status(0), "a passed player rescues the level")
	assert.Equal(t, mission.Ongoing, tr.Status(1))

	tr.Update(mission.Snapshot{Foes: []string{"f"}, Actor: "p2", ActorPos: goal})
	assert.Equal(t, mission.Victory, tr.Status(0))
	assert.Equal(t, "victory", tr.Status(0).String())
}

func TestTracker_MainTurnLimitDefeat(t *testing.T) {
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.TurnLimit, Main: true, Limit: 2}})
	require.NoError(t, err)
	tr.Update(mission.Snapshot{Turn: 3})
	assert.Equal(t, mission.Defeat, tr.Status(3))
}

func TestTracker_Settle(t *testing.T) {
	fast := &mission.Mission{Kind: mission.TurnLimit, Limit: 5, GoldReward: 50}
	slow := &mission.Mission{Kind: mission.TurnLimit, Limit: 1}
	kill := &mission.Mission{Kind: mission.KillEverybody, GoldReward: 10}
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true}, fast, slow, kill})
	require.NoError(t, err)
	tr.Update(mission.Snapshot{Turn: 3})
	achieved := tr.Settle(3)
	assert.ElementsMatch(t, []*mission.Mission{fast, kill}, achieved)
}

func TestPropertyPosition_SucceededHasNoDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		goal := grid.Pos{X: 1, Y: 1}
		m := &mission.Mission{Kind: mission.Position, Positions: grid.NewSet(goal), MinChars: 10}
		steps := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 0, 20).Draw(t, "steps")
		for _, id := range steps {
			m.UpdateState(mission.Snapshot{Actor: id, ActorPos: goal})
		}
		seen := map[string]bool{}
		for _, id := range m.Succeeded {
			assert.False(t, seen[id])
			seen[id] = true
		}
	})
}
