package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

func TestStartGame_TurnAndHooks(t *testing.T) {
	l, scripts := newLevel(t, dice.FixedSource{})
	l.Players = append(l.Players, newPlayer("Raimund", grid.Pos{X: 1, Y: 1}))
	l.Foes = append(l.Foes, newFoe("Orc", grid.Pos{X: 7, Y: 7}, 10))
	l.Events.AfterInit = &level.Event{Dialogs: []level.Dialog{{Title: "Intro", Lines: []string{"Go!"}}}}

	l.Enter()
	assert.Equal(t, level.PhaseInitialization, l.Phase())
	assert.Equal(t, 0, l.Turn())

	require.NoError(t, l.StartGame())
	assert.Equal(t, level.PhaseInProgress, l.Phase())
	assert.Equal(t, 1, l.Turn())
	assert.Equal(t, []string{"before_init", "after_init", "turn_start"}, scripts.calls)
	d, ok := l.PendingDialog()
	require.True(t, ok)
	assert.Equal(t, "Intro", d.Title)
	l.CloseDialog()
	_, ok = l.PendingDialog()
	assert.False(t, ok)

	assert.ErrorIs(t, l.StartGame(), level.ErrWrongPhase)
}

func TestSwapPlacement(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	a := newPlayer("A", grid.Pos{X: 0, Y: 0})
	b := newPlayer("B", grid.Pos{X: 1, Y: 0})
	l.Players = append(l.Players, a, b)
	l.PlacementArea = grid.NewSet(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 1, Y: 0}, grid.Pos{X: 2, Y: 0})

	require.NoError(t, l.SwapPlacement(a.Pos, b.Pos))
	assert.Equal(t, grid.Pos{X: 1, Y: 0}, a.Pos)
	assert.Equal(t, grid.Pos{X: 0, Y: 0}, b.Pos)
	require.NoError(t, l.SwapPlacement(b.Pos, grid.Pos{X: 2, Y: 0}))
	assert.ErrorIs(t, l.SwapPlacement(a.Pos, grid.Pos{X: 5, Y: 5}), level.ErrNotPlacement)
}

func TestCampRotation_AIActsAndTurnAdvances(t *testing.T) {
	l, scripts := newLevel(t, dice.FixedSource{Val: 99})
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	f := newFoe("Orc", grid.Pos{X: 3, Y: 0}, 50)
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, f)
	started(t, l)

	require.NoError(t, l.SelectPlayer(p))
	require.NoError(t, l.Wait())
	assert.True(t, p.TurnFinished)

	l.Update() // player camp done -> allies
	assert.Equal(t, level.CampAllies, l.Camp())
	l.Update() // no allies -> foes
	assert.Equal(t, level.CampFoes, l.Camp())
	l.Update() // orc moves next to Raimund and strikes
	assert.Equal(t, grid.Pos{X: 1, Y: 0}, f.Pos)
	assert.Equal(t, 18, p.HP)
	assert.True(t, l.Animating())
	for l.Animating() {
		l.Update()
	}
	l.Update() // foes done -> player, turn 2
	assert.Equal(t, level.CampPlayer, l.Camp())
	assert.Equal(t, 2, l.Turn())
	assert.False(t, p.TurnFinished)
	assert.Equal(t, "turn_start", scripts.calls[len(scripts.calls)-1])
}

func TestUpdate_VictoryWhenMainMissionEnds(t *testing.T) {
	l, scripts := newLevel(t, dice.FixedSource{Val: 99})
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	p.Strength = 50
	f := newFoe("Orc", grid.Pos{X: 1, Y: 0}, 5)
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, f)
	started(t, l)

	menuFor(t, l, p)
	require.NoError(t, l.PrepareAttack())
	require.NoError(t, l.Attack(f.Pos))
	assert.Empty(t, l.Foes)

	l.Update()
	assert.Equal(t, level.PhaseVictory, l.Phase())
	assert.GreaterOrEqual(t, l.Turn(), 1)
	assert.Equal(t, "at_end", scripts.calls[len(scripts.calls)-1])
}

func TestUpdate_DefeatWhenNoPlayersLeft(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{Val: 99})
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	p.HP = 1
	f := newFoe("Orc", grid.Pos{X: 1, Y: 0}, 5)
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, f)
	started(t, l)

	require.NoError(t, l.EndCampTurn())
	drain(l, 20)
	assert.Equal(t, level.PhaseDefeat, l.Phase())
	assert.Empty(t, l.Players)
}

func TestMissionPosition_PlayerLeavesAndWins(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	goal := grid.Pos{X: 2, Y: 0}
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.Position, Main: true, Positions: grid.NewSet(goal), MinChars: 1}})
	require.NoError(t, err)
	l.Missions = tr
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Orc", grid.Pos{X: 7, Y: 7}, 5))
	started(t, l)

	require.NoError(t, l.SelectPlayer(p))
	require.NoError(t, l.MovePlayer(goal))
	assert.Empty(t, l.Players)
	require.Len(t, l.Passed, 1)
	assert.Same(t, p, l.Passed[0])
	assert.True(t, l.Missions.Main().HasSucceeded(p.ID))

	for l.Animating() {
		l.Update()
	}
	l.Update()
	assert.Equal(t, level.PhaseVictory, l.Phase())
}

func TestMissionRewards_PaidAtVictory(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{Val: 99})
	opt := &mission.Mission{Kind: mission.TurnLimit, Limit: 5, GoldReward: 30, Description: "Be quick", ItemRewards: []*item.Item{potion()}}
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true}, opt})
	require.NoError(t, err)
	l.Missions = tr
	p := newPlayer("Raimund", grid.Pos{})
	l.Players = append(l.Players, p)
	started(t, l)

	l.Update()
	assert.Equal(t, level.PhaseVictory, l.Phase())
	assert.Equal(t, 30, p.Gold())
	assert.Equal(t, 1, p.Inventory.Len())
}

func TestSelectPlayer_Errors(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	p := newPlayer("Raimund", grid.Pos{})
	l.Players = append(l.Players, p)
	assert.ErrorIs(t, l.SelectPlayer(p), level.ErrWrongPhase)
	started(t, l)
	p.TurnFinished = true
	assert.ErrorIs(t, l.SelectPlayer(p), level.ErrTurnFinished)
	assert.True(t, level.IsValidation(level.ErrTurnFinished))
}

func TestMovePlayer_UnreachableAndPath(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	p := newPlayer("Raimund", grid.Pos{})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Orc", grid.Pos{X: 7, Y: 7}, 5))
	started(t, l)

	require.NoError(t, l.SelectPlayer(p))
	assert.Equal(t, 0, l.PossibleMoves[grid.Pos{}])
	assert.ErrorIs(t, l.MovePlayer(grid.Pos{X: 5}), level.ErrUnreachable)
	require.NoError(t, l.MovePlayer(grid.Pos{X: 2, Y: 1}))
	assert.Equal(t, grid.Pos{X: 2, Y: 1}, p.Pos)
	assert.Equal(t, level.StageMenu, l.Stage())
	assert.ErrorIs(t, l.Wait(), level.ErrAnimating)
	for l.Animating() {
		l.Update()
	}
	require.NoError(t, l.Wait())
	assert.True(t, p.TurnFinished)
}

func TestCancelMove_RestoresPosition(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	p := newPlayer("Raimund", grid.Pos{})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Orc", grid.Pos{X: 7, Y: 7}, 5))
	started(t, l)

	require.NoError(t, l.SelectPlayer(p))
	require.NoError(t, l.MovePlayer(grid.Pos{X: 1, Y: 1}))
	for l.Animating() {
		l.Update()
	}
	require.NoError(t, l.CancelMove())
	assert.Equal(t, grid.Pos{}, p.Pos)
	assert.Nil(t, l.Selected)
	assert.False(t, p.TurnFinished)
	assert.Equal(t, level.StageIdle, l.Stage())
}

func TestPreviewRange(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	f := newFoe("Orc", grid.Pos{X: 4, Y: 4}, 5)
	l.Foes = append(l.Foes, f)
	require.NoError(t, l.PreviewRange(f.Pos))
	require.NotNil(t, l.Preview)
	assert.Len(t, l.Preview.Moves, 13)
	assert.True(t, l.Preview.Attacks.Has(grid.Pos{X: 4, Y: 1}))
	assert.ErrorIs(t, l.PreviewRange(grid.Pos{}), level.ErrNoTarget)
	assert.Nil(t, l.Preview)
}

func TestValidate(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{}, grid.Pos{X: 3, Y: 3})
	l.Players = append(l.Players, newPlayer("A", grid.Pos{}))
	require.NoError(t, l.Validate())

	l.Foes = append(l.Foes, newFoe("Orc", grid.Pos{}, 1))
	assert.ErrorContains(t, l.Validate(), "share tile")
	l.Foes[0].Pos = grid.Pos{X: 3, Y: 3}
	assert.ErrorContains(t, l.Validate(), "blocked tile")
	l.Foes = nil

	a := &entity.Portal{Base: entity.NewBase("A", "portal", grid.Pos{X: 5})}
	b := &entity.Portal{Base: entity.NewBase("B", "portal", grid.Pos{X: 6})}
	a.LinkedTo = b.ID
	l.Portals = append(l.Portals, a, b)
	assert.ErrorContains(t, l.Validate(), "mutually linked")
	entity.Link(a, b)
	assert.NoError(t, l.Validate())
}

func TestRestore(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	l.Restore(level.PhaseInProgress, 4, level.CampFoes)
	assert.Equal(t, level.PhaseInProgress, l.Phase())
	assert.Equal(t, 4, l.Turn())
	assert.Equal(t, level.CampFoes, l.Camp())
	assert.Panics(t, func() { l.Restore(level.PhaseInProgress, 0, level.CampPlayer) })
}

func TestScriptEngineAPI(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{})
	p := newPlayer("Raimund", grid.Pos{})
	p.HP = 5
	l.Players = append(l.Players, p)
	require.NoError(t, l.GiveGold("Raimund", 12))
	require.NoError(t, l.HealPlayer("Raimund", 3))
	assert.Equal(t, 12, p.Gold())
	assert.Equal(t, 8, p.HP)
	assert.ErrorIs(t, l.GiveGold("Nobody", 1), level.ErrUnknownEntity)
	l.AddDiary("hello")
	assert.Equal(t, "hello", l.Diary.Last())
}

func TestAutopilot_PlayersFightWithoutInput(t *testing.T) {
	l, _ := newLevel(t, dice.FixedSource{Val: 99})
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	p.Strength = 50
	f := newFoe("Orc", grid.Pos{X: 2, Y: 0}, 5)
	f.Strategy = entity.StrategyStatic
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, f)
	started(t, l)

	l.SetAutopilot(true)
	assert.True(t, l.Autopilot())
	l.Update()
	assert.NotEqual(t, grid.Pos{X: 0, Y: 0}, p.Pos, "Raimund walked up to the orc")
	assert.Empty(t, l.Foes)
	assert.True(t, p.TurnFinished)

	drain(l, 50)
	assert.Equal(t, level.PhaseVictory, l.Phase())
}
