package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/input"
)

const tile = 32

func px(p grid.Pos) (int, int) { return p.X*tile + tile/2, p.Y*tile + tile/2 }

func newLevel(t *testing.T) *level.Level {
	t.Helper()
	l := level.New(0, "Test", grid.NewMap(grid.Size{Width: 8, Height: 8}), level.DefaultConfig(), level.Deps{
		Logger: zap.NewNop(),
		Roller: dice.NewLoggedRoller(dice.FixedSource{Val: 99}, zap.NewNop()),
	})
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true}})
	require.NoError(t, err)
	l.Missions = tr
	return l
}

func newPlayer(name string, at grid.Pos) *entity.Player {
	m := entity.NewMovable(entity.NewBase(name, name, at), entity.Stats{HPMax: 20, Strength: 5, MaxMoves: 3}, 4)
	return &entity.Player{Character: entity.Character{Movable: m, Race: "human", Classes: []string{"warrior"}}}
}

func newFoe(name string, at grid.Pos) *entity.Foe {
	m := entity.NewMovable(entity.NewBase(name, name, at), entity.Stats{HPMax: 10, Strength: 2, MaxMoves: 2}, 1)
	return &entity.Foe{Movable: m, XPGain: 3, Strategy: entity.StrategyStatic}
}

func click(t *testing.T, a *input.Adapter, b input.Button, p grid.Pos) error {
	t.Helper()
	x, y := px(p)
	return a.Click(b, x, y)
}

func choose(t *testing.T, a *input.Adapter, cmd input.Command, arg string) input.Request {
	t.Helper()
	m := a.Menus().Active()
	require.NotNil(t, m, "no menu open")
	for i, e := range m.Entries {
		if e.Command == cmd && e.Arg == arg {
			req, err := a.Choose(i)
			require.NoError(t, err)
			return req
		}
	}
	t.Fatalf("menu %s has no %s(%s) entry", m.Kind, cmd, arg)
	return input.RequestNone
}

func TestAdapter_SelectMoveAndCancel(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 1, Y: 1})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	assert.Equal(t, level.StageChoosingMove, l.Stage())
	require.NoError(t, click(t, a, input.ButtonLeft, grid.Pos{X: 3, Y: 2}))
	assert.Equal(t, grid.Pos{X: 3, Y: 2}, p.Pos)
	require.NotNil(t, a.Menus().Active())
	assert.Equal(t, input.MenuCharacter, a.Menus().Active().Kind)

	// A click on the map is swallowed while the character menu is open.
	require.NoError(t, click(t, a, input.ButtonLeft, grid.Pos{X: 0, Y: 0}))
	assert.Equal(t, grid.Pos{X: 3, Y: 2}, p.Pos)

	require.NoError(t, click(t, a, input.ButtonRight, grid.Pos{X: 0, Y: 0}))
	assert.Equal(t, grid.Pos{X: 1, Y: 1}, p.Pos)
	assert.Zero(t, a.Menus().Len())
	assert.Nil(t, l.Selected)
}

func TestAdapter_UnreachableMoveIsValidationError(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	err := click(t, a, input.ButtonLeft, grid.Pos{X: 6, Y: 6})
	assert.ErrorIs(t, err, level.ErrUnreachable)
	assert.True(t, level.IsValidation(err))
	assert.Zero(t, a.Menus().Len())
}

func TestAdapter_AttackThroughMenu(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 1, Y: 1})
	f := newFoe("Skeleton", grid.Pos{X: 2, Y: 1})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, f, newFoe("Sentinel", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	choose(t, a, input.CmdAttack, "")
	assert.Equal(t, level.StageChoosingAttack, l.Stage())
	assert.False(t, a.Menus().Blocking())

	// Right click steps back to the character menu.
	require.NoError(t, click(t, a, input.ButtonRight, f.Pos))
	assert.Equal(t, level.StageMenu, l.Stage())
	assert.True(t, a.Menus().Blocking())

	choose(t, a, input.CmdAttack, "")
	require.NoError(t, click(t, a, input.ButtonLeft, f.Pos))
	assert.Less(t, f.HP, f.HPMax)
	assert.True(t, p.TurnFinished)
	assert.Zero(t, a.Menus().Len())
}

func TestAdapter_RightClickPreviewsFoe(t *testing.T) {
	l := newLevel(t)
	l.Players = append(l.Players, newPlayer("Raimund", grid.Pos{X: 0, Y: 0}))
	f := newFoe("Skeleton", grid.Pos{X: 5, Y: 5})
	l.Foes = append(l.Foes, f)
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonRight, f.Pos))
	require.NotNil(t, l.Preview)
	assert.Same(t, f, l.Preview.Entity)

	require.NoError(t, click(t, a, input.ButtonRight, grid.Pos{X: 2, Y: 2}))
	assert.Nil(t, l.Preview)
}

func TestAdapter_PlacementDragAndStart(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	l.PlacementArea = grid.NewSet(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 1, Y: 0})
	a := input.NewAdapter(l, tile, zap.NewNop())

	x, y := px(p.Pos)
	a.ButtonDown(input.ButtonLeft, x, y)
	require.NoError(t, click(t, a, input.ButtonLeft, grid.Pos{X: 1, Y: 0}))
	assert.Equal(t, grid.Pos{X: 1, Y: 0}, p.Pos)

	require.NoError(t, click(t, a, input.ButtonLeft, grid.Pos{X: 4, Y: 4}))
	require.Equal(t, input.MenuMain, a.Menus().Active().Kind)
	choose(t, a, input.CmdStart, "")
	assert.Equal(t, level.PhaseInProgress, l.Phase())
	assert.Zero(t, a.Menus().Len())
}

func TestAdapter_MainMenuRequests(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 0, Y: 0})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, grid.Pos{X: 4, Y: 4}))
	assert.Equal(t, input.RequestSave, choose(t, a, input.CmdSave, ""))

	require.NoError(t, click(t, a, input.ButtonLeft, grid.Pos{X: 4, Y: 4}))
	choose(t, a, input.CmdEndTurn, "")
	assert.True(t, p.TurnFinished)
}

func TestAdapter_TradeAndCancelRestoresInventories(t *testing.T) {
	l := newLevel(t)
	a1 := newPlayer("Raimund", grid.Pos{X: 1, Y: 1})
	b := newPlayer("Braern", grid.Pos{X: 2, Y: 1})
	potion := item.New("potion", "Potion", item.KindConsumable, 20)
	require.NoError(t, a1.Inventory.Set(potion))
	a1.Earn(30)
	l.Players = append(l.Players, a1, b)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, a1.Pos))
	require.NoError(t, click(t, a, input.ButtonLeft, a1.Pos))
	choose(t, a, input.CmdInteract, "")
	require.NoError(t, click(t, a, input.ButtonLeft, b.Pos))
	require.Equal(t, input.MenuTrade, a.Menus().Active().Kind)

	choose(t, a, input.CmdGive, potion.ID)
	choose(t, a, input.CmdGive, "")
	assert.True(t, b.Inventory.Contains(potion))
	assert.Equal(t, 20, a1.Gold())
	assert.Equal(t, 10, b.Gold())

	require.NoError(t, click(t, a, input.ButtonRight, a1.Pos))
	assert.Equal(t, input.MenuCharacter, a.Menus().Active().Kind)
	require.NoError(t, click(t, a, input.ButtonRight, a1.Pos))
	assert.True(t, a1.Inventory.Contains(potion))
	assert.False(t, b.Inventory.Contains(potion))
	assert.Equal(t, 30, a1.Gold())
	assert.Zero(t, b.Gold())
}

func TestAdapter_InventoryUseEndsTurn(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 1, Y: 1})
	p.HP = 5
	potion := item.New("potion", "Potion", item.KindConsumable, 20)
	potion.Effects = []item.Effect{{Kind: item.EffectHeal, Power: 10}}
	require.NoError(t, p.Inventory.Set(potion))
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	choose(t, a, input.CmdInventory, "")
	choose(t, a, input.CmdSelectItem, potion.ID)
	require.Equal(t, input.MenuItem, a.Menus().Active().Kind)
	choose(t, a, input.CmdUse, "")
	assert.Equal(t, 15, p.HP)
	assert.True(t, p.TurnFinished)
	assert.Zero(t, a.Menus().Len())
}

func TestAdapter_DialogSwallowsClick(t *testing.T) {
	l := newLevel(t)
	p := newPlayer("Raimund", grid.Pos{X: 1, Y: 1})
	l.Players = append(l.Players, p)
	l.Foes = append(l.Foes, newFoe("Skeleton", grid.Pos{X: 7, Y: 7}))
	require.NoError(t, l.StartGame())
	l.ShowDialog(level.Dialog{Title: "Sage", Lines: []string{"Beware."}})
	a := input.NewAdapter(l, tile, zap.NewNop())

	require.NoError(t, click(t, a, input.ButtonLeft, p.Pos))
	_, pending := l.PendingDialog()
	assert.False(t, pending)
	assert.Nil(t, l.Selected)
}

func TestAdapter_ChooseWithoutMenu(t *testing.T) {
	l := newLevel(t)
	a := input.NewAdapter(l, tile, zap.NewNop())
	_, err := a.Choose(0)
	assert.ErrorIs(t, err, input.ErrNoMenu)
}

func TestAdapter_MotionTracksHoveredTile(t *testing.T) {
	a := input.NewAdapter(newLevel(t), tile, zap.NewNop())
	a.Motion(3*tile+1, 2*tile+31)
	pos, ok := a.Hover()
	assert.True(t, ok)
	assert.Equal(t, grid.Pos{X: 3, Y: 2}, pos)

	a.Motion(9*tile, 0)
	_, ok = a.Hover()
	assert.False(t, ok)
}
