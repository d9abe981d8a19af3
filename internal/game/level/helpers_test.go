package level_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

type recordingScripts struct {
	calls []string
}

func (r *recordingScripts) Call(h level.Hook, args ...any) error {
	r.calls = append(r.calls, string(h))
	return nil
}

func newLevel(t *testing.T, src dice.Source, obstacles ...grid.Pos) (*level.Level, *recordingScripts) {
	t.Helper()
	scripts := &recordingScripts{}
	l := level.New(0, "test", grid.NewMap(grid.Size{Width: 8, Height: 8}, obstacles...), level.DefaultConfig(), level.Deps{
		Logger:  zap.NewNop(),
		Roller:  dice.NewLoggedRoller(src, zap.NewNop()),
		Scripts: scripts,
	})
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true, Description: "Kill them all"}})
	require.NoError(t, err)
	l.Missions = tr
	return l, scripts
}

func newPlayer(name string, at grid.Pos) *entity.Player {
	m := entity.NewMovable(entity.NewBase(name, name, at), entity.Stats{HPMax: 20, Strength: 5, MaxMoves: 3}, 4)
	return &entity.Player{Character: entity.Character{Movable: m, Race: "human", Classes: []string{"warrior"}}}
}

func newFoe(name string, at grid.Pos, hp int) *entity.Foe {
	m := entity.NewMovable(entity.NewBase(name, name, at), entity.Stats{HPMax: hp, Strength: 2, MaxMoves: 2}, 1)
	return &entity.Foe{Movable: m, XPGain: 3, Strategy: entity.StrategyActive}
}

func chestKey() *item.Item {
	k := item.New("chest_key", "Chest Key", item.KindKey, 20)
	k.Key = &item.KeyInfo{ForChest: true}
	return k
}

func doorKey() *item.Item {
	k := item.New("door_key", "Door Key", item.KindKey, 20)
	k.Key = &item.KeyInfo{ForDoor: true}
	return k
}

func potion() *item.Item {
	p := item.New("potion", "Potion", item.KindConsumable, 20)
	p.Effects = []item.Effect{{Kind: item.EffectHeal, Power: 10}}
	return p
}

// started returns an in-progress level with p selected and standing still in
// its character menu.
func started(t *testing.T, l *level.Level) {
	t.Helper()
	require.NoError(t, l.StartGame())
}

func menuFor(t *testing.T, l *level.Level, p *entity.Player) {
	t.Helper()
	require.NoError(t, l.SelectPlayer(p))
	require.NoError(t, l.MovePlayer(p.Pos))
}

// drain runs Update until the player camp is back in control or the level ends.
func drain(l *level.Level, max int) {
	for i := 0; i < max; i++ {
		l.Update()
		if l.Phase() != level.PhaseInProgress {
			return
		}
	}
}

// nextPlayerTurn runs frames until a new player turn starts.
func nextPlayerTurn(t *testing.T, l *level.Level) {
	t.Helper()
	want := l.Turn() + 1
	for i := 0; i < 200; i++ {
		l.Update()
		if l.Turn() == want && l.Camp() == level.CampPlayer && !l.Animating() {
			return
		}
	}
	t.Fatalf("turn %d never started", want)
}

// idleFoe keeps the level from being won while it stands far away.
func idleFoe() *entity.Foe {
	f := newFoe("Sentinel", grid.Pos{X: 7, Y: 0}, 10)
	f.Strategy = entity.StrategyStatic
	return f
}
