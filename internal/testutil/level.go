package testutil

import (
	"testing"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

// LevelDeps returns silent deps with a fixed dice source.
func LevelDeps() level.Deps {
	return level.Deps{Logger: zap.NewNop(), Roller: dice.NewLoggedRoller(dice.FixedSource{}, zap.NewNop())}
}

// NewLevel builds a 6x6 level with one player and one foe. When started is
// true the level is in progress on turn 1.
func NewLevel(t *testing.T, index int, name string, started bool) *level.Level {
	t.Helper()
	l := level.New(index, name, grid.NewMap(grid.Size{Width: 6, Height: 6}, grid.Pos{X: 5, Y: 5}), level.DefaultConfig(), LevelDeps())
	l.PlacementArea = grid.NewSet(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 1, Y: 0})

	m := entity.NewMovable(entity.NewBase("Raimund", "raimund", grid.Pos{X: 0, Y: 0}), entity.Stats{HPMax: 20, Strength: 4, MaxMoves: 3, Defense: 1}, 4)
	l.Players = append(l.Players, &entity.Player{Character: entity.Character{Movable: m, Race: "human", Classes: []string{"warrior"}, XPFactor: 1.5}})

	fm := entity.NewMovable(entity.NewBase("Skeleton", "skeleton", grid.Pos{X: 4, Y: 4}), entity.Stats{HPMax: 8, Strength: 2, MaxMoves: 2}, 1)
	l.Foes = append(l.Foes, &entity.Foe{Movable: fm, XPGain: 3, Strategy: entity.StrategyStatic})

	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true, Description: "Defeat the skeleton"}})
	if err != nil {
		t.Fatalf("building missions: %v", err)
	}
	l.Missions = tr
	if err := l.Validate(); err != nil {
		t.Fatalf("validating level: %v", err)
	}
	if started {
		if err := l.StartGame(); err != nil {
			t.Fatalf("starting level: %v", err)
		}
	}
	return l
}
