package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
)

func TestNeighbors_FourConnected(t *testing.T) {
	n := grid.Pos{X: 3, Y: 4}.Neighbors()
	assert.ElementsMatch(t, []grid.Pos{{3, 3}, {4, 4}, {3, 5}, {2, 4}}, n)
}

func TestSize_InBounds(t *testing.T) {
	s := grid.Size{Width: 5, Height: 3}
	assert.True(t, s.InBounds(grid.Pos{X: 0, Y: 0}))
	assert.True(t, s.InBounds(grid.Pos{X: 4, Y: 2}))
	assert.False(t, s.InBounds(grid.Pos{X: 5, Y: 0}))
	assert.False(t, s.InBounds(grid.Pos{X: 0, Y: -1}))
}

func TestMap_Walkable(t *testing.T) {
	m := grid.NewMap(grid.Size{Width: 4, Height: 4}, grid.Pos{X: 1, Y: 1})
	occupied := func(p grid.Pos) bool { return p == grid.Pos{X: 2, Y: 2} }

	assert.True(t, m.Walkable(grid.Pos{X: 0, Y: 0}, occupied))
	assert.False(t, m.Walkable(grid.Pos{X: 1, Y: 1}, occupied), "obstacle")
	assert.False(t, m.Walkable(grid.Pos{X: 2, Y: 2}, occupied), "occupied")
	assert.False(t, m.Walkable(grid.Pos{X: -1, Y: 0}, occupied), "out of bounds")
	assert.True(t, m.Walkable(grid.Pos{X: 2, Y: 2}, nil))
}

func TestChebyshev(t *testing.T) {
	assert.Equal(t, 2, grid.Chebyshev(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 2, Y: 1}))
	assert.Equal(t, 1, grid.Chebyshev(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 1, Y: 1}))
	assert.Equal(t, 3, grid.Manhattan(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 2, Y: 1}))
}

func TestRing_Property_AllAtRadius(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := rapid.IntRange(0, 6).Draw(rt, "r")
		c := grid.Pos{X: rapid.IntRange(-10, 10).Draw(rt, "x"), Y: rapid.IntRange(-10, 10).Draw(rt, "y")}
		ring := grid.Ring(c, r)
		want := 8 * r
		if r == 0 {
			want = 1
		}
		assert.Len(rt, ring, want)
		for _, p := range ring {
			assert.Equal(rt, r, grid.Chebyshev(c, p))
		}
	})
}

func TestSet_SortedIsRowMajor(t *testing.T) {
	s := grid.NewSet(grid.Pos{X: 2, Y: 1}, grid.Pos{X: 0, Y: 1}, grid.Pos{X: 5, Y: 0})
	assert.Equal(t, []grid.Pos{{5, 0}, {0, 1}, {2, 1}}, s.Sorted())
}
