package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/input"
)

func TestStack_CloseRestoresPrevious(t *testing.T) {
	var s input.Stack
	main := &input.Menu{Kind: input.MenuCharacter}
	sub := &input.Menu{Kind: input.MenuInventory}
	s.Open(main)
	s.Reduce()
	s.Open(sub)
	assert.Same(t, sub, s.Active())
	assert.True(t, s.Blocking())

	assert.Same(t, sub, s.Close())
	assert.Same(t, main, s.Active())
	assert.True(t, main.Visible)
	assert.Nil(t, (&input.Stack{}).Close())
}

func TestStack_ReduceAndRestore(t *testing.T) {
	var s input.Stack
	s.Open(&input.Menu{Kind: input.MenuMain})
	s.Reduce()
	assert.False(t, s.Blocking())
	assert.Equal(t, 1, s.Len())
	s.Restore()
	assert.True(t, s.Blocking())
}

func TestStack_Replace(t *testing.T) {
	var s input.Stack
	s.Replace(&input.Menu{Kind: input.MenuShop})
	assert.Equal(t, 1, s.Len())
	s.Replace(&input.Menu{Kind: input.MenuTrade})
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, input.MenuTrade, s.Active().Kind)
}

func TestProperty_StackDepthTracksOpens(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var s input.Stack
		depth := 0
		for _, open := range rapid.SliceOf(rapid.Bool()).Draw(rt, "ops") {
			if open {
				s.Open(&input.Menu{})
				depth++
			} else {
				s.Close()
				depth = max(depth-1, 0)
			}
			assert.Equal(rt, depth, s.Len())
			assert.Equal(rt, depth > 0, s.Blocking())
		}
	})
}
