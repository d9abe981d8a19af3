package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

func TestTradeGold_RequiresBalance(t *testing.T) {
	a, b := inventory.NewWallet(10), inventory.NewWallet(0)
	assert.ErrorIs(t, inventory.TradeGold(&a, &b, 11), inventory.ErrNotEnoughGold)
	assert.Equal(t, 10, a.Gold())
	require.NoError(t, inventory.TradeGold(&a, &b, 10))
	assert.Equal(t, 0, a.Gold())
	assert.Equal(t, 10, b.Gold())
}

func TestTradeItem(t *testing.T) {
	from, to := inventory.NewBackpack(1), inventory.NewBackpack(1)
	p := potion()
	require.NoError(t, from.Set(p))
	require.NoError(t, inventory.TradeItem(from, to, p))
	assert.True(t, to.Contains(p))
	assert.False(t, from.Contains(p))

	q := potion()
	require.NoError(t, from.Set(q))
	assert.ErrorIs(t, inventory.TradeItem(from, to, q), inventory.ErrInventoryFull)
	assert.True(t, from.Contains(q))
	assert.ErrorIs(t, inventory.TradeItem(from, to, item.New("x", "X", item.KindMisc, 0)), inventory.ErrItemNotFound)
}

func TestPropertyTradeGold_ConservesTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ga := rapid.IntRange(0, 1000).Draw(t, "a")
		gb := rapid.IntRange(0, 1000).Draw(t, "b")
		amt := rapid.IntRange(0, 1200).Draw(t, "amount")
		a, b := inventory.NewWallet(ga), inventory.NewWallet(gb)
		_ = inventory.TradeGold(&a, &b, amt)
		assert.Equal(t, ga+gb, a.Gold()+b.Gold())
		assert.GreaterOrEqual(t, a.Gold(), 0)
	})
}
