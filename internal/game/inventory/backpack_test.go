package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

func potion() *item.Item {
	return item.New("potion", "Potion", item.KindConsumable, 20)
}

func TestBackpack_Set_FillsFirstHole(t *testing.T) {
	bp := inventory.NewBackpack(3)
	a, b, c := potion(), potion(), potion()
	require.NoError(t, bp.Set(a))
	require.NoError(t, bp.Set(b))
	require.NoError(t, bp.Remove(a))
	require.NoError(t, bp.Set(c))
	assert.Same(t, c, bp.Slots()[0], "first hole is reused")
	assert.Equal(t, 2, bp.Len())
}

func TestBackpack_Set_Full(t *testing.T) {
	bp := inventory.NewBackpack(1)
	require.NoError(t, bp.Set(potion()))
	err := bp.Set(potion())
	assert.ErrorIs(t, err, inventory.ErrInventoryFull)
	assert.Equal(t, 1, bp.Len())
}

func TestBackpack_Remove_Missing(t *testing.T) {
	bp := inventory.NewBackpack(2)
	assert.ErrorIs(t, bp.Remove(potion()), inventory.ErrItemNotFound)
}

func TestBackpack_RemoveFirst_Find(t *testing.T) {
	bp := inventory.NewBackpack(4)
	key := item.New("key", "Key", item.KindKey, 10)
	key.Key = &item.KeyInfo{ForChest: true}
	require.NoError(t, bp.Set(potion()))
	require.NoError(t, bp.Set(key))

	got, ok := bp.Find(key.ID)
	require.True(t, ok)
	assert.Same(t, key, got)
	assert.True(t, bp.Has((*item.Item).OpensChests))
	assert.Same(t, key, bp.RemoveFirst((*item.Item).OpensChests))
	assert.Nil(t, bp.RemoveFirst((*item.Item).OpensChests))
}

func TestNewBackpack_ZeroCapacity_Panics(t *testing.T) {
	assert.Panics(t, func() { inventory.NewBackpack(0) })
}

func TestPropertyBackpack_NeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		bp := inventory.NewBackpack(capacity)
		var carried []*item.Item
		ops := rapid.SliceOfN(rapid.Bool(), 0, 30).Draw(t, "ops")
		for _, add := range ops {
			if add || len(carried) == 0 {
				it := potion()
				if bp.Set(it) == nil {
					carried = append(carried, it)
				}
			} else {
				require.NoError(t, bp.Remove(carried[0]))
				carried = carried[1:]
			}
			assert.LessOrEqual(t, bp.Len(), capacity)
			assert.Equal(t, len(carried), bp.Len())
		}
	})
}
