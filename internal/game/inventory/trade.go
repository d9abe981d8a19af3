package inventory

import "github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"

// TradeItem moves it from one backpack to another.
//
// Postcondition: on error, both backpacks are unchanged.
func TradeItem(from, to *Backpack, it *item.Item) error {
	if !from.Contains(it) {
		return ErrItemNotFound
	}
	if !to.HasFreeSlot() {
		return ErrInventoryFull
	}
	_ = from.Remove(it)
	_ = to.Set(it)
	return nil
}
