// Package inventory implements bounded item storage, equipment slots and the
// gold wallet carried by movable entities.
package inventory

import (
	"errors"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// ErrInventoryFull is returned when no free slot is left.
var ErrInventoryFull = errors.New("inventory is full")

// ErrItemNotFound is returned when the requested instance is not carried.
var ErrItemNotFound = errors.New("item not found")

// Backpack is a fixed-length sequence of slots. Empty slots are nil holes.
type Backpack struct {
	slots []*item.Item
}

// NewBackpack creates a Backpack with capacity empty slots.
//
// Precondition: capacity > 0.
// Postcondition: Len() == 0 and Capacity() == capacity.
func NewBackpack(capacity int) *Backpack {
	if capacity <= 0 {
		panic("inventory: backpack capacity must be > 0")
	}
	return &Backpack{slots: make([]*item.Item, capacity)}
}

// Capacity returns the number of slots.
func (b *Backpack) Capacity() int { return len(b.slots) }

// Len returns the number of occupied slots.
//
// Postcondition: 0 <= result <= Capacity().
func (b *Backpack) Len() int {
	n := 0
	for _, s := range b.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// HasFreeSlot reports whether Set would succeed.
func (b *Backpack) HasFreeSlot() bool {
	return b.Len() < len(b.slots)
}

// Set stores it in the first empty slot.
//
// Precondition: it must not be nil.
// Postcondition: returns ErrInventoryFull and leaves the backpack unchanged
// when every slot is occupied.
func (b *Backpack) Set(it *item.Item) error {
	if it == nil {
		panic("inventory: Set called with nil item")
	}
	for i, s := range b.slots {
		if s == nil {
			b.slots[i] = it
			return nil
		}
	}
	return ErrInventoryFull
}

// Remove deletes the first slot holding the same instance as it.
//
// Postcondition: returns ErrItemNotFound if it was not carried.
func (b *Backpack) Remove(it *item.Item) error {
	for i, s := range b.slots {
		if s == it {
			b.slots[i] = nil
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveFirst removes and returns the first carried item matching pred, or
// nil when none does.
func (b *Backpack) RemoveFirst(pred func(*item.Item) bool) *item.Item {
	for i, s := range b.slots {
		if s != nil && pred(s) {
			b.slots[i] = nil
			return s
		}
	}
	return nil
}

// Find returns the carried instance with the given ID.
func (b *Backpack) Find(id string) (*item.Item, bool) {
	for _, s := range b.slots {
		if s != nil && s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Contains reports whether the exact instance it is carried.
func (b *Backpack) Contains(it *item.Item) bool {
	for _, s := range b.slots {
		if s == it {
			return true
		}
	}
	return false
}

// Has reports whether any carried item matches pred.
func (b *Backpack) Has(pred func(*item.Item) bool) bool {
	for _, s := range b.slots {
		if s != nil && pred(s) {
			return true
		}
	}
	return false
}

// Items returns the carried items in slot order, holes skipped.
//
// Postcondition: returned slice is a copy.
func (b *Backpack) Items() []*item.Item {
	out := make([]*item.Item, 0, len(b.slots))
	for _, s := range b.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Slots returns a copy of the raw slot sequence, holes included.
func (b *Backpack) Slots() []*item.Item {
	out := make([]*item.Item, len(b.slots))
	copy(out, b.slots)
	return out
}

// TotalWeight returns the summed weight of carried equipment.
func (b *Backpack) TotalWeight() int {
	total := 0
	for _, s := range b.slots {
		if s != nil && s.Equip != nil {
			total += s.Equip.Weight
		}
	}
	return total
}
