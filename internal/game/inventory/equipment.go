package inventory

import (
	"errors"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// ErrNotWearable is returned when equipping an item that has no slot.
var ErrNotWearable = errors.New("item cannot be equipped")

// ErrRestricted is returned when the wearer's race or class is not allowed.
var ErrRestricted = errors.New("equipment is reserved to another race or class")

// ErrSlotEmpty is returned when unequipping an empty slot.
var ErrSlotEmpty = errors.New("nothing equipped in that slot")

// EquipResult reports how Equip placed an item.
type EquipResult int

const (
	// EquipRejected means restrictions were not met.
	EquipRejected EquipResult = iota
	// EquipSwapped means the previously equipped item went back to the backpack.
	EquipSwapped
	// EquipDirect means the slot was empty.
	EquipDirect
)

// Wearer describes who is trying to equip an item.
type Wearer struct {
	Race    string
	Classes []string
}

// Equipment maps each slot to at most one item.
type Equipment struct {
	slots map[item.Slot]*item.Item
}

// NewEquipment creates an Equipment with every slot empty.
func NewEquipment() *Equipment {
	return &Equipment{slots: make(map[item.Slot]*item.Item)}
}

// Get returns the item in slot, or nil.
func (e *Equipment) Get(slot item.Slot) *item.Item {
	return e.slots[slot]
}

// Weapon returns the right-hand item if it is a weapon.
func (e *Equipment) Weapon() *item.Item {
	if it := e.slots[item.SlotRightHand]; it != nil && it.Weapon != nil {
		return it
	}
	return nil
}

// Shield returns the left-hand item if it is a shield.
func (e *Equipment) Shield() *item.Item {
	if it := e.slots[item.SlotLeftHand]; it != nil && it.Shield != nil {
		return it
	}
	return nil
}

// Place puts it in its slot without touching any backpack, returning whatever
// was there before. Used when building entities from documents.
//
// Precondition: it.Wearable().
func (e *Equipment) Place(it *item.Item) *item.Item {
	if !it.Wearable() {
		panic("inventory: Place called with non-wearable item")
	}
	prev := e.slots[it.Equip.Slot]
	e.slots[it.Equip.Slot] = it
	return prev
}

// Equip moves it from bp into its slot. A previously equipped item is swapped
// into the slot it leaves free.
//
// Precondition: bp carries it.
// Postcondition: on EquipRejected or error, neither bp nor e changed.
func (e *Equipment) Equip(it *item.Item, who Wearer, bp *Backpack) (EquipResult, error) {
	if !it.Wearable() {
		return EquipRejected, ErrNotWearable
	}
	if !it.Equip.Restrictions.Allows(who.Race, who.Classes) {
		return EquipRejected, ErrRestricted
	}
	if err := bp.Remove(it); err != nil {
		return EquipRejected, err
	}
	prev := e.Place(it)
	if prev == nil {
		return EquipDirect, nil
	}
	// The slot freed by it always fits prev.
	if err := bp.Set(prev); err != nil {
		panic("inventory: swap lost a slot")
	}
	return EquipSwapped, nil
}

// Unequip moves the item in slot back to bp.
//
// Postcondition: returns ErrInventoryFull with nothing changed if bp has no
// free slot.
func (e *Equipment) Unequip(slot item.Slot, bp *Backpack) (*item.Item, error) {
	it := e.slots[slot]
	if it == nil {
		return nil, ErrSlotEmpty
	}
	if err := bp.Set(it); err != nil {
		return nil, err
	}
	delete(e.slots, slot)
	return it, nil
}

// Remove takes the exact instance it out of its slot. It reports whether it
// was equipped.
func (e *Equipment) Remove(it *item.Item) bool {
	for s, cur := range e.slots {
		if cur == it {
			delete(e.slots, s)
			return true
		}
	}
	return false
}

// Items returns the equipped items in item.Slots order.
func (e *Equipment) Items() []*item.Item {
	var out []*item.Item
	for _, s := range item.Slots {
		if it := e.slots[s]; it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Defense returns the summed defense of every equipped item.
func (e *Equipment) Defense() int {
	total := 0
	for _, it := range e.slots {
		total += it.Equip.Defense
	}
	return total
}

// Resistance returns the summed magic resistance of every equipped item.
func (e *Equipment) Resistance() int {
	total := 0
	for _, it := range e.slots {
		total += it.Equip.Resistance
	}
	return total
}

// AttackBonus returns the summed attack bonus of every equipped item; broken
// weapons contribute nothing.
func (e *Equipment) AttackBonus() int {
	total := 0
	for _, it := range e.slots {
		total += it.AttackBonus()
	}
	return total
}

// Weight returns the summed weight of every equipped item.
func (e *Equipment) Weight() int {
	total := 0
	for _, it := range e.slots {
		total += it.Equip.Weight
	}
	return total
}
