package entity

import "github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"

// Chest holds a single item or gold until opened.
//
// Invariant: Opened implies Contents == nil.
type Chest struct {
	Base
	Opened            bool
	PickLockInitiated bool
	Contents          *item.Item
}

// Kind implements Entity.
func (*Chest) Kind() Kind { return KindChest }

// Open marks the chest opened and returns its former contents.
//
// Postcondition: Opened; Contents == nil.
func (c *Chest) Open() *item.Item {
	it := c.Contents
	c.Contents = nil
	c.Opened = true
	c.PickLockInitiated = false
	return it
}

// Door blocks its tile until opened; opened doors are removed from the level.
type Door struct {
	Base
	PickLockInitiated bool
}

// Kind implements Entity.
func (*Door) Kind() Kind { return KindDoor }

// Portal teleports to its mutually linked twin.
type Portal struct {
	Base
	LinkedTo string
}

// Kind implements Entity.
func (*Portal) Kind() Kind { return KindPortal }

// Link binds a and b to each other.
//
// Postcondition: a.LinkedTo == b.ID && b.LinkedTo == a.ID.
func Link(a, b *Portal) {
	a.LinkedTo = b.ID
	b.LinkedTo = a.ID
}

// Fountain applies its effects to whoever drinks, a limited number of times.
type Fountain struct {
	Base
	Effects []item.Effect
	Uses    int
}

// Kind implements Entity.
func (*Fountain) Kind() Kind { return KindFountain }
