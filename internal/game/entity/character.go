package entity

import (
	"math"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
)

// Growth is the stat gain applied on every level-up.
type Growth struct {
	HPMax      int
	Strength   int
	Defense    int
	Resistance int
}

// Character is a movable with a race, classes and dialog. Non-player
// characters live in the ally collection.
type Character struct {
	Movable
	Race     string
	Classes  []string
	Dialog   []string
	JoinTeam bool
	// Growth and XPFactor are resolved from the character's classes.
	Growth   Growth
	XPFactor float64
}

// Kind implements Entity.
func (*Character) Kind() Kind { return KindAlly }

// Char returns the character fields.
func (c *Character) Char() *Character { return c }

// Wearer describes c for equipment restrictions.
func (c *Character) Wearer() inventory.Wearer {
	return inventory.Wearer{Race: c.Race, Classes: c.Classes}
}

// ParryRate returns the parry chance granted by an intact shield.
func (c *Character) ParryRate() int {
	s := c.Equipment.Shield()
	if s == nil || s.Broken() {
		return 0
	}
	return s.Shield.ParryRate
}

// LevelUp consumes experience while XP >= XPNext, raising the level and the
// stats by Growth each time. factor scales XPNext when the character has no
// XPFactor of its own. Returns the number of levels gained.
//
// XP is not reset to zero on a level up: only XPNext is subtracted, so the
// surplus counts toward the next level and one large gain may raise several
// levels at once.
//
// Postcondition: Level never decreases; Level <= maxLevel when maxLevel > 0.
func (c *Character) LevelUp(factor float64, maxLevel int) int {
	if c.XPFactor > 0 {
		factor = c.XPFactor
	}
	if factor < 1 {
		factor = 1
	}
	gained := 0
	for c.XPNext > 0 && c.XP >= c.XPNext {
		if maxLevel > 0 && c.Level >= maxLevel {
			break
		}
		c.XP -= c.XPNext
		c.Level++
		c.XPNext = int(math.Ceil(float64(c.XPNext) * factor))
		c.HPMax += c.Growth.HPMax
		c.HP += c.Growth.HPMax
		c.Strength += c.Growth.Strength
		c.Defense += c.Growth.Defense
		c.Resistance += c.Growth.Resistance
		gained++
	}
	return gained
}

// Player is a character controlled by the user.
type Player struct {
	Character
}

// Kind implements Entity.
func (*Player) Kind() Kind { return KindPlayer }

// Recruit converts c into a Player preserving every field.
func Recruit(c *Character) *Player {
	p := &Player{Character: *c}
	p.JoinTeam = false
	return p
}

// AsCharacter returns the character fields of e when it has them.
func AsCharacter(e Entity) (*Character, bool) {
	if c, ok := e.(interface{ Char() *Character }); ok {
		return c.Char(), true
	}
	return nil, false
}
