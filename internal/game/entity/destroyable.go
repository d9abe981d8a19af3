package entity

import (
	"fmt"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// Destroyable is an entity with hit points.
//
// Invariant: 0 <= HP <= HPMax.
type Destroyable struct {
	Base
	HP         int
	HPMax      int
	Defense    int
	Resistance int
}

// NewDestroyable creates a Destroyable at full health.
func NewDestroyable(b Base, hpMax, defense, resistance int) Destroyable {
	return Destroyable{Base: b, HP: hpMax, HPMax: hpMax, Defense: defense, Resistance: resistance}
}

// Vital returns the hit point fields.
func (d *Destroyable) Vital() *Destroyable { return d }

// Mitigation returns the damage absorbed for kind.
//
// Precondition: kind is item.Physical or item.Spiritual.
func (d *Destroyable) Mitigation(kind item.DamageKind) int {
	switch kind {
	case item.Physical:
		return d.Defense
	case item.Spiritual:
		return d.Resistance
	}
	panic(fmt.Sprintf("entity: unknown damage kind %q", kind))
}

// Alive reports whether HP > 0.
func (d *Destroyable) Alive() bool { return d.HP > 0 }

// Heal restores up to amount hp and returns how much was recovered.
//
// Postcondition: HP <= HPMax; result >= 0.
func (d *Destroyable) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := d.HP
	d.HP = min(d.HPMax, d.HP+amount)
	return d.HP - before
}

// HealFull restores HP to HPMax and returns how much was recovered.
func (d *Destroyable) HealFull() int {
	return d.Heal(d.HPMax)
}

// Target is anything that can be struck.
type Target interface {
	Entity
	Vital() *Destroyable
	Mitigation(kind item.DamageKind) int
}

// Attacked applies raw damage of the given kind to t after mitigation and
// returns the new hp.
//
// Postcondition: 0 <= new hp <= old hp.
func Attacked(t Target, raw int, kind item.DamageKind) int {
	d := t.Vital()
	mitigated := raw - t.Mitigation(kind)
	clamped := max(0, min(mitigated, d.HP))
	d.HP -= clamped
	if d.HP < 0 || d.HP > d.HPMax {
		panic(fmt.Sprintf("entity: hp %d out of [0,%d] after strike", d.HP, d.HPMax))
	}
	return d.HP
}

// Breakable is a stationary destroyable object such as a cracked wall.
type Breakable struct {
	Destroyable
}

// Kind implements Entity.
func (*Breakable) Kind() Kind { return KindBreakable }

// NewBreakable creates a Breakable. Breakables take full damage.
func NewBreakable(b Base, hp int) *Breakable {
	return &Breakable{Destroyable: NewDestroyable(b, hp, 0, 0)}
}

// AsTarget returns e as a Target when it can be struck.
func AsTarget(e Entity) (Target, bool) {
	t, ok := e.(Target)
	return t, ok
}
