// Package item defines the items carried, equipped, traded and looted in a
// level: consumables, equipment (weapons and shields included), keys and
// gold placeholders.
package item

import (
	"slices"

	"github.com/google/uuid"
)

// Kind is the item variant tag.
type Kind string

const (
	KindConsumable Kind = "consumable"
	KindEquipment  Kind = "equipment"
	KindWeapon     Kind = "weapon"
	KindShield     Kind = "shield"
	KindKey        Kind = "key"
	KindGold       Kind = "gold"
	KindMisc       Kind = "misc"
)

// ValidKind reports whether k is a known item kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindConsumable, KindEquipment, KindWeapon, KindShield, KindKey, KindGold, KindMisc:
		return true
	}
	return false
}

// Slot is an equipment slot.
type Slot string

const (
	SlotHead      Slot = "head"
	SlotBody      Slot = "body"
	SlotFeet      Slot = "feet"
	SlotRightHand Slot = "right_hand"
	SlotLeftHand  Slot = "left_hand"
	SlotNeck      Slot = "neck"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotHead, SlotBody, SlotFeet, SlotRightHand, SlotLeftHand, SlotNeck}

// ValidSlot reports whether s is a known slot.
func ValidSlot(s Slot) bool {
	return slices.Contains(Slots, s)
}

// DamageKind distinguishes physical from spiritual damage.
type DamageKind string

const (
	Physical  DamageKind = "physical"
	Spiritual DamageKind = "spiritual"
)

// ValidDamageKind reports whether k is a known damage kind.
func ValidDamageKind(k DamageKind) bool {
	return k == Physical || k == Spiritual
}

// EffectKind is what a consumable, fountain, altar or weapon side effect does.
type EffectKind string

const (
	EffectHeal       EffectKind = "heal"
	EffectAlteration EffectKind = "alteration"
	EffectXP         EffectKind = "xp"
)

// Effect is one applicable effect. Alteration names an alteration definition
// when Kind is EffectAlteration.
type Effect struct {
	Kind       EffectKind
	Power      int
	Duration   int
	Alteration string
}

// SideEffect is a weapon effect applied on a landed strike with the given
// probability in [0,100].
type SideEffect struct {
	Effect      Effect
	Probability int
}

// Restrictions is a race/class whitelist. Empty lists allow everyone.
type Restrictions struct {
	Races   []string
	Classes []string
}

// Allows reports whether a wearer of the given race and classes satisfies r.
func (r Restrictions) Allows(race string, classes []string) bool {
	if len(r.Races) > 0 && !slices.Contains(r.Races, race) {
		return false
	}
	if len(r.Classes) > 0 {
		for _, c := range classes {
			if slices.Contains(r.Classes, c) {
				return true
			}
		}
		return false
	}
	return true
}

// EquipmentStats holds the modifiers shared by every wearable item.
type EquipmentStats struct {
	Slot         Slot
	Defense      int
	Resistance   int
	AttackBonus  int
	Weight       int
	Restrictions Restrictions
}

// WeaponStats holds the weapon-only attributes.
type WeaponStats struct {
	AttackKind    DamageKind
	Reach         []int
	Durability    int
	DurabilityMax int
	SideEffects   []SideEffect
	StrongAgainst []string
	StrongBonus   int
}

// ShieldStats holds the shield-only attributes.
type ShieldStats struct {
	ParryRate     int
	Durability    int
	DurabilityMax int
}

// KeyInfo tells which locks a key opens.
type KeyInfo struct {
	ForChest bool
	ForDoor  bool
}

// Item is a concrete item instance. Exactly one owner (an inventory, an
// equipment slot, a chest, a shop stock or a loot table) references it.
type Item struct {
	// ID uniquely identifies this instance.
	ID string
	// DefID is the catalog definition this instance was built from.
	DefID       string
	Name        string
	SpriteKey   string
	Description string
	Kind        Kind
	Price       int
	ResellPrice int

	Effects []Effect
	Equip   *EquipmentStats
	Weapon  *WeaponStats
	Shield  *ShieldStats
	Key     *KeyInfo
	// Gold is the carried amount when Kind is KindGold.
	Gold int
}

// NewID returns a fresh instance identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates an item instance with a fresh ID and resell price ⌊price/2⌋.
//
// Postcondition: ResellPrice == price/2.
func New(defID, name string, kind Kind, price int) *Item {
	return &Item{
		ID:          NewID(),
		DefID:       defID,
		Name:        name,
		Kind:        kind,
		Price:       price,
		ResellPrice: price / 2,
	}
}

// NewGold creates a gold placeholder worth amount.
func NewGold(amount int) *Item {
	it := New("gold", "Gold", KindGold, 0)
	it.Gold = amount
	return it
}

// Wearable reports whether the item can be equipped.
func (it *Item) Wearable() bool {
	return it.Equip != nil
}

// IsConsumable reports whether the item is used up on use.
func (it *Item) IsConsumable() bool {
	return it.Kind == KindConsumable
}

// OpensChests reports whether the item is a chest key.
func (it *Item) OpensChests() bool {
	return it.Key != nil && it.Key.ForChest
}

// OpensDoors reports whether the item is a door key.
func (it *Item) OpensDoors() bool {
	return it.Key != nil && it.Key.ForDoor
}

// AttackBonus is the strike bonus granted while equipped. A weapon with no
// durability left stays equipped but grants nothing.
func (it *Item) AttackBonus() int {
	if it.Equip == nil || it.Broken() {
		return 0
	}
	return it.Equip.AttackBonus
}

// Broken reports whether a weapon or shield has no durability left.
func (it *Item) Broken() bool {
	switch {
	case it.Weapon != nil:
		return it.Weapon.DurabilityMax > 0 && it.Weapon.Durability <= 0
	case it.Shield != nil:
		return it.Shield.DurabilityMax > 0 && it.Shield.Durability <= 0
	}
	return false
}

// Reach returns the weapon reach set, or {1} for anything else.
func (it *Item) Reach() []int {
	if it.Weapon == nil || len(it.Weapon.Reach) == 0 {
		return []int{1}
	}
	return it.Weapon.Reach
}

// StrikeBonusAgainst returns StrongBonus for every target keyword listed in
// the weapon's StrongAgainst set.
func (it *Item) StrikeBonusAgainst(keywords []string) int {
	if it.Weapon == nil || it.Broken() {
		return 0
	}
	bonus := 0
	for _, k := range keywords {
		if slices.Contains(it.Weapon.StrongAgainst, k) {
			bonus += it.Weapon.StrongBonus
		}
	}
	return bonus
}

// Wear consumes one point of weapon or shield durability and refreshes the
// resell price. Items without durability are unaffected.
//
// Postcondition: durability >= 0; ResellPrice == ⌊price/2 · durability/durability_max⌋.
func (it *Item) Wear() {
	switch {
	case it.Weapon != nil && it.Weapon.DurabilityMax > 0:
		if it.Weapon.Durability > 0 {
			it.Weapon.Durability--
		}
		it.ResellPrice = it.Price * it.Weapon.Durability / (2 * it.Weapon.DurabilityMax)
	case it.Shield != nil && it.Shield.DurabilityMax > 0:
		if it.Shield.Durability > 0 {
			it.Shield.Durability--
		}
		it.ResellPrice = it.Price * it.Shield.Durability / (2 * it.Shield.DurabilityMax)
	}
}

// Clone returns a deep copy of it carrying a fresh instance ID.
func (it *Item) Clone() *Item {
	c := *it
	c.ID = NewID()
	c.Effects = slices.Clone(it.Effects)
	if it.Equip != nil {
		e := *it.Equip
		e.Restrictions.Races = slices.Clone(it.Equip.Restrictions.Races)
		e.Restrictions.Classes = slices.Clone(it.Equip.Restrictions.Classes)
		c.Equip = &e
	}
	if it.Weapon != nil {
		w := *it.Weapon
		w.Reach = slices.Clone(it.Weapon.Reach)
		w.SideEffects = slices.Clone(it.Weapon.SideEffects)
		w.StrongAgainst = slices.Clone(it.Weapon.StrongAgainst)
		c.Weapon = &w
	}
	if it.Shield != nil {
		s := *it.Shield
		c.Shield = &s
	}
	if it.Key != nil {
		k := *it.Key
		c.Key = &k
	}
	return &c
}
