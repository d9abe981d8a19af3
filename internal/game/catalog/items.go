package catalog

import (
	"errors"
	"fmt"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// EffectDef is the YAML form of item.Effect.
type EffectDef struct {
	Kind       string `yaml:"kind"`
	Power      int    `yaml:"power"`
	Duration   int    `yaml:"duration"`
	Alteration string `yaml:"alteration"`
}

// Effect converts the definition.
func (e EffectDef) Effect() item.Effect {
	return item.Effect{Kind: item.EffectKind(e.Kind), Power: e.Power, Duration: e.Duration, Alteration: e.Alteration}
}

func (e EffectDef) validate() error {
	switch item.EffectKind(e.Kind) {
	case item.EffectHeal, item.EffectXP:
		if e.Power <= 0 {
			return fmt.Errorf("%s effect needs a positive power", e.Kind)
		}
	case item.EffectAlteration:
		if e.Alteration == "" {
			return errors.New("alteration effect needs an alteration id")
		}
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	return nil
}

// SideEffectDef is a weapon effect rolled on landed strikes.
type SideEffectDef struct {
	EffectDef   `yaml:",inline"`
	Probability int `yaml:"probability"`
}

// RestrictionsDef limits who may wear an item.
type RestrictionsDef struct {
	Races   []string `yaml:"races"`
	Classes []string `yaml:"classes"`
}

// EquipmentDef holds the wearable attributes.
type EquipmentDef struct {
	Slot         string          `yaml:"slot"`
	Defense      int             `yaml:"defense"`
	Resistance   int             `yaml:"resistance"`
	AttackBonus  int             `yaml:"attack_bonus"`
	Weight       int             `yaml:"weight"`
	Restrictions RestrictionsDef `yaml:"restrictions"`
}

// WeaponDef holds the weapon-only attributes.
type WeaponDef struct {
	AttackKind    string          `yaml:"attack_kind"`
	Reach         []int           `yaml:"reach"`
	Durability    int             `yaml:"durability"`
	SideEffects   []SideEffectDef `yaml:"side_effects"`
	StrongAgainst []string        `yaml:"strong_against"`
	StrongBonus   int             `yaml:"strong_bonus"`
}

// ShieldDef holds the shield-only attributes.
type ShieldDef struct {
	ParryRate  int `yaml:"parry_rate"`
	Durability int `yaml:"durability"`
}

// KeyDef tells which locks a key opens.
type KeyDef struct {
	ForChest bool `yaml:"for_chest"`
	ForDoor  bool `yaml:"for_door"`
}

// ItemDef is the static definition of an item.
//
// Precondition: ID, Name and Kind must be set; the variant block matching
// Kind must be present for weapons, shields, equipment and keys.
type ItemDef struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Sprite      string        `yaml:"sprite"`
	Description string        `yaml:"description"`
	Kind        string        `yaml:"kind"`
	Price       int           `yaml:"price"`
	ResellPrice *int          `yaml:"resell_price"`
	Effects     []EffectDef   `yaml:"effects"`
	Equipment   *EquipmentDef `yaml:"equipment"`
	Weapon      *WeaponDef    `yaml:"weapon"`
	Shield      *ShieldDef    `yaml:"shield"`
	Key         *KeyDef       `yaml:"key"`
	Gold        int           `yaml:"gold"`
}

func (d *ItemDef) key() string { return d.ID }

// Validate checks the definition fields.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !item.ValidKind(item.Kind(d.Kind)) {
		errs = append(errs, fmt.Errorf("unknown kind %q", d.Kind))
	}
	if d.Price < 0 {
		errs = append(errs, fmt.Errorf("price must be >= 0, got %d", d.Price))
	}
	for _, e := range d.allEffects() {
		if err := e.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	switch item.Kind(d.Kind) {
	case item.KindWeapon:
		if d.Weapon == nil || d.Equipment == nil {
			errs = append(errs, errors.New("weapon needs equipment and weapon blocks"))
		} else if d.Weapon.Durability < 0 {
			errs = append(errs, errors.New("weapon durability must be >= 0"))
		}
	case item.KindShield:
		if d.Shield == nil || d.Equipment == nil {
			errs = append(errs, errors.New("shield needs equipment and shield blocks"))
		} else if d.Shield.ParryRate < 0 || d.Shield.ParryRate > 100 {
			errs = append(errs, fmt.Errorf("parry rate must be in [0,100], got %d", d.Shield.ParryRate))
		}
	case item.KindEquipment:
		if d.Equipment == nil {
			errs = append(errs, errors.New("equipment needs an equipment block"))
		}
	case item.KindKey:
		if d.Key == nil || (!d.Key.ForChest && !d.Key.ForDoor) {
			errs = append(errs, errors.New("key must open chests or doors"))
		}
	case item.KindConsumable:
		if len(d.Effects) == 0 {
			errs = append(errs, errors.New("consumable needs at least one effect"))
		}
	}
	if d.Equipment != nil && !item.ValidSlot(item.Slot(d.Equipment.Slot)) {
		errs = append(errs, fmt.Errorf("unknown slot %q", d.Equipment.Slot))
	}
	if d.Weapon != nil {
		for _, se := range d.Weapon.SideEffects {
			if se.Probability < 0 || se.Probability > 100 {
				errs = append(errs, fmt.Errorf("side effect probability must be in [0,100], got %d", se.Probability))
			}
		}
		if d.Weapon.AttackKind != "" && !item.ValidDamageKind(item.DamageKind(d.Weapon.AttackKind)) {
			errs = append(errs, fmt.Errorf("unknown attack kind %q", d.Weapon.AttackKind))
		}
	}
	return errors.Join(errs...)
}

func (d *ItemDef) allEffects() []EffectDef {
	out := append([]EffectDef{}, d.Effects...)
	if d.Weapon != nil {
		for _, se := range d.Weapon.SideEffects {
			out = append(out, se.EffectDef)
		}
	}
	return out
}

// New instantiates the definition with a fresh instance id.
func (d *ItemDef) New() *item.Item {
	it := item.New(d.ID, d.Name, item.Kind(d.Kind), d.Price)
	it.SpriteKey = d.Sprite
	it.Description = d.Description
	if d.ResellPrice != nil {
		it.ResellPrice = *d.ResellPrice
	}
	it.Gold = d.Gold
	for _, e := range d.Effects {
		it.Effects = append(it.Effects, e.Effect())
	}
	if eq := d.Equipment; eq != nil {
		it.Equip = &item.EquipmentStats{
			Slot:        item.Slot(eq.Slot),
			Defense:     eq.Defense,
			Resistance:  eq.Resistance,
			AttackBonus: eq.AttackBonus,
			Weight:      eq.Weight,
			Restrictions: item.Restrictions{
				Races:   eq.Restrictions.Races,
				Classes: eq.Restrictions.Classes,
			},
		}
	}
	if w := d.Weapon; w != nil {
		kind := item.DamageKind(w.AttackKind)
		if kind == "" {
			kind = item.Physical
		}
		it.Weapon = &item.WeaponStats{
			AttackKind:    kind,
			Reach:         append([]int(nil), w.Reach...),
			Durability:    w.Durability,
			DurabilityMax: w.Durability,
			StrongAgainst: w.StrongAgainst,
			StrongBonus:   w.StrongBonus,
		}
		for _, se := range w.SideEffects {
			it.Weapon.SideEffects = append(it.Weapon.SideEffects, item.SideEffect{Effect: se.Effect(), Probability: se.Probability})
		}
	}
	if s := d.Shield; s != nil {
		it.Shield = &item.ShieldStats{ParryRate: s.ParryRate, Durability: s.Durability, DurabilityMax: s.Durability}
	}
	if k := d.Key; k != nil {
		it.Key = &item.KeyInfo{ForChest: k.ForChest, ForDoor: k.ForDoor}
	}
	return it
}

// NewItem instantiates the item definition id.
func (c *Catalog) NewItem(id string) (*item.Item, error) {
	d, ok := c.Items.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w item %q", ErrUnknown, id)
	}
	return d.New(), nil
}
