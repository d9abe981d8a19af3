package entity

import (
	"fmt"
	"slices"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// DefaultXPNext is the experience needed to reach level 2.
const DefaultXPNext = 10

// SkillKind selects what a skill does.
type SkillKind string

const (
	// SkillDoubleAttack grants a second strike per duel.
	SkillDoubleAttack SkillKind = "double_attack"
	// SkillChanceBoost adds Power to the probability of applying Alteration.
	SkillChanceBoost SkillKind = "chance_boost"
	// SkillLockPicking allows opening chests and doors without a key.
	SkillLockPicking SkillKind = "lock_picking"
)

// Skill is a passive ability.
type Skill struct {
	ID         string
	Name       string
	Kind       SkillKind
	Power      int
	Alteration string
}

// Stats are the base combat attributes of a movable.
type Stats struct {
	HPMax      int
	Defense    int
	Resistance int
	Strength   int
	MaxMoves   int
	AttackKind item.DamageKind
	Reach      []int
}

// Movable is a destroyable that moves, fights and carries items.
type Movable struct {
	Destroyable
	inventory.Wallet

	Level    int
	XP       int
	XPNext   int
	MaxMoves int
	Strength int
	// Reach is the innate reach used when no weapon is equipped.
	Reach      []int
	AttackKind item.DamageKind
	Skills     []Skill

	Alterations *alteration.Set
	Inventory   *inventory.Backpack
	Equipment   *inventory.Equipment

	TurnFinished bool
	Selected     bool
	Action       Action
}

// NewMovable creates a level 1 Movable at full health.
//
// Precondition: inventorySize > 0.
func NewMovable(b Base, s Stats, inventorySize int) Movable {
	reach := s.Reach
	if len(reach) == 0 {
		reach = []int{1}
	}
	kind := s.AttackKind
	if kind == "" {
		kind = item.Physical
	}
	return Movable{
		Destroyable: NewDestroyable(b, s.HPMax, s.Defense, s.Resistance),
		Level:       1,
		XPNext:      DefaultXPNext,
		MaxMoves:    s.MaxMoves,
		Strength:    s.Strength,
		Reach:       slices.Clone(reach),
		AttackKind:  kind,
		Alterations: alteration.NewSet(),
		Inventory:   inventory.NewBackpack(inventorySize),
		Equipment:   inventory.NewEquipment(),
	}
}

// Mov returns the movable fields.
func (m *Movable) Mov() *Movable { return m }

// Mitigation adds equipment and active alteration bonuses to the base value.
func (m *Movable) Mitigation(kind item.DamageKind) int {
	base := m.Destroyable.Mitigation(kind)
	switch kind {
	case item.Physical:
		return base + m.Equipment.Defense() + alteration.Bonus(m.Alterations, alteration.DefenseUp)
	case item.Spiritual:
		return base + m.Equipment.Resistance() + alteration.Bonus(m.Alterations, alteration.ResistanceUp)
	}
	panic(fmt.Sprintf("entity: unknown damage kind %q", kind))
}

// HasSkill reports whether a skill of kind k is known.
func (m *Movable) HasSkill(k SkillKind) bool {
	return slices.ContainsFunc(m.Skills, func(s Skill) bool { return s.Kind == k })
}

// ChanceBoost returns the summed power of chance boost skills targeting the
// named alteration.
func (m *Movable) ChanceBoost(alterationName string) int {
	total := 0
	for _, s := range m.Skills {
		if s.Kind == SkillChanceBoost && s.Alteration == alterationName {
			total += s.Power
		}
	}
	return total
}

// Strikes returns the number of strikes per duel.
func (m *Movable) Strikes() int {
	if m.HasSkill(SkillDoubleAttack) {
		return 2
	}
	return 1
}

// AttackReach returns the equipped weapon reach, or the innate reach.
func (m *Movable) AttackReach() []int {
	if w := m.Equipment.Weapon(); w != nil {
		return w.Reach()
	}
	return m.Reach
}

// StrikeKind returns the equipped weapon damage kind, or the innate one.
func (m *Movable) StrikeKind() item.DamageKind {
	if w := m.Equipment.Weapon(); w != nil && w.Weapon.AttackKind != "" {
		return w.Weapon.AttackKind
	}
	return m.AttackKind
}

// Power returns the raw damage before target specific bonuses: strength,
// equipment attack bonuses and strength buffs.
func (m *Movable) Power() int {
	return m.Strength + m.Equipment.AttackBonus() + alteration.Bonus(m.Alterations, alteration.StrengthUp)
}

// Stunned reports whether the movable must skip its turn.
func (m *Movable) Stunned() bool {
	return alteration.Stunned(m.Alterations)
}

// EndTurn marks the movable as done for the current camp turn.
//
// Postcondition: TurnFinished; !Selected; Action == ActionNone.
func (m *Movable) EndTurn() {
	m.TurnFinished = true
	m.Selected = false
	m.Action = ActionNone
}

// NewTurn readies the movable for a new camp turn: poison and regen are
// applied, then alterations tick. Expired alterations are returned.
//
// Postcondition: !TurnFinished unless a stun is still active.
func (m *Movable) NewTurn() []*alteration.Alteration {
	if delta := alteration.HPDelta(m.Alterations); delta > 0 {
		m.Heal(delta)
	} else if delta < 0 && m.HP > 1 {
		m.HP = max(1, m.HP+delta)
	}
	stunned := m.Stunned()
	expired := m.Alterations.Tick()
	m.TurnFinished = stunned
	m.Selected = false
	m.Action = ActionNone
	return expired
}

// EarnXP adds n experience.
func (m *Movable) EarnXP(n int) {
	if n > 0 {
		m.XP += n
	}
}

// Carried returns every item carried or equipped.
func (m *Movable) Carried() []*item.Item {
	return append(m.Inventory.Items(), m.Equipment.Items()...)
}

// AsMovable returns the movable fields of e when it has them.
func AsMovable(e Entity) (*Movable, bool) {
	if m, ok := e.(interface{ Mov() *Movable }); ok {
		return m.Mov(), true
	}
	return nil, false
}
