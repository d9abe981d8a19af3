package catalog

import (
	"errors"
	"fmt"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// StatsDef holds base combat attributes.
type StatsDef struct {
	HP         int    `yaml:"hp"`
	Strength   int    `yaml:"strength"`
	Defense    int    `yaml:"defense"`
	Resistance int    `yaml:"resistance"`
	Moves      int    `yaml:"moves"`
	AttackKind string `yaml:"attack_kind"`
	Reach      []int  `yaml:"reach"`
}

func (s StatsDef) validate() error {
	var errs []error
	if s.HP <= 0 {
		errs = append(errs, fmt.Errorf("hp must be positive, got %d", s.HP))
	}
	if s.Moves < 0 || s.Strength < 0 || s.Defense < 0 || s.Resistance < 0 {
		errs = append(errs, errors.New("stats must be >= 0"))
	}
	if s.AttackKind != "" && !item.ValidDamageKind(item.DamageKind(s.AttackKind)) {
		errs = append(errs, fmt.Errorf("unknown attack kind %q", s.AttackKind))
	}
	for _, r := range s.Reach {
		if r < 1 {
			errs = append(errs, fmt.Errorf("reach must be >= 1, got %d", r))
		}
	}
	return errors.Join(errs...)
}

func (s StatsDef) stats() entity.Stats {
	return entity.Stats{
		HPMax:      s.HP,
		Defense:    s.Defense,
		Resistance: s.Resistance,
		Strength:   s.Strength,
		MaxMoves:   s.Moves,
		AttackKind: item.DamageKind(s.AttackKind),
		Reach:      append([]int(nil), s.Reach...),
	}
}

// GrowthDef is the stat gain per level.
type GrowthDef struct {
	HP         int `yaml:"hp"`
	Strength   int `yaml:"strength"`
	Defense    int `yaml:"defense"`
	Resistance int `yaml:"resistance"`
}

func (g GrowthDef) growth() entity.Growth {
	return entity.Growth{HPMax: g.HP, Strength: g.Strength, Defense: g.Defense, Resistance: g.Resistance}
}

// SkillDef is a passive ability granted by a class.
type SkillDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Power      int    `yaml:"power"`
	Alteration string `yaml:"alteration"`
}

func (s SkillDef) skill() entity.Skill {
	return entity.Skill{ID: s.ID, Name: s.Name, Kind: entity.SkillKind(s.Kind), Power: s.Power, Alteration: s.Alteration}
}

// ClassDef is a character class.
//
// Precondition: ID must be non-empty; XPFactor is 0 (use the engine default) or >= 1.
type ClassDef struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	XPFactor    float64    `yaml:"xp_factor"`
	Growth      GrowthDef  `yaml:"growth"`
	Skills      []SkillDef `yaml:"skills"`
}

func (d *ClassDef) key() string { return d.ID }

// Validate checks the definition fields.
func (d *ClassDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.XPFactor != 0 && d.XPFactor < 1 {
		errs = append(errs, fmt.Errorf("xp_factor must be >= 1, got %g", d.XPFactor))
	}
	for _, s := range d.Skills {
		switch entity.SkillKind(s.Kind) {
		case entity.SkillDoubleAttack, entity.SkillChanceBoost, entity.SkillLockPicking:
		default:
			errs = append(errs, fmt.Errorf("skill %q: unknown kind %q", s.ID, s.Kind))
		}
	}
	return errors.Join(errs...)
}

// RaceDef is a character race. AllowedClasses, when set, constrains the
// classes characters of this race may have.
type RaceDef struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Description    string    `yaml:"description"`
	AllowedClasses []string  `yaml:"allowed_classes"`
	Bonus          GrowthDef `yaml:"bonus"`
}

func (d *RaceDef) key() string { return d.ID }

// Validate checks the definition fields.
func (d *RaceDef) Validate() error {
	if d.ID == "" {
		return errors.New("id must not be empty")
	}
	return nil
}

// CharacterDef is a player or ally template.
type CharacterDef struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Sprite    string   `yaml:"sprite"`
	Race      string   `yaml:"race"`
	Classes   []string `yaml:"classes"`
	Level     int      `yaml:"level"`
	Stats     StatsDef `yaml:"stats"`
	Gold      int      `yaml:"gold"`
	Items     []string `yaml:"items"`
	Equipment []string `yaml:"equipment"`
	Dialog    []string `yaml:"dialog"`
	JoinTeam  bool     `yaml:"join_team"`
}

func (d *CharacterDef) key() string { return d.ID }

// Validate checks the definition fields.
func (d *CharacterDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Race == "" {
		errs = append(errs, errors.New("race must not be empty"))
	}
	if len(d.Classes) == 0 {
		errs = append(errs, errors.New("at least one class is required"))
	}
	if d.Level < 0 {
		errs = append(errs, fmt.Errorf("level must be >= 0, got %d", d.Level))
	}
	if d.Gold < 0 {
		errs = append(errs, fmt.Errorf("gold must be >= 0, got %d", d.Gold))
	}
	if err := d.Stats.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewCharacter instantiates the character template id at pos with an
// inventory of invSize slots. Classes contribute growth, skills and the xp
// factor; the race adds its bonus to the base stats. Characters above level
// 1 receive the growth of every extra level.
//
// Precondition: invSize > 0.
func (c *Catalog) NewCharacter(id string, pos grid.Pos, invSize int) (*entity.Character, error) {
	def, ok := c.Characters.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w character %q", ErrUnknown, id)
	}
	name := def.Name
	if name == "" {
		name = def.ID
	}
	stats := def.Stats.stats()
	if race, ok := c.Races.Get(def.Race); ok {
		stats.HPMax += race.Bonus.HP
		stats.Strength += race.Bonus.Strength
		stats.Defense += race.Bonus.Defense
		stats.Resistance += race.Bonus.Resistance
	}
	ch := &entity.Character{
		Movable:  entity.NewMovable(entity.NewBase(name, def.Sprite, pos), stats, invSize),
		Race:     def.Race,
		Classes:  append([]string(nil), def.Classes...),
		Dialog:   append([]string(nil), def.Dialog...),
		JoinTeam: def.JoinTeam,
	}
	for _, id := range def.Classes {
		cl, ok := c.Classes.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w class %q", ErrUnknown, id)
		}
		g := cl.Growth.growth()
		ch.Growth.HPMax += g.HPMax
		ch.Growth.Strength += g.Strength
		ch.Growth.Defense += g.Defense
		ch.Growth.Resistance += g.Resistance
		ch.XPFactor = max(ch.XPFactor, cl.XPFactor)
		for _, s := range cl.Skills {
			if !ch.HasSkill(entity.SkillKind(s.Kind)) {
				ch.Skills = append(ch.Skills, s.skill())
			}
		}
	}
	for lvl := 1; lvl < def.Level; lvl++ {
		ch.Level++
		ch.HPMax += ch.Growth.HPMax
		ch.Strength += ch.Growth.Strength
		ch.Defense += ch.Growth.Defense
		ch.Resistance += ch.Growth.Resistance
	}
	ch.HP = ch.HPMax
	ch.Earn(def.Gold)
	for _, id := range def.Items {
		it, err := c.NewItem(id)
		if err != nil {
			return nil, err
		}
		if err := ch.Inventory.Set(it); err != nil {
			return nil, fmt.Errorf("character %q: %w", def.ID, err)
		}
	}
	for _, id := range def.Equipment {
		it, err := c.NewItem(id)
		if err != nil {
			return nil, err
		}
		if !it.Wearable() {
			return nil, fmt.Errorf("character %q: item %q is not wearable", def.ID, id)
		}
		ch.Equipment.Place(it)
	}
	return ch, nil
}

// NewPlayer instantiates the character template id as a player.
func (c *Catalog) NewPlayer(id string, pos grid.Pos, invSize int) (*entity.Player, error) {
	ch, err := c.NewCharacter(id, pos, invSize)
	if err != nil {
		return nil, err
	}
	ch.JoinTeam = false
	return &entity.Player{Character: *ch}, nil
}
