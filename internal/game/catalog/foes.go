package catalog

import (
	"errors"
	"fmt"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// LootDef is one loot roll. Exactly one of Item and Gold is set.
type LootDef struct {
	Item        string `yaml:"item"`
	Gold        int    `yaml:"gold"`
	Probability int    `yaml:"probability"`
}

// FoeDef is a foe template. Growth is applied once per level above 1.
type FoeDef struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Sprite   string    `yaml:"sprite"`
	Keywords []string  `yaml:"keywords"`
	Stats    StatsDef  `yaml:"stats"`
	Growth   GrowthDef `yaml:"growth"`
	XPGain   int       `yaml:"xp_gain"`
	Strategy string    `yaml:"strategy"`
	Loot     []LootDef `yaml:"loot"`
}

func (d *FoeDef) key() string { return d.ID }

// Validate checks the definition fields.
func (d *FoeDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if err := d.Stats.validate(); err != nil {
		errs = append(errs, err)
	}
	if d.XPGain < 0 {
		errs = append(errs, fmt.Errorf("xp_gain must be >= 0, got %d", d.XPGain))
	}
	if d.Strategy != "" && !entity.ValidStrategy(entity.Strategy(d.Strategy)) {
		errs = append(errs, fmt.Errorf("unknown strategy %q", d.Strategy))
	}
	for i, l := range d.Loot {
		if (l.Item == "") == (l.Gold <= 0) {
			errs = append(errs, fmt.Errorf("loot %d: exactly one of item and gold must be set", i))
		}
		if l.Probability < 0 || l.Probability > 100 {
			errs = append(errs, fmt.Errorf("loot %d: probability must be in [0,100], got %d", i, l.Probability))
		}
	}
	return errors.Join(errs...)
}

// NewFoe instantiates the foe template id at pos and level lvl. Loot items
// are built eagerly so that the drop is a concrete instance.
//
// Precondition: lvl >= 1.
func (c *Catalog) NewFoe(id string, pos grid.Pos, lvl int) (*entity.Foe, error) {
	if lvl < 1 {
		panic(fmt.Sprintf("catalog: foe level must be >= 1, got %d", lvl))
	}
	def, ok := c.Foes.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w foe %q", ErrUnknown, id)
	}
	name := def.Name
	if name == "" {
		name = def.ID
	}
	strategy := entity.Strategy(def.Strategy)
	if strategy == "" {
		strategy = entity.StrategyActive
	}
	stats := def.Stats.stats()
	n := lvl - 1
	stats.HPMax += n * def.Growth.HP
	stats.Strength += n * def.Growth.Strength
	stats.Defense += n * def.Growth.Defense
	stats.Resistance += n * def.Growth.Resistance
	f := &entity.Foe{
		Movable:  entity.NewMovable(entity.NewBase(name, def.Sprite, pos), stats, 1),
		Keywords: append([]string(nil), def.Keywords...),
		XPGain:   def.XPGain * lvl,
		Strategy: strategy,
	}
	f.Level = lvl
	for _, l := range def.Loot {
		var it *item.Item
		if l.Gold > 0 {
			it = item.NewGold(l.Gold)
		} else {
			var err error
			if it, err = c.NewItem(l.Item); err != nil {
				return nil, err
			}
		}
		f.Loot = append(f.Loot, entity.LootEntry{Item: it, Probability: l.Probability})
	}
	return f, nil
}
