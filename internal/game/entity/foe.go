package entity

import "github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"

// Strategy selects how the AI drives a foe.
type Strategy string

const (
	// StrategyStatic never moves; it strikes whatever is in reach.
	StrategyStatic Strategy = "static"
	// StrategySemiActive moves only when an attack becomes possible this turn.
	StrategySemiActive Strategy = "semi_active"
	// StrategyActive always approaches the nearest target.
	StrategyActive Strategy = "active"
)

// ValidStrategy reports whether s is known.
func ValidStrategy(s Strategy) bool {
	switch s {
	case StrategyStatic, StrategySemiActive, StrategyActive:
		return true
	}
	return false
}

// LootEntry is one roll of a foe loot table. Gold loot uses an item of kind
// item.KindGold.
type LootEntry struct {
	Item        *item.Item
	Probability int
}

// Foe is a hostile movable driven by the AI.
type Foe struct {
	Movable
	Keywords []string
	XPGain   int
	Loot     []LootEntry
	Strategy Strategy
}

// Kind implements Entity.
func (*Foe) Kind() Kind { return KindFoe }
