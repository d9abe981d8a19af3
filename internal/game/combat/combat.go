// Package combat resolves duels between movables and destroyables and applies
// item effects.
package combat

import (
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/diary"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
)

// Config holds the progression tunables.
type Config struct {
	// XPDivisor divides dealt damage into experience.
	XPDivisor int
	// LevelUpFactor scales xp_next on level-up for classes without their own factor.
	LevelUpFactor float64
	// MaxLevel caps player levels; 0 means uncapped.
	MaxLevel int
}

// DefaultConfig returns the stock progression tunables.
func DefaultConfig() Config {
	return Config{XPDivisor: 2, LevelUpFactor: 1.5, MaxLevel: 20}
}

// Resolver runs duels and applies effects, writing user-visible lines to a
// diary.
type Resolver struct {
	cfg         Config
	roller      *dice.Roller
	diary       *diary.Diary
	alterations *alteration.Registry
	logger      *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: roller, d and logger must be non-nil; cfg.XPDivisor > 0.
// alterations may be nil, in which case alteration effects fall back to the
// effect name as kind.
func NewResolver(cfg Config, roller *dice.Roller, d *diary.Diary, alterations *alteration.Registry, logger *zap.Logger) *Resolver {
	if cfg.XPDivisor <= 0 {
		panic("combat: XPDivisor must be > 0")
	}
	return &Resolver{cfg: cfg, roller: roller, diary: d, alterations: alterations, logger: logger}
}

// Diary returns the diary written to.
func (r *Resolver) Diary() *diary.Diary { return r.diary }

// Roller returns the randomness source used for checks.
func (r *Resolver) Roller() *dice.Roller { return r.roller }

// Config returns the progression tunables.
func (r *Resolver) Config() Config { return r.cfg }
