// Package mission tracks level objectives and derives victory or defeat.
package mission

import (
	"fmt"
	"slices"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// Kind is the objective type.
type Kind string

const (
	KillEverybody Kind = "kill_everybody"
	KillTargets   Kind = "kill_targets"
	Position      Kind = "position"
	TouchPosition Kind = "touch_position"
	TurnLimit     Kind = "turn_limit"
)

// ValidKind reports whether k is known.
func ValidKind(k Kind) bool {
	switch k {
	case KillEverybody, KillTargets, Position, TouchPosition, TurnLimit:
		return true
	}
	return false
}

// Mission is one objective of a level.
type Mission struct {
	Kind        Kind
	Description string
	Main        bool
	Ended       bool
	// Failed is set when a turn limit was exceeded.
	Failed bool

	// Targets holds the foe ids of a kill_targets mission.
	Targets []string
	// Positions holds the goal tiles of position missions.
	Positions grid.Set
	// MinChars is the number of players that must reach a position tile.
	MinChars int
	// Limit is the last allowed turn of a turn_limit mission.
	Limit int

	// Succeeded lists the ids of players that fulfilled a position objective.
	Succeeded []string

	GoldReward  int
	ItemRewards []*item.Item
}

// Snapshot is what UpdateState observes.
type Snapshot struct {
	// Foes lists the ids of living foes.
	Foes []string
	Turn int
	// Actor is the id of the player that just moved, if any.
	Actor string
	// ActorPos is where Actor stands.
	ActorPos grid.Pos
}

// Validate checks that the mission carries what its kind needs.
func (m *Mission) Validate() error {
	if !ValidKind(m.Kind) {
		return fmt.Errorf("mission: unknown kind %q", m.Kind)
	}
	switch m.Kind {
	case KillTargets:
		if len(m.Targets) == 0 {
			return fmt.Errorf("mission: kill_targets needs targets")
		}
	case Position, TouchPosition:
		if len(m.Positions) == 0 {
			return fmt.Errorf("mission: %s needs positions", m.Kind)
		}
	case TurnLimit:
		if m.Limit <= 0 {
			return fmt.Errorf("mission: turn_limit needs a positive limit")
		}
	}
	return nil
}

// UpdateState re-evaluates the mission against s and reports whether it has
// ended. Once ended a mission stays ended.
func (m *Mission) UpdateState(s Snapshot) bool {
	if m.Ended {
		return true
	}
	switch m.Kind {
	case KillEverybody:
		m.Ended = len(s.Foes) == 0
	case KillTargets:
		m.Ended = !slices.ContainsFunc(m.Targets, func(id string) bool { return slices.Contains(s.Foes, id) })
	case Position, TouchPosition:
		if s.Actor != "" && m.Positions.Has(s.ActorPos) && !slices.Contains(m.Succeeded, s.Actor) {
			m.Succeeded = append(m.Succeeded, s.Actor)
		}
		need := 1
		if m.Kind == Position {
			need = max(1, m.MinChars)
		}
		m.Ended = len(m.Succeeded) >= need
	case TurnLimit:
		if s.Turn > m.Limit {
			m.Ended = true
			m.Failed = true
		}
	}
	return m.Ended
}

// HasSucceeded reports whether playerID fulfilled this position objective.
func (m *Mission) HasSucceeded(playerID string) bool {
	return slices.Contains(m.Succeeded, playerID)
}

// Achieved reports whether the mission counts as fulfilled.
func (m *Mission) Achieved() bool {
	return m.Ended && !m.Failed
}

// RemovesPlayer reports whether reaching a goal tile takes the player off the map.
func (m *Mission) RemovesPlayer() bool {
	return m.Kind == Position
}
