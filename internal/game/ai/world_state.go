// Package ai picks the action of computer-controlled movables: one greedy
// decision per entity per camp step over a scalar distance field.
package ai

import (
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
)

// WorldState is the snapshot the planner decides on.
//
// Invariant: Map and Actor must not be nil.
type WorldState struct {
	Map   *grid.Map
	Actor *entity.Movable
	// Strategy drives how eagerly the actor approaches; empty means active.
	Strategy entity.Strategy
	// Opponents lists every entity the actor may strike, in level order.
	Opponents []entity.Target
	// Occupied reports tiles blocked by any entity other than the actor.
	Occupied grid.Occupancy
}

// opponentTiles returns the positions of the living opponents.
func (ws *WorldState) opponentTiles() []grid.Pos {
	out := make([]grid.Pos, 0, len(ws.Opponents))
	for _, o := range ws.Opponents {
		if o.Vital().Alive() {
			out = append(out, o.Core().Pos)
		}
	}
	return out
}

// opponentAt returns the living opponent standing on p.
func (ws *WorldState) opponentAt(p grid.Pos) entity.Target {
	for _, o := range ws.Opponents {
		if o.Core().Pos == p && o.Vital().Alive() {
			return o
		}
	}
	return nil
}
