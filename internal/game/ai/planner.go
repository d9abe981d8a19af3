package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/reach"
)

// PlannedAction is the decision for one actor. Path is empty when the actor
// stays put; Target is nil when it does not attack.
type PlannedAction struct {
	Path   []grid.Pos
	Dest   grid.Pos
	Target entity.Target
}

// Moves reports whether the plan changes the actor position.
func (a PlannedAction) Moves() bool { return len(a.Path) > 0 }

// Planner makes greedy single-turn decisions.
type Planner struct {
	logger *zap.Logger
}

// NewPlanner constructs a Planner.
//
// Precondition: logger must not be nil.
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		panic("ai.NewPlanner: logger must not be nil")
	}
	return &Planner{logger: logger}
}

// Plan decides where the actor moves and whom it strikes.
//
// An opponent in reach from some reachable tile is attacked from the cheapest
// such tile; among several, the closest one with the least hp wins. Otherwise
// active actors walk toward the nearest opponent; static and semi-active
// actors wait.
//
// Precondition: ws.Map and ws.Actor must not be nil.
func (p *Planner) Plan(ws *WorldState) PlannedAction {
	if ws == nil || ws.Map == nil || ws.Actor == nil {
		panic("ai.Planner.Plan: incomplete world state")
	}
	origin := ws.Actor.Pos
	stay := PlannedAction{Dest: origin}

	moves := reach.Costs{origin: 0}
	if ws.Strategy != entity.StrategyStatic {
		moves = reach.PossibleMoves(ws.Map, origin, ws.Actor.MaxMoves, ws.Occupied)
	}
	radii := ws.Actor.AttackReach()
	tiles := ws.opponentTiles()
	if len(tiles) == 0 {
		return stay
	}

	field := reach.DistanceField(ws.Map, []grid.Pos{origin}, ws.Occupied)
	distance := func(t grid.Pos) int {
		best := math.MaxInt
		for _, n := range t.Neighbors() {
			if d, ok := field[n]; ok && d < best {
				best = d
			}
		}
		return best
	}

	attackable := reach.PossibleAttacks(moves, radii, tiles)
	if len(attackable) > 0 {
		var target entity.Target
		bestDist := math.MaxInt
		for _, t := range attackable.Sorted() {
			o := ws.opponentAt(t)
			d := reach.AttackOrigins(moves, radii, t)
			cost := moves[d[0]]
			if target == nil || cost < bestDist || (cost == bestDist && o.Vital().HP < target.Vital().HP) {
				target, bestDist = o, cost
			}
		}
		dest := reach.AttackOrigins(moves, radii, target.Core().Pos)[0]
		p.logger.Debug("ai attack",
			zap.String("actor", ws.Actor.Name),
			zap.String("target", target.Core().Name),
			zap.Stringer("from", dest),
		)
		return PlannedAction{Path: reach.DeterminePath(dest, moves), Dest: dest, Target: target}
	}

	if ws.Strategy == entity.StrategyStatic || ws.Strategy == entity.StrategySemiActive {
		return stay
	}

	var goal grid.Pos
	bestDist := math.MaxInt
	for _, t := range tiles {
		if d := distance(t); d < bestDist {
			goal, bestDist = t, d
		}
	}
	if bestDist == math.MaxInt {
		p.logger.Debug("ai no path", zap.String("actor", ws.Actor.Name))
		return stay
	}

	approach := reach.DistanceField(ws.Map, ws.Map.WalkableNeighbors(goal, ws.Occupied), ws.Occupied)
	dest := origin
	bestLeft := math.MaxInt
	if d, ok := approach[origin]; ok {
		bestLeft = d
	}
	for _, tile := range sortedTiles(moves) {
		left, ok := approach[tile]
		if !ok {
			continue
		}
		if left < bestLeft || (left == bestLeft && moves[tile] < moves[dest]) {
			dest, bestLeft = tile, left
		}
	}
	if dest == origin {
		return stay
	}
	p.logger.Debug("ai approach",
		zap.String("actor", ws.Actor.Name),
		zap.Stringer("goal", goal),
		zap.Stringer("dest", dest),
	)
	return PlannedAction{Path: reach.DeterminePath(dest, moves), Dest: dest}
}

func sortedTiles(c reach.Costs) []grid.Pos {
	out := make([]grid.Pos, 0, len(c))
	for p := range c {
		out = append(out, p)
	}
	grid.SortPositions(out)
	return out
}
