// Package reach computes movement ranges, attack targets and paths over the
// tile grid.
package reach

import (
	"slices"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
)

// Costs maps each reachable tile to its movement cost.
type Costs map[grid.Pos]int

// PossibleMoves runs a layered breadth-first search from origin, returning
// every tile reachable within maxMoves steps through walkable tiles.
// The origin is always included with cost 0.
//
// Precondition: maxMoves >= 0.
// Postcondition: every cost equals the graph distance from origin.
func PossibleMoves(m *grid.Map, origin grid.Pos, maxMoves int, occupied grid.Occupancy) Costs {
	costs := Costs{origin: 0}
	frontier := []grid.Pos{origin}
	for step := 1; step <= maxMoves && len(frontier) > 0; step++ {
		var next []grid.Pos
		for _, p := range frontier {
			for _, n := range p.Neighbors() {
				if _, seen := costs[n]; seen {
					continue
				}
				if !m.Walkable(n, occupied) {
					continue
				}
				costs[n] = step
				next = append(next, n)
			}
		}
		frontier = next
	}
	return costs
}

// DistanceField runs a multi-source breadth-first search over every walkable
// tile with no step bound. Sources have distance 0 even when occupied.
func DistanceField(m *grid.Map, sources []grid.Pos, occupied grid.Occupancy) Costs {
	costs := make(Costs, len(sources))
	frontier := make([]grid.Pos, 0, len(sources))
	for _, s := range sources {
		if _, ok := costs[s]; !ok {
			costs[s] = 0
			frontier = append(frontier, s)
		}
	}
	for step := 1; len(frontier) > 0; step++ {
		var next []grid.Pos
		for _, p := range frontier {
			for _, n := range p.Neighbors() {
				if _, seen := costs[n]; seen {
					continue
				}
				if !m.Walkable(n, occupied) {
					continue
				}
				costs[n] = step
				next = append(next, n)
			}
		}
		frontier = next
	}
	return costs
}

// InReach reports whether from can strike at with one of the reach radii.
func InReach(from, at grid.Pos, radii []int) bool {
	return slices.Contains(radii, grid.Chebyshev(from, at))
}

// PossibleAttacks returns the candidate tiles from which at least one tile of
// moves lies at a Chebyshev distance contained in radii.
func PossibleAttacks(moves Costs, radii []int, candidates []grid.Pos) grid.Set {
	out := grid.NewSet()
	for _, c := range candidates {
		for _, r := range radii {
			if r <= 0 {
				continue
			}
			if ringHits(moves, c, r) {
				out.Add(c)
				break
			}
		}
	}
	return out
}

func ringHits(moves Costs, center grid.Pos, r int) bool {
	for _, p := range grid.Ring(center, r) {
		if _, ok := moves[p]; ok {
			return true
		}
	}
	return false
}

// AttackOrigins returns the tiles of moves from which target is in reach,
// cheapest first.
func AttackOrigins(moves Costs, radii []int, target grid.Pos) []grid.Pos {
	var out []grid.Pos
	for p := range moves {
		if InReach(p, target, radii) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b grid.Pos) int {
		if d := moves[a] - moves[b]; d != 0 {
			return d
		}
		return comparePos(a, b)
	})
	return out
}

// DeterminePath rebuilds the path to target from a PossibleMoves cost map,
// starting at a tile of cost 1 and ending at target. A target of cost 0 or
// one missing from costs yields nil.
//
// Postcondition: costs along the path are strictly increasing by one.
func DeterminePath(target grid.Pos, costs Costs) []grid.Pos {
	c, ok := costs[target]
	if !ok || c == 0 {
		return nil
	}
	path := make([]grid.Pos, c)
	cur := target
	for i := c - 1; i >= 0; i-- {
		path[i] = cur
		if i == 0 {
			break
		}
		found := false
		for _, n := range cur.Neighbors() {
			if nc, ok := costs[n]; ok && nc == costs[cur]-1 {
				cur = n
				found = true
				break
			}
		}
		if !found {
			panic("reach: cost map has no descending neighbour")
		}
	}
	return path
}

func comparePos(a, b grid.Pos) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}
