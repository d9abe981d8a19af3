// Package grid provides tile arithmetic for the tactical map: positions,
// 4-connected adjacency, bounds, obstacles, and the distance metrics used by
// movement and attack reach.
package grid

import (
	"fmt"
	"sort"
)

// Pos is a tile coordinate (column, row). Every position in the engine is
// tile-aligned.
type Pos struct {
	X int
	Y int
}

// String returns "(x,y)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p shifted by d.
func (p Pos) Add(d Pos) Pos {
	return Pos{X: p.X + d.X, Y: p.Y + d.Y}
}

// offsets lists the four 4-connected directions in a fixed order:
// up, right, down, left.
var offsets = [4]Pos{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Neighbors returns the four 4-connected tiles around p. No diagonals.
//
// Postcondition: len(result) == 4; every element is at Manhattan distance 1 from p.
func (p Pos) Neighbors() []Pos {
	out := make([]Pos, 0, len(offsets))
	for _, d := range offsets {
		out = append(out, p.Add(d))
	}
	return out
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Pos) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns max(|a.X-b.X|, |a.Y-b.Y|). Weapon reach is expressed as
// a set of Chebyshev radii.
func Chebyshev(a, b Pos) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Ring returns every tile at exactly Chebyshev distance r from center.
//
// Precondition: r >= 0.
// Postcondition: len(result) == 1 when r == 0, 8*r otherwise.
func Ring(center Pos, r int) []Pos {
	if r == 0 {
		return []Pos{center}
	}
	out := make([]Pos, 0, 8*r)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if abs(dx) == r || abs(dy) == r {
				out = append(out, Pos{X: center.X + dx, Y: center.Y + dy})
			}
		}
	}
	return out
}

// Size is the map dimension in tiles.
type Size struct {
	Width  int
	Height int
}

// InBounds reports whether p lies within the map.
func (s Size) InBounds(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// Tiles returns every tile of the map in row-major order.
func (s Size) Tiles() []Pos {
	out := make([]Pos, 0, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			out = append(out, Pos{X: x, Y: y})
		}
	}
	return out
}

// Set is an unordered set of tiles.
type Set map[Pos]struct{}

// NewSet builds a Set from the given tiles.
func NewSet(tiles ...Pos) Set {
	s := make(Set, len(tiles))
	for _, t := range tiles {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts p.
func (s Set) Add(p Pos) { s[p] = struct{}{} }

// Remove deletes p.
func (s Set) Remove(p Pos) { delete(s, p) }

// Has reports whether p is in the set.
func (s Set) Has(p Pos) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the tiles ordered by row, then column. Used wherever
// deterministic iteration matters (serialization, AI tie-breaks).
func (s Set) Sorted() []Pos {
	out := make([]Pos, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	SortPositions(out)
	return out
}

// SortPositions orders tiles by row, then column, in place.
func SortPositions(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}

// Map is the static terrain: its size and the impassable obstacle set.
type Map struct {
	Size      Size
	Obstacles Set
}

// NewMap creates a Map of the given size with the given obstacles.
//
// Postcondition: Obstacles is non-nil.
func NewMap(size Size, obstacles ...Pos) *Map {
	return &Map{Size: size, Obstacles: NewSet(obstacles...)}
}

// Passable reports whether p is inside the map and not an obstacle. Entity
// occupancy is the caller's concern.
func (m *Map) Passable(p Pos) bool {
	return m.Size.InBounds(p) && !m.Obstacles.Has(p)
}

// Occupancy reports whether a tile holds an entity that blocks movement.
type Occupancy func(p Pos) bool

// Walkable reports in_bounds(p) ∧ p ∉ obstacles ∧ ¬occupied(p).
//
// Precondition: occupied may be nil, meaning no entity blocks any tile.
func (m *Map) Walkable(p Pos, occupied Occupancy) bool {
	if !m.Passable(p) {
		return false
	}
	return occupied == nil || !occupied(p)
}

// WalkableNeighbors returns the 4-connected neighbors of p that are walkable.
func (m *Map) WalkableNeighbors(p Pos, occupied Occupancy) []Pos {
	var out []Pos
	for _, n := range p.Neighbors() {
		if m.Walkable(n, occupied) {
			out = append(out, n)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
