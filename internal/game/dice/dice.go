// Package dice provides the randomness abstraction used by the rules engine:
// percentage rolls for parry, loot and weapon side effects, and small dice
// expressions for rewards such as house gifts.
package dice

import "fmt"

// Source is the randomness provider.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult holds the audit trail of one dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns "2d6+3 → [4 5] +3 = 12".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Succeeds reports whether a percentage roll against chance succeeds.
// chance <= 0 never succeeds; chance >= 100 always succeeds.
//
// Precondition: src must be non-nil.
// Postcondition: consumes exactly one Intn(100) draw.
func Succeeds(src Source, chance int) bool {
	return src.Intn(100) < chance
}
