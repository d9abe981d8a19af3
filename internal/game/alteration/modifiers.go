package alteration

// Bonus returns the summed Power of every active alteration of kind k.
//
// Postcondition: Returns >= 0.
func Bonus(s *Set, k Kind) int {
	if s == nil {
		return 0
	}
	total := 0
	for _, a := range s.items {
		if a.Kind == k {
			total += a.Power
		}
	}
	return total
}

// Stunned reports whether the owner must skip its turn.
func Stunned(s *Set) bool {
	return s != nil && s.HasKind(Stun)
}

// HPDelta returns the hp change the set applies at the next tick: regen adds,
// poison subtracts.
func HPDelta(s *Set) int {
	return Bonus(s, Regen) - Bonus(s, Poison)
}
