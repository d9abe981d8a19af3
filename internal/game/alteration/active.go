package alteration

// Alteration is one applied alteration. It expires once Elapsed reaches
// Duration.
type Alteration struct {
	Name        string
	Kind        Kind
	Power       int
	Duration    int
	Elapsed     int
	Description string
}

// Expired reports whether the alteration has run its course.
func (a *Alteration) Expired() bool {
	return a.Elapsed >= a.Duration
}

// Remaining returns the number of ticks left before expiry.
func (a *Alteration) Remaining() int {
	if a.Expired() {
		return 0
	}
	return a.Duration - a.Elapsed
}

// Set tracks the alterations applied to one movable in application order.
// It is not safe for concurrent use.
type Set struct {
	items []*Alteration
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Apply adds a to the set. Re-applying an alteration with the same name
// restarts it, keeping the larger power and duration.
//
// Precondition: a must not be nil.
// Postcondition: Has(a.Name) is true.
func (s *Set) Apply(a *Alteration) {
	if a == nil {
		panic("alteration: Apply called with nil alteration")
	}
	for _, cur := range s.items {
		if cur.Name != a.Name {
			continue
		}
		cur.Elapsed = 0
		cur.Power = max(cur.Power, a.Power)
		cur.Duration = max(cur.Duration, a.Duration)
		return
	}
	cp := *a
	s.items = append(s.items, &cp)
}

// Remove deletes the alteration named name. Missing names are a no-op.
func (s *Set) Remove(name string) {
	out := s.items[:0]
	for _, a := range s.items {
		if a.Name != name {
			out = append(out, a)
		}
	}
	s.items = out
}

// Tick increments Elapsed on every alteration and removes the expired ones.
//
// Postcondition: no returned alteration is still in the set.
func (s *Set) Tick() []*Alteration {
	var expired []*Alteration
	out := s.items[:0]
	for _, a := range s.items {
		a.Elapsed++
		if a.Expired() {
			expired = append(expired, a)
			continue
		}
		out = append(out, a)
	}
	s.items = out
	return expired
}

// Has reports whether an alteration named name is active.
func (s *Set) Has(name string) bool {
	for _, a := range s.items {
		if a.Name == name {
			return true
		}
	}
	return false
}

// HasKind reports whether any active alteration is of kind k.
func (s *Set) HasKind(k Kind) bool {
	for _, a := range s.items {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Len returns the number of active alterations.
func (s *Set) Len() int {
	return len(s.items)
}

// All returns a copy of the active alteration list. The pointed-to values are
// shared and must not be modified by the caller.
func (s *Set) All() []*Alteration {
	out := make([]*Alteration, len(s.items))
	copy(out, s.items)
	return out
}
