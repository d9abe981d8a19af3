package mission

import "errors"

// ErrNoMainMission is returned when a tracker is built without a main mission.
var ErrNoMainMission = errors.New("mission: level has no main mission")

// Status is the derived outcome of a level.
type Status int

const (
	Ongoing Status = iota
	Victory
	Defeat
)

// String returns the status label.
func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	}
	return "unknown"
}

// Tracker owns the missions of a level.
type Tracker struct {
	main     *Mission
	optional []*Mission
}

// NewTracker builds a Tracker from missions; exactly one must be main.
//
// Postcondition: returns ErrNoMainMission when no mission is main.
func NewTracker(missions []*Mission) (*Tracker, error) {
	t := &Tracker{}
	for _, m := range missions {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if m.Main && t.main == nil {
			t.main = m
			continue
		}
		m.Main = false
		t.optional = append(t.optional, m)
	}
	if t.main == nil {
		return nil, ErrNoMainMission
	}
	return t, nil
}

// Main returns the main mission.
func (t *Tracker) Main() *Mission { return t.main }

// Optional returns the optional missions.
func (t *Tracker) Optional() []*Mission { return t.optional }

// All returns the main mission followed by the optional ones.
func (t *Tracker) All() []*Mission {
	return append([]*Mission{t.main}, t.optional...)
}

// PositionMissions returns every unfinished position or touch_position mission.
func (t *Tracker) PositionMissions() []*Mission {
	var out []*Mission
	for _, m := range t.All() {
		if (m.Kind == Position || m.Kind == TouchPosition) && !m.Ended {
			out = append(out, m)
		}
	}
	return out
}

// Update runs UpdateState on every mission.
func (t *Tracker) Update(s Snapshot) {
	for _, m := range t.All() {
		m.UpdateState(s)
	}
}

// Status derives the level outcome from the main mission and the number of
// players still on the map.
func (t *Tracker) Status(players int) Status {
	switch {
	case t.main.Ended && t.main.Failed:
		return Defeat
	case t.main.Ended:
		return Victory
	case players == 0 && len(t.main.Succeeded) > 0:
		return Victory
	case players == 0:
		return Defeat
	}
	return Ongoing
}

// Settle closes the optional missions at victory: unexpired turn limits are
// marked achieved. It returns the achieved optional missions.
func (t *Tracker) Settle(turn int) []*Mission {
	var out []*Mission
	for _, m := range t.optional {
		if m.Kind == TurnLimit && !m.Ended && turn <= m.Limit {
			m.Ended = true
		}
		if m.Achieved() {
			out = append(out, m)
		}
	}
	return out
}
