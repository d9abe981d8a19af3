// Package level owns the state of one playable level: its map, every entity,
// the missions and the turn scheduler. Every mutation goes through a Level
// method; the package is single-threaded and never blocks.
package level

import (
	"fmt"
	"slices"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/ai"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/combat"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/diary"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/reach"
)

// Phase is the lifecycle state of a level.
type Phase string

const (
	PhaseInitialization Phase = "initialization"
	PhaseInProgress     Phase = "in_progress"
	PhaseVictory        Phase = "ended_victory"
	PhaseDefeat         Phase = "ended_defeat"
)

// Terminal reports whether no more turns are played.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// ValidPhase reports whether p is known.
func ValidPhase(p Phase) bool {
	switch p {
	case PhaseInitialization, PhaseInProgress, PhaseVictory, PhaseDefeat:
		return true
	}
	return false
}

// Camp is the side currently acting.
type Camp string

const (
	CampPlayer Camp = "player"
	CampAllies Camp = "allies"
	CampFoes   Camp = "foes"
)

// Next returns the camp acting after c.
func (c Camp) Next() Camp {
	switch c {
	case CampPlayer:
		return CampAllies
	case CampAllies:
		return CampFoes
	}
	return CampPlayer
}

// Stage is the player-turn sub state that decides what a click means.
type Stage int

const (
	StageIdle Stage = iota
	StageChoosingMove
	StageMenu
	StageChoosingAttack
	StageChoosingInteraction
	StageChoosingTeleport
	StageTrading
	StageShopping
)

// Config holds the level tunables.
type Config struct {
	Combat        combat.Config
	DiarySize     int
	FramesPerTile int
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{Combat: combat.DefaultConfig(), DiarySize: diary.DefaultCapacity, FramesPerTile: 4}
}

// Deps are the collaborators a level needs.
//
// Logger and Roller must be set; Alterations and Scripts may be nil.
type Deps struct {
	Logger      *zap.Logger
	Roller      *dice.Roller
	Alterations *alteration.Registry
	Scripts     Scripts
}

// Preview is the range display of an entity inspected without a selection.
type Preview struct {
	Entity  entity.Entity
	Moves   reach.Costs
	Attacks grid.Set
}

// Level is the aggregate of a playable level.
type Level struct {
	Index int
	Name  string
	// ScriptDir locates the Lua hooks of the level, if any.
	ScriptDir     string
	Map           *grid.Map
	PlacementArea grid.Set

	Players    []*entity.Player
	Allies     []*entity.Character
	Foes       []*entity.Foe
	Breakables []*entity.Breakable
	Chests     []*entity.Chest
	Doors      []*entity.Door
	Portals    []*entity.Portal
	Fountains  []*entity.Fountain
	Buildings  []*entity.Building
	// Passed holds players that left the map through a position objective.
	Passed []*entity.Player

	Missions *mission.Tracker
	Events   Events

	// Transient player-turn state.
	Selected             *entity.Player
	SelectedItem         *item.Item
	PossibleMoves        reach.Costs
	PossibleAttacks      grid.Set
	PossibleInteractions grid.Set
	Teleports            grid.Set
	Preview              *Preview
	Diary                *diary.Diary

	turn      int
	camp      Camp
	stage     Stage
	phase     *fsm.FSM
	animation int
	startPos  grid.Pos
	turnItems []trade
	partner   *entity.Player
	shop      *entity.Building
	portal    *entity.Portal
	dialogs   []Dialog
	rewarded  bool
	autopilot bool

	cfg      Config
	resolver *combat.Resolver
	planner  *ai.Planner
	scripts  Scripts
	logger   *zap.Logger
}

// New creates an empty level in the initialization phase. Loaders fill the
// entity collections, then call Validate.
//
// Precondition: m, deps.Logger and deps.Roller must be non-nil.
func New(index int, name string, m *grid.Map, cfg Config, deps Deps) *Level {
	if m == nil || deps.Logger == nil || deps.Roller == nil {
		panic("level.New: map, logger and roller must not be nil")
	}
	if cfg.DiarySize <= 0 {
		cfg.DiarySize = diary.DefaultCapacity
	}
	if cfg.Combat.XPDivisor <= 0 {
		cfg.Combat = combat.DefaultConfig()
	}
	logger := deps.Logger.With(zap.Int("level", index))
	d := diary.New(cfg.DiarySize)
	l := &Level{
		Index:         index,
		Name:          name,
		Map:           m,
		PlacementArea: grid.NewSet(),
		Diary:         d,
		camp:          CampPlayer,
		cfg:           cfg,
		resolver:      combat.NewResolver(cfg.Combat, deps.Roller, d, deps.Alterations, logger),
		planner:       ai.NewPlanner(logger),
		scripts:       deps.Scripts,
		logger:        logger,
	}
	l.phase = newPhaseMachine(l)
	return l
}

// Phase returns the current lifecycle phase.
func (l *Level) Phase() Phase { return Phase(l.phase.Current()) }

// Turn returns the turn counter; 0 during initialization.
func (l *Level) Turn() int { return l.turn }

// Camp returns the camp currently acting.
func (l *Level) Camp() Camp { return l.camp }

// Stage returns the player-turn sub state.
func (l *Level) Stage() Stage { return l.stage }

// Animating reports whether an animation is blocking state changes.
func (l *Level) Animating() bool { return l.animation > 0 }

// Config returns the level tunables.
func (l *Level) Config() Config { return l.cfg }

// Resolver returns the combat resolver bound to the level diary.
func (l *Level) Resolver() *combat.Resolver { return l.resolver }

// Logger returns the level logger.
func (l *Level) Logger() *zap.Logger { return l.logger }

// TradePartner returns the player on the other side of an open trade.
func (l *Level) TradePartner() *entity.Player { return l.partner }

// ActiveShop returns the building whose shop is open.
func (l *Level) ActiveShop() *entity.Building { return l.shop }

// Restore puts a loaded level back into a saved phase, turn and camp.
//
// Precondition: turn >= 1 unless phase is initialization.
func (l *Level) Restore(phase Phase, turn int, camp Camp) {
	if !ValidPhase(phase) {
		panic(fmt.Sprintf("level: unknown phase %q", phase))
	}
	if (phase == PhaseInitialization) != (turn == 0) {
		panic(fmt.Sprintf("level: turn %d inconsistent with phase %s", turn, phase))
	}
	l.phase.SetState(string(phase))
	l.turn = turn
	if camp == "" {
		camp = CampPlayer
	}
	l.camp = camp
}

// All returns every entity on the map in collection order.
func (l *Level) All() []entity.Entity {
	var out []entity.Entity
	for _, p := range l.Players {
		out = append(out, p)
	}
	for _, a := range l.Allies {
		out = append(out, a)
	}
	for _, f := range l.Foes {
		out = append(out, f)
	}
	for _, b := range l.Breakables {
		out = append(out, b)
	}
	for _, c := range l.Chests {
		out = append(out, c)
	}
	for _, d := range l.Doors {
		out = append(out, d)
	}
	for _, p := range l.Portals {
		out = append(out, p)
	}
	for _, f := range l.Fountains {
		out = append(out, f)
	}
	for _, b := range l.Buildings {
		out = append(out, b)
	}
	return out
}

// EntityAt returns the entity standing on p, or nil.
func (l *Level) EntityAt(p grid.Pos) entity.Entity {
	for _, e := range l.All() {
		if e.Core().Pos == p {
			return e
		}
	}
	return nil
}

// ByID returns the entity with the given id, searching passed players too.
func (l *Level) ByID(id string) entity.Entity {
	for _, e := range l.All() {
		if e.Core().ID == id {
			return e
		}
	}
	for _, p := range l.Passed {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerNamed returns the active or passed player called name.
func (l *Level) PlayerNamed(name string) *entity.Player {
	for _, p := range slices.Concat(l.Players, l.Passed) {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// occupiedExcept reports tiles blocked by any entity other than except.
func (l *Level) occupiedExcept(except entity.Entity) grid.Occupancy {
	return func(p grid.Pos) bool {
		e := l.EntityAt(p)
		return e != nil && e != except
	}
}

// Walkable reports whether p is on the map, free of obstacles and entities.
func (l *Level) Walkable(p grid.Pos) bool {
	return l.Map.Walkable(p, l.occupiedExcept(nil))
}

// Opponents returns what side may be struck by e: foes and breakables for
// players and allies, players and allies for foes.
func (l *Level) Opponents(e entity.Entity) []entity.Target {
	var out []entity.Target
	if e.Kind() == entity.KindFoe {
		for _, p := range l.Players {
			out = append(out, p)
		}
		for _, a := range l.Allies {
			out = append(out, a)
		}
		return out
	}
	for _, f := range l.Foes {
		out = append(out, f)
	}
	for _, b := range l.Breakables {
		out = append(out, b)
	}
	return out
}

// remove takes e out of its collection.
func (l *Level) remove(e entity.Entity) {
	switch v := e.(type) {
	case *entity.Player:
		l.Players = deleteFirst(l.Players, v)
	case *entity.Character:
		l.Allies = deleteFirst(l.Allies, v)
	case *entity.Foe:
		l.Foes = deleteFirst(l.Foes, v)
	case *entity.Breakable:
		l.Breakables = deleteFirst(l.Breakables, v)
	case *entity.Chest:
		l.Chests = deleteFirst(l.Chests, v)
	case *entity.Door:
		l.Doors = deleteFirst(l.Doors, v)
	case *entity.Portal:
		l.Portals = deleteFirst(l.Portals, v)
	case *entity.Fountain:
		l.Fountains = deleteFirst(l.Fountains, v)
	case *entity.Building:
		l.Buildings = deleteFirst(l.Buildings, v)
	default:
		panic(fmt.Sprintf("level: cannot remove %T", e))
	}
	l.logger.Debug("entity removed", zap.String("kind", string(e.Kind())), zap.String("name", e.Core().Name))
}

func deleteFirst[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

// portalByID returns the portal with the given id.
func (l *Level) portalByID(id string) *entity.Portal {
	for _, p := range l.Portals {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FoeIDs returns the ids of the living foes.
func (l *Level) FoeIDs() []string {
	out := make([]string, len(l.Foes))
	for i, f := range l.Foes {
		out[i] = f.ID
	}
	return out
}

// Validate checks the structural invariants of a freshly built level.
func (l *Level) Validate() error {
	if l.Missions == nil {
		return mission.ErrNoMainMission
	}
	ids := map[string]bool{}
	tiles := map[grid.Pos]string{}
	for _, p := range l.Passed {
		if ids[p.ID] {
			return fmt.Errorf("duplicate entity id %q", p.ID)
		}
		ids[p.ID] = true
	}
	for _, e := range l.All() {
		b := e.Core()
		if ids[b.ID] {
			return fmt.Errorf("duplicate entity id %q", b.ID)
		}
		ids[b.ID] = true
		if !l.Map.Passable(b.Pos) {
			return fmt.Errorf("%s %q stands on blocked tile %s", e.Kind(), b.Name, b.Pos)
		}
		if other, ok := tiles[b.Pos]; ok {
			return fmt.Errorf("%q and %q share tile %s", other, b.Name, b.Pos)
		}
		tiles[b.Pos] = b.Name
	}
	for _, p := range l.Portals {
		twin := l.portalByID(p.LinkedTo)
		if twin == nil || twin.LinkedTo != p.ID || twin == p {
			return fmt.Errorf("portal %q is not mutually linked", p.Name)
		}
	}
	for _, c := range l.Chests {
		if c.Opened && c.Contents != nil {
			return fmt.Errorf("opened chest %q still holds contents", c.Name)
		}
	}
	return nil
}
