package level

import (
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/reach"
)

// checkPlayerTurn validates that the user may act now.
func (l *Level) checkPlayerTurn() error {
	switch {
	case l.Phase() != PhaseInProgress:
		return ErrWrongPhase
	case l.camp != CampPlayer:
		return ErrNotPlayerTurn
	case l.Animating():
		return ErrAnimating
	}
	return nil
}

// checkSelected validates that a selected player is in one of stages.
func (l *Level) checkSelected(stages ...Stage) error {
	if err := l.checkPlayerTurn(); err != nil {
		return err
	}
	if l.Selected == nil {
		return ErrNoSelection
	}
	for _, s := range stages {
		if l.stage == s {
			return nil
		}
	}
	return ErrBusy
}

// SwapPlacement moves the player standing on from to to during
// initialization. A player already on to takes the vacated tile.
//
// Precondition: both tiles lie in the placement area.
func (l *Level) SwapPlacement(from, to grid.Pos) error {
	if l.Phase() != PhaseInitialization {
		return ErrWrongPhase
	}
	if !l.PlacementArea.Has(from) || !l.PlacementArea.Has(to) {
		return ErrNotPlacement
	}
	mover, ok := l.EntityAt(from).(*entity.Player)
	if !ok {
		return ErrNoTarget
	}
	switch other := l.EntityAt(to).(type) {
	case nil:
	case *entity.Player:
		other.Pos = from
	default:
		return ErrUnreachable
	}
	mover.Pos = to
	return nil
}

// SelectPlayer makes p the acting character and computes its moves.
//
// Postcondition: Stage() == StageChoosingMove; PossibleMoves holds p.Pos at cost 0.
func (l *Level) SelectPlayer(p *entity.Player) error {
	if err := l.checkPlayerTurn(); err != nil {
		return err
	}
	if l.Selected != nil && l.stage != StageChoosingMove {
		return ErrBusy
	}
	if p.TurnFinished {
		return ErrTurnFinished
	}
	if l.Selected != nil {
		l.Selected.Selected = false
	}
	l.Preview = nil
	l.Selected = p
	p.Selected = true
	p.Action = entity.ActionMove
	l.startPos = p.Pos
	l.turnItems = nil
	l.PossibleMoves = reach.PossibleMoves(l.Map, p.Pos, p.MaxMoves, l.occupiedExcept(p))
	l.PossibleAttacks = reach.PossibleAttacks(l.PossibleMoves, p.AttackReach(), l.opponentTiles(p))
	l.stage = StageChoosingMove
	return nil
}

func (l *Level) opponentTiles(e entity.Entity) []grid.Pos {
	var out []grid.Pos
	for _, o := range l.Opponents(e) {
		out = append(out, o.Core().Pos)
	}
	return out
}

// MovePlayer walks the selected player to dest. Reaching a position
// objective tile may take the player off the map, which ends its turn.
func (l *Level) MovePlayer(dest grid.Pos) error {
	if err := l.checkSelected(StageChoosingMove); err != nil {
		return err
	}
	p := l.Selected
	if _, ok := l.PossibleMoves[dest]; !ok {
		return ErrUnreachable
	}
	path := reach.DeterminePath(dest, l.PossibleMoves)
	p.Pos = dest
	l.animate(len(path))
	l.PossibleMoves = nil
	l.PossibleAttacks = nil
	l.stage = StageMenu
	p.Action = entity.ActionNone

	l.Missions.Update(mission.Snapshot{Foes: l.FoeIDs(), Turn: l.turn, Actor: p.ID, ActorPos: dest})
	for _, m := range l.Missions.All() {
		if m.HasSucceeded(p.ID) && m.Positions.Has(dest) {
			l.Diary.Addf("%s reached the objective", p.Name)
			if m.RemovesPlayer() {
				l.remove(p)
				l.Passed = append(l.Passed, p)
			}
			l.endTurn()
			return nil
		}
	}
	return nil
}

// PrepareAttack lists the opponents in reach of the selected player.
func (l *Level) PrepareAttack() error {
	if err := l.checkSelected(StageMenu); err != nil {
		return err
	}
	p := l.Selected
	l.PossibleAttacks = reach.PossibleAttacks(reach.Costs{p.Pos: 0}, p.AttackReach(), l.opponentTiles(p))
	if len(l.PossibleAttacks) == 0 {
		return ErrNoTarget
	}
	p.Action = entity.ActionAttack
	l.stage = StageChoosingAttack
	return nil
}

// Attack duels the opponent on at and ends the turn.
func (l *Level) Attack(at grid.Pos) error {
	if err := l.checkSelected(StageChoosingAttack); err != nil {
		return err
	}
	if !l.PossibleAttacks.Has(at) {
		return ErrNoTarget
	}
	target, ok := entity.AsTarget(l.EntityAt(at))
	if !ok {
		return ErrNoTarget
	}
	l.resolver.Duel(l.Selected, target, l.remove)
	l.endTurn()
	return nil
}

// Wait ends the selected player's turn where it stands.
func (l *Level) Wait() error {
	if err := l.checkSelected(StageChoosingMove, StageMenu); err != nil {
		return err
	}
	l.endTurn()
	return nil
}

// Back steps out of a targeting stage to the character menu.
func (l *Level) Back() error {
	if err := l.checkSelected(StageChoosingAttack, StageChoosingInteraction); err != nil {
		return err
	}
	l.PossibleAttacks = nil
	l.PossibleInteractions = nil
	l.Selected.Action = entity.ActionNone
	l.stage = StageMenu
	return nil
}

// CancelMove returns the selected player to where its turn started and
// reverses every trade made since. Allowed until an irreversible action.
//
// Postcondition: inventories and gold equal their values at selection.
func (l *Level) CancelMove() error {
	if err := l.checkPlayerTurn(); err != nil {
		return err
	}
	if l.Selected == nil {
		return ErrNoSelection
	}
	switch l.stage {
	case StageChoosingMove, StageMenu, StageChoosingAttack, StageChoosingInteraction:
	default:
		return ErrCannotCancel
	}
	l.undoTrades()
	l.Selected.Pos = l.startPos
	l.logger.Debug("move cancelled", zap.String("player", l.Selected.Name))
	l.clearSelection()
	return nil
}

// EndCampTurn finishes the turn of every remaining player.
func (l *Level) EndCampTurn() error {
	if err := l.checkPlayerTurn(); err != nil {
		return err
	}
	if l.Selected != nil && l.stage != StageChoosingMove {
		return ErrBusy
	}
	l.clearSelection()
	for _, p := range l.Players {
		p.EndTurn()
	}
	return nil
}

// PreviewRange computes the movement and attack range of the entity on at,
// for display only.
func (l *Level) PreviewRange(at grid.Pos) error {
	e := l.EntityAt(at)
	m, ok := entity.AsMovable(e)
	if !ok {
		l.Preview = nil
		return ErrNoTarget
	}
	moves := reach.PossibleMoves(l.Map, m.Pos, m.MaxMoves, l.occupiedExcept(e))
	attacks := grid.NewSet()
	for tile := range moves {
		for _, r := range m.AttackReach() {
			for _, t := range grid.Ring(tile, r) {
				if l.Map.Size.InBounds(t) && !l.Map.Obstacles.Has(t) {
					if _, isMove := moves[t]; !isMove {
						attacks.Add(t)
					}
				}
			}
		}
	}
	l.Preview = &Preview{Entity: e, Moves: moves, Attacks: attacks}
	return nil
}

// ClearPreview hides the range preview.
func (l *Level) ClearPreview() { l.Preview = nil }

// endTurn closes the selected player's turn.
func (l *Level) endTurn() {
	if l.Selected != nil {
		l.Selected.EndTurn()
	}
	l.clearSelection()
}

func (l *Level) clearSelection() {
	if l.Selected != nil {
		l.Selected.Selected = false
		l.Selected.Action = entity.ActionNone
	}
	l.Selected = nil
	l.SelectedItem = nil
	l.PossibleMoves = nil
	l.PossibleAttacks = nil
	l.PossibleInteractions = nil
	l.Teleports = nil
	l.turnItems = nil
	l.partner = nil
	l.shop = nil
	l.portal = nil
	l.stage = StageIdle
}
