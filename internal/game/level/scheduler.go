package level

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/ai"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

const (
	eventStart = "start"
	eventWin   = "win"
	eventLose  = "lose"
)

func newPhaseMachine(l *Level) *fsm.FSM {
	return fsm.NewFSM(
		string(PhaseInitialization),
		fsm.Events{
			{Name: eventStart, Src: []string{string(PhaseInitialization)}, Dst: string(PhaseInProgress)},
			{Name: eventWin, Src: []string{string(PhaseInProgress)}, Dst: string(PhaseVictory)},
			{Name: eventLose, Src: []string{string(PhaseInProgress)}, Dst: string(PhaseDefeat)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				l.logger.Info("phase changed", zap.String("from", e.Src), zap.String("to", e.Dst), zap.Int("turn", l.turn))
			},
		},
	)
}

// Enter runs the before_init sequence of a freshly loaded level.
func (l *Level) Enter() {
	if l.Phase() == PhaseInitialization {
		l.runEvent(HookBeforeInit)
	}
}

// StartGame leaves the initialization phase: the turn counter becomes 1, the
// player camp acts first and the after_init sequence runs.
//
// Postcondition: Phase() == PhaseInProgress and Turn() == 1.
func (l *Level) StartGame() error {
	if l.Phase() != PhaseInitialization {
		return ErrWrongPhase
	}
	if err := l.phase.Event(context.Background(), eventStart); err != nil {
		return err
	}
	l.turn = 1
	l.camp = CampPlayer
	for _, p := range l.Players {
		p.TurnFinished = false
	}
	l.clearSelection()
	l.runEvent(HookAfterInit)
	l.callScript(HookTurnStart, l.turn)
	return nil
}

// Update advances the level by one frame. While an animation plays only the
// timer moves. Otherwise missions are re-evaluated, a terminal status ends
// the level, and non-player camps act one entity per call.
func (l *Level) Update() {
	if l.animation > 0 {
		l.animation--
		return
	}
	if l.Phase() != PhaseInProgress {
		return
	}
	if l.checkStatus() {
		return
	}
	switch l.camp {
	case CampPlayer:
		if l.autopilot {
			for _, p := range l.Players {
				if !p.TurnFinished {
					l.actAgainst(p, &p.Movable, entity.StrategyActive, l.foeTargets())
					return
				}
			}
		}
		if !l.anyPlayerReady() {
			l.rotate()
		}
	case CampAllies:
		for _, a := range l.Allies {
			if !a.TurnFinished {
				strategy := entity.StrategyActive
				if a.JoinTeam || len(a.Dialog) > 0 {
					strategy = entity.StrategyStatic
				}
				l.act(a, &a.Movable, strategy)
				return
			}
		}
		l.rotate()
	case CampFoes:
		for _, f := range l.Foes {
			if !f.TurnFinished {
				l.act(f, &f.Movable, f.Strategy)
				return
			}
		}
		l.rotate()
	}
}

func (l *Level) anyPlayerReady() bool {
	for _, p := range l.Players {
		if !p.TurnFinished {
			return true
		}
	}
	return false
}

// checkStatus updates the missions and ends the level on a terminal status.
func (l *Level) checkStatus() bool {
	l.Missions.Update(mission.Snapshot{Foes: l.FoeIDs(), Turn: l.turn})
	switch l.Missions.Status(len(l.Players)) {
	case mission.Victory:
		l.finish(eventWin, mission.Victory)
		return true
	case mission.Defeat:
		l.finish(eventLose, mission.Defeat)
		return true
	}
	return false
}

func (l *Level) finish(event string, status mission.Status) {
	if err := l.phase.Event(context.Background(), event); err != nil {
		l.logger.Error("phase transition failed", zap.String("event", event), zap.Error(err))
		return
	}
	l.clearSelection()
	if status == mission.Victory {
		l.payRewards()
	}
	l.runEvent(HookAtEnd, status.String())
}

// payRewards credits achieved optional missions to every surviving player.
func (l *Level) payRewards() {
	if l.rewarded {
		return
	}
	l.rewarded = true
	players := append(append([]*entity.Player{}, l.Players...), l.Passed...)
	for _, m := range l.Missions.Settle(l.turn) {
		for _, p := range players {
			p.Earn(m.GoldReward)
		}
		for _, it := range m.ItemRewards {
			placed := false
			for _, p := range players {
				if p.Inventory.Set(it) == nil {
					l.Diary.Addf("%s received %s", p.Name, it.Name)
					placed = true
					break
				}
			}
			if !placed {
				l.Diary.Addf("%s could not be carried", it.Name)
			}
		}
		m.ItemRewards = nil
		if m.GoldReward > 0 {
			l.Diary.Addf("Mission %q rewarded %d gold", m.Description, m.GoldReward)
		}
	}
}

// rotate hands over to the next camp.
func (l *Level) rotate() {
	l.camp = l.camp.Next()
	if l.camp == CampPlayer {
		l.turn++
	}
	for _, m := range l.campMovables(l.camp) {
		for _, a := range m.NewTurn() {
			l.Diary.Addf("%s is no longer affected by %s", m.Name, a.Name)
		}
	}
	l.logger.Debug("camp turn", zap.String("camp", string(l.camp)), zap.Int("turn", l.turn))
	if l.camp == CampPlayer {
		l.callScript(HookTurnStart, l.turn)
	}
}

func (l *Level) campMovables(c Camp) []*entity.Movable {
	var out []*entity.Movable
	switch c {
	case CampPlayer:
		for _, p := range l.Players {
			out = append(out, &p.Movable)
		}
	case CampAllies:
		for _, a := range l.Allies {
			out = append(out, &a.Movable)
		}
	case CampFoes:
		for _, f := range l.Foes {
			out = append(out, &f.Movable)
		}
	}
	return out
}

// SetAutopilot hands the player camp to the AI: each ready player approaches
// and attacks the nearest foe. Headless simulations use it.
func (l *Level) SetAutopilot(on bool) {
	l.autopilot = on
	l.clearSelection()
}

// Autopilot reports whether the AI drives the player camp.
func (l *Level) Autopilot() bool { return l.autopilot }

func (l *Level) foeTargets() []entity.Target {
	out := make([]entity.Target, 0, len(l.Foes))
	for _, f := range l.Foes {
		out = append(out, f)
	}
	return out
}

// act lets the AI play e for this camp turn.
func (l *Level) act(e entity.Entity, m *entity.Movable, strategy entity.Strategy) {
	l.actAgainst(e, m, strategy, l.Opponents(e))
}

func (l *Level) actAgainst(e entity.Entity, m *entity.Movable, strategy entity.Strategy, opponents []entity.Target) {
	plan := l.planner.Plan(&ai.WorldState{
		Map:       l.Map,
		Actor:     m,
		Strategy:  strategy,
		Opponents: opponents,
		Occupied:  l.occupiedExcept(e),
	})
	if plan.Moves() {
		m.Pos = plan.Dest
		l.animate(len(plan.Path))
	}
	if plan.Target != nil {
		l.resolver.Duel(e, plan.Target, l.remove)
	}
	m.EndTurn()
}

func (l *Level) animate(tiles int) {
	l.animation = tiles * l.cfg.FramesPerTile
}
