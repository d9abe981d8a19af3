package level

import (
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
)

// Hook names a scripted event boundary.
type Hook string

const (
	HookBeforeInit Hook = "before_init"
	HookAfterInit  Hook = "after_init"
	HookAtEnd      Hook = "at_end"
	HookTurnStart  Hook = "turn_start"
)

// Scripts runs level hooks. Implementations must not call back into the
// level except through the engine API they were built with.
type Scripts interface {
	Call(hook Hook, args ...any) error
}

// Dialog is a titled sequence of lines shown to the user.
type Dialog struct {
	Title string
	Lines []string
}

// Event is a declarative sequence run at a phase boundary.
type Event struct {
	Dialogs    []Dialog
	NewPlayers []*entity.Player
}

// Events holds the scripted sequences of a level.
type Events struct {
	BeforeInit *Event
	AfterInit  *Event
	AtEnd      *Event
}

func (ev Events) get(h Hook) *Event {
	switch h {
	case HookBeforeInit:
		return ev.BeforeInit
	case HookAfterInit:
		return ev.AfterInit
	case HookAtEnd:
		return ev.AtEnd
	}
	return nil
}

// runEvent queues the dialogs of the event bound to h, brings in its new
// players and calls the script hook.
func (l *Level) runEvent(h Hook, args ...any) {
	if ev := l.Events.get(h); ev != nil {
		l.dialogs = append(l.dialogs, ev.Dialogs...)
		for _, p := range ev.NewPlayers {
			if !l.Walkable(p.Pos) {
				l.logger.Warn("new player tile occupied", zap.String("player", p.Name), zap.Stringer("pos", p.Pos))
				continue
			}
			l.Players = append(l.Players, p)
		}
		ev.NewPlayers = nil
	}
	l.callScript(h, args...)
}

func (l *Level) callScript(h Hook, args ...any) {
	if l.scripts == nil {
		return
	}
	if err := l.scripts.Call(h, args...); err != nil {
		l.logger.Warn("script hook failed", zap.String("hook", string(h)), zap.Error(err))
	}
}

// PendingDialog returns the dialog awaiting the user, if any.
func (l *Level) PendingDialog() (Dialog, bool) {
	if len(l.dialogs) == 0 {
		return Dialog{}, false
	}
	return l.dialogs[0], true
}

// CloseDialog dismisses the pending dialog.
func (l *Level) CloseDialog() {
	if len(l.dialogs) > 0 {
		l.dialogs = l.dialogs[1:]
	}
}

// ShowDialog queues a dialog for the user.
func (l *Level) ShowDialog(d Dialog) {
	l.dialogs = append(l.dialogs, d)
}

// Engine API used by level scripts.

// AddDiary appends a line to the diary.
func (l *Level) AddDiary(msg string) { l.Diary.Add(msg) }

// GiveGold credits n gold to the player called name.
func (l *Level) GiveGold(name string, n int) error {
	p := l.PlayerNamed(name)
	if p == nil {
		return ErrUnknownEntity
	}
	if n > 0 {
		p.Earn(n)
	}
	return nil
}

// HealPlayer restores up to n hp to the player called name.
func (l *Level) HealPlayer(name string, n int) error {
	p := l.PlayerNamed(name)
	if p == nil {
		return ErrUnknownEntity
	}
	p.Heal(n)
	return nil
}
