package level

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// interactable reports whether the selected player can interact with e.
func interactable(e entity.Entity) bool {
	switch v := e.(type) {
	case *entity.Chest:
		return !v.Opened
	case *entity.Door, *entity.Portal, *entity.Fountain, *entity.Building, *entity.Player, *entity.Character:
		return true
	}
	return false
}

// PrepareInteract lists the entities next to the selected player it can
// interact with.
func (l *Level) PrepareInteract() error {
	if err := l.checkSelected(StageMenu); err != nil {
		return err
	}
	p := l.Selected
	l.PossibleInteractions = grid.NewSet()
	for _, n := range p.Pos.Neighbors() {
		if e := l.EntityAt(n); e != nil && interactable(e) {
			l.PossibleInteractions.Add(n)
		}
	}
	if len(l.PossibleInteractions) == 0 {
		return ErrNoTarget
	}
	p.Action = entity.ActionInteract
	l.stage = StageChoosingInteraction
	return nil
}

// Actions returns the actions the selected player may attempt on at.
func (l *Level) Actions(at grid.Pos) []entity.Action {
	if l.Selected == nil {
		return nil
	}
	lockPick := l.Selected.HasSkill(entity.SkillLockPicking)
	switch l.EntityAt(at).(type) {
	case *entity.Chest:
		if lockPick {
			return []entity.Action{entity.ActionOpenChest, entity.ActionPickLock}
		}
		return []entity.Action{entity.ActionOpenChest}
	case *entity.Door:
		if lockPick {
			return []entity.Action{entity.ActionOpenDoor, entity.ActionPickLock}
		}
		return []entity.Action{entity.ActionOpenDoor}
	case *entity.Portal:
		return []entity.Action{entity.ActionUsePortal}
	case *entity.Fountain:
		return []entity.Action{entity.ActionDrink}
	case *entity.Building:
		return []entity.Action{entity.ActionVisit}
	case *entity.Player:
		return []entity.Action{entity.ActionTrade}
	case *entity.Character:
		return []entity.Action{entity.ActionTalk}
	}
	return nil
}

// Interact performs action with the entity on at. Most interactions end the
// selected player's turn; trades, shops and portals open a follow-up stage.
func (l *Level) Interact(at grid.Pos, action entity.Action) error {
	if err := l.checkSelected(StageChoosingInteraction); err != nil {
		return err
	}
	if !l.PossibleInteractions.Has(at) {
		return ErrNoTarget
	}
	actor := l.Selected
	var err error
	switch target := l.EntityAt(at).(type) {
	case *entity.Chest:
		err = l.interactChest(actor, target, action)
	case *entity.Door:
		err = l.interactDoor(actor, target, action)
	case *entity.Portal:
		err = l.interactPortal(actor, target, action)
	case *entity.Fountain:
		err = l.drink(actor, target, action)
	case *entity.Player:
		err = l.openTrade(actor, target, action)
	case *entity.Character:
		err = l.talk(actor, target, action)
	case *entity.Building:
		err = l.visit(actor, target, action)
	default:
		err = ErrNoTarget
	}
	if err == nil {
		l.logger.Debug("interaction",
			zap.String("player", actor.Name),
			zap.String("action", string(action)),
			zap.Stringer("at", at),
		)
	}
	return err
}

func (l *Level) interactChest(actor *entity.Player, c *entity.Chest, action entity.Action) error {
	if c.Opened {
		return ErrAlreadyOpened
	}
	if !actor.Inventory.HasFreeSlot() {
		return inventory.ErrInventoryFull
	}
	switch action {
	case entity.ActionOpenChest:
		if actor.Inventory.RemoveFirst((*item.Item).OpensChests) == nil {
			return ErrNoKey
		}
	case entity.ActionPickLock:
		if !actor.HasSkill(entity.SkillLockPicking) {
			return ErrCannotPickLock
		}
		if !c.PickLockInitiated {
			c.PickLockInitiated = true
			l.Diary.Addf("%s started picking the lock of %s", actor.Name, c.Name)
			l.endTurn()
			return nil
		}
	default:
		return ErrUnknownAction
	}
	l.receive(actor, c.Open(), c.Name)
	l.endTurn()
	return nil
}

// receive hands loot from a container to actor.
//
// Precondition: actor has a free slot when it is a regular item.
func (l *Level) receive(actor *entity.Player, it *item.Item, from string) {
	switch {
	case it == nil:
		l.Diary.Addf("%s is empty", from)
	case it.Kind == item.KindGold:
		actor.Earn(it.Gold)
		l.Diary.Addf("%s found %d gold in %s", actor.Name, it.Gold, from)
	default:
		if err := actor.Inventory.Set(it); err != nil {
			panic(fmt.Sprintf("level: receive without room: %v", err))
		}
		l.Diary.Addf("%s found %s in %s", actor.Name, it.Name, from)
	}
}

func (l *Level) interactDoor(actor *entity.Player, d *entity.Door, action entity.Action) error {
	switch action {
	case entity.ActionOpenDoor:
		if actor.Inventory.RemoveFirst((*item.Item).OpensDoors) == nil {
			return ErrNoKey
		}
	case entity.ActionPickLock:
		if !actor.HasSkill(entity.SkillLockPicking) {
			return ErrCannotPickLock
		}
		if !d.PickLockInitiated {
			d.PickLockInitiated = true
			l.Diary.Addf("%s started picking the lock of %s", actor.Name, d.Name)
			l.endTurn()
			return nil
		}
	default:
		return ErrUnknownAction
	}
	l.remove(d)
	l.Diary.Addf("%s opened %s", actor.Name, d.Name)
	l.endTurn()
	return nil
}

func (l *Level) interactPortal(actor *entity.Player, p *entity.Portal, action entity.Action) error {
	if action != entity.ActionUsePortal {
		return ErrUnknownAction
	}
	twin := l.portalByID(p.LinkedTo)
	if twin == nil {
		panic(fmt.Sprintf("level: portal %q has no twin", p.Name))
	}
	free := l.Map.WalkableNeighbors(twin.Pos, l.occupiedExcept(nil))
	if len(free) == 0 {
		return ErrPortalBlocked
	}
	l.Teleports = grid.NewSet(free...)
	l.portal = twin
	actor.Action = entity.ActionUsePortal
	l.PossibleInteractions = nil
	l.stage = StageChoosingTeleport
	return nil
}

// ChooseTeleportDestination completes a portal use.
func (l *Level) ChooseTeleportDestination(dest grid.Pos) error {
	if err := l.checkSelected(StageChoosingTeleport); err != nil {
		return err
	}
	if !l.Teleports.Has(dest) {
		return ErrUnreachable
	}
	l.Selected.Pos = dest
	l.Diary.Addf("%s went through %s", l.Selected.Name, l.portal.Name)
	l.endTurn()
	return nil
}

func (l *Level) drink(actor *entity.Player, f *entity.Fountain, action entity.Action) error {
	if action != entity.ActionDrink {
		return ErrUnknownAction
	}
	if f.Uses <= 0 {
		return ErrFountainEmpty
	}
	for _, e := range f.Effects {
		if msg, ok := l.resolver.ApplyEffect(&actor.Movable, e); ok {
			l.Diary.Add(msg)
		}
	}
	f.Uses--
	l.endTurn()
	return nil
}

func (l *Level) talk(actor *entity.Player, c *entity.Character, action entity.Action) error {
	if action != entity.ActionTalk {
		return ErrUnknownAction
	}
	if len(c.Dialog) > 0 {
		l.ShowDialog(Dialog{Title: c.Name, Lines: c.Dialog})
	}
	if c.JoinTeam {
		l.remove(c)
		p := entity.Recruit(c)
		p.EndTurn()
		l.Players = append(l.Players, p)
		l.Diary.Addf("%s joined the team", p.Name)
	}
	l.endTurn()
	return nil
}

func (l *Level) visit(actor *entity.Player, b *entity.Building, action entity.Action) error {
	if action != entity.ActionVisit {
		return ErrUnknownAction
	}
	switch b.Variant {
	case entity.BuildingShop, entity.BuildingArmory, entity.BuildingApothecary:
		l.shop = b
		actor.Action = entity.ActionVisit
		l.PossibleInteractions = nil
		l.stage = StageShopping
		return nil
	case entity.BuildingHouse:
		if !b.Visited {
			if b.Gift != nil && !actor.Inventory.HasFreeSlot() {
				return inventory.ErrInventoryFull
			}
			if b.Gold > 0 {
				actor.Earn(b.Gold)
				l.Diary.Addf("%s received %d gold", actor.Name, b.Gold)
			}
			if b.Gift != nil {
				l.receive(actor, b.Gift, b.Name)
			}
			b.Gold, b.Gift, b.Visited = 0, nil, true
		}
	case entity.BuildingHealer:
		if actor.HP == actor.HPMax {
			return ErrAlreadyHealthy
		}
		if err := actor.Spend(b.Cost); err != nil {
			return err
		}
		healed := actor.HealFull()
		l.Diary.Addf("%s was healed for %d HP", actor.Name, healed)
	case entity.BuildingAltar:
		if b.Effect != nil {
			if msg, ok := l.resolver.ApplyEffect(&actor.Movable, *b.Effect); ok {
				l.Diary.Add(msg)
			}
		}
	case entity.BuildingTavern:
	}
	if len(b.Dialog) > 0 {
		l.ShowDialog(Dialog{Title: b.Name, Lines: b.Dialog})
	}
	l.endTurn()
	return nil
}
