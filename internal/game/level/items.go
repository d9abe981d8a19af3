package level

import (
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// checkItemStage validates that the selected player may manage its items.
func (l *Level) checkItemStage() error {
	return l.checkSelected(StageChoosingMove, StageMenu)
}

// SelectItem marks it as the item the inventory menu acts on.
func (l *Level) SelectItem(it *item.Item) error {
	if err := l.checkItemStage(); err != nil {
		return err
	}
	if !l.Selected.Inventory.Contains(it) && l.Selected.Equipment.Get(slotOf(it)) != it {
		return inventory.ErrItemNotFound
	}
	l.SelectedItem = it
	return nil
}

func slotOf(it *item.Item) item.Slot {
	if it.Equip == nil {
		return ""
	}
	return it.Equip.Slot
}

// UseItem consumes it, applying its effects, and ends the turn.
func (l *Level) UseItem(it *item.Item) error {
	if err := l.checkItemStage(); err != nil {
		return err
	}
	p := l.Selected
	if !p.Inventory.Contains(it) {
		return inventory.ErrItemNotFound
	}
	if !it.IsConsumable() {
		return ErrNotConsumable
	}
	onlyHeals := true
	for _, e := range it.Effects {
		if e.Kind != item.EffectHeal {
			onlyHeals = false
		}
	}
	if onlyHeals && p.HP == p.HPMax {
		return ErrAlreadyHealthy
	}
	_ = p.Inventory.Remove(it)
	for _, e := range it.Effects {
		if msg, ok := l.resolver.ApplyEffect(&p.Movable, e); ok {
			l.Diary.Add(msg)
		}
	}
	l.Diary.Addf("%s used %s", p.Name, it.Name)
	l.endTurn()
	return nil
}

// Equip wears it, swapping out whatever occupied its slot.
func (l *Level) Equip(it *item.Item) (inventory.EquipResult, error) {
	if err := l.checkItemStage(); err != nil {
		return inventory.EquipRejected, err
	}
	p := l.Selected
	res, err := p.Equipment.Equip(it, p.Wearer(), p.Inventory)
	if err != nil {
		return res, err
	}
	l.Diary.Addf("%s equipped %s", p.Name, it.Name)
	return res, nil
}

// Unequip puts the item in slot back into the inventory.
func (l *Level) Unequip(slot item.Slot) error {
	if err := l.checkItemStage(); err != nil {
		return err
	}
	p := l.Selected
	it, err := p.Equipment.Unequip(slot, p.Inventory)
	if err != nil {
		return err
	}
	l.Diary.Addf("%s unequipped %s", p.Name, it.Name)
	return nil
}

// Throw discards a carried item.
func (l *Level) Throw(it *item.Item) error {
	if err := l.checkItemStage(); err != nil {
		return err
	}
	p := l.Selected
	if err := p.Inventory.Remove(it); err != nil {
		return err
	}
	if l.SelectedItem == it {
		l.SelectedItem = nil
	}
	l.Diary.Addf("%s threw away %s", p.Name, it.Name)
	return nil
}
