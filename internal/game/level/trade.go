package level

import (
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// trade is one reversible transfer made during the current player turn.
// Exactly one of it and gold is set.
type trade struct {
	it       *item.Item
	gold     int
	from, to *entity.Player
}

func (l *Level) openTrade(actor, partner *entity.Player, action entity.Action) error {
	if action != entity.ActionTrade {
		return ErrUnknownAction
	}
	l.partner = partner
	actor.Action = entity.ActionTrade
	l.PossibleInteractions = nil
	l.stage = StageTrading
	return nil
}

func (l *Level) checkTraders(from, to *entity.Player) error {
	if err := l.checkSelected(StageTrading); err != nil {
		return err
	}
	ok := (from == l.Selected && to == l.partner) || (from == l.partner && to == l.Selected)
	if !ok {
		return ErrNotTradePartner
	}
	return nil
}

// TradeItem moves it between the two traders.
func (l *Level) TradeItem(it *item.Item, from, to *entity.Player) error {
	if err := l.checkTraders(from, to); err != nil {
		return err
	}
	if err := inventory.TradeItem(from.Inventory, to.Inventory, it); err != nil {
		return err
	}
	l.turnItems = append(l.turnItems, trade{it: it, from: from, to: to})
	l.Diary.Addf("%s gave %s to %s", from.Name, it.Name, to.Name)
	return nil
}

// TradeGold moves amount gold between the two traders.
func (l *Level) TradeGold(from, to *entity.Player, amount int) error {
	if err := l.checkTraders(from, to); err != nil {
		return err
	}
	if amount <= 0 {
		return nil
	}
	if err := inventory.TradeGold(&from.Wallet, &to.Wallet, amount); err != nil {
		return err
	}
	l.turnItems = append(l.turnItems, trade{gold: amount, from: from, to: to})
	l.Diary.Addf("%s gave %d gold to %s", from.Name, amount, to.Name)
	return nil
}

// CloseTrade returns to the character menu. Trades stay reversible until the
// turn ends.
func (l *Level) CloseTrade() error {
	if err := l.checkSelected(StageTrading); err != nil {
		return err
	}
	l.partner = nil
	l.Selected.Action = entity.ActionNone
	l.stage = StageMenu
	return nil
}

// undoTrades reverses the turn's transfers, newest first.
func (l *Level) undoTrades() {
	for i := len(l.turnItems) - 1; i >= 0; i-- {
		t := l.turnItems[i]
		if t.it == nil {
			if err := inventory.TradeGold(&t.to.Wallet, &t.from.Wallet, t.gold); err != nil {
				l.logger.Warn("gold trade not reversible", zap.String("from", t.to.Name), zap.Error(err))
			}
			continue
		}
		if t.to.Inventory.Remove(t.it) != nil && !t.to.Equipment.Remove(t.it) {
			l.logger.Warn("traded item no longer held", zap.String("item", t.it.Name))
			continue
		}
		if err := t.from.Inventory.Set(t.it); err != nil {
			_ = t.to.Inventory.Set(t.it)
			l.logger.Warn("traded item not reversible", zap.String("item", t.it.Name), zap.Error(err))
		}
	}
	l.turnItems = nil
}

// Buy purchases one unit of stock line index from the open shop.
func (l *Level) Buy(index int) error {
	if err := l.checkSelected(StageShopping); err != nil {
		return err
	}
	if index < 0 || index >= len(l.shop.Stock) {
		return ErrOutOfStock
	}
	entry := &l.shop.Stock[index]
	if entry.Quantity <= 0 {
		return ErrOutOfStock
	}
	p := l.Selected
	if !p.Inventory.HasFreeSlot() {
		return inventory.ErrInventoryFull
	}
	if err := p.Spend(entry.Price); err != nil {
		return err
	}
	bought := entry.Item.Clone()
	_ = p.Inventory.Set(bought)
	entry.Quantity--
	l.Diary.Addf("%s bought %s for %d gold", p.Name, bought.Name, entry.Price)
	return nil
}

// Sell trades a carried item to the open shop for its resell price.
func (l *Level) Sell(it *item.Item) error {
	if err := l.checkSelected(StageShopping); err != nil {
		return err
	}
	p := l.Selected
	if !p.Inventory.Contains(it) {
		return inventory.ErrItemNotFound
	}
	if it.ResellPrice <= 0 {
		return ErrNotSellable
	}
	_ = p.Inventory.Remove(it)
	p.Earn(it.ResellPrice)
	l.Diary.Addf("%s sold %s for %d gold", p.Name, it.Name, it.ResellPrice)
	return nil
}

// CloseShop leaves the shop, ending the turn.
func (l *Level) CloseShop() error {
	if err := l.checkSelected(StageShopping); err != nil {
		return err
	}
	if len(l.shop.Dialog) > 0 {
		l.ShowDialog(Dialog{Title: l.shop.Name, Lines: l.shop.Dialog})
	}
	l.endTurn()
	return nil
}
