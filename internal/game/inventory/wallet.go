package inventory

import "errors"

// ErrNotEnoughGold is returned when a payment exceeds the wallet balance.
var ErrNotEnoughGold = errors.New("not enough gold")

// Wallet is a nonnegative gold balance.
type Wallet struct {
	gold int
}

// NewWallet creates a Wallet holding gold.
//
// Precondition: gold >= 0.
func NewWallet(gold int) Wallet {
	if gold < 0 {
		panic("inventory: negative gold")
	}
	return Wallet{gold: gold}
}

// Gold returns the balance.
func (w *Wallet) Gold() int { return w.gold }

// Earn adds amount to the balance.
//
// Precondition: amount >= 0.
func (w *Wallet) Earn(amount int) {
	if amount < 0 {
		panic("inventory: Earn called with negative amount")
	}
	w.gold += amount
}

// Spend removes amount from the balance.
//
// Postcondition: returns ErrNotEnoughGold with the balance unchanged when
// amount exceeds it.
func (w *Wallet) Spend(amount int) error {
	if amount < 0 {
		panic("inventory: Spend called with negative amount")
	}
	if amount > w.gold {
		return ErrNotEnoughGold
	}
	w.gold -= amount
	return nil
}

// TradeGold moves amount from sender to receiver.
//
// Postcondition: returns ErrNotEnoughGold with both wallets unchanged when
// sender.Gold() < amount.
func TradeGold(sender, receiver *Wallet, amount int) error {
	if err := sender.Spend(amount); err != nil {
		return err
	}
	receiver.Earn(amount)
	return nil
}
