package level

import (
	"errors"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/inventory"
)

// Validation errors. An action failing with one of these leaves the level
// unchanged and consumes no turn.
var (
	ErrWrongPhase      = errors.New("action not allowed in the current phase")
	ErrNotPlayerTurn   = errors.New("it is not the player's turn")
	ErrAnimating       = errors.New("an animation is playing")
	ErrTurnFinished    = errors.New("this character has already played")
	ErrNoSelection     = errors.New("no character selected")
	ErrBusy            = errors.New("finish the current action first")
	ErrUnreachable     = errors.New("cannot move there")
	ErrNoTarget        = errors.New("nothing to target there")
	ErrNoKey           = errors.New("you need a key")
	ErrCannotPickLock  = errors.New("you do not know how to pick locks")
	ErrAlreadyOpened   = errors.New("it is already open")
	ErrPortalBlocked   = errors.New("no free square around the other portal")
	ErrFountainEmpty   = errors.New("the fountain is dry")
	ErrOutOfStock      = errors.New("this item is out of stock")
	ErrNotPlacement    = errors.New("tile is outside the placement area")
	ErrCannotCancel    = errors.New("move cannot be cancelled")
	ErrUnknownAction   = errors.New("action not available on this target")
	ErrNotConsumable   = errors.New("this item cannot be used")
	ErrNotSellable     = errors.New("this item cannot be sold")
	ErrUnknownEntity   = errors.New("no such entity")
	ErrAlreadyHealthy  = errors.New("already at full health")
	ErrNotTradePartner = errors.New("items can only move between the two traders")
)

var validationErrors = []error{
	ErrWrongPhase, ErrNotPlayerTurn, ErrAnimating, ErrTurnFinished, ErrNoSelection,
	ErrBusy, ErrUnreachable, ErrNoTarget, ErrNoKey, ErrCannotPickLock, ErrAlreadyOpened,
	ErrPortalBlocked, ErrFountainEmpty, ErrOutOfStock, ErrNotPlacement, ErrCannotCancel,
	ErrUnknownAction, ErrNotConsumable, ErrNotSellable, ErrUnknownEntity, ErrAlreadyHealthy, ErrNotTradePartner,
	inventory.ErrInventoryFull, inventory.ErrItemNotFound, inventory.ErrNotEnoughGold,
	inventory.ErrNotWearable, inventory.ErrRestricted, inventory.ErrSlotEmpty,
}

// IsValidation reports whether err is a user-facing precondition failure.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
