package entity

import "github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"

// BuildingKind selects the visit behaviour of a building.
type BuildingKind string

const (
	BuildingHouse      BuildingKind = "house"
	BuildingShop       BuildingKind = "shop"
	BuildingHealer     BuildingKind = "healer"
	BuildingTavern     BuildingKind = "tavern"
	BuildingAltar      BuildingKind = "altar"
	BuildingArmory     BuildingKind = "armory"
	BuildingApothecary BuildingKind = "apothecary"
)

// ValidBuildingKind reports whether k is known.
func ValidBuildingKind(k BuildingKind) bool {
	switch k {
	case BuildingHouse, BuildingShop, BuildingHealer, BuildingTavern, BuildingAltar, BuildingArmory, BuildingApothecary:
		return true
	}
	return false
}

// StockEntry is one shop line.
type StockEntry struct {
	Item     *item.Item
	Quantity int
	Price    int
}

// Building is a visitable structure.
type Building struct {
	Base
	Variant BuildingKind
	Dialog  []string
	// Gold and Gift are the one-shot house rewards.
	Gold int
	Gift *item.Item
	// Visited is set once a house has delivered its reward.
	Visited bool
	// Cost is the healer fee.
	Cost int
	// Effect is what an altar grants.
	Effect *item.Effect
	Stock  []StockEntry
}

// Kind implements Entity.
func (*Building) Kind() Kind { return KindBuilding }

// IsShop reports whether the building trades items.
func (b *Building) IsShop() bool {
	switch b.Variant {
	case BuildingShop, BuildingArmory, BuildingApothecary:
		return true
	}
	return false
}
