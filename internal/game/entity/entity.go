// Package entity defines every object that can occupy a tile of a level.
//
// Variants share fields through embedding: Base ⊂ Destroyable ⊂ Movable ⊂
// Character ⊂ Player, with Foe, Breakable and the stationary objects alongside.
// Capability checks (AsTarget, AsMovable, AsCharacter) replace virtual dispatch.
package entity

import (
	"github.com/google/uuid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
)

// Kind tags an entity variant. Values double as the level collection names.
type Kind string

const (
	KindPlayer    Kind = "player"
	KindAlly      Kind = "ally"
	KindFoe       Kind = "foe"
	KindBreakable Kind = "breakable"
	KindChest     Kind = "chest"
	KindDoor      Kind = "door"
	KindPortal    Kind = "portal"
	KindFountain  Kind = "fountain"
	KindBuilding  Kind = "building"
)

// Kinds lists every variant in level storage order.
var Kinds = []Kind{KindPlayer, KindAlly, KindFoe, KindBreakable, KindChest, KindDoor, KindPortal, KindFountain, KindBuilding}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// Base holds the fields every entity carries.
type Base struct {
	ID        string
	Name      string
	SpriteKey string
	Pos       grid.Pos
}

// NewBase creates a Base with a fresh ID.
func NewBase(name, sprite string, pos grid.Pos) Base {
	return Base{ID: NewID(), Name: name, SpriteKey: sprite, Pos: pos}
}

// Core returns the shared fields.
func (b *Base) Core() *Base { return b }

// DisplayName returns the user-visible name.
func (b *Base) DisplayName() string { return b.Name }

// Rect returns the pixel rectangle covered at the current position.
func (b *Base) Rect(tileSize int) Rect {
	return Rect{X: b.Pos.X * tileSize, Y: b.Pos.Y * tileSize, W: tileSize, H: tileSize}
}

// Entity is implemented by every variant.
type Entity interface {
	Core() *Base
	Kind() Kind
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Action is the in-progress action tag of a movable. The zero value means none.
type Action string

const (
	ActionNone      Action = ""
	ActionMove      Action = "move"
	ActionAttack    Action = "attack"
	ActionInteract  Action = "interact"
	ActionOpenChest Action = "open_chest"
	ActionPickLock  Action = "pick_lock"
	ActionOpenDoor  Action = "open_door"
	ActionUsePortal Action = "use_portal"
	ActionDrink     Action = "drink"
	ActionTrade     Action = "trade"
	ActionTalk      Action = "talk"
	ActionVisit     Action = "visit"
)
