// Package save converts a level to and from its XML snapshot. A snapshot is
// self-contained: every item and entity is written with all of its
// attributes, so loading needs no catalog.
package save

import (
	"encoding/xml"
	"errors"
)

// Version is written on every snapshot and checked on load.
const Version = 1

// ErrMalformed is returned for snapshots that fail schema or reference checks.
var ErrMalformed = errors.New("save: malformed snapshot")

// Document is the root element of a snapshot.
type Document struct {
	XMLName xml.Name `xml:"save"`
	Version int      `xml:"version,attr"`
	Level   Level    `xml:"level"`
}

// Level is the serialized level aggregate.
type Level struct {
	Index         int        `xml:"index"`
	Name          string     `xml:"name"`
	ScriptDir     string     `xml:"script,omitempty"`
	Phase         string     `xml:"phase"`
	Turn          *int       `xml:"turn"`
	Camp          string     `xml:"camp,omitempty"`
	Width         int        `xml:"width"`
	Height        int        `xml:"height"`
	Obstacles     []Position `xml:"obstacles>position"`
	PlacementArea []Position `xml:"placement_area>position"`
	Entities      Entities   `xml:"entities"`
	Missions      []Mission  `xml:"missions>mission"`
	Events        Events     `xml:"events"`
}

// Entities groups the entity collections.
type Entities struct {
	Players    []Character `xml:"players>player"`
	Passed     []Character `xml:"passed_players>player"`
	Allies     []Character `xml:"allies>ally"`
	Foes       []Foe       `xml:"foes>foe"`
	Breakables []Breakable `xml:"breakables>breakable"`
	Chests     []Chest     `xml:"chests>chest"`
	Doors      []Door      `xml:"doors>door"`
	Portals    []Portal    `xml:"portals>portal"`
	Fountains  []Fountain  `xml:"fountains>fountain"`
	Buildings  []Building  `xml:"buildings>building"`
}

// Position is a tile.
type Position struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Base holds the fields shared by every entity.
type Base struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Sprite string `xml:"sprite,attr,omitempty"`
	X      int    `xml:"x,attr"`
	Y      int    `xml:"y,attr"`
}

// Effect is an applicable effect.
type Effect struct {
	Kind       string `xml:"kind,attr"`
	Power      int    `xml:"power,attr,omitempty"`
	Duration   int    `xml:"duration,attr,omitempty"`
	Alteration string `xml:"alteration,attr,omitempty"`
}

// SideEffect is a weapon effect with its probability.
type SideEffect struct {
	Effect
	Probability int `xml:"probability,attr"`
}

// Equipment is the wearable block of an item.
type Equipment struct {
	Slot        string   `xml:"slot,attr"`
	Defense     int      `xml:"defense,attr,omitempty"`
	Resistance  int      `xml:"resistance,attr,omitempty"`
	AttackBonus int      `xml:"attack_bonus,attr,omitempty"`
	Weight      int      `xml:"weight,attr,omitempty"`
	Races       []string `xml:"race"`
	Classes     []string `xml:"class"`
}

// Weapon is the weapon block of an item.
type Weapon struct {
	AttackKind    string       `xml:"attack_kind,attr"`
	Durability    int          `xml:"durability,attr"`
	DurabilityMax int          `xml:"durability_max,attr"`
	StrongBonus   int          `xml:"strong_bonus,attr,omitempty"`
	Reach         []int        `xml:"reach"`
	StrongAgainst []string     `xml:"strong_against"`
	SideEffects   []SideEffect `xml:"side_effect"`
}

// Shield is the shield block of an item.
type Shield struct {
	ParryRate     int `xml:"parry_rate,attr"`
	Durability    int `xml:"durability,attr"`
	DurabilityMax int `xml:"durability_max,attr"`
}

// Key is the key block of an item.
type Key struct {
	ForChest bool `xml:"for_chest,attr"`
	ForDoor  bool `xml:"for_door,attr"`
}

// Item is a full item instance.
type Item struct {
	ID          string     `xml:"id,attr"`
	Def         string     `xml:"def,attr"`
	Name        string     `xml:"name,attr"`
	Sprite      string     `xml:"sprite,attr,omitempty"`
	Kind        string     `xml:"kind,attr"`
	Price       int        `xml:"price,attr"`
	ResellPrice int        `xml:"resell_price,attr"`
	Gold        int        `xml:"gold,attr,omitempty"`
	Description string     `xml:"description,omitempty"`
	Effects     []Effect   `xml:"effect"`
	Equipment   *Equipment `xml:"equipment"`
	Weapon      *Weapon    `xml:"weapon"`
	Shield      *Shield    `xml:"shield"`
	Key         *Key       `xml:"key"`
}

// Skill is a passive ability.
type Skill struct {
	ID         string `xml:"id,attr"`
	Name       string `xml:"name,attr"`
	Kind       string `xml:"kind,attr"`
	Power      int    `xml:"power,attr,omitempty"`
	Alteration string `xml:"alteration,attr,omitempty"`
}

// Alteration is an active alteration.
type Alteration struct {
	Name        string `xml:"name,attr"`
	Kind        string `xml:"kind,attr"`
	Power       int    `xml:"power,attr"`
	Duration    int    `xml:"duration,attr"`
	Elapsed     int    `xml:"elapsed,attr"`
	Description string `xml:",chardata"`
}

// Movable holds the fields shared by characters and foes.
type Movable struct {
	Base
	HP            int          `xml:"hp,attr"`
	HPMax         int          `xml:"hp_max,attr"`
	Defense       int          `xml:"defense,attr"`
	Resistance    int          `xml:"resistance,attr"`
	Level         int          `xml:"level,attr"`
	XP            int          `xml:"xp,attr"`
	XPNext        int          `xml:"xp_next,attr"`
	MaxMoves      int          `xml:"max_moves,attr"`
	Strength      int          `xml:"strength,attr"`
	AttackKind    string       `xml:"attack_kind,attr"`
	Gold          int          `xml:"gold,attr"`
	TurnFinished  bool         `xml:"turn_finished,attr"`
	InventorySize int          `xml:"inventory_size,attr"`
	Reach         []int        `xml:"reach"`
	Skills        []Skill      `xml:"skills>skill"`
	Alterations   []Alteration `xml:"alterations>alteration"`
	Inventory     []Item       `xml:"inventory>item"`
	Equipment     []Item       `xml:"equipment>item"`
}

// Growth is the per-level stat gain of a character.
type Growth struct {
	HP         int `xml:"hp,attr"`
	Strength   int `xml:"strength,attr"`
	Defense    int `xml:"defense,attr"`
	Resistance int `xml:"resistance,attr"`
}

// Character is a player or an ally.
type Character struct {
	Movable
	Race     string   `xml:"race,attr"`
	JoinTeam bool     `xml:"join_team,attr,omitempty"`
	XPFactor float64  `xml:"xp_factor,attr,omitempty"`
	Classes  []string `xml:"class"`
	Dialog   []string `xml:"dialog>talk"`
	Growth   Growth   `xml:"growth"`
}

// Loot is one loot roll.
type Loot struct {
	Probability int  `xml:"probability,attr"`
	Item        Item `xml:"item"`
}

// Foe is a foe.
type Foe struct {
	Movable
	XPGain   int      `xml:"xp_gain,attr"`
	Strategy string   `xml:"strategy,attr"`
	Keywords []string `xml:"keyword"`
	Loot     []Loot   `xml:"loot"`
}

// Breakable is a breakable wall.
type Breakable struct {
	Base
	HP    int `xml:"hp,attr"`
	HPMax int `xml:"hp_max,attr"`
}

// Chest is a chest.
type Chest struct {
	Base
	Opened   bool  `xml:"opened,attr"`
	PickLock bool  `xml:"pick_lock_initiated,attr"`
	Contents *Item `xml:"contents>item"`
}

// Door is a closed door.
type Door struct {
	Base
	PickLock bool `xml:"pick_lock_initiated,attr"`
}

// Portal is a portal end.
type Portal struct {
	Base
	LinkedTo string `xml:"linked_to,attr"`
}

// Fountain is a fountain.
type Fountain struct {
	Base
	Uses    int      `xml:"uses,attr"`
	Effects []Effect `xml:"effect"`
}

// Stock is a shop line.
type Stock struct {
	Quantity int  `xml:"quantity,attr"`
	Price    int  `xml:"price,attr"`
	Item     Item `xml:"item"`
}

// Building is a building.
type Building struct {
	Base
	Kind    string   `xml:"kind,attr"`
	Visited bool     `xml:"visited,attr"`
	Gold    int      `xml:"gold,attr"`
	Cost    int      `xml:"cost,attr"`
	Dialog  []string `xml:"dialog>talk"`
	Gift    *Item    `xml:"gift>item"`
	Effect  *Effect  `xml:"effect"`
	Stock   []Stock  `xml:"stock>entry"`
}

// Mission is a mission with its progress.
type Mission struct {
	Kind        string     `xml:"type,attr"`
	Main        bool       `xml:"main,attr"`
	Ended       bool       `xml:"ended,attr"`
	Failed      bool       `xml:"failed,attr"`
	MinChars    int        `xml:"min_chars,attr,omitempty"`
	Limit       int        `xml:"limit,attr,omitempty"`
	Gold        int        `xml:"gold,attr,omitempty"`
	Description string     `xml:"description"`
	Targets     []string   `xml:"target"`
	Positions   []Position `xml:"position"`
	Succeeded   []string   `xml:"succeeded"`
	Rewards     []Item     `xml:"reward>item"`
}

// Dialog is a titled list of lines.
type Dialog struct {
	Title string   `xml:"title,attr"`
	Talks []string `xml:"talk"`
}

// Event is a pending scripted sequence.
type Event struct {
	Dialogs    []Dialog    `xml:"dialog"`
	NewPlayers []Character `xml:"new_player"`
}

// Events groups the pending events.
type Events struct {
	BeforeInit *Event `xml:"before_init"`
	AfterInit  *Event `xml:"after_init"`
	AtEnd      *Event `xml:"at_end"`
}
