// Package leveldoc reads level documents: the XML description of a map, its
// entities, events and missions. Entities reference catalog definitions by id.
package leveldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
)

// ErrMalformed is returned for documents that do not describe a valid level.
var ErrMalformed = errors.New("leveldoc: malformed level document")

// Position is a tile reference.
type Position struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Pos converts p.
func (p Position) Pos() grid.Pos { return grid.Pos{X: p.X, Y: p.Y} }

// Effect is an applicable effect.
type Effect struct {
	Kind       string `xml:"kind,attr"`
	Power      int    `xml:"power,attr"`
	Duration   int    `xml:"duration,attr"`
	Alteration string `xml:"alteration,attr"`
}

// Dialog is a titled list of lines.
type Dialog struct {
	Title string   `xml:"title,attr"`
	Talks []string `xml:"talk"`
}

// PlayerRef places a catalog character as a player.
type PlayerRef struct {
	Ref string `xml:"id,attr"`
	Position
}

// Event is a scripted sequence.
type Event struct {
	Dialogs    []Dialog    `xml:"dialogs>dialog"`
	NewPlayers []PlayerRef `xml:"new_players>player"`
}

// Events groups the phase events.
type Events struct {
	BeforeInit *Event `xml:"before_init"`
	AfterInit  *Event `xml:"after_init"`
	AtEnd      *Event `xml:"at_end"`
}

// Ally places a catalog character as an ally.
type Ally struct {
	Ref string `xml:"id,attr"`
	Position
}

// Foe places a catalog foe.
type Foe struct {
	Ref   string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Level int    `xml:"level,attr"`
	// Strategy overrides the catalog strategy when set.
	Strategy string `xml:"strategy,attr"`
	Position
}

// Content is an item or gold held by a chest or given by a house.
type Content struct {
	Item string `xml:"item,attr"`
	Gold int    `xml:"gold,attr"`
}

// Chest is a chest placement.
type Chest struct {
	Name string `xml:"name,attr"`
	Position
	Content *Content `xml:"content"`
}

// Door is a door placement.
type Door struct {
	Name string `xml:"name,attr"`
	Position
}

// Portal is one end of a portal pair; Link names the other end.
type Portal struct {
	Name string `xml:"name,attr"`
	Link string `xml:"link,attr"`
	Position
}

// Fountain is a fountain placement.
type Fountain struct {
	Name string `xml:"name,attr"`
	Uses int    `xml:"uses,attr"`
	Position
	Effects []Effect `xml:"effect"`
}

// Stock is a shop line.
type Stock struct {
	Item     string `xml:"item,attr"`
	Quantity int    `xml:"quantity,attr"`
	Price    int    `xml:"price,attr"`
}

// Building is a building placement.
type Building struct {
	Name string `xml:"name,attr"`
	Kind string `xml:"kind,attr"`
	Position
	Gold   int      `xml:"gold,attr"`
	Cost   int      `xml:"cost,attr"`
	Gift   string   `xml:"gift,attr"`
	Talks  []string `xml:"dialog>talk"`
	Effect *Effect  `xml:"effect"`
	Stock  []Stock  `xml:"stock>entry"`
}

// Breakable is a breakable wall placement.
type Breakable struct {
	Name string `xml:"name,attr"`
	HP   int    `xml:"hp,attr"`
	Position
}

// Mission is an objective.
type Mission struct {
	Type        string     `xml:"type,attr"`
	Main        bool       `xml:"main,attr"`
	Description string     `xml:"description"`
	MinChars    int        `xml:"min_chars,attr"`
	Limit       int        `xml:"limit,attr"`
	Gold        int        `xml:"gold,attr"`
	Positions   []Position `xml:"position"`
	// Targets name foes of the same document.
	Targets []string `xml:"target"`
	Rewards []string `xml:"reward"`
}

// Script points at the directory holding the level's Lua hooks.
type Script struct {
	Dir string `xml:"dir,attr"`
}

// Document is a parsed level document.
type Document struct {
	XMLName       xml.Name    `xml:"level"`
	Name          string      `xml:"name,attr"`
	Width         int         `xml:"width,attr"`
	Height        int         `xml:"height,attr"`
	Script        *Script     `xml:"script"`
	Obstacles     []Position  `xml:"obstacles>position"`
	Events        Events      `xml:"events"`
	PlacementArea []Position  `xml:"placementArea>position"`
	Allies        []Ally      `xml:"allies>ally"`
	Foes          []Foe       `xml:"foes>foe"`
	Fountains     []Fountain  `xml:"fountains>fountain"`
	Chests        []Chest     `xml:"chests>chest"`
	Doors         []Door      `xml:"doors>door"`
	Portals       []Portal    `xml:"portals>portal"`
	Buildings     []Building  `xml:"buildings>building"`
	Breakables    []Breakable `xml:"breakables>breakable"`
	Missions      []Mission   `xml:"missions>mission"`
}

// Parse decodes a level document.
func Parse(r io.Reader) (*Document, error) {
	var d Document
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrMalformed, d.Width, d.Height)
	}
	if len(d.Missions) == 0 {
		return nil, fmt.Errorf("%w: no missions", ErrMalformed)
	}
	return &d, nil
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening level %q: %w", path, err)
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", path, err)
	}
	return d, nil
}

// ScriptDir returns the script directory, or "" when the level has none.
func (d *Document) ScriptDir() string {
	if d.Script == nil {
		return ""
	}
	return d.Script.Dir
}
