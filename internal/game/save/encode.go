package save

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
)

// Write serializes l as an indented XML snapshot.
func Write(w io.Writer, l *level.Level) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(FromLevel(l)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}

// FromLevel builds the snapshot document of l. Transient player-turn state
// (selection, ranges, diary, pending trades) is not part of it.
func FromLevel(l *level.Level) *Document {
	out := Level{
		Index:     l.Index,
		Name:      l.Name,
		ScriptDir: l.ScriptDir,
		Phase:     string(l.Phase()),
		Camp:      string(l.Camp()),
		Width:     l.Map.Size.Width,
		Height:    l.Map.Size.Height,
	}
	if l.Phase() != level.PhaseInitialization {
		turn := l.Turn()
		out.Turn = &turn
	}
	out.Obstacles = positions(l.Map.Obstacles)
	out.PlacementArea = positions(l.PlacementArea)

	e := &out.Entities
	for _, p := range l.Players {
		e.Players = append(e.Players, character(&p.Character))
	}
	for _, p := range l.Passed {
		e.Passed = append(e.Passed, character(&p.Character))
	}
	for _, a := range l.Allies {
		e.Allies = append(e.Allies, character(a))
	}
	for _, f := range l.Foes {
		sf := Foe{Movable: movable(&f.Movable), XPGain: f.XPGain, Strategy: string(f.Strategy), Keywords: f.Keywords}
		for _, le := range f.Loot {
			sf.Loot = append(sf.Loot, Loot{Probability: le.Probability, Item: itemOf(le.Item)})
		}
		e.Foes = append(e.Foes, sf)
	}
	for _, b := range l.Breakables {
		e.Breakables = append(e.Breakables, Breakable{Base: base(&b.Base), HP: b.HP, HPMax: b.HPMax})
	}
	for _, c := range l.Chests {
		sc := Chest{Base: base(&c.Base), Opened: c.Opened, PickLock: c.PickLockInitiated}
		if c.Contents != nil {
			it := itemOf(c.Contents)
			sc.Contents = &it
		}
		e.Chests = append(e.Chests, sc)
	}
	for _, d := range l.Doors {
		e.Doors = append(e.Doors, Door{Base: base(&d.Base), PickLock: d.PickLockInitiated})
	}
	for _, p := range l.Portals {
		e.Portals = append(e.Portals, Portal{Base: base(&p.Base), LinkedTo: p.LinkedTo})
	}
	for _, f := range l.Fountains {
		e.Fountains = append(e.Fountains, Fountain{Base: base(&f.Base), Uses: f.Uses, Effects: effects(f.Effects)})
	}
	for _, b := range l.Buildings {
		e.Buildings = append(e.Buildings, building(b))
	}
	if l.Missions != nil {
		for _, m := range l.Missions.All() {
			sm := Mission{
				Kind:        string(m.Kind),
				Main:        m.Main,
				Ended:       m.Ended,
				Failed:      m.Failed,
				MinChars:    m.MinChars,
				Limit:       m.Limit,
				Gold:        m.GoldReward,
				Description: m.Description,
				Targets:     m.Targets,
				Positions:   positions(m.Positions),
				Succeeded:   m.Succeeded,
			}
			for _, it := range m.ItemRewards {
				sm.Rewards = append(sm.Rewards, itemOf(it))
			}
			out.Missions = append(out.Missions, sm)
		}
	}
	out.Events = Events{
		BeforeInit: event(l.Events.BeforeInit),
		AfterInit:  event(l.Events.AfterInit),
		AtEnd:      event(l.Events.AtEnd),
	}
	return &Document{Version: Version, Level: out}
}

func positions(s grid.Set) []Position {
	var out []Position
	for _, p := range s.Sorted() {
		out = append(out, Position{X: p.X, Y: p.Y})
	}
	return out
}

func base(b *entity.Base) Base {
	return Base{ID: b.ID, Name: b.Name, Sprite: b.SpriteKey, X: b.Pos.X, Y: b.Pos.Y}
}

func effects(es []item.Effect) []Effect {
	var out []Effect
	for _, e := range es {
		out = append(out, effectOf(e))
	}
	return out
}

func effectOf(e item.Effect) Effect {
	return Effect{Kind: string(e.Kind), Power: e.Power, Duration: e.Duration, Alteration: e.Alteration}
}

func itemOf(it *item.Item) Item {
	out := Item{
		ID:          it.ID,
		Def:         it.DefID,
		Name:        it.Name,
		Sprite:      it.SpriteKey,
		Kind:        string(it.Kind),
		Price:       it.Price,
		ResellPrice: it.ResellPrice,
		Gold:        it.Gold,
		Description: it.Description,
		Effects:     effects(it.Effects),
	}
	if eq := it.Equip; eq != nil {
		out.Equipment = &Equipment{
			Slot:        string(eq.Slot),
			Defense:     eq.Defense,
			Resistance:  eq.Resistance,
			AttackBonus: eq.AttackBonus,
			Weight:      eq.Weight,
			Races:       eq.Restrictions.Races,
			Classes:     eq.Restrictions.Classes,
		}
	}
	if w := it.Weapon; w != nil {
		sw := &Weapon{
			AttackKind:    string(w.AttackKind),
			Durability:    w.Durability,
			DurabilityMax: w.DurabilityMax,
			StrongBonus:   w.StrongBonus,
			Reach:         w.Reach,
			StrongAgainst: w.StrongAgainst,
		}
		for _, se := range w.SideEffects {
			sw.SideEffects = append(sw.SideEffects, SideEffect{Effect: effectOf(se.Effect), Probability: se.Probability})
		}
		out.Weapon = sw
	}
	if s := it.Shield; s != nil {
		out.Shield = &Shield{ParryRate: s.ParryRate, Durability: s.Durability, DurabilityMax: s.DurabilityMax}
	}
	if k := it.Key; k != nil {
		out.Key = &Key{ForChest: k.ForChest, ForDoor: k.ForDoor}
	}
	return out
}

func movable(m *entity.Movable) Movable {
	out := Movable{
		Base:          base(&m.Base),
		HP:            m.HP,
		HPMax:         m.HPMax,
		Defense:       m.Defense,
		Resistance:    m.Resistance,
		Level:         m.Level,
		XP:            m.XP,
		XPNext:        m.XPNext,
		MaxMoves:      m.MaxMoves,
		Strength:      m.Strength,
		AttackKind:    string(m.AttackKind),
		Gold:          m.Gold(),
		TurnFinished:  m.TurnFinished,
		InventorySize: m.Inventory.Capacity(),
		Reach:         m.Reach,
	}
	for _, s := range m.Skills {
		out.Skills = append(out.Skills, Skill{ID: s.ID, Name: s.Name, Kind: string(s.Kind), Power: s.Power, Alteration: s.Alteration})
	}
	for _, a := range m.Alterations.All() {
		out.Alterations = append(out.Alterations, Alteration{
			Name: a.Name, Kind: string(a.Kind), Power: a.Power, Duration: a.Duration, Elapsed: a.Elapsed, Description: a.Description,
		})
	}
	for _, it := range m.Inventory.Items() {
		out.Inventory = append(out.Inventory, itemOf(it))
	}
	for _, it := range m.Equipment.Items() {
		out.Equipment = append(out.Equipment, itemOf(it))
	}
	return out
}

func character(c *entity.Character) Character {
	return Character{
		Movable:  movable(&c.Movable),
		Race:     c.Race,
		JoinTeam: c.JoinTeam,
		XPFactor: c.XPFactor,
		Classes:  c.Classes,
		Dialog:   c.Dialog,
		Growth:   Growth{HP: c.Growth.HPMax, Strength: c.Growth.Strength, Defense: c.Growth.Defense, Resistance: c.Growth.Resistance},
	}
}

func building(b *entity.Building) Building {
	out := Building{
		Base:    base(&b.Base),
		Kind:    string(b.Variant),
		Visited: b.Visited,
		Gold:    b.Gold,
		Cost:    b.Cost,
		Dialog:  b.Dialog,
	}
	if b.Gift != nil {
		it := itemOf(b.Gift)
		out.Gift = &it
	}
	if b.Effect != nil {
		e := effectOf(*b.Effect)
		out.Effect = &e
	}
	for _, s := range b.Stock {
		out.Stock = append(out.Stock, Stock{Quantity: s.Quantity, Price: s.Price, Item: itemOf(s.Item)})
	}
	return out
}

func event(ev *level.Event) *Event {
	if ev == nil {
		return nil
	}
	out := &Event{}
	for _, d := range ev.Dialogs {
		out.Dialogs = append(out.Dialogs, Dialog{Title: d.Title, Talks: d.Lines})
	}
	for _, p := range ev.NewPlayers {
		out.NewPlayers = append(out.NewPlayers, character(&p.Character))
	}
	return out
}
