package save

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

// Read decodes a snapshot and rebuilds the level it describes.
func Read(r io.Reader, cfg level.Config, deps level.Deps) (*level.Level, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return doc.ToLevel(cfg, deps)
}

// Decode parses a snapshot without building the level.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, doc.Version)
	}
	return &doc, nil
}

// decoder accumulates the first schema violation met while rebuilding.
type decoder struct {
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

// ToLevel rebuilds the level. A missing turn means the level was saved
// during initialization.
func (doc *Document) ToLevel(cfg level.Config, deps level.Deps) (*level.Level, error) {
	s := doc.Level
	phase := level.Phase(s.Phase)
	if s.Turn == nil {
		phase = level.PhaseInitialization
	} else if !level.ValidPhase(phase) || phase == level.PhaseInitialization || *s.Turn < 1 {
		return nil, fmt.Errorf("%w: phase %q with turn %d", ErrMalformed, s.Phase, *s.Turn)
	}
	camp := level.Camp(s.Camp)
	switch camp {
	case "", level.CampPlayer, level.CampAllies, level.CampFoes:
	default:
		return nil, fmt.Errorf("%w: unknown camp %q", ErrMalformed, s.Camp)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrMalformed, s.Width, s.Height)
	}

	d := &decoder{}
	m := grid.NewMap(grid.Size{Width: s.Width, Height: s.Height}, d.positions(s.Obstacles)...)
	l := level.New(s.Index, s.Name, m, cfg, deps)
	l.ScriptDir = s.ScriptDir
	l.PlacementArea = grid.NewSet(d.positions(s.PlacementArea)...)

	e := s.Entities
	for _, c := range e.Players {
		l.Players = append(l.Players, &entity.Player{Character: *d.character(c)})
	}
	for _, c := range e.Passed {
		l.Passed = append(l.Passed, &entity.Player{Character: *d.character(c)})
	}
	for _, c := range e.Allies {
		l.Allies = append(l.Allies, d.character(c))
	}
	for _, f := range e.Foes {
		l.Foes = append(l.Foes, d.foe(f))
	}
	for _, b := range e.Breakables {
		br := entity.NewBreakable(d.base(b.Base), b.HPMax)
		if b.HP < 0 || b.HP > b.HPMax {
			d.fail("breakable %q hp %d out of range", b.ID, b.HP)
		}
		br.HP = b.HP
		l.Breakables = append(l.Breakables, br)
	}
	for _, c := range e.Chests {
		ch := &entity.Chest{Base: d.base(c.Base), Opened: c.Opened, PickLockInitiated: c.PickLock}
		if c.Contents != nil {
			ch.Contents = d.item(*c.Contents)
		}
		l.Chests = append(l.Chests, ch)
	}
	for _, dr := range e.Doors {
		l.Doors = append(l.Doors, &entity.Door{Base: d.base(dr.Base), PickLockInitiated: dr.PickLock})
	}
	for _, p := range e.Portals {
		l.Portals = append(l.Portals, &entity.Portal{Base: d.base(p.Base), LinkedTo: p.LinkedTo})
	}
	for _, f := range e.Fountains {
		l.Fountains = append(l.Fountains, &entity.Fountain{Base: d.base(f.Base), Uses: f.Uses, Effects: d.effects(f.Effects)})
	}
	for _, b := range e.Buildings {
		l.Buildings = append(l.Buildings, d.building(b))
	}

	var missions []*mission.Mission
	for _, sm := range s.Missions {
		mi := &mission.Mission{
			Kind:        mission.Kind(sm.Kind),
			Description: sm.Description,
			Main:        sm.Main,
			Ended:       sm.Ended,
			Failed:      sm.Failed,
			Targets:     sm.Targets,
			Positions:   grid.NewSet(d.positions(sm.Positions)...),
			MinChars:    sm.MinChars,
			Limit:       sm.Limit,
			Succeeded:   sm.Succeeded,
			GoldReward:  sm.Gold,
		}
		for _, it := range sm.Rewards {
			mi.ItemRewards = append(mi.ItemRewards, d.item(it))
		}
		missions = append(missions, mi)
	}
	l.Events = level.Events{
		BeforeInit: d.event(s.Events.BeforeInit),
		AfterInit:  d.event(s.Events.AfterInit),
		AtEnd:      d.event(s.Events.AtEnd),
	}
	if d.err != nil {
		return nil, d.err
	}

	tracker, err := mission.NewTracker(missions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	l.Missions = tracker
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	turn := 0
	if s.Turn != nil {
		turn = *s.Turn
	}
	l.Restore(phase, turn, camp)
	return l, nil
}

func (d *decoder) positions(ps []Position) []grid.Pos {
	out := make([]grid.Pos, len(ps))
	for i, p := range ps {
		out[i] = grid.Pos{X: p.X, Y: p.Y}
	}
	return out
}

func (d *decoder) base(b Base) entity.Base {
	if b.ID == "" {
		d.fail("entity %q has no id", b.Name)
	}
	return entity.Base{ID: b.ID, Name: b.Name, SpriteKey: b.Sprite, Pos: grid.Pos{X: b.X, Y: b.Y}}
}

func (d *decoder) effects(es []Effect) []item.Effect {
	var out []item.Effect
	for _, e := range es {
		out = append(out, d.effect(e))
	}
	return out
}

func (d *decoder) effect(e Effect) item.Effect {
	switch item.EffectKind(e.Kind) {
	case item.EffectHeal, item.EffectXP, item.EffectAlteration:
	default:
		d.fail("unknown effect kind %q", e.Kind)
	}
	return item.Effect{Kind: item.EffectKind(e.Kind), Power: e.Power, Duration: e.Duration, Alteration: e.Alteration}
}

func (d *decoder) item(s Item) *item.Item {
	if s.ID == "" {
		d.fail("item %q has no id", s.Name)
	}
	if !item.ValidKind(item.Kind(s.Kind)) {
		d.fail("item %q has unknown kind %q", s.ID, s.Kind)
	}
	it := &item.Item{
		ID:          s.ID,
		DefID:       s.Def,
		Name:        s.Name,
		SpriteKey:   s.Sprite,
		Description: s.Description,
		Kind:        item.Kind(s.Kind),
		Price:       s.Price,
		ResellPrice: s.ResellPrice,
		Gold:        s.Gold,
		Effects:     d.effects(s.Effects),
	}
	if eq := s.Equipment; eq != nil {
		if !item.ValidSlot(item.Slot(eq.Slot)) {
			d.fail("item %q has unknown slot %q", s.ID, eq.Slot)
		}
		it.Equip = &item.EquipmentStats{
			Slot:         item.Slot(eq.Slot),
			Defense:      eq.Defense,
			Resistance:   eq.Resistance,
			AttackBonus:  eq.AttackBonus,
			Weight:       eq.Weight,
			Restrictions: item.Restrictions{Races: eq.Races, Classes: eq.Classes},
		}
	}
	if w := s.Weapon; w != nil {
		if w.AttackKind != "" && !item.ValidDamageKind(item.DamageKind(w.AttackKind)) {
			d.fail("item %q has unknown attack kind %q", s.ID, w.AttackKind)
		}
		it.Weapon = &item.WeaponStats{
			AttackKind:    item.DamageKind(w.AttackKind),
			Reach:         w.Reach,
			Durability:    w.Durability,
			DurabilityMax: w.DurabilityMax,
			StrongAgainst: w.StrongAgainst,
			StrongBonus:   w.StrongBonus,
		}
		for _, se := range w.SideEffects {
			it.Weapon.SideEffects = append(it.Weapon.SideEffects, item.SideEffect{Effect: d.effect(se.Effect), Probability: se.Probability})
		}
	}
	if sh := s.Shield; sh != nil {
		it.Shield = &item.ShieldStats{ParryRate: sh.ParryRate, Durability: sh.Durability, DurabilityMax: sh.DurabilityMax}
	}
	if k := s.Key; k != nil {
		it.Key = &item.KeyInfo{ForChest: k.ForChest, ForDoor: k.ForDoor}
	}
	return it
}

func (d *decoder) movable(s Movable) entity.Movable {
	if s.InventorySize <= 0 {
		d.fail("%q has inventory size %d", s.ID, s.InventorySize)
		s.InventorySize = 1
	}
	if s.HPMax <= 0 || s.HP < 0 || s.HP > s.HPMax {
		d.fail("%q hp %d/%d out of range", s.ID, s.HP, s.HPMax)
	}
	if s.AttackKind != "" && !item.ValidDamageKind(item.DamageKind(s.AttackKind)) {
		d.fail("%q has unknown attack kind %q", s.ID, s.AttackKind)
	}
	m := entity.NewMovable(d.base(s.Base), entity.Stats{
		HPMax:      s.HPMax,
		Defense:    s.Defense,
		Resistance: s.Resistance,
		Strength:   s.Strength,
		MaxMoves:   s.MaxMoves,
		AttackKind: item.DamageKind(s.AttackKind),
		Reach:      s.Reach,
	}, s.InventorySize)
	m.HP = s.HP
	m.Level = s.Level
	m.XP = s.XP
	m.XPNext = s.XPNext
	m.TurnFinished = s.TurnFinished
	if s.Gold < 0 {
		d.fail("%q has negative gold", s.ID)
	} else {
		m.Earn(s.Gold)
	}
	for _, sk := range s.Skills {
		m.Skills = append(m.Skills, entity.Skill{ID: sk.ID, Name: sk.Name, Kind: entity.SkillKind(sk.Kind), Power: sk.Power, Alteration: sk.Alteration})
	}
	for _, a := range s.Alterations {
		if !alteration.ValidKind(alteration.Kind(a.Kind)) {
			d.fail("%q has unknown alteration kind %q", s.ID, a.Kind)
			continue
		}
		m.Alterations.Apply(&alteration.Alteration{
			Name: a.Name, Kind: alteration.Kind(a.Kind), Power: a.Power, Duration: a.Duration, Elapsed: a.Elapsed, Description: a.Description,
		})
	}
	for _, si := range s.Inventory {
		if err := m.Inventory.Set(d.item(si)); err != nil {
			d.fail("%q: %v", s.ID, err)
		}
	}
	for _, si := range s.Equipment {
		it := d.item(si)
		if !it.Wearable() {
			d.fail("%q equips non-wearable item %q", s.ID, it.ID)
			continue
		}
		if prev := m.Equipment.Place(it); prev != nil {
			d.fail("%q equips two items in slot %s", s.ID, it.Equip.Slot)
		}
	}
	return m
}

func (d *decoder) character(s Character) *entity.Character {
	return &entity.Character{
		Movable:  d.movable(s.Movable),
		Race:     s.Race,
		Classes:  s.Classes,
		Dialog:   s.Dialog,
		JoinTeam: s.JoinTeam,
		Growth:   entity.Growth{HPMax: s.Growth.HP, Strength: s.Growth.Strength, Defense: s.Growth.Defense, Resistance: s.Growth.Resistance},
		XPFactor: s.XPFactor,
	}
}

func (d *decoder) foe(s Foe) *entity.Foe {
	strategy := entity.Strategy(s.Strategy)
	if !entity.ValidStrategy(strategy) {
		d.fail("foe %q has unknown strategy %q", s.ID, s.Strategy)
	}
	f := &entity.Foe{Movable: d.movable(s.Movable), Keywords: s.Keywords, XPGain: s.XPGain, Strategy: strategy}
	for _, le := range s.Loot {
		f.Loot = append(f.Loot, entity.LootEntry{Item: d.item(le.Item), Probability: le.Probability})
	}
	return f
}

func (d *decoder) building(s Building) *entity.Building {
	kind := entity.BuildingKind(s.Kind)
	if !entity.ValidBuildingKind(kind) {
		d.fail("building %q has unknown kind %q", s.ID, s.Kind)
	}
	b := &entity.Building{
		Base:    d.base(s.Base),
		Variant: kind,
		Dialog:  s.Dialog,
		Gold:    s.Gold,
		Visited: s.Visited,
		Cost:    s.Cost,
	}
	if s.Gift != nil {
		b.Gift = d.item(*s.Gift)
	}
	if s.Effect != nil {
		e := d.effect(*s.Effect)
		b.Effect = &e
	}
	for _, st := range s.Stock {
		b.Stock = append(b.Stock, entity.StockEntry{Item: d.item(st.Item), Quantity: st.Quantity, Price: st.Price})
	}
	return b
}

func (d *decoder) event(s *Event) *level.Event {
	if s == nil {
		return nil
	}
	ev := &level.Event{}
	for _, dl := range s.Dialogs {
		ev.Dialogs = append(ev.Dialogs, level.Dialog{Title: dl.Title, Lines: dl.Talks})
	}
	for _, p := range s.NewPlayers {
		ev.NewPlayers = append(ev.NewPlayers, &entity.Player{Character: *d.character(p)})
	}
	return ev
}

// IsMalformed reports whether err comes from a bad snapshot.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformed) }
