package leveldoc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/catalog"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

// Options tune how a document becomes a level.
type Options struct {
	Index         int
	InventorySize int
	Config        level.Config
}

// builder carries the state of one Build call.
type builder struct {
	cat  *catalog.Catalog
	opts Options
}

// Build instantiates the document into a validated level in the
// initialization phase.
//
// Precondition: cat is non-nil; opts.InventorySize > 0.
func (d *Document) Build(cat *catalog.Catalog, opts Options, deps level.Deps) (*level.Level, error) {
	if cat == nil {
		panic("leveldoc: Build called with nil catalog")
	}
	b := &builder{cat: cat, opts: opts}
	obstacles := make([]grid.Pos, len(d.Obstacles))
	for i, o := range d.Obstacles {
		obstacles[i] = o.Pos()
	}
	m := grid.NewMap(grid.Size{Width: d.Width, Height: d.Height}, obstacles...)
	l := level.New(opts.Index, d.Name, m, opts.Config, deps)
	l.ScriptDir = d.ScriptDir()
	for _, p := range d.PlacementArea {
		l.PlacementArea.Add(p.Pos())
	}

	var err error
	if l.Events.BeforeInit, err = b.event(d.Events.BeforeInit); err != nil {
		return nil, err
	}
	if l.Events.AfterInit, err = b.event(d.Events.AfterInit); err != nil {
		return nil, err
	}
	if l.Events.AtEnd, err = b.event(d.Events.AtEnd); err != nil {
		return nil, err
	}
	if err := b.entities(d, l); err != nil {
		return nil, err
	}
	foesByName := map[string]string{}
	for i, f := range d.Foes {
		if f.Name != "" {
			foesByName[f.Name] = l.Foes[i].ID
		}
	}
	missions := make([]*mission.Mission, 0, len(d.Missions))
	for _, dm := range d.Missions {
		mi, err := b.mission(dm, foesByName)
		if err != nil {
			return nil, err
		}
		missions = append(missions, mi)
	}
	if l.Missions, err = mission.NewTracker(missions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	l.Logger().Info("level built",
		zap.String("name", d.Name),
		zap.Int("foes", len(l.Foes)),
		zap.Int("missions", len(missions)),
	)
	return l, nil
}

func (b *builder) event(e *Event) (*level.Event, error) {
	if e == nil {
		return nil, nil
	}
	out := &level.Event{}
	for _, dl := range e.Dialogs {
		out.Dialogs = append(out.Dialogs, level.Dialog{Title: dl.Title, Lines: dl.Talks})
	}
	for _, ref := range e.NewPlayers {
		p, err := b.cat.NewPlayer(ref.Ref, ref.Pos(), b.opts.InventorySize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out.NewPlayers = append(out.NewPlayers, p)
	}
	return out, nil
}

func (b *builder) entities(d *Document, l *level.Level) error {
	for _, a := range d.Allies {
		c, err := b.cat.NewCharacter(a.Ref, a.Pos(), b.opts.InventorySize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		l.Allies = append(l.Allies, c)
	}
	for _, f := range d.Foes {
		lvl := max(f.Level, 1)
		foe, err := b.cat.NewFoe(f.Ref, f.Pos(), lvl)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if f.Name != "" {
			foe.Name = f.Name
		}
		if f.Strategy != "" {
			if !entity.ValidStrategy(entity.Strategy(f.Strategy)) {
				return fmt.Errorf("%w: foe %q has unknown strategy %q", ErrMalformed, f.Ref, f.Strategy)
			}
			foe.Strategy = entity.Strategy(f.Strategy)
		}
		l.Foes = append(l.Foes, foe)
	}
	for _, c := range d.Chests {
		chest := &entity.Chest{Base: entity.NewBase(nameOr(c.Name, "Chest"), "chest", c.Pos())}
		if c.Content != nil {
			it, err := b.content(*c.Content)
			if err != nil {
				return err
			}
			chest.Contents = it
		}
		l.Chests = append(l.Chests, chest)
	}
	for _, dr := range d.Doors {
		l.Doors = append(l.Doors, &entity.Door{Base: entity.NewBase(nameOr(dr.Name, "Door"), "door", dr.Pos())})
	}
	if err := b.portals(d.Portals, l); err != nil {
		return err
	}
	for _, f := range d.Fountains {
		ft := &entity.Fountain{Base: entity.NewBase(nameOr(f.Name, "Fountain"), "fountain", f.Pos()), Uses: f.Uses}
		for _, e := range f.Effects {
			eff, err := effect(e)
			if err != nil {
				return err
			}
			ft.Effects = append(ft.Effects, eff)
		}
		l.Fountains = append(l.Fountains, ft)
	}
	for _, bd := range d.Buildings {
		bl, err := b.building(bd)
		if err != nil {
			return err
		}
		l.Buildings = append(l.Buildings, bl)
	}
	for _, br := range d.Breakables {
		if br.HP <= 0 {
			return fmt.Errorf("%w: breakable %q needs positive hp", ErrMalformed, br.Name)
		}
		l.Breakables = append(l.Breakables, entity.NewBreakable(entity.NewBase(nameOr(br.Name, "Wall"), "breakable", br.Pos()), br.HP))
	}
	return nil
}

func (b *builder) portals(ps []Portal, l *level.Level) error {
	byName := map[string]*entity.Portal{}
	for _, p := range ps {
		if p.Name == "" {
			return fmt.Errorf("%w: portal without name", ErrMalformed)
		}
		if _, dup := byName[p.Name]; dup {
			return fmt.Errorf("%w: duplicate portal %q", ErrMalformed, p.Name)
		}
		portal := &entity.Portal{Base: entity.NewBase(p.Name, "portal", p.Pos())}
		byName[p.Name] = portal
		l.Portals = append(l.Portals, portal)
	}
	for _, p := range ps {
		twin, ok := byName[p.Link]
		if !ok || twin.Name == p.Name {
			return fmt.Errorf("%w: portal %q links to unknown portal %q", ErrMalformed, p.Name, p.Link)
		}
		entity.Link(byName[p.Name], twin)
	}
	return nil
}

func (b *builder) content(c Content) (*item.Item, error) {
	switch {
	case c.Gold > 0 && c.Item == "":
		return item.NewGold(c.Gold), nil
	case c.Item != "" && c.Gold == 0:
		it, err := b.cat.NewItem(c.Item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return it, nil
	}
	return nil, fmt.Errorf("%w: content needs exactly one of item and gold", ErrMalformed)
}

func (b *builder) building(bd Building) (*entity.Building, error) {
	kind := entity.BuildingKind(bd.Kind)
	if !entity.ValidBuildingKind(kind) {
		return nil, fmt.Errorf("%w: building %q has unknown kind %q", ErrMalformed, bd.Name, bd.Kind)
	}
	out := &entity.Building{
		Base:    entity.NewBase(nameOr(bd.Name, string(kind)), string(kind), bd.Pos()),
		Variant: kind,
		Dialog:  bd.Talks,
		Gold:    bd.Gold,
		Cost:    bd.Cost,
	}
	if bd.Gift != "" {
		it, err := b.cat.NewItem(bd.Gift)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out.Gift = it
	}
	if bd.Effect != nil {
		eff, err := effect(*bd.Effect)
		if err != nil {
			return nil, err
		}
		out.Effect = &eff
	}
	for _, s := range bd.Stock {
		def, ok := b.cat.Items.Get(s.Item)
		if !ok {
			return nil, fmt.Errorf("%w: shop %q sells unknown item %q", ErrMalformed, bd.Name, s.Item)
		}
		price := s.Price
		if price == 0 {
			price = def.Price
		}
		out.Stock = append(out.Stock, entity.StockEntry{Item: def.New(), Quantity: s.Quantity, Price: price})
	}
	if len(out.Stock) > 0 && !out.IsShop() {
		return nil, fmt.Errorf("%w: %s %q cannot hold stock", ErrMalformed, kind, bd.Name)
	}
	return out, nil
}

func (b *builder) mission(dm Mission, foes map[string]string) (*mission.Mission, error) {
	mi := &mission.Mission{
		Kind:        mission.Kind(dm.Type),
		Description: dm.Description,
		Main:        dm.Main,
		MinChars:    dm.MinChars,
		Limit:       dm.Limit,
		GoldReward:  dm.Gold,
		Positions:   grid.NewSet(),
	}
	for _, p := range dm.Positions {
		mi.Positions.Add(p.Pos())
	}
	for _, name := range dm.Targets {
		id, ok := foes[name]
		if !ok {
			return nil, fmt.Errorf("%w: mission target %q is not a named foe", ErrMalformed, name)
		}
		mi.Targets = append(mi.Targets, id)
	}
	for _, r := range dm.Rewards {
		it, err := b.cat.NewItem(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		mi.ItemRewards = append(mi.ItemRewards, it)
	}
	if err := mi.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mi, nil
}

func effect(e Effect) (item.Effect, error) {
	switch item.EffectKind(e.Kind) {
	case item.EffectHeal, item.EffectXP, item.EffectAlteration:
	default:
		return item.Effect{}, fmt.Errorf("%w: unknown effect kind %q", ErrMalformed, e.Kind)
	}
	return item.Effect{Kind: item.EffectKind(e.Kind), Power: e.Power, Duration: e.Duration, Alteration: e.Alteration}, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Load parses and builds the level document at path.
func Load(path string, cat *catalog.Catalog, opts Options, deps level.Deps) (*level.Level, *Document, error) {
	d, err := ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	l, err := d.Build(cat, opts, deps)
	if err != nil {
		return nil, nil, fmt.Errorf("level %q: %w", path, err)
	}
	return l, d, nil
}
