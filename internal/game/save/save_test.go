package save_test

import (
	"bytes"
	"context"
	"encoding/xml"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/save"
)

func deps() level.Deps {
	return level.Deps{Logger: zap.NewNop(), Roller: dice.NewLoggedRoller(dice.FixedSource{}, zap.NewNop())}
}

func player(name string, at grid.Pos) *entity.Player {
	m := entity.NewMovable(entity.NewBase(name, name, at), entity.Stats{HPMax: 20, Strength: 5, MaxMoves: 3, Defense: 1}, 4)
	return &entity.Player{Character: entity.Character{
		Movable:  m,
		Race:     "human",
		Classes:  []string{"warrior"},
		Growth:   entity.Growth{HPMax: 2, Strength: 1},
		XPFactor: 1.5,
	}}
}

func foe(name string, at grid.Pos, hp int) *entity.Foe {
	m := entity.NewMovable(entity.NewBase(name, name, at), entity.Stats{HPMax: hp, Strength: 2, MaxMoves: 2}, 1)
	return &entity.Foe{Movable: m, XPGain: 3, Strategy: entity.StrategyActive, Keywords: []string{"undead"}}
}

func sword() *item.Item {
	s := item.New("short_sword", "Short Sword", item.KindWeapon, 100)
	s.Description = "A plain blade."
	s.Equip = &item.EquipmentStats{Slot: item.SlotRightHand, AttackBonus: 3, Weight: 2, Restrictions: item.Restrictions{Classes: []string{"warrior"}}}
	s.Weapon = &item.WeaponStats{
		AttackKind:    item.Physical,
		Reach:         []int{1},
		Durability:    17,
		DurabilityMax: 20,
		StrongAgainst: []string{"undead"},
		StrongBonus:   2,
		SideEffects:   []item.SideEffect{{Effect: item.Effect{Kind: item.EffectAlteration, Alteration: "poison", Power: 1, Duration: 2}, Probability: 10}},
	}
	return s
}

func potion() *item.Item {
	p := item.New("life_potion", "Life Potion", item.KindConsumable, 20)
	p.Effects = []item.Effect{{Kind: item.EffectHeal, Power: 10}}
	return p
}

func doorKey() *item.Item {
	k := item.New("door_key", "Door Key", item.KindKey, 20)
	k.Key = &item.KeyInfo{ForDoor: true}
	return k
}

// inProgress builds a running level with two players, three foes, a chest
// with contents and a door that has already been opened.
func inProgress(t *testing.T) *level.Level {
	t.Helper()
	l := level.New(3, "Crypt", grid.NewMap(grid.Size{Width: 10, Height: 8}, grid.Pos{X: 5, Y: 5}), level.DefaultConfig(), deps())
	l.ScriptDir = "scripts/level_3"
	l.PlacementArea = grid.NewSet(grid.Pos{X: 1, Y: 1}, grid.Pos{X: 3, Y: 3})

	a := player("Raimund", grid.Pos{X: 1, Y: 1})
	require.NoError(t, a.Inventory.Set(doorKey()))
	require.Nil(t, a.Equipment.Place(sword()))
	a.Earn(35)
	a.Alterations.Apply(&alteration.Alteration{Name: "strength_up", Kind: alteration.StrengthUp, Power: 2, Duration: 3, Elapsed: 1, Description: "Stronger"})
	a.Skills = []entity.Skill{{ID: "double_attack", Name: "Double attack", Kind: entity.SkillDoubleAttack}}

	b := player("Braern", grid.Pos{X: 3, Y: 3})
	require.NoError(t, b.Inventory.Set(potion()))
	b.HP = 12
	b.XP = 4
	b.Earn(10)

	f1 := foe("Skeleton", grid.Pos{X: 8, Y: 1}, 10)
	f1.Loot = []entity.LootEntry{{Item: potion(), Probability: 50}, {Item: item.NewGold(15), Probability: 100}}
	f2 := foe("Necrophage", grid.Pos{X: 8, Y: 6}, 14)
	f2.HP = 9
	f2.Strategy = entity.StrategySemiActive
	f3 := foe("Zealot", grid.Pos{X: 9, Y: 7}, 12)
	f3.Strategy = entity.StrategyStatic

	portalA := &entity.Portal{Base: entity.NewBase("Blue portal", "portal", grid.Pos{X: 0, Y: 7})}
	portalB := &entity.Portal{Base: entity.NewBase("Red portal", "portal", grid.Pos{X: 6, Y: 0})}
	entity.Link(portalA, portalB)

	l.Players = append(l.Players, a, b)
	l.Passed = append(l.Passed, player("Jist", grid.Pos{X: 0, Y: 0}))
	l.Foes = append(l.Foes, f1, f2, f3)
	l.Chests = append(l.Chests, &entity.Chest{Base: entity.NewBase("Chest", "chest", grid.Pos{X: 4, Y: 1}), Contents: potion(), PickLockInitiated: true})
	l.Doors = append(l.Doors, &entity.Door{Base: entity.NewBase("Door", "door", grid.Pos{X: 1, Y: 0})})
	l.Portals = append(l.Portals, portalA, portalB)
	l.Breakables = append(l.Breakables, entity.NewBreakable(entity.NewBase("Wall", "wall", grid.Pos{X: 7, Y: 3}), 8))
	l.Fountains = append(l.Fountains, &entity.Fountain{Base: entity.NewBase("Fountain", "fountain", grid.Pos{X: 2, Y: 6}), Uses: 2, Effects: []item.Effect{{Kind: item.EffectHeal, Power: 5}}})
	l.Buildings = append(l.Buildings, &entity.Building{
		Base:    entity.NewBase("Shop", "shop", grid.Pos{X: 4, Y: 6}),
		Variant: entity.BuildingShop,
		Dialog:  []string{"Welcome!"},
		Stock:   []entity.StockEntry{{Item: potion(), Quantity: 3, Price: 25}},
	})

	tr, err := mission.NewTracker([]*mission.Mission{
		{Kind: mission.KillEverybody, Main: true, Description: "Kill them all"},
		{Kind: mission.KillTargets, Description: "Slay the zealot", Targets: []string{f3.ID}, GoldReward: 30, ItemRewards: []*item.Item{potion()}},
		{Kind: mission.TurnLimit, Description: "Be quick", Limit: 12},
	})
	require.NoError(t, err)
	l.Missions = tr
	l.Events.AtEnd = &level.Event{Dialogs: []level.Dialog{{Title: "Victory", Lines: []string{"The road is clear."}}}}
	require.NoError(t, l.Validate())
	require.NoError(t, l.StartGame())

	require.NoError(t, l.SelectPlayer(a))
	require.NoError(t, l.MovePlayer(a.Pos))
	require.NoError(t, l.PrepareInteract())
	require.NoError(t, l.Interact(grid.Pos{X: 1, Y: 0}, entity.ActionOpenDoor))
	require.Empty(t, l.Doors)
	return l
}

func roundTrip(t *testing.T, l *level.Level) *level.Level {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, save.Write(&buf, l))
	loaded, err := save.Read(&buf, level.DefaultConfig(), deps())
	require.NoError(t, err)
	return loaded
}

func ids[T interface{ Core() *entity.Base }](es []T) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Core().ID
	}
	return out
}

func TestRoundTrip_InProgressLevel(t *testing.T) {
	l := inProgress(t)
	loaded := roundTrip(t, l)

	assert.Equal(t, level.PhaseInProgress, loaded.Phase())
	assert.Equal(t, l.Turn(), loaded.Turn())
	assert.Equal(t, l.Camp(), loaded.Camp())
	assert.Equal(t, ids(l.Players), ids(loaded.Players))
	assert.Equal(t, ids(l.Passed), ids(loaded.Passed))
	assert.Equal(t, ids(l.Foes), ids(loaded.Foes))
	assert.Equal(t, ids(l.Chests), ids(loaded.Chests))
	assert.Empty(t, loaded.Doors)
	assert.Equal(t, l.Chests[0].Contents.ID, loaded.Chests[0].Contents.ID)
	assert.True(t, loaded.Players[0].TurnFinished)
	assert.Equal(t, 35, loaded.Players[0].Gold())
	assert.Equal(t, l.Players[0].Power(), loaded.Players[0].Power())
	assert.Equal(t, l.Missions.All()[1].Targets, loaded.Missions.All()[1].Targets)
	assert.Equal(t, save.FromLevel(l), save.FromLevel(loaded))
}

func TestRoundTrip_InitializationHasNoTurn(t *testing.T) {
	l := level.New(0, "Fresh", grid.NewMap(grid.Size{Width: 4, Height: 4}), level.DefaultConfig(), deps())
	l.Players = append(l.Players, player("Raimund", grid.Pos{X: 0, Y: 0}))
	l.Foes = append(l.Foes, foe("Skeleton", grid.Pos{X: 3, Y: 3}, 5))
	tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true}})
	require.NoError(t, err)
	l.Missions = tr

	var buf bytes.Buffer
	require.NoError(t, save.Write(&buf, l))
	assert.NotContains(t, buf.String(), "<turn>")

	loaded, err := save.Read(&buf, level.DefaultConfig(), deps())
	require.NoError(t, err)
	assert.Equal(t, level.PhaseInitialization, loaded.Phase())
	assert.Zero(t, loaded.Turn())
	assert.NoError(t, loaded.StartGame())
	assert.Equal(t, 1, loaded.Turn())
}

func TestRoundTrip_SavedLevelKeepsPlaying(t *testing.T) {
	loaded := roundTrip(t, inProgress(t))
	b := loaded.PlayerNamed("Braern")
	require.NotNil(t, b)
	require.NoError(t, loaded.SelectPlayer(b))
	assert.NoError(t, loaded.MovePlayer(grid.Pos{X: 3, Y: 4}))
}

func TestToLevel_Malformed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(d *save.Document)
	}{
		{"version", func(d *save.Document) { d.Version = 99 }},
		{"unknown phase", func(d *save.Document) { d.Level.Phase = "paused" }},
		{"turn during initialization", func(d *save.Document) { d.Level.Phase = string(level.PhaseInitialization) }},
		{"zero turn", func(d *save.Document) { zero := 0; d.Level.Turn = &zero }},
		{"unknown camp", func(d *save.Document) { d.Level.Camp = "neutral" }},
		{"empty map", func(d *save.Document) { d.Level.Width = 0 }},
		{"item kind", func(d *save.Document) { d.Level.Entities.Chests[0].Contents.Kind = "relic" }},
		{"movable attack kind", func(d *save.Document) { d.Level.Entities.Foes[0].AttackKind = "fire" }},
		{"weapon attack kind", func(d *save.Document) { d.Level.Entities.Players[0].Equipment[0].Weapon.AttackKind = "fire" }},
		{"equipment slot", func(d *save.Document) { d.Level.Entities.Players[0].Equipment[0].Equipment.Slot = "tail" }},
		{"non wearable equipped", func(d *save.Document) { d.Level.Entities.Players[0].Equipment[0].Equipment = nil }},
		{"inventory overflow", func(d *save.Document) {
			p := &d.Level.Entities.Players[1]
			p.InventorySize = 1
			p.Inventory = append(p.Inventory, p.Inventory[0])
		}},
		{"hp above max", func(d *save.Document) { d.Level.Entities.Foes[0].HP = 99 }},
		{"negative gold", func(d *save.Document) { d.Level.Entities.Players[0].Gold = -1 }},
		{"strategy", func(d *save.Document) { d.Level.Entities.Foes[0].Strategy = "coward" }},
		{"alteration kind", func(d *save.Document) { d.Level.Entities.Players[0].Alterations[0].Kind = "charm" }},
		{"building kind", func(d *save.Document) { d.Level.Entities.Buildings[0].Kind = "castle" }},
		{"effect kind", func(d *save.Document) { d.Level.Entities.Fountains[0].Effects[0].Kind = "teleport" }},
		{"missing id", func(d *save.Document) { d.Level.Entities.Foes[1].ID = "" }},
		{"duplicate id", func(d *save.Document) { d.Level.Entities.Foes[1].ID = d.Level.Entities.Foes[0].ID }},
		{"broken portal link", func(d *save.Document) { d.Level.Entities.Portals[0].LinkedTo = "nowhere" }},
		{"no main mission", func(d *save.Document) { d.Level.Missions[0].Main = false; d.Level.Missions = d.Level.Missions[1:] }},
		{"mission kind", func(d *save.Document) { d.Level.Missions[1].Kind = "escort" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, save.Write(&buf, inProgress(t)))
			doc, err := save.Decode(&buf)
			require.NoError(t, err)
			tc.mutate(doc)

			var out bytes.Buffer
			require.NoError(t, xmlEncode(&out, doc))
			_, err = save.Read(&out, level.DefaultConfig(), deps())
			require.Error(t, err)
			assert.True(t, save.IsMalformed(err), "got %v", err)
		})
	}
}

func TestRead_RejectsBrokenXML(t *testing.T) {
	for _, doc := range []string{
		"",
		"<save version=\"1\"><level>",
		"<options/>",
	} {
		_, err := save.Read(strings.NewReader(doc), level.DefaultConfig(), deps())
		assert.ErrorIs(t, err, save.ErrMalformed, "document %q", doc)
	}
}

func TestRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := level.New(rapid.IntRange(0, 9).Draw(rt, "index"), "Prop", grid.NewMap(grid.Size{Width: 6, Height: 6}), level.DefaultConfig(), deps())
		tiles := rapid.Permutation(grid.Size{Width: 6, Height: 6}.Tiles()).Draw(rt, "tiles")
		n := rapid.IntRange(1, 4).Draw(rt, "players")
		for i := 0; i < n; i++ {
			p := player(rapid.StringMatching(`[A-Z][a-z]{2,6}`).Draw(rt, "name"), tiles[i])
			p.HP = rapid.IntRange(1, p.HPMax).Draw(rt, "hp")
			p.XP = rapid.IntRange(0, 9).Draw(rt, "xp")
			p.Earn(rapid.IntRange(0, 500).Draw(rt, "gold"))
			for j := rapid.IntRange(0, 4).Draw(rt, "items"); j > 0; j-- {
				require.NoError(rt, p.Inventory.Set(potion()))
			}
			if rapid.Bool().Draw(rt, "armed") {
				p.Equipment.Place(sword())
			}
			l.Players = append(l.Players, p)
		}
		l.Foes = append(l.Foes, foe("Skeleton", tiles[n], rapid.IntRange(1, 30).Draw(rt, "foe hp")))
		tr, err := mission.NewTracker([]*mission.Mission{{Kind: mission.KillEverybody, Main: true}})
		require.NoError(rt, err)
		l.Missions = tr
		if rapid.Bool().Draw(rt, "started") {
			require.NoError(rt, l.StartGame())
		}

		var buf bytes.Buffer
		require.NoError(rt, save.Write(&buf, l))
		loaded, err := save.Read(&buf, level.DefaultConfig(), deps())
		require.NoError(rt, err)
		assert.Equal(rt, save.FromLevel(l), save.FromLevel(loaded))
	})
}

type memStore struct {
	mu    sync.Mutex
	metas map[int]save.Meta
	data  map[int][]byte
}

func newMemStore() *memStore {
	return &memStore{metas: map[int]save.Meta{}, data: map[int][]byte{}}
}

func (s *memStore) Put(_ context.Context, meta save.Meta, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metas[meta.Slot] = meta
	s.data[meta.Slot] = data
	return nil
}

func (s *memStore) Get(_ context.Context, slot int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[slot]
	if !ok {
		return nil, save.ErrSlotNotFound
	}
	return d, nil
}

func (s *memStore) List(context.Context) ([]save.Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []save.Meta
	for _, m := range s.metas {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *memStore) Delete(_ context.Context, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[slot]; !ok {
		return save.ErrSlotNotFound
	}
	delete(s.data, slot)
	delete(s.metas, slot)
	return nil
}

func TestSaveSlot_LoadSlot(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	l := inProgress(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, save.SaveSlot(ctx, st, 2, l, now))
	metas, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, save.Meta{Slot: 2, LevelIndex: 3, LevelName: "Crypt", Phase: string(level.PhaseInProgress), Turn: 1, SavedAt: now}, metas[0])

	loaded, err := save.LoadSlot(ctx, st, 2, level.DefaultConfig(), deps())
	require.NoError(t, err)
	assert.Equal(t, save.FromLevel(l), save.FromLevel(loaded))

	_, err = save.LoadSlot(ctx, st, 5, level.DefaultConfig(), deps())
	assert.ErrorIs(t, err, save.ErrSlotNotFound)
}

func xmlEncode(buf *bytes.Buffer, doc *save.Document) error {
	return xml.NewEncoder(buf).Encode(doc)
}
