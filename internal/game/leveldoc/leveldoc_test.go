package leveldoc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/catalog"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/leveldoc"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/mission"
)

const content = "../../../content"

func deps() level.Deps {
	return level.Deps{Logger: zap.NewNop(), Roller: dice.NewLoggedRoller(dice.FixedSource{}, zap.NewNop())}
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadDirectory(content)
	require.NoError(t, err)
	return c
}

func opts() leveldoc.Options {
	return leveldoc.Options{InventorySize: 8, Config: level.DefaultConfig()}
}

func TestLoad_ShippedLevel(t *testing.T) {
	cat := loadCatalog(t)
	l, doc, err := leveldoc.Load(content+"/levels/level_0.xml", cat, opts(), deps())
	require.NoError(t, err)

	assert.Equal(t, "The Crypt Road", l.Name)
	assert.Equal(t, "../scripts/level_0", doc.ScriptDir())
	assert.Equal(t, grid.Size{Width: 12, Height: 10}, l.Map.Size)
	assert.False(t, l.Map.Passable(grid.Pos{X: 4, Y: 0}))
	assert.Len(t, l.PlacementArea, 9)
	assert.Len(t, l.Foes, 4)
	assert.Len(t, l.Allies, 2)
	assert.Len(t, l.Portals, 2)
	assert.Equal(t, level.PhaseInitialization, l.Phase())

	zealot := l.Foes[3]
	assert.Equal(t, "Zealot", zealot.Name)
	assert.Equal(t, entity.StrategyStatic, zealot.Strategy)
	opt := l.Missions.Optional()
	require.Len(t, opt, 2)
	assert.Equal(t, mission.KillTargets, opt[0].Kind)
	assert.Equal(t, []string{zealot.ID}, opt[0].Targets)
	require.Len(t, opt[0].ItemRewards, 1)

	west, east := l.Portals[0], l.Portals[1]
	assert.Equal(t, east.ID, west.LinkedTo)
	assert.Equal(t, west.ID, east.LinkedTo)

	require.NotNil(t, l.Events.BeforeInit)
	assert.Len(t, l.Events.BeforeInit.NewPlayers, 3)
	assert.Empty(t, l.Players)
	l.Enter()
	assert.Len(t, l.Players, 3)
	d, ok := l.PendingDialog()
	require.True(t, ok)
	assert.Equal(t, "The Crypt Road", d.Title)

	shop := l.Buildings[0]
	require.Len(t, shop.Stock, 3)
	assert.Equal(t, 40, shop.Stock[0].Price)
	assert.Equal(t, 80, shop.Stock[1].Price)
}

const minimal = `<level name="tiny" width="4" height="4">
  <foes><foe id="skeleton" x="3" y="3"/></foes>
  %s
  <missions><mission type="kill_everybody" main="true"/></missions>
</level>`

func build(t *testing.T, extra string) (*level.Level, error) {
	t.Helper()
	doc, err := leveldoc.Parse(strings.NewReader(strings.Replace(minimal, "%s", extra, 1)))
	if err != nil {
		return nil, err
	}
	return doc.Build(loadCatalog(t), opts(), deps())
}

func TestBuild_Minimal(t *testing.T) {
	l, err := build(t, "")
	require.NoError(t, err)
	require.Len(t, l.Foes, 1)
	assert.Equal(t, 1, l.Foes[0].Level)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"not xml":     "<level",
		"no size":     `<level name="x"><missions><mission type="kill_everybody" main="true"/></missions></level>`,
		"no missions": `<level name="x" width="3" height="3"></level>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := leveldoc.Parse(strings.NewReader(doc))
			assert.ErrorIs(t, err, leveldoc.ErrMalformed)
		})
	}
}

func TestBuild_Malformed(t *testing.T) {
	cases := map[string]string{
		"unknown ally":        `<allies><ally id="nobody" x="0" y="0"/></allies>`,
		"shared tile":         `<doors><door x="3" y="3"/></doors>`,
		"off map":             `<chests><chest x="9" y="9"/></chests>`,
		"one-sided portal":    `<portals><portal name="a" link="b" x="0" y="0"/></portals>`,
		"self portal":         `<portals><portal name="a" link="a" x="0" y="0"/></portals>`,
		"bad building":        `<buildings><building kind="castle" x="0" y="0"/></buildings>`,
		"stock in house":      `<buildings><building kind="house" x="0" y="0"><stock><entry item="bone" quantity="1"/></stock></building></buildings>`,
		"chest gold and item": `<chests><chest x="0" y="0"><content item="bone" gold="3"/></chest></chests>`,
		"bad effect":          `<fountains><fountain uses="1" x="0" y="0"><effect kind="teleport"/></fountain></fountains>`,
		"bad strategy":        `<foes><foe id="skeleton" strategy="berserk" x="0" y="0"/></foes>`,
		"zero hp breakable":   `<breakables><breakable x="0" y="0"/></breakables>`,
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := build(t, extra)
			assert.ErrorIs(t, err, leveldoc.ErrMalformed)
		})
	}
}

func TestBuild_MissionErrors(t *testing.T) {
	cat := loadCatalog(t)
	for name, missions := range map[string]string{
		"no main":        `<mission type="kill_everybody"/>`,
		"unknown target": `<mission type="kill_targets" main="true"><target>Boss</target></mission>`,
		"unknown kind":   `<mission type="dance" main="true"/>`,
	} {
		t.Run(name, func(t *testing.T) {
			src := `<level name="x" width="3" height="3"><missions>` + missions + `</missions></level>`
			doc, err := leveldoc.Parse(strings.NewReader(src))
			require.NoError(t, err)
			_, err = doc.Build(cat, opts(), deps())
			assert.ErrorIs(t, err, leveldoc.ErrMalformed)
		})
	}
}
