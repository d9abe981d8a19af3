package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/config"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/catalog"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/combat"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/leveldoc"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/save"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/observability"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/scripting"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/storage/file"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/storage/postgres"
)

var levelFile = regexp.MustCompile(`level_(\d+)\.xml$`)

// app holds what every subcommand shares.
type app struct {
	cfg     config.Config
	options config.Options
	logger  *zap.Logger
	roller  *dice.Roller
	catalog *catalog.Catalog
	scripts *scripting.Manager
	closers []func()
}

// newApp loads the configuration and builds the logger, the dice roller and
// the script manager. The catalog is loaded only when withCatalog is set.
func newApp(withCatalog bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	opts, err := config.LoadOptions(cfg.Content.Options)
	if err != nil {
		return nil, err
	}

	src := dice.NewCryptoSource()
	if seed != 0 {
		src = dice.NewSeededSource(seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	a := &app{cfg: cfg, options: opts, logger: logger, roller: roller}
	a.scripts = scripting.NewManager(roller, logger)
	a.closers = append(a.closers, a.scripts.Close, func() { _ = logger.Sync() })
	if cfg.Content.Scripts != "" {
		if err := a.scripts.LoadShared(cfg.Content.Scripts, cfg.Engine.ScriptInstructionLimit); err != nil {
			a.close()
			return nil, err
		}
	}

	if withCatalog {
		start := time.Now()
		cat, err := catalog.LoadDirectory(cfg.Content.Root)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		a.catalog = cat
		logger.Info("catalog loaded",
			zap.String("root", cfg.Content.Root),
			zap.Int("items", cat.Items.Len()),
			zap.Int("foes", cat.Foes.Len()),
			zap.Int("characters", cat.Characters.Len()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// levelConfig converts the engine section into level tunables. A saved
// options document overrides the animation length through its move speed.
func levelConfig(e config.EngineConfig, opts config.Options, haveOptions bool) level.Config {
	fpt := e.FramesPerTile
	if haveOptions {
		fpt = opts.FramesPerTile()
	}
	return level.Config{
		Combat: combat.Config{
			XPDivisor:     e.XPDivisor,
			LevelUpFactor: e.LevelUpFactor,
			MaxLevel:      e.MaxLevel,
		},
		DiarySize:     e.DiarySize,
		FramesPerTile: fpt,
	}
}

func (a *app) levelConfig() level.Config {
	_, err := os.Stat(a.cfg.Content.Options)
	return levelConfig(a.cfg.Engine, a.options, err == nil)
}

func (a *app) deps(index int) level.Deps {
	d := level.Deps{
		Logger:  a.logger,
		Roller:  a.roller,
		Scripts: a.scripts.Hooks(index),
	}
	if a.catalog != nil {
		d.Alterations = a.catalog.Alterations
	}
	return d
}

// levelIndex derives the index from a level_<n>.xml file name, or returns
// fallback.
func levelIndex(path string, fallback int) int {
	m := levelFile.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return n
}

// scriptDir resolves the script directory of a level document relative to
// the document itself.
func scriptDir(levelPath string, doc *leveldoc.Document) string {
	dir := doc.ScriptDir()
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(filepath.Dir(levelPath), dir)
}

// openLevel parses, scripts and builds the level at path, then runs its
// before_init sequence.
func (a *app) openLevel(path string, index int) (*level.Level, error) {
	doc, err := leveldoc.ParseFile(path)
	if err != nil {
		return nil, err
	}
	dir := scriptDir(path, doc)
	if dir != "" {
		if err := a.scripts.LoadLevel(index, dir, a.cfg.Engine.ScriptInstructionLimit); err != nil {
			return nil, err
		}
	}
	l, err := doc.Build(a.catalog, leveldoc.Options{
		Index:         index,
		InventorySize: a.cfg.Engine.InventorySize,
		Config:        a.levelConfig(),
	}, a.deps(index))
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", path, err)
	}
	l.ScriptDir = dir
	a.scripts.Bind(index, l)
	l.Enter()
	a.logger.Info("level opened", observability.LevelFields(l.Index, l.Name)...)
	return l, nil
}

// loadSlot restores a saved level and rebinds its scripts.
func (a *app) loadSlot(ctx context.Context, st save.Store, slot int) (*level.Level, error) {
	data, err := st.Get(ctx, slot)
	if err != nil {
		return nil, err
	}
	doc, err := save.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	index := doc.Level.Index
	if doc.Level.ScriptDir != "" {
		err := a.scripts.LoadLevel(index, doc.Level.ScriptDir, a.cfg.Engine.ScriptInstructionLimit)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err != nil {
			a.logger.Warn("level scripts missing", zap.String("dir", doc.Level.ScriptDir))
		}
	}
	l, err := save.LoadSlot(ctx, st, slot, a.levelConfig(), a.deps(index))
	if err != nil {
		return nil, err
	}
	a.scripts.Bind(index, l)
	return l, nil
}

// openStore opens the configured save backend.
func (a *app) openStore(ctx context.Context) (save.Store, error) {
	switch a.cfg.Saves.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, a.cfg.Database, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		return postgres.NewSaveRepository(pool), nil
	default:
		return file.NewStore(a.cfg.Saves.Dir, a.logger)
	}
}

// checkSlot validates a slot number against the configured slot count.
func (a *app) checkSlot(slot int) error {
	if slot < 0 || slot >= a.cfg.Saves.Slots {
		return fmt.Errorf("slot %d out of range [0, %d)", slot, a.cfg.Saves.Slots)
	}
	return nil
}
