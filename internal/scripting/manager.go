package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/dice"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
)

// sharedKey is the reserved key for scripts loaded via LoadShared.
// CallHook falls back to this VM when the level has none.
const sharedKey = -1

// Engine is the slice of a level that scripts may drive.
type Engine interface {
	AddDiary(msg string)
	GiveGold(name string, n int) error
	HealPlayer(name string, n int) error
	ShowDialog(d level.Dialog)
	Turn() int
}

// vm is one sandboxed state with the level it is bound to.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	engine Engine
}

// Manager owns one sandboxed LState per level and dispatches hooks.
//
// Manager is safe for concurrent use; calls into the same VM are serialized.
type Manager struct {
	mu     sync.RWMutex
	vms    map[int]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VM loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil || logger == nil {
		panic("scripting: NewManager requires a roller and a logger")
	}
	return &Manager{
		vms:    make(map[int]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadLevel creates a sandboxed VM for the level with the given index,
// registers the engine table, then executes every *.lua file in scriptDir in
// lexicographic order.
//
// Precondition: index >= 0; scriptDir must be a readable directory.
// Postcondition: the VM replaces any previous one for index; returns error on
// a missing directory or a Lua load failure.
func (m *Manager) LoadLevel(index int, scriptDir string, instLimit int) error {
	if index < 0 {
		panic("scripting: LoadLevel called with negative index")
	}
	return m.loadInto(index, scriptDir, instLimit)
}

// LoadShared creates the VM used by levels that have no scripts of their own.
//
// Precondition: scriptDir must be a readable directory.
func (m *Manager) LoadShared(scriptDir string, instLimit int) error {
	return m.loadInto(sharedKey, scriptDir, instLimit)
}

func (m *Manager) loadInto(key int, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for level %d: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	v := &vm{L: NewSandboxedState(), limit: instLimit}
	m.registerModules(v)
	for _, path := range luaFiles {
		release := arm(v.L, v.limit)
		err := v.L.DoFile(path)
		release()
		if err != nil {
			v.L.Close()
			return fmt.Errorf("scripting: loading %q for level %d: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = v
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripts loaded", zap.Int("level", key), zap.Int("files", len(luaFiles)))
	return nil
}

// Bind attaches the engine the scripts of level index drive. Hooks called
// before Bind see a no-op engine.
func (m *Manager) Bind(index int, e Engine) {
	if v := m.lookup(index); v != nil {
		v.mu.Lock()
		v.engine = e
		v.mu.Unlock()
	}
}

func (m *Manager) lookup(index int) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[index]; ok {
		return v
	}
	return m.vms[sharedKey]
}

// CallHook calls the named Lua global function in the VM of level index,
// falling back to the shared VM. Returns (LNil, nil) if the hook is not
// defined or no VM exists. Lua runtime errors, including an exhausted
// instruction budget, are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(index int, hook string, args ...lua.LValue) (lua.LValue, error) {
	v := m.lookup(index)
	if v == nil {
		m.logger.Debug("no scripts for level", zap.Int("level", index), zap.String("hook", hook))
		return lua.LNil, nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}
	release := arm(v.L, v.limit)
	defer release()
	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("lua runtime error",
			zap.Int("level", index),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Hooks returns the level.Scripts view of the VM for level index.
func (m *Manager) Hooks(index int) level.Scripts {
	return &hooks{m: m, index: index}
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[int]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}

type hooks struct {
	m     *Manager
	index int
}

// Call implements level.Scripts.
func (h *hooks) Call(hook level.Hook, args ...any) error {
	lv := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		v, err := toLua(a)
		if err != nil {
			return fmt.Errorf("scripting: hook %s: %w", hook, err)
		}
		lv = append(lv, v)
	}
	_, err := h.m.CallHook(h.index, string(hook), lv...)
	return err
}

func toLua(a any) (lua.LValue, error) {
	switch v := a.(type) {
	case nil:
		return lua.LNil, nil
	case int:
		return lua.LNumber(v), nil
	case float64:
		return lua.LNumber(v), nil
	case string:
		return lua.LString(v), nil
	case bool:
		return lua.LBool(v), nil
	case fmt.Stringer:
		return lua.LString(v.String()), nil
	}
	return nil, fmt.Errorf("unsupported argument type %T", a)
}
