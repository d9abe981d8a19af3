package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
)

// registerModules installs the engine table into the VM:
//
//	engine.log.{debug,info,warn,error}(msg)
//	engine.dice.roll(expr) -> {total, modifier, dice}
//	engine.diary(msg)
//	engine.dialog(title, line...)
//	engine.give_gold(name, n) -> ok
//	engine.heal(name, n) -> ok
//	engine.turn() -> n
//
// Functions that touch the level are no-ops until Bind is called.
func (m *Manager) registerModules(v *vm) {
	L := v.L
	engine := L.NewTable()

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	diceTbl := L.NewTable()
	L.SetField(diceTbl, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %v", err)
			return 0
		}
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(res.Total()))
		L.SetField(t, "modifier", lua.LNumber(res.Modifier))
		dice := L.NewTable()
		for _, d := range res.Dice {
			dice.Append(lua.LNumber(d))
		}
		L.SetField(t, "dice", dice)
		L.Push(t)
		return 1
	}))
	L.SetField(engine, "dice", diceTbl)

	L.SetField(engine, "diary", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if v.engine != nil {
			v.engine.AddDiary(msg)
		}
		return 0
	}))
	L.SetField(engine, "dialog", L.NewFunction(func(L *lua.LState) int {
		d := level.Dialog{Title: L.CheckString(1)}
		for i := 2; i <= L.GetTop(); i++ {
			d.Lines = append(d.Lines, L.CheckString(i))
		}
		if v.engine != nil {
			v.engine.ShowDialog(d)
		}
		return 0
	}))
	L.SetField(engine, "give_gold", L.NewFunction(func(L *lua.LState) int {
		name, n := L.CheckString(1), L.CheckInt(2)
		ok := false
		if v.engine != nil {
			ok = v.engine.GiveGold(name, n) == nil
		}
		L.Push(lua.LBool(ok))
		return 1
	}))
	L.SetField(engine, "heal", L.NewFunction(func(L *lua.LState) int {
		name, n := L.CheckString(1), L.CheckInt(2)
		ok := false
		if v.engine != nil {
			ok = v.engine.HealPlayer(name, n) == nil
		}
		L.Push(lua.LBool(ok))
		return 1
	}))
	L.SetField(engine, "turn", L.NewFunction(func(L *lua.LState) int {
		turn := 0
		if v.engine != nil {
			turn = v.engine.Turn()
		}
		L.Push(lua.LNumber(turn))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
