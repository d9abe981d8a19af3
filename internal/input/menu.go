// Package input translates pointer events into level operations and keeps the
// stack of popup menus the user is navigating.
package input

// MenuKind identifies what a menu is for.
type MenuKind string

const (
	MenuMain      MenuKind = "main"
	MenuCharacter MenuKind = "character"
	MenuActions   MenuKind = "actions"
	MenuInventory MenuKind = "inventory"
	MenuEquipment MenuKind = "equipment"
	MenuItem      MenuKind = "item"
	MenuTrade     MenuKind = "trade"
	MenuShop      MenuKind = "shop"
)

// Command is what choosing a menu entry does.
type Command string

const (
	CmdAttack      Command = "attack"
	CmdInteract    Command = "interact"
	CmdInventory   Command = "inventory"
	CmdEquipment   Command = "equipment"
	CmdWait        Command = "wait"
	CmdAction      Command = "action"
	CmdSelectItem  Command = "select_item"
	CmdUse         Command = "use"
	CmdEquip       Command = "equip"
	CmdUnequip     Command = "unequip"
	CmdThrow       Command = "throw"
	CmdGive        Command = "give"
	CmdTake        Command = "take"
	CmdBuy         Command = "buy"
	CmdSell        Command = "sell"
	CmdClose       Command = "close"
	CmdStart       Command = "start"
	CmdEndTurn     Command = "end_turn"
	CmdSave        Command = "save"
	CmdSuspend     Command = "suspend"
	CmdCloseDialog Command = "close_dialog"
)

// Entry is one menu button. Arg carries the command operand: an action name,
// an item id, a slot or a stock index.
type Entry struct {
	Label    string
	Command  Command
	Arg      string
	Disabled bool
}

// Menu is one popup.
type Menu struct {
	Kind    MenuKind
	Title   string
	Entries []Entry
	Visible bool
}

// Stack is the stack of open menus. The top menu is the active one.
// It is not safe for concurrent use.
type Stack struct {
	menus []*Menu
}

// Open pushes m and makes it visible.
//
// Precondition: m must not be nil.
func (s *Stack) Open(m *Menu) {
	if m == nil {
		panic("input: Open called with nil menu")
	}
	m.Visible = true
	s.menus = append(s.menus, m)
}

// Close pops the active menu, making the previous one active again.
// Closing an empty stack is a no-op returning nil.
func (s *Stack) Close() *Menu {
	if len(s.menus) == 0 {
		return nil
	}
	top := s.menus[len(s.menus)-1]
	s.menus = s.menus[:len(s.menus)-1]
	if prev := s.Active(); prev != nil {
		prev.Visible = true
	}
	return top
}

// Reduce hides the active menu without closing it, so the map underneath
// can be clicked.
func (s *Stack) Reduce() {
	if m := s.Active(); m != nil {
		m.Visible = false
	}
}

// Restore shows the active menu again.
func (s *Stack) Restore() {
	if m := s.Active(); m != nil {
		m.Visible = true
	}
}

// Replace swaps the active menu for m, or opens m on an empty stack.
func (s *Stack) Replace(m *Menu) {
	s.Close()
	s.Open(m)
}

// Active returns the top menu, or nil.
func (s *Stack) Active() *Menu {
	if len(s.menus) == 0 {
		return nil
	}
	return s.menus[len(s.menus)-1]
}

// Blocking reports whether a visible menu captures clicks.
func (s *Stack) Blocking() bool {
	m := s.Active()
	return m != nil && m.Visible
}

// Len returns the number of open menus.
func (s *Stack) Len() int { return len(s.menus) }

// Clear closes every menu.
func (s *Stack) Clear() { s.menus = nil }
