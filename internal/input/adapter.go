package input

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/grid"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft  Button = 1
	ButtonRight Button = 3
)

// Request is something only the host can do, returned from a menu choice.
type Request int

const (
	RequestNone Request = iota
	RequestSave
	RequestSuspend
)

// GoldStep is the amount moved by one gold entry of the trade menu.
const GoldStep = 10

// ErrNoMenu is returned by Choose when no menu is open or the entry is out
// of range or disabled.
var ErrNoMenu = errors.New("input: no such menu entry")

// Adapter turns pointer events on the map into level operations. Menus are
// driven through Choose. Validation errors from the level are returned
// unchanged so the host can show them.
type Adapter struct {
	level    *level.Level
	menus    Stack
	tileSize int
	logger   *zap.Logger

	hover    grid.Pos
	hovering bool
	dragFrom *grid.Pos
	target   grid.Pos
}

// NewAdapter creates an Adapter for l with tiles of tileSize pixels.
//
// Precondition: l and logger must be non-nil; tileSize > 0.
func NewAdapter(l *level.Level, tileSize int, logger *zap.Logger) *Adapter {
	if l == nil || logger == nil || tileSize <= 0 {
		panic("input: NewAdapter requires a level, a logger and a positive tile size")
	}
	return &Adapter{level: l, tileSize: tileSize, logger: logger}
}

// Menus returns the menu stack.
func (a *Adapter) Menus() *Stack { return &a.menus }

// Hover returns the tile under the pointer.
func (a *Adapter) Hover() (grid.Pos, bool) { return a.hover, a.hovering }

func (a *Adapter) tile(px, py int) (grid.Pos, bool) {
	if px < 0 || py < 0 {
		return grid.Pos{}, false
	}
	p := grid.Pos{X: px / a.tileSize, Y: py / a.tileSize}
	return p, a.level.Map.Size.InBounds(p)
}

// Motion records the hovered tile.
func (a *Adapter) Motion(px, py int) {
	a.hover, a.hovering = a.tile(px, py)
}

// ButtonDown starts dragging a player during initialization.
func (a *Adapter) ButtonDown(b Button, px, py int) {
	pos, ok := a.tile(px, py)
	if !ok || b != ButtonLeft || a.level.Phase() != level.PhaseInitialization || a.menus.Blocking() {
		return
	}
	if _, isPlayer := a.level.EntityAt(pos).(*entity.Player); isPlayer {
		a.dragFrom = &pos
	}
}

// Click handles a released button over the map.
func (a *Adapter) Click(b Button, px, py int) error {
	if _, pending := a.level.PendingDialog(); pending {
		if b == ButtonLeft {
			a.level.CloseDialog()
		}
		return nil
	}
	if a.level.Phase().Terminal() {
		return nil
	}
	pos, ok := a.tile(px, py)
	if !ok {
		return nil
	}
	switch b {
	case ButtonLeft:
		if a.menus.Blocking() {
			return nil
		}
		if a.level.Phase() == level.PhaseInitialization {
			return a.leftInit(pos)
		}
		return a.leftInProgress(pos)
	case ButtonRight:
		return a.right(pos)
	}
	return nil
}

func (a *Adapter) leftInit(pos grid.Pos) error {
	if from := a.dragFrom; from != nil {
		a.dragFrom = nil
		if *from != pos {
			return a.level.SwapPlacement(*from, pos)
		}
		return nil
	}
	if a.level.EntityAt(pos) == nil {
		a.menus.Open(a.mainMenu())
	}
	return nil
}

func (a *Adapter) leftInProgress(pos grid.Pos) error {
	l := a.level
	switch l.Stage() {
	case level.StageIdle:
		switch e := l.EntityAt(pos).(type) {
		case *entity.Player:
			return l.SelectPlayer(e)
		case nil:
			l.ClearPreview()
			a.menus.Open(a.mainMenu())
		}
		return nil
	case level.StageChoosingMove:
		if other, ok := l.EntityAt(pos).(*entity.Player); ok && other != l.Selected {
			return l.SelectPlayer(other)
		}
		if err := l.MovePlayer(pos); err != nil {
			return err
		}
		if l.Selected != nil {
			a.menus.Open(a.characterMenu())
		}
		return nil
	case level.StageChoosingAttack:
		if err := l.Attack(pos); err != nil {
			return err
		}
		a.menus.Clear()
		return nil
	case level.StageChoosingInteraction:
		actions := l.Actions(pos)
		switch len(actions) {
		case 0:
			return level.ErrNoTarget
		case 1:
			return a.interact(pos, actions[0])
		}
		a.target = pos
		m := &Menu{Kind: MenuActions, Title: "Actions"}
		for _, act := range actions {
			m.Entries = append(m.Entries, Entry{Label: string(act), Command: CmdAction, Arg: string(act)})
		}
		a.menus.Open(m)
		return nil
	case level.StageChoosingTeleport:
		if err := l.ChooseTeleportDestination(pos); err != nil {
			return err
		}
		a.menus.Clear()
		return nil
	}
	return nil
}

// interact runs action on pos and opens the follow-up menu.
func (a *Adapter) interact(pos grid.Pos, action entity.Action) error {
	l := a.level
	if err := l.Interact(pos, action); err != nil {
		return err
	}
	a.afterInteraction()
	return nil
}

func (a *Adapter) afterInteraction() {
	l := a.level
	if a.menus.Active() != nil && a.menus.Active().Kind == MenuActions {
		a.menus.Close()
	}
	switch l.Stage() {
	case level.StageTrading:
		a.menus.Open(a.tradeMenu())
	case level.StageShopping:
		a.menus.Open(a.shopMenu())
	case level.StageChoosingTeleport:
		a.menus.Reduce()
	case level.StageMenu:
		a.menus.Restore()
	default:
		a.menus.Clear()
	}
}

func (a *Adapter) right(pos grid.Pos) error {
	l := a.level
	if l.Phase() == level.PhaseInitialization {
		a.dragFrom = nil
		a.menus.Close()
		return nil
	}
	if l.Selected == nil {
		if a.menus.Active() != nil {
			a.menus.Close()
			return nil
		}
		if _, isFoe := l.EntityAt(pos).(*entity.Foe); isFoe {
			return l.PreviewRange(pos)
		}
		l.ClearPreview()
		return nil
	}
	if m := a.menus.Active(); m != nil && m.Visible {
		switch m.Kind {
		case MenuInventory, MenuEquipment, MenuItem, MenuActions:
			a.menus.Close()
			return nil
		case MenuTrade:
			return a.closeTrade()
		case MenuShop:
			return a.closeShop()
		}
	}
	switch l.Stage() {
	case level.StageChoosingAttack, level.StageChoosingInteraction:
		if err := l.Back(); err != nil {
			return err
		}
		a.menus.Restore()
		return nil
	case level.StageChoosingTeleport:
		return nil
	}
	if err := l.CancelMove(); err != nil {
		return err
	}
	a.menus.Clear()
	return nil
}

func (a *Adapter) closeTrade() error {
	if err := a.level.CloseTrade(); err != nil {
		return err
	}
	a.menus.Close()
	a.menus.Restore()
	return nil
}

func (a *Adapter) closeShop() error {
	if err := a.level.CloseShop(); err != nil {
		return err
	}
	a.menus.Clear()
	return nil
}

// Choose activates entry index of the active menu.
func (a *Adapter) Choose(index int) (Request, error) {
	m := a.menus.Active()
	if m == nil || !m.Visible || index < 0 || index >= len(m.Entries) || m.Entries[index].Disabled {
		return RequestNone, ErrNoMenu
	}
	e := m.Entries[index]
	a.logger.Debug("menu choice", zap.String("menu", string(m.Kind)), zap.String("command", string(e.Command)), zap.String("arg", e.Arg))
	l := a.level

	switch e.Command {
	case CmdStart:
		a.menus.Clear()
		return RequestNone, l.StartGame()
	case CmdEndTurn:
		if err := l.EndCampTurn(); err != nil {
			return RequestNone, err
		}
		a.menus.Clear()
	case CmdSave:
		a.menus.Clear()
		return RequestSave, nil
	case CmdSuspend:
		a.menus.Clear()
		return RequestSuspend, nil
	case CmdAttack:
		if err := l.PrepareAttack(); err != nil {
			return RequestNone, err
		}
		a.menus.Reduce()
	case CmdInteract:
		if err := l.PrepareInteract(); err != nil {
			return RequestNone, err
		}
		a.menus.Reduce()
	case CmdWait:
		if err := l.Wait(); err != nil {
			return RequestNone, err
		}
		a.menus.Clear()
	case CmdAction:
		return RequestNone, a.interact(a.target, entity.Action(e.Arg))
	case CmdInventory:
		a.menus.Open(a.inventoryMenu())
	case CmdEquipment:
		a.menus.Open(a.equipmentMenu())
	case CmdSelectItem:
		return RequestNone, a.selectItem(e.Arg)
	case CmdUse:
		if err := l.UseItem(l.SelectedItem); err != nil {
			return RequestNone, err
		}
		a.menus.Clear()
	case CmdEquip:
		if _, err := l.Equip(l.SelectedItem); err != nil {
			return RequestNone, err
		}
		a.refreshItemMenus()
	case CmdUnequip:
		if err := l.Unequip(item.Slot(e.Arg)); err != nil {
			return RequestNone, err
		}
		a.refreshItemMenus()
	case CmdThrow:
		if err := l.Throw(l.SelectedItem); err != nil {
			return RequestNone, err
		}
		a.refreshItemMenus()
	case CmdGive, CmdTake:
		return RequestNone, a.trade(e)
	case CmdBuy:
		i, err := strconv.Atoi(e.Arg)
		if err != nil {
			return RequestNone, fmt.Errorf("input: bad stock index %q: %w", e.Arg, err)
		}
		if err := l.Buy(i); err != nil {
			return RequestNone, err
		}
		a.menus.Replace(a.shopMenu())
	case CmdSell:
		it, ok := l.Selected.Inventory.Find(e.Arg)
		if !ok {
			return RequestNone, ErrNoMenu
		}
		if err := l.Sell(it); err != nil {
			return RequestNone, err
		}
		a.menus.Replace(a.shopMenu())
	case CmdClose:
		switch m.Kind {
		case MenuTrade:
			return RequestNone, a.closeTrade()
		case MenuShop:
			return RequestNone, a.closeShop()
		}
		a.menus.Close()
	default:
		return RequestNone, ErrNoMenu
	}
	return RequestNone, nil
}

func (a *Adapter) selectItem(id string) error {
	p := a.level.Selected
	if p == nil {
		return level.ErrNoSelection
	}
	it, ok := p.Inventory.Find(id)
	equipped := false
	if !ok {
		for _, e := range p.Equipment.Items() {
			if e.ID == id {
				it, ok, equipped = e, true, true
			}
		}
	}
	if !ok {
		return ErrNoMenu
	}
	if err := a.level.SelectItem(it); err != nil {
		return err
	}
	m := &Menu{Kind: MenuItem, Title: it.Name}
	if equipped {
		m.Entries = append(m.Entries, Entry{Label: "Unequip", Command: CmdUnequip, Arg: string(it.Equip.Slot)})
	} else {
		m.Entries = append(m.Entries,
			Entry{Label: "Use", Command: CmdUse, Disabled: !it.IsConsumable()},
			Entry{Label: "Equip", Command: CmdEquip, Disabled: !it.Wearable()},
			Entry{Label: "Throw", Command: CmdThrow},
		)
	}
	m.Entries = append(m.Entries, Entry{Label: "Close", Command: CmdClose})
	a.menus.Open(m)
	return nil
}

// refreshItemMenus closes the item menu and rebuilds the list it came from.
func (a *Adapter) refreshItemMenus() {
	if a.menus.Active() != nil && a.menus.Active().Kind == MenuItem {
		a.menus.Close()
	}
	if m := a.menus.Active(); m != nil {
		switch m.Kind {
		case MenuInventory:
			a.menus.Replace(a.inventoryMenu())
		case MenuEquipment:
			a.menus.Replace(a.equipmentMenu())
		}
	}
}

func (a *Adapter) trade(e Entry) error {
	l := a.level
	from, to := l.Selected, l.TradePartner()
	if e.Command == CmdTake {
		from, to = to, from
	}
	if from == nil || to == nil {
		return level.ErrNotTradePartner
	}
	if e.Arg == "" {
		if err := l.TradeGold(from, to, GoldStep); err != nil {
			return err
		}
	} else {
		it, ok := from.Inventory.Find(e.Arg)
		if !ok {
			return ErrNoMenu
		}
		if err := l.TradeItem(it, from, to); err != nil {
			return err
		}
	}
	a.menus.Replace(a.tradeMenu())
	return nil
}

func (a *Adapter) mainMenu() *Menu {
	l := a.level
	m := &Menu{Kind: MenuMain, Title: l.Name}
	if l.Phase() == level.PhaseInitialization {
		m.Entries = append(m.Entries, Entry{Label: "Start", Command: CmdStart})
	} else {
		m.Entries = append(m.Entries, Entry{Label: "End turn", Command: CmdEndTurn})
	}
	return withEntries(m,
		Entry{Label: "Save", Command: CmdSave},
		Entry{Label: "Suspend", Command: CmdSuspend},
		Entry{Label: "Close", Command: CmdClose},
	)
}

func (a *Adapter) characterMenu() *Menu {
	p := a.level.Selected
	return &Menu{Kind: MenuCharacter, Title: p.Name, Entries: []Entry{
		{Label: "Attack", Command: CmdAttack},
		{Label: "Interact", Command: CmdInteract},
		{Label: "Inventory", Command: CmdInventory},
		{Label: "Equipment", Command: CmdEquipment},
		{Label: "Wait", Command: CmdWait},
	}}
}

func (a *Adapter) inventoryMenu() *Menu {
	p := a.level.Selected
	m := &Menu{Kind: MenuInventory, Title: "Inventory"}
	for _, it := range p.Inventory.Items() {
		m.Entries = append(m.Entries, Entry{Label: it.Name, Command: CmdSelectItem, Arg: it.ID})
	}
	return withEntries(m, Entry{Label: "Close", Command: CmdClose})
}

func (a *Adapter) equipmentMenu() *Menu {
	p := a.level.Selected
	m := &Menu{Kind: MenuEquipment, Title: "Equipment"}
	for _, it := range p.Equipment.Items() {
		m.Entries = append(m.Entries, Entry{Label: it.Name, Command: CmdSelectItem, Arg: it.ID})
	}
	return withEntries(m, Entry{Label: "Close", Command: CmdClose})
}

func (a *Adapter) tradeMenu() *Menu {
	l := a.level
	p, q := l.Selected, l.TradePartner()
	m := &Menu{Kind: MenuTrade, Title: fmt.Sprintf("%s / %s", p.Name, q.Name)}
	for _, it := range p.Inventory.Items() {
		m.Entries = append(m.Entries, Entry{Label: "Give " + it.Name, Command: CmdGive, Arg: it.ID})
	}
	for _, it := range q.Inventory.Items() {
		m.Entries = append(m.Entries, Entry{Label: "Take " + it.Name, Command: CmdTake, Arg: it.ID})
	}
	return withEntries(m,
		Entry{Label: fmt.Sprintf("Give %d gold", GoldStep), Command: CmdGive, Disabled: p.Gold() < GoldStep},
		Entry{Label: fmt.Sprintf("Take %d gold", GoldStep), Command: CmdTake, Disabled: q.Gold() < GoldStep},
		Entry{Label: "Close", Command: CmdClose},
	)
}

func (a *Adapter) shopMenu() *Menu {
	l := a.level
	shop, p := l.ActiveShop(), l.Selected
	m := &Menu{Kind: MenuShop, Title: shop.Name}
	for i, s := range shop.Stock {
		m.Entries = append(m.Entries, Entry{
			Label:    fmt.Sprintf("Buy %s (%d gold, %d left)", s.Item.Name, s.Price, s.Quantity),
			Command:  CmdBuy,
			Arg:      strconv.Itoa(i),
			Disabled: s.Quantity <= 0 || p.Gold() < s.Price,
		})
	}
	for _, it := range p.Inventory.Items() {
		m.Entries = append(m.Entries, Entry{
			Label:    fmt.Sprintf("Sell %s (%d gold)", it.Name, it.ResellPrice),
			Command:  CmdSell,
			Arg:      it.ID,
			Disabled: it.ResellPrice <= 0,
		})
	}
	return withEntries(m, Entry{Label: "Close", Command: CmdClose})
}

func withEntries(m *Menu, entries ...Entry) *Menu {
	m.Entries = append(m.Entries, entries...)
	return m
}
