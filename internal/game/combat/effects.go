package combat

import (
	"fmt"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// ApplyEffect applies e to m and returns the diary line describing it. ok is
// false when the effect changed nothing (healing at full health, unknown
// alteration).
func (r *Resolver) ApplyEffect(m *entity.Movable, e item.Effect) (msg string, ok bool) {
	switch e.Kind {
	case item.EffectHeal:
		healed := m.Heal(e.Power)
		if healed == 0 {
			return fmt.Sprintf("%s is already at full health", m.Name), false
		}
		return fmt.Sprintf("%s recovered %d HP", m.Name, healed), true
	case item.EffectXP:
		m.EarnXP(e.Power)
		return fmt.Sprintf("%s earned %d XP", m.Name, e.Power), true
	case item.EffectAlteration:
		a, ok := r.Alteration(e)
		if !ok {
			return fmt.Sprintf("unknown alteration %q", e.Alteration), false
		}
		m.Alterations.Apply(a)
		return fmt.Sprintf("%s is now affected by %s", m.Name, a.Name), true
	}
	panic(fmt.Sprintf("combat: unknown effect kind %q", e.Kind))
}

// Alteration builds the alteration an effect grants. Power and duration on
// the effect override the definition defaults when set.
func (r *Resolver) Alteration(e item.Effect) (*alteration.Alteration, bool) {
	var a *alteration.Alteration
	if r.alterations != nil {
		if def, ok := r.alterations.Get(e.Alteration); ok {
			a = def.New()
		}
	}
	if a == nil {
		k := alteration.Kind(e.Alteration)
		if !alteration.ValidKind(k) {
			return nil, false
		}
		a = &alteration.Alteration{Name: e.Alteration, Kind: k, Duration: 1}
	}
	if e.Power > 0 {
		a.Power = e.Power
	}
	if e.Duration > 0 {
		a.Duration = e.Duration
	}
	return a, true
}

func effectName(e item.Effect) string {
	if e.Kind == item.EffectAlteration {
		return e.Alteration
	}
	return string(e.Kind)
}
