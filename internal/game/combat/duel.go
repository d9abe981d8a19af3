package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/item"
)

// Strike records one strike of a duel.
type Strike struct {
	Parried bool
	Raw     int
	Dealt   int
	Killed  bool
	// Effects names the side effects applied to the target.
	Effects []string
}

// Outcome summarizes a duel.
type Outcome struct {
	Strikes      []Strike
	XP           int
	Killed       bool
	LevelsGained int
}

// Remover takes a dead entity out of the level.
type Remover func(entity.Entity)

// Duel makes attacker strike target up to Strikes() times. The loop stops as
// soon as the target dies; remove is then called exactly once.
//
// Precondition: attacker is a movable; target is alive.
// Postcondition: 0 <= target hp <= hp before; attacker level never decreases.
func (r *Resolver) Duel(attacker entity.Entity, target entity.Target, remove Remover) Outcome {
	atk, ok := entity.AsMovable(attacker)
	if !ok {
		panic(fmt.Sprintf("combat: %s cannot attack", attacker.Kind()))
	}
	kind := atk.StrikeKind()
	weapon := atk.Equipment.Weapon()
	var keywords []string
	if foe, ok := target.(*entity.Foe); ok {
		keywords = foe.Keywords
	}

	var out Outcome
	for i := 0; i < atk.Strikes(); i++ {
		st := Strike{}
		if ch, ok := entity.AsCharacter(target); ok && r.roller.Percent("parry", ch.ParryRate()) {
			st.Parried = true
			if sh := ch.Equipment.Shield(); sh != nil {
				sh.Wear()
			}
			r.diary.Addf("%s parried %s's attack", target.Core().Name, atk.Name)
			out.Strikes = append(out.Strikes, st)
			continue
		}

		st.Raw = atk.Power()
		if weapon != nil {
			st.Raw += weapon.StrikeBonusAgainst(keywords)
		}
		before := target.Vital().HP
		after := entity.Attacked(target, st.Raw, kind)
		st.Dealt = before - after
		xp := st.Dealt / r.cfg.XPDivisor
		r.diary.Addf("%s dealt %d damage to %s", atk.Name, st.Dealt, target.Core().Name)

		if after == 0 {
			st.Killed = true
			out.Killed = true
			if foe, ok := target.(*entity.Foe); ok {
				xp += foe.XPGain
			}
			r.diary.Addf("%s died!", target.Core().Name)
			r.logger.Info("entity died",
				zap.String("attacker", atk.Name),
				zap.String("target", target.Core().Name),
			)
			remove(target)
			if _, isPlayer := attacker.(*entity.Player); isPlayer {
				if foe, ok := target.(*entity.Foe); ok {
					r.dropLoot(atk, foe)
				}
			}
		} else if weapon != nil && weapon.Weapon != nil && !weapon.Broken() {
			st.Effects = r.applySideEffects(atk, target, weapon)
		}

		if weapon != nil {
			weapon.Wear()
		}
		atk.EarnXP(xp)
		out.XP += xp
		out.Strikes = append(out.Strikes, st)
		r.logger.Debug("strike",
			zap.String("attacker", atk.Name),
			zap.String("target", target.Core().Name),
			zap.Int("raw", st.Raw),
			zap.Int("dealt", st.Dealt),
			zap.Int("xp", xp),
		)
		if st.Killed {
			break
		}
	}

	if out.XP > 0 {
		r.diary.Addf("%s earned %d XP", atk.Name, out.XP)
	}
	if p, ok := attacker.(*entity.Player); ok {
		if n := p.LevelUp(r.cfg.LevelUpFactor, r.cfg.MaxLevel); n > 0 {
			out.LevelsGained = n
			r.diary.Addf("%s gained a level! (level %d)", p.Name, p.Level)
			r.logger.Info("level up", zap.String("player", p.Name), zap.Int("level", p.Level))
		}
	}
	return out
}

func (r *Resolver) applySideEffects(atk *entity.Movable, target entity.Target, weapon *item.Item) []string {
	tm, ok := entity.AsMovable(target)
	if !ok {
		return nil
	}
	var applied []string
	for _, se := range weapon.Weapon.SideEffects {
		chance := se.Probability
		if se.Effect.Kind == item.EffectAlteration {
			chance += atk.ChanceBoost(se.Effect.Alteration)
		}
		if !r.roller.Percent("side effect", chance) {
			continue
		}
		if msg, ok := r.ApplyEffect(tm, se.Effect); ok {
			r.diary.Add(msg)
			applied = append(applied, effectName(se.Effect))
		}
	}
	return applied
}

func (r *Resolver) dropLoot(atk *entity.Movable, foe *entity.Foe) {
	for _, entry := range foe.Loot {
		if entry.Item == nil || !r.roller.Percent("loot", entry.Probability) {
			continue
		}
		if entry.Item.Kind == item.KindGold {
			atk.Earn(entry.Item.Gold)
			r.diary.Addf("%s dropped %d gold", foe.Name, entry.Item.Gold)
			continue
		}
		if err := atk.Inventory.Set(entry.Item); err != nil {
			r.diary.Addf("%s dropped %s but %s's %s", foe.Name, entry.Item.Name, atk.Name, err)
			continue
		}
		r.diary.Addf("%s dropped %s", foe.Name, entry.Item.Name)
	}
	foe.Loot = nil
}
