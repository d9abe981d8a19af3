package main

import "github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/entity"

type playerView struct {
	name  string
	level int
	hp    int
	hpMax int
	gold  int
	note  string
}

func views(ps []*entity.Player) []*playerView {
	out := make([]*playerView, 0, len(ps))
	for _, p := range ps {
		v := &playerView{name: p.Name, level: p.Level, hp: p.HP, hpMax: p.HPMax, gold: p.Gold()}
		if p.TurnFinished {
			v.note = " (done)"
		}
		out = append(out, v)
	}
	return out
}
