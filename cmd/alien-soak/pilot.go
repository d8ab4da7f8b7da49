package main

import "github.com/plus3/alien-defense/internal/game"

// pilot flies the ship toward the alien closest to the left edge and fires on
// a fixed cadence. It restarts as soon as a round ends.
type pilot struct {
	fireEvery int
	tick      int
}

const deadZone = 2

func (p *pilot) controls(w *game.World) game.Controls {
	p.tick++
	if w.Session().Phase != game.PhasePlaying {
		return game.Controls{Restart: true}
	}

	c := game.Controls{Fire: p.fireEvery > 0 && p.tick%p.fireEvery == 0}
	target, ok := leftmost(w.Aliens())
	if !ok {
		return c
	}
	ship := w.Ship().Rect
	shipMid := (ship.Min.Y + ship.Max.Y) / 2
	targetMid := (target.Rect.Min.Y + target.Rect.Max.Y) / 2
	c.Up = targetMid < shipMid-deadZone
	c.Down = targetMid > shipMid+deadZone
	return c
}

func leftmost(aliens []game.Entity) (game.Entity, bool) {
	if len(aliens) == 0 {
		return game.Entity{}, false
	}
	best := aliens[0]
	for _, a := range aliens[1:] {
		if a.Position.X < best.Position.X {
			best = a
		}
	}
	return best, true
}
