package main

import (
	"log/slog"
	"math"

	"github.com/udisondev/zsurvive/internal/model"
	"github.com/udisondev/zsurvive/internal/session"
)

const (
	healPotion  = "green_potion"
	healBelow   = 0.3
	retreatDist = 4.0
)

// autopilot plays the survivor: shoot the nearest visible enemy, back away
// from zombies that got too close, drink a potion when hurt.
type autopilot struct {
	s *session.Session
}

func newAutopilot(s *session.Session) *autopilot {
	return &autopilot{s: s}
}

// step runs after every session tick.
func (a *autopilot) step(dt float64) {
	p := a.s.Player()

	if p.HealthNormalized() < healBelow && a.s.Inventory().Has(healPotion) {
		if used, err := a.s.UseItem(healPotion); err != nil {
			slog.Warn("autopilot potion", "error", err)
		} else if used {
			slog.Info("autopilot drank potion", "hp", p.CurrentHealth())
		}
	}

	target, aim, dist := a.nearestVisible()
	if target == nil {
		// reload between waves
		if a.s.Weapon().Ammo() < a.s.Config().Weapon.ClipSize {
			a.s.Reload()
		}
		return
	}

	a.s.Fire(aim.Sub(a.eye()))

	if target.Kind() == model.KindZombie && dist < retreatDist {
		a.s.Move(p.Position().Sub(target.Position()), true, dt)
	}
}

func (a *autopilot) eye() model.Vec3 {
	return a.s.Player().Position().Add(model.Vec3{Y: a.s.Config().Player.EyeHeight})
}

// nearestVisible returns the closest live enemy in line of sight, the
// point to aim at and its horizontal distance.
func (a *autopilot) nearestVisible() (*model.Enemy, model.Vec3, float64) {
	w := a.s.World()
	eye := a.eye()
	maxRange := a.s.Config().Weapon.Range

	var (
		best    *model.Enemy
		bestAim model.Vec3
		bestD   = math.Inf(1)
	)
	for _, e := range w.Enemies() {
		if e.IsDead() {
			continue
		}
		aim := e.Position().Add(model.Vec3{Y: e.HeadHeight() / 2})
		d := eye.Dist(aim)
		if d >= bestD || d > maxRange || !w.LineOfSight(eye, aim) {
			continue
		}
		best, bestAim, bestD = e, aim, d
	}
	if best == nil {
		return nil, model.Vec3{}, 0
	}
	return best, bestAim, best.Position().Sub(a.s.Player().Position()).Horizontal().Len()
}
