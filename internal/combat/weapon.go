// Package combat implements the player's hit-scan gun.
package combat

import (
	"log/slog"
	"sync"

	"github.com/udisondev/zsurvive/internal/ai"
	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/model"
	"github.com/udisondev/zsurvive/internal/world"
)

// Raycaster finds the nearest enemy on a ray. *world.World implements it.
type Raycaster interface {
	NearestOnRay(origin, dir model.Vec3, maxDist float64) (world.RayHit, bool)
}

// NoiseMaker is the shooter's noise emitter. *noise.Emitter implements it.
type NoiseMaker interface {
	MakeNoise(power float64) bool
}

// Shot is the outcome of one trigger pull.
type Shot struct {
	Fired    bool // false when gated by fire rate, empty clip or reload
	Hit      bool
	Enemy    *model.Enemy
	Killed   bool
	Headshot bool
	Damage   float64
	Distance float64
}

// Weapon is a fire-rate gated hit-scan gun with an optional clip.
// An empty clip starts a reload on the next trigger pull.
type Weapon struct {
	mu sync.Mutex

	cfg          config.Weapon
	clock        clock.Clock
	world        Raycaster
	noise        NoiseMaker
	gunshotPower float64
	fx           ai.FX

	nextFire    float64
	ammo        int
	reloadUntil float64
	reloading   bool
}

// NewWeapon creates a loaded weapon. noise and fx may be nil.
func NewWeapon(cfg config.Weapon, clk clock.Clock, rc Raycaster, noise NoiseMaker, gunshotPower float64, fx ai.FX) *Weapon {
	if fx == nil {
		fx = ai.NopFX{}
	}
	return &Weapon{
		cfg:          cfg,
		clock:        clk,
		world:        rc,
		noise:        noise,
		gunshotPower: gunshotPower,
		fx:           fx,
		ammo:         cfg.ClipSize,
	}
}

// Fire shoots from origin along dir. Every fired shot is a gunshot noise;
// a hit deals damage, multiplied on the head.
func (w *Weapon) Fire(origin, dir model.Vec3) Shot {
	now := w.clock.Now()

	w.mu.Lock()
	w.finishReloadLocked(now)
	if w.reloading || now < w.nextFire {
		w.mu.Unlock()
		return Shot{}
	}
	if w.cfg.ClipSize > 0 {
		if w.ammo <= 0 {
			w.startReloadLocked(now)
			w.mu.Unlock()
			return Shot{}
		}
		w.ammo--
	}
	w.nextFire = now + 1/w.cfg.FireRate
	w.mu.Unlock()

	if w.noise != nil {
		w.noise.MakeNoise(w.gunshotPower)
	}

	shot := Shot{Fired: true}
	hit, ok := w.world.NearestOnRay(origin, dir, w.cfg.Range)
	if !ok {
		return shot
	}

	shot.Hit = true
	shot.Enemy = hit.Enemy
	shot.Headshot = hit.Headshot
	shot.Distance = hit.Distance
	shot.Damage = w.cfg.Damage
	if hit.Headshot {
		shot.Damage *= w.cfg.HeadshotMultiplier
		w.fx.PlaySound(ai.SoundHeadshot)
	} else {
		w.fx.PlaySound(ai.SoundHit)
	}
	shot.Killed = hit.Enemy.TakeDamage(shot.Damage)

	slog.Debug("shot hit",
		"objectID", hit.Enemy.ObjectID(),
		"damage", shot.Damage,
		"headshot", shot.Headshot,
		"killed", shot.Killed,
		"distance", shot.Distance)

	return shot
}

// Reload refills the clip after ReloadTime. No-op when full, already
// reloading or the weapon has no clip.
func (w *Weapon) Reload() {
	now := w.clock.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finishReloadLocked(now)
	w.startReloadLocked(now)
}

func (w *Weapon) startReloadLocked(now float64) {
	if w.cfg.ClipSize <= 0 || w.reloading || w.ammo >= w.cfg.ClipSize {
		return
	}
	w.reloading = true
	w.reloadUntil = now + w.cfg.ReloadTime
	slog.Debug("reloading", "until", w.reloadUntil)
}

func (w *Weapon) finishReloadLocked(now float64) {
	if w.reloading && now >= w.reloadUntil {
		w.reloading = false
		w.ammo = w.cfg.ClipSize
	}
}

// Ammo returns rounds left in the clip.
func (w *Weapon) Ammo() int {
	now := w.clock.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finishReloadLocked(now)
	return w.ammo
}

// IsReloading reports whether a reload is in progress.
func (w *Weapon) IsReloading() bool {
	now := w.clock.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finishReloadLocked(now)
	return w.reloading
}
