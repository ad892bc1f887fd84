package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/udisondev/zsurvive/internal/model"
)

// ufoIdleSpeedFactor slows the flyer while nothing holds its attention.
const ufoIdleSpeedFactor = 0.5

// UFOAI implements the flying ranged enemy.
// Same senses and states as the zombie; the attack is a telegraphed
// sequence READY → CHARGING → FIRING → COOLDOWN → READY.
// While charging or firing it slows down but keeps facing the target.
type UFOAI struct {
	perception

	nav    Navigator
	target TargetFunc
	fx     FX

	isRunning atomic.Bool
	state     atomic.Int32 // model.EnemyState
	phase     atomic.Int32 // model.AttackPhase
	frozen    bool

	phaseEnd       float64
	lastAttackTime float64
}

// NewUFOAI creates a flying enemy controller.
func NewUFOAI(enemy *model.Enemy, params Params, deps Deps) *UFOAI {
	if deps.FX == nil {
		deps.FX = NopFX{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(uint64(enemy.ObjectID()), 1))
	}

	u := &UFOAI{
		perception:     newPerception(enemy, params, deps.Clock, deps.Terrain, deps.Rand),
		nav:            deps.Nav,
		target:         deps.Target,
		fx:             deps.FX,
		lastAttackTime: math.Inf(-1),
	}
	enemy.OnDeath(func(*model.Enemy) {
		u.fx.PlaySound(SoundUFODeath)
		u.fx.SpawnEffect(VisualExplosion, enemy.Position())
	})
	return u
}

// Start starts the AI controller.
func (u *UFOAI) Start() {
	u.isRunning.Store(true)
	u.state.Store(int32(model.StateWander))
	u.phase.Store(int32(model.PhaseReady))

	if IsDebugEnabled() {
		slog.Debug("ufo AI started", "objectID", u.enemy.ObjectID())
	}
}

// Stop stops the AI controller and halts the body.
func (u *UFOAI) Stop() {
	u.isRunning.Store(false)
	u.nav.Stop()
	u.setPhase(model.PhaseReady)
}

// Enemy returns the controlled enemy.
func (u *UFOAI) Enemy() *model.Enemy { return u.enemy }

// State returns the current behaviour state.
func (u *UFOAI) State() model.EnemyState {
	return model.EnemyState(u.state.Load())
}

// Phase returns the current attack phase.
func (u *UFOAI) Phase() model.AttackPhase {
	return model.AttackPhase(u.phase.Load())
}

// OnHeardNoise stamps the hearing memory.
func (u *UFOAI) OnHeardNoise(origin model.Vec3) {
	u.heard(origin)
}

func (u *UFOAI) setState(s model.EnemyState) {
	old := model.EnemyState(u.state.Swap(int32(s)))
	if old != s && IsDebugEnabled() {
		slog.Debug("ufo state changed", "objectID", u.enemy.ObjectID(), "from", old, "to", s)
	}
}

func (u *UFOAI) setPhase(p model.AttackPhase) {
	old := model.AttackPhase(u.phase.Swap(int32(p)))
	if old != p && IsDebugEnabled() {
		slog.Debug("ufo attack phase changed", "objectID", u.enemy.ObjectID(), "from", old, "to", p)
	}
}

func (u *UFOAI) activeTarget() Target {
	if u.target == nil {
		return nil
	}
	t := u.target()
	if t == nil || t.IsDead() {
		return nil
	}
	return t
}

// horizontalDist is the distance on the ground plane; the flyer hovers
// above its target.
func (u *UFOAI) horizontalDist(t Target) float64 {
	return u.enemy.Position().Horizontal().Dist(t.Position().Horizontal())
}

// busy reports whether the attack sequence slows the flyer.
func (u *UFOAI) busy() bool {
	p := u.Phase()
	return p == model.PhaseCharging || p == model.PhaseFiring
}

// Think evaluates senses and issues movement.
func (u *UFOAI) Think(now float64) {
	if !u.isRunning.Load() || u.enemy.IsDead() {
		return
	}

	target := u.activeTarget()
	if target == nil {
		if !u.frozen {
			u.nav.Stop()
			u.setPhase(model.PhaseReady)
			u.frozen = true
		}
		return
	}
	u.frozen = false

	next := u.decide(now, target)
	u.setState(next)

	speed := u.enemy.Speed()
	if next == model.StateWander {
		speed *= ufoIdleSpeedFactor
	}
	if u.busy() {
		speed *= u.params.ChargeMoveFactor
	}
	u.nav.SetSpeed(speed)

	switch next {
	case model.StateChase:
		if u.horizontalDist(target) <= u.enemy.AttackRange()*chaseStopFactor {
			u.nav.Stop()
			return
		}
		u.nav.RequestMoveTo(target.Position())

	case model.StateInvestigate:
		if u.investigate(u.nav) {
			u.setState(model.StateWander)
		}

	case model.StateWander:
		u.wander(now, u.nav)
	}
}

// Act advances the attack sequence.
func (u *UFOAI) Act(now float64) {
	if !u.isRunning.Load() || u.enemy.IsDead() || u.frozen {
		return
	}
	target := u.activeTarget()
	if target == nil {
		return
	}

	switch u.Phase() {
	case model.PhaseReady:
		if u.State() != model.StateChase {
			return
		}
		if u.horizontalDist(target) > u.enemy.AttackRange() {
			return
		}
		if now-u.lastAttackTime < u.enemy.AttackCooldown() {
			return
		}
		u.setPhase(model.PhaseCharging)
		u.phaseEnd = now + u.params.ChargeDuration
		u.nav.FaceToward(target.Position())
		u.fx.PlaySound(SoundLaserCharge)
		u.fx.SpawnEffect(VisualChargeGlow, u.enemy.Position())

	case model.PhaseCharging:
		u.nav.FaceToward(target.Position())
		if now < u.phaseEnd {
			return
		}
		u.fire(now, target)

	case model.PhaseFiring:
		u.nav.FaceToward(target.Position())
		if now >= u.phaseEnd {
			u.setPhase(model.PhaseCooldown)
		}

	case model.PhaseCooldown:
		if now-u.lastAttackTime >= u.enemy.AttackCooldown() {
			u.setPhase(model.PhaseReady)
		}
	}
}

// fire applies the beam. A target that left the beam reach is missed.
func (u *UFOAI) fire(now float64, target Target) {
	u.lastAttackTime = now
	u.setPhase(model.PhaseFiring)
	u.phaseEnd = now + u.params.BeamDuration

	u.fx.PlaySound(SoundLaserFire)
	u.fx.SpawnEffect(VisualLaserBeam, target.Position())

	if u.horizontalDist(target) <= u.enemy.AttackRange() {
		target.TakeDamage(u.enemy.AttackDamage())
		if IsDebugEnabled() {
			slog.Debug("ufo beam hit", "objectID", u.enemy.ObjectID(), "damage", u.enemy.AttackDamage())
		}
	}
}
