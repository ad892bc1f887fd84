package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/model"
)

// chaseStopFactor stops the approach short of the attack range so the
// swing lands without the body overlapping the target.
const chaseStopFactor = 0.75

// Deps are the collaborators injected into every enemy brain by the spawner.
type Deps struct {
	Clock   clock.Clock
	Nav     Navigator
	Terrain Terrain
	Target  TargetFunc
	FX      FX
	Rand    *rand.Rand
}

// ZombieAI implements the melee walker.
// State machine: WANDER ↔ INVESTIGATE ↔ CHASE (+ melee attack while chasing).
// A landed swing locks the zombie in place for the attack animation.
type ZombieAI struct {
	perception

	nav    Navigator
	target TargetFunc
	fx     FX

	isRunning atomic.Bool
	state     atomic.Int32 // model.EnemyState
	frozen    bool

	lastAttackTime float64
	animLockUntil  float64
}

// NewZombieAI creates a zombie controller.
func NewZombieAI(enemy *model.Enemy, params Params, deps Deps) *ZombieAI {
	if deps.FX == nil {
		deps.FX = NopFX{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(uint64(enemy.ObjectID()), 0))
	}

	z := &ZombieAI{
		perception:     newPerception(enemy, params, deps.Clock, deps.Terrain, deps.Rand),
		nav:            deps.Nav,
		target:         deps.Target,
		fx:             deps.FX,
		lastAttackTime: math.Inf(-1),
	}
	enemy.OnDeath(func(*model.Enemy) {
		z.fx.PlaySound(SoundZombieDeath)
		z.fx.SpawnEffect(VisualBlood, enemy.Position())
	})
	return z
}

// Start starts the AI controller.
func (z *ZombieAI) Start() {
	z.isRunning.Store(true)
	z.setState(model.StateWander)

	if IsDebugEnabled() {
		slog.Debug("zombie AI started", "objectID", z.enemy.ObjectID())
	}
}

// Stop stops the AI controller and halts the body.
func (z *ZombieAI) Stop() {
	z.isRunning.Store(false)
	z.nav.Stop()

	if IsDebugEnabled() {
		slog.Debug("zombie AI stopped", "objectID", z.enemy.ObjectID())
	}
}

// Enemy returns the controlled enemy.
func (z *ZombieAI) Enemy() *model.Enemy { return z.enemy }

// State returns the current behaviour state.
func (z *ZombieAI) State() model.EnemyState {
	return model.EnemyState(z.state.Load())
}

// IsAttackLocked reports whether a swing is in progress at now.
func (z *ZombieAI) IsAttackLocked(now float64) bool {
	return now < z.animLockUntil
}

// OnHeardNoise stamps the hearing memory.
func (z *ZombieAI) OnHeardNoise(origin model.Vec3) {
	z.heard(origin)
}

func (z *ZombieAI) setState(s model.EnemyState) {
	old := model.EnemyState(z.state.Swap(int32(s)))
	if old != s && IsDebugEnabled() {
		slog.Debug("zombie state changed",
			"objectID", z.enemy.ObjectID(),
			"from", old,
			"to", s)
	}
}

// activeTarget returns the live target or nil.
func (z *ZombieAI) activeTarget() Target {
	if z.target == nil {
		return nil
	}
	t := z.target()
	if t == nil || t.IsDead() {
		return nil
	}
	return t
}

// Think evaluates senses and issues movement.
func (z *ZombieAI) Think(now float64) {
	if !z.isRunning.Load() || z.enemy.IsDead() {
		return
	}

	target := z.activeTarget()
	if target == nil {
		if !z.frozen {
			z.nav.Stop()
			z.frozen = true
			if IsDebugEnabled() {
				slog.Debug("zombie frozen, no target", "objectID", z.enemy.ObjectID())
			}
		}
		return
	}
	z.frozen = false

	next := z.decide(now, target)
	z.setState(next)

	// swing in progress: keep still so the hit matches the animation
	if z.IsAttackLocked(now) {
		return
	}

	switch next {
	case model.StateChase:
		tpos := target.Position()
		if z.enemy.Position().Dist(tpos) <= z.enemy.AttackRange()*chaseStopFactor {
			z.nav.Stop()
			z.nav.FaceToward(tpos)
			return
		}
		z.nav.RequestMoveTo(tpos)

	case model.StateInvestigate:
		if z.investigate(z.nav) {
			z.setState(model.StateWander)
		}

	case model.StateWander:
		z.wander(now, z.nav)
	}
}

// Act performs the melee attack when eligible.
func (z *ZombieAI) Act(now float64) {
	if !z.isRunning.Load() || z.enemy.IsDead() || z.frozen {
		return
	}
	if z.State() != model.StateChase || z.IsAttackLocked(now) {
		return
	}

	target := z.activeTarget()
	if target == nil {
		return
	}
	if z.enemy.Position().Dist(target.Position()) > z.enemy.AttackRange() {
		return
	}
	if now-z.lastAttackTime < z.enemy.AttackCooldown() {
		return
	}

	target.TakeDamage(z.enemy.AttackDamage())
	z.lastAttackTime = now
	z.fx.PlaySound(SoundZombieAttack)

	if z.params.AttackAnimation > 0 {
		z.animLockUntil = now + z.params.AttackAnimation
		z.nav.Stop()
	}

	if IsDebugEnabled() {
		slog.Debug("zombie attack",
			"objectID", z.enemy.ObjectID(),
			"damage", z.enemy.AttackDamage())
	}
}
