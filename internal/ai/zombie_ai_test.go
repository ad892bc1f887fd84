package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zsurvive/internal/model"
)

func TestZombie_SightBeatsHearing(t *testing.T) {
	f := newZombie(zombieParams())
	f.target.pos = model.V(0, 0, 5) // in front, in range

	f.ai.OnHeardNoise(model.V(-30, 0, 0))
	f.at(0.1)

	assert.Equal(t, model.StateChase, f.ai.State())
	assert.Equal(t, model.V(0, 0, 5), f.nav.dest)
}

func TestZombie_HearingForget(t *testing.T) {
	f := newZombie(zombieParams())

	f.ai.OnHeardNoise(model.V(40, 0, 40)) // t=0
	f.at(2.9)
	assert.Equal(t, model.StateInvestigate, f.ai.State())
	assert.Equal(t, model.V(40, 0, 40), f.nav.dest)

	f.at(3.1)
	assert.Equal(t, model.StateWander, f.ai.State())
}

func TestZombie_InvestigateArrivalForgets(t *testing.T) {
	f := newZombie(zombieParams())

	f.ai.OnHeardNoise(model.V(0.5, 0, 0.5))
	f.at(0.5)

	assert.Equal(t, model.StateWander, f.ai.State())
	assert.False(t, f.ai.hearingFresh(0.5))

	// memory stays dropped
	f.at(0.6)
	assert.Equal(t, model.StateWander, f.ai.State())
}

func TestZombie_WanderDelay(t *testing.T) {
	f := newZombie(zombieParams())
	f.terrain.sample = model.V(3, 0, 3)

	f.at(0)
	require.Equal(t, 1, f.terrain.samples)
	assert.Equal(t, model.V(3, 0, 3), f.nav.dest)

	// still walking
	f.at(5)
	assert.Equal(t, 1, f.terrain.samples)

	// arrived but the delay since the last pick has not elapsed
	f.nav.arrived = true
	f.nav.hasPath = false
	f.ai.nextWanderTime = 10
	f.at(9)
	assert.Equal(t, 1, f.terrain.samples)

	f.at(10)
	assert.Equal(t, 2, f.terrain.samples)
}

func TestZombie_ViewConeAndLineOfSight(t *testing.T) {
	f := newZombie(zombieParams())

	// behind the zombie (forward is +Z)
	f.target.pos = model.V(0, 0, -5)
	f.at(0)
	assert.Equal(t, model.StateWander, f.ai.State())

	// in front but occluded
	f.target.pos = model.V(0, 0, 5)
	f.terrain.blocked = true
	f.at(0.1)
	assert.Equal(t, model.StateWander, f.ai.State())

	f.terrain.blocked = false
	f.at(0.2)
	assert.Equal(t, model.StateChase, f.ai.State())
}

func TestZombie_AttackCooldown(t *testing.T) {
	params := zombieParams()
	params.AttackAnimation = 0
	f := newZombie(params)
	f.target.pos = model.V(0, 0, 1.5)

	f.at(1.0)
	f.at(1.1)

	require.Len(t, f.target.damage, 1)
	assert.InDelta(t, 20, f.target.damage[0], 1e-9)
	assert.Equal(t, []SoundKind{SoundZombieAttack}, f.fx.sounds)

	f.at(2.5)
	assert.Len(t, f.target.damage, 2)
}

func TestZombie_AttackOutOfRange(t *testing.T) {
	f := newZombie(zombieParams())
	f.target.pos = model.V(0, 0, 5)

	f.at(0)
	assert.Equal(t, model.StateChase, f.ai.State())
	assert.Empty(t, f.target.damage)
}

func TestZombie_AnimationLockSuppressesMovement(t *testing.T) {
	params := zombieParams()
	params.AttackAnimation = 1.2
	f := newZombie(params)
	f.target.pos = model.V(0, 0, 1.8)

	f.at(0)
	require.Len(t, f.target.damage, 1)
	assert.True(t, f.ai.IsAttackLocked(0.5))

	// target steps back out of stop range: no path update while locked
	f.target.pos = model.V(0, 0, 6)
	moves := f.nav.moves
	f.at(0.5)
	assert.Equal(t, moves, f.nav.moves)

	f.at(1.3)
	assert.Equal(t, moves+1, f.nav.moves)
	assert.Equal(t, model.V(0, 0, 6), f.nav.dest)
}

func TestZombie_StateFollowsSensesDuringSwing(t *testing.T) {
	params := zombieParams()
	params.AttackAnimation = 1.2
	f := newZombie(params)
	f.target.pos = model.V(0, 0, 1.8)

	f.at(0)
	require.Len(t, f.target.damage, 1)
	require.Equal(t, model.StateChase, f.ai.State())

	// target slips behind the zombie mid-swing
	f.target.pos = model.V(0, 0, -3)
	moves, samples := f.nav.moves, f.terrain.samples
	f.at(0.5)

	assert.True(t, f.ai.IsAttackLocked(0.5))
	assert.Equal(t, model.StateWander, f.ai.State())
	assert.Equal(t, moves, f.nav.moves, "no wander path while locked")
	assert.Equal(t, samples, f.terrain.samples)
	assert.Len(t, f.target.damage, 1)
}

func TestZombie_FreezesWithoutTarget(t *testing.T) {
	f := newZombie(zombieParams())
	f.target.pos = model.V(0, 0, 1)
	f.target.dead = true

	f.at(0)
	assert.Empty(t, f.target.damage)
	assert.Equal(t, 1, f.nav.stops)
	assert.Equal(t, 0, f.terrain.samples)

	// nil target func result
	f.ai.target = func() Target { return nil }
	assert.NotPanics(t, func() { f.at(1) })
	assert.Equal(t, 1, f.nav.stops, "frozen zombie stops only once")
}

func TestZombie_DeathStopsThinking(t *testing.T) {
	f := newZombie(zombieParams())
	f.target.pos = model.V(0, 0, 1)

	require.True(t, f.enemy.TakeDamage(100))
	f.at(0)

	assert.Empty(t, f.target.damage)
	assert.Contains(t, f.fx.sounds, SoundZombieDeath)
}

func TestZombie_StoppedControllerIsInert(t *testing.T) {
	f := newZombie(zombieParams())
	f.target.pos = model.V(0, 0, 1)
	f.ai.Stop()

	f.at(0)
	assert.Empty(t, f.target.damage)
}
