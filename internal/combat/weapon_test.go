package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zsurvive/internal/ai"
	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/model"
	"github.com/udisondev/zsurvive/internal/world"
)

type countingNoise struct {
	powers []float64
}

func (n *countingNoise) MakeNoise(power float64) bool {
	n.powers = append(n.powers, power)
	return true
}

type soundLog struct {
	ai.NopFX
	sounds []ai.SoundKind
}

func (s *soundLog) PlaySound(k ai.SoundKind) { s.sounds = append(s.sounds, k) }

func gun() config.Weapon {
	return config.Weapon{Damage: 10, FireRate: 2, Range: 30, HeadshotMultiplier: 3}
}

type fixture struct {
	clk    *clock.Sim
	world  *world.World
	noise  *countingNoise
	fx     *soundLog
	weapon *Weapon
	zombie *model.Enemy
}

func newFixture(t *testing.T, cfg config.Weapon, obstacles ...world.Box) *fixture {
	t.Helper()

	clk := clock.NewSim()
	w := world.New(model.Vec3{X: -50, Y: -5, Z: -50}, model.Vec3{X: 50, Y: 20, Z: 50}, 8, obstacles)
	z := model.NewEnemy(1, model.EnemySpec{
		Kind:       model.KindZombie,
		MaxHealth:  50,
		BodyRadius: 0.5,
		HeadHeight: 1.7,
		HeadRadius: 0.2,
	}, model.Vec3{Z: 10})
	require.NoError(t, w.AddEnemy(z))

	n := &countingNoise{}
	fx := &soundLog{}
	return &fixture{
		clk:    clk,
		world:  w,
		noise:  n,
		fx:     fx,
		weapon: NewWeapon(cfg, clk, w, n, 3, fx),
		zombie: z,
	}
}

var (
	chest = model.Vec3{Y: 1}
	eyes  = model.Vec3{Y: 1.7}
	ahead = model.Vec3{Z: 1}
)

func TestWeapon_BodyHit(t *testing.T) {
	f := newFixture(t, gun())

	shot := f.weapon.Fire(chest, ahead)

	assert.True(t, shot.Fired)
	assert.True(t, shot.Hit)
	assert.False(t, shot.Headshot)
	assert.False(t, shot.Killed)
	assert.Same(t, f.zombie, shot.Enemy)
	assert.InDelta(t, 10.0, shot.Damage, 1e-9)
	assert.InDelta(t, 9.5, shot.Distance, 1e-6)
	assert.InDelta(t, 40.0, f.zombie.Health(), 1e-9)
	assert.Equal(t, []float64{3}, f.noise.powers)
	assert.Equal(t, []ai.SoundKind{ai.SoundHit}, f.fx.sounds)
}

func TestWeapon_HeadshotKills(t *testing.T) {
	f := newFixture(t, gun())

	shot := f.weapon.Fire(eyes, ahead)
	require.True(t, shot.Hit)
	assert.True(t, shot.Headshot)
	assert.InDelta(t, 30.0, shot.Damage, 1e-9)
	assert.False(t, shot.Killed)

	f.clk.Set(0.5)
	shot = f.weapon.Fire(eyes, ahead)
	assert.True(t, shot.Killed)
	assert.True(t, f.zombie.IsDead())
	assert.Zero(t, f.zombie.Health())
	assert.Equal(t, []ai.SoundKind{ai.SoundHeadshot, ai.SoundHeadshot}, f.fx.sounds)
}

func TestWeapon_FireRate(t *testing.T) {
	f := newFixture(t, gun())

	assert.True(t, f.weapon.Fire(chest, ahead).Fired)

	f.clk.Set(0.4)
	assert.False(t, f.weapon.Fire(chest, ahead).Fired)

	f.clk.Set(0.5)
	assert.True(t, f.weapon.Fire(chest, ahead).Fired)

	assert.Len(t, f.noise.powers, 2, "gated pulls make no noise")
	assert.InDelta(t, 30.0, f.zombie.Health(), 1e-9)
}

func TestWeapon_Miss(t *testing.T) {
	f := newFixture(t, gun())

	shot := f.weapon.Fire(chest, model.Vec3{X: 1})
	assert.True(t, shot.Fired)
	assert.False(t, shot.Hit)
	assert.Nil(t, shot.Enemy)
	assert.Len(t, f.noise.powers, 1, "a miss is still loud")
}

func TestWeapon_OutOfRange(t *testing.T) {
	cfg := gun()
	cfg.Range = 5
	f := newFixture(t, cfg)

	assert.False(t, f.weapon.Fire(chest, ahead).Hit)
}

func TestWeapon_ObstacleBlocks(t *testing.T) {
	wall := world.Box{Min: model.Vec3{X: -2, Y: 0, Z: 4}, Max: model.Vec3{X: 2, Y: 3, Z: 5}}
	f := newFixture(t, gun(), wall)

	shot := f.weapon.Fire(chest, ahead)
	assert.True(t, shot.Fired)
	assert.False(t, shot.Hit)
	assert.InDelta(t, 50.0, f.zombie.Health(), 1e-9)
}

func TestWeapon_ClipAndReload(t *testing.T) {
	cfg := gun()
	cfg.ClipSize = 2
	cfg.ReloadTime = 1
	f := newFixture(t, cfg)

	require.Equal(t, 2, f.weapon.Ammo())

	assert.True(t, f.weapon.Fire(chest, model.Vec3{X: 1}).Fired)
	f.clk.Set(0.5)
	assert.True(t, f.weapon.Fire(chest, model.Vec3{X: 1}).Fired)
	assert.Zero(t, f.weapon.Ammo())

	f.clk.Set(1)
	assert.False(t, f.weapon.Fire(chest, ahead).Fired, "empty clip starts a reload")
	assert.True(t, f.weapon.IsReloading())

	f.clk.Set(1.5)
	assert.False(t, f.weapon.Fire(chest, ahead).Fired)

	f.clk.Set(2)
	assert.False(t, f.weapon.IsReloading())
	assert.Equal(t, 2, f.weapon.Ammo())
	assert.True(t, f.weapon.Fire(chest, ahead).Fired)
	assert.Equal(t, 1, f.weapon.Ammo())
}

func TestWeapon_ManualReload(t *testing.T) {
	cfg := gun()
	cfg.ClipSize = 3
	cfg.ReloadTime = 2
	f := newFixture(t, cfg)

	f.weapon.Reload()
	assert.False(t, f.weapon.IsReloading(), "full clip does not reload")

	f.weapon.Fire(chest, ahead)
	f.weapon.Reload()
	assert.True(t, f.weapon.IsReloading())

	f.clk.Set(2)
	assert.Equal(t, 3, f.weapon.Ammo())
}
