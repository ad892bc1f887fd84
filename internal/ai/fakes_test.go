package ai

import (
	"math/rand/v2"

	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/model"
)

// fakeNav records movement requests without moving anything.
type fakeNav struct {
	body    *model.Enemy
	dest    model.Vec3
	hasPath bool
	arrived bool
	speed   float64

	moves int
	stops int
	faced []model.Vec3
}

func (n *fakeNav) RequestMoveTo(p model.Vec3) {
	n.dest = p
	n.hasPath = true
	n.arrived = false
	n.moves++
}

func (n *fakeNav) Stop() {
	n.hasPath = false
	n.stops++
}

func (n *fakeNav) SetSpeed(s float64) { n.speed = s }
func (n *fakeNav) HasPath() bool      { return n.hasPath }
func (n *fakeNav) HasArrived() bool   { return !n.hasPath || n.arrived }

func (n *fakeNav) FaceToward(p model.Vec3) {
	n.faced = append(n.faced, p)
	if n.body != nil {
		n.body.SetForward(p.Sub(n.body.Position()).Horizontal().Normalize())
	}
}

// fakeTerrain has no obstacles unless blocked is set.
type fakeTerrain struct {
	blocked bool
	sample  model.Vec3
	samples int
}

func (f *fakeTerrain) LineOfSight(_, _ model.Vec3) bool { return !f.blocked }

func (f *fakeTerrain) SampleReachable(_ model.Vec3, _ float64, _ *rand.Rand) (model.Vec3, bool) {
	f.samples++
	return f.sample, true
}

// fakeTarget is a damageable point.
type fakeTarget struct {
	pos    model.Vec3
	dead   bool
	damage []float64
}

func (f *fakeTarget) Position() model.Vec3 { return f.pos }
func (f *fakeTarget) IsDead() bool         { return f.dead }

func (f *fakeTarget) TakeDamage(amount float64) {
	f.damage = append(f.damage, amount)
}

// recordingFX keeps played sounds.
type recordingFX struct {
	sounds  []SoundKind
	visuals []VisualKind
}

func (r *recordingFX) PlaySound(k SoundKind) { r.sounds = append(r.sounds, k) }

func (r *recordingFX) SpawnEffect(k VisualKind, _ model.Vec3) {
	r.visuals = append(r.visuals, k)
}

func zombieParams() Params {
	return Params{
		SightRange:        15,
		ViewAngle:         120,
		EyeHeight:         1.2,
		HearingForgetTime: 3,
		WanderRadius:      10,
		WanderPointDelay:  4,
		ArrivalDistance:   1,
		AttackAnimation:   1,
	}
}

func zombieSpec() model.EnemySpec {
	return model.EnemySpec{
		TemplateID:     "zombie",
		Kind:           model.KindZombie,
		MaxHealth:      50,
		Speed:          2,
		AttackDamage:   20,
		AttackRange:    2,
		AttackCooldown: 1.5,
	}
}

type zombieFixture struct {
	clk     *clock.Sim
	enemy   *model.Enemy
	nav     *fakeNav
	terrain *fakeTerrain
	target  *fakeTarget
	fx      *recordingFX
	ai      *ZombieAI
}

// newZombie creates a started zombie at the origin facing +Z.
// The target is placed far outside sight range.
func newZombie(params Params) *zombieFixture {
	f := &zombieFixture{
		clk:     clock.NewSim(),
		enemy:   model.NewEnemy(1, zombieSpec(), model.Vec3{}),
		terrain: &fakeTerrain{},
		target:  &fakeTarget{pos: model.V(0, 0, 100)},
		fx:      &recordingFX{},
	}
	f.nav = &fakeNav{body: f.enemy}
	f.ai = NewZombieAI(f.enemy, params, Deps{
		Clock:   f.clk,
		Nav:     f.nav,
		Terrain: f.terrain,
		Target:  func() Target { return f.target },
		FX:      f.fx,
		Rand:    rand.New(rand.NewPCG(1, 1)),
	})
	f.ai.Start()
	return f
}

// at advances the clock to t and runs one Think/Act pass.
func (f *zombieFixture) at(t float64) {
	f.clk.Set(t)
	f.ai.Think(t)
	f.ai.Act(t)
}
