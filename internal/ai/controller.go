package ai

import (
	"math/rand/v2"

	"github.com/udisondev/zsurvive/internal/model"
)

// Controller is the brain of one enemy.
//
// The TickManager calls Think for every controller, then the session moves
// all agents, then the TickManager calls Act. Perception and movement
// intent are therefore decided before motion, and attacks resolve after it.
type Controller interface {
	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// Enemy returns the controlled enemy
	Enemy() *model.Enemy

	// State returns the current behaviour state
	State() model.EnemyState

	// Think evaluates senses, switches state and issues movement requests
	Think(now float64)

	// Act resolves attacks
	Act(now float64)

	// OnHeardNoise stamps the hearing memory
	OnHeardNoise(origin model.Vec3)
}

// Target is what enemies hunt. *model.Player implements it.
type Target interface {
	Position() model.Vec3
	IsDead() bool
	TakeDamage(amount float64)
}

// TargetFunc returns the current target, or nil if there is none.
// Injected by the session so enemies survive player teardown.
type TargetFunc func() Target

// Navigator moves the enemy body. *nav.Agent implements it.
type Navigator interface {
	RequestMoveTo(point model.Vec3)
	Stop()
	SetSpeed(s float64)
	HasPath() bool
	HasArrived() bool
	FaceToward(target model.Vec3)
}

// Terrain answers line-of-sight and wander-point queries.
// *world.World implements it.
type Terrain interface {
	LineOfSight(from, to model.Vec3) bool
	SampleReachable(center model.Vec3, radius float64, rng *rand.Rand) (model.Vec3, bool)
}

// Params are the per-template behaviour settings.
type Params struct {
	SightRange        float64
	ViewAngle         float64 // full cone, degrees
	EyeHeight         float64
	HearingForgetTime float64

	WanderRadius     float64
	WanderPointDelay float64
	ArrivalDistance  float64

	// Zombie: swing length during which path updates are suppressed.
	AttackAnimation float64

	// UFO: charge → fire → cooldown.
	ChargeDuration   float64
	BeamDuration     float64
	ChargeMoveFactor float64
}

// targetAimHeight is where sight rays aim on the target.
const targetAimHeight = 1.0
