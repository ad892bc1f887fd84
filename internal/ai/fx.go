package ai

import "github.com/udisondev/zsurvive/internal/model"

// SoundKind names a one-shot sound.
type SoundKind string

const (
	SoundZombieAttack SoundKind = "ZombieAttack"
	SoundZombieDeath  SoundKind = "ZombieDeath"
	SoundLaserCharge  SoundKind = "LaserCharge"
	SoundLaserFire    SoundKind = "LaserFire"
	SoundUFODeath     SoundKind = "UFODeath"
	SoundHurt         SoundKind = "Hurt"
	SoundHit          SoundKind = "Hit"
	SoundHeadshot     SoundKind = "Headshot"
)

// VisualKind names a one-shot visual effect.
type VisualKind string

const (
	VisualChargeGlow VisualKind = "ChargeGlow"
	VisualLaserBeam  VisualKind = "LaserBeam"
	VisualBlood      VisualKind = "Blood"
	VisualExplosion  VisualKind = "Explosion"
)

// FX receives fire-and-forget audio/visual cues.
type FX interface {
	PlaySound(kind SoundKind)
	SpawnEffect(kind VisualKind, pos model.Vec3)
}

// NopFX discards all cues.
type NopFX struct{}

func (NopFX) PlaySound(SoundKind)                {}
func (NopFX) SpawnEffect(VisualKind, model.Vec3) {}
