// Package effect runs potions and boosts on a single actor.
package effect

// Kind identifies an effect type. At most one effect of a kind is active
// per actor.
type Kind string

const (
	KindHealth          Kind = "Health"
	KindSpeedBoost      Kind = "SpeedBoost"
	KindInvincibility   Kind = "Invincibility"
	KindExperienceBoost Kind = "ExperienceBoost"
	KindHealthRegen     Kind = "HealthRegen"
)

// Mode selects how an effect expires.
type Mode uint8

const (
	// Timed effects expire after Duration seconds of Tick.
	Timed Mode = iota
	// RoundBased effects expire after Rounds calls of OnRoundEnd.
	RoundBased
)

// String returns human-readable mode name
func (m Mode) String() string {
	switch m {
	case Timed:
		return "Timed"
	case RoundBased:
		return "RoundBased"
	default:
		return "Unknown"
	}
}

// Lifetime describes when an effect expires.
type Lifetime struct {
	Mode     Mode
	Duration float64 // seconds, Timed only
	Rounds   int     // RoundBased only
}

// Effect is a transient modifier.
// Apply and Remove must be exact inverses for every stat they touch.
type Effect interface {
	Kind() Kind
	Lifetime() Lifetime
	Apply(t Target)
	Remove(t Target)
}

// Actor is the stat surface effects mutate. *model.Player implements it.
type Actor interface {
	MaxHealth() float64
	Heal(amount float64) float64

	Speed() float64
	SetSpeed(s float64)
	SprintSpeed() float64
	SetSprintSpeed(s float64)

	RegenRate() float64
	SetRegenRate(r float64)
	RegenModifier() float64
	SetRegenModifier(m float64)
}

// ExperienceSink receives the global experience multiplier.
type ExperienceSink interface {
	ExperienceMultiplier() float64
	SetExperienceMultiplier(m float64)
}

// Target bundles what effects act on. Experience may be nil.
type Target struct {
	Actor      Actor
	Experience ExperienceSink
}
