package model

// EnemyState is the behaviour state of a hostile agent.
// Recomputed every tick from senses, never accumulated.
type EnemyState int32

const (
	// StateWander - no stimulus, roam between random reachable points
	StateWander EnemyState = iota
	// StateInvestigate - walk to the last heard noise
	StateInvestigate
	// StateChase - player is visible, pursue (and attack when in range)
	StateChase
)

// String returns human-readable state name
func (s EnemyState) String() string {
	switch s {
	case StateWander:
		return "WANDER"
	case StateInvestigate:
		return "INVESTIGATE"
	case StateChase:
		return "CHASE"
	default:
		return "UNKNOWN"
	}
}

// AttackPhase is the ranged attack sequence of flying enemies.
type AttackPhase int32

const (
	// PhaseReady - attack may start when in range
	PhaseReady AttackPhase = iota
	// PhaseCharging - telegraphing, interruptible only by death
	PhaseCharging
	// PhaseFiring - damage applied, beam visible
	PhaseFiring
	// PhaseCooldown - waiting out attack cooldown
	PhaseCooldown
)

// String returns human-readable phase name
func (p AttackPhase) String() string {
	switch p {
	case PhaseReady:
		return "READY"
	case PhaseCharging:
		return "CHARGING"
	case PhaseFiring:
		return "FIRING"
	case PhaseCooldown:
		return "COOLDOWN"
	default:
		return "UNKNOWN"
	}
}

// RoundParams are the difficulty values the round director hands to each spawn.
type RoundParams struct {
	Round  int
	Speed  float64
	Damage float64
}
