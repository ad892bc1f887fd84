package effect

import "log/slog"

// ExperienceBoostEffect multiplies experience gains for a number of rounds.
// Params: "multiplier" (default 2), "rounds" (default 1).
type ExperienceBoostEffect struct {
	multiplier float64
	rounds     int
}

func NewExperienceBoostEffect(params map[string]string) Effect {
	return &ExperienceBoostEffect{
		multiplier: floatParam(params, "multiplier", 2),
		rounds:     intParam(params, "rounds", 1),
	}
}

func (e *ExperienceBoostEffect) Kind() Kind { return KindExperienceBoost }

func (e *ExperienceBoostEffect) Lifetime() Lifetime {
	return Lifetime{Mode: RoundBased, Rounds: e.rounds}
}

func (e *ExperienceBoostEffect) Apply(t Target) {
	if t.Experience == nil {
		slog.Warn("experience boost without experience sink")
		return
	}
	t.Experience.SetExperienceMultiplier(e.multiplier)
}

// Remove resets the multiplier to 1.
func (e *ExperienceBoostEffect) Remove(t Target) {
	if t.Experience == nil {
		return
	}
	t.Experience.SetExperienceMultiplier(1)
}
