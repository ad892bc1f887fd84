package effect

// HealthRegenEffect adds to the regen rate for a number of rounds.
// Params: "delta" (HP per second, default 1), "rounds" (default 1).
type HealthRegenEffect struct {
	delta  float64
	rounds int
}

func NewHealthRegenEffect(params map[string]string) Effect {
	return &HealthRegenEffect{
		delta:  floatParam(params, "delta", 1),
		rounds: intParam(params, "rounds", 1),
	}
}

func (e *HealthRegenEffect) Kind() Kind { return KindHealthRegen }

func (e *HealthRegenEffect) Lifetime() Lifetime {
	return Lifetime{Mode: RoundBased, Rounds: e.rounds}
}

func (e *HealthRegenEffect) Apply(t Target) {
	t.Actor.SetRegenRate(t.Actor.RegenRate() + e.delta)
}

func (e *HealthRegenEffect) Remove(t Target) {
	t.Actor.SetRegenRate(t.Actor.RegenRate() - e.delta)
}
