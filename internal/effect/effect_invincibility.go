package effect

// InvincibilityEffect cranks the regen modifier so incoming damage is
// outhealed for a duration.
// Params: "modifier" (default 10), "duration" (seconds, default 8).
type InvincibilityEffect struct {
	modifier float64
	duration float64

	prev float64
}

func NewInvincibilityEffect(params map[string]string) Effect {
	return &InvincibilityEffect{
		modifier: floatParam(params, "modifier", 10),
		duration: floatParam(params, "duration", 8),
	}
}

func (e *InvincibilityEffect) Kind() Kind { return KindInvincibility }

func (e *InvincibilityEffect) Lifetime() Lifetime {
	return Lifetime{Mode: Timed, Duration: e.duration}
}

func (e *InvincibilityEffect) Apply(t Target) {
	e.prev = t.Actor.RegenModifier()
	t.Actor.SetRegenModifier(e.modifier)
}

func (e *InvincibilityEffect) Remove(t Target) {
	t.Actor.SetRegenModifier(e.prev)
}
