package effect

// SpeedBoostEffect multiplies walk and sprint speed for a duration.
// Params: "multiplier" (default 1.5), "duration" (seconds, default 10).
type SpeedBoostEffect struct {
	multiplier float64
	duration   float64

	// captured on Apply, restored on Remove
	origSpeed  float64
	origSprint float64
}

func NewSpeedBoostEffect(params map[string]string) Effect {
	return &SpeedBoostEffect{
		multiplier: floatParam(params, "multiplier", 1.5),
		duration:   floatParam(params, "duration", 10),
	}
}

func (e *SpeedBoostEffect) Kind() Kind { return KindSpeedBoost }

func (e *SpeedBoostEffect) Lifetime() Lifetime {
	return Lifetime{Mode: Timed, Duration: e.duration}
}

func (e *SpeedBoostEffect) Apply(t Target) {
	e.origSpeed = t.Actor.Speed()
	e.origSprint = t.Actor.SprintSpeed()
	t.Actor.SetSpeed(e.origSpeed * e.multiplier)
	t.Actor.SetSprintSpeed(e.origSprint * e.multiplier)
}

func (e *SpeedBoostEffect) Remove(t Target) {
	t.Actor.SetSpeed(e.origSpeed)
	t.Actor.SetSprintSpeed(e.origSprint)
}
