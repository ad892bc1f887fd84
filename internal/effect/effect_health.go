package effect

import "log/slog"

// HealthEffect instantly restores a share of max health.
// The duration only keeps a second potion from being drunk immediately.
// Params: "percent" (0..1, default 0.5), "duration" (seconds, default 1).
type HealthEffect struct {
	percent  float64
	duration float64
}

func NewHealthEffect(params map[string]string) Effect {
	return &HealthEffect{
		percent:  floatParam(params, "percent", 0.5),
		duration: floatParam(params, "duration", 1),
	}
}

func (e *HealthEffect) Kind() Kind { return KindHealth }

func (e *HealthEffect) Lifetime() Lifetime {
	return Lifetime{Mode: Timed, Duration: e.duration}
}

func (e *HealthEffect) Apply(t Target) {
	healed := t.Actor.Heal(t.Actor.MaxHealth() * e.percent)
	slog.Debug("health restored", "amount", healed)
}

// Remove is a no-op: healing is not reverted.
func (e *HealthEffect) Remove(Target) {}
