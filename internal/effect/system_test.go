package effect

import (
	"errors"
	"math"
	"testing"

	"github.com/udisondev/zsurvive/internal/event"
	"github.com/udisondev/zsurvive/internal/model"
)

const eps = 1e-9

// xpSink is a minimal ExperienceSink for tests.
type xpSink struct{ mult float64 }

func (x *xpSink) ExperienceMultiplier() float64     { return x.mult }
func (x *xpSink) SetExperienceMultiplier(m float64) { x.mult = m }

func newTestSystem(t *testing.T) (*System, *model.Player, *xpSink, *event.Bus) {
	t.Helper()
	p := model.NewPlayer(model.DefaultPlayerStats(), model.Vec3{})
	xp := &xpSink{mult: 1}
	bus := event.NewBus()
	return NewSystem(Target{Actor: p, Experience: xp}, bus), p, xp, bus
}

func mustCreate(t *testing.T, name string, params map[string]string) Effect {
	t.Helper()
	e, err := Create(name, params)
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return e
}

func TestSpeedBoost_SymmetryAfterExpiry(t *testing.T) {
	s, p, _, _ := newTestSystem(t)
	origSpeed, origSprint := p.Speed(), p.SprintSpeed()

	e := mustCreate(t, "SpeedBoost", map[string]string{"multiplier": "1.5", "duration": "5"})
	if !s.Apply(e) {
		t.Fatal("first apply should succeed")
	}
	if math.Abs(p.Speed()-origSpeed*1.5) > eps {
		t.Fatalf("speed = %v, want %v", p.Speed(), origSpeed*1.5)
	}

	for range 49 {
		s.Tick(0.1)
	}
	if !s.IsActive(KindSpeedBoost) {
		t.Fatal("boost expired early")
	}

	s.Tick(0.2)
	if s.IsActive(KindSpeedBoost) {
		t.Fatal("boost should have expired")
	}
	if math.Abs(p.Speed()-origSpeed) > eps || math.Abs(p.SprintSpeed()-origSprint) > eps {
		t.Errorf("speeds not restored: got %v/%v, want %v/%v",
			p.Speed(), p.SprintSpeed(), origSpeed, origSprint)
	}
}

func TestSpeedBoost_RestoresCapturedValues(t *testing.T) {
	s, p, _, _ := newTestSystem(t)
	e := mustCreate(t, "SpeedBoost", map[string]string{"multiplier": "2", "duration": "5"})
	s.Apply(e)

	// Speed changed by someone else while boosted is overwritten by the captured original.
	p.SetSpeed(1)
	s.Remove(e)

	if p.Speed() != model.DefaultPlayerSpeed {
		t.Errorf("speed = %v, want %v", p.Speed(), model.DefaultPlayerSpeed)
	}
}

func TestApply_RejectsDuplicateKind(t *testing.T) {
	s, p, _, _ := newTestSystem(t)
	p.TakeDamage(80)

	first := mustCreate(t, "Health", map[string]string{"percent": "0.25", "duration": "1"})
	second := mustCreate(t, "Health", map[string]string{"percent": "0.25", "duration": "1"})

	if !s.Apply(first) {
		t.Fatal("first apply should succeed")
	}
	if s.Apply(second) {
		t.Fatal("second apply of same kind should be rejected")
	}
	if s.Count() != 1 {
		t.Fatalf("active count = %d, want 1", s.Count())
	}
	// only one heal of 25 landed
	if math.Abs(p.CurrentHealth()-45) > eps {
		t.Errorf("health = %v, want 45", p.CurrentHealth())
	}

	// after expiry the kind is free again
	s.Tick(1)
	if !s.Apply(second) {
		t.Error("apply after expiry should succeed")
	}
}

func TestHealth_ClampedToMax(t *testing.T) {
	s, p, _, _ := newTestSystem(t)
	p.TakeDamage(10)

	s.Apply(mustCreate(t, "Health", nil))

	if p.CurrentHealth() != p.MaxHealth() {
		t.Errorf("health = %v, want max %v", p.CurrentHealth(), p.MaxHealth())
	}
}

func TestInvincibility_RestoresRegenModifier(t *testing.T) {
	s, p, _, _ := newTestSystem(t)
	p.SetRegenModifier(1.25)

	s.Apply(mustCreate(t, "Invincibility", map[string]string{"duration": "2"}))
	if p.RegenModifier() != 10 {
		t.Fatalf("regen modifier = %v, want 10", p.RegenModifier())
	}

	s.Tick(2)
	if p.RegenModifier() != 1.25 {
		t.Errorf("regen modifier = %v, want 1.25", p.RegenModifier())
	}
}

func TestRoundBased_ExpiresOnRoundEnd(t *testing.T) {
	s, p, xp, _ := newTestSystem(t)
	origRegen := p.RegenRate()

	s.Apply(mustCreate(t, "ExperienceBoost", map[string]string{"multiplier": "3", "rounds": "2"}))
	s.Apply(mustCreate(t, "HealthRegen", map[string]string{"delta": "1.5", "rounds": "1"}))

	if xp.mult != 3 {
		t.Fatalf("xp multiplier = %v, want 3", xp.mult)
	}
	if math.Abs(p.RegenRate()-(origRegen+1.5)) > eps {
		t.Fatalf("regen = %v, want %v", p.RegenRate(), origRegen+1.5)
	}

	// ticking time does not expire round-based effects
	s.Tick(1000)
	if s.Count() != 2 {
		t.Fatalf("count after tick = %d, want 2", s.Count())
	}

	s.OnRoundEnd()
	if s.IsActive(KindHealthRegen) {
		t.Error("regen boost should expire after one round")
	}
	if math.Abs(p.RegenRate()-origRegen) > eps {
		t.Errorf("regen = %v, want %v", p.RegenRate(), origRegen)
	}
	if !s.IsActive(KindExperienceBoost) {
		t.Error("xp boost should survive the first round end")
	}

	s.OnRoundEnd()
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
	if xp.mult != 1 {
		t.Errorf("xp multiplier = %v, want 1", xp.mult)
	}
}

func TestRemove_InactiveIsNoop(t *testing.T) {
	s, _, _, bus := newTestSystem(t)

	removed := 0
	bus.Subscribe(event.EffectRemoved, func(event.Event) { removed++ })

	e := mustCreate(t, "SpeedBoost", nil)
	s.Remove(e)
	if removed != 0 {
		t.Fatalf("removed events = %d, want 0", removed)
	}

	// a different instance of an active kind is not "active"
	s.Apply(mustCreate(t, "SpeedBoost", nil))
	s.Remove(e)
	if !s.IsActive(KindSpeedBoost) {
		t.Error("removing another instance must not deactivate the active one")
	}
}

func TestClearAllEffects_Symmetric(t *testing.T) {
	s, p, xp, bus := newTestSystem(t)
	speed, sprint, regen, mod := p.Speed(), p.SprintSpeed(), p.RegenRate(), p.RegenModifier()

	var applied, removed []string
	bus.Subscribe(event.EffectApplied, func(e event.Event) { applied = append(applied, e.Name) })
	bus.Subscribe(event.EffectRemoved, func(e event.Event) { removed = append(removed, e.Name) })

	for _, name := range []string{"SpeedBoost", "Invincibility", "ExperienceBoost", "HealthRegen"} {
		s.Apply(mustCreate(t, name, nil))
	}
	s.Tick(0.5)
	s.ClearAllEffects()

	if s.Count() != 0 {
		t.Fatalf("count = %d, want 0", s.Count())
	}
	if p.Speed() != speed || p.SprintSpeed() != sprint || p.RegenModifier() != mod {
		t.Error("speed or regen modifier leaked after clear")
	}
	if math.Abs(p.RegenRate()-regen) > eps {
		t.Errorf("regen = %v, want %v", p.RegenRate(), regen)
	}
	if xp.mult != 1 {
		t.Errorf("xp multiplier = %v, want 1", xp.mult)
	}
	if len(applied) != 4 || len(removed) != 4 {
		t.Errorf("events applied=%d removed=%d, want 4/4", len(applied), len(removed))
	}
	if removed[0] != "HealthRegen" {
		t.Errorf("first removed = %s, want newest (HealthRegen)", removed[0])
	}
}

func TestCreate_Unknown(t *testing.T) {
	_, err := Create("Flight", nil)
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("err = %v, want ErrUnknownEffect", err)
	}
}

func TestNames(t *testing.T) {
	got := Names()
	want := []string{"ExperienceBoost", "Health", "HealthRegen", "Invincibility", "SpeedBoost"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestExperienceBoost_NilSink(t *testing.T) {
	p := model.NewPlayer(model.DefaultPlayerStats(), model.Vec3{})
	s := NewSystem(Target{Actor: p}, nil)

	if !s.Apply(mustCreate(t, "ExperienceBoost", nil)) {
		t.Fatal("apply should still register the effect")
	}
	s.OnRoundEnd()
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
}
