package model

import (
	"math"
	"sync"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestNewPlayer(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{X: 1, Z: 2})

	if p.CurrentHealth() != DefaultPlayerMaxHealth {
		t.Errorf("CurrentHealth() = %v, want %v", p.CurrentHealth(), DefaultPlayerMaxHealth)
	}
	if p.Position() != (Vec3{X: 1, Z: 2}) {
		t.Errorf("Position() = %+v", p.Position())
	}
	if p.Forward() != (Vec3{Z: 1}) {
		t.Errorf("Forward() = %+v, want +Z", p.Forward())
	}
	if p.IsDead() {
		t.Error("new player is dead")
	}
}

func TestPlayer_TakeDamage(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})

	var damaged []float64
	deaths := 0
	p.OnDamage(func(amount float64) { damaged = append(damaged, amount) })
	p.OnDeath(func() { deaths++ })

	p.TakeDamage(30)
	if !near(p.CurrentHealth(), 70) {
		t.Errorf("CurrentHealth() = %v, want 70", p.CurrentHealth())
	}
	if !p.IsSlowed() {
		t.Error("hit should slow the player")
	}
	if !near(p.EffectiveSpeed(false), DefaultPlayerSpeed*DefaultHitSlowFactor) {
		t.Errorf("EffectiveSpeed(false) = %v", p.EffectiveSpeed(false))
	}
	if p.Speed() != DefaultPlayerSpeed {
		t.Errorf("slow-down must not touch Speed(), got %v", p.Speed())
	}

	p.TakeDamage(0)
	p.TakeDamage(-5)
	p.TakeDamage(500)
	p.TakeDamage(10)

	if !p.IsDead() || p.CurrentHealth() != 0 {
		t.Errorf("IsDead() = %v, CurrentHealth() = %v", p.IsDead(), p.CurrentHealth())
	}
	if deaths != 1 {
		t.Errorf("death hooks fired %d times, want 1", deaths)
	}
	if len(damaged) != 2 {
		t.Errorf("damage hooks fired %d times, want 2", len(damaged))
	}
}

func TestPlayer_Tick(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})
	p.TakeDamage(10)

	p.Tick(1)
	if !near(p.CurrentHealth(), 90.5) {
		t.Errorf("after 1s regen CurrentHealth() = %v, want 90.5", p.CurrentHealth())
	}

	p.SetRegenModifier(0)
	p.Tick(10)
	if !near(p.CurrentHealth(), 90.5) {
		t.Errorf("zero modifier regenerated: %v", p.CurrentHealth())
	}
	if p.IsSlowed() {
		t.Error("slow-down should have worn off")
	}

	p.SetRegenModifier(1)
	p.SetRegenRate(100)
	p.Tick(1)
	if p.CurrentHealth() != p.MaxHealth() {
		t.Errorf("regen not clamped: %v", p.CurrentHealth())
	}
}

func TestPlayer_HealthClamp(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})

	if got := p.Heal(50); got != 0 {
		t.Errorf("Heal at full = %v, want 0", got)
	}

	p.SetMaxHealthModifier(0.5)
	if p.MaxHealth() != 50 || p.CurrentHealth() != 50 {
		t.Errorf("MaxHealth() = %v, CurrentHealth() = %v, want 50/50", p.MaxHealth(), p.CurrentHealth())
	}
	if !near(p.HealthNormalized(), 1) {
		t.Errorf("HealthNormalized() = %v", p.HealthNormalized())
	}

	p.SetCurrentHealth(-10)
	if p.CurrentHealth() != 0 || p.IsDead() {
		t.Error("SetCurrentHealth clamps to 0 without killing")
	}
}

func TestPlayer_StaminaDrainAndRegen(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})

	if p.Stamina() != DefaultPlayerMaxStamina {
		t.Fatalf("Stamina() = %v, want full", p.Stamina())
	}

	if !p.Sprint(1) || !near(p.Stamina(), 75) {
		t.Errorf("after 1s sprint Stamina() = %v, want 75", p.Stamina())
	}
	p.Sprint(2)
	p.Sprint(1)
	if p.Stamina() != 0 {
		t.Errorf("Stamina() = %v, want clamped to 0", p.Stamina())
	}
	if p.Sprint(0.1) {
		t.Error("sprint with empty stamina")
	}

	// tick right after a sprint does not regenerate
	p.Tick(1)
	if p.Stamina() != 0 {
		t.Errorf("Stamina() = %v after sprint tick, want 0", p.Stamina())
	}
	p.Tick(1)
	if !near(p.Stamina(), DefaultStaminaRegenRate) {
		t.Errorf("Stamina() = %v, want %v", p.Stamina(), DefaultStaminaRegenRate)
	}
	p.Tick(10)
	if p.Stamina() != DefaultPlayerMaxStamina || p.StaminaNormalized() != 1 {
		t.Errorf("Stamina() = %v, want clamped to max", p.Stamina())
	}
}

func TestPlayer_SprintThresholdAndSpend(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})

	if !p.SpendStamina(90) || !near(p.Stamina(), DefaultMinStaminaToSprint) {
		t.Fatalf("Stamina() = %v, want %v", p.Stamina(), DefaultMinStaminaToSprint)
	}
	if p.Sprint(0.1) {
		t.Error("sprint allowed at the threshold")
	}
	if p.SpendStamina(20) || p.SpendStamina(-1) {
		t.Error("spend beyond stamina or negative cost accepted")
	}
	if !near(p.Stamina(), DefaultMinStaminaToSprint) {
		t.Errorf("failed spend changed stamina to %v", p.Stamina())
	}

	p.TakeDamage(1000)
	if p.SpendStamina(1) {
		t.Error("dead player spent stamina")
	}
}

func TestPlayer_SetForwardIgnoresZero(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})
	p.SetForward(Vec3{X: 3})
	p.SetForward(Vec3{})

	if p.Forward() != (Vec3{X: 1}) {
		t.Errorf("Forward() = %+v, want +X", p.Forward())
	}
}

func TestPlayer_ConcurrentDamage(t *testing.T) {
	p := NewPlayer(DefaultPlayerStats(), Vec3{})

	var mu sync.Mutex
	deaths := 0
	p.OnDeath(func() {
		mu.Lock()
		deaths++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.TakeDamage(1)
			p.Tick(0.01)
		}()
	}
	wg.Wait()

	if deaths > 1 {
		t.Errorf("death hooks fired %d times", deaths)
	}
}
