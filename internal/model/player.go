package model

import "sync"

// Default player tuning.
const (
	DefaultPlayerMaxHealth   = 100.0
	DefaultPlayerSpeed       = 12.0
	DefaultPlayerSprintSpeed = 16.0
	DefaultPlayerRegenRate   = 0.5 // HP per second

	// Урон замедляет игрока на короткое время.
	DefaultHitSlowFactor   = 0.35
	DefaultHitSlowDuration = 1.5

	DefaultPlayerMaxStamina   = 100.0
	DefaultStaminaDrainRate   = 25.0 // per second of sprint
	DefaultStaminaRegenRate   = 15.0 // per second without sprint
	DefaultMinStaminaToSprint = 10.0
)

// PlayerStats are the tunables a player is created with.
type PlayerStats struct {
	MaxHealth       float64
	Speed           float64
	SprintSpeed     float64
	RegenRate       float64
	HitSlowFactor   float64
	HitSlowDuration float64

	MaxStamina         float64
	StaminaDrainRate   float64
	StaminaRegenRate   float64
	MinStaminaToSprint float64
}

// DefaultPlayerStats returns the stock survivor tuning.
func DefaultPlayerStats() PlayerStats {
	return PlayerStats{
		MaxHealth:       DefaultPlayerMaxHealth,
		Speed:           DefaultPlayerSpeed,
		SprintSpeed:     DefaultPlayerSprintSpeed,
		RegenRate:       DefaultPlayerRegenRate,
		HitSlowFactor:   DefaultHitSlowFactor,
		HitSlowDuration: DefaultHitSlowDuration,

		MaxStamina:         DefaultPlayerMaxStamina,
		StaminaDrainRate:   DefaultStaminaDrainRate,
		StaminaRegenRate:   DefaultStaminaRegenRate,
		MinStaminaToSprint: DefaultMinStaminaToSprint,
	}
}

// Player is the survivor controlled by the user.
//
// Speed, sprint speed, regen rate and the modifiers are owned by the
// effect system while an effect is active; other code reads them only.
// Health is mutated via TakeDamage / Heal / SetCurrentHealth and always
// stays within [0, MaxHealth()]. Stamina stays within [0, MaxStamina()].
type Player struct {
	mu sync.RWMutex

	position Vec3
	forward  Vec3

	baseMaxHealth     float64
	maxHealthModifier float64
	currentHealth     float64

	speed         float64
	sprintSpeed   float64
	regenRate     float64
	regenModifier float64

	hitSlowFactor   float64
	hitSlowDuration float64
	slowRemaining   float64

	stamina            float64
	maxStamina         float64
	staminaDrainRate   float64
	staminaRegenRate   float64
	minStaminaToSprint float64

	// set by Sprint, consumed by the next Tick
	sprinted bool

	dead bool

	onDamage []func(amount float64)
	onDeath  []func()
}

// NewPlayer creates a player at full health.
func NewPlayer(stats PlayerStats, position Vec3) *Player {
	return &Player{
		position:          position,
		forward:           Vec3{Z: 1},
		baseMaxHealth:     stats.MaxHealth,
		maxHealthModifier: 1,
		currentHealth:     stats.MaxHealth,
		speed:             stats.Speed,
		sprintSpeed:       stats.SprintSpeed,
		regenRate:         stats.RegenRate,
		regenModifier:     1,
		hitSlowFactor:     stats.HitSlowFactor,
		hitSlowDuration:   stats.HitSlowDuration,

		stamina:            max(stats.MaxStamina, 0),
		maxStamina:         max(stats.MaxStamina, 0),
		staminaDrainRate:   stats.StaminaDrainRate,
		staminaRegenRate:   stats.StaminaRegenRate,
		minStaminaToSprint: stats.MinStaminaToSprint,
	}
}

// OnDamage registers a hook called after every applied hit.
func (p *Player) OnDamage(fn func(amount float64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDamage = append(p.onDamage, fn)
}

// OnDeath registers a hook called once when health reaches zero.
func (p *Player) OnDeath(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDeath = append(p.onDeath, fn)
}

// Position returns current world position.
func (p *Player) Position() Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetPosition moves the player.
func (p *Player) SetPosition(pos Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

// Forward returns the facing direction.
func (p *Player) Forward() Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.forward
}

// SetForward sets the facing direction. Zero vectors are ignored.
func (p *Player) SetForward(dir Vec3) {
	dir = dir.Normalize()
	if dir.IsZero() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forward = dir
}

// IsDead returns true once health reached zero.
func (p *Player) IsDead() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dead
}

// CurrentHealth returns current HP.
func (p *Player) CurrentHealth() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentHealth
}

// SetCurrentHealth sets HP clamped to [0, MaxHealth]. Does not kill.
func (p *Player) SetCurrentHealth(hp float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return
	}
	p.currentHealth = clamp(hp, 0, p.maxHealthLocked())
}

// MaxHealth returns base max HP multiplied by the max-health modifier.
func (p *Player) MaxHealth() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxHealthLocked()
}

func (p *Player) maxHealthLocked() float64 {
	return p.baseMaxHealth * p.maxHealthModifier
}

// HealthNormalized returns HP in [0, 1] for HUD consumers.
func (p *Player) HealthNormalized() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	maxHP := p.maxHealthLocked()
	if maxHP <= 0 {
		return 0
	}
	return p.currentHealth / maxHP
}

// MaxHealthModifier returns the max-health multiplier (1 = none).
func (p *Player) MaxHealthModifier() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxHealthModifier
}

// SetMaxHealthModifier sets the max-health multiplier and re-clamps HP.
func (p *Player) SetMaxHealthModifier(m float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxHealthModifier = max(m, 0)
	p.currentHealth = clamp(p.currentHealth, 0, p.maxHealthLocked())
}

// Speed returns walk speed (effect-owned field, without hit slow-down).
func (p *Player) Speed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.speed
}

// SetSpeed sets walk speed.
func (p *Player) SetSpeed(s float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = max(s, 0)
}

// SprintSpeed returns sprint speed (effect-owned field).
func (p *Player) SprintSpeed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sprintSpeed
}

// SetSprintSpeed sets sprint speed.
func (p *Player) SetSprintSpeed(s float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sprintSpeed = max(s, 0)
}

// RegenRate returns base HP regen per second.
func (p *Player) RegenRate() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.regenRate
}

// SetRegenRate sets base HP regen per second.
func (p *Player) SetRegenRate(r float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regenRate = r
}

// RegenModifier returns the regen multiplier (1 = none).
func (p *Player) RegenModifier() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.regenModifier
}

// SetRegenModifier sets the regen multiplier.
func (p *Player) SetRegenModifier(m float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regenModifier = m
}

// EffectiveSpeed returns the movement speed used this frame,
// including the temporary slow-down after being hit.
func (p *Player) EffectiveSpeed(sprinting bool) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.speed
	if sprinting {
		s = p.sprintSpeed
	}
	if p.slowRemaining > 0 {
		s *= p.hitSlowFactor
	}
	return s
}

// IsSlowed reports whether the hit slow-down is active.
func (p *Player) IsSlowed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slowRemaining > 0
}

// Stamina returns current stamina.
func (p *Player) Stamina() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stamina
}

// MaxStamina returns the stamina cap.
func (p *Player) MaxStamina() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxStamina
}

// StaminaNormalized returns stamina in [0, 1] for HUD consumers.
func (p *Player) StaminaNormalized() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.maxStamina <= 0 {
		return 0
	}
	return p.stamina / p.maxStamina
}

// Sprint drains stamina for dt seconds of sprinting. Returns false, and
// drains nothing, when stamina is at or below the sprint threshold.
// A sprint suppresses stamina regen on the next Tick.
func (p *Player) Sprint(dt float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead || p.stamina <= p.minStaminaToSprint {
		return false
	}
	p.stamina = clamp(p.stamina-p.staminaDrainRate*max(dt, 0), 0, p.maxStamina)
	p.sprinted = true
	return true
}

// SpendStamina takes cost if the player has at least that much.
func (p *Player) SpendStamina(cost float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead || cost < 0 || p.stamina < cost {
		return false
	}
	p.stamina = clamp(p.stamina-cost, 0, p.maxStamina)
	return true
}

// Heal adds HP clamped to MaxHealth. Returns the amount actually healed.
func (p *Player) Heal(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return 0
	}
	before := p.currentHealth
	p.currentHealth = clamp(p.currentHealth+amount, 0, p.maxHealthLocked())
	return p.currentHealth - before
}

// TakeDamage subtracts HP, starts the hit slow-down and fires death hooks
// when HP reaches zero. Damage to a dead player is ignored.
func (p *Player) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}

	p.mu.Lock()
	if p.dead {
		p.mu.Unlock()
		return
	}

	p.currentHealth -= amount
	p.slowRemaining = p.hitSlowDuration

	died := false
	if p.currentHealth <= 0 {
		p.currentHealth = 0
		p.dead = true
		died = true
	}

	damageHooks := p.onDamage
	deathHooks := p.onDeath
	p.mu.Unlock()

	// Hooks run outside the lock: they read player state.
	for _, fn := range damageHooks {
		fn(amount)
	}
	if died {
		for _, fn := range deathHooks {
			fn()
		}
	}
}

// Tick regenerates HP and stamina and counts down the hit slow-down.
// Stamina does not regenerate on a tick that follows a sprint.
func (p *Player) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dead {
		return
	}

	if p.slowRemaining > 0 {
		p.slowRemaining = max(p.slowRemaining-dt, 0)
	}

	if p.sprinted {
		p.sprinted = false
	} else if p.stamina < p.maxStamina {
		p.stamina = clamp(p.stamina+p.staminaRegenRate*dt, 0, p.maxStamina)
	}

	maxHP := p.maxHealthLocked()
	if p.currentHealth < maxHP {
		p.currentHealth = clamp(p.currentHealth+p.regenRate*p.regenModifier*dt, 0, maxHP)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
