package model

import "sync"

// EnemyKind selects the behaviour controller of a hostile.
type EnemyKind string

const (
	KindZombie EnemyKind = "zombie"
	KindUFO    EnemyKind = "ufo"
)

// EnemySpec describes a hostile at spawn time.
// Combat values come from the template, Speed and AttackDamage from the
// round curve.
type EnemySpec struct {
	TemplateID       string
	Kind             EnemyKind
	MaxHealth        float64
	Speed            float64
	AttackDamage     float64
	AttackRange      float64
	AttackCooldown   float64
	ExperienceReward int
	BodyRadius       float64
	HeadHeight       float64
	HeadRadius       float64
	Round            int
}

// Enemy is one spawned hostile agent.
//
// Health is mutated only through TakeDamage. Once health reaches zero the
// enemy is dead for good and death hooks have fired exactly once.
type Enemy struct {
	mu sync.RWMutex

	objectID uint32
	spec     EnemySpec

	health   float64
	position Vec3
	forward  Vec3
	dead     bool

	onDeath []func(*Enemy)
}

// NewEnemy creates a hostile at full health.
func NewEnemy(objectID uint32, spec EnemySpec, position Vec3) *Enemy {
	return &Enemy{
		objectID: objectID,
		spec:     spec,
		health:   spec.MaxHealth,
		position: position,
		forward:  Vec3{Z: 1},
	}
}

// ObjectID returns the unique id assigned by the spawner.
func (e *Enemy) ObjectID() uint32 { return e.objectID }

// TemplateID returns the template this enemy was built from.
func (e *Enemy) TemplateID() string { return e.spec.TemplateID }

// Kind returns the behaviour kind.
func (e *Enemy) Kind() EnemyKind { return e.spec.Kind }

// Round returns the round the enemy was spawned in.
func (e *Enemy) Round() int { return e.spec.Round }

func (e *Enemy) MaxHealth() float64      { return e.spec.MaxHealth }
func (e *Enemy) Speed() float64          { return e.spec.Speed }
func (e *Enemy) AttackDamage() float64   { return e.spec.AttackDamage }
func (e *Enemy) AttackRange() float64    { return e.spec.AttackRange }
func (e *Enemy) AttackCooldown() float64 { return e.spec.AttackCooldown }
func (e *Enemy) ExperienceReward() int   { return e.spec.ExperienceReward }
func (e *Enemy) BodyRadius() float64     { return e.spec.BodyRadius }

// HeadCenter returns the centre of the head hit sphere.
func (e *Enemy) HeadCenter() Vec3 {
	return e.Position().Add(Up.Scale(e.spec.HeadHeight))
}

// HeadHeight returns the head centre height above Position.
func (e *Enemy) HeadHeight() float64 { return e.spec.HeadHeight }

// HeadRadius returns the head hit sphere radius.
func (e *Enemy) HeadRadius() float64 { return e.spec.HeadRadius }

// OnDeath registers a hook fired once when the enemy dies.
func (e *Enemy) OnDeath(fn func(*Enemy)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDeath = append(e.onDeath, fn)
}

// Health returns current HP.
func (e *Enemy) Health() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.health
}

// IsDead returns true after the killing blow.
func (e *Enemy) IsDead() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dead
}

// Position returns current world position.
func (e *Enemy) Position() Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// SetPosition moves the enemy. Called by its navigation agent.
func (e *Enemy) SetPosition(pos Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = pos
}

// Forward returns the facing direction.
func (e *Enemy) Forward() Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.forward
}

// SetForward sets the facing direction. Zero vectors are ignored.
func (e *Enemy) SetForward(dir Vec3) {
	dir = dir.Normalize()
	if dir.IsZero() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forward = dir
}

// TakeDamage subtracts HP. Returns true if this hit killed the enemy.
// Hits on a dead enemy are ignored.
func (e *Enemy) TakeDamage(amount float64) bool {
	if amount <= 0 {
		return false
	}

	e.mu.Lock()
	if e.dead {
		e.mu.Unlock()
		return false
	}
	e.health -= amount
	if e.health > 0 {
		e.mu.Unlock()
		return false
	}
	e.health = 0
	e.dead = true
	hooks := e.onDeath
	e.mu.Unlock()

	for _, fn := range hooks {
		fn(e)
	}
	return true
}
