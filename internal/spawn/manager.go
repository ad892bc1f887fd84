package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/udisondev/zsurvive/internal/ai"
	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/event"
	"github.com/udisondev/zsurvive/internal/model"
	"github.com/udisondev/zsurvive/internal/nav"
	"github.com/udisondev/zsurvive/internal/noise"
	"github.com/udisondev/zsurvive/internal/world"
)

// ErrUnknownTemplate is returned by Spawn for a template id that is not configured.
var ErrUnknownTemplate = errors.New("unknown enemy template")

// Deps are the session services a spawned enemy is wired into.
type Deps struct {
	World  *world.World
	AI     *ai.TickManager
	Noise  *noise.System
	Bus    *event.Bus
	Clock  clock.Clock
	Target ai.TargetFunc
	FX     ai.FX
	Rand   *rand.Rand
}

// Manager builds enemies from templates and owns their lifetime:
// body, navigation agent, brain and hearing registration.
type Manager struct {
	templates map[string]config.EnemyTemplate
	deps      Deps
	ids       *world.ObjectIDGenerator

	mu     sync.Mutex
	rng    *rand.Rand
	agents map[uint32]*nav.Agent // objectID → agent

	spawnCount atomic.Int32 // live enemies (O(1) access)
}

// NewManager creates a spawn manager for the given templates.
func NewManager(templates []config.EnemyTemplate, deps Deps) *Manager {
	if deps.FX == nil {
		deps.FX = ai.NopFX{}
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	byID := make(map[string]config.EnemyTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	return &Manager{
		templates: byID,
		deps:      deps,
		ids:       world.NewObjectIDGenerator(),
		rng:       rng,
		agents:    make(map[uint32]*nav.Agent),
	}
}

// HasTemplate reports whether id is a configured template.
func (m *Manager) HasTemplate(id string) bool {
	_, ok := m.templates[id]
	return ok
}

// Spawn creates one enemy of template at point with the round's speed and
// damage, and registers it with the world, the AI tick manager and the
// noise system. Flyers spawn at their hover height.
func (m *Manager) Spawn(template string, point model.Vec3, params model.RoundParams) error {
	tmpl, ok := m.templates[template]
	if !ok {
		return fmt.Errorf("spawning %q: %w", template, ErrUnknownTemplate)
	}

	if tmpl.Kind == model.KindUFO && tmpl.HoverHeight > 0 {
		point.Y = tmpl.HoverHeight
	}

	objectID := m.ids.NextEnemyID()
	enemy := model.NewEnemy(objectID, enemySpec(tmpl, params), point)

	if err := m.deps.World.AddEnemy(enemy); err != nil {
		return fmt.Errorf("adding enemy to world: %w", err)
	}

	agent := nav.NewAgent(enemy, m.deps.World, params.Speed)
	if tmpl.Kind == model.KindUFO {
		agent.SetHoverHeight(tmpl.HoverHeight)
	}

	m.mu.Lock()
	brainRng := rand.New(rand.NewPCG(m.rng.Uint64(), m.rng.Uint64()))
	m.agents[objectID] = agent
	m.mu.Unlock()
	m.spawnCount.Add(1)

	deps := ai.Deps{
		Clock:   m.deps.Clock,
		Nav:     agent,
		Terrain: m.deps.World,
		Target:  m.deps.Target,
		FX:      m.deps.FX,
		Rand:    brainRng,
	}

	var brain ai.Controller
	switch tmpl.Kind {
	case model.KindUFO:
		brain = ai.NewUFOAI(enemy, behaviour(tmpl), deps)
	default:
		brain = ai.NewZombieAI(enemy, behaviour(tmpl), deps)
	}

	enemy.OnDeath(m.onDeath)

	m.deps.AI.Register(objectID, brain)
	if m.deps.Noise != nil {
		m.deps.Noise.Register(objectID, brain)
	}

	slog.Info("enemy spawned",
		"objectID", objectID,
		"template", tmpl.ID,
		"kind", tmpl.Kind,
		"round", params.Round,
		"speed", params.Speed,
		"damage", params.Damage,
		"position", point)

	return nil
}

// onDeath publishes both kill notifications, then removes the enemy.
func (m *Manager) onDeath(e *model.Enemy) {
	m.deps.Bus.Publish(event.Event{Type: event.EnemyKilled, Enemy: e})
	m.deps.Bus.Publish(event.Event{Type: event.ZombieKilledForRound, Round: e.Round()})

	m.Despawn(e.ObjectID())
}

// Despawn removes an enemy from the simulation. Unknown ids are ignored.
func (m *Manager) Despawn(objectID uint32) {
	m.mu.Lock()
	_, ok := m.agents[objectID]
	delete(m.agents, objectID)
	m.mu.Unlock()

	if !ok {
		return
	}
	m.spawnCount.Add(-1)

	m.deps.AI.Unregister(objectID)
	if m.deps.Noise != nil {
		m.deps.Noise.Unregister(objectID)
	}
	m.deps.World.RemoveEnemy(objectID)

	slog.Debug("enemy despawned", "objectID", objectID)
}

// DespawnAll removes every live enemy. Used on session teardown.
func (m *Manager) DespawnAll() {
	m.mu.Lock()
	ids := make([]uint32, 0, len(m.agents))
	for id := range m.agents {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Despawn(id)
	}

	if len(ids) > 0 {
		slog.Info("all enemies despawned", "count", len(ids))
	}
}

// StepAll moves every agent by dt, then refiles the world index.
func (m *Manager) StepAll(dt float64) {
	m.mu.Lock()
	agents := make([]*nav.Agent, 0, len(m.agents))
	for _, a := range m.agents {
		agents = append(agents, a)
	}
	m.mu.Unlock()

	for _, a := range agents {
		a.Step(dt)
	}
	m.deps.World.Reindex()
}

// Agent returns the navigation agent of an enemy.
func (m *Manager) Agent(objectID uint32) (*nav.Agent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[objectID]
	return a, ok
}

// Count returns the number of live enemies (O(1) cached count).
func (m *Manager) Count() int {
	return int(m.spawnCount.Load())
}

func enemySpec(t config.EnemyTemplate, params model.RoundParams) model.EnemySpec {
	return model.EnemySpec{
		TemplateID:       t.ID,
		Kind:             t.Kind,
		MaxHealth:        t.MaxHealth,
		Speed:            params.Speed,
		AttackDamage:     params.Damage,
		AttackRange:      t.AttackRange,
		AttackCooldown:   t.AttackCooldown,
		ExperienceReward: t.ExperienceReward,
		BodyRadius:       t.BodyRadius,
		HeadHeight:       t.HeadHeight,
		HeadRadius:       t.HeadRadius,
		Round:            params.Round,
	}
}

func behaviour(t config.EnemyTemplate) ai.Params {
	return ai.Params{
		SightRange:        t.SightRange,
		ViewAngle:         t.ViewAngle,
		EyeHeight:         t.EyeHeight,
		HearingForgetTime: t.HearingForgetTime,
		WanderRadius:      t.WanderRadius,
		WanderPointDelay:  t.WanderPointDelay,
		ArrivalDistance:   t.ArrivalDistance,
		AttackAnimation:   t.AttackAnimation,
		ChargeDuration:    t.ChargeDuration,
		BeamDuration:      t.BeamDuration,
		ChargeMoveFactor:  t.ChargeMoveFactor,
	}
}
