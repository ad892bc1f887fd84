// Package progress tracks what a run earns: experience and levels from
// kills, and the active contract objective.
package progress

import (
	"log/slog"
	"math"
	"sync"

	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/event"
	"github.com/udisondev/zsurvive/internal/model"
)

// RoundInfo exposes the round state kill rewards depend on.
// *round.Director implements it.
type RoundInfo interface {
	IsRoundActive() bool
	CurrentRound() int
}

// Experience awards XP for kills made during a round and levels the
// player up. It is the sink of the ExperienceBoost effect.
type Experience struct {
	mu sync.Mutex

	cfg    config.Experience
	rounds RoundInfo
	bus    *event.Bus
	sub    event.SubscriptionID

	current    int // xp into the current level
	total      int
	level      int
	toNext     int
	multiplier float64
}

// NewExperience creates a level 1 tracker. Call Attach to start
// listening for kills.
func NewExperience(cfg config.Experience, rounds RoundInfo, bus *event.Bus) *Experience {
	x := &Experience{
		cfg:        cfg,
		rounds:     rounds,
		bus:        bus,
		level:      1,
		multiplier: 1,
	}
	x.toNext = x.threshold(1)
	return x
}

// Attach subscribes to EnemyKilled.
func (x *Experience) Attach() {
	x.sub = x.bus.Subscribe(event.EnemyKilled, func(e event.Event) {
		x.OnEnemyKilled(e.Enemy)
	})
}

// Detach stops listening.
func (x *Experience) Detach() {
	x.bus.Unsubscribe(x.sub)
}

// OnEnemyKilled rewards a kill. Kills outside a round earn nothing.
func (x *Experience) OnEnemyKilled(e *model.Enemy) {
	if e == nil || x.rounds == nil || !x.rounds.IsRoundActive() {
		return
	}
	x.AddExperience(x.Reward(e.ExperienceReward(), x.rounds.CurrentRound()))
}

// Reward computes the XP for a kill worth base in round n with the
// current multiplier.
func (x *Experience) Reward(base, n int) int {
	x.mu.Lock()
	m := x.multiplier
	x.mu.Unlock()

	bonus := float64(max(n-1, 0)) * x.cfg.PerRoundBonus
	return int(math.Round(float64(base) * (1 + bonus) * m))
}

// AddExperience adds amount XP and applies every level-up it unlocks.
func (x *Experience) AddExperience(amount int) {
	if amount <= 0 {
		return
	}

	x.mu.Lock()
	x.current += amount
	x.total += amount

	var levels []int
	for x.toNext > 0 && x.current >= x.toNext {
		x.current -= x.toNext
		x.level++
		x.toNext = x.threshold(x.level)
		levels = append(levels, x.level)
	}
	x.mu.Unlock()

	x.bus.Publish(event.Event{Type: event.ExperienceGained, Amount: float64(amount)})
	for _, lvl := range levels {
		slog.Info("level up", "level", lvl)
		x.bus.Publish(event.Event{Type: event.LevelUp, Amount: float64(lvl)})
	}
}

// threshold is the XP needed to leave level lvl.
func (x *Experience) threshold(lvl int) int {
	return int(math.Round(float64(x.cfg.LevelBase) * math.Pow(x.cfg.LevelGrowth, float64(lvl-1))))
}

// ExperienceMultiplier returns the kill reward multiplier.
func (x *Experience) ExperienceMultiplier() float64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.multiplier
}

// SetExperienceMultiplier changes the kill reward multiplier.
func (x *Experience) SetExperienceMultiplier(m float64) {
	x.mu.Lock()
	x.multiplier = max(m, 0)
	x.mu.Unlock()

	slog.Debug("experience multiplier changed", "multiplier", m)
}

func (x *Experience) Level() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.level
}

// Current returns XP gathered toward the next level.
func (x *Experience) Current() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.current
}

func (x *Experience) Total() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.total
}

func (x *Experience) ToNextLevel() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.toNext
}

// Progress returns the fraction of the current level completed.
func (x *Experience) Progress() float64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.toNext <= 0 {
		return 0
	}
	return float64(x.current) / float64(x.toNext)
}
