// Package noise turns loud actions into hearing stimuli for nearby enemies.
//
// Callers report a loudness multiplier; the system converts it into a
// detection radius and notifies every listening enemy inside it.
package noise

import (
	"log/slog"
	"math"
	"sync"

	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/model"
)

// Default tuning.
const (
	DefaultBaseRadius = 50.0
	DefaultCooldown   = 0.3
)

// Listener reacts to a heard noise.
type Listener interface {
	OnHeardNoise(origin model.Vec3)
}

// Index finds enemies inside a sphere. *world.World implements it.
type Index interface {
	ForEachWithin(center model.Vec3, radius float64, fn func(*model.Enemy) bool)
}

// System broadcasts noises to registered listeners.
type System struct {
	clock      clock.Clock
	index      Index
	baseRadius float64
	cooldown   float64

	mu        sync.RWMutex
	listeners map[uint32]Listener // objectID → listener
}

// NewSystem creates a noise system. cooldown is the default per-emitter
// cooldown for emitters created with NewEmitter.
func NewSystem(clk clock.Clock, index Index, baseRadius, cooldown float64) *System {
	return &System{
		clock:      clk,
		index:      index,
		baseRadius: baseRadius,
		cooldown:   cooldown,
		listeners:  make(map[uint32]Listener),
	}
}

// Register attaches a listener to the enemy with objectID.
func (s *System) Register(objectID uint32, l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[objectID] = l
}

// Unregister detaches the listener of objectID.
func (s *System) Unregister(objectID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, objectID)
}

// Radius returns the detection radius for a noise of the given power.
func (s *System) Radius(power float64) float64 {
	return s.baseRadius * max(power, 0)
}

// Broadcast notifies every listening enemy within Radius(power) of origin.
// Returns the number of listeners notified.
func (s *System) Broadcast(origin model.Vec3, power float64) int {
	radius := s.Radius(power)

	var heard []Listener
	s.mu.RLock()
	s.index.ForEachWithin(origin, radius, func(e *model.Enemy) bool {
		if l, ok := s.listeners[e.ObjectID()]; ok {
			heard = append(heard, l)
		}
		return true
	})
	s.mu.RUnlock()

	for _, l := range heard {
		l.OnHeardNoise(origin)
	}
	return len(heard)
}

// Emitter is a noisy actor with its own cooldown.
type Emitter struct {
	system   *System
	source   func() model.Vec3
	cooldown float64

	mu        sync.Mutex
	lastNoise float64
}

// NewEmitter creates an emitter whose noises originate at source().
func (s *System) NewEmitter(source func() model.Vec3) *Emitter {
	return &Emitter{
		system:    s,
		source:    source,
		cooldown:  s.cooldown,
		lastNoise: math.Inf(-1),
	}
}

// MakeNoise broadcasts a noise of the given power unless the emitter is
// still cooling down. Returns true if the noise was emitted.
func (em *Emitter) MakeNoise(power float64) bool {
	now := em.system.clock.Now()

	em.mu.Lock()
	if now-em.lastNoise < em.cooldown {
		em.mu.Unlock()
		return false
	}
	em.lastNoise = now
	em.mu.Unlock()

	origin := em.source()
	n := em.system.Broadcast(origin, power)
	slog.Debug("noise emitted", "power", power, "radius", em.system.Radius(power), "heard", n)
	return true
}
