package effect

import (
	"log/slog"
	"sync"

	"github.com/udisondev/zsurvive/internal/event"
)

// active tracks a running effect.
type active struct {
	effect     Effect
	elapsed    float64
	roundsLeft int
}

// expired reports whether a Timed effect has used up its duration.
func (a *active) expired() bool {
	return a.effect.Lifetime().Mode == Timed && a.elapsed >= a.effect.Lifetime().Duration
}

// System tracks the active effects of one actor.
//
// Thread-safe: all methods are protected by sync.Mutex.
// Effect hooks run under the lock; notifications are published after it is
// released so subscribers may query the system.
type System struct {
	mu     sync.Mutex
	target Target
	bus    *event.Bus

	effects []*active
}

// NewSystem creates an effect system for target. bus may be nil.
func NewSystem(target Target, bus *event.Bus) *System {
	return &System{
		target:  target,
		bus:     bus,
		effects: make([]*active, 0, 8),
	}
}

// Apply activates e. Returns false (no-op) if an effect of the same kind is
// already active.
func (s *System) Apply(e Effect) bool {
	s.mu.Lock()
	for _, a := range s.effects {
		if a.effect.Kind() == e.Kind() {
			s.mu.Unlock()
			slog.Debug("effect already active, rejected", "kind", e.Kind())
			return false
		}
	}

	e.Apply(s.target)
	s.effects = append(s.effects, &active{
		effect:     e,
		roundsLeft: e.Lifetime().Rounds,
	})
	s.mu.Unlock()

	slog.Debug("effect applied", "kind", e.Kind(), "lifetime", e.Lifetime().Mode)
	s.bus.Publish(event.Event{Type: event.EffectApplied, Name: string(e.Kind())})
	return true
}

// Tick advances Timed effects by dt seconds and removes expired ones.
func (s *System) Tick(dt float64) {
	s.mu.Lock()
	removed := s.filter(func(a *active) bool {
		if a.effect.Lifetime().Mode != Timed {
			return true
		}
		a.elapsed += dt
		return !a.expired()
	})
	s.mu.Unlock()

	s.notifyRemoved(removed)
}

// OnRoundEnd decrements RoundBased effects and removes the exhausted ones.
func (s *System) OnRoundEnd() {
	s.mu.Lock()
	removed := s.filter(func(a *active) bool {
		if a.effect.Lifetime().Mode != RoundBased {
			return true
		}
		a.roundsLeft--
		return a.roundsLeft > 0
	})
	s.mu.Unlock()

	s.notifyRemoved(removed)
}

// Remove deactivates e. No-op if e is not active.
func (s *System) Remove(e Effect) {
	s.mu.Lock()
	removed := s.filter(func(a *active) bool { return a.effect != e })
	s.mu.Unlock()

	if len(removed) == 0 {
		slog.Debug("effect not active, remove ignored", "kind", e.Kind())
		return
	}
	s.notifyRemoved(removed)
}

// RemoveKind deactivates the active effect of kind k, if any.
func (s *System) RemoveKind(k Kind) {
	s.mu.Lock()
	removed := s.filter(func(a *active) bool { return a.effect.Kind() != k })
	s.mu.Unlock()

	s.notifyRemoved(removed)
}

// ClearAllEffects removes every active effect, newest first, so stat
// changes unwind in reverse order of application.
func (s *System) ClearAllEffects() {
	s.mu.Lock()
	removed := make([]Kind, 0, len(s.effects))
	for i := len(s.effects) - 1; i >= 0; i-- {
		a := s.effects[i]
		a.effect.Remove(s.target)
		removed = append(removed, a.effect.Kind())
	}
	s.effects = s.effects[:0]
	s.mu.Unlock()

	s.notifyRemoved(removed)
}

// IsActive reports whether an effect of kind k is active.
func (s *System) IsActive(k Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.effects {
		if a.effect.Kind() == k {
			return true
		}
	}
	return false
}

// Active returns the kinds of active effects in application order.
func (s *System) Active() []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := make([]Kind, len(s.effects))
	for i, a := range s.effects {
		kinds[i] = a.effect.Kind()
	}
	return kinds
}

// Count returns the number of active effects.
func (s *System) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.effects)
}

// filter keeps effects for which keep returns true, calling Remove on the rest.
// Must be called with mu held.
func (s *System) filter(keep func(*active) bool) []Kind {
	var removed []Kind
	n := 0
	for _, a := range s.effects {
		if keep(a) {
			s.effects[n] = a
			n++
			continue
		}
		a.effect.Remove(s.target)
		removed = append(removed, a.effect.Kind())
	}
	clear(s.effects[n:])
	s.effects = s.effects[:n]
	return removed
}

func (s *System) notifyRemoved(kinds []Kind) {
	for _, k := range kinds {
		slog.Debug("effect removed", "kind", k)
		s.bus.Publish(event.Event{Type: event.EffectRemoved, Name: string(k)})
	}
}
