// Package event is the session-owned notification bus.
//
// Producers (round director, spawner, effect system, progress trackers)
// publish; consumers (HUD, experience, contracts, persistence) subscribe.
// Delivery is synchronous, in subscription order, on the publisher's
// goroutine. Publishing without subscribers is a no-op.
package event

import (
	"sync"

	"github.com/udisondev/zsurvive/internal/model"
)

// Type identifies a notification.
type Type uint8

const (
	RoundStarted Type = iota + 1
	RoundEnded
	BreakStarted
	TimerUpdated
	EnemyKilled
	ZombieKilledForRound
	EffectApplied
	EffectRemoved
	PlayerDamaged
	PlayerDied
	ExperienceGained
	LevelUp
	ContractCompleted
)

// String returns human-readable event name
func (t Type) String() string {
	switch t {
	case RoundStarted:
		return "RoundStarted"
	case RoundEnded:
		return "RoundEnded"
	case BreakStarted:
		return "BreakStarted"
	case TimerUpdated:
		return "TimerUpdated"
	case EnemyKilled:
		return "EnemyKilled"
	case ZombieKilledForRound:
		return "ZombieKilledForRound"
	case EffectApplied:
		return "EffectApplied"
	case EffectRemoved:
		return "EffectRemoved"
	case PlayerDamaged:
		return "PlayerDamaged"
	case PlayerDied:
		return "PlayerDied"
	case ExperienceGained:
		return "ExperienceGained"
	case LevelUp:
		return "LevelUp"
	case ContractCompleted:
		return "ContractCompleted"
	default:
		return "Unknown"
	}
}

// Event is a notification. Only the fields relevant to Type are set.
type Event struct {
	Type Type

	Round   int          // RoundStarted, RoundEnded
	Seconds float64      // TimerUpdated
	Enemy   *model.Enemy // EnemyKilled
	Name    string       // EffectApplied/EffectRemoved (effect), ContractCompleted (contract id)
	Amount  float64      // PlayerDamaged (hp), ExperienceGained (xp), LevelUp (level)
}

// Handler consumes an event.
type Handler func(Event)

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus fans events out to subscribers.
type Bus struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[Type][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe registers handler for events of type t.
func (b *Bus) Subscribe(t Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for t, subs := range b.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			// copy-on-write: Publish may be iterating the old slice
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.handlers[t] = next
			return
		}
	}
}

// Publish delivers e to every subscriber of e.Type.
// Handlers may subscribe, unsubscribe or publish re-entrantly.
// A nil bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := b.handlers[e.Type]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}

// Count returns the number of subscribers for t.
func (b *Bus) Count(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}
