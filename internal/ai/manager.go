package ai

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// TickManager drives all registered enemy brains.
//
// The session calls Think for every controller, moves the agents, then
// calls Act. Controllers run in registration order so a tick is
// deterministic for a given spawn sequence.
type TickManager struct {
	mu          sync.RWMutex
	controllers map[uint32]Controller // objectID → controller
	order       []uint32

	controllerCount atomic.Int32 // cached count of controllers (O(1) access)
}

// NewTickManager creates new AI tick manager
func NewTickManager() *TickManager {
	return &TickManager{
		controllers: make(map[uint32]Controller),
	}
}

// Register registers and starts the controller of an enemy.
// Re-registering an id replaces (and stops) the previous controller.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	old, exists := m.controllers[objectID]
	m.controllers[objectID] = controller
	if !exists {
		m.order = append(m.order, objectID)
		m.controllerCount.Add(1)
	}
	m.mu.Unlock()

	if exists {
		old.Stop()
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"state", controller.State())
}

// Unregister stops and removes the controller of an enemy.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.controllers, objectID)
	for i, id := range m.order {
		if id == objectID {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	m.controllerCount.Add(-1)
	m.mu.Unlock()

	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// UnregisterAll stops and removes every controller.
func (m *TickManager) UnregisterAll() {
	for _, c := range m.snapshot() {
		m.Unregister(c.Enemy().ObjectID())
	}
}

// Think runs the perception/decision pass over all controllers.
func (m *TickManager) Think(now float64) {
	for _, c := range m.snapshot() {
		c.Think(now)
	}
}

// Act runs the attack pass over all controllers.
func (m *TickManager) Act(now float64) {
	count := 0
	for _, c := range m.snapshot() {
		c.Act(now)
		count++
	}

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", count)
	}
}

// snapshot returns controllers in registration order.
// Controllers may unregister (die) during a pass without affecting it.
func (m *TickManager) snapshot() []Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.controllers[id])
	}
	return out
}

// Count returns number of registered controllers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller of an enemy.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.controllers[objectID]
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	return c, nil
}
