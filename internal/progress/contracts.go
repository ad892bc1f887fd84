package progress

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/event"
)

// Contracts tracks one active objective at a time. The board is walked in
// order; the first contract not completed yet becomes active, and the next
// one takes over when it completes.
type Contracts struct {
	mu sync.Mutex

	board     []config.Contract
	completed map[string]bool
	active    int // index into board, -1 when the board is exhausted
	progress  int

	bus        *event.Bus
	onComplete []func(config.Contract)
}

// NewContracts creates a tracker. completed are contract ids finished in
// earlier runs.
func NewContracts(board []config.Contract, completed []string, bus *event.Bus) *Contracts {
	c := &Contracts{
		board:     slices.Clone(board),
		completed: make(map[string]bool, len(completed)),
		active:    -1,
		bus:       bus,
	}
	for _, id := range completed {
		c.completed[id] = true
	}
	c.advanceLocked()
	return c
}

// OnCompleted registers a hook called after a contract completes.
func (c *Contracts) OnCompleted(fn func(config.Contract)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = append(c.onComplete, fn)
}

// Active returns the active contract.
func (c *Contracts) Active() (config.Contract, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active < 0 {
		return config.Contract{}, false
	}
	return c.board[c.active], true
}

// Progress returns progress of the active contract.
func (c *Contracts) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// IsCompleted reports whether contract id was ever completed.
func (c *Contracts) IsCompleted(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed[id]
}

// Completed returns completed contract ids, sorted.
func (c *Contracts) Completed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.completed))
	for id := range c.completed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ReportKill counts a kill toward kill and headshot contracts.
func (c *Contracts) ReportKill(headshot bool) {
	c.mu.Lock()
	if c.active < 0 {
		c.mu.Unlock()
		return
	}
	switch c.board[c.active].Type {
	case config.ContractKillZombies:
		c.progress++
	case config.ContractHeadshots:
		if !headshot {
			c.mu.Unlock()
			return
		}
		c.progress++
	default:
		c.mu.Unlock()
		return
	}
	c.checkAndPublish()
}

// ReportSurvivalTick counts one unit toward a low-health contract when hp
// is at or below its threshold. The session reports once per second.
func (c *Contracts) ReportSurvivalTick(hp float64) {
	c.mu.Lock()
	if c.active < 0 {
		c.mu.Unlock()
		return
	}
	active := c.board[c.active]
	if active.Type != config.ContractSurviveLowHP || hp > active.LowHealthThreshold {
		c.mu.Unlock()
		return
	}
	c.progress++
	c.checkAndPublish()
}

// checkAndPublish completes the active contract if its target is met,
// then releases mu.
func (c *Contracts) checkAndPublish() {
	active := c.board[c.active]
	if c.progress < active.Target {
		c.mu.Unlock()
		return
	}

	c.progress = active.Target
	c.completed[active.ID] = true
	c.advanceLocked()
	hooks := c.onComplete
	c.mu.Unlock()

	slog.Info("contract completed", "id", active.ID, "name", active.Name, "reward", active.Reward)
	c.bus.Publish(event.Event{Type: event.ContractCompleted, Name: active.ID})
	for _, fn := range hooks {
		fn(active)
	}
}

// advanceLocked activates the first contract not completed yet.
func (c *Contracts) advanceLocked() {
	c.active = -1
	c.progress = 0
	for i, ct := range c.board {
		if !c.completed[ct.ID] {
			c.active = i
			return
		}
	}
}
