package session

import (
	"slices"
	"sync"

	"github.com/udisondev/zsurvive/internal/config"
)

// Inventory is the run's loadout. Potion slots empty when drunk; boost
// slots are read once at Start.
type Inventory struct {
	mu      sync.Mutex
	potions []string
	boosts  []string
}

func newInventory(l config.Loadout) *Inventory {
	return &Inventory{
		potions: slices.Clone(l.Potions),
		boosts:  slices.Clone(l.Boosts),
	}
}

// Potions returns the potion slots; "" marks an empty slot.
func (inv *Inventory) Potions() []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return slices.Clone(inv.potions)
}

// Boosts returns the boost slots.
func (inv *Inventory) Boosts() []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return slices.Clone(inv.boosts)
}

// Has reports whether a slot holds potion name.
func (inv *Inventory) Has(name string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return slices.Contains(inv.potions, name)
}

// slot returns the index of the first slot holding name, or -1.
func (inv *Inventory) slot(name string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if name == "" {
		return -1
	}
	return slices.Index(inv.potions, name)
}

// clear empties slot i.
func (inv *Inventory) clear(i int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if i >= 0 && i < len(inv.potions) {
		inv.potions[i] = ""
	}
}
