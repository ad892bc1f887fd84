package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/zsurvive/internal/model"
)

// Region is one grid cell holding the enemies whose position falls in it.
// Snapshot reads are lock-free until the cell changes.
type Region struct {
	rx, rz int32

	mu      sync.RWMutex
	enemies map[uint32]*model.Enemy

	snapshotCache atomic.Value // []*model.Enemy (immutable after rebuild)
	snapshotDirty atomic.Bool
}

// NewRegion creates an empty region.
func NewRegion(rx, rz int32) *Region {
	r := &Region{
		rx:      rx,
		rz:      rz,
		enemies: make(map[uint32]*model.Enemy),
	}
	r.snapshotDirty.Store(true)
	return r
}

// RX returns region X index
func (r *Region) RX() int32 { return r.rx }

// RZ returns region Z index
func (r *Region) RZ() int32 { return r.rz }

// Add puts an enemy into the region.
func (r *Region) Add(e *model.Enemy) {
	r.mu.Lock()
	r.enemies[e.ObjectID()] = e
	r.mu.Unlock()
	r.snapshotDirty.Store(true)
}

// Remove takes an enemy out of the region.
func (r *Region) Remove(objectID uint32) {
	r.mu.Lock()
	delete(r.enemies, objectID)
	r.mu.Unlock()
	r.snapshotDirty.Store(true)
}

// Len returns number of enemies in the region.
func (r *Region) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.enemies)
}

// Snapshot returns the enemies in the region.
// IMPORTANT: Returned slice is immutable — DO NOT modify.
func (r *Region) Snapshot() []*model.Enemy {
	if !r.snapshotDirty.Load() {
		if cache := r.snapshotCache.Load(); cache != nil {
			return cache.([]*model.Enemy)
		}
	}
	return r.rebuildSnapshot()
}

func (r *Region) rebuildSnapshot() []*model.Enemy {
	r.mu.RLock()
	enemies := make([]*model.Enemy, 0, len(r.enemies))
	for _, e := range r.enemies {
		enemies = append(enemies, e)
	}
	// dirty flag is cleared under the read lock so a concurrent Add
	// (which needs the write lock) marks the cache dirty again afterwards
	r.snapshotCache.Store(enemies)
	r.snapshotDirty.Store(false)
	r.mu.RUnlock()

	return enemies
}
