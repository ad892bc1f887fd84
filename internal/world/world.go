package world

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/udisondev/zsurvive/internal/model"
)

// sampleAttempts bounds SampleReachable retries before giving up.
const sampleAttempts = 30

// World is the arena: bounds, static obstacles and a grid index of live
// enemies. One World per session.
type World struct {
	min, max  model.Vec3
	grid      Grid
	obstacles []Box

	regions [][]*Region // [CellsX][CellsZ]

	mu      sync.RWMutex
	enemies map[uint32]*model.Enemy
	cells   map[uint32][2]int32 // objectID → region the enemy is filed under
}

// New creates an arena covering [lo, hi] with the given obstacles.
func New(lo, hi model.Vec3, cellSize float64, obstacles []Box) *World {
	g := NewGrid(lo, hi, cellSize)
	w := &World{
		min:       lo,
		max:       hi,
		grid:      g,
		obstacles: obstacles,
		enemies:   make(map[uint32]*model.Enemy),
		cells:     make(map[uint32][2]int32),
	}

	w.regions = make([][]*Region, g.CellsX)
	for rx := range g.CellsX {
		w.regions[rx] = make([]*Region, g.CellsZ)
		for rz := range g.CellsZ {
			w.regions[rx][rz] = NewRegion(rx, rz)
		}
	}
	return w
}

// Bounds returns the arena corners.
func (w *World) Bounds() (lo, hi model.Vec3) {
	return w.min, w.max
}

// Grid returns the region grid.
func (w *World) Grid() Grid {
	return w.grid
}

// Obstacles returns the static obstacles.
// IMPORTANT: Returned slice is immutable — DO NOT modify.
func (w *World) Obstacles() []Box {
	return w.obstacles
}

// InBounds reports whether pos lies inside the arena footprint.
func (w *World) InBounds(pos model.Vec3) bool {
	return pos.X >= w.min.X && pos.X <= w.max.X && pos.Z >= w.min.Z && pos.Z <= w.max.Z
}

// ClampToBounds pulls pos into the arena box.
func (w *World) ClampToBounds(pos model.Vec3) model.Vec3 {
	return model.Vec3{
		X: math.Max(w.min.X, math.Min(pos.X, w.max.X)),
		Y: math.Max(w.min.Y, math.Min(pos.Y, w.max.Y)),
		Z: math.Max(w.min.Z, math.Min(pos.Z, w.max.Z)),
	}
}

// GetRegionByIndex returns region at index (rx, rz), nil if out of bounds.
func (w *World) GetRegionByIndex(rx, rz int32) *Region {
	if !w.grid.IsValidRegionIndex(rx, rz) {
		return nil
	}
	return w.regions[rx][rz]
}

// AddEnemy registers a live enemy. Position must lie inside the arena.
func (w *World) AddEnemy(e *model.Enemy) error {
	pos := e.Position()
	if !w.InBounds(pos) {
		return fmt.Errorf("enemy %d outside arena at (%.1f, %.1f)", e.ObjectID(), pos.X, pos.Z)
	}

	rx, rz := w.grid.CoordToRegionIndex(pos)

	w.mu.Lock()
	w.enemies[e.ObjectID()] = e
	w.cells[e.ObjectID()] = [2]int32{rx, rz}
	w.mu.Unlock()

	w.regions[rx][rz].Add(e)
	return nil
}

// RemoveEnemy unregisters an enemy. Unknown ids are ignored.
func (w *World) RemoveEnemy(objectID uint32) {
	w.mu.Lock()
	cell, ok := w.cells[objectID]
	delete(w.enemies, objectID)
	delete(w.cells, objectID)
	w.mu.Unlock()

	if ok {
		w.regions[cell[0]][cell[1]].Remove(objectID)
	}
}

// GetEnemy returns enemy by ObjectID.
func (w *World) GetEnemy(objectID uint32) (*model.Enemy, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.enemies[objectID]
	return e, ok
}

// EnemyCount returns number of registered enemies.
func (w *World) EnemyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.enemies)
}

// Enemies returns all registered enemies (new slice).
func (w *World) Enemies() []*model.Enemy {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*model.Enemy, 0, len(w.enemies))
	for _, e := range w.enemies {
		out = append(out, e)
	}
	return out
}

// Reindex refiles enemies whose position moved into another region.
// Called once per tick after movement.
func (w *World) Reindex() {
	type move struct {
		e        *model.Enemy
		from, to [2]int32
	}
	var moves []move

	w.mu.Lock()
	for id, e := range w.enemies {
		rx, rz := w.grid.CoordToRegionIndex(e.Position())
		to := [2]int32{rx, rz}
		from := w.cells[id]
		if from != to {
			w.cells[id] = to
			moves = append(moves, move{e: e, from: from, to: to})
		}
	}
	w.mu.Unlock()

	for _, m := range moves {
		w.regions[m.from[0]][m.from[1]].Remove(m.e.ObjectID())
		w.regions[m.to[0]][m.to[1]].Add(m.e)
	}
}

// ForEachWithin calls fn for every live enemy within radius of center
// (3D distance). If fn returns false, iteration stops.
func (w *World) ForEachWithin(center model.Vec3, radius float64, fn func(*model.Enemy) bool) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	minX, minZ, maxX, maxZ := w.grid.RegionsWithin(center, radius)
	for rx := minX; rx <= maxX; rx++ {
		for rz := minZ; rz <= maxZ; rz++ {
			for _, e := range w.regions[rx][rz].Snapshot() {
				if e.IsDead() || e.Position().DistSquared(center) > r2 {
					continue
				}
				if !fn(e) {
					return
				}
			}
		}
	}
}

// LineOfSight reports whether the segment from → to is not blocked by any
// obstacle.
func (w *World) LineOfSight(from, to model.Vec3) bool {
	delta := to.Sub(from)
	for _, b := range w.obstacles {
		if t, ok := b.intersectRay(from, delta); ok && t <= 1 {
			return false
		}
	}
	return true
}

// Blocked reports whether pos is inside an obstacle footprint.
func (w *World) Blocked(pos model.Vec3) bool {
	for _, b := range w.obstacles {
		if b.ContainsXZ(pos) {
			return true
		}
	}
	return false
}

// SampleReachable picks a random walkable point within radius of center
// on the XZ plane. Returns false if no point was found.
func (w *World) SampleReachable(center model.Vec3, radius float64, rng *rand.Rand) (model.Vec3, bool) {
	for range sampleAttempts {
		angle := rng.Float64() * 2 * math.Pi
		dist := radius * math.Sqrt(rng.Float64())
		p := model.Vec3{
			X: center.X + dist*math.Cos(angle),
			Y: center.Y,
			Z: center.Z + dist*math.Sin(angle),
		}
		p = w.ClampToBounds(p)
		if !w.Blocked(p) {
			return p, true
		}
	}
	return model.Vec3{}, false
}

// RayHit is the nearest enemy volume crossed by a ray.
type RayHit struct {
	Enemy    *model.Enemy
	Distance float64
	Headshot bool
}

// NearestOnRay returns the nearest live enemy hit by the ray within
// maxDist. Obstacles in front of the enemy block the hit.
// Each enemy is a vertical body cylinder topped by a head sphere.
func (w *World) NearestOnRay(origin, dir model.Vec3, maxDist float64) (RayHit, bool) {
	dir = dir.Normalize()
	if dir.IsZero() || maxDist <= 0 {
		return RayHit{}, false
	}

	best := RayHit{Distance: math.Inf(1)}
	for _, e := range w.Enemies() {
		if e.IsDead() {
			continue
		}
		pos := e.Position()
		if t, ok := raySphere(origin, dir, e.HeadCenter(), e.HeadRadius()); ok && t < best.Distance {
			best = RayHit{Enemy: e, Distance: t, Headshot: true}
		}
		height := max(e.HeadHeight()-e.HeadRadius(), e.BodyRadius())
		if t, ok := rayCylinder(origin, dir, pos, e.BodyRadius(), height); ok && t < best.Distance {
			best = RayHit{Enemy: e, Distance: t}
		}
	}
	if best.Enemy == nil || best.Distance > maxDist {
		return RayHit{}, false
	}

	for _, b := range w.obstacles {
		if t, ok := b.intersectRay(origin, dir); ok && t < best.Distance {
			return RayHit{}, false
		}
	}
	return best, true
}
