// Package nav moves agents toward requested destinations.
//
// Pathfinding is opaque to callers: they request a destination and query
// arrival and velocity. Motion is a straight line at the agent's speed,
// kept inside the arena bounds.
package nav

import (
	"sync"

	"github.com/udisondev/zsurvive/internal/model"
)

// DefaultStoppingDistance is how close an agent must get to count as arrived.
const DefaultStoppingDistance = 0.1

// Body is the positioned entity an agent drives.
type Body interface {
	Position() model.Vec3
	SetPosition(pos model.Vec3)
	SetForward(dir model.Vec3)
}

// Bounds clamps positions into the walkable area. *world.World implements it.
type Bounds interface {
	ClampToBounds(pos model.Vec3) model.Vec3
}

// Agent drives one body. Thread-safe.
type Agent struct {
	mu sync.Mutex

	body   Body
	bounds Bounds

	speed            float64
	stoppingDistance float64
	hoverHeight      float64 // >0: destination altitude is fixed to this Y

	destination model.Vec3
	hasPath     bool
	velocity    model.Vec3
}

// NewAgent creates an idle agent. bounds may be nil.
func NewAgent(body Body, bounds Bounds, speed float64) *Agent {
	return &Agent{
		body:             body,
		bounds:           bounds,
		speed:            speed,
		stoppingDistance: DefaultStoppingDistance,
	}
}

// SetHoverHeight makes the agent a flyer cruising at altitude y.
func (a *Agent) SetHoverHeight(y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hoverHeight = y
}

// SetStoppingDistance sets the arrival tolerance.
func (a *Agent) SetStoppingDistance(d float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stoppingDistance = max(d, 0)
}

// SetSpeed sets movement speed in units per second.
func (a *Agent) SetSpeed(s float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = max(s, 0)
}

// Speed returns movement speed.
func (a *Agent) Speed() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speed
}

// RequestMoveTo sets a new destination, replacing any current path.
func (a *Agent) RequestMoveTo(point model.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.hoverHeight > 0 {
		point.Y = a.hoverHeight
	} else {
		point.Y = a.body.Position().Y
	}
	if a.bounds != nil {
		point = a.bounds.ClampToBounds(point)
	}
	a.destination = point
	a.hasPath = true
}

// Stop drops the current path.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hasPath = false
	a.velocity = model.Vec3{}
}

// HasPath reports whether the agent is heading somewhere.
func (a *Agent) HasPath() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasPath
}

// Destination returns the current destination (meaningful only with a path).
func (a *Agent) Destination() model.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destination
}

// HasArrived reports whether the agent has no path or is within the
// stopping distance of its destination.
func (a *Agent) HasArrived() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasPath {
		return true
	}
	return a.body.Position().Dist(a.destination) <= a.stoppingDistance
}

// RemainingDistance returns the distance left to the destination.
func (a *Agent) RemainingDistance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasPath {
		return 0
	}
	return a.body.Position().Dist(a.destination)
}

// Velocity returns the velocity applied by the last Step.
func (a *Agent) Velocity() model.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.velocity
}

// FaceToward turns the body toward target on the horizontal plane.
func (a *Agent) FaceToward(target model.Vec3) {
	dir := target.Sub(a.body.Position()).Horizontal().Normalize()
	if dir.IsZero() {
		return
	}
	a.body.SetForward(dir)
}

// Step advances the body toward its destination by speed×dt.
// Reaching the stopping distance clears the path.
func (a *Agent) Step(dt float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.hasPath || dt <= 0 {
		a.velocity = model.Vec3{}
		return
	}

	pos := a.body.Position()
	if pos.Dist(a.destination) <= a.stoppingDistance {
		a.hasPath = false
		a.velocity = model.Vec3{}
		return
	}

	next := pos.MoveTowards(a.destination, a.speed*dt)
	if a.bounds != nil {
		next = a.bounds.ClampToBounds(next)
	}
	a.velocity = next.Sub(pos).Scale(1 / dt)

	if heading := next.Sub(pos).Horizontal().Normalize(); !heading.IsZero() {
		a.body.SetForward(heading)
	}
	a.body.SetPosition(next)

	if next.Dist(a.destination) <= a.stoppingDistance {
		a.hasPath = false
	}
}
