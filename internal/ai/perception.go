package ai

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/model"
)

// perception holds the senses and wander bookkeeping shared by all
// enemy brains. Not thread-safe: owned by one controller.
type perception struct {
	enemy   *model.Enemy
	params  Params
	clock   clock.Clock
	terrain Terrain
	rng     *rand.Rand

	lastHeardPos  model.Vec3
	lastHeardTime float64

	nextWanderTime float64
}

func newPerception(enemy *model.Enemy, params Params, clk clock.Clock, terrain Terrain, rng *rand.Rand) perception {
	return perception{
		enemy:         enemy,
		params:        params,
		clock:         clk,
		terrain:       terrain,
		rng:           rng,
		lastHeardTime: math.Inf(-1),
	}
}

// canSee checks range, view cone and line of sight.
func (p *perception) canSee(target Target) bool {
	pos := p.enemy.Position()
	tpos := target.Position()
	if pos.Dist(tpos) > p.params.SightRange {
		return false
	}

	if p.params.ViewAngle < 360 {
		toTarget := tpos.Sub(pos).Horizontal()
		if !toTarget.IsZero() && p.enemy.Forward().Horizontal().AngleTo(toTarget) > p.params.ViewAngle/2 {
			return false
		}
	}

	eye := pos.Add(model.Up.Scale(p.params.EyeHeight))
	aim := tpos.Add(model.Up.Scale(targetAimHeight))
	return p.terrain.LineOfSight(eye, aim)
}

// heard stamps the hearing memory.
func (p *perception) heard(origin model.Vec3) {
	p.lastHeardPos = origin
	p.lastHeardTime = p.clock.Now()
}

// hearingFresh reports whether the last noise is still remembered.
func (p *perception) hearingFresh(now float64) bool {
	return now-p.lastHeardTime <= p.params.HearingForgetTime
}

// forget makes the hearing memory immediately stale.
func (p *perception) forget() {
	p.lastHeardTime = math.Inf(-1)
}

// decide picks the state by priority: sight, then fresh hearing, then wander.
func (p *perception) decide(now float64, target Target) model.EnemyState {
	switch {
	case p.canSee(target):
		return model.StateChase
	case p.hearingFresh(now):
		return model.StateInvestigate
	default:
		return model.StateWander
	}
}

// wander picks a new reachable point when the agent is idle and the
// per-visit delay has elapsed.
func (p *perception) wander(now float64, nav Navigator) {
	if nav.HasPath() && !nav.HasArrived() {
		return
	}
	if now < p.nextWanderTime {
		return
	}
	if point, ok := p.terrain.SampleReachable(p.enemy.Position(), p.params.WanderRadius, p.rng); ok {
		nav.RequestMoveTo(point)
	}
	p.nextWanderTime = now + p.params.WanderPointDelay
}

// investigate heads for the last heard position and forgets it on arrival.
// Returns true once the memory has been dropped.
func (p *perception) investigate(nav Navigator) bool {
	pos := p.enemy.Position().Horizontal()
	if pos.Dist(p.lastHeardPos.Horizontal()) < p.params.ArrivalDistance {
		p.forget()
		nav.Stop()
		return true
	}
	nav.RequestMoveTo(p.lastHeardPos)
	return false
}
