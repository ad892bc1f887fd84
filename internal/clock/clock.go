// Package clock provides simulation time.
//
// All timers in the simulation are countdowns evaluated once per tick, so
// "now" is the accumulated tick time of the session rather than wall time.
package clock

import "sync/atomic"

// Clock returns simulation time in seconds.
type Clock interface {
	Now() float64
}

// Sim is a Clock advanced explicitly by the owner of the tick loop.
type Sim struct {
	nanos atomic.Int64
}

// NewSim returns a clock at t=0.
func NewSim() *Sim {
	return &Sim{}
}

// Now returns seconds since the clock was created or last reset.
func (c *Sim) Now() float64 {
	return float64(c.nanos.Load()) / 1e9
}

// Advance moves time forward by dt seconds. Negative dt is ignored.
func (c *Sim) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	c.nanos.Add(int64(dt * 1e9))
}

// Set jumps to t seconds. Test helper and session reset.
func (c *Sim) Set(t float64) {
	c.nanos.Store(int64(t * 1e9))
}
