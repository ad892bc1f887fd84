// Package round implements the wave director: round/break timing,
// the difficulty curve and spawn cadence.
//
// The director is advanced by Tick once per simulation tick. All timers
// (round timeout, break, spawn cadence) are countdowns decremented there,
// so stopping the session cancels every pending action before the next tick.
package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/looplab/fsm"

	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/event"
	"github.com/udisondev/zsurvive/internal/model"
)

var (
	// ErrNoSpawnPoints is returned by StartSession when no spawn point is configured.
	ErrNoSpawnPoints = errors.New("no spawn points configured")

	// ErrNoEnemyTemplate is returned by StartSession when the enemy template is missing.
	ErrNoEnemyTemplate = errors.New("enemy template not found")
)

// Spawner creates enemies on behalf of the director.
// Spawn must not call back into the Director.
type Spawner interface {
	HasTemplate(id string) bool
	Spawn(template string, point model.Vec3, params model.RoundParams) error
}

// Phase is the director state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRound   Phase = "round"
	PhaseBreak   Phase = "break"
	PhaseStopped Phase = "stopped"
)

const (
	evStartRound = "start_round"
	evEndRound   = "end_round"
	evStop       = "stop"
	evReset      = "reset"
)

// Director schedules rounds for one session.
type Director struct {
	mu sync.Mutex

	cfg      config.Rounds
	curve    Curve
	points   []model.Vec3
	template string
	spawner  Spawner
	bus      *event.Bus
	rng      *rand.Rand

	phase *fsm.FSM

	round      int
	params     Params
	roundTimer float64
	breakTimer float64
	spawnTimer float64
	lastSecond int

	spawned     int
	alive       int
	totalKilled int
	highest     int

	stoppedInBreak bool

	// events collected under mu, published after unlock
	pending []event.Event
}

// NewDirector creates an idle director. rng may be nil.
func NewDirector(cfg config.Rounds, spawn config.Spawn, spawner Spawner, bus *event.Bus, rng *rand.Rand) *Director {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	d := &Director{
		cfg:      cfg,
		curve:    NewCurve(cfg),
		points:   append([]model.Vec3(nil), spawn.Points...),
		template: spawn.Template,
		spawner:  spawner,
		bus:      bus,
		rng:      rng,
	}

	d.phase = fsm.NewFSM(
		string(PhaseIdle),
		fsm.Events{
			{Name: evStartRound, Src: []string{string(PhaseIdle), string(PhaseBreak)}, Dst: string(PhaseRound)},
			{Name: evEndRound, Src: []string{string(PhaseRound)}, Dst: string(PhaseBreak)},
			{Name: evStop, Src: []string{string(PhaseIdle), string(PhaseRound), string(PhaseBreak)}, Dst: string(PhaseStopped)},
			{Name: evReset, Src: []string{string(PhaseRound), string(PhaseBreak), string(PhaseStopped)}, Dst: string(PhaseIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				slog.Debug("round phase changed", "from", e.Src, "to", e.Dst)
			},
		},
	)

	return d
}

// Curve returns the difficulty curve in use.
func (d *Director) Curve() Curve {
	return d.curve
}

// StartSession resets all round state and begins round 1.
// Missing spawn points or enemy template are fatal configuration errors.
func (d *Director) StartSession() error {
	if err := d.cfg.Validate(); err != nil {
		slog.Error("cannot start session", "error", err)
		return fmt.Errorf("validating round config: %w", err)
	}
	if len(d.points) == 0 {
		slog.Error("cannot start session", "error", ErrNoSpawnPoints)
		return ErrNoSpawnPoints
	}
	if d.spawner == nil || d.template == "" || !d.spawner.HasTemplate(d.template) {
		err := fmt.Errorf("%w: %q", ErrNoEnemyTemplate, d.template)
		slog.Error("cannot start session", "error", err)
		return err
	}

	d.mu.Lock()
	if !d.is(PhaseIdle) {
		if err := d.fire(evReset); err != nil {
			d.mu.Unlock()
			return err
		}
	}

	d.round = 0
	d.params = Params{}
	d.roundTimer = 0
	d.breakTimer = 0
	d.spawnTimer = 0
	d.spawned = 0
	d.alive = 0
	d.totalKilled = 0
	d.highest = 0
	d.stoppedInBreak = false

	err := d.startRoundLocked(1)
	d.unlockAndPublish()

	if err != nil {
		return err
	}
	slog.Info("session started", "spawnPoints", len(d.points), "template", d.template)
	return nil
}

// StartRound begins round n. Allowed from idle or during a break;
// n must not go below the current round.
func (d *Director) StartRound(n int) error {
	d.mu.Lock()
	if n < 1 || n < d.round {
		d.mu.Unlock()
		return fmt.Errorf("starting round %d: round must be >= %d", n, max(d.round, 1))
	}
	err := d.startRoundLocked(n)
	d.unlockAndPublish()
	return err
}

func (d *Director) startRoundLocked(n int) error {
	if err := d.fire(evStartRound); err != nil {
		return fmt.Errorf("starting round %d: %w", n, err)
	}

	d.round = n
	d.params = d.curve.Params(n)
	d.spawned = 0
	d.roundTimer = d.cfg.RoundDuration
	d.breakTimer = 0
	// first enemy on the next tick
	d.spawnTimer = 0
	d.highest = max(d.highest, n)

	d.emit(event.Event{Type: event.RoundStarted, Round: n})
	d.emitTimer(d.roundTimer, true)

	slog.Info("round started",
		"round", n,
		"enemies", d.params.TotalEnemies,
		"speed", d.params.Speed,
		"damage", d.params.Damage,
		"spawnInterval", d.params.SpawnInterval)
	return nil
}

// EndRound finishes the current round and begins the break.
// No-op outside a round.
func (d *Director) EndRound() {
	d.mu.Lock()
	d.endRoundLocked("manual")
	d.unlockAndPublish()
}

func (d *Director) endRoundLocked(reason string) {
	if !d.is(PhaseRound) {
		return
	}
	if err := d.fire(evEndRound); err != nil {
		slog.Warn("ending round", "round", d.round, "error", err)
		return
	}

	d.roundTimer = 0
	d.spawnTimer = 0
	d.breakTimer = d.cfg.BreakDuration

	d.emit(event.Event{Type: event.RoundEnded, Round: d.round})
	d.emit(event.Event{Type: event.BreakStarted, Round: d.round})
	d.emitTimer(d.breakTimer, true)

	slog.Info("round ended",
		"round", d.round,
		"reason", reason,
		"spawned", d.spawned,
		"alive", d.alive,
		"totalKilled", d.totalKilled)
}

// SkipToNextRound cuts the break short. No-op outside a break.
func (d *Director) SkipToNextRound() {
	d.mu.Lock()
	if d.is(PhaseBreak) {
		if err := d.startRoundLocked(d.round + 1); err != nil {
			slog.Warn("skipping break", "error", err)
		}
	}
	d.unlockAndPublish()
}

// Tick advances the active phase timer by dt seconds, spawning at most
// one enemy per call.
func (d *Director) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}

	d.mu.Lock()
	switch {
	case d.is(PhaseRound):
		d.tickRoundLocked(dt)
	case d.is(PhaseBreak):
		d.breakTimer = max(d.breakTimer-dt, 0)
		d.emitTimer(d.breakTimer, false)
		if d.breakTimer <= 0 {
			if err := d.startRoundLocked(d.round + 1); err != nil {
				slog.Warn("starting next round", "error", err)
			}
		}
	}
	d.unlockAndPublish()
}

func (d *Director) tickRoundLocked(dt float64) {
	d.roundTimer = max(d.roundTimer-dt, 0)
	d.spawnTimer -= dt

	if d.spawned < d.params.TotalEnemies && d.spawnTimer <= 0 {
		point := d.points[d.rng.IntN(len(d.points))]
		if err := d.spawner.Spawn(d.template, point, d.params.RoundParams); err != nil {
			// skipped for this slot, the next slot tries again
			slog.Warn("spawn failed", "round", d.round, "point", point, "error", err)
		} else {
			d.spawned++
			d.alive++
		}
		d.spawnTimer = d.nextInterval()
	}

	d.emitTimer(d.roundTimer, false)

	if d.roundTimer <= 0 {
		d.endRoundLocked("timeout")
	}
}

func (d *Director) nextInterval() float64 {
	interval := d.params.SpawnInterval
	if j := d.cfg.SpawnJitter; j > 0 {
		interval *= 1 + j*(2*d.rng.Float64()-1)
	}
	return interval
}

// ReportEnemyKilled records one kill. When every enemy of the round has
// been spawned and none is alive, the round ends immediately.
// Kills after StopSession are ignored.
func (d *Director) ReportEnemyKilled() {
	d.mu.Lock()
	if d.is(PhaseStopped) {
		d.unlockAndPublish()
		return
	}

	d.alive = max(d.alive-1, 0)
	d.totalKilled++

	if d.is(PhaseRound) && d.alive <= 0 && d.spawned >= d.params.TotalEnemies {
		d.endRoundLocked("cleared")
	}
	d.unlockAndPublish()
}

// StopSession cancels all timers and spawning and freezes stats.
// Idempotent.
func (d *Director) StopSession() {
	d.mu.Lock()
	if d.is(PhaseStopped) {
		d.mu.Unlock()
		return
	}

	d.stoppedInBreak = d.is(PhaseBreak)
	if err := d.fire(evStop); err != nil {
		slog.Warn("stopping session", "error", err)
	}
	d.roundTimer = 0
	d.breakTimer = 0
	d.spawnTimer = 0

	slog.Info("session stopped",
		"round", d.round,
		"inBreak", d.stoppedInBreak,
		"totalKilled", d.totalKilled,
		"highestRound", d.highest)
	d.unlockAndPublish()
}

// CurrentRound returns the current round number (0 before the first round).
func (d *Director) CurrentRound() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.round
}

// TimeLeft returns seconds left in the active phase, 0 otherwise.
func (d *Director) TimeLeft() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.is(PhaseRound):
		return d.roundTimer
	case d.is(PhaseBreak):
		return d.breakTimer
	default:
		return 0
	}
}

// IsRoundActive reports whether a round is running.
func (d *Director) IsRoundActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.is(PhaseRound)
}

// IsBreakActive reports whether the director is between rounds.
func (d *Director) IsBreakActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.is(PhaseBreak)
}

// Phase returns the current phase.
func (d *Director) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Phase(d.phase.Current())
}

// Params returns the difficulty of the current round.
func (d *Director) Params() Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}

func (d *Director) TotalKilled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalKilled
}

func (d *Director) HighestRound() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.highest
}

func (d *Director) Alive() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alive
}

func (d *Director) Spawned() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.spawned
}

// DeathStats returns (zombiesKilled, roundsSurvived). A round counts as
// survived once its break has begun.
func (d *Director) DeathStats() (kills, roundsSurvived int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	inBreak := d.is(PhaseBreak)
	if d.is(PhaseStopped) {
		inBreak = d.stoppedInBreak
	}
	if inBreak {
		return d.totalKilled, d.round
	}
	return d.totalKilled, max(0, d.round-1)
}

func (d *Director) is(p Phase) bool {
	return d.phase.Is(string(p))
}

func (d *Director) fire(name string) error {
	return d.phase.Event(context.Background(), name)
}

func (d *Director) emit(e event.Event) {
	d.pending = append(d.pending, e)
}

// emitTimer queues TimerUpdated when the whole-second value changes.
// force emits regardless, on phase start.
func (d *Director) emitTimer(left float64, force bool) {
	sec := int(math.Ceil(left))
	if sec == d.lastSecond && !force {
		return
	}
	d.lastSecond = sec
	d.emit(event.Event{Type: event.TimerUpdated, Seconds: float64(sec)})
}

func (d *Director) unlockAndPublish() {
	evs := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, e := range evs {
		d.bus.Publish(e)
	}
}
