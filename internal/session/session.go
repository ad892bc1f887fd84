// Package session assembles one survival run: the arena, the survivor,
// the enemy spawner and brains, the round director and the progress
// trackers, all wired to a session-owned event bus and simulation clock.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/zsurvive/internal/ai"
	"github.com/udisondev/zsurvive/internal/clock"
	"github.com/udisondev/zsurvive/internal/combat"
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/effect"
	"github.com/udisondev/zsurvive/internal/event"
	"github.com/udisondev/zsurvive/internal/model"
	"github.com/udisondev/zsurvive/internal/noise"
	"github.com/udisondev/zsurvive/internal/progress"
	"github.com/udisondev/zsurvive/internal/round"
	"github.com/udisondev/zsurvive/internal/spawn"
	"github.com/udisondev/zsurvive/internal/store"
	"github.com/udisondev/zsurvive/internal/world"
)

var (
	// ErrUnknownItem is returned by UseItem for a name missing from the catalog.
	ErrUnknownItem = errors.New("unknown item")

	// ErrAlreadyStarted is returned by Start on a session that was started before.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNoPotion is returned by UseItem when no potion slot holds the item.
	ErrNoPotion = errors.New("potion not in inventory")
)

// saveTimeout bounds result persistence after the player dies.
const saveTimeout = 5 * time.Second

// Options are the optional collaborators of a session.
type Options struct {
	// Recorder receives the run result at player death. May be nil.
	Recorder store.Recorder
	// Profile supplies and stores completed contract ids. May be nil.
	Profile *store.Local
	FX      ai.FX
	Rand    *rand.Rand
	// Now stamps run start and end; defaults to time.Now.
	Now func() time.Time
}

// Session is one run from StartSession to player death or Stop.
//
// Tick and the player actions are serialized by mu. Teardown does not take
// mu because the player can die inside Tick.
type Session struct {
	cfg  config.Game
	opts Options

	clock      *clock.Sim
	bus        *event.Bus
	world      *world.World
	player     *model.Player
	effects    *effect.System
	noise      *noise.System
	steps      *noise.Emitter
	gun        *noise.Emitter
	ai         *ai.TickManager
	spawner    *spawn.Manager
	director   *round.Director
	experience *progress.Experience
	contracts  *progress.Contracts
	weapon     *combat.Weapon
	inventory  *Inventory

	mu          sync.Mutex
	survivalAcc float64
	nextRoll    float64
	onTick      []func(dt float64)

	started   atomic.Bool
	finished  atomic.Bool
	startedAt time.Time
	subs      []event.SubscriptionID

	finishOnce sync.Once
	done       chan struct{}

	resultMu sync.Mutex
	result   store.Record
	hasRes   bool
}

// New builds the service graph for cfg. Nothing runs until Start.
func New(ctx context.Context, cfg config.Game, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating game config: %w", err)
	}
	if opts.FX == nil {
		opts.FX = ai.NopFX{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var completed []string
	if opts.Profile != nil {
		ids, err := opts.Profile.CompletedContracts(ctx)
		if err != nil {
			slog.Warn("loading completed contracts", "error", err)
		}
		completed = ids
	}

	s := &Session{
		cfg:   cfg,
		opts:  opts,
		clock: clock.NewSim(),
		bus:   event.NewBus(),
		done:  make(chan struct{}),
	}
	s.inventory = newInventory(cfg.Loadout)

	obstacles := make([]world.Box, 0, len(cfg.Arena.Obstacles))
	for _, b := range cfg.Arena.Obstacles {
		obstacles = append(obstacles, world.Box{Min: b.Min, Max: b.Max})
	}
	s.world = world.New(cfg.Arena.Min, cfg.Arena.Max, cfg.Arena.CellSize, obstacles)

	s.player = model.NewPlayer(cfg.Player.Stats(), cfg.Player.Start)
	s.player.OnDamage(func(amount float64) {
		s.bus.Publish(event.Event{Type: event.PlayerDamaged, Amount: amount})
	})
	s.player.OnDeath(s.onPlayerDeath)

	s.noise = noise.NewSystem(s.clock, s.world, cfg.Noise.BaseRadius, cfg.Noise.Cooldown)
	s.steps = s.noise.NewEmitter(s.player.Position)
	s.gun = s.noise.NewEmitter(s.player.Position)

	s.ai = ai.NewTickManager()
	s.spawner = spawn.NewManager(cfg.Enemies, spawn.Deps{
		World:  s.world,
		AI:     s.ai,
		Noise:  s.noise,
		Bus:    s.bus,
		Clock:  s.clock,
		Target: s.target,
		FX:     opts.FX,
		Rand:   rand.New(rand.NewPCG(opts.Rand.Uint64(), opts.Rand.Uint64())),
	})
	s.director = round.NewDirector(cfg.Rounds, cfg.Spawn, s.spawner, s.bus, opts.Rand)

	s.experience = progress.NewExperience(cfg.Experience, s.director, s.bus)
	s.contracts = progress.NewContracts(cfg.Contracts, completed, s.bus)
	s.contracts.OnCompleted(s.grantReward)

	s.effects = effect.NewSystem(effect.Target{Actor: s.player, Experience: s.experience}, s.bus)
	s.weapon = combat.NewWeapon(cfg.Weapon, s.clock, s.world, s.gun, cfg.Noise.GunshotPower, opts.FX)

	s.subs = append(s.subs,
		s.bus.Subscribe(event.ZombieKilledForRound, func(event.Event) { s.director.ReportEnemyKilled() }),
		s.bus.Subscribe(event.RoundEnded, func(event.Event) { s.effects.OnRoundEnd() }),
	)
	s.experience.Attach()

	return s, nil
}

// target hands the player to enemy brains while alive.
func (s *Session) target() ai.Target {
	if s.player.IsDead() {
		return nil
	}
	return s.player
}

// Start begins round 1.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished.Load() || !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := s.director.StartSession(); err != nil {
		s.started.Store(false)
		return fmt.Errorf("starting session: %w", err)
	}
	s.startedAt = s.opts.Now()
	s.applyBoosts()

	slog.Info("session started",
		"spawnPoints", len(s.cfg.Spawn.Points),
		"template", s.cfg.Spawn.Template,
		"contract", s.activeContractID())
	return nil
}

// Running reports whether the session was started and has not ended.
func (s *Session) Running() bool {
	return s.started.Load() && !s.finished.Load()
}

// OnTick registers fn to run after every Tick, outside the simulation lock.
// Player actions may be issued from fn.
func (s *Session) OnTick(fn func(dt float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = append(s.onTick, fn)
}

// Tick advances the simulation by dt seconds:
// clock, player regen and stamina, effects, AI Think, movement, AI Act, director.
func (s *Session) Tick(dt float64) {
	if dt <= 0 || !s.Running() {
		return
	}

	s.mu.Lock()
	s.clock.Advance(dt)
	now := s.clock.Now()

	s.player.Tick(dt)
	s.effects.Tick(dt)
	s.ai.Think(now)
	s.spawner.StepAll(dt)
	s.ai.Act(now)
	s.director.Tick(dt)
	s.trackSurvivalLocked(dt)

	hooks := s.onTick
	s.mu.Unlock()

	if !s.Running() {
		return
	}
	for _, fn := range hooks {
		fn(dt)
	}
}

// trackSurvivalLocked feeds the low-health contract once per simulated second.
func (s *Session) trackSurvivalLocked(dt float64) {
	if s.player.IsDead() {
		return
	}
	s.survivalAcc += dt
	for s.survivalAcc >= 1 {
		s.survivalAcc--
		s.contracts.ReportSurvivalTick(s.player.CurrentHealth())
	}
}

// Run ticks the session at the configured rate until the player dies, Stop
// is called or ctx is cancelled. Starts the session if needed.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.Load() {
		if err := s.Start(); err != nil {
			return err
		}
	}

	interval := time.Second / time.Duration(s.cfg.TickRate)
	dt := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("session loop started", "tickRate", s.cfg.TickRate)

	for {
		select {
		case <-ctx.Done():
			slog.Info("session loop stopping")
			s.Stop()
			return ctx.Err()

		case <-s.done:
			slog.Info("session loop finished")
			return nil

		case <-ticker.C:
			s.Tick(dt)
		}
	}
}

// Done is closed when the session ends by death or Stop.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop ends the session without a death. Nothing is persisted. Idempotent.
func (s *Session) Stop() {
	s.finish("stopped")
}

func (s *Session) onPlayerDeath() {
	if !s.Running() {
		return
	}

	s.finish("player died")
	kills, rounds := s.director.DeathStats()
	s.bus.Publish(event.Event{Type: event.PlayerDied, Round: rounds})

	rec := store.Record{
		StartedAt:      s.startedAt,
		EndedAt:        s.opts.Now(),
		ZombiesKilled:  kills,
		RoundsSurvived: rounds,
		HighestRound:   s.director.HighestRound(),
		Level:          s.experience.Level(),
		Experience:     s.experience.Total(),
	}
	s.resultMu.Lock()
	s.result, s.hasRes = rec, true
	s.resultMu.Unlock()

	slog.Info("player died",
		"kills", kills,
		"roundsSurvived", rounds,
		"level", rec.Level,
		"duration", rec.Duration())

	s.persist(rec)
}

// finish tears the run down once. The director freezes its stats first so
// DeathStats stays valid afterwards.
func (s *Session) finish(reason string) {
	s.finishOnce.Do(func() {
		s.finished.Store(true)

		s.director.StopSession()
		s.effects.ClearAllEffects()
		s.spawner.DespawnAll()

		s.experience.Detach()
		for _, id := range s.subs {
			s.bus.Unsubscribe(id)
		}

		slog.Info("session ended", "reason", reason, "simTime", s.clock.Now())
		close(s.done)
	})
}

// persist saves the run and the contract board, best effort.
func (s *Session) persist(rec store.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if s.opts.Recorder != nil {
		if err := s.opts.Recorder.SaveResult(ctx, rec); err != nil {
			slog.Error("saving run result", "error", err)
		}
	}
	if s.opts.Profile != nil {
		if err := s.opts.Profile.AddCompletedContracts(ctx, s.contracts.Completed()); err != nil {
			slog.Error("saving completed contracts", "error", err)
		}
	}
}

// Result returns the record of a run that ended in death.
func (s *Session) Result() (store.Record, bool) {
	s.resultMu.Lock()
	defer s.resultMu.Unlock()
	return s.result, s.hasRes
}

// DeathStats returns zombies killed and rounds fully survived.
func (s *Session) DeathStats() (kills, roundsSurvived int) {
	return s.director.DeathStats()
}

func (s *Session) activeContractID() string {
	if c, ok := s.contracts.Active(); ok {
		return c.ID
	}
	return ""
}

// Accessors for HUD and tooling.

func (s *Session) Config() config.Game              { return s.cfg }
func (s *Session) Clock() clock.Clock               { return s.clock }
func (s *Session) Bus() *event.Bus                  { return s.bus }
func (s *Session) World() *world.World              { return s.world }
func (s *Session) Player() *model.Player            { return s.player }
func (s *Session) Effects() *effect.System          { return s.effects }
func (s *Session) Spawner() *spawn.Manager          { return s.spawner }
func (s *Session) Director() *round.Director        { return s.director }
func (s *Session) Experience() *progress.Experience { return s.experience }
func (s *Session) Contracts() *progress.Contracts   { return s.contracts }
func (s *Session) Weapon() *combat.Weapon           { return s.weapon }
func (s *Session) Inventory() *Inventory            { return s.inventory }
