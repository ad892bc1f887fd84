package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zsurvive/internal/ai"
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/db"
	"github.com/udisondev/zsurvive/internal/event"
	"github.com/udisondev/zsurvive/internal/session"
	"github.com/udisondev/zsurvive/internal/store"
)

const (
	DefaultConfigPath = "config/zsurvive.yaml"

	statusInterval = 5 * time.Second
	leaderboardTop = 5
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := DefaultConfigPath
	if p := os.Getenv("ZSURVIVE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGame(cfgPath)
	if err != nil {
		return fmt.Errorf("loading game config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable AI debug logging if log level is debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("zsurvive starting", "config", cfgPath, "log_level", cfg.LogLevel, "tick_rate", cfg.TickRate)

	var (
		recorders store.Multi
		profile   *store.Local
		results   *db.ResultRepository
	)

	if cfg.Storage.Enabled {
		profile, err = store.OpenLocal(cfg.Storage.AppName)
		if err != nil {
			slog.Warn("local profile unavailable, results will not be kept locally", "error", err)
			profile = nil
		} else {
			recorders = append(recorders, profile)
		}
	}

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if _, err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		results = database.Results()
		recorders = append(recorders, results)
	}

	best, ok, err := recorders.BestResult(ctx)
	if err != nil {
		slog.Warn("reading best run", "error", err)
	}
	if ok {
		slog.Info("best run so far", "rounds", best.RoundsSurvived, "kills", best.ZombiesKilled, "level", best.Level)
	}

	sess, err := session.New(ctx, cfg, session.Options{
		Recorder: recorders,
		Profile:  profile,
	})
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	logEvents(sess.Bus())

	pilot := newAutopilot(sess)
	sess.OnTick(pilot.step)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := sess.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("session: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		reportStatus(gctx, sess, statusInterval)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if rec, ok := sess.Result(); ok {
		slog.Info("run finished",
			"kills", rec.ZombiesKilled,
			"roundsSurvived", rec.RoundsSurvived,
			"highestRound", rec.HighestRound,
			"level", rec.Level,
			"experience", rec.Experience,
			"duration", rec.Duration().Round(time.Second))
	}

	if results != nil {
		printLeaderboard(results)
	}
	return nil
}

// logEvents mirrors progress notifications into the log. Round
// transitions are logged by the director itself.
func logEvents(bus *event.Bus) {
	bus.Subscribe(event.LevelUp, func(e event.Event) {
		slog.Info("level up", "level", int(e.Amount))
	})
	bus.Subscribe(event.ContractCompleted, func(e event.Event) {
		slog.Info("contract completed", "contract", e.Name)
	})
}

func reportStatus(ctx context.Context, sess *session.Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case <-ticker.C:
			st := sess.Status()
			slog.Info("status",
				"round", st.Round,
				"phase", st.Phase,
				"timeLeft", int(st.TimeLeft),
				"alive", st.Alive,
				"kills", st.Kills,
				"hp", fmt.Sprintf("%.0f/%.0f", st.Health, st.MaxHealth),
				"stamina", int(st.Stamina),
				"level", st.Level,
				"ammo", st.Ammo,
				"effects", st.Effects,
				"potions", st.Potions,
				"contract", st.Contract,
				"contractPct", fmt.Sprintf("%.0f%%", st.ContractPct*100))
		}
	}
}

func printLeaderboard(results *db.ResultRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	top, err := results.TopResults(ctx, leaderboardTop)
	if err != nil {
		slog.Warn("reading leaderboard", "error", err)
		return
	}
	for i, r := range top {
		slog.Info("leaderboard",
			"place", i+1,
			"rounds", r.RoundsSurvived,
			"kills", r.ZombiesKilled,
			"level", r.Level,
			"endedAt", r.EndedAt.Format(time.DateTime))
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
