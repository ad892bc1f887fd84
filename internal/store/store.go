// Package store persists run results.
//
// Local keeps a per-user profile on disk (best and last run, completed
// contracts); db.ResultRepository keeps a shared leaderboard in PostgreSQL.
// Both implement Recorder and can be combined with Multi.
package store

import (
	"context"
	"errors"
	"time"
)

// Record is the summary of one finished run.
type Record struct {
	StartedAt      time.Time `yaml:"started_at"`
	EndedAt        time.Time `yaml:"ended_at"`
	ZombiesKilled  int       `yaml:"zombies_killed"`
	RoundsSurvived int       `yaml:"rounds_survived"`
	HighestRound   int       `yaml:"highest_round"`
	Level          int       `yaml:"level"`
	Experience     int       `yaml:"experience"`
}

// Duration returns how long the run lasted.
func (r Record) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Better reports whether r ranks above other: more rounds survived first,
// then more kills.
func (r Record) Better(other Record) bool {
	if r.RoundsSurvived != other.RoundsSurvived {
		return r.RoundsSurvived > other.RoundsSurvived
	}
	return r.ZombiesKilled > other.ZombiesKilled
}

// Recorder stores run results.
type Recorder interface {
	SaveResult(ctx context.Context, r Record) error
	// BestResult returns the best stored run; ok is false when none exists.
	BestResult(ctx context.Context) (r Record, ok bool, err error)
}

// Multi fans results out to several recorders.
type Multi []Recorder

// SaveResult saves to every recorder and joins their errors.
func (m Multi) SaveResult(ctx context.Context, r Record) error {
	var errs []error
	for _, rec := range m {
		if err := rec.SaveResult(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestResult returns the best run across recorders. A failing recorder
// does not hide results from the others.
func (m Multi) BestResult(ctx context.Context) (Record, bool, error) {
	var (
		best  Record
		found bool
		errs  []error
	)
	for _, rec := range m {
		r, ok, err := rec.BestResult(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok && (!found || r.Better(best)) {
			best, found = r, true
		}
	}
	return best, found, errors.Join(errs...)
}
