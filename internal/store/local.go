package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	profileObject = "profile"

	propBest      = "best"
	propLast      = "last"
	propContracts = "contracts"
)

// Local is the on-disk player profile. A nil manager runs in degraded
// mode: saves are dropped and loads find nothing.
type Local struct {
	mu sync.Mutex
	m  *gdata.Manager
}

// OpenLocal opens the profile of appName in the platform data directory.
func OpenLocal(appName string) (*Local, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("opening local profile %q: %w", appName, err)
	}
	return NewLocal(m), nil
}

// NewLocal wraps an opened manager. m may be nil.
func NewLocal(m *gdata.Manager) *Local {
	return &Local{m: m}
}

// SaveResult stores r as the last run and, if it ranks higher, as the best.
func (l *Local) SaveResult(_ context.Context, r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.m == nil {
		return nil
	}

	if err := l.save(propLast, r); err != nil {
		return err
	}

	best, ok, err := l.loadRecord(propBest)
	if err != nil {
		// corrupt best is overwritten
		slog.Warn("reading best result", "error", err)
		ok = false
	}
	if !ok || r.Better(best) {
		if err := l.save(propBest, r); err != nil {
			return err
		}
		slog.Info("new best run", "rounds", r.RoundsSurvived, "kills", r.ZombiesKilled)
	}
	return nil
}

// BestResult returns the best stored run.
func (l *Local) BestResult(_ context.Context) (Record, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadRecord(propBest)
}

// LastResult returns the most recent stored run.
func (l *Local) LastResult(_ context.Context) (Record, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadRecord(propLast)
}

// CompletedContracts returns contract ids completed in earlier runs.
func (l *Local) CompletedContracts(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ids []string
	if _, err := l.load(propContracts, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// AddCompletedContracts merges ids into the stored set.
func (l *Local) AddCompletedContracts(_ context.Context, ids []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.m == nil || len(ids) == 0 {
		return nil
	}

	var stored []string
	if _, err := l.load(propContracts, &stored); err != nil {
		return err
	}
	for _, id := range ids {
		if !slices.Contains(stored, id) {
			stored = append(stored, id)
		}
	}
	slices.Sort(stored)
	return l.save(propContracts, stored)
}

func (l *Local) loadRecord(prop string) (Record, bool, error) {
	var r Record
	ok, err := l.load(prop, &r)
	if err != nil || !ok {
		return Record{}, false, err
	}
	return r, true, nil
}

func (l *Local) load(prop string, v any) (bool, error) {
	if l.m == nil || !l.m.ObjectPropExists(profileObject, prop) {
		return false, nil
	}
	data, err := l.m.LoadObjectProp(profileObject, prop)
	if err != nil {
		return false, fmt.Errorf("loading %s/%s: %w", profileObject, prop, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s/%s: %w", profileObject, prop, err)
	}
	return true, nil
}

func (l *Local) save(prop string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", profileObject, prop, err)
	}
	if err := l.m.SaveObjectProp(profileObject, prop, data); err != nil {
		return fmt.Errorf("saving %s/%s: %w", profileObject, prop, err)
	}
	return nil
}
