package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/zsurvive/internal/store"
)

// ResultRepository stores finished runs in session_results.
// Implements store.Recorder.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository создаёт repository поверх пула.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `started_at, ended_at, zombies_killed, rounds_survived, highest_round, level, experience`

// SaveResult inserts one run.
func (r *ResultRepository) SaveResult(ctx context.Context, rec store.Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO session_results (`+resultColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.StartedAt, rec.EndedAt, rec.ZombiesKilled, rec.RoundsSurvived,
		rec.HighestRound, rec.Level, rec.Experience,
	)
	if err != nil {
		return fmt.Errorf("saving session result: %w", err)
	}
	return nil
}

// BestResult returns the top-ranked run: most rounds survived, then most kills.
func (r *ResultRepository) BestResult(ctx context.Context) (store.Record, bool, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+`
		 FROM session_results
		 ORDER BY rounds_survived DESC, zombies_killed DESC, ended_at ASC
		 LIMIT 1`)

	rec, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Record{}, false, nil
		}
		return store.Record{}, false, fmt.Errorf("querying best session result: %w", err)
	}
	return rec, true, nil
}

// TopResults returns up to limit runs in leaderboard order.
func (r *ResultRepository) TopResults(ctx context.Context, limit int) ([]store.Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM session_results
		 ORDER BY rounds_survived DESC, zombies_killed DESC, ended_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top session results: %w", err)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session results: %w", err)
	}
	return out, nil
}

// Count returns the number of stored runs.
func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting session results: %w", err)
	}
	return n, nil
}

func scanResult(row pgx.Row) (store.Record, error) {
	var rec store.Record
	err := row.Scan(
		&rec.StartedAt, &rec.EndedAt, &rec.ZombiesKilled, &rec.RoundsSurvived,
		&rec.HighestRound, &rec.Level, &rec.Experience,
	)
	return rec, err
}
