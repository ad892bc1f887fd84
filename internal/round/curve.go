package round

import (
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/model"
)

// Params are the derived values of one round.
type Params struct {
	model.RoundParams
	TotalEnemies  int
	SpawnInterval float64
}

// Curve computes per-round difficulty: base + (n-1) * increment.
type Curve struct {
	cfg config.Rounds
}

// NewCurve wraps the round tuning.
func NewCurve(cfg config.Rounds) Curve {
	return Curve{cfg: cfg}
}

// Params returns the difficulty of round n. Rounds below 1 are treated as 1.
// Spawn interval is floored at MinSpawnInterval and never drops below
// config.SpawnIntervalFloor; enemy count is floored at zero.
func (c Curve) Params(n int) Params {
	if n < 1 {
		n = 1
	}
	step := n - 1

	interval := c.cfg.BaseSpawnInterval - float64(step)*c.cfg.SpawnIntervalDecrease
	interval = max(interval, c.cfg.MinSpawnInterval, config.SpawnIntervalFloor)

	return Params{
		RoundParams: model.RoundParams{
			Round:  n,
			Speed:  c.cfg.BaseEnemySpeed + float64(step)*c.cfg.SpeedIncrement,
			Damage: c.cfg.BaseEnemyDamage + float64(step)*c.cfg.DamageIncrement,
		},
		TotalEnemies:  max(c.cfg.BaseEnemiesPerRound+step*c.cfg.EnemiesIncrement, 0),
		SpawnInterval: interval,
	}
}
