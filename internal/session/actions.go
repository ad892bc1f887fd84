package session

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/zsurvive/internal/combat"
	"github.com/udisondev/zsurvive/internal/config"
	"github.com/udisondev/zsurvive/internal/effect"
	"github.com/udisondev/zsurvive/internal/model"
)

// Move walks the player along the horizontal part of dir for dt seconds.
// Returns false when the step is blocked by an obstacle or the session is
// not running. Every step is a walk or sprint noise. A sprint drains
// stamina and falls back to walking once stamina is at the threshold.
func (s *Session) Move(dir model.Vec3, sprint bool, dt float64) bool {
	dir = dir.Horizontal().Normalize()
	if dt <= 0 || dir.IsZero() || !s.Running() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sprint = sprint && s.player.Sprint(dt)

	from := s.player.Position()
	to := s.world.ClampToBounds(from.Add(dir.Scale(s.player.EffectiveSpeed(sprint) * dt)))
	s.player.SetForward(dir)
	if s.world.Blocked(to) {
		return false
	}
	s.player.SetPosition(to)

	power := s.cfg.Noise.WalkPower
	if sprint {
		power = s.cfg.Noise.SprintPower
	}
	s.steps.MakeNoise(power)
	return true
}

// Jump makes a jump noise.
func (s *Session) Jump() bool {
	if !s.Running() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps.MakeNoise(s.cfg.Noise.JumpPower)
}

// rollStep is the sub-step a roll advances by before checking obstacles.
const rollStep = 0.25

// Roll dashes RollDistance along the horizontal part of dir, or along the
// facing direction when dir is zero, stopping short of obstacles. Costs
// RollCost stamina and is limited to one per RollCooldown.
func (s *Session) Roll(dir model.Vec3) bool {
	if !s.Running() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir = dir.Horizontal().Normalize()
	if dir.IsZero() {
		dir = s.player.Forward()
	}
	now := s.clock.Now()
	if now < s.nextRoll || !s.player.SpendStamina(s.cfg.Player.RollCost) {
		return false
	}
	s.nextRoll = now + s.cfg.Player.RollCooldown

	s.player.SetForward(dir)
	pos := s.player.Position()
	for moved := 0.0; moved < s.cfg.Player.RollDistance; {
		d := min(rollStep, s.cfg.Player.RollDistance-moved)
		next := s.world.ClampToBounds(pos.Add(dir.Scale(d)))
		if s.world.Blocked(next) {
			break
		}
		pos = next
		moved += d
	}
	s.player.SetPosition(pos)
	s.steps.MakeNoise(s.cfg.Noise.RollPower)
	return true
}

// Fire shoots from the player's eyes along dir. Kills feed the contract
// board; experience and round bookkeeping follow from the kill events.
func (s *Session) Fire(dir model.Vec3) combat.Shot {
	if dir.IsZero() || !s.Running() {
		return combat.Shot{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.SetForward(dir.Horizontal())
	origin := s.player.Position().Add(model.Vec3{Y: s.cfg.Player.EyeHeight})
	shot := s.weapon.Fire(origin, dir)
	if shot.Killed {
		s.contracts.ReportKill(shot.Headshot)
	}
	return shot
}

// Reload starts a weapon reload.
func (s *Session) Reload() {
	if !s.Running() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weapon.Reload()
}

// UseItem drinks a potion from the loadout and empties its slot. Returns
// false, keeping the potion, when an effect of the same kind is already
// active. Fails with ErrNoPotion when no slot holds the item.
func (s *Session) UseItem(name string) (bool, error) {
	item, ok := s.cfg.Item(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	if !s.Running() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.inventory.slot(name)
	if slot < 0 {
		return false, fmt.Errorf("%w: %q", ErrNoPotion, name)
	}
	applied, err := s.applyItem(item)
	if err != nil || !applied {
		return false, err
	}
	s.inventory.clear(slot)
	return true, nil
}

// applyBoosts applies the loadout boosts at run start.
func (s *Session) applyBoosts() {
	for _, name := range s.inventory.Boosts() {
		if name == "" {
			continue
		}
		item, ok := s.cfg.Item(name)
		if !ok {
			slog.Warn("boost not in catalog", "boost", name)
			continue
		}
		if _, err := s.applyItem(item); err != nil {
			slog.Error("applying boost", "boost", name, "error", err)
		}
	}
}

func (s *Session) applyItem(item config.Item) (bool, error) {
	e, err := effect.Create(item.Effect, item.Params)
	if err != nil {
		return false, fmt.Errorf("creating effect for item %q: %w", item.Name, err)
	}
	applied := s.effects.Apply(e)
	slog.Info("item used", "item", item.Name, "effect", item.Effect, "applied", applied)
	return applied, nil
}

// grantReward applies a completed contract's reward item. Runs inside
// Fire or Tick, so it must not take mu.
func (s *Session) grantReward(c config.Contract) {
	if c.Reward == "" {
		return
	}
	item, ok := s.cfg.Item(c.Reward)
	if !ok {
		slog.Warn("contract reward not in catalog", "contract", c.ID, "reward", c.Reward)
		return
	}
	if _, err := s.applyItem(item); err != nil {
		slog.Error("applying contract reward", "contract", c.ID, "error", err)
	}
}
