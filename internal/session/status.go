package session

import "github.com/udisondev/zsurvive/internal/round"

// Status is a HUD snapshot of the run.
type Status struct {
	Round       int
	Phase       round.Phase
	TimeLeft    float64
	Alive       int
	Kills       int
	Health      float64
	MaxHealth   float64
	Stamina     float64
	MaxStamina  float64
	Level       int
	Experience  int
	Ammo        int
	Reloading   bool
	Effects     []string
	Potions     []string
	Contract    string
	ContractPct float64
}

// Status collects the current HUD values.
func (s *Session) Status() Status {
	st := Status{
		Round:      s.director.CurrentRound(),
		Phase:      s.director.Phase(),
		TimeLeft:   s.director.TimeLeft(),
		Alive:      s.spawner.Count(),
		Kills:      s.director.TotalKilled(),
		Health:     s.player.CurrentHealth(),
		MaxHealth:  s.player.MaxHealth(),
		Stamina:    s.player.Stamina(),
		MaxStamina: s.player.MaxStamina(),
		Level:      s.experience.Level(),
		Experience: s.experience.Total(),
		Ammo:       s.weapon.Ammo(),
		Reloading:  s.weapon.IsReloading(),
		Potions:    s.inventory.Potions(),
	}
	for _, k := range s.effects.Active() {
		st.Effects = append(st.Effects, string(k))
	}
	if c, ok := s.contracts.Active(); ok && c.Target > 0 {
		st.Contract = c.Name
		st.ContractPct = float64(s.contracts.Progress()) / float64(c.Target)
	}
	return st
}
