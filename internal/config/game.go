package config

import (
	"fmt"
	"slices"

	"github.com/udisondev/zsurvive/internal/model"
)

// Rounds holds round/break timing and the difficulty curve.
// Every per-round value is base + (round-1) * increment.
type Rounds struct {
	RoundDuration float64 `yaml:"round_duration"` // seconds
	BreakDuration float64 `yaml:"break_duration"` // seconds

	BaseEnemySpeed        float64 `yaml:"base_enemy_speed"`
	SpeedIncrement        float64 `yaml:"speed_increment"`
	BaseEnemyDamage       float64 `yaml:"base_enemy_damage"`
	DamageIncrement       float64 `yaml:"damage_increment"`
	BaseEnemiesPerRound   int     `yaml:"base_enemies_per_round"`
	EnemiesIncrement      int     `yaml:"enemies_increment"`
	BaseSpawnInterval     float64 `yaml:"base_spawn_interval"`
	SpawnIntervalDecrease float64 `yaml:"spawn_interval_decrease"`
	MinSpawnInterval      float64 `yaml:"min_spawn_interval"`
	SpawnJitter           float64 `yaml:"spawn_jitter"` // fraction of interval, 0 = exact cadence
}

// SpawnIntervalFloor is the shortest spawn cadence any round may reach.
const SpawnIntervalFloor = 0.5

// DefaultRounds returns the stock wave tuning.
func DefaultRounds() Rounds {
	return Rounds{
		RoundDuration:         180,
		BreakDuration:         20,
		BaseEnemySpeed:        2,
		SpeedIncrement:        0.3,
		BaseEnemyDamage:       20,
		DamageIncrement:       5,
		BaseEnemiesPerRound:   9,
		EnemiesIncrement:      8,
		BaseSpawnInterval:     2,
		SpawnIntervalDecrease: 0.1,
		MinSpawnInterval:      0.5,
		SpawnJitter:           0,
	}
}

// Spawn lists the spawn points and the enemy template the director spawns.
type Spawn struct {
	Points   []model.Vec3 `yaml:"points"`
	Template string       `yaml:"template"`
}

// EnemyTemplate describes one hostile type.
type EnemyTemplate struct {
	ID   string          `yaml:"id"`
	Kind model.EnemyKind `yaml:"kind"`

	MaxHealth        float64 `yaml:"max_health"`
	AttackRange      float64 `yaml:"attack_range"`
	AttackCooldown   float64 `yaml:"attack_cooldown"`
	AttackAnimation  float64 `yaml:"attack_animation"` // swing length in seconds, 0 = no lock
	ExperienceReward int     `yaml:"experience_reward"`

	// Senses
	SightRange        float64 `yaml:"sight_range"`
	ViewAngle         float64 `yaml:"view_angle"` // full cone, degrees
	EyeHeight         float64 `yaml:"eye_height"`
	HearingForgetTime float64 `yaml:"hearing_forget_time"`

	// Wandering
	WanderRadius     float64 `yaml:"wander_radius"`
	WanderPointDelay float64 `yaml:"wander_point_delay"`
	ArrivalDistance  float64 `yaml:"arrival_distance"`

	// Hit volumes
	BodyRadius float64 `yaml:"body_radius"`
	HeadHeight float64 `yaml:"head_height"`
	HeadRadius float64 `yaml:"head_radius"`

	// Flying ranged attack
	ChargeDuration   float64 `yaml:"charge_duration"`
	BeamDuration     float64 `yaml:"beam_duration"`
	ChargeMoveFactor float64 `yaml:"charge_move_factor"`
	HoverHeight      float64 `yaml:"hover_height"`
}

// DefaultZombie returns the walker template.
func DefaultZombie() EnemyTemplate {
	return EnemyTemplate{
		ID:                "zombie",
		Kind:              model.KindZombie,
		MaxHealth:         50,
		AttackRange:       2,
		AttackCooldown:    1.5,
		AttackAnimation:   1.1,
		ExperienceReward:  10,
		SightRange:        15,
		ViewAngle:         120,
		EyeHeight:         1.2,
		HearingForgetTime: 5,
		WanderRadius:      10,
		WanderPointDelay:  4,
		ArrivalDistance:   1,
		BodyRadius:        0.5,
		HeadHeight:        1.7,
		HeadRadius:        0.2,
	}
}

// DefaultUFO returns the flying ranged template.
func DefaultUFO() EnemyTemplate {
	return EnemyTemplate{
		ID:                "ufo",
		Kind:              model.KindUFO,
		MaxHealth:         100,
		AttackRange:       3.5,
		AttackCooldown:    2,
		ExperienceReward:  50,
		SightRange:        25,
		ViewAngle:         360,
		EyeHeight:         0,
		HearingForgetTime: 5,
		WanderRadius:      15,
		WanderPointDelay:  3,
		ArrivalDistance:   1,
		BodyRadius:        1.2,
		HeadHeight:        1.4,
		HeadRadius:        0.4,
		ChargeDuration:    1.2,
		BeamDuration:      0.3,
		ChargeMoveFactor:  0.3,
		HoverHeight:       6,
	}
}

// Noise tunes the hearing broadcast and the loudness of player actions.
type Noise struct {
	BaseRadius float64 `yaml:"base_radius"`
	Cooldown   float64 `yaml:"cooldown"`

	WalkPower    float64 `yaml:"walk_power"`
	SprintPower  float64 `yaml:"sprint_power"`
	JumpPower    float64 `yaml:"jump_power"`
	RollPower    float64 `yaml:"roll_power"`
	GunshotPower float64 `yaml:"gunshot_power"`
}

// DefaultNoise returns the stock loudness table.
func DefaultNoise() Noise {
	return Noise{
		BaseRadius:   50,
		Cooldown:     0.3,
		WalkPower:    0.5,
		SprintPower:  1,
		JumpPower:    2,
		RollPower:    2,
		GunshotPower: 3,
	}
}

// Player holds survivor tuning.
type Player struct {
	MaxHealth       float64    `yaml:"max_health"`
	Speed           float64    `yaml:"speed"`
	SprintSpeed     float64    `yaml:"sprint_speed"`
	RegenRate       float64    `yaml:"regen_rate"`
	HitSlowFactor   float64    `yaml:"hit_slow_factor"`
	HitSlowDuration float64    `yaml:"hit_slow_duration"`
	EyeHeight       float64    `yaml:"eye_height"`
	Start           model.Vec3 `yaml:"start"`

	MaxStamina         float64 `yaml:"max_stamina"`
	StaminaDrainRate   float64 `yaml:"stamina_drain_rate"` // per second of sprint
	StaminaRegenRate   float64 `yaml:"stamina_regen_rate"`
	MinStaminaToSprint float64 `yaml:"min_stamina_to_sprint"`

	// Roll is a short dash along the facing direction.
	RollCost     float64 `yaml:"roll_cost"` // stamina
	RollDistance float64 `yaml:"roll_distance"`
	RollCooldown float64 `yaml:"roll_cooldown"` // seconds
}

// Stats converts the config into model stats.
func (p Player) Stats() model.PlayerStats {
	return model.PlayerStats{
		MaxHealth:          p.MaxHealth,
		Speed:              p.Speed,
		SprintSpeed:        p.SprintSpeed,
		RegenRate:          p.RegenRate,
		HitSlowFactor:      p.HitSlowFactor,
		HitSlowDuration:    p.HitSlowDuration,
		MaxStamina:         p.MaxStamina,
		StaminaDrainRate:   p.StaminaDrainRate,
		StaminaRegenRate:   p.StaminaRegenRate,
		MinStaminaToSprint: p.MinStaminaToSprint,
	}
}

// Weapon holds the player's gun.
type Weapon struct {
	Damage             float64 `yaml:"damage"`
	FireRate           float64 `yaml:"fire_rate"` // shots per second
	Range              float64 `yaml:"range"`
	HeadshotMultiplier float64 `yaml:"headshot_multiplier"`
	ClipSize           int     `yaml:"clip_size"`   // 0 = unlimited
	ReloadTime         float64 `yaml:"reload_time"` // seconds
}

// Item is a consumable potion or boost mapped to a registered effect.
type Item struct {
	Name   string            `yaml:"name"`
	Effect string            `yaml:"effect"`
	Params map[string]string `yaml:"params"`
}

// DefaultItems returns the stock potion/boost catalog.
func DefaultItems() []Item {
	return []Item{
		{Name: "green_potion", Effect: "Health", Params: map[string]string{"percent": "0.5", "duration": "1"}},
		{Name: "red_potion", Effect: "SpeedBoost", Params: map[string]string{"multiplier": "1.5", "duration": "12"}},
		{Name: "invincible_potion", Effect: "Invincibility", Params: map[string]string{"duration": "8"}},
		{Name: "yellow_boost", Effect: "ExperienceBoost", Params: map[string]string{"multiplier": "2", "rounds": "2"}},
		{Name: "regen_boost", Effect: "HealthRegen", Params: map[string]string{"delta": "1", "rounds": "3"}},
	}
}

// Loadout slot limits.
const (
	PotionSlots = 2
	BoostSlots  = 3
)

// Loadout is what the survivor carries into a run. Potions are spent on
// use; boosts are applied when the run starts. Empty names are empty slots.
type Loadout struct {
	Potions []string `yaml:"potions"`
	Boosts  []string `yaml:"boosts"`
}

// Validate checks slot counts and that every item is in g's catalog.
func (l Loadout) Validate(g Game) error {
	if len(l.Potions) > PotionSlots {
		return fmt.Errorf("%w: loadout holds at most %d potions, got %d", ErrInvalid, PotionSlots, len(l.Potions))
	}
	if len(l.Boosts) > BoostSlots {
		return fmt.Errorf("%w: loadout holds at most %d boosts, got %d", ErrInvalid, BoostSlots, len(l.Boosts))
	}
	for _, name := range append(slices.Clone(l.Potions), l.Boosts...) {
		if name == "" {
			continue
		}
		if _, ok := g.Item(name); !ok {
			return fmt.Errorf("%w: loadout item %q is not in the catalog", ErrInvalid, name)
		}
	}
	return nil
}

// Experience tunes kill rewards and the level curve.
type Experience struct {
	PerRoundBonus float64 `yaml:"per_round_bonus"`
	LevelBase     int     `yaml:"level_base"`
	LevelGrowth   float64 `yaml:"level_growth"`
}

// Contract is an optional run objective.
type Contract struct {
	ID                 string  `yaml:"id"`
	Name               string  `yaml:"name"`
	Type               string  `yaml:"type"` // kill_zombies | headshots | survive_low_hp
	Target             int     `yaml:"target"`
	LowHealthThreshold float64 `yaml:"low_health_threshold"`
	Reward             string  `yaml:"reward"`
}

// Contract types.
const (
	ContractKillZombies  = "kill_zombies"
	ContractHeadshots    = "headshots"
	ContractSurviveLowHP = "survive_low_hp"
)

// DefaultContracts returns the stock contract board.
// The first contract not yet completed in the profile becomes active.
func DefaultContracts() []Contract {
	return []Contract{
		{ID: "cleanup", Name: "Cleanup", Type: ContractKillZombies, Target: 25, Reward: "yellow_boost"},
		{ID: "marksman", Name: "Marksman", Type: ContractHeadshots, Target: 10, Reward: "red_potion"},
		{ID: "on_the_edge", Name: "On the edge", Type: ContractSurviveLowHP, Target: 30, LowHealthThreshold: 20, Reward: "green_potion"},
	}
}

// Box is an axis-aligned obstacle.
type Box struct {
	Min model.Vec3 `yaml:"min"`
	Max model.Vec3 `yaml:"max"`
}

// Arena bounds the playable area.
type Arena struct {
	Min       model.Vec3 `yaml:"min"`
	Max       model.Vec3 `yaml:"max"`
	CellSize  float64    `yaml:"cell_size"`
	Obstacles []Box      `yaml:"obstacles"`
}

// Storage configures the local profile store.
type Storage struct {
	Enabled bool   `yaml:"enabled"`
	AppName string `yaml:"app_name"`
}

// Game holds all configuration for a survival session.
type Game struct {
	LogLevel string `yaml:"log_level"`
	TickRate int    `yaml:"tick_rate"` // ticks per second

	Rounds     Rounds          `yaml:"rounds"`
	Spawn      Spawn           `yaml:"spawn"`
	Enemies    []EnemyTemplate `yaml:"enemies"`
	Noise      Noise           `yaml:"noise"`
	Player     Player          `yaml:"player"`
	Weapon     Weapon          `yaml:"weapon"`
	Items      []Item          `yaml:"items"`
	Loadout    Loadout         `yaml:"loadout"`
	Experience Experience      `yaml:"experience"`
	Contracts  []Contract      `yaml:"contracts"`
	Arena      Arena           `yaml:"arena"`

	Storage  Storage        `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
}

// DefaultGame returns Game config with sensible defaults.
func DefaultGame() Game {
	return Game{
		LogLevel: "info",
		TickRate: 30,
		Rounds:   DefaultRounds(),
		Spawn: Spawn{
			Points: []model.Vec3{
				{X: -40, Z: -40},
				{X: 40, Z: -40},
				{X: -40, Z: 40},
				{X: 40, Z: 40},
			},
			Template: "zombie",
		},
		Enemies: []EnemyTemplate{DefaultZombie(), DefaultUFO()},
		Noise:   DefaultNoise(),
		Player: Player{
			MaxHealth:       model.DefaultPlayerMaxHealth,
			Speed:           model.DefaultPlayerSpeed,
			SprintSpeed:     model.DefaultPlayerSprintSpeed,
			RegenRate:       model.DefaultPlayerRegenRate,
			HitSlowFactor:   model.DefaultHitSlowFactor,
			HitSlowDuration: model.DefaultHitSlowDuration,
			EyeHeight:       1.6,

			MaxStamina:         model.DefaultPlayerMaxStamina,
			StaminaDrainRate:   model.DefaultStaminaDrainRate,
			StaminaRegenRate:   model.DefaultStaminaRegenRate,
			MinStaminaToSprint: model.DefaultMinStaminaToSprint,

			RollCost:     20,
			RollDistance: 8,
			RollCooldown: 2,
		},
		Weapon: Weapon{
			Damage:             10,
			FireRate:           2,
			Range:              30,
			HeadshotMultiplier: 3,
			ClipSize:           10,
			ReloadTime:         2.3,
		},
		Items: DefaultItems(),
		Loadout: Loadout{
			Potions: []string{"green_potion", "red_potion"},
		},
		Experience: Experience{
			PerRoundBonus: 0.5,
			LevelBase:     100,
			LevelGrowth:   1.2,
		},
		Contracts: DefaultContracts(),
		Arena: Arena{
			Min:      model.Vec3{X: -60, Y: -10, Z: -60},
			Max:      model.Vec3{X: 60, Y: 30, Z: 60},
			CellSize: 8,
		},
		Storage: Storage{
			Enabled: true,
			AppName: "zsurvive",
		},
		Database: DefaultDatabase(),
	}
}

// LoadGame loads game config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadGame(path string) (Game, error) {
	cfg := DefaultGame()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Template returns the enemy template with the given id.
func (g Game) Template(id string) (EnemyTemplate, bool) {
	for _, t := range g.Enemies {
		if t.ID == id {
			return t, true
		}
	}
	return EnemyTemplate{}, false
}

// Item returns the catalog entry with the given name.
func (g Game) Item(name string) (Item, bool) {
	for _, it := range g.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// Validate rejects numeric settings the simulation cannot run with.
// Spawn points and the spawn template are checked by the round director.
func (g Game) Validate() error {
	if g.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, g.TickRate)
	}
	if err := g.Rounds.Validate(); err != nil {
		return err
	}
	if g.Noise.BaseRadius < 0 || g.Noise.Cooldown < 0 {
		return fmt.Errorf("%w: noise radius and cooldown must not be negative", ErrInvalid)
	}
	if g.Arena.Max.X <= g.Arena.Min.X || g.Arena.Max.Z <= g.Arena.Min.Z {
		return fmt.Errorf("%w: arena max must exceed min", ErrInvalid)
	}
	seen := make(map[string]bool, len(g.Enemies))
	for _, t := range g.Enemies {
		if t.ID == "" {
			return fmt.Errorf("%w: enemy template without id", ErrInvalid)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate enemy template %q", ErrInvalid, t.ID)
		}
		seen[t.ID] = true
		if t.Kind != model.KindZombie && t.Kind != model.KindUFO {
			return fmt.Errorf("%w: enemy template %q has unknown kind %q", ErrInvalid, t.ID, t.Kind)
		}
		if t.MaxHealth <= 0 {
			return fmt.Errorf("%w: enemy template %q max_health must be positive", ErrInvalid, t.ID)
		}
	}
	for _, c := range g.Contracts {
		switch c.Type {
		case ContractKillZombies, ContractHeadshots, ContractSurviveLowHP:
		default:
			return fmt.Errorf("%w: contract %q has unknown type %q", ErrInvalid, c.ID, c.Type)
		}
		if c.Target <= 0 {
			return fmt.Errorf("%w: contract %q target must be positive", ErrInvalid, c.ID)
		}
	}
	if err := g.Player.Validate(); err != nil {
		return err
	}
	if err := g.Loadout.Validate(g); err != nil {
		return err
	}
	if g.Weapon.FireRate <= 0 {
		return fmt.Errorf("%w: weapon fire_rate must be positive", ErrInvalid)
	}
	if g.Weapon.ClipSize < 0 || g.Weapon.ReloadTime < 0 {
		return fmt.Errorf("%w: weapon clip_size and reload_time must not be negative", ErrInvalid)
	}
	return nil
}

// Validate checks durations and that the curve never gets easier.
func (r Rounds) Validate() error {
	switch {
	case r.RoundDuration <= 0:
		return fmt.Errorf("%w: round_duration must be positive", ErrInvalid)
	case r.BreakDuration < 0:
		return fmt.Errorf("%w: break_duration must not be negative", ErrInvalid)
	case r.MinSpawnInterval < SpawnIntervalFloor:
		return fmt.Errorf("%w: min_spawn_interval must be at least %.1fs, got %v", ErrInvalid, SpawnIntervalFloor, r.MinSpawnInterval)
	case r.SpeedIncrement < 0, r.DamageIncrement < 0, r.EnemiesIncrement < 0, r.SpawnIntervalDecrease < 0:
		return fmt.Errorf("%w: difficulty increments must not be negative", ErrInvalid)
	case r.BaseEnemiesPerRound <= 0:
		return fmt.Errorf("%w: base_enemies_per_round must be positive", ErrInvalid)
	case r.SpawnJitter < 0 || r.SpawnJitter >= 1:
		return fmt.Errorf("%w: spawn_jitter must be in [0, 1)", ErrInvalid)
	}
	return nil
}

// Validate rejects stamina settings that break the 0..max invariant.
func (p Player) Validate() error {
	switch {
	case p.MaxStamina < 0:
		return fmt.Errorf("%w: max_stamina must not be negative", ErrInvalid)
	case p.StaminaDrainRate < 0, p.StaminaRegenRate < 0, p.MinStaminaToSprint < 0:
		return fmt.Errorf("%w: stamina rates must not be negative", ErrInvalid)
	case p.RollCost < 0, p.RollDistance < 0, p.RollCooldown < 0:
		return fmt.Errorf("%w: roll settings must not be negative", ErrInvalid)
	}
	return nil
}
