// Package config provides configuration loading and access for training and live play.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Actor      ActorConfig      `yaml:"actor"`
	Arena      ArenaConfig      `yaml:"arena"`
	Training   TrainingConfig   `yaml:"training"`
	Genes      GenesConfig      `yaml:"genes"`
	Scripted   ScriptedConfig   `yaml:"scripted"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Match      MatchConfig      `yaml:"match"`
	Tournament TournamentConfig `yaml:"tournament"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds fixed-step integration settings.
type PhysicsConfig struct {
	DT   float64 `yaml:"dt"`   // Fixed physics step in seconds
	Drag float64 `yaml:"drag"` // Linear drag per second
}

// ActorConfig holds per-combatant stats. Durations are in seconds.
type ActorConfig struct {
	Speed            float64 `yaml:"speed"`
	MaxHP            int     `yaml:"max_hp"`
	MaxStamina       int     `yaml:"max_stamina"`
	StaminaRecovery  float64 `yaml:"stamina_recovery"`   // Seconds between +1 stamina ticks
	BlockDrainEvery  float64 `yaml:"block_drain_every"`  // Seconds between block drains
	BlockDrainAmount int     `yaml:"block_drain_amount"` // Stamina removed per drain
	AttackCost       int     `yaml:"attack_cost"`
	BlockCost        int     `yaml:"block_cost"`
	DashCost         int     `yaml:"dash_cost"`
	BlockRefund      int     `yaml:"block_refund"`
	HitIFrames       float64 `yaml:"hit_iframes"`
	DashIFrames      float64 `yaml:"dash_iframes"`
	DashStrength     float64 `yaml:"dash_strength"`
	AttackDelay      float64 `yaml:"attack_delay"` // Weapon cooldown
	AttackSwing      float64 `yaml:"attack_swing"` // Hitbox open time
	AttackStrength   float64 `yaml:"attack_strength"`
	WeaponReach      float64 `yaml:"weapon_reach"`
	WeaponRadius     float64 `yaml:"weapon_radius"`
	ShieldStrength   float64 `yaml:"shield_strength"`
	ProtectionAngle  float64 `yaml:"protection_angle"` // Degrees
	BlockKnockback   float64 `yaml:"block_knockback"`
	BodyRadius       float64 `yaml:"body_radius"`
	Mass             float64 `yaml:"mass"`
}

// ArenaConfig holds arena layout parameters.
type ArenaConfig struct {
	Spacing      float64 `yaml:"spacing"`       // Distance between arena centers on the grid
	StartOffset  float64 `yaml:"start_offset"`  // Horizontal spawn offset from the center
	HalfExtent   float64 `yaml:"half_extent"`   // Half width of the square walls
	WanderRadius float64 `yaml:"wander_radius"` // Radius of random wander points
}

// TrainingConfig holds genetic optimizer parameters.
type TrainingConfig struct {
	Generations     int       `yaml:"generations"`
	Rounds          int       `yaml:"rounds"`
	Arenas          int       `yaml:"arenas"`
	RoundTime       float64   `yaml:"round_time"` // Seconds of simulated time per round
	InitMultiplier  float64   `yaml:"init_multiplier"`
	InitMultipliers []float64 `yaml:"init_multipliers"` // Optional per-gene multipliers
	MutationSpread  float64   `yaml:"mutation_spread"`  // Crossover noise half-width
	Baseline        string    `yaml:"baseline"`         // "genes" or "scripted"
	Workers         int       `yaml:"workers"`          // Concurrent arena workers (<=1 = sequential)
	Seed            int64     `yaml:"seed"`
}

// GenesConfig holds the gene clamp bounds.
type GenesConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ScriptedConfig holds thresholds for the sensor-driven opponent.
type ScriptedConfig struct {
	FollowMin      float64   `yaml:"follow_min"`
	FollowMax      float64   `yaml:"follow_max"`
	WanderBeyond   float64   `yaml:"wander_beyond"`
	GiveUpChance   float64   `yaml:"give_up_chance"` // Chance per tick to drop back to idle
	StrikeRange    float64   `yaml:"strike_range"`
	DashBeyond     float64   `yaml:"dash_beyond"`
	DashChance     float64   `yaml:"dash_chance"`
	UnblockChance  float64   `yaml:"unblock_chance"`
	UnblockBeyond  float64   `yaml:"unblock_beyond"`
	ChanceOffset   int       `yaml:"chance_offset"`
	ChanceTable    []float64 `yaml:"chance_table"`
}

// DifficultyConfig holds difficulty controller parameters.
type DifficultyConfig struct {
	Mode        string        `yaml:"mode"` // "preset", "direct" or "ranked"
	MomentumCap int           `yaml:"momentum_cap"`
	DirectMin   int           `yaml:"direct_min"` // Both zero leaves direct mode unbounded
	DirectMax   int           `yaml:"direct_max"`
	Scaling     ScalingConfig `yaml:"scaling"`
	TablePath   string        `yaml:"table_path"`
	WatchTable  bool          `yaml:"watch_table"`
}

// ScalingConfig holds per-difficulty-point multipliers for direct-scaling mode.
type ScalingConfig struct {
	Speed           float64 `yaml:"speed"`
	AttackStrength  float64 `yaml:"attack_strength"`
	BlockStrength   float64 `yaml:"block_strength"`
	DashStrength    float64 `yaml:"dash_strength"`
	StaminaRecovery float64 `yaml:"stamina_recovery"`
}

// MatchConfig holds live session parameters.
type MatchConfig struct {
	GameMode      string         `yaml:"game_mode"`
	Lives         map[string]int `yaml:"lives"` // Lives per game mode
	CountdownStep float64        `yaml:"countdown_step"`
	CountdownFrom int            `yaml:"countdown_from"`
	RestartDelay  float64        `yaml:"restart_delay"`
	PlayerID      string         `yaml:"player_id"`
}

// TournamentConfig holds round-robin parameters.
type TournamentConfig struct {
	Bots        int       `yaml:"bots"`
	FightTime   float64   `yaml:"fight_time"`
	Multipliers []float64 `yaml:"multipliers"`
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FixedDT        float64 // Physics.DT with a floor applied
	ChanceTableLen int     // len(Scripted.ChanceTable)
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Actor.MaxHP <= 0 {
		return fmt.Errorf("actor.max_hp must be positive, got %d", c.Actor.MaxHP)
	}
	if c.Actor.MaxStamina <= 0 {
		return fmt.Errorf("actor.max_stamina must be positive, got %d", c.Actor.MaxStamina)
	}
	if c.Genes.Min > c.Genes.Max {
		return fmt.Errorf("genes.min %.3f exceeds genes.max %.3f", c.Genes.Min, c.Genes.Max)
	}
	if c.Training.Arenas < 0 || c.Training.Generations < 0 || c.Training.Rounds < 0 {
		return fmt.Errorf("training counts must not be negative")
	}
	if n := len(c.Training.InitMultipliers); n != 0 && n != 8 {
		return fmt.Errorf("training.init_multipliers needs 8 values, got %d", n)
	}
	if n := len(c.Tournament.Multipliers); n != 0 && n != 8 {
		return fmt.Errorf("tournament.multipliers needs 8 values, got %d", n)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FixedDT = c.Physics.DT
	if c.Derived.FixedDT <= 0 {
		c.Derived.FixedDT = 0.02
	}
	c.Derived.ChanceTableLen = len(c.Scripted.ChanceTable)
}

// LivesFor returns the configured life count for a game mode, defaulting to 1.
func (c *Config) LivesFor(mode string) int {
	if n, ok := c.Match.Lives[mode]; ok && n > 0 {
		return n
	}
	return 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
