// Package config provides YAML-based game configuration loading and
// difficulty management for the adventure game.
package config

import "time"

// AdventureConfig contains all tuning for actors, combat and spawning.
type AdventureConfig struct {
	Body        BodyConfig        `yaml:"body"`
	Player      PlayerConfig      `yaml:"player"`
	Enemy       EnemyConfig       `yaml:"enemy"`
	Combat      CombatConfig      `yaml:"combat"`
	Animation   AnimationConfig   `yaml:"animation"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
}

// BodyConfig is the bounding box size shared by every actor, in world units.
type BodyConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines player movement, vitals and regeneration.
type PlayerConfig struct {
	Speed          float64       `yaml:"speed"`
	Health         int           `yaml:"health"`
	RespawnHealth  int           `yaml:"respawn_health"`
	AttackCooldown time.Duration `yaml:"attack_cooldown"`
	RegenInterval  time.Duration `yaml:"regen_interval"`
	RegenAmount    int           `yaml:"regen_amount"`
}

// EnemyConfig defines skeleton AI parameters.
type EnemyConfig struct {
	Speed          float64       `yaml:"speed"`       // Wander speed
	ChaseSpeed     float64       `yaml:"chase_speed"` // Speed while chasing
	Health         int           `yaml:"health"`
	ChaseDistance  float64       `yaml:"chase_distance"`
	AttackRange    float64       `yaml:"attack_range"`
	AttackCooldown time.Duration `yaml:"attack_cooldown"`
	AttackDamage   int           `yaml:"attack_damage"`
	DeadZoneX      float64       `yaml:"dead_zone_x"`
	DeadZoneY      float64       `yaml:"dead_zone_y"`
	Wander         WanderConfig  `yaml:"wander"`
}

// WanderConfig holds per-tick wander probabilities in percent.
type WanderConfig struct {
	StartChance int `yaml:"start_chance"`
	TurnChance  int `yaml:"turn_chance"`
	StopChance  int `yaml:"stop_chance"`
}

// CombatConfig defines the player's swing hitbox and damage.
type CombatConfig struct {
	HitboxWidth  float64 `yaml:"hitbox_width"`
	HitboxHeight float64 `yaml:"hitbox_height"`
	Damage       int     `yaml:"damage"`
}

// AnimationConfig defines frame advance rates and frame-set lengths.
type AnimationConfig struct {
	FrameSpeed  float64     `yaml:"frame_speed"`
	AttackSpeed float64     `yaml:"attack_speed"`
	Player      FrameCounts `yaml:"player"`
	Enemy       FrameCounts `yaml:"enemy"`
}

// FrameCounts is the number of frames in each animation strip.
// DeathLoopStart is the frame the death animation loops back to after
// playing once; zero means the death animation does not loop.
type FrameCounts struct {
	Walk           int `yaml:"walk"`
	Idle           int `yaml:"idle"`
	Attack         int `yaml:"attack"`
	Death          int `yaml:"death"`
	DeathLoopStart int `yaml:"death_loop_start"`
}

// SpawnConfig controls periodic enemy spawning.
type SpawnConfig struct {
	Interval   time.Duration `yaml:"interval"`
	MaxEnemies int           `yaml:"max_enemies"`
}

// PersistenceConfig controls how often snapshots are flushed to the backend.
type PersistenceConfig struct {
	FlushEvery int `yaml:"flush_every"` // Ticks between flushes
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "kills", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Kills/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	IntervalReduction float64 `yaml:"interval_reduction"` // Fraction of spawn interval removed at max difficulty
	ExtraEnemies      int     `yaml:"extra_enemies"`      // Enemies added to the cap at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
