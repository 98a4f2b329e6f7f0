package config

import (
	"math"
	"time"
)

// Floor for the scaled spawn interval.
const minSpawnInterval = 2 * time.Second

// DifficultyManager calculates dynamic spawn parameters based on kills/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on kills/ticks.
func (d *DifficultyManager) Level(kills int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "kills":
		progress = float64(kills) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// SpawnInterval returns the time between enemy spawns at the current level.
func (d *DifficultyManager) SpawnInterval(base time.Duration, kills int, ticks int) time.Duration {
	level := d.Level(kills, ticks)
	reduced := time.Duration(float64(base) * (1.0 - level*d.cfg.Scaling.IntervalReduction))
	if reduced < minSpawnInterval {
		reduced = min(base, minSpawnInterval)
	}
	return reduced
}

// MaxEnemies returns the live-enemy cap at the current level.
func (d *DifficultyManager) MaxEnemies(base int, kills int, ticks int) int {
	level := d.Level(kills, ticks)
	return base + int(level*float64(d.cfg.Scaling.ExtraEnemies))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
