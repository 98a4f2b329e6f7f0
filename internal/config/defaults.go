package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/adventure.yaml
var defaultAdventureYAML []byte

// DefaultAdventureConfig returns the hardcoded adventure configuration.
// It mirrors defaults/adventure.yaml and is used when the embed cannot be parsed.
func DefaultAdventureConfig() AdventureConfig {
	return AdventureConfig{
		Body: BodyConfig{
			Width:  54,
			Height: 64,
		},
		Player: PlayerConfig{
			Speed:          3,
			Health:         100,
			RespawnHealth:  50,
			AttackCooldown: 1250 * time.Millisecond,
			RegenInterval:  5 * time.Second,
			RegenAmount:    5,
		},
		Enemy: EnemyConfig{
			Speed:          1,
			ChaseSpeed:     2,
			Health:         100,
			ChaseDistance:  150,
			AttackRange:    50,
			AttackCooldown: 2 * time.Second,
			AttackDamage:   10,
			DeadZoneX:      30,
			DeadZoneY:      10,
			Wander: WanderConfig{
				StartChance: 5,
				TurnChance:  20,
				StopChance:  5,
			},
		},
		Combat: CombatConfig{
			HitboxWidth:  70,
			HitboxHeight: 50,
			Damage:       20,
		},
		Animation: AnimationConfig{
			FrameSpeed:  0.1,
			AttackSpeed: 0.15,
			Player: FrameCounts{
				Walk:           8,
				Idle:           9,
				Attack:         10,
				Death:          13,
				DeathLoopStart: 6,
			},
			Enemy: FrameCounts{
				Walk:   8,
				Idle:   6,
				Attack: 7,
				Death:  10,
			},
		},
		Spawn: SpawnConfig{
			Interval:   10 * time.Second,
			MaxEnemies: 4,
		},
		Persistence: PersistenceConfig{
			FlushEvery: 1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "kills",
				MaxAt: 30,
			},
			Scaling: ScalingConfig{
				IntervalReduction: 0.5,
				ExtraEnemies:      4,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultAdventureYAML
}
