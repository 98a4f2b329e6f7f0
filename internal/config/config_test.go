package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var fromYAML AdventureConfig
	if err := yaml.Unmarshal(DefaultYAML(), &fromYAML); err != nil {
		t.Fatalf("embedded YAML should parse: %v", err)
	}

	if fromYAML != DefaultAdventureConfig() {
		t.Errorf("embedded defaults differ from DefaultAdventureConfig():\n%+v\n%+v", fromYAML, DefaultAdventureConfig())
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := DefaultAdventureConfig()

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"body width", cfg.Body.Width, 54.0},
		{"body height", cfg.Body.Height, 64.0},
		{"chase distance", cfg.Enemy.ChaseDistance, 150.0},
		{"attack range", cfg.Enemy.AttackRange, 50.0},
		{"enemy damage", cfg.Enemy.AttackDamage, 10},
		{"enemy cooldown", cfg.Enemy.AttackCooldown, 2 * time.Second},
		{"player damage", cfg.Combat.Damage, 20},
		{"hitbox width", cfg.Combat.HitboxWidth, 70.0},
		{"hitbox height", cfg.Combat.HitboxHeight, 50.0},
		{"player cooldown", cfg.Player.AttackCooldown, 1250 * time.Millisecond},
		{"max enemies", cfg.Spawn.MaxEnemies, 4},
		{"difficulty off", cfg.Difficulty.Enabled, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("%s = %v, expected %v", tc.name, tc.got, tc.expected)
			}
		})
	}
}

func TestLoadAdventureCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("enemy:\n  chase_distance: 200\nspawn:\n  interval: 3s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAdventure(path)
	if err != nil {
		t.Fatalf("LoadAdventure failed: %v", err)
	}

	if cfg.Enemy.ChaseDistance != 200 {
		t.Errorf("ChaseDistance = %v, expected 200", cfg.Enemy.ChaseDistance)
	}
	if cfg.Spawn.Interval != 3*time.Second {
		t.Errorf("Spawn.Interval = %v, expected 3s", cfg.Spawn.Interval)
	}
	// Unspecified keys keep defaults
	if cfg.Enemy.AttackRange != 50 {
		t.Errorf("AttackRange = %v, expected default 50", cfg.Enemy.AttackRange)
	}
}

func TestLoadAdventureErrors(t *testing.T) {
	if _, err := LoadAdventure(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("spawn: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAdventure(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestApplyAdventurePreset(t *testing.T) {
	tests := []struct {
		preset       DifficultyPreset
		enabled      bool
		initialLevel float64
		maxEnemies   int
	}{
		{DifficultyEasy, true, 0.0, 3},
		{DifficultyNormal, true, 0.3, 4},
		{DifficultyHard, true, 0.7, 6},
		{DifficultyFixed, false, 0.0, 4},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultAdventureConfig()
			ApplyAdventurePreset(&cfg, tc.preset)

			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.initialLevel {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.initialLevel)
			}
			if cfg.Spawn.MaxEnemies != tc.maxEnemies {
				t.Errorf("MaxEnemies = %d, expected %d", cfg.Spawn.MaxEnemies, tc.maxEnemies)
			}
		})
	}
}
