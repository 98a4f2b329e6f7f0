package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const adventureFile = "adventure.yaml"

// LoadAdventure loads the adventure configuration.
// Search order: customPath -> ~/.adventure/configs/adventure.yaml -> ./configs/adventure.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadAdventure(customPath string) (AdventureConfig, error) {
	cfg := DefaultAdventureConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(adventureFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultAdventureConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", adventureFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultAdventureConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultAdventureYAML, &cfg); err != nil {
		return DefaultAdventureConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// UserDir returns ~/.adventure, or empty if home is unavailable.
// Saves, the score database and user maps live under it.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".adventure")
}

// ApplyAdventurePreset modifies the config based on a difficulty preset.
func ApplyAdventurePreset(cfg *AdventureConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the enemy cap based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Spawn.MaxEnemies = 3
	case DifficultyHard:
		cfg.Spawn.MaxEnemies = 6
	}
}
