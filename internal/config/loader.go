package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadWhack loads the game configuration.
// Search order: customPath -> ~/.whack/configs/whack.yaml -> ./configs/whack.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadWhack(customPath string) (WhackConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return WhackConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseWhack(data)
		if err != nil {
			return WhackConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("whack.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseWhack(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "whack.yaml")); err == nil {
		if cfg, err := parseWhack(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseWhack(defaultWhackYAML)
	if err != nil {
		return DefaultWhackConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseWhack decodes YAML over the hardcoded defaults and validates the result.
func parseWhack(data []byte) (WhackConfig, error) {
	cfg := DefaultWhackConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return WhackConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return WhackConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".whack", "configs", filename)
}
