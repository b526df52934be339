package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	var configPath string
	if flags != nil {
		configPath = flags.ConfigPath
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg, flags)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./terraintool.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TerrainTool")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TerrainTool")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terraintool")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terraintool")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks settings that would make the tools misbehave.
func (c *Config) Validate() error {
	if c.Archive.CacheMB < 0 {
		return fmt.Errorf("archive.cache_mb must not be negative, got %d", c.Archive.CacheMB)
	}
	if c.Terrain.Brightness <= 0 || c.Terrain.Brightness > 1 {
		return fmt.Errorf("terrain.brightness must be in (0, 1], got %v", c.Terrain.Brightness)
	}
	if c.Terrain.ModelScale <= 0 {
		return fmt.Errorf("terrain.model_scale must be positive, got %v", c.Terrain.ModelScale)
	}
	return nil
}
