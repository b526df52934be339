// Package config handles tool configuration loading and management.
package config

import "github.com/runejs/webclient/pkg/color"

// Config holds all settings.
type Config struct {
	Archive ArchiveConfig `yaml:"archive"`
	Terrain TerrainConfig `yaml:"terrain"`
	Logging LoggingConfig `yaml:"logging"`
}

// ArchiveConfig holds cache archive settings.
type ArchiveConfig struct {
	Root    string `yaml:"root"`     // Directory mirror of the cache
	CacheMB int    `yaml:"cache_mb"` // Byte budget of the group cache
}

// TerrainConfig holds terrain assembly and mesh settings.
type TerrainConfig struct {
	Brightness       float64 `yaml:"brightness"`
	ModelScale       float32 `yaml:"model_scale"`
	RenderTileModels bool    `yaml:"render_tile_models"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Root:    "cache",
			CacheMB: 64,
		},
		Terrain: TerrainConfig{
			Brightness:       color.DefaultBrightness,
			ModelScale:       1,
			RenderTileModels: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// CacheBudget returns the archive cache budget in bytes.
func (c *Config) CacheBudget() int64 {
	return int64(c.Archive.CacheMB) << 20
}
