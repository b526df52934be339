package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test archive defaults
	if cfg.Archive.Root != "cache" {
		t.Errorf("expected root 'cache', got %s", cfg.Archive.Root)
	}
	if cfg.Archive.CacheMB != 64 {
		t.Errorf("expected cache budget 64, got %d", cfg.Archive.CacheMB)
	}
	if cfg.CacheBudget() != 64<<20 {
		t.Errorf("expected %d bytes, got %d", 64<<20, cfg.CacheBudget())
	}

	// Test terrain defaults
	if cfg.Terrain.Brightness != 0.8 {
		t.Errorf("expected brightness 0.8, got %f", cfg.Terrain.Brightness)
	}
	if cfg.Terrain.ModelScale != 1 {
		t.Errorf("expected scale 1, got %f", cfg.Terrain.ModelScale)
	}
	if !cfg.Terrain.RenderTileModels {
		t.Error("expected tile models to be rendered by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
archive:
  root: "/srv/cache"
  cache_mb: 256

terrain:
  brightness: 0.6
  model_scale: 0.25
  render_tile_models: false

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Archive.Root != "/srv/cache" {
		t.Errorf("expected root /srv/cache, got %s", cfg.Archive.Root)
	}
	if cfg.Archive.CacheMB != 256 {
		t.Errorf("expected cache budget 256, got %d", cfg.Archive.CacheMB)
	}
	if cfg.Terrain.Brightness != 0.6 {
		t.Errorf("expected brightness 0.6, got %f", cfg.Terrain.Brightness)
	}
	if cfg.Terrain.ModelScale != 0.25 {
		t.Errorf("expected scale 0.25, got %f", cfg.Terrain.ModelScale)
	}
	if cfg.Terrain.RenderTileModels {
		t.Error("expected tile models to be disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("expected log file 'terrain.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("archive:\n  root: maps\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Archive.Root != "maps" {
		t.Errorf("expected root maps, got %s", cfg.Archive.Root)
	}
	// Unset keys keep their defaults.
	if cfg.Archive.CacheMB != 64 || cfg.Terrain.Brightness != 0.8 {
		t.Errorf("expected defaults to survive, got %+v", cfg)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "archive:\n  cache_mb: not a number\n  invalid syntax here\n"},
		{"brightness", "terrain:\n  brightness: 3\n"},
		{"scale", "terrain:\n  model_scale: -1\n"},
		{"budget", "archive:\n  cache_mb: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("terraintool.yaml", []byte("archive:\n  root: x\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	if path := findConfigFile(); path == "" {
		t.Error("expected to find terraintool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "no flags",
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Archive.Root != "cache" || !cfg.Terrain.RenderTileModels {
					t.Errorf("expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "archive flags",
			args: []string{"--root", "/data/cache", "--cache-mb", "8"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Archive.Root != "/data/cache" {
					t.Errorf("expected root /data/cache, got %s", cfg.Archive.Root)
				}
				if cfg.Archive.CacheMB != 8 {
					t.Errorf("expected cache budget 8, got %d", cfg.Archive.CacheMB)
				}
			},
		},
		{
			name: "terrain flags",
			args: []string{"--brightness", "0.5", "--scale", "2", "--no-models"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Brightness != 0.5 {
					t.Errorf("expected brightness 0.5, got %f", cfg.Terrain.Brightness)
				}
				if cfg.Terrain.ModelScale != 2 {
					t.Errorf("expected scale 2, got %f", cfg.Terrain.ModelScale)
				}
				if cfg.Terrain.RenderTileModels {
					t.Error("expected tile models disabled by --no-models")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags := BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg, flags)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
archive:
  root: "from-file"
  cache_mb: 32
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--config", configPath, "--root", "from-flag"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	// Load config
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Root should be from flag, not file
	if cfg.Archive.Root != "from-flag" {
		t.Errorf("expected root from flag, got %s", cfg.Archive.Root)
	}

	// Budget should be from file since no flag override
	if cfg.Archive.CacheMB != 32 {
		t.Errorf("expected cache budget 32 from file, got %d", cfg.Archive.CacheMB)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Archive.Root = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Archive.Root != "saved" {
		t.Errorf("expected root saved, got %s", loaded.Archive.Root)
	}
}
