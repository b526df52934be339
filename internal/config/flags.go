package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Zero values leave the loaded config
// untouched.
type Flags struct {
	ConfigPath string
	Debug      bool
	Root       string
	CacheMB    int
	Brightness float64
	Scale      float32
	NoModels   bool
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Root, "root", "", "Archive mirror directory")
	fs.IntVar(&f.CacheMB, "cache-mb", 0, "Group cache budget in MB")
	fs.Float64Var(&f.Brightness, "brightness", 0, "Palette brightness")
	fs.Float32Var(&f.Scale, "scale", 0, "Mesh scale")
	fs.BoolVar(&f.NoModels, "no-models", false, "Skip shaped tiles")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Root != "" {
		cfg.Archive.Root = f.Root
	}
	if f.CacheMB > 0 {
		cfg.Archive.CacheMB = f.CacheMB
	}
	if f.Brightness > 0 {
		cfg.Terrain.Brightness = f.Brightness
	}
	if f.Scale > 0 {
		cfg.Terrain.ModelScale = f.Scale
	}
	if f.NoModels {
		cfg.Terrain.RenderTileModels = false
	}
}
