// terraintool decodes map regions from a cache mirror and builds terrain from
// them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runejs/webclient/internal/assets"
	"github.com/runejs/webclient/internal/config"
	"github.com/runejs/webclient/internal/logger"
	"github.com/runejs/webclient/pkg/archive"
)

var (
	flags *config.Flags
	cfg   *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "terraintool",
	Short: "Decode map regions and build scene terrain",
	Long: `terraintool works on a directory mirror of the game cache.

Each archive is a numbered directory of <group>.dat envelopes with an
optional index.yaml listing the file keys of compound groups.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags)
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	flags = config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(terrainCmd)
	rootCmd.AddCommand(minimapCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(packCmd)
}

// openStore opens the configured archive mirror.
func openStore() (*archive.DirTransport, *archive.Store, error) {
	dir, err := archive.OpenDir(cfg.Archive.Root)
	if err != nil {
		return nil, nil, err
	}
	store, err := archive.NewStore(dir,
		archive.WithLogger(logger.Named("archive")),
		archive.WithCacheBudget(cfg.CacheBudget()))
	if err != nil {
		return nil, nil, err
	}
	return dir, store, nil
}

// openManager opens the configured archive mirror behind an asset manager.
func openManager() (*assets.Manager, error) {
	_, store, err := openStore()
	if err != nil {
		return nil, err
	}
	logger.Named("terraintool").Debug("archive opened", zap.String("root", cfg.Archive.Root))
	return assets.NewManager(store, assets.WithLogger(logger.Named("assets"))), nil
}
