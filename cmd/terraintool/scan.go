package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/runejs/webclient/internal/assets"
	"github.com/runejs/webclient/pkg/archive"
	"github.com/runejs/webclient/pkg/formats"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Decode every region in the maps archive",
	Long: `Decode every terrain and landscape group in the maps archive and report
the ones that fail.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolP("verbose", "v", false, "List every failing group")
}

func runScan(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	dir, store, err := openStore()
	if err != nil {
		return err
	}
	m := assets.NewManager(store)
	defer m.Close()

	refs, err := dir.Groups(archive.ArchiveMaps)
	if err != nil {
		return err
	}

	var failed []string
	var regions, landscapes int
	bar := progressbar.New(len(refs))
	for _, ref := range refs {
		bar.Add(1)

		name := ref.String()
		x, y, err := formats.ParseRegionName(name)
		if err != nil {
			continue
		}

		if strings.HasPrefix(name, "l") {
			_, err = m.Landscape(cmd.Context(), x, y)
			landscapes++
		} else {
			_, err = m.Region(cmd.Context(), x, y)
			regions++
		}
		if err != nil {
			if !errors.Is(err, assets.ErrUnavailable) {
				return err
			}
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
		}
	}
	bar.Finish()
	fmt.Fprintln(cmd.OutOrStdout())

	fmt.Fprintf(cmd.OutOrStdout(), "Decoded %d regions and %d landscapes, %d failed\n", regions, landscapes, len(failed))
	if verbose {
		for _, f := range failed {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+f)
		}
	}
	return nil
}
