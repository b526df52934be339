package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runejs/webclient/pkg/formats"
)

var regionCmd = &cobra.Command{
	Use:   "region <name>",
	Short: "Decode a region and print a summary",
	Long: `Decode the terrain and landscape of a region such as m50_50 and print
per-plane statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegion,
}

func runRegion(cmd *cobra.Command, args []string) error {
	x, y, err := formats.ParseRegionName(args[0])
	if err != nil {
		return err
	}

	m, err := openManager()
	if err != nil {
		return err
	}
	defer m.Close()

	r, err := m.Region(cmd.Context(), x, y)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Region:  %s (world %d,%d)\n", r.Name, r.WorldX(), r.WorldY())
	for plane := range formats.Planes {
		var explicit, underlays, overlays int
		for lx := range formats.RegionSize {
			for ly := range formats.RegionSize {
				if !r.Heights[plane][lx][ly].IsDerived() {
					explicit++
				}
				if r.UnderlayIDs[plane][lx][ly] > 0 {
					underlays++
				}
				if r.OverlayIDs[plane][lx][ly] > 0 {
					overlays++
				}
			}
		}
		fmt.Fprintf(out, "Plane %d: %4d explicit heights, %4d underlays, %4d overlays\n",
			plane, explicit, underlays, overlays)
	}

	l, err := m.Landscape(cmd.Context(), x, y)
	if err != nil {
		fmt.Fprintf(out, "Landscape: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "Objects: %d\n", len(l.Objects))
	return nil
}
