package main

import (
	"fmt"
	"image/png"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/runejs/webclient/internal/engine/terrain"
	"github.com/runejs/webclient/internal/logger"
	"github.com/runejs/webclient/pkg/color"
)

var terrainCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Build the terrain around a position and print mesh statistics",
	Args:  cobra.NoArgs,
	RunE:  runTerrain,
}

var minimapCmd = &cobra.Command{
	Use:   "minimap",
	Short: "Render the terrain around a position to a PNG",
	Args:  cobra.NoArgs,
	RunE:  runMinimap,
}

func init() {
	for _, cmd := range []*cobra.Command{terrainCmd, minimapCmd} {
		cmd.Flags().Int("x", 3222, "World tile x")
		cmd.Flags().Int("y", 3222, "World tile y")
		cmd.Flags().Int("plane", 0, "Height level 0-3")
	}
	minimapCmd.Flags().StringP("output", "o", "minimap.png", "Output file")
	minimapCmd.Flags().Int("zoom", 4, "Pixels per tile")
}

func positionFlags(cmd *cobra.Command) terrain.Position {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	plane, _ := cmd.Flags().GetInt("plane")
	return terrain.Position{X: x, Y: y, Plane: plane}
}

func loadTerrain(cmd *cobra.Command) (*terrain.Terrain, error) {
	m, err := openManager()
	if err != nil {
		return nil, err
	}
	defer m.Close()

	t, err := terrain.Load(cmd.Context(), m, positionFlags(cmd),
		terrain.WithLogger(logger.Named("terrain")))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func runTerrain(cmd *cobra.Command, args []string) error {
	t, err := loadTerrain(cmd)
	if err != nil {
		return err
	}

	mesh := terrain.BuildMesh(t, terrain.MeshOptions{
		Plane:         t.Position.Plane,
		Scale:         cfg.Terrain.ModelScale,
		Palette:       color.NewPalette(cfg.Terrain.Brightness),
		TileModels:    cfg.Terrain.RenderTileModels,
		SmoothNormals: true,
	})

	paints, models := t.VisibleTiles(t.Position.Plane)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Position:  %s (scene base %d,%d)\n", t.Position, t.BaseX, t.BaseY)
	fmt.Fprintf(out, "Regions:   %d loaded, %d unavailable\n", len(t.Regions), len(multierr.Errors(t.LoadErrors)))
	fmt.Fprintf(out, "Tiles:     %d paints, %d models\n", paints, models)
	fmt.Fprintf(out, "Mesh:      %d triangles in %d groups\n", mesh.TriangleCount(), len(mesh.Groups))
	fmt.Fprintf(out, "Bounds:    %v - %v\n", mesh.Bounds.Min, mesh.Bounds.Max)

	textures := make(map[int]int)
	for _, g := range mesh.Groups {
		textures[g.TextureID] += g.Count / 3
	}
	for _, id := range slices.Sorted(maps.Keys(textures)) {
		if id >= 0 {
			fmt.Fprintf(out, "Texture %3d: %d triangles\n", id, textures[id])
		}
	}
	return nil
}

func runMinimap(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	zoom, _ := cmd.Flags().GetInt("zoom")

	t, err := loadTerrain(cmd)
	if err != nil {
		return err
	}

	img := terrain.ScaleMinimap(terrain.BuildMinimap(t, t.Position.Plane), zoom)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
