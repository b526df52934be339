package terrain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runejs/webclient/internal/assets"
	"github.com/runejs/webclient/internal/logger"
	"github.com/runejs/webclient/pkg/formats"
)

// Source provides decoded regions and floor definitions. *assets.Manager
// implements it.
type Source interface {
	Region(ctx context.Context, x, y int) (*formats.Region, error)
	Overlay(ctx context.Context, id int) (*formats.Overlay, error)
	Underlay(ctx context.Context, id int) (*formats.Underlay, error)
}

// floorFetchLimit bounds concurrent definition lookups.
const floorFetchLimit = 8

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	log     *zap.Logger
	shadows *ShadowMap
}

// WithLogger sets the logger used for load warnings.
func WithLogger(log *zap.Logger) LoadOption {
	return func(c *loadConfig) { c.log = log }
}

// WithShadows darkens vertices with a precomputed shadow map.
func WithShadows(s *ShadowMap) LoadOption {
	return func(c *loadConfig) { c.shadows = s }
}

// Load fetches the regions around pos and the floor definitions they use,
// then builds the terrain. Regions that are unavailable are treated as empty
// and reported through Terrain.LoadErrors. Any other error aborts the load.
func Load(ctx context.Context, src Source, pos Position, opts ...LoadOption) (*Terrain, error) {
	cfg := loadConfig{log: logger.Named("terrain")}
	for _, opt := range opts {
		opt(&cfg)
	}

	loaded, err := loadRegions(ctx, src, pos, cfg.log)
	if err != nil {
		return nil, err
	}

	floors, err := loadFloors(ctx, src, loaded.regions)
	if err != nil {
		return nil, err
	}

	t := Build(BuildInput{
		Position: pos,
		Regions:  loaded.regions,
		Floors:   floors,
		Shadows:  cfg.shadows,
	})
	t.LoadErrors = loaded.unavailable

	paints, models := t.VisibleTiles(pos.Plane)
	cfg.log.Debug("terrain loaded",
		zap.Stringer("position", pos),
		zap.Int("regions", len(t.Regions)),
		zap.Int("paints", paints),
		zap.Int("models", models))

	return t, nil
}

// loadedRegions is the outcome of fetching a scene's regions.
type loadedRegions struct {
	regions map[RegionCoord]*formats.Region
	// unavailable aggregates the regions that were skipped.
	unavailable error
}

func loadRegions(ctx context.Context, src Source, pos Position, log *zap.Logger) (*loadedRegions, error) {
	var mu sync.Mutex
	out := &loadedRegions{regions: make(map[RegionCoord]*formats.Region)}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range pos.SceneRegions() {
		g.Go(func() error {
			r, err := src.Region(gctx, c.X, c.Y)
			if errors.Is(err, assets.ErrUnavailable) {
				log.Warn("region unavailable", zap.String("region", c.Name()), zap.Error(err))
				mu.Lock()
				out.unavailable = multierr.Append(out.unavailable, err)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return fmt.Errorf("loading region %s: %w", c.Name(), err)
			}

			mu.Lock()
			out.regions[c] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// floorIDs returns the sorted definition ids referenced by the regions.
func floorIDs(regions map[RegionCoord]*formats.Region) (overlays, underlays []int) {
	seenOverlay := make(map[int]bool)
	seenUnderlay := make(map[int]bool)
	for _, r := range regions {
		for plane := range Planes {
			for x := range formats.RegionSize {
				for y := range formats.RegionSize {
					if id := int(r.OverlayIDs[plane][x][y]); id > 0 && !seenOverlay[id-1] {
						seenOverlay[id-1] = true
						overlays = append(overlays, id-1)
					}
					if id := int(r.UnderlayIDs[plane][x][y]); id > 0 && !seenUnderlay[id-1] {
						seenUnderlay[id-1] = true
						underlays = append(underlays, id-1)
					}
				}
			}
		}
	}
	sort.Ints(overlays)
	sort.Ints(underlays)
	return overlays, underlays
}

func loadFloors(ctx context.Context, src Source, regions map[RegionCoord]*formats.Region) (*FloorSet, error) {
	overlays, underlays := floorIDs(regions)
	set := NewFloorSet()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(floorFetchLimit)

	for _, id := range overlays {
		g.Go(func() error {
			o, err := src.Overlay(gctx, id)
			if err != nil {
				return fmt.Errorf("loading overlay %d: %w", id, err)
			}
			mu.Lock()
			set.Overlays[id] = o
			mu.Unlock()
			return nil
		})
	}
	for _, id := range underlays {
		g.Go(func() error {
			u, err := src.Underlay(gctx, id)
			if err != nil {
				return fmt.Errorf("loading underlay %d: %w", id, err)
			}
			mu.Lock()
			set.Underlays[id] = u
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
