// Package assets handles game asset loading and caching.
package assets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/runejs/webclient/internal/logger"
	"github.com/runejs/webclient/pkg/archive"
	"github.com/runejs/webclient/pkg/formats"
)

// ErrUnavailable marks an asset that is missing, fails to decompress or fails
// to decode. Transport failures are returned without it.
var ErrUnavailable = errors.New("asset unavailable")

// texturesGroup is the group of ArchiveTextures holding all definitions.
const texturesGroup = "0"

// Manager decodes and caches assets read through an archive store.
// Lookups that fail are remembered so they are not fetched again.
type Manager struct {
	store *archive.Store
	log   *zap.Logger

	regions    *Cache[string, *formats.Region]
	landscapes *Cache[string, *formats.Landscape]
	overlays   *Cache[int, *formats.Overlay]
	underlays  *Cache[int, *formats.Underlay]
	textures   *Cache[int, *formats.TextureDefinition]
	failures   *Cache[string, error]
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a new asset manager.
func NewManager(store *archive.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		log:        logger.Named("assets"),
		regions:    NewCache[string, *formats.Region](),
		landscapes: NewCache[string, *formats.Landscape](),
		overlays:   NewCache[int, *formats.Overlay](),
		underlays:  NewCache[int, *formats.Underlay](),
		textures:   NewCache[int, *formats.TextureDefinition](),
		failures:   NewCache[string, error](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying archive store.
func (m *Manager) Store() *archive.Store {
	return m.store
}

// absent reports whether err means the asset does not exist in usable form.
func absent(err error) bool {
	return errors.Is(err, archive.ErrNotFound) ||
		errors.Is(err, archive.ErrNoSuchFile) ||
		errors.Is(err, archive.ErrDecompression) ||
		errors.Is(err, archive.ErrLengthMismatch) ||
		errors.Is(err, archive.ErrUnsupportedCompression) ||
		errors.Is(err, archive.ErrCorruptStripeTable)
}

// remembered returns a cached failure for key.
func (m *Manager) remembered(key string) error {
	if err, ok := m.failures.Get(key); ok {
		return err
	}
	return nil
}

func (m *Manager) fail(key string, err error) error {
	err = fmt.Errorf("%w: %s: %w", ErrUnavailable, key, err)
	m.failures.Set(key, err)
	return err
}

// Region returns the decoded terrain of a map region.
func (m *Manager) Region(ctx context.Context, x, y int) (*formats.Region, error) {
	name := formats.RegionName(x, y)
	if r, ok := m.regions.Get(name); ok {
		return r, nil
	}
	if err := m.remembered(name); err != nil {
		return nil, err
	}

	data, err := m.store.Group(ctx, archive.ArchiveMaps, archive.GroupName(name))
	if err != nil {
		if absent(err) {
			return nil, m.fail(name, err)
		}
		return nil, err
	}

	r, err := formats.ParseRegion(name, data)
	if err != nil {
		m.log.Warn("region decode failed", zap.String("region", name), zap.Error(err))
		return nil, m.fail(name, err)
	}

	m.regions.Set(name, r)
	return r, nil
}

// Landscape returns the object placements of a map region.
func (m *Manager) Landscape(ctx context.Context, x, y int) (*formats.Landscape, error) {
	name := formats.LandscapeName(x, y)
	if l, ok := m.landscapes.Get(name); ok {
		return l, nil
	}
	if err := m.remembered(name); err != nil {
		return nil, err
	}

	data, err := m.store.Group(ctx, archive.ArchiveMaps, archive.GroupName(name))
	if err != nil {
		if absent(err) {
			return nil, m.fail(name, err)
		}
		return nil, err
	}

	l, err := formats.ParseLandscape(name, data)
	if err != nil {
		m.log.Warn("landscape decode failed", zap.String("landscape", name), zap.Error(err))
		return nil, m.fail(name, err)
	}

	m.landscapes.Set(name, l)
	return l, nil
}

// Overlay returns an overlay definition. Definitions that are missing or
// malformed resolve to formats.FallbackOverlay, which is cached like any
// other result. Only transport failures are returned.
func (m *Manager) Overlay(ctx context.Context, id int) (*formats.Overlay, error) {
	if o, ok := m.overlays.Get(id); ok {
		return o, nil
	}

	data, err := m.store.File(ctx, archive.ArchiveConfig, archive.GroupID(archive.GroupOverlays), id)
	if err != nil && !absent(err) {
		return nil, err
	}

	var o *formats.Overlay
	if err == nil {
		o, err = formats.ParseOverlay(id, data)
	}
	if err != nil {
		m.log.Debug("using fallback overlay", zap.Int("id", id), zap.Error(err))
		o = formats.FallbackOverlay(id)
	}

	m.overlays.Set(id, o)
	return o, nil
}

// Underlay returns an underlay definition, falling back like Overlay.
func (m *Manager) Underlay(ctx context.Context, id int) (*formats.Underlay, error) {
	if u, ok := m.underlays.Get(id); ok {
		return u, nil
	}

	data, err := m.store.File(ctx, archive.ArchiveConfig, archive.GroupID(archive.GroupUnderlays), id)
	if err != nil && !absent(err) {
		return nil, err
	}

	var u *formats.Underlay
	if err == nil {
		u, err = formats.ParseUnderlay(id, data)
	}
	if err != nil {
		m.log.Debug("using fallback underlay", zap.Int("id", id), zap.Error(err))
		u = formats.FallbackUnderlay(id)
	}

	m.underlays.Set(id, u)
	return u, nil
}

// Texture returns a texture definition.
func (m *Manager) Texture(ctx context.Context, id int) (*formats.TextureDefinition, error) {
	if t, ok := m.textures.Get(id); ok {
		return t, nil
	}
	key := fmt.Sprintf("texture %d", id)
	if err := m.remembered(key); err != nil {
		return nil, err
	}

	data, err := m.store.File(ctx, archive.ArchiveTextures, archive.GroupName(texturesGroup), id)
	if err != nil {
		if absent(err) {
			return nil, m.fail(key, err)
		}
		return nil, err
	}

	t, err := formats.ParseTexture(id, data)
	if err != nil {
		return nil, m.fail(key, err)
	}

	m.textures.Set(id, t)
	return t, nil
}

// Stats returns the number of cached regions and floor definitions.
func (m *Manager) Stats() (regions, overlays, underlays int) {
	return m.regions.Len(), m.overlays.Len(), m.underlays.Len()
}

// Close clears all caches and closes the store.
func (m *Manager) Close() {
	m.regions.Clear()
	m.landscapes.Clear()
	m.overlays.Clear()
	m.underlays.Clear()
	m.textures.Clear()
	m.failures.Clear()
	m.store.Close()
}
