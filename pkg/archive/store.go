package archive

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

// GroupRef addresses a group by numeric key or by name.
type GroupRef struct {
	ID   int
	Name string
}

// GroupID returns a reference to a numbered group.
func GroupID(id int) GroupRef {
	return GroupRef{ID: id}
}

// GroupName returns a reference to a named group.
func GroupName(name string) GroupRef {
	return GroupRef{Name: name}
}

// String returns the group name, or its key when it has none.
func (r GroupRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	return strconv.Itoa(r.ID)
}

// Transport fetches raw, still enveloped, group bytes.
type Transport interface {
	FetchGroup(ctx context.Context, archive int, group GroupRef) ([]byte, error)
}

// GroupInfo describes the files packed into a group.
type GroupInfo struct {
	ChildKeys []int
}

// ChildCount returns the number of files in the group. Groups without
// metadata hold a single file.
func (g GroupInfo) ChildCount() int {
	if len(g.ChildKeys) == 0 {
		return 1
	}
	return len(g.ChildKeys)
}

// IndexProvider supplies group metadata.
type IndexProvider interface {
	GroupInfo(ctx context.Context, archive int, group GroupRef) (GroupInfo, error)
}

// DefaultCacheBudget is the default byte budget for cached groups and files.
const DefaultCacheBudget = 64 << 20

// Store resolves groups and files through a Transport and caches the results.
// It is safe for concurrent use. Two goroutines missing the same key may both
// fetch it; the cached value is the same either way.
type Store struct {
	transport Transport
	index     IndexProvider
	cache     *ristretto.Cache[string, []byte]
	budget    int64
	log       *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recoverable failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithIndex sets the group metadata source. Transports that implement
// IndexProvider are used as the index when none is given.
func WithIndex(index IndexProvider) Option {
	return func(s *Store) { s.index = index }
}

// WithCacheBudget sets the maximum number of cached bytes.
func WithCacheBudget(bytes int64) Option {
	return func(s *Store) { s.budget = bytes }
}

// NewStore creates a store reading from transport.
func NewStore(transport Transport, opts ...Option) (*Store, error) {
	s := &Store{
		transport: transport,
		budget:    DefaultCacheBudget,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.index == nil {
		if idx, ok := transport.(IndexProvider); ok {
			s.index = idx
		}
	}

	cache, err := ristretto.NewCache[string, []byte](&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     s.budget,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	s.cache = cache

	return s, nil
}

func groupKey(archive int, group GroupRef) string {
	return strconv.Itoa(archive) + "/" + group.String()
}

func fileKey(archive int, group GroupRef, file int) string {
	return groupKey(archive, group) + "/" + strconv.Itoa(file)
}

func (s *Store) lookup(key string) ([]byte, bool) {
	data, ok := s.cache.Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return data, ok
}

func (s *Store) remember(key string, data []byte) {
	s.cache.Set(key, data, int64(len(data))+1)
	s.cache.Wait()
}

// Group returns the decompressed bytes of a group. Decompression failures are
// logged and returned wrapping ErrDecompression; callers treat the group as
// absent.
func (s *Store) Group(ctx context.Context, archive int, group GroupRef) ([]byte, error) {
	key := groupKey(archive, group)
	if data, ok := s.lookup(key); ok {
		return data, nil
	}

	raw, err := s.transport.FetchGroup(ctx, archive, group)
	if err != nil {
		return nil, fmt.Errorf("fetching group %s: %w", key, err)
	}

	data, err := Decompress(raw)
	if err != nil {
		s.log.Warn("group decompression failed",
			zap.Int("archive", archive),
			zap.Stringer("group", group),
			zap.Error(err))
		return nil, fmt.Errorf("group %s: %w", key, err)
	}

	s.remember(key, data)
	return data, nil
}

// File returns one file of a group. Single-file groups return the group bytes
// directly; others are split along their stripe table and every member is
// cached.
func (s *Store) File(ctx context.Context, archive int, group GroupRef, file int) ([]byte, error) {
	key := fileKey(archive, group, file)
	if data, ok := s.lookup(key); ok {
		return data, nil
	}

	info, err := s.groupInfo(ctx, archive, group)
	if err != nil {
		return nil, err
	}

	data, err := s.Group(ctx, archive, group)
	if err != nil {
		return nil, err
	}

	if info.ChildCount() == 1 {
		return data, nil
	}

	pos := slices.Index(info.ChildKeys, file)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchFile, key)
	}

	files, truncated, err := SplitGroup(data, info.ChildCount())
	if err != nil {
		return nil, fmt.Errorf("splitting group %s: %w", groupKey(archive, group), err)
	}
	if truncated {
		s.log.Warn("stripe table overruns group body",
			zap.Int("archive", archive),
			zap.Stringer("group", group))
	}

	for i, child := range info.ChildKeys {
		s.remember(fileKey(archive, group, child), files[i])
	}

	return files[pos], nil
}

func (s *Store) groupInfo(ctx context.Context, archive int, group GroupRef) (GroupInfo, error) {
	if s.index == nil {
		return GroupInfo{}, nil
	}
	info, err := s.index.GroupInfo(ctx, archive, group)
	if err != nil {
		return GroupInfo{}, fmt.Errorf("group info %s: %w", groupKey(archive, group), err)
	}
	return info, nil
}

// Stats returns cache hit and miss counts.
func (s *Store) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Close releases the cache.
func (s *Store) Close() {
	hits, misses := s.Stats()
	s.log.Debug("closing archive store", zap.Int64("hits", hits), zap.Int64("misses", misses))
	s.cache.Close()
}
