package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	groupExt     = ".dat"
	manifestName = "index.yaml"
)

// DirTransport serves groups from a directory mirror of the cache. Each
// archive is a numbered subdirectory holding one <group>.dat envelope per
// group and an optional index.yaml listing the file keys of compound groups.
type DirTransport struct {
	root string

	mu        sync.Mutex
	manifests map[int]*manifest
}

type manifest struct {
	Groups map[string]manifestGroup `yaml:"groups"`
}

type manifestGroup struct {
	Children []int `yaml:"children"`
}

// OpenDir opens a directory mirror rooted at root.
func OpenDir(root string) (*DirTransport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening archive root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root %s is not a directory", root)
	}
	return &DirTransport{root: root, manifests: make(map[int]*manifest)}, nil
}

// Root returns the mirror's root directory.
func (d *DirTransport) Root() string {
	return d.root
}

func (d *DirTransport) groupPath(archive int, group GroupRef) (string, error) {
	name := normalizeName(group.String())
	if name == "" || strings.ContainsAny(name, "/") || name == ".." {
		return "", fmt.Errorf("invalid group name %q", group.String())
	}
	return filepath.Join(d.root, strconv.Itoa(archive), name+groupExt), nil
}

// FetchGroup reads the raw envelope of a group.
func (d *DirTransport) FetchGroup(ctx context.Context, archive int, group GroupRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.groupPath(archive, group)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %d/%s", ErrNotFound, archive, group)
	}
	if err != nil {
		return nil, fmt.Errorf("reading group: %w", err)
	}
	return data, nil
}

// GroupInfo returns the file keys listed for a group in the archive's
// manifest. Groups missing from the manifest hold a single file.
func (d *DirTransport) GroupInfo(ctx context.Context, archive int, group GroupRef) (GroupInfo, error) {
	if err := ctx.Err(); err != nil {
		return GroupInfo{}, err
	}
	m, err := d.manifest(archive)
	if err != nil {
		return GroupInfo{}, err
	}
	g, ok := m.Groups[normalizeName(group.String())]
	if !ok {
		return GroupInfo{}, nil
	}
	return GroupInfo{ChildKeys: slices.Clone(g.Children)}, nil
}

func (d *DirTransport) manifest(archive int) (*manifest, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if m, ok := d.manifests[archive]; ok {
		return m, nil
	}

	m := &manifest{Groups: make(map[string]manifestGroup)}
	data, err := os.ReadFile(filepath.Join(d.root, strconv.Itoa(archive), manifestName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading manifest: %w", err)
	default:
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parsing manifest for archive %d: %w", archive, err)
		}
		if m.Groups == nil {
			m.Groups = make(map[string]manifestGroup)
		}
	}

	d.manifests[archive] = m
	return m, nil
}

// Groups lists the groups present in an archive directory, sorted by name.
func (d *DirTransport) Groups(archive int) ([]GroupRef, error) {
	entries, err := os.ReadDir(filepath.Join(d.root, strconv.Itoa(archive)))
	if err != nil {
		return nil, fmt.Errorf("listing archive %d: %w", archive, err)
	}

	var refs []GroupRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, groupExt) {
			continue
		}
		name = strings.TrimSuffix(name, groupExt)
		if id, err := strconv.Atoi(name); err == nil {
			refs = append(refs, GroupID(id))
		} else {
			refs = append(refs, GroupName(name))
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].String() < refs[j].String()
	})
	return refs, nil
}

// WriteGroup stores a raw envelope and, when childKeys is non-empty, records
// them in the archive manifest.
func (d *DirTransport) WriteGroup(archive int, group GroupRef, raw []byte, childKeys []int) error {
	path, err := d.groupPath(archive, group)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing group: %w", err)
	}
	if len(childKeys) == 0 {
		return nil
	}

	m, err := d.manifest(archive)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	m.Groups[normalizeName(group.String())] = manifestGroup{Children: slices.Clone(childKeys)}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.root, strconv.Itoa(archive), manifestName), data, 0644)
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.ToLower(strings.TrimSpace(name))
}
