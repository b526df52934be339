package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runejs/webclient/pkg/archive"
	"github.com/runejs/webclient/pkg/buffer"
	"github.com/runejs/webclient/pkg/formats"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestPackAndDecode(t *testing.T) {
	t.Chdir(t.TempDir())
	root := t.TempDir()
	src := t.TempDir()

	// Tile 0,0 of plane 0 has an explicit height; every other tile is empty.
	w := buffer.NewWriter(formats.Planes * formats.RegionSize * formats.RegionSize)
	w.WriteBytes([]byte{1, 4})
	w.WriteBytes(make([]byte, formats.Planes*formats.RegionSize*formats.RegionSize-1))
	require.NoError(t, os.WriteFile(filepath.Join(src, "0.dat"), w.Bytes(), 0644))

	out := execute(t, "pack", src, "5", "m50_50", "--root", root)
	require.Contains(t, out, "Packed 1 files into 5/m50_50")
	require.FileExists(t, filepath.Join(root, "5", "m50_50.dat"))

	out = execute(t, "region", "m50_50", "--root", root)
	require.Contains(t, out, "world 3200,3200")
	require.Contains(t, out, "Plane 0:    1 explicit heights")
	require.Contains(t, out, "Landscape: unavailable")

	out = execute(t, "scan", "--root", root)
	require.Contains(t, out, "Decoded 1 regions and 0 landscapes, 0 failed")
}

// writeScene stores region m50_50, with underlay 1 on every plane 0 tile, and
// the underlay definitions in a mirror rooted at root.
func writeScene(t *testing.T, root string) {
	t.Helper()
	d, err := archive.OpenDir(root)
	require.NoError(t, err)

	tiles := formats.RegionSize * formats.RegionSize
	w := buffer.NewWriter(formats.Planes * tiles * 3)
	for range tiles {
		w.WriteBytes([]byte{82, 1, 1})
	}
	w.WriteBytes(make([]byte, (formats.Planes-1)*tiles))

	put := func(arch int, ref archive.GroupRef, data []byte) {
		raw, err := archive.EncodeEnvelope(data, archive.CompressionGzip, -1)
		require.NoError(t, err)
		require.NoError(t, d.WriteGroup(arch, ref, raw, nil))
	}
	put(archive.ArchiveMaps, archive.GroupName("m50_50"), w.Bytes())
	put(archive.ArchiveConfig, archive.GroupID(archive.GroupUnderlays), []byte{1, 0x4b, 0x3e, 0x14, 0})
}

func TestTerrainCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	root := t.TempDir()
	writeScene(t, root)

	// Scene base 3184,3184 holds regions 49..51; only m50_50 exists.
	out := execute(t, "terrain", "--root", root, "--x", "3232", "--y", "3232")
	require.Contains(t, out, "Position:  3232,3232,0 (scene base 3184,3184)")
	require.Contains(t, out, "Regions:   1 loaded, 8 unavailable")
	require.Contains(t, out, "Tiles:     4096 paints, 0 models")
	require.Contains(t, out, "Mesh:      8192 triangles in 1 groups")
	require.NotContains(t, out, "Texture ")
}

func TestMinimapCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	root := t.TempDir()
	writeScene(t, root)
	output := filepath.Join(t.TempDir(), "map.png")

	out := execute(t, "minimap", "--root", root, "--x", "3232", "--y", "3232", "-o", output, "--zoom", "2")
	require.Contains(t, out, "(204x204)")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 204, img.Bounds().Dx())

	// Scene tile (40, 40) lies in m50_50; tile (5, 5) lies in a missing region.
	_, _, _, a := img.At(39*2, (102-40)*2).RGBA()
	require.NotZero(t, a)
	_, _, _, a = img.At(4*2, (102-5)*2).RGBA()
	require.Zero(t, a)
}

func TestParseCompression(t *testing.T) {
	for s, want := range map[string]archive.Compression{
		"none":  archive.CompressionNone,
		"BZIP2": archive.CompressionBzip2,
		"gzip":  archive.CompressionGzip,
	} {
		got, err := parseCompression(s)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := parseCompression("lzma")
	require.Error(t, err)
}

func TestGroupRef(t *testing.T) {
	require.Equal(t, archive.GroupID(4), groupRef("4"))
	require.Equal(t, archive.GroupName("m50_50"), groupRef("m50_50"))
}
