package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runejs/webclient/pkg/archive"
)

var packCmd = &cobra.Command{
	Use:   "pack <dir> <archive> <group>",
	Short: "Pack loose files into a group of the mirror",
	Long: `Pack the files of a directory into one compressed group. Files must be
named by their numeric key (for example 12.dat); they are stored in key
order and the keys are recorded in the archive's index.yaml.`,
	Args: cobra.ExactArgs(3),
	RunE: runPack,
}

func init() {
	packCmd.Flags().String("compression", "gzip", "Compression: none, bzip2, gzip")
	packCmd.Flags().Int("stripes", 1, "Number of stripes")
}

func runPack(cmd *cobra.Command, args []string) error {
	compression, _ := cmd.Flags().GetString("compression")
	stripes, _ := cmd.Flags().GetInt("stripes")

	method, err := parseCompression(compression)
	if err != nil {
		return err
	}
	archiveID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid archive %q", args[1])
	}

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return err
	}

	files := make(map[int][]byte)
	var keys []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, err := strconv.Atoi(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(args[0], e.Name()))
		if err != nil {
			return err
		}
		files[key] = data
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no numbered files in %s", args[0])
	}
	slices.Sort(keys)

	ordered := make([][]byte, len(keys))
	for i, k := range keys {
		ordered[i] = files[k]
	}

	data := ordered[0]
	if len(ordered) > 1 {
		data, err = archive.JoinGroup(ordered, stripes)
		if err != nil {
			return err
		}
	}
	raw, err := archive.EncodeEnvelope(data, method, -1)
	if err != nil {
		return err
	}

	dir, err := archive.OpenDir(cfg.Archive.Root)
	if err != nil {
		return err
	}
	ref := groupRef(args[2])
	childKeys := keys
	if len(keys) == 1 {
		childKeys = nil
	}
	if err := dir.WriteGroup(archiveID, ref, raw, childKeys); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Packed %d files into %d/%s (%d bytes, %s)\n",
		len(keys), archiveID, ref, len(raw), method)
	return nil
}

func parseCompression(s string) (archive.Compression, error) {
	switch strings.ToLower(s) {
	case "none":
		return archive.CompressionNone, nil
	case "bzip2":
		return archive.CompressionBzip2, nil
	case "gzip":
		return archive.CompressionGzip, nil
	default:
		return 0, fmt.Errorf("unknown compression: %s", s)
	}
}

func groupRef(s string) archive.GroupRef {
	if id, err := strconv.Atoi(s); err == nil {
		return archive.GroupID(id)
	}
	return archive.GroupName(s)
}
