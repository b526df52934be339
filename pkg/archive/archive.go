// Package archive reads cache groups and files through a pluggable transport.
//
// A group is fetched as a compressed envelope, decompressed, and, when it
// holds more than one file, split along its stripe table. Decompressed groups
// and split files are cached in memory.
package archive

import (
	"errors"
	"fmt"
)

// Archive errors.
var (
	ErrDecompression          = errors.New("decompression failed")
	ErrLengthMismatch         = fmt.Errorf("%w: decompressed length mismatch", ErrDecompression)
	ErrUnsupportedCompression = errors.New("unsupported compression method")
	ErrNotFound               = errors.New("group not found")
	ErrCorruptStripeTable     = errors.New("corrupt stripe table")
	ErrNoSuchFile             = errors.New("file not found in group")
)

// Well-known archive indices.
const (
	ArchiveConfig   = 2
	ArchiveMaps     = 5
	ArchiveTextures = 9
)

// Groups inside ArchiveConfig.
const (
	GroupUnderlays = 1
	GroupOverlays  = 4
)
