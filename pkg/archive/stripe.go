package archive

import (
	"fmt"

	"github.com/runejs/webclient/pkg/buffer"
)

// StripeFooterSize returns the size of a stripe table for the given counts,
// including the trailing stripe count byte.
func StripeFooterSize(stripeCount, childCount int) int {
	return 1 + stripeCount*childCount*4
}

// SplitGroup reassembles the files of a compound group. The last byte holds
// the stripe count; before it sits a table of stripeCount*childCount int32
// chunk sizes, delta encoded per stripe. The body is replayed from offset 0,
// appending each chunk to its file in table order.
//
// A chunk that would run into the stripe table is clamped to the body and
// truncated is set. Callers should treat truncated groups as suspect.
func SplitGroup(data []byte, childCount int) (files [][]byte, truncated bool, err error) {
	if childCount <= 0 {
		return nil, false, fmt.Errorf("%w: child count %d", ErrCorruptStripeTable, childCount)
	}
	if len(data) == 0 {
		return nil, false, fmt.Errorf("%w: empty group", ErrCorruptStripeTable)
	}

	stripeCount := int(data[len(data)-1])
	footerStart := len(data) - StripeFooterSize(stripeCount, childCount)
	if footerStart < 0 {
		return nil, false, fmt.Errorf("%w: %d stripes of %d files exceed %d bytes",
			ErrCorruptStripeTable, stripeCount, childCount, len(data))
	}

	chunks := make([][]int, stripeCount)
	sizes := make([]int, childCount)

	c := buffer.NewCursor(data)
	if err := c.SetPosition(footerStart); err != nil {
		return nil, false, err
	}
	for stripe := range stripeCount {
		chunks[stripe] = make([]int, childCount)
		chunkSize := 0
		for child := range childCount {
			delta, err := c.ReadInt32()
			if err != nil {
				return nil, false, fmt.Errorf("%w: stripe %d file %d: %w", ErrCorruptStripeTable, stripe, child, err)
			}
			chunkSize += int(delta)
			if chunkSize < 0 {
				return nil, false, fmt.Errorf("%w: negative chunk size at stripe %d file %d",
					ErrCorruptStripeTable, stripe, child)
			}
			chunks[stripe][child] = chunkSize
			sizes[child] += chunkSize
		}
	}

	files = make([][]byte, childCount)
	for child, size := range sizes {
		files[child] = make([]byte, 0, min(size, footerStart))
	}

	offset := 0
	for stripe := range stripeCount {
		for child := range childCount {
			end := offset + chunks[stripe][child]
			if end > footerStart {
				end = footerStart
				truncated = true
			}
			files[child] = append(files[child], data[offset:end]...)
			offset = end
		}
	}

	return files, truncated, nil
}

// JoinGroup builds a compound group from files, cutting each file into
// stripeCount roughly equal chunks. It is the inverse of SplitGroup.
func JoinGroup(files [][]byte, stripeCount int) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrCorruptStripeTable)
	}
	if stripeCount < 1 || stripeCount > 255 {
		return nil, fmt.Errorf("%w: stripe count %d", ErrCorruptStripeTable, stripeCount)
	}

	chunkSizes := make([][]int, stripeCount)
	w := buffer.NewWriter(0)
	for stripe := range stripeCount {
		chunkSizes[stripe] = make([]int, len(files))
		for child, f := range files {
			start := len(f) * stripe / stripeCount
			end := len(f) * (stripe + 1) / stripeCount
			chunkSizes[stripe][child] = end - start
			w.WriteBytes(f[start:end])
		}
	}

	for stripe := range stripeCount {
		prev := 0
		for _, size := range chunkSizes[stripe] {
			w.WriteInt32(int32(size - prev))
			prev = size
		}
	}
	w.WriteUint8(uint8(stripeCount))

	return w.Bytes(), nil
}
