// Package buffer provides a positional byte cursor for decoding cache assets.
package buffer

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ErrOutOfBounds is returned when a read would run past the end of the buffer.
var ErrOutOfBounds = errors.New("read out of bounds")

// Cursor reads fixed-width integers, smart values and strings from a byte
// slice. Multi-byte reads are big-endian unless the method name ends in LE.
// A failed read leaves the position unchanged.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Position returns the current reader index.
func (c *Cursor) Position() int {
	return c.pos
}

// SetPosition moves the reader index. Positions past the end are rejected.
func (c *Cursor) SetPosition(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return fmt.Errorf("%w: position %d of %d", ErrOutOfBounds, pos, len(c.data))
	}
	c.pos = pos
	return nil
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Bytes returns the full underlying buffer.
func (c *Cursor) Bytes() []byte {
	return c.data
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrOutOfBounds, n, c.pos, len(c.data)-c.pos)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances the reader index by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// ReadBytes returns the next n bytes. The result aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// PeekUint8 returns the next byte without consuming it.
func (c *Cursor) PeekUint8() (uint8, error) {
	if c.pos >= len(c.data) {
		return 0, fmt.Errorf("%w: peek at %d", ErrOutOfBounds, c.pos)
	}
	return c.data[c.pos], nil
}

// ReadUint8 reads an unsigned byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads a signed byte.
func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads a big-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint16LE reads a little-endian uint16.
func (c *Cursor) ReadUint16LE() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

// ReadInt16 reads a big-endian int16.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

// ReadInt16LE reads a little-endian int16.
func (c *Cursor) ReadInt16LE() (int16, error) {
	v, err := c.ReadUint16LE()
	return int16(v), err
}

// ReadUint24 reads a big-endian 24-bit unsigned value.
func (c *Cursor) ReadUint24() (uint32, error) {
	b, err := c.take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUint24LE reads a little-endian 24-bit unsigned value.
func (c *Cursor) ReadUint24LE() (uint32, error) {
	b, err := c.take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

// ReadInt24 reads a big-endian 24-bit value and sign-extends it.
func (c *Cursor) ReadInt24() (int32, error) {
	v, err := c.ReadUint24()
	return signExtend24(v), err
}

// ReadInt24LE reads a little-endian 24-bit value and sign-extends it.
func (c *Cursor) ReadInt24LE() (int32, error) {
	v, err := c.ReadUint24LE()
	return signExtend24(v), err
}

func signExtend24(v uint32) int32 {
	return int32(v<<8) >> 8
}

// ReadUint32 reads a big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadUint32LE reads a little-endian uint32.
func (c *Cursor) ReadUint32LE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

// ReadInt32 reads a big-endian int32.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadInt32LE reads a little-endian int32.
func (c *Cursor) ReadInt32LE() (int32, error) {
	v, err := c.ReadUint32LE()
	return int32(v), err
}

// ReadSmart reads an unsigned smart value: one byte when the leading byte is
// below 128, otherwise a uint16 with the high bit cleared.
func (c *Cursor) ReadSmart() (int, error) {
	peek, err := c.PeekUint8()
	if err != nil {
		return 0, err
	}
	if peek < 128 {
		v, err := c.ReadUint8()
		return int(v), err
	}
	v, err := c.ReadUint16()
	return int(v) - 32768, err
}

// ReadSignedSmart reads a smart value centered on zero. One-byte values cover
// -64..63, two-byte values cover -16384..16383.
func (c *Cursor) ReadSignedSmart() (int, error) {
	peek, err := c.PeekUint8()
	if err != nil {
		return 0, err
	}
	if peek < 128 {
		v, err := c.ReadUint8()
		return int(v) - 64, err
	}
	v, err := c.ReadUint16()
	return int(v) - 49152, err
}

// ReadString reads a CP1252 string terminated by a newline or NUL byte.
// The terminator is consumed but not returned.
func (c *Cursor) ReadString() (string, error) {
	end := c.pos
	for end < len(c.data) && c.data[end] != 10 && c.data[end] != 0 {
		end++
	}
	if end >= len(c.data) {
		return "", fmt.Errorf("%w: unterminated string at %d", ErrOutOfBounds, c.pos)
	}
	raw := c.data[c.pos:end]
	c.pos = end + 1

	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), nil
	}
	return string(s), nil
}
