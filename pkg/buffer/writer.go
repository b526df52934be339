package buffer

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Writer appends big-endian values to a growing byte slice.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// WriteUint24 appends the low 24 bits of v, big-endian.
func (w *Writer) WriteUint24(v uint32) {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteInt32 appends a big-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteSmart appends an unsigned smart value in the range 0..32767.
func (w *Writer) WriteSmart(v int) error {
	switch {
	case v >= 0 && v < 128:
		w.WriteUint8(uint8(v))
	case v >= 128 && v < 32768:
		w.WriteUint16(uint16(v + 32768))
	default:
		return fmt.Errorf("smart value %d out of range", v)
	}
	return nil
}

// WriteString appends s encoded as CP1252 followed by a newline terminator.
func (w *Writer) WriteString(s string) error {
	enc, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", s, err)
	}
	w.buf = append(w.buf, enc...)
	w.buf = append(w.buf, 10)
	return nil
}
