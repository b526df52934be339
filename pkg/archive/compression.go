package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"

	"github.com/runejs/webclient/pkg/buffer"
)

// Compression identifies the method used inside a container envelope.
type Compression uint8

// Compression methods as stored in the first envelope byte.
const (
	CompressionNone  Compression = 0
	CompressionBzip2 Compression = 1
	CompressionGzip  Compression = 2
)

// String returns the method name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionBzip2:
		return "bzip2"
	case CompressionGzip:
		return "gzip"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// compressionFromByte maps an envelope method byte to a Compression.
// Unknown methods are read as uncompressed, matching the game client.
func compressionFromByte(b uint8) Compression {
	if b > uint8(CompressionGzip) {
		return CompressionNone
	}
	return Compression(b)
}

// bzip2 streams are stored without their "BZh" magic and block size digit.
var bzip2Header = []byte("BZh1")

// Envelope is a decoded container: the method it was stored with, the
// decompressed payload and the optional trailing version.
type Envelope struct {
	Compression Compression
	Data        []byte
	Version     int
}

// DecodeEnvelope unwraps a raw container. The layout is a method byte, a
// big-endian compressed length, a decompressed length for compressed methods,
// the payload and an optional two-byte version.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	c := buffer.NewCursor(raw)

	method, err := c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: reading method: %w", ErrDecompression, err)
	}
	compressedLen, err := c.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: reading length: %w", ErrDecompression, err)
	}

	env := &Envelope{Compression: compressionFromByte(method), Version: -1}

	if env.Compression == CompressionNone {
		env.Data, err = c.ReadBytes(int(compressedLen))
		if err != nil {
			return nil, fmt.Errorf("%w: payload: %w", ErrDecompression, err)
		}
	} else {
		decompressedLen, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading decompressed length: %w", ErrDecompression, err)
		}
		payload, err := c.ReadBytes(int(compressedLen))
		if err != nil {
			return nil, fmt.Errorf("%w: payload: %w", ErrDecompression, err)
		}

		env.Data, err = inflate(env.Compression, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecompression, env.Compression, err)
		}
		if len(env.Data) != int(decompressedLen) {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrLengthMismatch, decompressedLen, len(env.Data))
		}
	}

	if c.Remaining() >= 2 {
		version, _ := c.ReadUint16()
		env.Version = int(version)
	}

	return env, nil
}

// Decompress unwraps a raw container and returns only its payload.
func Decompress(raw []byte) ([]byte, error) {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func inflate(method Compression, payload []byte) ([]byte, error) {
	var r io.Reader
	switch method {
	case CompressionBzip2:
		stream := make([]byte, 0, len(bzip2Header)+len(payload))
		stream = append(stream, bzip2Header...)
		stream = append(stream, payload...)
		br, err := bzip2.NewReader(bytes.NewReader(stream), nil)
		if err != nil {
			return nil, err
		}
		defer br.Close()
		r = br
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	default:
		return payload, nil
	}
	return io.ReadAll(r)
}

// EncodeEnvelope wraps data with the given method. A negative version omits
// the trailing version field.
func EncodeEnvelope(data []byte, method Compression, version int) ([]byte, error) {
	var payload []byte
	switch method {
	case CompressionNone:
		payload = data
	case CompressionBzip2:
		var buf bytes.Buffer
		bw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: 1})
		if err != nil {
			return nil, err
		}
		if _, err := bw.Write(data); err != nil {
			return nil, fmt.Errorf("bzip2 write: %w", err)
		}
		if err := bw.Close(); err != nil {
			return nil, fmt.Errorf("bzip2 close: %w", err)
		}
		payload = bytes.TrimPrefix(buf.Bytes(), bzip2Header)
	case CompressionGzip:
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return nil, fmt.Errorf("gzip write: %w", err)
		}
		if err := gw.Close(); err != nil {
			return nil, fmt.Errorf("gzip close: %w", err)
		}
		payload = buf.Bytes()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, method)
	}

	w := buffer.NewWriter(len(payload) + 11)
	w.WriteUint8(uint8(method))
	w.WriteUint32(uint32(len(payload)))
	if method != CompressionNone {
		w.WriteUint32(uint32(len(data)))
	}
	w.WriteBytes(payload)
	if version >= 0 {
		w.WriteUint16(uint16(version))
	}
	return w.Bytes(), nil
}
