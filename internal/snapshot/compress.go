package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload codec. The tag is stored in the header.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "", "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Header: 4-byte magic, 1-byte codec tag, 8-byte big-endian payload size.
var magic = [4]byte{'R', 'F', 'S', 'N'}

const (
	headerSize = 13
	maxPayload = 4 << 30
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

func compress(payload []byte, c Compression) ([]byte, error) {
	header := make([]byte, headerSize, headerSize+len(payload))
	copy(header, magic[:])
	binary.BigEndian.PutUint64(header[5:], uint64(len(payload)))

	switch c {
	case CompressionNone:
		header[4] = byte(CompressionNone)
		return append(header, payload...), nil
	case CompressionZstd:
		header[4] = byte(CompressionZstd)
		return zstdEncoder.EncodeAll(payload, header), nil
	case CompressionLZ4:
		block := make([]byte, lz4.CompressBlockBound(len(payload)))
		written, err := lz4.CompressBlock(payload, block, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 {
			// incompressible
			header[4] = byte(CompressionNone)
			return append(header, payload...), nil
		}
		header[4] = byte(CompressionLZ4)
		return append(header, block[:written]...), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

func decompress(framed []byte) ([]byte, error) {
	if len(framed) < headerSize || [4]byte(framed[:4]) != magic {
		return nil, fmt.Errorf("%w: bad header", ErrFormat)
	}
	size := binary.BigEndian.Uint64(framed[5:headerSize])
	if size > maxPayload {
		return nil, fmt.Errorf("%w: payload size %d exceeds limit", ErrFormat, size)
	}
	body := framed[headerSize:]

	switch Compression(framed[4]) {
	case CompressionNone:
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("%w: size %d does not match header %d", ErrFormat, len(body), size)
		}
		return body, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrFormat, err)
		}
		if uint64(len(out)) != size {
			return nil, fmt.Errorf("%w: zstd: got %d bytes, expected %d", ErrFormat, len(out), size)
		}
		return out, nil
	case CompressionLZ4:
		out := make([]byte, size)
		read, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrFormat, err)
		}
		if uint64(read) != size {
			return nil, fmt.Errorf("%w: lz4: got %d bytes, expected %d", ErrFormat, read, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %d", ErrFormat, framed[4])
	}
}
