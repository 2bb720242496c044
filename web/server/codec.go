package server

import (
	"fmt"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compressor applies symmetric compression to raw frame bytes.
type Compressor interface {
	// Name returns the codec identifier accepted in the codec query parameter.
	Name() string
	// ID is the codec number written into each frame header.
	ID() uint32
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Codec identifiers written into frame headers
const (
	CodecNone   uint32 = 0
	CodecSnappy uint32 = 1
	CodecZstd   uint32 = 2
)

// NewCompressor returns the compressor registered under name; empty means none
func NewCompressor(name string) (Compressor, error) {
	switch name {
	case "", "none":
		return noneCompressor{}, nil
	case "snappy":
		return snappyCompressor{}, nil
	case "zstd":
		z, err := newZstdCompressor()
		if err != nil {
			return nil, err
		}
		return z, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want none, snappy or zstd)", name)
	}
}

// noneCompressor sends frames as raw RGBA.
type noneCompressor struct{}

func (noneCompressor) Name() string { return "none" }
func (noneCompressor) ID() uint32   { return CodecNone }

func (noneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }

// snappyCompressor uses the snappy block format.
type snappyCompressor struct{}

func (snappyCompressor) Name() string { return "snappy" }
func (snappyCompressor) ID() uint32   { return CodecSnappy }

func (snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	return out, nil
}

// zstdCompressor reuses one encoder and decoder; EncodeAll and DecodeAll are
// safe for concurrent use.
type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var (
	zstdOnce   sync.Once
	zstdShared *zstdCompressor
	zstdErr    error
)

func newZstdCompressor() (*zstdCompressor, error) {
	zstdOnce.Do(func() {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			zstdErr = fmt.Errorf("zstd encoder: %w", err)
			return
		}
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			zstdErr = fmt.Errorf("zstd decoder: %w", err)
			return
		}
		zstdShared = &zstdCompressor{encoder: encoder, decoder: decoder}
	})
	return zstdShared, zstdErr
}

func (*zstdCompressor) Name() string { return "zstd" }
func (*zstdCompressor) ID() uint32   { return CodecZstd }

func (z *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, nil), nil
}

func (z *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
