// Package lz4 implements the LZ4_RAW and the deprecated LZ4 parquet
// compression codecs.
package lz4

import (
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/segmentio/parquet-flat/compress"
	"github.com/segmentio/parquet-flat/format"
)

// Codec is the LZ4_RAW codec, pages hold a single lz4 block.
type Codec struct {
}

func (c *Codec) String() string {
	return "LZ4_RAW"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.Lz4Raw
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	n := lz4.CompressBlockBound(len(src))
	if cap(dst) < n {
		dst = make([]byte, n)
	} else {
		dst = dst[:n]
	}
	var compressor lz4.Compressor
	n, err := compressor.CompressBlock(src, dst)
	return dst[:n], err
}

// Decode uncompresses the block of src. When dst has a non-zero capacity it
// must be large enough to hold the uncompressed block, otherwise the output
// buffer grows until the block fits.
func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if cap(dst) > 0 {
		n, err := lz4.UncompressBlock(src, dst[:cap(dst)])
		return dst[:n], err
	}
	// lz4 cannot expand data by more than 255x
	limit := 255*len(src) + 16
	for size := 4*len(src) + 64; ; size *= 2 {
		if size > limit {
			size = limit
		}
		dst = make([]byte, size)
		n, err := lz4.UncompressBlock(src, dst)
		if err == nil {
			return dst[:n], nil
		}
		if size == limit {
			return dst[:0], err
		}
	}
}

// FrameCodec is the deprecated LZ4 codec, where pages hold an lz4 frame.
type FrameCodec struct {
	r compress.Decompressor
	w compress.Compressor
}

func (c *FrameCodec) String() string {
	return "LZ4"
}

func (c *FrameCodec) CompressionCodec() format.CompressionCodec {
	return format.Lz4
}

func (c *FrameCodec) Encode(dst, src []byte) ([]byte, error) {
	return c.w.Encode(dst, src, func(w io.Writer) (compress.Writer, error) {
		return writer{lz4.NewWriter(w)}, nil
	})
}

func (c *FrameCodec) Decode(dst, src []byte) ([]byte, error) {
	return c.r.Decode(dst, src, func(r io.Reader) (compress.Reader, error) {
		return reader{lz4.NewReader(r)}, nil
	})
}

type reader struct{ *lz4.Reader }

func (r reader) Close() error             { return nil }
func (r reader) Reset(rr io.Reader) error { r.Reader.Reset(rr); return nil }

type writer struct{ *lz4.Writer }
