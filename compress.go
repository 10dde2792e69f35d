package parquet

import (
	"fmt"

	"github.com/segmentio/parquet-flat/compress"
	"github.com/segmentio/parquet-flat/compress/brotli"
	"github.com/segmentio/parquet-flat/compress/gzip"
	"github.com/segmentio/parquet-flat/compress/lz4"
	"github.com/segmentio/parquet-flat/compress/snappy"
	"github.com/segmentio/parquet-flat/compress/uncompressed"
	"github.com/segmentio/parquet-flat/compress/zstd"
	"github.com/segmentio/parquet-flat/format"
)

var (
	// Uncompressed is a parquet compression codec representing uncompressed
	// pages.
	Uncompressed uncompressed.Codec

	// Snappy is the SNAPPY parquet compression codec.
	Snappy snappy.Codec

	// Gzip is the GZIP parquet compression codec.
	Gzip = gzip.Codec{
		Level: gzip.DefaultCompression,
	}

	// Brotli is the BROTLI parquet compression codec.
	Brotli = brotli.Codec{
		Quality: brotli.DefaultQuality,
		LGWin:   brotli.DefaultLGWin,
	}

	// Zstd is the ZSTD parquet compression codec.
	Zstd = zstd.Codec{
		Level: zstd.DefaultLevel,
	}

	// Lz4Raw is the LZ4_RAW parquet compression codec.
	Lz4Raw lz4.Codec

	// Lz4 is the deprecated LZ4 parquet compression codec, reading pages
	// written as lz4 frames.
	Lz4 lz4.FrameCodec

	// Table of compression codecs indexed by their code in the parquet format.
	compressionCodecs = [...]compress.Codec{
		format.Uncompressed: &Uncompressed,
		format.Snappy:       &Snappy,
		format.Gzip:         &Gzip,
		format.Brotli:       &Brotli,
		format.Zstd:         &Zstd,
		format.Lz4Raw:       &Lz4Raw,
		format.Lz4:          &Lz4,
	}
)

// LookupCompressionCodec returns the compression codec associated with the
// given code.
//
// The function returns an error wrapping ErrUnsupportedEncoding for codecs
// that are not supported, LZO being the only one defined by the format.
func LookupCompressionCodec(codec format.CompressionCodec) (compress.Codec, error) {
	if codec >= 0 && int(codec) < len(compressionCodecs) {
		if c := compressionCodecs[codec]; c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("compression codec %s: %w", codec, ErrUnsupportedEncoding)
}
