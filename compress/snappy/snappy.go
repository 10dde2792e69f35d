// Package snappy implements the SNAPPY parquet compression codec.
//
// Parquet pages hold raw snappy blocks, not the framed stream format.
package snappy

import (
	"github.com/klauspost/compress/snappy"
	"github.com/segmentio/parquet-flat/format"
)

type Codec struct {
}

func (c *Codec) String() string {
	return "SNAPPY"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.Snappy
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return snappy.Encode(dst[:cap(dst)], src), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return dst[:0], err
	}
	if n > cap(dst) {
		dst = make([]byte, n)
	}
	return snappy.Decode(dst[:n], src)
}
