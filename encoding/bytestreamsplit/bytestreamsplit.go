// Package bytestreamsplit implements the BYTE_STREAM_SPLIT encoding of FLOAT
// and DOUBLE values.
//
// This encoding creates K byte-streams of length N where K is the size in
// bytes of the data type and N is the number of elements in the data sequence.
// The bytes of each value are scattered to the corresponding streams. The 0-th
// byte goes to the 0-th stream, the 1-st byte goes to the 1-st stream and so
// on. The streams are concatenated in the following order: 0-th stream, 1-st
// stream, etc.
//
// Example: Original data is three 32-bit floats and for simplicity we look at
// their raw representation.
//
//	       Element 0      Element 1      Element 2
//	Bytes  AA BB CC DD    00 11 22 33    A3 B4 C5 D6
//
// After applying the transformation, the data has the following representation:
//
//	Bytes  AA 00 A3 BB 11 B4 CC 22 C5 DD 33 D6
package bytestreamsplit

import (
	"math"

	"github.com/segmentio/parquet-flat/cursor"
	"github.com/segmentio/parquet-flat/encoding"
	"github.com/segmentio/parquet-flat/format"
)

// Decoder reads values of K bytes from the K streams of a page.
type Decoder[T any] struct {
	data   []byte
	size   int
	count  int
	offset int
	load   func(uint64) T
}

func newDecoder[T any](data []byte, size int, typ string, load func(uint64) T) (*Decoder[T], error) {
	if len(data)%size != 0 {
		return nil, encoding.ErrDecodeInvalidInputSize(format.ByteStreamSplit, typ, len(data))
	}
	return &Decoder[T]{data: data, size: size, count: len(data) / size, load: load}, nil
}

func NewFloatDecoder(data []byte) (*Decoder[float32], error) {
	return newDecoder(data, 4, "FLOAT", func(u uint64) float32 {
		return math.Float32frombits(uint32(u))
	})
}

func NewDoubleDecoder(data []byte) (*Decoder[float64], error) {
	return newDecoder(data, 8, "DOUBLE", math.Float64frombits)
}

func (d *Decoder[T]) check(n int) error {
	if n < 0 || n > d.count-d.offset {
		return encoding.Errorf(format.ByteStreamSplit, "%w: cannot read %d values at index %d of %d",
			cursor.ErrOutOfBounds, n, d.offset, d.count)
	}
	return nil
}

func (d *Decoder[T]) Decode(dst []T) error {
	if err := d.check(len(dst)); err != nil {
		return err
	}
	for i := range dst {
		j := d.offset + i
		u := uint64(0)
		for k := 0; k < d.size; k++ {
			u |= uint64(d.data[k*d.count+j]) << (8 * uint(k))
		}
		dst[i] = d.load(u)
	}
	d.offset += len(dst)
	return nil
}

func (d *Decoder[T]) Skip(n int) error {
	if err := d.check(n); err != nil {
		return err
	}
	d.offset += n
	return nil
}

// AppendFloat appends the byte stream split encoding of values to dst.
func AppendFloat(dst []byte, values []float32) []byte {
	offset := len(dst)
	dst = append(dst, make([]byte, 4*len(values))...)
	for i, v := range values {
		u := math.Float32bits(v)
		for k := 0; k < 4; k++ {
			dst[offset+k*len(values)+i] = byte(u >> (8 * uint(k)))
		}
	}
	return dst
}

// AppendDouble appends the byte stream split encoding of values to dst.
func AppendDouble(dst []byte, values []float64) []byte {
	offset := len(dst)
	dst = append(dst, make([]byte, 8*len(values))...)
	for i, v := range values {
		u := math.Float64bits(v)
		for k := 0; k < 8; k++ {
			dst[offset+k*len(values)+i] = byte(u >> (8 * uint(k)))
		}
	}
	return dst
}
