// Package plain implements the PLAIN parquet encoding.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#plain-plain--0
package plain

import (
	"encoding/binary"
	"math"

	"github.com/segmentio/parquet-flat/cursor"
	"github.com/segmentio/parquet-flat/deprecated"
	"github.com/segmentio/parquet-flat/encoding"
	"github.com/segmentio/parquet-flat/format"
)

const (
	ByteArrayLengthSize = 4
	MaxByteArrayLength  = math.MaxInt32
)

// Decoder decodes a sequence of fixed width values.
type Decoder[T any] struct {
	cursor *cursor.Cursor
	size   int
	load   func([]byte) T
}

func newDecoder[T any](data []byte, size int, load func([]byte) T) *Decoder[T] {
	return &Decoder[T]{cursor: cursor.New(data), size: size, load: load}
}

func NewInt32Decoder(data []byte) *Decoder[int32] {
	return newDecoder(data, 4, func(b []byte) int32 {
		return int32(binary.LittleEndian.Uint32(b))
	})
}

func NewInt64Decoder(data []byte) *Decoder[int64] {
	return newDecoder(data, 8, func(b []byte) int64 {
		return int64(binary.LittleEndian.Uint64(b))
	})
}

func NewInt96Decoder(data []byte) *Decoder[deprecated.Int96] {
	return newDecoder(data, deprecated.Int96Size, deprecated.Int96FromBytes)
}

func NewFloatDecoder(data []byte) *Decoder[float32] {
	return newDecoder(data, 4, func(b []byte) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	})
}

func NewDoubleDecoder(data []byte) *Decoder[float64] {
	return newDecoder(data, 8, func(b []byte) float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	})
}

// NewFixedLenByteArrayDecoder returns a decoder of values of size bytes. The
// decoded values are views of data and must not be modified.
func NewFixedLenByteArrayDecoder(data []byte, size int) (*Decoder[[]byte], error) {
	if size <= 0 {
		return nil, encoding.Errorf(format.Plain, "invalid FIXED_LEN_BYTE_ARRAY size: %d: %w", size, encoding.ErrInvalidArgument)
	}
	return newDecoder(data, size, func(b []byte) []byte { return b[:size:size] }), nil
}

func (d *Decoder[T]) Decode(dst []T) error {
	b, err := d.cursor.ReadFixedWidth(len(dst) * d.size)
	if err != nil {
		return encoding.Error(format.Plain, err)
	}
	for i := range dst {
		dst[i] = d.load(b[i*d.size:])
	}
	return nil
}

func (d *Decoder[T]) Skip(n int) error {
	if err := d.cursor.Skip(n * d.size); err != nil {
		return encoding.Error(format.Plain, err)
	}
	return nil
}

// BooleanDecoder decodes booleans bit-packed least significant bit first.
// The position within the current byte is kept between calls.
type BooleanDecoder struct {
	cursor *cursor.Cursor
	bits   byte
	offset uint
}

func NewBooleanDecoder(data []byte) *BooleanDecoder {
	return &BooleanDecoder{cursor: cursor.New(data), offset: 8}
}

func (d *BooleanDecoder) next() (bool, error) {
	if d.offset == 8 {
		b, err := d.cursor.ReadByte()
		if err != nil {
			return false, encoding.Error(format.Plain, err)
		}
		d.bits, d.offset = b, 0
	}
	v := (d.bits>>d.offset)&1 != 0
	d.offset++
	return v, nil
}

func (d *BooleanDecoder) Decode(dst []bool) error {
	for i := range dst {
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (d *BooleanDecoder) Skip(n int) error {
	// Consume the bits left in the current byte, then whole bytes.
	for n > 0 && d.offset < 8 {
		d.offset++
		n--
	}
	if whole := n / 8; whole > 0 {
		if err := d.cursor.Skip(whole); err != nil {
			return encoding.Error(format.Plain, err)
		}
		n -= 8 * whole
	}
	for ; n > 0; n-- {
		if _, err := d.next(); err != nil {
			return err
		}
	}
	return nil
}

// ByteArrayDecoder decodes length prefixed byte arrays. The decoded values are
// views of the page data and must not be modified.
type ByteArrayDecoder struct {
	cursor *cursor.Cursor
}

func NewByteArrayDecoder(data []byte) *ByteArrayDecoder {
	return &ByteArrayDecoder{cursor: cursor.New(data)}
}

func (d *ByteArrayDecoder) next() ([]byte, error) {
	n, err := d.cursor.ReadUint32()
	if err != nil {
		return nil, encoding.Error(format.Plain, err)
	}
	if n > MaxByteArrayLength {
		return nil, encoding.Errorf(format.Plain, "byte array length %d is too large: %w", n, encoding.ErrInvalidArgument)
	}
	b, err := d.cursor.ReadFixedWidth(int(n))
	if err != nil {
		return nil, encoding.Error(format.Plain, err)
	}
	return b, nil
}

func (d *ByteArrayDecoder) Decode(dst [][]byte) error {
	for i := range dst {
		b, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = b
	}
	return nil
}

func (d *ByteArrayDecoder) Skip(n int) error {
	for ; n > 0; n-- {
		if _, err := d.next(); err != nil {
			return err
		}
	}
	return nil
}
