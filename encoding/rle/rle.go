// Package rle implements the hybrid RLE/Bit-Packed encoding employed for
// repetition and definition levels, dictionary indexes and boolean values in
// the parquet format.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#run-length-encoding--bit-packing-hybrid-rle--3
package rle

import (
	"encoding/binary"
	"math"

	"github.com/segmentio/parquet-flat/cursor"
	"github.com/segmentio/parquet-flat/encoding"
	"github.com/segmentio/parquet-flat/format"
	"github.com/segmentio/parquet-flat/internal/bits"
)

const (
	// MaxBitWidth is the largest bit width supported by the decoder.
	MaxBitWidth = 32

	// LengthPrefixSize is the size of the little-endian length that precedes
	// the hybrid stream of levels in data pages v1 and of RLE booleans.
	LengthPrefixSize = 4
)

// Decoder reads values from a hybrid RLE/Bit-Packed stream.
//
// The decoder remembers the run it is positioned in: the remaining count and
// value of a repeated run, or the unpacked group of 8 values and the number of
// groups left in a bit-packed run. Decode and Skip calls may therefore split
// runs at any position.
type Decoder struct {
	cursor   cursor.Cursor
	bitWidth uint

	runLength int
	runValue  uint32

	packedGroups int
	group        [8]uint32
	groupOffset  int
	groupLength  int
}

// NewDecoder returns a decoder reading values of bitWidth bits from data.
func NewDecoder(data []byte, bitWidth uint) (*Decoder, error) {
	d := new(Decoder)
	if err := d.Reset(data, bitWidth); err != nil {
		return nil, err
	}
	return d, nil
}

// NewLengthPrefixedDecoder returns a decoder for the hybrid stream embedded in
// data after a 4 bytes little-endian length, and the bytes that follow it.
func NewLengthPrefixedDecoder(data []byte, bitWidth uint) (*Decoder, []byte, error) {
	c := cursor.New(data)
	n, err := c.ReadUint32()
	if err != nil {
		return nil, nil, encoding.Errorf(format.RLE, "reading length prefix: %w", err)
	}
	if n > math.MaxInt32 {
		return nil, nil, encoding.Errorf(format.RLE, "length prefix %d is too large: %w", n, encoding.ErrInvalidArgument)
	}
	b, err := c.ReadFixedWidth(int(n))
	if err != nil {
		return nil, nil, encoding.Errorf(format.RLE, "reading length prefixed stream: %w", err)
	}
	d, err := NewDecoder(b, bitWidth)
	if err != nil {
		return nil, nil, err
	}
	return d, c.Remaining(), nil
}

// NewIndexDecoder returns a decoder for dictionary indexes, where the first
// byte of data holds the bit width of the stream.
func NewIndexDecoder(data []byte) (*Decoder, error) {
	if len(data) == 0 {
		// A page with only null values has no index stream.
		return NewDecoder(nil, 0)
	}
	return NewDecoder(data[1:], uint(data[0]))
}

// Reset positions the decoder at the beginning of data.
func (d *Decoder) Reset(data []byte, bitWidth uint) error {
	if bitWidth > MaxBitWidth {
		return encoding.Errorf(format.RLE, "bit width %d is too large: %w", bitWidth, encoding.ErrInvalidArgument)
	}
	*d = Decoder{bitWidth: bitWidth}
	d.cursor.Reset(data)
	return nil
}

// BitWidth returns the width of the values read by d.
func (d *Decoder) BitWidth() uint { return d.bitWidth }

// DecodeUint32 fills dst with the next len(dst) values.
func (d *Decoder) DecodeUint32(dst []uint32) error {
	return decode(d, dst, func(v uint32) uint32 { return v })
}

// DecodeInt32 fills dst with the next len(dst) values.
func (d *Decoder) DecodeInt32(dst []int32) error {
	return decode(d, dst, func(v uint32) int32 { return int32(v) })
}

// DecodeLevels fills dst with the next len(dst) levels. The bit width must be
// at most 8.
func (d *Decoder) DecodeLevels(dst []byte) error {
	if d.bitWidth > 8 {
		return encoding.Errorf(format.RLE, "cannot decode levels of %d bits: %w", d.bitWidth, encoding.ErrInvalidArgument)
	}
	return decode(d, dst, func(v uint32) byte { return byte(v) })
}

// DecodeBoolean fills dst with the next len(dst) values, converting non-zero
// values to true.
func (d *Decoder) DecodeBoolean(dst []bool) error {
	return decode(d, dst, func(v uint32) bool { return v != 0 })
}

// Skip discards the next n values.
func (d *Decoder) Skip(n int) error {
	for n > 0 {
		if err := d.fill(); err != nil {
			return err
		}
		if d.runLength > 0 {
			k := min(n, d.runLength)
			d.runLength -= k
			n -= k
		} else {
			k := min(n, d.groupLength-d.groupOffset)
			d.groupOffset += k
			n -= k
		}
	}
	return nil
}

func decode[T any](d *Decoder, dst []T, conv func(uint32) T) error {
	for i := 0; i < len(dst); {
		if err := d.fill(); err != nil {
			return err
		}
		if d.runLength > 0 {
			n := min(len(dst)-i, d.runLength)
			v := conv(d.runValue)
			for j := i; j < i+n; j++ {
				dst[j] = v
			}
			d.runLength -= n
			i += n
		} else {
			n := min(len(dst)-i, d.groupLength-d.groupOffset)
			for j, v := range d.group[d.groupOffset : d.groupOffset+n] {
				dst[i+j] = conv(v)
			}
			d.groupOffset += n
			i += n
		}
	}
	return nil
}

// fill makes sure that at least one value is available in the current run.
func (d *Decoder) fill() error {
	for d.runLength == 0 && d.groupOffset == d.groupLength {
		if d.packedGroups > 0 {
			return d.loadGroup()
		}
		if err := d.readHeader(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readHeader() error {
	header, err := binary.ReadUvarint(&d.cursor)
	if err != nil {
		return encoding.Errorf(format.RLE, "decoding run header at offset %d: %w", d.cursor.Offset(), err)
	}

	count := header >> 1
	if count > math.MaxInt32 {
		return encoding.Errorf(format.RLE, "run of %d values is too long: %w", count, encoding.ErrInvalidArgument)
	}

	if (header & 1) != 0 {
		d.packedGroups = int(count)
		return nil
	}

	b, err := d.cursor.ReadFixedWidth(bits.ByteCount(d.bitWidth))
	if err != nil {
		return encoding.Errorf(format.RLE, "decoding repeated value of run of length %d: %w", count, err)
	}
	v := uint32(0)
	for i, c := range b {
		v |= uint32(c) << (8 * uint(i))
	}
	d.runLength = int(count)
	d.runValue = v
	return nil
}

// loadGroup unpacks the next group of 8 values of the current bit-packed run.
// Writers may omit the trailing bytes of the last group; only the values whose
// bits are all present are handed out, and the stream ends after them.
func (d *Decoder) loadGroup() error {
	size := int(d.bitWidth) // 8 values x bitWidth bits
	n := min(size, d.cursor.Len())

	length := len(d.group)
	if n < size {
		length = n * 8 / size
	}
	if length == 0 {
		_, err := d.cursor.ReadFixedWidth(size)
		return encoding.Errorf(format.RLE, "decoding bit-packed group: %w", err)
	}

	var buf [MaxBitWidth]byte
	b, err := d.cursor.ReadFixedWidth(n)
	if err != nil {
		return encoding.Errorf(format.RLE, "decoding bit-packed group: %w", err)
	}
	copy(buf[:], b)
	bits.Unpack32(d.group[:], buf[:size], d.bitWidth)

	d.packedGroups--
	if length < len(d.group) {
		d.packedGroups = 0
	}
	d.groupOffset = 0
	d.groupLength = length
	return nil
}
