package rle

import (
	"encoding/binary"

	"github.com/segmentio/parquet-flat/internal/bits"
)

// minRunLength is the shortest sequence of repeated values that the encoder
// writes as a run-length run; shorter repetitions are bit-packed.
const minRunLength = 8

// AppendUint32 appends the hybrid encoding of values using bitWidth bits per
// value to dst. The high bits of values wider than bitWidth are discarded.
func AppendUint32(dst []byte, values []uint32, bitWidth uint) []byte {
	for i := 0; i < len(values); {
		j := i + runLength(values[i:])
		if j-i >= minRunLength {
			dst = appendRunLength(dst, j-i, values[i], bitWidth)
			i = j
			continue
		}

		// Accumulate values until the next long run, then extend the
		// bit-packed section to a multiple of 8 by borrowing from that run.
		k := j
		for k < len(values) {
			n := runLength(values[k:])
			if n >= minRunLength {
				break
			}
			k += n
		}
		if r := (k - i) % 8; r != 0 && k < len(values) {
			k += 8 - r
		}
		dst = appendBitPacked(dst, values[i:k], bitWidth)
		i = k
	}
	return dst
}

// AppendLengthPrefixed is like AppendUint32 but prefixes the stream with its
// length as a 4 bytes little-endian integer.
func AppendLengthPrefixed(dst []byte, values []uint32, bitWidth uint) []byte {
	offset := len(dst)
	dst = append(dst, 0, 0, 0, 0)
	dst = AppendUint32(dst, values, bitWidth)
	binary.LittleEndian.PutUint32(dst[offset:], uint32(len(dst)-(offset+LengthPrefixSize)))
	return dst
}

// AppendLevels appends the length prefixed encoding of levels to dst.
func AppendLevels(dst []byte, levels []byte, bitWidth uint) []byte {
	values := make([]uint32, len(levels))
	for i, lvl := range levels {
		values[i] = uint32(lvl)
	}
	return AppendLengthPrefixed(dst, values, bitWidth)
}

// AppendBoolean appends the length prefixed encoding of values to dst, which is
// the layout of RLE encoded boolean pages.
func AppendBoolean(dst []byte, values []bool) []byte {
	u := make([]uint32, len(values))
	for i, v := range values {
		if v {
			u[i] = 1
		}
	}
	return AppendLengthPrefixed(dst, u, 1)
}

// AppendIndexes appends dictionary indexes to dst, starting with the bit
// width byte.
func AppendIndexes(dst []byte, indexes []uint32) []byte {
	bitWidth := uint(bits.MaxLen32(indexes))
	dst = append(dst, byte(bitWidth))
	return AppendUint32(dst, indexes, bitWidth)
}

func runLength(values []uint32) int {
	n := 1
	for n < len(values) && values[n] == values[0] {
		n++
	}
	return n
}

func appendRunLength(dst []byte, count int, value uint32, bitWidth uint) []byte {
	dst = binary.AppendUvarint(dst, uint64(count)<<1)
	for i := 0; i < bits.ByteCount(bitWidth); i++ {
		dst = append(dst, byte(value>>(8*uint(i))))
	}
	return dst
}

func appendBitPacked(dst []byte, values []uint32, bitWidth uint) []byte {
	groups := (len(values) + 7) / 8
	dst = binary.AppendUvarint(dst, uint64(groups)<<1|1)

	padded := make([]uint32, 8*groups)
	copy(padded, values)

	offset := len(dst)
	size := groups * int(bitWidth)
	dst = append(dst, make([]byte, size)...)
	bits.Pack32(dst[offset:], padded, bitWidth)
	return dst
}
