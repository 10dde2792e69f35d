package bits

import "math/bits"

func BitCount(count int) uint {
	return 8 * uint(count)
}

func ByteCount(count uint) int {
	return int((count + 7) / 8)
}

// MaxLen32 returns the number of bits needed to represent the largest value
// of data.
func MaxLen32(data []uint32) int {
	max := uint32(0)
	for _, v := range data {
		max |= v
	}
	return bits.Len32(max)
}

// Unpack32 reads len(dst) values of bitWidth bits from src, least significant
// bit first, which is the order used by parquet bit-packed runs.
//
// The function panics if src is shorter than ByteCount(len(dst)*bitWidth) or
// if bitWidth is greater than 32.
func Unpack32(dst []uint32, src []byte, bitWidth uint) {
	if bitWidth == 0 || len(dst) == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	_ = src[ByteCount(uint(len(dst))*bitWidth)-1]
	mask := uint64(1)<<bitWidth - 1
	bitOffset := uint(0)

	for i := range dst {
		j := bitOffset / 8
		k := bitOffset % 8
		// A value of up to 32 bits starting at any bit offset spans at most
		// 5 bytes.
		word := uint64(0)
		for b := uint(0); b < 5 && int(j+b) < len(src); b++ {
			word |= uint64(src[j+b]) << (8 * b)
		}
		dst[i] = uint32((word >> k) & mask)
		bitOffset += bitWidth
	}
}

// Pack32 is the inverse of Unpack32, it writes the values of src to dst using
// bitWidth bits per value. The high bits of values that do not fit in
// bitWidth are discarded.
func Pack32(dst []byte, src []uint32, bitWidth uint) {
	n := ByteCount(uint(len(src)) * bitWidth)
	for i := range dst[:n] {
		dst[i] = 0
	}
	if bitWidth == 0 {
		return
	}
	mask := uint64(1)<<bitWidth - 1
	bitOffset := uint(0)

	for _, v := range src {
		word := (uint64(v) & mask) << (bitOffset % 8)
		for j := bitOffset / 8; word != 0; j++ {
			dst[j] |= byte(word)
			word >>= 8
		}
		bitOffset += bitWidth
	}
}
